package filesystem

import "strings"

const (
	ContentTypeTextPlain       = "text/plain; charset=UTF-8"
	ContentTypeTextHTML        = "text/html; charset=UTF-8"
	ContentTypeTextCSS         = "text/css; charset=UTF-8"
	ContentTypeApplicationJSON = "application/json; charset=UTF-8"
	ContentTypeJavascript      = "application/javascript"
	ContentTypeOctetStream     = "application/octet-stream"
	ContentTypeImagePNG        = "image/png"
	ContentTypeImageJPEG       = "image/jpeg"
	ContentTypeImageGIF        = "image/gif"
	ContentTypeImageSVG        = "image/svg+xml"
)

var contentTypes = map[string]string{
	".html": ContentTypeTextHTML,
	".css":  ContentTypeTextCSS,
	".js":   ContentTypeJavascript,
	".json": ContentTypeApplicationJSON,
	".txt":  ContentTypeTextPlain,
	".png":  ContentTypeImagePNG,
	".jpg":  ContentTypeImageJPEG,
	".jpeg": ContentTypeImageJPEG,
	".gif":  ContentTypeImageGIF,
	".svg":  ContentTypeImageSVG,
}

// ContentTypeByExtension maps a file extension such as ".html" to its MIME
// type, case-insensitively. Unknown extensions are application/octet-stream.
func ContentTypeByExtension(extension string) string {
	if contentType, ok := contentTypes[strings.ToLower(extension)]; ok {
		return contentType
	}
	return ContentTypeOctetStream
}

// ContentType returns the MIME type for the file at path.
func ContentType(path string) string {
	return ContentTypeByExtension(GetFileExtension(path))
}
