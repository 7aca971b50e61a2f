package routes

import (
	"log/slog"

	"github.com/freekieb7/rawhttp/filesystem"
	"github.com/freekieb7/rawhttp/http"
)

const defaultIndexPage = `<!DOCTYPE html>
<html>
<head><title>rawhttp</title></head>
<body>
<h1>rawhttp</h1>
<p>An HTTP/1.1 server written on top of plain TCP sockets.</p>
<ul>
<li><a href="/json">/json</a></li>
<li><a href="/api/time">/api/time</a></li>
<li><a href="/hello?name=World">/hello?name=World</a></li>
</ul>
</body>
</html>
`

// Index serves the page template at templatePath, falling back to a
// built-in page when the template cannot be read.
func Index(fs filesystem.Filesystem, templatePath string) http.HandlerFunc {
	return func(reqCtx *http.RequestCtx) http.Response {
		page, err := fs.ReadFile(templatePath)
		if err != nil {
			slog.WarnContext(reqCtx.Context(), "index template unavailable, using default page",
				"path", templatePath,
				"error", err,
			)
			return http.HTML(http.StatusOK, defaultIndexPage)
		}

		return http.NewResponse(http.StatusOK, http.ContentTypeTextHTML, page)
	}
}
