package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"
)

const (
	ContentTypeTextPlain = "text/plain; charset=UTF-8"
	ContentTypeTextHTML  = "text/html; charset=UTF-8"
	ContentTypeJSON      = "application/json; charset=UTF-8"

	dateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"
)

// Response is an immutable HTTP response. Its content length is always
// derived from the content, so the Content-Length header cannot disagree
// with the body. The zero Response has no status and is answered with the
// 500 page.
type Response struct {
	status      StatusCode
	contentType string
	content     string
	headers     []Header
}

func NewResponse(status StatusCode, contentType string, content []byte) Response {
	return Response{
		status:      status,
		contentType: contentType,
		content:     string(content),
	}
}

func Text(status StatusCode, content string) Response {
	return Response{status: status, contentType: ContentTypeTextPlain, content: content}
}

func HTML(status StatusCode, content string) Response {
	return Response{status: status, contentType: ContentTypeTextHTML, content: content}
}

// JSON encodes payload with two-space indentation. A string payload is
// taken as already encoded.
func JSON(status StatusCode, payload any) (Response, error) {
	if s, ok := payload.(string); ok {
		return Response{status: status, contentType: ContentTypeJSON, content: s}, nil
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return Response{}, fmt.Errorf("response: encoding json failed: %w", err)
	}

	return Response{status: status, contentType: ContentTypeJSON, content: string(data)}, nil
}

// WithHeader returns a copy of res with one more supplementary header.
func (res Response) WithHeader(name, value string) Response {
	headers := make([]Header, len(res.headers), len(res.headers)+1)
	copy(headers, res.headers)
	res.headers = append(headers, Header{Name: name, Value: value})
	return res
}

func (res Response) Status() StatusCode {
	return res.status
}

func (res Response) ContentType() string {
	return res.contentType
}

func (res Response) Content() string {
	return res.content
}

// ContentLength is the byte length of the content, not its rune count.
func (res Response) ContentLength() int {
	return len(res.content)
}

func (res Response) Headers() []Header {
	return slices.Clone(res.headers)
}

// Write serializes res: status line, Content-Type, Content-Length, Server,
// Date, the supplementary headers in insertion order, a blank line and the
// body. The writer is flushed once at the end.
func (res Response) Write(bw *bufio.Writer, server string, date time.Time) error {
	bw.WriteString("HTTP/1.1 ")
	bw.WriteString(res.status.String())
	bw.WriteString("\r\n")

	writeHeader(bw, "Content-Type", res.contentType)
	writeHeader(bw, "Content-Length", strconv.Itoa(res.ContentLength()))
	writeHeader(bw, "Server", server)
	writeHeader(bw, "Date", date.UTC().Format(dateFormat))

	for _, h := range res.headers {
		writeHeader(bw, h.Name, h.Value)
	}

	bw.WriteString("\r\n")
	bw.WriteString(res.content)

	return bw.Flush()
}

func writeHeader(bw *bufio.Writer, name, value string) {
	bw.WriteString(name)
	bw.WriteString(": ")
	bw.WriteString(value)
	bw.WriteString("\r\n")
}

var (
	notFoundResponse            = HTML(StatusNotFound, "<html><body><h1>404 - Page Not Found</h1></body></html>")
	fileNotFoundResponse        = HTML(StatusNotFound, "<html><body><h1>404 - File Not Found</h1></body></html>")
	internalServerErrorResponse = HTML(StatusInternalServerError, "<html><body><h1>500 - Internal Server Error</h1></body></html>")
	requestTooLargeResponse     = HTML(StatusRequestEntityTooLarge, "<html><body><h1>413 - Request Entity Too Large</h1></body></html>")
)

// NotFound returns the fixed 404 page.
func NotFound() Response {
	return notFoundResponse
}

// InternalServerError returns the fixed 500 page.
func InternalServerError() Response {
	return internalServerErrorResponse
}
