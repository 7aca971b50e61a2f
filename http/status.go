package http

import "strconv"

// StatusCode is a numeric HTTP status. Its String form is the
// "<code> <reason>" pair written after the protocol on the status line.
type StatusCode uint16

const (
	StatusContinue           StatusCode = 100 // RFC 7231, 6.2.1
	StatusSwitchingProtocols StatusCode = 101 // RFC 7231, 6.2.2

	StatusOK        StatusCode = 200 // RFC 7231, 6.3.1
	StatusCreated   StatusCode = 201 // RFC 7231, 6.3.2
	StatusAccepted  StatusCode = 202 // RFC 7231, 6.3.3
	StatusNoContent StatusCode = 204 // RFC 7231, 6.3.5

	StatusMovedPermanently  StatusCode = 301 // RFC 7231, 6.4.2
	StatusFound             StatusCode = 302 // RFC 7231, 6.4.3
	StatusSeeOther          StatusCode = 303 // RFC 7231, 6.4.4
	StatusNotModified       StatusCode = 304 // RFC 7232, 4.1
	StatusTemporaryRedirect StatusCode = 307 // RFC 7231, 6.4.7
	StatusPermanentRedirect StatusCode = 308 // RFC 7538, 3

	StatusBadRequest            StatusCode = 400 // RFC 7231, 6.5.1
	StatusUnauthorized          StatusCode = 401 // RFC 7235, 3.1
	StatusForbidden             StatusCode = 403 // RFC 7231, 6.5.3
	StatusNotFound              StatusCode = 404 // RFC 7231, 6.5.4
	StatusMethodNotAllowed      StatusCode = 405 // RFC 7231, 6.5.5
	StatusRequestTimeout        StatusCode = 408 // RFC 7231, 6.5.7
	StatusConflict              StatusCode = 409 // RFC 7231, 6.5.8
	StatusLengthRequired        StatusCode = 411 // RFC 7231, 6.5.10
	StatusRequestEntityTooLarge StatusCode = 413 // RFC 7231, 6.5.11
	StatusUnsupportedMediaType  StatusCode = 415 // RFC 7231, 6.5.13
	StatusTeapot                StatusCode = 418 // RFC 7168, 2.3.3
	StatusTooManyRequests       StatusCode = 429 // RFC 6585, 4

	StatusInternalServerError     StatusCode = 500 // RFC 7231, 6.6.1
	StatusNotImplemented          StatusCode = 501 // RFC 7231, 6.6.2
	StatusBadGateway              StatusCode = 502 // RFC 7231, 6.6.3
	StatusServiceUnavailable      StatusCode = 503 // RFC 7231, 6.6.4
	StatusGatewayTimeout          StatusCode = 504 // RFC 7231, 6.6.5
	StatusHTTPVersionNotSupported StatusCode = 505 // RFC 7231, 6.6.6
)

const unknownStatusCode = "Unknown Status Code"

var statusMessages = map[StatusCode]string{
	StatusContinue:           "Continue",
	StatusSwitchingProtocols: "Switching Protocols",

	StatusOK:        "OK",
	StatusCreated:   "Created",
	StatusAccepted:  "Accepted",
	StatusNoContent: "No Content",

	StatusMovedPermanently:  "Moved Permanently",
	StatusFound:             "Found",
	StatusSeeOther:          "See Other",
	StatusNotModified:       "Not Modified",
	StatusTemporaryRedirect: "Temporary Redirect",
	StatusPermanentRedirect: "Permanent Redirect",

	StatusBadRequest:            "Bad Request",
	StatusUnauthorized:          "Unauthorized",
	StatusForbidden:             "Forbidden",
	StatusNotFound:              "Not Found",
	StatusMethodNotAllowed:      "Method Not Allowed",
	StatusRequestTimeout:        "Request Timeout",
	StatusConflict:              "Conflict",
	StatusLengthRequired:        "Length Required",
	StatusRequestEntityTooLarge: "Request Entity Too Large",
	StatusUnsupportedMediaType:  "Unsupported Media Type",
	StatusTeapot:                "I'm a teapot",
	StatusTooManyRequests:       "Too Many Requests",

	StatusInternalServerError:     "Internal Server Error",
	StatusNotImplemented:          "Not Implemented",
	StatusBadGateway:              "Bad Gateway",
	StatusServiceUnavailable:      "Service Unavailable",
	StatusGatewayTimeout:          "Gateway Timeout",
	StatusHTTPVersionNotSupported: "HTTP Version Not Supported",
}

// StatusText returns the reason phrase for code, or "Unknown Status Code".
func StatusText(code StatusCode) string {
	if text, ok := statusMessages[code]; ok {
		return text
	}
	return unknownStatusCode
}

// Code returns the numeric value.
func (code StatusCode) Code() int {
	return int(code)
}

func (code StatusCode) String() string {
	return strconv.Itoa(int(code)) + " " + StatusText(code)
}
