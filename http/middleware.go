package http

import (
	"log/slog"
	"strings"

	"github.com/freekieb7/rawhttp/filesystem"
)

// Outcome is what a middleware decides for a request: either it handled the
// request with a response, or the pipeline continues with the next step.
type Outcome struct {
	response Response
	handled  bool
}

// Handled stops the pipeline and answers with res.
func Handled(res Response) Outcome {
	return Outcome{response: res, handled: true}
}

// Continue passes the request on to the next middleware or the router.
func Continue() Outcome {
	return Outcome{}
}

func (o Outcome) Response() (Response, bool) {
	return o.response, o.handled
}

// Middleware intercepts a request before routing. Middleware run in
// registration order and all see the same RequestCtx.
type Middleware interface {
	Process(reqCtx *RequestCtx) Outcome
}

type MiddlewareFunc func(reqCtx *RequestCtx) Outcome

func (f MiddlewareFunc) Process(reqCtx *RequestCtx) Outcome {
	return f(reqCtx)
}

// LoggingMiddleware logs every request and never halts the pipeline.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return MiddlewareFunc(func(reqCtx *RequestCtx) Outcome {
		logger.InfoContext(reqCtx.Context(), "dispatching request",
			"method", reqCtx.Method,
			"path", reqCtx.Path,
			"client", reqCtx.RemoteAddr,
			"request_id", reqCtx.ID.String(),
		)
		return Continue()
	})
}

// StaticFileMiddleware answers GET requests outside apiPrefix with a file
// from dir when one exists at the request path. A file that cannot be read
// is logged and the pipeline continues.
func StaticFileMiddleware(dir filesystem.PublicDir, apiPrefix string, logger *slog.Logger) Middleware {
	return MiddlewareFunc(func(reqCtx *RequestCtx) Outcome {
		if reqCtx.Method != MethodGet {
			return Continue()
		}
		if apiPrefix != "" && strings.HasPrefix(reqCtx.Path, apiPrefix) {
			return Continue()
		}

		path, found := dir.Lookup(reqCtx.Path)
		if !found {
			return Continue()
		}

		content, err := dir.ReadFile(path)
		if err != nil {
			logger.ErrorContext(reqCtx.Context(), "serving static file failed",
				"path", path,
				"error", err,
			)
			return Continue()
		}

		return Handled(NewResponse(StatusOK, filesystem.ContentType(path), content))
	})
}
