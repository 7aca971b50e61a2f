package http

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/freekieb7/rawhttp/filesystem"
)

const (
	MethodGet     = http.MethodGet
	MethodHead    = http.MethodHead
	MethodPost    = http.MethodPost
	MethodPut     = http.MethodPut
	MethodPatch   = http.MethodPatch
	MethodDelete  = http.MethodDelete
	MethodOptions = http.MethodOptions
)

// Handler produces the response for a routed request.
type Handler interface {
	ServeHTTP(reqCtx *RequestCtx) Response
}

type HandlerFunc func(reqCtx *RequestCtx) Response

func (f HandlerFunc) ServeHTTP(reqCtx *RequestCtx) Response {
	return f(reqCtx)
}

// Router holds the middleware list and the exact-match route table. Both
// are filled before serving starts and only read afterwards.
type Router struct {
	routes     map[string]Handler
	middleware []Middleware
	static     filesystem.PublicDir
	frozen     atomic.Bool
}

// NewRouter returns a router whose pipeline starts with the logging and
// static-file middleware.
func NewRouter(static filesystem.PublicDir, apiPrefix string, logger *slog.Logger) *Router {
	return &Router{
		routes: make(map[string]Handler),
		middleware: []Middleware{
			LoggingMiddleware(logger),
			StaticFileMiddleware(static, apiPrefix, logger),
		},
		static: static,
	}
}

func (router *Router) GET(path string, handler HandlerFunc) {
	router.AddRoute(MethodGet, path, handler)
}

func (router *Router) HEAD(path string, handler HandlerFunc) {
	router.AddRoute(MethodHead, path, handler)
}

func (router *Router) POST(path string, handler HandlerFunc) {
	router.AddRoute(MethodPost, path, handler)
}

func (router *Router) PUT(path string, handler HandlerFunc) {
	router.AddRoute(MethodPut, path, handler)
}

func (router *Router) PATCH(path string, handler HandlerFunc) {
	router.AddRoute(MethodPatch, path, handler)
}

func (router *Router) DELETE(path string, handler HandlerFunc) {
	router.AddRoute(MethodDelete, path, handler)
}

func (router *Router) OPTIONS(path string, handler HandlerFunc) {
	router.AddRoute(MethodOptions, path, handler)
}

// AddRoute registers handler for the method and path, replacing any handler
// already registered for the pair. It panics once the server is serving.
func (router *Router) AddRoute(method, path string, handler Handler) {
	router.mustNotBeFrozen()
	router.routes[strings.ToUpper(method)+" "+path] = handler
}

// Use appends middleware after the built-in ones. It panics once the
// server is serving.
func (router *Router) Use(middleware ...Middleware) {
	router.mustNotBeFrozen()
	router.middleware = append(router.middleware, middleware...)
}

// Route returns the handler registered for the exact method and path.
func (router *Router) Route(method, path string) (Handler, bool) {
	handler, found := router.routes[strings.ToUpper(method)+" "+path]
	return handler, found
}

// Dispatch runs the middleware pipeline and, if no middleware handled the
// request, the route table, the static-file fallback and finally 404.
func (router *Router) Dispatch(reqCtx *RequestCtx) Response {
	for _, middleware := range router.middleware {
		if res, handled := middleware.Process(reqCtx).Response(); handled {
			return res
		}
	}

	if handler, found := router.routes[reqCtx.routeKey()]; found {
		return handler.ServeHTTP(reqCtx)
	}

	if reqCtx.Method == MethodGet {
		if path, found := router.static.Lookup(reqCtx.Path); found {
			content, err := router.static.ReadFile(path)
			if err != nil {
				return fileNotFoundResponse
			}
			return NewResponse(StatusOK, filesystem.ContentType(path), content)
		}
	}

	return notFoundResponse
}

func (router *Router) freeze() {
	router.frozen.Store(true)
}

func (router *Router) mustNotBeFrozen() {
	if router.frozen.Load() {
		panic("http: routes and middleware must be registered before the server starts serving")
	}
}
