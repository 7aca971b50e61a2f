package http

import (
	"context"

	"github.com/google/uuid"
)

// RequestCtx is the record built while parsing one request and handed
// through the middleware pipeline and router. Handlers may read every
// field; Query is filled once by the parser and must not be modified.
type RequestCtx struct {
	ID         uuid.UUID
	RemoteAddr string

	Method      string
	Path        string
	Protocol    string
	QueryString string
	Query       map[string]string
	Headers     Headers
	Body        []byte

	ctx context.Context
}

func newRequestCtx(ctx context.Context, id uuid.UUID, remoteAddr string) *RequestCtx {
	return &RequestCtx{
		ID:         id,
		RemoteAddr: remoteAddr,
		Query:      make(map[string]string),
		Headers:    Headers{},
		ctx:        ctx,
	}
}

// Context returns the request's context. It carries the request span and
// is not cancelled when the server stops accepting connections.
func (reqCtx *RequestCtx) Context() context.Context {
	if reqCtx.ctx == nil {
		return context.Background()
	}
	return reqCtx.ctx
}

// QueryValue returns the decoded query parameter or fallback when absent.
func (reqCtx *RequestCtx) QueryValue(name, fallback string) string {
	if v, ok := reqCtx.Query[name]; ok {
		return v
	}
	return fallback
}

func (reqCtx *RequestCtx) routeKey() string {
	return reqCtx.Method + " " + reqCtx.Path
}
