package http

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// serveConn owns conn from acceptance to close: it reads one request, runs
// it through the router and writes the response. Whatever happens, the
// connection is closed and its permit released.
func (s *Server) serveConn(ctx context.Context, conn net.Conn, p *permit) {
	id := uuid.New()
	remoteAddr := conn.RemoteAddr().String()

	s.conns.Store(id, conn)
	s.metrics.connOpened(ctx)

	defer func() {
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Debug("closing connection failed", "client", remoteAddr, "error", err)
		}
		s.conns.Delete(id)
		s.metrics.connClosed(ctx)
		p.Release()
		s.inFlight.Done()
	}()

	br := bufio.NewReaderSize(conn, DefaultReadBufferSize)
	bw := bufio.NewWriterSize(conn, DefaultWriteBufferSize)

	reqCtx := newRequestCtx(ctx, id, remoteAddr)

	res, respond := s.handle(ctx, reqCtx, br)
	if !respond {
		return
	}

	if err := res.Write(bw, s.config.Name, s.config.Now()); err != nil {
		if isDisconnect(err) {
			s.logger.Info("client disconnected before response was written", "client", remoteAddr, "request_id", id.String())
			return
		}
		s.logger.Error("writing response failed", "client", remoteAddr, "request_id", id.String(), "error", err)
		return
	}

	s.logger.Info("response sent",
		"status", res.Status().String(),
		"client", remoteAddr,
		"request_id", id.String(),
	)
}

// handle parses the request and produces its response. It reports false
// when nothing should be written back because the peer sent no request or
// went away mid-request.
func (s *Server) handle(ctx context.Context, reqCtx *RequestCtx, br *bufio.Reader) (Response, bool) {
	err := reqCtx.Read(br)
	switch {
	case err == nil:
	case errors.Is(err, ErrEmptyRequest):
		s.logger.Debug("connection closed without a request", "client", reqCtx.RemoteAddr)
		return Response{}, false
	case isDisconnect(err):
		s.logger.Info("client disconnected", "client", reqCtx.RemoteAddr, "error", err)
		return Response{}, false
	case errors.Is(err, ErrRequestTooLarge):
		s.logger.Warn("rejecting request", "client", reqCtx.RemoteAddr, "error", err)
		return requestTooLargeResponse, true
	default:
		s.logger.Error("parsing request failed", "client", reqCtx.RemoteAddr, "error", err)
		return internalServerErrorResponse, true
	}

	s.logger.Info("request received",
		"method", reqCtx.Method,
		"path", reqCtx.Path,
		"protocol", reqCtx.Protocol,
		"client", reqCtx.RemoteAddr,
		"request_id", reqCtx.ID.String(),
	)

	return s.dispatch(ctx, reqCtx), true
}

// dispatch runs the router inside a request span. A panic in middleware or
// a handler, or a zero Response, is turned into the 500 page.
func (s *Server) dispatch(ctx context.Context, reqCtx *RequestCtx) (res Response) {
	start := time.Now()
	spanCtx, span := s.metrics.startRequest(ctx, reqCtx)
	reqCtx.ctx = spanCtx

	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(spanCtx, "handling request panicked",
				"method", reqCtx.Method,
				"path", reqCtx.Path,
				"client", reqCtx.RemoteAddr,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			span.RecordError(fmt.Errorf("panic: %v", r))
			res = internalServerErrorResponse
		}
		s.metrics.endRequest(spanCtx, span, reqCtx.Method, res, start)
	}()

	res = s.router.Dispatch(reqCtx)
	if res.Status() == 0 {
		s.logger.ErrorContext(spanCtx, "handler returned a response without status",
			"method", reqCtx.Method,
			"path", reqCtx.Path,
			"client", reqCtx.RemoteAddr,
		)
		res = internalServerErrorResponse
	}
	return res
}

func isDisconnect(err error) bool {
	if errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
