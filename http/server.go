package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/freekieb7/rawhttp/filesystem"
)

const (
	DefaultName           = "rawhttp/1.0"
	DefaultAddr           = ":8080"
	DefaultAPIPrefix      = "/api/"
	DefaultMaxConnections = 100
	DefaultIdleTimeout    = 30 * time.Second

	DefaultReadBufferSize  = 4096 // 4kB
	DefaultWriteBufferSize = 4096 // 4kB

	maxAcceptDelay = time.Second
)

// ErrServerClosed is returned by Serve and Start after Shutdown.
var ErrServerClosed = errors.New("http: server closed")

// Config configures a Server. Zero fields take the defaults above; Root
// defaults to the working directory and static files are served from
// Root/public.
type Config struct {
	Name           string
	Addr           string
	Root           string
	APIPrefix      string
	MaxConnections int
	IdleTimeout    time.Duration
	ReusePort      bool

	Filesystem filesystem.Filesystem
	Logger     *slog.Logger
	Now        func() time.Time
}

func (config Config) withDefaults() Config {
	if config.Name == "" {
		config.Name = DefaultName
	}
	if config.Addr == "" {
		config.Addr = DefaultAddr
	}
	if config.Root == "" {
		config.Root = "."
	}
	if config.APIPrefix == "" {
		config.APIPrefix = DefaultAPIPrefix
	}
	if config.MaxConnections <= 0 {
		config.MaxConnections = DefaultMaxConnections
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultIdleTimeout
	}
	if config.Filesystem == nil {
		config.Filesystem = filesystem.NewLocalFileSystem()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return config
}

// Server accepts TCP connections and answers one HTTP request on each.
type Server struct {
	config  Config
	router  *Router
	limiter *connLimiter
	metrics *serverMetrics
	logger  *slog.Logger

	conns    *xsync.MapOf[uuid.UUID, net.Conn]
	inFlight sync.WaitGroup
	running  atomic.Bool

	// mu orders inFlight.Add against the Wait in Shutdown.
	mu       sync.Mutex
	shutdown bool
}

func NewServer(config Config) (*Server, error) {
	config = config.withDefaults()

	metrics, err := newServerMetrics()
	if err != nil {
		return nil, fmt.Errorf("http: creating instruments: %w", err)
	}

	static := filesystem.NewPublicDir(config.Filesystem, filepath.Join(config.Root, "public"))

	return &Server{
		config:  config,
		router:  NewRouter(static, config.APIPrefix, config.Logger),
		limiter: newConnLimiter(config.MaxConnections),
		metrics: metrics,
		logger:  config.Logger,
		conns:   xsync.NewMapOf[uuid.UUID, net.Conn](),
	}, nil
}

// Router returns the server's router. Routes and middleware must be added
// before Start or Serve is called.
func (s *Server) Router() *Router {
	return s.router
}

func (s *Server) Config() Config {
	return s.config
}

// Running reports whether the accept loop is active.
func (s *Server) Running() bool {
	return s.running.Load()
}

// ActiveConnections returns the number of connections being handled.
func (s *Server) ActiveConnections() int {
	return s.conns.Size()
}

// Start binds Config.Addr and serves until ctx is cancelled. A bind failure
// is returned; calling Start while the server is running does nothing.
func (s *Server) Start(ctx context.Context) error {
	if s.isShutdown() {
		return ErrServerClosed
	}
	if s.running.Load() {
		s.logger.Warn("server already running", "addr", s.config.Addr)
		return nil
	}

	var lc net.ListenConfig
	if s.config.ReusePort {
		if !reusePortSupported {
			s.logger.Warn("SO_REUSEPORT is not supported on this platform")
		}
		lc.Control = reusePortControl
	}

	listener, err := lc.Listen(ctx, "tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("http: listen on %s: %w", s.config.Addr, err)
	}

	return s.Serve(ctx, listener)
}

// Serve runs the accept loop on listener until ctx is cancelled or the
// listener fails. A permit is taken before every Accept, so at most
// MaxConnections connections are handled at once. Cancellation closes the
// listener but leaves accepted connections to finish on their own.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if s.isShutdown() {
		listener.Close()
		return ErrServerClosed
	}
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("server already running", "addr", listener.Addr().String())
		return nil
	}
	defer s.running.Store(false)

	s.router.freeze()

	stop := context.AfterFunc(ctx, func() {
		listener.Close()
	})
	defer stop()
	defer listener.Close()

	addr := listener.Addr().String()
	s.logger.Info("server started",
		"addr", addr,
		"max_connections", s.config.MaxConnections,
	)

	workerCtx := context.WithoutCancel(ctx)

	var acceptDelay time.Duration
	for {
		p, err := s.limiter.Acquire(ctx)
		if err != nil {
			break
		}

		conn, err := listener.Accept()
		if err != nil {
			p.Release()

			if ctx.Err() != nil {
				break
			}
			if errors.Is(err, net.ErrClosed) {
				s.logger.Error("listener closed", "addr", addr, "error", err)
				return fmt.Errorf("http: accept on %s: %w", addr, err)
			}

			if acceptDelay == 0 {
				acceptDelay = 5 * time.Millisecond
			} else {
				acceptDelay = min(2*acceptDelay, maxAcceptDelay)
			}
			s.logger.Error("accepting connection failed", "error", err, "retry_in", acceptDelay)

			select {
			case <-time.After(acceptDelay):
			case <-ctx.Done():
			}
			continue
		}
		acceptDelay = 0

		if !s.trackConn() {
			conn.Close()
			p.Release()
			break
		}
		go s.serveConn(workerCtx, &idleTimeoutConn{Conn: conn, timeout: s.config.IdleTimeout}, p)
	}

	s.logger.Info("server stopped", "addr", addr)
	return nil
}

// Shutdown stops admitting connections and waits for those still being
// handled. When ctx ends first the remaining connections are closed and
// ctx.Err returned. A server cannot serve again after Shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.conns.Range(func(id uuid.UUID, conn net.Conn) bool {
			s.logger.Warn("closing connection at shutdown", "request_id", id.String())
			conn.Close()
			return true
		})
		return ctx.Err()
	}
}

// trackConn counts an accepted connection as in flight unless Shutdown has
// started.
func (s *Server) trackConn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shutdown {
		return false
	}
	s.inFlight.Add(1)
	return true
}

func (s *Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown
}

// idleTimeoutConn pushes the deadline forward before every read and write,
// so a connection only times out after IdleTimeout without progress.
type idleTimeoutConn struct {
	net.Conn
	timeout time.Duration
}

func (c *idleTimeoutConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}

func (c *idleTimeoutConn) Write(p []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Write(p)
}
