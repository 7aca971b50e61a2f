package routes

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freekieb7/rawhttp/filesystem"
	"github.com/freekieb7/rawhttp/http"
	"github.com/freekieb7/rawhttp/test"
)

const root = "/srv/site"

func newRouter(files map[string][]byte) *http.Router {
	fs := filesystem.NewMemoryFileSystem(files)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := http.NewRouter(filesystem.NewPublicDir(fs, filepath.Join(root, "public")), http.DefaultAPIPrefix, logger)
	Register(router, fs, root)

	return router
}

func get(router *http.Router, path string, query map[string]string) http.Response {
	if query == nil {
		query = map[string]string{}
	}
	return router.Dispatch(&http.RequestCtx{
		Method:   http.MethodGet,
		Path:     path,
		Protocol: "HTTP/1.1",
		Query:    query,
		Headers:  http.Headers{},
	})
}

func TestIndexUsesTemplate(t *testing.T) {
	router := newRouter(map[string][]byte{
		filepath.Join(root, "wwwroot", "index.html"): []byte("<html><body>custom</body></html>"),
	})

	for _, path := range []string{"/", "/index", "/index.html"} {
		res := get(router, path, nil)
		assert.Equal(t, http.StatusOK, res.Status(), path)
		assert.Equal(t, http.ContentTypeTextHTML, res.ContentType(), path)
		assert.Equal(t, "<html><body>custom</body></html>", res.Content(), path)
	}
}

func TestIndexFallsBackToDefaultPage(t *testing.T) {
	res := get(newRouter(nil), "/", nil)

	assert.Equal(t, http.StatusOK, res.Status())
	assert.Equal(t, http.ContentTypeTextHTML, res.ContentType())
	assert.Contains(t, res.Content(), "<html>")
}

func TestJSON(t *testing.T) {
	now := func() time.Time { return time.Date(2024, time.March, 1, 12, 30, 0, 0, time.UTC) }

	router := newRouter(nil)
	res := JSON(now)(&http.RequestCtx{Method: http.MethodGet, Path: "/json"})

	assert.Equal(t, http.StatusOK, res.Status())
	assert.Equal(t, http.ContentTypeJSON, res.ContentType())

	var doc map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.Content()), &doc))
	assert.Equal(t, "Hello from the server!", doc["message"])
	assert.Equal(t, "2024-03-01 12:30:00", doc["timestamp"])
	assert.Equal(t, "1.0", doc["version"])

	routed := get(router, "/json", nil)
	assert.Equal(t, http.ContentTypeJSON, routed.ContentType())
}

func TestTime(t *testing.T) {
	instant := time.Date(2024, time.March, 1, 12, 30, 0, 500, time.UTC)
	res := Time(func() time.Time { return instant })(&http.RequestCtx{Method: http.MethodGet, Path: "/api/time"})

	var doc map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.Content()), &doc))

	utc, err := time.Parse(time.RFC3339Nano, doc["utc"])
	require.NoError(t, err)
	assert.True(t, instant.Equal(utc))

	local, err := time.Parse(time.RFC3339Nano, doc["local"])
	require.NoError(t, err)
	assert.True(t, instant.Equal(local))

	assert.NotEmpty(t, doc["timezone"])
}

func TestHello(t *testing.T) {
	router := newRouter(nil)

	res := get(router, "/hello", nil)
	assert.Equal(t, http.ContentTypeTextPlain, res.ContentType())
	assert.Equal(t, "Hello Guest", res.Content())

	res = get(router, "/hello", map[string]string{"name": "World"})
	assert.Equal(t, "Hello World", res.Content())
}

func TestUnknownPathIsNotFound(t *testing.T) {
	res := get(newRouter(nil), "/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, res.Status())
}

func TestRoutesOverTheWire(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem(map[string][]byte{
		filepath.Join(root, "public", "robots.txt"): []byte("User-agent: *\n"),
	})

	server, err := http.NewServer(http.Config{
		Root:       root,
		Filesystem: fs,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	Register(server.Router(), fs, root)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx, listener)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	addr := listener.Addr().String()

	resp, body := test.Get(t, addr, "/hello?name=Wire%20Test")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "Hello Wire Test", body)

	resp, body = test.Get(t, addr, "/")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, body, "<html>")

	resp, body = test.Get(t, addr, "/robots.txt")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "User-agent: *\n", body)

	resp, _ = test.Get(t, addr, "/does-not-exist")
	assert.Equal(t, 404, resp.StatusCode)
}
