package http

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkReader hands out at most numBytesPerRead bytes per Read, like a
// network connection delivering a request in pieces.
type chunkReader struct {
	data            string
	numBytesPerRead int
	pos             int
}

func (cr *chunkReader) Read(p []byte) (n int, err error) {
	if cr.pos >= len(cr.data) {
		return 0, io.EOF
	}
	endIndex := cr.pos + cr.numBytesPerRead
	if endIndex > len(cr.data) {
		endIndex = len(cr.data)
	}
	n = copy(p, cr.data[cr.pos:endIndex])
	cr.pos += n

	return n, nil
}

func readRequest(raw string) (*RequestCtx, error) {
	reqCtx := newRequestCtx(context.Background(), uuid.New(), "127.0.0.1:5000")
	err := reqCtx.Read(bufio.NewReader(strings.NewReader(raw)))
	return reqCtx, err
}

func TestRequestParse(t *testing.T) {
	reqCtx, err := readRequest("GET /test HTTP/1.1\r\nAccept: text/css\r\nConnection: keep-alive\r\nContent-Length: 0\r\n\r\n")
	require.NoError(t, err)

	assert.Equal(t, "GET", reqCtx.Method)
	assert.Equal(t, "/test", reqCtx.Path)
	assert.Equal(t, "HTTP/1.1", reqCtx.Protocol)
	assert.Empty(t, reqCtx.QueryString)
	assert.Empty(t, reqCtx.Query)
	assert.Nil(t, reqCtx.Body)

	h, found := reqCtx.Headers.Get("connection")
	require.True(t, found, "connection header not found")
	assert.Equal(t, "keep-alive", h)
}

func TestRequestParseInChunks(t *testing.T) {
	raw := "POST /submit-order?id=7 HTTP/1.1\r\nHost: localhost:8080\r\nContent-Length: 6\r\n\r\nNew PC"

	for _, chunk := range []int{1, 2, 3, 7, len(raw)} {
		reqCtx := newRequestCtx(context.Background(), uuid.New(), "")
		err := reqCtx.Read(bufio.NewReaderSize(&chunkReader{data: raw, numBytesPerRead: chunk}, 16))
		require.NoError(t, err, "chunk size %d", chunk)

		assert.Equal(t, "POST", reqCtx.Method)
		assert.Equal(t, "/submit-order", reqCtx.Path)
		assert.Equal(t, "7", reqCtx.Query["id"])
		assert.Equal(t, "New PC", string(reqCtx.Body))

		host, _ := reqCtx.Headers.Get("Host")
		assert.Equal(t, "localhost:8080", host, "value split on the first colon only")
	}
}

func TestRequestParseQuery(t *testing.T) {
	reqCtx, err := readRequest("GET /path?name=Hello&value=World! HTTP/1.1\r\n\r\n")
	require.NoError(t, err)

	assert.Equal(t, "/path", reqCtx.Path)
	assert.Equal(t, "name=Hello&value=World!", reqCtx.QueryString)
	assert.Equal(t, map[string]string{"name": "Hello", "value": "World!"}, reqCtx.Query)
}

func TestRequestParseHeaders(t *testing.T) {
	raw := "GET / HTTP/1.1\r\n" +
		"X-Token:  first  \r\n" +
		"not a header line\r\n" +
		"x-token: second\r\n" +
		"Empty:\r\n" +
		"\r\n"

	reqCtx, err := readRequest(raw)
	require.NoError(t, err)

	v, ok := reqCtx.Headers.Get("X-TOKEN")
	require.True(t, ok)
	assert.Equal(t, "second", v, "last occurrence wins")

	v, ok = reqCtx.Headers.Get("empty")
	require.True(t, ok)
	assert.Empty(t, v)

	assert.Len(t, reqCtx.Headers, 2, "lines without a colon are ignored")
}

func TestRequestParseMethodIsUpperCased(t *testing.T) {
	reqCtx, err := readRequest("get /json HTTP/1.1\r\n\r\n")
	require.NoError(t, err)
	assert.Equal(t, "GET", reqCtx.Method)
}

func TestRequestParseLFOnly(t *testing.T) {
	reqCtx, err := readRequest("GET /lf HTTP/1.0\nHost: x\n\n")
	require.NoError(t, err)
	assert.Equal(t, "/lf", reqCtx.Path)
	assert.Equal(t, "HTTP/1.0", reqCtx.Protocol)
	assert.True(t, reqCtx.Headers.Has("host"))
}

func TestRequestParseHeadersEndAtEOF(t *testing.T) {
	reqCtx, err := readRequest("GET /eof HTTP/1.1\r\nHost: x")
	require.NoError(t, err)

	host, _ := reqCtx.Headers.Get("host")
	assert.Equal(t, "x", host)
}

func TestRequestParseBody(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		wantBody []byte
	}{
		{"exact length", "POST /p HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello", []byte("hello")},
		{"extra bytes are not read", "POST /p HTTP/1.1\r\nContent-Length: 2\r\n\r\nhello", []byte("he")},
		{"body keeps newlines", "POST /p HTTP/1.1\r\nContent-Length: 4\r\n\r\na\r\nb", []byte("a\r\nb")},
		{"zero length", "POST /p HTTP/1.1\r\nContent-Length: 0\r\n\r\nhello", nil},
		{"negative length", "POST /p HTTP/1.1\r\nContent-Length: -4\r\n\r\nhello", nil},
		{"not a number", "POST /p HTTP/1.1\r\nContent-Length: five\r\n\r\nhello", nil},
		{"no header", "POST /p HTTP/1.1\r\n\r\nhello", nil},
		{"short body is kept", "POST /p HTTP/1.1\r\nContent-Length: 10\r\n\r\nabc", []byte("abc")},
		{"body missing entirely", "POST /p HTTP/1.1\r\nContent-Length: 10\r\n\r\n", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reqCtx, err := readRequest(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.wantBody, reqCtx.Body)
		})
	}
}

func TestRequestParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"nothing sent", "", ErrEmptyRequest},
		{"blank request line", "\r\n", ErrEmptyRequest},
		{"whitespace request line", "   \r\n", ErrEmptyRequest},
		{"one token", "GET\r\n\r\n", ErrMalformedRequestLine},
		{"two tokens", "GET /\r\n\r\n", ErrMalformedRequestLine},
		{"empty method", " / HTTP/1.1\r\n\r\n", ErrMalformedRequestLine},
		{"empty target", "GET  HTTP/1.1\r\n\r\n", ErrMalformedRequestLine},
		{"body too large", "POST / HTTP/1.1\r\nContent-Length: 3000000\r\n\r\n", ErrRequestTooLarge},
		{"line too long", "GET /" + strings.Repeat("a", MaxLineSize) + " HTTP/1.1\r\n\r\n", ErrLineTooLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := readRequest(tc.raw)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestRequestParseTooManyHeaders(t *testing.T) {
	var b strings.Builder
	b.WriteString("GET / HTTP/1.1\r\n")
	for i := 0; i <= MaxRequestHeaders; i++ {
		b.WriteString("X-H: v\r\n")
	}
	b.WriteString("\r\n")

	_, err := readRequest(b.String())
	assert.ErrorIs(t, err, ErrTooManyHeaders)
}

func BenchmarkRequestParse(b *testing.B) {
	reqMsg := []byte("GET /test?x=1 HTTP/1.1\r\nAccept: text/css\r\nConnection: keep-alive\r\nContent-Length: 0\r\n\r\n")

	reader := bytes.NewReader(reqMsg)
	br := bufio.NewReader(reader)

	for i := 0; i < b.N; i++ {
		reader.Reset(reqMsg)
		br.Reset(reader)

		reqCtx := newRequestCtx(context.Background(), uuid.Nil, "")
		if err := reqCtx.Read(br); err != nil {
			b.Error(err)
		}
	}
}
