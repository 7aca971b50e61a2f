package test

import (
	"bufio"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const dialTimeout = 5 * time.Second

// Send writes raw to a new connection to addr, closes the write side and
// returns everything the server writes back until it closes the connection.
func Send(t *testing.T, addr, raw string) string {
	t.Helper()

	out, err := Exchange(addr, raw)
	require.NoError(t, err, "exchange with %s", addr)

	return out
}

// Exchange is Send without a *testing.T, for use from goroutines other
// than the test's own.
func Exchange(addr, raw string) (string, error) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(10 * time.Second))

	if _, err := io.WriteString(conn, raw); err != nil {
		return "", err
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		tcpConn.CloseWrite()
	}

	out, err := io.ReadAll(conn)
	return string(out), err
}

// RoundTrip sends raw to addr and parses the reply with net/http, which
// checks the status line, headers and Content-Length independently of the
// server under test.
func RoundTrip(t *testing.T, addr, raw string) (*http.Response, string) {
	t.Helper()

	out := Send(t, addr, raw)
	return ParseResponse(t, out)
}

// ParseResponse parses a raw HTTP/1.1 response.
func ParseResponse(t *testing.T, raw string) (*http.Response, string) {
	t.Helper()

	resp, err := http.ReadResponse(bufio.NewReader(strings.NewReader(raw)), nil)
	require.NoError(t, err, "raw response: %q", raw)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

// Get is RoundTrip for a bare GET of target.
func Get(t *testing.T, addr, target string) (*http.Response, string) {
	t.Helper()
	return RoundTrip(t, addr, "GET "+target+" HTTP/1.1\r\nHost: localhost\r\n\r\n")
}

// Dial opens a TCP connection to addr with a deadline that keeps a broken
// server from hanging the test.
func Dial(t *testing.T, addr string) net.Conn {
	t.Helper()

	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	require.NoError(t, err)
	conn.SetDeadline(time.Now().Add(10 * time.Second))

	return conn
}
