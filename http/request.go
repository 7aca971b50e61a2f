package http

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	MaxRequestSize    = 2 * 1024 * 1024 // 2MB
	MaxLineSize       = 8 * 1024        // 8kB
	MaxRequestHeaders = math.MaxUint8
)

var (
	ErrEmptyRequest         = errors.New("http: empty request")
	ErrMalformedRequestLine = errors.New("http: malformed request line")
	ErrLineTooLong          = errors.New("http: line too long")
	ErrTooManyHeaders       = errors.New("http: too many headers")
	ErrRequestTooLarge      = errors.New("http: request body too large")
)

// Read parses one request from reader into reqCtx: the request line, the
// header block up to the first blank line and, when Content-Length is a
// positive integer, up to that many body bytes. A body that ends early
// because the peer stopped sending is kept as received.
//
// ErrEmptyRequest is returned when the peer sends nothing or a blank
// request line. I/O errors are returned wrapped so callers can tell a
// disconnect apart from a malformed message.
func (reqCtx *RequestCtx) Read(reader *bufio.Reader) error {
	requestLine, err := readLine(reader)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyRequest
		}
		return fmt.Errorf("request line read error: %w", err)
	}
	if strings.TrimSpace(requestLine) == "" {
		return ErrEmptyRequest
	}

	if err := reqCtx.parseRequestLine(requestLine); err != nil {
		return err
	}

	if err := reqCtx.readHeaders(reader); err != nil {
		return err
	}

	return reqCtx.readBody(reader)
}

func (reqCtx *RequestCtx) parseRequestLine(line string) error {
	parts := strings.Split(line, " ")
	if len(parts) < 3 {
		return fmt.Errorf("%w: %q", ErrMalformedRequestLine, line)
	}

	method, target, protocol := parts[0], parts[1], parts[2]
	if method == "" || target == "" {
		return fmt.Errorf("%w: %q", ErrMalformedRequestLine, line)
	}

	reqCtx.Method = strings.ToUpper(method)
	reqCtx.Protocol = strings.TrimSpace(protocol)

	path, query, found := strings.Cut(target, "?")
	reqCtx.Path = path
	if found {
		reqCtx.QueryString = query
		reqCtx.Query = ParseQuery(query)
	}

	return nil
}

// readHeaders stores each "Name: Value" line until a blank line. Lines
// without a colon are skipped. The end of the stream also ends the block.
func (reqCtx *RequestCtx) readHeaders(reader *bufio.Reader) error {
	count := 0
	for {
		line, err := readLine(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("header read error: %w", err)
		}
		if line == "" {
			return nil
		}

		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}

		count++
		if count > MaxRequestHeaders {
			return ErrTooManyHeaders
		}
		reqCtx.Headers.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}
}

func (reqCtx *RequestCtx) readBody(reader *bufio.Reader) error {
	raw, ok := reqCtx.Headers.Get("Content-Length")
	if !ok {
		return nil
	}

	length, err := strconv.Atoi(raw)
	if err != nil || length <= 0 {
		return nil
	}
	if length > MaxRequestSize {
		return fmt.Errorf("%w: %d bytes", ErrRequestTooLarge, length)
	}

	body := make([]byte, length)
	n, err := io.ReadFull(reader, body)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("body read error: %w", err)
	}
	if n > 0 {
		reqCtx.Body = body[:n]
	}

	return nil
}

// readLine returns the next line without its CRLF or LF terminator. A final
// line that ends at EOF without a terminator is returned with a nil error.
func readLine(reader *bufio.Reader) (string, error) {
	var line []byte
	for {
		chunk, err := reader.ReadSlice('\n')
		line = append(line, chunk...)
		if len(line) > MaxLineSize {
			return "", ErrLineTooLong
		}

		switch {
		case err == nil:
			return trimEOL(line), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && len(line) > 0:
			return trimEOL(line), nil
		default:
			return "", err
		}
	}
}

func trimEOL(line []byte) string {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return string(line)
}
