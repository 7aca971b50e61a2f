package http

import (
	"net/url"
	"strings"
)

// ParseQuery decodes a raw query string of '&'-separated key=value or bare
// key tokens. Bare keys map to "". Keys and values are percent-decoded
// ('+' stays literal); a token with an invalid escape keeps its raw text.
// A repeated key keeps its last value.
func ParseQuery(raw string) map[string]string {
	params := make(map[string]string)
	if raw == "" {
		return params
	}

	for _, token := range strings.Split(raw, "&") {
		if token == "" {
			continue
		}

		key, value, _ := strings.Cut(token, "=")
		params[unescape(key)] = unescape(value)
	}

	return params
}

func unescape(s string) string {
	if strings.IndexByte(s, '%') < 0 {
		return s
	}

	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
