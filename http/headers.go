package http

import "strings"

// Headers holds request header fields keyed by lower-cased name.
// A repeated field keeps its last value.
type Headers map[string]string

func (h Headers) Set(name, value string) {
	h[toLower(name)] = value
}

// Get returns the value of the named field, matching the name case-insensitively.
func (h Headers) Get(name string) (string, bool) {
	v, ok := h[toLower(name)]
	return v, ok
}

func (h Headers) Has(name string) bool {
	_, ok := h[toLower(name)]
	return ok
}

// Header is one supplementary response header. Response keeps them in a
// slice so they are written in the order they were added.
type Header struct {
	Name  string
	Value string
}

// toLower folds ASCII letters only, leaving a string without upper-case
// bytes untouched and unallocated.
func toLower(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			return toLowerSlow(s)
		}
	}
	return s
}

func toLowerSlow(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}
