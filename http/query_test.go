package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	cases := []struct {
		raw  string
		want map[string]string
	}{
		{"", map[string]string{}},
		{"name=Hello&value=World!", map[string]string{"name": "Hello", "value": "World!"}},
		{"flag", map[string]string{"flag": ""}},
		{"a=1&a=2&a=3", map[string]string{"a": "3"}},
		{"a=1&&b=2&", map[string]string{"a": "1", "b": "2"}},
		{"greeting=Hello%20World%21", map[string]string{"greeting": "Hello World!"}},
		{"plus=a+b", map[string]string{"plus": "a+b"}},
		{"eq=a=b=c", map[string]string{"eq": "a=b=c"}},
		{"bad=%zz&ok=%41", map[string]string{"bad": "%zz", "ok": "A"}},
		{"caf%C3%A9=cr%C3%A8me", map[string]string{"café": "crème"}},
		{"=orphan", map[string]string{"": "orphan"}},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseQuery(tc.raw))
		})
	}
}
