package tunnel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHostAccepts(t *testing.T) {
	cases := []string{
		"ex.com",
		"t.io",
		"a-b.c-d.example",
		strings.Repeat("a", 63) + ".com",
	}
	for _, h := range cases {
		assert.NoError(t, ValidateHost(h), "expected %q to be valid", h)
	}
}

func TestValidateHostRejects(t *testing.T) {
	cases := map[string]string{
		"-leading":        "leading hyphen",
		"trailing-":       "trailing hyphen",
		"a..b":            "adjacent dots",
		"a.-b.com":        "label starting with hyphen after dot",
		"a-.b.com":        "label ending with hyphen before dot",
		"has_underscore":  "disallowed character",
		"":                "empty host",
		strings.Repeat("a", 64) + ".com": "label over 63 chars",
	}
	for h, reason := range cases {
		assert.Error(t, ValidateHost(h), "expected %q to be rejected: %s", h, reason)
	}
}

func TestValidateHostLengthBoundary(t *testing.T) {
	// 251 is the maximum allowed length; 252 must be rejected.
	// Build an exact-251-byte host out of labels of length 62 joined by dots:
	// 62*4 + 3 dots = 251.
	l := strings.Repeat("b", 62)
	h251 := l + "." + l + "." + l + "." + l
	assert.Len(t, h251, 251)
	assert.NoError(t, ValidateHost(h251))

	h252 := h251 + "c"
	assert.Len(t, h252, 252)
	assert.Error(t, ValidateHost(h252))
}
