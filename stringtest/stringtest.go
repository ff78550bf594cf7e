// Package stringtest provides helpers for building expected strings and
// asserting on styled terminal output in tests.
package stringtest

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

// JoinLF joins multiple strings with LF line endings.
// Use this to construct expected test output with explicit line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"line1",
//		"line2",
//	) // -> "line1\nline2"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}

// Input dedents a raw string literal so that expected output can be
// indented along with the test code. One leading and one trailing newline
// are dropped, then the indentation shared by all non-blank lines is
// removed. Whitespace-only lines become empty.
func Input(s string) string {
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\n")

	lines := strings.Split(s, "\n")

	prefix := ""
	found := false

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !found {
			prefix = indent
			found = true

			continue
		}

		prefix = commonPrefix(prefix, indent)
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""

			continue
		}

		lines[i] = strings.TrimPrefix(line, prefix)
	}

	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return a[:i]
		}
	}

	return a[:n]
}

// AssertNoANSI asserts that s contains no ANSI escape sequences.
func AssertNoANSI(t assert.TestingT, s string, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	return assert.Equal(t, s, ansi.Strip(s), msgAndArgs...)
}

// AssertVisible asserts that s, with all ANSI escape sequences removed,
// equals want.
func AssertVisible(t assert.TestingT, want, s string, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	return assert.Equal(t, want, ansi.Strip(s), msgAndArgs...)
}
