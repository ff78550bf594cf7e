// Package textutil provides small helpers for strings, numbers and paths.
package textutil

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrEmptyText indicates text that is empty after [Sanitize].
var ErrEmptyText = errors.New("empty text after cleaning")

// FloatOptions narrows what [IsFloat] accepts.
type FloatOptions struct {
	// NoInt rejects integral values such as "3" or "2.0".
	NoInt bool
	// NoSci rejects exponent notation such as "1e-3".
	NoSci bool
}

// IsFloat reports whether s parses as a floating point number. Surrounding
// whitespace is ignored; "inf" and "nan" are accepted, as are values too
// large to represent.
func IsFloat(s string, opts FloatOptions) bool {
	s = strings.TrimSpace(s)

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return false
	}

	if opts.NoInt && FloatIsInt(f, 0) {
		return false
	}

	if opts.NoSci && strings.ContainsAny(s, "eE") {
		return false
	}

	return true
}

// FloatIsInt reports whether f is integral. A positive eps also accepts
// values within eps of the nearest integer.
func FloatIsInt(f, eps float64) bool {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return false
	}

	r := math.Round(f)
	if f == r {
		return true
	}

	if eps <= 0 {
		return false
	}

	return math.Abs(f-r) <= max(1e-9*max(math.Abs(f), math.Abs(r)), eps)
}

// CleanWhitespace collapses runs of whitespace into single spaces and trims
// both ends.
func CleanWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SubstrIndices returns the byte offsets of the non-overlapping occurrences
// of sub in s, left to right. An empty sub matches at every offset.
func SubstrIndices(s, sub string) []int {
	var idx []int

	if sub == "" {
		for i := range len(s) + 1 {
			idx = append(idx, i)
		}

		return idx
	}

	for off := 0; ; {
		i := strings.Index(s[off:], sub)
		if i < 0 {
			return idx
		}

		idx = append(idx, off+i)
		off += i + len(sub)
	}
}

// ASCIIPrintable drops every rune of s that is not printable ASCII or ASCII
// whitespace.
func ASCIIPrintable(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= ' ' && r <= '~') || strings.ContainsRune("\t\n\v\f\r", r) {
			return r
		}

		return -1
	}, s)
}

// Sanitize reduces s to printable ASCII with clean whitespace. It returns
// [ErrEmptyText] if nothing is left.
func Sanitize(s string) (string, error) {
	out := CleanWhitespace(ASCIIPrintable(s))
	if out == "" {
		return "", fmt.Errorf("%w: was %q", ErrEmptyText, s)
	}

	return out, nil
}

// Stem returns the file name of path without its parent directories. The
// last extension is removed unless keepExt is set. A positive topN keeps
// that many parent directories in front of the name.
func Stem(path string, keepExt bool, topN int) string {
	name := filepath.Base(path)
	if !keepExt {
		if ext := filepath.Ext(name); ext != name {
			name = strings.TrimSuffix(name, ext)
		}
	}

	if topN <= 0 {
		return name
	}

	dirs := strings.Split(filepath.Clean(path), string(filepath.Separator))
	dirs = dirs[:len(dirs)-1]
	dirs = dirs[max(len(dirs)-topN, 0):]

	return filepath.Join(append(dirs, name)...)
}

// Hostname returns the host name reported by the kernel.
func Hostname() (string, error) {
	h, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("get hostname: %w", err)
	}

	return h, nil
}
