// Package checkarg validates string arguments that behave like enums.
//
// A [Checker] asserts that a value is one of a fixed set of accepted values,
// either directly via [Checker.Assert] or through attributes registered once
// with [Checker.Cache] and checked later by name:
//
//	ca := checkarg.New()
//	err := ca.Cache("Bar Plot Orientation", "bar_orient", []string{"v", "h"})
//	...
//	err = ca.Check("bar_orient", orient)
//
// The empty string stands for an absent argument and is accepted unless
// [WithIgnoreEmpty] is disabled.
package checkarg

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"go.jacobcolvin.com/mlx/pretty"
)

var (
	// ErrUnexpectedValue indicates a value outside the accepted values.
	ErrUnexpectedValue = errors.New("unexpected value")
	// ErrDuplicateAttribute indicates an attribute registered twice.
	ErrDuplicateAttribute = errors.New("attribute already exists")
	// ErrUnknownAttribute indicates a check against an unregistered attribute.
	ErrUnknownAttribute = errors.New("unknown attribute")
)

// Option configures a [Checker].
type Option func(*Checker)

// WithIgnoreEmpty sets whether empty values pass every check. Defaults to
// true.
func WithIgnoreEmpty(ignore bool) Option {
	return func(c *Checker) {
		c.ignoreEmpty = ignore
	}
}

// WithLogger logs every check, and every ignored empty value, to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		c.log = l
	}
}

type check struct {
	display string
	options []string
}

// Checker validates values against accepted values. Safe for concurrent use.
//
// Create instances with [New].
type Checker struct {
	log         *slog.Logger
	render      *pretty.Renderer
	checks      map[string]check
	mu          sync.RWMutex
	ignoreEmpty bool
}

// New creates a new [Checker].
func New(opts ...Option) *Checker {
	c := &Checker{
		checks:      make(map[string]check),
		render:      pretty.Default(),
		ignoreEmpty: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return c
}

// Assert returns [ErrUnexpectedValue] if val is not one of options. The
// display name only appears in messages.
func (c *Checker) Assert(display, val string, options []string) error {
	return c.assert(display, "", val, options)
}

// Valid reports whether val passes [Checker.Assert].
func (c *Checker) Valid(display, val string, options []string) bool {
	return c.assert(display, "", val, options) == nil
}

func (c *Checker) assert(display, attr, val string, options []string) error {
	if c.ignoreEmpty && val == "" {
		name := display
		if attr != "" {
			name = display + "::" + attr
		}

		c.log.Warn("argument is empty and ignored", slog.String("argument", name))

		return nil
	}

	c.log.Debug("checking argument",
		slog.String("argument", display),
		slog.String("val", val),
		slog.Any("accepted_values", options),
	)

	if slices.Contains(options, val) {
		return nil
	}

	return fmt.Errorf("%w: %s: expect one of %s, got %q",
		ErrUnexpectedValue, display, c.render.Plain(options), val)
}

// Cache registers options under attr for later use with [Checker.Check].
// Registering the same attribute twice returns [ErrDuplicateAttribute].
func (c *Checker) Cache(display, attr string, options []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.checks[attr]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateAttribute, attr)
	}

	c.checks[attr] = check{display: display, options: slices.Clone(options)}

	return nil
}

// Check validates val against the options cached under attr.
func (c *Checker) Check(attr, val string) error {
	c.mu.RLock()
	ck, ok := c.checks[attr]
	c.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, attr)
	}

	return c.assert(ck.display, attr, val, ck.options)
}

// CheckAll validates every attribute-value pair of vals, in sorted attribute
// order. It stops at the first failure.
func (c *Checker) CheckAll(vals map[string]string) error {
	for _, attr := range slices.Sorted(maps.Keys(vals)) {
		err := c.Check(attr, vals[attr])
		if err != nil {
			return err
		}
	}

	return nil
}

// Options returns a copy of the options cached under attr.
func (c *Checker) Options(attr string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ck, ok := c.checks[attr]
	if !ok {
		return nil, false
	}

	return slices.Clone(ck.options), true
}

// Attributes returns the cached attribute names in sorted order.
func (c *Checker) Attributes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Sorted(maps.Keys(c.checks))
}

// Default returns a [Checker] preloaded with the attributes shared across
// this module: "bar_orient" and "split".
func Default() *Checker {
	return defaultChecker()
}

var defaultChecker = sync.OnceValue(func() *Checker {
	c := New()
	for _, a := range builtins {
		_ = c.Cache(a.display, a.attr, a.options)
	}

	return c
})

var builtins = []struct {
	display string
	attr    string
	options []string
}{
	{"Bar Plot Orientation", "bar_orient", []string{"v", "h", "vertical", "horizontal"}},
	{"Dataset Split", "split", []string{"train", "eval", "dev", "test"}},
}
