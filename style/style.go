package style

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"
)

// Atom OneDark colors used by the log formatter and the "p" key.
const (
	ThemeYellow = "#E5C07B"
	ThemeGreen  = "#00BA8E"
	ThemeBlue   = "#61AFEF"
	ThemeCyan   = "#2AA198"
	ThemeRed    = "#E06C75"
	ThemePurple = "#C678DD"
)

var (
	// ErrUnknownStyle indicates a style key that is not in the table.
	ErrUnknownStyle = errors.New("unknown style")
	// ErrDuplicateKey indicates an attempt to redefine an existing style key.
	ErrDuplicateKey = errors.New("duplicate style key")
	// ErrInvalidColor indicates a color that is neither an ANSI index nor a
	// hex color.
	ErrInvalidColor = errors.New("invalid color")
)

// Attrs describes a single style: a foreground color and text effects.
//
// Foreground is either an ANSI color index ("0" to "255") or a hex color
// ("#rgb" or "#rrggbb"). An empty Foreground leaves the color unchanged.
type Attrs struct {
	Foreground string
	Bold       bool
	Italic     bool
	Faint      bool
}

// Spec maps semantic style keys to [Attrs].
type Spec map[string]Attrs

// DefaultSpec returns a copy of the built-in style table.
func DefaultSpec() Spec {
	return Spec{
		"log": {},

		"info": {Foreground: "4"},
		"i":    {Foreground: "4"},
		"warn": {Foreground: "3"},
		"w":    {Foreground: "1"},

		"error":   {Foreground: "1"},
		"err":     {Foreground: "1"},
		"success": {Foreground: "2"},
		"suc":     {Foreground: "2"},

		"y":       {Foreground: "3"},
		"yellow":  {Foreground: "3"},
		"r":       {Foreground: "1"},
		"red":     {Foreground: "1"},
		"g":       {Foreground: "2"},
		"green":   {Foreground: "2"},
		"b":       {Foreground: "4"},
		"blue":    {Foreground: "4"},
		"m":       {Foreground: "5"},
		"magenta": {Foreground: "5"},
		"c":       {Foreground: "6"},
		"cyan":    {Foreground: "6"},
		"p":       {Foreground: ThemePurple},
		"purple":  {Foreground: ThemePurple},

		"time": {Foreground: "6", Italic: true},
		"sep":  {Foreground: "5"},
		"ref":  {Foreground: "4"},
	}
}

// Option configures an [Engine].
type Option func(*options)

type options struct {
	extra []Spec
}

// WithSpec extends the built-in table with the keys in s. Keys that already
// exist cause [New] to fail with [ErrDuplicateKey].
func WithSpec(s Spec) Option {
	return func(o *options) {
		o.extra = append(o.extra, s)
	}
}

// Engine renders text with the styles of a [Spec]. Styled text is the input
// verbatim between an SGR prefix and a reset, so line breaks and widths are
// never altered.
//
// Create instances with [New]. An Engine is immutable after construction
// and safe for concurrent use.
type Engine struct {
	spec   Spec
	styles map[string]ansi.Style
}

// New creates an [Engine] over [DefaultSpec] extended by any [WithSpec]
// options. Every color in the resulting table is validated.
func New(opts ...Option) (*Engine, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	spec := DefaultSpec()

	for _, extra := range o.extra {
		for _, key := range slices.Sorted(maps.Keys(extra)) {
			if _, ok := spec[key]; ok {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
			}

			spec[key] = extra[key]
		}
	}

	e := &Engine{
		spec:   spec,
		styles: make(map[string]ansi.Style, len(spec)),
	}

	for key, attrs := range spec {
		st, err := newStyle(attrs)
		if err != nil {
			return nil, fmt.Errorf("style %q: %w", key, err)
		}

		e.styles[key] = st
	}

	return e, nil
}

var defaultEngine = sync.OnceValue(func() *Engine {
	e, err := New()
	if err != nil {
		panic(err)
	}

	return e
})

// Default returns the shared [Engine] over [DefaultSpec].
func Default() *Engine {
	return defaultEngine()
}

// Style wraps text in the escape sequence for key followed by a reset.
// It returns [ErrUnknownStyle] if key is not in the table.
func (e *Engine) Style(text, key string) (string, error) {
	st, ok := e.styles[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, key)
	}

	return st.Styled(text), nil
}

// Attrs styles text with an explicit, unnamed [Attrs], bypassing the table.
// An invalid color is ignored and the remaining effects still apply.
func (e *Engine) Attrs(text string, a Attrs) string {
	st, err := newStyle(a)
	if err != nil {
		a.Foreground = ""

		st, _ = newStyle(a) //nolint:errcheck // No color, cannot fail.
	}

	return st.Styled(text)
}

// Has reports whether key is in the table.
func (e *Engine) Has(key string) bool {
	_, ok := e.styles[key]

	return ok
}

// Keys returns the sorted keys of the table.
func (e *Engine) Keys() []string {
	return slices.Sorted(maps.Keys(e.spec))
}

// Lookup returns the [Attrs] stored for key.
func (e *Engine) Lookup(key string) (Attrs, bool) {
	a, ok := e.spec[key]

	return a, ok
}

// Strip removes ANSI escape sequences from text.
func Strip(text string) string {
	return ansi.Strip(text)
}

func newStyle(a Attrs) (ansi.Style, error) {
	var st ansi.Style

	if a.Foreground != "" {
		err := validateColor(a.Foreground)
		if err != nil {
			return nil, err
		}

		st = st.ForegroundColor(lipgloss.Color(a.Foreground))
	}

	if a.Bold {
		st = st.Bold()
	}

	if a.Italic {
		st = st.Italic(true)
	}

	if a.Faint {
		st = st.Faint()
	}

	return st, nil
}

func validateColor(c string) error {
	if strings.HasPrefix(c, "#") {
		_, err := colorful.Hex(c)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidColor, c)
		}

		return nil
	}

	n, err := strconv.Atoi(c)
	if err != nil || n < 0 || n > 255 {
		return fmt.Errorf("%w: %q", ErrInvalidColor, c)
	}

	return nil
}
