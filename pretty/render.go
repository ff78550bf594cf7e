package pretty

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.jacobcolvin.com/mlx/style"
)

// Style keys used by the renderer.
const (
	keyScalar = "info"
	keyAccent = "m"
)

// Options controls a single render call.
//
// The zero value renders without color using ", " between items and ": "
// between keys and values.
type Options struct {
	// KeyValueSep separates keys from values in mappings. Defaults to ": ".
	// Path-safe rendering always uses "=".
	KeyValueSep string
	// PairsSep separates items of sequences and mappings. Defaults to ", ".
	// Path-safe rendering always uses ",".
	PairsSep string
	// PadFloat right-aligns non-scientific floats to this width.
	PadFloat int
	// Color styles scalars and punctuation. Ignored when ForPath is set.
	Color bool
	// ForPath renders strings safe for use as a path component: no color,
	// no "/" and no spaces around separators.
	ForPath bool
	// ShorterBool renders booleans as "T" and "F" in path-safe rendering.
	ShorterBool bool
	// OmitNone drops mapping entries whose value is [None].
	OmitNone bool
}

// Renderer renders values into single-line strings.
//
// Create instances with [New].
type Renderer struct {
	styles *style.Engine
}

// New creates a [Renderer] that colors output with e. A nil e uses
// [style.Default].
func New(e *style.Engine) *Renderer {
	if e == nil {
		e = style.Default()
	}

	return &Renderer{styles: e}
}

var defaultRenderer = New(nil)

// Default returns a [Renderer] over [style.Default].
func Default() *Renderer {
	return defaultRenderer
}

// Info renders v with color.
func (r *Renderer) Info(v any) string {
	return r.Render(v, Options{Color: true})
}

// Plain renders v without color.
func (r *Renderer) Plain(v any) string {
	return r.Render(v, Options{})
}

// Path renders v for use in file names, with booleans shortened to "T" and
// "F".
func (r *Renderer) Path(v any) string {
	return r.Render(v, Options{ForPath: true, ShorterBool: true})
}

// Render renders v according to opts. Rendering is deterministic and never
// fails: values without a dedicated [Value] variant fall back to their
// default text.
func (r *Renderer) Render(v any, opts Options) string {
	if opts.ForPath {
		opts.Color = false
		opts.KeyValueSep = "="
		opts.PairsSep = ","
	}

	if opts.KeyValueSep == "" {
		opts.KeyValueSep = ": "
	}

	if opts.PairsSep == "" {
		opts.PairsSep = ", "
	}

	var sb strings.Builder

	r.render(&sb, Of(v), &opts)

	return sb.String()
}

func (r *Renderer) render(sb *strings.Builder, v Value, opts *Options) {
	switch x := v.(type) {
	case Map:
		r.renderMap(sb, x, opts)

	case Seq:
		r.renderSeq(sb, x, opts)

	case Float:
		s := FormatFloat(float64(x))
		if opts.PadFloat > 0 && !strings.ContainsAny(s, "eE") {
			s = fmt.Sprintf("%*s", opts.PadFloat, s)
		}

		r.scalar(sb, s, opts)

	case Bool:
		if opts.ForPath && opts.ShorterBool {
			if x {
				sb.WriteString("T")
			} else {
				sb.WriteString("F")
			}

			return
		}

		r.scalar(sb, strconv.FormatBool(bool(x)), opts)

	case Int:
		r.scalar(sb, strconv.FormatInt(int64(x), 10), opts)

	case String:
		r.scalar(sb, string(x), opts)

	case None:
		r.scalar(sb, "None", opts)

	case Other:
		r.scalar(sb, string(x), opts)

	default:
		r.scalar(sb, fmt.Sprint(v), opts)
	}
}

func (r *Renderer) renderSeq(sb *strings.Builder, s Seq, opts *Options) {
	open, closing := "[", "]"
	if s.Tuple {
		open, closing = "(", ")"
	}

	r.punct(sb, open, opts)

	for i, item := range s.Items {
		if i > 0 {
			sb.WriteString(opts.PairsSep)
		}

		r.render(sb, item, opts)
	}

	r.punct(sb, closing, opts)
}

func (r *Renderer) renderMap(sb *strings.Builder, m Map, opts *Options) {
	r.punct(sb, "{", opts)

	first := true

	for _, e := range m {
		if _, isNone := e.Value.(None); isNone && opts.OmitNone {
			continue
		}

		if !first {
			sb.WriteString(opts.PairsSep)
		}

		first = false

		key := e.Key
		if opts.ForPath {
			key = pathSafe(key)
		}

		sb.WriteString(key)
		r.punct(sb, opts.KeyValueSep, opts)
		r.render(sb, e.Value, opts)
	}

	r.punct(sb, "}", opts)
}

func (r *Renderer) scalar(sb *strings.Builder, s string, opts *Options) {
	if opts.ForPath {
		sb.WriteString(pathSafe(s))

		return
	}

	if opts.Color {
		s = r.mustStyle(s, keyScalar)
	}

	sb.WriteString(s)
}

func (r *Renderer) punct(sb *strings.Builder, s string, opts *Options) {
	if opts.Color {
		s = r.mustStyle(s, keyAccent)
	}

	sb.WriteString(s)
}

// mustStyle styles s with a key the renderer relies on. Engines always
// contain the default keys, so a miss leaves s unstyled.
func (r *Renderer) mustStyle(s, key string) string {
	out, err := r.styles.Style(s, key)
	if err != nil {
		return s
	}

	return out
}

// pathSafe replaces "/" so that s can be used as a single path component.
func pathSafe(s string) string {
	if !strings.Contains(s, "/") {
		return s
	}

	s = strings.ReplaceAll(s, "w/", "with")

	return strings.ReplaceAll(s, "/", "-")
}

// FormatFloat formats f in its shortest representation.
//
// Magnitudes below 1e-4 or at least 1e16 use exponent notation without a
// redundant leading exponent zero ("3e-5", not "3e-05"). Integral values
// keep a ".0" suffix so they stay recognizable as floats.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)

	if f != 0 && (abs < 1e-4 || abs >= 1e16) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		s = strings.Replace(s, "e-0", "e-", 1)

		return strings.Replace(s, "e+0", "e+", 1)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}
