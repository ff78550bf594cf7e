package log

import (
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"go.jacobcolvin.com/mlx/pretty"
	"go.jacobcolvin.com/mlx/style"
)

// TimeLayout is the timestamp layout of formatted lines.
const TimeLayout = "2006-01-02 15:04:05"

// Formatter renders records into single colored lines:
//
//	<time>|[<name>::<func>::<file>:<line>:<LVL>]: <message> <attrs>
//
// Attributes are rendered as a trailing mapping by [pretty.Renderer].
// Strip the result with [style.Strip] for the plain variant.
//
// Create instances with [NewFormatter].
type Formatter struct {
	styles *style.Engine
	render *pretty.Renderer
	levels map[string]style.Attrs
}

// NewFormatter creates a [Formatter] styled by e. A nil e uses
// [style.Default].
func NewFormatter(e *style.Engine) *Formatter {
	if e == nil {
		e = style.Default()
	}

	return &Formatter{
		styles: e,
		render: pretty.New(e),
		levels: map[string]style.Attrs{
			"DBG":  {Faint: true, Italic: true},
			"INFO": {Italic: true},
			"WARN": {Foreground: style.ThemeYellow, Italic: true},
			"ERR":  {Foreground: style.ThemeRed, Italic: true},
			"CRIT": {Foreground: style.ThemePurple, Bold: true, Italic: true},
		},
	}
}

// Format renders r for the logger called name with the given attributes.
func (f *Formatter) Format(name string, r slog.Record, attrs pretty.Map) string {
	fn, file, line := source(r.PC)
	lvl := abbrev(r.Level)

	var sb strings.Builder

	sb.WriteString(f.key(r.Time.Format(TimeLayout), "time"))
	sb.WriteString(f.key("|", "sep"))
	sb.WriteString("[")
	sb.WriteString(f.key(name, "ref"))
	sb.WriteString(f.key("::", "sep"))
	sb.WriteString(f.key(fn, "ref"))
	sb.WriteString(f.key("::", "sep"))
	sb.WriteString(f.key(file, "ref"))
	sb.WriteString(f.key(":", "sep"))
	sb.WriteString(f.key(strconv.Itoa(line), "ref"))
	sb.WriteString(f.key(":", "sep"))
	sb.WriteString(f.styles.Attrs(lvl, f.levels[lvl]))
	sb.WriteString("]")
	sb.WriteString(f.key(": ", "sep"))
	sb.WriteString(r.Message)

	if len(attrs) > 0 {
		sb.WriteString(" ")
		sb.WriteString(f.render.Info(attrs))
	}

	return sb.String()
}

func (f *Formatter) key(s, key string) string {
	out, err := f.styles.Style(s, key)
	if err != nil {
		return s
	}

	return out
}

// source returns the short function name, file base name and line of pc.
func source(pc uintptr) (string, string, int) {
	if pc == 0 {
		return "?", "?", 0
	}

	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()

	fn := frame.Function
	if i := strings.LastIndex(fn, "/"); i >= 0 {
		fn = fn[i+1:]
	}

	if i := strings.Index(fn, "."); i >= 0 {
		fn = fn[i+1:]
	}

	if fn == "" {
		fn = "?"
	}

	file := "?"
	if frame.File != "" {
		file = filepath.Base(frame.File)
	}

	return fn, file, frame.Line
}
