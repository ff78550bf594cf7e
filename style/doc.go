// Package style maps semantic style keys to terminal escape sequences.
//
// An [Engine] owns a [Spec], a table from keys such as "info", "warn" or "m"
// to [Attrs], and renders text wrapped in the resolved escape sequence and a
// trailing reset. [Strip] removes escape sequences again, so
//
//	Strip(must(e.Style(text, key))) == text
//
// holds for every key in the table.
//
// Engines are explicit values: construct one with [New], optionally extending
// the built-in table with [WithSpec], and pass it to the packages that render
// colored output. [Default] returns a lazily constructed engine over
// [DefaultSpec] for callers that do not need their own table.
//
//	e, err := style.New(style.WithSpec(style.Spec{
//	    "metric": {Foreground: style.ThemeGreen, Bold: true},
//	}))
//	if err != nil {
//	    return err
//	}
//
//	s, err := e.Style("0.93", "metric")
package style
