// Package pretty renders arbitrary values into compact single-line strings
// for terminals, log lines and file names.
//
// Values are first converted into a closed set of variants with [Of] (none,
// bool, int, float, string, sequence, mapping) and then rendered by a
// [Renderer] according to [Options]:
//
//	r := pretty.New(nil)
//	r.Info(pretty.Dict("lr", 3e-5, "epochs", 3))
//	// {lr: 3e-5, epochs: 3}, with color
//	r.Path(pretty.Dict("lr", 3e-5, "shuffle", true))
//	// {lr=3e-5,shuffle=T}
//
// Rendering is deterministic: Go maps are ordered by key, while [Map] and
// [github.com/goccy/go-yaml.MapSlice] keep their order.
//
// The package also carries small formatting helpers for numbers
// ([FmtNum], [FmtSizeof], [FmtDelta], [Ordinal]), timestamps
// ([Renderer.FormatTime], [Now]) and JSON views ([Indent], [Highlight]).
package pretty
