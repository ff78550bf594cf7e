// Package log provides colored, split-level logging on top of [log/slog].
//
// A [Registry] owns named [Logger] values. Each logger writes to one or more
// sinks selected by a [Kind]: [KindStdout] prints colored lines,
// [KindFile] writes the same lines with escape sequences stripped, and
// [KindFileANSI] keeps the colors in a sibling file. The composite kinds
// [KindBoth], [KindBothANSI] and [KindFilePlusANSI] expand into those. Each
// sink filters at its own [Level]:
//
//	reg := log.NewRegistry()
//	defer reg.Close()
//
//	logger, err := reg.Get("train", log.LoggerOptions{
//	    Kind:   log.KindBoth,
//	    Path:   "runs/train.log",
//	    Levels: log.Levels{Stdout: log.LevelInfo, File: log.LevelDebug},
//	})
//
//	logger.Info("epoch done", slog.Float64("loss", 0.42))
//	logger.Info("written to the file only", log.Block(log.KindStdout))
//
// Calling [Registry.Get] again with the same name replaces the handlers in
// place, so loggers never print a line twice.
//
// Lines use the layout
//
//	2024-03-05 14:07:09|[train::main::train.go:42:INFO]: epoch done {loss: 0.42}
//
// rendered by a [Formatter] with the [go.jacobcolvin.com/mlx/style] table.
//
// Standalone handlers in other formats ([FormatText], [FormatJSON],
// [FormatLogfmt]) are available through [NewHandler]. Use [Config] to wire
// everything to CLI flags via [github.com/spf13/pflag], with shell
// completion support via [github.com/spf13/cobra]:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	logger, err := cfg.NewLogger(reg, "mlx")
//
// A [Publisher] observes every line written by a registry's sinks, e.g. to
// display logs inside a TUI:
//
//	pub := log.NewPublisher()
//	reg := log.NewRegistry(log.WithPublisher(pub))
//
//	sub := pub.Subscribe()
//	go func() {
//	    for entry := range sub.C() {
//	        // Deliver entry.Line to the TUI.
//	    }
//	}()
package log
