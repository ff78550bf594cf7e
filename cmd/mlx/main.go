// Package main provides the CLI entry point for mlx, a tool that renders
// structured values and writes split-level logs from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"go.jacobcolvin.com/mlx/log"
	"go.jacobcolvin.com/mlx/profile"
)

// defaultLogFile is the log file used by file kinds without --log-file,
// relative to the XDG state directory.
const defaultLogFile = "mlx/mlx.log"

type app struct {
	stdin   io.Reader
	stdout  io.Writer
	logCfg  *log.Config
	profCfg *profile.Config
	reg     *log.Registry
	prof    *profile.Profiler
	logger  *log.Logger

	// isTerminal reports whether stdout is a terminal.
	isTerminal func() bool
}

func newApp(stdin io.Reader, stdout, logOut io.Writer) *app {
	a := &app{
		stdin:   stdin,
		stdout:  stdout,
		logCfg:  log.NewConfig(),
		profCfg: profile.NewConfig(),
		reg:     log.NewRegistry(log.WithStdout(logOut)),
	}

	a.isTerminal = func() bool {
		f, ok := stdout.(interface{ Fd() uintptr })
		return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // File descriptors fit in int.
	}

	return a
}

func main() {
	a := newApp(os.Stdin, os.Stdout, colorprofile.NewWriter(os.Stderr, os.Environ()))

	err := a.execute(context.Background(), os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func (a *app) execute(ctx context.Context, args []string) error {
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)

	err := cmd.ExecuteContext(ctx)

	if a.prof != nil {
		_, stopErr := a.prof.Stop()
		if !errors.Is(stopErr, profile.ErrNotStarted) {
			err = errors.Join(err, stopErr)
		}
	}

	return errors.Join(err, a.reg.Close())
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mlx",
		Short: "Render structured values and write split-level logs",
		Long: `mlx renders YAML and JSON values on a single colored line, strips ANSI
escape sequences, and writes log lines through console and file sinks with
independent levels.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	a.logCfg.RegisterFlags(rootCmd.PersistentFlags())
	a.profCfg.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		a.renderCmd(),
		a.stripCmd(),
		a.logCmd(),
		a.nowCmd(),
		a.versionCmd(),
	)

	err := a.logCfg.RegisterCompletions(rootCmd)
	if err == nil {
		err = a.profCfg.RegisterCompletions(rootCmd)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	return rootCmd
}

// setup configures the "mlx" logger and starts profiling.
func (a *app) setup(_ *cobra.Command, _ []string) error {
	opts, err := a.logCfg.LoggerOptions()
	if err != nil {
		return err
	}

	kinds, err := opts.Kind.Expand()
	if err != nil {
		return err
	}

	if opts.Path == "" && slices.ContainsFunc(kinds, log.Kind.IsFile) {
		opts.Path, err = xdg.StateFile(defaultLogFile)
		if err != nil {
			return fmt.Errorf("default log file: %w", err)
		}
	}

	a.logger, err = a.reg.Get("mlx", opts)
	if err != nil {
		return err
	}

	a.prof = a.profCfg.NewProfiler(profile.WithLogger(a.logger.Logger))

	return a.prof.Start()
}
