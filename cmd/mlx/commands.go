package main

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"go.jacobcolvin.com/mlx/checkarg"
	"go.jacobcolvin.com/mlx/log"
	"go.jacobcolvin.com/mlx/pretty"
	"go.jacobcolvin.com/mlx/style"
	"go.jacobcolvin.com/mlx/version"
)

var colorModes = []string{"auto", "always", "never"}

var checks = func() *checkarg.Checker {
	c := checkarg.New()
	_ = c.Cache("Color Mode", "color", colorModes)
	_ = c.Cache("Block Marker", "block", []string{
		string(log.KindStdout),
		string(log.KindFile),
		string(log.KindFileANSI),
	})

	return c
}()

// useColor resolves a --color mode.
func (a *app) useColor(mode string) (bool, error) {
	err := checks.Check("color", mode)
	if err != nil {
		return false, err
	}

	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	}

	return a.isTerminal(), nil
}

func registerColorFlag(cmd *cobra.Command, mode *string) {
	cmd.Flags().StringVar(mode, "color", "auto",
		fmt.Sprintf("colorize output, one of: %s", strings.Join(colorModes, ", ")))

	completionErr := cmd.RegisterFlagCompletionFunc("color",
		cobra.FixedCompletions(colorModes, cobra.ShellCompDirectiveNoFileComp))
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}
}

func (a *app) renderCmd() *cobra.Command {
	var (
		color   string
		opts    pretty.Options
		asJSON  bool
		forPath bool
	)

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render a YAML or JSON value on a single line",
		Long: `render reads a YAML or JSON document, from stdin when no file or "-" is
given, and prints it as a single line with mapping order preserved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) > 0 {
				path = args[0]
			}

			v, err := a.readValue(path)
			if err != nil {
				return err
			}

			opts.Color, err = a.useColor(color)
			if err != nil {
				return err
			}

			var out string

			switch {
			case asJSON && opts.Color:
				out, err = pretty.Highlight(v)
			case asJSON:
				out, err = pretty.Indent(v)
			case forPath:
				out = pretty.Default().Path(v)
			default:
				out = pretty.Default().Render(v, opts)
			}

			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSuffix(out, "\n"))

			return err
		},
	}

	registerColorFlag(cmd, &color)
	cmd.Flags().BoolVar(&forPath, "path", false, "render a path-safe string")
	cmd.Flags().IntVar(&opts.PadFloat, "pad-float", 0, "right-align floats to this width")
	cmd.Flags().BoolVar(&opts.OmitNone, "omit-none", false, "drop mapping entries with null values")
	cmd.Flags().BoolVar(&asJSON, "json", false, "render indented JSON instead")

	return cmd
}

// readValue parses the YAML or JSON document at path, keeping mapping
// order.
func (a *app) readValue(path string) (any, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // Input path from CLI argument is expected.
	}

	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var v any

	err = yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap())
	if err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}

	return v, nil
}

func (a *app) stripCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strip",
		Short: "Remove ANSI escape sequences from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := io.ReadAll(a.stdin)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			_, err = io.WriteString(cmd.OutOrStdout(), style.Strip(string(data)))

			return err
		},
	}
}

func (a *app) logCmd() *cobra.Command {
	var (
		level string
		block string
		attrs map[string]string
	)

	cmd := &cobra.Command{
		Use:   "log <message>...",
		Short: "Write a message through the configured log sinks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(level)
			if err != nil {
				return err
			}

			err = checks.Check("block", block)
			if err != nil {
				return err
			}

			var la []slog.Attr
			for _, k := range slices.Sorted(maps.Keys(attrs)) {
				la = append(la, slog.String(k, attrs[k]))
			}

			if block != "" {
				la = append(la, log.Block(log.Kind(block)))
			}

			a.logger.LogAttrs(cmd.Context(), lvl.Slog(), strings.Join(args, " "), la...)

			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", string(log.LevelInfo),
		fmt.Sprintf("message level, one of: %s", log.GetAllLevelStrings()))
	cmd.Flags().StringVar(&block, "block", "",
		"keep the message away from sinks of this kind: stdout, file or file-w/-ansi")
	cmd.Flags().StringToStringVar(&attrs, "attr", nil, "attributes as key=value pairs")

	return cmd
}

func (a *app) nowCmd() *cobra.Command {
	var (
		color   string
		format  string
		forPath bool
	)

	cmd := &cobra.Command{
		Use:   "now",
		Short: "Print the current time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := pretty.ParseTimeFormat(format)
			if err != nil {
				return err
			}

			useColor, err := a.useColor(color)
			if err != nil {
				return err
			}

			opts := pretty.TimeOptions{Format: f, ForPath: forPath}
			if useColor {
				opts.ColorKey = "time"
			}

			s, err := pretty.Now(opts)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), s)

			return err
		},
	}

	registerColorFlag(cmd, &color)
	cmd.Flags().StringVar(&format, "format", string(pretty.TimeShortFull),
		fmt.Sprintf("time format, one of: %s", strings.Join(pretty.GetAllTimeFormatStrings(), ", ")))
	cmd.Flags().BoolVar(&forPath, "for-path", false, "use separators safe for file names")

	completionErr := cmd.RegisterFlagCompletionFunc("format",
		cobra.FixedCompletions(pretty.GetAllTimeFormatStrings(), cobra.ShellCompDirectiveNoFileComp))
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fields := version.Get().Fields()

			out := pretty.Default().Plain(fields)
			if asJSON {
				var err error

				out, err = pretty.Indent(fields)
				if err != nil {
					return err
				}
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), out)

			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}
