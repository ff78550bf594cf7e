package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for log configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Level     string
	Format    string
	Kind      string
	File      string
	FileLevel string
	FileMode  string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds CLI flag values for log configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewLogger] to configure a named
// [Logger] in a [Registry], or [Config.NewHandler] for a standalone
// [slog.Handler]. Format only applies to standalone handlers; registry
// loggers always use the [FormatPretty] layout.
type Config struct {
	Level     string
	Format    string
	Kind      string
	File      string
	FileLevel string
	FileMode  string
	Flags     Flags
}

// NewConfig returns a new [Config] with zero-value fields.
// Use [Config.RegisterFlags] to add CLI flags, or set values directly.
func NewConfig() *Config {
	f := Flags{
		Level:     "log-level",
		Format:    "log-format",
		Kind:      "log-kind",
		File:      "log-file",
		FileLevel: "log-file-level",
		FileMode:  "log-file-mode",
	}

	return f.NewConfig()
}

// RegisterFlags adds logging flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, "info",
		fmt.Sprintf("log level, one of: %s", GetAllLevelStrings()))
	flags.StringVar(&c.Format, c.Flags.Format, "pretty",
		fmt.Sprintf("log format, one of: %s", GetAllFormatStrings()))
	flags.StringVar(&c.Kind, c.Flags.Kind, "stdout",
		fmt.Sprintf("log sinks, one of: %s", GetAllKindStrings()))
	flags.StringVar(&c.File, c.Flags.File, "",
		"log file path, used by file sinks")
	flags.StringVar(&c.FileLevel, c.Flags.FileLevel, "",
		"log level of file sinks, defaults to the log level")
	flags.StringVar(&c.FileMode, c.Flags.FileMode, string(FileModeAppend),
		fmt.Sprintf("log file mode, one of: %s", GetAllFileModeStrings()))
}

// RegisterCompletions registers shell completions for log flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	fixed := map[string][]string{
		c.Flags.Level:     GetAllLevelStrings(),
		c.Flags.Format:    GetAllFormatStrings(),
		c.Flags.Kind:      GetAllKindStrings(),
		c.Flags.FileLevel: GetAllLevelStrings(),
		c.Flags.FileMode:  GetAllFileModeStrings(),
	}

	for _, name := range []string{c.Flags.Level, c.Flags.Format, c.Flags.Kind, c.Flags.FileLevel, c.Flags.FileMode} {
		err := cmd.RegisterFlagCompletionFunc(name,
			cobra.FixedCompletions(fixed[name], cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", name, err)
		}
	}

	err := cmd.RegisterFlagCompletionFunc(c.Flags.File,
		func(*cobra.Command, []string, string) ([]cobra.Completion, cobra.ShellCompDirective) {
			return []cobra.Completion{"log"}, cobra.ShellCompDirectiveFilterFileExt
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.File, err)
	}

	return nil
}

// NewHandler creates a new [slog.Handler] that writes to w, using the level
// and format strings stored in c. It delegates to [NewHandlerFromStrings].
func (c *Config) NewHandler(w io.Writer) (slog.Handler, error) {
	return NewHandlerFromStrings(w, c.Level, c.Format)
}

// LoggerOptions parses the values stored in c.
func (c *Config) LoggerOptions() (LoggerOptions, error) {
	lvl, err := ParseLevel(c.Level)
	if err != nil {
		return LoggerOptions{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	fileLvl := lvl
	if c.FileLevel != "" {
		fileLvl, err = ParseLevel(c.FileLevel)
		if err != nil {
			return LoggerOptions{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}

	kind := KindStdout
	if c.Kind != "" {
		kind, err = ParseKind(c.Kind)
		if err != nil {
			return LoggerOptions{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}

	mode := FileModeAppend
	if c.FileMode != "" {
		mode, err = ParseFileMode(c.FileMode)
		if err != nil {
			return LoggerOptions{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}

	return LoggerOptions{
		Kind:   kind,
		Path:   c.File,
		Mode:   mode,
		Levels: Levels{Stdout: lvl, File: fileLvl},
	}, nil
}

// NewLogger configures the logger called name in reg from the values stored
// in c.
func (c *Config) NewLogger(reg *Registry, name string) (*Logger, error) {
	opts, err := c.LoggerOptions()
	if err != nil {
		return nil, err
	}

	return reg.Get(name, opts)
}
