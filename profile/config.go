package profile

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for profiling configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Profile    string
	ProfileDir string

	// Rate configuration flag names.
	MemProfileRate       string
	BlockProfileRate     string
	MutexProfileFraction string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds profiling configuration for CLI applications: the profiles
// to record, their output directory and sampling rates. A zero-value Config
// has all profiles disabled.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewProfiler] to create a [Profiler]
// that executes the profiling.
type Config struct {
	Flags Flags

	// Dir holds the profile files. Empty means the working directory.
	Dir string

	// Profiles lists the kinds to record, see [GetAllKindStrings].
	Profiles []string

	// Rate configuration.
	MemProfileRate       int
	BlockProfileRate     int
	MutexProfileFraction int
}

// NewConfig creates a new [Config] with default flag names and all profiles
// disabled. Use [Config.RegisterFlags] to add CLI flags, or set profiles
// directly.
func NewConfig() *Config {
	f := Flags{
		Profile:              "profile",
		ProfileDir:           "profile-dir",
		MemProfileRate:       "mem-profile-rate",
		BlockProfileRate:     "block-profile-rate",
		MutexProfileFraction: "mutex-profile-fraction",
	}

	return f.NewConfig()
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringSliceVar(&c.Profiles, c.Flags.Profile, nil,
		fmt.Sprintf("profiles to record, any of: %s", strings.Join(GetAllKindStrings(), ", ")))
	flags.StringVar(&c.Dir, c.Flags.ProfileDir, "", "directory for profile files")

	// Rate configuration.
	flags.IntVar(&c.MemProfileRate, c.Flags.MemProfileRate, 524288, "memory profile rate (bytes per sample)")
	flags.IntVar(&c.BlockProfileRate, c.Flags.BlockProfileRate, 1, "block profile rate (nanoseconds)")
	flags.IntVar(&c.MutexProfileFraction, c.Flags.MutexProfileFraction, 1, "mutex profile fraction (1/N sampling)")
}

// RegisterCompletions registers shell completions for profile flags on cmd.
// Integer flags disable file completion and the directory flag completes
// directories only.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	err := cmd.RegisterFlagCompletionFunc(c.Flags.Profile,
		cobra.FixedCompletions(GetAllKindStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Profile, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.ProfileDir,
		func(*cobra.Command, []string, string) ([]cobra.Completion, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveFilterDirs
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.ProfileDir, err)
	}

	for _, name := range []string{c.Flags.MemProfileRate, c.Flags.BlockProfileRate, c.Flags.MutexProfileFraction} {
		err = cmd.RegisterFlagCompletionFunc(name, noFileComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", name, err)
		}
	}

	return nil
}

// Validate checks every entry of [Config.Profiles].
func (c *Config) Validate() error {
	for _, p := range c.Profiles {
		err := kinds.Check("profile", p)
		if err != nil {
			return err
		}
	}

	return nil
}

// NewProfiler creates a new [Profiler] using this [Config].
func (c *Config) NewProfiler(opts ...Option) *Profiler {
	p := &Profiler{
		Config: *c,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}
