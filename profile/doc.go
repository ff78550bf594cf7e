// Package profile adds runtime profiling capabilities to CLI applications.
//
// It supports CPU, trace, heap, allocs, goroutine, threadcreate, block and
// mutex profiles, selected with a single --profile flag. Use
// [Config.RegisterFlags] to add CLI flags and [Config.RegisterCompletions]
// to wire up shell completions.
//
// Typical usage creates a [Config], registers flags, then creates a [Profiler]
// to wrap command execution:
//
//	cfg := profile.NewConfig()
//	p := cfg.NewProfiler(profile.WithLogger(logger))
//
//	rootCmd := &cobra.Command{
//	    PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
//	        return p.Start()
//	    },
//	}
//
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//	err := rootCmd.ExecuteContext(ctx)
//	report, stopErr := p.Stop()
//
// Users can then enable profiling via flags like
// --profile=cpu,heap --profile-dir=profiles.
//
// A [Timer] measures wall clock time for progress messages:
//
//	t := profile.NewTimer()
//	...
//	elapsed, err := t.End() // "1m5s"
package profile
