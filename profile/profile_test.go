package profile_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/mlx/checkarg"
	"go.jacobcolvin.com/mlx/profile"
)

func TestNew(t *testing.T) {
	t.Parallel()

	p := profile.NewConfig()

	// No profiles are enabled.
	assert.Empty(t, p.Profiles)
	assert.Empty(t, p.Dir)

	// Rate fields should be zero.
	assert.Zero(t, p.MemProfileRate)
	assert.Zero(t, p.BlockProfileRate)
	assert.Zero(t, p.MutexProfileFraction)
}

func TestProfile_RegisterFlags(t *testing.T) {
	t.Parallel()

	p := profile.NewConfig()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)

	p.RegisterFlags(flags)

	// Verify all flags are registered.
	wantFlags := []string{
		"profile",
		"profile-dir",
		"mem-profile-rate",
		"block-profile-rate",
		"mutex-profile-fraction",
	}

	for _, name := range wantFlags {
		flag := flags.Lookup(name)
		require.NotNil(t, flag, "flag %s should be registered", name)
	}
}

func TestProfile_RegisterFlags_Parsing(t *testing.T) {
	t.Parallel()

	p := profile.NewConfig()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)

	p.RegisterFlags(flags)

	err := flags.Parse([]string{
		"--profile=cpu,heap",
		"--profile=mutex",
		"--profile-dir=out",
		"--mem-profile-rate=1024",
		"--block-profile-rate=100",
		"--mutex-profile-fraction=10",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"cpu", "heap", "mutex"}, p.Profiles)
	assert.Equal(t, "out", p.Dir)

	// Verify rate values are bound.
	assert.Equal(t, 1024, p.MemProfileRate)
	assert.Equal(t, 100, p.BlockProfileRate)
	assert.Equal(t, 10, p.MutexProfileFraction)
}

func TestRegisterCompletions(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		flag          string
		wantValues    []cobra.Completion
		wantDirective cobra.ShellCompDirective
	}{
		"profile completions": {
			flag:          "profile",
			wantValues:    profile.GetAllKindStrings(),
			wantDirective: cobra.ShellCompDirectiveNoFileComp,
		},
		"profile-dir completions": {
			flag:          "profile-dir",
			wantDirective: cobra.ShellCompDirectiveFilterDirs,
		},
		"mem-profile-rate completions": {
			flag:          "mem-profile-rate",
			wantDirective: cobra.ShellCompDirectiveNoFileComp,
		},
		"block-profile-rate completions": {
			flag:          "block-profile-rate",
			wantDirective: cobra.ShellCompDirectiveNoFileComp,
		},
		"mutex-profile-fraction completions": {
			flag:          "mutex-profile-fraction",
			wantDirective: cobra.ShellCompDirectiveNoFileComp,
		},
	}

	cfg := profile.NewConfig()

	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	err := cfg.RegisterCompletions(cmd)
	require.NoError(t, err)

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			completionFn, ok := cmd.GetFlagCompletionFunc(tc.flag)
			require.True(t, ok)

			values, directive := completionFn(cmd, nil, "")
			assert.Equal(t, tc.wantDirective, directive)
			assert.Equal(t, tc.wantValues, values)
		})
	}
}

func TestProfile_RegisterFlags_Defaults(t *testing.T) {
	t.Parallel()

	p := profile.NewConfig()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)

	p.RegisterFlags(flags)

	// Parse with no flags to get defaults.
	err := flags.Parse([]string{})
	require.NoError(t, err)

	assert.Empty(t, p.Profiles)
	assert.Equal(t, 524288, p.MemProfileRate)
	assert.Equal(t, 1, p.BlockProfileRate)
	assert.Equal(t, 1, p.MutexProfileFraction)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := profile.NewConfig()
	cfg.Profiles = []string{"heap", "gpu"}

	require.ErrorIs(t, cfg.Validate(), checkarg.ErrUnexpectedValue)

	// Invalid kinds fail before any file is written.
	cfg.Dir = filepath.Join(t.TempDir(), "profiles")

	p := cfg.NewProfiler()
	require.ErrorIs(t, p.Start(), checkarg.ErrUnexpectedValue)

	_, err := os.Stat(cfg.Dir)
	require.ErrorIs(t, err, os.ErrNotExist)

	cfg.Profiles = []string{""}
	require.ErrorIs(t, cfg.Validate(), checkarg.ErrUnexpectedValue)
}

func TestStopWithoutStart(t *testing.T) {
	t.Parallel()

	_, err := profile.NewConfig().NewProfiler().Stop()
	require.ErrorIs(t, err, profile.ErrNotStarted)
}

func TestProfilerSnapshots(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)
	now := start

	cfg := profile.NewConfig()
	cfg.Dir = filepath.Join(t.TempDir(), "profiles")
	cfg.Profiles = []string{"heap", "goroutine"}
	cfg.MemProfileRate = 524288
	cfg.BlockProfileRate = 0
	cfg.MutexProfileFraction = 0

	var buf bytes.Buffer

	p := cfg.NewProfiler(
		profile.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		profile.WithClock(func() time.Time { return now }),
	)

	require.NoError(t, p.Start())

	now = start.Add(65 * time.Second)

	report, err := p.Stop()
	require.NoError(t, err)

	assert.Equal(t, 65*time.Second, report.Elapsed)
	assert.Equal(t, map[profile.Kind]string{
		profile.KindHeap:      filepath.Join(cfg.Dir, "24-03-05_14-07-09_heap.pprof"),
		profile.KindGoroutine: filepath.Join(cfg.Dir, "24-03-05_14-07-09_goroutine.pprof"),
	}, report.Paths)

	for _, path := range report.Paths {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	assert.Equal(t, []string{"elapsed", "heap", "goroutine"}, report.Fields().Keys())
	assert.Contains(t, buf.String(), "profiles written")

	// A stopped profiler must be started again.
	_, err = p.Stop()
	require.ErrorIs(t, err, profile.ErrNotStarted)
}

func TestProfilerNoProfiles(t *testing.T) {
	t.Parallel()

	cfg := profile.NewConfig()
	cfg.Dir = filepath.Join(t.TempDir(), "unused")

	p := cfg.NewProfiler()
	require.NoError(t, p.Start())

	report, err := p.Stop()
	require.NoError(t, err)
	assert.Empty(t, report.Paths)

	_, err = os.Stat(cfg.Dir)
	require.ErrorIs(t, err, os.ErrNotExist)
}
