package log_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/mlx/log"
	"go.jacobcolvin.com/mlx/style"
)

func newRegistry(t *testing.T, stdout *bytes.Buffer) *log.Registry {
	t.Helper()

	reg := log.NewRegistry(log.WithStdout(stdout), log.WithClock(fixedClock))
	t.Cleanup(func() { require.NoError(t, reg.Close()) })

	return reg
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(b)
}

func TestRegistryGetIdempotent(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	reg := newRegistry(t, &stdout)

	first, err := reg.Get("x", log.LoggerOptions{})
	require.NoError(t, err)

	second, err := reg.Get("x", log.LoggerOptions{Kind: log.KindStdout})
	require.NoError(t, err)

	assert.Same(t, first, second)
	require.Len(t, second.Handlers(), 1)

	second.Info("once")

	assert.Equal(t, 1, strings.Count(stdout.String(), "once"))
}

func TestRegistryGetFailureKeepsConfig(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	reg := newRegistry(t, &stdout)

	logger, err := reg.Get("x", log.LoggerOptions{Levels: log.Uniform(log.LevelWarn)})
	require.NoError(t, err)

	_, err = reg.Get("x", log.LoggerOptions{Kind: log.KindFile})
	require.ErrorIs(t, err, log.ErrMissingPath)

	hs := logger.Handlers()
	require.Len(t, hs, 1)
	assert.Equal(t, log.KindStdout, hs[0].Kind())
	assert.Equal(t, slog.LevelWarn, logger.Level())

	logger.Warn("still here")
	assert.Contains(t, stdout.String(), "still here")
}

func TestRegistrySplitLevels(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	reg := newRegistry(t, &stdout)
	path := filepath.Join(t.TempDir(), "split.log")

	logger, err := reg.Get("split", log.LoggerOptions{
		Kind:   log.KindBoth,
		Path:   path,
		Levels: log.Levels{Stdout: log.LevelInfo, File: log.LevelDebug},
	})
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, logger.Level())

	logger.Debug("details")
	logger.Info("summary")

	assert.NotContains(t, stdout.String(), "details")
	assert.Contains(t, stdout.String(), "summary")

	file := readFile(t, path)
	assert.Contains(t, file, "details")
	assert.Contains(t, file, "summary")
}

func TestRegistryReconfigureDerived(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	reg := newRegistry(t, &stdout)
	path := filepath.Join(t.TempDir(), "derived.log")

	logger, err := reg.Get("derived", log.LoggerOptions{})
	require.NoError(t, err)

	child := logger.With(slog.String("run", "a1"))

	_, err = reg.Get("derived", log.LoggerOptions{Kind: log.KindFile, Path: path})
	require.NoError(t, err)

	child.Info("after reconfigure")

	assert.Empty(t, stdout.String())
	assert.Contains(t, readFile(t, path), "after reconfigure {run: a1}")
}

func TestRegistryLookupNamesClose(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	reg := log.NewRegistry(log.WithStdout(&stdout))

	_, ok := reg.Lookup("b")
	assert.False(t, ok)

	for _, name := range []string{"b", "a", "c"} {
		_, err := reg.Get(name, log.LoggerOptions{})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"a", "b", "c"}, reg.Names())

	logger, ok := reg.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "b", logger.Name())

	require.NoError(t, reg.Close())

	assert.Empty(t, reg.Names())
	assert.Empty(t, logger.Handlers())
	assert.False(t, logger.Enabled(context.Background(), log.SlogCritical))

	logger.Error("dropped")
	assert.NotContains(t, stdout.String(), "dropped")
}

func TestLoggerAddFileHandler(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	reg := newRegistry(t, &stdout)
	dir := t.TempDir()

	logger, err := reg.Get("files", log.LoggerOptions{Levels: log.Uniform(log.LevelInfo)})
	require.NoError(t, err)

	first := filepath.Join(dir, "first.log")
	require.NoError(t, logger.AddFileHandler(first, log.KindFilePlusANSI))

	hs := logger.Handlers()
	require.Len(t, hs, 3)

	for _, h := range hs[1:] {
		assert.True(t, h.Kind().IsFile())
		assert.Equal(t, slog.LevelInfo, h.Level())
	}

	logger.Info("to first")

	second := filepath.Join(dir, "second.log")
	require.NoError(t, logger.AddFileHandler(second, log.KindFile))

	hs = logger.Handlers()
	require.Len(t, hs, 2)
	assert.Equal(t, second, hs[1].Path())

	logger.Info("to second")

	assert.Contains(t, readFile(t, first), "to first")
	assert.NotContains(t, readFile(t, first), "to second")
	assert.Contains(t, readFile(t, log.AppendExt(first)), "\x1b[")
	assert.Contains(t, readFile(t, second), "to second")
	assert.NotContains(t, readFile(t, second), "handlers removed")
	assert.NotContains(t, readFile(t, first), "handlers removed")
	assert.Contains(t, stdout.String(), "handlers removed")
}

func TestLoggerAddFileHandlerRejectsStdout(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t, &bytes.Buffer{})

	logger, err := reg.Get("x", log.LoggerOptions{})
	require.NoError(t, err)

	for _, kind := range []log.Kind{log.KindStdout, log.KindBoth, log.KindBothANSI} {
		err := logger.AddFileHandler(filepath.Join(t.TempDir(), "x.log"), kind)
		require.ErrorIs(t, err, log.ErrInvalidArgument)
	}

	err = logger.AddFileHandler("x.log", "syslog")
	require.ErrorIs(t, err, log.ErrUnknownKind)

	assert.Len(t, logger.Handlers(), 1)
}

func TestLoggerAddHandlers(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	reg := newRegistry(t, &stdout)
	path := filepath.Join(t.TempDir(), "add.log")

	logger, err := reg.Get("add", log.LoggerOptions{Kind: log.KindBoth, Path: path})
	require.NoError(t, err)

	err = logger.AddHandlers(log.KindStdout, log.LoggerOptions{Levels: log.Uniform(log.LevelError)})
	require.NoError(t, err)

	hs := logger.Handlers()
	require.Len(t, hs, 2)

	var kinds []log.Kind
	for _, h := range hs {
		kinds = append(kinds, h.Kind())
	}

	assert.ElementsMatch(t, []log.Kind{log.KindStdout, log.KindFile}, kinds)

	logger.Info("file only")

	assert.NotContains(t, stdout.String(), "file only")
	assert.Contains(t, readFile(t, path), "file only")
}

func TestLoggerDropFileHandlers(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	reg := newRegistry(t, &stdout)
	path := filepath.Join(t.TempDir(), "drop.log")

	logger, err := reg.Get("drop", log.LoggerOptions{Kind: log.KindBothANSI, Path: path})
	require.NoError(t, err)
	require.Len(t, logger.Handlers(), 3)

	require.NoError(t, logger.DropFileHandlers())

	hs := logger.Handlers()
	require.Len(t, hs, 1)
	assert.Equal(t, log.KindStdout, hs[0].Kind())

	logger.Info("console only")

	assert.Contains(t, stdout.String(), "handlers removed")
	assert.Contains(t, stdout.String(), "console only")
	assert.NotContains(t, readFile(t, path), "console only")

	require.NoError(t, logger.DropFileHandlers())
	assert.Len(t, logger.Handlers(), 1)
}

func TestLoggerLineLayout(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	reg := newRegistry(t, &stdout)

	logger, err := reg.Get("fmt", log.LoggerOptions{})
	require.NoError(t, err)

	logger.Info("hello", slog.Int("n", 1))
	logger.WithGroup("req").Warn("grouped", slog.String("method", "GET"))
	logger.Log(context.Background(), log.SlogCritical, "boom")

	lines := strings.Split(strings.TrimSuffix(style.Strip(stdout.String()), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Regexp(t,
		`^2024-03-05 14:07:09\|\[fmt::TestLoggerLineLayout::registry_test\.go:\d+:INFO\]: hello \{n: 1\}$`,
		lines[0])
	assert.Regexp(t, `:WARN\]: grouped \{req\.method: GET\}$`, lines[1])
	assert.Regexp(t, `:CRIT\]: boom$`, lines[2])
}

func TestLoggerBlock(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	reg := newRegistry(t, &stdout)
	path := filepath.Join(t.TempDir(), "block.log")

	logger, err := reg.Get("block", log.LoggerOptions{Kind: log.KindBoth, Path: path})
	require.NoError(t, err)

	logger.Info("file only", log.Block(log.KindStdout))
	logger.With(log.Block(log.KindFile)).Info("console only")

	assert.NotContains(t, stdout.String(), "file only")
	assert.Contains(t, stdout.String(), "console only")

	file := readFile(t, path)
	assert.Contains(t, file, "file only")
	assert.NotContains(t, file, "console only")
}

func TestLoggerMultiLineAttr(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	reg := newRegistry(t, &stdout)
	path := filepath.Join(t.TempDir(), "multi.log")

	logger, err := reg.Get("multi", log.LoggerOptions{Kind: log.KindBothANSI, Path: path})
	require.NoError(t, err)

	logger.Info("prompt", slog.String("text", "a\nbbbb"), slog.String("crlf", "cr\r\nlf"))

	want := "prompt {text: a\nbbbb, crlf: cr\r\nlf}\n"

	assert.True(t, strings.HasSuffix(readFile(t, path), want))
	assert.True(t, strings.HasSuffix(style.Strip(readFile(t, log.AppendExt(path))), want))
	assert.True(t, strings.HasSuffix(style.Strip(stdout.String()), want))
}
