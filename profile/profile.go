package profile

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"slices"
	"time"

	"go.jacobcolvin.com/mlx/checkarg"
	"go.jacobcolvin.com/mlx/pretty"
)

// Kind is a profile kind.
type Kind string

// Profile kinds. [KindCPU] and [KindTrace] record between [Profiler.Start]
// and [Profiler.Stop]; the others are snapshots written by [Profiler.Stop].
const (
	KindCPU          Kind = "cpu"
	KindTrace        Kind = "trace"
	KindHeap         Kind = "heap"
	KindAllocs       Kind = "allocs"
	KindGoroutine    Kind = "goroutine"
	KindThreadcreate Kind = "threadcreate"
	KindBlock        Kind = "block"
	KindMutex        Kind = "mutex"
)

// ErrNotStarted indicates [Profiler.Stop] without a prior [Profiler.Start].
var ErrNotStarted = errors.New("profiler not started")

// GetAllKindStrings returns the accepted profile kinds.
func GetAllKindStrings() []string {
	return []string{
		string(KindCPU),
		string(KindTrace),
		string(KindHeap),
		string(KindAllocs),
		string(KindGoroutine),
		string(KindThreadcreate),
		string(KindBlock),
		string(KindMutex),
	}
}

var kinds = func() *checkarg.Checker {
	c := checkarg.New(checkarg.WithIgnoreEmpty(false))
	_ = c.Cache("Profile Kind", "profile", GetAllKindStrings())

	return c
}()

// Option configures a [Profiler].
type Option func(*Profiler)

// WithLogger logs written profiles to l.
func WithLogger(l *slog.Logger) Option {
	return func(p *Profiler) {
		p.log = l
	}
}

// WithClock sets the clock used for file names and elapsed time.
func WithClock(fn func() time.Time) Option {
	return func(p *Profiler) {
		p.clock = fn
	}
}

// Report describes a finished profiling session.
type Report struct {
	// Paths maps each recorded kind to its file.
	Paths   map[Kind]string
	Elapsed time.Duration
}

// Fields renders r as a mapping ordered by kind.
func (r Report) Fields() pretty.Map {
	m := pretty.Dict("elapsed", pretty.FmtDelta(r.Elapsed))

	for _, k := range GetAllKindStrings() {
		if path, ok := r.Paths[Kind(k)]; ok {
			m = m.Set(k, path)
		}
	}

	return m
}

// Profiler controls the lifecycle of runtime profiling sessions.
//
// Call [Profiler.Start] to begin profiling and [Profiler.Stop] to write all
// enabled profiles. Files are named "<time>_<kind>.pprof" after the start
// time, or "<time>_trace.out" for execution traces.
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	log       *slog.Logger
	clock     func() time.Time
	start     time.Time
	cpuFile   *os.File
	traceFile *os.File
	paths     map[Kind]string
	Config
}

// Start validates the configuration, configures runtime profiling rates and
// starts CPU profiling and tracing if enabled. Call [Profiler.Stop] when
// profiling is complete to write snapshot profiles.
func (c *Profiler) Start() error {
	err := c.Validate()
	if err != nil {
		return err
	}

	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if c.clock == nil {
		c.clock = time.Now
	}

	c.start = c.clock()
	c.paths = make(map[Kind]string)

	if len(c.Profiles) == 0 {
		return nil
	}

	if c.Dir != "" {
		err = os.MkdirAll(c.Dir, 0o750)
		if err != nil {
			return fmt.Errorf("create profile directory: %w", err)
		}
	}

	// Configure profiling rates.
	runtime.MemProfileRate = c.MemProfileRate
	runtime.SetBlockProfileRate(c.BlockProfileRate)
	runtime.SetMutexProfileFraction(c.MutexProfileFraction)

	if c.enabled(KindCPU) {
		f, err := c.create(KindCPU)
		if err != nil {
			return err
		}

		err = pprof.StartCPUProfile(f)
		if err != nil {
			must(f.Close())

			return fmt.Errorf("starting CPU profile: %w", err)
		}

		c.cpuFile = f
	}

	if c.enabled(KindTrace) {
		f, err := c.create(KindTrace)
		if err != nil {
			must(c.stopCPU())

			return err
		}

		err = trace.Start(f)
		if err != nil {
			must(f.Close())
			must(c.stopCPU())

			return fmt.Errorf("starting trace: %w", err)
		}

		c.traceFile = f
	}

	return nil
}

// Stop stops CPU profiling and tracing, writes all enabled snapshot
// profiles and logs the written files.
func (c *Profiler) Stop() (Report, error) {
	if c.paths == nil {
		return Report{}, ErrNotStarted
	}

	var errs []error

	if c.traceFile != nil {
		trace.Stop()

		err := c.traceFile.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("closing trace: %w", err))
		}

		c.traceFile = nil
	}

	err := c.stopCPU()
	if err != nil {
		errs = append(errs, err)
	}

	err = c.writeSnapshots()
	if err != nil {
		errs = append(errs, err)
	}

	r := Report{Paths: c.paths, Elapsed: c.clock().Sub(c.start)}
	c.paths = nil

	if len(r.Paths) > 0 {
		c.log.Info("profiles written", slog.Any("report", r.Fields()))
	}

	return r, errors.Join(errs...)
}

func (c *Profiler) stopCPU() error {
	if c.cpuFile == nil {
		return nil
	}

	pprof.StopCPUProfile()

	err := c.cpuFile.Close()
	c.cpuFile = nil

	if err != nil {
		return fmt.Errorf("closing CPU profile: %w", err)
	}

	return nil
}

func (c *Profiler) enabled(k Kind) bool {
	return slices.Contains(c.Profiles, string(k))
}

// create opens the output file of k and records its path.
func (c *Profiler) create(k Kind) (*os.File, error) {
	stamp, err := pretty.Default().FormatTime(c.start, pretty.TimeOptions{ForPath: true})
	if err != nil {
		return nil, err
	}

	name := stamp + "_" + string(k) + ".pprof"
	if k == KindTrace {
		name = stamp + "_trace.out"
	}

	path := filepath.Join(c.Dir, name)

	f, err := os.Create(path) //nolint:gosec // Profile directory from CLI flag is expected.
	if err != nil {
		return nil, fmt.Errorf("create %s profile: %w", k, err)
	}

	c.paths[k] = path

	return f, nil
}

// writeSnapshots writes all enabled snapshot profiles (heap, allocs, goroutine,
// etc.).
func (c *Profiler) writeSnapshots() error {
	snapshots := []Kind{KindHeap, KindAllocs, KindGoroutine, KindThreadcreate, KindBlock, KindMutex}

	for _, k := range snapshots {
		if !c.enabled(k) {
			continue
		}

		err := c.writeProfile(k)
		if err != nil {
			return fmt.Errorf("write %s profile: %w", k, err)
		}
	}

	return nil
}

// writeProfile writes a named pprof profile to its file.
func (c *Profiler) writeProfile(k Kind) error {
	prof := pprof.Lookup(string(k))
	if prof == nil {
		return fmt.Errorf("unknown profile: %s", k)
	}

	f, err := c.create(k)
	if err != nil {
		return err
	}

	err = prof.WriteTo(f, 0)
	if err != nil {
		must(f.Close())

		return err
	}

	return f.Close()
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
