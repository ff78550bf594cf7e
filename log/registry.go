package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"go.jacobcolvin.com/mlx/style"
)

// Registry owns named loggers.
//
// Loggers are created on first use by [Registry.Get] and reconfigured in
// place by later calls, so that each name has at most one handler per base
// kind. Loggers never hand records to [slog.Default] or any other parent.
// Safe for concurrent use.
//
// Create instances with [NewRegistry].
type Registry struct {
	loggers  map[string]*Logger
	styles   *style.Engine
	stdout   io.Writer
	pub      *Publisher
	ansiPath func(string) string
	clock    func() time.Time
	mu       sync.Mutex
}

// RegistryOption configures a [Registry].
type RegistryOption func(*Registry)

// WithStyles sets the style engine used to color log lines.
func WithStyles(e *style.Engine) RegistryOption {
	return func(r *Registry) {
		r.styles = e
	}
}

// WithStdout redirects [KindStdout] sinks to w.
func WithStdout(w io.Writer) RegistryOption {
	return func(r *Registry) {
		r.stdout = w
	}
}

// WithANSIPath sets the mapping from a log path to its [KindFileANSI] path.
func WithANSIPath(fn func(string) string) RegistryOption {
	return func(r *Registry) {
		r.ansiPath = fn
	}
}

// WithPublisher attaches p to every sink built by the registry.
func WithPublisher(p *Publisher) RegistryOption {
	return func(r *Registry) {
		r.pub = p
	}
}

// WithClock overrides record timestamps.
func WithClock(fn func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.clock = fn
	}
}

// NewRegistry creates an empty [Registry].
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		loggers: make(map[string]*Logger),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// LoggerOptions selects the sinks of a [Logger].
type LoggerOptions struct {
	// Kind defaults to [KindStdout].
	Kind Kind
	// Path is the log file path, required by file kinds.
	Path string
	// Mode defaults to [FileModeAppend].
	Mode FileMode
	// Levels holds per-kind levels. Empty fields default to [LevelDebug].
	Levels Levels
}

// Get returns the logger called name, configured with opts.
//
// The new handlers are built first; only then are all handlers previously
// attached to the name closed and replaced. If building fails the prior
// configuration stays in place. The logger passes a record on when at least
// one of its handlers accepts its level, so its effective level is the
// minimum of the per-kind levels.
func (r *Registry) Get(name string, opts LoggerOptions) (*Logger, error) {
	if opts.Kind == "" {
		opts.Kind = KindStdout
	}

	hs, err := Build(opts.Kind, r.sinkOptions(name, opts))
	if err != nil {
		return nil, fmt.Errorf("logger %q: %w", name, err)
	}

	r.mu.Lock()

	l, ok := r.loggers[name]
	if !ok {
		l = newLogger(name, r)
		r.loggers[name] = l
	}

	r.mu.Unlock()

	err = closeHandlers(l.set.replace(hs))
	if err != nil {
		return l, fmt.Errorf("logger %q: %w", name, err)
	}

	return l, nil
}

// Lookup returns the logger called name, if it exists.
func (r *Registry) Lookup(name string) (*Logger, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.loggers[name]

	return l, ok
}

// Names returns the names of all loggers in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Sorted(maps.Keys(r.loggers))
}

// Close detaches and closes the handlers of every logger and empties the
// registry. Loggers obtained earlier discard records afterwards.
func (r *Registry) Close() error {
	r.mu.Lock()
	loggers := r.loggers
	r.loggers = make(map[string]*Logger)
	r.mu.Unlock()

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(loggers)) {
		err := closeHandlers(loggers[name].set.replace(nil))
		if err != nil {
			errs = append(errs, fmt.Errorf("logger %q: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

func (r *Registry) sinkOptions(name string, opts LoggerOptions) SinkOptions {
	return SinkOptions{
		Stdout:    r.stdout,
		Styles:    r.styles,
		Publisher: r.pub,
		ANSIPath:  r.ansiPath,
		Clock:     r.clock,
		Name:      name,
		Path:      opts.Path,
		Mode:      opts.Mode,
		Levels:    opts.Levels,
	}
}

// Logger is a named [slog.Logger] whose handlers can be replaced while it is
// in use. Loggers derived with [slog.Logger.With] or
// [slog.Logger.WithGroup] keep routing to the current handlers.
//
// Obtain instances from [Registry.Get].
type Logger struct {
	*slog.Logger

	reg  *Registry
	set  *handlerSet
	name string
}

func newLogger(name string, reg *Registry) *Logger {
	set := &handlerSet{}

	return &Logger{
		Logger: slog.New(&dispatcher{set: set}),
		reg:    reg,
		set:    set,
		name:   name,
	}
}

// Name returns the registry name of l.
func (l *Logger) Name() string {
	return l.name
}

// Handlers returns the currently attached handlers.
func (l *Logger) Handlers() []*Handler {
	l.set.mu.RLock()
	defer l.set.mu.RUnlock()

	return slices.Clone(l.set.handlers)
}

// Level returns the lowest level any attached handler emits. Without
// handlers it reports [SlogCritical] + 1.
func (l *Logger) Level() slog.Level {
	l.set.mu.RLock()
	defer l.set.mu.RUnlock()

	lvl := SlogCritical + 1
	for _, h := range l.set.handlers {
		lvl = min(lvl, h.Level())
	}

	return lvl
}

// AddHandlers builds handlers for kind and attaches them. Attached handlers
// of the same base kinds are closed and replaced, the others are kept.
func (l *Logger) AddHandlers(kind Kind, opts LoggerOptions) error {
	hs, err := Build(kind, l.reg.sinkOptions(l.name, opts))
	if err != nil {
		return fmt.Errorf("logger %q: %w", l.name, err)
	}

	return l.attach(hs, func(h *Handler) bool {
		return slices.ContainsFunc(hs, func(n *Handler) bool {
			return n.Kind() == h.Kind()
		})
	})
}

// AddFileHandler replaces the file handlers of l with handlers for kind
// writing to path. Kind must be [KindFile], [KindFileANSI] or
// [KindFilePlusANSI]. The new handlers use the current level of l.
func (l *Logger) AddFileHandler(path string, kind Kind) error {
	kinds, err := kind.Expand()
	if err != nil {
		return err
	}

	if slices.Contains(kinds, KindStdout) {
		return fmt.Errorf("%w: %q is not a file kind", ErrInvalidArgument, kind)
	}

	lvl := LevelDebug
	if len(l.Handlers()) > 0 {
		lvl = levelOf(l.Level())
	}

	opts := LoggerOptions{Path: path, Levels: Uniform(lvl)}

	hs, err := Build(kind, l.reg.sinkOptions(l.name, opts))
	if err != nil {
		return fmt.Errorf("logger %q: %w", l.name, err)
	}

	return l.attach(hs, func(h *Handler) bool {
		return h.Kind().IsFile()
	})
}

// DropFileHandlers closes and detaches all file handlers of l, then logs
// the removed paths to the remaining handlers.
func (l *Logger) DropFileHandlers() error {
	return l.attach(nil, func(h *Handler) bool {
		return h.Kind().IsFile()
	})
}

// attach swaps in hs, closing the attached handlers matched by drop. Removed
// file paths are logged to the handlers that were kept, never to hs.
func (l *Logger) attach(hs []*Handler, drop func(*Handler) bool) error {
	var kept []*Handler

	removed := l.set.update(func(cur []*Handler) ([]*Handler, []*Handler) {
		var dropped []*Handler
		for _, h := range cur {
			if drop(h) {
				dropped = append(dropped, h)
			} else {
				kept = append(kept, h)
			}
		}

		return append(slices.Clone(kept), hs...), dropped
	})

	err := closeHandlers(removed)

	var paths []string
	for _, h := range removed {
		if h.Path() != "" {
			paths = append(paths, h.Path())
		}
	}

	if len(paths) > 0 && len(kept) > 0 {
		notice := slog.New(&dispatcher{set: &handlerSet{handlers: kept}})
		notice.Info("handlers removed", slog.Any("paths", paths))
	}

	return err
}

// levelOf maps a severity back to the nearest named [Level] at or below it.
func levelOf(lvl slog.Level) Level {
	switch {
	case lvl < slog.LevelInfo:
		return LevelDebug
	case lvl < slog.LevelWarn:
		return LevelInfo
	case lvl < slog.LevelError:
		return LevelWarn
	case lvl < SlogCritical:
		return LevelError
	}

	return LevelCritical
}

// handlerSet is the swappable list of handlers behind a [Logger].
type handlerSet struct {
	handlers []*Handler
	mu       sync.RWMutex
}

// replace swaps in hs and returns the previous handlers.
func (s *handlerSet) replace(hs []*Handler) []*Handler {
	return s.update(func([]*Handler) ([]*Handler, []*Handler) {
		return hs, s.handlers
	})
}

// update swaps in the handlers returned by fn and returns the ones fn
// dropped.
func (s *handlerSet) update(fn func(cur []*Handler) (next, dropped []*Handler)) []*Handler {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, dropped := fn(slices.Clone(s.handlers))
	s.handlers = next

	return dropped
}

// handlerOp is a WithAttrs or WithGroup call replayed on current handlers.
type handlerOp struct {
	group string
	attrs []slog.Attr
}

// dispatcher fans out records to the handlers of a [handlerSet].
type dispatcher struct {
	set *handlerSet
	ops []handlerOp
}

func (d *dispatcher) Enabled(ctx context.Context, lvl slog.Level) bool {
	d.set.mu.RLock()
	defer d.set.mu.RUnlock()

	for _, h := range d.set.handlers {
		if h.Enabled(ctx, lvl) {
			return true
		}
	}

	return false
}

func (d *dispatcher) Handle(ctx context.Context, r slog.Record) error {
	d.set.mu.RLock()
	defer d.set.mu.RUnlock()

	var errs []error

	for _, h := range d.set.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}

		var sh slog.Handler = h
		for _, op := range d.ops {
			if op.group != "" {
				sh = sh.WithGroup(op.group)
			} else {
				sh = sh.WithAttrs(op.attrs)
			}
		}

		err := sh.Handle(ctx, r.Clone())
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (d *dispatcher) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return d
	}

	return d.with(handlerOp{attrs: slices.Clone(attrs)})
}

func (d *dispatcher) WithGroup(name string) slog.Handler {
	if name == "" {
		return d
	}

	return d.with(handlerOp{group: name})
}

func (d *dispatcher) with(op handlerOp) *dispatcher {
	return &dispatcher{
		set: d.set,
		ops: append(slices.Clip(d.ops), op),
	}
}
