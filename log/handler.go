package log

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"go.jacobcolvin.com/mlx/pretty"
	"go.jacobcolvin.com/mlx/style"
)

// BlockKey is the attribute key of the block marker, see [Block].
const BlockKey = "block"

// ErrClosed indicates a write to a closed [Handler].
var ErrClosed = errors.New("handler closed")

// Block returns an attribute that keeps a record away from sinks of kind k.
//
// [KindStdout] suppresses console sinks; [KindFile] suppresses both file
// sinks; [KindFileANSI] suppresses only the ANSI-preserving file sink. The
// marker itself is never printed.
//
//	logger.Info("written to the log file only", log.Block(log.KindStdout))
func Block(k Kind) slog.Attr {
	return slog.String(BlockKey, string(k))
}

func blocks(marker string, k Kind) bool {
	switch Kind(marker) {
	case "":
		return false
	case k:
		return true
	case KindFile:
		return k == KindFileANSI
	}

	return false
}

// sink is the state shared by a [Handler] and its derived handlers.
type sink struct {
	w      io.Writer
	closer io.Closer
	pub    *Publisher
	fmt    *Formatter
	clock  func() time.Time
	name   string
	path   string
	kind   Kind
	level  slog.Level
	mu     sync.Mutex
	color  bool
	closed bool
}

func (s *sink) write(line string, lvl slog.Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	_, err := io.WriteString(s.w, line+"\n")

	if s.pub != nil {
		s.pub.Publish(Entry{Logger: s.name, Kind: s.kind, Level: lvl, Line: line})
	}

	return err
}

func (s *sink) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	if s.closer == nil {
		return nil
	}

	return s.closer.Close()
}

// Handler is a [slog.Handler] for a single sink of a base [Kind].
//
// Each handler filters at its own level, drops records carrying a matching
// [Block] marker, and formats lines with a [Formatter]. [KindStdout] and
// [KindFileANSI] sinks keep colors; [KindFile] sinks strip all escape
// sequences. Safe for concurrent use.
//
// Create instances with [Build] or [NewHandler].
type Handler struct {
	sink   *sink
	block  string
	attrs  pretty.Map
	groups []string
}

func newHandler(s *sink) *Handler {
	return &Handler{sink: s}
}

// Kind returns the base kind of the sink.
func (h *Handler) Kind() Kind { return h.sink.kind }

// Path returns the file path of the sink, or "" for [KindStdout].
func (h *Handler) Path() string { return h.sink.path }

// Level returns the minimum level the sink emits.
func (h *Handler) Level() slog.Level { return h.sink.level }

// Close closes the underlying file, if any. Further records return
// [ErrClosed]. Derived handlers share the sink and are closed as well.
func (h *Handler) Close() error {
	return h.sink.close()
}

// Enabled implements [slog.Handler].
func (h *Handler) Enabled(_ context.Context, lvl slog.Level) bool {
	return lvl >= h.sink.level
}

// Handle implements [slog.Handler].
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	marker := h.block
	attrs := slices.Clone(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == BlockKey {
			marker = a.Value.Resolve().String()

			return true
		}

		attrs = appendAttr(attrs, h.groups, a)

		return true
	})

	if blocks(marker, h.sink.kind) {
		return nil
	}

	if h.sink.clock != nil {
		r.Time = h.sink.clock()
	}

	line := h.sink.fmt.Format(h.sink.name, r, attrs)
	if !h.sink.color {
		line = style.Strip(line)
	}

	return h.sink.write(line, r.Level)
}

// WithAttrs implements [slog.Handler].
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := h.clone()

	for _, a := range attrs {
		if a.Key == BlockKey && len(h.groups) == 0 {
			h2.block = a.Value.Resolve().String()

			continue
		}

		h2.attrs = appendAttr(h2.attrs, h.groups, a)
	}

	return h2
}

// WithGroup implements [slog.Handler].
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	h2 := h.clone()
	h2.groups = append(h2.groups, name)

	return h2
}

func (h *Handler) clone() *Handler {
	return &Handler{
		sink:   h.sink,
		block:  h.block,
		attrs:  slices.Clone(h.attrs),
		groups: slices.Clip(h.groups),
	}
}

func appendAttr(m pretty.Map, groups []string, a slog.Attr) pretty.Map {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return m
	}

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if len(group) == 0 {
			return m
		}

		if a.Key == "" {
			for _, ga := range group {
				m = appendAttr(m, groups, ga)
			}

			return m
		}
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	return append(m, pretty.Entry{Key: key, Value: attrValue(a.Value)})
}

func attrValue(v slog.Value) pretty.Value {
	if v.Kind() != slog.KindGroup {
		return pretty.Of(v.Any())
	}

	var m pretty.Map
	for _, a := range v.Group() {
		m = appendAttr(m, nil, a)
	}

	return m
}
