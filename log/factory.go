package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/colorprofile"

	"go.jacobcolvin.com/mlx/style"
)

// Kind names a sink configuration.
type Kind string

const (
	// KindStdout writes colored lines to standard output.
	KindStdout Kind = "stdout"
	// KindFile writes ANSI-stripped lines to a file.
	KindFile Kind = "file"
	// KindFileANSI writes colored lines to a file, e.g. for terminal replay.
	KindFileANSI Kind = "file-w/-ansi"
	// KindBoth expands to [KindStdout] and [KindFile].
	KindBoth Kind = "both"
	// KindBothANSI expands to [KindStdout], [KindFileANSI] and [KindFile].
	KindBothANSI Kind = "both+ansi"
	// KindFilePlusANSI expands to [KindFileANSI] and [KindFile].
	KindFilePlusANSI Kind = "file+ansi"
)

var (
	// ErrUnknownKind indicates an unrecognized handler kind.
	ErrUnknownKind = errors.New("unknown handler kind")
	// ErrMissingPath indicates a file kind requested without a file path.
	ErrMissingPath = errors.New("missing file path")
	// ErrUnknownFileMode indicates an unrecognized file mode.
	ErrUnknownFileMode = errors.New("unknown file mode")
)

// GetAllKindStrings returns the accepted kind names.
func GetAllKindStrings() []string {
	return []string{
		string(KindStdout),
		string(KindFile),
		string(KindFileANSI),
		string(KindBoth),
		string(KindBothANSI),
		string(KindFilePlusANSI),
	}
}

// ParseKind parses a kind name. Kind names are matched exactly.
func ParseKind(s string) (Kind, error) {
	if slices.Contains(GetAllKindStrings(), s) {
		return Kind(s), nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Expand returns the base kinds of k, in the order their handlers are
// built. Base kinds expand to themselves.
func (k Kind) Expand() ([]Kind, error) {
	switch k {
	case KindStdout, KindFile, KindFileANSI:
		return []Kind{k}, nil
	case KindBoth:
		return []Kind{KindStdout, KindFile}, nil
	case KindBothANSI:
		return []Kind{KindStdout, KindFileANSI, KindFile}, nil
	case KindFilePlusANSI:
		return []Kind{KindFileANSI, KindFile}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
}

// IsFile reports whether k is a base file kind.
func (k Kind) IsFile() bool {
	return k == KindFile || k == KindFileANSI
}

// FileMode selects how file sinks open existing files.
type FileMode string

const (
	// FileModeAppend appends to existing files.
	FileModeAppend FileMode = "a"
	// FileModeOverwrite truncates existing files.
	FileModeOverwrite FileMode = "w"
)

// GetAllFileModeStrings returns the accepted file mode names.
func GetAllFileModeStrings() []string {
	return []string{string(FileModeAppend), string(FileModeOverwrite)}
}

// ParseFileMode parses a file mode. "append" and "overwrite" are accepted
// as aliases.
func ParseFileMode(s string) (FileMode, error) {
	switch strings.ToLower(s) {
	case "a", "append":
		return FileModeAppend, nil
	case "w", "overwrite":
		return FileModeOverwrite, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFileMode, s)
}

func (m FileMode) flag() int {
	if m == FileModeOverwrite {
		return os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}

	return os.O_CREATE | os.O_WRONLY | os.O_APPEND
}

// AppendExt maps a log path to its ANSI-preserving sibling by appending
// ".ansi": "run.log" -> "run.log.ansi".
func AppendExt(path string) string {
	return path + ".ansi"
}

// InsertBeforeLog maps a log path to its ANSI-preserving sibling by
// inserting ".ansi" before a ".log" extension: "run.log" -> "run.ansi.log".
func InsertBeforeLog(path string) string {
	return strings.TrimSuffix(path, ".log") + ".ansi.log"
}

// SinkOptions configures the handlers built by [Build].
type SinkOptions struct {
	// Stdout receives [KindStdout] output. Nil uses [os.Stdout], with
	// colors downsampled to what the terminal supports.
	Stdout io.Writer
	// Styles colors the formatted lines. Nil uses [style.Default].
	Styles *style.Engine
	// Publisher, if set, observes every line written by the handlers.
	Publisher *Publisher
	// ANSIPath derives the [KindFileANSI] path from Path. Nil uses
	// [AppendExt].
	ANSIPath func(string) string
	// Clock overrides record timestamps.
	Clock func() time.Time
	// Name is the logger name printed in each line.
	Name string
	// Path is the log file path, required by file kinds.
	Path string
	// Mode defaults to [FileModeAppend].
	Mode FileMode
	// Levels holds per-kind levels.
	Levels Levels
}

// Build creates the handlers for kind, expanding composite kinds.
//
// The whole expansion is validated before anything is opened: file kinds
// without [SinkOptions.Path] fail with [ErrMissingPath]. Parent directories
// of log files are created as needed. If any handler fails, the handlers
// opened so far are closed and nothing is returned.
func Build(kind Kind, opts SinkOptions) ([]*Handler, error) {
	kinds, err := kind.Expand()
	if err != nil {
		return nil, err
	}

	for _, k := range kinds {
		if k.IsFile() && opts.Path == "" {
			return nil, fmt.Errorf("%w: kind %q requires a file path", ErrMissingPath, kind)
		}
	}

	switch opts.Mode {
	case "":
		opts.Mode = FileModeAppend
	case FileModeAppend, FileModeOverwrite:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFileMode, opts.Mode)
	}

	if opts.ANSIPath == nil {
		opts.ANSIPath = AppendExt
	}

	f := NewFormatter(opts.Styles)

	handlers := make([]*Handler, 0, len(kinds))

	for _, k := range kinds {
		s, openErr := openSink(k, &opts)
		if openErr != nil {
			return nil, errors.Join(openErr, closeHandlers(handlers))
		}

		s.fmt = f
		handlers = append(handlers, newHandler(s))
	}

	return handlers, nil
}

func openSink(k Kind, opts *SinkOptions) (*sink, error) {
	s := &sink{
		pub:   opts.Publisher,
		clock: opts.Clock,
		name:  opts.Name,
		kind:  k,
		level: opts.Levels.For(k).Slog(),
		color: k != KindFile,
	}

	if k == KindStdout {
		s.w = opts.Stdout
		if s.w == nil {
			s.w = colorprofile.NewWriter(os.Stdout, os.Environ())
		}

		return s, nil
	}

	s.path = opts.Path
	if k == KindFileANSI {
		s.path = opts.ANSIPath(opts.Path)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		err := os.MkdirAll(dir, 0o750)
		if err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, opts.Mode.flag(), 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	s.w = f
	s.closer = f

	return s, nil
}

func closeHandlers(hs []*Handler) error {
	var errs []error
	for _, h := range hs {
		err := h.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("close %s handler: %w", h.Kind(), err))
		}
	}

	return errors.Join(errs...)
}
