package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	charmlog "charm.land/log/v2"
)

// Format represents the log output format.
type Format string

const (
	// FormatPretty outputs colored lines in the
	// "time|[name::func::file:line:LVL]: message" layout.
	FormatPretty Format = "pretty"
	// FormatText outputs human-friendly lines via charm log.
	FormatText Format = "text"
	// FormatJSON outputs logs as JSON objects.
	FormatJSON Format = "json"
	// FormatLogfmt outputs logs in logfmt format.
	FormatLogfmt Format = "logfmt"
)

var (
	// ErrInvalidArgument indicates an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownLogLevel indicates an unrecognized log level string.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownLogFormat indicates an unrecognized log format string.
	ErrUnknownLogFormat = errors.New("unknown log format")
)

// NewHandlerFromStrings creates a [slog.Handler] by strings.
func NewHandlerFromStrings(w io.Writer, logLevel, logFormat string) (slog.Handler, error) {
	lvl, err := ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	f, err := ParseFormat(logFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return NewHandler(w, lvl, f), nil
}

// NewHandler creates a [slog.Handler] writing to w with the specified level
// and format. [FormatPretty] returns a colored [*Handler] of [KindStdout].
func NewHandler(w io.Writer, lvl Level, f Format) slog.Handler {
	switch f {
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource: true,
			Level:     lvl.Slog(),
		})

	case FormatLogfmt:
		return slog.NewTextHandler(w, &slog.HandlerOptions{
			AddSource: true,
			Level:     lvl.Slog(),
		})

	case FormatText:
		return charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(lvl.Slog()),
			ReportTimestamp: true,
			ReportCaller:    true,
		})
	}

	return newHandler(&sink{
		w:     w,
		kind:  KindStdout,
		level: lvl.Slog(),
		color: true,
		fmt:   NewFormatter(nil),
	})
}

// GetAllFormatStrings returns the accepted format names.
func GetAllFormatStrings() []string {
	return []string{
		string(FormatPretty),
		string(FormatText),
		string(FormatJSON),
		string(FormatLogfmt),
	}
}

// ParseFormat parses a log format string and returns the corresponding
// [Format].
func ParseFormat(format string) (Format, error) {
	f := Format(strings.ToLower(format))
	if slices.Contains(GetAllFormatStrings(), string(f)) {
		return f, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownLogFormat, format)
}
