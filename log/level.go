package log

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level represents a log severity by name.
type Level string

const (
	// LevelDebug is for diagnostic detail.
	LevelDebug Level = "debug"
	// LevelInfo is for routine messages.
	LevelInfo Level = "info"
	// LevelWarn is for conditions worth attention.
	LevelWarn Level = "warning"
	// LevelError is for failures.
	LevelError Level = "error"
	// LevelCritical is for failures that stop the program.
	LevelCritical Level = "critical"
)

// SlogCritical is the [slog.Level] used for [LevelCritical].
const SlogCritical = slog.LevelError + 4

// GetAllLevelStrings returns the canonical level names in severity order.
func GetAllLevelStrings() []string {
	return []string{
		string(LevelDebug),
		string(LevelInfo),
		string(LevelWarn),
		string(LevelError),
		string(LevelCritical),
	}
}

// ParseLevel parses a level name, case-insensitively. "detail" is accepted
// as an alias for [LevelDebug] and "warn" for [LevelWarn].
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "detail", "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "critical":
		return LevelCritical, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
}

// Slog returns the ordered severity of l. Unknown names map to
// [slog.LevelInfo].
func (l Level) Slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	case LevelCritical:
		return SlogCritical
	}

	return slog.LevelInfo
}

// Abbrev returns the short tag printed in log lines.
func (l Level) Abbrev() string {
	return abbrev(l.Slog())
}

func abbrev(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "DBG"
	case l < slog.LevelWarn:
		return "INFO"
	case l < slog.LevelError:
		return "WARN"
	case l < SlogCritical:
		return "ERR"
	}

	return "CRIT"
}

// Levels holds the level of each sink family.
//
// Stdout applies to [KindStdout] sinks; File applies to [KindFile] and
// [KindFileANSI] sinks. Empty fields default to [LevelDebug].
type Levels struct {
	Stdout Level
	File   Level
}

// Uniform returns [Levels] with l for every sink.
func Uniform(l Level) Levels {
	return Levels{Stdout: l, File: l}
}

// For returns the level used by sinks of kind k.
func (ls Levels) For(k Kind) Level {
	l := ls.File
	if k == KindStdout {
		l = ls.Stdout
	}

	if l == "" {
		return LevelDebug
	}

	return l
}

// Min returns the lowest severity among kinds, so that a logger over those
// sinks lets every record through that at least one sink accepts.
func (ls Levels) Min(kinds ...Kind) slog.Level {
	if len(kinds) == 0 {
		return min(ls.For(KindStdout).Slog(), ls.For(KindFile).Slog())
	}

	lvl := SlogCritical
	for _, k := range kinds {
		lvl = min(lvl, ls.For(k).Slog())
	}

	return lvl
}
