package pretty

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// TimeFormat selects the layout used by [Renderer.FormatTime].
type TimeFormat string

const (
	// TimeFull is the date and time with microseconds.
	TimeFull TimeFormat = "full"
	// TimeShortFull is [TimeFull] with a two-digit year.
	TimeShortFull TimeFormat = "short-full"
	// TimeDate is the date only.
	TimeDate TimeFormat = "date"
	// TimeShortDate is [TimeDate] with a two-digit year.
	TimeShortDate TimeFormat = "short-date"
)

// ErrUnknownTimeFormat indicates an unrecognized [TimeFormat].
var ErrUnknownTimeFormat = errors.New("unknown time format")

// GetAllTimeFormatStrings returns the accepted [TimeFormat] names.
func GetAllTimeFormatStrings() []string {
	return []string{string(TimeFull), string(TimeShortFull), string(TimeDate), string(TimeShortDate)}
}

// ParseTimeFormat parses a [TimeFormat] name.
func ParseTimeFormat(s string) (TimeFormat, error) {
	f := TimeFormat(strings.ToLower(s))
	if slices.Contains(GetAllTimeFormatStrings(), string(f)) {
		return f, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownTimeFormat, s)
}

// TimeOptions controls [Renderer.FormatTime].
type TimeOptions struct {
	// Location converts the time before formatting. Nil keeps the time's own
	// location.
	Location *time.Location
	// Format defaults to [TimeShortFull].
	Format TimeFormat
	// ColorKey styles the numeric parts with this style key. Empty disables
	// color. Ignored when ForPath is set.
	ColorKey string
	// ForPath uses "_" and "-" separators only, so the result can be used in
	// file names.
	ForPath bool
}

// FormatTime formats t according to opts.
func (r *Renderer) FormatTime(t time.Time, opts TimeOptions) (string, error) {
	if opts.Format == "" {
		opts.Format = TimeShortFull
	}

	if opts.Location != nil {
		t = t.In(opts.Location)
	}

	var layout string

	switch opts.Format {
	case TimeFull, TimeShortFull:
		layout = "2006-01-02 15:04:05.000000"
		if opts.ForPath {
			layout = "2006-01-02_15-04-05"
		}
	case TimeDate, TimeShortDate:
		layout = "2006-01-02"
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTimeFormat, opts.Format)
	}

	out := t.Format(layout)
	if strings.HasPrefix(string(opts.Format), "short") {
		out = out[2:]
	}

	if opts.ColorKey == "" || opts.ForPath {
		return out, nil
	}

	return r.colorDigits(out, opts.ColorKey)
}

// colorDigits styles every run between separators with key.
func (r *Renderer) colorDigits(s, key string) (string, error) {
	var (
		sb  strings.Builder
		run strings.Builder
	)

	flush := func() error {
		if run.Len() == 0 {
			return nil
		}

		styled, err := r.styles.Style(run.String(), key)
		if err != nil {
			return err
		}

		sb.WriteString(styled)
		run.Reset()

		return nil
	}

	for _, c := range s {
		if strings.ContainsRune(" -:._", c) {
			err := flush()
			if err != nil {
				return "", err
			}

			sb.WriteRune(c)

			continue
		}

		run.WriteRune(c)
	}

	err := flush()
	if err != nil {
		return "", err
	}

	return sb.String(), nil
}

// Now formats the current time with the default renderer.
func Now(opts TimeOptions) (string, error) {
	return Default().FormatTime(time.Now(), opts)
}

// Date returns today's date as "YY-MM-DD".
func Date() string {
	return time.Now().Format("2006-01-02")[2:]
}
