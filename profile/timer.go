package profile

import (
	"errors"
	"time"

	"go.jacobcolvin.com/mlx/pretty"
)

var (
	// ErrTimerNotStarted indicates [Timer.End] before [Timer.Start].
	ErrTimerNotStarted = errors.New("timer not started")
	// ErrTimerEnded indicates [Timer.End] on an ended timer.
	ErrTimerEnded = errors.New("timer already ended")
)

// Timer measures wall clock time and reports it in a compact format such as
// "1h2m5s". The zero value is ready to use with [time.Now].
type Timer struct {
	// Clock defaults to [time.Now].
	Clock func() time.Time
	start time.Time
	end   time.Time
}

// NewTimer returns a started [Timer].
func NewTimer() *Timer {
	t := &Timer{}
	t.Start()

	return t
}

// Start starts or restarts t.
func (t *Timer) Start() {
	t.start = t.now()
	t.end = time.Time{}
}

// End stops t and returns the elapsed time formatted by [pretty.FmtDelta].
func (t *Timer) End() (string, error) {
	if t.start.IsZero() {
		return "", ErrTimerNotStarted
	}

	if !t.end.IsZero() {
		return "", ErrTimerEnded
	}

	t.end = t.now()

	return pretty.FmtDelta(t.end.Sub(t.start)), nil
}

// Elapsed returns the time since [Timer.Start], or until [Timer.End] once
// ended.
func (t *Timer) Elapsed() (time.Duration, error) {
	if t.start.IsZero() {
		return 0, ErrTimerNotStarted
	}

	if t.end.IsZero() {
		return t.now().Sub(t.start), nil
	}

	return t.end.Sub(t.start), nil
}

func (t *Timer) now() time.Time {
	if t.Clock == nil {
		return time.Now()
	}

	return t.Clock()
}
