package profile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/mlx/profile"
)

func TestTimer(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

	timer := &profile.Timer{Clock: func() time.Time { return now }}

	_, err := timer.End()
	require.ErrorIs(t, err, profile.ErrTimerNotStarted)

	_, err = timer.Elapsed()
	require.ErrorIs(t, err, profile.ErrTimerNotStarted)

	timer.Start()

	now = now.Add(time.Hour + 2*time.Minute + 5*time.Second)

	elapsed, err := timer.Elapsed()
	require.NoError(t, err)
	assert.Equal(t, time.Hour+2*time.Minute+5*time.Second, elapsed)

	got, err := timer.End()
	require.NoError(t, err)
	assert.Equal(t, "1h2m5s", got)

	_, err = timer.End()
	require.ErrorIs(t, err, profile.ErrTimerEnded)

	// Elapsed is frozen after End.
	now = now.Add(time.Minute)

	elapsed, err = timer.Elapsed()
	require.NoError(t, err)
	assert.Equal(t, time.Hour+2*time.Minute+5*time.Second, elapsed)

	// Restarting clears the end.
	timer.Start()

	now = now.Add(3 * time.Second)

	got, err = timer.End()
	require.NoError(t, err)
	assert.Equal(t, "3s", got)
}

func TestNewTimer(t *testing.T) {
	t.Parallel()

	timer := profile.NewTimer()

	got, err := timer.End()
	require.NoError(t, err)
	assert.Equal(t, "0s", got)
}
