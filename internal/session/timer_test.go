package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTimer returns a timer whose wall-clock ticker never fires, so tests
// drive Tick directly.
func testTimer(onExpire func()) *Timer {
	return NewTimer(onExpire, WithTickInterval(time.Hour))
}

func TestTimerCountsDownAndExpiresOnce(t *testing.T) {
	expirations := 0
	timer := testTimer(func() { expirations++ })

	timer.Start(5)
	assert.True(t, timer.Running())
	assert.Equal(t, 5, timer.Remaining())

	for i := 0; i < 4; i++ {
		assert.True(t, timer.Tick())
	}
	assert.Equal(t, 1, timer.Remaining())
	assert.Equal(t, 0, expirations)

	assert.False(t, timer.Tick())
	assert.Equal(t, 0, timer.Remaining())
	assert.False(t, timer.Running())
	assert.Equal(t, 1, expirations)

	// Ticks after expiry are discarded.
	assert.False(t, timer.Tick())
	assert.Equal(t, 0, timer.Remaining())
	assert.Equal(t, 1, expirations)
}

func TestTimerZeroMeansUnlimited(t *testing.T) {
	expirations := 0
	timer := testTimer(func() { expirations++ })

	timer.Start(0)
	assert.False(t, timer.Running())
	assert.Equal(t, 0, timer.Remaining())

	assert.False(t, timer.Tick())
	assert.Equal(t, 0, expirations)
}

func TestTimerStopPreventsExpiry(t *testing.T) {
	expirations := 0
	timer := testTimer(func() { expirations++ })

	timer.Start(3)
	assert.True(t, timer.Tick())
	timer.Stop()
	timer.Stop() // idempotent

	assert.False(t, timer.Tick())
	assert.Equal(t, 0, expirations)
	assert.False(t, timer.Running())
}

func TestTimerRestartRearmsExpiry(t *testing.T) {
	expirations := 0
	timer := testTimer(func() { expirations++ })

	timer.Start(1)
	assert.False(t, timer.Tick())
	assert.Equal(t, 1, expirations)

	timer.Start(2)
	assert.True(t, timer.Tick())
	assert.False(t, timer.Tick())
	assert.Equal(t, 2, expirations)
}

func TestTimerDisplay(t *testing.T) {
	tests := []struct {
		seconds int
		display string
	}{
		{0, "00:00"},
		{9, "00:09"},
		{59, "00:59"},
		{60, "01:00"},
		{600, "10:00"},
		{3599, "59:59"},
	}
	for _, tt := range tests {
		timer := testTimer(nil)
		timer.Start(tt.seconds)
		assert.Equal(t, tt.display, timer.Display(), "seconds=%d", tt.seconds)
		timer.Stop()
	}
}

func TestTimerLowTime(t *testing.T) {
	timer := testTimer(nil)

	timer.Start(61)
	assert.False(t, timer.LowTime())

	assert.True(t, timer.Tick()) // 60
	assert.False(t, timer.LowTime())

	assert.True(t, timer.Tick()) // 59
	assert.True(t, timer.LowTime())

	timer.Stop()
	timer.Start(0)
	assert.False(t, timer.LowTime())
}

func TestTimerRealClockExpiry(t *testing.T) {
	expired := make(chan struct{})
	timer := NewTimer(func() { close(expired) }, WithTickInterval(5*time.Millisecond))

	timer.Start(2)
	select {
	case <-expired:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "timer did not expire")
	}
	assert.False(t, timer.Running())
}
