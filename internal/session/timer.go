package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Timer is a single countdown clock decremented once per tick interval
// while running. Starting a new run cancels the previous tick source, so
// expiry can fire at most once per run.
type Timer struct {
	mu        sync.Mutex
	remaining int
	running   bool
	interval  time.Duration
	onExpire  func()
	cancel    context.CancelFunc
}

type TimerOption func(*Timer)

// WithTickInterval overrides the one-second wall-clock tick. Tests use a
// long interval and drive Tick directly.
func WithTickInterval(d time.Duration) TimerOption {
	return func(t *Timer) {
		t.interval = d
	}
}

// NewTimer creates a dormant timer. onExpire is invoked exactly once per
// run when the countdown reaches zero; it may be nil.
func NewTimer(onExpire func(), opts ...TimerOption) *Timer {
	t := &Timer{
		interval: time.Second,
		onExpire: onExpire,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start arms the countdown with totalSeconds and re-arms expiry for the
// new run. A totalSeconds of 0 means no timer: the clock stays dormant
// and never fires. Any previous run is cancelled first.
func (t *Timer) Start(totalSeconds int) {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.remaining = totalSeconds
	t.running = totalSeconds > 0
	if !t.running {
		t.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	interval := t.interval
	t.mu.Unlock()

	go t.run(ctx, interval)
}

func (t *Timer) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !t.Tick() {
				return
			}
		}
	}
}

// Tick decrements the countdown by one second. When it reaches zero the
// timer stops and the expiry callback fires. Ticks on a stopped timer are
// discarded, which also shields against a stale tick source racing Stop.
func (t *Timer) Tick() bool {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return false
	}
	t.remaining--
	if t.remaining > 0 {
		t.mu.Unlock()
		return true
	}
	t.remaining = 0
	t.running = false
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	onExpire := t.onExpire
	t.mu.Unlock()

	if onExpire != nil {
		onExpire()
	}
	return false
}

// Stop halts ticking without firing expiry. Idempotent.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Remaining returns the seconds left on the clock.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Running reports whether the countdown is ticking.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Display renders the countdown as zero-padded "mm:ss".
func (t *Timer) Display() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fmt.Sprintf("%02d:%02d", t.remaining/60, t.remaining%60)
}

// LowTime is true during the final minute of a running countdown.
func (t *Timer) LowTime() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining > 0 && t.remaining < 60
}
