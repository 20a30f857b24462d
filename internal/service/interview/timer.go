package interview

import (
	"fmt"
	"sync"
	"time"
)

// Timer owns wall-clock bookkeeping for one session. The periodic tick and
// the hard deadline share the same monotonic start reading, so the two can
// never drift apart.
type Timer struct {
	duration time.Duration
	interval time.Duration

	mu       sync.Mutex
	started  time.Time
	done     chan struct{}
	stopOnce sync.Once
}

// NewTimer builds an unstarted timer with the session's total budget and the
// tick cadence.
func NewTimer(duration, interval time.Duration) *Timer {
	return &Timer{
		duration: duration,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start records the session start time and launches the periodic source.
// onTick receives the remaining duration on every interval; onDeadline fires
// exactly once when the budget is exhausted, preceded by a final zero tick.
func (t *Timer) Start(onTick func(remaining time.Duration), onDeadline func()) {
	t.mu.Lock()
	if !t.started.IsZero() {
		t.mu.Unlock()
		return
	}
	t.started = time.Now()
	t.mu.Unlock()

	go t.run(onTick, onDeadline)
}

func (t *Timer) run(onTick func(remaining time.Duration), onDeadline func()) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	deadline := time.NewTimer(t.duration)
	defer deadline.Stop()

	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			onTick(t.Remaining())
		case <-deadline.C:
			onTick(0)
			onDeadline()
			return
		}
	}
}

// Remaining reports the time left in the budget, never negative. Before
// Start it reports the full budget.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()

	if started.IsZero() {
		return t.duration
	}

	remaining := t.duration - time.Since(started)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Started reports whether the clock is running.
func (t *Timer) Started() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.started.IsZero()
}

// Expired reports whether a started budget has run out.
func (t *Timer) Expired() bool {
	return t.Started() && t.Remaining() <= 0
}

// Stop halts the periodic source. Safe to call more than once.
func (t *Timer) Stop() {
	t.stopOnce.Do(func() { close(t.done) })
}

// FormatClock renders a duration as mm:ss for the live countdown display.
func FormatClock(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
