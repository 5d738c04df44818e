package watch

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is used when a Debouncer is built with a
// non-positive duration. Hive replacement is typically a short burst of
// writes followed by a rename; a quarter second covers the burst.
const DefaultDebounceDuration = 250 * time.Millisecond

// Debouncer coalesces a burst of triggers into one callback invocation,
// fired once the configured duration passes without a new trigger.
type Debouncer struct {
	mu       sync.Mutex
	duration time.Duration
	timer    *time.Timer
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(d time.Duration) *Debouncer {
	if d <= 0 {
		d = DefaultDebounceDuration
	}
	return &Debouncer{duration: d}
}

// Trigger schedules fn to run after the quiet window, resetting the
// window if a previous trigger is still pending. The pending fn is
// replaced, not queued.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel drops any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Duration returns the quiet window.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
