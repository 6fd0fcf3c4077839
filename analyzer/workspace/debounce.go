package workspace

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a preview re-render.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer runs the most recent of a burst of calls once the calls stop
// for a quiet period. It holds a single pending slot: each Trigger cancels
// the pending call and re-arms the timer.
//
// Thread-safety: all methods are safe for concurrent use.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// NewDebouncer returns a Debouncer with the given quiet period. A
// non-positive delay means DefaultDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, replacing any call still pending. fn runs on its
// own goroutine. Trigger after Stop does nothing.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		// A timer that fired while Trigger was re-arming is stale.
		d.mu.Lock()
		current := gen == d.gen && !d.stopped
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Cancel drops the pending call, if any, and reports whether one was
// pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked()
}

func (d *Debouncer) cancelLocked() bool {
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}

// Pending reports whether a call is waiting for its quiet period.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending call and disables the Debouncer.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}
