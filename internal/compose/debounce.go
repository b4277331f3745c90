package compose

import (
	"sync"
	"time"
)

// Debouncer runs only the most recently scheduled function, once the caller
// has been quiet for the delay. Every Schedule gets a generation number;
// a function whose generation is no longer current never runs.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

// NewDebouncer returns a Debouncer that waits delay after the last Schedule.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule cancels any pending function and arranges for fn to run after
// the delay. fn receives its generation so it can check IsCurrent before
// publishing a result.
func (d *Debouncer) Schedule(fn func(gen uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		if d.IsCurrent(gen) {
			fn(gen)
		}
	})
	return gen
}

// IsCurrent reports whether gen is still the latest scheduled generation.
func (d *Debouncer) IsCurrent(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}

// Stop cancels the pending function and invalidates every generation
// handed out so far.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
