// Package debounce collapses rapid triggers into a single callback after a
// quiet period. The board uses it around search input so only the last
// pending filter recomputation runs.
package debounce

import (
	"sync"
	"time"
)

// DefaultQuiet is the quiet period applied when none is given.
const DefaultQuiet = 300 * time.Millisecond

// Debouncer runs the most recently triggered function once no trigger has
// arrived for the quiet period. Earlier pending functions are discarded.
type Debouncer struct {
	quiet time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// New creates a Debouncer with the given quiet period. Non-positive
// durations fall back to DefaultQuiet.
func New(quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Debouncer{quiet: quiet}
}

// Trigger schedules fn to run after the quiet period, replacing any
// previously pending function. Triggers after Stop are ignored.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, fn)
}

// Stop cancels any pending function and rejects further triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
