package gallery

import (
	"sync"
	"time"
)

// Debouncer runs f once a burst of triggers has been quiet for the delay.
// Only the most recent schedule runs, and runs never overlap.
type Debouncer struct {
	mu      sync.Mutex
	run     sync.Mutex
	delay   time.Duration
	f       func()
	timer   *time.Timer
	seq     uint64
	stopped bool
}

// NewDebouncer returns a debouncer for f.
func NewDebouncer(delay time.Duration, f func()) *Debouncer {
	return &Debouncer{delay: delay, f: f}
}

// Trigger (re)starts the delay.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

func (d *Debouncer) fire(seq uint64) {
	d.run.Lock()
	defer d.run.Unlock()

	// A newer trigger or Stop may have arrived while waiting for the previous run.
	d.mu.Lock()
	current := seq == d.seq && !d.stopped
	if current {
		d.timer = nil
	}
	d.mu.Unlock()
	if !current {
		return
	}
	d.f()
}

// Stop cancels any pending run; later triggers are ignored. A run already in
// progress is allowed to finish.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
