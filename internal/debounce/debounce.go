// Package debounce delays actions until input has been quiet for a fixed
// period.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs the last function passed to Debounce once no further call
// has arrived for its duration. A zero duration runs functions immediately.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	gen      uint64
	duration time.Duration
}

func New(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Duration returns the quiet period.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}

// Debounce schedules fn, replacing any pending call.
func (d *Debouncer) Debounce(fn func()) {
	if d.duration <= 0 {
		d.Immediate(fn)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	gen := d.gen
	d.timer = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		// a timer that already fired can still lose to Cancel or a newer call
		current := gen == d.gen
		if current {
			d.timer = nil
		}
		d.mu.Unlock()

		if current {
			fn()
		}
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Immediate cancels any pending call and runs fn on the caller's goroutine.
func (d *Debouncer) Immediate(fn func()) {
	d.Cancel()
	fn()
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Query debounces free-text input: the handler receives the value of the
// last Input call once typing pauses.
type Query struct {
	debouncer *Debouncer
	mu        sync.Mutex
	pending   string
	last      string
}

func NewQuery(duration time.Duration) *Query {
	return &Query{debouncer: New(duration)}
}

// Input records value and schedules handler with the latest value.
func (q *Query) Input(value string, handler func(string)) {
	q.mu.Lock()
	q.pending = value
	q.mu.Unlock()

	q.debouncer.Debounce(func() {
		q.mu.Lock()
		v := q.pending
		q.last = v
		q.mu.Unlock()

		handler(v)
	})
}

// Clear cancels the pending input and runs handler with an empty value at
// once.
func (q *Query) Clear(handler func(string)) {
	q.debouncer.Immediate(func() {
		q.mu.Lock()
		q.pending = ""
		q.last = ""
		q.mu.Unlock()

		handler("")
	})
}

// Last returns the value most recently delivered to a handler.
func (q *Query) Last() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.last
}

// Delay returns the quiet period.
func (q *Query) Delay() time.Duration {
	return q.debouncer.Duration()
}

func (q *Query) Cancel() {
	q.debouncer.Cancel()
}
