// Package debounce collapses bursts of calls per key into a single deferred
// call once the key has been quiet for a fixed delay.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used by form listeners.
const DefaultDelay = 300 * time.Millisecond

// Timer is the cancel handle of a scheduled call.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred calls.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock schedules calls with time.AfterFunc.
func SystemClock() Clock {
	return systemClock{}
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithClock overrides the clock used to schedule calls.
func WithClock(clock Clock) Option {
	return func(d *Debouncer) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// WithCancelHook registers a callback invoked with the key whenever a pending
// call is replaced or cancelled before it ran.
func WithCancelHook(fn func(key string)) Option {
	return func(d *Debouncer) {
		d.onCancel = fn
	}
}

// token identifies one scheduled call. A firing timer only runs its function
// while its token is still the pending one for the key.
type token struct {
	timer Timer
}

// Debouncer keeps at most one pending call per key.
type Debouncer struct {
	mu       sync.Mutex
	clock    Clock
	delay    time.Duration
	pending  map[string]*token
	closed   bool
	onCancel func(key string)
}

// New returns a Debouncer with the supplied delay. Non-positive delays fall
// back to DefaultDelay.
func New(delay time.Duration, options ...Option) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	d := &Debouncer{
		clock:   SystemClock(),
		delay:   delay,
		pending: make(map[string]*token),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d
}

// Delay reports the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger schedules fn to run once key has been quiet for the delay. A pending
// call for the same key is cancelled. Trigger returns false after Stop.
func (d *Debouncer) Trigger(key string, fn func()) bool {
	if fn == nil {
		return false
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	replaced := d.cancelLocked(key)
	tok := &token{}
	d.pending[key] = tok
	tok.timer = d.clock.AfterFunc(d.delay, func() {
		d.fire(key, tok, fn)
	})
	hook := d.onCancel
	d.mu.Unlock()

	if replaced && hook != nil {
		hook(key)
	}
	return true
}

// Cancel drops the pending call for key, reporting whether one existed.
func (d *Debouncer) Cancel(key string) bool {
	d.mu.Lock()
	cancelled := d.cancelLocked(key)
	hook := d.onCancel
	d.mu.Unlock()

	if cancelled && hook != nil {
		hook(key)
	}
	return cancelled
}

// Pending reports how many keys have a scheduled call.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop cancels every pending call and rejects future triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for key, tok := range d.pending {
		tok.timer.Stop()
		delete(d.pending, key)
	}
}

func (d *Debouncer) cancelLocked(key string) bool {
	tok, ok := d.pending[key]
	if !ok {
		return false
	}
	tok.timer.Stop()
	delete(d.pending, key)
	return true
}

func (d *Debouncer) fire(key string, tok *token, fn func()) {
	d.mu.Lock()
	if current, ok := d.pending[key]; !ok || current != tok {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()

	fn()
}
