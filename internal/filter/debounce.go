package filter

import (
	"sync"
	"time"
)

// Debounced holds a live value that changes on every Set and a settled value
// that only follows it after window has passed with no further Set. Within a
// burst of updates only the last one is committed.
type Debounced[T any] struct {
	mu       sync.Mutex
	window   time.Duration
	equal    func(a, b T) bool
	live     T
	settled  T
	version  uint64
	timer    *time.Timer
	gen      uint64
	onCommit []func(T)
}

// NewDebounced returns a Debounced whose live and settled values start at
// initial. equal decides whether a commit changes the settled value.
func NewDebounced[T any](initial T, window time.Duration, equal func(a, b T) bool) *Debounced[T] {
	return &Debounced[T]{
		window:  window,
		equal:   equal,
		live:    initial,
		settled: initial,
	}
}

// NewComparable is NewDebounced with == as the equality function.
func NewComparable[T comparable](initial T, window time.Duration) *Debounced[T] {
	return NewDebounced(initial, window, func(a, b T) bool { return a == b })
}

// OnCommit registers fn to run, outside the lock, each time the settled value
// changes.
func (d *Debounced[T]) OnCommit(fn func(T)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onCommit = append(d.onCommit, fn)
}

// Set updates the live value and re-arms the commit timer.
func (d *Debounced[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.live = v
	d.rearmLocked()
}

// Update applies fn to the live value under the lock and re-arms the timer.
// It returns the new live value.
func (d *Debounced[T]) Update(fn func(T) T) T {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.live = fn(d.live)
	d.rearmLocked()
	return d.live
}

func (d *Debounced[T]) rearmLocked() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen) })
}

// fire commits the live value unless a later Set, Flush or Stop superseded
// the timer that scheduled it.
func (d *Debounced[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.commitAndNotify()
}

// commitAndNotify must be entered with d.mu held; it releases it.
func (d *Debounced[T]) commitAndNotify() {
	changed := !d.equal(d.settled, d.live)
	if changed {
		d.settled = d.live
		d.version++
	}
	v := d.settled
	hooks := d.onCommit
	d.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range hooks {
		fn(v)
	}
}

// Flush commits a pending value immediately.
func (d *Debounced[T]) Flush() {
	d.mu.Lock()
	if d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	d.commitAndNotify()
}

// Reset sets live and settled to v at once, cancelling any pending commit.
func (d *Debounced[T]) Reset(v T) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.live = v
	d.commitAndNotify()
}

// Stop cancels a pending commit. The live value is kept.
func (d *Debounced[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

func (d *Debounced[T]) Live() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live
}

func (d *Debounced[T]) Settled() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settled
}

// Pending reports whether a commit is scheduled.
func (d *Debounced[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Version counts commits that changed the settled value.
func (d *Debounced[T]) Version() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}
