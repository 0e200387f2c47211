// Package pool provides small free-list pools for tween and group reuse.
//
// Pooling is optional: with a disabled pool, Acquire constructs fresh
// values and Return discards them, so the core behaves identically with
// objects simply becoming garbage after completion.
package pool

// Pool is a LIFO free list with a capacity cap.
//
// Pool is deliberately not backed by sync.Pool: arena-style reuse needs
// deterministic Return semantics and an explicit capacity, and the motion
// core is single-threaded inside the tick.
type Pool[T any] struct {
	// New constructs a value when the free list is empty.
	New func() T
	// Cap bounds the free list; zero means 16.
	Cap int

	items    []T
	disabled bool
}

// Acquire pops a pooled value or constructs a fresh one.
func (p *Pool[T]) Acquire() T {
	if n := len(p.items); n > 0 && !p.disabled {
		v := p.items[n-1]
		var zero T
		p.items[n-1] = zero
		p.items = p.items[:n-1]
		return v
	}
	if p.New != nil {
		return p.New()
	}
	var zero T
	return zero
}

// Return pushes a value back onto the free list. Returns false when the
// pool is disabled or full; the value is then simply dropped.
func (p *Pool[T]) Return(v T) bool {
	if p.disabled {
		return false
	}
	if len(p.items) >= p.cap() {
		return false
	}
	p.items = append(p.items, v)
	return true
}

// Len returns the number of pooled values.
func (p *Pool[T]) Len() int { return len(p.items) }

// SetEnabled toggles pooling. Disabling drains the free list.
func (p *Pool[T]) SetEnabled(enabled bool) {
	p.disabled = !enabled
	if p.disabled {
		p.Drain()
	}
}

// Drain discards all pooled values.
func (p *Pool[T]) Drain() {
	p.items = nil
}

func (p *Pool[T]) cap() int {
	if p.Cap > 0 {
		return p.Cap
	}
	return 16
}
