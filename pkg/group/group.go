// Package group implements the scheduling scope that owns many tweens.
//
// A group partitions its tweens into a pending bucket and three timing
// buckets, one per [frame.Phase]. Each tick, newly added tweens are
// promoted out of pending in reverse insertion order — later additions
// get first chance to overwrite earlier ones targeting the same property,
// so "last call wins" holds within a single tick — then the requested
// phase's bucket is stepped in place.
//
// Groups are pooled and reused arena-style: Use marks the group in use,
// Reset clears all four buckets and both default references, and using an
// already in-use group fails loudly.
package group

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	moterrors "github.com/go-drift/motion/pkg/errors"
	"github.com/go-drift/motion/pkg/frame"
	"github.com/go-drift/motion/pkg/pool"
	"github.com/go-drift/motion/pkg/tween"
)

var (
	// ErrInUse reports Use on a group that was not reset after its
	// previous use.
	ErrInUse = stderrors.New("group: already in use; Reset before reuse")
	// ErrNotInUse reports Add before Use.
	ErrNotInUse = stderrors.New("group: Use must be called before Add")
	// ErrNoPump reports a wait on a group with no registered pump.
	ErrNoPump = stderrors.New("group: no pump to wait on")
)

// Group owns a collection of tweens and drives them through per-frame
// timing buckets. It implements [frame.Stepper].
type Group struct {
	// TweenPool, when set, receives recyclable tweens after completion.
	// Wired by the engine; nil disables pooling.
	TweenPool *pool.Pool[*tween.Tween]

	pending []*tween.Tween
	buckets [frame.PhaseCount][]*tween.Tween

	target     any
	pump       *frame.Pump
	parent     *tween.Options
	inUse      bool
	registered bool
}

// New creates an unused group. Call Use before adding tweens.
func New() *Group { return &Group{} }

// Use claims the group for a batch of tweens, setting the default target
// and the pump that will drive it. Using a group that has not been reset
// since its previous use is a programming error and fails loudly.
func (g *Group) Use(target any, parent *tween.Options, pump *frame.Pump) error {
	if g.inUse {
		moterrors.Report(&moterrors.MotionError{
			Op:   "group.Use",
			Kind: moterrors.KindLifecycle,
			Err:  ErrInUse,
		})
		return ErrInUse
	}
	g.target = target
	g.parent = parent
	g.pump = pump
	g.inUse = true
	return nil
}

// InUse reports whether the group has been claimed and not yet reset.
func (g *Group) InUse() bool { return g.inUse }

// Reset clears all four buckets and both default references, making the
// group valid for reuse. Tweens still held are dropped without state
// changes; callers wanting final writes should StopAll/FinishAll first.
func (g *Group) Reset() {
	if g.registered && g.pump != nil {
		g.pump.Unregister(g)
	}
	g.pending = nil
	for i := range g.buckets {
		g.buckets[i] = nil
	}
	g.target = nil
	g.pump = nil
	g.parent = nil
	g.inUse = false
	g.registered = false
}

// Add inserts a tween into the pending bucket. The group's parent options
// cascade into the tween and the group's default target is assigned if
// the tween has none. On the empty-to-non-empty transition the group
// registers itself with the pump so it begins receiving ticks.
func (g *Group) Add(t *tween.Tween) error {
	if !g.inUse {
		moterrors.Report(&moterrors.MotionError{
			Op:   "group.Add",
			Kind: moterrors.KindLifecycle,
			Err:  ErrNotInUse,
		})
		return ErrNotInUse
	}
	if t == nil {
		return stderrors.New("group: Add requires a tween")
	}
	t.ApplyDefaults(g.target, g.parent)
	wasActive := g.Has()
	g.pending = append(g.pending, t)
	if !wasActive && g.pump != nil {
		g.pump.Register(g)
		g.registered = true
	}
	return nil
}

// Step drives one tick for one phase. Pending tweens are promoted first,
// then the phase's bucket is stepped in original order with inactive
// tweens swap-removed. Returns whether the group still holds any tween;
// the pump drops the group when this becomes false.
func (g *Group) Step(phase frame.Phase, dt time.Duration) bool {
	incoming := g.promotePending(dt)

	bucket := g.buckets[phase]
	i := 0
	for i < len(bucket) {
		t := bucket[i]
		if g.stepTween(t, dt) {
			i++
			continue
		}
		last := len(bucket) - 1
		bucket[i] = bucket[last]
		bucket[last] = nil
		bucket = bucket[:last]
		g.recycle(t)
	}
	g.buckets[phase] = bucket

	for ph := range incoming {
		g.buckets[ph] = append(g.buckets[ph], incoming[ph]...)
	}

	active := g.Has()
	if !active {
		g.registered = false
	}
	return active
}

// promotePending first-steps newly added tweens in reverse insertion
// order and files survivors into the bucket for their resolved phase.
// Promoted tweens are staged and appended after the current bucket pass,
// so nothing is stepped twice in one tick.
func (g *Group) promotePending(dt time.Duration) [frame.PhaseCount][]*tween.Tween {
	var incoming [frame.PhaseCount][]*tween.Tween
	if len(g.pending) == 0 {
		return incoming
	}
	pending := g.pending
	g.pending = nil

	for i := len(pending) - 1; i >= 0; i-- {
		t := pending[i]
		if t.Done() {
			// Overwritten by a later addition before its first step.
			g.recycle(t)
			continue
		}
		g.overwrite(t, pending[:i])
		if g.stepTween(t, dt) {
			ph := t.Phase()
			incoming[ph] = append(incoming[ph], t)
		} else {
			g.recycle(t)
		}
	}
	return incoming
}

// Overwrite invokes the overwrite hook of every tracked tween sharing the
// newcomer's (target, property) pair. O(n) in tracked tweens; fine for
// the typical working set, a profiling point for very large groups.
func (g *Group) Overwrite(t *tween.Tween) {
	g.overwrite(t, nil)
}

func (g *Group) overwrite(newcomer *tween.Tween, extra []*tween.Tween) {
	target := newcomer.Target()
	if target == nil {
		return
	}
	property := newcomer.Property()
	apply := func(other *tween.Tween) {
		if other == newcomer || other.Done() {
			return
		}
		if other.Matches(target, property) {
			other.Overwritten()
		}
	}
	for _, other := range extra {
		apply(other)
	}
	for _, other := range g.pending {
		apply(other)
	}
	for _, bucket := range g.buckets {
		for _, other := range bucket {
			apply(other)
		}
	}
}

// Has reports whether any bucket, pending included, holds a tween.
func (g *Group) Has() bool {
	if len(g.pending) > 0 {
		return true
	}
	for _, b := range g.buckets {
		if len(b) > 0 {
			return true
		}
	}
	return false
}

// HasFor reports whether any live tween animates the (target, property)
// pair. A nil target or empty property acts as a wildcard.
func (g *Group) HasFor(target any, property string) bool {
	found := false
	g.each(func(t *tween.Tween) {
		if !t.Done() && t.Matches(target, property) {
			found = true
		}
	})
	return found
}

// StopAll stops every matching tween and purges completed tweens.
// Returns the number of tweens affected.
func (g *Group) StopAll(target any, property string) int {
	return g.bulk(target, property, (*tween.Tween).Stop)
}

// FinishAll jumps every matching tween to its end value and purges.
func (g *Group) FinishAll(target any, property string) int {
	return g.bulk(target, property, (*tween.Tween).Finish)
}

// CancelAll reverts every matching tween to its start value and purges.
func (g *Group) CancelAll(target any, property string) int {
	return g.bulk(target, property, (*tween.Tween).Cancel)
}

func (g *Group) bulk(target any, property string, op func(*tween.Tween)) int {
	n := 0
	g.each(func(t *tween.Tween) {
		if !t.Done() && t.Matches(target, property) {
			op(t)
			n++
		}
	})
	g.sweep()
	return n
}

// sweep removes terminal tweens from all buckets and unregisters from
// the pump when the group goes inactive outside a tick.
func (g *Group) sweep() {
	g.pending = sweepSlice(g.pending, g.recycle)
	for i := range g.buckets {
		g.buckets[i] = sweepSlice(g.buckets[i], g.recycle)
	}
	if !g.Has() && g.registered {
		if g.pump != nil {
			g.pump.Unregister(g)
		}
		g.registered = false
	}
}

func sweepSlice(list []*tween.Tween, recycle func(*tween.Tween)) []*tween.Tween {
	i := 0
	for i < len(list) {
		if !list[i].Done() {
			i++
			continue
		}
		t := list[i]
		last := len(list) - 1
		list[i] = list[last]
		list[last] = nil
		list = list[:last]
		recycle(t)
	}
	return list
}

func (g *Group) each(fn func(*tween.Tween)) {
	for _, t := range g.pending {
		fn(t)
	}
	for _, bucket := range g.buckets {
		for _, t := range bucket {
			fn(t)
		}
	}
}

// WaitInactive suspends the caller until the group holds no tweens or the
// context is done. The wait is a cooperative poll: a pump frame hook
// re-checks Has once per frame, so the tick pump itself never blocks.
// Safe to call repeatedly.
func (g *Group) WaitInactive(ctx context.Context) error {
	if !g.Has() {
		return nil
	}
	if g.pump == nil {
		return ErrNoPump
	}

	done := make(chan struct{})
	var once sync.Once
	remove := g.pump.AddFrameHook(func() {
		if !g.Has() {
			once.Do(func() { close(done) })
		}
	})
	defer remove()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stepTween steps one tween under panic recovery so a single bad tween
// cannot abort its siblings or the tick.
func (g *Group) stepTween(t *tween.Tween, dt time.Duration) (alive bool) {
	defer moterrors.RecoverWithCallback("group.Step", func(any) {
		alive = false
	})
	return t.Step(dt)
}

// recycle returns a completed tween to the pool when allowed. A tween is
// only recycled here, after it has left every bucket.
func (g *Group) recycle(t *tween.Tween) {
	if g.TweenPool == nil || !t.Recyclable() {
		return
	}
	if t.Reset() {
		g.TweenPool.Return(t)
	}
}
