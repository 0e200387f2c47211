// Package tween implements the unit of animated state: one property
// transition over time, driven one step per tick by its owning group.
//
// A tween owns its resolved provider bindings, its lifecycle state, and
// its value state (start, end, difference, current position). Providers
// are resolved lazily on the first update tick through [plugin.Resolver];
// a resolution failure is terminal and reported through the error
// handler, never thrown.
package tween

import (
	stderrors "errors"
	"reflect"
	"time"

	moterrors "github.com/go-drift/motion/pkg/errors"
	"github.com/go-drift/motion/pkg/frame"
	"github.com/go-drift/motion/pkg/plugin"
)

var errStillScheduled = stderrors.New("tween is still scheduled")

// Tween animates one property on one target from a start value to an end
// value over a duration.
//
// The target relationship is weak: the tween tolerates the target
// becoming invalid and fails gracefully on the next access instead of
// dereferencing blindly.
type Tween struct {
	target    any
	property  string
	valueType reflect.Type

	start   any
	end     any
	diff    any
	current any

	startSet      bool
	endFromTarget bool
	position      float64
	duration      time.Duration

	state  State
	opts   Options
	optSet optFlag

	resolver *plugin.Resolver
	requests [plugin.CapabilityCount]*plugin.Descriptor
	bindings [plugin.CapabilityCount]*plugin.Binding

	err error
}

// New creates a tween animating target's property to end over duration.
// The start value is read from the target at the first update tick unless
// SetStart is called. A duration of zero completes on the first tick.
func New(target any, property string, valueType reflect.Type, end any, duration time.Duration) *Tween {
	return &Tween{
		target:    target,
		property:  property,
		valueType: valueType,
		end:       end,
		duration:  duration,
	}
}

// Init configures a zeroed (possibly pooled) tween in place, equivalent
// to New. Returns the tween for chaining.
func (t *Tween) Init(target any, property string, valueType reflect.Type, end any, duration time.Duration) *Tween {
	*t = Tween{
		target:    target,
		property:  property,
		valueType: valueType,
		end:       end,
		duration:  duration,
	}
	return t
}

// InitFrom configures a zeroed tween in place, equivalent to NewFrom.
func (t *Tween) InitFrom(target any, property string, valueType reflect.Type, start any, duration time.Duration) *Tween {
	*t = Tween{
		target:        target,
		property:      property,
		valueType:     valueType,
		start:         start,
		startSet:      true,
		endFromTarget: true,
		duration:      duration,
	}
	return t
}

// NewFrom creates a tween animating target's property from the given
// start value back to the value the property holds when the tween first
// steps.
func NewFrom(target any, property string, valueType reflect.Type, start any, duration time.Duration) *Tween {
	t := &Tween{
		target:        target,
		property:      property,
		valueType:     valueType,
		start:         start,
		startSet:      true,
		endFromTarget: true,
		duration:      duration,
	}
	return t
}

// Target returns the animated object. Part of [plugin.Subject].
func (t *Tween) Target() any { return t.target }

// Property returns the animated property path. Part of [plugin.Subject].
func (t *Tween) Property() string { return t.property }

// ValueType returns the declared value type. Part of [plugin.Subject].
func (t *Tween) ValueType() reflect.Type { return t.valueType }

// State returns the current lifecycle state.
func (t *Tween) State() State { return t.state }

// Position returns the normalized position in [0, 1].
func (t *Tween) Position() float64 { return t.position }

// Value returns the most recently computed value.
func (t *Tween) Value() any { return t.current }

// Duration returns the tween's configured duration.
func (t *Tween) Duration() time.Duration { return t.duration }

// Err returns the last resolution or plugin error, if any.
func (t *Tween) Err() error { return t.err }

// Done reports whether the tween reached a terminal state.
func (t *Tween) Done() bool { return t.state.Terminal() }

// Recyclable reports whether the tween may return to a pool when done.
func (t *Tween) Recyclable() bool { return t.opts.Recyclable }

// Phase returns the timing bucket the tween is classified into.
func (t *Tween) Phase() frame.Phase { return t.opts.Phase }

// Options returns a copy of the tween's effective options.
func (t *Tween) Options() Options { return t.opts }

// SetStart fixes the start value instead of reading it from the target
// at the first tick.
func (t *Tween) SetStart(v any) *Tween {
	t.start = v
	t.startSet = true
	return t
}

// SetEase sets the normalized-position transform.
func (t *Tween) SetEase(fn func(float64) float64) *Tween {
	t.opts.Ease = fn
	t.optSet |= optEase
	return t
}

// SetPhase sets the timing bucket.
func (t *Tween) SetPhase(p frame.Phase) *Tween {
	t.opts.Phase = p
	t.optSet |= optPhase
	return t
}

// SetOverwriteMode sets how this tween reacts when superseded.
func (t *Tween) SetOverwriteMode(m OverwriteMode) *Tween {
	t.opts.Overwrite = m
	t.optSet |= optOverwrite
	return t
}

// SetRecyclable marks the tween for pool reuse after completion.
func (t *Tween) SetRecyclable(v bool) *Tween {
	t.opts.Recyclable = v
	t.optSet |= optRecyclable
	return t
}

// SetResolver overrides the resolver used at the first tick. Nil keeps
// the process-wide default resolver.
func (t *Tween) SetResolver(r *plugin.Resolver) *Tween {
	t.resolver = r
	return t
}

// UsePlugin records an explicit, strong provider request for the
// descriptor's capability. Before resolution the request is applied at
// the first tick; after resolution it rebinds immediately, honoring the
// bound provider's overwritable flag. Failures are reported through the
// error handler and retained in Err, so misuse is loud at the call site.
func (t *Tween) UsePlugin(d *plugin.Descriptor) *Tween {
	if d == nil {
		return t
	}
	cap := d.Capability
	if t.state == Uninitialized {
		if cur := t.requests[cap]; cur != nil && cur.NonOverwritable {
			t.reportPluginError(plugin.ErrNotOverwritable, cur.Name)
			return t
		}
		t.requests[cap] = d
		return t
	}
	if t.state.Terminal() {
		return t
	}
	b, err := t.resolverOrDefault().Rebind(t, t.bindings[cap], d)
	if err != nil {
		t.reportPluginError(err, d.Name)
		return t
	}
	t.bindings[cap] = b
	if cap == plugin.Arithmetic && t.state == Running {
		t.diff = b.Arith.Diff(t.start, t.end)
	}
	return t
}

// ApplyDefaults assigns the group's default target and cascades parent
// options into fields the tween did not set explicitly. Called by the
// owning group at Add time.
func (t *Tween) ApplyDefaults(target any, parent *Options) {
	if t.target == nil && target != nil {
		t.target = target
	}
	if parent == nil {
		return
	}
	if t.optSet&optPhase == 0 {
		t.opts.Phase = parent.Phase
	}
	if t.optSet&optEase == 0 && t.opts.Ease == nil {
		t.opts.Ease = parent.Ease
	}
	if t.optSet&optOverwrite == 0 {
		t.opts.Overwrite = parent.Overwrite
	}
	if t.optSet&optRecyclable == 0 {
		t.opts.Recyclable = parent.Recyclable
	}
}

// Step advances the tween by dt. The first call resolves providers; any
// failure is terminal for this tween only. Returns false once the tween
// no longer needs scheduling.
func (t *Tween) Step(dt time.Duration) bool {
	switch t.state {
	case Uninitialized:
		if !t.resolve() {
			return false
		}
	case Running:
	default:
		return false
	}
	return t.advance(dt)
}

// resolve selects providers for all three capabilities, snapshots the
// start value and computes the difference. Runs at most once.
func (t *Tween) resolve() bool {
	t.state = Validating
	r := t.resolverOrDefault()
	for _, cap := range []plugin.Capability{plugin.Getter, plugin.Setter, plugin.Arithmetic} {
		b, err := r.Resolve(t, cap, t.requests[cap])
		if err != nil {
			t.fail("tween.Resolve", kindFor(err), err)
			return false
		}
		t.bindings[cap] = b
	}

	getter := t.bindings[plugin.Getter].Accessor
	if !t.startSet {
		v, err := getter.Read(t.target)
		if err != nil {
			t.fail("tween.Resolve", moterrors.KindResolution, err)
			return false
		}
		t.start = v
	}
	if t.endFromTarget {
		v, err := getter.Read(t.target)
		if err != nil {
			t.fail("tween.Resolve", moterrors.KindResolution, err)
			return false
		}
		t.end = v
	}

	t.diff = t.bindings[plugin.Arithmetic].Arith.Diff(t.start, t.end)
	t.current = t.start
	t.state = Running
	return true
}

// advance moves the position by dt/duration, computes the value at the
// (possibly eased) position and writes it to the target.
func (t *Tween) advance(dt time.Duration) bool {
	if t.duration <= 0 {
		t.position = 1
	} else {
		t.position += float64(dt) / float64(t.duration)
		if t.position > 1 {
			t.position = 1
		}
	}

	pos := t.position
	if t.opts.Ease != nil {
		pos = t.opts.Ease(t.position)
	}
	t.current = t.bindings[plugin.Arithmetic].Arith.ValueAt(t.start, t.end, t.diff, pos)
	if err := t.bindings[plugin.Setter].Accessor.Write(t.target, t.current); err != nil {
		t.fail("tween.Step", moterrors.KindLifecycle, err)
		return false
	}

	if t.position >= 1 {
		t.state = Finished
		return false
	}
	return true
}

// Stop freezes the tween at its current value. No further writes occur.
func (t *Tween) Stop() {
	if t.state.Terminal() {
		return
	}
	t.state = Stopped
}

// Finish forces the position to 1 and performs one final write of the
// end value.
func (t *Tween) Finish() {
	if t.state.Terminal() {
		return
	}
	t.position = 1
	if b := t.bindings[plugin.Setter]; b != nil {
		t.current = t.end
		if err := b.Accessor.Write(t.target, t.end); err != nil {
			t.fail("tween.Finish", moterrors.KindLifecycle, err)
			return
		}
	}
	t.state = Finished
}

// Cancel performs one final write of the start value then terminates.
func (t *Tween) Cancel() {
	if t.state.Terminal() {
		return
	}
	if b := t.bindings[plugin.Setter]; b != nil && t.startKnown() {
		t.current = t.start
		if err := b.Accessor.Write(t.target, t.start); err != nil {
			t.fail("tween.Cancel", moterrors.KindLifecycle, err)
			return
		}
	}
	t.state = Canceled
}

// Overwritten applies the tween's own overwrite policy. Invoked by the
// group when a newer tween targets the same (target, property) pair.
func (t *Tween) Overwritten() {
	switch t.opts.Overwrite {
	case OverwriteIgnore:
	case OverwriteCancel:
		t.Cancel()
	case OverwriteFinish:
		t.Finish()
	default:
		t.Stop()
	}
}

// Reset returns the tween to its zero state for pool reuse. Resetting a
// tween that is still scheduled is a programming error and is refused.
func (t *Tween) Reset() bool {
	if t.state == Running || t.state == Validating {
		moterrors.Report(&moterrors.MotionError{
			Op:       "tween.Reset",
			Kind:     moterrors.KindLifecycle,
			Target:   describe(t.target),
			Property: t.property,
			Err:      errStillScheduled,
		})
		return false
	}
	*t = Tween{}
	return true
}

// Matches reports whether the tween animates the given (target, property)
// pair. Targets compare by identity.
func (t *Tween) Matches(target any, property string) bool {
	if target != nil && !sameTarget(t.target, target) {
		return false
	}
	if property != "" && t.property != property {
		return false
	}
	return true
}

func (t *Tween) startKnown() bool {
	return t.startSet || t.state == Running
}

func (t *Tween) resolverOrDefault() *plugin.Resolver {
	if t.resolver != nil {
		return t.resolver
	}
	return plugin.DefaultResolver()
}

func (t *Tween) fail(op string, kind moterrors.ErrorKind, err error) {
	t.state = Failed
	t.err = err
	moterrors.Report(&moterrors.MotionError{
		Op:       op,
		Kind:     kind,
		Target:   describe(t.target),
		Property: t.property,
		Err:      err,
	})
}

func (t *Tween) reportPluginError(err error, pluginName string) {
	var activation *moterrors.ActivationError
	if !stderrors.As(err, &activation) {
		err = &moterrors.ActivationError{Plugin: pluginName, Err: err}
	}
	t.err = err
	moterrors.Report(&moterrors.MotionError{
		Op:       "tween.UsePlugin",
		Kind:     moterrors.KindActivation,
		Target:   describe(t.target),
		Property: t.property,
		Err:      err,
	})
}

// kindFor maps a resolution error to its report category.
func kindFor(err error) moterrors.ErrorKind {
	var activation *moterrors.ActivationError
	if stderrors.As(err, &activation) {
		return moterrors.KindActivation
	}
	var arith *moterrors.ArithmeticUnsupportedError
	if stderrors.As(err, &arith) {
		return moterrors.KindArithmetic
	}
	return moterrors.KindResolution
}

// sameTarget compares targets by identity without panicking on
// uncomparable types.
func sameTarget(a, b any) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

func describe(target any) string {
	if target == nil {
		return ""
	}
	return reflect.TypeOf(target).String()
}
