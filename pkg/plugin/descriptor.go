package plugin

import "errors"

// ErrNotApplicable is the clean negative result of a probe: the provider
// cannot serve this tween, and the resolver should try the next strategy.
var ErrNotApplicable = errors.New("plugin: provider not applicable")

// ErrNotOverwritable reports a strong request conflicting with a bound
// provider whose descriptor forbids replacement.
var ErrNotOverwritable = errors.New("plugin: bound provider is not overwritable")

// Accessor reads and writes a named property on a target object.
type Accessor interface {
	// Read returns the property's current value.
	Read(target any) (any, error)
	// Write stores value into the property.
	Write(target any, value any) error
}

// Arith computes type-specific value arithmetic for a tween.
//
// Every provider must satisfy End(start, Diff(start, end)) == end for all
// representable values, and linear providers must satisfy
// ValueAt(start, end, diff, 0) == start and ValueAt(start, end, diff, 1)
// == end within floating-point tolerance. Providers implementing
// shortest-path interpolation (such as [AngleArith]) instead guarantee
// monotone travel along the shorter arc.
type Arith interface {
	// Diff returns the type-specific delta from start to end.
	Diff(start, end any) any
	// End reconstructs the endpoint from a start value and a delta.
	End(start, diff any) any
	// ValueAt returns the value at normalized position pos in [0, 1].
	ValueAt(start, end, diff any, pos float64) any
}

// ProbeFunc inspects a tween and either returns a ready-to-use binding or
// a negative result. Return [ErrNotApplicable] when the provider simply
// does not apply; any other error is surfaced as a resolution failure.
type ProbeFunc func(Subject) (*Binding, error)

// Descriptor describes one capability provider.
type Descriptor struct {
	// Name identifies the provider in error reports.
	Name string
	// Version is an optional semantic version ("v1.2.0"), validated when
	// the descriptor is registered.
	Version string
	// Capability is the role this provider serves.
	Capability Capability
	// AutoProbe is the best-effort auto-detection path, run as part of the
	// default chain. Nil descriptors are skipped during auto-resolution.
	AutoProbe ProbeFunc
	// ManualProbe is the explicit request path. When nil, explicit
	// requests fall back to AutoProbe.
	ManualProbe ProbeFunc
	// NonOverwritable forbids a later strong request from replacing a
	// binding made through this descriptor. The zero value keeps the
	// default: bindings are overwritable.
	NonOverwritable bool
}

// Binding is one resolved provider attached to a tween capability. A
// tween holds at most one binding per capability; rebinding supersedes,
// never stacks.
type Binding struct {
	// Descriptor is the provider that produced this binding.
	Descriptor *Descriptor
	// Accessor serves Getter and Setter bindings.
	Accessor Accessor
	// Arith serves Arithmetic bindings.
	Arith Arith
	// Strength records whether the binding was auto-selected or explicit.
	Strength Strength
	// Context is an opaque blob owned by the provider, such as a cached
	// member handle. The core never inspects it.
	Context any
}

// Overwritable reports whether a later strong request may replace this
// binding.
func (b *Binding) Overwritable() bool {
	if b == nil || b.Descriptor == nil {
		return true
	}
	return !b.Descriptor.NonOverwritable
}
