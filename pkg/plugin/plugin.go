// Package plugin implements the provider resolution system of the motion
// engine.
//
// A tween needs three capabilities filled before it can run: a Getter to
// read the animated property, a Setter to write it, and an Arithmetic
// provider to compute differences and intermediate values for its value
// type. Each capability is served by exactly one provider, selected by a
// [Resolver] from an ordered chain of strategies:
//
//  1. the taught table — accessors and arithmetic registered up front on a
//     [Registry] for a concrete target or value type,
//  2. the specialized field accessor — a direct accessor built once at
//     bind time from the resolved struct field index,
//  3. descriptors registered by callers for auto-detection,
//  4. the reflective fallback — a full path walk on every access.
//
// Automatic selection binds weakly: a later explicit request may replace
// the binding. Explicit requests bind strongly and fail loudly, and may
// themselves be declared non-overwritable.
package plugin

import "reflect"

// Capability is a role a provider can fill for a tween.
type Capability int

const (
	// Getter reads the animated property from the target.
	Getter Capability = iota
	// Setter writes the animated property on the target.
	Setter
	// Arithmetic computes difference, endpoint and positional values.
	Arithmetic
)

// CapabilityCount is the number of capabilities a tween resolves.
const CapabilityCount = 3

// String returns a human-readable representation of the capability.
func (c Capability) String() string {
	switch c {
	case Getter:
		return "getter"
	case Setter:
		return "setter"
	case Arithmetic:
		return "arithmetic"
	default:
		return "unknown"
	}
}

// Strength marks how a binding was obtained.
type Strength int

const (
	// Weak marks a binding selected automatically; it may be replaced by a
	// later strong request.
	Weak Strength = iota
	// Strong marks a binding requested explicitly; it is authoritative.
	Strong
)

// String returns a human-readable representation of the binding strength.
func (s Strength) String() string {
	if s == Strong {
		return "strong"
	}
	return "weak"
}

// Subject is the view of a tween that probes may inspect. Probes must not
// mutate the subject; they either return a ready binding or a negative
// result.
type Subject interface {
	// Target returns the animated object, or nil when it is gone.
	Target() any
	// Property returns the animated property path ("Pos" or "Body.Pos").
	Property() string
	// ValueType returns the tween's declared value type.
	ValueType() reflect.Type
}

// targetDesc describes a target for error reporting without holding a
// reference to it.
func targetDesc(target any) string {
	if target == nil {
		return ""
	}
	return reflect.TypeOf(target).String()
}
