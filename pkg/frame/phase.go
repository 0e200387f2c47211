// Package frame provides the timing primitives that drive the motion
// engine: the three per-frame phases and the Pump that steps registered
// schedulers once per phase per frame.
//
// The model is single-threaded and cooperative. The host calls
// [Pump.TickFrame] (or the three [Pump.Tick] phases individually) from its
// frame loop; everything downstream runs synchronously inside that call.
package frame

import "fmt"

// Phase identifies one of the per-frame scheduling slots a tween can be
// classified into.
type Phase int

const (
	// PhaseUpdate runs before the physics step.
	PhaseUpdate Phase = iota
	// PhasePhysics runs with the fixed physics step.
	PhasePhysics
	// PhaseLate runs after rendering has been prepared.
	PhaseLate
)

// PhaseCount is the number of timing phases.
const PhaseCount = 3

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseUpdate:
		return "update"
	case PhasePhysics:
		return "physics"
	case PhaseLate:
		return "late"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// ParsePhase converts a phase name ("update", "physics", "late") into a
// Phase. Used by configuration loading.
func ParsePhase(name string) (Phase, error) {
	switch name {
	case "update", "":
		return PhaseUpdate, nil
	case "physics":
		return PhasePhysics, nil
	case "late":
		return PhaseLate, nil
	default:
		return PhaseUpdate, fmt.Errorf("unknown timing phase %q", name)
	}
}
