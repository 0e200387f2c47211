package tween

import "fmt"

// State is the lifecycle state of a tween.
//
// The lifecycle is:
//
//	Uninitialized ──► Validating ──► Running ──► Finished
//	                      │             │            Stopped
//	                      ▼             └──────────► Canceled
//	                   Failed
//
// Uninitialized moves to Validating on the first update tick, not at
// construction, so option chains set after construction (explicit plugin
// requests included) still apply. Validating moves to Running only when
// every required provider resolves; resolution failure is terminal.
type State int

const (
	// Uninitialized means the tween has not yet resolved its providers.
	Uninitialized State = iota
	// Validating means provider resolution is in progress.
	Validating
	// Running means the tween advances each tick.
	Running
	// Finished means the position reached 1 or Finish was called.
	Finished
	// Stopped means the tween froze at its current value.
	Stopped
	// Canceled means the tween reverted to its start value.
	Canceled
	// Failed means provider resolution failed; the tween never ran.
	Failed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Validating:
		return "validating"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Stopped:
		return "stopped"
	case Canceled:
		return "canceled"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether the state ends the tween's lifecycle.
func (s State) Terminal() bool {
	switch s {
	case Finished, Stopped, Canceled, Failed:
		return true
	default:
		return false
	}
}

// OverwriteMode selects what happens to a tween when a newer tween
// targets the same (target, property) pair.
type OverwriteMode int

const (
	// OverwriteStop freezes the superseded tween at its current value.
	// This is the default: reverting mid-flight causes a visible snap.
	OverwriteStop OverwriteMode = iota
	// OverwriteCancel reverts the superseded tween to its start value.
	OverwriteCancel
	// OverwriteFinish jumps the superseded tween to its end value.
	OverwriteFinish
	// OverwriteIgnore leaves the superseded tween running. Both tweens
	// then write the same property each tick; use deliberately.
	OverwriteIgnore
)

// String returns a human-readable representation of the mode.
func (m OverwriteMode) String() string {
	switch m {
	case OverwriteStop:
		return "stop"
	case OverwriteCancel:
		return "cancel"
	case OverwriteFinish:
		return "finish"
	case OverwriteIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("OverwriteMode(%d)", int(m))
	}
}
