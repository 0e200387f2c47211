package tween

import "github.com/go-drift/motion/pkg/frame"

// Options configure a tween's scheduling and conflict behavior. The zero
// value is usable: update phase, stop-on-overwrite, not recyclable.
//
// A group's parent options cascade into any field the tween did not set
// explicitly, so per-group defaults compose with per-tween overrides.
type Options struct {
	// Phase is the timing bucket the tween is classified into.
	Phase frame.Phase
	// Ease transforms the normalized position before value computation.
	// Nil means linear.
	Ease func(float64) float64
	// Overwrite is applied to this tween when a newer tween supersedes it.
	Overwrite OverwriteMode
	// Recyclable allows the tween to be returned to a pool when done.
	Recyclable bool
}

// optFlag tracks which Options fields were set explicitly on the tween,
// so parent cascading never clobbers a deliberate choice.
type optFlag uint8

const (
	optPhase optFlag = 1 << iota
	optEase
	optOverwrite
	optRecyclable
)
