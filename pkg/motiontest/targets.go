package motiontest

import (
	"golang.org/x/image/math/f64"

	"github.com/go-drift/motion/pkg/plugin"
)

// Point is a minimal animation target.
type Point struct {
	X float64
	Y float64
}

// Body is a richer target exercising nested paths and the non-scalar
// built-in value types.
type Body struct {
	Pos     f64.Vec2
	Heading plugin.Angle
	Tint    plugin.Color
	Health  int

	Anchor Point

	hidden float64
}

// Hidden returns the unexported field, which no accessor strategy may
// bind to.
func (b *Body) Hidden() float64 { return b.hidden }

// RecordingAccessor wraps an accessor and counts calls, for asserting
// which provider a resolver bound.
type RecordingAccessor struct {
	Inner  plugin.Accessor
	Reads  int
	Writes int
}

func (r *RecordingAccessor) Read(target any) (any, error) {
	r.Reads++
	return r.Inner.Read(target)
}

func (r *RecordingAccessor) Write(target any, value any) error {
	r.Writes++
	return r.Inner.Write(target, value)
}

// RecordingArith wraps an arithmetic provider and counts calls.
type RecordingArith struct {
	Inner    plugin.Arith
	DiffN    int
	EndN     int
	ValueAtN int
}

func (r *RecordingArith) Diff(start, end any) any {
	r.DiffN++
	return r.Inner.Diff(start, end)
}

func (r *RecordingArith) End(start, diff any) any {
	r.EndN++
	return r.Inner.End(start, diff)
}

func (r *RecordingArith) ValueAt(start, end, diff any, pos float64) any {
	r.ValueAtN++
	return r.Inner.ValueAt(start, end, diff, pos)
}
