package plugin

import (
	"math"
	"reflect"
	"time"

	"golang.org/x/image/math/f64"
)

// Color is a 32-bit ARGB color value animated per channel.
type Color uint32

// Angle is a rotation in degrees, interpolated along the shortest arc.
type Angle float64

// Normalize wraps the angle into [0, 360).
func (a Angle) Normalize() Angle {
	d := math.Mod(float64(a), 360)
	if d < 0 {
		d += 360
	}
	return Angle(d)
}

// Built-in arithmetic providers. Endpoint reconstruction is additive for
// every provider: End(start, Diff(start, end)) == end holds for all
// representable values. See DESIGN.md for the history behind pinning this.

type float64Arith struct{}

func (float64Arith) Diff(start, end any) any { return end.(float64) - start.(float64) }
func (float64Arith) End(start, diff any) any { return start.(float64) + diff.(float64) }
func (float64Arith) ValueAt(start, end, diff any, pos float64) any {
	return start.(float64) + diff.(float64)*pos
}

type float32Arith struct{}

func (float32Arith) Diff(start, end any) any { return end.(float32) - start.(float32) }
func (float32Arith) End(start, diff any) any { return start.(float32) + diff.(float32) }
func (float32Arith) ValueAt(start, end, diff any, pos float64) any {
	return start.(float32) + float32(float64(diff.(float32))*pos)
}

type intArith struct{}

func (intArith) Diff(start, end any) any { return end.(int) - start.(int) }
func (intArith) End(start, diff any) any { return start.(int) + diff.(int) }
func (intArith) ValueAt(start, end, diff any, pos float64) any {
	return start.(int) + int(math.Round(float64(diff.(int))*pos))
}

type int64Arith struct{}

func (int64Arith) Diff(start, end any) any { return end.(int64) - start.(int64) }
func (int64Arith) End(start, diff any) any { return start.(int64) + diff.(int64) }
func (int64Arith) ValueAt(start, end, diff any, pos float64) any {
	return start.(int64) + int64(math.Round(float64(diff.(int64))*pos))
}

type durationArith struct{}

func (durationArith) Diff(start, end any) any {
	return end.(time.Duration) - start.(time.Duration)
}
func (durationArith) End(start, diff any) any {
	return start.(time.Duration) + diff.(time.Duration)
}
func (durationArith) ValueAt(start, end, diff any, pos float64) any {
	return start.(time.Duration) + time.Duration(math.Round(float64(diff.(time.Duration))*pos))
}

type vec2Arith struct{}

func (vec2Arith) Diff(start, end any) any {
	s, e := start.(f64.Vec2), end.(f64.Vec2)
	return f64.Vec2{e[0] - s[0], e[1] - s[1]}
}
func (vec2Arith) End(start, diff any) any {
	s, d := start.(f64.Vec2), diff.(f64.Vec2)
	return f64.Vec2{s[0] + d[0], s[1] + d[1]}
}
func (vec2Arith) ValueAt(start, end, diff any, pos float64) any {
	s, d := start.(f64.Vec2), diff.(f64.Vec2)
	return f64.Vec2{s[0] + d[0]*pos, s[1] + d[1]*pos}
}

type vec3Arith struct{}

func (vec3Arith) Diff(start, end any) any {
	s, e := start.(f64.Vec3), end.(f64.Vec3)
	return f64.Vec3{e[0] - s[0], e[1] - s[1], e[2] - s[2]}
}
func (vec3Arith) End(start, diff any) any {
	s, d := start.(f64.Vec3), diff.(f64.Vec3)
	return f64.Vec3{s[0] + d[0], s[1] + d[1], s[2] + d[2]}
}
func (vec3Arith) ValueAt(start, end, diff any, pos float64) any {
	s, d := start.(f64.Vec3), diff.(f64.Vec3)
	return f64.Vec3{s[0] + d[0]*pos, s[1] + d[1]*pos, s[2] + d[2]*pos}
}

type vec4Arith struct{}

func (vec4Arith) Diff(start, end any) any {
	s, e := start.(f64.Vec4), end.(f64.Vec4)
	return f64.Vec4{e[0] - s[0], e[1] - s[1], e[2] - s[2], e[3] - s[3]}
}
func (vec4Arith) End(start, diff any) any {
	s, d := start.(f64.Vec4), diff.(f64.Vec4)
	return f64.Vec4{s[0] + d[0], s[1] + d[1], s[2] + d[2], s[3] + d[3]}
}
func (vec4Arith) ValueAt(start, end, diff any, pos float64) any {
	s, d := start.(f64.Vec4), diff.(f64.Vec4)
	return f64.Vec4{s[0] + d[0]*pos, s[1] + d[1]*pos, s[2] + d[2]*pos, s[3] + d[3]*pos}
}

// colorArith animates ARGB colors per channel. The diff is a vector of
// four channel deltas, so endpoint reconstruction stays additive and
// exact for 8-bit channels.
type colorArith struct{}

func colorChannels(c Color) [4]float64 {
	return [4]float64{
		float64((c >> 24) & 0xFF),
		float64((c >> 16) & 0xFF),
		float64((c >> 8) & 0xFF),
		float64(c & 0xFF),
	}
}

func packColor(ch [4]float64) Color {
	clamp := func(v float64) uint32 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint32(math.Round(v))
	}
	return Color(clamp(ch[0])<<24 | clamp(ch[1])<<16 | clamp(ch[2])<<8 | clamp(ch[3]))
}

func (colorArith) Diff(start, end any) any {
	s, e := colorChannels(start.(Color)), colorChannels(end.(Color))
	return [4]float64{e[0] - s[0], e[1] - s[1], e[2] - s[2], e[3] - s[3]}
}

func (colorArith) End(start, diff any) any {
	s, d := colorChannels(start.(Color)), diff.([4]float64)
	return packColor([4]float64{s[0] + d[0], s[1] + d[1], s[2] + d[2], s[3] + d[3]})
}

func (colorArith) ValueAt(start, end, diff any, pos float64) any {
	s, d := colorChannels(start.(Color)), diff.([4]float64)
	return packColor([4]float64{s[0] + d[0]*pos, s[1] + d[1]*pos, s[2] + d[2]*pos, s[3] + d[3]*pos})
}

// angleArith interpolates along the shortest arc rather than linearly.
// Diff returns the signed shortest delta in (-180, 180]; values travel
// monotonically along that arc. Endpoints are reconstructed modulo one
// turn, so End matches the normalized end angle.
type angleArith struct{}

func (angleArith) Diff(start, end any) any {
	d := math.Mod(float64(end.(Angle))-float64(start.(Angle)), 360)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}

func (angleArith) End(start, diff any) any {
	return (start.(Angle) + Angle(diff.(float64))).Normalize()
}

func (angleArith) ValueAt(start, end, diff any, pos float64) any {
	return (start.(Angle) + Angle(diff.(float64)*pos)).Normalize()
}

// reflectNumArith is the reflective fallback covering the remaining
// integer and float kinds. Deltas are carried as float64; precision
// suffices for the magnitudes animation works with.
type reflectNumArith struct{}

func numericValue(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func numericAs(t reflect.Type, f float64) any {
	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out.SetInt(int64(math.Round(f)))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if f < 0 {
			f = 0
		}
		out.SetUint(uint64(math.Round(f)))
	case reflect.Float32, reflect.Float64:
		out.SetFloat(f)
	}
	return out.Interface()
}

func (reflectNumArith) Diff(start, end any) any {
	s, _ := numericValue(start)
	e, _ := numericValue(end)
	return e - s
}

func (reflectNumArith) End(start, diff any) any {
	s, _ := numericValue(start)
	return numericAs(reflect.TypeOf(start), s+diff.(float64))
}

func (reflectNumArith) ValueAt(start, end, diff any, pos float64) any {
	s, _ := numericValue(start)
	return numericAs(reflect.TypeOf(start), s+diff.(float64)*pos)
}

// isNumericKind reports whether the reflective fallback can serve t.
func isNumericKind(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// seedBuiltinArith installs the compiled specializations into a registry
// table. TeachArith replaces entries, so taught providers take precedence
// over the built-ins for the same value type.
func seedBuiltinArith(table map[reflect.Type]Arith) {
	table[reflect.TypeOf(float64(0))] = float64Arith{}
	table[reflect.TypeOf(float32(0))] = float32Arith{}
	table[reflect.TypeOf(int(0))] = intArith{}
	table[reflect.TypeOf(int64(0))] = int64Arith{}
	table[reflect.TypeOf(time.Duration(0))] = durationArith{}
	table[reflect.TypeOf(f64.Vec2{})] = vec2Arith{}
	table[reflect.TypeOf(f64.Vec3{})] = vec3Arith{}
	table[reflect.TypeOf(f64.Vec4{})] = vec4Arith{}
	table[reflect.TypeOf(Color(0))] = colorArith{}
	table[reflect.TypeOf(Angle(0))] = angleArith{}
}

// tableArithDescriptor probes the registry's arithmetic table (taught
// providers and built-in specializations).
func tableArithDescriptor(reg *Registry) *Descriptor {
	return &Descriptor{
		Name:       "motion/arith-table",
		Version:    "v1.0.0",
		Capability: Arithmetic,
		AutoProbe: func(s Subject) (*Binding, error) {
			a, ok := reg.lookupArith(s.ValueType())
			if !ok {
				return nil, ErrNotApplicable
			}
			return &Binding{Arith: a}, nil
		},
	}
}

// reflectArithDescriptor probes the reflective numeric fallback.
func reflectArithDescriptor() *Descriptor {
	return &Descriptor{
		Name:       "motion/arith-reflect",
		Version:    "v1.0.0",
		Capability: Arithmetic,
		AutoProbe: func(s Subject) (*Binding, error) {
			if !isNumericKind(s.ValueType()) {
				return nil, ErrNotApplicable
			}
			return &Binding{Arith: reflectNumArith{}}, nil
		},
	}
}
