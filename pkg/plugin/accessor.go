package plugin

import (
	"fmt"
	"reflect"
	"strings"

	moterrors "github.com/go-drift/motion/pkg/errors"
)

// The three built-in accessor strategies share one probe/bind/read/write
// contract so the resolver stays strategy-agnostic:
//
//   - taught: looks the property up in the registry's teach table,
//   - field: resolves the struct field index chain once at probe time and
//     binds closures doing direct indexed access ("generated" accessor),
//   - reflect: walks the property path by name on every access.
//
// All strategies require a non-nil pointer target for writes. Binding a
// setter onto a target that is copied by value fails with
// ValueTypeUnsupportedError rather than silently mutating a copy.

// taughtAccessorDescriptor probes the registry teach table.
func taughtAccessorDescriptor(cap Capability, reg *Registry) *Descriptor {
	write := cap == Setter
	return &Descriptor{
		Name:       "motion/taught",
		Version:    "v1.0.0",
		Capability: cap,
		AutoProbe: func(s Subject) (*Binding, error) {
			target := s.Target()
			if target == nil {
				return nil, &moterrors.TargetNotFoundError{Property: s.Property()}
			}
			ta, ok := reg.lookupTaught(reflect.TypeOf(target), s.Property())
			if !ok {
				return nil, ErrNotApplicable
			}
			if ta.valueType != s.ValueType() {
				return nil, &moterrors.TypeMismatchError{
					Target:   targetDesc(target),
					Property: s.Property(),
					Want:     s.ValueType(),
					Got:      ta.valueType,
				}
			}
			if write {
				if err := requireWritable(target, s.Property()); err != nil {
					return nil, err
				}
			}
			return &Binding{Accessor: ta.acc}, nil
		},
	}
}

// fieldAccessorDescriptor probes the specialized direct-field strategy.
func fieldAccessorDescriptor(cap Capability) *Descriptor {
	write := cap == Setter
	return &Descriptor{
		Name:       "motion/field",
		Version:    "v1.0.0",
		Capability: cap,
		AutoProbe: func(s Subject) (*Binding, error) {
			target := s.Target()
			if target == nil {
				return nil, &moterrors.TargetNotFoundError{Property: s.Property()}
			}
			if write {
				if err := requireWritable(target, s.Property()); err != nil {
					return nil, err
				}
			}
			st, err := structType(target)
			if err != nil {
				return nil, err
			}
			index, got, err := resolveFieldPath(st, s.Property())
			if err != nil {
				return nil, err
			}
			if got != s.ValueType() {
				return nil, &moterrors.TypeMismatchError{
					Target:   targetDesc(target),
					Property: s.Property(),
					Want:     s.ValueType(),
					Got:      got,
				}
			}
			acc := &fieldAccessor{index: index, path: s.Property(), want: got}
			return &Binding{Accessor: acc, Context: index}, nil
		},
	}
}

// reflectAccessorDescriptor probes the generic reflective fallback.
func reflectAccessorDescriptor(cap Capability) *Descriptor {
	write := cap == Setter
	return &Descriptor{
		Name:       "motion/reflect",
		Version:    "v1.0.0",
		Capability: cap,
		AutoProbe: func(s Subject) (*Binding, error) {
			target := s.Target()
			if target == nil {
				return nil, &moterrors.TargetNotFoundError{Property: s.Property()}
			}
			if write {
				if err := requireWritable(target, s.Property()); err != nil {
					return nil, err
				}
			}
			acc := &reflectAccessor{segments: strings.Split(s.Property(), "."), path: s.Property(), want: s.ValueType()}
			// Validate the path once so resolution failures surface at bind
			// time, not on the first frame.
			v, err := acc.locate(target)
			if err != nil {
				return nil, err
			}
			if v.Type() != s.ValueType() {
				return nil, &moterrors.TypeMismatchError{
					Target:   targetDesc(target),
					Property: s.Property(),
					Want:     s.ValueType(),
					Got:      v.Type(),
				}
			}
			return &Binding{Accessor: acc}, nil
		},
	}
}

// requireWritable rejects by-value targets for setter bindings.
func requireWritable(target any, property string) error {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() {
		return &moterrors.TargetNotFoundError{Property: property}
	}
	if rv.Kind() != reflect.Pointer {
		return &moterrors.ValueTypeUnsupportedError{
			Target:   targetDesc(target),
			Property: property,
			Reason:   "target is copied by value; writes require a pointer target",
		}
	}
	if rv.IsNil() {
		return &moterrors.TargetNotFoundError{Target: targetDesc(target), Property: property}
	}
	return nil
}

// structType returns the struct type a target points to (or is).
func structType(target any) (reflect.Type, error) {
	t := reflect.TypeOf(target)
	if t == nil {
		return nil, ErrNotApplicable
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, ErrNotApplicable
	}
	return t, nil
}

// resolveFieldPath resolves a dotted property path into a field index
// chain. Pointer-typed intermediate fields are left to the reflective
// fallback; unexported fields are an activation failure, since no direct
// accessor can be generated for them.
func resolveFieldPath(st reflect.Type, path string) ([]int, reflect.Type, error) {
	var index []int
	cur := st
	for _, seg := range strings.Split(path, ".") {
		if cur.Kind() != reflect.Struct {
			return nil, nil, ErrNotApplicable
		}
		f, ok := cur.FieldByName(seg)
		if !ok {
			return nil, nil, ErrNotApplicable
		}
		if !f.IsExported() {
			return nil, nil, fmt.Errorf("cannot generate direct accessor for unexported field %q in path %q", seg, path)
		}
		index = append(index, f.Index...)
		cur = f.Type
	}
	return index, cur, nil
}

// fieldAccessor is the specialized strategy: the field index chain is the
// cached member handle, resolved once at probe time.
type fieldAccessor struct {
	index []int
	path  string
	want  reflect.Type
}

func (a *fieldAccessor) Read(target any) (any, error) {
	rv, err := derefStruct(target, a.path)
	if err != nil {
		return nil, err
	}
	return rv.FieldByIndex(a.index).Interface(), nil
}

func (a *fieldAccessor) Write(target any, value any) error {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &moterrors.TargetNotFoundError{Target: targetDesc(target), Property: a.path}
	}
	f := rv.Elem().FieldByIndex(a.index)
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.Type() != f.Type() {
		return &moterrors.TypeMismatchError{
			Target:   targetDesc(target),
			Property: a.path,
			Want:     f.Type(),
			Got:      typeOf(value),
		}
	}
	f.Set(v)
	return nil
}

// reflectAccessor is the generic fallback: a by-name path walk on every
// access. Slower than the field strategy but handles pointer hops.
type reflectAccessor struct {
	segments []string
	path     string
	want     reflect.Type
}

func (a *reflectAccessor) Read(target any) (any, error) {
	v, err := a.locate(target)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (a *reflectAccessor) Write(target any, value any) error {
	v, err := a.locate(target)
	if err != nil {
		return err
	}
	if !v.CanSet() {
		return &moterrors.ValueTypeUnsupportedError{
			Target:   targetDesc(target),
			Property: a.path,
			Reason:   "resolved member is not settable",
		}
	}
	nv := reflect.ValueOf(value)
	if !nv.IsValid() || nv.Type() != v.Type() {
		return &moterrors.TypeMismatchError{
			Target:   targetDesc(target),
			Property: a.path,
			Want:     v.Type(),
			Got:      typeOf(value),
		}
	}
	v.Set(nv)
	return nil
}

// locate walks the property path, dereferencing pointers between hops.
func (a *reflectAccessor) locate(target any) (reflect.Value, error) {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() {
		return reflect.Value{}, &moterrors.TargetNotFoundError{Property: a.path}
	}
	for _, seg := range a.segments {
		for rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return reflect.Value{}, &moterrors.TargetNotFoundError{Target: targetDesc(target), Property: a.path}
			}
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			return reflect.Value{}, ErrNotApplicable
		}
		sf, ok := rv.Type().FieldByName(seg)
		if !ok {
			return reflect.Value{}, &moterrors.TargetNotFoundError{Target: targetDesc(target), Property: a.path}
		}
		if !sf.IsExported() {
			return reflect.Value{}, fmt.Errorf("cannot access unexported field %q in path %q", seg, a.path)
		}
		rv = rv.FieldByIndex(sf.Index)
	}
	return rv, nil
}

func derefStruct(target any, path string) (reflect.Value, error) {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() {
		return reflect.Value{}, &moterrors.TargetNotFoundError{Property: path}
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, &moterrors.TargetNotFoundError{Target: targetDesc(target), Property: path}
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, ErrNotApplicable
	}
	return rv, nil
}

func typeOf(v any) reflect.Type {
	if v == nil {
		return nil
	}
	return reflect.TypeOf(v)
}
