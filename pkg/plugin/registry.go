package plugin

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/mod/semver"
)

// ErrRegistryClosed reports use of a registry after Close.
var ErrRegistryClosed = errors.New("plugin: registry is closed")

type accessorKey struct {
	target   reflect.Type
	property string
}

type taughtAccessor struct {
	acc       Accessor
	valueType reflect.Type
}

// Registry is the teach table: a process-wide store of accessors keyed by
// target type and property, arithmetic providers keyed by value type, and
// caller-registered descriptors.
//
// A registry has an explicit lifetime: populate it at startup, query it
// read-only while ticking, and Close it on shutdown. The mutex guards
// population; ticking never mutates the registry.
type Registry struct {
	mu          sync.RWMutex
	closed      bool
	accessors   map[accessorKey]taughtAccessor
	ariths      map[reflect.Type]Arith
	descriptors map[Capability][]*Descriptor
}

// NewRegistry creates a registry seeded with the built-in arithmetic
// providers.
func NewRegistry() *Registry {
	r := &Registry{
		accessors:   make(map[accessorKey]taughtAccessor),
		ariths:      make(map[reflect.Type]Arith),
		descriptors: make(map[Capability][]*Descriptor),
	}
	seedBuiltinArith(r.ariths)
	return r
}

// Teach registers an accessor for a concrete target type and property.
// The accessor is found by the taught-table strategy, ahead of the
// generated and reflective strategies.
func (r *Registry) Teach(targetType reflect.Type, property string, valueType reflect.Type, acc Accessor) error {
	if targetType == nil || valueType == nil || acc == nil {
		return errors.New("plugin: Teach requires target type, value type and accessor")
	}
	if property == "" {
		return errors.New("plugin: Teach requires a property name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRegistryClosed
	}
	r.accessors[accessorKey{targetType, property}] = taughtAccessor{acc: acc, valueType: valueType}
	return nil
}

// TeachArith registers an arithmetic provider for a value type,
// superseding any built-in provider for that type.
func (r *Registry) TeachArith(valueType reflect.Type, a Arith) error {
	if valueType == nil || a == nil {
		return errors.New("plugin: TeachArith requires a value type and provider")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRegistryClosed
	}
	r.ariths[valueType] = a
	return nil
}

// Register adds a caller-supplied descriptor to the auto-detection chain
// for its capability. Descriptors with a Version must carry a valid
// semantic version.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil {
		return errors.New("plugin: Register requires a descriptor")
	}
	if d.Name == "" {
		return errors.New("plugin: descriptor needs a name")
	}
	if d.AutoProbe == nil && d.ManualProbe == nil {
		return fmt.Errorf("plugin: descriptor %q has no probe", d.Name)
	}
	if d.Version != "" && !semver.IsValid(d.Version) {
		return fmt.Errorf("plugin: descriptor %q has invalid version %q", d.Name, d.Version)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRegistryClosed
	}
	r.descriptors[d.Capability] = append(r.descriptors[d.Capability], d)
	return nil
}

// lookupTaught finds a taught accessor for the target's type, trying the
// exact type first and then the pointed-to type.
func (r *Registry) lookupTaught(targetType reflect.Type, property string) (taughtAccessor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return taughtAccessor{}, false
	}
	if ta, ok := r.accessors[accessorKey{targetType, property}]; ok {
		return ta, true
	}
	if targetType != nil && targetType.Kind() == reflect.Pointer {
		if ta, ok := r.accessors[accessorKey{targetType.Elem(), property}]; ok {
			return ta, true
		}
	}
	return taughtAccessor{}, false
}

// lookupArith finds a provider for a value type.
func (r *Registry) lookupArith(valueType reflect.Type) (Arith, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, false
	}
	a, ok := r.ariths[valueType]
	return a, ok
}

// registered returns the caller-supplied descriptors for a capability.
func (r *Registry) registered(cap Capability) []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil
	}
	return r.descriptors[cap]
}

// Close clears the registry. Teach and Register fail afterwards; lookups
// return negative results, so tweens resolving against a closed registry
// degrade to the built-in strategies that need no table.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.accessors = nil
	r.ariths = nil
	r.descriptors = nil
}

var (
	defaultMu       sync.RWMutex
	defaultRegistry = NewRegistry()
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultRegistry
}

// ResetDefault replaces the process-wide registry with a fresh one and
// returns it. Intended for tests.
func ResetDefault() *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultRegistry = NewRegistry()
	return defaultRegistry
}
