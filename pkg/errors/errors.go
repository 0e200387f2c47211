// Package errors provides structured error handling for the motion engine.
//
// Resolution and activation failures are recovered at the tween level:
// they are reported through the global handler and the failing tween is
// excluded from scheduling. Nothing in this package aborts sibling tweens
// or the owning group's tick.
package errors

import (
	"fmt"
	"reflect"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindResolution indicates a provider resolution failure.
	KindResolution
	// KindActivation indicates a provider's own setup logic failed.
	KindActivation
	// KindArithmetic indicates no provider can compute values for a type.
	KindArithmetic
	// KindLifecycle indicates a tween or group lifecycle violation.
	KindLifecycle
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindResolution:
		return "resolution"
	case KindActivation:
		return "activation"
	case KindArithmetic:
		return "arithmetic"
	case KindLifecycle:
		return "lifecycle"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// MotionError represents a structured error in the motion engine.
type MotionError struct {
	// Op is the operation that failed (e.g., "tween.Resolve").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Target is the target type description, if applicable.
	Target string
	// Property is the animated property path, if applicable.
	Property string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *MotionError) Error() string {
	if e.Target != "" || e.Property != "" {
		return fmt.Sprintf("%s [%s] target=%s property=%s: %v", e.Op, e.Kind, e.Target, e.Property, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *MotionError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "group.Step").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// TargetNotFoundError reports that a named member is absent on the
// target type, or that the target itself is missing.
type TargetNotFoundError struct {
	// Target is the target type description.
	Target string
	// Property is the property path that could not be found.
	Property string
}

func (e *TargetNotFoundError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("target missing for property %q", e.Property)
	}
	return fmt.Sprintf("property %q not found on %s", e.Property, e.Target)
}

// TypeMismatchError reports that the discovered member type does not
// match the tween's declared value type.
type TypeMismatchError struct {
	// Target is the target type description.
	Target string
	// Property is the property path.
	Property string
	// Want is the tween's declared value type.
	Want reflect.Type
	// Got is the discovered member type.
	Got reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("property %q on %s has type %v, tween declared %v", e.Property, e.Target, e.Got, e.Want)
}

// ValueTypeUnsupportedError reports that a by-reference write was
// required on a target that is copied by value.
type ValueTypeUnsupportedError struct {
	// Target is the target type description.
	Target string
	// Property is the property path.
	Property string
	// Reason describes why the target cannot be written.
	Reason string
}

func (e *ValueTypeUnsupportedError) Error() string {
	return fmt.Sprintf("cannot write property %q on %s: %s", e.Property, e.Target, e.Reason)
}

// ActivationError wraps a failure raised by a provider's own setup logic.
type ActivationError struct {
	// Plugin is the descriptor name of the provider that failed.
	Plugin string
	// Err is the provider's activation failure, carried verbatim.
	Err error
}

func (e *ActivationError) Error() string {
	return fmt.Sprintf("plugin %q activation failed: %v", e.Plugin, e.Err)
}

func (e *ActivationError) Unwrap() error {
	return e.Err
}

// ArithmeticUnsupportedError reports that no provider can compute
// diff/end/position values for the declared value type.
type ArithmeticUnsupportedError struct {
	// ValueType is the unsupported value type.
	ValueType reflect.Type
}

func (e *ArithmeticUnsupportedError) Error() string {
	return fmt.Sprintf("no arithmetic provider for value type %v", e.ValueType)
}

// ErrorHandler receives errors reported by the motion engine.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *MotionError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
