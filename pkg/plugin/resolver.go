package plugin

import (
	stderrors "errors"
	"fmt"

	moterrors "github.com/go-drift/motion/pkg/errors"
)

// Resolver selects one provider per required capability.
//
// Resolution is synchronous and runs at most once per capability per
// tween, at the tween's first update tick. An explicit request runs only
// that descriptor's probe and binds strongly; otherwise the default chain
// runs in order and the first successful probe binds weakly.
type Resolver struct {
	registry *Registry
	chains   [CapabilityCount][]*Descriptor
}

// NewResolver creates a resolver over the given registry (nil means the
// process-wide default registry).
func NewResolver(reg *Registry) *Resolver {
	if reg == nil {
		reg = Default()
	}
	r := &Resolver{registry: reg}
	for _, cap := range []Capability{Getter, Setter} {
		r.chains[cap] = []*Descriptor{
			taughtAccessorDescriptor(cap, reg),
			fieldAccessorDescriptor(cap),
			reflectAccessorDescriptor(cap),
		}
	}
	r.chains[Arithmetic] = []*Descriptor{
		tableArithDescriptor(reg),
		reflectArithDescriptor(),
	}
	return r
}

// DefaultResolver returns a resolver over the process-wide registry.
func DefaultResolver() *Resolver {
	return NewResolver(Default())
}

// Registry returns the registry this resolver consults.
func (r *Resolver) Registry() *Registry { return r.registry }

// Resolve selects and activates exactly one provider for the capability.
//
// With an explicit descriptor, only that descriptor's probe runs; failure
// is returned as an ActivationError carrying the probe's message, never
// swallowed. Without one, the default chain runs in order — taught table,
// specialized, caller-registered descriptors, reflective fallback — and
// the first success binds weakly. When every strategy declines, the most
// specific probe failure is returned, falling back to the capability's
// taxonomy error.
func (r *Resolver) Resolve(s Subject, cap Capability, explicit *Descriptor) (*Binding, error) {
	if s == nil {
		return nil, stderrors.New("plugin: resolve requires a subject")
	}

	if explicit != nil {
		probe := explicit.ManualProbe
		if probe == nil {
			probe = explicit.AutoProbe
		}
		if probe == nil {
			return nil, &moterrors.ActivationError{Plugin: explicit.Name, Err: fmt.Errorf("descriptor has no probe")}
		}
		b, err := probe(s)
		if err != nil {
			return nil, &moterrors.ActivationError{Plugin: explicit.Name, Err: err}
		}
		if b == nil {
			return nil, &moterrors.ActivationError{Plugin: explicit.Name, Err: ErrNotApplicable}
		}
		b.Descriptor = explicit
		b.Strength = Strong
		return b, nil
	}

	var definite error
	for _, d := range r.chain(cap) {
		if d.AutoProbe == nil {
			continue
		}
		b, err := d.AutoProbe(s)
		if err == nil && b != nil {
			b.Descriptor = d
			b.Strength = Weak
			return b, nil
		}
		if err != nil && !stderrors.Is(err, ErrNotApplicable) && definite == nil {
			definite = wrapProbeError(d, err)
		}
	}
	if definite != nil {
		return nil, definite
	}
	return nil, noProviderError(s, cap)
}

// Rebind replaces an existing binding with an explicitly requested one.
// The bound descriptor's overwritable flag is honored regardless of how
// the binding was obtained: a weakly bound provider that marks itself
// non-overwritable also stands, and ErrNotOverwritable is returned.
func (r *Resolver) Rebind(s Subject, current *Binding, explicit *Descriptor) (*Binding, error) {
	if explicit == nil {
		return nil, stderrors.New("plugin: rebind requires an explicit descriptor")
	}
	if current != nil && !current.Overwritable() {
		return nil, fmt.Errorf("%w: %s is bound by %q", ErrNotOverwritable,
			explicit.Capability, current.Descriptor.Name)
	}
	return r.Resolve(s, explicit.Capability, explicit)
}

// chain returns the default descriptor chain for a capability, with
// caller-registered descriptors slotted between the built-in strategies
// and the reflective fallback.
func (r *Resolver) chain(cap Capability) []*Descriptor {
	base := r.chains[cap]
	extra := r.registry.registered(cap)
	if len(extra) == 0 {
		return base
	}
	out := make([]*Descriptor, 0, len(base)+len(extra))
	out = append(out, base[:len(base)-1]...)
	out = append(out, extra...)
	out = append(out, base[len(base)-1])
	return out
}

// wrapProbeError keeps taxonomy errors as-is and wraps provider-specific
// failures as activation errors.
func wrapProbeError(d *Descriptor, err error) error {
	var (
		notFound    *moterrors.TargetNotFoundError
		mismatch    *moterrors.TypeMismatchError
		unsupported *moterrors.ValueTypeUnsupportedError
		arith       *moterrors.ArithmeticUnsupportedError
		activation  *moterrors.ActivationError
	)
	if stderrors.As(err, &notFound) || stderrors.As(err, &mismatch) ||
		stderrors.As(err, &unsupported) || stderrors.As(err, &arith) ||
		stderrors.As(err, &activation) {
		return err
	}
	return &moterrors.ActivationError{Plugin: d.Name, Err: err}
}

// noProviderError is the terminal failure when every strategy declined.
func noProviderError(s Subject, cap Capability) error {
	if cap == Arithmetic {
		return &moterrors.ArithmeticUnsupportedError{ValueType: s.ValueType()}
	}
	return &moterrors.TargetNotFoundError{
		Target:   targetDesc(s.Target()),
		Property: s.Property(),
	}
}
