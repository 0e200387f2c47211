package frame

import (
	"sync"
	"time"
)

// Stepper is anything the pump can drive once per phase per frame.
// Step returns false when the stepper has no more work; the pump then
// drops it from the active set.
type Stepper interface {
	Step(phase Phase, dt time.Duration) bool
}

// Clock supplies the time [Pump.Frame] derives its deltas from. Tests
// inject a controllable clock to step frames deterministically.
type Clock interface {
	Now() time.Time
}

// Pump drives registered steppers from the host's frame loop.
//
// Pump is the boundary between the host engine's tick and the motion
// core. The host calls [Pump.TickFrame] once per frame (or [Pump.Tick]
// per phase when it controls phases itself), supplying the elapsed time.
// All stepping happens synchronously inside the call; the mutex only
// guards registry mutation, matching the single-threaded cooperative
// contract.
type Pump struct {
	// Clock overrides the time source used by [Pump.Frame]. Nil means
	// system time.
	Clock Clock

	mu       sync.Mutex
	steppers map[Stepper]struct{}
	hooks    map[int]func()
	nextHook int
	lastTick time.Time
}

// NewPump creates an empty pump.
func NewPump() *Pump {
	return &Pump{
		steppers: make(map[Stepper]struct{}),
		hooks:    make(map[int]func()),
	}
}

// Register adds a stepper to the active set. Registering an already
// registered stepper is a no-op, so callers may register on every
// empty-to-non-empty transition without bookkeeping.
func (p *Pump) Register(s Stepper) {
	if s == nil {
		return
	}
	p.mu.Lock()
	p.steppers[s] = struct{}{}
	p.mu.Unlock()
}

// Unregister removes a stepper from the active set.
func (p *Pump) Unregister(s Stepper) {
	p.mu.Lock()
	delete(p.steppers, s)
	p.mu.Unlock()
}

// Active reports whether any stepper is registered.
func (p *Pump) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.steppers) > 0
}

// Tick steps every registered stepper for one phase. Steppers that
// report no remaining work are dropped. After a PhaseLate tick the
// registered frame hooks fire, marking the end of the frame.
func (p *Pump) Tick(phase Phase, dt time.Duration) {
	p.mu.Lock()
	steppers := make([]Stepper, 0, len(p.steppers))
	for s := range p.steppers {
		steppers = append(steppers, s)
	}
	p.mu.Unlock()

	for _, s := range steppers {
		if !s.Step(phase, dt) {
			p.Unregister(s)
		}
	}

	if phase == PhaseLate {
		p.fireHooks()
	}
}

// TickFrame runs all three phases in order with the same delta.
func (p *Pump) TickFrame(dt time.Duration) {
	p.Tick(PhaseUpdate, dt)
	p.Tick(PhasePhysics, dt)
	p.Tick(PhaseLate, dt)
}

// Frame computes the delta since the previous Frame call from the
// pump's clock and runs TickFrame with it. The first call uses a zero
// delta.
func (p *Pump) Frame() {
	now := p.now()
	var dt time.Duration
	if !p.lastTick.IsZero() {
		dt = now.Sub(p.lastTick)
	}
	p.lastTick = now
	p.TickFrame(dt)
}

func (p *Pump) now() time.Time {
	if p.Clock != nil {
		return p.Clock.Now()
	}
	return time.Now()
}

// AddFrameHook registers a callback fired after each PhaseLate tick.
// Returns a remove function. Hooks are how cooperative waiters poll
// per-frame state without blocking the pump.
func (p *Pump) AddFrameHook(fn func()) func() {
	p.mu.Lock()
	id := p.nextHook
	p.nextHook++
	p.hooks[id] = fn
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		delete(p.hooks, id)
		p.mu.Unlock()
	}
}

func (p *Pump) fireHooks() {
	p.mu.Lock()
	hooks := make([]func(), 0, len(p.hooks))
	for _, fn := range p.hooks {
		hooks = append(hooks, fn)
	}
	p.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}
