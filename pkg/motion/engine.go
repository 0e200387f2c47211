package motion

import (
	stderrors "errors"
	"reflect"
	"time"

	"github.com/go-drift/motion/pkg/config"
	moterrors "github.com/go-drift/motion/pkg/errors"
	"github.com/go-drift/motion/pkg/frame"
	"github.com/go-drift/motion/pkg/group"
	"github.com/go-drift/motion/pkg/plugin"
	"github.com/go-drift/motion/pkg/pool"
	"github.com/go-drift/motion/pkg/tween"
)

// Engine wires the frame pump, the plugin registry, and the pools into
// one lifetime. An engine owns its registry: populate it via Teach and
// Register before ticking, close it with Shutdown.
type Engine struct {
	pump     *frame.Pump
	registry *plugin.Registry
	resolver *plugin.Resolver
	settings config.Settings

	tweenPool *pool.Pool[*tween.Tween]
	groupPool *pool.Pool[*group.Group]

	defaultOpts  tween.Options
	defaultGroup *group.Group
}

// Init builds an engine from settings. Nil settings use the defaults.
func Init(cfg *config.Settings) *Engine {
	settings := config.Default()
	if cfg != nil {
		settings = *cfg
	}
	moterrors.SetHandler(&moterrors.LogHandler{Verbose: settings.Verbose})

	registry := plugin.NewRegistry()
	e := &Engine{
		pump:     frame.NewPump(),
		registry: registry,
		resolver: plugin.NewResolver(registry),
		settings: settings,
		defaultOpts: tween.Options{
			Phase:      settings.DefaultPhase(),
			Recyclable: settings.Defaults.Recyclable,
		},
	}
	if settings.Pools.Tweens > 0 {
		e.tweenPool = &pool.Pool[*tween.Tween]{
			New: func() *tween.Tween { return &tween.Tween{} },
			Cap: settings.Pools.Tweens,
		}
	}
	if settings.Pools.Groups > 0 {
		e.groupPool = &pool.Pool[*group.Group]{
			New: group.New,
			Cap: settings.Pools.Groups,
		}
	}
	return e
}

// Pump returns the engine's frame pump for the host tick loop.
func (e *Engine) Pump() *frame.Pump { return e.pump }

// Registry returns the engine's plugin registry for teaching accessors
// and registering providers at startup.
func (e *Engine) Registry() *plugin.Registry { return e.registry }

// Resolver returns the engine's plugin resolver.
func (e *Engine) Resolver() *plugin.Resolver { return e.resolver }

// TickFrame runs all three phases with the given delta.
func (e *Engine) TickFrame(dt time.Duration) { e.pump.TickFrame(dt) }

// Tick runs a single phase with the given delta, for hosts that control
// phases themselves.
func (e *Engine) Tick(phase frame.Phase, dt time.Duration) { e.pump.Tick(phase, dt) }

// NewGroup acquires a group (pooled when enabled), claims it with the
// given default target and the engine's defaults, and returns it.
func (e *Engine) NewGroup(target any) (*group.Group, error) {
	var g *group.Group
	if e.groupPool != nil {
		g = e.groupPool.Acquire()
	} else {
		g = group.New()
	}
	g.TweenPool = e.tweenPool
	opts := e.defaultOpts
	if err := g.Use(target, &opts, e.pump); err != nil {
		return nil, err
	}
	return g, nil
}

// ReleaseGroup resets a drained group and returns it to the pool. A group
// still holding tweens is refused.
func (e *Engine) ReleaseGroup(g *group.Group) error {
	if g == nil {
		return nil
	}
	if g.Has() {
		return stderrors.New("motion: group still holds tweens")
	}
	g.Reset()
	if e.groupPool != nil {
		e.groupPool.Return(g)
	}
	return nil
}

// To starts a tween animating target's property to end over duration,
// scheduled on the engine's default group.
func (e *Engine) To(target any, property string, valueType reflect.Type, end any, duration time.Duration) (*tween.Tween, error) {
	t := e.newTween().Init(target, property, valueType, end, duration)
	t.SetResolver(e.resolver)
	return t, e.schedule(t)
}

// From starts a tween animating target's property from the given value
// back to the value the property holds at the first tick.
func (e *Engine) From(target any, property string, valueType reflect.Type, start any, duration time.Duration) (*tween.Tween, error) {
	t := e.newTween().InitFrom(target, property, valueType, start, duration)
	t.SetResolver(e.resolver)
	return t, e.schedule(t)
}

// DefaultGroup returns the group used by To and From, creating it on
// first use.
func (e *Engine) DefaultGroup() *group.Group {
	if e.defaultGroup == nil {
		e.defaultGroup = group.New()
		e.defaultGroup.TweenPool = e.tweenPool
		opts := e.defaultOpts
		// The default group has no default target; tweens carry their own.
		// Use cannot fail on a freshly created group.
		e.defaultGroup.Use(nil, &opts, e.pump)
	}
	return e.defaultGroup
}

// Shutdown closes the registry and drains the pools. The engine must not
// tick afterwards; in-flight tweens are dropped.
func (e *Engine) Shutdown() {
	if e.defaultGroup != nil {
		e.defaultGroup.Reset()
		e.defaultGroup = nil
	}
	e.registry.Close()
	if e.tweenPool != nil {
		e.tweenPool.Drain()
	}
	if e.groupPool != nil {
		e.groupPool.Drain()
	}
}

func (e *Engine) newTween() *tween.Tween {
	if e.tweenPool != nil {
		return e.tweenPool.Acquire()
	}
	return &tween.Tween{}
}

func (e *Engine) schedule(t *tween.Tween) error {
	return e.DefaultGroup().Add(t)
}
