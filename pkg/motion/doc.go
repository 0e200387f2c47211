// Package motion is the facade over the property-tweening engine.
//
// # Core Components
//
// The engine consists of several key components:
//
//   - [Engine]: owns the frame pump, the plugin registry, and the pools.
//     Created by [Init], driven by the host's frame loop.
//
//   - [tween.Tween]: one property transition over time. Providers for
//     reading, writing and interpolating the property are resolved lazily
//     on the first tick through the plugin system.
//
//   - [group.Group]: a pooled collection of tweens partitioned into
//     per-frame timing buckets, with same-property conflict resolution.
//
//   - [plugin.Registry]: the teach table mapping target types and value
//     types to accessors and arithmetic, plus caller-registered providers.
//
// # Basic Usage
//
// Initialize an engine, start a tween, and drive the pump each frame:
//
//	eng := motion.Init(nil)
//	defer eng.Shutdown()
//
//	type Sprite struct{ X float64 }
//	s := &Sprite{}
//
//	_, err := eng.To(s, "X", reflect.TypeOf(float64(0)), 100.0, 2*time.Second)
//	if err != nil {
//	    // the explicit request path reports misuse at the call site
//	}
//
//	// In the host frame loop:
//	eng.TickFrame(16 * time.Millisecond)
//
// Adding a second tween for the same target and property within a tick
// supersedes the first: the existing tween receives its overwrite policy
// (stop by default) before the newcomer's first step completes.
package motion
