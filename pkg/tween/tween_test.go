package tween_test

import (
	"math"
	"reflect"
	"testing"
	"time"

	moterrors "github.com/go-drift/motion/pkg/errors"
	"github.com/go-drift/motion/pkg/frame"
	"github.com/go-drift/motion/pkg/motiontest"
	"github.com/go-drift/motion/pkg/plugin"
	"github.com/go-drift/motion/pkg/tween"
)

var floatT = reflect.TypeOf(float64(0))

func newResolver() *plugin.Resolver {
	return plugin.NewResolver(plugin.NewRegistry())
}

type captureHandler struct {
	errs   []*moterrors.MotionError
	panics []*moterrors.PanicError
}

func (h *captureHandler) HandleError(err *moterrors.MotionError) { h.errs = append(h.errs, err) }
func (h *captureHandler) HandlePanic(err *moterrors.PanicError) { h.panics = append(h.panics, err) }

func installCapture(t *testing.T) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	old := moterrors.DefaultHandler
	moterrors.SetHandler(h)
	t.Cleanup(func() { moterrors.SetHandler(old) })
	return h
}

type floatArith struct{}

func (floatArith) Diff(start, end any) any { return end.(float64) - start.(float64) }
func (floatArith) End(start, diff any) any { return start.(float64) + diff.(float64) }
func (floatArith) ValueAt(start, end, diff any, pos float64) any {
	return start.(float64) + diff.(float64)*pos
}

func approx(t *testing.T, got, want float64, what string) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

func TestRunsToCompletion(t *testing.T) {
	p := &motiontest.Point{}
	tw := tween.New(p, "X", floatT, 10.0, 100*time.Millisecond).SetResolver(newResolver())

	if !tw.Step(40 * time.Millisecond) {
		t.Fatal("first step should keep the tween scheduled")
	}
	if tw.State() != tween.Running {
		t.Fatalf("state = %v, want running", tw.State())
	}
	approx(t, p.X, 4, "X after 40ms")

	if !tw.Step(40 * time.Millisecond) {
		t.Fatal("second step should keep the tween scheduled")
	}
	approx(t, p.X, 8, "X after 80ms")

	if tw.Step(40 * time.Millisecond) {
		t.Error("step past the duration should report done")
	}
	if p.X != 10 {
		t.Errorf("X = %v at completion, want exactly 10", p.X)
	}
	if tw.State() != tween.Finished {
		t.Errorf("state = %v, want finished", tw.State())
	}
	if tw.Position() != 1 {
		t.Errorf("position = %v, want 1", tw.Position())
	}
}

func TestInstantDurationCompletesOnFirstStep(t *testing.T) {
	p := &motiontest.Point{}
	tw := tween.New(p, "X", floatT, 10.0, 0).SetResolver(newResolver())

	if tw.Step(16 * time.Millisecond) {
		t.Error("zero-duration tween should complete on the first step")
	}
	if p.X != 10 {
		t.Errorf("X = %v, want 10", p.X)
	}
	if tw.State() != tween.Finished {
		t.Errorf("state = %v, want finished", tw.State())
	}
}

func TestStartReadFromTarget(t *testing.T) {
	p := &motiontest.Point{X: 2}
	tw := tween.New(p, "X", floatT, 10.0, 100*time.Millisecond).SetResolver(newResolver())

	tw.Step(50 * time.Millisecond)
	approx(t, p.X, 6, "X at midpoint from snapshot start")
}

func TestSetStartOverridesSnapshot(t *testing.T) {
	p := &motiontest.Point{X: 99}
	tw := tween.New(p, "X", floatT, 10.0, 100*time.Millisecond).
		SetStart(0.0).
		SetResolver(newResolver())

	tw.Step(50 * time.Millisecond)
	approx(t, p.X, 5, "X at midpoint from explicit start")
}

func TestFromTweenSnapshotsEnd(t *testing.T) {
	p := &motiontest.Point{}
	tw := tween.NewFrom(p, "X", floatT, 5.0, 100*time.Millisecond).SetResolver(newResolver())

	tw.Step(25 * time.Millisecond)
	approx(t, p.X, 3.75, "X animating from 5 back to snapshot 0")
}

func TestStopFreezesCurrentValue(t *testing.T) {
	p := &motiontest.Point{}
	tw := tween.New(p, "X", floatT, 10.0, 100*time.Millisecond).SetResolver(newResolver())

	tw.Step(40 * time.Millisecond)
	frozen := p.X
	tw.Stop()

	if tw.State() != tween.Stopped {
		t.Fatalf("state = %v, want stopped", tw.State())
	}
	if tw.Step(40 * time.Millisecond) {
		t.Error("stopped tween should refuse further steps")
	}
	if p.X != frozen {
		t.Errorf("X = %v after stop, want frozen %v", p.X, frozen)
	}
}

func TestFinishWritesEndValue(t *testing.T) {
	p := &motiontest.Point{}
	tw := tween.New(p, "X", floatT, 10.0, 100*time.Millisecond).SetResolver(newResolver())

	tw.Step(40 * time.Millisecond)
	tw.Finish()

	if p.X != 10 {
		t.Errorf("X = %v after finish, want 10", p.X)
	}
	if tw.State() != tween.Finished {
		t.Errorf("state = %v, want finished", tw.State())
	}
	if tw.Position() != 1 {
		t.Errorf("position = %v, want 1", tw.Position())
	}
}

func TestFinishBeforeResolutionWritesNothing(t *testing.T) {
	p := &motiontest.Point{X: 3}
	tw := tween.New(p, "X", floatT, 10.0, 100*time.Millisecond).SetResolver(newResolver())

	tw.Finish()
	if p.X != 3 {
		t.Errorf("X = %v, want untouched 3: no setter was ever bound", p.X)
	}
	if tw.State() != tween.Finished {
		t.Errorf("state = %v, want finished", tw.State())
	}
}

func TestCancelRevertsToStart(t *testing.T) {
	p := &motiontest.Point{X: 2}
	tw := tween.New(p, "X", floatT, 10.0, 100*time.Millisecond).SetResolver(newResolver())

	tw.Step(50 * time.Millisecond)
	tw.Cancel()

	if p.X != 2 {
		t.Errorf("X = %v after cancel, want start value 2", p.X)
	}
	if tw.State() != tween.Canceled {
		t.Errorf("state = %v, want canceled", tw.State())
	}
}

func TestResolutionFailureIsTerminal(t *testing.T) {
	h := installCapture(t)
	p := &motiontest.Point{}
	tw := tween.New(p, "Missing", floatT, 10.0, 100*time.Millisecond).SetResolver(newResolver())

	if tw.Step(16 * time.Millisecond) {
		t.Error("failed resolution should drop the tween from scheduling")
	}
	if tw.State() != tween.Failed {
		t.Fatalf("state = %v, want failed", tw.State())
	}
	if tw.Err() == nil {
		t.Error("Err should retain the resolution failure")
	}
	if len(h.errs) != 1 {
		t.Fatalf("reported %d errors, want 1", len(h.errs))
	}
	if h.errs[0].Op != "tween.Resolve" {
		t.Errorf("Op = %q, want tween.Resolve", h.errs[0].Op)
	}
	if h.errs[0].Property != "Missing" {
		t.Errorf("Property = %q, want Missing", h.errs[0].Property)
	}

	if tw.Step(16 * time.Millisecond) {
		t.Error("failed tween must stay failed")
	}
	if len(h.errs) != 1 {
		t.Errorf("failure reported %d times, want once", len(h.errs))
	}
}

func TestEaseTransformsPosition(t *testing.T) {
	p := &motiontest.Point{}
	tw := tween.New(p, "X", floatT, 10.0, 100*time.Millisecond).
		SetEase(func(pos float64) float64 { return pos * pos }).
		SetResolver(newResolver())

	tw.Step(50 * time.Millisecond)
	approx(t, p.X, 2.5, "X at eased midpoint")
	// Position stays linear; easing only shapes the value.
	approx(t, tw.Position(), 0.5, "position")
}

func TestOverwrittenAppliesOwnMode(t *testing.T) {
	tests := []struct {
		mode tween.OverwriteMode
		want tween.State
	}{
		{tween.OverwriteStop, tween.Stopped},
		{tween.OverwriteCancel, tween.Canceled},
		{tween.OverwriteFinish, tween.Finished},
		{tween.OverwriteIgnore, tween.Running},
	}
	for _, tt := range tests {
		p := &motiontest.Point{}
		tw := tween.New(p, "X", floatT, 10.0, 100*time.Millisecond).
			SetOverwriteMode(tt.mode).
			SetResolver(newResolver())
		tw.Step(40 * time.Millisecond)

		tw.Overwritten()
		if tw.State() != tt.want {
			t.Errorf("mode %v: state = %v, want %v", tt.mode, tw.State(), tt.want)
		}
	}
}

func TestApplyDefaultsCascade(t *testing.T) {
	parent := &tween.Options{Phase: frame.PhasePhysics, Recyclable: true}

	tw := tween.New(nil, "X", floatT, 10.0, time.Second)
	tw.ApplyDefaults(&motiontest.Point{}, parent)
	if tw.Target() == nil {
		t.Error("ApplyDefaults should assign the group target")
	}
	if tw.Phase() != frame.PhasePhysics {
		t.Errorf("Phase = %v, want cascaded physics", tw.Phase())
	}
	if !tw.Recyclable() {
		t.Error("Recyclable should cascade from the parent")
	}

	// An explicit choice survives the cascade.
	tw2 := tween.New(&motiontest.Point{}, "X", floatT, 10.0, time.Second).SetPhase(frame.PhaseLate)
	tw2.ApplyDefaults(nil, parent)
	if tw2.Phase() != frame.PhaseLate {
		t.Errorf("Phase = %v, want explicit late", tw2.Phase())
	}
}

func TestUsePluginBeforeResolution(t *testing.T) {
	rec := &motiontest.RecordingArith{Inner: floatArith{}}
	desc := &plugin.Descriptor{
		Name:       "custom/arith",
		Capability: plugin.Arithmetic,
		ManualProbe: func(plugin.Subject) (*plugin.Binding, error) {
			return &plugin.Binding{Arith: rec}, nil
		},
	}

	p := &motiontest.Point{}
	tw := tween.New(p, "X", floatT, 10.0, 100*time.Millisecond).
		UsePlugin(desc).
		SetResolver(newResolver())

	tw.Step(50 * time.Millisecond)
	if rec.ValueAtN == 0 {
		t.Error("explicitly requested provider was not used")
	}
	approx(t, p.X, 5, "X through custom provider")
}

func TestUsePluginAfterResolutionRebinds(t *testing.T) {
	p := &motiontest.Point{}
	tw := tween.New(p, "X", floatT, 10.0, 100*time.Millisecond).SetResolver(newResolver())
	tw.Step(25 * time.Millisecond)

	rec := &motiontest.RecordingArith{Inner: floatArith{}}
	desc := &plugin.Descriptor{
		Name:       "custom/arith",
		Capability: plugin.Arithmetic,
		ManualProbe: func(plugin.Subject) (*plugin.Binding, error) {
			return &plugin.Binding{Arith: rec}, nil
		},
	}
	tw.UsePlugin(desc)
	if tw.Err() != nil {
		t.Fatalf("rebind failed: %v", tw.Err())
	}
	if rec.DiffN == 0 {
		t.Error("rebinding arithmetic should recompute the difference")
	}

	tw.Step(25 * time.Millisecond)
	if rec.ValueAtN == 0 {
		t.Error("steps after rebind should use the new provider")
	}
}

func TestUsePluginConflictIsLoud(t *testing.T) {
	h := installCapture(t)
	recA := &motiontest.RecordingArith{Inner: floatArith{}}
	recB := &motiontest.RecordingArith{Inner: floatArith{}}
	descA := &plugin.Descriptor{
		Name:            "custom/locked",
		Capability:      plugin.Arithmetic,
		NonOverwritable: true,
		ManualProbe: func(plugin.Subject) (*plugin.Binding, error) {
			return &plugin.Binding{Arith: recA}, nil
		},
	}
	descB := &plugin.Descriptor{
		Name:       "custom/other",
		Capability: plugin.Arithmetic,
		ManualProbe: func(plugin.Subject) (*plugin.Binding, error) {
			return &plugin.Binding{Arith: recB}, nil
		},
	}

	p := &motiontest.Point{}
	tw := tween.New(p, "X", floatT, 10.0, 100*time.Millisecond).
		UsePlugin(descA).
		UsePlugin(descB).
		SetResolver(newResolver())

	if len(h.errs) != 1 {
		t.Fatalf("conflicting request reported %d errors, want 1", len(h.errs))
	}
	if tw.Err() == nil {
		t.Error("Err should retain the conflict")
	}

	tw.Step(50 * time.Millisecond)
	if recA.ValueAtN == 0 {
		t.Error("the locked provider should still serve the tween")
	}
	if recB.ValueAtN != 0 {
		t.Error("the rejected provider must not be used")
	}
}

func TestResetRefusedWhileScheduled(t *testing.T) {
	h := installCapture(t)
	p := &motiontest.Point{}
	tw := tween.New(p, "X", floatT, 10.0, 100*time.Millisecond).SetResolver(newResolver())
	tw.Step(40 * time.Millisecond)

	if tw.Reset() {
		t.Error("Reset must refuse a running tween")
	}
	if len(h.errs) != 1 {
		t.Errorf("refused reset reported %d errors, want 1", len(h.errs))
	}

	tw.Stop()
	if !tw.Reset() {
		t.Error("Reset should succeed once the tween is terminal")
	}
	if tw.State() != tween.Uninitialized {
		t.Errorf("state after reset = %v, want uninitialized", tw.State())
	}
}

func TestMatches(t *testing.T) {
	p1 := &motiontest.Point{}
	p2 := &motiontest.Point{}
	tw := tween.New(p1, "X", floatT, 10.0, time.Second)

	if !tw.Matches(p1, "X") {
		t.Error("should match own target and property")
	}
	if !tw.Matches(p1, "") {
		t.Error("empty property should match any property")
	}
	if !tw.Matches(nil, "X") {
		t.Error("nil target should match any target")
	}
	if tw.Matches(p2, "X") {
		t.Error("targets compare by identity, not equality")
	}
	if tw.Matches(p1, "Y") {
		t.Error("different property should not match")
	}
}
