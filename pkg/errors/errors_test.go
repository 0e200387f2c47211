package errors

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestMotionErrorString(t *testing.T) {
	err := &MotionError{
		Op:   "tween.Resolve",
		Kind: KindResolution,
		Err:  &TargetNotFoundError{Target: "*test.Sprite", Property: "X"},
	}
	got := err.Error()
	if got == "" {
		t.Error("expected non-empty error string")
	}
}

func TestMotionErrorWithContext(t *testing.T) {
	err := &MotionError{
		Op:       "tween.Resolve",
		Kind:     KindResolution,
		Target:   "*test.Sprite",
		Property: "Pos.X",
		Err:      &TargetNotFoundError{Target: "*test.Sprite", Property: "Pos.X"},
	}
	got := err.Error()
	if !strings.Contains(got, "target=*test.Sprite") {
		t.Errorf("error string %q should contain target context", got)
	}
	if !strings.Contains(got, "property=Pos.X") {
		t.Errorf("error string %q should contain property context", got)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindResolution, "resolution"},
		{KindActivation, "activation"},
		{KindArithmetic, "arithmetic"},
		{KindLifecycle, "lifecycle"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestTaxonomyErrorStrings(t *testing.T) {
	floatType := reflect.TypeOf(float64(0))
	intType := reflect.TypeOf(int(0))

	tests := []struct {
		err      error
		contains string
	}{
		{&TargetNotFoundError{Target: "*test.Sprite", Property: "X"}, `property "X" not found`},
		{&TargetNotFoundError{Property: "X"}, "target missing"},
		{&TypeMismatchError{Target: "*test.Sprite", Property: "X", Want: floatType, Got: intType}, "declared float64"},
		{&ValueTypeUnsupportedError{Target: "test.Sprite", Property: "X", Reason: "copied by value"}, "copied by value"},
		{&ArithmeticUnsupportedError{ValueType: reflect.TypeOf("")}, "no arithmetic provider"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); !strings.Contains(got, tt.contains) {
			t.Errorf("%T.Error() = %q, want substring %q", tt.err, got, tt.contains)
		}
	}
}

func TestActivationErrorUnwrap(t *testing.T) {
	inner := &TargetNotFoundError{Property: "X"}
	err := &ActivationError{Plugin: "custom/slerp", Err: inner}
	if !strings.Contains(err.Error(), "custom/slerp") {
		t.Errorf("ActivationError.Error() = %q, should name the plugin", err.Error())
	}
	if err.Unwrap() != inner {
		t.Error("Unwrap should return the inner error")
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{
		Value:     "test panic",
		Timestamp: time.Now(),
	}
	got := err.Error()
	want := "panic: test panic"
	if got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestPanicErrorStringWithOp(t *testing.T) {
	err := &PanicError{
		Op:        "group.Step",
		Value:     "test panic",
		Timestamp: time.Now(),
	}
	got := err.Error()
	want := "panic in group.Step: test panic"
	if got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	var captured *MotionError
	handler := &testHandler{
		onError: func(err *MotionError) {
			captured = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	Report(&MotionError{
		Op:   "test.op",
		Kind: KindResolution,
		Err:  &TargetNotFoundError{Property: "X"},
	})

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "test.op" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.op")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReportPanic(t *testing.T) {
	var captured *PanicError
	handler := &testHandler{
		onPanic: func(err *PanicError) {
			captured = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	ReportPanic(&PanicError{
		Value:     "test panic value",
		Timestamp: time.Now(),
	})

	if captured == nil {
		t.Fatal("expected panic to be captured")
	}
	if captured.Value != "test panic value" {
		t.Errorf("Value = %v, want %q", captured.Value, "test panic value")
	}
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	handler := &testHandler{
		onPanic: func(err *PanicError) {
			captured = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if captured.Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", captured.Value, "intentional test panic")
	}
	if captured.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.recover")
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Error("expected non-empty stack trace")
	}
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	SetHandler(nil)
	if DefaultHandler == nil {
		t.Error("SetHandler(nil) should set default LogHandler, not nil")
	}
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

type testHandler struct {
	onError func(*MotionError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *MotionError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
