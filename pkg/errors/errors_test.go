package errors

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestSwitchErrorString(t *testing.T) {
	err := &SwitchError{
		Op:   "switcher.New",
		Kind: KindConfig,
		Err:  &ConfigError{Field: "Kind", Value: "spin", Reason: "unknown transition kind"},
	}
	got := err.Error()
	want := "switcher.New [config]: invalid Kind spin: unknown transition kind"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindConfig, "config"},
		{KindInvariant, "invariant"},
		{KindLoad, "load"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "boom", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
	err.Op = "gapless.Similar"
	if got, want := err.Error(), "panic in gapless.Similar: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestLoadErrorUnwrap(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := fmt.Errorf("decode: %w", &LoadError{ContentID: "photo-42", Err: cause})
	var load *LoadError
	if !As(err, &load) {
		t.Fatal("expected LoadError in chain")
	}
	if load.ContentID != "photo-42" {
		t.Errorf("ContentID = %q", load.ContentID)
	}
	if !Is(err, io.ErrUnexpectedEOF) {
		t.Error("expected cause to be reachable")
	}
}

func TestIsConfig(t *testing.T) {
	wrapped := fmt.Errorf("new: %w", &ConfigError{Field: "Delay", Value: -1, Reason: "must not be negative"})
	if !IsConfig(wrapped) {
		t.Error("IsConfig() = false for wrapped ConfigError")
	}
	if IsConfig(io.EOF) {
		t.Error("IsConfig() = true for io.EOF")
	}
}

func TestReport(t *testing.T) {
	var captured *SwitchError
	handler := &testHandler{onError: func(err *SwitchError) { captured = err }}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	Report(&SwitchError{Op: "test.op", Kind: KindLoad, Err: io.EOF})

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

func TestAssertDebugPanics(t *testing.T) {
	prev := SetDebugMode(true)
	defer SetDebugMode(prev)

	defer func() {
		r := recover()
		violation, ok := r.(*InvariantError)
		if !ok {
			t.Fatalf("recovered %T, want *InvariantError", r)
		}
		if violation.Op != "switcher.identity" {
			t.Errorf("Op = %q", violation.Op)
		}
	}()
	Assert(false, "switcher.identity", "missing key")
}

func TestAssertReleaseReports(t *testing.T) {
	prev := SetDebugMode(false)
	defer SetDebugMode(prev)

	var captured *SwitchError
	oldHandler := DefaultHandler
	SetHandler(&testHandler{onError: func(err *SwitchError) { captured = err }})
	defer SetHandler(oldHandler)

	if Assert(false, "switcher.identity", "missing key") {
		t.Fatal("Assert(false) returned true")
	}
	if captured == nil || captured.Kind != KindInvariant {
		t.Fatalf("captured = %+v, want invariant report", captured)
	}
	if !Assert(true, "unused", "unused") {
		t.Error("Assert(true) returned false")
	}
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	oldHandler := DefaultHandler
	SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	defer SetHandler(oldHandler)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if captured.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.recover")
	}
}

func TestRecoverWithCallback(t *testing.T) {
	oldHandler := DefaultHandler
	SetHandler(&testHandler{})
	defer SetHandler(oldHandler)

	var got any
	func() {
		defer RecoverWithCallback("test.callback", func(r any) { got = r })
		panic(42)
	}()
	if got != 42 {
		t.Errorf("callback value = %v, want 42", got)
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	oldHandler := DefaultHandler
	defer SetHandler(oldHandler)

	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Verbose: true, Logger: slog.New(slog.NewTextHandler(&buf, nil))}
	h.HandleError(&SwitchError{Op: "gapless.Request", Kind: KindLoad, Err: io.EOF, StackTrace: "frame"})
	out := buf.String()
	for _, want := range []string{"op=gapless.Request", "kind=load", "stack=frame"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q should contain %q", out, want)
		}
	}

	buf.Reset()
	h.HandlePanic(&PanicError{Op: "x", Value: "v"})
	if !strings.Contains(buf.String(), "switcher panic") {
		t.Errorf("panic output = %q", buf.String())
	}
}

type testHandler struct {
	onError func(*SwitchError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *SwitchError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}

func TestSetDebugMode(t *testing.T) {
	prev := SetDebugMode(false)
	defer SetDebugMode(prev)

	if DebugMode() {
		t.Error("DebugMode() = true after SetDebugMode(false)")
	}
	if got := SetDebugMode(true); got {
		t.Errorf("SetDebugMode(true) returned %v, want the previous false", got)
	}
	if !DebugMode() {
		t.Error("DebugMode() = false after SetDebugMode(true)")
	}
}
