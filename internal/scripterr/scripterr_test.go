package scripterr

import (
	"errors"
	"strings"
	"testing"
)

// TestWithLineSetsOnlyOnce covers §4.4's rule that the innermost failing
// node wins: WithLine must not overwrite a Line already set further down
// the stack.
func TestWithLineSetsOnlyOnce(t *testing.T) {
	err := NewValueError("bad value")
	err = WithLine(err, 10).(*ScriptError)
	err2 := WithLine(err, 99).(*ScriptError)
	if err2.Line != 10 {
		t.Fatalf("Line = %d, want the first-set 10 to stick", err2.Line)
	}
}

// TestWithLinePassesThroughNonScriptError covers the case where something
// further up the call chain wraps a plain error instead of a *ScriptError.
func TestWithLinePassesThroughNonScriptError(t *testing.T) {
	plain := errors.New("boom")
	if got := WithLine(plain, 5); got != plain {
		t.Fatalf("expected a plain error to pass through unchanged, got %v", got)
	}
}

// TestPrependTraceAttachesOnce covers the "exactly once, at the outermost
// Invoke boundary" rule: a second PrependTrace call must not replace a
// trace that's already set.
func TestPrependTraceAttachesOnce(t *testing.T) {
	err := NewValueError("bad value")
	first := Trace{{MethodName: "inner", Line: 1}}
	second := Trace{{MethodName: "outer", Line: 2}}

	got := PrependTrace(err, first).(*ScriptError)
	got = PrependTrace(got, second).(*ScriptError)

	if len(got.Trace) != 1 || got.Trace[0].MethodName != "inner" {
		t.Fatalf("expected the first-attached trace to stick, got %v", got.Trace)
	}
}

// TestErrorStringIncludesLineAndTrace covers ScriptError.Error()'s rendered
// shape once both a line and a trace are attached.
func TestErrorStringIncludesLineAndTrace(t *testing.T) {
	err := NewTypeError("expected int, got str")
	err = WithLine(err, 7).(*ScriptError)
	err = PrependTrace(err, Trace{{MethodName: "f", Line: 7}}).(*ScriptError)

	s := err.Error()
	if !strings.Contains(s, "TypeError at line 7") {
		t.Fatalf("Error() = %q, want it to mention the kind and line", s)
	}
	if !strings.Contains(s, "at f at line 7") {
		t.Fatalf("Error() = %q, want it to include the rendered trace", s)
	}
}

// TestNewHostExceptionWrapsCauseAndMessage covers the host-exception
// constructor's message shape and that Unwrap reaches the original cause.
func TestNewHostExceptionWrapsCauseAndMessage(t *testing.T) {
	cause := errors.New("bad arg")
	se := NewHostException("IllegalArgumentException", cause)

	if se.Kind != KindHostException {
		t.Fatalf("Kind = %v, want KindHostException", se.Kind)
	}
	if se.Message != "IllegalArgumentException: bad arg" {
		t.Fatalf("Message = %q", se.Message)
	}
	if errors.Unwrap(se) != cause {
		t.Fatal("expected Unwrap to reach the original cause")
	}
	if se.Raised != cause {
		t.Fatal("expected Raised to hold the original cause for except-handler binding")
	}
}

// TestCallStackPushPopAndOverflow covers §4.4's call-stack contract: frames
// push/pop in order and pushing past maxDepth reports ErrStackOverflow.
func TestCallStackPushPopAndOverflow(t *testing.T) {
	cs := NewCallStack(2)
	if err := cs.Push(Frame{MethodName: "a", Line: 1}); err != nil {
		t.Fatalf("first push failed: %v", err)
	}
	if err := cs.Push(Frame{MethodName: "b", Line: 2}); err != nil {
		t.Fatalf("second push failed: %v", err)
	}
	if err := cs.Push(Frame{MethodName: "c", Line: 3}); err != ErrStackOverflow {
		t.Fatalf("third push = %v, want ErrStackOverflow", err)
	}
	if cs.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", cs.Depth())
	}
	cs.Pop()
	if cs.Depth() != 1 {
		t.Fatalf("Depth() after Pop = %d, want 1", cs.Depth())
	}
}

// TestTraceStringOrdersMostRecentFirst covers Trace.String()'s rendering
// order, which a printed traceback relies on.
func TestTraceStringOrdersMostRecentFirst(t *testing.T) {
	tr := Trace{
		{MethodName: "outer", Line: 1},
		{ClassName: "Box", MethodName: "inner", Line: 2},
	}
	s := tr.String()
	lines := strings.Split(s, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), s)
	}
	if !strings.Contains(lines[0], "Box.inner") {
		t.Fatalf("expected the innermost frame first, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "outer") {
		t.Fatalf("expected the outer frame last, got %q", lines[1])
	}
}
