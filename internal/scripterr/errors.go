// Package scripterr defines the interpreter's error taxonomy and the
// synthesized script call stack attached to runtime errors.
package scripterr

import (
	"fmt"
	"strings"
)

// Kind tags the category of a ScriptError, mirroring the taxonomy in the
// error-handling design: ParseError, NameError, TypeError, ValueError,
// IndexError, KeyError, FrozenInstanceError, ScriptRaised, HostException.
type Kind string

const (
	KindParse          Kind = "ParseError"
	KindName           Kind = "NameError"
	KindType           Kind = "TypeError"
	KindValue          Kind = "ValueError"
	KindIndex          Kind = "IndexError"
	KindKey            Kind = "KeyError"
	KindFrozenInstance Kind = "FrozenInstanceError"
	KindScriptRaised   Kind = "ScriptRaised"
	KindHostException  Kind = "HostException"
)

// ScriptError is a runtime error raised while lowering or evaluating a
// script. Position and trace are attached lazily: the evaluator fills in
// Line as the error unwinds, and the script call stack is prepended once,
// at the outermost Invoke boundary.
type ScriptError struct {
	Kind    Kind
	Message string
	Line    int
	Trace   Trace
	Cause   error
	// Raised holds the original script-level value for KindScriptRaised and
	// KindHostException, so handlers can inspect it (e.g. bind it to an
	// `except ... as e` variable).
	Raised any
}

func (e *ScriptError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "%s at line %d: %s", e.Kind, e.Line, e.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	}
	if len(e.Trace) > 0 {
		b.WriteString("\n")
		b.WriteString(e.Trace.String())
	}
	return b.String()
}

func (e *ScriptError) Unwrap() error { return e.Cause }

func newf(kind Kind, format string, args ...any) *ScriptError {
	return &ScriptError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewParseError(path string, cause error) *ScriptError {
	err := newf(KindParse, "unrecognized node at %s: %v", path, cause)
	err.Cause = cause
	return err
}

func NewNameError(name string) *ScriptError {
	return newf(KindName, "name %q is not defined", name)
}

func NewTypeError(format string, args ...any) *ScriptError {
	return newf(KindType, format, args...)
}

func NewValueError(format string, args ...any) *ScriptError {
	return newf(KindValue, format, args...)
}

func NewIndexError(format string, args ...any) *ScriptError {
	return newf(KindIndex, format, args...)
}

func NewKeyError(format string, args ...any) *ScriptError {
	return newf(KindKey, format, args...)
}

func NewFrozenInstanceError(class string) *ScriptError {
	return newf(KindFrozenInstance, "cannot assign to field of frozen instance of %s", class)
}

// NewScriptRaised wraps a value raised by the script's own `raise`
// statement so it can propagate as a Go error and still carry the original
// value for `except` handlers.
func NewScriptRaised(value any, message string) *ScriptError {
	return &ScriptError{Kind: KindScriptRaised, Message: message, Raised: value}
}

// NewHostException wraps an error that originated on the host side of the
// interop boundary (e.g. a panic recovered from a reflect.Call, or an error
// returned by a registered Go function) so it can be matched against
// `except` handlers declared against a HostClass.
func NewHostException(hostClassName string, cause error) *ScriptError {
	err := newf(KindHostException, "%s: %s", hostClassName, cause.Error())
	err.Cause = cause
	err.Raised = cause
	return err
}

// WithLine returns a copy of err with Line set, if not already set.
// Used as the error unwinds so the innermost failing node wins.
func WithLine(err error, line int) error {
	se, ok := err.(*ScriptError)
	if !ok || se == nil {
		return err
	}
	if se.Line != 0 {
		return se
	}
	cp := *se
	cp.Line = line
	return &cp
}

// PrependTrace attaches the script call stack to err exactly once, at the
// outermost Invoke boundary, per the propagation rule in the error design.
func PrependTrace(err error, trace Trace) error {
	se, ok := err.(*ScriptError)
	if !ok || se == nil || len(se.Trace) > 0 {
		return err
	}
	cp := *se
	cp.Trace = trace
	return &cp
}
