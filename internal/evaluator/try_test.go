package evaluator

import (
	"io"
	"testing"

	"github.com/scriptlang/pyast/internal/astnode"
	"github.com/scriptlang/pyast/internal/hostinterop"
	"github.com/scriptlang/pyast/internal/scope"
	"github.com/scriptlang/pyast/internal/scripterr"
	"github.com/scriptlang/pyast/internal/value"
)

func newTestEval() (*Evaluator, *scope.Context) {
	return New(hostinterop.NewRegistry()), scope.NewGlobals("<test>", io.Discard)
}

// TestTryFinallyAlwaysRuns covers §4.3's Try contract: finalbody runs
// even when the body raises and no handler catches the error.
func TestTryFinallyAlwaysRuns(t *testing.T) {
	e, ctx := newTestEval()

	// try: raise ValueError("boom")
	// finally: ran = True
	tryStmt := astnode.NewTry(1,
		[]astnode.Stmt{astnode.NewRaise(2, astnode.NewCall(2, astnode.NewName(2, "mkerr"), nil, nil))},
		nil,
		nil,
		[]astnode.Stmt{astnode.NewAssign(3, []astnode.AssignTarget{astnode.NewName(3, "ran")}, astnode.NewConstantBool(3, true))},
	)

	ctx.Define("mkerr", &value.Function{Name: "mkerr", Arity: 0, Call: func(args []value.Value) (value.Value, error) {
		return nil, scripterr.NewValueError("boom")
	}})

	err := e.execTry(ctx, tryStmt)
	if err == nil {
		t.Fatal("expected the unhandled raise to propagate past finally")
	}
	ran, ok := ctx.Get("ran")
	if !ok || ran != value.Bool(true) {
		t.Fatalf("expected finally to run regardless of the unhandled error, got %v, %v", ran, ok)
	}
}

// TestTryExceptCatchesAndBindsName covers `except ... as e` binding the
// raised value for the handler body.
func TestTryExceptCatchesAndBindsName(t *testing.T) {
	e, ctx := newTestEval()

	tryStmt := astnode.NewTry(1,
		[]astnode.Stmt{astnode.NewRaise(2, astnode.NewConstantStr(2, "oops"))},
		[]astnode.ExceptHandler{{
			Type: nil,
			Name: "e",
			Body: []astnode.Stmt{astnode.NewAssign(3, []astnode.AssignTarget{astnode.NewName(3, "caught")}, astnode.NewName(3, "e"))},
		}},
		nil, nil,
	)

	if err := e.execTry(ctx, tryStmt); err != nil {
		t.Fatalf("expected the bare except clause to catch everything, got %v", err)
	}
	caught, ok := ctx.Get("caught")
	if !ok || caught != value.Str("oops") {
		t.Fatalf("expected caught to be bound to the raised string, got %v, %v", caught, ok)
	}
}

// TestTryOrelseSkippedWhenBodyRaises covers the Orelse-only-on-no-exception
// rule.
func TestTryOrelseSkippedWhenBodyRaises(t *testing.T) {
	e, ctx := newTestEval()

	tryStmt := astnode.NewTry(1,
		[]astnode.Stmt{astnode.NewRaise(2, astnode.NewConstantStr(2, "fail"))},
		[]astnode.ExceptHandler{{Body: nil}},
		[]astnode.Stmt{astnode.NewAssign(3, []astnode.AssignTarget{astnode.NewName(3, "reached")}, astnode.NewConstantBool(3, true))},
		nil,
	)

	if err := e.execTry(ctx, tryStmt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ctx.Get("reached"); ok {
		t.Fatal("expected orelse to be skipped since the body raised")
	}
}

// TestHostExceptionMatchesRegisteredSuperclass covers §8 scenario 6's
// matching rule at the evaluator level directly.
func TestHostExceptionMatchesRegisteredSuperclass(t *testing.T) {
	hosts := hostinterop.NewRegistry()
	hosts.RegisterClass("Exception", struct{}{})
	hosts.RegisterClass("IllegalArgumentException", struct{}{})
	hosts.RegisterExceptionHierarchy("IllegalArgumentException", "Exception")

	e := New(hosts)
	ctx := scope.NewGlobals("<test>", io.Discard)

	se := scripterr.NewHostException("IllegalArgumentException", hostinterop.NewHostError("IllegalArgumentException", "bad arg"))

	handler := astnode.ExceptHandler{
		Type: astnode.NewCall(1, astnode.NewName(1, "HostClass"), []astnode.Expr{astnode.NewConstantStr(1, "Exception")}, nil),
	}
	matched, err := e.matchHandler(ctx, handler, se)
	if err != nil {
		t.Fatalf("matchHandler failed: %v", err)
	}
	if !matched {
		t.Fatal("expected IllegalArgumentException to match its registered superclass Exception")
	}
}
