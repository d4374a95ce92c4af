package scope

import (
	"io"
	"testing"

	"github.com/scriptlang/pyast/internal/value"
)

func TestGlobalDeclarationRoutesReadsAndWrites(t *testing.T) {
	globals := NewGlobals("<test>", io.Discard)
	globals.Set("x", value.Int(0))

	fn := NewEnclosed(globals)
	fn.DeclareGlobal("x")
	fn.Set("x", value.Int(1))

	got, ok := globals.Get("x")
	if !ok || got != value.Int(1) {
		t.Fatalf("expected global x to become 1, got %v, %v", got, ok)
	}

	got2, ok := fn.Get("x")
	if !ok || got2 != value.Int(1) {
		t.Fatalf("expected fn to read global x as 1, got %v, %v", got2, ok)
	}
}

func TestEnclosingChainFallsThroughToGlobals(t *testing.T) {
	globals := NewGlobals("<test>", io.Discard)
	globals.Set("y", value.Str("outer"))

	inner := NewEnclosed(globals)
	v, ok := inner.Get("y")
	if !ok || v != value.Str("outer") {
		t.Fatalf("expected inner scope to see global y, got %v, %v", v, ok)
	}
}

func TestBreakSignalClearsOnLoopExit(t *testing.T) {
	ctx := NewGlobals("<test>", io.Discard)
	ctx.SetBreak()
	if !ctx.IsSkipping() {
		t.Fatal("expected break to set skipping")
	}
	ctx.ClearBreak()
	if ctx.IsSkipping() {
		t.Fatal("expected ClearBreak to clear the signal")
	}
}
