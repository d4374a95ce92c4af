package builtins

import (
	"bytes"
	"io"
	"testing"

	"github.com/kr/pretty"

	"github.com/scriptlang/pyast/internal/evaluator"
	"github.com/scriptlang/pyast/internal/hostinterop"
	"github.com/scriptlang/pyast/internal/scope"
	"github.com/scriptlang/pyast/internal/value"
)

func newTestCtx(out io.Writer) (*evaluator.Evaluator, *scope.Context) {
	if out == nil {
		out = io.Discard
	}
	return evaluator.New(hostinterop.NewRegistry()), scope.NewGlobals("<test>", out)
}

// TestBuiltinsTable covers §4.7's conversion/math/collection built-ins with
// a single table, in the teacher's table-driven style.
func TestBuiltinsTable(t *testing.T) {
	e, ctx := newTestCtx(nil)

	tests := []struct {
		name string
		fn   Func
		args []value.Value
		want string
	}{
		{"len str", builtinLen, []value.Value{value.Str("hello")}, "5"},
		{"len list", builtinLen, []value.Value{value.NewList([]value.Value{value.Int(1), value.Int(2)})}, "2"},
		{"type int", builtinType, []value.Value{value.Int(1)}, "int"},
		{"int from str", builtinInt, []value.Value{value.Str(" 42 ")}, "42"},
		{"int from float", builtinInt, []value.Value{value.Float32(3.9)}, "3"},
		{"int from bool", builtinInt, []value.Value{value.Bool(true)}, "1"},
		{"float from str", builtinFloat, []value.Value{value.Str("3.5")}, "3.5"},
		{"str from int", builtinStr, []value.Value{value.Int(7)}, "7"},
		{"bool truthy str", builtinBool, []value.Value{value.Str("x")}, "True"},
		{"bool falsy str", builtinBool, []value.Value{value.Str("")}, "False"},
		{"abs negative int", builtinAbs, []value.Value{value.Int(-5)}, "5"},
		{"abs negative float", builtinAbs, []value.Value{value.Float32(-2.5)}, "2.5"},
		{"round half even down", builtinRound, []value.Value{value.Float32(2.5)}, "2"},
		{"round half even up", builtinRound, []value.Value{value.Float32(3.5)}, "4"},
		{"min of values", builtinMin, []value.Value{value.Int(3), value.Int(1), value.Int(2)}, "1"},
		{"max of values", builtinMax, []value.Value{value.Int(3), value.Int(1), value.Int(2)}, "3"},
		{"min of list", builtinMin, []value.Value{value.NewList([]value.Value{value.Int(9), value.Int(4)})}, "4"},
		{"ord", builtinOrd, []value.Value{value.Str("A")}, "65"},
		{"chr", builtinChr, []value.Value{value.Int(65)}, "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(e, ctx, tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %# v", pretty.Formatter(err))
			}
			if s := evaluator.Stringify(got); s != tt.want {
				t.Fatalf("got %s, want %s (%# v)", s, tt.want, pretty.Formatter(got))
			}
		})
	}
}

func TestBuiltinRangeThreeArg(t *testing.T) {
	e, ctx := newTestCtx(nil)
	got, err := builtinRange(e, ctx, []value.Value{value.Int(10), value.Int(0), value.Int(-2)})
	if err != nil {
		t.Fatalf("range failed: %v", err)
	}
	if want := "[10, 8, 6, 4, 2]"; evaluator.Stringify(got) != want {
		t.Fatalf("range(10, 0, -2) = %s, want %s", evaluator.Stringify(got), want)
	}
}

func TestBuiltinRangeRejectsZeroStep(t *testing.T) {
	e, ctx := newTestCtx(nil)
	if _, err := builtinRange(e, ctx, []value.Value{value.Int(0), value.Int(5), value.Int(0)}); err == nil {
		t.Fatal("expected a ValueError for a zero step")
	}
}

func TestBuiltinEnumerateWithStart(t *testing.T) {
	e, ctx := newTestCtx(nil)
	items := value.NewList([]value.Value{value.Str("a"), value.Str("b")})
	got, err := builtinEnumerate(e, ctx, []value.Value{items, value.Int(1)})
	if err != nil {
		t.Fatalf("enumerate failed: %v", err)
	}
	if want := `[(1, "a"), (2, "b")]`; evaluator.Stringify(got) != want {
		t.Fatalf("enumerate(['a','b'], 1) = %s, want %s", evaluator.Stringify(got), want)
	}
}

func TestBuiltinPrintJoinsWithSpacesAndNewline(t *testing.T) {
	var out bytes.Buffer
	e, ctx := newTestCtx(&out)
	if _, err := builtinPrint(e, ctx, []value.Value{value.Str("a"), value.Int(1), value.Bool(true)}); err != nil {
		t.Fatalf("print failed: %v", err)
	}
	if want := "a 1 True\n"; out.String() != want {
		t.Fatalf("print output = %q, want %q", out.String(), want)
	}
}

func TestBuiltinIntRejectsBadLiteral(t *testing.T) {
	e, ctx := newTestCtx(nil)
	if _, err := builtinInt(e, ctx, []value.Value{value.Str("not a number")}); err == nil {
		t.Fatal("expected a ValueError for an unparseable int literal")
	}
}

func TestMathNamespaceSqrtAndConstants(t *testing.T) {
	m := mathNamespace()
	pi, ok := m.ClassAttrs["pi"]
	if !ok {
		t.Fatal("expected math.pi to be defined")
	}
	if s := evaluator.Stringify(pi); s[:4] != "3.14" {
		t.Fatalf("math.pi = %s, want it to start with 3.14", s)
	}

	sqrt, ok := m.ClassMethods["sqrt"]
	if !ok {
		t.Fatal("expected math.sqrt to be defined")
	}
	got, err := sqrt.Fn.Call([]value.Value{value.Int(9)})
	if err != nil {
		t.Fatalf("math.sqrt(9) failed: %v", err)
	}
	if want := "3"; evaluator.Stringify(got) != want {
		t.Fatalf("math.sqrt(9) = %s, want %s", evaluator.Stringify(got), want)
	}

	if _, err := sqrt.Fn.Call([]value.Value{value.Int(-1)}); err == nil {
		t.Fatal("expected a ValueError for math.sqrt(-1)")
	}
}

func TestNamesAndMathNamesAreSorted(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatal("expected at least one registered built-in")
	}
	for i := 1; i < len(names); i++ {
		if names[i] < names[i-1] {
			t.Fatalf("Names() not sorted: %v before %v", names[i-1], names[i])
		}
	}

	mathNames := MathNames()
	found := false
	for _, n := range mathNames {
		if n == "sqrt" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected MathNames() to include sqrt")
	}
}

func TestInstallDefinesBuiltinsAndMath(t *testing.T) {
	e, ctx := newTestCtx(nil)
	Install(e, ctx)
	if _, ok := ctx.Get("print"); !ok {
		t.Fatal("expected Install to define print")
	}
	if _, ok := ctx.Get("math"); !ok {
		t.Fatal("expected Install to define math")
	}
}
