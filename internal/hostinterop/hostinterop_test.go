package hostinterop

import (
	"errors"
	"reflect"
	"testing"

	"github.com/scriptlang/pyast/internal/value"
)

type point struct {
	X, Y int
}

func (p point) Dist() int { return p.X + p.Y }

func add(a, b int) int              { return a + b }
func addFloat(a, b float64) float64 { return a + b }

// TestOverloadResolutionPrefersExactMatch covers §4.6's scoring rule: an
// int-typed overload outscores a float-typed one when called with two ints.
func TestOverloadResolutionPrefersExactMatch(t *testing.T) {
	r := NewRegistry()
	r.RegisterFunction("add", addFloat)
	r.RegisterFunction("add", add)

	got, err := r.CallFunction("add", []value.Value{value.Int(2), value.Int(3)})
	if err != nil {
		t.Fatalf("CallFunction failed: %v", err)
	}
	if got != value.Int(5) {
		t.Fatalf("expected the int overload to win and return Int(5), got %#v", got)
	}
}

// TestOverloadResolutionIsMemoized covers §9's "insert-if-absent" cache: a
// repeat call with the same argument-type signature must reuse the first
// resolution instead of rescanning (and must keep returning a correct
// result either way).
func TestOverloadResolutionIsMemoized(t *testing.T) {
	r := NewRegistry()
	r.RegisterFunction("add", add)

	for i := 0; i < 3; i++ {
		got, err := r.CallFunction("add", []value.Value{value.Int(1), value.Int(1)})
		if err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
		if got != value.Int(2) {
			t.Fatalf("call %d = %#v, want Int(2)", i, got)
		}
	}
}

// TestConstructWithoutRegisteredCtorReturnsZeroValue covers Construct's
// fallback for a class with no registered constructor and no arguments.
func TestConstructWithoutRegisteredCtorReturnsZeroValue(t *testing.T) {
	r := NewRegistry()
	r.RegisterClass("Point", point{})

	got, err := r.Construct("Point", nil)
	if err != nil {
		t.Fatalf("Construct failed: %v", err)
	}
	obj, ok := got.(*HostObject)
	if !ok {
		t.Fatalf("expected a *HostObject, got %#v", got)
	}
	if obj.TypeName() != "Point" {
		t.Fatalf("TypeName() = %q, want Point", obj.TypeName())
	}
}

// TestConstructRejectsArgsWithoutRegisteredCtor covers the error path when
// a class has no constructor but is called with arguments anyway.
func TestConstructRejectsArgsWithoutRegisteredCtor(t *testing.T) {
	r := NewRegistry()
	r.RegisterClass("Point", point{})

	if _, err := r.Construct("Point", []value.Value{value.Int(1)}); err == nil {
		t.Fatal("expected an error constructing with args and no registered constructor")
	}
}

// TestRegisteredConstructorIsUsed covers RegisterConstructor/Construct
// routing through the overload resolver rather than the zero-value
// fallback once a constructor exists.
func TestRegisteredConstructorIsUsed(t *testing.T) {
	r := NewRegistry()
	r.RegisterClass("Point", point{})
	r.RegisterConstructor("Point", func(x, y int) point { return point{X: x, Y: y} })

	got, err := r.Construct("Point", []value.Value{value.Int(3), value.Int(4)})
	if err != nil {
		t.Fatalf("Construct failed: %v", err)
	}
	obj := got.(*HostObject)
	dist, err := r.CallMethod(obj, "Dist", nil)
	if err != nil {
		t.Fatalf("CallMethod failed: %v", err)
	}
	if dist != value.Int(7) {
		t.Fatalf("Dist() = %#v, want Int(7)", dist)
	}
}

// TestGetFieldReadsStructFieldByLiteralName covers the Open Question
// decision recorded in SPEC_FULL.md: host fields are exposed under their
// literal Go (PascalCase) name.
func TestGetFieldReadsStructFieldByLiteralName(t *testing.T) {
	r := NewRegistry()
	hc := r.RegisterClass("Point", point{})
	obj := &HostObject{Class: hc, Value: reflect.ValueOf(point{X: 1, Y: 2})}

	x, ok := r.GetField(obj, "X")
	if !ok || x != value.Int(1) {
		t.Fatalf("GetField(X) = %#v, %v, want Int(1), true", x, ok)
	}
	if _, ok := r.GetField(obj, "NoSuchField"); ok {
		t.Fatal("expected GetField to report false for an unknown field")
	}
}

// TestStaticFieldAndMethod covers RegisterStatic/GetStaticField and
// RegisterStaticMethod/CallStatic, the "host-class static field/method"
// surface from §4.6.
func TestStaticFieldAndMethod(t *testing.T) {
	r := NewRegistry()
	hc := r.RegisterClass("Point", point{})
	r.RegisterStatic("Point", "Origin", 0)
	r.RegisterStaticMethod("Point", "Zero", func() int { return 0 })

	v, ok := r.GetStaticField(hc, "Origin")
	if !ok || v != value.Int(0) {
		t.Fatalf("GetStaticField(Origin) = %#v, %v, want Int(0), true", v, ok)
	}
	got, err := r.CallStatic(hc, "Zero", nil)
	if err != nil {
		t.Fatalf("CallStatic failed: %v", err)
	}
	if got != value.Int(0) {
		t.Fatalf("CallStatic(Zero) = %#v, want Int(0)", got)
	}
}

// TestExceptionHierarchyWalksTransitiveSupers covers IsAssignable matching
// not just a direct superclass but one several hops up the chain.
func TestExceptionHierarchyWalksTransitiveSupers(t *testing.T) {
	r := NewRegistry()
	r.RegisterExceptionHierarchy("FileNotFoundException", "IOException")
	r.RegisterExceptionHierarchy("IOException", "Exception")

	if !r.IsAssignable("FileNotFoundException", "Exception") {
		t.Fatal("expected FileNotFoundException to be assignable to Exception transitively")
	}
	if r.IsAssignable("Exception", "FileNotFoundException") {
		t.Fatal("assignability must not be symmetric")
	}
}

// TestOverloadResolutionRejectsFloatForIntParam covers §4.6 item 2's
// widening table: Float->Int narrowing is not a permitted direction, so a
// float argument must disqualify an int-only overload instead of silently
// truncating.
func TestOverloadResolutionRejectsFloatForIntParam(t *testing.T) {
	r := NewRegistry()
	r.RegisterFunction("onlyInt", func(x int) int { return x })

	if _, err := r.CallFunction("onlyInt", []value.Value{value.Float32(3.9)}); err == nil {
		t.Fatal("expected a float argument to be rejected for an int-only parameter")
	}
}

type describable struct{ name string }

func describe(d *describable) string {
	if d == nil {
		return "nil"
	}
	return d.name
}

// TestNullArgumentResolvesAgainstPointerParam covers §4.6 item 1's scoring
// rule: a None argument must score (and successfully convert) against a
// non-primitive (pointer) parameter instead of being rejected outright.
func TestNullArgumentResolvesAgainstPointerParam(t *testing.T) {
	r := NewRegistry()
	r.RegisterFunction("describe", describe)

	got, err := r.CallFunction("describe", []value.Value{value.None})
	if err != nil {
		t.Fatalf("CallFunction failed: %v", err)
	}
	if got != value.Str("nil") {
		t.Fatalf("describe(None) = %#v, want Str(\"nil\")", got)
	}
}

// TestNullArgumentResolvesAgainstSliceParam covers the "array parameters:
// +1" half of the same scoring rule.
func TestNullArgumentResolvesAgainstSliceParam(t *testing.T) {
	r := NewRegistry()
	r.RegisterFunction("sumInts", func(xs []int) int {
		total := 0
		for _, x := range xs {
			total += x
		}
		return total
	})

	got, err := r.CallFunction("sumInts", []value.Value{value.None})
	if err != nil {
		t.Fatalf("CallFunction failed: %v", err)
	}
	if got != value.Int(0) {
		t.Fatalf("sumInts(None) = %#v, want Int(0)", got)
	}
}

type distancer interface{ Dist() int }

func sumDistance(d distancer) int { return d.Dist() }

// TestHostObjectSatisfiesInterfaceParamByAssignability covers §4.6 item 2's
// "parameter's class is assignable from the value's class: +1" rule for a
// host object whose underlying Go type implements an interface parameter
// (the argument is a host object, not a script Function to be proxied).
func TestHostObjectSatisfiesInterfaceParamByAssignability(t *testing.T) {
	r := NewRegistry()
	hc := r.RegisterClass("Point", point{})
	r.RegisterFunction("sumDistance", sumDistance)

	obj := &HostObject{Class: hc, Value: reflect.ValueOf(point{X: 3, Y: 4})}
	got, err := r.CallFunction("sumDistance", []value.Value{obj})
	if err != nil {
		t.Fatalf("CallFunction failed: %v", err)
	}
	if got != value.Int(7) {
		t.Fatalf("sumDistance(point) = %#v, want Int(7)", got)
	}
}

// TestClassNameOfDefaultsToException covers ClassNameOf's fallback for a
// plain error that never originated as a *HostError.
func TestClassNameOfDefaultsToException(t *testing.T) {
	if got := ClassNameOf(errors.New("boom")); got != "Exception" {
		t.Fatalf("ClassNameOf(plain error) = %q, want Exception", got)
	}
	he := NewHostError("IllegalArgumentException", "bad arg: %d", 5)
	if got := ClassNameOf(he); got != "IllegalArgumentException" {
		t.Fatalf("ClassNameOf(*HostError) = %q, want IllegalArgumentException", got)
	}
	if he.Error() != "bad arg: 5" {
		t.Fatalf("HostError.Error() = %q, want \"bad arg: 5\"", he.Error())
	}
}
