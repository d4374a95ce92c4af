package userclass

import (
	"fmt"
	"testing"

	"github.com/scriptlang/pyast/internal/value"
)

// TestIsOrInheritsWalksTransitiveBases covers §4.3's except-matching rule
// for user-defined exception classes: a class matches itself, its direct
// base, and a base several hops up.
func TestIsOrInheritsWalksTransitiveBases(t *testing.T) {
	base := NewUserClass("Exception")
	mid := NewUserClass("IOException")
	mid.Bases = []*UserClass{base}
	leaf := NewUserClass("FileNotFoundException")
	leaf.Bases = []*UserClass{mid}

	if !leaf.IsOrInherits(leaf) {
		t.Fatal("a class must match itself")
	}
	if !leaf.IsOrInherits(mid) {
		t.Fatal("expected the direct base to match")
	}
	if !leaf.IsOrInherits(base) {
		t.Fatal("expected the transitive base to match")
	}
	other := NewUserClass("Unrelated")
	if leaf.IsOrInherits(other) {
		t.Fatal("expected an unrelated class not to match")
	}
}

// TestLookupMethodPrefersInstanceOverClass covers §4.5's dispatch rule:
// instance methods shadow class-level methods of the same name.
func TestLookupMethodPrefersInstanceOverClass(t *testing.T) {
	c := NewUserClass("Box")
	instanceFn := &value.Function{Name: "instance"}
	classFn := &value.Function{Name: "class"}
	c.InstanceMethods["greet"] = &Method{Kind: MethodInstance, Fn: instanceFn}
	c.ClassMethods["greet"] = &Method{Kind: MethodClassMethod, Fn: classFn}

	m, ok := c.LookupMethod("greet")
	if !ok || m.Fn != instanceFn {
		t.Fatalf("expected the instance method to win, got %v, %v", m, ok)
	}
}

// TestSetAttrRejectsWritesOnFrozenInstance covers the frozen-dataclass
// write rejection the evaluator maps to a FrozenInstanceError.
func TestSetAttrRejectsWritesOnFrozenInstance(t *testing.T) {
	c := NewUserClass("Point")
	c.Frozen = true
	o := NewUserObject(c)

	if err := o.SetAttr("x", value.Int(1)); err != ErrFrozenInstance {
		t.Fatalf("SetAttr on a frozen instance = %v, want ErrFrozenInstance", err)
	}
}

// TestGetAttrFallsBackToClassAttrs covers the "instance __dict__ then class
// __dict__" attribute lookup order.
func TestGetAttrFallsBackToClassAttrs(t *testing.T) {
	c := NewUserClass("Point")
	c.ClassAttrs["origin"] = value.Int(0)
	o := NewUserObject(c)
	o.Attrs["x"] = value.Int(5)

	if v, ok := o.GetAttr("x"); !ok || v != value.Int(5) {
		t.Fatalf("GetAttr(x) = %v, %v, want Int(5), true", v, ok)
	}
	if v, ok := o.GetAttr("origin"); !ok || v != value.Int(0) {
		t.Fatalf("GetAttr(origin) = %v, %v, want the class attr Int(0), true", v, ok)
	}
	if _, ok := o.GetAttr("missing"); ok {
		t.Fatal("expected GetAttr to report false for an undefined attribute")
	}
}

// TestEqualValueComparesFrozenDataclassesByField covers §4.2's dataclass
// equality override: two frozen instances of the same dataclass compare
// equal by field value even though they're distinct objects.
func TestEqualValueComparesFrozenDataclassesByField(t *testing.T) {
	c := NewUserClass("Point")
	c.Frozen = true
	c.IsDataclass = true
	c.FieldOrder = []string{"x", "y"}

	a := NewUserObject(c)
	a.Attrs["x"], a.Attrs["y"] = value.Int(1), value.Int(2)
	b := NewUserObject(c)
	b.Attrs["x"], b.Attrs["y"] = value.Int(1), value.Int(2)

	if !a.EqualValue(b) {
		t.Fatal("expected two frozen dataclass instances with equal fields to compare equal")
	}

	b.Attrs["y"] = value.Int(99)
	if a.EqualValue(b) {
		t.Fatal("expected differing field values to break equality")
	}
}

// TestEqualValueIsIdentityForNonDataclass covers the non-dataclass fallback:
// two otherwise-identical plain instances are not equal to each other.
func TestEqualValueIsIdentityForNonDataclass(t *testing.T) {
	c := NewUserClass("Plain")
	a := NewUserObject(c)
	b := NewUserObject(c)

	if a.EqualValue(b) {
		t.Fatal("expected distinct plain instances not to compare equal")
	}
	if !a.EqualValue(a) {
		t.Fatal("expected an instance to equal itself")
	}
}

// TestStrRendersDataclassFieldsInOrder covers the generated
// `Name(field=repr, ...)` dataclass string form.
func TestStrRendersDataclassFieldsInOrder(t *testing.T) {
	c := NewUserClass("Point")
	c.IsDataclass = true
	c.FieldOrder = []string{"x", "y"}
	o := NewUserObject(c)
	o.Attrs["x"], o.Attrs["y"] = value.Int(1), value.Int(2)

	repr := func(v value.Value) string {
		return fmt.Sprintf("%d", v.(value.Int))
	}
	if got, want := o.Str(repr), "Point(x=1, y=2)"; got != want {
		t.Fatalf("Str() = %q, want %q", got, want)
	}
}

// TestHashIncludesClassNameAndFields covers Hash's tuple-hash shape: it
// must vary with both the class name and the field values.
func TestHashIncludesClassNameAndFields(t *testing.T) {
	c := NewUserClass("Point")
	c.FieldOrder = []string{"x", "y"}
	a := NewUserObject(c)
	a.Attrs["x"], a.Attrs["y"] = value.Int(1), value.Int(2)
	b := NewUserObject(c)
	b.Attrs["x"], b.Attrs["y"] = value.Int(1), value.Int(2)

	if a.Hash() != b.Hash() {
		t.Fatalf("expected identical-field instances to hash the same: %q != %q", a.Hash(), b.Hash())
	}
	b.Attrs["y"] = value.Int(3)
	if a.Hash() == b.Hash() {
		t.Fatal("expected differing field values to change the hash")
	}
	vc := NewUserClass("Vector")
	vc.FieldOrder = []string{"x", "y"}
	v := NewUserObject(vc)
	v.Attrs["x"], v.Attrs["y"] = value.Int(1), value.Int(2)
	if a.Hash() == v.Hash() {
		t.Fatal("expected a different class name to change the hash")
	}
}
