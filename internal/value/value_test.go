package value

import "testing"

func TestListNegativeIndex(t *testing.T) {
	l := NewList([]Value{Int(1), Int(2), Int(3)})
	v, err := l.GetItem(Int(-1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != Int(3) {
		t.Fatalf("expected 3, got %v", v)
	}
}

func TestListOutOfRange(t *testing.T) {
	l := NewList([]Value{Int(1)})
	if _, err := l.GetItem(Int(5)); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestSliceStepRejected(t *testing.T) {
	l := NewList([]Value{Int(1), Int(2), Int(3)})
	_, err := l.GetItem(&Slice{Step: Int(2)})
	if err == nil {
		t.Fatal("expected step != 1 to be rejected")
	}
}

func TestDictRoundTrip(t *testing.T) {
	d := NewDict()
	if err := d.SetItem(Int(1), Str("one")); err != nil {
		t.Fatal(err)
	}
	if err := d.SetItem(Int(2), Str("two")); err != nil {
		t.Fatal(err)
	}
	v, err := d.GetItem(Int(1))
	if err != nil || v != Str("one") {
		t.Fatalf("expected one, got %v, %v", v, err)
	}
	if d.Length() != 2 {
		t.Fatalf("expected length 2, got %d", d.Length())
	}
}

func TestTruthyFalseString(t *testing.T) {
	if Truthy(Str("False")) {
		t.Fatal(`expected the literal string "False" to be falsy`)
	}
	if !Truthy(Str("yes")) {
		t.Fatal("expected non-empty string to be truthy")
	}
}

func TestEqualListElementwise(t *testing.T) {
	a := NewList([]Value{Int(1), Str("x")})
	b := NewList([]Value{Int(1), Str("x")})
	eq, err := Equal(a, b)
	if err != nil || !eq {
		t.Fatalf("expected equal lists, got %v %v", eq, err)
	}
}

func TestNumericPromotion(t *testing.T) {
	v := NormalizeInt(int64(1) << 40)
	if _, ok := v.(Int64); !ok {
		t.Fatalf("expected Int64 promotion for overflow, got %T", v)
	}
	v2 := NormalizeInt(5)
	if _, ok := v2.(Int); !ok {
		t.Fatalf("expected Int for small value, got %T", v2)
	}
}

// fieldEqualObject stands in for *userclass.UserObject here (value cannot
// import userclass without a cycle): it overrides == with field equality,
// the same shape a frozen dataclass instance uses.
type fieldEqualObject struct{ field int }

func (o *fieldEqualObject) TypeName() string { return "object" }
func (o *fieldEqualObject) EqualValue(other Value) bool {
	ov, ok := other.(*fieldEqualObject)
	return ok && o.field == ov.field
}

// TestIdenticalIsPointerIdentityDespiteEqualValue covers §4.3's `is`
// contract: two distinct instances that compare == via a field-equality
// Equaler override must still be `is not` each other.
func TestIdenticalIsPointerIdentityDespiteEqualValue(t *testing.T) {
	a := &fieldEqualObject{field: 1}
	b := &fieldEqualObject{field: 1}

	eq, err := Equal(a, b)
	if err != nil || !eq {
		t.Fatalf("expected == to hold via EqualValue, got %v, %v", eq, err)
	}
	if Identical(a, b) {
		t.Fatal("expected `is` to be false for distinct instances despite equal fields")
	}
	if !Identical(a, a) {
		t.Fatal("expected `is` to be true for the same instance")
	}
}
