package value

// Equal implements value equality (§4.2): numeric types compare
// numerically; List/Tuple compare by length + element-wise equality;
// Dict compares as set-of-pairs; everything else defers to a type-specific
// Equaler if present, else falls back to identity via Go's == on
// comparable underlying types.
func Equal(a, b Value) (bool, error) {
	if IsNumeric(a) && IsNumeric(b) {
		if IsFloat(a) || IsFloat(b) {
			return AsFloatAny(a) == AsFloatAny(b), nil
		}
		ai, _ := AsInt64(a)
		bi, _ := AsInt64(b)
		return ai == bi, nil
	}

	switch av := a.(type) {
	case Str:
		bv, ok := b.(Str)
		return ok && av == bv, nil
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv, nil
	case NoneValue:
		_, ok := b.(NoneValue)
		return ok, nil
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Items) != len(bv.Items) {
			return false, nil
		}
		for i := range av.Items {
			eq, err := Equal(av.Items[i], bv.Items[i])
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case *Tuple:
		bv, ok := b.(*Tuple)
		if !ok || len(av.Items) != len(bv.Items) {
			return false, nil
		}
		for i := range av.Items {
			eq, err := Equal(av.Items[i], bv.Items[i])
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case *Dict:
		bv, ok := b.(*Dict)
		if !ok || av.Length() != bv.Length() {
			return false, nil
		}
		for _, kv := range av.Items() {
			other, err := bv.GetItem(kv[0])
			if err != nil {
				return false, nil
			}
			eq, err := Equal(kv[1], other)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case Equaler:
		return av.EqualValue(b), nil
	}
	return a == b, nil
}

// Equaler lets a value kind (notably user objects) override default
// equality, e.g. frozen dataclass instances compare by field equality
// instead of identity (§4.2).
type Equaler interface {
	EqualValue(other Value) bool
}

// Identical implements `is`/`is not`: pointer identity for reference kinds,
// value identity for the rest.
func Identical(a, b Value) bool {
	switch av := a.(type) {
	case *List:
		bv, ok := b.(*List)
		return ok && av == bv
	case *Tuple:
		bv, ok := b.(*Tuple)
		return ok && av == bv
	case *Dict:
		bv, ok := b.(*Dict)
		return ok && av == bv
	case NoneValue:
		_, ok := b.(NoneValue)
		return ok
	case Equaler:
		// User objects (the only Equaler implementor) override == with
		// field equality for frozen dataclasses, but `is` must still be
		// pointer identity regardless of that override (§4.3).
		bv, ok := b.(Equaler)
		return ok && av == bv
	}
	eq, err := Equal(a, b)
	return err == nil && eq
}
