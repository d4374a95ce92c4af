package value

// Truthy implements the truthiness rules in §4.2, including the
// deliberate quirk that the literal string "False" is falsy (documented as
// a convenience for round-tripping host boolean string forms, §9).
func Truthy(v Value) bool {
	switch x := v.(type) {
	case NoneValue:
		return false
	case Bool:
		return bool(x)
	case Str:
		if string(x) == "False" {
			return false
		}
		return x.Length() > 0
	case Int:
		return x != 0
	case Int64:
		return x != 0
	case Float32:
		return x != 0
	case Float64:
		return x != 0
	case *List:
		return x.Length() > 0
	case *Tuple:
		return x.Length() > 0
	case *Dict:
		return x.Length() > 0
	default:
		if l, ok := v.(Lengthable); ok {
			return l.Length() > 0
		}
		// User objects and everything else default to true (§4.2).
		return true
	}
}
