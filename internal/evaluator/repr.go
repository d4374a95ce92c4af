package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scriptlang/pyast/internal/hostinterop"
	"github.com/scriptlang/pyast/internal/userclass"
	"github.com/scriptlang/pyast/internal/value"
)

// Stringify implements `str(x)`, f-string interpolation, and print's
// rendering of a value (§4.3's JoinedStr contract, §4.7's `str` builtin).
func Stringify(v value.Value) string {
	switch x := v.(type) {
	case value.NoneValue:
		return "None"
	case value.Bool:
		if x {
			return "True"
		}
		return "False"
	case value.Str:
		return string(x)
	case value.Int:
		return strconv.FormatInt(int64(x), 10)
	case value.Int64:
		return strconv.FormatInt(int64(x), 10)
	case value.Float32, value.Float64:
		return strconv.FormatFloat(value.AsFloatAny(x), 'g', -1, 64)
	case *value.List:
		return "[" + joinRepr(x.Items) + "]"
	case *value.Tuple:
		if len(x.Items) == 1 {
			return "(" + Repr(x.Items[0]) + ",)"
		}
		return "(" + joinRepr(x.Items) + ")"
	case *value.Dict:
		var parts []string
		for _, kv := range x.Items() {
			parts = append(parts, Repr(kv[0])+": "+Repr(kv[1]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *value.Function:
		return fmt.Sprintf("<function %s>", x.Name)
	case *userclass.UserObject:
		if x.Class.IsDataclass {
			return x.Str(Repr)
		}
		return fmt.Sprintf("<%s object>", x.Class.Name)
	case *userclass.UserClass:
		return fmt.Sprintf("<class %s>", x.Name)
	case *hostinterop.HostObject:
		return fmt.Sprintf("%v", x.Unwrap())
	case *hostinterop.HostClass:
		return fmt.Sprintf("<host class %s>", x.Name)
	case *hostinterop.HostError:
		return fmt.Sprintf("%s: %s", x.ClassName, x.Message)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Repr renders an element the way it would appear nested inside a
// list/tuple/dict literal: strings keep their quotes.
func Repr(v value.Value) string {
	if s, ok := v.(value.Str); ok {
		return strconv.Quote(string(s))
	}
	return Stringify(v)
}

func joinRepr(items []value.Value) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = Repr(it)
	}
	return strings.Join(parts, ", ")
}
