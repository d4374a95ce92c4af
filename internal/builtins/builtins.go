// Package builtins implements §4.7's built-in function set and the `math`
// namespace, registered as ordinary script Functions in a Script's globals
// rather than special-cased in the evaluator — the same approach the
// teacher takes with its own `interp/builtins` registry, generalized from a
// case-insensitive name table (Pascal tradition) to the Language's
// case-sensitive names.
package builtins

import (
	stdmath "math"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"

	"github.com/scriptlang/pyast/internal/evaluator"
	"github.com/scriptlang/pyast/internal/hostinterop"
	"github.com/scriptlang/pyast/internal/scope"
	"github.com/scriptlang/pyast/internal/scripterr"
	"github.com/scriptlang/pyast/internal/userclass"
	"github.com/scriptlang/pyast/internal/value"
)

// Category tags each registered built-in with a group name. The
// `cmd/pyast builtins` listing prints names only, not categories.
type Category string

const (
	CategoryCore       Category = "core"
	CategoryConversion Category = "conversion"
	CategoryCollection Category = "collection"
	CategoryMath       Category = "math"
)

// Func is a built-in implementation: it receives the evaluator (for
// Stringify/LengthOf/iteration) and the calling context (for Stdout), plus
// already-evaluated arguments.
type Func func(e *evaluator.Evaluator, ctx *scope.Context, args []value.Value) (value.Value, error)

type entry struct {
	name     string
	fn       Func
	category Category
}

var registry []entry

func register(name string, category Category, fn Func) {
	registry = append(registry, entry{name: name, fn: fn, category: category})
}

// Names returns every registered built-in name, naturally sorted for
// `cmd/pyast builtins`.
func Names() []string {
	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.name
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	return names
}

// MathNames returns the `math` namespace's member names (attributes and
// static methods), naturally sorted.
func MathNames() []string {
	m := mathNamespace()
	names := make([]string, 0, len(m.ClassAttrs)+len(m.ClassMethods))
	for k := range m.ClassAttrs {
		names = append(names, k)
	}
	for k := range m.ClassMethods {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	return names
}

// Install defines every built-in, plus the `math` namespace object, in ctx
// (expected to be a Script's globals context). Called once per Script
// (§6's "construct a new script with populated built-ins").
func Install(e *evaluator.Evaluator, ctx *scope.Context) {
	for _, ent := range registry {
		ctx.Define(ent.name, wrap(e, ctx, ent))
	}
	ctx.Define("math", mathNamespace())
}

func wrap(e *evaluator.Evaluator, ctx *scope.Context, ent entry) *value.Function {
	return &value.Function{
		Name:  ent.name,
		Arity: -1,
		Call: func(args []value.Value) (value.Value, error) {
			return ent.fn(e, ctx, args)
		},
	}
}

func init() {
	register("print", CategoryCore, builtinPrint)
	register("len", CategoryCore, builtinLen)
	register("type", CategoryCore, builtinType)
	register("range", CategoryCollection, builtinRange)
	register("enumerate", CategoryCollection, builtinEnumerate)
	register("tuple", CategoryCollection, builtinTuple)
	register("list", CategoryCollection, builtinList)
	register("int", CategoryConversion, builtinInt)
	register("float", CategoryConversion, builtinFloat)
	register("str", CategoryConversion, builtinStr)
	register("bool", CategoryConversion, builtinBool)
	register("abs", CategoryMath, builtinAbs)
	register("round", CategoryMath, builtinRound)
	register("min", CategoryMath, builtinMin)
	register("max", CategoryMath, builtinMax)
	register("ord", CategoryMath, builtinOrd)
	register("chr", CategoryMath, builtinChr)
}

func argCount(name string, args []value.Value, n int) error {
	if len(args) != n {
		return scripterr.NewTypeError("%s() takes exactly %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

// builtinPrint implements `print(*args)`: space-joined Stringify output to
// the context's current stdout sink (§6's redirect_stdout, §8's scenarios).
func builtinPrint(e *evaluator.Evaluator, ctx *scope.Context, args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = evaluator.Stringify(a)
	}
	out := ctx.Stdout()
	if out != nil {
		out.Write([]byte(strings.Join(parts, " ") + "\n"))
	}
	return value.None, nil
}

func builtinLen(e *evaluator.Evaluator, ctx *scope.Context, args []value.Value) (value.Value, error) {
	if err := argCount("len", args, 1); err != nil {
		return nil, err
	}
	n, err := e.LengthOf(args[0])
	if err != nil {
		return nil, err
	}
	return value.NormalizeInt(int64(n)), nil
}

// builtinType implements §4.7's `type(x)`: the host class of a HostObject,
// the wrapped class when x is already a HostClass, the UserClass of a
// UserObject, or the script type name otherwise.
func builtinType(e *evaluator.Evaluator, ctx *scope.Context, args []value.Value) (value.Value, error) {
	if err := argCount("type", args, 1); err != nil {
		return nil, err
	}
	switch x := args[0].(type) {
	case *hostinterop.HostObject:
		return x.Class, nil
	case *hostinterop.HostClass:
		return x, nil
	case *userclass.UserObject:
		return x.Class, nil
	default:
		return value.Str(x.TypeName()), nil
	}
}

// builtinRange implements `range(stop|start,stop|start,stop,step)` (§4.7).
// Materialized eagerly into a List rather than a true lazy sequence — the
// evaluator's `for`/iterate path only knows how to walk concrete containers,
// and nothing in the Language's scope relies on range over huge bounds.
func builtinRange(e *evaluator.Evaluator, ctx *scope.Context, args []value.Value) (value.Value, error) {
	var start, stop, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		n, ok := value.AsInt64(args[0])
		if !ok {
			return nil, scripterr.NewTypeError("range() expects int arguments")
		}
		stop = n
	case 2, 3:
		a, ok1 := value.AsInt64(args[0])
		b, ok2 := value.AsInt64(args[1])
		if !ok1 || !ok2 {
			return nil, scripterr.NewTypeError("range() expects int arguments")
		}
		start, stop = a, b
		if len(args) == 3 {
			s, ok := value.AsInt64(args[2])
			if !ok {
				return nil, scripterr.NewTypeError("range() expects int arguments")
			}
			step = s
		}
	default:
		return nil, scripterr.NewTypeError("range() takes 1 to 3 arguments, got %d", len(args))
	}
	if step == 0 {
		return nil, scripterr.NewValueError("range() arg 3 must not be zero")
	}
	var items []value.Value
	if step > 0 {
		for i := start; i < stop; i += step {
			items = append(items, value.NormalizeInt(i))
		}
	} else {
		for i := start; i > stop; i += step {
			items = append(items, value.NormalizeInt(i))
		}
	}
	return value.NewList(items), nil
}

// builtinEnumerate implements `enumerate(iter, start=0)`.
func builtinEnumerate(e *evaluator.Evaluator, ctx *scope.Context, args []value.Value) (value.Value, error) {
	if len(args) != 1 && len(args) != 2 {
		return nil, scripterr.NewTypeError("enumerate() takes 1 or 2 arguments, got %d", len(args))
	}
	start := int64(0)
	if len(args) == 2 {
		n, ok := value.AsInt64(args[1])
		if !ok {
			return nil, scripterr.NewTypeError("enumerate() start must be an int")
		}
		start = n
	}
	items, err := e.Iterate(args[0])
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, len(items))
	for i, it := range items {
		out[i] = value.NewTuple([]value.Value{value.NormalizeInt(start + int64(i)), it})
	}
	return value.NewList(out), nil
}

func builtinTuple(e *evaluator.Evaluator, ctx *scope.Context, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.NewTuple(nil), nil
	}
	if err := argCount("tuple", args, 1); err != nil {
		return nil, err
	}
	items, err := e.Iterate(args[0])
	if err != nil {
		return nil, err
	}
	return value.NewTuple(items), nil
}

func builtinList(e *evaluator.Evaluator, ctx *scope.Context, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.NewList(nil), nil
	}
	if err := argCount("list", args, 1); err != nil {
		return nil, err
	}
	items, err := e.Iterate(args[0])
	if err != nil {
		return nil, err
	}
	return value.NewList(append([]value.Value(nil), items...)), nil
}

// builtinInt implements `int(x)`: truthiness for bool, truncation for
// float, base-10 parsing for a numeric string (§4.7, §7's ValueError on a
// bad conversion).
func builtinInt(e *evaluator.Evaluator, ctx *scope.Context, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Int(0), nil
	}
	if err := argCount("int", args, 1); err != nil {
		return nil, err
	}
	switch x := args[0].(type) {
	case value.Int, value.Int64:
		return x, nil
	case value.Float32, value.Float64:
		return value.NormalizeInt(int64(value.AsFloatAny(x))), nil
	case value.Bool:
		if x {
			return value.Int(1), nil
		}
		return value.Int(0), nil
	case value.Str:
		n, err := strconv.ParseInt(strings.TrimSpace(string(x)), 10, 64)
		if err != nil {
			return nil, scripterr.NewValueError("invalid literal for int() with base 10: %q", string(x))
		}
		return value.NormalizeInt(n), nil
	default:
		return nil, scripterr.NewTypeError("int() argument must be a string or number, not %q", x.TypeName())
	}
}

func builtinFloat(e *evaluator.Evaluator, ctx *scope.Context, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Float32(0), nil
	}
	if err := argCount("float", args, 1); err != nil {
		return nil, err
	}
	switch x := args[0].(type) {
	case value.Float32, value.Float64:
		return x, nil
	case value.Int, value.Int64:
		n, _ := value.AsInt64(x)
		return value.NormalizeFloat(float64(n)), nil
	case value.Str:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		if err != nil {
			return nil, scripterr.NewValueError("could not convert string to float: %q", string(x))
		}
		return value.NormalizeFloat(f), nil
	default:
		return nil, scripterr.NewTypeError("float() argument must be a string or number, not %q", x.TypeName())
	}
}

func builtinStr(e *evaluator.Evaluator, ctx *scope.Context, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Str(""), nil
	}
	if err := argCount("str", args, 1); err != nil {
		return nil, err
	}
	return value.Str(evaluator.Stringify(args[0])), nil
}

func builtinBool(e *evaluator.Evaluator, ctx *scope.Context, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Bool(false), nil
	}
	if err := argCount("bool", args, 1); err != nil {
		return nil, err
	}
	return value.Bool(value.Truthy(args[0])), nil
}

func builtinAbs(e *evaluator.Evaluator, ctx *scope.Context, args []value.Value) (value.Value, error) {
	if err := argCount("abs", args, 1); err != nil {
		return nil, err
	}
	switch x := args[0].(type) {
	case value.Float32, value.Float64:
		f := value.AsFloatAny(x)
		if f < 0 {
			f = -f
		}
		return value.NormalizeFloat(f), nil
	default:
		n, ok := value.AsInt64(x)
		if !ok {
			return nil, scripterr.NewTypeError("abs() argument must be a number, not %q", x.TypeName())
		}
		if n < 0 {
			n = -n
		}
		return value.NormalizeInt(n), nil
	}
}

// builtinRound implements `round(x)` and `round(x, ndigits)`.
func builtinRound(e *evaluator.Evaluator, ctx *scope.Context, args []value.Value) (value.Value, error) {
	if len(args) != 1 && len(args) != 2 {
		return nil, scripterr.NewTypeError("round() takes 1 or 2 arguments, got %d", len(args))
	}
	f, ok := value.AsFloat64(args[0])
	if !ok {
		if n, ok := value.AsInt64(args[0]); ok {
			return value.NormalizeInt(n), nil
		}
		return nil, scripterr.NewTypeError("round() argument must be a number, not %q", args[0].TypeName())
	}
	if len(args) == 1 {
		return value.NormalizeInt(int64(roundHalfEven(f, 0))), nil
	}
	digits, ok := value.AsInt64(args[1])
	if !ok {
		return nil, scripterr.NewTypeError("round() ndigits must be an int")
	}
	return value.NormalizeFloat(roundHalfEven(f, int(digits))), nil
}

func roundHalfEven(f float64, digits int) float64 {
	scale := 1.0
	for i := 0; i < digits; i++ {
		scale *= 10
	}
	for i := 0; i > digits; i-- {
		scale /= 10
	}
	scaled := f * scale
	floor := float64(int64(scaled))
	diff := scaled - floor
	switch {
	case diff > 0.5:
		floor++
	case diff == 0.5:
		if int64(floor)%2 != 0 {
			floor++
		}
	}
	return floor / scale
}

func builtinMin(e *evaluator.Evaluator, ctx *scope.Context, args []value.Value) (value.Value, error) {
	return extremum(args, -1)
}

func builtinMax(e *evaluator.Evaluator, ctx *scope.Context, args []value.Value) (value.Value, error) {
	return extremum(args, 1)
}

// extremum implements both `min`/`max`, taking either several positional
// values or a single iterable (§4.7's "as in common scripting usage").
func extremum(args []value.Value, want int) (value.Value, error) {
	items := args
	if len(args) == 1 {
		if l, ok := args[0].(*value.List); ok {
			items = l.Items
		} else if t, ok := args[0].(*value.Tuple); ok {
			items = t.Items
		}
	}
	if len(items) == 0 {
		return nil, scripterr.NewValueError("min()/max() arg is an empty sequence")
	}
	best := items[0]
	for _, it := range items[1:] {
		cmp, err := evaluator.Compare(it, best)
		if err != nil {
			return nil, err
		}
		if cmp == want {
			best = it
		}
	}
	return best, nil
}

// builtinOrd implements `ord(c)`: the Unicode code point of a single-
// character string.
func builtinOrd(e *evaluator.Evaluator, ctx *scope.Context, args []value.Value) (value.Value, error) {
	if err := argCount("ord", args, 1); err != nil {
		return nil, err
	}
	s, ok := args[0].(value.Str)
	if !ok {
		return nil, scripterr.NewTypeError("ord() expected a string, got %q", args[0].TypeName())
	}
	runes := []rune(string(s))
	if len(runes) != 1 {
		return nil, scripterr.NewTypeError("ord() expected a character, got a string of length %d", len(runes))
	}
	return value.NormalizeInt(int64(runes[0])), nil
}

// builtinChr implements `chr(n)`: the single-character string for a
// Unicode code point.
func builtinChr(e *evaluator.Evaluator, ctx *scope.Context, args []value.Value) (value.Value, error) {
	if err := argCount("chr", args, 1); err != nil {
		return nil, err
	}
	n, ok := value.AsInt64(args[0])
	if !ok {
		return nil, scripterr.NewTypeError("chr() expected an int, got %q", args[0].TypeName())
	}
	return value.Str(string(rune(n))), nil
}

// mathNamespace builds the `math` object (§4.7): a UserClass carrying only
// class attributes and static methods, reached the same way a script reaches
// any other class-level member (`math.pi`, `math.sqrt(x)`), so it needs no
// special case in the evaluator's Attribute/Call dispatch.
func mathNamespace() *userclass.UserClass {
	uc := userclass.NewUserClass("math")
	uc.ClassAttrs["pi"] = value.NormalizeFloat(stdmath.Pi)
	uc.ClassAttrs["e"] = value.NormalizeFloat(stdmath.E)
	uc.ClassAttrs["tau"] = value.NormalizeFloat(2 * stdmath.Pi)
	uc.ClassMethods["sqrt"] = &userclass.Method{
		Kind: userclass.MethodStaticMethod,
		Fn: &value.Function{
			Name:      "sqrt",
			Arity:     1,
			ClassName: "math",
			Call: func(args []value.Value) (value.Value, error) {
				if err := argCount("math.sqrt", args, 1); err != nil {
					return nil, err
				}
				f, ok := value.AsFloat64(args[0])
				if !ok {
					if n, ok := value.AsInt64(args[0]); ok {
						f = float64(n)
					} else {
						return nil, scripterr.NewTypeError("math.sqrt() argument must be a number, not %q", args[0].TypeName())
					}
				}
				if f < 0 {
					return nil, scripterr.NewValueError("math domain error")
				}
				return value.NormalizeFloat(stdmath.Sqrt(f)), nil
			},
		},
	}
	return uc
}
