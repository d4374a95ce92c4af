package evaluator

import (
	"strconv"
	"strings"

	"github.com/scriptlang/pyast/internal/astnode"
	"github.com/scriptlang/pyast/internal/scripterr"
	"github.com/scriptlang/pyast/internal/value"
)

// applyBinOp implements §4.3's BinOp contract: numeric promotion, string
// concatenation/repetition, list/tuple concatenation, and printf-style `%`
// formatting.
func applyBinOp(op astnode.BinOpKind, left, right value.Value) (value.Value, error) {
	switch op {
	case astnode.OpAdd:
		return applyAdd(left, right)
	case astnode.OpSub:
		return applyArithmetic(op, left, right)
	case astnode.OpMult:
		return applyMul(left, right)
	case astnode.OpDiv:
		return applyDiv(left, right)
	case astnode.OpPow:
		return applyPow(left, right)
	case astnode.OpMod:
		return applyMod(left, right)
	default:
		return nil, scripterr.NewTypeError("unsupported operator %q", op)
	}
}

func applyAdd(left, right value.Value) (value.Value, error) {
	if ls, ok := left.(value.Str); ok {
		rs, ok := right.(value.Str)
		if !ok {
			return nil, scripterr.NewTypeError("can only concatenate str (not %q) to str", right.TypeName())
		}
		return ls + rs, nil
	}
	if ll, ok := left.(*value.List); ok {
		rl, ok := right.(*value.List)
		if !ok {
			return nil, scripterr.NewTypeError(`can only concatenate list (not "%s") to list`, right.TypeName())
		}
		out := append(append([]value.Value(nil), ll.Items...), rl.Items...)
		return value.NewList(out), nil
	}
	if lt, ok := left.(*value.Tuple); ok {
		rt, ok := right.(*value.Tuple)
		if !ok {
			return nil, scripterr.NewTypeError(`can only concatenate tuple (not "%s") to tuple`, right.TypeName())
		}
		out := append(append([]value.Value(nil), lt.Items...), rt.Items...)
		return value.NewTuple(out), nil
	}
	return applyArithmetic(astnode.OpAdd, left, right)
}

func applyMul(left, right value.Value) (value.Value, error) {
	if ls, ok := left.(value.Str); ok {
		if n, ok := value.AsInt64(right); ok {
			return value.Str(strings.Repeat(string(ls), int(n))), nil
		}
	}
	if rs, ok := right.(value.Str); ok {
		if n, ok := value.AsInt64(left); ok {
			return value.Str(strings.Repeat(string(rs), int(n))), nil
		}
	}
	return applyArithmetic(astnode.OpMult, left, right)
}

func applyArithmetic(op astnode.BinOpKind, left, right value.Value) (value.Value, error) {
	if !value.IsNumeric(left) || !value.IsNumeric(right) {
		return nil, scripterr.NewTypeError("unsupported operand type(s) for %s: %q and %q", opSymbol(op), left.TypeName(), right.TypeName())
	}
	if value.IsFloat(left) || value.IsFloat(right) {
		lf, rf := value.AsFloatAny(left), value.AsFloatAny(right)
		switch op {
		case astnode.OpAdd:
			return value.NormalizeFloat(lf + rf), nil
		case astnode.OpSub:
			return value.NormalizeFloat(lf - rf), nil
		case astnode.OpMult:
			return value.NormalizeFloat(lf * rf), nil
		}
	}
	li, _ := value.AsInt64(left)
	ri, _ := value.AsInt64(right)
	switch op {
	case astnode.OpAdd:
		return value.NormalizeInt(li + ri), nil
	case astnode.OpSub:
		return value.NormalizeInt(li - ri), nil
	case astnode.OpMult:
		return value.NormalizeInt(li * ri), nil
	}
	return nil, scripterr.NewTypeError("unsupported operator %q", op)
}

// applyDiv implements true division: exact integer quotients stay Int,
// everything else promotes to Float (§4.3, §8).
func applyDiv(left, right value.Value) (value.Value, error) {
	if !value.IsNumeric(left) || !value.IsNumeric(right) {
		return nil, scripterr.NewTypeError("unsupported operand type(s) for /: %q and %q", left.TypeName(), right.TypeName())
	}
	lf, rf := value.AsFloatAny(left), value.AsFloatAny(right)
	if rf == 0 {
		return nil, scripterr.NewValueError("division by zero")
	}
	if !value.IsFloat(left) && !value.IsFloat(right) {
		li, _ := value.AsInt64(left)
		ri, _ := value.AsInt64(right)
		if ri != 0 && li%ri == 0 {
			return value.NormalizeInt(li / ri), nil
		}
	}
	return value.NormalizeFloat(lf / rf), nil
}

// applyPow returns Int iff the result is exact (§4.3).
func applyPow(left, right value.Value) (value.Value, error) {
	if !value.IsNumeric(left) || !value.IsNumeric(right) {
		return nil, scripterr.NewTypeError("unsupported operand type(s) for **: %q and %q", left.TypeName(), right.TypeName())
	}
	lf, rf := value.AsFloatAny(left), value.AsFloatAny(right)
	result := ipow(lf, rf)
	if !value.IsFloat(left) && !value.IsFloat(right) {
		if ri, ok := value.AsInt64(right); ok && ri >= 0 {
			if float64(int64(result)) == result {
				return value.NormalizeInt(int64(result)), nil
			}
		}
	}
	return value.NormalizeFloat(result), nil
}

func ipow(base, exp float64) float64 {
	result := 1.0
	neg := exp < 0
	if neg {
		exp = -exp
	}
	for i := 0; i < int(exp); i++ {
		result *= base
	}
	if neg {
		return 1 / result
	}
	return result
}

// applyMod implements `%` on numbers and printf-style string formatting
// (§4.3).
func applyMod(left, right value.Value) (value.Value, error) {
	if ls, ok := left.(value.Str); ok {
		return value.Str(percentFormat(string(ls), right)), nil
	}
	if !value.IsNumeric(left) || !value.IsNumeric(right) {
		return nil, scripterr.NewTypeError("unsupported operand type(s) for %%: %q and %q", left.TypeName(), right.TypeName())
	}
	if value.IsFloat(left) || value.IsFloat(right) {
		lf, rf := value.AsFloatAny(left), value.AsFloatAny(right)
		if rf == 0 {
			return nil, scripterr.NewValueError("float modulo")
		}
		m := lf - rf*float64(int64(lf/rf))
		return value.NormalizeFloat(m), nil
	}
	li, _ := value.AsInt64(left)
	ri, _ := value.AsInt64(right)
	if ri == 0 {
		return nil, scripterr.NewValueError("integer modulo by zero")
	}
	return value.NormalizeInt(li % ri), nil
}

// percentFormat implements the printf-style `%` operator on strings, where
// the right operand is a single value or a tuple of values (§4.3).
func percentFormat(format string, rhs value.Value) string {
	var args []value.Value
	if t, ok := rhs.(*value.Tuple); ok {
		args = t.Items
	} else {
		args = []value.Value{rhs}
	}
	var b strings.Builder
	argi := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			b.WriteByte(c)
			continue
		}
		i++
		verb := format[i]
		if verb == '%' {
			b.WriteByte('%')
			continue
		}
		var arg value.Value
		if argi < len(args) {
			arg = args[argi]
			argi++
		} else {
			arg = value.None
		}
		switch verb {
		case 'd':
			n, _ := value.AsInt64(arg)
			b.WriteString(strconv.FormatInt(n, 10))
		case 'f':
			f := value.AsFloatAny(arg)
			b.WriteString(strconv.FormatFloat(f, 'f', 6, 64))
		case 's':
			b.WriteString(Stringify(arg))
		default:
			b.WriteByte('%')
			b.WriteByte(verb)
		}
	}
	return b.String()
}

func opSymbol(op astnode.BinOpKind) string {
	switch op {
	case astnode.OpAdd:
		return "+"
	case astnode.OpSub:
		return "-"
	case astnode.OpMult:
		return "*"
	case astnode.OpDiv:
		return "/"
	case astnode.OpPow:
		return "**"
	case astnode.OpMod:
		return "%"
	}
	return string(op)
}

func applyUnaryOp(op astnode.UnaryOpKind, v value.Value) (value.Value, error) {
	switch op {
	case astnode.OpNot:
		return value.Bool(!value.Truthy(v)), nil
	case astnode.OpUSub:
		if value.IsFloat(v) {
			return value.NormalizeFloat(-value.AsFloatAny(v)), nil
		}
		if i, ok := value.AsInt64(v); ok {
			return value.NormalizeInt(-i), nil
		}
		return nil, scripterr.NewTypeError("bad operand type for unary -: %q", v.TypeName())
	default:
		return nil, scripterr.NewTypeError("unsupported unary operator %q", op)
	}
}

// evalCompare implements §4.3's ordered and membership comparisons. `in`/
// `not in` route through the Evaluator since a UserObject's `contains`
// capability is a dynamically looked-up method, not a static interface
// (§3, §4.2).
func (e *Evaluator) evalCompare(op astnode.CmpOp, left, right value.Value) (value.Value, error) {
	switch op {
	case astnode.CmpIs:
		return value.Bool(value.Identical(left, right)), nil
	case astnode.CmpIsNot:
		return value.Bool(!value.Identical(left, right)), nil
	case astnode.CmpEq:
		eq, err := value.Equal(left, right)
		return value.Bool(eq), err
	case astnode.CmpNotEq:
		eq, err := value.Equal(left, right)
		return value.Bool(!eq), err
	case astnode.CmpIn, astnode.CmpNotIn:
		found, err := e.containsItem(right, left)
		if err != nil {
			return nil, err
		}
		if op == astnode.CmpNotIn {
			found = !found
		}
		return value.Bool(found), nil
	default:
		return applyOrdered(op, left, right)
	}
}

func applyOrdered(op astnode.CmpOp, left, right value.Value) (value.Value, error) {
	cmp, err := Compare(left, right)
	if err != nil {
		return nil, err
	}
	return value.Bool(orderedResult(op, cmp)), nil
}

// Compare returns -1/0/1 for left<right/==/>right, the ordering primitive
// behind <,<=,>,>= (§4.3) and the `min`/`max` builtins (§4.7), which need the
// same numeric/string ordering rule without going through a CmpOp.
func Compare(left, right value.Value) (int, error) {
	if value.IsNumeric(left) && value.IsNumeric(right) {
		return compareFloat(value.AsFloatAny(left), value.AsFloatAny(right)), nil
	}
	if ls, ok := left.(value.Str); ok {
		if rs, ok := right.(value.Str); ok {
			return strings.Compare(string(ls), string(rs)), nil
		}
	}
	return 0, scripterr.NewTypeError("%q not supported between instances of %q and %q", "<", left.TypeName(), right.TypeName())
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func orderedResult(op astnode.CmpOp, cmp int) bool {
	switch op {
	case astnode.CmpLt:
		return cmp < 0
	case astnode.CmpLtE:
		return cmp <= 0
	case astnode.CmpGt:
		return cmp > 0
	case astnode.CmpGtE:
		return cmp >= 0
	}
	return false
}
