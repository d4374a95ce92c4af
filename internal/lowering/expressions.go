package lowering

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/scriptlang/pyast/internal/astnode"
	"github.com/scriptlang/pyast/internal/scripterr"
)

// lowerExpr lowers an expression node. callerPosition, when true, marks an
// Attribute node as appearing in caller position (left of a Call), per
// §4.3's bound-method-expression rule. It is only ever set by lowerCall.
func lowerExpr(n gjson.Result, path string) (astnode.Expr, error) {
	return lowerExprAt(n, path, false)
}

func lowerExprAt(n gjson.Result, path string, callerPosition bool) (astnode.Expr, error) {
	line := lineOf(n)
	switch typeOf(n) {
	case "Constant":
		return lowerConstant(n, path)

	case "Name":
		return astnode.NewName(line, n.Get("id").String()), nil

	case "BinOp":
		left, err := lowerExpr(n.Get("left"), path+".left")
		if err != nil {
			return nil, err
		}
		right, err := lowerExpr(n.Get("right"), path+".right")
		if err != nil {
			return nil, err
		}
		op, err := lowerBinOp(n.Get("op").String(), path+".op")
		if err != nil {
			return nil, err
		}
		return astnode.NewBinOp(line, left, op, right), nil

	case "UnaryOp":
		operand, err := lowerExpr(n.Get("operand"), path+".operand")
		if err != nil {
			return nil, err
		}
		op, err := lowerUnaryOp(n.Get("op").String(), path+".op")
		if err != nil {
			return nil, err
		}
		return astnode.NewUnaryOp(line, op, operand), nil

	case "BoolOp":
		values, err := lowerExprList(n.Get("values"), path+".values")
		if err != nil {
			return nil, err
		}
		op, err := lowerBoolOp(n.Get("op").String(), path+".op")
		if err != nil {
			return nil, err
		}
		return astnode.NewBoolOp(line, op, values), nil

	case "Compare":
		left, err := lowerExpr(n.Get("left"), path+".left")
		if err != nil {
			return nil, err
		}
		ops := n.Get("ops")
		if !ops.IsArray() || len(ops.Array()) == 0 {
			return nil, scripterr.NewParseError(path+".ops", fmt.Errorf("Compare requires at least one operator"))
		}
		op, err := lowerCmpOp(ops.Array()[0].String(), path+".ops[0]")
		if err != nil {
			return nil, err
		}
		comparators := n.Get("comparators")
		if !comparators.IsArray() || len(comparators.Array()) == 0 {
			return nil, scripterr.NewParseError(path+".comparators", fmt.Errorf("Compare requires at least one comparator"))
		}
		comparator, err := lowerExpr(comparators.Array()[0], path+".comparators[0]")
		if err != nil {
			return nil, err
		}
		return astnode.NewCompare(line, left, op, comparator), nil

	case "Call":
		return lowerCall(n, path)

	case "Attribute":
		value, err := lowerExpr(n.Get("value"), path+".value")
		if err != nil {
			return nil, err
		}
		return astnode.NewAttribute(line, value, n.Get("attr").String(), callerPosition), nil

	case "Subscript":
		value, err := lowerExpr(n.Get("value"), path+".value")
		if err != nil {
			return nil, err
		}
		index, err := lowerExpr(n.Get("slice"), path+".slice")
		if err != nil {
			return nil, err
		}
		return astnode.NewSubscript(line, value, index), nil

	case "Slice":
		lower, err := lowerOptExpr(n.Get("lower"), path+".lower")
		if err != nil {
			return nil, err
		}
		upper, err := lowerOptExpr(n.Get("upper"), path+".upper")
		if err != nil {
			return nil, err
		}
		step, err := lowerOptExpr(n.Get("step"), path+".step")
		if err != nil {
			return nil, err
		}
		return astnode.NewSlice(line, lower, upper, step), nil

	case "IfExp":
		test, err := lowerExpr(n.Get("test"), path+".test")
		if err != nil {
			return nil, err
		}
		body, err := lowerExpr(n.Get("body"), path+".body")
		if err != nil {
			return nil, err
		}
		orelse, err := lowerExpr(n.Get("orelse"), path+".orelse")
		if err != nil {
			return nil, err
		}
		return astnode.NewIfExp(line, test, body, orelse), nil

	case "ListComp":
		elt, err := lowerExpr(n.Get("elt"), path+".elt")
		if err != nil {
			return nil, err
		}
		gens := n.Get("generators")
		if !gens.IsArray() || len(gens.Array()) == 0 {
			return nil, scripterr.NewParseError(path+".generators", fmt.Errorf("ListComp requires at least one generator"))
		}
		gen := gens.Array()[0]
		target, err := lowerExpr(gen.Get("target"), path+".generators[0].target")
		if err != nil {
			return nil, err
		}
		iter, err := lowerExpr(gen.Get("iter"), path+".generators[0].iter")
		if err != nil {
			return nil, err
		}
		ifs, err := lowerExprList(gen.Get("ifs"), path+".generators[0].ifs")
		if err != nil {
			return nil, err
		}
		return astnode.NewListComp(line, elt, target, iter, ifs), nil

	case "Tuple":
		elts, err := lowerExprList(n.Get("elts"), path+".elts")
		if err != nil {
			return nil, err
		}
		return astnode.NewTupleLit(line, elts), nil

	case "List":
		elts, err := lowerExprList(n.Get("elts"), path+".elts")
		if err != nil {
			return nil, err
		}
		return astnode.NewListLit(line, elts), nil

	case "Dict":
		keys := n.Get("keys")
		values := n.Get("values")
		if !keys.IsArray() || !values.IsArray() || len(keys.Array()) != len(values.Array()) {
			return nil, scripterr.NewParseError(path, fmt.Errorf("Dict keys/values length mismatch"))
		}
		keyArr, valArr := keys.Array(), values.Array()
		entries := make([]astnode.DictEntry, len(keyArr))
		for i := range keyArr {
			k, err := lowerExpr(keyArr[i], fmt.Sprintf("%s.keys[%d]", path, i))
			if err != nil {
				return nil, err
			}
			v, err := lowerExpr(valArr[i], fmt.Sprintf("%s.values[%d]", path, i))
			if err != nil {
				return nil, err
			}
			entries[i] = astnode.DictEntry{Key: k, Value: v}
		}
		return astnode.NewDictLit(line, entries), nil

	case "Lambda":
		params, defaults, err := lowerArguments(n.Get("args"), path+".args")
		if err != nil {
			return nil, err
		}
		body, err := lowerExpr(n.Get("body"), path+".body")
		if err != nil {
			return nil, err
		}
		return astnode.NewLambda(line, params, defaults, body), nil

	case "JoinedStr":
		values, err := lowerExprList(n.Get("values"), path+".values")
		if err != nil {
			return nil, err
		}
		return astnode.NewJoinedStr(line, values), nil

	case "FormattedValue":
		value, err := lowerExpr(n.Get("value"), path+".value")
		if err != nil {
			return nil, err
		}
		return astnode.NewFormattedValue(line, value), nil

	default:
		return nil, scripterr.NewParseError(path, fmt.Errorf("unknown expression kind %q", typeOf(n)))
	}
}

// lowerCall lowers a Call node, marking its Func as caller-position so an
// Attribute callee becomes a bound-method expression (§4.3).
func lowerCall(n gjson.Result, path string) (astnode.Expr, error) {
	line := lineOf(n)
	fn, err := lowerExprAt(n.Get("func"), path+".func", true)
	if err != nil {
		return nil, err
	}
	args, err := lowerExprList(n.Get("args"), path+".args")
	if err != nil {
		return nil, err
	}
	var keywords []astnode.Keyword
	var firstErr error
	n.Get("keywords").ForEach(func(_, v gjson.Result) bool {
		if arg := v.Get("arg"); !arg.Exists() || arg.Type == gjson.Null {
			firstErr = scripterr.NewParseError(path+".keywords", fmt.Errorf("**kwargs arguments are not supported"))
			return false
		}
		val, err := lowerExpr(v.Get("value"), path+".keywords.value")
		if err != nil {
			firstErr = err
			return false
		}
		keywords = append(keywords, astnode.Keyword{Name: v.Get("arg").String(), Value: val})
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return astnode.NewCall(line, fn, args, keywords), nil
}

func lowerConstant(n gjson.Result, path string) (astnode.Expr, error) {
	line := lineOf(n)
	typename := n.Get("typename").String()
	val := n.Get("value")
	switch astnode.ConstKind(typename) {
	case astnode.ConstInt:
		return astnode.NewConstantInt(line, val.Int()), nil
	case astnode.ConstFloat:
		return astnode.NewConstantFloat(line, val.Float()), nil
	case astnode.ConstStr:
		return astnode.NewConstantStr(line, val.String()), nil
	case astnode.ConstBool:
		return astnode.NewConstantBool(line, val.Bool()), nil
	case astnode.ConstNone:
		return astnode.NewConstantNone(line), nil
	default:
		return nil, scripterr.NewParseError(path+".typename", fmt.Errorf("unknown constant typename %q", typename))
	}
}

func lowerBinOp(op, path string) (astnode.BinOpKind, error) {
	switch op {
	case "Add":
		return astnode.OpAdd, nil
	case "Sub":
		return astnode.OpSub, nil
	case "Mult":
		return astnode.OpMult, nil
	case "Div":
		return astnode.OpDiv, nil
	case "Pow":
		return astnode.OpPow, nil
	case "Mod":
		return astnode.OpMod, nil
	default:
		return "", scripterr.NewParseError(path, fmt.Errorf("unsupported binary operator %q", op))
	}
}

func lowerUnaryOp(op, path string) (astnode.UnaryOpKind, error) {
	switch op {
	case "USub":
		return astnode.OpUSub, nil
	case "Not":
		return astnode.OpNot, nil
	default:
		return "", scripterr.NewParseError(path, fmt.Errorf("unsupported unary operator %q", op))
	}
}

func lowerBoolOp(op, path string) (astnode.BoolOpKind, error) {
	switch op {
	case "And":
		return astnode.OpAnd, nil
	case "Or":
		return astnode.OpOr, nil
	default:
		return "", scripterr.NewParseError(path, fmt.Errorf("unsupported boolean operator %q", op))
	}
}

func lowerCmpOp(op, path string) (astnode.CmpOp, error) {
	switch op {
	case "Is":
		return astnode.CmpIs, nil
	case "IsNot":
		return astnode.CmpIsNot, nil
	case "Eq":
		return astnode.CmpEq, nil
	case "NotEq":
		return astnode.CmpNotEq, nil
	case "Lt":
		return astnode.CmpLt, nil
	case "LtE":
		return astnode.CmpLtE, nil
	case "Gt":
		return astnode.CmpGt, nil
	case "GtE":
		return astnode.CmpGtE, nil
	case "In":
		return astnode.CmpIn, nil
	case "NotIn":
		return astnode.CmpNotIn, nil
	default:
		return "", scripterr.NewParseError(path, fmt.Errorf("unsupported comparison operator %q", op))
	}
}
