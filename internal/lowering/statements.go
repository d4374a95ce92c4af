package lowering

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/scriptlang/pyast/internal/astnode"
	"github.com/scriptlang/pyast/internal/scripterr"
)

func lowerStmt(n gjson.Result, path string) (astnode.Stmt, error) {
	line := lineOf(n)
	switch typeOf(n) {
	case "FunctionDef":
		params, defaults, err := lowerArguments(n.Get("args"), path+".args")
		if err != nil {
			return nil, err
		}
		body, err := lowerStmtList(n.Get("body"), path+".body")
		if err != nil {
			return nil, err
		}
		decorators, err := lowerDecorators(n.Get("decorator_list"), path+".decorator_list")
		if err != nil {
			return nil, err
		}
		return astnode.NewFunctionDef(line, n.Get("name").String(), params, defaults, body, decorators), nil

	case "ClassDef":
		bases, err := lowerExprList(n.Get("bases"), path+".bases")
		if err != nil {
			return nil, err
		}
		body, err := lowerStmtList(n.Get("body"), path+".body")
		if err != nil {
			return nil, err
		}
		decorators, err := lowerDecorators(n.Get("decorator_list"), path+".decorator_list")
		if err != nil {
			return nil, err
		}
		return astnode.NewClassDef(line, n.Get("name").String(), bases, body, decorators), nil

	case "Return":
		val, err := lowerOptExpr(n.Get("value"), path+".value")
		if err != nil {
			return nil, err
		}
		return astnode.NewReturn(line, val), nil

	case "Assign":
		targets, err := lowerAssignTargets(n.Get("targets"), path+".targets")
		if err != nil {
			return nil, err
		}
		value, err := lowerExpr(n.Get("value"), path+".value")
		if err != nil {
			return nil, err
		}
		return astnode.NewAssign(line, targets, value), nil

	case "AnnAssign":
		target, err := lowerAssignTarget(n.Get("target"), path+".target")
		if err != nil {
			return nil, err
		}
		ann, err := lowerOptExpr(n.Get("annotation"), path+".annotation")
		if err != nil {
			return nil, err
		}
		value, err := lowerOptExpr(n.Get("value"), path+".value")
		if err != nil {
			return nil, err
		}
		return astnode.NewAnnAssign(line, target, ann, value), nil

	case "AugAssign":
		target, err := lowerAssignTarget(n.Get("target"), path+".target")
		if err != nil {
			return nil, err
		}
		op, err := lowerAugOp(n.Get("op").String(), path+".op")
		if err != nil {
			return nil, err
		}
		value, err := lowerExpr(n.Get("value"), path+".value")
		if err != nil {
			return nil, err
		}
		return astnode.NewAugAssign(line, target, op, value), nil

	case "Delete":
		targets, err := lowerExprList(n.Get("targets"), path+".targets")
		if err != nil {
			return nil, err
		}
		return astnode.NewDelete(line, targets), nil

	case "Global":
		return astnode.NewGlobal(line, lowerStrList(n.Get("names"))), nil

	case "Expr":
		value, err := lowerExpr(n.Get("value"), path+".value")
		if err != nil {
			return nil, err
		}
		return astnode.NewExprStmt(line, value), nil

	case "If":
		test, err := lowerExpr(n.Get("test"), path+".test")
		if err != nil {
			return nil, err
		}
		body, err := lowerStmtList(n.Get("body"), path+".body")
		if err != nil {
			return nil, err
		}
		orelse, err := lowerStmtList(n.Get("orelse"), path+".orelse")
		if err != nil {
			return nil, err
		}
		return astnode.NewIf(line, test, body, orelse), nil

	case "For":
		target, err := lowerExpr(n.Get("target"), path+".target")
		if err != nil {
			return nil, err
		}
		iter, err := lowerExpr(n.Get("iter"), path+".iter")
		if err != nil {
			return nil, err
		}
		body, err := lowerStmtList(n.Get("body"), path+".body")
		if err != nil {
			return nil, err
		}
		orelse, err := lowerStmtList(n.Get("orelse"), path+".orelse")
		if err != nil {
			return nil, err
		}
		return astnode.NewFor(line, target, iter, body, orelse), nil

	case "While":
		test, err := lowerExpr(n.Get("test"), path+".test")
		if err != nil {
			return nil, err
		}
		body, err := lowerStmtList(n.Get("body"), path+".body")
		if err != nil {
			return nil, err
		}
		orelse, err := lowerStmtList(n.Get("orelse"), path+".orelse")
		if err != nil {
			return nil, err
		}
		return astnode.NewWhile(line, test, body, orelse), nil

	case "Break":
		return astnode.NewBreak(line), nil

	case "Try":
		body, err := lowerStmtList(n.Get("body"), path+".body")
		if err != nil {
			return nil, err
		}
		handlers, err := lowerHandlers(n.Get("handlers"), path+".handlers")
		if err != nil {
			return nil, err
		}
		orelse, err := lowerStmtList(n.Get("orelse"), path+".orelse")
		if err != nil {
			return nil, err
		}
		finalbody, err := lowerStmtList(n.Get("finalbody"), path+".finalbody")
		if err != nil {
			return nil, err
		}
		return astnode.NewTry(line, body, handlers, orelse, finalbody), nil

	case "Raise":
		exc, err := lowerOptExpr(n.Get("exc"), path+".exc")
		if err != nil {
			return nil, err
		}
		return astnode.NewRaise(line, exc), nil

	default:
		return nil, scripterr.NewParseError(path, fmt.Errorf("unknown statement kind %q", typeOf(n)))
	}
}

func lowerAugOp(op, path string) (astnode.AugOp, error) {
	switch op {
	case "Add":
		return astnode.AugAdd, nil
	case "Sub":
		return astnode.AugSub, nil
	case "Mult":
		return astnode.AugMul, nil
	case "Div":
		return astnode.AugDiv, nil
	default:
		return "", scripterr.NewParseError(path, fmt.Errorf("unsupported augmented-assignment operator %q", op))
	}
}

func lowerHandlers(n gjson.Result, path string) ([]astnode.ExceptHandler, error) {
	var out []astnode.ExceptHandler
	var firstErr error
	idx := 0
	n.ForEach(func(_, v gjson.Result) bool {
		p := fmt.Sprintf("%s[%d]", path, idx)
		idx++
		typ, err := lowerOptExpr(v.Get("type"), p+".type")
		if err != nil {
			firstErr = err
			return false
		}
		body, err := lowerStmtList(v.Get("body"), p+".body")
		if err != nil {
			firstErr = err
			return false
		}
		out = append(out, astnode.ExceptHandler{Type: typ, Name: v.Get("name").String(), Body: body})
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// lowerAssignTargets accepts the three target shapes named in §4.1: simple
// name, attribute, subscript, plus tuple-of-simple-names for unpack.
func lowerAssignTargets(n gjson.Result, path string) ([]astnode.AssignTarget, error) {
	return lowerExprList(n, path)
}

func lowerAssignTarget(n gjson.Result, path string) (astnode.AssignTarget, error) {
	return lowerExpr(n, path)
}
