package evaluator

import (
	"strings"

	"github.com/scriptlang/pyast/internal/astnode"
	"github.com/scriptlang/pyast/internal/scope"
	"github.com/scriptlang/pyast/internal/scripterr"
	"github.com/scriptlang/pyast/internal/value"
)

// evalExpr implements §4.3's Expressions contract: a recursive tree walk,
// one case per astnode.Expr variant.
func (e *Evaluator) evalExpr(ctx *scope.Context, expr astnode.Expr) (value.Value, error) {
	switch n := expr.(type) {
	case *astnode.Constant:
		return evalConstant(n), nil
	case *astnode.Name:
		return e.evalName(ctx, n)
	case *astnode.BinOp:
		left, err := e.evalExpr(ctx, n.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.evalExpr(ctx, n.Right)
		if err != nil {
			return nil, err
		}
		return applyBinOp(n.Op, left, right)
	case *astnode.UnaryOp:
		v, err := e.evalExpr(ctx, n.Operand)
		if err != nil {
			return nil, err
		}
		return applyUnaryOp(n.Op, v)
	case *astnode.BoolOp:
		return e.evalBoolOp(ctx, n)
	case *astnode.Compare:
		left, err := e.evalExpr(ctx, n.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.evalExpr(ctx, n.Comparator)
		if err != nil {
			return nil, err
		}
		return e.evalCompare(n.Op, left, right)
	case *astnode.Call:
		return e.evalCall(ctx, n)
	case *astnode.Attribute:
		return e.evalAttribute(ctx, n)
	case *astnode.Subscript:
		return e.evalSubscript(ctx, n)
	case *astnode.IfExp:
		test, err := e.evalExpr(ctx, n.Test)
		if err != nil {
			return nil, err
		}
		if value.Truthy(test) {
			return e.evalExpr(ctx, n.Body)
		}
		return e.evalExpr(ctx, n.Orelse)
	case *astnode.ListComp:
		return e.evalListComp(ctx, n)
	case *astnode.TupleLit:
		items, err := e.evalExprList(ctx, n.Elts)
		if err != nil {
			return nil, err
		}
		return value.NewTuple(items), nil
	case *astnode.ListLit:
		items, err := e.evalExprList(ctx, n.Elts)
		if err != nil {
			return nil, err
		}
		return value.NewList(items), nil
	case *astnode.DictLit:
		return e.evalDictLit(ctx, n)
	case *astnode.Lambda:
		body := []astnode.Stmt{astnode.NewReturn(n.Line(), n.Body)}
		return e.buildFunction(ctx, "<lambda>", "", n.Params, n.Defaults, body), nil
	case *astnode.JoinedStr:
		return e.evalJoinedStr(ctx, n)
	case *astnode.FormattedValue:
		v, err := e.evalExpr(ctx, n.Value)
		if err != nil {
			return nil, err
		}
		return value.Str(Stringify(v)), nil
	default:
		return nil, scripterr.NewTypeError("unsupported expression %T", expr)
	}
}

func evalConstant(n *astnode.Constant) value.Value {
	switch n.Kind {
	case astnode.ConstInt:
		return value.NormalizeInt(n.Int)
	case astnode.ConstFloat:
		return value.NormalizeFloat(n.Float)
	case astnode.ConstStr:
		return value.Str(n.Str)
	case astnode.ConstBool:
		return value.Bool(n.Bool)
	default:
		return value.None
	}
}

// evalName implements §4.3's Name lookup: normal scoping rules, with the
// reserved identifier HostClass falling back to the sentinel callable when
// nothing in scope shadows it.
func (e *Evaluator) evalName(ctx *scope.Context, n *astnode.Name) (value.Value, error) {
	if v, ok := ctx.Get(n.Id); ok {
		return v, nil
	}
	if n.Id == "HostClass" {
		return e.hostClassFn, nil
	}
	return nil, scripterr.NewNameError(n.Id)
}

// evalBoolOp implements `and`/`or` short-circuiting, returning the
// last-evaluated operand rather than a normalized Bool (§4.3, §9).
func (e *Evaluator) evalBoolOp(ctx *scope.Context, n *astnode.BoolOp) (value.Value, error) {
	var result value.Value
	for i, sub := range n.Values {
		v, err := e.evalExpr(ctx, sub)
		if err != nil {
			return nil, err
		}
		result = v
		if i == len(n.Values)-1 {
			break
		}
		truthy := value.Truthy(v)
		if n.Op == astnode.OpOr && truthy {
			return v, nil
		}
		if n.Op == astnode.OpAnd && !truthy {
			return v, nil
		}
	}
	return result, nil
}

func (e *Evaluator) evalExprList(ctx *scope.Context, exprs []astnode.Expr) ([]value.Value, error) {
	out := make([]value.Value, len(exprs))
	for i, x := range exprs {
		v, err := e.evalExpr(ctx, x)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *Evaluator) evalDictLit(ctx *scope.Context, n *astnode.DictLit) (value.Value, error) {
	d := value.NewDict()
	for _, entry := range n.Entries {
		k, err := e.evalExpr(ctx, entry.Key)
		if err != nil {
			return nil, err
		}
		v, err := e.evalExpr(ctx, entry.Value)
		if err != nil {
			return nil, err
		}
		if err := d.SetItem(k, v); err != nil {
			return nil, classifyContainerError(err)
		}
	}
	return d, nil
}

// evalSubscript implements `object[index]`, including the Slice form
// (§4.2, §4.3).
func (e *Evaluator) evalSubscript(ctx *scope.Context, n *astnode.Subscript) (value.Value, error) {
	recv, err := e.evalExpr(ctx, n.Value)
	if err != nil {
		return nil, err
	}
	idx, err := e.evalIndexOrSlice(ctx, n.Index)
	if err != nil {
		return nil, err
	}
	return e.getItem(recv, idx)
}

func (e *Evaluator) evalIndexOrSlice(ctx *scope.Context, n astnode.Expr) (value.Value, error) {
	sl, ok := n.(*astnode.Slice)
	if !ok {
		return e.evalExpr(ctx, n)
	}
	out := &value.Slice{}
	if sl.Lower != nil {
		v, err := e.evalExpr(ctx, sl.Lower)
		if err != nil {
			return nil, err
		}
		out.Lower = v
	}
	if sl.Upper != nil {
		v, err := e.evalExpr(ctx, sl.Upper)
		if err != nil {
			return nil, err
		}
		out.Upper = v
	}
	if sl.Step != nil {
		v, err := e.evalExpr(ctx, sl.Step)
		if err != nil {
			return nil, err
		}
		out.Step = v
	}
	return out, nil
}

// evalListComp implements `[elt for tgt in iter if cond...]` in a fresh
// context that shadows, not replaces, the outer one (§4.3).
func (e *Evaluator) evalListComp(ctx *scope.Context, n *astnode.ListComp) (value.Value, error) {
	iterVal, err := e.evalExpr(ctx, n.Iter)
	if err != nil {
		return nil, err
	}
	items, err := e.Iterate(iterVal)
	if err != nil {
		return nil, err
	}
	compCtx := scope.NewEnclosed(ctx)
	var out []value.Value
	for _, item := range items {
		if err := e.assignTo(compCtx, n.Target, item, true); err != nil {
			return nil, err
		}
		keep := true
		for _, cond := range n.Ifs {
			c, err := e.evalExpr(compCtx, cond)
			if err != nil {
				return nil, err
			}
			if !value.Truthy(c) {
				keep = false
				break
			}
		}
		if !keep {
			continue
		}
		elt, err := e.evalExpr(compCtx, n.Elt)
		if err != nil {
			return nil, err
		}
		out = append(out, elt)
	}
	return value.NewList(out), nil
}

// evalJoinedStr implements f-string interpolation: concatenation of literal
// fragments and FormattedValue results (§4.3).
func (e *Evaluator) evalJoinedStr(ctx *scope.Context, n *astnode.JoinedStr) (value.Value, error) {
	var b strings.Builder
	for _, frag := range n.Values {
		v, err := e.evalExpr(ctx, frag)
		if err != nil {
			return nil, err
		}
		if s, ok := v.(value.Str); ok {
			b.WriteString(string(s))
			continue
		}
		b.WriteString(Stringify(v))
	}
	return value.Str(b.String()), nil
}
