package evaluator

import (
	"strconv"

	"github.com/scriptlang/pyast/internal/astnode"
	"github.com/scriptlang/pyast/internal/scope"
	"github.com/scriptlang/pyast/internal/scripterr"
	"github.com/scriptlang/pyast/internal/value"
)

func (e *Evaluator) execFunctionDef(ctx *scope.Context, n *astnode.FunctionDef) error {
	fn := e.buildFunction(ctx, n.Name, "", n.Params, n.Defaults, n.Body)
	ctx.Define(n.Name, fn)
	return nil
}

// buildFunction closes over definingCtx by reference, so a nested function
// or lambda observes enclosing locals as they exist at call time, not
// definition time (§8's closure invariant).
func (e *Evaluator) buildFunction(definingCtx *scope.Context, name, className string, params []string, defaults []astnode.Expr, body []astnode.Stmt) *value.Function {
	minArity := len(params) - len(defaults)
	fn := &value.Function{Name: name, Arity: len(params), ClassName: className}
	fn.Call = func(args []value.Value) (value.Value, error) {
		callCtx := scope.NewEnclosed(definingCtx)
		if err := e.bindParams(callCtx, definingCtx, params, defaults, minArity, args); err != nil {
			return nil, err
		}
		if err := e.Exec(callCtx, body); err != nil {
			return nil, err
		}
		if callCtx.Signal() == scope.SignalReturn {
			return callCtx.ReturnValue(), nil
		}
		return value.None, nil
	}
	return fn
}

func (e *Evaluator) bindParams(callCtx, definingCtx *scope.Context, params []string, defaults []astnode.Expr, minArity int, args []value.Value) error {
	if len(args) < minArity || len(args) > len(params) {
		return scripterr.NewTypeError("expected %s, got %d", arityDescription(minArity, len(params)), len(args))
	}
	for i, p := range params {
		if i < len(args) {
			callCtx.Define(p, args[i])
			continue
		}
		v, err := e.evalExpr(definingCtx, defaults[i-minArity])
		if err != nil {
			return err
		}
		callCtx.Define(p, v)
	}
	return nil
}

func arityDescription(min, max int) string {
	if min == max {
		if min == 1 {
			return "1 argument"
		}
		return strconv.Itoa(min) + " arguments"
	}
	return strconv.Itoa(min) + " to " + strconv.Itoa(max) + " arguments"
}
