// Package evaluator implements the recursive expression/statement
// interpreter (§4.3): a tree walk over astnode values against a scope.Context,
// threading errors as the out-of-band "raise channel" the design notes call
// for rather than a separate result type, since Go's native multi-value
// returns already give every evaluation method a propagation path for free.
package evaluator

import (
	"strings"

	"github.com/scriptlang/pyast/internal/astnode"
	"github.com/scriptlang/pyast/internal/hostinterop"
	"github.com/scriptlang/pyast/internal/scope"
	"github.com/scriptlang/pyast/internal/scripterr"
	"github.com/scriptlang/pyast/internal/value"
)

// Evaluator ties the value model, scope chain, and host-interop registry
// together. It carries no per-script state of its own; everything mutable
// lives in the scope.Context passed to every method.
type Evaluator struct {
	Hosts       *hostinterop.Registry
	hostClassFn *value.Function
}

// New creates an Evaluator bound to the given host-interop registry. Pass
// an empty hostinterop.NewRegistry() when a script makes no use of host
// classes.
func New(hosts *hostinterop.Registry) *Evaluator {
	e := &Evaluator{Hosts: hosts}
	e.hostClassFn = &value.Function{
		Name:  "HostClass",
		Arity: 1,
		Call: func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, scripterr.NewTypeError("HostClass() takes exactly 1 argument, got %d", len(args))
			}
			name, ok := args[0].(value.Str)
			if !ok {
				return nil, scripterr.NewTypeError("HostClass() expects a string name, got %s", args[0].TypeName())
			}
			hc, ok := hosts.LookupClass(string(name))
			if !ok {
				return nil, scripterr.NewValueError("no host class registered as %q", string(name))
			}
			return hc, nil
		},
	}
	return e
}

// ExecModule runs a module's top-level statements against ctx, registering
// every FunctionDef/ClassDef it encounters as a normal side effect of
// statement execution (§2's data-flow note: "function/class definitions
// execute immediately when exec() is invoked, registering callable values
// in globals").
func (e *Evaluator) ExecModule(ctx *scope.Context, stmts []astnode.Stmt) error {
	return e.Exec(ctx, stmts)
}

// Exec runs a statement list in order, stopping as soon as ctx raises a
// control-flow signal (§4.3: "if the context's skip flag... is set, the
// statement is a no-op").
func (e *Evaluator) Exec(ctx *scope.Context, stmts []astnode.Stmt) error {
	for _, s := range stmts {
		if ctx.IsSkipping() {
			return nil
		}
		if err := e.execStmt(ctx, s); err != nil {
			return scripterr.WithLine(err, s.Line())
		}
	}
	return nil
}

func (e *Evaluator) execStmt(ctx *scope.Context, s astnode.Stmt) error {
	switch n := s.(type) {
	case *astnode.FunctionDef:
		return e.execFunctionDef(ctx, n)
	case *astnode.ClassDef:
		return e.execClassDef(ctx, n)
	case *astnode.Return:
		return e.execReturn(ctx, n)
	case *astnode.Assign:
		return e.execAssign(ctx, n)
	case *astnode.AnnAssign:
		return e.execAnnAssign(ctx, n)
	case *astnode.AugAssign:
		return e.execAugAssign(ctx, n)
	case *astnode.Delete:
		return e.execDelete(ctx, n)
	case *astnode.Global:
		for _, name := range n.Names {
			ctx.DeclareGlobal(name)
		}
		return nil
	case *astnode.ExprStmt:
		_, err := e.evalExpr(ctx, n.Value)
		return err
	case *astnode.If:
		return e.execIf(ctx, n)
	case *astnode.For:
		return e.execFor(ctx, n)
	case *astnode.While:
		return e.execWhile(ctx, n)
	case *astnode.Break:
		ctx.SetBreak()
		return nil
	case *astnode.Try:
		return e.execTry(ctx, n)
	case *astnode.Raise:
		return e.execRaise(ctx, n)
	default:
		return scripterr.NewTypeError("unsupported statement %T", s)
	}
}

func (e *Evaluator) execReturn(ctx *scope.Context, n *astnode.Return) error {
	if n.Value == nil {
		ctx.SetReturn(value.None)
		return nil
	}
	v, err := e.evalExpr(ctx, n.Value)
	if err != nil {
		return err
	}
	ctx.SetReturn(v)
	return nil
}

func (e *Evaluator) execIf(ctx *scope.Context, n *astnode.If) error {
	test, err := e.evalExpr(ctx, n.Test)
	if err != nil {
		return err
	}
	if value.Truthy(test) {
		return e.Exec(ctx, n.Body)
	}
	return e.Exec(ctx, n.Orelse)
}

func (e *Evaluator) execWhile(ctx *scope.Context, n *astnode.While) error {
	for {
		test, err := e.evalExpr(ctx, n.Test)
		if err != nil {
			return err
		}
		if !value.Truthy(test) {
			return e.Exec(ctx, n.Orelse)
		}
		if err := e.Exec(ctx, n.Body); err != nil {
			return err
		}
		if ctx.Signal() == scope.SignalBreak {
			ctx.ClearBreak()
			return nil
		}
		if ctx.IsSkipping() {
			return nil
		}
	}
}

func (e *Evaluator) execFor(ctx *scope.Context, n *astnode.For) error {
	iterVal, err := e.evalExpr(ctx, n.Iter)
	if err != nil {
		return err
	}
	items, err := e.Iterate(iterVal)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := e.assignTo(ctx, n.Target, item, true); err != nil {
			return err
		}
		if err := e.Exec(ctx, n.Body); err != nil {
			return err
		}
		if ctx.Signal() == scope.SignalBreak {
			ctx.ClearBreak()
			return nil
		}
		if ctx.IsSkipping() {
			return nil
		}
	}
	return e.Exec(ctx, n.Orelse)
}

func (e *Evaluator) execDelete(ctx *scope.Context, n *astnode.Delete) error {
	for _, target := range n.Targets {
		switch t := target.(type) {
		case *astnode.Name:
			if !ctx.Delete(t.Id) {
				return scripterr.NewNameError(t.Id)
			}
		case *astnode.Subscript:
			recv, err := e.evalExpr(ctx, t.Value)
			if err != nil {
				return err
			}
			idx, err := e.evalExpr(ctx, t.Index)
			if err != nil {
				return err
			}
			if err := e.deleteItemFrom(recv, idx); err != nil {
				return err
			}
		default:
			return scripterr.NewTypeError("invalid delete target %T", target)
		}
	}
	return nil
}

// classifyContainerError maps the plain errors returned by internal/value's
// container methods onto the taxonomy in §7.
func classifyContainerError(err error) error {
	if err == value.ErrSliceStep {
		return scripterr.NewValueError(err.Error())
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "index out of range"):
		return scripterr.NewIndexError(msg)
	case strings.Contains(msg, "key not found"):
		return scripterr.NewKeyError(msg)
	case strings.Contains(msg, "unhashable"):
		return scripterr.NewTypeError(msg)
	default:
		return scripterr.NewTypeError(msg)
	}
}

// Iterate produces the element sequence of an iterable value, used by
// for loops, comprehensions, and the collection builtins (enumerate/
// tuple/list, §4.3, §4.7). Dicts iterate their keys, matching common
// scripting-language convention.
func (e *Evaluator) Iterate(v value.Value) ([]value.Value, error) {
	switch it := v.(type) {
	case *value.List:
		return append([]value.Value(nil), it.Items...), nil
	case *value.Tuple:
		return append([]value.Value(nil), it.Items...), nil
	case value.Str:
		runes := []rune(string(it))
		out := make([]value.Value, len(runes))
		for i, r := range runes {
			out[i] = value.Str(string(r))
		}
		return out, nil
	case *value.Dict:
		return it.Keys(), nil
	default:
		return nil, scripterr.NewTypeError("%s object is not iterable", v.TypeName())
	}
}
