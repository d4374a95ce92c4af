package evaluator

import (
	"github.com/scriptlang/pyast/internal/astnode"
	"github.com/scriptlang/pyast/internal/hostinterop"
	"github.com/scriptlang/pyast/internal/scope"
	"github.com/scriptlang/pyast/internal/scripterr"
	"github.com/scriptlang/pyast/internal/userclass"
	"github.com/scriptlang/pyast/internal/value"
)

// execTry implements §4.3's Try contract: run the body; on a ScriptError,
// try each handler in order; run Orelse only when the body raised nothing;
// Finalbody always runs, even across a pending return/break or an error from
// the body/handlers, and a finally-raised error takes precedence.
func (e *Evaluator) execTry(ctx *scope.Context, n *astnode.Try) error {
	bodyErr := e.Exec(ctx, n.Body)
	if bodyErr == nil {
		if !ctx.IsSkipping() {
			bodyErr = e.Exec(ctx, n.Orelse)
		}
	} else if se, ok := bodyErr.(*scripterr.ScriptError); ok {
		handled, herr := e.runHandlers(ctx, n.Handlers, se)
		if handled {
			bodyErr = herr
		}
	}

	if len(n.Finalbody) == 0 {
		return bodyErr
	}
	sig, ret := ctx.ClearSignal()
	finalErr := e.Exec(ctx, n.Finalbody)
	if finalErr != nil {
		return finalErr
	}
	ctx.RestoreSignal(sig, ret)
	return bodyErr
}

// runHandlers walks the except clauses in order looking for one whose Type
// matches se, binding and running its body when found. Reports handled=false
// when no clause matched, so the original error keeps propagating.
func (e *Evaluator) runHandlers(ctx *scope.Context, handlers []astnode.ExceptHandler, se *scripterr.ScriptError) (handled bool, err error) {
	for _, h := range handlers {
		matched, err := e.matchHandler(ctx, h, se)
		if err != nil {
			return true, err
		}
		if !matched {
			continue
		}
		if h.Name != "" {
			ctx.Define(h.Name, boundExceptionValue(se))
		}
		ctx.PushException(se)
		runErr := e.Exec(ctx, h.Body)
		ctx.PopException()
		return true, runErr
	}
	return false, nil
}

// matchHandler evaluates h.Type (nil matches any exception) and checks
// whether se's actual raised class is the named type or a descendant of it
// (§4.3, §4.6).
func (e *Evaluator) matchHandler(ctx *scope.Context, h astnode.ExceptHandler, se *scripterr.ScriptError) (bool, error) {
	if h.Type == nil {
		return true, nil
	}
	target, err := e.evalExpr(ctx, h.Type)
	if err != nil {
		return false, err
	}
	switch t := target.(type) {
	case *userclass.UserClass:
		if se.Kind != scripterr.KindScriptRaised {
			return false, nil
		}
		obj, ok := se.Raised.(*userclass.UserObject)
		if !ok {
			return false, nil
		}
		return obj.Class.IsOrInherits(t), nil
	case *hostinterop.HostClass:
		if se.Kind != scripterr.KindHostException {
			return false, nil
		}
		raisedClass := hostinterop.ClassNameOf(se.Cause)
		return e.Hosts.IsAssignable(raisedClass, t.Name), nil
	default:
		return false, scripterr.NewTypeError("except clause expects a class, got %s", target.TypeName())
	}
}

// boundExceptionValue produces the value bound to `except ... as e` (§4.3).
func boundExceptionValue(se *scripterr.ScriptError) value.Value {
	switch se.Kind {
	case scripterr.KindScriptRaised:
		if v, ok := se.Raised.(value.Value); ok {
			return v
		}
	case scripterr.KindHostException:
		if he, ok := se.Cause.(*hostinterop.HostError); ok {
			return he
		}
	}
	return value.Str(se.Message)
}

// execRaise implements `raise expr` and bare `raise` re-raise (§4.3). A
// raised *hostinterop.HostError is reported as a HostException so it keeps
// matching `except HostClass(...)` the way it did when it first crossed the
// interop boundary; any other raised value is a script-level exception.
func (e *Evaluator) execRaise(ctx *scope.Context, n *astnode.Raise) error {
	if n.Exc == nil {
		if cur, ok := ctx.CurrentException(); ok {
			return cur
		}
		return scripterr.NewValueError("no active exception to re-raise")
	}
	v, err := e.evalExpr(ctx, n.Exc)
	if err != nil {
		return err
	}
	if he, ok := v.(*hostinterop.HostError); ok {
		return scripterr.NewHostException(he.ClassName, he)
	}
	return scripterr.NewScriptRaised(v, Stringify(v))
}
