package evaluator

import (
	"reflect"

	"github.com/scriptlang/pyast/internal/astnode"
	"github.com/scriptlang/pyast/internal/hostinterop"
	"github.com/scriptlang/pyast/internal/scope"
	"github.com/scriptlang/pyast/internal/scripterr"
	"github.com/scriptlang/pyast/internal/userclass"
	"github.com/scriptlang/pyast/internal/value"
)

func (e *Evaluator) execAssign(ctx *scope.Context, n *astnode.Assign) error {
	v, err := e.evalExpr(ctx, n.Value)
	if err != nil {
		return err
	}
	for _, target := range n.Targets {
		if err := e.assignTo(ctx, target, v, false); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) execAnnAssign(ctx *scope.Context, n *astnode.AnnAssign) error {
	if n.Value == nil {
		return nil
	}
	v, err := e.evalExpr(ctx, n.Value)
	if err != nil {
		return err
	}
	return e.assignTo(ctx, n.Target, v, false)
}

func (e *Evaluator) execAugAssign(ctx *scope.Context, n *astnode.AugAssign) error {
	old, err := e.evalExpr(ctx, n.Target)
	if err != nil {
		return err
	}
	rhs, err := e.evalExpr(ctx, n.Value)
	if err != nil {
		return err
	}

	if l, ok := old.(*value.List); ok && n.Op == astnode.AugAdd {
		items, err := e.Iterate(rhs)
		if err != nil {
			return err
		}
		l.Append(items...)
		return nil
	}

	var binOp astnode.BinOpKind
	switch n.Op {
	case astnode.AugAdd:
		binOp = astnode.OpAdd
	case astnode.AugSub:
		binOp = astnode.OpSub
	case astnode.AugMul:
		binOp = astnode.OpMult
	case astnode.AugDiv:
		binOp = astnode.OpDiv
	default:
		return scripterr.NewTypeError("unsupported augmented assignment operator %q", n.Op)
	}
	result, err := applyBinOp(binOp, old, rhs)
	if err != nil {
		return err
	}
	return e.assignTo(ctx, n.Target, result, false)
}

// assignTo binds val to target. local forces the write into the new
// scope's local map unconditionally (used for loop variables and
// comprehension targets, per scope.Context.Define's
// contract); otherwise the write follows normal global-declaration routing.
func (e *Evaluator) assignTo(ctx *scope.Context, target astnode.Expr, val value.Value, local bool) error {
	switch t := target.(type) {
	case *astnode.Name:
		if local {
			ctx.Define(t.Id, val)
		} else {
			ctx.Set(t.Id, val)
		}
		return nil
	case *astnode.Attribute:
		recv, err := e.evalExpr(ctx, t.Value)
		if err != nil {
			return err
		}
		return e.setAttribute(recv, t.Attr, val)
	case *astnode.Subscript:
		recv, err := e.evalExpr(ctx, t.Value)
		if err != nil {
			return err
		}
		idx, err := e.evalExpr(ctx, t.Index)
		if err != nil {
			return err
		}
		return e.setItem(recv, idx, val)
	case *astnode.TupleLit:
		items, err := e.Iterate(val)
		if err != nil {
			return err
		}
		if len(items) != len(t.Elts) {
			return scripterr.NewValueError("too many values to unpack (expected %d, got %d)", len(t.Elts), len(items))
		}
		for i, el := range t.Elts {
			if err := e.assignTo(ctx, el, items[i], local); err != nil {
				return err
			}
		}
		return nil
	default:
		return scripterr.NewTypeError("invalid assignment target %T", target)
	}
}

func (e *Evaluator) setAttribute(recv value.Value, attr string, val value.Value) error {
	switch r := recv.(type) {
	case *userclass.UserObject:
		if err := r.SetAttr(attr, val); err != nil {
			if err == userclass.ErrFrozenInstance {
				return scripterr.NewFrozenInstanceError(r.Class.Name)
			}
			return scripterr.NewTypeError(err.Error())
		}
		return nil
	case *userclass.UserClass:
		r.ClassAttrs[attr] = val
		return nil
	case *hostinterop.HostObject:
		v := r.Value
		if v.Kind() == reflect.Ptr {
			v = v.Elem()
		}
		f := v.FieldByName(attr)
		if !f.IsValid() || !f.CanSet() {
			return scripterr.NewTypeError("%s has no assignable field %q", r.Class.Name, attr)
		}
		rv, err := hostinterop.ToReflectPublic(val, f.Type(), e.Hosts)
		if err != nil {
			return scripterr.NewTypeError(err.Error())
		}
		f.Set(rv)
		return nil
	default:
		return scripterr.NewTypeError("%s object has no attribute %q", recv.TypeName(), attr)
	}
}
