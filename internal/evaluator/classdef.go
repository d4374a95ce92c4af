package evaluator

import (
	"github.com/scriptlang/pyast/internal/astnode"
	"github.com/scriptlang/pyast/internal/scope"
	"github.com/scriptlang/pyast/internal/scripterr"
	"github.com/scriptlang/pyast/internal/userclass"
	"github.com/scriptlang/pyast/internal/value"
)

// execClassDef builds a UserClass value from a ClassDef (§4.5). Methods and
// class attributes are evaluated against the enclosing context, and the
// class itself is then bound in ctx like any other value.
func (e *Evaluator) execClassDef(ctx *scope.Context, n *astnode.ClassDef) error {
	uc := userclass.NewUserClass(n.Name)

	for _, b := range n.Bases {
		bv, err := e.evalExpr(ctx, b)
		if err != nil {
			return err
		}
		if base, ok := bv.(*userclass.UserClass); ok {
			uc.Bases = append(uc.Bases, base)
		}
	}

	for _, d := range n.Decorators {
		if d.Name == "dataclass" {
			uc.IsDataclass = true
			if kw, ok := d.Kwargs["frozen"]; ok {
				v, err := e.evalExpr(ctx, kw)
				if err != nil {
					return err
				}
				uc.Frozen = value.Truthy(v)
			}
		}
	}

	var fieldOrder []string
	fieldDefaults := map[string]astnode.Expr{}

	for _, stmt := range n.Body {
		switch s := stmt.(type) {
		case *astnode.FunctionDef:
			kind := userclass.MethodInstance
			for _, d := range s.Decorators {
				switch d.Name {
				case "classmethod":
					kind = userclass.MethodClassMethod
				case "staticmethod":
					kind = userclass.MethodStaticMethod
				}
			}
			fn := e.buildMethod(ctx, uc, s, kind)
			m := &userclass.Method{Kind: kind, Fn: fn}
			if kind == userclass.MethodInstance {
				uc.InstanceMethods[s.Name] = m
				if s.Name == "__init__" {
					uc.Constructor = fn
				}
			} else {
				uc.ClassMethods[s.Name] = m
			}
		case *astnode.Assign:
			for _, t := range s.Targets {
				name, ok := t.(*astnode.Name)
				if !ok {
					continue
				}
				if uc.IsDataclass {
					fieldOrder = append(fieldOrder, name.Id)
					fieldDefaults[name.Id] = s.Value
				} else {
					v, err := e.evalExpr(ctx, s.Value)
					if err != nil {
						return err
					}
					uc.ClassAttrs[name.Id] = v
				}
			}
		case *astnode.AnnAssign:
			name, ok := s.Target.(*astnode.Name)
			if !ok {
				continue
			}
			if uc.IsDataclass {
				fieldOrder = append(fieldOrder, name.Id)
				if s.Value != nil {
					fieldDefaults[name.Id] = s.Value
				}
			} else if s.Value != nil {
				v, err := e.evalExpr(ctx, s.Value)
				if err != nil {
					return err
				}
				uc.ClassAttrs[name.Id] = v
			}
		}
	}

	if uc.IsDataclass {
		uc.FieldOrder = fieldOrder
		ctor, err := e.buildDataclassConstructor(ctx, uc, fieldOrder, fieldDefaults)
		if err != nil {
			return err
		}
		uc.Constructor = ctor
	}

	ctx.Define(n.Name, uc)
	return nil
}

// buildDataclassConstructor pre-evaluates every field default in the
// enclosing context at class-creation time (§4.5), then returns a
// constructor taking one positional argument per un-initialized field, in
// declaration order.
func (e *Evaluator) buildDataclassConstructor(definingCtx *scope.Context, uc *userclass.UserClass, fields []string, defaultExprs map[string]astnode.Expr) (*value.Function, error) {
	defaults := map[string]value.Value{}
	var required []string
	for _, f := range fields {
		if expr, ok := defaultExprs[f]; ok && expr != nil {
			v, err := e.evalExpr(definingCtx, expr)
			if err != nil {
				return nil, err
			}
			defaults[f] = v
		} else {
			required = append(required, f)
		}
	}
	fn := &value.Function{Name: uc.Name, Arity: len(required), ClassName: uc.Name}
	fn.Call = func(args []value.Value) (value.Value, error) {
		if len(args) != len(required) {
			return nil, scripterr.NewTypeError("%s() takes %s but %d given", uc.Name, arityDescription(len(required), len(required)), len(args))
		}
		obj := userclass.NewUserObject(uc)
		for i, f := range required {
			obj.Attrs[f] = args[i]
		}
		for f, v := range defaults {
			obj.Attrs[f] = v
		}
		return obj, nil
	}
	return fn, nil
}

// buildMethod compiles a method body the same way as a free function; the
// receiver (self/cls) is injected as an extra leading argument at bind time
// by bindInstanceMethod/bindClassLevelMethod, never by this function.
func (e *Evaluator) buildMethod(definingCtx *scope.Context, uc *userclass.UserClass, s *astnode.FunctionDef, kind userclass.MethodKind) *value.Function {
	return e.buildFunction(definingCtx, s.Name, uc.Name, s.Params, s.Defaults, s.Body)
}

// bindInstanceMethod produces the bound-method Function seen when a script
// accesses obj.method (§4.5's instance-method dispatch): staticmethod drops
// the receiver, classmethod substitutes the class, everything else
// prepends the instance.
func bindInstanceMethod(obj *userclass.UserObject, m *userclass.Method) *value.Function {
	raw := m.Fn
	switch m.Kind {
	case userclass.MethodStaticMethod:
		return raw
	case userclass.MethodClassMethod:
		return bindReceiver(raw, obj.Class)
	default:
		return bindReceiver(raw, obj)
	}
}

// bindClassLevelMethod produces the bound-method Function for access via
// the class itself rather than an instance (e.g. `MyClass.make()`).
func bindClassLevelMethod(uc *userclass.UserClass, m *userclass.Method) (*value.Function, error) {
	switch m.Kind {
	case userclass.MethodStaticMethod:
		return m.Fn, nil
	case userclass.MethodClassMethod:
		return bindReceiver(m.Fn, uc), nil
	default:
		return nil, scripterr.NewTypeError("%s.%s() missing instance argument", uc.Name, m.Fn.Name)
	}
}

func bindReceiver(raw *value.Function, receiver value.Value) *value.Function {
	bound := &value.Function{Name: raw.Name, Arity: raw.Arity - 1, IsBound: true, ClassName: raw.ClassName}
	bound.Call = func(args []value.Value) (value.Value, error) {
		return raw.Call(append([]value.Value{receiver}, args...))
	}
	return bound
}

// instantiateUserClass implements Call dispatch on a UserClass value
// (§3's "instantiation is a call on that value").
func (e *Evaluator) instantiateUserClass(uc *userclass.UserClass, args []value.Value) (value.Value, error) {
	if uc.IsDataclass {
		return uc.Constructor.Call(args)
	}
	obj := userclass.NewUserObject(uc)
	if uc.Constructor != nil {
		if _, err := uc.Constructor.Call(append([]value.Value{obj}, args...)); err != nil {
			return nil, err
		}
	} else if len(args) != 0 {
		return nil, scripterr.NewTypeError("%s() takes no arguments", uc.Name)
	}
	return obj, nil
}
