package evaluator

import (
	"regexp"
	"strings"

	"github.com/scriptlang/pyast/internal/astnode"
	"github.com/scriptlang/pyast/internal/hostinterop"
	"github.com/scriptlang/pyast/internal/scope"
	"github.com/scriptlang/pyast/internal/scripterr"
	"github.com/scriptlang/pyast/internal/userclass"
	"github.com/scriptlang/pyast/internal/value"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

func (e *Evaluator) evalCall(ctx *scope.Context, n *astnode.Call) (value.Value, error) {
	callee, err := e.evalExpr(ctx, n.Func)
	if err != nil {
		return nil, err
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.evalExpr(ctx, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return e.dispatchCall(ctx, callee, args, n.Line())
}

// Invoke calls fn with args, pushing and popping a call-stack frame the
// same way a script-level Call expression would (§4.4, §6's `invoke`).
// line is 0 since the call originates from the host, not a source node.
func (e *Evaluator) Invoke(ctx *scope.Context, fn *value.Function, args []value.Value) (value.Value, error) {
	return e.dispatchCall(ctx, fn, args, 0)
}

// dispatchCall implements §4.3's Call contract: the callee must be a
// Function, HostClass, bound host method, bound user method, or UserClass.
// Every script-function invocation pushes a call-stack frame for
// diagnostics (§4.4).
func (e *Evaluator) dispatchCall(ctx *scope.Context, callee value.Value, args []value.Value, line int) (value.Value, error) {
	switch c := callee.(type) {
	case *value.Function:
		frame := scripterr.Frame{ClassName: c.ClassName, MethodName: c.Name, Filename: ctx.Filename(), Line: line}
		if err := ctx.CallStack().Push(frame); err != nil {
			return nil, err
		}
		defer ctx.CallStack().Pop()
		res, err := c.Call(args)
		if err != nil {
			return nil, scripterr.WithLine(err, line)
		}
		return res, nil
	case *userclass.UserClass:
		return e.instantiateUserClass(c, args)
	case *hostinterop.HostClass:
		res, err := e.Hosts.Construct(c.Name, args)
		if err != nil {
			return nil, wrapHostError(c.Name, err)
		}
		return res, nil
	default:
		return nil, scripterr.NewTypeError("%s object is not callable", callee.TypeName())
	}
}

// wrapHostError converts an error surfaced across the host-interop
// boundary into a scripterr HostException so it can be matched by
// `except HostClass("...")` handlers (§7).
func wrapHostError(hostClassName string, err error) error {
	if se, ok := err.(*scripterr.ScriptError); ok {
		return se
	}
	return scripterr.NewHostException(hostinterop.ClassNameOf(err), err)
}

// evalAttribute resolves `object.attr`. Whether the Attribute sits in
// caller position or not, method access always yields a bound-method
// Function — Python's own attribute protocol does the same, so the
// CallerPosition flag carried from lowering doesn't need to change this
// dispatch (§4.3, §9).
func (e *Evaluator) evalAttribute(ctx *scope.Context, n *astnode.Attribute) (value.Value, error) {
	recv, err := e.evalExpr(ctx, n.Value)
	if err != nil {
		return nil, err
	}
	return e.getAttribute(recv, n.Attr)
}

func (e *Evaluator) getAttribute(recv value.Value, attr string) (value.Value, error) {
	switch r := recv.(type) {
	case *userclass.UserObject:
		if v, ok := r.GetAttr(attr); ok {
			return v, nil
		}
		if m, ok := r.Class.LookupMethod(attr); ok {
			return bindInstanceMethod(r, m), nil
		}
		return nil, scripterr.NewTypeError("%s object has no attribute %q", r.Class.Name, attr)
	case *userclass.UserClass:
		if v, ok := r.ClassAttrs[attr]; ok {
			return v, nil
		}
		if m, ok := r.LookupMethod(attr); ok {
			return bindClassLevelMethod(r, m)
		}
		return nil, scripterr.NewTypeError("%s object has no attribute %q", r.Name, attr)
	case *hostinterop.HostObject:
		if v, ok := e.Hosts.GetField(r, attr); ok {
			return v, nil
		}
		return bindHostMethod(e.Hosts, r, attr), nil
	case *hostinterop.HostClass:
		if v, ok := e.Hosts.GetStaticField(r, attr); ok {
			return v, nil
		}
		return bindHostStatic(e.Hosts, r, attr), nil
	case *value.Dict:
		return e.bindDictMethod(r, attr)
	case *value.List:
		return e.bindListMethod(r, attr)
	case value.Str:
		return e.bindStrMethod(r, attr)
	default:
		return nil, scripterr.NewTypeError("%s object has no attribute %q", recv.TypeName(), attr)
	}
}

func bindHostMethod(hosts *hostinterop.Registry, obj *hostinterop.HostObject, method string) *value.Function {
	return &value.Function{
		Name:      method,
		Arity:     -1,
		IsBound:   true,
		ClassName: obj.Class.Name,
		Call: func(args []value.Value) (value.Value, error) {
			res, err := hosts.CallMethod(obj, method, args)
			if err != nil {
				return nil, wrapHostError(obj.Class.Name, err)
			}
			return res, nil
		},
	}
}

func bindHostStatic(hosts *hostinterop.Registry, hc *hostinterop.HostClass, method string) *value.Function {
	return &value.Function{
		Name:      method,
		Arity:     -1,
		ClassName: hc.Name,
		Call: func(args []value.Value) (value.Value, error) {
			res, err := hosts.CallStatic(hc, method, args)
			if err != nil {
				return nil, wrapHostError(hc.Name, err)
			}
			return res, nil
		},
	}
}

// bindDictMethod supports the small set of Dict instance methods scripts
// rely on (§8 scenario 5's `d.items()`).
func (e *Evaluator) bindDictMethod(d *value.Dict, attr string) (value.Value, error) {
	switch attr {
	case "items":
		return &value.Function{Name: "items", Arity: 0, IsBound: true, Call: func(args []value.Value) (value.Value, error) {
			pairs := d.Items()
			out := make([]value.Value, len(pairs))
			for i, kv := range pairs {
				out[i] = value.NewTuple([]value.Value{kv[0], kv[1]})
			}
			return value.NewList(out), nil
		}}, nil
	case "keys":
		return &value.Function{Name: "keys", Arity: 0, IsBound: true, Call: func(args []value.Value) (value.Value, error) {
			return value.NewList(d.Keys()), nil
		}}, nil
	case "values":
		return &value.Function{Name: "values", Arity: 0, IsBound: true, Call: func(args []value.Value) (value.Value, error) {
			return value.NewList(d.Values()), nil
		}}, nil
	case "get":
		return &value.Function{Name: "get", Arity: -1, IsBound: true, Call: func(args []value.Value) (value.Value, error) {
			if len(args) == 0 {
				return nil, scripterr.NewTypeError("get() takes at least 1 argument")
			}
			v, err := d.GetItem(args[0])
			if err != nil {
				if len(args) > 1 {
					return args[1], nil
				}
				return value.None, nil
			}
			return v, nil
		}}, nil
	}
	return nil, scripterr.NewTypeError("dict object has no attribute %q", attr)
}

func (e *Evaluator) bindListMethod(l *value.List, attr string) (value.Value, error) {
	switch attr {
	case "append":
		return &value.Function{Name: "append", Arity: 1, IsBound: true, Call: func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, scripterr.NewTypeError("append() takes exactly 1 argument, got %d", len(args))
			}
			l.Append(args[0])
			return value.None, nil
		}}, nil
	}
	return nil, scripterr.NewTypeError("list object has no attribute %q", attr)
}

// bindStrMethod implements a handful of string methods (upper, lower,
// strip, startswith, endswith, split, join) under their script names.
// There's no Go string method set to reflect onto, so these are
// implemented directly rather than through hostinterop. split() with no
// argument splits the trimmed string on runs of whitespace.
func (e *Evaluator) bindStrMethod(s value.Str, attr string) (value.Value, error) {
	str := string(s)
	switch attr {
	case "upper":
		return strFn0(func() value.Value { return value.Str(strings.ToUpper(str)) }), nil
	case "lower":
		return strFn0(func() value.Value { return value.Str(strings.ToLower(str)) }), nil
	case "strip":
		return strFn0(func() value.Value { return value.Str(strings.TrimSpace(str)) }), nil
	case "startswith":
		return &value.Function{Name: "startswith", Arity: 1, IsBound: true, Call: func(args []value.Value) (value.Value, error) {
			prefix, err := strArg(args, 0, "startswith")
			if err != nil {
				return nil, err
			}
			return value.Bool(strings.HasPrefix(str, prefix)), nil
		}}, nil
	case "endswith":
		return &value.Function{Name: "endswith", Arity: 1, IsBound: true, Call: func(args []value.Value) (value.Value, error) {
			suffix, err := strArg(args, 0, "endswith")
			if err != nil {
				return nil, err
			}
			return value.Bool(strings.HasSuffix(str, suffix)), nil
		}}, nil
	case "split":
		return &value.Function{Name: "split", Arity: -1, IsBound: true, Call: func(args []value.Value) (value.Value, error) {
			var parts []string
			if len(args) == 0 {
				parts = whitespaceRe.Split(strings.TrimSpace(str), -1)
				if len(parts) == 1 && parts[0] == "" {
					parts = nil
				}
			} else {
				sep, err := strArg(args, 0, "split")
				if err != nil {
					return nil, err
				}
				parts = strings.Split(str, sep)
			}
			out := make([]value.Value, len(parts))
			for i, p := range parts {
				out[i] = value.Str(p)
			}
			return value.NewList(out), nil
		}}, nil
	case "join":
		return &value.Function{Name: "join", Arity: 1, IsBound: true, Call: func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, scripterr.NewTypeError("join() takes exactly 1 argument, got %d", len(args))
			}
			pieces, err := e.Iterate(args[0])
			if err != nil {
				return nil, err
			}
			parts := make([]string, len(pieces))
			for i, p := range pieces {
				ps, ok := p.(value.Str)
				if !ok {
					return nil, scripterr.NewTypeError("join() expects an iterable of str, got %s", p.TypeName())
				}
				parts[i] = string(ps)
			}
			return value.Str(strings.Join(parts, str)), nil
		}}, nil
	}
	return nil, scripterr.NewTypeError("str object has no attribute %q", attr)
}

func strArg(args []value.Value, i int, method string) (string, error) {
	if i >= len(args) {
		return "", scripterr.NewTypeError("%s() missing argument", method)
	}
	s, ok := args[i].(value.Str)
	if !ok {
		return "", scripterr.NewTypeError("%s() expects a str argument, got %s", method, args[i].TypeName())
	}
	return string(s), nil
}

func strFn0(f func() value.Value) *value.Function {
	return &value.Function{Arity: 0, IsBound: true, Call: func(args []value.Value) (value.Value, error) { return f(), nil }}
}
