package evaluator

import (
	"github.com/scriptlang/pyast/internal/scripterr"
	"github.com/scriptlang/pyast/internal/userclass"
	"github.com/scriptlang/pyast/internal/value"
)

// Container-protocol dispatch (§3, §4.2): lists, tuples, dicts, and strings
// implement the value.Lengthable/ItemGetter/ItemSetter/ItemContainer/
// ItemDeleter capability interfaces directly. A UserObject instead exposes
// the protocol through named instance methods (length, get_item, set_item,
// contains, delete_item); these helpers try the UserObject method lookup
// first and fall back to the capability-interface assertion for everything
// else.

// LengthOf implements `len(x)` (§4.2, §4.7), including a UserObject's
// `length` instance method.
func (e *Evaluator) LengthOf(v value.Value) (int, error) {
	if obj, ok := v.(*userclass.UserObject); ok {
		res, err := e.callUserObjectMethod(obj, "length", nil)
		if err != nil {
			return 0, err
		}
		n, ok := value.AsInt64(res)
		if !ok {
			return 0, scripterr.NewTypeError("length() must return an int")
		}
		return int(n), nil
	}
	l, ok := v.(value.Lengthable)
	if !ok {
		return 0, scripterr.NewTypeError("object of type %q has no len()", v.TypeName())
	}
	return l.Length(), nil
}

func (e *Evaluator) getItem(recv, key value.Value) (value.Value, error) {
	if obj, ok := recv.(*userclass.UserObject); ok {
		return e.callUserObjectMethod(obj, "get_item", []value.Value{key})
	}
	g, ok := recv.(value.ItemGetter)
	if !ok {
		return nil, scripterr.NewTypeError("%q object is not subscriptable", recv.TypeName())
	}
	v, err := g.GetItem(key)
	if err != nil {
		return nil, classifyContainerError(err)
	}
	return v, nil
}

func (e *Evaluator) setItem(recv, key, val value.Value) error {
	if obj, ok := recv.(*userclass.UserObject); ok {
		_, err := e.callUserObjectMethod(obj, "set_item", []value.Value{key, val})
		return err
	}
	s, ok := recv.(value.ItemSetter)
	if !ok {
		return scripterr.NewTypeError("%q object does not support item assignment", recv.TypeName())
	}
	if err := s.SetItem(key, val); err != nil {
		return classifyContainerError(err)
	}
	return nil
}

func (e *Evaluator) deleteItemFrom(recv, key value.Value) error {
	if obj, ok := recv.(*userclass.UserObject); ok {
		_, err := e.callUserObjectMethod(obj, "delete_item", []value.Value{key})
		return err
	}
	d, ok := recv.(value.ItemDeleter)
	if !ok {
		return scripterr.NewTypeError("%q object does not support item deletion", recv.TypeName())
	}
	if err := d.DeleteItem(key); err != nil {
		return classifyContainerError(err)
	}
	return nil
}

func (e *Evaluator) containsItem(container, v value.Value) (bool, error) {
	if obj, ok := container.(*userclass.UserObject); ok {
		res, err := e.callUserObjectMethod(obj, "contains", []value.Value{v})
		if err != nil {
			return false, err
		}
		return value.Truthy(res), nil
	}
	c, ok := container.(value.ItemContainer)
	if !ok {
		return false, scripterr.NewTypeError("argument of type %q is not iterable", container.TypeName())
	}
	found, err := c.Contains(v)
	if err != nil {
		return false, classifyContainerError(err)
	}
	return found, nil
}

func (e *Evaluator) callUserObjectMethod(obj *userclass.UserObject, name string, args []value.Value) (value.Value, error) {
	m, ok := obj.Class.LookupMethod(name)
	if !ok {
		return nil, scripterr.NewTypeError("%s object does not support %s", obj.Class.Name, name)
	}
	fn := bindInstanceMethod(obj, m)
	return fn.Call(args)
}
