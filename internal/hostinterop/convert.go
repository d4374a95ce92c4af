package hostinterop

import (
	"fmt"
	"reflect"

	"github.com/scriptlang/pyast/internal/value"
)

// ToReflectPublic exposes toReflect for the evaluator's host-field-assignment
// path, where an attribute write needs the same Value→Go conversion that
// argument passing uses.
func ToReflectPublic(arg value.Value, pt reflect.Type, r *Registry) (reflect.Value, error) {
	return toReflect(arg, pt, r)
}

// toReflect converts a script Value into a reflect.Value assignable to pt,
// wrapping a script Function in a functional-interface proxy when pt is a
// single-method interface (§4.6).
func toReflect(arg value.Value, pt reflect.Type, r *Registry) (reflect.Value, error) {
	if _, isNone := arg.(value.NoneValue); isNone {
		switch pt.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Struct:
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot convert None to %s", pt)
	}
	switch pt.Kind() {
	case reflect.String:
		s, ok := arg.(value.Str)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected str, got %s", arg.TypeName())
		}
		return reflect.ValueOf(string(s)).Convert(pt), nil
	case reflect.Bool:
		b, ok := arg.(value.Bool)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected bool, got %s", arg.TypeName())
		}
		return reflect.ValueOf(bool(b)).Convert(pt), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// Float->Int narrowing is not in §4.6 item 2's permitted widening
		// directions; only an actual int argument converts.
		if i, ok := value.AsInt64(arg); ok {
			return reflect.ValueOf(i).Convert(pt), nil
		}
		return reflect.Value{}, fmt.Errorf("expected int, got %s", arg.TypeName())
	case reflect.Float32, reflect.Float64:
		if f, ok := value.AsFloat64(arg); ok {
			return reflect.ValueOf(f).Convert(pt), nil
		}
		if i, ok := value.AsInt64(arg); ok {
			return reflect.ValueOf(float64(i)).Convert(pt), nil
		}
		return reflect.Value{}, fmt.Errorf("expected float, got %s", arg.TypeName())
	case reflect.Interface:
		if pt.NumMethod() == 1 {
			if fn, ok := arg.(*value.Function); ok {
				return proxyFunctionalInterface(fn, pt, r), nil
			}
		}
		if ho, ok := arg.(*HostObject); ok {
			v := ho.Value
			if v.Type().Implements(pt) {
				return v, nil
			}
			if v.CanAddr() && v.Addr().Type().Implements(pt) {
				return v.Addr(), nil
			}
			if reflect.PtrTo(v.Type()).Implements(pt) {
				ptr := reflect.New(v.Type())
				ptr.Elem().Set(v)
				return ptr, nil
			}
		}
		return reflect.ValueOf(arg), nil
	case reflect.Slice:
		l, ok := arg.(*value.List)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected list, got %s", arg.TypeName())
		}
		out := reflect.MakeSlice(pt, len(l.Items), len(l.Items))
		for i, it := range l.Items {
			ev, err := toReflect(it, pt.Elem(), r)
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(ev)
		}
		return out, nil
	case reflect.Ptr, reflect.Struct:
		if ho, ok := arg.(*HostObject); ok {
			v := ho.Value
			if pt.Kind() == reflect.Ptr && v.Kind() != reflect.Ptr {
				ptr := reflect.New(v.Type())
				ptr.Elem().Set(v)
				return ptr, nil
			}
			if pt.Kind() == reflect.Struct && v.Kind() == reflect.Ptr {
				return v.Elem(), nil
			}
			return v, nil
		}
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", arg.TypeName(), pt)
}

// proxyFunctionalInterface wraps a script Function so it can stand in for a
// single-abstract-method Go interface parameter (§4.6): the returned
// reflect.Value implements pt by calling back into the script function and
// converting results in the opposite direction.
func proxyFunctionalInterface(fn *value.Function, pt reflect.Type, r *Registry) reflect.Value {
	method := pt.Method(0)
	sig := method.Type
	impl := reflect.MakeFunc(sig, func(in []reflect.Value) []reflect.Value {
		args := make([]value.Value, len(in))
		for i, rv := range in {
			args[i] = toValue(rv, r)
		}
		result, err := fn.Call(args)
		out := make([]reflect.Value, sig.NumOut())
		if sig.NumOut() == 0 {
			return out
		}
		if err != nil {
			out[0] = reflect.Zero(sig.Out(0))
			return out
		}
		rv, cerr := toReflect(result, sig.Out(0), r)
		if cerr != nil {
			out[0] = reflect.Zero(sig.Out(0))
			return out
		}
		out[0] = rv
		return out
	})
	return impl
}

// toValue converts a Go reflect.Value returned from a host call into a
// script Value (§4.6).
func toValue(rv reflect.Value, r *Registry) value.Value {
	if !rv.IsValid() {
		return value.None
	}
	// A host function that already returns a script Value directly (e.g. a
	// registered exception constructor returning *HostError) skips
	// reflection-based wrapping entirely.
	if rv.CanInterface() {
		if v, ok := rv.Interface().(value.Value); ok {
			return v
		}
	}
	switch rv.Kind() {
	case reflect.String:
		return value.Str(rv.String())
	case reflect.Bool:
		return value.Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.NormalizeInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value.NormalizeInt(int64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return value.NormalizeFloat(rv.Float())
	case reflect.Slice, reflect.Array:
		items := make([]value.Value, rv.Len())
		for i := range items {
			items[i] = toValue(rv.Index(i), r)
		}
		return value.NewList(items)
	case reflect.Ptr:
		if rv.IsNil() {
			return value.None
		}
		return wrapStruct(rv, r)
	case reflect.Struct:
		return wrapStruct(rv, r)
	case reflect.Interface:
		return toValue(rv.Elem(), r)
	default:
		if r != nil {
			return wrapStruct(rv, r)
		}
		return value.None
	}
}

func wrapStruct(rv reflect.Value, r *Registry) value.Value {
	if r == nil {
		return value.None
	}
	t := rv.Type()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	r.mu.RLock()
	var found *HostClass
	for _, hc := range r.classes {
		ht := hc.GoType
		if ht.Kind() == reflect.Ptr {
			ht = ht.Elem()
		}
		if ht == t {
			found = hc
			break
		}
	}
	r.mu.RUnlock()
	if found == nil {
		found = &HostClass{Name: t.Name(), GoType: t}
	}
	return &HostObject{Class: found, Value: rv}
}

// callReflect converts args, invokes fn, splits the (result, error)
// convention Go host functions commonly use, and converts the result back.
func callReflect(fn reflect.Value, args []value.Value, r *Registry) (value.Value, error) {
	ft := fn.Type()
	in := make([]reflect.Value, len(args))
	variadic := ft.IsVariadic()
	n := ft.NumIn()
	for i, arg := range args {
		var pt reflect.Type
		if variadic && i >= n-1 {
			pt = ft.In(n - 1).Elem()
		} else {
			pt = ft.In(i)
		}
		rv, err := toReflect(arg, pt, r)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		in[i] = rv
	}
	out := fn.Call(in)
	if len(out) == 0 {
		return value.None, nil
	}
	last := out[len(out)-1]
	if last.Type().Implements(errorType) {
		if !last.IsNil() {
			return nil, last.Interface().(error)
		}
		if len(out) == 1 {
			return value.None, nil
		}
		return toValue(out[0], r), nil
	}
	if len(out) == 1 {
		return toValue(out[0], r), nil
	}
	items := make([]value.Value, len(out))
	for i, o := range out {
		items[i] = toValue(o, r)
	}
	return value.NewTuple(items), nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()
