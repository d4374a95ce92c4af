// Package hostinterop implements the host-interop boundary described in
// §4.6: HostClass/HostObject value wrappers around Go values reached
// through reflection, an overload-resolution scorer for selecting among
// same-named host callables, and functional-interface proxying so a script
// Function can be passed anywhere a single-method Go interface is expected.
//
// Host method and field names are exposed to scripts under their literal Go
// names (PascalCase), per the Open Question decision recorded in
// SPEC_FULL.md: unlike the distilled spec's Java-flavored examples
// (`startswith`/`endswith`), a Go host has no such convention to rename
// against, so scripts call `obj.StartsWith(...)` rather than
// `obj.startswith(...)`.
package hostinterop

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/scriptlang/pyast/internal/value"
)

// HostClass wraps a registered Go type, reachable from script code via the
// `HostClass("Name")` sentinel call (§4.6).
type HostClass struct {
	Name   string
	GoType reflect.Type
}

func (*HostClass) TypeName() string { return "type" }

// HostObject wraps a live Go value reached through the interop boundary:
// either a registered struct instance or the return value of a host call.
type HostObject struct {
	Class *HostClass
	Value reflect.Value
}

func (h *HostObject) TypeName() string { return h.Class.Name }

// Unwrap returns the underlying Go value.
func (h *HostObject) Unwrap() any { return h.Value.Interface() }

// Registry is a table of host classes and functions reachable from script
// code, plus the memoized overload-resolution cache. The cache belongs to
// the Registry: scripts that share one Registry share its cache, and
// separate Registries do not share resolutions; there is no process-wide
// cache.
type Registry struct {
	mu              sync.RWMutex
	classes         map[string]*HostClass
	functions       map[string][]reflect.Value // overload sets, keyed by script-visible name
	exceptionSupers map[string][]string
	statics         map[string]reflect.Value
	cache           sync.Map // cacheKey -> *resolved
}

func NewRegistry() *Registry {
	return &Registry{
		classes:   map[string]*HostClass{},
		functions: map[string][]reflect.Value{},
	}
}

// RegisterClass makes a Go type reachable as HostClass(name) and enables
// method/field lookup on values of that type.
func (r *Registry) RegisterClass(name string, zero any) *HostClass {
	r.mu.Lock()
	defer r.mu.Unlock()
	hc := &HostClass{Name: name, GoType: reflect.TypeOf(zero)}
	r.classes[name] = hc
	return hc
}

// LookupClass resolves the sentinel call HostClass("name").
func (r *Registry) LookupClass(name string) (*HostClass, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hc, ok := r.classes[name]
	return hc, ok
}

// RegisterFunction adds fn to the named overload set, callable from script
// code as a free function (distinct from a HostClass method set). Each call
// to RegisterFunction with the same name adds another overload candidate.
func (r *Registry) RegisterFunction(name string, fn any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.functions[name] = append(r.functions[name], reflect.ValueOf(fn))
}

// CallFunction resolves the best overload for name against args and invokes
// it (§4.6).
func (r *Registry) CallFunction(name string, args []value.Value) (value.Value, error) {
	r.mu.RLock()
	candidates := r.functions[name]
	r.mu.RUnlock()
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no host function registered as %q", name)
	}
	return r.resolveAndCall(name, candidates, args)
}

// wrap converts a raw Go return value into a script Value, consulting the
// registry so returned struct values of a registered type become
// HostObjects rather than opaque handles.
func (r *Registry) wrap(rv reflect.Value) value.Value {
	return toValue(rv, r)
}

// NewHostObject wraps an already-constructed Go value as a HostObject of
// the named registered class, for embedders that hand their own Go values
// to scripts.
func (r *Registry) NewHostObject(name string, v any) (*HostObject, error) {
	hc, ok := r.LookupClass(name)
	if !ok {
		return nil, fmt.Errorf("no host class registered as %q", name)
	}
	return &HostObject{Class: hc, Value: reflect.ValueOf(v)}, nil
}

// CallMethod resolves and invokes a method on a HostObject by name,
// implementing the `obj.Method(args...)` call path (§4.6). Go method sets
// are uniquely named, so there is only one candidate and the overload
// scorer is not run; the arguments are converted by callReflect, which
// fails if one does not fit its parameter.
func (r *Registry) CallMethod(obj *HostObject, method string, args []value.Value) (value.Value, error) {
	m := obj.Value.MethodByName(method)
	if !m.IsValid() {
		// try pointer receiver if obj.Value is addressable or we hold a
		// value but the method set is defined on *T.
		if obj.Value.CanAddr() {
			m = obj.Value.Addr().MethodByName(method)
		}
	}
	if !m.IsValid() {
		ptr := reflect.New(obj.Value.Type())
		ptr.Elem().Set(obj.Value)
		m = ptr.MethodByName(method)
	}
	if !m.IsValid() {
		return nil, fmt.Errorf("%s has no method %q", obj.Class.Name, method)
	}
	return r.invoke(m, args)
}

// GetField reads a struct field by its literal Go name.
func (r *Registry) GetField(obj *HostObject, field string) (value.Value, bool) {
	v := obj.Value
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}
	f := v.FieldByName(field)
	if !f.IsValid() || !f.CanInterface() {
		return nil, false
	}
	return r.wrap(f), true
}

// GetStaticField reads a package-level value registered under
// "ClassName.Field" (there being no Go notion of a static struct field).
func (r *Registry) GetStaticField(hc *HostClass, field string) (value.Value, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rv, ok := r.statics[hc.Name+"."+field]; ok {
		return r.wrap(rv), true
	}
	return nil, false
}

// RegisterStatic exposes a value as ClassName.field (§4.6's "host-class
// static field").
func (r *Registry) RegisterStatic(className, field string, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.statics == nil {
		r.statics = map[string]reflect.Value{}
	}
	r.statics[className+"."+field] = reflect.ValueOf(v)
}

// CallStatic resolves and invokes a class-level (static) method registered
// for hc under method (§4.6).
func (r *Registry) CallStatic(hc *HostClass, method string, args []value.Value) (value.Value, error) {
	r.mu.RLock()
	candidates := r.functions["static:"+hc.Name+"."+method]
	r.mu.RUnlock()
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%s has no static method %q", hc.Name, method)
	}
	return r.resolveAndCall("static:"+hc.Name+"."+method, candidates, args)
}

// RegisterStaticMethod adds fn to the overload set for hc's static method
// named method.
func (r *Registry) RegisterStaticMethod(className, method string, fn any) {
	r.RegisterFunction("static:"+className+"."+method, fn)
}

func (r *Registry) invoke(fn reflect.Value, args []value.Value) (value.Value, error) {
	res, err := callReflect(fn, args, r)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// resolveAndCall scores every candidate, consulting and populating the
// Registry's memoized cache keyed by (name, argument-type vector) before
// falling back to a full rescan (§4.6, §9 "insert-if-absent").
func (r *Registry) resolveAndCall(name string, candidates []reflect.Value, args []value.Value) (value.Value, error) {
	key := name + "(" + argSignature(args) + ")"
	if cached, ok := r.cache.Load(key); ok {
		idx := cached.(int)
		if idx < 0 || idx >= len(candidates) {
			return nil, fmt.Errorf("no overload of %q accepts %d argument(s)", name, len(args))
		}
		return callReflect(candidates[idx], args, r)
	}
	idx, _, err := pickOverloadIndex(candidates, args)
	if err != nil {
		r.cache.LoadOrStore(key, -1)
		return nil, err
	}
	r.cache.LoadOrStore(key, idx)
	return callReflect(candidates[idx], args, r)
}

func argSignature(args []value.Value) string {
	var b []byte
	for i, a := range args {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, a.TypeName()...)
	}
	return string(b)
}

// pickOverloadIndex scores each candidate function against args and returns
// the index of the highest-scoring one. Ties are broken by declaration
// order (first wins), matching a stable, deterministic resolution.
func pickOverloadIndex(candidates []reflect.Value, args []value.Value) (int, int, error) {
	type scored struct {
		idx   int
		score int
	}
	var ranked []scored
	for i, fn := range candidates {
		s, ok := scoreCall(fn.Type(), args)
		if ok {
			ranked = append(ranked, scored{i, s})
		}
	}
	if len(ranked) == 0 {
		return -1, 0, fmt.Errorf("no overload accepts %d argument(s)", len(args))
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	return ranked[0].idx, ranked[0].score, nil
}

// scoreCall scores how well args matches fnType's parameter list: exact
// type match scores highest, numeric-compatible and interface-assignable
// matches score lower, and an incompatible parameter disqualifies the
// candidate entirely (§4.6's overload-resolution scoring).
func scoreCall(fnType reflect.Type, args []value.Value) (int, bool) {
	variadic := fnType.IsVariadic()
	n := fnType.NumIn()
	if !variadic && len(args) != n {
		return 0, false
	}
	if variadic && len(args) < n-1 {
		return 0, false
	}
	score := 0
	for i, arg := range args {
		var pt reflect.Type
		switch {
		case variadic && i >= n-1:
			pt = fnType.In(n - 1).Elem()
		default:
			pt = fnType.In(i)
		}
		s, ok := scoreParam(arg, pt)
		if !ok {
			return 0, false
		}
		score += s
	}
	return score, true
}

const (
	scoreExact     = 3
	scoreNumeric   = 2
	scoreInterface = 1
)

func scoreParam(arg value.Value, pt reflect.Type) (int, bool) {
	// null argument vs. non-primitive parameter: +2 (array parameters: +1),
	// per §4.6 item 1's scoring table.
	if _, isNone := arg.(value.NoneValue); isNone {
		switch pt.Kind() {
		case reflect.Slice:
			return 1, true
		case reflect.Ptr, reflect.Struct, reflect.Interface:
			return 2, true
		}
		return 0, false
	}

	switch pt.Kind() {
	case reflect.String:
		if _, ok := arg.(value.Str); ok {
			return scoreExact, true
		}
	case reflect.Bool:
		if _, ok := arg.(value.Bool); ok {
			return scoreExact, true
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// Only Int->Int/Long widens here (§4.6 item 2's table); Float->Int
		// narrowing is not in the permitted widening directions and must
		// disqualify the candidate rather than silently truncate.
		if _, ok := value.AsInt64(arg); ok {
			return scoreExact, true
		}
	case reflect.Float32, reflect.Float64:
		if value.IsFloat(arg) {
			return scoreExact, true
		}
		if _, ok := value.AsInt64(arg); ok {
			return scoreNumeric, true
		}
	case reflect.Interface:
		if pt.NumMethod() == 1 {
			if _, ok := arg.(*value.Function); ok {
				return scoreInterface, true
			}
		}
		if pt.NumMethod() == 0 {
			return scoreInterface, true
		}
		// Parameter's class is assignable from the value's class: +1
		// (§4.6 item 2), checked via reflection for a host object whose
		// underlying Go type actually implements pt.
		if ho, ok := arg.(*HostObject); ok {
			t := ho.Value.Type()
			if t.Implements(pt) || reflect.PtrTo(t).Implements(pt) {
				return scoreInterface, true
			}
		}
	case reflect.Slice:
		if _, ok := arg.(*value.List); ok {
			return scoreNumeric, true
		}
	case reflect.Ptr, reflect.Struct:
		if ho, ok := arg.(*HostObject); ok {
			if ho.Value.Type() == pt || (pt.Kind() == reflect.Ptr && ho.Value.Type() == pt.Elem()) {
				return scoreExact, true
			}
		}
	}
	return 0, false
}
