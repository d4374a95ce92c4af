package hostinterop

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/scriptlang/pyast/internal/value"
)

// HostError is a host-side exception carrying the script-visible class name
// it should be matched against in an `except` handler (§4.3, §4.6). Host
// functions/methods registered for interop return this (or any error;
// unlabeled errors are reported under the class name "Exception", see
// ClassNameOf) to signal a catchable host exception rather than a genuine
// Go-level failure.
type HostError struct {
	ClassName string
	Message   string
}

func (e *HostError) Error() string { return e.Message }

// TypeName lets a HostError stand in directly as a script Value (§4.3's
// Raise contract: a raised host exception is itself a host-observable
// value an `except ... as e` clause can bind and stringify).
func (e *HostError) TypeName() string { return e.ClassName }

// NewHostError constructs a HostError for the named host exception class.
func NewHostError(className, format string, args ...any) *HostError {
	return &HostError{ClassName: className, Message: fmt.Sprintf(format, args...)}
}

// RegisterExceptionHierarchy records that className extends each of supers
// (its declared superclasses, closest first), so that `except HostClass(sup)`
// matches an exception actually raised as className (§4.3's "HostClass
// assignable from the thrown host class").
func (r *Registry) RegisterExceptionHierarchy(className string, supers ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.exceptionSupers == nil {
		r.exceptionSupers = map[string][]string{}
	}
	r.exceptionSupers[className] = supers
}

// IsAssignable reports whether a host exception actually raised as
// raisedClass may be caught by a handler declared against targetClass:
// identity, or targetClass appears anywhere in raisedClass's recorded
// superclass chain.
func (r *Registry) IsAssignable(raisedClass, targetClass string) bool {
	if raisedClass == targetClass {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]bool{}
	var walk func(string) bool
	walk = func(name string) bool {
		if seen[name] {
			return false
		}
		seen[name] = true
		for _, sup := range r.exceptionSupers[name] {
			if sup == targetClass {
				return true
			}
			if walk(sup) {
				return true
			}
		}
		return false
	}
	return walk(raisedClass)
}

// ClassNameOf extracts the host exception class name from err, defaulting
// to "Exception" for an error that didn't originate as a *HostError (e.g. a
// plain error bubbling out of a registered Go function).
func ClassNameOf(err error) string {
	var he *HostError
	if errors.As(err, &he) {
		return he.ClassName
	}
	return "Exception"
}

// RegisterConstructor adds fn to name's constructor overload set, callable
// via the HostClass(name)(args...) call path (§4.6).
func (r *Registry) RegisterConstructor(name string, fn any) {
	r.RegisterFunction("new:"+name, fn)
}

// Construct resolves the best constructor overload for name against args
// and invokes it (§4.6). If no constructor was registered and the class
// takes no arguments, a zero value is returned.
func (r *Registry) Construct(name string, args []value.Value) (value.Value, error) {
	r.mu.RLock()
	candidates := r.functions["new:"+name]
	r.mu.RUnlock()
	if len(candidates) == 0 {
		hc, ok := r.LookupClass(name)
		if !ok {
			return nil, fmt.Errorf("no host class registered as %q", name)
		}
		if len(args) != 0 {
			return nil, fmt.Errorf("%s has no registered constructor accepting arguments", name)
		}
		zero := reflect.New(hc.GoType).Elem()
		return &HostObject{Class: hc, Value: zero}, nil
	}
	return r.resolveAndCall("new:"+name, candidates, args)
}
