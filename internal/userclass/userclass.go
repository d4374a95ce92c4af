// Package userclass implements script-defined classes and their instances
// (§4.5): ClassDef builds a UserClass (an assignment such as `Cls.attr = v`
// still writes to its ClassAttrs afterwards); UserObject carries a per-instance attribute map and a back-pointer to its class.
// Method bodies themselves are built by internal/evaluator as value.Function
// closures — this package only holds the registries and dispatch rules
// (instance method before class method, frozen-write rejection, dataclass
// hash/str/equality overrides).
package userclass

import (
	"fmt"
	"strings"

	"github.com/scriptlang/pyast/internal/value"
)

// MethodKind tags how a method receives its first argument (§4.5).
type MethodKind int

const (
	MethodInstance MethodKind = iota
	MethodClassMethod
	MethodStaticMethod
)

// Method is a callable registered on a UserClass.
type Method struct {
	Kind MethodKind
	Fn   *value.Function
}

// UserClass is a script-defined class (§3, §4.5). Its methods are fixed once
// ClassDef finishes executing; ClassAttrs can still be written through an
// attribute assignment on the class.
type UserClass struct {
	Name            string
	Constructor     *value.Function // nil if no __init__ and not a dataclass
	Frozen          bool
	InstanceMethods map[string]*Method
	ClassMethods    map[string]*Method
	ClassAttrs      map[string]value.Value
	IsDataclass     bool
	FieldOrder      []string // dataclass field declaration order, for hash/str/constructor
	Bases           []*UserClass
}

// IsOrInherits reports whether c is other or has other among its declared
// bases (direct or transitive), used to match a raised instance against an
// `except` handler's declared class (§4.3).
func (c *UserClass) IsOrInherits(other *UserClass) bool {
	if c == other {
		return true
	}
	for _, b := range c.Bases {
		if b.IsOrInherits(other) {
			return true
		}
	}
	return false
}

func (*UserClass) TypeName() string { return "type" }

// NewUserClass creates an empty class; the caller (the evaluator, while
// executing a ClassDef) populates it and installs it in scope.
func NewUserClass(name string) *UserClass {
	return &UserClass{
		Name:            name,
		InstanceMethods: map[string]*Method{},
		ClassMethods:    map[string]*Method{},
		ClassAttrs:      map[string]value.Value{},
	}
}

// LookupMethod implements "instance method before class-level method"
// (§4.5's call-dispatch rule).
func (c *UserClass) LookupMethod(name string) (*Method, bool) {
	if m, ok := c.InstanceMethods[name]; ok {
		return m, true
	}
	if m, ok := c.ClassMethods[name]; ok {
		return m, true
	}
	return nil, false
}

// UserObject is an instance of a UserClass (§3, §4.5).
type UserObject struct {
	Class *UserClass
	Attrs map[string]value.Value
}

func NewUserObject(class *UserClass) *UserObject {
	return &UserObject{Class: class, Attrs: map[string]value.Value{}}
}

func (*UserObject) TypeName() string { return "object" }

// ErrFrozenInstance is returned by SetAttr on a frozen dataclass instance;
// the evaluator maps it to scripterr.NewFrozenInstanceError.
var ErrFrozenInstance = fmt.Errorf("frozen instance")

// SetAttr writes an instance field, rejecting the write if the class is
// frozen (§3, §4.5's "frozen instance" error).
func (o *UserObject) SetAttr(name string, v value.Value) error {
	if o.Class.Frozen {
		return ErrFrozenInstance
	}
	o.Attrs[name] = v
	return nil
}

// GetAttr reads an instance field, falling back to the class's own
// attribute map (§4.3 Attribute contract: "user-object __dict__ then class
// __dict__").
func (o *UserObject) GetAttr(name string) (value.Value, bool) {
	if v, ok := o.Attrs[name]; ok {
		return v, true
	}
	if v, ok := o.Class.ClassAttrs[name]; ok {
		return v, true
	}
	return nil, false
}

// EqualValue implements value.Equaler: identity unless both sides are
// frozen instances of the same dataclass, in which case field equality is
// used (§4.2).
func (o *UserObject) EqualValue(other value.Value) bool {
	oo, ok := other.(*UserObject)
	if !ok {
		return false
	}
	if o == oo {
		return true
	}
	if !o.Class.Frozen || !o.Class.IsDataclass || o.Class != oo.Class {
		return false
	}
	for _, field := range o.Class.FieldOrder {
		a, _ := o.Attrs[field]
		b, _ := oo.Attrs[field]
		eq, err := value.Equal(a, b)
		if err != nil || !eq {
			return false
		}
	}
	return true
}

// Hash returns the dataclass tuple-hash string of the class name and all
// fields (§4.5). The interpreter does not call it: Dict key hashing does
// not use it, so a UserObject is not usable as a dict key.
func (o *UserObject) Hash() string {
	var b strings.Builder
	b.WriteString(o.Class.Name)
	for _, field := range o.Class.FieldOrder {
		fmt.Fprintf(&b, "|%s=%v", field, o.Attrs[field])
	}
	return b.String()
}

// Str returns the dataclass-generated `Name(field=repr, ...)` form (§4.5).
func (o *UserObject) Str(repr func(value.Value) string) string {
	var parts []string
	for _, field := range o.Class.FieldOrder {
		parts = append(parts, fmt.Sprintf("%s=%s", field, repr(o.Attrs[field])))
	}
	return fmt.Sprintf("%s(%s)", o.Class.Name, strings.Join(parts, ", "))
}

// Container-protocol dispatch for UserObject (§3, §4.2's capability-trait
// set) is implemented by internal/evaluator, which looks up methods named
// `length`, `get_item`, `set_item`, `contains`, `delete_item` on the
// instance's class and invokes them through the normal call machinery —
// this package only defines the method registries those lookups use.
