// Package scope implements the lexically nested Context/Environment model
// of §3 ("Scope/context") and §4.4: a chain of local variable maps rooted
// at a globals context, global-name declarations, and return/break control
// flow flags, plus the globals context's statement queue and script call
// stack.
//
// The control-flow signal type below is adapted from the teacher's
// ControlFlow abstraction (a single explicit state instead of scattered
// booleans), generalized from DWScript's break/continue/exit/return set to
// the spec's break/return pair (the Language has no `continue` or bare
// `exit` in its AST vocabulary).
package scope

import (
	"io"

	"github.com/scriptlang/pyast/internal/scripterr"
	"github.com/scriptlang/pyast/internal/value"
)

// SignalKind tags an active control-flow signal.
type SignalKind int

const (
	SignalNone SignalKind = iota
	SignalReturn
	SignalBreak
)

// Context is a single lexical scope: a local variable map, the set of names
// declared `global` within it, a pointer to the enclosing context, and a
// pointer to the globals context (itself, if this Context IS globals).
type Context struct {
	locals      map[string]value.Value
	globalNames map[string]bool
	enclosing   *Context
	globals     *Context

	signal      SignalKind
	returnValue value.Value

	// Only populated on the globals context.
	filename  string
	pending   []Pending
	callStack *scripterr.CallStack
	stdout    io.Writer
	excStack  []error
}

// Pending is a queued, not-yet-executed module-level statement. Kept as an
// opaque `any` here so this package doesn't depend on internal/astnode;
// pkg/pyast queues lowered astnode.Stmt values in Parse and drains them in
// Exec.
type Pending = any

// NewGlobals creates a fresh globals context: its own enclosing pointer is
// nil and its globals pointer points to itself.
func NewGlobals(filename string, stdout io.Writer) *Context {
	ctx := &Context{
		locals:      map[string]value.Value{},
		globalNames: map[string]bool{},
		filename:    filename,
		callStack:   scripterr.NewCallStack(0),
		stdout:      stdout,
	}
	ctx.globals = ctx
	return ctx
}

// NewEnclosed creates a local context nested within enclosing, for a
// function invocation, comprehension, or lambda call (§4.4).
func NewEnclosed(enclosing *Context) *Context {
	return &Context{
		locals:      map[string]value.Value{},
		globalNames: map[string]bool{},
		enclosing:   enclosing,
		globals:     enclosing.globals,
	}
}

// Globals returns the root globals context.
func (c *Context) Globals() *Context { return c.globals }

// IsGlobals reports whether c is the root globals context.
func (c *Context) IsGlobals() bool { return c == c.globals }

// Filename returns the globals context's script filename, for stack traces.
func (c *Context) Filename() string { return c.globals.filename }

// SetFilename replaces the globals context's recorded filename, for when it
// becomes known only once a script is parsed (§6's `parse(json_ast,
// filename?)`).
func (c *Context) SetFilename(name string) { c.globals.filename = name }

// SetMaxCallDepth replaces the globals context's call stack with a fresh
// one enforcing the given maximum depth. Meant to be called right after
// NewGlobals, before any script code runs.
func (c *Context) SetMaxCallDepth(maxDepth int) {
	c.globals.callStack = scripterr.NewCallStack(maxDepth)
}

// CallStack returns the globals context's script call stack (§4.4).
func (c *Context) CallStack() *scripterr.CallStack { return c.globals.callStack }

// Stdout returns the current print sink (the globals variable __stdout__).
func (c *Context) Stdout() io.Writer { return c.globals.stdout }

// SetStdout replaces the print sink, implementing redirect_stdout (§6).
func (c *Context) SetStdout(w io.Writer) { c.globals.stdout = w }

// DeclareGlobal marks name as `global` within this context for the
// remainder of its lifetime (§4.3 Global statement).
func (c *Context) DeclareGlobal(name string) {
	c.globalNames[name] = true
}

// isGlobalHere reports whether name was declared `global` in this exact
// context (not walking the enclosing chain — a `global` declaration is
// local to the function that wrote it, §4.4).
func (c *Context) isGlobalHere(name string) bool {
	return c.globalNames[name]
}

// Get resolves a name per the read order in §3's invariants: global-
// declared names hit the globals map; otherwise local, then the enclosing
// chain, then finally globals.
func (c *Context) Get(name string) (value.Value, bool) {
	if c.isGlobalHere(name) {
		v, ok := c.globals.locals[name]
		return v, ok
	}
	if v, ok := c.locals[name]; ok {
		return v, true
	}
	if c.enclosing != nil {
		if v, ok := c.enclosing.Get(name); ok {
			return v, true
		}
	}
	if !c.IsGlobals() {
		if v, ok := c.globals.locals[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set writes name per §3: global-declared names in the current function go
// to globals, otherwise to the local map.
func (c *Context) Set(name string, v value.Value) {
	if c.isGlobalHere(name) {
		c.globals.locals[name] = v
		return
	}
	c.locals[name] = v
}

// Define creates name in the local map unconditionally — used for function
// parameter binding and loop-variable binding, which are always local to
// the new scope regardless of any outer `global` declaration with the same
// name.
func (c *Context) Define(name string, v value.Value) {
	c.locals[name] = v
}

// Delete removes name following the same routing as Set.
func (c *Context) Delete(name string) bool {
	if c.isGlobalHere(name) {
		if _, ok := c.globals.locals[name]; !ok {
			return false
		}
		delete(c.globals.locals, name)
		return true
	}
	if _, ok := c.locals[name]; !ok {
		return false
	}
	delete(c.locals, name)
	return true
}

// --- control flow ---

// SetReturn records a return value and raises the return signal; callers
// at every level must check IsSkipping() after executing a statement.
func (c *Context) SetReturn(v value.Value) {
	c.signal = SignalReturn
	c.returnValue = v
}

// SetBreak raises the break signal, consumed by the innermost active loop.
func (c *Context) SetBreak() { c.signal = SignalBreak }

// ClearBreak clears a break signal on loop exit (§3's invariant).
func (c *Context) ClearBreak() {
	if c.signal == SignalBreak {
		c.signal = SignalNone
	}
}

// IsSkipping reports whether a return or break signal is active, meaning
// subsequent statements in this context must be treated as no-ops (§4.3).
func (c *Context) IsSkipping() bool { return c.signal != SignalNone }

// Signal returns the active control-flow signal.
func (c *Context) Signal() SignalKind { return c.signal }

// ReturnValue returns the value recorded by SetReturn.
func (c *Context) ReturnValue() value.Value { return c.returnValue }

// ClearSignal saves and clears any pending return/break signal so a
// `finally` block's own statements can run unimpeded (§4.3's Try contract:
// finally always executes). Pair with RestoreSignal.
func (c *Context) ClearSignal() (SignalKind, value.Value) {
	sig, ret := c.signal, c.returnValue
	c.signal = SignalNone
	c.returnValue = nil
	return sig, ret
}

// RestoreSignal reinstates a signal saved by ClearSignal, unless the
// `finally` block itself raised a new one in the meantime.
func (c *Context) RestoreSignal(sig SignalKind, ret value.Value) {
	if c.signal != SignalNone {
		return
	}
	c.signal = sig
	c.returnValue = ret
}

// --- globals-only exception stack ---

// PushException records err as the currently-handled exception, for a bare
// `raise` inside the handler body that caught it to re-raise (§4.3).
func (c *Context) PushException(err error) {
	c.globals.excStack = append(c.globals.excStack, err)
}

// PopException removes the most recently pushed exception once its handler
// body has finished running.
func (c *Context) PopException() {
	n := len(c.globals.excStack)
	if n == 0 {
		return
	}
	c.globals.excStack = c.globals.excStack[:n-1]
}

// CurrentException returns the exception currently being handled, if any.
func (c *Context) CurrentException() (error, bool) {
	n := len(c.globals.excStack)
	if n == 0 {
		return nil, false
	}
	return c.globals.excStack[n-1], true
}

// --- globals-only statement queue ---

// QueueStatement appends a not-yet-executed module-level statement. Only
// meaningful on a globals context.
func (c *Context) QueueStatement(s Pending) {
	c.globals.pending = append(c.globals.pending, s)
}

// DrainQueue returns and clears the queued module-level statements.
func (c *Context) DrainQueue() []Pending {
	out := c.globals.pending
	c.globals.pending = nil
	return out
}
