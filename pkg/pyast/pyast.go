// Package pyast is the embedding API (§6): construct a Script, parse a JSON
// AST into it, run its module-level statements, and invoke the functions it
// defines. Mirrors the teacher's functional-options engine constructor
// (`New(opts...)`) and its Eval/SetOutput pair, generalized into the
// parse/exec/invoke split §6 calls for.
package pyast

import (
	"io"

	"github.com/scriptlang/pyast/internal/astnode"
	"github.com/scriptlang/pyast/internal/builtins"
	"github.com/scriptlang/pyast/internal/evaluator"
	"github.com/scriptlang/pyast/internal/hostinterop"
	"github.com/scriptlang/pyast/internal/lowering"
	"github.com/scriptlang/pyast/internal/scope"
	"github.com/scriptlang/pyast/internal/scripterr"
	"github.com/scriptlang/pyast/internal/value"
)

// Script is a single script instance: its own evaluator, globals context,
// and queued-but-not-yet-executed module statements. Every Script has its
// own globals; globals are never shared across Scripts (§5).
type Script struct {
	eval  *evaluator.Evaluator
	ctx   *scope.Context
	trace bool
}

// Option configures a Script at construction time.
type Option func(*settings)

type settings struct {
	hosts    *hostinterop.Registry
	stdout   io.Writer
	filename string
	maxDepth int
	trace    bool
}

// WithHosts supplies the host-interop registry a script's `HostClass()`
// calls and `except HostClass(...)` clauses resolve against. Defaults to an
// empty registry when omitted.
func WithHosts(hosts *hostinterop.Registry) Option {
	return func(s *settings) { s.hosts = hosts }
}

// WithStdout sets the initial print sink. Defaults to io.Discard; call
// (*Script).RedirectStdout to change it after construction.
func WithStdout(w io.Writer) Option {
	return func(s *settings) { s.stdout = w }
}

// WithFilename sets the name reported in stack traces before Parse supplies
// one of its own.
func WithFilename(name string) Option {
	return func(s *settings) { s.filename = name }
}

// WithMaxCallDepth overrides the script call stack's recursion limit
// (§4.4). 0 keeps scripterr.DefaultMaxDepth.
func WithMaxCallDepth(depth int) Option {
	return func(s *settings) { s.maxDepth = depth }
}

// WithTrace prints each script call-stack frame as it is pushed, written
// through the same sink as `print` (the AMBIENT STACK's `--trace` hook),
// so an embedding host can capture both.
func WithTrace(enabled bool) Option {
	return func(s *settings) { s.trace = enabled }
}

// New constructs a script with populated built-ins and an empty globals map
// (§6's `Script()`).
func New(opts ...Option) *Script {
	cfg := &settings{stdout: io.Discard}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.hosts == nil {
		cfg.hosts = hostinterop.NewRegistry()
	}

	ctx := scope.NewGlobals(cfg.filename, cfg.stdout)
	if cfg.maxDepth > 0 {
		ctx.SetMaxCallDepth(cfg.maxDepth)
	}
	if cfg.trace {
		ctx.CallStack().SetTraceWriter(cfg.stdout)
	}
	eval := evaluator.New(cfg.hosts)
	builtins.Install(eval, ctx)

	return &Script{eval: eval, ctx: ctx, trace: cfg.trace}
}

// Parse lowers jsonAST into a module and queues its top-level statements
// for Exec (§6's `parse(json_ast, filename?) -> Script`). filename is
// optional; when given it's recorded for stack traces.
func (s *Script) Parse(jsonAST []byte, filename ...string) (*Script, error) {
	if len(filename) > 0 {
		s.ctx.SetFilename(filename[0])
	}
	mod, err := lowering.Lower(jsonAST)
	if err != nil {
		return s, err
	}
	for _, stmt := range mod.Body {
		s.ctx.QueueStatement(stmt)
	}
	return s, nil
}

// Exec runs the queued module-level statements (§6's `exec() -> Script`).
// Function/class definitions register their callable values in globals as
// a normal side effect of statement execution (§2).
func (s *Script) Exec() (*Script, error) {
	pending := s.ctx.DrainQueue()
	stmts := make([]astnode.Stmt, len(pending))
	for i, p := range pending {
		stmts[i] = p.(astnode.Stmt)
	}
	if err := s.eval.ExecModule(s.ctx, stmts); err != nil {
		return s, scripterr.PrependTrace(err, s.ctx.CallStack().Frames())
	}
	return s, nil
}

// GetFunction retrieves a previously defined function by name (§6's
// `get_function(name) -> Function`).
func (s *Script) GetFunction(name string) (*value.Function, error) {
	v, ok := s.ctx.Get(name)
	if !ok {
		return nil, scripterr.NewNameError(name)
	}
	fn, ok := v.(*value.Function)
	if !ok {
		return nil, scripterr.NewTypeError("%q is not a function", name)
	}
	return fn, nil
}

// Invoke calls fn with args (§6's `invoke(function, args...) -> Value`).
// The script call stack is attached to the returned error exactly once,
// here at the outermost invoke boundary (§4.4, §7).
func (s *Script) Invoke(fn *value.Function, args ...value.Value) (value.Value, error) {
	res, err := s.eval.Invoke(s.ctx, fn, args)
	if err != nil {
		return nil, scripterr.PrependTrace(err, s.ctx.CallStack().Frames())
	}
	return res, nil
}

// RedirectStdout replaces the print sink, i.e. the globals variable
// `__stdout__` (§6). When tracing is enabled, call-stack frames follow the
// new sink too.
func (s *Script) RedirectStdout(w io.Writer) {
	s.ctx.SetStdout(w)
	if s.trace {
		s.ctx.CallStack().SetTraceWriter(w)
	}
}

// Globals returns the script's globals context for direct read/write
// access (§6's `globals() -> Context`).
func (s *Script) Globals() *scope.Context {
	return s.ctx
}
