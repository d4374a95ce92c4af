// Package lowering reads the JSON AST emitted by an external parser and
// produces internal/astnode's typed tree (§4.1). It recognizes node kinds
// by their `type` discriminator and recurses; unknown kinds are rejected
// with a *scripterr.ScriptError of KindParse naming the offending node
// path, per the lowering contract's error clause.
//
// The JSON shape follows Python's own `ast` module field names (the node
// vocabulary in the spec this package implements against is, node for
// node, Python's ast grammar): Assign(targets, value), AugAssign(target,
// op, value), For(target, iter, body, orelse), comprehension(target, iter,
// ifs), Dict(keys, values), FunctionDef(name, args, body, decorator_list),
// arguments(args, defaults), Compare(left, ops, comparators),
// ExceptHandler(type, name, body). Reading is done with tidwall/gjson
// directly over the raw bytes rather than unmarshalling into an
// intermediate Go struct first, since only a handful of sibling fields are
// ever inspected per node.
package lowering

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/scriptlang/pyast/internal/astnode"
	"github.com/scriptlang/pyast/internal/scripterr"
)

// Lower parses raw JSON AST bytes into a *astnode.Module.
func Lower(jsonAST []byte) (*astnode.Module, error) {
	if !gjson.ValidBytes(jsonAST) {
		return nil, scripterr.NewParseError("$", fmt.Errorf("invalid JSON"))
	}
	root := gjson.ParseBytes(jsonAST)
	return lowerModule(root)
}

func lowerModule(n gjson.Result) (*astnode.Module, error) {
	if n.Get("type").String() != "Module" {
		return nil, scripterr.NewParseError("$", fmt.Errorf("root node is not a Module"))
	}
	body, err := lowerStmtList(n.Get("body"), "$.body")
	if err != nil {
		return nil, err
	}
	return astnode.NewModule(lineOf(n), body), nil
}

func lineOf(n gjson.Result) int {
	if v := n.Get("lineno"); v.Exists() {
		return int(v.Int())
	}
	return 0
}

func typeOf(n gjson.Result) string {
	return n.Get("type").String()
}

func lowerStmtList(n gjson.Result, path string) ([]astnode.Stmt, error) {
	if !n.IsArray() {
		if !n.Exists() {
			return nil, nil
		}
		return nil, scripterr.NewParseError(path, fmt.Errorf("expected an array of statements"))
	}
	var out []astnode.Stmt
	var firstErr error
	idx := 0
	n.ForEach(func(_, v gjson.Result) bool {
		s, err := lowerStmt(v, fmt.Sprintf("%s[%d]", path, idx))
		idx++
		if err != nil {
			firstErr = err
			return false
		}
		out = append(out, s)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func lowerExprList(n gjson.Result, path string) ([]astnode.Expr, error) {
	if !n.IsArray() {
		if !n.Exists() {
			return nil, nil
		}
		return nil, scripterr.NewParseError(path, fmt.Errorf("expected an array of expressions"))
	}
	var out []astnode.Expr
	var firstErr error
	idx := 0
	n.ForEach(func(_, v gjson.Result) bool {
		e, err := lowerExpr(v, fmt.Sprintf("%s[%d]", path, idx))
		idx++
		if err != nil {
			firstErr = err
			return false
		}
		out = append(out, e)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// lowerOptExpr lowers a possibly-absent/null expression field to nil.
func lowerOptExpr(n gjson.Result, path string) (astnode.Expr, error) {
	if !n.Exists() || n.Type == gjson.Null {
		return nil, nil
	}
	return lowerExpr(n, path)
}

func lowerStrList(n gjson.Result) []string {
	var out []string
	n.ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.String())
		return true
	})
	return out
}

// lowerArguments lowers a Python-style `arguments` node: {args:[{arg:"x"}...],
// defaults:[...]}. defaults align to the trailing len(defaults) params, per
// Python semantics.
func lowerArguments(n gjson.Result, path string) ([]string, []astnode.Expr, error) {
	var params []string
	n.Get("args").ForEach(func(_, v gjson.Result) bool {
		params = append(params, v.Get("arg").String())
		return true
	})
	defaults, err := lowerExprList(n.Get("defaults"), path+".defaults")
	if err != nil {
		return nil, nil, err
	}
	return params, defaults, nil
}

func lowerDecorators(n gjson.Result, path string) ([]astnode.Decorator, error) {
	var out []astnode.Decorator
	var firstErr error
	idx := 0
	n.ForEach(func(_, v gjson.Result) bool {
		p := fmt.Sprintf("%s[%d]", path, idx)
		idx++
		switch typeOf(v) {
		case "Name":
			out = append(out, astnode.Decorator{Name: v.Get("id").String()})
		case "Call":
			name := v.Get("func").Get("id").String()
			kwargs := map[string]astnode.Expr{}
			v.Get("keywords").ForEach(func(_, kw gjson.Result) bool {
				e, err := lowerExpr(kw.Get("value"), p+".keywords")
				if err != nil {
					firstErr = err
					return false
				}
				kwargs[kw.Get("arg").String()] = e
				return true
			})
			if firstErr != nil {
				return false
			}
			out = append(out, astnode.Decorator{Name: name, IsCall: true, Kwargs: kwargs})
		default:
			firstErr = scripterr.NewParseError(p, fmt.Errorf("unsupported decorator kind %q", typeOf(v)))
			return false
		}
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
