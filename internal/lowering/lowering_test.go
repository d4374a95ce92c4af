package lowering

import (
	"testing"

	"github.com/kr/pretty"

	"github.com/scriptlang/pyast/internal/astnode"
)

func TestLowerSimpleFunction(t *testing.T) {
	src := `{
		"type": "Module",
		"body": [
			{
				"type": "FunctionDef",
				"name": "times_two",
				"lineno": 1,
				"args": {"args": [{"arg": "x"}], "defaults": []},
				"decorator_list": [],
				"body": [
					{"type": "Assign", "lineno": 1, "targets": [{"type": "Name", "lineno": 1, "id": "y"}],
					 "value": {"type": "BinOp", "lineno": 1, "left": {"type": "Name", "lineno": 1, "id": "x"},
						"op": "Mult", "right": {"type": "Constant", "lineno": 1, "typename": "int", "value": 2}}},
					{"type": "Return", "lineno": 1, "value": {"type": "Name", "lineno": 1, "id": "y"}}
				]
			}
		]
	}`

	mod, err := Lower([]byte(src))
	if err != nil {
		t.Fatalf("Lower failed: %v", err)
	}
	if len(mod.Body) != 1 {
		t.Fatalf("expected 1 top-level statement, got %d: %# v", len(mod.Body), pretty.Formatter(mod.Body))
	}
	fn, ok := mod.Body[0].(*astnode.FunctionDef)
	if !ok {
		t.Fatalf("expected *astnode.FunctionDef, got %T", mod.Body[0])
	}
	if fn.Name != "times_two" || len(fn.Params) != 1 || fn.Params[0] != "x" {
		t.Fatalf("unexpected function shape: %# v", pretty.Formatter(fn))
	}
	if len(fn.Body) != 2 {
		t.Fatalf("expected 2 body statements, got %d", len(fn.Body))
	}
	if ret, ok := fn.Body[1].(*astnode.Return); !ok {
		t.Fatalf("expected *astnode.Return, got %T", fn.Body[1])
	} else if name, ok := ret.Value.(*astnode.Name); !ok || name.Id != "y" {
		t.Fatalf("unexpected return value: %# v", pretty.Formatter(ret.Value))
	}
}

func TestLowerUnknownNodeIsParseError(t *testing.T) {
	src := `{"type": "Module", "body": [{"type": "Frobnicate", "lineno": 3}]}`
	_, err := Lower([]byte(src))
	if err == nil {
		t.Fatal("expected a ParseError for an unknown node kind")
	}
}

func TestLowerCompareTruncatesChain(t *testing.T) {
	src := `{
		"type": "Module",
		"body": [{"type": "Expr", "lineno": 1, "value": {
			"type": "Compare", "lineno": 1,
			"left": {"type": "Constant", "lineno": 1, "typename": "int", "value": 1},
			"ops": ["Lt", "Lt"],
			"comparators": [
				{"type": "Constant", "lineno": 1, "typename": "int", "value": 2},
				{"type": "Constant", "lineno": 1, "typename": "int", "value": 3}
			]
		}}]
	}`
	mod, err := Lower([]byte(src))
	if err != nil {
		t.Fatalf("Lower failed: %v", err)
	}
	cmp := mod.Body[0].(*astnode.ExprStmt).Value.(*astnode.Compare)
	if cmp.Op != astnode.CmpLt {
		t.Fatalf("expected Lt, got %v", cmp.Op)
	}
	if c, ok := cmp.Comparator.(*astnode.Constant); !ok || c.Int != 2 {
		t.Fatalf("expected truncated comparator to be 2, got %# v", pretty.Formatter(cmp.Comparator))
	}
}

func TestLowerPreservesLineNumbers(t *testing.T) {
	src := `{"type": "Module", "body": [{"type": "Expr", "lineno": 42, "value":
		{"type": "Constant", "lineno": 42, "typename": "int", "value": 7}}]}`
	mod, err := Lower([]byte(src))
	if err != nil {
		t.Fatalf("Lower failed: %v", err)
	}
	if mod.Body[0].Line() != 42 {
		t.Fatalf("expected line 42, got %d", mod.Body[0].Line())
	}
}
