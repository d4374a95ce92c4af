package cmd

import (
	"fmt"

	"github.com/scriptlang/pyast/internal/evaluator"
	"github.com/scriptlang/pyast/internal/lowering"
	"github.com/scriptlang/pyast/internal/value"
	"github.com/tidwall/sjson"
)

// dumpASTShape lowers jsonAST and renders each top-level statement's Go
// node kind and source line as a small debug JSON document (--dump-ast).
func dumpASTShape(jsonAST []byte) (string, error) {
	mod, err := lowering.Lower(jsonAST)
	if err != nil {
		return "", err
	}
	out := "{}"
	for i, stmt := range mod.Body {
		base := fmt.Sprintf("statements.%d", i)
		out, err = sjson.Set(out, base+".kind", fmt.Sprintf("%T", stmt))
		if err != nil {
			return "", err
		}
		out, err = sjson.Set(out, base+".line", stmt.Line())
		if err != nil {
			return "", err
		}
	}
	return out, nil
}

// dumpValueJSON renders a script Value as a small debug JSON document
// (--dump-value): its runtime type name plus its string form.
func dumpValueJSON(v value.Value) (string, error) {
	out, err := sjson.Set("{}", "type", v.TypeName())
	if err != nil {
		return "", err
	}
	return sjson.Set(out, "repr", evaluator.Stringify(v))
}
