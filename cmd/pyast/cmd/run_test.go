package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const timesTwoJSON = `{
	"type": "Module",
	"body": [
		{"type": "FunctionDef", "name": "times_two", "lineno": 1,
		 "args": {"args": [{"arg": "x"}], "defaults": []}, "decorator_list": [],
		 "body": [
			{"type": "Return", "lineno": 2, "value": {"type": "BinOp", "lineno": 2,
				"left": {"type": "Name", "lineno": 2, "id": "x"}, "op": "Mult",
				"right": {"type": "Constant", "lineno": 2, "typename": "int", "value": 2}}}
		 ]},
		{"type": "Expr", "lineno": 3, "value": {"type": "Call", "lineno": 3,
			"func": {"type": "Name", "lineno": 3, "id": "print"},
			"args": [{"type": "Call", "lineno": 3,
				"func": {"type": "Name", "lineno": 3, "id": "times_two"},
				"args": [{"type": "Constant", "lineno": 3, "typename": "int", "value": 5}],
				"keywords": []}],
			"keywords": []}}
	]
}`

// resetRunFlags restores run.go's package-level flag state after a test
// mutates it directly, the way the teacher's run_unit_test.go resets
// unitSearchPaths/verbose.
func resetRunFlags(t *testing.T) {
	t.Helper()
	oldDumpAST, oldDumpValue, oldCallFn := dumpAST, dumpValue, callFn
	oldConfigPath, oldTrace, oldMaxDepth := configPath, traceFlag, maxDepthFlag
	t.Cleanup(func() {
		dumpAST, dumpValue, callFn = oldDumpAST, oldDumpValue, oldCallFn
		configPath, traceFlag, maxDepthFlag = oldConfigPath, oldTrace, oldMaxDepth
	})
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe failed: %v", err)
	}
	os.Stdout = w
	fn()
	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestRunScriptPrintsModuleOutput(t *testing.T) {
	resetRunFlags(t)
	dumpAST, dumpValue, callFn = false, false, ""
	configPath, traceFlag, maxDepthFlag = "", false, 0

	path := filepath.Join(t.TempDir(), "times_two.json")
	if err := os.WriteFile(path, []byte(timesTwoJSON), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	out := captureStdout(t, func() {
		if err := runScript(runCmd, []string{path}); err != nil {
			t.Fatalf("runScript failed: %v", err)
		}
	})

	if got := strings.TrimSpace(out); got != "10" {
		t.Fatalf("runScript output = %q, want \"10\"", got)
	}
}

func TestRunScriptCallFlagInvokesFunction(t *testing.T) {
	resetRunFlags(t)
	dumpAST, dumpValue, callFn = false, true, "times_two"
	configPath, traceFlag, maxDepthFlag = "", false, 0

	src := `{
		"type": "Module",
		"body": [
			{"type": "FunctionDef", "name": "times_two", "lineno": 1,
			 "args": {"args": [], "defaults": []}, "decorator_list": [],
			 "body": [{"type": "Return", "lineno": 2, "value": {"type": "Constant", "lineno": 2, "typename": "int", "value": 21}}]}
		]
	}`
	path := filepath.Join(t.TempDir(), "script.json")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	out := captureStdout(t, func() {
		if err := runScript(runCmd, []string{path}); err != nil {
			t.Fatalf("runScript failed: %v", err)
		}
	})

	if !strings.Contains(out, `"type":"int"`) || !strings.Contains(out, `"repr":"21"`) {
		t.Fatalf("expected --dump-value JSON mentioning type int and repr 21, got %q", out)
	}
}

func TestRunScriptReadsFromStdin(t *testing.T) {
	resetRunFlags(t)
	dumpAST, dumpValue, callFn = false, false, ""
	configPath, traceFlag, maxDepthFlag = "", false, 0

	src := `{"type": "Module", "body": [{"type": "Expr", "lineno": 1, "value": {"type": "Call", "lineno": 1,
		"func": {"type": "Name", "lineno": 1, "id": "print"},
		"args": [{"type": "Constant", "lineno": 1, "typename": "str", "value": "hi"}], "keywords": []}}]}`

	oldStdin := os.Stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe failed: %v", err)
	}
	go func() {
		w.Write([]byte(src))
		w.Close()
	}()
	os.Stdin = r
	defer func() { os.Stdin = oldStdin }()

	out := captureStdout(t, func() {
		if err := runScript(runCmd, []string{"-"}); err != nil {
			t.Fatalf("runScript failed: %v", err)
		}
	})

	if got := strings.TrimSpace(out); got != "hi" {
		t.Fatalf("runScript from stdin = %q, want \"hi\"", got)
	}
}
