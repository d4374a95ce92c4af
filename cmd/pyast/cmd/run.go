package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/scriptlang/pyast/internal/hostdemo"
	"github.com/scriptlang/pyast/internal/hostinterop"
	"github.com/scriptlang/pyast/pkg/pyast"
	"github.com/spf13/cobra"
)

var (
	dumpAST   bool
	dumpValue bool
	callFn    string
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Parse and execute a JSON AST file",
	Long: `Run reads a JSON-encoded AST from a file (or "-" for stdin), parses it,
and executes its module-level statements.

Examples:
  pyast run script.json
  cat script.json | pyast run -
  pyast run --call main --dump-value script.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the lowered AST's top-level statement shape (for debugging)")
	runCmd.Flags().BoolVar(&dumpValue, "dump-value", false, "dump the value returned by --call as JSON (for debugging)")
	runCmd.Flags().StringVar(&callFn, "call", "", "invoke the named module-level function with no arguments after exec")
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("trace") {
		cfg.Trace = traceFlag
	}
	if cmd.Flags().Changed("max-call-depth") && maxDepthFlag > 0 {
		cfg.MaxCallDepth = maxDepthFlag
	}

	path := args[0]
	filename := path
	var data []byte
	if path == "-" {
		filename = "<stdin>"
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if dumpAST {
		dump, err := dumpASTShape(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return err
		}
		fmt.Println(dump)
	}

	sink, closeSink, err := cfg.openSink()
	if err != nil {
		return err
	}
	defer closeSink()

	hosts := hostinterop.NewRegistry()
	hostdemo.Register(hosts)

	opts := []pyast.Option{
		pyast.WithHosts(hosts),
		pyast.WithStdout(sink),
		pyast.WithTrace(cfg.Trace),
	}
	if cfg.MaxCallDepth > 0 {
		opts = append(opts, pyast.WithMaxCallDepth(cfg.MaxCallDepth))
	}

	script := pyast.New(opts...)
	if _, err := script.Parse(data, filename); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	if _, err := script.Exec(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	if callFn == "" {
		return nil
	}
	fn, err := script.GetFunction(callFn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	result, err := script.Invoke(fn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	if dumpValue {
		dump, err := dumpValueJSON(result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return err
		}
		fmt.Println(dump)
	}
	return nil
}
