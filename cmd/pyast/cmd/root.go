package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configPath   string
	traceFlag    bool
	maxDepthFlag int
)

var rootCmd = &cobra.Command{
	Use:   "pyast",
	Short: "Interpreter for JSON-encoded ASTs of a Python-subset scripting language",
	Long: `pyast runs a tree-walking interpreter over an abstract syntax tree
produced by an external parser and serialized as JSON. It does not tokenize
or parse source text of its own.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(Version + "\ncommit: " + GitCommit + "\nbuilt:  " + BuildDate + "\n")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a pyast.yaml config file")
	rootCmd.PersistentFlags().BoolVar(&traceFlag, "trace", false, "trace script call-stack frames as they are pushed")
	rootCmd.PersistentFlags().IntVar(&maxDepthFlag, "max-call-depth", 0, "override the script call stack's max depth (0 keeps the config/default)")
}
