package cmd

import (
	"fmt"

	"github.com/scriptlang/pyast/internal/builtins"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "List registered built-in and math.* names",
	Long:  `Display every name Install defines in a script's globals: the built-in functions plus the math namespace's attributes and static methods.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("built-ins:")
		for _, name := range builtins.Names() {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println("math.*:")
		for _, name := range builtins.MathNames() {
			fmt.Printf("  math.%s\n", name)
		}
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
