package main

import (
	"os"

	"github.com/scriptlang/pyast/cmd/pyast/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
