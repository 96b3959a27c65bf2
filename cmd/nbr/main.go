package main

import (
	"os"

	"github.com/bnema/notebook-runner-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
