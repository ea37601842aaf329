package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jargoyle/jargoyle/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}
