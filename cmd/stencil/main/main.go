package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/stencil/cmd/stencil"
)

func main() {
	rootCmd := stencil.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		renderer := stencil.ErrorRenderer(rootCmd, os.Stderr)
		fmt.Fprintln(os.Stderr, renderer.RenderError(err))
		os.Exit(1)
	}
}
