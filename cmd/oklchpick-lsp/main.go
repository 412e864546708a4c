package main

import (
	"fmt"
	"os"

	"github.com/jsvensson/oklchpicker/internal/config"
	"github.com/jsvensson/oklchpicker/internal/lsp"
)

var version = "dev"

func main() {
	env, err := config.EnvDefaults()
	if err != nil {
		fmt.Fprintf(os.Stderr, "oklchpick-lsp: %v\n", err)
		os.Exit(1)
	}

	verbosity := env.Verbosity
	if verbosity == 0 {
		verbosity = 1
	}

	s := lsp.NewServer(version)
	if err := s.Run(verbosity); err != nil {
		os.Exit(1)
	}
}
