package main

import (
	"os"

	"github.com/custodia-labs/stylo-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/stylo-cli/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
