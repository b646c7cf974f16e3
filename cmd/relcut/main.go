package main

import (
	"os"

	"github.com/relcut/relcut/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitFailure)
	}
}
