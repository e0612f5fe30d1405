package main

import (
	"os"

	"github.com/celerix-dev/celerix-keystore/cmd/celerix-keystore/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
