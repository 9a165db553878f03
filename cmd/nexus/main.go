package main

import (
	"os"

	"github.com/llmnexus/nexus/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
