package main

import (
	"os"

	"github.com/clauderank/claude-rank/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
