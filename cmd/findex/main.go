package main

import (
	"os"

	"github.com/sprint-team6/findex/cmd/findex/commands"
)

// main is the entry point for the findex CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/findex [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
