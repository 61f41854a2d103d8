package main

import (
	"os"

	"github.com/wonny/cohorent/backend/cmd/cohorent/commands"
)

// main is the entry point for the Cohorent CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/cohorent [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
