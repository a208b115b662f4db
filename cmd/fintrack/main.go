package main

import (
	"os"

	"github.com/Maverick2506/Fintrack-backend/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
