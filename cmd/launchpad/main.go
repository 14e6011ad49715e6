package main

import (
	"os"

	"launchpad/internal/cmd"
)

// Entry point for the application
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
