package main

import (
	"os"

	"github.com/nhle/todo-way/internal/commands"
)

func main() {
	if err := commands.New().Execute(); err != nil {
		os.Exit(1)
	}
}
