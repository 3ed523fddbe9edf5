package main

import (
	"fmt"
	"os"

	"github.com/kobzarvs/oxed/internal/app"
	"github.com/kobzarvs/oxed/internal/logger"
)

func main() {
	debug := os.Getenv("OXED_DEBUG") != ""
	if err := logger.Init(debug); err != nil {
		fmt.Fprintln(os.Stderr, "oxed:", err)
		os.Exit(1)
	}
	defer logger.Close()

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	if err := app.New(args).Run(); err != nil {
		logger.Error("fatal", "err", err)
		fmt.Fprintln(os.Stderr, "oxed:", err)
		os.Exit(1)
	}
}
