package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/prism-talent/deal-desk/internal/cli"
)

func main() {
	app := &cli.App{
		Color:  isatty.IsTerminal(os.Stdout.Fd()) && os.Getenv("NO_COLOR") == "",
		Getenv: os.Getenv,
	}
	if err := cli.NewRootCmd(app).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
