// Package main is the entry point for mdlint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/donaldgifford/mdlint/internal/runner"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code, err := execute(ctx, os.Args[1:], &runner.Options{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "mdlint: %v\n", err)
	}
	stop()
	os.Exit(code)
}
