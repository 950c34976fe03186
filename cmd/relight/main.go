// # cmd/relight/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"relight/internal/core/errors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCommand().ExecuteContext(ctx)
}

// exitCode maps a domain error code to a process exit status.
func exitCode(err error) int {
	switch errors.CodeOf(err) {
	case errors.CodeValidationError, errors.CodeNotSupported:
		return 2
	case errors.CodeNotFound:
		return 3
	}
	return 1
}
