package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/looper/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := runner.app().Run(context.Background(), os.Args); err != nil {
		var exitErr cli.ExitCoder
		switch {
		case errors.Is(err, shared.ErrNotImplemented):
			logger.Warn("not implemented")
			os.Exit(0)
		case errors.As(err, &exitErr):
			if msg := err.Error(); msg != "" {
				logger.Error(msg)
			}
			os.Exit(exitErr.ExitCode())
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
