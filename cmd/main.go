package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/autoalbum/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp(runner).Run(ctx, os.Args); err != nil {
		stop()
		logger.Fatal("application error", "error", err)
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "autoalbum",
		Usage:    "Keep a Google Photos album filled with the latest photos from another album",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   r.Before,
		Commands: r.register(),
	}
}
