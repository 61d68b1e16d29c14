// Package main implements the main entry point for a CHIP-8 emulator
package main

import (
	"context"
	"errors"
	"os"

	"github.com/retroenv/retrochip8/internal/cli"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/pipeline"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			config.PrintBanner(logger, "retrochip8", opts.Quiet, version, commit, date)
			if usageErr.Error() != "" {
				logger.Error(usageErr.Error())
			}
			usageErr.ShowUsage()
		} else {
			logger.Error("Invalid options", log.Err(err))
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	config.PrintBanner(logger, "retrochip8", opts.Quiet, version, commit, date)

	stats, err := pipeline.New(logger).Execute(ctx, opts, os.Stdout)
	if err != nil {
		// Esc, Ctrl+C or a signal end the run gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Run stopped", log.Int("instructions", int(stats.Instructions)))
			return
		}
		logger.Error("Running ROM failed", log.Err(err))
		os.Exit(1)
	}
}
