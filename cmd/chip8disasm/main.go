// Package main implements a CHIP-8 ROM disassembler
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/cli"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/options"
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

	opts, disasmOptions, err := cli.ParseDisasmFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			config.PrintBanner(logger, "chip8disasm", opts.Quiet, version, commit, date)
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
	config.PrintBanner(logger, "chip8disasm", opts.Quiet, version, commit, date)

	if err := disasmFile(ctx, logger, opts, disasmOptions); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Disassembling failed", log.Err(err))
		os.Exit(1)
	}
}

func disasmFile(ctx context.Context, logger *log.Logger, opts options.Disasm, disasmOptions options.Disassembler) error {
	var outputFile io.WriteCloser = nopCloser{os.Stdout}
	if opts.Output != "" {
		file, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("creating file '%s': %w", opts.Output, err)
		}
		outputFile = file
	}

	if err := pipeline.New(logger).ExecuteDisasm(ctx, opts, disasmOptions, outputFile); err != nil {
		_ = outputFile.Close()
		return err
	}
	if err := outputFile.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}
	return nil
}

// nopCloser keeps stdout open after writing the listing.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
