// Package config turns program options into configured components.
package config

import (
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// MachineOptions returns the machine options matching the emulation options.
// A zero seed keeps the time based default random source.
func MachineOptions(opts options.Emulation) []machine.Option {
	machineOptions := []machine.Option{
		machine.WithClipping(opts.Clip),
		machine.WithShiftQuirk(opts.ShiftVY),
	}
	if opts.Seed != 0 {
		machineOptions = append(machineOptions, machine.WithSeed(opts.Seed))
	}
	return machineOptions
}

// PrintBanner logs the program name and build version.
func PrintBanner(logger *log.Logger, name string, quiet bool, version, commit, date string) {
	if quiet {
		return
	}
	logger.Info(name, log.String("version", buildinfo.Version(version, commit, date)))
}
