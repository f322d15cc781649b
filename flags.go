//go:build linux

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	FlagVerbose         string
	FlagConfig          string
	FlagOutput          string
	FlagNoColor         bool
	FlagMetricsTextfile string

	// Debug flags
	FlagDebug     bool
	FlagNoSymbols bool

	// walk / growth
	FlagDepth      int
	FlagNest       int
	FlagGoroutines int
	FlagTop        int

	// bench
	FlagIterations int
	FlagWarmup     int
	FlagCPU        int
)

func validateFlags() error {
	switch FlagOutput {
	case outputTable, outputJSON, outputYAML:
	default:
		return fmt.Errorf("invalid --output %q (table, json, yaml)", FlagOutput)
	}
	if FlagDepth < 0 {
		return fmt.Errorf("--depth must be >= 0, got %d", FlagDepth)
	}
	if FlagNest < 0 {
		return fmt.Errorf("--nest must be >= 0, got %d", FlagNest)
	}
	if FlagGoroutines < 1 {
		return fmt.Errorf("--goroutines must be >= 1, got %d", FlagGoroutines)
	}
	if FlagTop < 0 {
		return fmt.Errorf("--top must be >= 0, got %d", FlagTop)
	}
	if FlagIterations < 1 {
		return fmt.Errorf("--iterations must be >= 1, got %d", FlagIterations)
	}
	if FlagWarmup < 0 {
		return fmt.Errorf("--warmup must be >= 0, got %d", FlagWarmup)
	}
	return nil
}

func addProdFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&FlagVerbose, "log-verbose", slog.LevelInfo.String(), "Log verbosity level (DEBUG, INFO, WARN, ERROR)")
	cmd.PersistentFlags().StringVar(&FlagConfig, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVarP(&FlagOutput, "output", "o", outputTable, "Output format (table, json, yaml)")
	cmd.PersistentFlags().BoolVar(&FlagNoColor, "no-color", false, "Disable colored headings")
	cmd.PersistentFlags().StringVar(&FlagMetricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file after the run")

	cmd.PersistentFlags().IntVar(&FlagDepth, "depth", 16, "Maximum number of frames per walk")
	cmd.PersistentFlags().IntVar(&FlagNest, "nest", 4, "Non-inlined calls to recurse before capturing")
	cmd.PersistentFlags().IntVar(&FlagGoroutines, "goroutines", 1, "Number of goroutines walking their own stack")
	cmd.PersistentFlags().IntVar(&FlagTop, "top", 5, "Number of largest frames to report")

	cmd.PersistentFlags().IntVar(&FlagIterations, "iterations", 1000, "Samples per benchmarked operation")
	cmd.PersistentFlags().IntVar(&FlagWarmup, "warmup", 1, "Warmup calls per op before sampling starts (each sample is also preceded by one call)")
	cmd.PersistentFlags().IntVar(&FlagCPU, "cpu", -1, "Pin the benchmark to this CPU (-1 to leave unpinned)")
}
