//go:build linux

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vuvietnguyenit/frame-inspect/cycles"
	"github.com/vuvietnguyenit/frame-inspect/regs"
)

// runState is shared by the subcommands of one invocation.
type runState struct {
	ID         string
	Process    *ProcessInfo
	ProbeErr   error
	CounterErr error
	Exporter   *Exporter
}

var run *runState

func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "frameinspect",
		Short:         "Inspect registers, frame chains and cycle costs of the running process",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd.Flags()); err != nil {
				return err
			}
			if err := validateFlags(); err != nil {
				return err
			}
			if err := initLogger(cmd.ErrOrStderr()); err != nil {
				return err
			}
			color.NoColor = color.NoColor || FlagNoColor
			return startRun()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if FlagMetricsTextfile == "" || run == nil {
				return nil
			}
			return run.Exporter.WriteTextfile(FlagMetricsTextfile)
		},
	}

	addDebugFlags(rootCmd)
	addProdFlags(rootCmd)

	rootCmd.AddCommand(
		probeCmd(),
		walkCmd(),
		growthCmd(),
		benchCmd(),
		callconvCmd(),
	)
	return rootCmd
}

// startRun checks platform support once and reports it; the subcommands
// degrade instead of failing.
func startRun() error {
	p := currentProcess()
	run = &runState{
		ID:         uuid.NewString(),
		Process:    p,
		ProbeErr:   regs.Check(),
		CounterErr: cycles.Check(),
	}
	run.Exporter = NewExporter(run.ID)

	if run.ProbeErr != nil {
		slog.Warn("Register probe unavailable", "err", run.ProbeErr)
	}
	if run.CounterErr != nil {
		slog.Warn("Cycle counter unavailable", "err", run.CounterErr)
	}
	slog.Debug("Run started", "run_id", run.ID, "pid", p.PID, "arch", regs.Arch)
	return nil
}

func heading(cmd *cobra.Command, format string, a ...any) {
	if FlagOutput != outputTable {
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), color.New(color.Bold, color.FgCyan).Sprintf(format, a...))
}

func Execute() {
	if err := RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
