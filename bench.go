//go:build linux

package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vuvietnguyenit/frame-inspect/callconv"
	"github.com/vuvietnguyenit/frame-inspect/cycles"
	"github.com/vuvietnguyenit/frame-inspect/frame"
	"github.com/vuvietnguyenit/frame-inspect/regs"
)

type benchOp struct {
	name string
	fn   func()
}

type BenchResult struct {
	Op    string       `json:"op" yaml:"op"`
	Stats cycles.Stats `json:"stats" yaml:"stats"`
}

type BenchReport struct {
	RunID      string        `json:"run_id" yaml:"run_id"`
	CPU        int           `json:"cpu" yaml:"cpu"`
	Iterations int           `json:"iterations" yaml:"iterations"`
	Results    []BenchResult `json:"results" yaml:"results"`
}

var (
	sinkPtr uintptr
	sinkI32 int32
)

func benchOps() []benchOp {
	buf := make([]frame.Frame, 16)
	return []benchOp{
		{"empty", func() {}},
		{"read-sp", func() { sinkPtr = regs.ReadStackPointer() }},
		{"read-fp", func() { sinkPtr = regs.ReadFramePointer() }},
		{"read-caller-pc", func() { sinkPtr = regs.ReadCallerPC() }},
		{"capture", func() {
			n, _ := frame.Capture(buf)
			sinkPtr = uintptr(n)
		}},
		{"add-two", func() { sinkI32 = callconv.AddTwo(20, 22) }},
	}
}

func benchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Measure the cycle cost of the probes, a capture and a native call",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if run.CounterErr != nil {
				return run.CounterErr
			}
			if FlagCPU >= 0 {
				restore, err := cycles.LockToCPU(FlagCPU)
				if err != nil {
					return fmt.Errorf("pin to cpu %d: %w", FlagCPU, err)
				}
				defer restore()
			} else {
				slog.Debug("Benchmark not pinned; a sample spanning a CPU migration may read as 0 cycles")
			}

			rep := runBench(FlagIterations, FlagWarmup)
			rep.CPU = FlagCPU
			for _, r := range rep.Results {
				slog.Debug("Op measured", "op", r.Op, "median", r.Stats.Median)
			}

			if FlagOutput != outputTable {
				return encode(cmd.OutOrStdout(), FlagOutput, rep)
			}
			heading(cmd, "Cycles per call (%d samples)", rep.Iterations)
			table := newTable(cmd.OutOrStdout(), []string{"OP", "SAMPLES", "MIN", "MEDIAN", "MEAN", "MAX"})
			for _, r := range rep.Results {
				row := []string{
					r.Op,
					strconv.Itoa(r.Stats.Samples),
					strconv.FormatUint(r.Stats.Min, 10),
					strconv.FormatUint(r.Stats.Median, 10),
					strconv.FormatFloat(r.Stats.Mean, 'f', 1, 64),
					strconv.FormatUint(r.Stats.Max, 10),
				}
				if err := table.Append(row); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}

func runBench(iterations, warmup int) *BenchReport {
	rep := &BenchReport{RunID: run.ID, CPU: -1, Iterations: iterations}
	for _, op := range benchOps() {
		for i := 0; i < warmup; i++ {
			op.fn()
		}
		samples := cycles.Sample(op.fn, iterations)
		run.Exporter.ObserveCycles(op.name, samples)
		rep.Results = append(rep.Results, BenchResult{Op: op.name, Stats: cycles.Summarize(samples)})
	}
	return rep
}
