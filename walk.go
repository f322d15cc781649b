//go:build linux

package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vuvietnguyenit/frame-inspect/symbols"
)

type WalkResult struct {
	Goroutine int    `json:"goroutine" yaml:"goroutine"`
	TID       Tid    `json:"tid" yaml:"tid"`
	Reason    string `json:"reason" yaml:"reason"`
	Frames    []Row  `json:"frames" yaml:"frames"`
}

type WalkReport struct {
	RunID string       `json:"run_id" yaml:"run_id"`
	Walks []WalkResult `json:"walks" yaml:"walks"`
	Top   []FrameEntry `json:"top" yaml:"top"`
}

func walkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "walk",
		Short: "Walk the frame-pointer chain of one or more goroutines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if run.ProbeErr != nil {
				return run.ProbeErr
			}
			r, err := symbols.NewResolver(1024)
			if err != nil {
				return err
			}
			stacks, err := captureStacks(cmd.Context(), FlagGoroutines, FlagNest, FlagDepth)
			if err != nil {
				return err
			}
			rep, df := buildWalkReport(stacks, r, FlagTop)
			for _, s := range stacks {
				run.Exporter.ObserveWalk(len(s.Frames), s.Reason)
			}

			if FlagOutput != outputTable {
				return encode(cmd.OutOrStdout(), FlagOutput, rep)
			}
			w := cmd.OutOrStdout()
			heading(cmd, "Frames (depth <= %d, nest %d)", FlagDepth, FlagNest)
			if err := df.PrintTable(w); err != nil {
				return err
			}
			heading(cmd, "Per goroutine")
			if err := df.GroupByGoroutine().PrintTable(w); err != nil {
				return err
			}
			if len(rep.Top) == 0 {
				return nil
			}
			heading(cmd, "Largest frames")
			return printTop(w, rep.Top)
		},
	}
}

// captureStacks starts n goroutines, each capturing its own stack.
func captureStacks(ctx context.Context, n, nest, depth int) ([]*StackInfo, error) {
	stacks := make([]*StackInfo, n)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			stacks[i] = captureStack(run.Process, i, nest, depth)
			slog.Debug("Stack captured", "goroutine", i, "tid", stacks[i].T.TID,
				"frames", len(stacks[i].Frames), "reason", stacks[i].Reason)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stacks, nil
}

func buildWalkReport(stacks []*StackInfo, r *symbols.Resolver, top int) (*WalkReport, *DF) {
	rep := &WalkReport{RunID: run.ID}
	df := &DF{}
	df.InitHeader(frameHeaders)
	tracker := NewTopFrameTracker(top)

	for _, s := range stacks {
		res := WalkResult{
			Goroutine: s.T.Goroutine,
			TID:       s.T.TID,
			Reason:    s.Reason.String(),
			Frames:    make([]Row, 0, len(s.Frames)),
		}
		for depth, f := range s.Frames {
			row := Row{
				Goroutine: s.T.Goroutine,
				Tid:       s.T.TID,
				Depth:     depth,
				FP:        Addr(f.FP),
				SavedFP:   Addr(f.SavedFP),
				RetAddr:   Addr(f.RetAddr),
				Size:      FrameSize(f.Size()),
				Func:      funcName(r, f.RetAddr),
			}
			res.Frames = append(res.Frames, row)
			df.Insert(row)
			tracker.Add(FrameEntry{Goroutine: row.Goroutine, Depth: depth, Size: row.Size, Func: row.Func})
		}
		rep.Walks = append(rep.Walks, res)
	}
	rep.Top = tracker.Top()
	return rep, df
}
