//go:build linux

package main

import (
	"runtime"
	"runtime/debug"
	"strconv"
	"unsafe"

	"github.com/spf13/cobra"

	"github.com/vuvietnguyenit/frame-inspect/regs"
)

type GrowthLevel struct {
	Depth int   `json:"depth" yaml:"depth"`
	SP    Addr  `json:"sp" yaml:"sp"`
	Delta int64 `json:"delta" yaml:"delta"`
}

type LocalVar struct {
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type" yaml:"type"`
	Addr    Addr   `json:"addr" yaml:"addr"`
	Spacing int64  `json:"spacing" yaml:"spacing"`
}

type GrowthReport struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	GrowsDown bool          `json:"grows_down" yaml:"grows_down"`
	Levels    []GrowthLevel `json:"levels" yaml:"levels"`
	Locals    []LocalVar    `json:"locals" yaml:"locals"`
}

func growthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "growth",
		Short: "Show the stack pointer at each recursion depth and the layout of locals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if run.ProbeErr != nil {
				return run.ProbeErr
			}
			rep := &GrowthReport{
				RunID:     run.ID,
				GrowsDown: regs.StackGrowsDown(),
				Levels:    stackGrowth(FlagDepth),
				Locals:    inspectLocals(),
			}
			if FlagOutput != outputTable {
				return encode(cmd.OutOrStdout(), FlagOutput, rep)
			}
			w := cmd.OutOrStdout()

			heading(cmd, "Stack pointer by depth (grows down: %t)", rep.GrowsDown)
			levels := newTable(w, []string{"DEPTH", "SP", "DELTA"})
			for _, l := range rep.Levels {
				if err := levels.Append([]string{strconv.Itoa(l.Depth), l.SP.String(), strconv.FormatInt(l.Delta, 10)}); err != nil {
					return err
				}
			}
			if err := levels.Render(); err != nil {
				return err
			}

			heading(cmd, "Local variable layout")
			locals := newTable(w, []string{"NAME", "TYPE", "ADDR", "SPACING"})
			for _, l := range rep.Locals {
				if err := locals.Append([]string{l.Name, l.Type, l.Addr.String(), strconv.FormatInt(l.Spacing, 10)}); err != nil {
					return err
				}
			}
			return locals.Render()
		},
	}
}

// stackGrowth records the stack pointer at each of depth nested calls. Delta
// is the distance from the previous level, negative when the stack grows
// down.
func stackGrowth(depth int) []GrowthLevel {
	if depth <= 0 {
		return nil
	}
	// The recorded addresses are only comparable if the stack is not copied
	// in between. A first pass of the same recursion grows the stack to fit
	// and the collector, which shrinks stacks, stays off until we are done.
	defer debug.SetGCPercent(debug.SetGCPercent(-1))

	sps := make([]uintptr, depth)
	recordSP(sps, 0)
	recordSP(sps, 0)

	levels := make([]GrowthLevel, depth)
	for i, sp := range sps {
		levels[i] = GrowthLevel{Depth: i, SP: Addr(sp)}
		if i > 0 {
			levels[i].Delta = int64(sp) - int64(sps[i-1])
		}
	}
	return levels
}

//go:noinline
func recordSP(sps []uintptr, i int) {
	sps[i] = regs.ReadStackPointer()
	if i+1 < len(sps) {
		recordSP(sps, i+1)
	}
}


//go:noinline
func inspectLocals() []LocalVar {
	var (
		var1  int32 = 0x11111111
		var2  int32 = 0x22222222
		var3  int64 = 0x3333333333333333
		array [8]byte
	)
	vars := []LocalVar{
		{Name: "var1", Type: "int32", Addr: Addr(unsafe.Pointer(&var1))},
		{Name: "var2", Type: "int32", Addr: Addr(unsafe.Pointer(&var2))},
		{Name: "var3", Type: "int64", Addr: Addr(unsafe.Pointer(&var3))},
		{Name: "array", Type: "[8]byte", Addr: Addr(unsafe.Pointer(&array))},
	}
	runtime.KeepAlive(var1 + var2)
	runtime.KeepAlive(var3)
	runtime.KeepAlive(array)
	for i := 1; i < len(vars); i++ {
		vars[i].Spacing = int64(vars[i].Addr) - int64(vars[i-1].Addr)
	}
	return vars
}
