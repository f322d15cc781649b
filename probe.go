//go:build linux

package main

import (
	"runtime"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vuvietnguyenit/frame-inspect/regs"
	"github.com/vuvietnguyenit/frame-inspect/symbols"
)

// ProbeReport is one register snapshot of the calling goroutine.
type ProbeReport struct {
	RunID          string      `json:"run_id" yaml:"run_id"`
	Arch           string      `json:"arch" yaml:"arch"`
	WordSize       int         `json:"word_size" yaml:"word_size"`
	Supported      bool        `json:"supported" yaml:"supported"`
	StackPointer   Addr        `json:"stack_pointer" yaml:"stack_pointer"`
	FramePointer   Addr        `json:"frame_pointer" yaml:"frame_pointer"`
	CallerPC       Addr        `json:"caller_pc" yaml:"caller_pc"`
	CallerFunc     string      `json:"caller_func" yaml:"caller_func"`
	StackGrowsDown bool        `json:"stack_grows_down" yaml:"stack_grows_down"`
	Process        ProcessInfo `json:"process" yaml:"process"`
	User           string      `json:"user,omitempty" yaml:"user,omitempty"`
	Command        string      `json:"command,omitempty" yaml:"command,omitempty"`
	TID            Tid         `json:"tid" yaml:"tid"`
}

func probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Read the stack pointer, frame pointer and caller PC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := symbols.NewResolver(64)
			if err != nil {
				return err
			}
			rep := takeProbe(r)
			if FlagOutput != outputTable {
				return encode(cmd.OutOrStdout(), FlagOutput, rep)
			}
			heading(cmd, "Register probe (%s/%d-bit)", rep.Arch, rep.WordSize*8)
			return printKV(cmd.OutOrStdout(), rep.rows())
		},
	}
}

// takeProbe reads all registers from one frame so that SP, FP and the caller
// PC describe the same activation.
//
//go:noinline
func takeProbe(r *symbols.Resolver) *ProbeReport {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	sp := regs.ReadStackPointer()
	fp := regs.ReadFramePointer()
	pc := regs.ReadCallerPC()

	rep := &ProbeReport{
		RunID:        run.ID,
		Arch:         regs.Arch,
		WordSize:     int(regs.WordSize),
		Supported:    run.ProbeErr == nil,
		StackPointer: Addr(sp),
		FramePointer: Addr(fp),
		CallerPC:     Addr(pc),
		Process:      *run.Process,
		TID:          NewThreadInfo(run.Process, 0).TID,
	}
	if rep.Supported {
		rep.StackGrowsDown = regs.StackGrowsDown()
		rep.CallerFunc = funcName(r, pc)
	}
	if u, err := run.Process.Username(); err == nil {
		rep.User = u
	}
	if c, err := run.Process.FullCommand(); err == nil {
		rep.Command = c
	}
	return rep
}

func (rep *ProbeReport) rows() [][2]string {
	return [][2]string{
		{"run id", rep.RunID},
		{"arch", rep.Arch},
		{"word size", strconv.Itoa(rep.WordSize)},
		{"supported", strconv.FormatBool(rep.Supported)},
		{"stack pointer", rep.StackPointer.String()},
		{"frame pointer", rep.FramePointer.String()},
		{"caller pc", rep.CallerPC.String()},
		{"caller func", rep.CallerFunc},
		{"stack grows down", strconv.FormatBool(rep.StackGrowsDown)},
		{"pid", strconv.Itoa(int(rep.Process.PID))},
		{"comm", string(rep.Process.Comm)},
		{"user", rep.User},
		{"tid", strconv.Itoa(int(rep.TID))},
	}
}

// funcName symbolizes pc unless --no-symbols is set.
func funcName(r *symbols.Resolver, pc uintptr) string {
	if FlagNoSymbols {
		return Addr(pc).String()
	}
	return r.Name(pc)
}
