//go:build linux

package main

import (
	"fmt"
	"runtime"

	"github.com/vuvietnguyenit/frame-inspect/frame"
	"github.com/vuvietnguyenit/frame-inspect/symbols"
)

type StackInfo struct {
	T      *ThreadInfo
	Frames []frame.Frame
	Reason frame.StopReason
}

// captureStack runs nestDepth non-inlined calls deep on a locked thread and
// captures up to maxDepth frames there.
func captureStack(p *ProcessInfo, goroutine, nestDepth, maxDepth int) *StackInfo {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	s := &StackInfo{T: NewThreadInfo(p, goroutine)}
	buf := make([]frame.Frame, maxDepth)
	var n int
	nest(nestDepth, func() {
		n, s.Reason = frame.Capture(buf)
	})
	s.Frames = buf[:n]
	return s
}

func (s *StackInfo) QueryTraces(r *symbols.Resolver) []string {
	traces := make([]string, 0, len(s.Frames))
	for i, f := range s.Frames {
		traces = append(traces, fmt.Sprintf("#%-2d %s %s", i, Addr(f.FP), r.Name(f.RetAddr)))
	}
	return traces
}
