package frame

import (
	"unsafe"

	"github.com/vuvietnguyenit/frame-inspect/regs"
)

// Capture walks the calling goroutine's stack into buf and returns the
// number of records written. The first record is Capture's own frame, so its
// RetAddr lies in the caller.
//
// Capture never grows the stack while it walks, which keeps the frame
// pointers it reads valid. On unsupported platforms it captures nothing.
//
//go:noinline
//go:nosplit
func Capture(buf []Frame) (int, StopReason) {
	return walkLive(regs.ReadFramePointer(), buf)
}

//go:nosplit
//go:nocheckptr
func walkLive(fp uintptr, buf []Frame) (int, StopReason) {
	if fp == 0 {
		return 0, ZeroPointer
	}
	n := 0
	for n < len(buf) {
		saved := *(*uintptr)(unsafe.Pointer(fp))
		buf[n] = Frame{
			FP:      fp,
			SavedFP: saved,
			RetAddr: *(*uintptr)(unsafe.Pointer(fp + WordSize)),
		}
		n++
		if !continues(fp, saved) {
			return n, stopReason(saved)
		}
		fp = saved
	}
	return n, MaxDepth
}
