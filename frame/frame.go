// Package frame walks saved frame-pointer chains.
//
// Each frame pointer addresses a two-word record: the caller's saved frame
// pointer followed by the return address into the caller. Walking stops
// after a depth bound, at a zero saved pointer, or at a saved pointer that
// does not move toward the caller (the stack grows down, so a well formed
// chain strictly increases). These are normal ends of the chain, not errors.
package frame

import (
	"fmt"
	"iter"

	"github.com/vuvietnguyenit/frame-inspect/regs"
)

// WordSize is the size of one slot of a frame record.
const WordSize = regs.WordSize

// Frame is one hop of a frame-pointer chain.
type Frame struct {
	FP      uintptr `json:"fp" yaml:"fp"`
	SavedFP uintptr `json:"saved_fp" yaml:"saved_fp"`
	RetAddr uintptr `json:"ret_addr" yaml:"ret_addr"`
}

// Size is the distance to the caller's frame, or 0 when the chain ends here.
func (f Frame) Size() uintptr {
	if !continues(f.FP, f.SavedFP) {
		return 0
	}
	return f.SavedFP - f.FP
}

func (f Frame) String() string {
	return fmt.Sprintf("fp=0x%x saved_fp=0x%x ret=0x%x", f.FP, f.SavedFP, f.RetAddr)
}

type StopReason uint8

const (
	// Walking is the reason reported while the chain may still yield records.
	Walking StopReason = iota
	MaxDepth
	ZeroPointer
	NonIncreasing
)

func (r StopReason) String() string {
	switch r {
	case Walking:
		return "walking"
	case MaxDepth:
		return "max-depth"
	case ZeroPointer:
		return "zero-pointer"
	case NonIncreasing:
		return "non-increasing"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(r))
	}
}

// continues reports whether a walk at fp may advance to saved.
//
//go:nosplit
func continues(fp, saved uintptr) bool {
	return saved != 0 && saved > fp
}

//go:nosplit
func stopReason(saved uintptr) StopReason {
	if saved == 0 {
		return ZeroPointer
	}
	return NonIncreasing
}

// Chain is a lazy, bounded frame chain. It is consumed by Next and cannot be
// restarted.
type Chain struct {
	mem       Memory
	fp        uintptr
	remaining int
	reason    StopReason
}

// Walk returns the chain starting at the record addressed by start. At most
// maxDepth records are produced. The caller guarantees that start and every
// saved pointer that passes the monotonicity check are readable through mem.
func Walk(mem Memory, start uintptr, maxDepth int) *Chain {
	c := &Chain{mem: mem, fp: start, remaining: maxDepth}
	if start == 0 {
		c.reason = ZeroPointer
	}
	return c
}

// Next returns the next record, or false once the chain has ended.
func (c *Chain) Next() (Frame, bool) {
	if c.reason != Walking {
		return Frame{}, false
	}
	if c.remaining <= 0 {
		c.reason = MaxDepth
		return Frame{}, false
	}

	f := Frame{
		FP:      c.fp,
		SavedFP: c.mem.ReadWord(c.fp),
		RetAddr: c.mem.ReadWord(c.fp + WordSize),
	}
	c.remaining--
	if continues(f.FP, f.SavedFP) {
		c.fp = f.SavedFP
	} else {
		c.reason = stopReason(f.SavedFP)
	}
	return f, true
}

// All yields the remaining records.
func (c *Chain) All() iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for {
			f, ok := c.Next()
			if !ok || !yield(f) {
				return
			}
		}
	}
}

// Collect drains the chain into a slice.
func (c *Chain) Collect() []Frame {
	var frames []Frame
	for f := range c.All() {
		frames = append(frames, f)
	}
	return frames
}

// Reason reports why the chain ended, or Walking while records may remain.
func (c *Chain) Reason() StopReason {
	if c.reason == Walking && c.remaining <= 0 {
		return MaxDepth
	}
	return c.reason
}
