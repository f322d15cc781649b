// Package regs reads the stack pointer, frame pointer and caller PC of the
// calling goroutine.
//
// Every read is a frameless NOSPLIT assembly routine: it touches no memory,
// allocates no stack and preserves flags. The values describe the machine
// state at the call site only. Goroutine stacks move when they grow, so a
// value must not be dereferenced after any call that may grow the stack.
package regs

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"
)

// WordSize is the size in bytes of one machine word.
const WordSize = unsafe.Sizeof(uintptr(0))

// Arch is the architecture the probe was built for.
const Arch = runtime.GOARCH

var ErrUnsupportedPlatform = errors.New("register probe not available")

// Check reports whether the probe is usable on this build.
func Check() error {
	if !supported {
		return fmt.Errorf("%w on %s", ErrUnsupportedPlatform, Arch)
	}
	return nil
}
