//go:build !linux

package callconv

import (
	"fmt"
	"runtime"

	"github.com/cilium/ebpf/asm"
)

func Run(name string, insns asm.Instructions) (uint32, error) {
	return 0, fmt.Errorf("%w on %s", ErrBPFUnavailable, runtime.GOOS)
}
