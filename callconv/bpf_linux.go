package callconv

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/asm"
	"github.com/cilium/ebpf/rlimit"
)

// A socket filter test run needs at least an Ethernet header of input.
const testRunDataSize = 64

// Run loads insns as a socket filter and executes it once, returning R0.
func Run(name string, insns asm.Instructions) (uint32, error) {
	if err := CheckSubprogramABI(insns); err != nil {
		return 0, err
	}
	if err := rlimit.RemoveMemlock(); err != nil {
		return 0, fmt.Errorf("%w: remove memlock: %v", ErrBPFUnavailable, err)
	}

	prog, err := ebpf.NewProgram(&ebpf.ProgramSpec{
		Name:         name,
		Type:         ebpf.SocketFilter,
		License:      "GPL",
		Instructions: insns,
	})
	if err != nil {
		if unavailable(err) {
			return 0, fmt.Errorf("%w: load %s: %v", ErrBPFUnavailable, name, err)
		}
		return 0, fmt.Errorf("load %s: %w", name, err)
	}
	defer prog.Close()

	ret, err := prog.Run(&ebpf.RunOptions{Data: make([]byte, testRunDataSize)})
	if err != nil {
		if unavailable(err) {
			return 0, fmt.Errorf("%w: run %s: %v", ErrBPFUnavailable, name, err)
		}
		return 0, fmt.Errorf("run %s: %w", name, err)
	}
	slog.Debug("bpf test run", "prog", name, "r0", ret)
	return ret, nil
}

func unavailable(err error) bool {
	return errors.Is(err, ebpf.ErrNotSupported) || errors.Is(err, os.ErrPermission)
}
