package cycles

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// LockToCPU wires the calling goroutine to its OS thread and restricts that
// thread to cpu. The returned function restores the previous affinity and
// unlocks the thread.
func LockToCPU(cpu int) (func(), error) {
	if cpu < 0 {
		return nil, fmt.Errorf("invalid cpu %d", cpu)
	}
	runtime.LockOSThread()

	var old unix.CPUSet
	if err := unix.SchedGetaffinity(0, &old); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("get affinity: %w", err)
	}
	if !old.IsSet(cpu) {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("cpu %d not in allowed set (%d cpus)", cpu, old.Count())
	}

	var set unix.CPUSet
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("set affinity to cpu %d: %w", cpu, err)
	}

	return func() {
		_ = unix.SchedSetaffinity(0, &old)
		runtime.UnlockOSThread()
	}, nil
}

// AllowedCPUs lists the CPUs the calling thread may run on.
func AllowedCPUs() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, fmt.Errorf("get affinity: %w", err)
	}
	var cpus []int
	for i := 0; len(cpus) < set.Count(); i++ {
		if set.IsSet(i) {
			cpus = append(cpus, i)
		}
	}
	return cpus, nil
}
