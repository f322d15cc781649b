//go:build linux

package main

import "fmt"

type Addr uintptr
type FrameSize uint64
type Pid int
type Tid int
type Uid uint32 // For example: 0 = root
type Comm string

func (a Addr) String() string {
	return fmt.Sprintf("0x%016x", uint64(a))
}

func (a Addr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Human-readable format for size
func (s FrameSize) HumanSize() string {
	val := float64(s)
	units := []string{"B", "KB", "MB", "GB", "TB"}
	i := 0
	for val >= 1024 && i < len(units)-1 {
		val /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d %s", s, units[i])
	}
	return fmt.Sprintf("%.2f %s", val, units[i])
}
