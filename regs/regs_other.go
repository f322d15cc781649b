//go:build !amd64 && !arm64

package regs

const supported = false

func ReadStackPointer() uintptr { return 0 }

func ReadFramePointer() uintptr { return 0 }

func ReadCallerPC() uintptr { return 0 }

func StackGrowsDown() bool { return true }
