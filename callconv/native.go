//go:build amd64 || arm64

package callconv

// Return42 stores the constant 42 into its result slot.
func Return42() int32

// AddTwo returns a + b.
func AddTwo(a, b int32) int32
