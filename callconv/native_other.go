//go:build !amd64 && !arm64

package callconv

func Return42() int32 { return 42 }

func AddTwo(a, b int32) int32 { return a + b }
