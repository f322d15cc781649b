//go:build !amd64 && !arm64

package cycles

const supported = false

func readCounterHalves() (lo, hi uint32) { return 0, 0 }
