//go:build amd64 || arm64

package cycles

const supported = true

func readCounterHalves() (lo, hi uint32)
