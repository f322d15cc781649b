// Package cycles reads the processor cycle counter and measures call
// overhead with it.
//
// The counter is monotonic per logical CPU only; use LockToCPU to keep a
// measurement on one CPU.
package cycles

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
)

var ErrUnsupportedPlatform = errors.New("cycle counter not available")

func Check() error {
	if !supported {
		return fmt.Errorf("%w on %s", ErrUnsupportedPlatform, runtime.GOARCH)
	}
	return nil
}

// ReadCounter returns the current value of the cycle counter.
func ReadCounter() uint64 {
	lo, hi := readCounterHalves()
	return combine(lo, hi)
}

func combine(lo, hi uint32) uint64 {
	return uint64(hi)<<32 | uint64(lo)
}

// Measure calls fn warmup times, then returns the cycles elapsed around one
// more call. A counter that went backwards (CPU migration) yields 0.
func Measure(fn func(), warmup int) uint64 {
	for i := 0; i < warmup; i++ {
		fn()
	}
	start := ReadCounter()
	fn()
	end := ReadCounter()
	if end < start {
		return 0
	}
	return end - start
}

// Sample measures n calls of fn, one warmup call before each.
func Sample(fn func(), n int) []uint64 {
	samples := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, Measure(fn, 1))
	}
	return samples
}

type Stats struct {
	Samples int     `json:"samples" yaml:"samples"`
	Min     uint64  `json:"min" yaml:"min"`
	Max     uint64  `json:"max" yaml:"max"`
	Median  uint64  `json:"median" yaml:"median"`
	Mean    float64 `json:"mean" yaml:"mean"`
}

// Summarize computes order statistics of samples. The input is not modified.
func Summarize(samples []uint64) Stats {
	if len(samples) == 0 {
		return Stats{}
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	var sum float64
	for _, s := range sorted {
		sum += float64(s)
	}
	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}
	return Stats{
		Samples: len(sorted),
		Min:     sorted[0],
		Max:     sorted[len(sorted)-1],
		Median:  median,
		Mean:    sum / float64(len(sorted)),
	}
}
