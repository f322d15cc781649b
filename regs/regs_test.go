//go:build amd64 || arm64

package regs

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pinStack grows the goroutine stack well past what the tests use and stops
// the GC from shrinking it, so that no stack copy happens while raw
// addresses are held in uintptrs.
func pinStack(t *testing.T) {
	t.Helper()
	growStack()
	old := debug.SetGCPercent(-1)
	t.Cleanup(func() { debug.SetGCPercent(old) })
}

//go:noinline
func growStack() {
	var pad [64 << 10]byte
	touch(pad[:])
}

//go:noinline
func touch(b []byte) {
	for i := 0; i < len(b); i += 4096 {
		b[i] = 1
	}
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check())
}

func TestStackPointerStable(t *testing.T) {
	sp1 := ReadStackPointer()
	sp2 := ReadStackPointer()
	require.NotZero(t, sp1)

	diff := sp1 - sp2
	if sp2 > sp1 {
		diff = sp2 - sp1
	}
	assert.LessOrEqual(t, diff, 4*WordSize)
}

func TestFramePointerStable(t *testing.T) {
	fp1 := ReadFramePointer()
	fp2 := ReadFramePointer()
	require.NotZero(t, fp1)
	assert.Equal(t, fp1, fp2)
}

//go:noinline
func recordSP(depth int, out []uintptr) {
	out[depth] = ReadStackPointer()
	if depth+1 < len(out) {
		recordSP(depth+1, out)
	}
}

func TestStackPointerDecreasesWithDepth(t *testing.T) {
	pinStack(t)

	sps := make([]uintptr, 8)
	recordSP(0, sps)
	for i := 1; i < len(sps); i++ {
		assert.Less(t, sps[i], sps[i-1], "depth %d", i)
	}
}

//go:noinline
//go:nocheckptr
func childFrame() (fp, saved uintptr) {
	fp = ReadFramePointer()
	saved = *(*uintptr)(unsafe.Pointer(fp))
	return fp, saved
}

func TestFramePointerLinksToCaller(t *testing.T) {
	pinStack(t)

	parent := ReadFramePointer()
	fp, saved := childFrame()
	assert.Equal(t, parent, saved)
	assert.Less(t, fp, parent)
}

func TestReadCallerPC(t *testing.T) {
	pc := ReadCallerPC()
	fn := runtime.FuncForPC(pc)
	require.NotNil(t, fn)
	assert.True(t, strings.HasSuffix(fn.Name(), "TestReadCallerPC"), fn.Name())
}

func TestStackGrowsDown(t *testing.T) {
	assert.True(t, StackGrowsDown())
}
