//go:build amd64 || arm64

package symbols

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuvietnguyenit/frame-inspect/frame"
	"github.com/vuvietnguyenit/frame-inspect/regs"
)

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(64)
	require.NoError(t, err)
	return r
}

func TestResolveCallerPC(t *testing.T) {
	r := newResolver(t)
	pc := regs.ReadCallerPC()

	sym, err := r.Resolve(pc)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(sym.Name, "TestResolveCallerPC"), sym.Name)
	assert.True(t, strings.HasSuffix(sym.File, "symbols_test.go"), sym.File)
	assert.Equal(t, pc-sym.Entry, sym.Offset)
	assert.Contains(t, sym.String(), "TestResolveCallerPC+0x")
}

func TestResolveCaches(t *testing.T) {
	r := newResolver(t)
	pc := regs.ReadCallerPC()

	first, err := r.Resolve(pc)
	require.NoError(t, err)
	second, err := r.Resolve(pc)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, r.Len())
}

func TestResolveUnknown(t *testing.T) {
	r := newResolver(t)

	_, err := r.Resolve(0)
	assert.True(t, errors.Is(err, ErrUnknownPC))

	_, err = r.Resolve(1)
	assert.ErrorIs(t, err, ErrUnknownPC)
	assert.Equal(t, "0x1", r.Name(1))
}

func TestNewResolverInvalidSize(t *testing.T) {
	_, err := NewResolver(0)
	assert.Error(t, err)
}

//go:noinline
func outer(buf []frame.Frame) int {
	return inner(buf)
}

//go:noinline
func inner(buf []frame.Frame) int {
	n, _ := frame.Capture(buf)
	return n
}

func TestResolveCapturedFrames(t *testing.T) {
	buf := make([]frame.Frame, 8)
	n := outer(buf)
	require.GreaterOrEqual(t, n, 3)

	r := newResolver(t)
	// Capture's own record returns into inner, inner's into outer, and
	// outer's into the test.
	want := []string{".inner", ".outer", ".TestResolveCapturedFrames"}
	for i, suffix := range want {
		sym, err := r.Resolve(buf[i].RetAddr)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(sym.Name, suffix), "frame %d: %s", i, sym.Name)
	}
}
