//go:build linux

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuvietnguyenit/frame-inspect/frame"
)

func TestExporterObserveWalk(t *testing.T) {
	e := NewExporter("test")
	e.ObserveWalk(3, frame.ZeroPointer)
	e.ObserveWalk(5, frame.MaxDepth)
	e.ObserveWalk(0, frame.MaxDepth)

	assert.Equal(t, 3.0, testutil.ToFloat64(e.walks))
	assert.Equal(t, 8.0, testutil.ToFloat64(e.frames))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.terminations.WithLabelValues("max-depth")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.terminations.WithLabelValues("zero-pointer")))
}

func TestExporterObserveCycles(t *testing.T) {
	e := NewExporter("test")
	e.ObserveCycles("read-sp", []uint64{10, 20, 30})
	e.ObserveCycles("capture", []uint64{400})

	assert.Equal(t, 2, testutil.CollectAndCount(e.cycles))
}

func TestExporterWriteTextfile(t *testing.T) {
	e := NewExporter("run-1")
	e.ObserveWalk(4, frame.NonIncreasing)

	path := filepath.Join(t.TempDir(), "frameinspect.prom")
	require.NoError(t, e.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, `frameinspect_walks_total{run_id="run-1"} 1`), out)
	assert.True(t, strings.Contains(out, `frameinspect_walk_terminations_total{reason="non-increasing",run_id="run-1"} 1`), out)
}

func TestExporterWriteTextfileBadPath(t *testing.T) {
	e := NewExporter("test")
	err := e.WriteTextfile(filepath.Join(t.TempDir(), "missing", "out.prom"))
	assert.Error(t, err)
}
