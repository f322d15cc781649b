//go:build linux && (amd64 || arm64)

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gopkg.in/yaml.v3"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := RootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func executeJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, err := execute(t, append(args, "--output", "json")...)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), v), out)
}

type walkOutput struct {
	Walks []struct {
		Goroutine int              `json:"goroutine"`
		Reason    string           `json:"reason"`
		Frames    []map[string]any `json:"frames"`
	} `json:"walks"`
	Top []map[string]any `json:"top"`
}

func TestProbe(t *testing.T) {
	var got map[string]any
	executeJSON(t, &got, "probe")

	assert.Equal(t, runtime.GOARCH, got["arch"])
	assert.Equal(t, true, got["supported"])
	assert.Equal(t, true, got["stack_grows_down"])
	assert.NotEqual(t, "0x0000000000000000", got["stack_pointer"])
	assert.NotEqual(t, "0x0000000000000000", got["frame_pointer"])
	assert.Contains(t, got["caller_func"], ".takeProbe+")
}

func TestProbeTable(t *testing.T) {
	out, err := execute(t, "probe")
	require.NoError(t, err)
	assert.Contains(t, out, "frame pointer")
	assert.Contains(t, out, runtime.GOARCH)
}

func TestWalk(t *testing.T) {
	var got walkOutput
	executeJSON(t, &got, "walk", "--goroutines", "2", "--depth", "5", "--nest", "3", "--top", "2")

	require.Len(t, got.Walks, 2)
	for i, w := range got.Walks {
		assert.Equal(t, i, w.Goroutine)
		assert.Equal(t, "max-depth", w.Reason)
		require.Len(t, w.Frames, 5)

		var sawNest bool
		for _, f := range w.Frames {
			if strings.Contains(f["func"].(string), ".nest+") {
				sawNest = true
			}
		}
		assert.True(t, sawNest, "no frame returns into nest: %v", w.Frames)
	}
	assert.Len(t, got.Top, 2)
}

func TestWalkZeroDepth(t *testing.T) {
	var got walkOutput
	executeJSON(t, &got, "walk", "--depth", "0")

	require.Len(t, got.Walks, 1)
	assert.Empty(t, got.Walks[0].Frames)
	assert.Equal(t, "max-depth", got.Walks[0].Reason)
}

func TestWalkTable(t *testing.T) {
	out, err := execute(t, "walk", "--depth", "4", "--no-symbols")
	require.NoError(t, err)
	assert.Contains(t, out, "RETURNS INTO")
	assert.Contains(t, out, "STACK USED")
	assert.NotContains(t, out, ".nest+")

	var got walkOutput
	executeJSON(t, &got, "walk", "--depth", "4", "--no-symbols")
	require.Len(t, got.Walks, 1)
	require.Len(t, got.Walks[0].Frames, 4)
	for _, f := range got.Walks[0].Frames {
		assert.Regexp(t, `^0x[0-9a-f]{16}$`, f["func"])
		assert.Equal(t, f["ret_addr"], f["func"])
	}
}

func TestGrowth(t *testing.T) {
	var got struct {
		GrowsDown bool `json:"grows_down"`
		Levels    []struct {
			Depth int   `json:"depth"`
			Delta int64 `json:"delta"`
		} `json:"levels"`
		Locals []map[string]any `json:"locals"`
	}
	executeJSON(t, &got, "growth", "--depth", "6")

	assert.True(t, got.GrowsDown)
	require.Len(t, got.Levels, 6)
	for _, l := range got.Levels[1:] {
		assert.Negative(t, l.Delta, "depth %d", l.Depth)
	}
	assert.Len(t, got.Locals, 4)
}

func TestGrowthDeepRecursion(t *testing.T) {
	var got struct {
		Levels []struct {
			Depth int   `json:"depth"`
			Delta int64 `json:"delta"`
		} `json:"levels"`
	}
	executeJSON(t, &got, "growth", "--depth", "5000")

	require.Len(t, got.Levels, 5000)
	step := got.Levels[1].Delta
	require.Negative(t, step)
	for _, l := range got.Levels[1:] {
		if l.Delta != step {
			t.Fatalf("depth %d: delta %d, want %d (stack moved while recording)", l.Depth, l.Delta, step)
		}
	}
}

func TestWarmupFlagHelp(t *testing.T) {
	f := RootCmd().PersistentFlags().Lookup("warmup")
	require.NotNil(t, f)
	assert.Contains(t, f.Usage, "per op before sampling")
}

func TestBench(t *testing.T) {
	var got struct {
		Iterations int `json:"iterations"`
		Results    []struct {
			Op    string `json:"op"`
			Stats struct {
				Samples int `json:"samples"`
			} `json:"stats"`
		} `json:"results"`
	}
	executeJSON(t, &got, "bench", "--iterations", "5", "--warmup", "0")

	assert.Equal(t, 5, got.Iterations)
	require.Len(t, got.Results, len(benchOps()))
	for _, r := range got.Results {
		assert.Equal(t, 5, r.Stats.Samples, r.Op)
	}
}

func TestCallconv(t *testing.T) {
	var got struct {
		Results []struct {
			Name     string `json:"name"`
			Kind     string `json:"kind"`
			Got      int32  `json:"got"`
			Skipped  string `json:"skipped"`
			Listing  string `json:"listing"`
			Verified bool   `json:"verified"`
		} `json:"results"`
	}
	executeJSON(t, &got, "callconv")

	require.Len(t, got.Results, 4)
	for _, r := range got.Results {
		if r.Skipped != "" {
			assert.Equal(t, "ebpf", r.Kind)
			continue
		}
		assert.True(t, r.Verified, r.Name)
		assert.Equal(t, int32(42), r.Got, r.Name)
	}
	assert.Contains(t, got.Results[3].Listing, "add_two")
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("FRAMEINSPECT_DEPTH", "3")
	t.Setenv("FRAMEINSPECT_OUTPUT", "yaml")

	out, err := execute(t, "walk")
	require.NoError(t, err)

	var got walkOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &got), out)
	require.Len(t, got.Walks, 1)
	assert.Len(t, got.Walks[0].Frames, 3)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frameinspect.yaml")
	require.NoError(t, os.WriteFile(path, []byte("depth: 2\ngoroutines: 3\n"), 0o644))

	var got walkOutput
	executeJSON(t, &got, "walk", "--config", path)
	require.Len(t, got.Walks, 3)
	assert.Len(t, got.Walks[0].Frames, 2)

	// flags beat the file
	executeJSON(t, &got, "walk", "--config", path, "--depth", "4")
	assert.Len(t, got.Walks[0].Frames, 4)
}

func TestConfigFileMissing(t *testing.T) {
	_, err := execute(t, "probe", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestInvalidFlags(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"probe", "--output", "xml"}, "invalid --output"},
		{[]string{"walk", "--goroutines", "0"}, "--goroutines"},
		{[]string{"walk", "--depth", "-1"}, "--depth"},
		{[]string{"bench", "--iterations", "0"}, "--iterations"},
		{[]string{"probe", "--log-verbose", "LOUD"}, "invalid log level"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestMetricsTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frameinspect.prom")
	_, err := execute(t, "walk", "--goroutines", "2", "--depth", "3", "--metrics-textfile", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "frameinspect_walks_total")
	assert.Contains(t, string(data), `reason="max-depth"`)
	assert.Contains(t, string(data), "run_id=\""+run.ID+"\"")
}
