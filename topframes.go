//go:build linux

package main

import (
	"container/heap"
	"io"
	"sort"
	"strconv"
)

// FrameEntry is one frame considered for the largest-frames listing.
type FrameEntry struct {
	Goroutine int       `json:"goroutine" yaml:"goroutine"`
	Depth     int       `json:"depth" yaml:"depth"`
	Size      FrameSize `json:"size" yaml:"size"`
	Func      string    `json:"func" yaml:"func"`
}

// ---- Heap implementation ----
type MinHeap []FrameEntry

func (h MinHeap) Len() int            { return len(h) }
func (h MinHeap) Less(i, j int) bool  { return h[i].Size < h[j].Size } // smallest first
func (h MinHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *MinHeap) Push(x interface{}) { *h = append(*h, x.(FrameEntry)) }
func (h *MinHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ---- Tracker ----
type TopFrameTracker struct {
	N    int
	data *MinHeap
}

func NewTopFrameTracker(n int) *TopFrameTracker {
	h := &MinHeap{}
	heap.Init(h)
	return &TopFrameTracker{N: n, data: h}
}

func (t *TopFrameTracker) Add(e FrameEntry) {
	if t.N <= 0 || e.Size == 0 {
		return
	}
	if t.data.Len() < t.N {
		heap.Push(t.data, e)
	} else if (*t.data)[0].Size < e.Size {
		heap.Pop(t.data)     // remove smallest
		heap.Push(t.data, e) // push new one
	}
}

// Top returns the tracked frames, largest first.
func (t *TopFrameTracker) Top() []FrameEntry {
	result := make([]FrameEntry, len(*t.data))
	copy(result, *t.data)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Size > result[j].Size
	})
	return result
}

func printTop(w io.Writer, entries []FrameEntry) error {
	table := newTable(w, []string{"G", "DEPTH", "SIZE", "FUNC"})
	for _, e := range entries {
		row := []string{
			strconv.Itoa(e.Goroutine),
			strconv.Itoa(e.Depth),
			e.Size.HumanSize(),
			e.Func,
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
