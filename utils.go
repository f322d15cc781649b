//go:build linux

package main

import "sort"

// nest recurses depth times before calling fn, leaving depth frames of its
// own on the stack.
//
//go:noinline
func nest(depth int, fn func()) {
	if depth <= 0 {
		fn()
		return
	}
	nest(depth-1, fn)
}

func setToSlice(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
