//go:build linux

package main

import "golang.org/x/sys/unix"

type ThreadInfo struct {
	P         *ProcessInfo `json:"-" yaml:"-"`
	TID       Tid          `json:"tid" yaml:"tid"`
	Goroutine int          `json:"goroutine" yaml:"goroutine"`
}

// NewThreadInfo describes the OS thread the caller runs on. The caller
// should hold runtime.LockOSThread for the TID to stay meaningful.
func NewThreadInfo(p *ProcessInfo, goroutine int) *ThreadInfo {
	return &ThreadInfo{
		P:         p,
		TID:       Tid(unix.Gettid()),
		Goroutine: goroutine,
	}
}
