//go:build linux

package main

import (
	"fmt"
	"os"
	"os/user"
	"strings"
)

type ProcessInfo struct {
	PID  Pid  `json:"pid" yaml:"pid"`
	Comm Comm `json:"comm" yaml:"comm"`
	UID  Uid  `json:"uid" yaml:"uid"`
}

func currentProcess() *ProcessInfo {
	p := &ProcessInfo{
		PID: Pid(os.Getpid()),
		UID: Uid(os.Getuid()),
	}
	if data, err := os.ReadFile("/proc/self/comm"); err == nil {
		p.Comm = Comm(strings.TrimSpace(string(data)))
	}
	return p
}

// Get full command by PID
func (p *ProcessInfo) FullCommand() (string, error) {
	cmdPath := fmt.Sprintf("/proc/%d/cmdline", p.PID)
	data, err := os.ReadFile(cmdPath)
	if err != nil {
		return "", err
	}
	// cmdline is null-separated
	return strings.TrimRight(strings.ReplaceAll(string(data), "\x00", " "), " "), nil
}

// Get username of UID
func (p *ProcessInfo) Username() (string, error) {
	usr, err := user.LookupId(fmt.Sprint(p.UID))
	if err != nil {
		return "", err
	}
	return usr.Username, nil
}
