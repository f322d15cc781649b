// Package callconv calls tiny functions that have no frame of their own and
// return their result without touching the stack of the callee.
//
// The native functions are frameless assembly writing the caller's result
// slot. The eBPF programs pass arguments in R1 and R2 and return in R0, and
// are executed once through the kernel's test-run interface.
package callconv

import "errors"

// ErrBPFUnavailable reports that the kernel refused to load or run a program,
// usually for lack of privileges or BPF support.
var ErrBPFUnavailable = errors.New("eBPF test run unavailable")
