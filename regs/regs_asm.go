//go:build amd64 || arm64

package regs

import "unsafe"

const supported = true

// ReadStackPointer returns the stack pointer of the calling function.
func ReadStackPointer() uintptr

// ReadFramePointer returns the frame pointer of the calling function. The
// word at the returned address is the caller's saved frame pointer and the
// next word is the caller's return address.
func ReadFramePointer() uintptr

// ReadCallerPC returns the return address of this call, a PC inside the
// calling function.
func ReadCallerPC() uintptr

// StackGrowsDown reports whether the stack grows toward lower addresses.
// It compares its own frame pointer with the saved one, both of which live
// in the current stack and move together if the stack is copied.
//
//go:noinline
//go:nocheckptr
func StackGrowsDown() bool {
	fp := ReadFramePointer()
	return *(*uintptr)(unsafe.Pointer(fp)) > fp
}
