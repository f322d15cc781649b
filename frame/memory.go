package frame

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// Memory reads machine words by address.
type Memory interface {
	ReadWord(addr uintptr) uintptr
}

type liveMemory struct{}

// Live reads the memory of the current process. Reading an address that is
// not mapped crashes the process; callers must only pass frame pointers of
// their own, non-moving stack.
var Live Memory = liveMemory{}

//go:nosplit
//go:nocheckptr
func (liveMemory) ReadWord(addr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(addr))
}

// Buffer is a synthetic memory region starting at Base. It is used to build
// frame chains with known contents.
type Buffer struct {
	Base uintptr
	mem  []byte
}

func NewBuffer(base uintptr, size int) *Buffer {
	return &Buffer{Base: base, mem: make([]byte, size)}
}

func (b *Buffer) Len() int { return len(b.mem) }

func (b *Buffer) offset(addr uintptr) int {
	n := uintptr(len(b.mem))
	if addr < b.Base || n < WordSize || addr-b.Base > n-WordSize {
		panic(fmt.Sprintf("frame: read of 0x%x outside buffer [0x%x, 0x%x)",
			addr, b.Base, b.Base+uintptr(len(b.mem))))
	}
	return int(addr - b.Base)
}

// ReadWord panics when addr does not lie inside the buffer.
func (b *Buffer) ReadWord(addr uintptr) uintptr {
	off := b.offset(addr)
	if WordSize == 8 {
		return uintptr(binary.NativeEndian.Uint64(b.mem[off:]))
	}
	return uintptr(binary.NativeEndian.Uint32(b.mem[off:]))
}

func (b *Buffer) PutWord(addr, v uintptr) {
	off := b.offset(addr)
	if WordSize == 8 {
		binary.NativeEndian.PutUint64(b.mem[off:], uint64(v))
		return
	}
	binary.NativeEndian.PutUint32(b.mem[off:], uint32(v))
}

// PutFrame writes the two-word record [savedFP, retAddr] at fp.
func (b *Buffer) PutFrame(fp, savedFP, retAddr uintptr) {
	b.PutWord(fp, savedFP)
	b.PutWord(fp+WordSize, retAddr)
}
