package overflow

import (
	"fmt"
	"runtime/debug"
	"unsafe"
)

// strcpy copies all of src to dst with no bounds check and returns the number of
// bytes written. dst may point at fewer than len(src) bytes; that is the point.
//
// This is the only function in the repository that writes through a raw pointer.
// It must stay small and must not be used outside the demo.
func strcpy(dst unsafe.Pointer, src []byte) int {
	return copy(unsafe.Slice((*byte)(dst), len(src)), src)
}

// A FaultError is returned when the copy hits inaccessible memory.
type FaultError struct {
	Addr  uintptr // faulting address
	Start uintptr // start of the allocation
	Len   int     // length of the allocation
	Guard uintptr // start of the guard page, if any
}

func (e *FaultError) Error() string {
	end := e.Start + uintptr(e.Len)
	if e.Addr < end {
		return fmt.Sprintf("write faulted at %#x, inside the %d-byte allocation at %#x",
			e.Addr, e.Len, e.Start)
	}
	return fmt.Sprintf("out-of-bounds write faulted at %#x (%d bytes past the %d-byte allocation at %#x)",
		e.Addr, e.Addr-end, e.Len, e.Start)
}

// catchFault runs f with the runtime set to panic, rather than crash, on memory
// faults, and turns such a panic into a *FaultError. Any other panic propagates.
func catchFault(f func()) (err error) {
	defer debug.SetPanicOnFault(debug.SetPanicOnFault(true))
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if fault, ok := r.(interface{ Addr() uintptr }); ok {
			err = &FaultError{Addr: fault.Addr()}
			return
		}
		panic(r)
	}()
	f()
	return nil
}
