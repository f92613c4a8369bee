package overflow

import (
	"fmt"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// guardAllocator maps fresh pages for each buffer and places the buffer so that
// it ends exactly where an inaccessible guard page begins.
type guardAllocator struct {
	pageSize int
}

func newGuardAllocator() (Allocator, error) {
	return guardAllocator{pageSize: unix.Getpagesize()}, nil
}

func (guardAllocator) String() string { return "guard" }

func (a guardAllocator) Alloc(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid allocation size %d", size)
	}
	dataLen := (size + a.pageSize - 1) / a.pageSize * a.pageSize
	mem, err := unix.Mmap(-1, 0, dataLen+a.pageSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, errors.Wrap(err, "cannot map buffer")
	}
	if err := unix.Mprotect(mem[dataLen:], unix.PROT_NONE); err != nil {
		unix.Munmap(mem)
		return nil, errors.Wrap(err, "cannot protect guard page")
	}
	return &Buffer{
		ptr:   unsafe.Pointer(&mem[dataLen-size]),
		n:     size,
		guard: uintptr(unsafe.Pointer(&mem[dataLen])),
		free: func() error {
			return unix.Munmap(mem)
		},
	}, nil
}
