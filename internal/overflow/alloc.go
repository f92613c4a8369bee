package overflow

import (
	"fmt"
	"unsafe"

	"github.com/pkg/errors"
)

// An Allocator hands out raw buffers for the demo's copy.
type Allocator interface {
	Alloc(size int) (*Buffer, error)
	String() string
}

// A Buffer is a raw allocation of Len bytes.
type Buffer struct {
	ptr   unsafe.Pointer
	n     int
	guard uintptr // first byte of the guard page, 0 if none

	clobbered func() int
	free      func() error
}

func (b *Buffer) Len() int { return b.n }

// Clobbered reports how many bytes past the end of the buffer were modified, if
// the allocator can tell.
func (b *Buffer) Clobbered() (n int, ok bool) {
	if b.clobbered == nil {
		return 0, false
	}
	return b.clobbered(), true
}

// Free releases the buffer. It must be called exactly once.
func (b *Buffer) Free() error {
	if b.free == nil {
		return errors.New("buffer already freed")
	}
	err := b.free()
	b.free = nil
	b.ptr = nil
	return err
}

// NewAllocator returns the allocator called name: "heap", "redzone", or "guard".
func NewAllocator(name string) (Allocator, error) {
	switch name {
	case "heap":
		return heapAllocator{}, nil
	case "redzone":
		return redzoneAllocator{}, nil
	case "guard":
		return newGuardAllocator()
	}
	return nil, fmt.Errorf("unknown allocator %q (want heap, redzone, or guard)", name)
}

// heapAllocator allocates exactly the requested size on the Go heap. Writing past
// the end corrupts whatever the runtime placed next to it.
type heapAllocator struct{}

func (heapAllocator) String() string { return "heap" }

func (heapAllocator) Alloc(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid allocation size %d", size)
	}
	b := make([]byte, size)
	return &Buffer{
		ptr:  unsafe.Pointer(&b[0]),
		n:    size,
		free: func() error { return nil },
	}, nil
}

const (
	redzoneSize   = 64
	redzonePoison = 0xfa
)

// redzoneAllocator carves the buffer out of the front of a larger array and fills
// the rest with a poison byte, so that an overrun lands in memory it owns.
type redzoneAllocator struct{}

func (redzoneAllocator) String() string { return "redzone" }

func (redzoneAllocator) Alloc(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid allocation size %d", size)
	}
	backing := make([]byte, size+redzoneSize)
	zone := backing[size:]
	for i := range zone {
		zone[i] = redzonePoison
	}
	return &Buffer{
		ptr: unsafe.Pointer(&backing[0]),
		n:   size,
		clobbered: func() int {
			return clobberedExtent(zone)
		},
		free: func() error { return nil },
	}, nil
}

// clobberedExtent returns the length of the prefix of zone that ends with the
// last non-poison byte.
func clobberedExtent(zone []byte) int {
	for i := len(zone) - 1; i >= 0; i-- {
		if zone[i] != redzonePoison {
			return i + 1
		}
	}
	return 0
}
