// Package overflow reproduces an unsigned integer wraparound that produces an
// undersized allocation, followed by a copy that runs past the end of it.
//
// The size arithmetic is ordinary Go. The copy itself is the one deliberate
// memory-safety defect in this repository and lives alone in unsafe.go.
package overflow

import (
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/cespare/playground/internal/llog"
)

// UserInput is the pretend user-supplied length: the largest uint32 minus nine.
const UserInput uint32 = math.MaxUint32 - 9

// sizePadding is added to the user input to get the allocation size.
const sizePadding = 11

const text = "Example data that exceeds allocated storage."

// Source returns the bytes copied into the allocation: text plus a NUL
// terminator, 45 bytes in all.
func Source() []byte {
	return append([]byte(text), 0)
}

// WrappedSize computes the allocation size for userInput. The addition is done in
// uint32 and wraps: UserInput+11 is 2^32+1, so WrappedSize(UserInput) is 1.
func WrappedSize(userInput uint32) uint32 {
	return userInput + sizePadding
}

// Overrun reports how many bytes of src land past an allocation of size bytes.
func Overrun(size uint32, src []byte) int {
	if uint64(len(src)) <= uint64(size) {
		return 0
	}
	return len(src) - int(size)
}

// A Result records what one run of the demo did.
type Result struct {
	UserInput uint32
	Size      uint32
	Copied    int // bytes written, terminator included
	Overrun   int // bytes written past the allocation

	// Clobbered is the number of bytes past the allocation that the allocator
	// observed being modified. It is only meaningful if Observed is set.
	Clobbered int
	Observed  bool
}

type Demo struct {
	Alloc Allocator
	Log   *llog.Logger
}

// Run prints the user input and the wrapped size to w, one per line, then
// allocates the wrapped size and copies Source into it.
//
// If the allocator places a guard page after the buffer, the copy faults and
// Run returns a *FaultError along with the partial result.
func (d *Demo) Run(w io.Writer) (*Result, error) {
	log := d.Log
	if log == nil {
		log = llog.Discard()
	}
	res := &Result{UserInput: UserInput}
	if _, err := fmt.Fprintf(w, "%d\n", res.UserInput); err != nil {
		return nil, err
	}
	res.Size = WrappedSize(res.UserInput)
	if _, err := fmt.Fprintf(w, "%d\n", res.Size); err != nil {
		return nil, err
	}

	buf, err := d.Alloc.Alloc(int(res.Size))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot allocate %d bytes", res.Size)
	}
	src := Source()
	res.Overrun = Overrun(res.Size, src)
	log.Debugf("copying %d bytes into a %d-byte %s allocation (%d past the end)",
		len(src), buf.Len(), d.Alloc, res.Overrun)

	copyErr := catchFault(func() {
		res.Copied = strcpy(buf.ptr, src)
	})
	if copyErr != nil {
		if fe, ok := copyErr.(*FaultError); ok {
			fe.Start = uintptr(buf.ptr)
			fe.Len = buf.Len()
			fe.Guard = buf.guard
		}
	} else {
		res.Clobbered, res.Observed = buf.Clobbered()
	}

	if err := buf.Free(); err != nil {
		return res, errors.Wrap(err, "cannot free buffer")
	}
	return res, copyErr
}
