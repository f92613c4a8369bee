package overflow

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cespare/playground/internal/llog"
)

func TestUserInput(t *testing.T) {
	assert.Equal(t, uint32(4294967286), UserInput)
	assert.Equal(t, uint32(math.MaxUint32-9), UserInput)
}

func TestWrappedSize(t *testing.T) {
	for _, tt := range []struct {
		in   uint32
		want uint32
	}{
		{in: UserInput, want: 1},
		{in: math.MaxUint32, want: 10},
		{in: math.MaxUint32 - 10, want: 0},
		{in: math.MaxUint32 - 11, want: math.MaxUint32},
		{in: math.MaxUint32 - 12, want: math.MaxUint32 - 1},
		{in: 0, want: 11},
		{in: 34, want: 45},
	} {
		if got := WrappedSize(tt.in); got != tt.want {
			t.Errorf("WrappedSize(%d): got %d; want %d", tt.in, got, tt.want)
		}
	}
}

func FuzzWrappedSize(f *testing.F) {
	f.Add(UserInput)
	f.Add(uint32(0))
	f.Add(uint32(math.MaxUint32))
	f.Fuzz(func(t *testing.T, in uint32) {
		want := uint32((uint64(in) + sizePadding) % (1 << 32))
		if got := WrappedSize(in); got != want {
			t.Fatalf("WrappedSize(%d): got %d; want %d", in, got, want)
		}
	})
}

func TestSource(t *testing.T) {
	src := Source()
	require.Len(t, src, 45)
	assert.Equal(t, byte(0), src[len(src)-1])
	assert.Equal(t, -1, bytes.IndexByte(src[:len(src)-1], 0))
	// Callers get their own copy.
	src[0] = 'X'
	assert.Equal(t, byte('E'), Source()[0])
}

func TestOverrun(t *testing.T) {
	src := Source()
	for _, tt := range []struct {
		size uint32
		want int
	}{
		{size: 1, want: 44},
		{size: 9, want: 36},
		{size: 44, want: 1},
		{size: 45, want: 0},
		{size: math.MaxUint32, want: 0},
	} {
		if got := Overrun(tt.size, src); got != tt.want {
			t.Errorf("Overrun(%d): got %d; want %d", tt.size, got, tt.want)
		}
	}
}

func TestRunRedzone(t *testing.T) {
	var out bytes.Buffer
	d := &Demo{Alloc: redzoneAllocator{}, Log: llog.Discard()}
	res, err := d.Run(&out)
	require.NoError(t, err)
	assert.Equal(t, "4294967286\n1\n", out.String())
	assert.Equal(t, &Result{
		UserInput: UserInput,
		Size:      1,
		Copied:    45,
		Overrun:   44,
		Clobbered: 44,
		Observed:  true,
	}, res)
}

type failingAllocator struct{}

func (failingAllocator) String() string { return "failing" }

func (failingAllocator) Alloc(size int) (*Buffer, error) {
	return nil, assert.AnError
}

func TestRunAllocFailure(t *testing.T) {
	var out bytes.Buffer
	d := &Demo{Alloc: failingAllocator{}}
	_, err := d.Run(&out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot allocate 1 bytes")
	// The size computation is reported before the allocation is attempted.
	assert.Equal(t, "4294967286\n1\n", out.String())
}

func TestRedzoneAllocator(t *testing.T) {
	buf, err := redzoneAllocator{}.Alloc(9)
	require.NoError(t, err)
	assert.Equal(t, 9, buf.Len())
	n, ok := buf.Clobbered()
	assert.True(t, ok)
	assert.Equal(t, 0, n)

	// A copy that fits leaves the redzone alone.
	assert.Equal(t, 9, strcpy(buf.ptr, []byte("12345678\x00")))
	n, _ = buf.Clobbered()
	assert.Equal(t, 0, n)

	assert.Equal(t, 10, strcpy(buf.ptr, []byte("123456789\x00")))
	n, _ = buf.Clobbered()
	assert.Equal(t, 1, n)
	require.NoError(t, buf.Free())
}

func TestHeapAllocator(t *testing.T) {
	buf, err := heapAllocator{}.Alloc(9)
	require.NoError(t, err)
	assert.Equal(t, 9, buf.Len())
	_, ok := buf.Clobbered()
	assert.False(t, ok)
	require.NoError(t, buf.Free())
	assert.Error(t, buf.Free())
}

func TestAllocInvalidSize(t *testing.T) {
	for _, a := range []Allocator{heapAllocator{}, redzoneAllocator{}} {
		_, err := a.Alloc(0)
		assert.Error(t, err, a.String())
	}
}

func TestNewAllocator(t *testing.T) {
	for _, name := range []string{"heap", "redzone"} {
		a, err := NewAllocator(name)
		require.NoError(t, err)
		assert.Equal(t, name, a.String())
	}
	_, err := NewAllocator("jemalloc")
	assert.Error(t, err)
}

func TestCatchFaultPassesOtherPanics(t *testing.T) {
	assert.PanicsWithValue(t, "boom", func() {
		catchFault(func() { panic("boom") })
	})
	assert.NoError(t, catchFault(func() {}))
}

func TestFaultErrorMessage(t *testing.T) {
	for _, tt := range []struct {
		fe   FaultError
		want string
	}{
		{
			fe:   FaultError{Addr: 0x2000, Start: 0x1fff, Len: 1, Guard: 0x2000},
			want: "out-of-bounds write faulted at 0x2000 (0 bytes past the 1-byte allocation at 0x1fff)",
		},
		{
			fe:   FaultError{Addr: 0x2010, Start: 0x1ff7, Len: 9, Guard: 0x2000},
			want: "out-of-bounds write faulted at 0x2010 (16 bytes past the 9-byte allocation at 0x1ff7)",
		},
		{
			fe:   FaultError{Addr: 0x1ff8, Start: 0x1ff7, Len: 9},
			want: "write faulted at 0x1ff8, inside the 9-byte allocation at 0x1ff7",
		},
	} {
		assert.Equal(t, tt.want, tt.fe.Error())
	}
}
