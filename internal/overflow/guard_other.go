//go:build !linux

package overflow

import "github.com/pkg/errors"

func newGuardAllocator() (Allocator, error) {
	return nil, errors.New("the guard allocator is only supported on linux")
}
