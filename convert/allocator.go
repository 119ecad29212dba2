package convert

import (
	"github.com/wippyai/textconv/errors"
)

// DefaultMaxAlloc is the HeapAllocator limit in units when MaxUnits is zero.
const DefaultMaxAlloc = 1 << 28

// Allocator provides output buffers for the unbounded operations.
// Each call must return a zeroed buffer of at least units elements or an error.
type Allocator interface {
	Narrow(units int) ([]byte, error)
	Wide(units int) ([]uint16, error)
}

// HeapAllocator allocates on the Go heap and refuses requests above MaxUnits.
type HeapAllocator struct {
	MaxUnits int
}

func (a HeapAllocator) limit() int {
	if a.MaxUnits > 0 {
		return a.MaxUnits
	}
	return DefaultMaxAlloc
}

func (a HeapAllocator) check(units, unitSize int) error {
	if units < 0 || units > a.limit() {
		return errors.New(errors.PhaseConvert, errors.KindAllocation).
			Value(units).
			Detail("refusing to allocate %d units of %d bytes (limit %d)", units, unitSize, a.limit()).
			Build()
	}
	return nil
}

// Narrow allocates units bytes.
func (a HeapAllocator) Narrow(units int) ([]byte, error) {
	if err := a.check(units, 1); err != nil {
		return nil, err
	}
	return make([]byte, units), nil
}

// Wide allocates units UTF-16 units.
func (a HeapAllocator) Wide(units int) ([]uint16, error) {
	if err := a.check(units, 2); err != nil {
		return nil, err
	}
	return make([]uint16, units), nil
}

var _ Allocator = HeapAllocator{}
