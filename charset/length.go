package charset

import (
	"math"

	"github.com/wippyai/textconv/errors"
)

// Terminated is the source length sentinel: scan for the first zero unit.
const Terminated = -1

// DefaultMaxScan bounds terminator scans when no limit is configured.
const DefaultMaxScan = 1 << 20

// Unit is a narrow or wide code unit.
type Unit interface {
	~uint8 | ~uint16
}

// Scan returns the index of the first zero unit in src[:limit], or -1.
func Scan[U Unit](src []U, limit int) int {
	if limit > len(src) {
		limit = len(src)
	}
	for i := 0; i < limit; i++ {
		if src[i] == 0 {
			return i
		}
	}
	return -1
}

// Length returns the effective length of src for an explicit count n or Terminated.
// maxScan <= 0 selects DefaultMaxScan.
func Length[U Unit](src []U, n int, maxScan int) (int, error) {
	if n >= 0 {
		if n > len(src) {
			return 0, errors.OutOfBounds(errors.PhaseScan, n, len(src))
		}
		return n, nil
	}
	if n != Terminated {
		return 0, errors.New(errors.PhaseScan, errors.KindInvalidInput).
			Value(n).
			Detail("negative length %d is not the terminator sentinel", n).
			Build()
	}

	if maxScan <= 0 {
		maxScan = DefaultMaxScan
	}
	if i := Scan(src, maxScan); i >= 0 {
		return i, nil
	}
	if len(src) <= maxScan {
		return len(src), nil
	}
	return 0, errors.Unterminated(errors.PhaseScan, maxScan)
}

// ContentCap returns the number of content units a destination of the given
// capacity can hold, leaving room for the terminator.
func ContentCap(capacity int) (int, error) {
	if capacity < 1 {
		return 0, errors.New(errors.PhaseConvert, errors.KindInvalidInput).
			Value(capacity).
			Detail("destination capacity %d leaves no room for a terminator", capacity).
			Build()
	}
	return capacity - 1, nil
}

// AllocUnits returns n+1, the unit count of an allocation holding n content units.
func AllocUnits(n int) (int, error) {
	if n < 0 || n == math.MaxInt {
		return 0, errors.New(errors.PhaseConvert, errors.KindAllocation).
			Value(n).
			Detail("cannot size allocation for %d units", n).
			Build()
	}
	return n + 1, nil
}

// ByteSize returns the byte size of units units of e in a 32-bit address space.
func ByteSize(e Encoding, units uint64) (uint32, error) {
	size := units * uint64(e.UnitSize())
	if size > math.MaxUint32 {
		return 0, errors.New(errors.PhaseMemory, errors.KindAllocation).
			Value(units).
			Detail("%d %s units overflow a 32-bit address space", units, e).
			Build()
	}
	return uint32(size), nil
}
