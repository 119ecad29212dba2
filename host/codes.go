package host

import (
	"github.com/wippyai/textconv/errors"
)

// Error codes returned to guests in place of a length.
const (
	CodeInvalidInput int32 = -1
	CodeMalformed    int32 = -2
	CodeAllocation   int32 = -3
	CodeOutOfBounds  int32 = -4
	CodeUnterminated int32 = -5
	CodeUnsupported  int32 = -6
)

// Code maps an error to its guest error code.
func Code(err error) int32 {
	switch errors.KindOf(err) {
	case errors.KindMalformed:
		return CodeMalformed
	case errors.KindAllocation:
		return CodeAllocation
	case errors.KindOutOfBounds:
		return CodeOutOfBounds
	case errors.KindUnterminated:
		return CodeUnterminated
	case errors.KindUnsupported:
		return CodeUnsupported
	}
	return CodeInvalidInput
}
