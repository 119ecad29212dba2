package convert

import (
	"fmt"

	"github.com/wippyai/textconv/charset"
	"github.com/wippyai/textconv/errors"
	"github.com/wippyai/textconv/transcoder"
)

// Converter converts strings between the narrow code page and UTF-16.
// It holds no mutable state and is safe for concurrent use.
type Converter struct {
	tc      transcoder.Transcoder
	alloc   Allocator
	maxScan int
}

// Option configures a Converter.
type Option func(*Converter)

// WithAllocator sets the allocator used by the unbounded operations.
func WithAllocator(a Allocator) Option {
	return func(c *Converter) {
		if a != nil {
			c.alloc = a
		}
	}
}

// WithMaxScan bounds terminator scans. n <= 0 selects charset.DefaultMaxScan.
func WithMaxScan(n int) Option {
	return func(c *Converter) {
		if n > 0 {
			c.maxScan = n
		}
	}
}

// New creates a Converter over tc.
func New(tc transcoder.Transcoder, opts ...Option) *Converter {
	c := &Converter{
		tc:      tc,
		alloc:   HeapAllocator{},
		maxScan: charset.DefaultMaxScan,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxScan returns the terminator scan limit in units.
func (c *Converter) MaxScan() int {
	return c.maxScan
}

// Transcoder returns the code page service used for cross-encoding conversions.
func (c *Converter) Transcoder() transcoder.Transcoder {
	return c.tc
}

// NarrowToNarrowBuf copies src into dst, truncating to len(dst)-1 units.
func (c *Converter) NarrowToNarrowBuf(dst []byte, src []byte, n int) (int, error) {
	return copyBuf(dst, src, n, c.maxScan)
}

// WideToWideBuf copies src into dst, truncating to len(dst)-1 units.
func (c *Converter) WideToWideBuf(dst []uint16, src []uint16, n int) (int, error) {
	return copyBuf(dst, src, n, c.maxScan)
}

// NarrowToWideBuf decodes src into dst, keeping the largest prefix of whole
// characters that fits before the terminator.
func (c *Converter) NarrowToWideBuf(dst []uint16, src []byte, n int) (int, error) {
	return transcodeBuf(dst, src, n, c.maxScan, c.tc.Widen)
}

// WideToNarrowBuf encodes src into dst, keeping the largest prefix of whole
// characters that fits before the terminator.
func (c *Converter) WideToNarrowBuf(dst []byte, src []uint16, n int) (int, error) {
	return transcodeBuf(dst, src, n, c.maxScan, c.tc.Narrow)
}

func copyBuf[U charset.Unit](dst, src []U, n, maxScan int) (int, error) {
	limit, err := charset.ContentCap(len(dst))
	if err != nil {
		return 0, err
	}
	length, err := charset.Length(src, n, maxScan)
	if err != nil {
		dst[0] = 0
		return 0, err
	}
	length = min(length, limit)
	copy(dst, src[:length])
	dst[length] = 0
	return length, nil
}

func transcodeBuf[D, S charset.Unit](dst []D, src []S, n, maxScan int, fill func([]D, []S) (int, error)) (int, error) {
	limit, err := charset.ContentCap(len(dst))
	if err != nil {
		return 0, err
	}
	length, err := charset.Length(src, n, maxScan)
	if err != nil {
		dst[0] = 0
		return 0, err
	}
	written, err := fill(dst[:limit], src[:length])
	if err == nil && (written < 0 || written > limit) {
		err = errors.InvalidData(errors.PhaseConvert,
			fmt.Sprintf("transcoder reported %d units for a %d unit destination", written, limit))
	}
	if err != nil {
		dst[0] = 0
		return 0, err
	}
	dst[written] = 0
	return written, nil
}

// NarrowToNarrow returns a terminated copy of src and its length in units.
func (c *Converter) NarrowToNarrow(src []byte, n int) ([]byte, int, error) {
	return dup(src, n, c.maxScan, c.alloc.Narrow)
}

// WideToWide returns a terminated copy of src and its length in units.
func (c *Converter) WideToWide(src []uint16, n int) ([]uint16, int, error) {
	return dup(src, n, c.maxScan, c.alloc.Wide)
}

// NarrowToWide returns src decoded to UTF-16 in a buffer of exactly length+1 units.
func (c *Converter) NarrowToWide(src []byte, n int) ([]uint16, int, error) {
	length, err := charset.Length(src, n, c.maxScan)
	if err != nil {
		return nil, 0, err
	}
	return transcode(src[:length], c.tc.WidenLen, c.tc.Widen, c.alloc.Wide)
}

// WideToNarrow returns src encoded in the code page in a buffer of exactly
// length+1 units.
func (c *Converter) WideToNarrow(src []uint16, n int) ([]byte, int, error) {
	length, err := charset.Length(src, n, c.maxScan)
	if err != nil {
		return nil, 0, err
	}
	return transcode(src[:length], c.tc.NarrowLen, c.tc.Narrow, c.alloc.Narrow)
}

func dup[U charset.Unit](src []U, n, maxScan int, alloc func(int) ([]U, error)) ([]U, int, error) {
	length, err := charset.Length(src, n, maxScan)
	if err != nil {
		return nil, 0, err
	}
	buf, err := allocate(length, alloc)
	if err != nil {
		return nil, 0, err
	}
	copy(buf, src[:length])
	buf[length] = 0
	return buf, length, nil
}

func transcode[D, S charset.Unit](src []S, measure func([]S) (int, error), fill func([]D, []S) (int, error), alloc func(int) ([]D, error)) ([]D, int, error) {
	need, err := measure(src)
	if err != nil {
		return nil, 0, err
	}
	buf, err := allocate(need, alloc)
	if err != nil {
		return nil, 0, err
	}
	written, err := fill(buf[:need], src)
	if err != nil {
		return nil, 0, err
	}
	if written != need {
		return nil, 0, errors.InvalidData(errors.PhaseConvert,
			fmt.Sprintf("transcoder measured %d units but wrote %d", need, written))
	}
	buf[need] = 0
	return buf, need, nil
}

// allocate returns a buffer of exactly n+1 units.
func allocate[U charset.Unit](n int, alloc func(int) ([]U, error)) ([]U, error) {
	size, err := charset.AllocUnits(n)
	if err != nil {
		return nil, err
	}
	buf, err := alloc(size)
	if err != nil {
		if errors.IsKind(err, errors.KindAllocation) {
			return nil, err
		}
		return nil, errors.Wrap(errors.PhaseConvert, errors.KindAllocation, err, "allocator failed")
	}
	if len(buf) < size {
		return nil, errors.New(errors.PhaseConvert, errors.KindAllocation).
			Value(len(buf)).
			Detail("allocator returned %d units, want %d", len(buf), size).
			Build()
	}
	return buf[:size:size], nil
}

// NarrowString duplicates a terminated narrow string.
func (c *Converter) NarrowString(src []byte) ([]byte, error) {
	out, _, err := c.NarrowToNarrow(src, charset.Terminated)
	return out, err
}

// WideString duplicates a terminated wide string.
func (c *Converter) WideString(src []uint16) ([]uint16, error) {
	out, _, err := c.WideToWide(src, charset.Terminated)
	return out, err
}

// Widen converts a terminated narrow string to a new terminated wide string.
func (c *Converter) Widen(src []byte) ([]uint16, error) {
	out, _, err := c.NarrowToWide(src, charset.Terminated)
	return out, err
}

// Narrow converts a terminated wide string to a new terminated narrow string.
func (c *Converter) Narrow(src []uint16) ([]byte, error) {
	out, _, err := c.WideToNarrow(src, charset.Terminated)
	return out, err
}
