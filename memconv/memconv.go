package memconv

import (
	"encoding/binary"

	"github.com/wippyai/textconv"
	"github.com/wippyai/textconv/charset"
	"github.com/wippyai/textconv/convert"
	"github.com/wippyai/textconv/errors"
)

// scanChunk is the number of bytes read per step of a terminator scan.
const scanChunk = 256

// Ref locates a source string in linear memory. Len is a unit count or
// charset.Terminated.
type Ref struct {
	Ptr uint32
	Len int32
}

// Terminated returns a Ref to the terminated string at ptr.
func Terminated(ptr uint32) Ref {
	return Ref{Ptr: ptr, Len: charset.Terminated}
}

// Converter runs convert operations on strings held in linear memory.
type Converter struct {
	conv *convert.Converter
}

// New wraps conv.
func New(conv *convert.Converter) *Converter {
	return &Converter{conv: conv}
}

// Converter returns the wrapped slice converter.
func (c *Converter) Converter() *convert.Converter {
	return c.conv
}

// ConvertBuf converts src into the capUnits-unit buffer at dst and returns the
// number of content units written. The buffer is always terminated when dst is
// writable.
func (c *Converter) ConvertBuf(mem textconv.Memory, src Ref, from charset.Encoding, dst uint32, to charset.Encoding, capUnits uint32) (uint32, error) {
	if err := charset.Check(from, to); err != nil {
		return 0, err
	}
	if capUnits == 0 {
		return 0, errors.InvalidInput(errors.PhaseMemory, "destination capacity 0 leaves no room for a terminator")
	}
	if err := checkAlign(dst, to); err != nil {
		return 0, err
	}
	size, err := charset.ByteSize(to, uint64(capUnits))
	if err != nil {
		return 0, err
	}
	if err := checkRange(mem, dst, size); err != nil {
		return 0, err
	}

	view, err := c.read(mem, src, from)
	if err != nil {
		writeTerminator(mem, dst, to)
		return 0, err
	}
	buf := convert.NewBuffer(to, int(capUnits))
	n, err := c.conv.Convert(buf, view)
	if err != nil {
		writeTerminator(mem, dst, to)
		return 0, err
	}
	if err := mem.Write(dst, buf.Bytes(n+1)); err != nil {
		return 0, errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "write destination")
	}
	return uint32(n), nil
}

// ConvertAlloc converts src into a block from alloc holding exactly n+1 units
// and returns the block and n. When alloc fails nothing is returned.
func (c *Converter) ConvertAlloc(mem textconv.Memory, alloc textconv.Allocator, src Ref, from, to charset.Encoding) (ptr, n uint32, err error) {
	if err := charset.Check(from, to); err != nil {
		return 0, 0, err
	}
	if alloc == nil {
		return 0, 0, errors.InvalidInput(errors.PhaseMemory, "no allocator")
	}
	view, err := c.read(mem, src, from)
	if err != nil {
		return 0, 0, err
	}
	out, units, err := c.conv.Alloc(view, to)
	if err != nil {
		return 0, 0, err
	}

	size, err := charset.ByteSize(to, uint64(units)+1)
	if err != nil {
		return 0, 0, err
	}
	align := uint32(to.UnitSize())
	ptr, err = alloc.Alloc(size, align)
	if err != nil {
		return 0, 0, errors.New(errors.PhaseMemory, errors.KindAllocation).
			Cause(err).
			Detail("failed to allocate %d bytes (align %d)", size, align).
			Build()
	}
	if ptr == 0 {
		return 0, 0, errors.AllocationFailed(errors.PhaseMemory, size, align)
	}
	if err := mem.Write(ptr, out.Bytes(units+1)); err != nil {
		alloc.Free(ptr, size, align)
		return 0, 0, errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "write allocated block")
	}
	return ptr, uint32(units), nil
}

// Measure returns the number of units, terminator excluded, converting src
// produces.
func (c *Converter) Measure(mem textconv.Memory, src Ref, from, to charset.Encoding) (uint32, error) {
	if err := charset.Check(from, to); err != nil {
		return 0, err
	}
	view, err := c.read(mem, src, from)
	if err != nil {
		return 0, err
	}
	n, err := c.conv.Measure(view, to)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

// read copies the source string out of memory. Terminated sources are read up
// to and excluding the terminator.
func (c *Converter) read(mem textconv.Memory, src Ref, enc charset.Encoding) (convert.View, error) {
	if mem == nil {
		return convert.View{}, errors.InvalidInput(errors.PhaseMemory, "no memory")
	}
	if err := checkAlign(src.Ptr, enc); err != nil {
		return convert.View{}, err
	}

	var units int
	switch {
	case src.Len >= 0:
		units = int(src.Len)
	case src.Len == charset.Terminated:
		n, err := c.scan(mem, src.Ptr, enc)
		if err != nil {
			return convert.View{}, err
		}
		units = n
	default:
		return convert.View{}, errors.New(errors.PhaseMemory, errors.KindInvalidInput).
			Value(src.Len).
			Detail("negative length %d is not the terminator sentinel", src.Len).
			Build()
	}

	size, err := charset.ByteSize(enc, uint64(units))
	if err != nil {
		return convert.View{}, err
	}
	if err := checkRange(mem, src.Ptr, size); err != nil {
		return convert.View{}, err
	}
	data, err := mem.Read(src.Ptr, size)
	if err != nil {
		return convert.View{}, errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "read source")
	}
	if enc == charset.Narrow {
		return convert.NarrowView(data, units), nil
	}
	return convert.WideView(decodeWide(data), units), nil
}

// scan returns the number of units before the first zero unit at ptr. It stops
// at the converter's scan limit and, when mem is a MemorySizer, at the end of
// memory.
func (c *Converter) scan(mem textconv.Memory, ptr uint32, enc charset.Encoding) (int, error) {
	maxScan := c.conv.MaxScan()
	unit := uint32(enc.UnitSize())

	sizer, ok := mem.(textconv.MemorySizer)
	if !ok {
		return scanUnits(mem, ptr, enc, maxScan)
	}

	memSize := sizer.Size()
	if ptr > memSize {
		return 0, errors.OutOfBounds(errors.PhaseMemory, int(ptr), int(memSize))
	}
	available := int((memSize - ptr) / unit)
	limit := min(available, maxScan)

	for done := 0; done < limit; {
		step := min(scanChunk, limit-done)
		chunk, err := mem.Read(ptr+uint32(done)*unit, uint32(step)*unit)
		if err != nil {
			return 0, errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "scan source")
		}
		for i := 0; i < step; i++ {
			if unitAt(chunk, i, enc) == 0 {
				return done + i, nil
			}
		}
		done += step
	}
	if limit == maxScan {
		return 0, errors.Unterminated(errors.PhaseMemory, maxScan)
	}
	return 0, errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
		Value(ptr).
		Detail("string at %d runs past the end of memory (%d bytes)", ptr, memSize).
		Build()
}

func scanUnits(mem textconv.Memory, ptr uint32, enc charset.Encoding, maxScan int) (int, error) {
	unit := uint32(enc.UnitSize())
	for i := 0; i < maxScan; i++ {
		var (
			u   uint16
			err error
		)
		offset := ptr + uint32(i)*unit
		if enc == charset.Narrow {
			var b uint8
			b, err = mem.ReadU8(offset)
			u = uint16(b)
		} else {
			u, err = mem.ReadU16(offset)
		}
		if err != nil {
			return 0, errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "scan source")
		}
		if u == 0 {
			return i, nil
		}
	}
	return 0, errors.Unterminated(errors.PhaseMemory, maxScan)
}

func unitAt(data []byte, i int, enc charset.Encoding) uint16 {
	if enc == charset.Narrow {
		return uint16(data[i])
	}
	return binary.LittleEndian.Uint16(data[2*i:])
}

func decodeWide(data []byte) []uint16 {
	out := make([]uint16, len(data)/2)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(data[2*i:])
	}
	return out
}

func checkAlign(ptr uint32, enc charset.Encoding) error {
	if enc == charset.Wide && ptr%2 != 0 {
		return errors.New(errors.PhaseMemory, errors.KindInvalidInput).
			Value(ptr).
			Detail("wide string at %d is not 2-byte aligned", ptr).
			Build()
	}
	return nil
}

// checkRange verifies [ptr, ptr+size) lies in memory when its size is known.
func checkRange(mem textconv.Memory, ptr, size uint32) error {
	sizer, ok := mem.(textconv.MemorySizer)
	if !ok {
		return nil
	}
	end := uint64(ptr) + uint64(size)
	if end > uint64(sizer.Size()) {
		return errors.OutOfBounds(errors.PhaseMemory, int(end), int(sizer.Size()))
	}
	return nil
}

func writeTerminator(mem textconv.Memory, ptr uint32, enc charset.Encoding) {
	if enc == charset.Wide {
		_ = mem.WriteU16(ptr, 0)
		return
	}
	_ = mem.WriteU8(ptr, 0)
}
