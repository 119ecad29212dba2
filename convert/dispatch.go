package convert

import (
	"encoding/binary"

	"github.com/wippyai/textconv/charset"
)

// View is a source string of either encoding. Only the slice matching Enc is read.
// Len is an explicit unit count or charset.Terminated.
type View struct {
	Narrow []byte
	Wide   []uint16
	Len    int
	Enc    charset.Encoding
}

// NarrowView describes a narrow source of n units.
func NarrowView(src []byte, n int) View {
	return View{Enc: charset.Narrow, Narrow: src, Len: n}
}

// WideView describes a wide source of n units.
func WideView(src []uint16, n int) View {
	return View{Enc: charset.Wide, Wide: src, Len: n}
}

// Buffer is a destination or an allocated result of either encoding.
type Buffer struct {
	Narrow []byte
	Wide   []uint16
	Enc    charset.Encoding
}

// NarrowBuffer wraps dst as a narrow destination.
func NarrowBuffer(dst []byte) Buffer {
	return Buffer{Enc: charset.Narrow, Narrow: dst}
}

// WideBuffer wraps dst as a wide destination.
func WideBuffer(dst []uint16) Buffer {
	return Buffer{Enc: charset.Wide, Wide: dst}
}

// NewBuffer allocates a destination of units units in enc.
func NewBuffer(enc charset.Encoding, units int) Buffer {
	if enc == charset.Wide {
		return WideBuffer(make([]uint16, units))
	}
	return NarrowBuffer(make([]byte, units))
}

// Cap returns the capacity of the buffer in units of its encoding.
func (b Buffer) Cap() int {
	if b.Enc == charset.Wide {
		return len(b.Wide)
	}
	return len(b.Narrow)
}

// Bytes returns the first n units as bytes. Wide units are little-endian.
func (b Buffer) Bytes(n int) []byte {
	if b.Enc != charset.Wide {
		return b.Narrow[:n]
	}
	out := make([]byte, 2*n)
	for i, u := range b.Wide[:n] {
		binary.LittleEndian.PutUint16(out[2*i:], u)
	}
	return out
}

// View returns the first n units of the buffer as a source.
func (b Buffer) View(n int) View {
	return View{Enc: b.Enc, Narrow: b.Narrow, Wide: b.Wide, Len: n}
}

type (
	boundedRoute func(c *Converter, dst Buffer, src View) (int, error)
	allocRoute   func(c *Converter, src View) (Buffer, int, error)
	measureRoute func(c *Converter, src View) (int, error)
)

// Routes are indexed [source][destination] with index(Narrow) = 0 and index(Wide) = 1.
var boundedRoutes = [2][2]boundedRoute{
	{
		func(c *Converter, dst Buffer, src View) (int, error) {
			return c.NarrowToNarrowBuf(dst.Narrow, src.Narrow, src.Len)
		},
		func(c *Converter, dst Buffer, src View) (int, error) {
			return c.NarrowToWideBuf(dst.Wide, src.Narrow, src.Len)
		},
	},
	{
		func(c *Converter, dst Buffer, src View) (int, error) {
			return c.WideToNarrowBuf(dst.Narrow, src.Wide, src.Len)
		},
		func(c *Converter, dst Buffer, src View) (int, error) {
			return c.WideToWideBuf(dst.Wide, src.Wide, src.Len)
		},
	},
}

var allocRoutes = [2][2]allocRoute{
	{
		func(c *Converter, src View) (Buffer, int, error) {
			out, n, err := c.NarrowToNarrow(src.Narrow, src.Len)
			return NarrowBuffer(out), n, err
		},
		func(c *Converter, src View) (Buffer, int, error) {
			out, n, err := c.NarrowToWide(src.Narrow, src.Len)
			return WideBuffer(out), n, err
		},
	},
	{
		func(c *Converter, src View) (Buffer, int, error) {
			out, n, err := c.WideToNarrow(src.Wide, src.Len)
			return NarrowBuffer(out), n, err
		},
		func(c *Converter, src View) (Buffer, int, error) {
			out, n, err := c.WideToWide(src.Wide, src.Len)
			return WideBuffer(out), n, err
		},
	},
}

var measureRoutes = [2][2]measureRoute{
	{
		func(c *Converter, src View) (int, error) {
			return charset.Length(src.Narrow, src.Len, c.maxScan)
		},
		func(c *Converter, src View) (int, error) {
			n, err := charset.Length(src.Narrow, src.Len, c.maxScan)
			if err != nil {
				return 0, err
			}
			return c.tc.WidenLen(src.Narrow[:n])
		},
	},
	{
		func(c *Converter, src View) (int, error) {
			n, err := charset.Length(src.Wide, src.Len, c.maxScan)
			if err != nil {
				return 0, err
			}
			return c.tc.NarrowLen(src.Wide[:n])
		},
		func(c *Converter, src View) (int, error) {
			return charset.Length(src.Wide, src.Len, c.maxScan)
		},
	},
}

func index(e charset.Encoding) int {
	return int(e - charset.Narrow)
}

// Convert runs the bounded conversion selected by src.Enc and dst.Enc.
func (c *Converter) Convert(dst Buffer, src View) (int, error) {
	if err := charset.Check(src.Enc, dst.Enc); err != nil {
		return 0, err
	}
	return boundedRoutes[index(src.Enc)][index(dst.Enc)](c, dst, src)
}

// Alloc runs the unbounded conversion selected by src.Enc and to. On failure the
// returned Buffer holds no data and the length is zero.
func (c *Converter) Alloc(src View, to charset.Encoding) (Buffer, int, error) {
	if err := charset.Check(src.Enc, to); err != nil {
		return Buffer{}, 0, err
	}
	out, n, err := allocRoutes[index(src.Enc)][index(to)](c, src)
	if err != nil {
		return Buffer{}, 0, err
	}
	return out, n, nil
}

// Dup is Alloc without the length output.
func (c *Converter) Dup(src View, to charset.Encoding) (Buffer, error) {
	out, _, err := c.Alloc(src, to)
	return out, err
}

// Measure returns the number of units, terminator excluded, that converting src
// to the given encoding produces.
func (c *Converter) Measure(src View, to charset.Encoding) (int, error) {
	if err := charset.Check(src.Enc, to); err != nil {
		return 0, err
	}
	return measureRoutes[index(src.Enc)][index(to)](c, src)
}
