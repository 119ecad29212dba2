// Package convert converts terminated strings between a narrow code page and
// UTF-16.
//
// Every operation takes a source slice and a length: an explicit unit count, or
// charset.Terminated to scan for the first zero unit. A scan that runs past the
// converter's MaxScan without finding a terminator fails instead of reading on.
//
// # Bounded
//
// The *Buf operations write into a caller buffer and always terminate it:
//
//	dst := make([]uint16, 4)
//	n, err := c.NarrowToWideBuf(dst, []byte("hello world"), charset.Terminated)
//	// n == 3, dst == "hel\x00"
//
// A destination that is too small truncates silently to the longest prefix of
// whole characters. A failed call leaves dst[0] == 0.
//
// # Unbounded
//
// NarrowToNarrow, WideToWide, NarrowToWide and WideToNarrow measure the
// result first and return a buffer of exactly length+1 units. Buffers come
// from an Allocator; when it fails, the result is nil and the length is zero.
//
// # Dispatch
//
// Convert, Alloc and Measure select one of the four operations from a pair of
// encoding tags through a fixed 2x2 table. Tags must be resolved (see
// charset.Encoding.Resolve) before they reach this package.
package convert
