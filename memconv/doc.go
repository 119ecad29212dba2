// Package memconv runs string conversions on linear memory.
//
// Strings are addressed by offset into a textconv.Memory. Narrow strings are
// byte sequences; wide strings are little-endian UTF-16 and must be 2-byte
// aligned. A source is a Ref with an explicit unit count or charset.Terminated.
//
// Terminator scans stop at the converter's MaxScan and, when the memory
// implements textconv.MemorySizer, at the end of memory. Running off the end of
// memory is KindOutOfBounds; hitting the scan limit is KindUnterminated.
//
// ConvertAlloc places its result in a block from a textconv.Allocator sized
// exactly (n+1) units. A failed allocation returns a zero pointer and no length.
package memconv
