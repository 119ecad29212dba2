package textconv

// Memory represents a linear memory holding narrow and wide strings
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU8(offset uint32) (uint8, error)
	ReadU16(offset uint32) (uint16, error)
	ReadU32(offset uint32) (uint32, error)
	WriteU8(offset uint32, value uint8) error
	WriteU16(offset uint32, value uint16) error
	WriteU32(offset uint32, value uint32) error
}

// MemorySizer provides the current size of linear memory in bytes.
// Terminator scans stop at this bound when the memory implements it.
type MemorySizer interface {
	Size() uint32
}

// Allocator allocates blocks in linear memory.
// Alloc may fail; callers must not assume a block was reserved on error.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}
