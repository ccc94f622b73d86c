package jsembed

// Memory is a word-addressed view of the buffer an engine hands to a native
// call. Offsets are byte offsets; words are little-endian.
type Memory interface {
	ReadU64(offset uint32) (uint64, error)
	WriteU64(offset uint32, value uint64) error
}

// MemorySizer provides the current size of a Memory in bytes.
type MemorySizer interface {
	Size() uint32
}
