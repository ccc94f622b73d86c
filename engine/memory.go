package engine

import (
	"encoding/binary"
	"fmt"
)

// StackMemory is the byte buffer a context lays call frames into.
type StackMemory struct {
	buf []byte
}

func newStackMemory(size uint32) *StackMemory {
	return &StackMemory{buf: make([]byte, size)}
}

func (m *StackMemory) ReadU64(offset uint32) (uint64, error) {
	if uint64(offset)+8 > uint64(len(m.buf)) {
		return 0, fmt.Errorf("read u64 at %d: stack size %d", offset, len(m.buf))
	}
	return binary.LittleEndian.Uint64(m.buf[offset:]), nil
}

func (m *StackMemory) WriteU64(offset uint32, value uint64) error {
	if uint64(offset)+8 > uint64(len(m.buf)) {
		return fmt.Errorf("write u64 at %d: stack size %d", offset, len(m.buf))
	}
	binary.LittleEndian.PutUint64(m.buf[offset:], value)
	return nil
}

func (m *StackMemory) Size() uint32 {
	return uint32(len(m.buf))
}

// word reads the word at offset without bounds reporting; used by the
// collector when scanning live frames.
func (m *StackMemory) word(offset uint32) uint64 {
	return binary.LittleEndian.Uint64(m.buf[offset:])
}
