package containers

import s "github.com/bnclabs/gosettings"

import "github.com/isnastish/growing-array-benchmarks/malloc"

// Buffer is a growing byte workspace backed by a single arena chunk,
// usable as a string builder or parser scratch space. Implements
// io.Writer.
type Buffer struct {
	arena   *malloc.Arena
	chunk   *malloc.Chunk
	n       int64
	ownedby bool
}

// NewBuffer create a buffer over its own arena, sized by the
// "capacity" setting.
func NewBuffer(setts s.Settings) *Buffer {
	arena := malloc.NewArena(setts.Int64("capacity"), setts)
	return &Buffer{arena: arena, ownedby: true}
}

// NewBufferWith create a buffer over an arena shared with other
// consumers.
func NewBufferWith(arena *malloc.Arena) *Buffer {
	return &Buffer{arena: arena}
}

// Len return the number of bytes written since the last Reset.
func (buf *Buffer) Len() int64 {
	return buf.n
}

// Write append `block` to the buffer, growing the backing chunk when
// full. Always returns len(block), nil.
func (buf *Buffer) Write(block []byte) (int, error) {
	if len(block) == 0 {
		return 0, nil
	}
	need := buf.n + int64(len(block))
	if buf.chunk == nil || need > buf.chunk.Size() {
		buf.chunk = growchunk(buf.arena, buf.chunk, buf.n, need)
	}
	copy(buf.chunk.Bytes()[buf.n:], block)
	buf.n = need
	return len(block), nil
}

// WriteString append `str` to the buffer.
func (buf *Buffer) WriteString(str string) (int, error) {
	return buf.Write([]byte(str))
}

// Bytes return the written bytes, valid until the next Write or
// Release.
func (buf *Buffer) Bytes() []byte {
	if buf.chunk == nil {
		return nil
	}
	return buf.chunk.Bytes()[:buf.n]
}

// String return a copy of the written bytes.
func (buf *Buffer) String() string {
	return string(buf.Bytes())
}

// Reset forget the written bytes, keeping the backing chunk for reuse.
func (buf *Buffer) Reset() {
	buf.n = 0
}

// Release the backing chunk, and the arena as well if this buffer
// created it.
func (buf *Buffer) Release() {
	if buf.chunk != nil {
		buf.arena.Freechunk(buf.chunk)
		buf.chunk = nil
	}
	if buf.ownedby {
		buf.arena.Release()
	}
	buf.n = 0
}
