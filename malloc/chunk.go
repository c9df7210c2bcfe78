// Functions and methods are not thread safe.

package malloc

import "unsafe"

// chunk states, tracked in bit 40 of the header word.
const (
	chunkUsed  uint64 = 0
	chunkEmpty uint64 = 1
)

// Chunk is the in-band header placed at the beginning of every slot
// carved from the arena. Payload bytes immediately follow the header, so
// a slot occupies Headersize + Size() bytes, always a whole number of
// pages. Chunks are linked in ascending address order within the backing
// buffer. Callers should treat Chunk as opaque, except for Size() and
// Bytes(), and pass it back to Allocchunk() or Freechunk().
type Chunk struct {
	hdr  uint64 // chunklen[39:0] state[40]
	prev *Chunk
	next *Chunk
}

// Headersize is the in-band overhead of a chunk. Slots are sized as
// Alignsize(payload+Headersize, Pagesize).
const Headersize = int64(unsafe.Sizeof(Chunk{}))

// Size return the number of payload bytes in this chunk, excluding
// the header.
func (chunk *Chunk) Size() int64 {
	return int64(chunk.hdr & 0xffffffffff)
}

// Bytes return the chunk's payload. The slice stays valid until the
// chunk is freed or the arena is released.
func (chunk *Chunk) Bytes() []byte {
	payload := unsafe.Add(unsafe.Pointer(chunk), Headersize)
	return unsafe.Slice((*byte)(payload), chunk.Size())
}

func (chunk *Chunk) setsize(size int64) *Chunk {
	chunk.hdr = (chunk.hdr & ^uint64(0xffffffffff)) | (uint64(size) & 0xffffffffff)
	return chunk
}

func (chunk *Chunk) setstate(state uint64) *Chunk {
	chunk.hdr = (chunk.hdr & ^(uint64(1) << 40)) | (state << 40)
	return chunk
}

func (chunk *Chunk) isempty() bool {
	return (chunk.hdr>>40)&1 == chunkEmpty
}

// slotsize is the page-aligned footprint of this chunk within the
// backing buffer, header included.
func (chunk *Chunk) slotsize() int64 {
	return chunk.Size() + Headersize
}
