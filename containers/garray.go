package containers

import "fmt"

import s "github.com/bnclabs/gosettings"

import "github.com/isnastish/growing-array-benchmarks/malloc"

// Array is a growing array of fixed-width records backed by a single
// arena chunk. Records are stored contiguously; appending beyond the
// chunk's payload grows the chunk, in place whenever the chunk is still
// at the arena's tail.
type Array struct {
	arena   *malloc.Arena
	chunk   *malloc.Chunk
	recsize int64
	n       int64
	ownedby bool // arena created, and released, by this array
}

// NewArray create a growing array over its own arena, sized by the
// "capacity" setting.
func NewArray(recsize int64, setts s.Settings) *Array {
	arena := malloc.NewArena(setts.Int64("capacity"), setts)
	garray := NewArrayWith(arena, recsize)
	garray.ownedby = true
	return garray
}

// NewArrayWith create a growing array over an arena shared with other
// consumers. Releasing the array frees its chunk but leaves the arena
// to its owner.
func NewArrayWith(arena *malloc.Arena, recsize int64) *Array {
	if recsize <= 0 {
		panic(fmt.Errorf("record size %v is not positive", recsize))
	}
	return &Array{arena: arena, recsize: recsize}
}

// Len return the number of records appended.
func (garray *Array) Len() int64 {
	return garray.n
}

// Recsize return the fixed width of each record.
func (garray *Array) Recsize() int64 {
	return garray.recsize
}

// Append copy a record to the end of the array, growing the backing
// chunk when full.
func (garray *Array) Append(rec []byte) {
	if int64(len(rec)) != garray.recsize {
		fmsg := "record is %v bytes, array expects %v"
		panic(fmt.Errorf(fmsg, len(rec), garray.recsize))
	}
	need := (garray.n + 1) * garray.recsize
	if garray.chunk == nil || need > garray.chunk.Size() {
		used := garray.n * garray.recsize
		garray.chunk = growchunk(garray.arena, garray.chunk, used, need)
	}
	off := garray.n * garray.recsize
	copy(garray.chunk.Bytes()[off:off+garray.recsize], rec)
	garray.n++
}

// Index return the i-th record, valid until the next Append or Release.
func (garray *Array) Index(i int64) []byte {
	if i < 0 || i >= garray.n {
		panic(fmt.Errorf("index %v out of range %v", i, garray.n))
	}
	off := i * garray.recsize
	return garray.chunk.Bytes()[off : off+garray.recsize]
}

// Reset forget all records, keeping the backing chunk for reuse.
func (garray *Array) Reset() {
	garray.n = 0
}

// Release the backing chunk, and the arena as well if this array
// created it.
func (garray *Array) Release() {
	if garray.chunk != nil {
		garray.arena.Freechunk(garray.chunk)
		garray.chunk = nil
	}
	if garray.ownedby {
		garray.arena.Release()
	}
	garray.n = 0
}
