package containers

import s "github.com/bnclabs/gosettings"

import "github.com/isnastish/growing-array-benchmarks/malloc"

// Defaultsettings for containers that own their arena.
//
// "capacity" (int64, default: malloc.Allocsize)
//	Capacity of the backing arena.
//
// "metrics" (bool, default: true)
//	Passed through to the arena, see malloc.Defaultsettings().
func Defaultsettings() s.Settings {
	return s.Settings{
		"capacity": malloc.Allocsize,
		"metrics":  true,
	}
}

// growchunk make room for `need` payload bytes. The chunk is grown in
// place when it is the arena's tail and the tail has room, else the
// container relocates: a fresh chunk is allocated, `used` bytes are
// copied over and the old chunk is freed for best-fit reuse.
func growchunk(
	arena *malloc.Arena, chunk *malloc.Chunk, used, need int64) *malloc.Chunk {

	if chunk == nil {
		return arena.Allocchunk(nil, need)
	}
	size := chunk.Size()
	for size < need {
		size *= 2
	}
	if addby := size - chunk.Size(); chunk == arena.Tail() {
		if malloc.Alignsize(addby, malloc.Pagesize) <= arena.Remaining() {
			return arena.Allocchunk(chunk, addby)
		}
	}
	newchunk := arena.Allocchunk(nil, size)
	copy(newchunk.Bytes(), chunk.Bytes()[:used])
	arena.Freechunk(chunk)
	return newchunk
}
