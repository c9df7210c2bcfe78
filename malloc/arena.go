// Functions and methods are not thread safe.

package malloc

import "fmt"
import "unsafe"

import "github.com/bnclabs/golog"
import s "github.com/bnclabs/gosettings"
import humanize "github.com/dustin/go-humanize"

// Arena defines a single block of memory, reserved up front, that hands
// out page-granular chunks. Chunk headers are kept in-band, as a doubly
// linked list laid out in ascending address order, so the arena carries
// no side-table. Released chunks keep their slot and are recycled by
// best-fit; only the tail chunk can be extended in place.
type Arena struct {
	buf  []byte // backing buffer, reserved once
	base unsafe.Pointer
	head *Chunk
	tail *Chunk

	// 64-bit aligned accounting
	heap    int64 // bytes carved into slots, Used and Empty
	alloc   int64 // bytes in Used slots
	nchunks int64
	nempty  int64
	allocs  averageInt64 // allocation request sizes

	// configuration
	capacity  int64
	metrics   bool
	logprefix string
}

// NewArena create a new memory arena. Capacity is rounded up to a whole
// number of pages; zero or negative capacity selects Allocsize. The
// backing buffer is reserved here and given back only by Release().
func NewArena(capacity int64, setts s.Settings) *Arena {
	if capacity <= 0 {
		capacity = Allocsize
	}
	if capacity < Pagesize {
		capacity = Pagesize
	}
	capacity = Alignsize(capacity, Pagesize)
	if capacity > Maxarenasize {
		panicerr("arena cannot exceed %v bytes (%v)", Maxarenasize, capacity)
	}
	arena := &Arena{
		buf:      make([]byte, capacity),
		capacity: capacity,
		metrics:  setts.Bool("metrics"),
	}
	arena.base = unsafe.Pointer(&arena.buf[0])
	arena.logprefix = fmt.Sprintf("[arena-%p]", arena)
	if _, _, free := getsysmem(); uint64(capacity) > free {
		fmsg := "%v capacity %v exceeds free system memory %v\n"
		log.Warnf(fmsg, arena.logprefix, capacity, free)
	}
	log.Infof("%v created with capacity %v\n",
		arena.logprefix, humanize.Bytes(uint64(capacity)))
	return arena
}

//---- operations

// Allocchunk allocate a chunk with at least `n` payload bytes.
//
// With a nil `prev` a new chunk is returned, recycled from the smallest
// sufficient Empty chunk if one exists, else carved from the unused
// tail of the backing buffer. Recycled chunks are not split, callers
// may receive more payload than requested.
//
// With a non-nil `prev`, which must be the chunk at the arena's tail,
// the chunk's slot is grown in place by Alignsize(n, Pagesize) bytes and
// the same header is returned, payload address unchanged.
//
// Runs out of space by panic, ErrorOutofMemory.
func (arena *Arena) Allocchunk(prev *Chunk, n int64) *Chunk {
	if arena.buf == nil {
		panicerr("arena released")
	} else if n <= 0 {
		panicerr("chunk size %v is not positive", n)
	} else if n > Maxchunklen {
		panicerr("chunk size %v exceeds %v", n, Maxchunklen)
	}
	if prev != nil {
		return arena.extendchunk(prev, n)
	}
	slotsize := Alignsize(n+Headersize, Pagesize)
	if chunk := arena.bestfit(slotsize); chunk != nil {
		chunk.setstate(chunkUsed)
		arena.nempty--
		arena.alloc += chunk.slotsize()
		initblock(chunk)
		if arena.metrics {
			arena.allocs.add(n)
		}
		return chunk
	}
	chunk := arena.bumpchunk(slotsize)
	if arena.metrics {
		arena.allocs.add(n)
	}
	return chunk
}

// Freechunk give a chunk back for reuse. The chunk keeps its slot and
// its position in the list, only its state flips to Empty; memory
// returns to the free pool, not to the bump frontier. Freeing a chunk
// twice, or a pointer the arena does not own, panics.
func (arena *Arena) Freechunk(chunk *Chunk) {
	if arena.buf == nil {
		panicerr("arena released")
	} else if chunk == nil {
		panicerr("Freechunk(): nil chunk")
	}
	off := int64(uintptr(unsafe.Pointer(chunk)) - uintptr(arena.base))
	if off < 0 || off >= arena.heap || (off%Pagesize) != 0 {
		panicerr("Freechunk(): unowned chunk pointer %p", chunk)
	} else if chunk.isempty() {
		panicerr("Freechunk(): chunk %p already freed", chunk)
	}
	chunk.setstate(chunkEmpty)
	arena.alloc -= chunk.slotsize()
	arena.nempty++
}

// Release the arena and its backing buffer. Outstanding chunk handles
// are invalidated; subsequent operations on the arena panic.
func (arena *Arena) Release() {
	if arena.buf == nil {
		panicerr("arena already released")
	}
	log.Infof("%v released, heap %v over %v chunks\n",
		arena.logprefix, humanize.Bytes(uint64(arena.heap)), arena.nchunks)
	arena.buf, arena.base = nil, nil
	arena.head, arena.tail = nil, nil
	arena.heap, arena.alloc, arena.nchunks, arena.nempty = 0, 0, 0, 0
}

//---- statistics and maintenance

// Capacity return the arena's total byte size, page-rounded at
// construction.
func (arena *Arena) Capacity() int64 {
	return arena.capacity
}

// Remaining return the bytes in the unused tail of the backing buffer,
// belonging to no chunk slot, Used or Empty.
func (arena *Arena) Remaining() int64 {
	return arena.capacity - arena.heap
}

// Chunkcount return the length of the chunk list, regardless of state.
func (arena *Arena) Chunkcount() int64 {
	return arena.nchunks
}

// Emptycount return the number of Empty chunks awaiting reuse.
func (arena *Arena) Emptycount() int64 {
	return arena.nempty
}

// Tail return the chunk at the arena's tail, the only chunk eligible
// for in-place extension, nil if no chunk was carved yet.
func (arena *Arena) Tail() *Chunk {
	return arena.tail
}

// Info return memory accounting for this arena. `heap` is the total
// footprint of all slots, `alloc` the footprint of Used slots, and
// `overhead` the cost of managing them.
func (arena *Arena) Info() (capacity, heap, alloc, overhead int64) {
	overhead = int64(unsafe.Sizeof(*arena)) + arena.nchunks*Headersize
	return arena.capacity, arena.heap, arena.alloc, overhead
}

// Utilization return the percentage of carved memory that is held by
// Used chunks.
func (arena *Arena) Utilization() float64 {
	if arena.heap == 0 {
		return 0
	}
	return (float64(arena.alloc) / float64(arena.heap)) * 100
}

// Stats return a map of arena statistics, including allocation request
// sizes when "metrics" is enabled.
func (arena *Arena) Stats() map[string]interface{} {
	capacity, heap, alloc, overhead := arena.Info()
	stats := map[string]interface{}{
		"capacity":  capacity,
		"heap":      heap,
		"alloc":     alloc,
		"overhead":  overhead,
		"remaining": arena.Remaining(),
		"n_chunks":  arena.nchunks,
		"n_empty":   arena.nempty,
	}
	if arena.metrics {
		stats["allocs.samples"] = arena.allocs.samples()
		stats["allocs.mean"] = arena.allocs.mean()
		stats["allocs.min"] = arena.allocs.min()
		stats["allocs.max"] = arena.allocs.max()
	}
	return stats
}

// Log a one-line, humanized summary of the arena's accounting.
func (arena *Arena) Log() {
	capacity, heap, alloc, _ := arena.Info()
	fmsg := "%v capacity %v heap %v alloc %v chunks %v (empty %v)\n"
	log.Infof(
		fmsg, arena.logprefix,
		humanize.Bytes(uint64(capacity)), humanize.Bytes(uint64(heap)),
		humanize.Bytes(uint64(alloc)), arena.nchunks, arena.nempty)
}

//---- local functions

// bestfit scan Empty chunks for the smallest slot that can hold
// `slotsize` bytes, earliest chunk wins a tie. Chunks are never split,
// the whole former slot is handed back out.
func (arena *Arena) bestfit(slotsize int64) (best *Chunk) {
	for chunk := arena.head; chunk != nil; chunk = chunk.next {
		if chunk.isempty() == false || chunk.slotsize() < slotsize {
			continue
		}
		if best == nil || chunk.slotsize() < best.slotsize() {
			best = chunk
		}
	}
	return best
}

// bumpchunk carve a fresh slot of `slotsize` bytes from the unused tail
// of the backing buffer and link it in after the current tail.
func (arena *Arena) bumpchunk(slotsize int64) *Chunk {
	if slotsize > arena.Remaining() {
		panic(ErrorOutofMemory)
	}
	chunk := (*Chunk)(unsafe.Pointer(&arena.buf[arena.heap]))
	chunk.hdr = 0
	chunk.setsize(slotsize - Headersize).setstate(chunkUsed)
	chunk.prev, chunk.next = arena.tail, nil
	if arena.tail == nil {
		arena.head = chunk
	} else {
		arena.tail.next = chunk
	}
	arena.tail = chunk
	arena.heap += slotsize
	arena.alloc += slotsize
	arena.nchunks++
	initblock(chunk)
	return chunk
}

// extendchunk grow the tail chunk's slot in place. Slots are physically
// contiguous and never coalesced, hence only the list tail has free
// space behind it; extending any other chunk is a caller bug.
func (arena *Arena) extendchunk(chunk *Chunk, n int64) *Chunk {
	if chunk != arena.tail {
		panicerr("only the tail chunk can be extended, got %p", chunk)
	} else if chunk.isempty() {
		panicerr("extending a freed chunk %p", chunk)
	}
	addby := Alignsize(n, Pagesize)
	if addby > arena.Remaining() {
		panic(ErrorOutofMemory)
	}
	if newsize := chunk.Size() + addby; newsize > Maxchunklen {
		panicerr("chunk size %v exceeds %v", newsize, Maxchunklen)
	} else {
		chunk.setsize(newsize)
	}
	arena.heap += addby
	arena.alloc += addby
	if arena.metrics {
		arena.allocs.add(n)
	}
	return chunk
}
