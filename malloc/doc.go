// Package malloc supplies page-granular memory management for in-memory
// containers, with a limited scope:
//
//   - Types and Functions exported by this package are not thread safe.
//   - Memory is carved out of a single backing buffer, reserved once
//     when the arena is created and given back only when the arena is
//     Released.
//   - Every chunk handed out by the arena begins on a Pagesize boundary
//     and occupies a whole number of pages. The chunk header lives
//     in-band, at the start of the chunk's slot, and the payload
//     immediately follows it.
//   - Freed chunks retain their slot. They are recycled by best-fit on
//     later allocations, never coalesced and never split.
//   - The chunk most recently carved from the tail can be extended in
//     place, without relocating its payload.
//
// Arena is an empty bucket of memory to begin with, filling up as and
// when chunks are requested by the application. Out-of-space is fatal,
// by panic, and arenas do not grow beyond their construction capacity.
package malloc

// TODO: make out-of-space recoverable once the arena learns to grow its
// backing buffer.
