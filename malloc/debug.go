//go:build debug
// +build debug

package malloc

// initblock poison-fill a chunk's payload so that stale reads stand out
// in debug builds.
func initblock(chunk *Chunk) {
	block := chunk.Bytes()
	for i := range block {
		block[i] = 0xff
	}
}
