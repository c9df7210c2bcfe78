package malloc

import s "github.com/bnclabs/gosettings"
import sigar "github.com/cloudfoundry/gosigar"

// Pagesize allocation granularity of the arena. Every chunk slot begins
// on a Pagesize boundary and occupies a whole number of pages. Must be a
// power of two no smaller than Headersize.
const Pagesize = int64(1024)

// Allocsize default arena capacity, used when the caller supplies none.
const Allocsize = int64(16 * 1024 * 1024)

// Maxarenasize maximum size of a memory arena.
const Maxarenasize = int64(1024 * 1024 * 1024 * 1024) // 1TB

// Maxchunklen maximum payload size of a single chunk, bounded by the
// 40-bit size field in the chunk header.
const Maxchunklen = int64(1)<<40 - 1

// Defaultsettings for arena.
//
// "metrics" (bool, default: true)
//	Maintain statistics over allocation request sizes, reported
//	via Stats().
func Defaultsettings() s.Settings {
	return s.Settings{
		"metrics": true,
	}
}

func getsysmem() (total, used, free uint64) {
	mem := sigar.Mem{}
	mem.Get()
	return mem.Total, mem.Used, mem.Free
}
