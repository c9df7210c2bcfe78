package main

import "flag"
import "fmt"
import "math/rand"
import "net/http"
import "os"
import "time"

import _ "net/http/pprof"

import "github.com/bnclabs/golog"
import humanize "github.com/dustin/go-humanize"

import "github.com/isnastish/growing-array-benchmarks/malloc"

var loadopts struct {
	capacity int64
	count    int
	minpayld int64
	maxpayld int64
	seed     int64
	pprof    string
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	log.SetLogger(nil, map[string]interface{}{
		"log.level": "info",
		"log.file":  "",
	})
	switch os.Args[1] {
	case "load":
		doLoad(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: arena load [options]")
}

func parseLoadopts(args []string) {
	f := flag.NewFlagSet("load", flag.ExitOnError)
	f.Int64Var(&loadopts.capacity, "capacity", 64*1024*1024,
		"arena capacity in bytes")
	f.IntVar(&loadopts.count, "count", 1000000,
		"number of operations to run")
	f.Int64Var(&loadopts.minpayld, "minpayload", 32,
		"minimum payload size for a chunk")
	f.Int64Var(&loadopts.maxpayld, "maxpayload", 8*1024,
		"maximum payload size for a chunk")
	f.Int64Var(&loadopts.seed, "seed", int64(time.Now().UTC().Second()),
		"seed value for the workload generator")
	f.StringVar(&loadopts.pprof, "pprof", "",
		"address to serve net/http/pprof endpoints, empty to disable")
	f.Parse(args)
}

// doLoad run a randomized alloc/extend/free workload against a single
// arena and report its accounting at the end.
func doLoad(args []string) {
	parseLoadopts(args)
	fmt.Printf("seed: %v\n", loadopts.seed)
	if loadopts.pprof != "" {
		go func() {
			log.Errorf("%v\n", http.ListenAndServe(loadopts.pprof, nil))
		}()
	}

	rnd := rand.New(rand.NewSource(loadopts.seed))
	marena := malloc.NewArena(loadopts.capacity, malloc.Defaultsettings())
	live := make([]*malloc.Chunk, 0, 1024)
	allocs, extends, frees := 0, 0, 0

	payload := func() int64 {
		spread := loadopts.maxpayld - loadopts.minpayld
		return loadopts.minpayld + rnd.Int63n(spread+1)
	}
	start := time.Now()
	for i := 0; i < loadopts.count; i++ {
		switch op := rnd.Intn(10); {
		case op < 6: // allocate
			n := payload()
			slot := malloc.Alignsize(n+malloc.Headersize, malloc.Pagesize)
			// every Empty slot is at least one page, so a single page
			// request is the only one best-fit is guaranteed to serve
			// once the tail is spent.
			fits := slot <= marena.Remaining() ||
				(marena.Emptycount() > 0 && slot <= malloc.Pagesize)
			if !fits {
				frees += freechunk(marena, &live, rnd)
				continue
			}
			live = append(live, marena.Allocchunk(nil, n))
			allocs++

		case op < 8: // extend the tail chunk, when we own it
			tail := marena.Tail()
			if tail == nil || len(live) == 0 || live[len(live)-1] != tail {
				continue
			}
			n := payload()
			if malloc.Alignsize(n, malloc.Pagesize) > marena.Remaining() {
				continue
			}
			marena.Allocchunk(tail, n)
			extends++

		default: // free a random live chunk
			frees += freechunk(marena, &live, rnd)
		}
	}
	took := time.Since(start)

	capacity, heap, alloc, overhead := marena.Info()
	fmt.Printf("took %v for %v ops\n", took, loadopts.count)
	fmt.Printf("allocs: %v extends: %v frees: %v\n", allocs, extends, frees)
	fmt.Printf("capacity: %v heap: %v alloc: %v overhead: %v\n",
		humanize.Bytes(uint64(capacity)), humanize.Bytes(uint64(heap)),
		humanize.Bytes(uint64(alloc)), humanize.Bytes(uint64(overhead)))
	fmt.Printf("chunks: %v (empty %v) utilization: %.2f%%\n",
		marena.Chunkcount(), marena.Emptycount(), marena.Utilization())
	for key, value := range marena.Stats() {
		fmt.Printf("stats %v: %v\n", key, value)
	}
	marena.Log()
	marena.Release()
}

func freechunk(
	marena *malloc.Arena, live *[]*malloc.Chunk, rnd *rand.Rand) int {

	if len(*live) == 0 {
		return 0
	}
	i := rnd.Intn(len(*live))
	marena.Freechunk((*live)[i])
	(*live)[i] = (*live)[len(*live)-1]
	*live = (*live)[:len(*live)-1]
	return 1
}
