package malloc

import "fmt"
import "errors"

// ErrorOutofMemory panic value when the arena cannot satisfy an
// allocation or an extension from its remaining tail.
var ErrorOutofMemory = errors.New("malloc.outofmemory")

// Alignsize round up `size` to the next multiple of `align`, which must
// be a power of two.
func Alignsize(size, align int64) int64 {
	return (size + align - 1) & ^(align - 1)
}

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}
