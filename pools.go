package barejson

import (
	"github.com/gostdlib/base/concurrency/sync"
	"github.com/gostdlib/base/context"
	"github.com/gostdlib/base/values/sizes"
)

// maxPooled is the largest buffer we hand back to the pool. Anything bigger came from an
// unusually large value and would pin that memory for every later call.
var maxPooled = int(64 * sizes.KiB)

// buffer holds the output of a single call.
type buffer struct {
	b []byte
}

// Reset implements the Resetter interface for sync.Pool.
func (b *buffer) Reset() {
	b.b = b.b[:0]
}

var buffers = sync.NewPool[*buffer](
	context.Background(),
	"barejson.buffers",
	func() *buffer {
		return &buffer{b: make([]byte, 0, 512)}
	},
	sync.WithBuffer(100),
)

func getBuffer(ctx context.Context) *buffer {
	return buffers.Get(ctx)
}

func putBuffer(ctx context.Context, b *buffer) {
	if cap(b.b) > maxPooled {
		return
	}
	buffers.Put(ctx, b)
}
