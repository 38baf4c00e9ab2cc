package proxy

import "sync"

// RelayBufferSize is the chunk size a relay direction reads and writes.
const RelayBufferSize = 10 * 1024

var relayBuffers = newBufferPool(RelayBufferSize)

// bufferPool hands out fixed-size buffers. A buffer is owned by exactly one
// relay direction between Get and Put.
type bufferPool struct {
	pool sync.Pool
}

func newBufferPool(size int) *bufferPool {
	bp := &bufferPool{}
	bp.pool.New = func() any {
		b := make([]byte, size)
		return &b
	}
	return bp
}

func (p *bufferPool) Get() *[]byte {
	return p.pool.Get().(*[]byte)
}

func (p *bufferPool) Put(b *[]byte) {
	p.pool.Put(b)
}
