package shade

import "github.com/gogpu/shade/internal/parallel"

// DefaultChunkSize is the number of fragments each dispatched task shades.
const DefaultChunkSize = 1024

// DispatchOption configures Dispatch.
//
// Example:
//
//	err := shade.Dispatch(ctx, stage, u, in, out,
//	    shade.WithWorkers(8),
//	    shade.WithChunkSize(4096),
//	)
type DispatchOption func(*dispatchOptions)

type dispatchOptions struct {
	workers   int
	chunkSize int
	pool      *parallel.Pool
}

func defaultDispatchOptions() dispatchOptions {
	return dispatchOptions{
		workers:   0, // GOMAXPROCS
		chunkSize: DefaultChunkSize,
	}
}

// WithWorkers sets the number of goroutines used by a Dispatch that creates
// its own pool. Zero or negative means GOMAXPROCS. Ignored with WithPool.
func WithWorkers(n int) DispatchOption {
	return func(o *dispatchOptions) {
		o.workers = n
	}
}

// WithChunkSize sets how many fragments each task shades. Values below 1
// are ignored.
func WithChunkSize(n int) DispatchOption {
	return func(o *dispatchOptions) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithPool makes Dispatch reuse an existing pool instead of starting one
// per call. The caller keeps ownership and closes it.
func WithPool(p *Pool) DispatchOption {
	return func(o *dispatchOptions) {
		if p != nil {
			o.pool = p.p
		}
	}
}

// Pool is a reusable set of shading goroutines for repeated draws.
type Pool struct {
	p *parallel.Pool
}

// NewPool starts a pool with the given number of workers (GOMAXPROCS if
// workers <= 0).
func NewPool(workers int) *Pool {
	return &Pool{p: parallel.NewPool(workers)}
}

// Workers returns the number of workers.
func (p *Pool) Workers() int {
	return p.p.Workers()
}

// Close stops the pool. Dispatches using a closed pool run on the caller.
func (p *Pool) Close() {
	p.p.Close()
}
