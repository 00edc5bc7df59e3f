package shade

import (
	"context"
	"fmt"

	"github.com/gogpu/shade/internal/parallel"
)

// Dispatch shades every fragment of in with s and stores the results in
// out, which must have the same length. Fragments are split into chunks
// and shaded in parallel with no ordering between chunks; each chunk
// writes only its own range of out.
//
// If ctx is cancelled, chunks that have not started are skipped, their
// outputs are left untouched and ctx.Err() is returned.
func Dispatch(ctx context.Context, s Stage, u FrameUniforms, in []FragmentInput, out []FragmentOutput, opts ...DispatchOption) error {
	if len(out) != len(in) {
		return fmt.Errorf("%w: %d inputs, %d outputs", ErrOutputSize, len(in), len(out))
	}
	if len(in) == 0 {
		return ctx.Err()
	}

	o := defaultDispatchOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pool := o.pool
	if pool == nil {
		pool = parallel.NewPool(o.workers)
		defer pool.Close()
	}

	ranges := parallel.Split(len(in), o.chunkSize)
	pool.Run(ranges, func(r parallel.Range) {
		if ctx.Err() != nil {
			return
		}
		for i := r.Lo; i < r.Hi; i++ {
			out[i] = s.Shade(u, in[i])
		}
	})

	if err := ctx.Err(); err != nil {
		Logger().Warn("shade: dispatch cancelled",
			"variant", s.Variant().String(),
			"fragments", len(in),
			"err", err)
		return err
	}
	Logger().Debug("shade: dispatch complete",
		"variant", s.Variant().String(),
		"fragments", len(in),
		"chunks", len(ranges),
		"workers", pool.Workers())
	return nil
}

// Evaluate shades the fragments one after another on the calling
// goroutine. It is the sequential reference for Dispatch.
func Evaluate(s Stage, u FrameUniforms, in []FragmentInput) []FragmentOutput {
	out := make([]FragmentOutput, len(in))
	for i := range in {
		out[i] = s.Shade(u, in[i])
	}
	return out
}
