// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"context"
	"fmt"

	"github.com/gogpu/shade"
)

// Fragment is one rasterized sample: its pixel, its depth in [0, 1] and
// the interpolated attributes handed to the shading stage.
type Fragment struct {
	X, Y  int
	Depth float32
	Input shade.FragmentInput
}

// Stats reports what happened to the fragments of one draw.
type Stats struct {
	// Submitted is the number of fragments passed to Draw.
	Submitted int

	// Shaded is the number of fragments that passed the depth test and
	// were shaded.
	Shaded int

	// Discarded is the number of fragments rejected by the depth test.
	// They never reach the stage.
	Discarded int
}

// Draw executes one draw call on target.
//
// Fragments are depth tested in submission order (less-than, with depth
// write) before any shading happens. The survivors are shaded in parallel
// by stage with the uniform block u, then stored to color location 0 in
// submission order, so a later fragment that also passed overwrites an
// earlier one at the same pixel.
//
// If ctx is cancelled during shading nothing is stored and the error is
// returned; the depth writes of the draw remain.
func Draw(ctx context.Context, target *Target, stage shade.Stage, u shade.FrameUniforms, frags []Fragment, opts ...shade.DispatchOption) (Stats, error) {
	stats := Stats{Submitted: len(frags)}
	if target == nil {
		return stats, ErrNilTarget
	}

	survivors := make([]int, 0, len(frags))
	for i, f := range frags {
		if target.depthTest(f.X, f.Y, f.Depth) {
			survivors = append(survivors, i)
		}
	}
	stats.Shaded = len(survivors)
	stats.Discarded = len(frags) - len(survivors)

	in := make([]shade.FragmentInput, len(survivors))
	for i, idx := range survivors {
		in[i] = frags[idx].Input
	}
	out := make([]shade.FragmentOutput, len(in))
	if err := shade.Dispatch(ctx, stage, u, in, out, opts...); err != nil {
		return stats, fmt.Errorf("raster: shade %s: %w", stage.Variant(), err)
	}

	for i, idx := range survivors {
		f := frags[idx]
		target.Store(f.X, f.Y, out[i].Color)
	}

	shade.Logger().Debug("raster: draw",
		"variant", stage.Variant().String(),
		"submitted", stats.Submitted,
		"shaded", stats.Shaded,
		"discarded", stats.Discarded)
	return stats, nil
}
