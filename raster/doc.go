// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package raster is a small CPU host for the shading stage: it turns
// meshes into fragments, runs the early depth test, dispatches the
// surviving fragments to a [shade.Stage] and writes the results to a
// float render target.
//
// The ordering follows the early-fragment-test contract of the stage:
//
//	rasterize -> depth test (write) -> shade survivors in parallel -> store
//
// Colors are kept unclamped in the target; clamping to [0, 1] happens only
// when the target is converted to an 8-bit image.
package raster
