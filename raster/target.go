// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shade"
)

// ErrTargetSize is returned when a target is created with a non-positive
// width or height.
var ErrTargetSize = errors.New("raster: target dimensions must be positive")

// ErrNilTarget is returned by Draw when no target is given.
var ErrNilTarget = errors.New("raster: nil target")

// ErrUnsupportedFormat is returned by SetFormat for formats Texels cannot
// pack.
var ErrUnsupportedFormat = errors.New("raster: unsupported texel format")

// Target is a CPU render target with one float RGBA color attachment
// (location 0) and a depth attachment.
//
// Example:
//
//	target, _ := raster.NewTarget(640, 480)
//	target.Clear(shade.Vec4{0, 0, 0, 1}, 1)
//	stats, err := raster.Draw(ctx, target, stage, u, frags)
//	err = target.SavePNG("out.png")
type Target struct {
	width, height int
	format        gputypes.TextureFormat
	color         []shade.Vec4
	depth         []float32
}

// NewTarget creates an RGBA8Unorm target cleared to transparent black and
// depth 1.
func NewTarget(width, height int) (*Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrTargetSize, width, height)
	}
	t := &Target{
		width:  width,
		height: height,
		format: gputypes.TextureFormatRGBA8Unorm,
		color:  make([]shade.Vec4, width*height),
		depth:  make([]float32, width*height),
	}
	t.Clear(shade.Vec4{}, 1)
	return t, nil
}

// Width returns the target width in pixels.
func (t *Target) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *Target) Height() int { return t.height }

// Format returns the texture format Texels packs to.
func (t *Target) Format() gputypes.TextureFormat {
	return t.format
}

// SetFormat selects the texel format. RGBA8Unorm and BGRA8Unorm are
// supported.
func (t *Target) SetFormat(f gputypes.TextureFormat) error {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		t.format = f
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
}

// Texels returns the color attachment packed in Format, row by row, 4 bytes
// per pixel, ready for a texture upload or readback comparison. Channels are
// clamped like Image.
func (t *Target) Texels() []byte {
	b := make([]byte, len(t.color)*4)
	r, bl := 0, 2
	if t.format == gputypes.TextureFormatBGRA8Unorm {
		r, bl = 2, 0
	}
	for i, c := range t.color {
		b[i*4+r] = unorm8(c[0])
		b[i*4+1] = unorm8(c[1])
		b[i*4+bl] = unorm8(c[2])
		b[i*4+3] = unorm8(c[3])
	}
	return b
}

// Clear fills the color attachment with c and the depth attachment with d.
func (t *Target) Clear(c shade.Vec4, d float32) {
	for i := range t.color {
		t.color[i] = c
		t.depth[i] = d
	}
}

// Pixel returns the stored color at (x, y). Out-of-bounds reads return the
// zero color.
func (t *Target) Pixel(x, y int) shade.Vec4 {
	if !t.contains(x, y) {
		return shade.Vec4{}
	}
	return t.color[y*t.width+x]
}

// Depth returns the stored depth at (x, y), or 1 when out of bounds.
func (t *Target) Depth(x, y int) float32 {
	if !t.contains(x, y) {
		return 1
	}
	return t.depth[y*t.width+x]
}

// Store writes a color to (x, y) without blending. Out-of-bounds writes
// are ignored.
func (t *Target) Store(x, y int, c shade.Vec4) {
	if !t.contains(x, y) {
		return
	}
	t.color[y*t.width+x] = c
}

// depthTest compares d against the stored depth with a less-than test and
// writes d on success.
func (t *Target) depthTest(x, y int, d float32) bool {
	if !t.contains(x, y) {
		return false
	}
	i := y*t.width + x
	if !(d < t.depth[i]) {
		return false
	}
	t.depth[i] = d
	return true
}

func (t *Target) contains(x, y int) bool {
	return x >= 0 && x < t.width && y >= 0 && y < t.height
}

// Image converts the color attachment to 8-bit RGBA, clamping every
// channel to [0, 1]. NaN channels become 0.
func (t *Target) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.width, t.height))
	for i, c := range t.color {
		img.Pix[i*4+0] = unorm8(c[0])
		img.Pix[i*4+1] = unorm8(c[1])
		img.Pix[i*4+2] = unorm8(c[2])
		img.Pix[i*4+3] = unorm8(c[3])
	}
	return img
}

// At implements image.Image.
func (t *Target) At(x, y int) color.Color {
	c := t.Pixel(x, y)
	return color.NRGBA{R: unorm8(c[0]), G: unorm8(c[1]), B: unorm8(c[2]), A: unorm8(c[3])}
}

// Bounds implements image.Image.
func (t *Target) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.width, t.height)
}

// ColorModel implements image.Image.
func (t *Target) ColorModel() color.Model {
	return color.NRGBAModel
}

// SavePNG writes the target to a PNG file.
func (t *Target) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return png.Encode(f, t.Image())
}

// unorm8 converts a float channel to an 8-bit UNORM value.
func unorm8(x float32) uint8 {
	if !(x > 0) { // also catches NaN
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(x*255 + 0.5)
}
