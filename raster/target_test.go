// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"errors"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shade"
)

func TestNewTarget(t *testing.T) {
	target, err := NewTarget(4, 3)
	if err != nil {
		t.Fatalf("NewTarget failed: %v", err)
	}
	if target.Width() != 4 || target.Height() != 3 {
		t.Errorf("size = %dx%d, want 4x3", target.Width(), target.Height())
	}
	if got := target.Pixel(1, 1); got != (shade.Vec4{}) {
		t.Errorf("Pixel = %v, want transparent black", got)
	}
	if got := target.Depth(1, 1); got != 1 {
		t.Errorf("Depth = %v, want 1", got)
	}
	if target.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format = %v, want RGBA8Unorm", target.Format())
	}
}

func TestTargetTexels(t *testing.T) {
	target, _ := NewTarget(2, 1)
	target.Store(0, 0, shade.Vec4{1, 0.5, 0, 1})
	target.Store(1, 0, shade.Vec4{2, -1, float32(math.NaN()), 0})

	tests := []struct {
		format gputypes.TextureFormat
		want   []byte
	}{
		{gputypes.TextureFormatRGBA8Unorm, []byte{255, 128, 0, 255, 255, 0, 0, 0}},
		{gputypes.TextureFormatBGRA8Unorm, []byte{0, 128, 255, 255, 0, 0, 255, 0}},
	}
	for _, tt := range tests {
		if err := target.SetFormat(tt.format); err != nil {
			t.Fatalf("SetFormat(%v) failed: %v", tt.format, err)
		}
		if target.Format() != tt.format {
			t.Errorf("Format = %v, want %v", target.Format(), tt.format)
		}
		if got := target.Texels(); string(got) != string(tt.want) {
			t.Errorf("Texels in %v = %v, want %v", tt.format, got, tt.want)
		}
	}

	err := target.SetFormat(gputypes.TextureFormatR8Unorm)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("SetFormat(R8Unorm) error = %v, want ErrUnsupportedFormat", err)
	}
	if target.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format after rejected SetFormat = %v, want BGRA8Unorm", target.Format())
	}
}

func TestNewTargetInvalid(t *testing.T) {
	for _, sz := range [][2]int{{0, 1}, {1, 0}, {-1, 5}} {
		if _, err := NewTarget(sz[0], sz[1]); !errors.Is(err, ErrTargetSize) {
			t.Errorf("NewTarget(%d, %d) error = %v, want ErrTargetSize", sz[0], sz[1], err)
		}
	}
}

func TestTargetOutOfBounds(t *testing.T) {
	target, _ := NewTarget(2, 2)
	target.Store(-1, 0, shade.Vec4{1, 1, 1, 1})
	target.Store(2, 2, shade.Vec4{1, 1, 1, 1})

	if got := target.Pixel(5, 5); got != (shade.Vec4{}) {
		t.Errorf("Pixel out of bounds = %v, want zero", got)
	}
	if got := target.Depth(-1, 0); got != 1 {
		t.Errorf("Depth out of bounds = %v, want 1", got)
	}
	if target.depthTest(2, 0, 0) {
		t.Error("depthTest out of bounds should fail")
	}
}

func TestTargetDepthTest(t *testing.T) {
	target, _ := NewTarget(1, 1)
	tests := []struct {
		depth float32
		want  bool
	}{
		{0.5, true},
		{0.5, false}, // equal fails a less-than test
		{0.7, false},
		{0.2, true},
		{float32(math.NaN()), false},
	}
	for i, tt := range tests {
		if got := target.depthTest(0, 0, tt.depth); got != tt.want {
			t.Errorf("step %d: depthTest(%v) = %v, want %v", i, tt.depth, got, tt.want)
		}
	}
	if got := target.Depth(0, 0); got != 0.2 {
		t.Errorf("Depth = %v, want 0.2", got)
	}
}

func TestTargetImageClamps(t *testing.T) {
	target, _ := NewTarget(2, 1)
	target.Store(0, 0, shade.Vec4{2, -1, 0.5, 1})
	target.Store(1, 0, shade.Vec4{float32(math.NaN()), float32(math.Inf(1)), 0, 0})

	img := target.Image()
	tests := []struct {
		x    int
		want color.NRGBA
	}{
		{0, color.NRGBA{R: 255, G: 0, B: 128, A: 255}},
		{1, color.NRGBA{R: 0, G: 255, B: 0, A: 0}},
	}
	for _, tt := range tests {
		if got := img.NRGBAAt(tt.x, 0); got != tt.want {
			t.Errorf("Image at %d = %v, want %v", tt.x, got, tt.want)
		}
		if got := target.At(tt.x, 0); got != tt.want {
			t.Errorf("At(%d) = %v, want %v", tt.x, got, tt.want)
		}
	}
	// Clamping happens only on conversion.
	if got := target.Pixel(0, 0); got[0] != 2 {
		t.Errorf("stored red = %v, want 2", got[0])
	}
}

func TestTargetSavePNG(t *testing.T) {
	target, _ := NewTarget(3, 2)
	target.Clear(shade.Vec4{0, 1, 0, 1}, 1)

	path := filepath.Join(t.TempDir(), "out.png")
	if err := target.SavePNG(path); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("bounds = %v, want 3x2", b)
	}
	r, g, _, _ := img.At(1, 1).RGBA()
	if r != 0 || g != 0xffff {
		t.Errorf("pixel = (%d, %d), want green", r, g)
	}
}
