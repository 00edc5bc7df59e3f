//go:build !nogpu

// Package gpu builds the hardware form of the shading stage: a wgpu render
// pipeline whose fragment stage is the naga-compiled shader of one variant.
//
// The variant is fixed when the pipeline is created. Before any GPU object
// is made, the shader is checked against the binding contract (uniform
// block at group 0 binding 0, inputs at locations 0..2, output at location
// 0); a mismatch fails construction with shade.ErrBindingMismatch.
//
// The pipeline enables a less-than depth test so that the hardware resolves
// visibility before the fragment stage runs.
//
// Usage:
//
//	p, err := gpu.NewPipeline(device, queue, shade.VariantAmbientLit)
//	if err != nil {
//	    return err
//	}
//	defer p.Destroy()
//	p.Upload(camera.Uniforms(2))
package gpu

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/shade/raster"
)

// Option configures NewPipeline.
type Option func(*options)

type options struct {
	label       string
	colorFormat gputypes.TextureFormat
	depthFormat gputypes.TextureFormat
}

func defaultOptions() options {
	return options{
		label:       "shade",
		colorFormat: gputypes.TextureFormatRGBA8Unorm,
		depthFormat: gputypes.TextureFormatDepth24PlusStencil8,
	}
}

// WithLabel sets the prefix of every GPU object label.
func WithLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.label = label
		}
	}
}

// WithColorFormat sets the format of the color target at location 0.
func WithColorFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.colorFormat = f
	}
}

// WithTarget sets the color target format to the texel format of a CPU
// target, so its Texels match the attachment byte for byte. A nil target
// leaves the format unchanged.
func WithTarget(t *raster.Target) Option {
	return func(o *options) {
		if t != nil {
			o.colorFormat = t.Format()
		}
	}
}

// WithDepthFormat sets the format of the depth attachment.
func WithDepthFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.depthFormat = f
	}
}
