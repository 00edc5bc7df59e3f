package shade

import "github.com/chewxy/math32"

// IntensityFunc computes the scalar light intensity of a fragment before
// ClampedIntensity clamps it to at most 1.
type IntensityFunc func(u FrameUniforms, in FragmentInput) float32

// ClampedIntensity scales the fragment color by min(Intensity(u, in), 1)
// and keeps alpha.
//
// With the default intensity step ([DeadIntensity]) the accumulator never
// leaves zero, so every fragment comes out black with its alpha intact.
// This looks like an unfinished lighting formula; it is reproduced as is.
// Set Intensity to substitute a corrected formula without touching the
// rest of the stage.
type ClampedIntensity struct {
	// Intensity is the replaceable lighting step. Nil means DeadIntensity.
	Intensity IntensityFunc
}

// Variant returns VariantClampedIntensity.
func (ClampedIntensity) Variant() Variant { return VariantClampedIntensity }

// Shade implements Stage.
func (c ClampedIntensity) Shade(u FrameUniforms, in FragmentInput) FragmentOutput {
	intensity := c.Intensity
	if intensity == nil {
		intensity = DeadIntensity
	}
	acc := math32.Min(intensity(u, in), 1)
	return FragmentOutput{Color: in.Color.XYZ().Scale(acc).Vec4(in.Color[3])}
}

// DeadIntensity is the default intensity step of ClampedIntensity. It
// starts an accumulator at zero and performs the perspective divide of the
// fragment position, but nothing ever adds to the accumulator and the
// divided position is discarded, so the result is always 0.
func DeadIntensity(_ FrameUniforms, in FragmentInput) float32 {
	acc, _ := Accumulate(in)
	return acc
}

// Accumulate returns the initial accumulator (always 0) together with the
// perspective-divided position it computes along the way. The position is
// Inf or NaN when Position.W is 0; callers of DeadIntensity never observe it.
func Accumulate(in FragmentInput) (acc float32, ndc Vec3) {
	ndc = PerspectiveDivide(in.Position)
	return 0, ndc
}

// PerspectiveDivide returns position.xyz / position.w.
func PerspectiveDivide(p Vec4) Vec3 {
	return p.XYZ().Div(p[3])
}
