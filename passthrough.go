package shade

// PassThrough writes the interpolated color unmodified. The output is
// bit-for-bit equal to the input color, NaN payloads included.
type PassThrough struct{}

// Variant returns VariantPassThrough.
func (PassThrough) Variant() Variant { return VariantPassThrough }

// Shade implements Stage.
func (PassThrough) Shade(_ FrameUniforms, in FragmentInput) FragmentOutput {
	return FragmentOutput{Color: in.Color}
}
