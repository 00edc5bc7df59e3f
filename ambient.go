package shade

// AmbientLit lights the fragment with a single ambient term:
//
//	rgb = color.rgb * (normal * ambient_power)
//	a   = color.a
//
// Nothing is clamped and the normal is not renormalized, so a shortened
// interpolated normal darkens the result and negative inputs produce
// negative channels.
type AmbientLit struct{}

// Variant returns VariantAmbientLit.
func (AmbientLit) Variant() Variant { return VariantAmbientLit }

// Shade implements Stage.
func (AmbientLit) Shade(u FrameUniforms, in FragmentInput) FragmentOutput {
	light := in.Normal.Scale(u.AmbientPower)
	return FragmentOutput{Color: in.Color.XYZ().Mul(light).Vec4(in.Color[3])}
}
