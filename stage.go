package shade

import (
	"fmt"
	"strings"
)

// FragmentInput holds the interpolated attributes of one fragment.
// Each invocation owns its input exclusively.
type FragmentInput struct {
	// Position is the homogeneous position before perspective division
	// (location 0).
	Position Vec4

	// Normal is the interpolated surface normal (location 1). It is not
	// guaranteed to be unit length.
	Normal Vec3

	// Color is the interpolated per-vertex color including alpha
	// (location 2).
	Color Vec4
}

// FragmentOutput is the color written to render target location 0.
type FragmentOutput struct {
	Color Vec4
}

// Stage shades one fragment.
//
// Implementations are pure: the same uniforms and input always produce the
// same output, nothing is retained between calls, and Shade is safe to call
// from any number of goroutines at once.
type Stage interface {
	// Variant reports which shading variant this stage implements.
	Variant() Variant

	// Shade computes the output color of one fragment. The uniform block
	// is received by value and cannot be mutated by the stage.
	Shade(u FrameUniforms, in FragmentInput) FragmentOutput
}

// EarlyFragmentTests reports that every variant expects depth/stencil
// testing to resolve visibility before it runs. Hosts honor it by testing
// fragments first and shading only the survivors.
const EarlyFragmentTests = true

// Variant selects one of the shading variants at pipeline-build time.
type Variant int

const (
	// VariantAmbientLit scales the color by the normal and ambient power.
	VariantAmbientLit Variant = iota

	// VariantClampedIntensity scales the color by a clamped intensity.
	// With the default intensity step the result is always black.
	VariantClampedIntensity

	// VariantPassThrough writes the interpolated color unmodified.
	VariantPassThrough
)

// Variants lists every variant in declaration order.
var Variants = []Variant{VariantAmbientLit, VariantClampedIntensity, VariantPassThrough}

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case VariantAmbientLit:
		return "ambient"
	case VariantClampedIntensity:
		return "clamped"
	case VariantPassThrough:
		return "passthrough"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Valid reports whether v names a known variant.
func (v Variant) Valid() bool {
	return v >= VariantAmbientLit && v <= VariantPassThrough
}

// ParseVariant parses a variant name as printed by String. Matching is
// case-insensitive; the single letters a, b and c are accepted as well.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ambient", "a":
		return VariantAmbientLit, nil
	case "clamped", "b":
		return VariantClampedIntensity, nil
	case "passthrough", "c":
		return VariantPassThrough, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// NewStage returns the stage implementing v with its default configuration.
func NewStage(v Variant) (Stage, error) {
	switch v {
	case VariantAmbientLit:
		return AmbientLit{}, nil
	case VariantClampedIntensity:
		return ClampedIntensity{}, nil
	case VariantPassThrough:
		return PassThrough{}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
}
