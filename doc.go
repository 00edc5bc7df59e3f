// Package shade implements a per-fragment shading stage for a
// rasterization pipeline.
//
// # Overview
//
// A [Stage] maps the frame uniforms of a draw call and the interpolated
// attributes of one fragment to the color written to render target
// location 0. Three variants exist and are chosen when the pipeline is
// built, never per fragment:
//
//   - [AmbientLit]: color.rgb * (normal * ambient_power), alpha kept
//   - [ClampedIntensity]: color.rgb * min(acc, 1) with a replaceable
//     intensity step; the default step always yields 0
//   - [PassThrough]: the interpolated color, unmodified
//
// # Quick Start
//
//	stage, err := shade.NewStage(shade.VariantAmbientLit)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	u := shade.FrameUniforms{Proj: shade.Identity(), View: shade.Identity(), AmbientPower: 2}
//	out := stage.Shade(u, shade.FragmentInput{
//	    Normal: shade.Vec3{0.5, 0.5, 0.5},
//	    Color:  shade.Vec4{1, 1, 1, 1},
//	})
//
// # Concurrency
//
// Every stage is a pure function. [Dispatch] evaluates a stage over a batch
// of fragments on a worker pool; the uniform block is passed by value to
// every invocation and each batch writes a disjoint range of the output.
//
// # Binding Contract
//
// The uniform block lives at group 0, binding 0 and follows std140 rules
// (see [Layout] and [FrameUniforms.Std140]). Fragment inputs are at
// locations 0 (position), 1 (normal) and 2 (color); the output is at
// location 0. The shaders sub-package holds the WGSL form of each variant
// and verifies it against this contract.
package shade
