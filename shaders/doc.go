// Package shaders holds the WGSL form of each shading variant and checks
// it against the binding contract of the host pipeline.
//
// Sources are compiled with naga to SPIR-V (Vulkan) or GLSL (OpenGL). The
// same naga IR is used to reflect the uniform block layout and the
// input/output locations, so a shader that drifts from [shade.Layout] is
// rejected at pipeline construction with [shade.ErrBindingMismatch].
package shaders
