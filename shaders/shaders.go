package shaders

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"

	"github.com/gogpu/shade"
	"github.com/gogpu/shade/internal/cache"
)

//go:embed ambient.wgsl
var ambientSource string

//go:embed clamped.wgsl
var clampedSource string

//go:embed passthrough.wgsl
var passthroughSource string

//go:embed vertex.wgsl
var vertexSource string

const (
	// EntryPoint is the fragment entry point name of every variant.
	EntryPoint = "fs_main"

	// VertexEntryPoint is the entry point of the shared vertex stage.
	VertexEntryPoint = "vs_main"
)

// VertexSource returns the WGSL source of the vertex stage that feeds the
// fragment variants. It reads only the proj and view prefix of the uniform
// block, so it binds against the layout of any variant.
func VertexSource() string {
	return vertexSource
}

// CompileVertexSPIRV compiles the vertex stage to SPIR-V words.
func CompileVertexSPIRV() ([]uint32, error) {
	spirvBytes, err := compiled.GetOrCreate(compileKey{vertex: true, format: FormatSPIRV}, func() ([]byte, error) {
		code, err := naga.Compile(vertexSource)
		if err != nil {
			return nil, fmt.Errorf("compile vertex shader: %w", err)
		}
		return code, nil
	})
	if err != nil {
		return nil, err
	}
	return Words(spirvBytes)
}

// Source returns the WGSL source of variant v.
func Source(v shade.Variant) (string, error) {
	switch v {
	case shade.VariantAmbientLit:
		return ambientSource, nil
	case shade.VariantClampedIntensity:
		return clampedSource, nil
	case shade.VariantPassThrough:
		return passthroughSource, nil
	}
	return "", fmt.Errorf("%w: %d", shade.ErrUnknownVariant, int(v))
}

// Format is a shader output format.
type Format int

const (
	// FormatSPIRV is a SPIR-V binary (little-endian 32-bit words).
	FormatSPIRV Format = iota

	// FormatGLSL is GLSL 4.50 core source.
	FormatGLSL
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatSPIRV:
		return "spirv"
	case FormatGLSL:
		return "glsl"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// compileKey identifies one compiled artifact.
type compileKey struct {
	variant shade.Variant
	vertex  bool
	format  Format
}

// compiled holds every artifact produced so far. The sources are embedded
// and never change, so entries stay valid for the life of the process.
var compiled = cache.New[compileKey, []byte](0)

// Compile compiles variant v to the requested format. Results are cached
// per variant and format; each call returns its own copy.
func Compile(v shade.Variant, f Format) ([]byte, error) {
	src, err := Source(v)
	if err != nil {
		return nil, err
	}
	code, err := compiled.GetOrCreate(compileKey{variant: v, format: f}, func() ([]byte, error) {
		return compile(v, src, f)
	})
	if err != nil {
		return nil, err
	}
	shade.Logger().Debug("shaders: compiled",
		"variant", v.String(),
		"format", f.String(),
		"bytes", len(code))
	return bytes.Clone(code), nil
}

func compile(v shade.Variant, src string, f Format) ([]byte, error) {
	switch f {
	case FormatSPIRV:
		spirv, err := naga.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("compile %s shader: %w", v, err)
		}
		return spirv, nil
	case FormatGLSL:
		module, err := lower(src)
		if err != nil {
			return nil, fmt.Errorf("compile %s shader: %w", v, err)
		}
		code, _, err := glsl.Compile(module, glsl.Options{
			LangVersion:        glsl.Version450,
			EntryPoint:         EntryPoint,
			ForceHighPrecision: true,
		})
		if err != nil {
			return nil, fmt.Errorf("compile %s shader: %w", v, err)
		}
		return []byte(code), nil
	}
	return nil, fmt.Errorf("compile %s shader: unknown format %v", v, f)
}

// CompileSPIRV compiles variant v to SPIR-V words, the form expected by
// hal shader modules.
func CompileSPIRV(v shade.Variant) ([]uint32, error) {
	spirvBytes, err := Compile(v, FormatSPIRV)
	if err != nil {
		return nil, err
	}
	return Words(spirvBytes)
}

// Words converts a little-endian SPIR-V byte stream to 32-bit words.
func Words(spirvBytes []byte) ([]uint32, error) {
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("spirv length %d is not a multiple of 4", len(spirvBytes))
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
