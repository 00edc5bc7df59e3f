package shade

import (
	"encoding/binary"
	"math"
)

// Binding slot of the uniform block.
const (
	UniformGroup   = 0
	UniformBinding = 0
)

// Fragment input and output locations.
const (
	LocationPosition = 0
	LocationNormal   = 1
	LocationColor    = 2
	LocationOutput   = 0
)

// mat4Size is the std140 size of a mat4x4<f32>: four 16-byte columns.
const mat4Size = 64

// FrameUniforms is the uniform block shared read-only by every fragment of
// a draw call. It is passed by value so no invocation can mutate it.
//
// Proj and View are part of the binding layout for other stages and never
// influence the output of this stage. AmbientPower is only part of the
// layout of VariantAmbientLit.
type FrameUniforms struct {
	Proj         Mat4
	View         Mat4
	AmbientPower float32
}

// Field is one member of a uniform block layout.
type Field struct {
	Name   string
	Offset uint32
	Size   uint32
}

// UniformLayout describes the std140 layout of the uniform block for one
// variant.
type UniformLayout struct {
	Group   uint32
	Binding uint32
	Fields  []Field

	// Size is the block size rounded up to the std140 struct alignment (16).
	Size uint32
}

// Field returns the field with the given name.
func (l UniformLayout) Field(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Layout returns the std140 uniform layout of v: proj at 0, view at 64 and,
// for VariantAmbientLit only, ambient_power at 128. The ambient block is
// padded to 144 bytes; the other variants use 128.
func Layout(v Variant) UniformLayout {
	l := UniformLayout{
		Group:   UniformGroup,
		Binding: UniformBinding,
		Fields: []Field{
			{Name: "proj", Offset: 0, Size: mat4Size},
			{Name: "view", Offset: mat4Size, Size: mat4Size},
		},
		Size: 2 * mat4Size,
	}
	if v == VariantAmbientLit {
		l.Fields = append(l.Fields, Field{Name: "ambient_power", Offset: 2 * mat4Size, Size: 4})
		l.Size = alignUp(2*mat4Size+4, 16)
	}
	return l
}

// Std140 packs the uniform block for v into little-endian std140 bytes
// ready to upload to the uniform buffer at group 0, binding 0.
func (u FrameUniforms) Std140(v Variant) []byte {
	l := Layout(v)
	buf := make([]byte, l.Size)
	for _, f := range l.Fields {
		switch f.Name {
		case "proj":
			putMat4(buf[f.Offset:], u.Proj)
		case "view":
			putMat4(buf[f.Offset:], u.View)
		case "ambient_power":
			binary.LittleEndian.PutUint32(buf[f.Offset:], math.Float32bits(u.AmbientPower))
		}
	}
	return buf
}

func putMat4(b []byte, m Mat4) {
	for i, x := range m {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(x))
	}
}

func alignUp(n, align uint32) uint32 {
	return (n + align - 1) &^ (align - 1)
}
