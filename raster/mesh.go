// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/shade"
)

// Vertex is a mesh vertex with position, normal and color attributes.
type Vertex struct {
	Position shade.Vec3
	Normal   shade.Vec3
	Color    shade.Vec4
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Triangles returns the number of triangles in the mesh.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// positionColor maps a position in [-1, 1]^3 to an opaque color in
// [0, 1]^3, so every corner of the unit cube gets a distinct color.
func positionColor(p shade.Vec3) shade.Vec4 {
	return shade.Vec4{(p[0] + 1) / 2, (p[1] + 1) / 2, (p[2] + 1) / 2, 1}
}

// cubeFaces lists the outward normal and two in-plane axes of each face.
var cubeFaces = [6]struct {
	normal, u, v shade.Vec3
}{
	{shade.Vec3{1, 0, 0}, shade.Vec3{0, 0, -1}, shade.Vec3{0, 1, 0}},
	{shade.Vec3{-1, 0, 0}, shade.Vec3{0, 0, 1}, shade.Vec3{0, 1, 0}},
	{shade.Vec3{0, 1, 0}, shade.Vec3{1, 0, 0}, shade.Vec3{0, 0, -1}},
	{shade.Vec3{0, -1, 0}, shade.Vec3{1, 0, 0}, shade.Vec3{0, 0, 1}},
	{shade.Vec3{0, 0, 1}, shade.Vec3{1, 0, 0}, shade.Vec3{0, 1, 0}},
	{shade.Vec3{0, 0, -1}, shade.Vec3{-1, 0, 0}, shade.Vec3{0, 1, 0}},
}

// Cube returns the cube spanning [-1, 1] on every axis with flat face
// normals and colors derived from vertex positions.
func Cube() *Mesh {
	m := &Mesh{
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range cubeFaces {
		base := uint32(len(m.Vertices))
		for _, c := range corners {
			p := f.normal.Add(f.u.Scale(c[0])).Add(f.v.Scale(c[1]))
			m.Vertices = append(m.Vertices, Vertex{Position: p, Normal: f.normal, Color: positionColor(p)})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// Sphere returns a unit UV sphere with the given number of stacks and
// slices. Normals equal positions. Stacks below 2 and slices below 3 are
// raised to those minimums.
func Sphere(stacks, slices int) *Mesh {
	stacks = max(stacks, 2)
	slices = max(slices, 3)

	m := &Mesh{}
	for i := 0; i <= stacks; i++ {
		phi := math32.Pi * float32(i) / float32(stacks)
		sinPhi, cosPhi := math32.Sincos(phi)
		for j := 0; j <= slices; j++ {
			theta := 2 * math32.Pi * float32(j) / float32(slices)
			sinTheta, cosTheta := math32.Sincos(theta)
			p := shade.Vec3{sinPhi * cosTheta, cosPhi, sinPhi * sinTheta}
			m.Vertices = append(m.Vertices, Vertex{Position: p, Normal: p, Color: positionColor(p)})
		}
	}
	row := uint32(slices + 1)
	for i := range uint32(stacks) {
		for j := range uint32(slices) {
			a := i*row + j
			b := a + row
			m.Indices = append(m.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return m
}
