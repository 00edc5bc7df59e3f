// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/shade"
)

// minClipW rejects triangles with a vertex on or behind the eye plane.
// There is no near-plane clipping.
const minClipW = 1e-6

// screenVertex is a transformed vertex ready for scan conversion.
type screenVertex struct {
	x, y, z float32 // window coordinates and NDC depth
	invW    float32
	clip    shade.Vec4
	v       Vertex
}

// Rasterize converts a mesh to fragments for a width x height viewport.
// Vertices are transformed by mvp into clip space; the clip-space position
// becomes the fragment Position attribute, while normal and color are
// interpolated perspective-correctly. Pixel centers are sampled at
// (x+0.5, y+0.5) with y pointing down. Fragments are emitted triangle by
// triangle in index order, each triangle row by row.
func Rasterize(m *Mesh, mvp shade.Mat4, width, height int) []Fragment {
	if m == nil || width <= 0 || height <= 0 {
		return nil
	}

	verts := make([]screenVertex, len(m.Vertices))
	for i, v := range m.Vertices {
		clip := mvp.MulVec4(v.Position.Vec4(1))
		sv := screenVertex{clip: clip, v: v}
		if clip[3] > minClipW {
			sv.invW = 1 / clip[3]
			sv.x = (clip[0]*sv.invW + 1) / 2 * float32(width)
			sv.y = (1 - clip[1]*sv.invW) / 2 * float32(height)
			sv.z = clip[2] * sv.invW
		}
		verts[i] = sv
	}

	var frags []Fragment
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		if int(a) >= len(verts) || int(b) >= len(verts) || int(c) >= len(verts) {
			continue
		}
		frags = rasterizeTriangle(frags, &verts[a], &verts[b], &verts[c], width, height)
	}
	return frags
}

// Object is one instance of a mesh placed in the world by Model.
type Object struct {
	Mesh  *Mesh
	Model shade.Mat4
}

// RasterizeObjects rasterizes each object with viewProj * Model, in order,
// and concatenates the fragments. Objects with a nil mesh are skipped.
func RasterizeObjects(objects []Object, viewProj shade.Mat4, width, height int) []Fragment {
	var frags []Fragment
	for _, o := range objects {
		frags = append(frags, Rasterize(o.Mesh, viewProj.Mul(o.Model), width, height)...)
	}
	return frags
}

func rasterizeTriangle(frags []Fragment, v0, v1, v2 *screenVertex, width, height int) []Fragment {
	if v0.invW == 0 || v1.invW == 0 || v2.invW == 0 {
		return frags
	}

	area := edgeFunction(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	if area == 0 {
		return frags
	}
	invArea := 1 / area

	minX := max(int(math32.Floor(min(v0.x, v1.x, v2.x))), 0)
	maxX := min(int(math32.Ceil(max(v0.x, v1.x, v2.x))), width)
	minY := max(int(math32.Floor(min(v0.y, v1.y, v2.y))), 0)
	maxY := min(int(math32.Ceil(max(v0.y, v1.y, v2.y))), height)

	for y := minY; y < maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x < maxX; x++ {
			px := float32(x) + 0.5

			// Dividing by the signed area makes the weights positive
			// inside the triangle for either winding.
			b0 := edgeFunction(v1.x, v1.y, v2.x, v2.y, px, py) * invArea
			b1 := edgeFunction(v2.x, v2.y, v0.x, v0.y, px, py) * invArea
			b2 := edgeFunction(v0.x, v0.y, v1.x, v1.y, px, py) * invArea
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}

			depth := b0*v0.z + b1*v1.z + b2*v2.z
			if depth < 0 || depth > 1 {
				continue
			}

			// Perspective-correct weights.
			p0, p1, p2 := b0*v0.invW, b1*v1.invW, b2*v2.invW
			norm := 1 / (p0 + p1 + p2)
			p0, p1 = p0*norm, p1*norm
			p2 = 1 - p0 - p1

			frags = append(frags, Fragment{
				X:     x,
				Y:     y,
				Depth: depth,
				Input: shade.FragmentInput{
					Position: lerp4(v0.clip, v1.clip, v2.clip, p0, p1, p2),
					Normal:   lerp3(v0.v.Normal, v1.v.Normal, v2.v.Normal, p0, p1, p2),
					Color:    lerp4(v0.v.Color, v1.v.Color, v2.v.Color, p0, p1, p2),
				},
			})
		}
	}
	return frags
}

// edgeFunction returns twice the signed area of triangle (a, b, c).
func edgeFunction(ax, ay, bx, by, cx, cy float32) float32 {
	return (cx-ax)*(by-ay) - (cy-ay)*(bx-ax)
}

// blend interpolates one attribute channel. A channel that is equal at all
// three vertices is returned unchanged, so flat attributes stay exact.
func blend(a, b, c, wa, wb, wc float32) float32 {
	if a == b && b == c {
		return a
	}
	return a*wa + b*wb + c*wc
}

func lerp3(a, b, c shade.Vec3, wa, wb, wc float32) shade.Vec3 {
	var r shade.Vec3
	for i := range r {
		r[i] = blend(a[i], b[i], c[i], wa, wb, wc)
	}
	return r
}

func lerp4(a, b, c shade.Vec4, wa, wb, wc float32) shade.Vec4 {
	var r shade.Vec4
	for i := range r {
		r[i] = blend(a[i], b[i], c[i], wa, wb, wc)
	}
	return r
}
