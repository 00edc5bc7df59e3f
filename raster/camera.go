// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/shade"
)

// Camera is a perspective camera looking from Eye towards Target.
type Camera struct {
	Eye, Target, Up shade.Vec3

	// FovY is the vertical field of view in radians.
	FovY   float32
	Aspect float32
	Near   float32
	Far    float32

	// Speed is the distance Move travels per second.
	Speed float32
}

// NewCamera returns a camera with a 60 degree vertical field of view,
// depth range [1, 400] and a speed of one unit per second.
func NewCamera(eye, target shade.Vec3, aspect float32) Camera {
	return Camera{
		Eye:    eye,
		Target: target,
		Up:     shade.Vec3{0, 1, 0},
		FovY:   math32.Pi / 3,
		Aspect: aspect,
		Near:   1,
		Far:    400,
		Speed:  1,
	}
}

// View returns the camera (view) transform.
func (c Camera) View() shade.Mat4 {
	return shade.LookAt(c.Eye, c.Target, c.Up)
}

// Proj returns the projection transform.
func (c Camera) Proj() shade.Mat4 {
	return shade.Perspective(c.Aspect, c.FovY, c.Near, c.Far)
}

// ViewProj returns Proj * View.
func (c Camera) ViewProj() shade.Mat4 {
	return c.Proj().Mul(c.View())
}

// Uniforms builds the frame uniform block for this camera.
func (c Camera) Uniforms(ambientPower float32) shade.FrameUniforms {
	return shade.FrameUniforms{
		Proj:         c.Proj(),
		View:         c.View(),
		AmbientPower: ambientPower,
	}
}

// minMove is the shortest direction vector Move treats as a translation.
const minMove = 1e-6

// Move flies the camera. The view first pitches by pitch radians about the
// camera's right axis, then yaws by yaw radians about Up; positive angles
// look up and turn left. The eye then travels Speed*dt along dir, given in
// camera space: x right, y up, z forward. dir is normalized, and a zero dir
// only turns. Target moves with the eye so the viewing distance is kept.
// A pitch that would look straight along Up is ignored.
func (c *Camera) Move(dir shade.Vec3, yaw, pitch, dt float32) {
	toTarget := c.Target.Sub(c.Eye)
	dist := toTarget.Length()
	if dist == 0 {
		return
	}
	up := c.Up.Normalize()
	forward := toTarget.Div(dist)

	if pitch != 0 {
		right := forward.Cross(up).Normalize()
		if f := rotate(forward, right, pitch); math32.Abs(f.Dot(up)) < 0.999 {
			forward = f
		}
	}
	if yaw != 0 {
		forward = rotate(forward, up, yaw)
	}

	if l := dir.Length(); l > minMove {
		right := forward.Cross(up).Normalize()
		camUp := right.Cross(forward)
		d := dir.Div(l)
		step := right.Scale(d[0]).Add(camUp.Scale(d[1])).Add(forward.Scale(d[2]))
		c.Eye = c.Eye.Add(step.Scale(c.Speed * dt))
	}
	c.Target = c.Eye.Add(forward.Scale(dist))
}

// rotate turns v by angle radians about the unit axis k (Rodrigues).
func rotate(v, k shade.Vec3, angle float32) shade.Vec3 {
	sin, cos := math32.Sincos(angle)
	return v.Scale(cos).Add(k.Cross(v).Scale(sin)).Add(k.Scale(k.Dot(v) * (1 - cos)))
}
