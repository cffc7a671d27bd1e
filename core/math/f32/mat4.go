// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package f32

import "math"

// Mat4 is a 4x4 matrix of float32 stored in column-major order, matching
// the memory layout of glLoadMatrixf.
// Element (row r, column c) is at index c*4+r.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// At returns the element at the given row and column.
func (m Mat4) At(row, col int) float32 { return m[col*4+row] }

// Mul returns the matrix product m * n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * n[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// Transform returns m * v.
func (m Mat4) Transform(v Vec4) Vec4 {
	var out Vec4
	for r := 0; r < 4; r++ {
		out[r] = m[r]*v[0] + m[4+r]*v[1] + m[8+r]*v[2] + m[12+r]*v[3]
	}
	return out
}

// Translation returns the matrix built by glTranslate.
func Translation(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scaling returns the matrix built by glScale.
func Scaling(x, y, z float32) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = x, y, z
	return m
}

// Rotation returns the matrix built by glRotate: a rotation of angle degrees
// counter-clockwise around axis. A zero-length axis yields the identity.
func Rotation(angle float32, axis Vec3) Mat4 {
	if axis.SqrMagnitude() == 0 {
		return Identity()
	}
	a := axis.Normalize()
	x, y, z := a[0], a[1], a[2]
	rad := float64(angle) * math.Pi / 180
	c, s := float32(math.Cos(rad)), float32(math.Sin(rad))
	t := 1 - c
	return Mat4{
		x*x*t + c, y*x*t + z*s, x*z*t - y*s, 0,
		x*y*t - z*s, y*y*t + c, y*z*t + x*s, 0,
		x*z*t + y*s, y*z*t - x*s, z*z*t + c, 0,
		0, 0, 0, 1,
	}
}

// Ortho returns the matrix built by glOrtho.
func Ortho(left, right, bottom, top, near, far float64) Mat4 {
	rl, tb, fn := right-left, top-bottom, far-near
	return Mat4{
		float32(2 / rl), 0, 0, 0,
		0, float32(2 / tb), 0, 0,
		0, 0, float32(-2 / fn), 0,
		float32(-(right + left) / rl), float32(-(top + bottom) / tb), float32(-(far + near) / fn), 1,
	}
}

// Frustum returns the matrix built by glFrustum.
func Frustum(left, right, bottom, top, near, far float64) Mat4 {
	rl, tb, fn := right-left, top-bottom, far-near
	return Mat4{
		float32(2 * near / rl), 0, 0, 0,
		0, float32(2 * near / tb), 0, 0,
		float32((right + left) / rl), float32((top + bottom) / tb), float32(-(far + near) / fn), -1,
		0, 0, float32(-2 * far * near / fn), 0,
	}
}

// Perspective returns the matrix built by gluPerspective with the vertical
// field of view fovy in degrees.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovy*math.Pi/360)
	nf := near - far
	return Mat4{
		float32(f / aspect), 0, 0, 0,
		0, float32(f), 0, 0,
		0, 0, float32((far + near) / nf), -1,
		0, 0, float32(2 * far * near / nf), 0,
	}
}
