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

package protocol

import "github.com/google/glremix/core/data/binary"

// MatrixMode selects the stack targeted by the matrix commands.
type MatrixMode struct{ Mode uint32 }

// LoadIdentity replaces the top of the current stack with the identity.
type LoadIdentity struct{ empty }

// LoadMatrix replaces the top of the current stack with a column-major
// matrix.
type LoadMatrix struct{ M [16]float32 }

// MultMatrix post-multiplies the top of the current stack by a column-major
// matrix.
type MultMatrix struct{ M [16]float32 }

// PushMatrix duplicates the top of the current stack.
type PushMatrix struct{ empty }

// PopMatrix discards the top of the current stack.
type PopMatrix struct{ empty }

// Translate multiplies the current matrix by a translation.
type Translate struct{ X, Y, Z float32 }

// Rotate multiplies the current matrix by a rotation of Angle degrees about
// the axis (X, Y, Z).
type Rotate struct{ Angle, X, Y, Z float32 }

// Scale multiplies the current matrix by a scaling.
type Scale struct{ X, Y, Z float32 }

// Viewport sets the viewport rectangle.
type Viewport struct{ X, Y, Width, Height int32 }

// Ortho multiplies the current matrix by an orthographic projection.
type Ortho struct{ Left, Right, Bottom, Top, Near, Far float64 }

// Frustum multiplies the current matrix by a perspective projection.
type Frustum struct{ Left, Right, Bottom, Top, Near, Far float64 }

// Perspective multiplies the current matrix by a symmetric perspective
// projection with a vertical field of view of FovY degrees.
type Perspective struct{ FovY, Aspect, Near, Far float64 }

func (MatrixMode) Type() Type   { return TypeMatrixMode }
func (LoadIdentity) Type() Type { return TypeLoadIdentity }
func (LoadMatrix) Type() Type   { return TypeLoadMatrix }
func (MultMatrix) Type() Type   { return TypeMultMatrix }
func (PushMatrix) Type() Type   { return TypePushMatrix }
func (PopMatrix) Type() Type    { return TypePopMatrix }
func (Translate) Type() Type    { return TypeTranslate }
func (Rotate) Type() Type       { return TypeRotate }
func (Scale) Type() Type        { return TypeScale }
func (Viewport) Type() Type     { return TypeViewport }
func (Ortho) Type() Type        { return TypeOrtho }
func (Frustum) Type() Type      { return TypeFrustum }
func (Perspective) Type() Type  { return TypePerspective }

func (c *MatrixMode) encode(w binary.Writer)        { w.Uint32(c.Mode) }
func (c *MatrixMode) decode(r binary.Reader, _ int) { c.Mode = r.Uint32() }
func (c *LoadMatrix) encode(w binary.Writer)        { writeF32(w, c.M[:]...) }
func (c *LoadMatrix) decode(r binary.Reader, _ int) { readMatrix(r, &c.M) }
func (c *MultMatrix) encode(w binary.Writer)        { writeF32(w, c.M[:]...) }
func (c *MultMatrix) decode(r binary.Reader, _ int) { readMatrix(r, &c.M) }
func (c *Translate) encode(w binary.Writer)         { writeF32(w, c.X, c.Y, c.Z) }
func (c *Translate) decode(r binary.Reader, _ int)  { readF32(r, &c.X, &c.Y, &c.Z) }
func (c *Rotate) encode(w binary.Writer)            { writeF32(w, c.Angle, c.X, c.Y, c.Z) }
func (c *Rotate) decode(r binary.Reader, _ int)     { readF32(r, &c.Angle, &c.X, &c.Y, &c.Z) }
func (c *Scale) encode(w binary.Writer)             { writeF32(w, c.X, c.Y, c.Z) }
func (c *Scale) decode(r binary.Reader, _ int)      { readF32(r, &c.X, &c.Y, &c.Z) }
func (c *Viewport) encode(w binary.Writer)          { writeI32(w, c.X, c.Y, c.Width, c.Height) }
func (c *Viewport) decode(r binary.Reader, _ int)   { readI32(r, &c.X, &c.Y, &c.Width, &c.Height) }

func (c *Ortho) encode(w binary.Writer) {
	writeF64(w, c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far)
}

func (c *Ortho) decode(r binary.Reader, _ int) {
	readF64(r, &c.Left, &c.Right, &c.Bottom, &c.Top, &c.Near, &c.Far)
}

func (c *Frustum) encode(w binary.Writer) {
	writeF64(w, c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far)
}

func (c *Frustum) decode(r binary.Reader, _ int) {
	readF64(r, &c.Left, &c.Right, &c.Bottom, &c.Top, &c.Near, &c.Far)
}

func (c *Perspective) encode(w binary.Writer) {
	writeF64(w, c.FovY, c.Aspect, c.Near, c.Far)
}

func (c *Perspective) decode(r binary.Reader, _ int) {
	readF64(r, &c.FovY, &c.Aspect, &c.Near, &c.Far)
}

func readMatrix(r binary.Reader, m *[16]float32) {
	for i := range m {
		m[i] = r.Float32()
	}
}
