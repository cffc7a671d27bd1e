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

// empty is the payload of commands without arguments: a single reserved
// 32-bit word.
type empty struct{}

func (empty) encode(w binary.Writer)        { w.Uint32(0) }
func (empty) decode(r binary.Reader, _ int) { r.Uint32() }

// Begin opens an immediate-mode primitive of the given topology.
type Begin struct{ Mode uint32 }

// End closes the open immediate-mode primitive.
type End struct{ empty }

// Vertex2f emits a vertex with z = 0.
type Vertex2f struct{ X, Y float32 }

// Vertex3f emits a vertex.
type Vertex3f struct{ X, Y, Z float32 }

// Color3f sets the current color, leaving alpha unchanged.
type Color3f struct{ R, G, B float32 }

// Color4f sets the current color.
type Color4f struct{ R, G, B, A float32 }

// Normal3f sets the current normal.
type Normal3f struct{ X, Y, Z float32 }

// TexCoord2f sets the current texture coordinate.
type TexCoord2f struct{ S, T float32 }

func (Begin) Type() Type      { return TypeBegin }
func (End) Type() Type        { return TypeEnd }
func (Vertex2f) Type() Type   { return TypeVertex2f }
func (Vertex3f) Type() Type   { return TypeVertex3f }
func (Color3f) Type() Type    { return TypeColor3f }
func (Color4f) Type() Type    { return TypeColor4f }
func (Normal3f) Type() Type   { return TypeNormal3f }
func (TexCoord2f) Type() Type { return TypeTexCoord2f }

func (c *Begin) encode(w binary.Writer)             { w.Uint32(c.Mode) }
func (c *Begin) decode(r binary.Reader, _ int)      { c.Mode = r.Uint32() }
func (c *Vertex2f) encode(w binary.Writer)          { writeF32(w, c.X, c.Y) }
func (c *Vertex2f) decode(r binary.Reader, _ int)   { readF32(r, &c.X, &c.Y) }
func (c *Vertex3f) encode(w binary.Writer)          { writeF32(w, c.X, c.Y, c.Z) }
func (c *Vertex3f) decode(r binary.Reader, _ int)   { readF32(r, &c.X, &c.Y, &c.Z) }
func (c *Color3f) encode(w binary.Writer)           { writeF32(w, c.R, c.G, c.B) }
func (c *Color3f) decode(r binary.Reader, _ int)    { readF32(r, &c.R, &c.G, &c.B) }
func (c *Color4f) encode(w binary.Writer)           { writeF32(w, c.R, c.G, c.B, c.A) }
func (c *Color4f) decode(r binary.Reader, _ int)    { readF32(r, &c.R, &c.G, &c.B, &c.A) }
func (c *Normal3f) encode(w binary.Writer)          { writeF32(w, c.X, c.Y, c.Z) }
func (c *Normal3f) decode(r binary.Reader, _ int)   { readF32(r, &c.X, &c.Y, &c.Z) }
func (c *TexCoord2f) encode(w binary.Writer)        { writeF32(w, c.S, c.T) }
func (c *TexCoord2f) decode(r binary.Reader, _ int) { readF32(r, &c.S, &c.T) }

// CallList replays a display list.
type CallList struct{ List uint32 }

// NewList opens a display list compile bracket.
type NewList struct{ List, Mode uint32 }

// EndList closes the open display list compile bracket.
type EndList struct{ empty }

func (CallList) Type() Type { return TypeCallList }
func (NewList) Type() Type  { return TypeNewList }
func (EndList) Type() Type  { return TypeEndList }

func (c *CallList) encode(w binary.Writer)        { w.Uint32(c.List) }
func (c *CallList) decode(r binary.Reader, _ int) { c.List = r.Uint32() }
func (c *NewList) encode(w binary.Writer)         { writeU32(w, c.List, c.Mode) }
func (c *NewList) decode(r binary.Reader, _ int)  { readU32(r, &c.List, &c.Mode) }

func writeF32(w binary.Writer, v ...float32) {
	for _, f := range v {
		w.Float32(f)
	}
}

func readF32(r binary.Reader, v ...*float32) {
	for _, f := range v {
		*f = r.Float32()
	}
}

func writeF64(w binary.Writer, v ...float64) {
	for _, f := range v {
		w.Float64(f)
	}
}

func readF64(r binary.Reader, v ...*float64) {
	for _, f := range v {
		*f = r.Float64()
	}
}

func writeU32(w binary.Writer, v ...uint32) {
	for _, u := range v {
		w.Uint32(u)
	}
}

func readU32(r binary.Reader, v ...*uint32) {
	for _, u := range v {
		*u = r.Uint32()
	}
}

func writeI32(w binary.Writer, v ...int32) {
	for _, i := range v {
		w.Int32(i)
	}
}

func readI32(r binary.Reader, v ...*int32) {
	for _, i := range v {
		*i = r.Int32()
	}
}
