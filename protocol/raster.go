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

// Enable enables a capability.
type Enable struct{ Cap uint32 }

// Disable disables a capability.
type Disable struct{ Cap uint32 }

// ColorMask sets the per-channel color write mask.
type ColorMask struct{ R, G, B, A bool }

// DepthMask sets the depth write mask.
type DepthMask struct{ Flag bool }

// BlendFunc sets the blend factors.
type BlendFunc struct{ Src, Dst uint32 }

// PointSize sets the rasterized point diameter.
type PointSize struct{ Size float32 }

// PolygonOffset sets the depth offset of polygons.
type PolygonOffset struct{ Factor, Units float32 }

// CullFace selects the culled faces.
type CullFace struct{ Mode uint32 }

// StencilMask sets the stencil write mask.
type StencilMask struct{ Mask uint32 }

// StencilFunc sets the stencil test.
type StencilFunc struct {
	Func uint32
	Ref  int32
	Mask uint32
}

// StencilOp sets the stencil actions for both faces.
type StencilOp struct{ Fail, ZFail, ZPass uint32 }

// StencilOpSeparateATI sets the stencil actions for the selected face.
type StencilOpSeparateATI struct{ Face, Fail, ZFail, ZPass uint32 }

// CreateContext records the native window the client rendered into.
type CreateContext struct{ Window uint64 }

func (Enable) Type() Type               { return TypeEnable }
func (Disable) Type() Type              { return TypeDisable }
func (ColorMask) Type() Type            { return TypeColorMask }
func (DepthMask) Type() Type            { return TypeDepthMask }
func (BlendFunc) Type() Type            { return TypeBlendFunc }
func (PointSize) Type() Type            { return TypePointSize }
func (PolygonOffset) Type() Type        { return TypePolygonOffset }
func (CullFace) Type() Type             { return TypeCullFace }
func (StencilMask) Type() Type          { return TypeStencilMask }
func (StencilFunc) Type() Type          { return TypeStencilFunc }
func (StencilOp) Type() Type            { return TypeStencilOp }
func (StencilOpSeparateATI) Type() Type { return TypeStencilOpSeparateATI }
func (CreateContext) Type() Type        { return TypeCreateContext }

func (c *Enable) encode(w binary.Writer)                      { w.Uint32(c.Cap) }
func (c *Enable) decode(r binary.Reader, _ int)               { c.Cap = r.Uint32() }
func (c *Disable) encode(w binary.Writer)                     { w.Uint32(c.Cap) }
func (c *Disable) decode(r binary.Reader, _ int)              { c.Cap = r.Uint32() }
func (c *DepthMask) encode(w binary.Writer)                   { w.Bool(c.Flag) }
func (c *DepthMask) decode(r binary.Reader, _ int)            { c.Flag = r.Bool() }
func (c *BlendFunc) encode(w binary.Writer)                   { writeU32(w, c.Src, c.Dst) }
func (c *BlendFunc) decode(r binary.Reader, _ int)            { readU32(r, &c.Src, &c.Dst) }
func (c *PointSize) encode(w binary.Writer)                   { w.Float32(c.Size) }
func (c *PointSize) decode(r binary.Reader, _ int)            { c.Size = r.Float32() }
func (c *PolygonOffset) encode(w binary.Writer)               { writeF32(w, c.Factor, c.Units) }
func (c *PolygonOffset) decode(r binary.Reader, _ int)        { readF32(r, &c.Factor, &c.Units) }
func (c *CullFace) encode(w binary.Writer)                    { w.Uint32(c.Mode) }
func (c *CullFace) decode(r binary.Reader, _ int)             { c.Mode = r.Uint32() }
func (c *StencilMask) encode(w binary.Writer)                 { w.Uint32(c.Mask) }
func (c *StencilMask) decode(r binary.Reader, _ int)          { c.Mask = r.Uint32() }
func (c *StencilOp) encode(w binary.Writer)                   { writeU32(w, c.Fail, c.ZFail, c.ZPass) }
func (c *StencilOp) decode(r binary.Reader, _ int)            { readU32(r, &c.Fail, &c.ZFail, &c.ZPass) }
func (c *StencilOpSeparateATI) encode(w binary.Writer)        { writeU32(w, c.Face, c.Fail, c.ZFail, c.ZPass) }
func (c *StencilOpSeparateATI) decode(r binary.Reader, _ int) { readU32(r, &c.Face, &c.Fail, &c.ZFail, &c.ZPass) }
func (c *CreateContext) encode(w binary.Writer)               { w.Uint64(c.Window) }
func (c *CreateContext) decode(r binary.Reader, _ int)        { c.Window = r.Uint64() }

func (c *ColorMask) encode(w binary.Writer) {
	w.Bool(c.R)
	w.Bool(c.G)
	w.Bool(c.B)
	w.Bool(c.A)
}

func (c *ColorMask) decode(r binary.Reader, _ int) {
	c.R, c.G, c.B, c.A = r.Bool(), r.Bool(), r.Bool(), r.Bool()
}

func (c *StencilFunc) encode(w binary.Writer) {
	w.Uint32(c.Func)
	w.Int32(c.Ref)
	w.Uint32(c.Mask)
}

func (c *StencilFunc) decode(r binary.Reader, _ int) {
	c.Func = r.Uint32()
	c.Ref = r.Int32()
	c.Mask = r.Uint32()
}
