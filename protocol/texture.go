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

// Clear clears the buffers selected by Mask.
type Clear struct{ Mask uint32 }

// ClearColor sets the color used by Clear.
type ClearColor struct{ R, G, B, A float32 }

// Flush marks a flush point in the stream.
type Flush struct{ empty }

// Finish marks a finish point in the stream.
type Finish struct{ empty }

// BindTexture binds a texture name to a target.
type BindTexture struct{ Target, Texture uint32 }

// GenTextures announces texture names allocated by the client.
type GenTextures struct{ Names []uint32 }

// DeleteTextures releases texture names.
type DeleteTextures struct{ Names []uint32 }

// TexImage2D specifies a level of the texture bound to Target. Pixels holds
// PixelDataSize(Width, Height, Format, PixelType) tightly packed bytes, or is
// empty when the call only allocates storage.
type TexImage2D struct {
	Target         uint32
	Level          int32
	InternalFormat int32
	Width          int32
	Height         int32
	Border         int32
	Format         uint32
	PixelType      uint32
	Pixels         []byte
}

// TexParameter sets a parameter of the texture bound to Target.
type TexParameter struct {
	Target, Pname uint32
	Param         float32
}

// TexEnvI sets an integer texture environment parameter.
type TexEnvI struct {
	Target, Pname uint32
	Param         int32
}

// TexEnvF sets a floating-point texture environment parameter.
type TexEnvF struct {
	Target, Pname uint32
	Param         float32
}

func (Clear) Type() Type          { return TypeClear }
func (ClearColor) Type() Type     { return TypeClearColor }
func (Flush) Type() Type          { return TypeFlush }
func (Finish) Type() Type         { return TypeFinish }
func (BindTexture) Type() Type    { return TypeBindTexture }
func (GenTextures) Type() Type    { return TypeGenTextures }
func (DeleteTextures) Type() Type { return TypeDeleteTextures }
func (TexImage2D) Type() Type     { return TypeTexImage2D }
func (TexParameter) Type() Type   { return TypeTexParameter }
func (TexEnvI) Type() Type        { return TypeTexEnvI }
func (TexEnvF) Type() Type        { return TypeTexEnvF }

func (c *Clear) encode(w binary.Writer)                 { w.Uint32(c.Mask) }
func (c *Clear) decode(r binary.Reader, _ int)          { c.Mask = r.Uint32() }
func (c *ClearColor) encode(w binary.Writer)            { writeF32(w, c.R, c.G, c.B, c.A) }
func (c *ClearColor) decode(r binary.Reader, _ int)     { readF32(r, &c.R, &c.G, &c.B, &c.A) }
func (c *BindTexture) encode(w binary.Writer)           { writeU32(w, c.Target, c.Texture) }
func (c *BindTexture) decode(r binary.Reader, _ int)    { readU32(r, &c.Target, &c.Texture) }
func (c *GenTextures) encode(w binary.Writer)           { writeNames(w, c.Names) }
func (c *GenTextures) decode(r binary.Reader, n int)    { c.Names = readNames(r, n) }
func (c *DeleteTextures) encode(w binary.Writer)        { writeNames(w, c.Names) }
func (c *DeleteTextures) decode(r binary.Reader, n int) { c.Names = readNames(r, n) }

func (c *TexParameter) encode(w binary.Writer) {
	writeU32(w, c.Target, c.Pname)
	w.Float32(c.Param)
}

func (c *TexParameter) decode(r binary.Reader, _ int) {
	readU32(r, &c.Target, &c.Pname)
	c.Param = r.Float32()
}

func (c *TexEnvI) encode(w binary.Writer) {
	writeU32(w, c.Target, c.Pname)
	w.Int32(c.Param)
}

func (c *TexEnvI) decode(r binary.Reader, _ int) {
	readU32(r, &c.Target, &c.Pname)
	c.Param = r.Int32()
}

func (c *TexEnvF) encode(w binary.Writer) {
	writeU32(w, c.Target, c.Pname)
	w.Float32(c.Param)
}

func (c *TexEnvF) decode(r binary.Reader, _ int) {
	readU32(r, &c.Target, &c.Pname)
	c.Param = r.Float32()
}

const texImageFixedSize = 32

func (c *TexImage2D) encode(w binary.Writer) {
	w.Uint32(c.Target)
	writeI32(w, c.Level, c.InternalFormat, c.Width, c.Height, c.Border)
	writeU32(w, c.Format, c.PixelType)
	w.Data(c.Pixels)
}

func (c *TexImage2D) decode(r binary.Reader, size int) {
	c.Target = r.Uint32()
	readI32(r, &c.Level, &c.InternalFormat, &c.Width, &c.Height, &c.Border)
	readU32(r, &c.Format, &c.PixelType)
	tail := size - texImageFixedSize
	if tail <= 0 {
		c.Pixels = nil
		return
	}
	expected := PixelDataSize(c.Width, c.Height, c.Format, c.PixelType)
	if expected == 0 || tail < expected {
		r.SetError(ErrShortPayload)
		return
	}
	c.Pixels = make([]byte, expected)
	r.Data(c.Pixels)
}

func writeNames(w binary.Writer, names []uint32) {
	w.Uint32(uint32(len(names)))
	writeU32Slice(w, names)
}

func readNames(r binary.Reader, size int) []uint32 {
	n := r.Uint32()
	if uint64(n)*4 > uint64(size-4) {
		r.SetError(ErrShortPayload)
		return nil
	}
	names := make([]uint32, n)
	for i := range names {
		names[i] = r.Uint32()
	}
	return names
}

func writeU32Slice(w binary.Writer, v []uint32) {
	for _, u := range v {
		w.Uint32(u)
	}
}
