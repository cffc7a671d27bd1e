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

// Lightf sets a scalar parameter of a light.
type Lightf struct {
	Light, Pname uint32
	Param        float32
}

// Lightfv sets a vector parameter of a light.
type Lightfv struct {
	Light, Pname uint32
	Params       [4]float32
}

// Materiali sets a scalar material parameter from an integer.
type Materiali struct {
	Face, Pname uint32
	Param       int32
}

// Materialf sets a scalar material parameter.
type Materialf struct {
	Face, Pname uint32
	Param       float32
}

// Materialiv sets a vector material parameter from integers.
type Materialiv struct {
	Face, Pname uint32
	Params      [4]int32
}

// Materialfv sets a vector material parameter.
type Materialfv struct {
	Face, Pname uint32
	Params      [4]float32
}

// AlphaFunc sets the alpha test.
type AlphaFunc struct {
	Func uint32
	Ref  float32
}

func (Lightf) Type() Type     { return TypeLightf }
func (Lightfv) Type() Type    { return TypeLightfv }
func (Materiali) Type() Type  { return TypeMateriali }
func (Materialf) Type() Type  { return TypeMaterialf }
func (Materialiv) Type() Type { return TypeMaterialiv }
func (Materialfv) Type() Type { return TypeMaterialfv }
func (AlphaFunc) Type() Type  { return TypeAlphaFunc }

func (c *Lightf) encode(w binary.Writer) {
	writeU32(w, c.Light, c.Pname)
	w.Float32(c.Param)
}

func (c *Lightf) decode(r binary.Reader, _ int) {
	readU32(r, &c.Light, &c.Pname)
	c.Param = r.Float32()
}

func (c *Lightfv) encode(w binary.Writer) {
	writeU32(w, c.Light, c.Pname)
	writeF32(w, c.Params[:]...)
}

func (c *Lightfv) decode(r binary.Reader, _ int) {
	readU32(r, &c.Light, &c.Pname)
	readVec4(r, &c.Params)
}

func (c *Materiali) encode(w binary.Writer) {
	writeU32(w, c.Face, c.Pname)
	w.Int32(c.Param)
}

func (c *Materiali) decode(r binary.Reader, _ int) {
	readU32(r, &c.Face, &c.Pname)
	c.Param = r.Int32()
}

func (c *Materialf) encode(w binary.Writer) {
	writeU32(w, c.Face, c.Pname)
	w.Float32(c.Param)
}

func (c *Materialf) decode(r binary.Reader, _ int) {
	readU32(r, &c.Face, &c.Pname)
	c.Param = r.Float32()
}

func (c *Materialiv) encode(w binary.Writer) {
	writeU32(w, c.Face, c.Pname)
	writeI32(w, c.Params[:]...)
}

func (c *Materialiv) decode(r binary.Reader, _ int) {
	readU32(r, &c.Face, &c.Pname)
	for i := range c.Params {
		c.Params[i] = r.Int32()
	}
}

func (c *Materialfv) encode(w binary.Writer) {
	writeU32(w, c.Face, c.Pname)
	writeF32(w, c.Params[:]...)
}

func (c *Materialfv) decode(r binary.Reader, _ int) {
	readU32(r, &c.Face, &c.Pname)
	readVec4(r, &c.Params)
}

func (c *AlphaFunc) encode(w binary.Writer) {
	w.Uint32(c.Func)
	w.Float32(c.Ref)
}

func (c *AlphaFunc) decode(r binary.Reader, _ int) {
	c.Func = r.Uint32()
	c.Ref = r.Float32()
}

func readVec4(r binary.Reader, v *[4]float32) {
	for i := range v {
		v[i] = r.Float32()
	}
}
