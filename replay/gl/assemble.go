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

package gl

import (
	"bytes"
	"fmt"

	"github.com/google/glremix/core/data/binary"
	"github.com/google/glremix/core/data/endian"
	"github.com/google/glremix/core/math/f32"
	"github.com/google/glremix/protocol"
	"github.com/google/glremix/replay/geometry"
)

// Element ranges of the integer component types, used to normalise
// integer colors.
const (
	maxByte   = 127
	maxUbyte  = 255
	maxShort  = 32767
	maxUshort = 65535
	maxInt    = 2147483647
	maxUint   = 4294967295
)

// readElement reads up to len(dst) components of element i of a into dst.
// It returns the number of components read, or 0 if the element lies
// outside the array data.
func readElement(a protocol.ClientArray, i int, normalize bool, dst []float32) int {
	size := protocol.TypeSize(a.Type)
	n := int(a.Size)
	if n > len(dst) {
		n = len(dst)
	}
	stride := a.ElementStride()
	if size == 0 || n <= 0 || i < 0 || stride < 0 {
		return 0
	}
	// Index and stride are wire values, their product needs 64 bits.
	off, need, have := uint64(i)*uint64(stride), uint64(n*size), uint64(len(a.Data))
	if off > have || need > have-off {
		return 0
	}
	r := endian.Reader(bytes.NewReader(a.Data[off:off+need]), endian.LittleEndian)
	for j := 0; j < n; j++ {
		dst[j] = readComponent(r, a.Type, normalize)
	}
	if r.Error() != nil {
		return 0
	}
	return n
}

func readComponent(r binary.Reader, typ uint32, normalize bool) float32 {
	switch typ {
	case protocol.GL_BYTE:
		return unorm(float64(r.Int8()), maxByte, normalize)
	case protocol.GL_UNSIGNED_BYTE:
		return unorm(float64(r.Uint8()), maxUbyte, normalize)
	case protocol.GL_SHORT:
		return unorm(float64(r.Int16()), maxShort, normalize)
	case protocol.GL_UNSIGNED_SHORT:
		return unorm(float64(r.Uint16()), maxUshort, normalize)
	case protocol.GL_INT:
		return unorm(float64(r.Int32()), maxInt, normalize)
	case protocol.GL_UNSIGNED_INT:
		return unorm(float64(r.Uint32()), maxUint, normalize)
	case protocol.GL_FLOAT:
		return r.Float32()
	case protocol.GL_DOUBLE:
		return float32(r.Float64())
	}
	return 0
}

// unorm maps v into [0, 1] when normalize is set.
func unorm(v, max float64, normalize bool) float32 {
	if !normalize {
		return float32(v)
	}
	v /= max
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return float32(v)
}

// elementCount returns the number of whole elements held by a.
func elementCount(a protocol.ClientArray) int {
	size := int(a.Size) * protocol.TypeSize(a.Type)
	stride := a.ElementStride()
	if size <= 0 || stride <= 0 || len(a.Data) < size {
		return 0
	}
	return (len(a.Data)-size)/stride + 1
}

// decodeIndices reads count indices of the element array.
func decodeIndices(a protocol.ClientArray, count int) ([]uint32, error) {
	size := protocol.TypeSize(a.Type)
	switch a.Type {
	case protocol.GL_UNSIGNED_BYTE, protocol.GL_UNSIGNED_SHORT, protocol.GL_UNSIGNED_INT:
	default:
		return nil, fmt.Errorf("Invalid index type: %#x", a.Type)
	}
	if count*size > len(a.Data) {
		return nil, fmt.Errorf("Element array holds %d bytes, %d indices need %d", len(a.Data), count, count*size)
	}
	r := endian.Reader(bytes.NewReader(a.Data[:count*size]), endian.LittleEndian)
	indices := make([]uint32, count)
	for i := range indices {
		switch a.Type {
		case protocol.GL_UNSIGNED_BYTE:
			indices[i] = uint32(r.Uint8())
		case protocol.GL_UNSIGNED_SHORT:
			indices[i] = uint32(r.Uint16())
		default:
			indices[i] = r.Uint32()
		}
	}
	return indices, r.Error()
}

// vertexArrays are the arrays of a draw, by semantic.
type vertexArrays struct {
	position, normal, color, texcoord *protocol.ClientArray
}

func bindArrays(arrays []protocol.ClientArray) vertexArrays {
	var v vertexArrays
	for i := range arrays {
		a := &arrays[i]
		switch a.Semantic {
		case protocol.ArrayVertex:
			v.position = a
		case protocol.ArrayNormal:
			v.normal = a
		case protocol.ArrayColor:
			v.color = a
		case protocol.ArrayTexCoord:
			v.texcoord = a
		}
	}
	return v
}

// assemble builds one vertex for every array element in elements. Missing
// attributes, or elements outside an array, take the current values of s.
func (s *State) assemble(arrays []protocol.ClientArray, elements []uint32) []geometry.Vertex {
	v := bindArrays(arrays)
	out := make([]geometry.Vertex, len(elements))
	var c [4]float32
	for i, e := range elements {
		idx := int(e)
		vx := s.vertex(f32.Vec3{})
		if v.position != nil {
			c = [4]float32{0, 0, 0, 1}
			if n := readElement(*v.position, idx, false, c[:]); n == 4 && c[3] != 0 && c[3] != 1 {
				vx.Position = f32.Vec3{c[0] / c[3], c[1] / c[3], c[2] / c[3]}
			} else {
				vx.Position = f32.Vec3{c[0], c[1], c[2]}
			}
		}
		if v.normal != nil {
			c = [4]float32{}
			if readElement(*v.normal, idx, false, c[:3]) == 3 {
				vx.Normal = f32.Vec3{c[0], c[1], c[2]}
			}
		}
		if v.color != nil {
			c = [4]float32{0, 0, 0, 1}
			if readElement(*v.color, idx, true, c[:]) >= 3 {
				vx.Color = f32.Vec4(c)
			}
		}
		if v.texcoord != nil {
			c = [4]float32{}
			if readElement(*v.texcoord, idx, false, c[:2]) > 0 {
				vx.UV = f32.Vec2{c[0], c[1]}
			}
		}
		out[i] = vx
	}
	return out
}

// sequence returns the element list 0..count-1.
func sequence(count int) []uint32 {
	out := make([]uint32, count)
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}
