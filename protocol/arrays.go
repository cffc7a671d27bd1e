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

import (
	"fmt"

	"github.com/google/glremix/core/data/binary"
)

// ArraySemantic identifies the attribute carried by a client array.
type ArraySemantic uint32

const (
	ArrayVertex ArraySemantic = iota
	ArrayNormal
	ArrayColor
	ArrayTexCoord
	ArrayColorIndex
	ArrayEdgeFlag
	// ArrayElements carries the element indices of a DrawElements call.
	ArrayElements
)

// MaxArrays is the number of array header slots carried by every draw.
const MaxArrays = 7

// ArrayHeaderSize is the encoded size of an ArrayHeader.
const ArrayHeaderSize = 20

const drawFixedSize = 16 + MaxArrays*ArrayHeaderSize

var semanticNames = [MaxArrays]string{
	"Vertex", "Normal", "Color", "TexCoord", "ColorIndex", "EdgeFlag", "Elements",
}

func (s ArraySemantic) String() string {
	if s < MaxArrays {
		return semanticNames[s]
	}
	return fmt.Sprintf("ArraySemantic(%d)", uint32(s))
}

// SemanticForCap returns the array semantic enabled by the client state
// capability cap.
func SemanticForCap(cap uint32) (ArraySemantic, bool) {
	switch cap {
	case GL_VERTEX_ARRAY:
		return ArrayVertex, true
	case GL_NORMAL_ARRAY:
		return ArrayNormal, true
	case GL_COLOR_ARRAY:
		return ArrayColor, true
	case GL_TEXTURE_COORD_ARRAY:
		return ArrayTexCoord, true
	case GL_INDEX_ARRAY:
		return ArrayColorIndex, true
	case GL_EDGE_FLAG_ARRAY:
		return ArrayEdgeFlag, true
	}
	return 0, false
}

// ArrayHeader describes one client array copied into a draw command.
// Data holds the elements of the drawn range with the client's stride
// preserved; Bytes is its length.
type ArrayHeader struct {
	Semantic ArraySemantic
	Size     int32  // Components per element.
	Type     uint32 // GL component type.
	Stride   uint32 // Bytes between elements, 0 for tightly packed.
	Bytes    uint32
}

// ElementStride returns the distance in bytes between consecutive elements.
func (h ArrayHeader) ElementStride() int {
	if h.Stride != 0 {
		return int(h.Stride)
	}
	return int(h.Size) * TypeSize(h.Type)
}

// ClientArray is an ArrayHeader followed by its data.
type ClientArray struct {
	ArrayHeader
	Data []byte
}

// DrawArrays draws Count vertices starting at First from the enabled client
// arrays. Arrays hold the bytes of elements [First, First+Count).
type DrawArrays struct {
	Mode   uint32
	First  int32
	Count  int32
	Arrays []ClientArray
}

// DrawElements draws Count indexed vertices. The indices travel as the
// ArrayElements array and the other arrays hold elements [0, max index].
type DrawElements struct {
	Mode      uint32
	Count     int32
	IndexType uint32
	Arrays    []ClientArray
}

func (DrawArrays) Type() Type   { return TypeDrawArrays }
func (DrawElements) Type() Type { return TypeDrawElements }

// Array returns the array with semantic s, if present.
func (c *DrawArrays) Array(s ArraySemantic) (ClientArray, bool) { return findArray(c.Arrays, s) }

// Array returns the array with semantic s, if present.
func (c *DrawElements) Array(s ArraySemantic) (ClientArray, bool) { return findArray(c.Arrays, s) }

func (c *DrawArrays) encode(w binary.Writer) {
	w.Uint32(c.Mode)
	writeI32(w, c.First, c.Count)
	writeArrays(w, c.Arrays)
}

func (c *DrawArrays) decode(r binary.Reader, size int) {
	c.Mode = r.Uint32()
	readI32(r, &c.First, &c.Count)
	c.Arrays = readArrays(r, size)
}

func (c *DrawElements) encode(w binary.Writer) {
	w.Uint32(c.Mode)
	w.Int32(c.Count)
	w.Uint32(c.IndexType)
	writeArrays(w, c.Arrays)
}

func (c *DrawElements) decode(r binary.Reader, size int) {
	c.Mode = r.Uint32()
	c.Count = r.Int32()
	c.IndexType = r.Uint32()
	c.Arrays = readArrays(r, size)
}

func findArray(arrays []ClientArray, s ArraySemantic) (ClientArray, bool) {
	for _, a := range arrays {
		if a.Semantic == s {
			return a, true
		}
	}
	return ClientArray{}, false
}

// slots orders arrays by semantic. Later arrays replace earlier ones with
// the same semantic.
func slots(arrays []ClientArray) (out [MaxArrays]*ClientArray, enabled uint32) {
	for i := range arrays {
		a := &arrays[i]
		if a.Semantic >= MaxArrays {
			continue
		}
		out[a.Semantic] = a
		enabled |= 1 << a.Semantic
	}
	return out, enabled
}

func writeArrays(w binary.Writer, arrays []ClientArray) {
	s, enabled := slots(arrays)
	w.Uint32(enabled)
	for i, a := range s {
		if a == nil {
			writeU32(w, uint32(i), 0, 0, 0, 0)
			continue
		}
		w.Uint32(uint32(a.Semantic))
		w.Int32(a.Size)
		writeU32(w, a.Type, a.Stride, uint32(len(a.Data)))
	}
	for _, a := range s {
		if a != nil {
			w.Data(a.Data)
		}
	}
}

func readArrays(r binary.Reader, size int) []ClientArray {
	enabled := r.Uint32()
	var headers [MaxArrays]ArrayHeader
	total := uint64(0)
	for i := range headers {
		h := &headers[i]
		r.Uint32()
		h.Semantic = ArraySemantic(i)
		h.Size = r.Int32()
		readU32(r, &h.Type, &h.Stride, &h.Bytes)
		if enabled&(1<<uint(i)) != 0 {
			total += uint64(h.Bytes)
		}
	}
	if r.Error() != nil {
		return nil
	}
	if total > uint64(size-drawFixedSize) {
		r.SetError(ErrShortPayload)
		return nil
	}
	var arrays []ClientArray
	for i, h := range headers {
		if enabled&(1<<uint(i)) == 0 {
			continue
		}
		a := ClientArray{ArrayHeader: h, Data: make([]byte, h.Bytes)}
		r.Data(a.Data)
		arrays = append(arrays, a)
	}
	return arrays
}
