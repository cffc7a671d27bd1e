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

package shim

import (
	eb "encoding/binary"

	"github.com/google/glremix/protocol"
)

// numBindings excludes the element array, which is passed to DrawElements
// directly.
const numBindings = protocol.MaxArrays - 1

// binding is a client array bound with one of the *Pointer calls.
type binding struct {
	enabled bool
	size    int32
	typ     uint32
	stride  int32
	data    []byte
}

func (b *binding) elementSize() int { return int(b.size) * protocol.TypeSize(b.typ) }

func (b *binding) elementStride() int {
	if b.stride > 0 {
		return int(b.stride)
	}
	return b.elementSize()
}

func (s *Session) resetArrays() { s.arrays = [numBindings]binding{} }

// EnableClientState enables the client array selected by c.
func (s *Session) EnableClientState(c uint32) { s.setClientState(c, true) }

// DisableClientState disables the client array selected by c.
func (s *Session) DisableClientState(c uint32) { s.setClientState(c, false) }

func (s *Session) setClientState(c uint32, enabled bool) {
	if sem, ok := protocol.SemanticForCap(c); ok {
		s.arrays[sem].enabled = enabled
	}
}

func (s *Session) pointer(sem protocol.ArraySemantic, size int32, typ uint32, stride int32, data []byte) {
	b := &s.arrays[sem]
	b.size, b.typ, b.stride, b.data = size, typ, stride, data
}

// VertexPointer binds the vertex array.
func (s *Session) VertexPointer(size int32, typ uint32, stride int32, data []byte) {
	s.pointer(protocol.ArrayVertex, size, typ, stride, data)
}

// NormalPointer binds the normal array.
func (s *Session) NormalPointer(typ uint32, stride int32, data []byte) {
	s.pointer(protocol.ArrayNormal, 3, typ, stride, data)
}

// ColorPointer binds the color array.
func (s *Session) ColorPointer(size int32, typ uint32, stride int32, data []byte) {
	s.pointer(protocol.ArrayColor, size, typ, stride, data)
}

// TexCoordPointer binds the texture coordinate array.
func (s *Session) TexCoordPointer(size int32, typ uint32, stride int32, data []byte) {
	s.pointer(protocol.ArrayTexCoord, size, typ, stride, data)
}

// IndexPointer binds the color index array.
func (s *Session) IndexPointer(typ uint32, stride int32, data []byte) {
	s.pointer(protocol.ArrayColorIndex, 1, typ, stride, data)
}

// EdgeFlagPointer binds the edge flag array.
func (s *Session) EdgeFlagPointer(stride int32, data []byte) {
	s.pointer(protocol.ArrayEdgeFlag, 1, protocol.GL_UNSIGNED_BYTE, stride, data)
}

// DrawArrays records a draw of count vertices starting at first, copying
// that range of every enabled array.
func (s *Session) DrawArrays(mode uint32, first, count int32) {
	if first < 0 || count < 0 {
		return
	}
	s.record(&protocol.DrawArrays{
		Mode:   mode,
		First:  first,
		Count:  count,
		Arrays: s.copyArrays(int(first), int(count), nil),
	})
}

// DrawElements records an indexed draw. The indices and the range
// [0, max index] of every enabled array are copied.
func (s *Session) DrawElements(mode uint32, count int32, typ uint32, indices []byte) {
	switch typ {
	case protocol.GL_UNSIGNED_BYTE, protocol.GL_UNSIGNED_SHORT, protocol.GL_UNSIGNED_INT:
	default:
		return
	}
	if count < 0 {
		return
	}
	size := protocol.TypeSize(typ)
	n := int(count) * size
	if n > len(indices) {
		s.arrayFaults++
		n = len(indices) - len(indices)%size
		count = int32(n / size)
	}
	indices = indices[:n]
	vertices := 0
	if count > 0 {
		vertices = int(maxIndex(indices, typ)) + 1
	}
	elements := protocol.ClientArray{
		ArrayHeader: protocol.ArrayHeader{
			Semantic: protocol.ArrayElements,
			Size:     1,
			Type:     typ,
			Bytes:    uint32(n),
		},
		Data: indices,
	}
	s.record(&protocol.DrawElements{
		Mode:      mode,
		Count:     count,
		IndexType: typ,
		Arrays:    s.copyArrays(0, vertices, &elements),
	})
}

// copyArrays copies elements [first, first+count) of every enabled array
// into the scratch arena.
func (s *Session) copyArrays(first, count int, extra *protocol.ClientArray) []protocol.ClientArray {
	type span struct{ start, end int }
	var spans [numBindings]span
	total := 0
	for i := range s.arrays {
		b := &s.arrays[i]
		if !b.enabled || count == 0 || b.elementSize() == 0 {
			continue
		}
		start := first * b.elementStride()
		end := start + (count-1)*b.elementStride() + b.elementSize()
		if end > len(b.data) {
			s.arrayFaults++
			end = len(b.data)
		}
		if start >= end {
			continue
		}
		spans[i] = span{start, end}
		total += end - start
	}

	buf := s.scratch.Get(total)
	out := make([]protocol.ClientArray, 0, protocol.MaxArrays)
	off := 0
	for i, sp := range spans {
		if sp.end == sp.start {
			continue
		}
		b := &s.arrays[i]
		data := buf[off : off+sp.end-sp.start]
		copy(data, b.data[sp.start:sp.end])
		off += len(data)
		out = append(out, protocol.ClientArray{
			ArrayHeader: protocol.ArrayHeader{
				Semantic: protocol.ArraySemantic(i),
				Size:     b.size,
				Type:     b.typ,
				Stride:   uint32(b.elementStride()),
				Bytes:    uint32(len(data)),
			},
			Data: data,
		})
	}
	if extra != nil {
		out = append(out, *extra)
	}
	return out
}

func maxIndex(indices []byte, typ uint32) uint32 {
	max := uint32(0)
	switch typ {
	case protocol.GL_UNSIGNED_BYTE:
		for _, v := range indices {
			if uint32(v) > max {
				max = uint32(v)
			}
		}
	case protocol.GL_UNSIGNED_SHORT:
		for i := 0; i+2 <= len(indices); i += 2 {
			if v := uint32(eb.LittleEndian.Uint16(indices[i:])); v > max {
				max = v
			}
		}
	case protocol.GL_UNSIGNED_INT:
		for i := 0; i+4 <= len(indices); i += 4 {
			if v := eb.LittleEndian.Uint32(indices[i:]); v > max {
				max = v
			}
		}
	}
	return max
}
