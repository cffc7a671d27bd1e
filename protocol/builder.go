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
	"bytes"
	eb "encoding/binary"

	"github.com/google/glremix/core/data/binary"
	"github.com/google/glremix/core/data/endian"
)

// Encoder encodes commands into a reused scratch buffer.
type Encoder struct {
	buf bytes.Buffer
	w   binary.Writer
}

// Encode returns the header and payload of c. The returned slice is only
// valid until the next call to Encode.
func (e *Encoder) Encode(c Command) []byte {
	if e.w == nil {
		e.w = endian.Writer(&e.buf, endian.LittleEndian)
	}
	e.buf.Reset()
	e.buf.Write(make([]byte, HeaderSize))
	c.encode(e.w)
	out := e.buf.Bytes()
	putHeader(out, Header{Type: c.Type(), Size: uint32(len(out) - HeaderSize)})
	return out
}

// Encode returns a newly allocated encoding of c.
func Encode(c Command) []byte {
	e := Encoder{}
	return append([]byte(nil), e.Encode(c)...)
}

// Builder accumulates the commands of one frame.
type Builder struct {
	enc   Encoder
	body  []byte
	count int
}

// Add appends c to the frame.
func (b *Builder) Add(c Command) { b.AddEncoded(b.enc.Encode(c)) }

// AddEncoded appends an already encoded command to the frame.
func (b *Builder) AddEncoded(p []byte) {
	b.body = append(b.body, p...)
	b.count++
}

// Encode encodes c with the builder's scratch encoder without adding it.
func (b *Builder) Encode(c Command) []byte { return b.enc.Encode(c) }

// Len returns the number of command bytes in the frame.
func (b *Builder) Len() int { return len(b.body) }

// Count returns the number of commands in the frame.
func (b *Builder) Count() int { return b.count }

// Commands returns the encoded commands without a frame header.
func (b *Builder) Commands() []byte { return b.body }

// Reset empties the frame, keeping its storage.
func (b *Builder) Reset() {
	b.body = b.body[:0]
	b.count = 0
}

// AppendFrame appends the frame header for index followed by the commands
// to dst.
func (b *Builder) AppendFrame(dst []byte, index uint32) []byte {
	dst = FrameHeader{Index: index, Size: uint32(len(b.body))}.Append(dst)
	return append(dst, b.body...)
}

// Append appends the encoded frame header to dst.
func (h FrameHeader) Append(dst []byte) []byte {
	dst = eb.LittleEndian.AppendUint32(dst, h.Index)
	return eb.LittleEndian.AppendUint32(dst, h.Size)
}

// ParseFrame splits a frame into its header and its commands. The commands
// are clipped to the bytes actually present.
func ParseFrame(frame []byte) (FrameHeader, []byte, error) {
	if len(frame) < FrameHeaderSize {
		return FrameHeader{}, nil, ErrTruncated
	}
	h := FrameHeader{
		Index: eb.LittleEndian.Uint32(frame[0:]),
		Size:  eb.LittleEndian.Uint32(frame[4:]),
	}
	body := frame[FrameHeaderSize:]
	if uint64(h.Size) < uint64(len(body)) {
		body = body[:h.Size]
	}
	return h, body, nil
}

func putHeader(dst []byte, h Header) {
	eb.LittleEndian.PutUint32(dst[0:], uint32(h.Type))
	eb.LittleEndian.PutUint32(dst[4:], h.Size)
}
