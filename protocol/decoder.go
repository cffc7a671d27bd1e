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

	"github.com/google/glremix/core/data/endian"
)

// View is an undecoded command in a buffer.
type View struct {
	Type    Type
	Payload []byte
	Start   int // Offset of the command header.
	End     int // Offset just past the payload.
}

// Decoder walks the commands of a buffer. Every header and payload is bounds
// checked before it is yielded, and payloads of unknown types are skipped
// using their declared size.
type Decoder struct {
	buf  []byte
	off  int
	view View
	err  error
}

// NewDecoder returns a decoder over the first size bytes of buf. size is
// clipped to len(buf).
func NewDecoder(buf []byte, size int) *Decoder {
	d := &Decoder{}
	d.Reset(buf, size)
	return d
}

// Reset restarts the decoder over the first size bytes of buf.
func (d *Decoder) Reset(buf []byte, size int) {
	if size < 0 {
		size = 0
	}
	if size > len(buf) {
		size = len(buf)
	}
	d.buf, d.off, d.view, d.err = buf[:size], 0, View{}, nil
}

// Next advances to the next command, returning false at the end of the
// buffer or on a malformed command.
func (d *Decoder) Next() bool {
	if d.err != nil || d.off >= len(d.buf) {
		return false
	}
	remaining := len(d.buf) - d.off
	if remaining < HeaderSize {
		d.err = ErrTruncated
		return false
	}
	t := Type(eb.LittleEndian.Uint32(d.buf[d.off:]))
	size := eb.LittleEndian.Uint32(d.buf[d.off+4:])
	if uint64(size) > uint64(remaining-HeaderSize) {
		d.err = ErrTruncated
		return false
	}
	start := d.off
	payload := d.off + HeaderSize
	d.off = payload + int(size)
	d.view = View{Type: t, Payload: d.buf[payload:d.off], Start: start, End: d.off}
	return true
}

// View returns the current command.
func (d *Decoder) View() View { return d.view }

// Offset returns the offset of the next command.
func (d *Decoder) Offset() int { return d.off }

// Err returns the error that stopped decoding, if any.
func (d *Decoder) Err() error { return d.err }

// Decode decodes the typed command held by v.
func Decode(v View) (Command, error) {
	c := New(v.Type)
	if c == nil {
		return nil, ErrUnknownType
	}
	r := endian.Reader(bytes.NewReader(v.Payload), endian.LittleEndian)
	c.decode(r, len(v.Payload))
	if r.Error() != nil {
		return nil, ErrShortPayload
	}
	return c, nil
}

// DecodeAll decodes every command of buf, stopping at the first error.
func DecodeAll(buf []byte) ([]Command, error) {
	var out []Command
	d := NewDecoder(buf, len(buf))
	for d.Next() {
		c, err := Decode(d.View())
		if err != nil {
			return out, err
		}
		out = append(out, c)
	}
	return out, d.Err()
}
