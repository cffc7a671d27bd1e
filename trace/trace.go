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

// Package trace reads and writes capture files: a short file header
// followed by frames exactly as they travel over the channel.
package trace

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/google/glremix/core/data/binary"
	"github.com/google/glremix/core/data/endian"
	"github.com/google/glremix/core/fault"
	"github.com/google/glremix/protocol"
	"github.com/pkg/errors"
)

const (
	// Magic starts every trace file.
	Magic = "glrx"
	// Version is the current file format version.
	Version = uint32(1)

	// ErrBadMagic is returned when a file is not a trace.
	ErrBadMagic = fault.Const("Not a trace file")
	// ErrBadVersion is returned for traces of an unsupported version.
	ErrBadVersion = fault.Const("Unsupported trace version")
	// ErrBadFrame is returned for a frame header no writer could produce.
	// The frames after it cannot be located.
	ErrBadFrame = fault.Const("Corrupt trace frame")

	maxFrameSize = 1 << 30
)

// Writer appends frames to a trace. It implements shim.FrameSink.
type Writer struct {
	out    *bufio.Writer
	w      binary.Writer
	closer io.Closer
	frames int
}

// NewWriter writes the file header to out and returns a Writer.
func NewWriter(out io.Writer) (*Writer, error) {
	b := bufio.NewWriter(out)
	w := endian.Writer(b, endian.LittleEndian)
	w.Data([]byte(Magic))
	w.Uint32(Version)
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "writing trace header")
	}
	return &Writer{out: b, w: w}, nil
}

// Create creates the trace file at path.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating trace %s", path)
	}
	w, err := NewWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// WriteFrame appends an encoded frame, header included.
func (w *Writer) WriteFrame(ctx context.Context, frame []byte) error {
	if _, _, err := protocol.ParseFrame(frame); err != nil {
		return err
	}
	w.w.Data(frame)
	if err := w.w.Error(); err != nil {
		return errors.Wrap(err, "writing frame")
	}
	w.frames++
	return nil
}

// Frames returns the number of frames written.
func (w *Writer) Frames() int { return w.frames }

// Close flushes the trace and closes the file if the Writer opened it.
func (w *Writer) Close() error {
	err := w.out.Flush()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return errors.Wrap(err, "closing trace")
}

// Reader reads frames from a trace.
type Reader struct {
	r      binary.Reader
	closer io.Closer
	buf    []byte
}

// NewReader checks the file header of in and returns a Reader.
func NewReader(in io.Reader) (*Reader, error) {
	r := endian.Reader(bufio.NewReader(in), endian.LittleEndian)
	magic := make([]byte, len(Magic))
	r.Data(magic)
	version := r.Uint32()
	if err := r.Error(); err != nil {
		return nil, ErrBadMagic
	}
	if string(magic) != Magic {
		return nil, ErrBadMagic
	}
	if version != Version {
		return nil, ErrBadVersion
	}
	return &Reader{r: r}, nil
}

// Open opens the trace file at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening trace %s", path)
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// Next returns the next frame, header included. The frame is valid until
// the next call. It returns io.EOF after the last frame.
func (r *Reader) Next() ([]byte, error) {
	var hdr [protocol.FrameHeaderSize]byte
	if _, err := io.ReadFull(r.r, hdr[:]); err != nil {
		switch err {
		case io.EOF:
			return nil, io.EOF
		case io.ErrUnexpectedEOF:
			return nil, errors.Wrap(protocol.ErrTruncated, "reading frame header")
		}
		return nil, errors.Wrap(err, "reading frame header")
	}
	h, _, _ := protocol.ParseFrame(hdr[:])
	if h.Size > maxFrameSize {
		return nil, errors.Wrapf(ErrBadFrame, "frame %d claims %d bytes", h.Index, h.Size)
	}
	n := protocol.FrameHeaderSize + int(h.Size)
	if cap(r.buf) < n {
		r.buf = make([]byte, n)
	}
	r.buf = r.buf[:n]
	copy(r.buf, hdr[:])
	if _, err := io.ReadFull(r.r, r.buf[protocol.FrameHeaderSize:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.Wrapf(protocol.ErrTruncated, "reading frame %d", h.Index)
		}
		return nil, errors.Wrapf(err, "reading frame %d", h.Index)
	}
	return r.buf, nil
}

// ForEach calls f with every remaining frame until f returns an error or
// the trace ends.
func (r *Reader) ForEach(f func(frame []byte) error) error {
	for {
		frame, err := r.Next()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		}
		if err := f(frame); err != nil {
			return err
		}
	}
}

// Close closes the file if the Reader opened it.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
