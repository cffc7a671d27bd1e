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

// Package ipc moves whole frames across a shared channel.
package ipc

import (
	"context"
	"time"

	"github.com/google/glremix/core/event/task"
	"github.com/google/glremix/core/fault"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/core/os/shm"
	"github.com/google/glremix/protocol"
)

const (
	// ErrBusy is returned by a non-blocking Writer while the previous frame
	// has not been consumed.
	ErrBusy = fault.Const("Channel busy")
	// ErrFrameTooLarge is returned for frames larger than the channel.
	ErrFrameTooLarge = fault.Const("Frame exceeds channel capacity")

	// RetryDelay is the interval between attempts to open a reader.
	RetryDelay = 50 * time.Millisecond
	// DefaultOpenTimeout bounds OpenReader when ctx has no deadline.
	DefaultOpenTimeout = 60 * time.Second
)

// Writer sends frames into a channel.
type Writer struct {
	ch       *shm.Channel
	blocking bool
}

// NewWriter returns a writer over ch. A blocking writer waits for the
// reader to consume the previous frame, a non-blocking one returns ErrBusy.
func NewWriter(ch *shm.Channel, blocking bool) *Writer {
	return &Writer{ch: ch, blocking: blocking}
}

// CreateWriter creates the named channel and returns a writer over it.
func CreateWriter(ctx context.Context, o shm.Options, blocking bool) (*Writer, error) {
	ch, err := shm.OpenWriter(ctx, o)
	if err != nil {
		return nil, log.Err(ctx, err, "Creating channel")
	}
	return NewWriter(ch, blocking), nil
}

// Capacity returns the largest frame the writer can send.
func (w *Writer) Capacity() int { return w.ch.Capacity() }

// WriteFrame sends an encoded frame, header included.
func (w *Writer) WriteFrame(ctx context.Context, frame []byte) error {
	if len(frame) > w.ch.Capacity() {
		return ErrFrameTooLarge
	}
	if w.blocking {
		if err := w.ch.WaitWritable(ctx); err != nil {
			return err
		}
	}
	if !w.ch.Write(ctx, frame) {
		return ErrBusy
	}
	return nil
}

// Close closes the channel.
func (w *Writer) Close() error { return w.ch.Close() }

// Reader receives frames from a channel.
type Reader struct {
	ch  *shm.Channel
	buf []byte
}

// NewReader returns a reader over ch.
func NewReader(ch *shm.Channel) *Reader {
	return &Reader{ch: ch, buf: make([]byte, ch.Capacity())}
}

// OpenReader opens the named channel, retrying every RetryDelay until the
// writer has created it or ctx is done.
func OpenReader(ctx context.Context, o shm.Options) (*Reader, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel task.CancelFunc
		ctx, cancel = task.WithTimeout(ctx, DefaultOpenTimeout)
		defer cancel()
	}
	var ch *shm.Channel
	err := task.Retry(ctx, 0, RetryDelay, func(ctx context.Context) (bool, error) {
		c, err := shm.OpenReader(ctx, o)
		switch err {
		case nil:
			ch = c
			return true, nil
		case shm.ErrNotReady:
			return false, err
		default:
			return true, err
		}
	})
	if err != nil {
		return nil, log.Err(ctx, err, "Opening channel")
	}
	return NewReader(ch), nil
}

// Next waits for the next frame and returns its header and commands. The
// commands are valid until the next call.
func (r *Reader) Next(ctx context.Context) (protocol.FrameHeader, []byte, error) {
	if err := r.ch.WaitReadable(ctx); err != nil {
		return protocol.FrameHeader{}, nil, err
	}
	n, ok := r.ch.Read(ctx, r.buf)
	if !ok {
		return protocol.FrameHeader{}, nil, ErrBusy
	}
	return protocol.ParseFrame(r.buf[:n])
}

// Peek returns a copy of the pending frame without consuming it.
func (r *Reader) Peek() ([]byte, bool) {
	buf := make([]byte, r.ch.Capacity())
	n, ok := r.ch.Peek(buf)
	return buf[:n], ok
}

// State returns the state of the underlying channel.
func (r *Reader) State() shm.State { return r.ch.State() }

// Close closes the channel.
func (r *Reader) Close() error { return r.ch.Close() }

// Pipe returns a connected writer and reader sharing process memory.
func Pipe(capacity int, blocking bool) (*Writer, *Reader) {
	ch := shm.NewLocal(capacity)
	return NewWriter(ch, blocking), NewReader(ch)
}
