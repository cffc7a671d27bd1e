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

// Package shm implements a single-writer, single-reader channel that passes
// one buffer at a time through a shared memory region.
//
// The region starts with a 12 byte header, all little-endian:
//
//	state    int32   Empty, Filled or Consumed
//	size     uint32  bytes of valid payload
//	capacity uint32  bytes of payload storage
//
// followed by capacity payload bytes. The writer may only write while the
// state is Empty or Consumed, the reader may only read while it is Filled.
// Each transition fires a signal so the other side can wait without
// spinning.
package shm

import (
	"context"
	"sync/atomic"
	"unsafe"

	"github.com/google/glremix/core/fault"
	"github.com/google/glremix/core/log"
)

// State is the value of the channel's state word.
type State int32

const (
	Empty    State = 0
	Filled   State = 1
	Consumed State = 2
)

func (s State) String() string {
	switch s {
	case Empty:
		return "Empty"
	case Filled:
		return "Filled"
	case Consumed:
		return "Consumed"
	}
	return "Unknown"
}

const (
	// HeaderSize is the size of the region header preceding the payload.
	HeaderSize = 12
	// DefaultCapacity is the payload capacity used when none is given.
	DefaultCapacity = 1 << 20

	// ErrRegionTooSmall is returned when a region cannot hold the header and
	// the requested capacity.
	ErrRegionTooSmall = fault.Const("Shared region too small")
	// ErrNotReady is returned by OpenReader when the writer has not finished
	// creating the region.
	ErrNotReady = fault.Const("Shared region not ready")
	// ErrWriterExists is returned by OpenWriter when another process already
	// owns the channel.
	ErrWriterExists = fault.Const("Shared channel already has a writer")
	// ErrUnsupported is returned on platforms without shared mappings.
	ErrUnsupported = fault.Const("Shared channels are not supported on this platform")
)

// Channel is one end of a shared channel.
type Channel struct {
	region   []byte
	capacity int
	written  Signal // Fired after each write.
	read     Signal // Fired after each read.
	closer   func() error
}

// New builds a channel over caller-owned memory. region must be 4 byte
// aligned and at least HeaderSize+capacity long. The header is reset to
// Empty.
func New(region []byte, capacity int, written, read Signal) (*Channel, error) {
	if capacity <= 0 || len(region) < HeaderSize+capacity {
		return nil, ErrRegionTooSmall
	}
	c := &Channel{region: region, capacity: capacity, written: written, read: read}
	atomic.StoreUint32(c.word(4), 0)
	atomic.StoreInt32(c.state(), int32(Empty))
	atomic.StoreUint32(c.word(8), uint32(capacity))
	return c, nil
}

// NewLocal returns a channel backed by process memory and LocalSignals.
func NewLocal(capacity int) *Channel {
	words := make([]uint32, (HeaderSize+capacity+3)/4)
	region := unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), len(words)*4)
	c, err := New(region, capacity, NewLocalSignal(), NewLocalSignal())
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Channel) word(offset int) *uint32 { return headerWord(c.region, offset) }

func headerWord(region []byte, offset int) *uint32 {
	return (*uint32)(unsafe.Pointer(&region[offset]))
}

func (c *Channel) state() *int32 { return (*int32)(unsafe.Pointer(c.word(0))) }

// State returns the current state of the channel.
func (c *Channel) State() State { return State(atomic.LoadInt32(c.state())) }

// Size returns the size of the last written payload.
func (c *Channel) Size() int { return int(atomic.LoadUint32(c.word(4))) }

// Capacity returns the payload capacity of the channel.
func (c *Channel) Capacity() int { return c.capacity }

// Writable returns true if a Write would succeed for a payload that fits.
func (c *Channel) Writable() bool { return c.State() != Filled }

// Readable returns true if a Read would succeed.
func (c *Channel) Readable() bool { return c.State() == Filled }

// Write copies p into the channel and marks it Filled. It returns false,
// leaving the channel untouched, if the channel is Filled or p is larger
// than the capacity.
func (c *Channel) Write(ctx context.Context, p []byte) bool {
	if len(p) > c.capacity {
		log.W(ctx, "Shared channel write of %d bytes exceeds capacity %d", len(p), c.capacity)
		return false
	}
	if !c.Writable() {
		return false
	}
	copy(c.region[HeaderSize:], p)
	atomic.StoreUint32(c.word(4), uint32(len(p)))
	atomic.StoreInt32(c.state(), int32(Filled))
	c.written.Fire()
	return true
}

// Read copies the pending payload into dst and marks the channel Consumed.
// It returns false if the channel is not Filled. A payload larger than dst
// is truncated.
func (c *Channel) Read(ctx context.Context, dst []byte) (int, bool) {
	n, ok := c.Peek(dst)
	if !ok {
		return 0, false
	}
	if size := c.Size(); n < size {
		log.W(ctx, "Shared channel read truncated %d bytes to %d", size, n)
	}
	atomic.StoreInt32(c.state(), int32(Consumed))
	c.read.Fire()
	return n, true
}

// Peek copies the pending payload into dst without consuming it.
func (c *Channel) Peek(dst []byte) (int, bool) {
	if !c.Readable() {
		return 0, false
	}
	size := c.Size()
	if size > c.capacity {
		size = c.capacity
	}
	return copy(dst, c.region[HeaderSize:HeaderSize+size]), true
}

// WaitWritable blocks until the channel can be written or ctx is done.
func (c *Channel) WaitWritable(ctx context.Context) error {
	return waitFor(ctx, c.read, c.Writable)
}

// WaitReadable blocks until the channel can be read or ctx is done.
func (c *Channel) WaitReadable(ctx context.Context) error {
	return waitFor(ctx, c.written, c.Readable)
}

func waitFor(ctx context.Context, s Signal, ready func() bool) error {
	for !ready() {
		if err := s.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the channel's signals and mapping. The writer also removes
// the named objects it created.
func (c *Channel) Close() error {
	var err error
	for _, s := range []Signal{c.written, c.read} {
		if e := s.Close(); e != nil && err == nil {
			err = e
		}
	}
	if c.closer != nil {
		if e := c.closer(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
