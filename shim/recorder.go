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
	"context"
	"sync"

	"github.com/google/glremix/core/log"
	"github.com/google/glremix/protocol"
)

// FrameSink receives every completed frame, header included.
type FrameSink interface {
	WriteFrame(ctx context.Context, frame []byte) error
}

// Stats counts the work done by a Recorder.
type Stats struct {
	Frames          uint64 // Frames handed to the sink successfully.
	DroppedFrames   uint64 // Frames the sink refused.
	Commands        uint64 // Commands recorded into sent frames.
	DroppedCommands uint64 // Commands that did not fit in their frame.
	Bytes           uint64 // Frame bytes sent.
}

// Recorder accumulates commands into frames and sends each frame to a sink.
// A command that would grow the frame past the capacity is dropped and
// counted, the rest of the frame is still sent.
type Recorder struct {
	mu        sync.Mutex
	sink      FrameSink
	capacity  int
	builder   protocol.Builder
	frame     []byte
	index     uint32
	recording bool
	dropped   int
	stats     Stats
}

// NewRecorder returns a recorder that is already recording frame 0.
// capacity bounds the encoded frame, header included.
func NewRecorder(sink FrameSink, capacity int) *Recorder {
	return &Recorder{sink: sink, capacity: capacity, recording: true}
}

// StartFrame begins recording the next frame.
func (r *Recorder) StartFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = true
}

// Recording returns true between StartFrame and EndFrame.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Record appends c to the current frame. It returns false if the recorder
// is not recording or the command did not fit.
func (r *Recorder) Record(c protocol.Command) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return false
	}
	encoded := r.builder.Encode(c)
	if protocol.FrameHeaderSize+r.builder.Len()+len(encoded) > r.capacity {
		r.dropped++
		return false
	}
	r.builder.AddEncoded(encoded)
	return true
}

// EndFrame stops recording and sends the frame to the sink. The frame index
// advances whether or not the sink accepted the frame.
func (r *Recorder) EndFrame(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return nil
	}
	r.recording = false

	ctx = log.V{"frame": r.index}.Bind(ctx)
	if r.dropped > 0 {
		log.W(ctx, "Dropped %d commands that did not fit in %d bytes", r.dropped, r.capacity)
		r.stats.DroppedCommands += uint64(r.dropped)
	}
	r.frame = r.builder.AppendFrame(r.frame[:0], r.index)
	err := r.sink.WriteFrame(ctx, r.frame)
	if err != nil {
		log.W(ctx, "Frame dropped: %v", err)
		r.stats.DroppedFrames++
	} else {
		r.stats.Frames++
		r.stats.Commands += uint64(r.builder.Count())
		r.stats.Bytes += uint64(len(r.frame))
	}
	r.builder.Reset()
	r.dropped = 0
	r.index++
	return err
}

// Index returns the index of the frame being recorded.
func (r *Recorder) Index() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

// Stats returns a snapshot of the recorder's counters.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Tee is a FrameSink that writes every frame to all of its sinks. It
// returns the first error after trying every sink.
type Tee []FrameSink

// WriteFrame writes frame to every sink.
func (t Tee) WriteFrame(ctx context.Context, frame []byte) error {
	var first error
	for _, s := range t {
		if err := s.WriteFrame(ctx, frame); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Scratch is a growable byte arena reused across calls. Slices returned by
// Get are valid until the next call.
type Scratch struct{ buf []byte }

// Get returns a slice of n bytes.
func (s *Scratch) Get(n int) []byte {
	if cap(s.buf) < n {
		s.buf = make([]byte, n)
	}
	return s.buf[:n]
}
