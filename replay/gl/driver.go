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

// Package gl emulates the fixed-function state machine on the replay side.
// A Driver decodes frames, applies each command to its State, replays
// display lists and commits the geometry of every draw to a geometry.Cache.
package gl

import (
	"context"

	"github.com/google/glremix/core/log"
	"github.com/google/glremix/protocol"
	"github.com/google/glremix/replay/geometry"
)

// MaxCallDepth is the deepest display list nesting that is replayed.
const MaxCallDepth = 64

// Stats counts driver activity.
type Stats struct {
	Frames    uint64
	Commands  uint64
	Unhandled uint64 // Commands without a handler.
	Malformed uint64 // Commands whose payload failed to decode.
	Draws     uint64
	Lists     int
}

// bracket is an open NewList.
type bracket struct {
	id    uint32
	mode  uint32
	depth int // Stream depth the list was opened at.
	start int // Offset of the first recorded command.
}

// Driver applies command streams to a State.
type Driver struct {
	state   *State
	cache   *geometry.Cache
	lists   map[uint32][]byte
	streams [][]byte
	view    protocol.View
	compile *bracket
	stats   Stats
}

// New returns a driver with a fresh State committing draws to cache.
func New(cache *geometry.Cache) *Driver {
	return &Driver{
		state: NewState(),
		cache: cache,
		lists: map[uint32][]byte{},
	}
}

// State returns the emulated state.
func (d *Driver) State() *State { return d.state }

// Cache returns the geometry cache draws are committed to.
func (d *Driver) Cache() *geometry.Cache { return d.cache }

// List returns the recorded commands of display list id.
func (d *Driver) List(id uint32) ([]byte, bool) {
	b, ok := d.lists[id]
	return b, ok
}

// Stats returns the driver counters.
func (d *Driver) Stats() Stats {
	s := d.stats
	s.Lists = len(d.lists)
	return s
}

// Process starts frame on the cache and applies commands. A truncated
// stream stops at the bad command and returns protocol.ErrTruncated;
// commands before it stay applied.
func (d *Driver) Process(ctx context.Context, frame uint32, commands []byte) error {
	ctx = log.V{"frame": frame}.Bind(ctx)
	d.cache.BeginFrame(frame)
	d.stats.Frames++
	err := d.run(ctx, commands)
	if d.state.InPrimitive {
		log.W(ctx, "Begin left open at end of frame, dropped")
		d.state.InPrimitive = false
	}
	return err
}

// run decodes and dispatches buf as a new stream on the stream stack.
func (d *Driver) run(ctx context.Context, buf []byte) error {
	depth := len(d.streams)
	d.streams = append(d.streams, buf)
	defer func() { d.streams = d.streams[:depth] }()

	dec := protocol.NewDecoder(buf, len(buf))
	for dec.Next() {
		v := dec.View()
		if d.compile != nil && d.compile.mode == protocol.GL_COMPILE && v.Type != protocol.TypeEndList {
			continue
		}
		d.dispatch(ctx, v)
	}
	if d.compile != nil && d.compile.depth == depth {
		log.W(ctx, "List %d not ended, dropped", d.compile.id)
		d.compile = nil
	}
	return dec.Err()
}

func (d *Driver) dispatch(ctx context.Context, v protocol.View) {
	d.stats.Commands++
	var h handler
	if v.Type.Valid() {
		h = handlers[v.Type]
	}
	if h == nil {
		d.stats.Unhandled++
		log.D(ctx, "No handler for %v", v.Type)
		return
	}
	c, err := protocol.Decode(v)
	if err != nil {
		d.stats.Malformed++
		log.W(ctx, "Dropping %v at offset %d: %v", v.Type, v.Start, err)
		return
	}
	d.view = v
	h(d, ctx, c)
}

func (d *Driver) newList(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.NewList)
	switch {
	case d.compile != nil:
		log.W(ctx, "NewList %d while list %d is open, ignored", cmd.List, d.compile.id)
	case len(d.streams) > 1:
		log.W(ctx, "NewList %d inside a display list, ignored", cmd.List)
	case cmd.Mode != protocol.GL_COMPILE && cmd.Mode != protocol.GL_COMPILE_AND_EXECUTE:
		log.W(ctx, "NewList %d with invalid mode %#x, ignored", cmd.List, cmd.Mode)
	default:
		d.compile = &bracket{
			id:    cmd.List,
			mode:  cmd.Mode,
			depth: len(d.streams) - 1,
			start: d.view.End,
		}
	}
}

func (d *Driver) endList(ctx context.Context, c protocol.Command) {
	depth := len(d.streams) - 1
	if d.compile == nil || d.compile.depth != depth {
		log.D(ctx, "EndList without matching NewList, ignored")
		return
	}
	body := d.streams[depth][d.compile.start:d.view.Start]
	d.lists[d.compile.id] = append([]byte(nil), body...)
	d.compile = nil
}

func (d *Driver) callList(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.CallList)
	body, ok := d.lists[cmd.List]
	switch {
	case !ok:
		log.W(ctx, "CallList of unknown list %d", cmd.List)
	case len(d.streams) > MaxCallDepth:
		log.W(ctx, "CallList %d nested deeper than %d, ignored", cmd.List, MaxCallDepth)
	default:
		if err := d.run(log.V{"list": cmd.List}.Bind(ctx), body); err != nil {
			log.W(ctx, "List %d: %v", cmd.List, err)
		}
	}
}

// commit triangulates vertices drawn with mode and records the instance.
func (d *Driver) commit(mode uint32, vertices []geometry.Vertex) {
	indices := Triangulate(mode, len(vertices))
	if len(indices) == 0 {
		return
	}
	s := d.state
	if _, ok := d.cache.Commit(vertices, indices, s.Material, s.ModelView.Top(), s.BoundTexture()); ok {
		d.stats.Draws++
	}
}
