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

package shim_test

import (
	"context"
	"testing"

	"github.com/google/glremix/core/assert"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/ipc"
	"github.com/google/glremix/protocol"
	"github.com/google/glremix/shim"
)

type frames struct {
	headers []protocol.FrameHeader
	cmds    [][]protocol.Command
}

func (f *frames) WriteFrame(ctx context.Context, frame []byte) error {
	h, body, err := protocol.ParseFrame(frame)
	if err != nil {
		return err
	}
	cmds, err := protocol.DecodeAll(body)
	if err != nil {
		return err
	}
	f.headers = append(f.headers, h)
	f.cmds = append(f.cmds, cmds)
	return nil
}

func newSession() (*shim.Session, *frames) {
	f := &frames{}
	return shim.NewSession(shim.NewRecorder(f, 1<<16), nil), f
}

func TestFramesAreSentAtSwap(t *testing.T) {
	ctx := log.Testing(t)
	s, f := newSession()

	s.Begin(protocol.GL_TRIANGLES)
	s.Vertex3f(1, 2, 3)
	s.End()
	assert.For(ctx, "err").ThatError(s.SwapBuffers(ctx)).Succeeded()
	s.Flush()
	assert.For(ctx, "err").ThatError(s.SwapBuffers(ctx)).Succeeded()

	assert.For(ctx, "frames").ThatSlice(f.headers).IsLength(2)
	assert.For(ctx, "index 0").That(f.headers[0].Index).Equals(uint32(0))
	assert.For(ctx, "index 1").That(f.headers[1].Index).Equals(uint32(1))
	assert.For(ctx, "frame 0").That(f.cmds[0]).DeepEquals([]protocol.Command{
		&protocol.Begin{Mode: protocol.GL_TRIANGLES},
		&protocol.Vertex3f{X: 1, Y: 2, Z: 3},
		&protocol.End{},
	})
	assert.For(ctx, "frame 1").That(f.cmds[1]).DeepEquals([]protocol.Command{&protocol.Flush{}})

	stats := s.Recorder().Stats()
	assert.For(ctx, "sent").That(stats.Frames).Equals(uint64(2))
	assert.For(ctx, "commands").That(stats.Commands).Equals(uint64(4))
}

func TestCommandsPastCapacityAreDropped(t *testing.T) {
	ctx := log.Testing(t)
	f := &frames{}
	capacity := protocol.FrameHeaderSize + 2*(protocol.HeaderSize+12)
	rec := shim.NewRecorder(f, capacity)
	s := shim.NewSession(rec, nil)

	s.Translatef(1, 0, 0)
	s.Translatef(2, 0, 0)
	s.Translatef(3, 0, 0)
	s.SwapBuffers(ctx)

	assert.For(ctx, "kept").ThatSlice(f.cmds[0]).IsLength(2)
	assert.For(ctx, "dropped").That(rec.Stats().DroppedCommands).Equals(uint64(1))
}

func TestBusyChannelDropsFrame(t *testing.T) {
	ctx := log.Testing(t)
	w, r := ipc.Pipe(1024, false)
	rec := shim.NewRecorder(w, 1024)
	s := shim.NewSession(rec, nil)

	s.Flush()
	assert.For(ctx, "first").ThatError(s.SwapBuffers(ctx)).Succeeded()
	s.Flush()
	assert.For(ctx, "second").ThatError(s.SwapBuffers(ctx)).Equals(ipc.ErrBusy)
	assert.For(ctx, "dropped").That(rec.Stats().DroppedFrames).Equals(uint64(1))
	assert.For(ctx, "next index").That(rec.Index()).Equals(uint32(2))

	h, _, err := r.Next(ctx)
	assert.For(ctx, "read").ThatError(err).Succeeded()
	assert.For(ctx, "index").That(h.Index).Equals(uint32(0))
}

func TestTee(t *testing.T) {
	ctx := log.Testing(t)
	a, b := &frames{}, &frames{}
	s := shim.NewSession(shim.NewRecorder(shim.Tee{a, b}, 1024), nil)
	s.Clear(protocol.GL_COLOR_BUFFER_BIT)
	s.SwapBuffers(ctx)
	assert.For(ctx, "a").ThatSlice(a.cmds).IsLength(1)
	assert.For(ctx, "b").ThatSlice(b.cmds).IsLength(1)
}

func TestDisplayListBookkeeping(t *testing.T) {
	ctx := log.Testing(t)
	s, f := newSession()

	first := s.GenLists(2)
	assert.For(ctx, "first").That(first).Equals(uint32(1))
	assert.For(ctx, "reserved").That(s.IsList(2)).Equals(true)
	assert.For(ctx, "unused").That(s.IsList(3)).Equals(false)

	s.NewList(first, protocol.GL_COMPILE)
	s.Translatef(1, 0, 0)
	s.EndList()
	s.CallList(first)
	s.SwapBuffers(ctx)

	assert.For(ctx, "list bytes").ThatInteger(s.ListBytes(first)).Equals(protocol.HeaderSize + 12)
	assert.For(ctx, "stream").That(f.cmds[0]).DeepEquals([]protocol.Command{
		&protocol.NewList{List: first, Mode: protocol.GL_COMPILE},
		&protocol.Translate{X: 1},
		&protocol.EndList{},
		&protocol.CallList{List: first},
	})
	assert.For(ctx, "next").That(s.GenLists(1)).Equals(uint32(3))
}

func TestTextureNames(t *testing.T) {
	ctx := log.Testing(t)
	s, f := newSession()
	names := s.GenTextures(2)
	assert.For(ctx, "names").That(names).DeepEquals([]uint32{1, 2})
	s.DeleteTextures([]uint32{1})
	assert.For(ctx, "deleted").That(s.IsTexture(1)).Equals(false)
	assert.For(ctx, "kept").That(s.IsTexture(2)).Equals(true)
	s.TexImage2D(protocol.GL_TEXTURE_2D, 0, protocol.GL_RGBA, 1, 1, 0, protocol.GL_RGBA, protocol.GL_UNSIGNED_BYTE, []byte{1, 2, 3, 4, 5})
	s.SwapBuffers(ctx)

	img := f.cmds[0][2].(*protocol.TexImage2D)
	assert.For(ctx, "pixels").That(img.Pixels).DeepEquals([]byte{1, 2, 3, 4})
}

func TestDrawArraysCopiesRange(t *testing.T) {
	ctx := log.Testing(t)
	s, f := newSession()

	// Two bytes per vertex with a one byte gap.
	vertices := []byte{0, 0, 9, 1, 1, 9, 2, 2, 9, 3, 3, 9}
	s.EnableClientState(protocol.GL_VERTEX_ARRAY)
	s.VertexPointer(2, protocol.GL_UNSIGNED_BYTE, 3, vertices)
	s.DrawArrays(protocol.GL_LINES, 1, 2)
	s.SwapBuffers(ctx)

	draw := f.cmds[0][0].(*protocol.DrawArrays)
	v, ok := draw.Array(protocol.ArrayVertex)
	assert.For(ctx, "vertex").That(ok).Equals(true)
	assert.For(ctx, "stride").That(v.Stride).Equals(uint32(3))
	assert.For(ctx, "data").That(v.Data).DeepEquals([]byte{1, 1, 9, 2, 2})
	_, ok = draw.Array(protocol.ArrayColor)
	assert.For(ctx, "no color").That(ok).Equals(false)
}

func TestDrawElementsCopiesToMaxIndex(t *testing.T) {
	ctx := log.Testing(t)
	s, f := newSession()

	s.EnableClientState(protocol.GL_VERTEX_ARRAY)
	s.EnableClientState(protocol.GL_COLOR_ARRAY)
	s.VertexPointer(1, protocol.GL_UNSIGNED_BYTE, 0, []byte{10, 11, 12, 13, 14})
	s.ColorPointer(1, protocol.GL_UNSIGNED_BYTE, 0, []byte{20, 21, 22, 23, 24})
	s.DisableClientState(protocol.GL_COLOR_ARRAY)
	s.DrawElements(protocol.GL_TRIANGLES, 3, protocol.GL_UNSIGNED_SHORT, []byte{2, 0, 0, 0, 1, 0})
	s.SwapBuffers(ctx)

	draw := f.cmds[0][0].(*protocol.DrawElements)
	assert.For(ctx, "count").That(draw.Count).Equals(int32(3))
	v, _ := draw.Array(protocol.ArrayVertex)
	assert.For(ctx, "vertices").That(v.Data).DeepEquals([]byte{10, 11, 12})
	e, _ := draw.Array(protocol.ArrayElements)
	assert.For(ctx, "elements").That(e.Data).DeepEquals([]byte{2, 0, 0, 0, 1, 0})
	_, ok := draw.Array(protocol.ArrayColor)
	assert.For(ctx, "color disabled").That(ok).Equals(false)
}

func TestArraysResetAtFrameBoundary(t *testing.T) {
	ctx := log.Testing(t)
	s, f := newSession()
	s.EnableClientState(protocol.GL_VERTEX_ARRAY)
	s.VertexPointer(1, protocol.GL_UNSIGNED_BYTE, 0, []byte{1, 2, 3})
	s.SwapBuffers(ctx)
	s.DrawArrays(protocol.GL_POINTS, 0, 3)
	s.SwapBuffers(ctx)

	draw := f.cmds[1][0].(*protocol.DrawArrays)
	assert.For(ctx, "arrays").ThatSlice(draw.Arrays).IsEmpty()
}
