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

package replay_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/glremix/core/assert"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/core/math/f32"
	"github.com/google/glremix/ipc"
	"github.com/google/glremix/protocol"
	"github.com/google/glremix/replay"
	"github.com/google/glremix/replay/backend"
	"github.com/google/glremix/shim"
	"github.com/google/glremix/trace"
)

// frames is a Source over in-memory frames.
type frames struct {
	list [][]protocol.Command
	next int
}

func (f *frames) Next(ctx context.Context) (protocol.FrameHeader, []byte, error) {
	if f.next >= len(f.list) {
		return protocol.FrameHeader{}, nil, io.EOF
	}
	b := &protocol.Builder{}
	for _, c := range f.list[f.next] {
		b.Add(c)
	}
	f.next++
	return protocol.FrameHeader{Index: uint32(f.next - 1), Size: uint32(b.Len())}, b.Commands(), nil
}

func tri(x float32) []protocol.Command {
	return []protocol.Command{
		&protocol.Begin{Mode: protocol.GL_TRIANGLES},
		&protocol.Vertex3f{X: x},
		&protocol.Vertex3f{X: x + 1},
		&protocol.Vertex3f{X: x, Y: 1},
		&protocol.End{},
	}
}

func drawTri(s *shim.Session, x float32) {
	s.Begin(protocol.GL_TRIANGLES)
	s.Vertex3f(x, 0, 0)
	s.Vertex3f(x+1, 0, 0)
	s.Vertex3f(x, 1, 0)
	s.End()
}

func TestTraceEndToEnd(t *testing.T) {
	ctx := log.Testing(t)
	buf := &bytes.Buffer{}
	tw, err := trace.NewWriter(buf)
	assert.For(ctx, "writer").ThatError(err).Succeeded()

	s := shim.NewSession(shim.NewRecorder(tw, 1<<16), nil)
	s.NewList(1, protocol.GL_COMPILE)
	drawTri(s, 0)
	s.EndList()
	s.CallList(1)
	s.Translatef(5, 0, 0)
	s.CallList(1)
	s.SwapBuffers(ctx)
	s.CallList(1)
	s.SwapBuffers(ctx)
	assert.For(ctx, "close").ThatError(tw.Close()).Succeeded()

	tr, err := trace.NewReader(buf)
	assert.For(ctx, "reader").ThatError(err).Succeeded()
	r := backend.NewRecorder()
	e := replay.New(r, replay.Options{})
	assert.For(ctx, "run").ThatError(e.Run(ctx, replay.FromTrace(tr))).Succeeded()

	got := r.Frames()
	if !assert.For(ctx, "frames").ThatSlice(got).IsLength(2) {
		return
	}
	assert.For(ctx, "first frame").ThatSlice(got[0].Instances).IsLength(2)
	assert.For(ctx, "second frame").ThatSlice(got[1].Instances).IsLength(1)
	assert.For(ctx, "shared mesh").That(got[0].Instances[1].Mesh).Equals(got[0].Instances[0].Mesh)
	assert.For(ctx, "moved").That(got[0].Instances[1].Transform).Equals(f32.Translation(5, 0, 0))
	assert.For(ctx, "untextured").That(got[0].Instances[0].Texture).Equals(backend.NoTexture)
	assert.For(ctx, "uploads").ThatInteger(r.Stats().MeshUploads).Equals(1)

	stats := e.Stats()
	assert.For(ctx, "engine frames").That(stats.Frames).Equals(uint64(2))
	assert.For(ctx, "last frame").That(stats.LastFrame).Equals(uint32(1))
	assert.For(ctx, "lists").ThatInteger(stats.Driver.Lists).Equals(1)
}

func TestChannelFrame(t *testing.T) {
	ctx := log.Testing(t)
	w, rd := ipc.Pipe(1<<12, false)
	s := shim.NewSession(shim.NewRecorder(w, w.Capacity()), nil)
	drawTri(s, 0)
	assert.For(ctx, "swap").ThatError(s.SwapBuffers(ctx)).Succeeded()

	hdr, commands, err := rd.Next(ctx)
	assert.For(ctx, "next").ThatError(err).Succeeded()
	r := backend.NewRecorder()
	e := replay.New(r, replay.Options{})
	assert.For(ctx, "frame").ThatError(e.Frame(ctx, hdr.Index, commands)).Succeeded()
	last, ok := r.Last()
	assert.For(ctx, "submitted").That(ok).Equals(true)
	assert.For(ctx, "instances").ThatSlice(last.Instances).IsLength(1)
}

func TestUploadFailureRetries(t *testing.T) {
	ctx := log.Testing(t)
	r := backend.NewRecorder()
	r.FailUploads = 1
	e := replay.New(r, replay.Options{})
	src := &frames{list: [][]protocol.Command{tri(0), tri(0)}}
	assert.For(ctx, "run").ThatError(e.Run(ctx, src)).Succeeded()

	got := r.Frames()
	assert.For(ctx, "dropped").ThatSlice(got[0].Instances).IsEmpty()
	assert.For(ctx, "retried").ThatSlice(got[1].Instances).IsLength(1)
	assert.For(ctx, "failures").That(e.Stats().UploadFailures).Equals(uint64(1))
}

func TestPruneReleasesMeshes(t *testing.T) {
	ctx := log.Testing(t)
	r := backend.NewRecorder()
	e := replay.New(r, replay.Options{PruneAfter: 1})
	src := &frames{list: [][]protocol.Command{tri(0), tri(1), tri(1), tri(0)}}
	assert.For(ctx, "run").ThatError(e.Run(ctx, src)).Succeeded()

	s := e.Stats()
	assert.For(ctx, "released").That(s.Released).Equals(uint64(1))
	assert.For(ctx, "reuploaded").That(s.MeshUploads).Equals(uint64(3))
	assert.For(ctx, "backend meshes").ThatInteger(r.Stats().Meshes).Equals(2)
}

func TestMalformedFrameStillSubmitted(t *testing.T) {
	ctx := log.Testing(t)
	r := backend.NewRecorder()
	e := replay.New(r, replay.Options{})
	b := &protocol.Builder{}
	for _, c := range tri(0) {
		b.Add(c)
	}
	commands := append(b.Commands(), 1, 2, 3)
	assert.For(ctx, "frame").ThatError(e.Frame(ctx, 0, commands)).Succeeded()
	last, _ := r.Last()
	assert.For(ctx, "applied").ThatSlice(last.Instances).IsLength(1)
}

// raw is a Source over encoded frames, header included.
type raw struct{ list [][]byte }

func (r *raw) Next(ctx context.Context) (protocol.FrameHeader, []byte, error) {
	if len(r.list) == 0 {
		return protocol.FrameHeader{}, nil, io.EOF
	}
	frame := r.list[0]
	r.list = r.list[1:]
	return protocol.ParseFrame(frame)
}

func TestShortFrameDropped(t *testing.T) {
	ctx := log.Testing(t)
	b := &protocol.Builder{}
	for _, c := range tri(0) {
		b.Add(c)
	}
	src := &raw{list: [][]byte{{1, 2, 3}, b.AppendFrame(nil, 4)}}
	r := backend.NewRecorder()
	e := replay.New(r, replay.Options{})
	assert.For(ctx, "run").ThatError(e.Run(ctx, src)).Succeeded()

	last, ok := r.Last()
	assert.For(ctx, "submitted").That(ok).Equals(true)
	assert.For(ctx, "index").That(last.Index).Equals(uint32(4))
	assert.For(ctx, "instances").ThatSlice(last.Instances).IsLength(1)
	s := e.Stats()
	assert.For(ctx, "frames").That(s.Frames).Equals(uint64(1))
	assert.For(ctx, "bad frames").That(s.BadFrames).Equals(uint64(1))
}

func TestDeletedTextureReleased(t *testing.T) {
	ctx := log.Testing(t)
	textured := append([]protocol.Command{
		&protocol.GenTextures{Names: []uint32{3}},
		&protocol.BindTexture{Target: protocol.GL_TEXTURE_2D, Texture: 3},
		&protocol.TexImage2D{
			Target: protocol.GL_TEXTURE_2D, Width: 1, Height: 1,
			Format: protocol.GL_RGBA, PixelType: protocol.GL_UNSIGNED_BYTE, Pixels: []byte{1, 2, 3, 4},
		},
		&protocol.Enable{Cap: protocol.GL_TEXTURE_2D},
	}, tri(0)...)
	deleted := append([]protocol.Command{&protocol.DeleteTextures{Names: []uint32{3}}}, tri(0)...)
	r := backend.NewRecorder()
	e := replay.New(r, replay.Options{})
	src := &frames{list: [][]protocol.Command{textured, deleted}}
	assert.For(ctx, "run").ThatError(e.Run(ctx, src)).Succeeded()

	got := r.Frames()
	if !assert.For(ctx, "frames").ThatSlice(got).IsLength(2) {
		return
	}
	h := got[0].Instances[0].Texture
	assert.For(ctx, "textured").That(h == backend.NoTexture).Equals(false)
	assert.For(ctx, "untextured").That(got[1].Instances[0].Texture).Equals(backend.NoTexture)
	_, ok := r.Texture(h)
	assert.For(ctx, "backend texture").That(ok).Equals(false)
	assert.For(ctx, "released").That(e.Stats().Released).Equals(uint64(1))
}
