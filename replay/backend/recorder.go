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

package backend

import (
	"context"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/google/glremix/core/log"
	"github.com/google/glremix/replay/geometry"
)

// Mesh is a mesh held by a Recorder.
type Mesh struct {
	Hash     uint64
	Vertices []geometry.Vertex
	Indices  []uint32
}

// Texture is a texture held by a Recorder.
type Texture struct {
	Index  uint32
	Width  int32
	Height int32
	Format gputypes.TextureFormat
	Levels [][]byte
}

// Frame is a frame submitted to a Recorder.
type Frame struct {
	Index     uint32
	Instances []Instance
}

// Stats summarises a Recorder.
type Stats struct {
	Meshes         int
	Textures       int
	Frames         int
	MeshUploads    int
	TextureUploads int
	Released       int // Meshes and textures released.
}

// Recorder keeps everything it is given in memory. It is safe to inspect
// from other goroutines while the engine drives it.
type Recorder struct {
	// KeepFrames bounds the number of frames retained. 0 keeps all.
	KeepFrames int
	// FailUploads is the number of following mesh uploads to fail.
	FailUploads int

	mu       sync.Mutex
	next     uint32
	meshes   map[MeshHandle]Mesh
	textures map[TextureHandle]Texture
	byIndex  map[uint32]TextureHandle
	frames   []Frame
	stats    Stats
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		meshes:   map[MeshHandle]Mesh{},
		textures: map[TextureHandle]Texture{},
		byIndex:  map[uint32]TextureHandle{},
	}
}

// UploadMesh implements Backend.
func (r *Recorder) UploadMesh(ctx context.Context, hash uint64, vertices []geometry.Vertex, indices []uint32) (MeshHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailUploads > 0 {
		r.FailUploads--
		return 0, ErrUploadFailed
	}
	r.next++
	h := MeshHandle(r.next)
	r.meshes[h] = Mesh{Hash: hash, Vertices: vertices, Indices: indices}
	r.stats.MeshUploads++
	log.D(ctx, "Mesh %#x uploaded as %d", hash, h)
	return h, nil
}

// UploadTexture implements Backend. Re-uploading an index replaces the
// texture behind the same handle.
func (r *Recorder) UploadTexture(ctx context.Context, index uint32, width, height int32, format gputypes.TextureFormat, levels [][]byte) (TextureHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.byIndex[index]
	if !ok {
		r.next++
		h = TextureHandle(r.next)
		r.byIndex[index] = h
	}
	r.textures[h] = Texture{Index: index, Width: width, Height: height, Format: format, Levels: levels}
	r.stats.TextureUploads++
	return h, nil
}

// SubmitFrame implements Backend.
func (r *Recorder) SubmitFrame(ctx context.Context, frame uint32, instances []Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, Frame{Index: frame, Instances: append([]Instance(nil), instances...)})
	if r.KeepFrames > 0 && len(r.frames) > r.KeepFrames {
		r.frames = append(r.frames[:0], r.frames[len(r.frames)-r.KeepFrames:]...)
	}
	r.stats.Frames++
	return nil
}

// ReleaseMesh implements MeshReleaser.
func (r *Recorder) ReleaseMesh(ctx context.Context, mesh MeshHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.meshes, mesh)
	r.stats.Released++
	return nil
}

// ReleaseTexture implements TextureReleaser. A later upload of the same
// index gets a new handle.
func (r *Recorder) ReleaseTexture(ctx context.Context, texture TextureHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.textures[texture]; ok {
		delete(r.byIndex, t.Index)
		delete(r.textures, texture)
	}
	r.stats.Released++
	return nil
}

// Mesh returns the mesh behind h.
func (r *Recorder) Mesh(h MeshHandle) (Mesh, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meshes[h]
	return m, ok
}

// Texture returns the texture behind h.
func (r *Recorder) Texture(h TextureHandle) (Texture, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.textures[h]
	return t, ok
}

// Frames returns the retained frames, oldest first.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

// Last returns the most recent frame.
func (r *Recorder) Last() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return Frame{}, false
	}
	return r.frames[len(r.frames)-1], true
}

// Stats returns the recorder counters.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.stats
	s.Meshes, s.Textures = len(r.meshes), len(r.textures)
	return s
}
