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

// Package replay runs the replay side: it pulls frames from a Source, drives
// the state machine and hands the resulting uploads and instances to a
// backend.Backend.
package replay

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/google/glremix/core/event/task"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/protocol"
	"github.com/google/glremix/replay/backend"
	"github.com/google/glremix/replay/geometry"
	"github.com/google/glremix/replay/gl"
	"github.com/google/glremix/trace"
)

// Source yields frames in order. It returns io.EOF after the last frame.
type Source interface {
	Next(ctx context.Context) (protocol.FrameHeader, []byte, error)
}

// FromTrace returns a Source reading the frames of a trace file.
func FromTrace(r *trace.Reader) Source { return traceSource{r} }

type traceSource struct{ r *trace.Reader }

func (s traceSource) Next(ctx context.Context) (protocol.FrameHeader, []byte, error) {
	frame, err := s.r.Next()
	if err != nil {
		return protocol.FrameHeader{}, nil, err
	}
	return protocol.ParseFrame(frame)
}

// Options configures an Engine.
type Options struct {
	// PruneAfter is the number of frames a mesh may go undrawn before it is
	// dropped from the cache. 0 never prunes.
	PruneAfter uint32
}

// Stats summarises an Engine.
type Stats struct {
	Frames         uint64
	BadFrames      uint64 // Frames dropped before replay.
	LastFrame      uint32
	Instances      int // Instances submitted for the last frame.
	MeshUploads    uint64
	TextureUploads uint64
	UploadFailures uint64
	Released       uint64 // Meshes and textures released.
	Driver         gl.Stats
	Cache          geometry.Stats
}

// Engine owns the replay state of one client.
type Engine struct {
	backend  backend.Backend
	opts     Options
	cache    *geometry.Cache
	driver   *gl.Driver
	meshes   map[uint32]backend.MeshHandle    // By cache slot.
	textures map[uint32]backend.TextureHandle // By dense texture index.
	batch    []backend.Instance

	mu    sync.Mutex
	stats Stats
}

// New returns an engine drawing to b.
func New(b backend.Backend, opts Options) *Engine {
	cache := geometry.New()
	return &Engine{
		backend:  b,
		opts:     opts,
		cache:    cache,
		driver:   gl.New(cache),
		meshes:   map[uint32]backend.MeshHandle{},
		textures: map[uint32]backend.TextureHandle{},
	}
}

// Driver returns the state machine driver.
func (e *Engine) Driver() *gl.Driver { return e.driver }

// Stats returns a snapshot of the engine counters. It may be called from
// any goroutine.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Run replays frames from src until it is exhausted or ctx is stopped.
// A frame too short to parse is dropped and counted.
func (e *Engine) Run(ctx context.Context, src Source) error {
	for !task.Stopped(ctx) {
		hdr, commands, err := src.Next(ctx)
		switch {
		case errors.Cause(err) == io.EOF:
			return nil
		case task.Stopped(ctx):
			return nil
		case errors.Cause(err) == protocol.ErrTruncated:
			log.W(ctx, "Frame dropped: %v", err)
			e.mu.Lock()
			e.stats.BadFrames++
			e.mu.Unlock()
			continue
		case err != nil:
			return log.Err(ctx, err, "Reading frame")
		}
		if err := e.Frame(ctx, hdr.Index, commands); err != nil {
			return err
		}
	}
	return nil
}

// Frame replays one frame. A malformed frame is applied up to the bad
// command and still submitted; only backend submission errors are
// returned.
func (e *Engine) Frame(ctx context.Context, index uint32, commands []byte) error {
	ctx = log.V{"frame": index}.Bind(ctx)
	if err := e.driver.Process(ctx, index, commands); err != nil {
		log.W(ctx, "Frame replayed partially: %v", err)
	}
	var s Stats
	e.uploadTextures(ctx, &s)
	e.uploadMeshes(ctx, &s)
	e.batch = e.instances(e.batch[:0])
	if err := e.backend.SubmitFrame(ctx, index, e.batch); err != nil {
		return log.Err(ctx, err, "Submitting frame")
	}
	e.releaseTextures(ctx, &s)
	e.prune(ctx, &s)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.Frames++
	e.stats.LastFrame = index
	e.stats.Instances = len(e.batch)
	e.stats.MeshUploads += s.MeshUploads
	e.stats.TextureUploads += s.TextureUploads
	e.stats.UploadFailures += s.UploadFailures
	e.stats.Released += s.Released
	e.stats.Driver = e.driver.Stats()
	e.stats.Cache = e.cache.Stats()
	return nil
}

func (e *Engine) uploadTextures(ctx context.Context, s *Stats) {
	for _, t := range e.cache.PendingTextures() {
		h, err := e.backend.UploadTexture(ctx, t.Index, t.Width, t.Height, t.Format, t.Levels)
		if err != nil {
			s.UploadFailures++
			log.W(ctx, "Texture %d upload failed: %v", t.Name, err)
			continue
		}
		s.TextureUploads++
		e.textures[t.Index] = h
	}
}

// releaseTextures forgets the handles of the textures deleted this frame.
// It runs after submission so draws issued before the delete keep their
// texture.
func (e *Engine) releaseTextures(ctx context.Context, s *Stats) {
	releaser, _ := e.backend.(backend.TextureReleaser)
	for _, index := range e.cache.DeletedTextures() {
		h, ok := e.textures[index]
		delete(e.textures, index)
		if !ok || releaser == nil {
			continue
		}
		if err := releaser.ReleaseTexture(ctx, h); err != nil {
			log.W(ctx, "Releasing texture %d: %v", h, err)
			continue
		}
		s.Released++
	}
}

func (e *Engine) uploadMeshes(ctx context.Context, s *Stats) {
	for _, g := range e.cache.PendingGeometry() {
		h, err := e.backend.UploadMesh(ctx, g.Hash, g.Vertices, g.Indices)
		if err != nil {
			s.UploadFailures++
			log.W(ctx, "Mesh %#x upload failed: %v", g.Hash, err)
			e.cache.Invalidate(g.Hash)
			delete(e.meshes, g.Slot)
			continue
		}
		s.MeshUploads++
		e.meshes[g.Slot] = h
	}
}

// instances appends the frame's instances whose mesh made it to the
// backend.
func (e *Engine) instances(out []backend.Instance) []backend.Instance {
	materials, transforms := e.cache.Materials(), e.cache.Transforms()
	for _, r := range e.cache.Instances() {
		mesh, ok := e.meshes[r.Slot]
		if !ok {
			continue
		}
		tex := backend.NoTexture
		if r.TextureIndex != geometry.NoTexture {
			if h, ok := e.textures[uint32(r.TextureIndex)]; ok {
				tex = h
			}
		}
		out = append(out, backend.Instance{
			Mesh:      mesh,
			Material:  materials[r.MaterialIndex],
			Transform: transforms[r.TransformIndex],
			Texture:   tex,
		})
	}
	return out
}

func (e *Engine) prune(ctx context.Context, s *Stats) {
	if e.opts.PruneAfter == 0 {
		return
	}
	releaser, _ := e.backend.(backend.MeshReleaser)
	for _, slot := range e.cache.Prune(e.opts.PruneAfter) {
		h, ok := e.meshes[slot]
		delete(e.meshes, slot)
		if !ok || releaser == nil {
			continue
		}
		if err := releaser.ReleaseMesh(ctx, h); err != nil {
			log.W(ctx, "Releasing mesh %d: %v", h, err)
			continue
		}
		s.Released++
	}
}
