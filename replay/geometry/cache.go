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

// Package geometry holds the content-addressed mesh cache of the replay
// side and the per-frame instance and upload queues it feeds.
package geometry

import (
	"sort"

	"github.com/google/glremix/core/math/f32"
)

type entry struct {
	slot     uint32
	lastUsed uint32
	valid    bool // False once the backend lost the upload.
}

// Stats counts cache activity.
type Stats struct {
	Meshes uint64 // Distinct meshes currently cached.
	Hits   uint64
	Misses uint64
	Pruned uint64
}

// Cache de-duplicates meshes by content. A mesh is queued for upload the
// first time its hash is seen; every commit, hit or miss, adds an instance
// to the current frame.
type Cache struct {
	meshes   map[uint64]*entry
	nextSlot uint32
	free     []uint32
	frame    uint32

	instances  []MeshRecord
	materials  []Material
	transforms []f32.Mat4
	geometry   []PendingGeometry
	textures   []PendingTexture
	deleted    []uint32

	hits, misses, pruned uint64
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{meshes: map[uint64]*entry{}}
}

// BeginFrame starts frame. The instance list, the material and transform
// pools and the pending queues are cleared, drained or not.
func (c *Cache) BeginFrame(frame uint32) {
	c.frame = frame
	c.instances = c.instances[:0]
	c.materials = c.materials[:0]
	c.transforms = c.transforms[:0]
	c.geometry = c.geometry[:0]
	c.textures = c.textures[:0]
	c.deleted = c.deleted[:0]
}

// Frame returns the current frame index.
func (c *Cache) Frame() uint32 { return c.frame }

// Commit records an instance of the mesh (vertices, indices) drawn with
// material, transform and texture. Meshes without indices are not
// committed. The slices are copied when the mesh is queued for upload.
func (c *Cache) Commit(vertices []Vertex, indices []uint32, material Material, transform f32.Mat4, texture int32) (MeshRecord, bool) {
	if len(indices) == 0 {
		return MeshRecord{}, false
	}
	hash := Hash(vertices, indices)
	e, ok := c.meshes[hash]
	switch {
	case !ok:
		c.misses++
		e = &entry{slot: c.allocSlot()}
		c.meshes[hash] = e
		c.queue(hash, e, vertices, indices)
	case !e.valid:
		c.misses++
		c.queue(hash, e, vertices, indices)
	default:
		c.hits++
	}
	e.lastUsed = c.frame

	r := MeshRecord{
		Hash:           hash,
		Slot:           e.slot,
		LastUsedFrame:  c.frame,
		MaterialIndex:  uint32(len(c.materials)),
		TransformIndex: uint32(len(c.transforms)),
		TextureIndex:   texture,
	}
	c.materials = append(c.materials, material)
	c.transforms = append(c.transforms, transform)
	c.instances = append(c.instances, r)
	return r, true
}

func (c *Cache) queue(hash uint64, e *entry, vertices []Vertex, indices []uint32) {
	e.valid = true
	c.geometry = append(c.geometry, PendingGeometry{
		Hash:     hash,
		Slot:     e.slot,
		Vertices: append([]Vertex(nil), vertices...),
		Indices:  append([]uint32(nil), indices...),
	})
}

func (c *Cache) allocSlot() uint32 {
	if n := len(c.free); n > 0 {
		s := c.free[n-1]
		c.free = c.free[:n-1]
		return s
	}
	s := c.nextSlot
	c.nextSlot++
	return s
}

// QueueTexture adds a texture upload to the current frame.
func (c *Cache) QueueTexture(t PendingTexture) { c.textures = append(c.textures, t) }

// QueueTextureDelete records that the texture with dense index index was
// deleted this frame.
func (c *Cache) QueueTextureDelete(index uint32) { c.deleted = append(c.deleted, index) }

// Invalidate marks the mesh with hash as lost by the backend. Its next
// commit queues it for upload again into the same slot. It returns false
// if the hash is not cached.
func (c *Cache) Invalidate(hash uint64) bool {
	e, ok := c.meshes[hash]
	if ok {
		e.valid = false
	}
	return ok
}

// Prune forgets meshes not drawn in the last maxAge frames and returns
// their slots, which become free for reuse.
func (c *Cache) Prune(maxAge uint32) []uint32 {
	var slots []uint32
	for hash, e := range c.meshes {
		if e.lastUsed <= c.frame && c.frame-e.lastUsed > maxAge {
			delete(c.meshes, hash)
			slots = append(slots, e.slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	c.free = append(c.free, slots...)
	c.pruned += uint64(len(slots))
	return slots
}

// Contains returns true if hash is cached.
func (c *Cache) Contains(hash uint64) bool {
	_, ok := c.meshes[hash]
	return ok
}

// Len returns the number of cached meshes.
func (c *Cache) Len() int { return len(c.meshes) }

// Instances returns this frame's instances in draw order.
func (c *Cache) Instances() []MeshRecord { return c.instances }

// Materials returns this frame's material pool.
func (c *Cache) Materials() []Material { return c.materials }

// Transforms returns this frame's model-view pool.
func (c *Cache) Transforms() []f32.Mat4 { return c.transforms }

// PendingGeometry returns the meshes queued for upload this frame.
func (c *Cache) PendingGeometry() []PendingGeometry { return c.geometry }

// PendingTextures returns the textures queued for upload this frame.
func (c *Cache) PendingTextures() []PendingTexture { return c.textures }

// DeletedTextures returns the dense indices of the textures deleted this
// frame.
func (c *Cache) DeletedTextures() []uint32 { return c.deleted }

// Stats returns the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{Meshes: uint64(len(c.meshes)), Hits: c.hits, Misses: c.misses, Pruned: c.pruned}
}
