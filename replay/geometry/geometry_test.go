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

package geometry_test

import (
	"testing"

	"github.com/google/glremix/core/assert"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/core/math/f32"
	"github.com/google/glremix/replay/geometry"
)

func triangle(offset float32) []geometry.Vertex {
	white := f32.Vec4{1, 1, 1, 1}
	return []geometry.Vertex{
		{Position: f32.Vec3{0 + offset, 0, 0}, Color: white},
		{Position: f32.Vec3{1 + offset, 0, 0}, Color: white},
		{Position: f32.Vec3{0 + offset, 1, 0}, Color: white},
	}
}

var tri = []uint32{0, 1, 2}

func TestHashIgnoresNoiseBelowEpsilon(t *testing.T) {
	ctx := log.Testing(t)
	a := triangle(0.25)
	b := triangle(0.25)
	b[1].Position[0] += 1e-7
	b[2].Color[3] -= 1e-7
	assert.For(ctx, "noise").That(geometry.Hash(a, tri)).Equals(geometry.Hash(b, tri))

	c := triangle(0.25)
	c[1].Position[0] += 1e-3
	assert.For(ctx, "moved").That(geometry.Hash(a, tri)).NotEquals(geometry.Hash(c, tri))
	assert.For(ctx, "indices").That(geometry.Hash(a, tri)).NotEquals(geometry.Hash(a, []uint32{0, 2, 1}))

	d := triangle(0.25)
	d[0].Normal = f32.Vec3{0, 0, 1}
	d[0].UV = f32.Vec2{1, 1}
	assert.For(ctx, "normal and uv").That(geometry.Hash(a, tri)).Equals(geometry.Hash(d, tri))
}

func TestCacheReusesSlot(t *testing.T) {
	ctx := log.Testing(t)
	c := geometry.New()
	c.BeginFrame(0)

	m := geometry.DefaultMaterial()
	first, ok := c.Commit(triangle(0), tri, m, f32.Identity(), geometry.NoTexture)
	assert.For(ctx, "committed").That(ok).Equals(true)
	second, _ := c.Commit(triangle(0), tri, m, f32.Translation(1, 0, 0), 3)

	assert.For(ctx, "slot").That(second.Slot).Equals(first.Slot)
	assert.For(ctx, "instances").ThatSlice(c.Instances()).IsLength(2)
	assert.For(ctx, "pending").ThatSlice(c.PendingGeometry()).IsLength(1)
	assert.For(ctx, "cached").ThatInteger(c.Len()).Equals(1)
	assert.For(ctx, "transform index").That(second.TransformIndex).Equals(uint32(1))
	assert.For(ctx, "transform").That(c.Transforms()[1]).Equals(f32.Translation(1, 0, 0))
	assert.For(ctx, "texture").That(second.TextureIndex).Equals(int32(3))

	other, _ := c.Commit(triangle(5), tri, m, f32.Identity(), geometry.NoTexture)
	assert.For(ctx, "new slot").That(other.Slot).NotEquals(first.Slot)

	stats := c.Stats()
	assert.For(ctx, "hits").That(stats.Hits).Equals(uint64(1))
	assert.For(ctx, "misses").That(stats.Misses).Equals(uint64(2))
}

func TestCommitWithoutIndices(t *testing.T) {
	ctx := log.Testing(t)
	c := geometry.New()
	_, ok := c.Commit(triangle(0), nil, geometry.DefaultMaterial(), f32.Identity(), geometry.NoTexture)
	assert.For(ctx, "committed").That(ok).Equals(false)
	assert.For(ctx, "instances").ThatSlice(c.Instances()).IsEmpty()
	assert.For(ctx, "cached").ThatInteger(c.Len()).Equals(0)
}

func TestBeginFrameClearsQueues(t *testing.T) {
	ctx := log.Testing(t)
	c := geometry.New()
	c.BeginFrame(0)
	c.Commit(triangle(0), tri, geometry.DefaultMaterial(), f32.Identity(), geometry.NoTexture)
	c.QueueTexture(geometry.PendingTexture{Index: 0, Width: 1, Height: 1})

	c.BeginFrame(1)
	assert.For(ctx, "instances").ThatSlice(c.Instances()).IsEmpty()
	assert.For(ctx, "materials").ThatSlice(c.Materials()).IsEmpty()
	assert.For(ctx, "transforms").ThatSlice(c.Transforms()).IsEmpty()
	assert.For(ctx, "geometry").ThatSlice(c.PendingGeometry()).IsEmpty()
	assert.For(ctx, "textures").ThatSlice(c.PendingTextures()).IsEmpty()

	c.Commit(triangle(0), tri, geometry.DefaultMaterial(), f32.Identity(), geometry.NoTexture)
	assert.For(ctx, "no reupload").ThatSlice(c.PendingGeometry()).IsEmpty()
	assert.For(ctx, "instance").ThatSlice(c.Instances()).IsLength(1)
}

func TestPendingGeometryOwnsData(t *testing.T) {
	ctx := log.Testing(t)
	c := geometry.New()
	v := triangle(0)
	i := []uint32{0, 1, 2}
	c.Commit(v, i, geometry.DefaultMaterial(), f32.Identity(), geometry.NoTexture)
	v[0].Position[0] = 42
	i[0] = 7
	p := c.PendingGeometry()[0]
	assert.For(ctx, "vertex").That(p.Vertices[0].Position[0]).Equals(float32(0))
	assert.For(ctx, "index").That(p.Indices[0]).Equals(uint32(0))
}

func TestInvalidateRequeues(t *testing.T) {
	ctx := log.Testing(t)
	c := geometry.New()
	r, _ := c.Commit(triangle(0), tri, geometry.DefaultMaterial(), f32.Identity(), geometry.NoTexture)
	c.BeginFrame(1)
	assert.For(ctx, "invalidate").That(c.Invalidate(r.Hash)).Equals(true)
	assert.For(ctx, "unknown").That(c.Invalidate(r.Hash + 1)).Equals(false)

	again, _ := c.Commit(triangle(0), tri, geometry.DefaultMaterial(), f32.Identity(), geometry.NoTexture)
	assert.For(ctx, "slot").That(again.Slot).Equals(r.Slot)
	if assert.For(ctx, "requeued").ThatSlice(c.PendingGeometry()).IsLength(1) {
		assert.For(ctx, "pending slot").That(c.PendingGeometry()[0].Slot).Equals(r.Slot)
	}
}

func TestPruneFreesSlots(t *testing.T) {
	ctx := log.Testing(t)
	c := geometry.New()
	c.BeginFrame(0)
	old, _ := c.Commit(triangle(0), tri, geometry.DefaultMaterial(), f32.Identity(), geometry.NoTexture)
	c.BeginFrame(5)
	kept, _ := c.Commit(triangle(1), tri, geometry.DefaultMaterial(), f32.Identity(), geometry.NoTexture)

	slots := c.Prune(3)
	assert.For(ctx, "pruned").That(slots).DeepEquals([]uint32{old.Slot})
	assert.For(ctx, "gone").That(c.Contains(old.Hash)).Equals(false)
	assert.For(ctx, "kept").That(c.Contains(kept.Hash)).Equals(true)

	reused, _ := c.Commit(triangle(2), tri, geometry.DefaultMaterial(), f32.Identity(), geometry.NoTexture)
	assert.For(ctx, "reused slot").That(reused.Slot).Equals(old.Slot)
	assert.For(ctx, "stats").That(c.Stats().Pruned).Equals(uint64(1))
}
