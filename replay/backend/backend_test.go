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

package backend_test

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/google/glremix/core/assert"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/core/math/f32"
	"github.com/google/glremix/replay/backend"
	"github.com/google/glremix/replay/geometry"
)

var (
	_ backend.Backend         = &backend.Null{}
	_ backend.Backend         = &backend.Recorder{}
	_ backend.MeshReleaser    = &backend.Recorder{}
	_ backend.TextureReleaser = &backend.Recorder{}
)

func TestRecorder(t *testing.T) {
	ctx := log.Testing(t)
	r := backend.NewRecorder()
	r.KeepFrames = 2
	r.FailUploads = 1

	_, err := r.UploadMesh(ctx, 1, nil, []uint32{0, 0, 0})
	assert.For(ctx, "failed upload").ThatError(err).Equals(backend.ErrUploadFailed)

	m, err := r.UploadMesh(ctx, 1, []geometry.Vertex{{}}, []uint32{0, 0, 0})
	assert.For(ctx, "upload").ThatError(err).Succeeded()
	got, ok := r.Mesh(m)
	assert.For(ctx, "found").That(ok).Equals(true)
	assert.For(ctx, "hash").That(got.Hash).Equals(uint64(1))

	a, _ := r.UploadTexture(ctx, 3, 1, 1, gputypes.TextureFormatRGBA8Unorm, [][]byte{{1, 2, 3, 4}})
	b, _ := r.UploadTexture(ctx, 3, 1, 1, gputypes.TextureFormatRGBA8Unorm, [][]byte{{5, 6, 7, 8}})
	assert.For(ctx, "same handle").That(b).Equals(a)
	tex, _ := r.Texture(a)
	assert.For(ctx, "replaced").ThatSlice(tex.Levels[0]).Equals([]byte{5, 6, 7, 8})

	for i := uint32(0); i < 3; i++ {
		r.SubmitFrame(ctx, i, []backend.Instance{{Mesh: m, Transform: f32.Identity(), Texture: backend.NoTexture}})
	}
	frames := r.Frames()
	if assert.For(ctx, "kept").ThatSlice(frames).IsLength(2) {
		assert.For(ctx, "oldest").That(frames[0].Index).Equals(uint32(1))
	}
	last, _ := r.Last()
	assert.For(ctx, "last").That(last.Index).Equals(uint32(2))

	r.ReleaseMesh(ctx, m)
	s := r.Stats()
	assert.For(ctx, "meshes").ThatInteger(s.Meshes).Equals(0)
	assert.For(ctx, "uploads").ThatInteger(s.MeshUploads).Equals(1)
	assert.For(ctx, "texture uploads").ThatInteger(s.TextureUploads).Equals(2)
	assert.For(ctx, "frames").ThatInteger(s.Frames).Equals(3)
}

func TestRecorderReleaseTexture(t *testing.T) {
	ctx := log.Testing(t)
	r := backend.NewRecorder()
	h, _ := r.UploadTexture(ctx, 3, 1, 1, gputypes.TextureFormatRGBA8Unorm, [][]byte{{1, 2, 3, 4}})
	assert.For(ctx, "release").ThatError(r.ReleaseTexture(ctx, h)).Succeeded()
	_, ok := r.Texture(h)
	assert.For(ctx, "released").That(ok).Equals(false)

	again, _ := r.UploadTexture(ctx, 3, 1, 1, gputypes.TextureFormatRGBA8Unorm, [][]byte{{1, 2, 3, 4}})
	assert.For(ctx, "new handle").That(again == h).Equals(false)
	s := r.Stats()
	assert.For(ctx, "textures").ThatInteger(s.Textures).Equals(1)
	assert.For(ctx, "released count").ThatInteger(s.Released).Equals(1)
}
