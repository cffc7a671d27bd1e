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

// Package backend defines the narrow interface between the replay engine
// and a modern renderer, along with in-memory implementations.
package backend

import (
	"context"

	"github.com/gogpu/gputypes"

	"github.com/google/glremix/core/fault"
	"github.com/google/glremix/core/math/f32"
	"github.com/google/glremix/replay/geometry"
)

// ErrUploadFailed is returned by backends that could not take an upload.
const ErrUploadFailed = fault.Const("Backend upload failed")

// MeshHandle identifies an uploaded mesh.
type MeshHandle uint32

// TextureHandle identifies an uploaded texture.
type TextureHandle uint32

// NoTexture is the Texture of an untextured Instance.
const NoTexture = ^TextureHandle(0)

// Instance is one draw of an uploaded mesh.
type Instance struct {
	Mesh      MeshHandle
	Material  geometry.Material
	Transform f32.Mat4
	Texture   TextureHandle
}

// Backend is the interface implemented by renderers driven by the replay
// engine. Calls are made from a single goroutine.
type Backend interface {
	// UploadMesh uploads the geometry of the mesh with content hash hash.
	UploadMesh(ctx context.Context, hash uint64, vertices []geometry.Vertex, indices []uint32) (MeshHandle, error)
	// UploadTexture uploads the texture with dense index index.
	// len(levels) is the mip count.
	UploadTexture(ctx context.Context, index uint32, width, height int32, format gputypes.TextureFormat, levels [][]byte) (TextureHandle, error)
	// SubmitFrame draws the instances of frame.
	SubmitFrame(ctx context.Context, frame uint32, instances []Instance) error
}

// MeshReleaser is the optional interface implemented by backends that free
// meshes the engine no longer draws.
type MeshReleaser interface {
	ReleaseMesh(ctx context.Context, mesh MeshHandle) error
}

// TextureReleaser is the optional interface implemented by backends that
// free textures deleted by the client.
type TextureReleaser interface {
	ReleaseTexture(ctx context.Context, texture TextureHandle) error
}

// Null discards everything it is given.
type Null struct {
	meshes, textures uint32
}

// UploadMesh implements Backend.
func (n *Null) UploadMesh(context.Context, uint64, []geometry.Vertex, []uint32) (MeshHandle, error) {
	n.meshes++
	return MeshHandle(n.meshes), nil
}

// UploadTexture implements Backend.
func (n *Null) UploadTexture(context.Context, uint32, int32, int32, gputypes.TextureFormat, [][]byte) (TextureHandle, error) {
	n.textures++
	return TextureHandle(n.textures), nil
}

// SubmitFrame implements Backend.
func (n *Null) SubmitFrame(context.Context, uint32, []Instance) error { return nil }
