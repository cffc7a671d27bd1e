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

package geometry

import (
	"github.com/gogpu/gputypes"
	"github.com/google/glremix/core/math/f32"
)

// Vertex is one assembled vertex.
type Vertex struct {
	Position f32.Vec3
	Color    f32.Vec4
	Normal   f32.Vec3
	UV       f32.Vec2
}

// Material is the fixed-function surface description in effect when a mesh
// is drawn. Front and back faces share one material.
type Material struct {
	Ambient   f32.Vec4
	Diffuse   f32.Vec4
	Specular  f32.Vec4
	Emission  f32.Vec4
	Shininess float32
}

// DefaultMaterial returns the initial material of a context.
func DefaultMaterial() Material {
	return Material{
		Ambient:  f32.Vec4{0.2, 0.2, 0.2, 1},
		Diffuse:  f32.Vec4{0.8, 0.8, 0.8, 1},
		Specular: f32.Vec4{0, 0, 0, 1},
		Emission: f32.Vec4{0, 0, 0, 1},
	}
}

// NoTexture is the TextureIndex of untextured meshes.
const NoTexture = -1

// MeshRecord is one drawn instance of a cached mesh.
type MeshRecord struct {
	Hash           uint64
	Slot           uint32 // Backend storage slot of the mesh.
	LastUsedFrame  uint32
	MaterialIndex  uint32 // Index into the frame's material pool.
	TransformIndex uint32 // Index into the frame's transform pool.
	TextureIndex   int32  // Dense texture index or NoTexture.
}

// PendingGeometry is a mesh seen for the first time this frame that the
// backend has yet to upload.
type PendingGeometry struct {
	Hash     uint64
	Slot     uint32
	Vertices []Vertex
	Indices  []uint32
}

// PendingTexture is a texture image the backend has yet to upload.
type PendingTexture struct {
	Index  uint32 // Dense texture index.
	Name   uint32 // Client texture name.
	Width  int32
	Height int32
	Format gputypes.TextureFormat
	Levels [][]byte // Level 0 first.
}
