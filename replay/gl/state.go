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

package gl

import (
	"github.com/google/glremix/core/math/f32"
	"github.com/google/glremix/protocol"
	"github.com/google/glremix/replay/geometry"
)

// MaxLights is the number of light slots.
const MaxLights = 8

// Light is the state of one light slot.
type Light struct {
	Enabled       bool
	Ambient       f32.Vec4
	Diffuse       f32.Vec4
	Specular      f32.Vec4
	Position      f32.Vec4
	SpotDirection f32.Vec3
	SpotExponent  float32
	SpotCutoff    float32
	Constant      float32
	Linear        float32
	Quadratic     float32
}

func defaultLight(i int) Light {
	l := Light{
		Ambient:       f32.Vec4{0, 0, 0, 1},
		Diffuse:       f32.Vec4{0, 0, 0, 1},
		Specular:      f32.Vec4{0, 0, 0, 1},
		Position:      f32.Vec4{0, 0, 1, 0},
		SpotDirection: f32.Vec3{0, 0, -1},
		SpotCutoff:    180,
		Constant:      1,
	}
	if i == 0 {
		l.Diffuse = f32.Vec4{1, 1, 1, 1}
		l.Specular = f32.Vec4{1, 1, 1, 1}
	}
	return l
}

// StencilOps are the stencil actions of one face.
type StencilOps struct {
	Fail, ZFail, ZPass uint32
}

// Raster holds the state that does not affect geometry but is kept for the
// backend and for inspection.
type Raster struct {
	ClearColor       f32.Vec4
	ClearMask        uint32 // Mask of the last Clear.
	Viewport         [4]int32
	BlendSrc         uint32
	BlendDst         uint32
	AlphaFunc        uint32
	AlphaRef         float32
	StencilFunc      uint32
	StencilRef       int32
	StencilFuncMask  uint32
	StencilWriteMask uint32
	StencilFront     StencilOps
	StencilBack      StencilOps
	DepthMask        bool
	ColorMask        [4]bool
	CullFace         uint32
	PointSize        float32
	OffsetFactor     float32
	OffsetUnits      float32
	TexEnv           map[uint32]float32
}

func defaultRaster() Raster {
	keep := StencilOps{protocol.GL_KEEP, protocol.GL_KEEP, protocol.GL_KEEP}
	return Raster{
		BlendSrc:         protocol.GL_ONE,
		BlendDst:         protocol.GL_ZERO,
		AlphaFunc:        protocol.GL_ALWAYS,
		StencilFunc:      protocol.GL_ALWAYS,
		StencilFuncMask:  ^uint32(0),
		StencilWriteMask: ^uint32(0),
		StencilFront:     keep,
		StencilBack:      keep,
		DepthMask:        true,
		ColorMask:        [4]bool{true, true, true, true},
		CullFace:         protocol.GL_BACK,
		PointSize:        1,
		TexEnv:           map[uint32]float32{protocol.GL_TEXTURE_ENV_MODE: protocol.GL_MODULATE},
	}
}

// State is the emulated fixed-function state.
type State struct {
	MatrixMode uint32
	ModelView  *MatrixStack
	Projection *MatrixStack
	Texture    *MatrixStack

	Color    f32.Vec4
	Normal   f32.Vec3
	TexCoord f32.Vec2

	Material geometry.Material
	Lights   [MaxLights]Light
	Lighting bool
	Caps     map[uint32]bool

	Raster   Raster
	Window   uint64
	Textures *Textures

	// Primitive is the mode of the open Begin, valid while InPrimitive.
	Primitive   uint32
	InPrimitive bool
	Vertices    []geometry.Vertex
}

// NewState returns the initial state of a context.
func NewState() *State {
	s := &State{
		MatrixMode: protocol.GL_MODELVIEW,
		ModelView:  NewMatrixStack(MaxModelViewDepth),
		Projection: NewMatrixStack(MaxProjectionDepth),
		Texture:    NewMatrixStack(MaxTextureDepth),
		Color:      f32.Vec4{1, 1, 1, 1},
		Normal:     f32.Vec3{0, 0, 1},
		Material:   geometry.DefaultMaterial(),
		Caps:       map[uint32]bool{},
		Raster:     defaultRaster(),
		Textures:   NewTextures(),
	}
	for i := range s.Lights {
		s.Lights[i] = defaultLight(i)
	}
	return s
}

// Stack returns the stack selected by the matrix mode.
func (s *State) Stack() *MatrixStack {
	switch s.MatrixMode {
	case protocol.GL_PROJECTION:
		return s.Projection
	case protocol.GL_TEXTURE:
		return s.Texture
	default:
		return s.ModelView
	}
}

// Light returns the slot for the GL_LIGHTi enum, or nil.
func (s *State) Light(light uint32) *Light {
	if light < protocol.GL_LIGHT0 || light > protocol.GL_LIGHT7 {
		return nil
	}
	return &s.Lights[light-protocol.GL_LIGHT0]
}

// Enabled returns true if the capability is enabled.
func (s *State) Enabled(c uint32) bool {
	if l := s.Light(c); l != nil {
		return l.Enabled
	}
	if c == protocol.GL_LIGHTING {
		return s.Lighting
	}
	return s.Caps[c]
}

// SetEnabled enables or disables the capability.
func (s *State) SetEnabled(c uint32, enabled bool) {
	switch l := s.Light(c); {
	case l != nil:
		l.Enabled = enabled
	case c == protocol.GL_LIGHTING:
		s.Lighting = enabled
	default:
		s.Caps[c] = enabled
	}
}

// BoundTexture returns the dense index of the texture that draws sample,
// or geometry.NoTexture when texturing is off or nothing is bound.
func (s *State) BoundTexture() int32 {
	if !s.Caps[protocol.GL_TEXTURE_2D] {
		return geometry.NoTexture
	}
	if t := s.Textures.Bound(); t != nil {
		return int32(t.Index)
	}
	return geometry.NoTexture
}

func (s *State) vertex(p f32.Vec3) geometry.Vertex {
	return geometry.Vertex{Position: p, Color: s.Color, Normal: s.Normal, UV: s.TexCoord}
}
