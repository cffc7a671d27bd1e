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

package protocol

import "fmt"

// Type identifies a command on the wire.
type Type uint32

// The numbering is part of the wire format. Append new types before TypeCount.
const (
	TypeInvalid Type = iota
	TypeBegin
	TypeEnd
	TypeVertex2f
	TypeVertex3f
	TypeColor3f
	TypeColor4f
	TypeNormal3f
	TypeTexCoord2f

	TypeCallList
	TypeNewList
	TypeEndList

	TypeDrawArrays
	TypeDrawElements

	TypeMatrixMode
	TypeLoadIdentity
	TypeLoadMatrix
	TypeMultMatrix
	TypePushMatrix
	TypePopMatrix
	TypeTranslate
	TypeRotate
	TypeScale
	TypeViewport
	TypeOrtho
	TypeFrustum
	TypePerspective

	TypeClear
	TypeClearColor
	TypeFlush
	TypeFinish
	TypeBindTexture
	TypeGenTextures
	TypeDeleteTextures
	TypeTexImage2D
	TypeTexParameter
	TypeTexEnvI
	TypeTexEnvF

	TypeLightf
	TypeLightfv
	TypeMateriali
	TypeMaterialf
	TypeMaterialiv
	TypeMaterialfv
	TypeAlphaFunc

	TypeEnable
	TypeDisable
	TypeColorMask
	TypeDepthMask
	TypeBlendFunc
	TypePointSize
	TypePolygonOffset
	TypeCullFace
	TypeStencilMask
	TypeStencilFunc
	TypeStencilOp
	TypeStencilOpSeparateATI

	TypeCreateContext

	// TypeCount is one past the last valid command type.
	TypeCount
)

var typeNames = [TypeCount]string{
	"Invalid", "Begin", "End", "Vertex2f", "Vertex3f", "Color3f", "Color4f", "Normal3f", "TexCoord2f",
	"CallList", "NewList", "EndList",
	"DrawArrays", "DrawElements",
	"MatrixMode", "LoadIdentity", "LoadMatrix", "MultMatrix", "PushMatrix", "PopMatrix",
	"Translate", "Rotate", "Scale", "Viewport", "Ortho", "Frustum", "Perspective",
	"Clear", "ClearColor", "Flush", "Finish", "BindTexture", "GenTextures", "DeleteTextures",
	"TexImage2D", "TexParameter", "TexEnvI", "TexEnvF",
	"Lightf", "Lightfv", "Materiali", "Materialf", "Materialiv", "Materialfv", "AlphaFunc",
	"Enable", "Disable", "ColorMask", "DepthMask", "BlendFunc", "PointSize", "PolygonOffset",
	"CullFace", "StencilMask", "StencilFunc", "StencilOp", "StencilOpSeparateATI",
	"CreateContext",
}

// Valid returns true if t is a known command type.
func (t Type) Valid() bool { return t > TypeInvalid && t < TypeCount }

func (t Type) String() string {
	if t < TypeCount {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint32(t))
}
