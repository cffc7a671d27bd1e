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

// Package protocol defines the glremix wire format: typed commands, their
// little-endian encoding, the frame header and the bounds-checked decoder.
//
// A frame is a FrameHeader followed by a sequence of commands. Every command
// is a Header followed by exactly Header.Size payload bytes. The payload is
// the command's fixed fields in declaration order with natural alignment and
// no padding, followed by any variable length tail whose size is derivable
// from the fixed fields.
package protocol

import (
	"github.com/google/glremix/core/data/binary"
	"github.com/google/glremix/core/fault"
)

const (
	// HeaderSize is the encoded size of a command Header.
	HeaderSize = 8
	// FrameHeaderSize is the encoded size of a FrameHeader.
	FrameHeaderSize = 8

	// ErrTruncated is returned when a command header or payload runs past
	// the end of the buffer.
	ErrTruncated = fault.Const("Command stream truncated")
	// ErrUnknownType is returned when decoding a command of an unknown type.
	ErrUnknownType = fault.Const("Unknown command type")
	// ErrShortPayload is returned when a payload is smaller than its
	// command's fixed layout or declared tail.
	ErrShortPayload = fault.Const("Command payload too short")
)

// Header precedes every command payload.
type Header struct {
	Type Type
	Size uint32
}

// FrameHeader precedes the commands of a frame.
type FrameHeader struct {
	Index uint32
	Size  uint32 // Bytes of commands following the header.
}

// Command is implemented by every typed command.
type Command interface {
	// Type returns the wire type of the command.
	Type() Type
	encode(w binary.Writer)
	decode(r binary.Reader, size int)
}

var factories = [TypeCount]func() Command{
	TypeBegin:                func() Command { return &Begin{} },
	TypeEnd:                  func() Command { return &End{} },
	TypeVertex2f:             func() Command { return &Vertex2f{} },
	TypeVertex3f:             func() Command { return &Vertex3f{} },
	TypeColor3f:              func() Command { return &Color3f{} },
	TypeColor4f:              func() Command { return &Color4f{} },
	TypeNormal3f:             func() Command { return &Normal3f{} },
	TypeTexCoord2f:           func() Command { return &TexCoord2f{} },
	TypeCallList:             func() Command { return &CallList{} },
	TypeNewList:              func() Command { return &NewList{} },
	TypeEndList:              func() Command { return &EndList{} },
	TypeDrawArrays:           func() Command { return &DrawArrays{} },
	TypeDrawElements:         func() Command { return &DrawElements{} },
	TypeMatrixMode:           func() Command { return &MatrixMode{} },
	TypeLoadIdentity:         func() Command { return &LoadIdentity{} },
	TypeLoadMatrix:           func() Command { return &LoadMatrix{} },
	TypeMultMatrix:           func() Command { return &MultMatrix{} },
	TypePushMatrix:           func() Command { return &PushMatrix{} },
	TypePopMatrix:            func() Command { return &PopMatrix{} },
	TypeTranslate:            func() Command { return &Translate{} },
	TypeRotate:               func() Command { return &Rotate{} },
	TypeScale:                func() Command { return &Scale{} },
	TypeViewport:             func() Command { return &Viewport{} },
	TypeOrtho:                func() Command { return &Ortho{} },
	TypeFrustum:              func() Command { return &Frustum{} },
	TypePerspective:          func() Command { return &Perspective{} },
	TypeClear:                func() Command { return &Clear{} },
	TypeClearColor:           func() Command { return &ClearColor{} },
	TypeFlush:                func() Command { return &Flush{} },
	TypeFinish:               func() Command { return &Finish{} },
	TypeBindTexture:          func() Command { return &BindTexture{} },
	TypeGenTextures:          func() Command { return &GenTextures{} },
	TypeDeleteTextures:       func() Command { return &DeleteTextures{} },
	TypeTexImage2D:           func() Command { return &TexImage2D{} },
	TypeTexParameter:         func() Command { return &TexParameter{} },
	TypeTexEnvI:              func() Command { return &TexEnvI{} },
	TypeTexEnvF:              func() Command { return &TexEnvF{} },
	TypeLightf:               func() Command { return &Lightf{} },
	TypeLightfv:              func() Command { return &Lightfv{} },
	TypeMateriali:            func() Command { return &Materiali{} },
	TypeMaterialf:            func() Command { return &Materialf{} },
	TypeMaterialiv:           func() Command { return &Materialiv{} },
	TypeMaterialfv:           func() Command { return &Materialfv{} },
	TypeAlphaFunc:            func() Command { return &AlphaFunc{} },
	TypeEnable:               func() Command { return &Enable{} },
	TypeDisable:              func() Command { return &Disable{} },
	TypeColorMask:            func() Command { return &ColorMask{} },
	TypeDepthMask:            func() Command { return &DepthMask{} },
	TypeBlendFunc:            func() Command { return &BlendFunc{} },
	TypePointSize:            func() Command { return &PointSize{} },
	TypePolygonOffset:        func() Command { return &PolygonOffset{} },
	TypeCullFace:             func() Command { return &CullFace{} },
	TypeStencilMask:          func() Command { return &StencilMask{} },
	TypeStencilFunc:          func() Command { return &StencilFunc{} },
	TypeStencilOp:            func() Command { return &StencilOp{} },
	TypeStencilOpSeparateATI: func() Command { return &StencilOpSeparateATI{} },
	TypeCreateContext:        func() Command { return &CreateContext{} },
}

// New returns a new zero command of type t, or nil if t is unknown.
func New(t Type) Command {
	if !t.Valid() {
		return nil
	}
	return factories[t]()
}
