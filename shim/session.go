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

// Package shim is the capture side: a Session exposes one method per
// intercepted API call and records each as a protocol command.
package shim

import (
	"context"

	"github.com/google/glremix/core/log"
	"github.com/google/glremix/protocol"
)

// Session is the capture state of one client context. It is not safe for
// concurrent use.
type Session struct {
	rec     *Recorder
	scratch *Scratch
	enc     protocol.Encoder

	arrays       [numBindings]binding
	arrayFaults  int
	lists        map[uint32][]byte
	nextList     uint32
	compiling    bool
	compileID    uint32
	compileBytes []byte
	textures     map[uint32]bool
	nextTexture  uint32
}

// NewSession returns a session recording into rec. scratch may be shared
// by sessions used from the same goroutine; nil allocates one.
func NewSession(rec *Recorder, scratch *Scratch) *Session {
	if scratch == nil {
		scratch = &Scratch{}
	}
	return &Session{
		rec:         rec,
		scratch:     scratch,
		lists:       map[uint32][]byte{},
		nextList:    1,
		textures:    map[uint32]bool{},
		nextTexture: 1,
	}
}

// Recorder returns the session's recorder.
func (s *Session) Recorder() *Recorder { return s.rec }

func (s *Session) record(c protocol.Command) {
	if s.compiling {
		s.compileBytes = append(s.compileBytes, s.enc.Encode(c)...)
	}
	s.rec.Record(c)
}

// SwapBuffers ends the current frame, sends it and starts the next one.
// Client array bindings do not survive the frame boundary.
func (s *Session) SwapBuffers(ctx context.Context) error {
	if s.arrayFaults > 0 {
		log.W(ctx, "%d client arrays were shorter than the drawn range", s.arrayFaults)
		s.arrayFaults = 0
	}
	err := s.rec.EndFrame(ctx)
	s.resetArrays()
	s.rec.StartFrame()
	return err
}

// Begin records glBegin.
func (s *Session) Begin(mode uint32) { s.record(&protocol.Begin{Mode: mode}) }

// End records glEnd.
func (s *Session) End() { s.record(&protocol.End{}) }

// Vertex2f records glVertex2f.
func (s *Session) Vertex2f(x, y float32) { s.record(&protocol.Vertex2f{X: x, Y: y}) }

// Vertex3f records glVertex3f.
func (s *Session) Vertex3f(x, y, z float32) { s.record(&protocol.Vertex3f{X: x, Y: y, Z: z}) }

// Color3f records glColor3f.
func (s *Session) Color3f(r, g, b float32) { s.record(&protocol.Color3f{R: r, G: g, B: b}) }

// Color4f records glColor4f.
func (s *Session) Color4f(r, g, b, a float32) { s.record(&protocol.Color4f{R: r, G: g, B: b, A: a}) }

// Normal3f records glNormal3f.
func (s *Session) Normal3f(x, y, z float32) { s.record(&protocol.Normal3f{X: x, Y: y, Z: z}) }

// TexCoord2f records glTexCoord2f.
func (s *Session) TexCoord2f(u, v float32) { s.record(&protocol.TexCoord2f{S: u, T: v}) }

// MatrixMode records glMatrixMode.
func (s *Session) MatrixMode(mode uint32) { s.record(&protocol.MatrixMode{Mode: mode}) }

// LoadIdentity records glLoadIdentity.
func (s *Session) LoadIdentity() { s.record(&protocol.LoadIdentity{}) }

// LoadMatrixf records glLoadMatrixf.
func (s *Session) LoadMatrixf(m [16]float32) { s.record(&protocol.LoadMatrix{M: m}) }

// MultMatrixf records glMultMatrixf.
func (s *Session) MultMatrixf(m [16]float32) { s.record(&protocol.MultMatrix{M: m}) }

// PushMatrix records glPushMatrix.
func (s *Session) PushMatrix() { s.record(&protocol.PushMatrix{}) }

// PopMatrix records glPopMatrix.
func (s *Session) PopMatrix() { s.record(&protocol.PopMatrix{}) }

// Translatef records glTranslatef.
func (s *Session) Translatef(x, y, z float32) { s.record(&protocol.Translate{X: x, Y: y, Z: z}) }

// Rotatef records glRotatef.
func (s *Session) Rotatef(angle, x, y, z float32) { s.record(&protocol.Rotate{Angle: angle, X: x, Y: y, Z: z}) }

// Scalef records glScalef.
func (s *Session) Scalef(x, y, z float32) { s.record(&protocol.Scale{X: x, Y: y, Z: z}) }

// Clear records glClear.
func (s *Session) Clear(mask uint32) { s.record(&protocol.Clear{Mask: mask}) }

// ClearColor records glClearColor.
func (s *Session) ClearColor(r, g, b, a float32) { s.record(&protocol.ClearColor{R: r, G: g, B: b, A: a}) }

// Flush records glFlush.
func (s *Session) Flush() { s.record(&protocol.Flush{}) }

// Finish records glFinish.
func (s *Session) Finish() { s.record(&protocol.Finish{}) }

// Enable records glEnable.
func (s *Session) Enable(c uint32) { s.record(&protocol.Enable{Cap: c}) }

// Disable records glDisable.
func (s *Session) Disable(c uint32) { s.record(&protocol.Disable{Cap: c}) }

// DepthMask records glDepthMask.
func (s *Session) DepthMask(flag bool) { s.record(&protocol.DepthMask{Flag: flag}) }

// BlendFunc records glBlendFunc.
func (s *Session) BlendFunc(src, dst uint32) { s.record(&protocol.BlendFunc{Src: src, Dst: dst}) }

// PointSize records glPointSize.
func (s *Session) PointSize(size float32) { s.record(&protocol.PointSize{Size: size}) }

// CullFace records glCullFace.
func (s *Session) CullFace(mode uint32) { s.record(&protocol.CullFace{Mode: mode}) }

// StencilMask records glStencilMask.
func (s *Session) StencilMask(mask uint32) { s.record(&protocol.StencilMask{Mask: mask}) }

// AlphaFunc records glAlphaFunc.
func (s *Session) AlphaFunc(fn uint32, ref float32) { s.record(&protocol.AlphaFunc{Func: fn, Ref: ref}) }

// CreateContext records the creation of a GL context on window.
func (s *Session) CreateContext(window uint64) { s.record(&protocol.CreateContext{Window: window}) }

// Viewport records glViewport.
func (s *Session) Viewport(x, y, width, height int32) {
	s.record(&protocol.Viewport{X: x, Y: y, Width: width, Height: height})
}

// Ortho records glOrtho.
func (s *Session) Ortho(left, right, bottom, top, near, far float64) {
	s.record(&protocol.Ortho{Left: left, Right: right, Bottom: bottom, Top: top, Near: near, Far: far})
}

// Frustum records glFrustum.
func (s *Session) Frustum(left, right, bottom, top, near, far float64) {
	s.record(&protocol.Frustum{Left: left, Right: right, Bottom: bottom, Top: top, Near: near, Far: far})
}

// Perspective records a gluPerspective call.
func (s *Session) Perspective(fovy, aspect, near, far float64) {
	s.record(&protocol.Perspective{FovY: fovy, Aspect: aspect, Near: near, Far: far})
}

// BindTexture records glBindTexture.
func (s *Session) BindTexture(target, texture uint32) {
	s.record(&protocol.BindTexture{Target: target, Texture: texture})
}

// TexImage2D records a texture image. Pixels are copied into the frame; a
// nil pixels only allocates storage. pixels shorter than the described
// image are recorded as an allocation.
func (s *Session) TexImage2D(target uint32, level, internalFormat, width, height, border int32, format, typ uint32, pixels []byte) {
	c := &protocol.TexImage2D{
		Target:         target,
		Level:          level,
		InternalFormat: internalFormat,
		Width:          width,
		Height:         height,
		Border:         border,
		Format:         format,
		PixelType:      typ,
	}
	if n := protocol.PixelDataSize(width, height, format, typ); n > 0 && len(pixels) >= n {
		c.Pixels = pixels[:n]
	}
	s.record(c)
}

// TexParameterf records glTexParameterf.
func (s *Session) TexParameterf(target, pname uint32, param float32) {
	s.record(&protocol.TexParameter{Target: target, Pname: pname, Param: param})
}

// TexEnvi records glTexEnvi.
func (s *Session) TexEnvi(target, pname uint32, param int32) {
	s.record(&protocol.TexEnvI{Target: target, Pname: pname, Param: param})
}

// TexEnvf records glTexEnvf.
func (s *Session) TexEnvf(target, pname uint32, param float32) {
	s.record(&protocol.TexEnvF{Target: target, Pname: pname, Param: param})
}

// Lightf records glLightf.
func (s *Session) Lightf(light, pname uint32, param float32) {
	s.record(&protocol.Lightf{Light: light, Pname: pname, Param: param})
}

// Lightfv records glLightfv.
func (s *Session) Lightfv(light, pname uint32, params [4]float32) {
	s.record(&protocol.Lightfv{Light: light, Pname: pname, Params: params})
}

// Materiali records glMateriali.
func (s *Session) Materiali(face, pname uint32, param int32) {
	s.record(&protocol.Materiali{Face: face, Pname: pname, Param: param})
}

// Materialf records glMaterialf.
func (s *Session) Materialf(face, pname uint32, param float32) {
	s.record(&protocol.Materialf{Face: face, Pname: pname, Param: param})
}

// Materialiv records glMaterialiv.
func (s *Session) Materialiv(face, pname uint32, params [4]int32) {
	s.record(&protocol.Materialiv{Face: face, Pname: pname, Params: params})
}

// Materialfv records glMaterialfv.
func (s *Session) Materialfv(face, pname uint32, params [4]float32) {
	s.record(&protocol.Materialfv{Face: face, Pname: pname, Params: params})
}

// ColorMask records glColorMask.
func (s *Session) ColorMask(r, g, b, a bool) {
	s.record(&protocol.ColorMask{R: r, G: g, B: b, A: a})
}

// PolygonOffset records glPolygonOffset.
func (s *Session) PolygonOffset(factor, units float32) {
	s.record(&protocol.PolygonOffset{Factor: factor, Units: units})
}

// StencilFunc records glStencilFunc.
func (s *Session) StencilFunc(fn uint32, ref int32, mask uint32) {
	s.record(&protocol.StencilFunc{Func: fn, Ref: ref, Mask: mask})
}

// StencilOp records glStencilOp.
func (s *Session) StencilOp(fail, zfail, zpass uint32) {
	s.record(&protocol.StencilOp{Fail: fail, ZFail: zfail, ZPass: zpass})
}

// StencilOpSeparateATI records glStencilOpSeparateATI.
func (s *Session) StencilOpSeparateATI(face, fail, zfail, zpass uint32) {
	s.record(&protocol.StencilOpSeparateATI{Face: face, Fail: fail, ZFail: zfail, ZPass: zpass})
}
