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

package protocol_test

import (
	"testing"

	"github.com/google/glremix/core/assert"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/protocol"
)

func vertexArray(data ...byte) protocol.ClientArray {
	return protocol.ClientArray{
		ArrayHeader: protocol.ArrayHeader{
			Semantic: protocol.ArrayVertex,
			Size:     2,
			Type:     protocol.GL_UNSIGNED_BYTE,
			Bytes:    uint32(len(data)),
		},
		Data: data,
	}
}

var allCommands = []protocol.Command{
	&protocol.Begin{Mode: protocol.GL_TRIANGLES},
	&protocol.End{},
	&protocol.Vertex2f{X: 1, Y: 2},
	&protocol.Vertex3f{X: 1, Y: 2, Z: 3},
	&protocol.Color3f{R: 0.25, G: 0.5, B: 0.75},
	&protocol.Color4f{R: 0.25, G: 0.5, B: 0.75, A: 1},
	&protocol.Normal3f{X: 0, Y: 0, Z: 1},
	&protocol.TexCoord2f{S: 0.5, T: 1},
	&protocol.CallList{List: 7},
	&protocol.NewList{List: 7, Mode: protocol.GL_COMPILE},
	&protocol.EndList{},
	&protocol.DrawArrays{Mode: protocol.GL_POINTS, First: 2, Count: 2, Arrays: []protocol.ClientArray{
		vertexArray(1, 2, 3, 4),
	}},
	&protocol.DrawElements{Mode: protocol.GL_TRIANGLES, Count: 3, IndexType: protocol.GL_UNSIGNED_BYTE, Arrays: []protocol.ClientArray{
		vertexArray(0, 0, 1, 0, 0, 1),
		{
			ArrayHeader: protocol.ArrayHeader{Semantic: protocol.ArrayElements, Size: 1, Type: protocol.GL_UNSIGNED_BYTE, Bytes: 3},
			Data:        []byte{0, 1, 2},
		},
	}},
	&protocol.MatrixMode{Mode: protocol.GL_PROJECTION},
	&protocol.LoadIdentity{},
	&protocol.LoadMatrix{M: [16]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}},
	&protocol.MultMatrix{M: [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 5, 6, 7, 1}},
	&protocol.PushMatrix{},
	&protocol.PopMatrix{},
	&protocol.Translate{X: 1, Y: -2, Z: 3},
	&protocol.Rotate{Angle: 90, X: 0, Y: 0, Z: 1},
	&protocol.Scale{X: 2, Y: 2, Z: 2},
	&protocol.Viewport{X: 0, Y: 0, Width: 640, Height: 480},
	&protocol.Ortho{Left: -1, Right: 1, Bottom: -1, Top: 1, Near: 0.1, Far: 100},
	&protocol.Frustum{Left: -1, Right: 1, Bottom: -1, Top: 1, Near: 1, Far: 10},
	&protocol.Perspective{FovY: 60, Aspect: 4.0 / 3.0, Near: 0.1, Far: 1000},
	&protocol.Clear{Mask: protocol.GL_COLOR_BUFFER_BIT | protocol.GL_DEPTH_BUFFER_BIT},
	&protocol.ClearColor{R: 0.1, G: 0.2, B: 0.3, A: 1},
	&protocol.Flush{},
	&protocol.Finish{},
	&protocol.BindTexture{Target: protocol.GL_TEXTURE_2D, Texture: 3},
	&protocol.GenTextures{Names: []uint32{1, 2, 3}},
	&protocol.DeleteTextures{Names: []uint32{2}},
	&protocol.TexImage2D{Target: protocol.GL_TEXTURE_2D, InternalFormat: protocol.GL_RGBA, Width: 1, Height: 2,
		Format: protocol.GL_RGBA, PixelType: protocol.GL_UNSIGNED_BYTE, Pixels: []byte{1, 2, 3, 4, 5, 6, 7, 8}},
	&protocol.TexImage2D{Target: protocol.GL_TEXTURE_2D, InternalFormat: protocol.GL_RGB, Width: 64, Height: 64,
		Format: protocol.GL_RGB, PixelType: protocol.GL_UNSIGNED_BYTE},
	&protocol.TexParameter{Target: protocol.GL_TEXTURE_2D, Pname: protocol.GL_TEXTURE_MIN_FILTER, Param: protocol.GL_LINEAR},
	&protocol.TexEnvI{Target: protocol.GL_TEXTURE_ENV, Pname: protocol.GL_TEXTURE_ENV_MODE, Param: protocol.GL_MODULATE},
	&protocol.TexEnvF{Target: protocol.GL_TEXTURE_ENV, Pname: protocol.GL_TEXTURE_ENV_MODE, Param: protocol.GL_MODULATE},
	&protocol.Lightf{Light: protocol.GL_LIGHT0, Pname: protocol.GL_SPOT_EXPONENT, Param: 2},
	&protocol.Lightfv{Light: protocol.GL_LIGHT0 + 1, Pname: protocol.GL_POSITION, Params: [4]float32{0, 1, 0, 0}},
	&protocol.Materiali{Face: protocol.GL_FRONT, Pname: protocol.GL_SHININESS, Param: 32},
	&protocol.Materialf{Face: protocol.GL_FRONT_AND_BACK, Pname: protocol.GL_SHININESS, Param: 12.5},
	&protocol.Materialiv{Face: protocol.GL_FRONT, Pname: protocol.GL_DIFFUSE, Params: [4]int32{1, 2, 3, 4}},
	&protocol.Materialfv{Face: protocol.GL_FRONT, Pname: protocol.GL_AMBIENT, Params: [4]float32{0.2, 0.2, 0.2, 1}},
	&protocol.AlphaFunc{Func: protocol.GL_GREATER, Ref: 0.5},
	&protocol.Enable{Cap: protocol.GL_LIGHTING},
	&protocol.Disable{Cap: protocol.GL_DEPTH_TEST},
	&protocol.ColorMask{R: true, G: false, B: true, A: false},
	&protocol.DepthMask{Flag: true},
	&protocol.BlendFunc{Src: protocol.GL_SRC_ALPHA, Dst: protocol.GL_ONE_MINUS_SRC_ALPHA},
	&protocol.PointSize{Size: 4},
	&protocol.PolygonOffset{Factor: 1, Units: 2},
	&protocol.CullFace{Mode: protocol.GL_BACK},
	&protocol.StencilMask{Mask: 0xff},
	&protocol.StencilFunc{Func: protocol.GL_ALWAYS, Ref: -1, Mask: 0xff},
	&protocol.StencilOp{Fail: protocol.GL_KEEP, ZFail: protocol.GL_KEEP, ZPass: protocol.GL_REPLACE},
	&protocol.StencilOpSeparateATI{Face: protocol.GL_FRONT, Fail: protocol.GL_KEEP, ZFail: protocol.GL_INCR, ZPass: protocol.GL_DECR},
	&protocol.CreateContext{Window: 0x1234567890},
}

func TestRoundTrip(t *testing.T) {
	ctx := log.Testing(t)
	seen := map[protocol.Type]bool{}
	for _, cmd := range allCommands {
		seen[cmd.Type()] = true
		ctx := log.V{"type": cmd.Type()}.Bind(ctx)
		got, err := protocol.DecodeAll(protocol.Encode(cmd))
		assert.For(ctx, "err").ThatError(err).Succeeded()
		if assert.For(ctx, "count").ThatSlice(got).IsLength(1) {
			assert.For(ctx, "cmd").That(got[0]).DeepEquals(cmd)
		}
	}
	for ty := protocol.TypeBegin; ty < protocol.TypeCount; ty++ {
		assert.For(ctx, "covered %v", ty).That(seen[ty]).Equals(true)
	}
}

func TestEmptyCommandsCarryReservedWord(t *testing.T) {
	ctx := log.Testing(t)
	for _, cmd := range []protocol.Command{&protocol.End{}, &protocol.EndList{}, &protocol.PushMatrix{}, &protocol.Flush{}} {
		assert.For(ctx, "%v size", cmd.Type()).ThatInteger(len(protocol.Encode(cmd))).Equals(protocol.HeaderSize + 4)
	}
}

func TestEncodingIsLittleEndian(t *testing.T) {
	ctx := log.Testing(t)
	got := protocol.Encode(&protocol.CallList{List: 0x01020304})
	assert.For(ctx, "bytes").ThatSlice(got).Equals([]byte{
		byte(protocol.TypeCallList), 0, 0, 0,
		4, 0, 0, 0,
		4, 3, 2, 1,
	})
}

func TestBuilderFrame(t *testing.T) {
	ctx := log.Testing(t)
	b := protocol.Builder{}
	b.Add(&protocol.Begin{Mode: protocol.GL_POINTS})
	b.Add(&protocol.Vertex2f{X: 1, Y: 1})
	b.Add(&protocol.End{})
	assert.For(ctx, "count").ThatInteger(b.Count()).Equals(3)
	frame := b.AppendFrame(nil, 9)

	h, body, err := protocol.ParseFrame(frame)
	assert.For(ctx, "err").ThatError(err).Succeeded()
	assert.For(ctx, "index").That(h.Index).Equals(uint32(9))
	assert.For(ctx, "size").ThatInteger(int(h.Size)).Equals(b.Len())
	cmds, err := protocol.DecodeAll(body)
	assert.For(ctx, "decode").ThatError(err).Succeeded()
	assert.For(ctx, "cmds").ThatSlice(cmds).IsLength(3)

	b.Reset()
	assert.For(ctx, "reset len").ThatInteger(b.Len()).Equals(0)
	assert.For(ctx, "reset count").ThatInteger(b.Count()).Equals(0)
}

func TestParseFrameClipsToBuffer(t *testing.T) {
	ctx := log.Testing(t)
	frame := protocol.FrameHeader{Index: 1, Size: 1000}.Append(nil)
	frame = append(frame, protocol.Encode(&protocol.Flush{})...)
	_, body, err := protocol.ParseFrame(frame)
	assert.For(ctx, "err").ThatError(err).Succeeded()
	assert.For(ctx, "body").ThatInteger(len(body)).Equals(protocol.HeaderSize + 4)

	_, _, err = protocol.ParseFrame([]byte{1, 2, 3})
	assert.For(ctx, "short").ThatError(err).Equals(protocol.ErrTruncated)
}

func TestDecoderSkipsUnknownTypes(t *testing.T) {
	ctx := log.Testing(t)
	buf := []byte{0xff, 0, 0, 0, 6, 0, 0, 0, 1, 2, 3, 4, 5, 6}
	buf = append(buf, protocol.Encode(&protocol.CallList{List: 5})...)

	d := protocol.NewDecoder(buf, len(buf))
	assert.For(ctx, "first").That(d.Next()).Equals(true)
	v := d.View()
	assert.For(ctx, "end").ThatInteger(v.End).Equals(14)
	_, err := protocol.Decode(v)
	assert.For(ctx, "unknown").ThatError(err).Equals(protocol.ErrUnknownType)

	assert.For(ctx, "second").That(d.Next()).Equals(true)
	cmd, err := protocol.Decode(d.View())
	assert.For(ctx, "decode").ThatError(err).Succeeded()
	assert.For(ctx, "cmd").That(cmd).DeepEquals(&protocol.CallList{List: 5})
	assert.For(ctx, "done").That(d.Next()).Equals(false)
	assert.For(ctx, "err").ThatError(d.Err()).Succeeded()
}

func TestDecoderMalformed(t *testing.T) {
	ctx := log.Testing(t)
	good := protocol.Encode(&protocol.Translate{X: 1})
	for _, test := range []struct {
		name string
		buf  []byte
		size int
		want int
	}{
		{"header cut", append(append([]byte{}, good...), 1, 0, 0), -1, 1},
		{"payload past end", append(append([]byte{}, good...), 5, 0, 0, 0, 0xff, 0xff, 0, 0, 1), -1, 1},
		{"declared size clips", good, len(good) - 1, 0},
	} {
		size := test.size
		if size < 0 {
			size = len(test.buf)
		}
		d := protocol.NewDecoder(test.buf, size)
		n := 0
		for d.Next() {
			v := d.View()
			assert.For(ctx, "%s: bounds", test.name).That(v.End <= size).Equals(true)
			n++
		}
		assert.For(ctx, "%s: decoded", test.name).ThatInteger(n).Equals(test.want)
		assert.For(ctx, "%s: err", test.name).ThatError(d.Err()).Equals(protocol.ErrTruncated)
	}
}

func TestDecodeShortPayload(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		name string
		view protocol.View
	}{
		{"translate", protocol.View{Type: protocol.TypeTranslate, Payload: []byte{0, 0, 0, 0}}},
		{"names", protocol.View{Type: protocol.TypeGenTextures, Payload: []byte{0xff, 0xff, 0xff, 0x0f, 1, 0, 0, 0}}},
		{"pixels", protocol.View{Type: protocol.TypeTexImage2D, Payload: texImage(2, 2, 3)}},
		{"oversized image", protocol.View{Type: protocol.TypeTexImage2D, Payload: texImage(0x7fffffff, 0x7fffffff, 4)}},
		{"wide image", protocol.View{Type: protocol.TypeTexImage2D, Payload: texImage(0x7fffffff, 1, 4)}},
		{"arrays", protocol.View{Type: protocol.TypeDrawArrays, Payload: make([]byte, 20)}},
	} {
		_, err := protocol.Decode(test.view)
		assert.For(ctx, "%s", test.name).ThatError(err).Equals(protocol.ErrShortPayload)
	}
}

// texImage returns a TexImage2D payload for a wxh RGBA image with only
// tail bytes of pixel data.
func texImage(w, h int32, tail int) []byte {
	b := protocol.Encode(&protocol.TexImage2D{
		Target:    protocol.GL_TEXTURE_2D,
		Width:     w,
		Height:    h,
		Format:    protocol.GL_RGBA,
		PixelType: protocol.GL_UNSIGNED_BYTE,
		Pixels:    make([]byte, tail),
	})
	return b[protocol.HeaderSize:]
}

func TestPixelDataSize(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		w, h   int32
		format uint32
		typ    uint32
		want   int
	}{
		{4, 4, protocol.GL_RGBA, protocol.GL_UNSIGNED_BYTE, 64},
		{4, 4, protocol.GL_RGB, protocol.GL_UNSIGNED_BYTE, 48},
		{2, 3, protocol.GL_LUMINANCE_ALPHA, protocol.GL_UNSIGNED_BYTE, 12},
		{2, 2, protocol.GL_RGBA, protocol.GL_FLOAT, 64},
		{2, 2, protocol.GL_RED, protocol.GL_SHORT, 8},
		{0, 2, protocol.GL_RGBA, protocol.GL_UNSIGNED_BYTE, 0},
		{2, 2, 0x1234, protocol.GL_UNSIGNED_BYTE, 0},
		{1 << 15, 1 << 13, protocol.GL_RGBA, protocol.GL_UNSIGNED_BYTE, protocol.MaxPixelDataSize},
		{1 << 15, 1 << 15, protocol.GL_RGBA, protocol.GL_FLOAT, 0},
		{0x7fffffff, 0x7fffffff, protocol.GL_RGBA, protocol.GL_UNSIGNED_BYTE, 0},
	} {
		got := protocol.PixelDataSize(test.w, test.h, test.format, test.typ)
		assert.For(ctx, "%dx%d %#x %#x", test.w, test.h, test.format, test.typ).ThatInteger(got).Equals(test.want)
	}
}

func TestSemanticForCap(t *testing.T) {
	ctx := log.Testing(t)
	s, ok := protocol.SemanticForCap(protocol.GL_TEXTURE_COORD_ARRAY)
	assert.For(ctx, "ok").That(ok).Equals(true)
	assert.For(ctx, "semantic").That(s).Equals(protocol.ArrayTexCoord)
	_, ok = protocol.SemanticForCap(protocol.GL_LIGHTING)
	assert.For(ctx, "not array").That(ok).Equals(false)
}
