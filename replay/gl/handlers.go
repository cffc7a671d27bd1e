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
	"context"

	"github.com/google/glremix/core/log"
	"github.com/google/glremix/core/math/f32"
	"github.com/google/glremix/protocol"
)

type handler func(d *Driver, ctx context.Context, c protocol.Command)

// handlers is indexed by command type. It is filled in init as the list
// handlers reach back into the dispatcher.
var handlers [protocol.TypeCount]handler

func init() {
	handlers = [protocol.TypeCount]handler{
		protocol.TypeBegin:                (*Driver).begin,
		protocol.TypeEnd:                  (*Driver).end,
		protocol.TypeVertex2f:             (*Driver).vertex2f,
		protocol.TypeVertex3f:             (*Driver).vertex3f,
		protocol.TypeColor3f:              (*Driver).color3f,
		protocol.TypeColor4f:              (*Driver).color4f,
		protocol.TypeNormal3f:             (*Driver).normal3f,
		protocol.TypeTexCoord2f:           (*Driver).texCoord2f,
		protocol.TypeCallList:             (*Driver).callList,
		protocol.TypeNewList:              (*Driver).newList,
		protocol.TypeEndList:              (*Driver).endList,
		protocol.TypeDrawArrays:           (*Driver).drawArrays,
		protocol.TypeDrawElements:         (*Driver).drawElements,
		protocol.TypeMatrixMode:           (*Driver).matrixMode,
		protocol.TypeLoadIdentity:         (*Driver).loadIdentity,
		protocol.TypeLoadMatrix:           (*Driver).loadMatrix,
		protocol.TypeMultMatrix:           (*Driver).multMatrix,
		protocol.TypePushMatrix:           (*Driver).pushMatrix,
		protocol.TypePopMatrix:            (*Driver).popMatrix,
		protocol.TypeTranslate:            (*Driver).translate,
		protocol.TypeRotate:               (*Driver).rotate,
		protocol.TypeScale:                (*Driver).scale,
		protocol.TypeViewport:             (*Driver).viewport,
		protocol.TypeOrtho:                (*Driver).ortho,
		protocol.TypeFrustum:              (*Driver).frustum,
		protocol.TypePerspective:          (*Driver).perspective,
		protocol.TypeClear:                (*Driver).clear,
		protocol.TypeClearColor:           (*Driver).clearColor,
		protocol.TypeFlush:                (*Driver).nop,
		protocol.TypeFinish:               (*Driver).nop,
		protocol.TypeBindTexture:          (*Driver).bindTexture,
		protocol.TypeGenTextures:          (*Driver).genTextures,
		protocol.TypeDeleteTextures:       (*Driver).deleteTextures,
		protocol.TypeTexImage2D:           (*Driver).texImage2D,
		protocol.TypeTexParameter:         (*Driver).texParameter,
		protocol.TypeTexEnvI:              (*Driver).texEnvI,
		protocol.TypeTexEnvF:              (*Driver).texEnvF,
		protocol.TypeLightf:               (*Driver).lightf,
		protocol.TypeLightfv:              (*Driver).lightfv,
		protocol.TypeMateriali:            (*Driver).materiali,
		protocol.TypeMaterialf:            (*Driver).materialf,
		protocol.TypeMaterialiv:           (*Driver).materialiv,
		protocol.TypeMaterialfv:           (*Driver).materialfv,
		protocol.TypeAlphaFunc:            (*Driver).alphaFunc,
		protocol.TypeEnable:               (*Driver).enable,
		protocol.TypeDisable:              (*Driver).disable,
		protocol.TypeColorMask:            (*Driver).colorMask,
		protocol.TypeDepthMask:            (*Driver).depthMask,
		protocol.TypeBlendFunc:            (*Driver).blendFunc,
		protocol.TypePointSize:            (*Driver).pointSize,
		protocol.TypePolygonOffset:        (*Driver).polygonOffset,
		protocol.TypeCullFace:             (*Driver).cullFace,
		protocol.TypeStencilMask:          (*Driver).stencilMask,
		protocol.TypeStencilFunc:          (*Driver).stencilFunc,
		protocol.TypeStencilOp:            (*Driver).stencilOp,
		protocol.TypeStencilOpSeparateATI: (*Driver).stencilOpSeparateATI,
		protocol.TypeCreateContext:        (*Driver).createContext,
	}
}

func (d *Driver) nop(context.Context, protocol.Command) {}

// Immediate mode

func (d *Driver) begin(ctx context.Context, c protocol.Command) {
	s := d.state
	if s.InPrimitive {
		log.W(ctx, "Begin inside Begin, ignored")
		return
	}
	s.Primitive, s.InPrimitive, s.Vertices = c.(*protocol.Begin).Mode, true, s.Vertices[:0]
}

func (d *Driver) end(ctx context.Context, c protocol.Command) {
	s := d.state
	if !s.InPrimitive {
		log.D(ctx, "End without Begin, ignored")
		return
	}
	s.InPrimitive = false
	d.commit(s.Primitive, s.Vertices)
}

func (d *Driver) emit(ctx context.Context, p f32.Vec3) {
	s := d.state
	if !s.InPrimitive {
		log.D(ctx, "Vertex outside Begin, ignored")
		return
	}
	s.Vertices = append(s.Vertices, s.vertex(p))
}

func (d *Driver) vertex2f(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.Vertex2f)
	d.emit(ctx, f32.Vec3{cmd.X, cmd.Y, 0})
}

func (d *Driver) vertex3f(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.Vertex3f)
	d.emit(ctx, f32.Vec3{cmd.X, cmd.Y, cmd.Z})
}

func (d *Driver) color3f(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.Color3f)
	d.state.Color = f32.Vec4{cmd.R, cmd.G, cmd.B, 1}
}

func (d *Driver) color4f(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.Color4f)
	d.state.Color = f32.Vec4{cmd.R, cmd.G, cmd.B, cmd.A}
}

func (d *Driver) normal3f(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.Normal3f)
	d.state.Normal = f32.Vec3{cmd.X, cmd.Y, cmd.Z}
}

func (d *Driver) texCoord2f(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.TexCoord2f)
	d.state.TexCoord = f32.Vec2{cmd.S, cmd.T}
}

// Client arrays

func (d *Driver) drawArrays(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.DrawArrays)
	vertices, ok := cmd.Array(protocol.ArrayVertex)
	if !ok || cmd.Count <= 0 {
		log.D(ctx, "DrawArrays without vertices, ignored")
		return
	}
	if n := elementCount(vertices); int(cmd.Count) > n {
		log.W(ctx, "DrawArrays of %d vertices from an array of %d, ignored", cmd.Count, n)
		return
	}
	d.commit(cmd.Mode, d.state.assemble(cmd.Arrays, sequence(int(cmd.Count))))
}

func (d *Driver) drawElements(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.DrawElements)
	elements, ok := cmd.Array(protocol.ArrayElements)
	if _, hasVertices := cmd.Array(protocol.ArrayVertex); !ok || !hasVertices || cmd.Count <= 0 {
		log.D(ctx, "DrawElements without vertices or indices, ignored")
		return
	}
	indices, err := decodeIndices(elements, int(cmd.Count))
	if err != nil {
		log.W(ctx, "DrawElements: %v", err)
		return
	}
	d.commit(cmd.Mode, d.state.assemble(cmd.Arrays, indices))
}

// Transforms

func (d *Driver) matrixMode(ctx context.Context, c protocol.Command) {
	switch mode := c.(*protocol.MatrixMode).Mode; mode {
	case protocol.GL_MODELVIEW, protocol.GL_PROJECTION, protocol.GL_TEXTURE:
		d.state.MatrixMode = mode
	default:
		log.W(ctx, "Invalid matrix mode %#x, ignored", mode)
	}
}

func (d *Driver) loadIdentity(ctx context.Context, c protocol.Command) {
	d.state.Stack().Load(f32.Identity())
}

func (d *Driver) loadMatrix(ctx context.Context, c protocol.Command) {
	d.state.Stack().Load(f32.Mat4(c.(*protocol.LoadMatrix).M))
}

func (d *Driver) multMatrix(ctx context.Context, c protocol.Command) {
	d.state.Stack().Mul(f32.Mat4(c.(*protocol.MultMatrix).M))
}

func (d *Driver) pushMatrix(ctx context.Context, c protocol.Command) {
	if !d.state.Stack().Push() {
		log.W(ctx, "Matrix stack %#x overflow, push ignored", d.state.MatrixMode)
	}
}

func (d *Driver) popMatrix(ctx context.Context, c protocol.Command) {
	if !d.state.Stack().Pop() {
		log.D(ctx, "Matrix stack %#x underflow, pop ignored", d.state.MatrixMode)
	}
}

func (d *Driver) translate(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.Translate)
	d.state.Stack().Mul(f32.Translation(cmd.X, cmd.Y, cmd.Z))
}

func (d *Driver) rotate(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.Rotate)
	d.state.Stack().Mul(f32.Rotation(cmd.Angle, f32.Vec3{cmd.X, cmd.Y, cmd.Z}))
}

func (d *Driver) scale(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.Scale)
	d.state.Stack().Mul(f32.Scaling(cmd.X, cmd.Y, cmd.Z))
}

func (d *Driver) viewport(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.Viewport)
	d.state.Raster.Viewport = [4]int32{cmd.X, cmd.Y, cmd.Width, cmd.Height}
}

func (d *Driver) ortho(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.Ortho)
	d.state.Stack().Mul(f32.Ortho(cmd.Left, cmd.Right, cmd.Bottom, cmd.Top, cmd.Near, cmd.Far))
}

func (d *Driver) frustum(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.Frustum)
	d.state.Stack().Mul(f32.Frustum(cmd.Left, cmd.Right, cmd.Bottom, cmd.Top, cmd.Near, cmd.Far))
}

func (d *Driver) perspective(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.Perspective)
	d.state.Stack().Mul(f32.Perspective(cmd.FovY, cmd.Aspect, cmd.Near, cmd.Far))
}

// Textures

func (d *Driver) bindTexture(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.BindTexture)
	if cmd.Target != protocol.GL_TEXTURE_2D {
		log.D(ctx, "BindTexture target %#x not supported", cmd.Target)
		return
	}
	d.state.Textures.Bind(cmd.Texture)
}

func (d *Driver) genTextures(ctx context.Context, c protocol.Command) {
	d.state.Textures.Gen(c.(*protocol.GenTextures).Names)
}

func (d *Driver) deleteTextures(ctx context.Context, c protocol.Command) {
	for _, index := range d.state.Textures.Delete(c.(*protocol.DeleteTextures).Names) {
		d.cache.QueueTextureDelete(index)
	}
}

func (d *Driver) texImage2D(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.TexImage2D)
	tex := d.state.Textures.Bound()
	switch {
	case cmd.Target != protocol.GL_TEXTURE_2D:
		log.D(ctx, "TexImage2D target %#x not supported", cmd.Target)
		return
	case tex == nil:
		log.W(ctx, "TexImage2D with no texture bound, ignored")
		return
	case cmd.Level < 0:
		log.W(ctx, "TexImage2D level %d, ignored", cmd.Level)
		return
	}
	format, pixels, ok := ConvertPixels(cmd.Format, cmd.PixelType, cmd.Width, cmd.Height, cmd.Pixels)
	if !ok {
		log.W(ctx, "TexImage2D format %#x type %#x (%dx%d) not supported", cmd.Format, cmd.PixelType, cmd.Width, cmd.Height)
		return
	}
	if !tex.SetImage(int(cmd.Level), cmd.Width, cmd.Height, format, pixels) {
		log.W(ctx, "TexImage2D level %d does not extend texture %d, ignored", cmd.Level, tex.Name)
		return
	}
	if cmd.Level == 0 && tex.GenerateMipmap() {
		tex.Levels = GenerateMips(ctx, format, cmd.Width, cmd.Height, pixels)
	}
	d.cache.QueueTexture(tex.pending())
}

func (d *Driver) texParameter(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.TexParameter)
	tex := d.state.Textures.Bound()
	if cmd.Target != protocol.GL_TEXTURE_2D || tex == nil {
		log.D(ctx, "TexParameter with no 2D texture bound, ignored")
		return
	}
	tex.Params[cmd.Pname] = cmd.Param
	if cmd.Pname == protocol.GL_GENERATE_MIPMAP && cmd.Param != 0 && len(tex.Levels) == 1 {
		tex.Levels = GenerateMips(ctx, tex.Format, tex.Width, tex.Height, tex.Levels[0])
		d.cache.QueueTexture(tex.pending())
	}
}

func (d *Driver) texEnv(ctx context.Context, target, pname uint32, param float32) {
	if target != protocol.GL_TEXTURE_ENV {
		log.D(ctx, "TexEnv target %#x not supported", target)
		return
	}
	d.state.Raster.TexEnv[pname] = param
}

func (d *Driver) texEnvI(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.TexEnvI)
	d.texEnv(ctx, cmd.Target, cmd.Pname, float32(cmd.Param))
}

func (d *Driver) texEnvF(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.TexEnvF)
	d.texEnv(ctx, cmd.Target, cmd.Pname, cmd.Param)
}

// Lighting

func (d *Driver) light(ctx context.Context, light uint32) *Light {
	l := d.state.Light(light)
	if l == nil {
		log.W(ctx, "Light %#x out of range, ignored", light)
	}
	return l
}

func (d *Driver) lightf(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.Lightf)
	l := d.light(ctx, cmd.Light)
	if l == nil {
		return
	}
	switch cmd.Pname {
	case protocol.GL_SPOT_EXPONENT:
		l.SpotExponent = cmd.Param
	case protocol.GL_SPOT_CUTOFF:
		l.SpotCutoff = cmd.Param
	case protocol.GL_CONSTANT_ATTENUATION:
		l.Constant = cmd.Param
	case protocol.GL_LINEAR_ATTENUATION:
		l.Linear = cmd.Param
	case protocol.GL_QUADRATIC_ATTENUATION:
		l.Quadratic = cmd.Param
	default:
		log.D(ctx, "Lightf pname %#x not supported", cmd.Pname)
	}
}

func (d *Driver) lightfv(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.Lightfv)
	l := d.light(ctx, cmd.Light)
	if l == nil {
		return
	}
	v := f32.Vec4(cmd.Params)
	switch cmd.Pname {
	case protocol.GL_AMBIENT:
		l.Ambient = v
	case protocol.GL_DIFFUSE:
		l.Diffuse = v
	case protocol.GL_SPECULAR:
		l.Specular = v
	case protocol.GL_POSITION:
		// Positions are stored in eye space.
		l.Position = d.state.ModelView.Top().Transform(v)
	case protocol.GL_SPOT_DIRECTION:
		l.SpotDirection = d.state.ModelView.Top().Transform(f32.Vec4{v[0], v[1], v[2], 0}).XYZ()
	case protocol.GL_SPOT_EXPONENT, protocol.GL_SPOT_CUTOFF, protocol.GL_CONSTANT_ATTENUATION,
		protocol.GL_LINEAR_ATTENUATION, protocol.GL_QUADRATIC_ATTENUATION:
		d.lightf(ctx, &protocol.Lightf{Light: cmd.Light, Pname: cmd.Pname, Param: v[0]})
	default:
		log.D(ctx, "Lightfv pname %#x not supported", cmd.Pname)
	}
}

// material applies pname to the single material both faces share.
func (d *Driver) material(ctx context.Context, face, pname uint32, v f32.Vec4) {
	switch face {
	case protocol.GL_FRONT, protocol.GL_BACK, protocol.GL_FRONT_AND_BACK:
	default:
		log.W(ctx, "Material face %#x invalid, ignored", face)
		return
	}
	m := &d.state.Material
	switch pname {
	case protocol.GL_AMBIENT:
		m.Ambient = v
	case protocol.GL_DIFFUSE:
		m.Diffuse = v
	case protocol.GL_SPECULAR:
		m.Specular = v
	case protocol.GL_EMISSION:
		m.Emission = v
	case protocol.GL_SHININESS:
		m.Shininess = v[0]
	case protocol.GL_AMBIENT_AND_DIFFUSE:
		m.Ambient, m.Diffuse = v, v
	default:
		log.D(ctx, "Material pname %#x not supported", pname)
	}
}

func broadcast(v float32) f32.Vec4 { return f32.Vec4{v, v, v, v} }

func (d *Driver) materiali(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.Materiali)
	d.material(ctx, cmd.Face, cmd.Pname, broadcast(float32(cmd.Param)))
}

func (d *Driver) materialf(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.Materialf)
	d.material(ctx, cmd.Face, cmd.Pname, broadcast(cmd.Param))
}

func (d *Driver) materialiv(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.Materialiv)
	var v f32.Vec4
	for i, p := range cmd.Params {
		if cmd.Pname == protocol.GL_SHININESS {
			v[i] = float32(p)
		} else {
			// Integer colors map linearly onto [-1, 1].
			v[i] = float32(float64(p) / maxInt)
		}
	}
	d.material(ctx, cmd.Face, cmd.Pname, v)
}

func (d *Driver) materialfv(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.Materialfv)
	d.material(ctx, cmd.Face, cmd.Pname, f32.Vec4(cmd.Params))
}

// Raster state

func (d *Driver) clear(ctx context.Context, c protocol.Command) {
	d.state.Raster.ClearMask = c.(*protocol.Clear).Mask
}

func (d *Driver) clearColor(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.ClearColor)
	d.state.Raster.ClearColor = f32.Vec4{cmd.R, cmd.G, cmd.B, cmd.A}
}

func (d *Driver) alphaFunc(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.AlphaFunc)
	d.state.Raster.AlphaFunc, d.state.Raster.AlphaRef = cmd.Func, cmd.Ref
}

func (d *Driver) enable(ctx context.Context, c protocol.Command) {
	d.state.SetEnabled(c.(*protocol.Enable).Cap, true)
}

func (d *Driver) disable(ctx context.Context, c protocol.Command) {
	d.state.SetEnabled(c.(*protocol.Disable).Cap, false)
}

func (d *Driver) colorMask(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.ColorMask)
	d.state.Raster.ColorMask = [4]bool{cmd.R, cmd.G, cmd.B, cmd.A}
}

func (d *Driver) depthMask(ctx context.Context, c protocol.Command) {
	d.state.Raster.DepthMask = c.(*protocol.DepthMask).Flag
}

func (d *Driver) blendFunc(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.BlendFunc)
	d.state.Raster.BlendSrc, d.state.Raster.BlendDst = cmd.Src, cmd.Dst
}

func (d *Driver) pointSize(ctx context.Context, c protocol.Command) {
	d.state.Raster.PointSize = c.(*protocol.PointSize).Size
}

func (d *Driver) polygonOffset(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.PolygonOffset)
	d.state.Raster.OffsetFactor, d.state.Raster.OffsetUnits = cmd.Factor, cmd.Units
}

func (d *Driver) cullFace(ctx context.Context, c protocol.Command) {
	d.state.Raster.CullFace = c.(*protocol.CullFace).Mode
}

func (d *Driver) stencilMask(ctx context.Context, c protocol.Command) {
	d.state.Raster.StencilWriteMask = c.(*protocol.StencilMask).Mask
}

func (d *Driver) stencilFunc(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.StencilFunc)
	r := &d.state.Raster
	r.StencilFunc, r.StencilRef, r.StencilFuncMask = cmd.Func, cmd.Ref, cmd.Mask
}

func (d *Driver) stencilOp(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.StencilOp)
	ops := StencilOps{cmd.Fail, cmd.ZFail, cmd.ZPass}
	d.state.Raster.StencilFront, d.state.Raster.StencilBack = ops, ops
}

func (d *Driver) stencilOpSeparateATI(ctx context.Context, c protocol.Command) {
	cmd := c.(*protocol.StencilOpSeparateATI)
	ops := StencilOps{cmd.Fail, cmd.ZFail, cmd.ZPass}
	r := &d.state.Raster
	switch cmd.Face {
	case protocol.GL_FRONT:
		r.StencilFront = ops
	case protocol.GL_BACK:
		r.StencilBack = ops
	case protocol.GL_FRONT_AND_BACK:
		r.StencilFront, r.StencilBack = ops, ops
	default:
		log.W(ctx, "StencilOpSeparateATI face %#x invalid, ignored", cmd.Face)
	}
}

func (d *Driver) createContext(ctx context.Context, c protocol.Command) {
	d.state.Window = c.(*protocol.CreateContext).Window
	log.I(ctx, "Context created for window %#x", d.state.Window)
}
