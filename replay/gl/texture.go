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
	"image"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"

	"github.com/google/glremix/core/log"
	"github.com/google/glremix/protocol"
	"github.com/google/glremix/replay/geometry"
)

// Texture is a texture object known to the replayer.
type Texture struct {
	Name   uint32
	Index  uint32 // Dense index handed to the backend.
	Width  int32
	Height int32
	Format gputypes.TextureFormat
	Levels [][]byte
	Params map[uint32]float32
}

// Textures maps client texture names to texture objects.
type Textures struct {
	byName map[uint32]*Texture
	next   uint32
	bound  uint32
}

// NewTextures returns an empty registry.
func NewTextures() *Textures {
	return &Textures{byName: map[uint32]*Texture{}}
}

// Gen registers names that are not already known.
func (t *Textures) Gen(names []uint32) {
	for _, n := range names {
		if n != 0 {
			t.lookup(n)
		}
	}
}

// Get returns the texture named name, or nil.
func (t *Textures) Get(name uint32) *Texture { return t.byName[name] }

// Len returns the number of live textures.
func (t *Textures) Len() int { return len(t.byName) }

// Bind makes name the bound texture, creating it if needed. Name 0 unbinds.
func (t *Textures) Bind(name uint32) {
	if name != 0 {
		t.lookup(name)
	}
	t.bound = name
}

// Bound returns the bound texture, or nil.
func (t *Textures) Bound() *Texture { return t.byName[t.bound] }

// Delete forgets names and returns the dense indices of the textures that
// existed. Deleting the bound texture unbinds it.
func (t *Textures) Delete(names []uint32) []uint32 {
	var indices []uint32
	for _, n := range names {
		if tex, ok := t.byName[n]; ok {
			indices = append(indices, tex.Index)
			delete(t.byName, n)
		}
		if n == t.bound {
			t.bound = 0
		}
	}
	return indices
}

func (t *Textures) lookup(name uint32) *Texture {
	tex, ok := t.byName[name]
	if !ok {
		tex = &Texture{Name: name, Index: t.next, Params: map[uint32]float32{}}
		t.next++
		t.byName[name] = tex
	}
	return tex
}

// SetImage stores pixels as mip level. Level 0 redefines the texture and
// drops every other level. A higher level must follow the existing chain
// and share the texture's format. It returns false if the level was not
// stored.
func (t *Texture) SetImage(level int, width, height int32, format gputypes.TextureFormat, pixels []byte) bool {
	switch {
	case level == 0:
		t.Width, t.Height, t.Format = width, height, format
		t.Levels = [][]byte{pixels}
	case len(t.Levels) == 0 || format != t.Format || level > len(t.Levels):
		return false
	case level == len(t.Levels):
		t.Levels = append(t.Levels, pixels)
	default:
		t.Levels[level] = pixels
	}
	return true
}

// GenerateMipmap returns true if the texture asked for generated mips.
func (t *Texture) GenerateMipmap() bool { return t.Params[protocol.GL_GENERATE_MIPMAP] != 0 }

func (t *Texture) pending() geometry.PendingTexture {
	return geometry.PendingTexture{
		Index:  t.Index,
		Name:   t.Name,
		Width:  t.Width,
		Height: t.Height,
		Format: t.Format,
		Levels: append([][]byte(nil), t.Levels...),
	}
}

var oneF32 = []byte{0x00, 0x00, 0x80, 0x3f}

// ConvertPixels turns client pixels into a backend texture format. Three
// channel data gains an opaque alpha, luminance and alpha data expand to
// RGBA. It returns false for combinations the backend has no format for.
func ConvertPixels(format, typ uint32, width, height int32, pixels []byte) (gputypes.TextureFormat, []byte, bool) {
	size := protocol.PixelDataSize(width, height, format, typ)
	if size == 0 || len(pixels) < size {
		return 0, nil, false
	}
	n := int(width) * int(height)
	switch typ {
	case protocol.GL_UNSIGNED_BYTE:
		switch format {
		case protocol.GL_RGBA:
			return gputypes.TextureFormatRGBA8Unorm, pixels[:n*4], true
		case protocol.GL_BGRA:
			return gputypes.TextureFormatBGRA8Unorm, pixels[:n*4], true
		case protocol.GL_RED:
			return gputypes.TextureFormatR8Unorm, pixels[:n], true
		case protocol.GL_RGB:
			return gputypes.TextureFormatRGBA8Unorm, expand(pixels, n, 3, opaque), true
		case protocol.GL_BGR:
			return gputypes.TextureFormatBGRA8Unorm, expand(pixels, n, 3, opaque), true
		case protocol.GL_LUMINANCE:
			return gputypes.TextureFormatRGBA8Unorm, expand(pixels, n, 1, luminance), true
		case protocol.GL_LUMINANCE_ALPHA:
			return gputypes.TextureFormatRGBA8Unorm, expand(pixels, n, 2, luminanceAlpha), true
		case protocol.GL_ALPHA:
			return gputypes.TextureFormatRGBA8Unorm, expand(pixels, n, 1, alpha), true
		}
	case protocol.GL_FLOAT:
		switch format {
		case protocol.GL_RGBA:
			return gputypes.TextureFormatRGBA32Float, pixels[:n*16], true
		case protocol.GL_RGB:
			out := make([]byte, 0, n*16)
			for i := 0; i < n; i++ {
				out = append(out, pixels[i*12:i*12+12]...)
				out = append(out, oneF32...)
			}
			return gputypes.TextureFormatRGBA32Float, out, true
		}
	}
	return 0, nil, false
}

func opaque(dst, src []byte)         { dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], 0xff }
func luminance(dst, src []byte)      { dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], 0xff }
func luminanceAlpha(dst, src []byte) { dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], src[1] }
func alpha(dst, src []byte)          { dst[3] = src[0] }

func expand(pixels []byte, n, components int, f func(dst, src []byte)) []byte {
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		f(out[i*4:i*4+4], pixels[i*components:i*components+components])
	}
	return out
}

// GenerateMips returns the full mip chain for the level 0 pixels, level 0
// included. Formats without an 8-bit image representation get no extra
// levels.
func GenerateMips(ctx context.Context, format gputypes.TextureFormat, width, height int32, pixels []byte) [][]byte {
	levels := [][]byte{pixels}
	var src image.Image
	switch format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		src = &image.RGBA{Pix: pixels, Stride: int(width) * 4, Rect: image.Rect(0, 0, int(width), int(height))}
	case gputypes.TextureFormatR8Unorm:
		src = &image.Gray{Pix: pixels, Stride: int(width), Rect: image.Rect(0, 0, int(width), int(height))}
	default:
		log.D(ctx, "No mip generation for format %v", format)
		return levels
	}
	gray := format == gputypes.TextureFormatR8Unorm
	w, h := int(width), int(height)
	for w > 1 || h > 1 {
		w, h = half(w), half(h)
		dst, pix := newLevel(gray, w, h)
		xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
		levels = append(levels, pix)
		src = dst
	}
	return levels
}

func newLevel(gray bool, w, h int) (xdraw.Image, []byte) {
	r := image.Rect(0, 0, w, h)
	if gray {
		img := image.NewGray(r)
		return img, img.Pix
	}
	img := image.NewRGBA(r)
	return img, img.Pix
}

func half(v int) int {
	if v > 1 {
		return v / 2
	}
	return 1
}
