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

// GL enumerant values carried in command payloads.
const (
	GL_POINTS         = 0x0000
	GL_LINES          = 0x0001
	GL_LINE_LOOP      = 0x0002
	GL_LINE_STRIP     = 0x0003
	GL_TRIANGLES      = 0x0004
	GL_TRIANGLE_STRIP = 0x0005
	GL_TRIANGLE_FAN   = 0x0006
	GL_QUADS          = 0x0007
	GL_QUAD_STRIP     = 0x0008
	GL_POLYGON        = 0x0009

	GL_COMPILE             = 0x1300
	GL_COMPILE_AND_EXECUTE = 0x1301

	GL_MODELVIEW  = 0x1700
	GL_PROJECTION = 0x1701
	GL_TEXTURE    = 0x1702

	GL_BYTE           = 0x1400
	GL_UNSIGNED_BYTE  = 0x1401
	GL_SHORT          = 0x1402
	GL_UNSIGNED_SHORT = 0x1403
	GL_INT            = 0x1404
	GL_UNSIGNED_INT   = 0x1405
	GL_FLOAT          = 0x1406
	GL_DOUBLE         = 0x140A

	GL_RED             = 0x1903
	GL_GREEN           = 0x1904
	GL_BLUE            = 0x1905
	GL_ALPHA           = 0x1906
	GL_RGB             = 0x1907
	GL_RGBA            = 0x1908
	GL_LUMINANCE       = 0x1909
	GL_LUMINANCE_ALPHA = 0x190A
	GL_BGR             = 0x80E0
	GL_BGRA            = 0x80E1

	GL_FRONT          = 0x0404
	GL_BACK           = 0x0405
	GL_FRONT_AND_BACK = 0x0408

	GL_AMBIENT               = 0x1200
	GL_DIFFUSE               = 0x1201
	GL_SPECULAR              = 0x1202
	GL_POSITION              = 0x1203
	GL_SPOT_DIRECTION        = 0x1204
	GL_SPOT_EXPONENT         = 0x1205
	GL_SPOT_CUTOFF           = 0x1206
	GL_CONSTANT_ATTENUATION  = 0x1207
	GL_LINEAR_ATTENUATION    = 0x1208
	GL_QUADRATIC_ATTENUATION = 0x1209
	GL_EMISSION              = 0x1600
	GL_SHININESS             = 0x1601
	GL_AMBIENT_AND_DIFFUSE   = 0x1602

	GL_LIGHT0   = 0x4000
	GL_LIGHT7   = 0x4007
	GL_LIGHTING = 0x0B50

	GL_CULL_FACE      = 0x0B44
	GL_FOG            = 0x0B60
	GL_DEPTH_TEST     = 0x0B71
	GL_STENCIL_TEST   = 0x0B90
	GL_NORMALIZE      = 0x0BA1
	GL_ALPHA_TEST     = 0x0BC0
	GL_BLEND          = 0x0BE2
	GL_COLOR_MATERIAL = 0x0B57
	GL_TEXTURE_2D     = 0x0DE1

	GL_VERTEX_ARRAY        = 0x8074
	GL_NORMAL_ARRAY        = 0x8075
	GL_COLOR_ARRAY         = 0x8076
	GL_INDEX_ARRAY         = 0x8077
	GL_TEXTURE_COORD_ARRAY = 0x8078
	GL_EDGE_FLAG_ARRAY     = 0x8079

	GL_TEXTURE_MAG_FILTER = 0x2800
	GL_TEXTURE_MIN_FILTER = 0x2801
	GL_TEXTURE_WRAP_S     = 0x2802
	GL_TEXTURE_WRAP_T     = 0x2803
	GL_GENERATE_MIPMAP    = 0x8191

	GL_NEAREST              = 0x2600
	GL_LINEAR               = 0x2601
	GL_LINEAR_MIPMAP_LINEAR = 0x2703
	GL_REPEAT               = 0x2901
	GL_CLAMP_TO_EDGE        = 0x812F

	GL_TEXTURE_ENV      = 0x2300
	GL_TEXTURE_ENV_MODE = 0x2200
	GL_MODULATE         = 0x2100
	GL_DECAL            = 0x2101

	GL_NEVER   = 0x0200
	GL_LESS    = 0x0201
	GL_GREATER = 0x0204
	GL_ALWAYS  = 0x0207

	GL_KEEP    = 0x1E00
	GL_REPLACE = 0x1E01
	GL_INCR    = 0x1E02
	GL_DECR    = 0x1E03

	GL_ZERO                = 0
	GL_ONE                 = 1
	GL_SRC_ALPHA           = 0x0302
	GL_ONE_MINUS_SRC_ALPHA = 0x0303

	GL_DEPTH_BUFFER_BIT   = 0x00000100
	GL_STENCIL_BUFFER_BIT = 0x00000400
	GL_COLOR_BUFFER_BIT   = 0x00004000
)
