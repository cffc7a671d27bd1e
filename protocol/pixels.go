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

// TypeSize returns the size in bytes of one component of the GL data type t,
// or 0 if t is not a known type.
func TypeSize(t uint32) int {
	switch t {
	case GL_BYTE, GL_UNSIGNED_BYTE:
		return 1
	case GL_SHORT, GL_UNSIGNED_SHORT:
		return 2
	case GL_INT, GL_UNSIGNED_INT, GL_FLOAT:
		return 4
	case GL_DOUBLE:
		return 8
	}
	return 0
}

// FormatComponents returns the number of components per pixel of the GL
// pixel format f, or 0 if f is not a known format.
func FormatComponents(f uint32) int {
	switch f {
	case GL_RED, GL_GREEN, GL_BLUE, GL_ALPHA, GL_LUMINANCE:
		return 1
	case GL_LUMINANCE_ALPHA:
		return 2
	case GL_RGB, GL_BGR:
		return 3
	case GL_RGBA, GL_BGRA:
		return 4
	}
	return 0
}

// MaxPixelDataSize bounds the pixel data of a single TexImage2D.
const MaxPixelDataSize = 1 << 30

// PixelDataSize returns the number of bytes of tightly packed pixel data
// described by a glTexImage2D call, or 0 if the image is empty, of unknown
// format or larger than MaxPixelDataSize.
func PixelDataSize(width, height int32, format, typ uint32) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	n := uint64(width) * uint64(height)
	if n > MaxPixelDataSize {
		return 0
	}
	n *= uint64(FormatComponents(format) * TypeSize(typ))
	if n > MaxPixelDataSize {
		return 0
	}
	return int(n)
}
