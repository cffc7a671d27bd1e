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

import "github.com/google/glremix/protocol"

// Triangulate returns triangle-list indices for n vertices drawn with
// mode. Line primitives become degenerate (a, b, b) triangles. Too few
// vertices, points and unknown modes yield no indices.
func Triangulate(mode uint32, n int) []uint32 {
	var out []uint32
	tri := func(a, b, c int) { out = append(out, uint32(a), uint32(b), uint32(c)) }

	switch mode {
	case protocol.GL_LINES:
		for i := 0; i+1 < n; i += 2 {
			tri(i, i+1, i+1)
		}
	case protocol.GL_LINE_STRIP, protocol.GL_LINE_LOOP:
		for i := 0; i+1 < n; i++ {
			tri(i, i+1, i+1)
		}
		if mode == protocol.GL_LINE_LOOP && n >= 3 {
			tri(n-1, 0, 0)
		}
	case protocol.GL_TRIANGLES:
		for i := 0; i+2 < n; i += 3 {
			tri(i, i+1, i+2)
		}
	case protocol.GL_TRIANGLE_STRIP:
		//  0---2---4
		//  | / | / |
		//  1---3---5
		for i := 0; i+2 < n; i++ {
			if i&1 == 0 {
				tri(i, i+1, i+2)
			} else {
				tri(i+1, i, i+2)
			}
		}
	case protocol.GL_TRIANGLE_FAN, protocol.GL_POLYGON:
		for i := 0; i+2 < n; i++ {
			tri(0, i+1, i+2)
		}
	case protocol.GL_QUADS:
		for q := 0; q+3 < n; q += 4 {
			tri(q, q+1, q+2)
			tri(q, q+2, q+3)
		}
	case protocol.GL_QUAD_STRIP:
		//  0---2---4
		//  |   |   |
		//  1---3---5
		for k := 0; k+3 < n; k += 2 {
			tri(k, k+1, k+3)
			tri(k, k+3, k+2)
		}
	}
	return out
}
