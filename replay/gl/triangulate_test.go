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

package gl_test

import (
	"testing"

	"github.com/google/glremix/core/assert"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/protocol"
	"github.com/google/glremix/replay/gl"
)

func TestTriangulate(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		name     string
		mode     uint32
		n        int
		expected []uint32
	}{
		{"points", protocol.GL_POINTS, 5, nil},
		{"lines", protocol.GL_LINES, 5, []uint32{0, 1, 1, 2, 3, 3}},
		{"line strip", protocol.GL_LINE_STRIP, 3, []uint32{0, 1, 1, 1, 2, 2}},
		{"line loop", protocol.GL_LINE_LOOP, 3, []uint32{0, 1, 1, 1, 2, 2, 2, 0, 0}},
		{"line loop of two", protocol.GL_LINE_LOOP, 2, []uint32{0, 1, 1}},
		{"triangles", protocol.GL_TRIANGLES, 7, []uint32{0, 1, 2, 3, 4, 5}},
		{"short triangles", protocol.GL_TRIANGLES, 2, nil},
		{"strip", protocol.GL_TRIANGLE_STRIP, 4, []uint32{0, 1, 2, 2, 1, 3}},
		{"strip of five", protocol.GL_TRIANGLE_STRIP, 5, []uint32{0, 1, 2, 2, 1, 3, 2, 3, 4}},
		{"fan", protocol.GL_TRIANGLE_FAN, 5, []uint32{0, 1, 2, 0, 2, 3, 0, 3, 4}},
		{"polygon", protocol.GL_POLYGON, 4, []uint32{0, 1, 2, 0, 2, 3}},
		{"quads", protocol.GL_QUADS, 4, []uint32{0, 1, 2, 0, 2, 3}},
		{"partial quad", protocol.GL_QUADS, 7, []uint32{0, 1, 2, 0, 2, 3}},
		{"quad strip", protocol.GL_QUAD_STRIP, 6, []uint32{0, 1, 3, 0, 3, 2, 2, 3, 5, 2, 5, 4}},
		{"short quad strip", protocol.GL_QUAD_STRIP, 3, nil},
		{"unknown", 0x1234, 6, nil},
	} {
		got := gl.Triangulate(test.mode, test.n)
		if test.expected == nil {
			assert.For(ctx, "%s", test.name).ThatSlice(got).IsEmpty()
		} else {
			assert.For(ctx, "%s", test.name).ThatSlice(got).Equals(test.expected)
		}
	}
}
