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

import "github.com/google/glremix/core/math/f32"

// Maximum stack depths of the fixed-function pipeline.
const (
	MaxModelViewDepth  = 32
	MaxProjectionDepth = 2
	MaxTextureDepth    = 2
)

// MatrixStack is a transform stack that always holds at least one matrix.
type MatrixStack struct {
	stack []f32.Mat4
	max   int
}

// NewMatrixStack returns a stack of depth 1 holding the identity, limited
// to max entries.
func NewMatrixStack(max int) *MatrixStack {
	return &MatrixStack{stack: []f32.Mat4{f32.Identity()}, max: max}
}

// Top returns the current matrix.
func (s *MatrixStack) Top() f32.Mat4 { return s.stack[len(s.stack)-1] }

// Depth returns the number of matrices on the stack.
func (s *MatrixStack) Depth() int { return len(s.stack) }

// Load replaces the current matrix with m.
func (s *MatrixStack) Load(m f32.Mat4) { s.stack[len(s.stack)-1] = m }

// Mul post-multiplies the current matrix by m.
func (s *MatrixStack) Mul(m f32.Mat4) { s.Load(s.Top().Mul(m)) }

// Push duplicates the current matrix. It returns false, leaving the stack
// untouched, if the stack is full.
func (s *MatrixStack) Push() bool {
	if len(s.stack) >= s.max {
		return false
	}
	s.stack = append(s.stack, s.Top())
	return true
}

// Pop discards the current matrix. It returns false, leaving the stack
// untouched, at depth 1.
func (s *MatrixStack) Pop() bool {
	if len(s.stack) <= 1 {
		return false
	}
	s.stack = s.stack[:len(s.stack)-1]
	return true
}

// Reset returns the stack to a single identity matrix.
func (s *MatrixStack) Reset() { s.stack = append(s.stack[:0], f32.Identity()) }
