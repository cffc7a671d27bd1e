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

package f32_test

import (
	"testing"

	"github.com/google/glremix/core/assert"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/core/math/f32"
)

func near(t *testing.T, name string, got, expect f32.Vec4) {
	for i := range got {
		assert.For(t, "%v[%d]", name, i).ThatFloat(float64(got[i])).Equals(float64(expect[i]), 1e-5)
	}
}

func TestV3DMagnitude(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		v f32.Vec3
		r float32
	}{
		{f32.Vec3{0, 0, 0}, 0},
		{f32.Vec3{1, 0, 0}, 1},
		{f32.Vec3{0, 2, 0}, 2},
		{f32.Vec3{0, 0, -3}, 3},
		{f32.Vec3{1, 1, 1}, f32.Sqrt(3)},
	} {
		assert.For(ctx, "%v.Magnitude", test.v).That(test.v.Magnitude()).Equals(test.r)
	}
}

func TestCross3D(t *testing.T) {
	ctx := log.Testing(t)
	got := f32.Cross3D(f32.Vec3{1, 0, 0}, f32.Vec3{0, 1, 0})
	assert.For(ctx, "x cross y").That(got).Equals(f32.Vec3{0, 0, 1})
}

func TestMatrixTransforms(t *testing.T) {
	point := f32.Vec4{1, 2, 3, 1}
	for _, test := range []struct {
		name   string
		m      f32.Mat4
		expect f32.Vec4
	}{
		{"identity", f32.Identity(), f32.Vec4{1, 2, 3, 1}},
		{"translate", f32.Translation(1, -1, 2), f32.Vec4{2, 1, 5, 1}},
		{"scale", f32.Scaling(2, 3, 4), f32.Vec4{2, 6, 12, 1}},
		{"rotate z", f32.Rotation(90, f32.Vec3{0, 0, 1}), f32.Vec4{-2, 1, 3, 1}},
		{"rotate unnormalised axis", f32.Rotation(90, f32.Vec3{0, 0, 5}), f32.Vec4{-2, 1, 3, 1}},
		{"rotate zero axis", f32.Rotation(90, f32.Vec3{}), f32.Vec4{1, 2, 3, 1}},
		{"translate then scale", f32.Translation(1, 0, 0).Mul(f32.Scaling(2, 2, 2)), f32.Vec4{3, 4, 6, 1}},
	} {
		near(t, test.name, test.m.Transform(point), test.expect)
	}
}

func TestProjections(t *testing.T) {
	ortho := f32.Ortho(0, 10, 0, 20, -1, 1)
	near(t, "ortho corner", ortho.Transform(f32.Vec4{10, 20, 0, 1}), f32.Vec4{1, 1, 0, 1})
	near(t, "ortho origin", ortho.Transform(f32.Vec4{0, 0, 0, 1}), f32.Vec4{-1, -1, 0, 1})

	frustum := f32.Frustum(-1, 1, -1, 1, 1, 10)
	clip := frustum.Transform(f32.Vec4{1, 1, -1, 1})
	near(t, "frustum near corner", f32.Vec4{clip[0] / clip[3], clip[1] / clip[3], clip[2] / clip[3], 1}, f32.Vec4{1, 1, -1, 1})

	persp := f32.Perspective(90, 1, 1, 10)
	near(t, "perspective matches frustum", persp.Transform(f32.Vec4{1, 1, -1, 1}), clip)
}
