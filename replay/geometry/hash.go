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

package geometry

import "math"

// Epsilon is the quantum positions and colors are rounded to before
// hashing. Differences below it do not change a mesh's hash.
const Epsilon = 1e-5

// Hash returns the content hash of a mesh over its vertex positions and
// colors and its indices.
func Hash(vertices []Vertex, indices []uint32) uint64 {
	seed := uint64(0)
	for i := range vertices {
		v := &vertices[i]
		for _, f := range v.Position {
			seed = combine(seed, quantize(f))
		}
		for _, f := range v.Color {
			seed = combine(seed, quantize(f))
		}
	}
	for _, i := range indices {
		seed = combine(seed, mix(uint64(i)))
	}
	return seed
}

func combine(seed, h uint64) uint64 {
	return seed ^ (h + 0x9e3779b97f4a7c15 + (seed << 6) + (seed >> 2))
}

func quantize(f float32) uint64 {
	return mix(uint64(int64(math.Round(float64(f) / Epsilon))))
}

// mix is the splitmix64 finalizer.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
