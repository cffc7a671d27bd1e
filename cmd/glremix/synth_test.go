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

package main

import (
	"context"
	"testing"

	"github.com/google/glremix/core/assert"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/protocol"
	"github.com/google/glremix/replay"
	"github.com/google/glremix/replay/backend"
	"github.com/google/glremix/shim"
)

type engineSink struct{ e *replay.Engine }

func (s engineSink) WriteFrame(ctx context.Context, frame []byte) error {
	hdr, commands, err := protocol.ParseFrame(frame)
	if err != nil {
		return err
	}
	return s.e.Frame(ctx, hdr.Index, commands)
}

func TestSynthScene(t *testing.T) {
	ctx := log.Testing(t)
	b := backend.NewRecorder()
	e := replay.New(b, replay.Options{})
	s := shim.NewSession(shim.NewRecorder(engineSink{e}, 1<<20), nil)

	const cubes = 3
	sc := newScene(s, cubes)
	for i := 0; i < 3; i++ {
		sc.draw(float32(i) * 10)
		assert.For(ctx, "swap %d", i).ThatError(s.SwapBuffers(ctx)).Succeeded()
	}

	last, ok := b.Last()
	if !assert.For(ctx, "submitted").That(ok).Equals(true) {
		return
	}
	assert.For(ctx, "index").That(last.Index).Equals(uint32(2))
	assert.For(ctx, "instances").ThatSlice(last.Instances).IsLength(cubes + 1)
	st := b.Stats()
	assert.For(ctx, "meshes").That(st.Meshes).Equals(2)
	assert.For(ctx, "textures").That(st.Textures).Equals(1)
	assert.For(ctx, "malformed").That(e.Stats().Driver.Malformed).Equals(uint64(0))
}

func TestFloorLayout(t *testing.T) {
	ctx := log.Testing(t)
	assert.For(ctx, "floor").ThatSlice(floor()).IsLength(4 * 20)
	assert.For(ctx, "checker").ThatSlice(checker(8)).IsLength(8 * 8 * 3)
}
