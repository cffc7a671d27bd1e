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
	"bytes"
	"context"
	"flag"
	"math"
	"time"

	"github.com/google/glremix/core/app"
	"github.com/google/glremix/core/data/endian"
	"github.com/google/glremix/core/event/task"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/ipc"
	"github.com/google/glremix/protocol"
	"github.com/google/glremix/shim"
	"github.com/google/glremix/trace"
)

const synthFrameTime = time.Second / 60

type synthVerb struct{ SynthFlags }

func init() {
	verb := &synthVerb{SynthFlags{Frames: 600, Cubes: 4}}
	app.AddVerb(&app.Verb{
		Name:      "synth",
		ShortHelp: "Send a synthetic spinning scene over the shared channel",
		Action:    verb,
	})
}

func (verb *synthVerb) Run(ctx context.Context, flags flag.FlagSet) error {
	ctx, cfg, err := verb.load(ctx)
	if err != nil {
		return err
	}
	w, err := ipc.CreateWriter(ctx, cfg.Shm(), cfg.Channel.Blocking)
	if err != nil {
		return log.Err(ctx, err, "Creating channel")
	}
	defer w.Close()

	sinks := shim.Tee{w}
	path := cfg.Trace.Path
	if verb.Trace != "" {
		path = verb.Trace
	}
	if path != "" {
		t, err := trace.Create(path)
		if err != nil {
			return log.Errf(ctx, err, "Creating trace %v", path)
		}
		defer t.Close()
		sinks = append(sinks, t)
	}

	rec := shim.NewRecorder(sinks, w.Capacity())
	s := shim.NewSession(rec, nil)
	scene := newScene(s, verb.Cubes)
	ticker := time.NewTicker(synthFrameTime)
	defer ticker.Stop()
	for i := 0; i < verb.Frames; i++ {
		scene.draw(float32(i))
		if err := s.SwapBuffers(ctx); err != nil {
			if cfg.Channel.Blocking {
				return err
			}
			log.D(ctx, "Frame %d dropped", i)
		}
		select {
		case <-task.ShouldStop(ctx):
			return nil
		case <-ticker.C:
		}
	}
	st := rec.Stats()
	log.I(ctx, "Sent %d frames (%d dropped), %d commands, %d bytes",
		st.Frames, st.DroppedFrames, st.Commands, st.Bytes)
	return nil
}

// scene draws a ring of cubes from a display list, each spinning at its own
// rate, over a textured floor drawn from client arrays.
type scene struct {
	s       *shim.Session
	cubes   int
	cube    uint32
	texture uint32
	floor   []byte
}

func newScene(s *shim.Session, cubes int) *scene {
	sc := &scene{s: s, cubes: cubes}
	s.CreateContext(1)
	s.Viewport(0, 0, 1280, 720)
	s.MatrixMode(protocol.GL_PROJECTION)
	s.LoadIdentity()
	s.Perspective(60, 1280.0/720.0, 0.1, 100)
	s.MatrixMode(protocol.GL_MODELVIEW)
	s.Enable(protocol.GL_LIGHTING)
	s.Enable(protocol.GL_LIGHT0)
	s.Lightfv(protocol.GL_LIGHT0, protocol.GL_POSITION, [4]float32{1, 4, 2, 0})

	sc.cube = s.GenLists(1)
	s.NewList(sc.cube, protocol.GL_COMPILE)
	cube(s)
	s.EndList()

	sc.texture = s.GenTextures(1)[0]
	s.BindTexture(protocol.GL_TEXTURE_2D, sc.texture)
	s.TexParameterf(protocol.GL_TEXTURE_2D, protocol.GL_GENERATE_MIPMAP, 1)
	s.TexImage2D(protocol.GL_TEXTURE_2D, 0, protocol.GL_RGB, 8, 8, 0, protocol.GL_RGB, protocol.GL_UNSIGNED_BYTE, checker(8))
	sc.floor = floor()
	return sc
}

func (sc *scene) draw(t float32) {
	s := sc.s
	s.ClearColor(0.1, 0.1, 0.15, 1)
	s.Clear(protocol.GL_COLOR_BUFFER_BIT | protocol.GL_DEPTH_BUFFER_BIT)
	s.LoadIdentity()
	s.Translatef(0, -1, -8)

	s.Enable(protocol.GL_TEXTURE_2D)
	s.EnableClientState(protocol.GL_VERTEX_ARRAY)
	s.EnableClientState(protocol.GL_TEXTURE_COORD_ARRAY)
	s.VertexPointer(3, protocol.GL_FLOAT, 20, sc.floor)
	s.TexCoordPointer(2, protocol.GL_FLOAT, 20, sc.floor[12:])
	s.DrawArrays(protocol.GL_QUADS, 0, 4)
	s.DisableClientState(protocol.GL_TEXTURE_COORD_ARRAY)
	s.DisableClientState(protocol.GL_VERTEX_ARRAY)
	s.Disable(protocol.GL_TEXTURE_2D)

	for i := 0; i < sc.cubes; i++ {
		a := 2 * math.Pi * float64(i) / float64(sc.cubes)
		s.PushMatrix()
		s.Translatef(float32(3*math.Cos(a)), 1, float32(3*math.Sin(a)))
		s.Rotatef(t*float32(i+1), 0, 1, 0)
		s.Materialfv(protocol.GL_FRONT_AND_BACK, protocol.GL_AMBIENT_AND_DIFFUSE,
			[4]float32{float32(i%2) * 0.8, 0.5, float32((i+1)%2) * 0.8, 1})
		s.CallList(sc.cube)
		s.PopMatrix()
	}
}

var cubeFaces = [6]struct{ n, u, v [3]float32 }{
	{[3]float32{1, 0, 0}, [3]float32{0, 1, 0}, [3]float32{0, 0, 1}},
	{[3]float32{-1, 0, 0}, [3]float32{0, 0, 1}, [3]float32{0, 1, 0}},
	{[3]float32{0, 1, 0}, [3]float32{0, 0, 1}, [3]float32{1, 0, 0}},
	{[3]float32{0, -1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, 1}},
	{[3]float32{0, 0, 1}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}},
	{[3]float32{0, 0, -1}, [3]float32{0, 1, 0}, [3]float32{1, 0, 0}},
}

func cube(s *shim.Session) {
	s.Begin(protocol.GL_QUADS)
	for _, f := range cubeFaces {
		s.Normal3f(f.n[0], f.n[1], f.n[2])
		for _, c := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			var p [3]float32
			for k := range p {
				p[k] = 0.5 * (f.n[k] + c[0]*f.u[k] + c[1]*f.v[k])
			}
			s.Vertex3f(p[0], p[1], p[2])
		}
	}
	s.End()
}

func checker(n int) []byte {
	out := make([]byte, 0, n*n*3)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			c := byte(64)
			if (x+y)%2 == 0 {
				c = 224
			}
			out = append(out, c, c, c)
		}
	}
	return out
}

// floor returns four interleaved position and texcoord vertices.
func floor() []byte {
	verts := [4][5]float32{
		{-6, 0, -6, 0, 0},
		{6, 0, -6, 4, 0},
		{6, 0, 6, 4, 4},
		{-6, 0, 6, 0, 4},
	}
	buf := &bytes.Buffer{}
	w := endian.Writer(buf, endian.LittleEndian)
	for _, v := range verts {
		for _, f := range v {
			w.Float32(f)
		}
	}
	return buf.Bytes()
}
