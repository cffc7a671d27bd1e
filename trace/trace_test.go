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

package trace_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/glremix/core/assert"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/protocol"
	"github.com/google/glremix/shim"
	"github.com/google/glremix/trace"
	"github.com/pkg/errors"
)

func TestSessionIntoTrace(t *testing.T) {
	ctx := log.Testing(t)
	path := filepath.Join(t.TempDir(), "capture.glrx")
	w, err := trace.Create(path)
	if !assert.For(ctx, "create").ThatError(err).Succeeded() {
		return
	}
	s := shim.NewSession(shim.NewRecorder(w, 4096), nil)
	for i := 0; i < 3; i++ {
		s.Rotatef(float32(i), 0, 1, 0)
		s.SwapBuffers(ctx)
	}
	assert.For(ctx, "frames").ThatInteger(w.Frames()).Equals(3)
	assert.For(ctx, "close").ThatError(w.Close()).Succeeded()

	r, err := trace.Open(path)
	if !assert.For(ctx, "open").ThatError(err).Succeeded() {
		return
	}
	defer r.Close()
	var got []uint32
	err = r.ForEach(func(frame []byte) error {
		h, body, err := protocol.ParseFrame(frame)
		if err != nil {
			return err
		}
		cmds, err := protocol.DecodeAll(body)
		if err != nil {
			return err
		}
		assert.For(ctx, "cmd").That(cmds).DeepEquals([]protocol.Command{
			&protocol.Rotate{Angle: float32(h.Index), Y: 1},
		})
		got = append(got, h.Index)
		return nil
	})
	assert.For(ctx, "err").ThatError(err).Succeeded()
	assert.For(ctx, "indices").That(got).DeepEquals([]uint32{0, 1, 2})
}

func TestBadHeader(t *testing.T) {
	ctx := log.Testing(t)
	_, err := trace.NewReader(bytes.NewReader([]byte("nope\x01\x00\x00\x00")))
	assert.For(ctx, "magic").ThatError(err).Equals(trace.ErrBadMagic)
	_, err = trace.NewReader(bytes.NewReader([]byte("glrx\x07\x00\x00\x00")))
	assert.For(ctx, "version").ThatError(err).Equals(trace.ErrBadVersion)
	_, err = trace.NewReader(bytes.NewReader([]byte("gl")))
	assert.For(ctx, "short").ThatError(err).Equals(trace.ErrBadMagic)
}

func TestTruncatedFrame(t *testing.T) {
	ctx := log.Testing(t)
	buf := &bytes.Buffer{}
	w, _ := trace.NewWriter(buf)
	b := protocol.Builder{}
	b.Add(&protocol.Flush{})
	w.WriteFrame(ctx, b.AppendFrame(nil, 0))
	w.Close()

	data := buf.Bytes()
	r, err := trace.NewReader(bytes.NewReader(data[:len(data)-2]))
	assert.For(ctx, "open").ThatError(err).Succeeded()
	_, err = r.Next()
	assert.For(ctx, "cause").That(errors.Cause(err)).Equals(protocol.ErrTruncated)
}

func TestOversizedFrame(t *testing.T) {
	ctx := log.Testing(t)
	buf := &bytes.Buffer{}
	w, _ := trace.NewWriter(buf)
	b := protocol.Builder{}
	b.Add(&protocol.Flush{})
	w.WriteFrame(ctx, b.AppendFrame(nil, 0))
	w.Close()
	data := protocol.FrameHeader{Index: 1, Size: 1 << 31}.Append(buf.Bytes())

	r, err := trace.NewReader(bytes.NewReader(data))
	assert.For(ctx, "open").ThatError(err).Succeeded()
	_, err = r.Next()
	assert.For(ctx, "first").ThatError(err).Succeeded()
	_, err = r.Next()
	assert.For(ctx, "oversized").ThatError(err).HasCause(trace.ErrBadFrame)
}
