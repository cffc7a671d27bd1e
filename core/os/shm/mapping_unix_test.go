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

//go:build linux || darwin

package shm_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/glremix/core/assert"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/core/os/shm"
)

func TestNamedChannel(t *testing.T) {
	ctx := log.Testing(t)
	o := shm.Options{Dir: t.TempDir(), Name: "test", Capacity: 64}

	_, err := shm.OpenReader(ctx, o)
	assert.For(ctx, "before writer").ThatError(err).Equals(shm.ErrNotReady)

	w, err := shm.OpenWriter(ctx, o)
	if !assert.For(ctx, "open writer").ThatError(err).Succeeded() {
		return
	}
	defer w.Close()

	_, err = shm.OpenWriter(ctx, o)
	assert.For(ctx, "second writer").ThatError(err).Equals(shm.ErrWriterExists)

	r, err := shm.OpenReader(ctx, o)
	if !assert.For(ctx, "open reader").ThatError(err).Succeeded() {
		return
	}
	defer r.Close()
	assert.For(ctx, "reader capacity").ThatInteger(r.Capacity()).Equals(64)

	received := make(chan string)
	go func() {
		buf := make([]byte, 64)
		if err := r.WaitReadable(ctx); err != nil {
			received <- err.Error()
			return
		}
		n, _ := r.Read(ctx, buf)
		received <- string(buf[:n])
	}()
	assert.For(ctx, "write").That(w.Write(ctx, []byte("frame"))).Equals(true)
	assert.For(ctx, "read").That(<-received).Equals("frame")

	c, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	assert.For(ctx, "writable").ThatError(w.WaitWritable(c)).Succeeded()
	assert.For(ctx, "state").That(w.State()).Equals(shm.Consumed)
}
