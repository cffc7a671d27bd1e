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

package shm_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/glremix/core/assert"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/core/os/shm"
)

func TestStateMachine(t *testing.T) {
	ctx := log.Testing(t)
	c := shm.NewLocal(16)
	defer c.Close()

	assert.For(ctx, "initial").That(c.State()).Equals(shm.Empty)
	assert.For(ctx, "capacity").ThatInteger(c.Capacity()).Equals(16)

	_, ok := c.Read(ctx, make([]byte, 16))
	assert.For(ctx, "read empty").That(ok).Equals(false)

	assert.For(ctx, "write").That(c.Write(ctx, []byte("hello"))).Equals(true)
	assert.For(ctx, "filled").That(c.State()).Equals(shm.Filled)
	assert.For(ctx, "size").ThatInteger(c.Size()).Equals(5)
	assert.For(ctx, "write filled").That(c.Write(ctx, []byte("again"))).Equals(false)

	peek := make([]byte, 16)
	n, ok := c.Peek(peek)
	assert.For(ctx, "peek").That(ok).Equals(true)
	assert.For(ctx, "peek bytes").That(string(peek[:n])).Equals("hello")
	assert.For(ctx, "still filled").That(c.State()).Equals(shm.Filled)

	got := make([]byte, 16)
	n, ok = c.Read(ctx, got)
	assert.For(ctx, "read").That(ok).Equals(true)
	assert.For(ctx, "read bytes").That(string(got[:n])).Equals("hello")
	assert.For(ctx, "consumed").That(c.State()).Equals(shm.Consumed)

	assert.For(ctx, "write consumed").That(c.Write(ctx, []byte("next"))).Equals(true)
}

func TestOversizedWriteLeavesChannel(t *testing.T) {
	ctx := log.Testing(t)
	c := shm.NewLocal(4)
	assert.For(ctx, "write").That(c.Write(ctx, []byte("toolong"))).Equals(false)
	assert.For(ctx, "state").That(c.State()).Equals(shm.Empty)
	assert.For(ctx, "exact").That(c.Write(ctx, []byte("four"))).Equals(true)
}

func TestTruncatedRead(t *testing.T) {
	ctx := log.Testing(t)
	c := shm.NewLocal(8)
	c.Write(ctx, []byte("abcdefgh"))
	dst := make([]byte, 3)
	n, ok := c.Read(ctx, dst)
	assert.For(ctx, "ok").That(ok).Equals(true)
	assert.For(ctx, "n").ThatInteger(n).Equals(3)
	assert.For(ctx, "bytes").That(string(dst)).Equals("abc")
	assert.For(ctx, "consumed").That(c.State()).Equals(shm.Consumed)
}

func TestNewRejectsSmallRegion(t *testing.T) {
	ctx := log.Testing(t)
	_, err := shm.New(make([]byte, shm.HeaderSize+3), 4, shm.NewLocalSignal(), shm.NewLocalSignal())
	assert.For(ctx, "err").ThatError(err).Equals(shm.ErrRegionTooSmall)
}

func TestWaits(t *testing.T) {
	ctx := log.Testing(t)
	c := shm.NewLocal(8)

	done := make(chan []byte)
	go func() {
		if err := c.WaitReadable(ctx); err != nil {
			done <- nil
			return
		}
		buf := make([]byte, 8)
		n, _ := c.Read(ctx, buf)
		done <- buf[:n]
	}()
	time.Sleep(10 * time.Millisecond)
	c.Write(ctx, []byte("ping"))
	assert.For(ctx, "received").That(string(<-done)).Equals("ping")

	assert.For(ctx, "writable").ThatError(c.WaitWritable(ctx)).Succeeded()
	c.Write(ctx, []byte("pong"))

	cancelled, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := c.WaitWritable(cancelled)
	assert.For(ctx, "cancelled").ThatError(err).Equals(context.DeadlineExceeded)
}

func TestLocalSignalCoalesces(t *testing.T) {
	ctx := log.Testing(t)
	s := shm.NewLocalSignal()
	s.Fire()
	s.Fire()
	assert.For(ctx, "first").ThatError(s.Wait(ctx)).Succeeded()

	c, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.For(ctx, "second").ThatError(s.Wait(c)).Equals(context.DeadlineExceeded)
}
