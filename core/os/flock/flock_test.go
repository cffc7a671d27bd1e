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

package flock_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/glremix/core/assert"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/core/os/flock"
)

func TestMutex(t *testing.T) {
	ctx := log.Testing(t)
	path := filepath.Join(t.TempDir(), "channel")

	a := flock.New(path)
	b := flock.New(path)
	assert.For(ctx, "path").That(a.Path()).Equals(path + flock.Suffix)

	assert.For(ctx, "a locks").That(a.TryLock()).Equals(true)
	assert.For(ctx, "b excluded").That(b.TryLock()).Equals(false)
	assert.For(ctx, "b not locked").That(b.Locked()).Equals(false)
	assert.For(ctx, "a unlocks").That(a.Unlock()).Equals(true)
	assert.For(ctx, "b locks").That(b.TryLock()).Equals(true)
	assert.For(ctx, "b unlocks").That(b.Unlock()).Equals(true)
}

func TestLockWaits(t *testing.T) {
	ctx := log.Testing(t)
	path := filepath.Join(t.TempDir(), "channel")

	held := flock.TryLock(path)
	assert.For(ctx, "held").That(held.Locked()).Equals(true)

	done := make(chan error, 1)
	go func() {
		m, err := flock.Lock(context.Background(), path)
		if err == nil {
			m.Unlock()
		}
		done <- err
	}()
	time.Sleep(50 * time.Millisecond)
	held.Unlock()
	assert.For(ctx, "lock").ThatError(<-done).Succeeded()
}

func TestLockCancelled(t *testing.T) {
	ctx := log.Testing(t)
	path := filepath.Join(t.TempDir(), "channel")
	held := flock.TryLock(path)
	defer held.Unlock()

	c, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	_, err := flock.Lock(c, path)
	assert.For(ctx, "err").ThatError(err).Failed()
}
