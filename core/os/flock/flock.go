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

// Package flock provides an inter-process mutex backed by an advisory lock
// on a file.
package flock

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/google/glremix/core/event/task"
	"github.com/pkg/errors"
)

const (
	// Suffix is appended to the guarded path to name its lock file.
	Suffix = ".lock"

	acquireAlreadyOwnedLockMsg   = "Try to acquire the lock which is already held by current mutex."
	unlockAlreadyReleasedLockMsg = "Try to unlock an already released mutex."

	retryDelay = 100 * time.Millisecond
)

// Mutex is a file based inter-process mutex. Mutex should only be created by
// New, Lock or TryLock.
type Mutex struct {
	m      sync.Mutex
	locked bool
	f      *os.File
	path   string
}

// New creates a new inter-process mutex guarding path. The lock file is
// path + Suffix. The returned Mutex does not hold the lock.
func New(path string) *Mutex {
	return &Mutex{path: path + Suffix}
}

// TryLock creates a Mutex guarding path and tries once to acquire it. The
// returned Mutex may not hold the lock, check Locked.
func TryLock(path string) *Mutex {
	m := New(path)
	m.TryLock()
	return m
}

// Lock creates a Mutex guarding path and blocks until it holds the lock or
// ctx is cancelled.
func Lock(ctx context.Context, path string) (*Mutex, error) {
	m := New(path)
	if err := m.Lock(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Path returns the path of the lock file.
func (m *Mutex) Path() string { return m.path }

// Locked returns true if the Mutex holds the lock.
func (m *Mutex) Locked() bool {
	m.m.Lock()
	defer m.m.Unlock()
	return m.locked
}

// TryLock acquires the lock without blocking, returning true if the lock is
// now held. Panics if the Mutex already holds the lock.
func (m *Mutex) TryLock() bool {
	m.m.Lock()
	defer m.m.Unlock()
	if m.locked {
		panic(acquireAlreadyOwnedLockMsg)
	}
	f, err := os.OpenFile(m.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return false
	}
	if err := sysTryLock(f); err != nil {
		f.Close()
		return false
	}
	m.f, m.locked = f, true
	return true
}

// Lock retries TryLock until it succeeds or ctx is cancelled.
func (m *Mutex) Lock(ctx context.Context) error {
	return task.Retry(ctx, 0, retryDelay, func(context.Context) (bool, error) {
		return m.TryLock(), nil
	})
}

// Unlock releases the lock, returning true on success. Panics if the Mutex
// does not hold the lock.
func (m *Mutex) Unlock() bool {
	m.m.Lock()
	defer m.m.Unlock()
	if !m.locked {
		panic(unlockAlreadyReleasedLockMsg)
	}
	defer m.f.Close()
	if err := sysUnlock(m.f); err != nil {
		return false
	}
	m.f, m.locked = nil, false
	return true
}

func wrap(err error, op, path string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "%s %s", op, path)
}
