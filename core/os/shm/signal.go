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

package shm

import "context"

// Signal is an auto-reset event. Fire sets it, Wait blocks until it is set
// and clears it. Fires that happen while the signal is already set are
// coalesced.
type Signal interface {
	Fire()
	Wait(ctx context.Context) error
	Close() error
}

// LocalSignal is a Signal for channels shared within one process.
type LocalSignal chan struct{}

// NewLocalSignal returns a cleared LocalSignal.
func NewLocalSignal() LocalSignal { return make(LocalSignal, 1) }

// Fire sets the signal.
func (s LocalSignal) Fire() {
	select {
	case s <- struct{}{}:
	default:
	}
}

// Wait blocks until the signal is set or ctx is done.
func (s LocalSignal) Wait(ctx context.Context) error {
	select {
	case <-s:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close is a no-op.
func (s LocalSignal) Close() error { return nil }
