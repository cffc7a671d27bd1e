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

//go:build !linux && !darwin

package shm

import (
	"context"
	"os"
)

// DefaultDir returns the directory holding shared regions when Options.Dir
// is empty.
func DefaultDir() string { return os.TempDir() }

// OpenWriter is not supported on this platform.
func OpenWriter(ctx context.Context, o Options) (*Channel, error) { return nil, ErrUnsupported }

// OpenReader is not supported on this platform.
func OpenReader(ctx context.Context, o Options) (*Channel, error) { return nil, ErrUnsupported }

// Remove is a no-op on this platform.
func Remove(o Options) {}
