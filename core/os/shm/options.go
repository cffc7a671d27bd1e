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

import "path/filepath"

const (
	// DefaultName is the channel name used when none is given.
	DefaultName = "glremix"
	// WriteSuffix names the signal fired after each write.
	WriteSuffix = ".write"
	// ReadSuffix names the signal fired after each read.
	ReadSuffix = ".read"
)

// Options name a shared channel.
type Options struct {
	Dir      string // Directory holding the region, DefaultDir() if empty.
	Name     string
	Capacity int // Payload capacity, only used by the writer.
}

func (o Options) withDefaults() Options {
	if o.Dir == "" {
		o.Dir = DefaultDir()
	}
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.Capacity <= 0 {
		o.Capacity = DefaultCapacity
	}
	return o
}

// Path returns the path of the region file.
func (o Options) Path() string {
	o = o.withDefaults()
	return filepath.Join(o.Dir, o.Name)
}
