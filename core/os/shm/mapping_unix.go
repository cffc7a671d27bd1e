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

package shm

import (
	"context"
	"os"
	"sync/atomic"

	"github.com/google/glremix/core/log"
	"github.com/google/glremix/core/os/flock"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// DefaultDir returns the directory holding shared regions when Options.Dir
// is empty.
func DefaultDir() string {
	if fi, err := os.Stat("/dev/shm"); err == nil && fi.IsDir() {
		return "/dev/shm"
	}
	return os.TempDir()
}

// OpenWriter creates the named region and signals, owned by the returned
// channel. The signals are created before the region so that a reader that
// finds the region also finds the signals.
func OpenWriter(ctx context.Context, o Options) (*Channel, error) {
	o = o.withDefaults()
	path := o.Path()
	ctx = log.V{"channel": path}.Bind(ctx)

	lock := flock.TryLock(path)
	if !lock.Locked() {
		return nil, ErrWriterExists
	}
	release := func() { lock.Unlock() }

	written, err := openFIFO(path+WriteSuffix, true)
	if err != nil {
		release()
		return nil, err
	}
	read, err := openFIFO(path+ReadSuffix, true)
	if err != nil {
		written.Close()
		release()
		return nil, err
	}

	mem, err := mapFile(path, HeaderSize+o.Capacity, true)
	if err != nil {
		written.Close()
		read.Close()
		release()
		return nil, err
	}
	c, err := New(mem, o.Capacity, written, read)
	if err != nil {
		unix.Munmap(mem)
		written.Close()
		read.Close()
		release()
		return nil, err
	}
	c.closer = func() error {
		err := unix.Munmap(mem)
		os.Remove(path)
		release()
		return errors.Wrapf(err, "munmap %s", path)
	}
	log.I(ctx, "Created shared channel with capacity %d", o.Capacity)
	return c, nil
}

// OpenReader maps a region created by OpenWriter. It returns ErrNotReady if
// the region does not exist yet or is not initialised.
func OpenReader(ctx context.Context, o Options) (*Channel, error) {
	o = o.withDefaults()
	path := o.Path()

	mem, err := mapFile(path, 0, false)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return nil, ErrNotReady
		}
		return nil, err
	}
	capacity := int(atomic.LoadUint32(headerWord(mem, 8)))
	if capacity == 0 || len(mem) < HeaderSize+capacity {
		unix.Munmap(mem)
		return nil, ErrNotReady
	}
	written, err := openFIFO(path+WriteSuffix, false)
	if err != nil {
		unix.Munmap(mem)
		return nil, ErrNotReady
	}
	read, err := openFIFO(path+ReadSuffix, false)
	if err != nil {
		written.Close()
		unix.Munmap(mem)
		return nil, ErrNotReady
	}
	c := &Channel{region: mem, capacity: capacity, written: written, read: read}
	c.closer = func() error { return errors.Wrapf(unix.Munmap(mem), "munmap %s", path) }
	log.D(ctx, "Opened shared channel %s with capacity %d", path, capacity)
	return c, nil
}

// mapFile maps path shared read-write. When create is true the file is
// created or truncated to size, otherwise size is taken from the file.
func mapFile(path string, size int, create bool) ([]byte, error) {
	flags := os.O_RDWR
	if create {
		flags |= os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0600)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	if create {
		if err := f.Truncate(int64(size)); err != nil {
			return nil, errors.Wrapf(err, "truncate %s", path)
		}
	} else {
		fi, err := f.Stat()
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", path)
		}
		if fi.Size() < HeaderSize {
			return nil, ErrNotReady
		}
		size = int(fi.Size())
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap %s", path)
	}
	return mem, nil
}

// Remove deletes the named objects of a channel left behind by a writer
// that did not close cleanly.
func Remove(o Options) {
	path := o.withDefaults().Path()
	for _, p := range []string{path, path + WriteSuffix, path + ReadSuffix} {
		os.Remove(p)
	}
}
