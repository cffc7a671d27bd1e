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

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const pollMillis = 50

// fifoSignal is a Signal shared between processes through a named pipe.
// Both ends open the pipe read-write so that neither open blocks and the
// pipe survives either side closing.
type fifoSignal struct {
	fd    int
	path  string
	owner bool
}

func openFIFO(path string, create bool) (*fifoSignal, error) {
	if create {
		if err := unix.Mkfifo(path, 0600); err != nil && err != unix.EEXIST {
			return nil, errors.Wrapf(err, "mkfifo %s", path)
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return &fifoSignal{fd: fd, path: path, owner: create}, nil
}

func (s *fifoSignal) Fire() {
	// EAGAIN means the pipe is full, which already reads as set.
	unix.Write(s.fd, []byte{1})
}

func (s *fifoSignal) Wait(ctx context.Context) error {
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := unix.Poll(fds, pollMillis)
		switch {
		case err == unix.EINTR:
			continue
		case err != nil:
			return errors.Wrapf(err, "poll %s", s.path)
		case n > 0 && fds[0].Revents&unix.POLLIN != 0:
			s.drain()
			return nil
		}
	}
}

func (s *fifoSignal) drain() {
	var buf [64]byte
	for {
		if n, err := unix.Read(s.fd, buf[:]); n <= 0 || err != nil {
			return
		}
	}
}

func (s *fifoSignal) Close() error {
	err := unix.Close(s.fd)
	if s.owner {
		os.Remove(s.path)
	}
	return err
}
