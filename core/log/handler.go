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

package log

import "sync"

// Handler is the handler of log messages.
type Handler interface {
	Handle(*Message)
	Close()
}

// NewHandler returns a Handler that calls handle for each message and close
// when the handler is closed. close can be nil.
func NewHandler(handle func(*Message), close func()) Handler {
	if close == nil {
		close = func() {}
	}
	return handler{handle, close}
}

type handler struct {
	handle func(*Message)
	close  func()
}

func (h handler) Handle(m *Message) { h.handle(m) }
func (h handler) Close()            { h.close() }

// OnClosed returns a Handler that forwards to h, calling closed once after h
// has been closed.
func OnClosed(h Handler, closed func()) Handler {
	once := sync.Once{}
	return handler{h.Handle, func() {
		h.Close()
		once.Do(closed)
	}}
}

// Channel is a log handler that passes log messages to another Handler through
// a chan.
// This makes this Handler safe to use from multiple threads.
func Channel(to Handler, size int) Handler {
	c := make(chan *Message, size)
	done := make(chan struct{})
	go func() {
		defer func() {
			to.Close()
			close(done)
		}()
		for m := range c {
			if m == nil {
				return
			}
			to.Handle(m)
		}
	}()
	handle := func(m *Message) {
		if m == nil {
			return
		}
		select {
		case c <- m:
		case <-done: // Handler closed. Message dropped on floor.
		}
	}
	close := func() {
		select {
		case <-done:
		case c <- nil:
			<-done // Wait for flush of existing messages.
		}
	}
	return handler{handle, close}
}

// Indirect is a Handler that can be dynamically retargeted to another handler.
type Indirect struct {
	mutex  sync.RWMutex
	target Handler
}

// SetTarget assigns the handler target to i, returning the old target.
func (i *Indirect) SetTarget(h Handler) Handler {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	old := i.target
	i.target = h
	return old
}

// Target returns the target handler.
func (i *Indirect) Target() Handler {
	i.mutex.RLock()
	defer i.mutex.RUnlock()
	return i.target
}

func (i *Indirect) Handle(m *Message) {
	if t := i.Target(); t != nil {
		t.Handle(m)
	}
}

func (i *Indirect) Close() {
	if t := i.Target(); t != nil {
		t.Close()
	}
}
