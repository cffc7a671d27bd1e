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

package shim

import "github.com/google/glremix/protocol"

// NewList opens a display list compile bracket. A NewList while a bracket
// is open is still recorded but does not restart the session's copy.
func (s *Session) NewList(list, mode uint32) {
	s.record(&protocol.NewList{List: list, Mode: mode})
	if s.compiling {
		return
	}
	s.compiling, s.compileID, s.compileBytes = true, list, s.compileBytes[:0]
	if list >= s.nextList {
		s.nextList = list + 1
	}
}

// EndList closes the open compile bracket.
func (s *Session) EndList() {
	if s.compiling {
		s.compiling = false
		s.lists[s.compileID] = append([]byte(nil), s.compileBytes...)
	}
	s.record(&protocol.EndList{})
}

// CallList records a display list invocation.
func (s *Session) CallList(list uint32) { s.record(&protocol.CallList{List: list}) }

// GenLists reserves n consecutive list names and returns the first, or 0
// if n is not positive.
func (s *Session) GenLists(n int32) uint32 {
	if n <= 0 {
		return 0
	}
	first := s.nextList
	for i := uint32(0); i < uint32(n); i++ {
		if _, ok := s.lists[first+i]; !ok {
			s.lists[first+i] = nil
		}
	}
	s.nextList += uint32(n)
	return first
}

// IsList returns true if list was reserved by GenLists or defined by a
// NewList/EndList bracket.
func (s *Session) IsList(list uint32) bool {
	_, ok := s.lists[list]
	return ok
}

// ListBytes returns the encoded size of the commands compiled into list.
func (s *Session) ListBytes(list uint32) int { return len(s.lists[list]) }

// GenTextures allocates n texture names and records them.
func (s *Session) GenTextures(n int32) []uint32 {
	if n <= 0 {
		return nil
	}
	names := make([]uint32, n)
	for i := range names {
		names[i] = s.nextTexture
		s.textures[s.nextTexture] = true
		s.nextTexture++
	}
	s.record(&protocol.GenTextures{Names: names})
	return names
}

// DeleteTextures releases texture names and records them.
func (s *Session) DeleteTextures(names []uint32) {
	for _, n := range names {
		delete(s.textures, n)
	}
	s.record(&protocol.DeleteTextures{Names: append([]uint32(nil), names...)})
}

// IsTexture returns true if name was allocated and not deleted.
func (s *Session) IsTexture(name uint32) bool { return s.textures[name] }
