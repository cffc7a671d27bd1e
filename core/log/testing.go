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

import "context"

// T is the subset of testing.TB that test logging writes to.
type T interface {
	Fatal(...interface{})
	Error(...interface{})
	Log(...interface{})
}

// Testing returns a context whose log messages go to t in the Normal style.
// An Error message fails the test, a Fatal one stops it.
func Testing(t T) context.Context {
	style := Normal
	return PutHandler(context.Background(), handler{
		handle: func(m *Message) {
			switch {
			case m.Severity >= Fatal:
				t.Fatal(style.Print(m))
			case m.Severity >= Error:
				t.Error(style.Print(m))
			default:
				t.Log(style.Print(m))
			}
		},
		close: func() {},
	})
}
