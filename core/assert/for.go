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

package assert

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/glremix/core/log"
)

// Output is where failed assertions are reported, normally a *testing.T.
type Output interface {
	Fatal(...interface{})
	Error(...interface{})
	Log(...interface{})
}

// logOutput reports to the logger of a context built by log.Testing.
type logOutput struct{ ctx context.Context }

func (o logOutput) Fatal(args ...interface{}) { log.F(o.ctx, true, "%s", fmt.Sprint(args...)) }
func (o logOutput) Error(args ...interface{}) { log.E(o.ctx, "%s", fmt.Sprint(args...)) }
func (o logOutput) Log(args ...interface{})   { log.I(o.ctx, "%s", fmt.Sprint(args...)) }

// For starts an assertion titled by msg and args that reports to t, which
// is either a context.Context or an Output.
func For(t interface{}, msg string, args ...interface{}) *Assertion {
	var to Output
	switch t := t.(type) {
	case context.Context:
		to = logOutput{t}
	case Output:
		to = t
	default:
		panic(fmt.Errorf("Unsupported assertion target type %T", t))
	}
	a := &Assertion{to: to, out: &bytes.Buffer{}, level: Error}
	a.Printf(msg, args...)
	a.Println()
	return a
}
