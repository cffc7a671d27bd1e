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

import (
	"context"
	"sort"
)

// V is a map of key-value pairs that can be bound to a context with Bind.
type V map[string]interface{}

type values struct {
	v      V
	parent *values
}

// Bind returns a new context with the values of v attached. Values bound
// later shadow earlier values of the same name when printed.
func (v V) Bind(ctx context.Context) context.Context {
	return context.WithValue(ctx, valuesKey, &values{v, getValues(ctx)})
}

func getValues(ctx context.Context) *values {
	out, _ := ctx.Value(valuesKey).(*values)
	return out
}

// Value is a named value attached to a Message.
type Value struct {
	Name  string
	Value interface{}
}

// Values is a list of Value, sortable by name.
type Values []*Value

func (v Values) Len() int           { return len(v) }
func (v Values) Less(i, j int) bool { return v[i].Name < v[j].Name }
func (v Values) Swap(i, j int)      { v[i], v[j] = v[j], v[i] }

func (l *Logger) collectValues() Values {
	seen := map[string]bool{}
	out := Values{}
	for n := l.values; n != nil; n = n.parent {
		for name, value := range n.v {
			if !seen[name] {
				seen[name] = true
				out = append(out, &Value{Name: name, Value: value})
			}
		}
	}
	sort.Sort(out)
	return out
}
