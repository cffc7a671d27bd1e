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

// Package flags binds tagged structures to a flag.FlagSet.
package flags

import (
	"flag"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Set wraps a flag.FlagSet with reflection based binding.
type Set struct {
	// Raw is the underlying flag set
	Raw flag.FlagSet
}

// Bind uses reflection to bind flag values to the verb.
// It will recurse into nested structures adding all leaf fields.
// Fields are named by lower-casing the field name, prefixed by the parent
// name, unless overridden by a `name` or `fullname` tag. The `help` tag holds
// the usage text.
func (s *Set) Bind(name string, value interface{}, help string) {
	switch val := value.(type) {
	case *bool:
		s.Raw.BoolVar(val, name, *val, help)
		return
	case *int:
		s.Raw.IntVar(val, name, *val, help)
		return
	case *int64:
		s.Raw.Int64Var(val, name, *val, help)
		return
	case *uint:
		s.Raw.UintVar(val, name, *val, help)
		return
	case *uint64:
		s.Raw.Uint64Var(val, name, *val, help)
		return
	case *float64:
		s.Raw.Float64Var(val, name, *val, help)
		return
	case *string:
		s.Raw.StringVar(val, name, *val, help)
		return
	case *time.Duration:
		s.Raw.DurationVar(val, name, *val, help)
		return
	case flag.Value:
		s.Raw.Var(val, name, help)
		return
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("Flag value not a pointer: %v", rv.Type()))
	}
	e := rv.Elem()
	if e.Kind() != reflect.Struct {
		panic(fmt.Sprintf("Unhandled flag type: %v", rv.Type()))
	}
	t := e.Type()
	for i := 0; i < e.NumField(); i++ {
		tf := t.Field(i)
		if tf.PkgPath != "" {
			continue // Unexported.
		}
		fname := strings.ToLower(tf.Name)
		if tf.Anonymous {
			fname = ""
		}
		if partial := tf.Tag.Get("name"); partial != "" {
			fname = partial
		}
		fullname := tf.Tag.Get("fullname")
		switch {
		case fullname != "":
		case fname == "":
			fullname = name
		case name == "":
			fullname = fname
		default:
			fullname = name + "-" + fname
		}
		s.Bind(fullname, e.Field(i).Addr().Interface(), tf.Tag.Get("help"))
	}
}

// Parse parses the arguments, stopping the process on failure.
func (s *Set) Parse(args ...string) error {
	s.Raw.Usage = func() {}
	return s.Raw.Parse(args)
}

// Args returns the non-flag arguments.
func (s *Set) Args() []string { return s.Raw.Args() }

// HasVisibleFlags returns true if the set has bound flags.
func (s *Set) HasVisibleFlags() bool {
	result := false
	s.Raw.VisitAll(func(*flag.Flag) { result = true })
	return result
}

// Usage returns the usage string for the flags.
func (s *Set) Usage() string {
	lines := []string{}
	s.Raw.VisitAll(func(fl *flag.Flag) {
		name, usage := flag.UnquoteUsage(fl)
		line := "  -" + fl.Name
		if name != "" {
			line += " " + name
		}
		line += "\n    \t" + usage
		if fl.DefValue != "" && fl.DefValue != "0" && fl.DefValue != "false" {
			line += fmt.Sprintf(" (default %v)", fl.DefValue)
		}
		lines = append(lines, line)
	})
	return strings.Join(lines, "\n")
}
