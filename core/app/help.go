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

package app

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Usage prints message with the formatting args to stderr, and then prints
// the command usage information and terminates the program.
func Usage(ctx context.Context, message string, args ...interface{}) {
	raw := io.Writer(os.Stderr)
	code := SuccessExit
	if message != "" {
		fmt.Fprintln(raw)
		fmt.Fprintf(raw, message, args...)
		fmt.Fprintln(raw)
		fmt.Fprintln(raw)
		code = UsageExit
	}
	verbShorthelp(raw, &globalVerbs)
	fmt.Fprint(raw, "Usage:")
	verbUsage(raw, &globalVerbs)
	verbHelp(raw, &globalVerbs)
	panic(code)
}

func verbShorthelp(raw io.Writer, v *Verb) {
	if v.ShortHelp != "" {
		fmt.Fprintf(raw, "%s: %s\n", v.Name, v.ShortHelp)
	}
	if v.selected != nil {
		verbShorthelp(raw, v.selected)
	}
}

func verbUsage(raw io.Writer, v *Verb) {
	fmt.Fprintf(raw, " %s", v.Name)
	if v.Flags.HasVisibleFlags() {
		fmt.Fprintf(raw, " [%s-flags]", v.Name)
	}
	switch {
	case v.selected != nil:
		verbUsage(raw, v.selected)
		return
	case v.ShortUsage != "":
		fmt.Fprintf(raw, " %s", v.ShortUsage)
	case len(v.verbs) > 0:
		fmt.Fprint(raw, " verb [args]")
	}
	fmt.Fprintln(raw)
}

func verbHelp(raw io.Writer, v *Verb) {
	if v.Flags.HasVisibleFlags() {
		fmt.Fprintf(raw, "%s-flags:\n%s\n", v.Name, v.Flags.Usage())
	}
	if v.selected != nil {
		verbHelp(raw, v.selected)
		return
	}
	if len(v.verbs) == 0 {
		return
	}
	fmt.Fprintf(raw, "%s verbs:\n", v.Name)
	longest := 0
	for _, child := range v.verbs {
		if longest < len(child.Name) {
			longest = len(child.Name)
		}
	}
	format := fmt.Sprintf("    • %%-%ds - %%s\n", longest)
	for _, child := range v.verbs {
		fmt.Fprintf(raw, format, child.Name, child.ShortHelp)
	}
}
