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

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/glremix/core/app"
	"github.com/google/glremix/core/fault"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/protocol"
	"github.com/google/glremix/trace"
)

const errDone = fault.Const("done")

type dumpVerb struct{ DumpFlags }

func init() {
	verb := &dumpVerb{}
	app.AddVerb(&app.Verb{
		Name:       "dump",
		ShortHelp:  "Dump a textual representation of a trace file",
		ShortUsage: "<trace>",
		Action:     verb,
	})
}

func (verb *dumpVerb) Run(ctx context.Context, flags flag.FlagSet) error {
	if flags.NArg() != 1 {
		app.Usage(ctx, "Exactly one trace file expected, got %d", flags.NArg())
		return nil
	}
	r, err := trace.Open(flags.Arg(0))
	if err != nil {
		return log.Err(ctx, err, "Failed to open the trace")
	}
	defer r.Close()

	frames := 0
	err = r.ForEach(func(frame []byte) error {
		if verb.Frames > 0 && frames >= verb.Frames {
			return errDone
		}
		frames++
		hdr, commands, err := protocol.ParseFrame(frame)
		if err != nil {
			return err
		}
		verb.frame(hdr, commands)
		return nil
	})
	if err != nil && err != errDone {
		return log.Err(ctx, err, "Failed to read the trace")
	}
	return nil
}

func (verb *dumpVerb) frame(hdr protocol.FrameHeader, commands []byte) {
	fmt.Printf("frame %d (%d bytes)\n", hdr.Index, hdr.Size)
	counts := map[protocol.Type]int{}
	dec := protocol.NewDecoder(commands, len(commands))
	for dec.Next() {
		v := dec.View()
		counts[v.Type]++
		if verb.Summary {
			continue
		}
		c, err := protocol.Decode(v)
		if err != nil {
			fmt.Printf("  %6d: %v <%v>\n", v.Start, v.Type, err)
			continue
		}
		fmt.Printf("  %6d: %v %+v\n", v.Start, v.Type, c)
	}
	if err := dec.Err(); err != nil {
		fmt.Printf("  <%v>\n", err)
	}
	if verb.Summary {
		for t := protocol.TypeBegin; t < protocol.TypeCount; t++ {
			if n := counts[t]; n > 0 {
				fmt.Printf("  %-22v %d\n", t, n)
			}
		}
	}
}
