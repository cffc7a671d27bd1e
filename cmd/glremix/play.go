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
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/google/glremix/core/app"
	"github.com/google/glremix/core/event/task"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/protocol"
	"github.com/google/glremix/replay"
	"github.com/google/glremix/replay/backend"
	"github.com/google/glremix/trace"
)

type playVerb struct{ PlayFlags }

func init() {
	verb := &playVerb{}
	app.AddVerb(&app.Verb{
		Name:       "play",
		ShortHelp:  "Replay the frames of a trace file",
		ShortUsage: "<trace>",
		Action:     verb,
	})
}

func (verb *playVerb) Run(ctx context.Context, flags flag.FlagSet) error {
	path := ""
	switch flags.NArg() {
	case 0:
	case 1:
		path = flags.Arg(0)
	default:
		app.Usage(ctx, "At most one trace file expected, got %d", flags.NArg())
		return nil
	}
	ctx, cfg, err := verb.load(ctx)
	if err != nil {
		return err
	}
	if path == "" {
		path = cfg.Trace.Path
	}
	if path == "" {
		app.Usage(ctx, "No trace file given")
		return nil
	}
	opts := replay.Options{PruneAfter: cfg.Replay.PruneAfter}
	if verb.PruneAfter > 0 {
		opts.PruneAfter = uint32(verb.PruneAfter)
	}

	info, err := os.Stat(path)
	if err != nil {
		return log.Errf(ctx, err, "Reading trace %v", path)
	}
	r, err := trace.Open(path)
	if err != nil {
		return log.Errf(ctx, err, "Opening trace %v", path)
	}
	defer r.Close()

	var bar *progressbar.ProgressBar
	if !verb.Quiet {
		bar = progressbar.DefaultBytes(info.Size(), "replaying")
	}
	rec := backend.NewRecorder()
	rec.KeepFrames = 1
	engine := replay.New(rec, opts)
	err = r.ForEach(func(frame []byte) error {
		if task.Stopped(ctx) {
			return ctx.Err()
		}
		hdr, commands, err := protocol.ParseFrame(frame)
		if err != nil {
			return err
		}
		if bar != nil {
			bar.Add(len(frame))
		}
		return engine.Frame(ctx, hdr.Index, commands)
	})
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return log.Errf(ctx, err, "Playing %v", path)
	}
	s := engine.Stats()
	b := rec.Stats()
	log.I(ctx, "Replayed %d frames: %d mesh uploads, %d texture uploads, %d meshes resident",
		s.Frames, s.MeshUploads, s.TextureUploads, b.Meshes)
	log.I(ctx, "Driver: %d commands, %d draws, %d unhandled, %d malformed",
		s.Driver.Commands, s.Driver.Draws, s.Driver.Unhandled, s.Driver.Malformed)
	return nil
}
