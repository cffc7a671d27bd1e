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
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/google/glremix/core/app"
	"github.com/google/glremix/core/event/task"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/ipc"
	"github.com/google/glremix/replay"
	"github.com/google/glremix/replay/backend"
	"github.com/google/glremix/replay/inspect"
)

const statsPeriod = 5 * time.Second

type replayVerb struct{ ReplayFlags }

func init() {
	verb := &replayVerb{}
	app.AddVerb(&app.Verb{
		Name:      "replay",
		ShortHelp: "Replay the frames sent over the shared channel",
		Action:    verb,
	})
}

func (verb *replayVerb) Run(ctx context.Context, flags flag.FlagSet) error {
	ctx, cfg, err := verb.load(ctx)
	if err != nil {
		return err
	}
	opts := replay.Options{PruneAfter: cfg.Replay.PruneAfter}
	if verb.PruneAfter > 0 {
		opts.PruneAfter = uint32(verb.PruneAfter)
	}
	address := cfg.Replay.Inspector
	if verb.Inspector != "" {
		address = verb.Inspector
	}

	openCtx, cancel := task.WithTimeout(ctx, cfg.Replay.OpenTimeout.Duration())
	defer cancel()
	log.I(ctx, "Waiting for channel %v", cfg.Shm().Path())
	r, err := ipc.OpenReader(openCtx, cfg.Shm())
	if err != nil {
		return err
	}
	defer r.Close()

	rec := backend.NewRecorder()
	rec.KeepFrames = 1
	engine := replay.New(rec, opts)
	ctx, stop := task.WithCancel(ctx)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	if address != "" && address != "none" {
		srv := inspect.NewServer(engine.Stats, r)
		g.Go(func() error { return inspect.Serve(log.Enter(ctx, "inspector"), address, srv) })
	}
	g.Go(func() error {
		defer stop()
		return engine.Run(log.Enter(ctx, "engine"), r)
	})
	g.Go(func() error {
		reportStats(ctx, engine)
		return nil
	})
	return g.Wait()
}

func reportStats(ctx context.Context, e *replay.Engine) {
	ticker := time.NewTicker(statsPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-task.ShouldStop(ctx):
			return
		case <-ticker.C:
			s := e.Stats()
			log.I(ctx, "Frame %d: %d instances, %d meshes cached, %d commands",
				s.LastFrame, s.Instances, s.Cache.Meshes, s.Driver.Commands)
		}
	}
}
