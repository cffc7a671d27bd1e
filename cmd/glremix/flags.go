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

	"github.com/google/glremix/config"
	"github.com/google/glremix/core/log"
)

type (
	// ConfigFlags select the configuration file and override its values.
	// Zero values keep what the file says.
	ConfigFlags struct {
		Config   string `help:"the yaml configuration file"`
		Channel  string `help:"the name of the shared channel"`
		Capacity int    `help:"the capacity in bytes of the shared channel"`
	}
	ReplayFlags struct {
		ConfigFlags
		Inspector  string `help:"the address to serve the inspector on, 'none' disables it"`
		PruneAfter int    `help:"frames after which an unused mesh is released"`
	}
	PlayFlags struct {
		ConfigFlags
		PruneAfter int  `help:"frames after which an unused mesh is released"`
		Quiet      bool `help:"if true then no progress bar is shown"`
	}
	DumpFlags struct {
		Frames  int  `help:"the maximum number of frames to dump, 0 for all"`
		Summary bool `help:"if true then only per frame command counts are shown"`
	}
	InspectFlags struct {
		ConfigFlags
		Address string `help:"the address of the replayer's inspector"`
		Peek    bool   `help:"if true then describe the pending frame instead of the stats"`
	}
	SynthFlags struct {
		ConfigFlags
		Frames int    `help:"the number of frames to send"`
		Cubes  int    `help:"the number of spinning cubes in the scene"`
		Trace  string `help:"a trace file to tee every frame into"`
	}
)

// load reads the configuration and applies the flag overrides.
func (f ConfigFlags) load(ctx context.Context) (context.Context, config.Config, error) {
	cfg, err := config.Load(f.Config)
	if err != nil {
		return ctx, cfg, log.Err(ctx, err, "Loading configuration")
	}
	if f.Channel != "" {
		cfg.Channel.Name = f.Channel
	}
	if f.Capacity != 0 {
		cfg.Channel.Capacity = f.Capacity
	}
	if err := cfg.Validate(); err != nil {
		return ctx, cfg, log.Err(ctx, err, "Checking configuration")
	}
	if f.Config != "" {
		ctx = log.PutFilter(ctx, log.SeverityFilter(cfg.Log.Level.Severity()))
	}
	return ctx, cfg, nil
}
