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
	"os"

	"github.com/google/glremix/core/log"
)

const logChanBufferSize = 100

// LogHandler is the primary application logger target.
// It is assigned to the main context on startup and is closed on shutdown.
var LogHandler log.Indirect

// LogFlags controls the application logging.
type LogFlags struct {
	Level log.Severity `help:"the severity to filter log messages by"`
	Style log.Style    `help:"the style of log messages: raw, brief, normal or detailed"`
	File  string       `help:"the file to write log messages to"`
}

func logDefaults() LogFlags {
	return LogFlags{Level: log.Info, Style: log.Normal}
}

func wrapHandler(to log.Handler) log.Handler {
	to = log.Channel(to, logChanBufferSize)
	return log.NewHandler(func(m *log.Message) {
		to.Handle(m)
		if m.StopProcess {
			to.Close()
			panic(FatalExit)
		}
	}, to.Close)
}

func prepareContext(flags *LogFlags) context.Context {
	LogHandler.SetTarget(wrapHandler(flags.Style.Handler(log.Std())))
	ctx := context.Background()
	ctx = log.PutProcess(ctx, Name)
	ctx = log.PutFilter(ctx, log.SeverityFilter(flags.Level))
	ctx = log.PutHandler(ctx, &LogHandler)
	return ctx
}

// updateContext applies the parsed flags to the root logging context.
func updateContext(ctx context.Context, flags *LogFlags) context.Context {
	ctx = log.PutFilter(ctx, log.SeverityFilter(flags.Level))
	handler := flags.Style.Handler(log.Std())
	if flags.File != "" {
		file, err := os.Create(flags.File)
		if err != nil {
			log.E(ctx, "Failed to create log file %v: %v", flags.File, err)
		} else {
			handler = log.OnClosed(flags.Style.Handler(log.To(file)), func() { file.Close() })
		}
	}
	if old := LogHandler.SetTarget(wrapHandler(handler)); old != nil {
		old.Close()
	}
	return ctx
}
