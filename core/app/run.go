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

// Package app provides the process entry point, verb dispatch and logging
// set-up shared by the glremix binaries.
package app

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/glremix/core/event/task"
	"github.com/google/glremix/core/log"
	"github.com/pkg/errors"
)

var (
	// Name is the full name of the application
	Name string
	// ExitFuncForTesting can be set to change the behaviour when there is a command line parsing failure.
	// It defaults to os.Exit
	ExitFuncForTesting = os.Exit
	// ShortHelp should be set to add a help message to the usage text.
	ShortHelp = ""
	// ShortUsage is usage text for the additional non-flag arguments.
	ShortUsage = ""
	// Version holds the version specification for the application.
	Version VersionSpec
)

// ExitCode is the type for named return values from the application main entry point.
type ExitCode int

const (
	// SuccessExit is the exit code for successful termination.
	SuccessExit = ExitCode(0)
	// FatalExit is the exit code if something logs at a fatal severity.
	FatalExit = ExitCode(1)
	// UsageExit is the exit code if the command line could not be parsed.
	UsageExit = ExitCode(2)
)

// VersionSpec is the structure for the version of an application.
type VersionSpec struct {
	Major, Minor, Point int
	Build               string
}

// Format implements fmt.Formatter to print the version.
func (v VersionSpec) Format(f fmt.State, c rune) {
	fmt.Fprintf(f, "%d.%d.%d", v.Major, v.Minor, v.Point)
	if v.Build != "" {
		fmt.Fprint(f, ":", v.Build)
	}
}

// AppFlags are the flags common to every application.
type AppFlags struct {
	Log     LogFlags
	Version bool `help:"print the version and exit"`
}

func init() {
	Name = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))
}

// Run performs all the work needed to start up an application.
// It parses the main command line arguments, builds a primary context that is
// cancelled on exit or on an interrupt, and runs the provided task.
func Run(main task.Task) {
	defer func() {
		switch cause := recover().(type) {
		case nil:
		case ExitCode:
			ExitFuncForTesting(int(cause))
		default:
			panic(cause)
		}
	}()
	flags := &AppFlags{Log: logDefaults()}

	rootCtx := prepareContext(&flags.Log)

	verbMainPrepare(flags)
	if err := globalVerbs.Flags.Parse(os.Args[1:]...); err != nil {
		if err == flag.ErrHelp {
			Usage(rootCtx, "")
		}
		Usage(rootCtx, "%v", err)
	}

	if flags.Version {
		fmt.Fprint(os.Stdout, Name, " version ", Version, "\n")
		return
	}

	ctx, cancel := task.WithCancel(rootCtx)
	ctx = updateContext(ctx, &flags.Log)
	defer func() {
		cancel()
		LogHandler.Close()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.I(ctx, "Stopping on %v", sig)
			cancel()
		case <-task.ShouldStop(ctx):
		}
	}()

	if err := main(ctx); err != nil && errors.Cause(err) != ctx.Err() {
		log.F(ctx, true, "Main failed\nError: %v", err)
	}
}
