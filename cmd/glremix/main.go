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

// The glremix command replays captured GL 1.x frames.
package main

import (
	"github.com/google/glremix/core/app"
)

func main() {
	app.ShortHelp = "glremix captures and replays fixed-function GL frames."
	app.Version = app.VersionSpec{Major: 0, Minor: 1}
	app.Run(app.VerbMain)
}
