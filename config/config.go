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

// Package config loads the glremix YAML configuration file.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/google/glremix/core/fault"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/core/os/shm"
	"github.com/google/glremix/ipc"
	"github.com/google/glremix/protocol"
)

// ErrInvalid is the cause of every validation failure.
const ErrInvalid = fault.Const("Invalid configuration")

// maxSize bounds the configuration files that are read.
const maxSize = 1 << 20

// Channel configures the shared channel between capture and replay.
type Channel struct {
	Dir      string `yaml:"dir"`
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
	// Blocking makes the capture side wait for the replayer instead of
	// dropping frames.
	Blocking bool `yaml:"blocking"`
}

// Trace configures trace files.
type Trace struct {
	// Path is tee'd into by capture and read by play. Empty disables it.
	Path string `yaml:"path"`
}

// Log configures logging.
type Log struct {
	Level Severity `yaml:"level"`
}

// Replay configures the replay engine.
type Replay struct {
	PruneAfter  uint32   `yaml:"prune_after"`
	Inspector   string   `yaml:"inspector"`
	OpenTimeout Duration `yaml:"open_timeout"`
}

// Config is the whole configuration file.
type Config struct {
	Channel Channel `yaml:"channel"`
	Trace   Trace   `yaml:"trace"`
	Log     Log     `yaml:"log"`
	Replay  Replay  `yaml:"replay"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Channel: Channel{
			Dir:      shm.DefaultDir(),
			Name:     shm.DefaultName,
			Capacity: shm.DefaultCapacity,
			Blocking: true,
		},
		Log: Log{Level: Severity(log.Info)},
		Replay: Replay{
			PruneAfter:  600,
			Inspector:   "localhost:7070",
			OpenTimeout: Duration(ipc.DefaultOpenTimeout),
		},
	}
}

// Parse reads a configuration from data. Fields absent from data keep
// their defaults.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, errors.Wrap(err, "parsing configuration")
	}
	return c, c.Validate()
}

// Load reads the configuration file at path. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading configuration %s", path)
	}
	if info.Size() > maxSize {
		return Config{}, errors.Wrapf(ErrInvalid, "%s is %d bytes", path, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading configuration %s", path)
	}
	c, err := Parse(data)
	return c, errors.Wrap(err, path)
}

// Validate checks the values that cannot be defaulted.
func (c Config) Validate() error {
	switch {
	case c.Channel.Name == "":
		return errors.Wrap(ErrInvalid, "channel.name is empty")
	case c.Channel.Capacity <= protocol.FrameHeaderSize:
		return errors.Wrapf(ErrInvalid, "channel.capacity %d is too small", c.Channel.Capacity)
	}
	return nil
}

// Shm returns the shared channel options.
func (c Config) Shm() shm.Options {
	return shm.Options{Dir: c.Channel.Dir, Name: c.Channel.Name, Capacity: c.Channel.Capacity}
}

// Severity is a log.Severity read by name ("info", "W", ...).
type Severity log.Severity

// UnmarshalYAML implements yaml.Unmarshaler for Severity.
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	var v log.Severity
	if err := v.Set(name); err != nil {
		return errors.Wrapf(ErrInvalid, "log level %q", name)
	}
	*s = Severity(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Severity.
func (s Severity) MarshalYAML() (interface{}, error) { return log.Severity(s).String(), nil }

// Severity returns the log.Severity value.
func (s Severity) Severity() log.Severity { return log.Severity(s) }

// Duration is a time.Duration read from strings such as "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(ErrInvalid, "duration %q", s)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) { return time.Duration(d).String(), nil }

// Duration returns the time.Duration value.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// Marshal returns c as YAML.
func (c Config) Marshal() ([]byte, error) { return yaml.Marshal(c) }
