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

package log_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/glremix/core/log"
)

var testClock log.Clock

func init() {
	t, err := time.Parse("Mon Jan _2 15:04:05.999 2006", "Mon Jan 22 12:34:56.789 2000")
	if err != nil {
		panic(err)
	}
	testClock = log.FixedClock(t)
}

type testMessage struct {
	msg      string
	args     []interface{}
	values   log.V
	severity log.Severity
	tag      string

	raw      string
	brief    string
	normal   string
	detailed string
}

func (m testMessage) send(h log.Handler) {
	ctx := context.Background()
	ctx = log.PutHandler(ctx, h)
	ctx = log.PutTag(ctx, m.tag)
	ctx = log.PutClock(ctx, testClock)
	ctx = m.values.Bind(ctx)
	log.From(ctx).Logf(m.severity, false, m.msg, m.args...)
}

var testMessages = []testMessage{
	{
		msg:      "plain warning",
		severity: log.Warning,

		raw:      "plain warning",
		brief:    "W: plain warning",
		normal:   "12:34:56.789 W: plain warning",
		detailed: "12:34:56.789 Warning: plain warning",
	}, {
		msg:      "info with values",
		severity: log.Info,
		values:   log.V{"cat": "meow", "dog": "woof"},

		raw:      "info with values",
		brief:    "I: info with values",
		normal:   "12:34:56.789 I: info with values (cat: meow, dog: woof)",
		detailed: "12:34:56.789 Info: info with values \n  cat: meow\n  dog: woof",
	}, {
		msg:      "frame %d of %v",
		args:     []interface{}{3, "channel"},
		severity: log.Debug,
		tag:      "replay",

		raw:      "frame 3 of channel",
		brief:    "D: frame 3 of channel",
		normal:   "12:34:56.789 D: [replay] frame 3 of channel",
		detailed: "12:34:56.789 Debug: [replay] frame 3 of channel",
	},
}

func TestStyles(t *testing.T) {
	for _, style := range []log.Style{log.Raw, log.Brief, log.Normal, log.Detailed} {
		for _, m := range testMessages {
			w, buf := log.Buffer()
			m.send(style.Handler(w))
			expect := map[string]string{
				"raw":      m.raw,
				"brief":    m.brief,
				"normal":   m.normal,
				"detailed": m.detailed,
			}[style.Name]
			if got := buf.String(); got != expect {
				t.Errorf("%v style printed %q, expected %q", style.Name, got, expect)
			}
		}
	}
}

func TestSeverityFilter(t *testing.T) {
	w, buf := log.Buffer()
	ctx := log.PutHandler(context.Background(), log.Raw.Handler(w))
	ctx = log.PutFilter(ctx, log.SeverityFilter(log.Warning))
	log.D(ctx, "hidden")
	log.I(ctx, "hidden")
	log.W(ctx, "shown")
	if got := buf.String(); got != "shown" {
		t.Errorf("Filtered output was %q", got)
	}
}

func TestSeveritySet(t *testing.T) {
	var s log.Severity
	for _, test := range []struct {
		in     string
		expect log.Severity
	}{
		{"debug", log.Debug},
		{"W", log.Warning},
		{"Fatal", log.Fatal},
	} {
		if err := s.Set(test.in); err != nil || s != test.expect {
			t.Errorf("Set(%q) gave %v, %v", test.in, s, err)
		}
	}
	if err := s.Set("loud"); err == nil {
		t.Errorf("Set of an unknown severity succeeded")
	}
}

func TestErr(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("disk full")
	err := log.Err(ctx, cause, "Failed to write trace")
	if got, expect := err.Error(), "Failed to write trace\n   Cause: disk full"; got != expect {
		t.Errorf("Error() was %q, expected %q", got, expect)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Err did not unwrap to its cause")
	}
}

func TestTrace(t *testing.T) {
	ctx := log.Enter(log.Enter(context.Background(), "replay"), "frame")
	got := log.GetTrace(ctx)
	if len(got) != 2 || got[0] != "frame" || got[1] != "replay" {
		t.Errorf("Trace was %v", got)
	}
}

func TestChannel(t *testing.T) {
	w, buf := log.Buffer()
	closed := false
	h := log.OnClosed(log.Channel(log.Raw.Handler(w), 4), func() { closed = true })
	ctx := log.PutHandler(context.Background(), h)
	log.I(ctx, "one")
	log.I(ctx, "two")
	h.Close()
	if got := buf.String(); got != "one\ntwo" {
		t.Errorf("Channel output was %q", got)
	}
	if !closed {
		t.Errorf("OnClosed callback was not called")
	}
}

type host struct{ fatal, errors, logs int }

func (h *host) Fatal(...interface{}) { h.fatal++ }
func (h *host) Error(...interface{}) { h.errors++ }
func (h *host) Log(...interface{})   { h.logs++ }

func TestTesting(t *testing.T) {
	h := &host{}
	ctx := log.Testing(h)
	log.I(ctx, "informational")
	log.W(ctx, "warning")
	log.E(ctx, "failure")
	if h.logs != 2 || h.errors != 1 || h.fatal != 0 {
		t.Errorf("Testing handler reported %+v", *h)
	}
}
