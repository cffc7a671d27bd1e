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

package log

import (
	"context"
	"fmt"
)

// wrapped is an error annotated with the message and values of the context
// it was raised in.
type wrapped struct {
	cause error
	msg   *Message
}

// Err returns an error wrapping cause with msg and the logging values of
// ctx. errors.Cause and errors.Unwrap both reach cause.
func Err(ctx context.Context, cause error, msg string) error {
	return wrapped{cause, From(ctx).Message(Error, false, msg)}
}

// Errf is Err with a formatted message.
func Errf(ctx context.Context, cause error, format string, args ...interface{}) error {
	return Err(ctx, cause, fmt.Sprintf(format, args...))
}

func (w wrapped) Cause() error  { return w.cause }
func (w wrapped) Unwrap() error { return w.cause }

func (w wrapped) Error() string {
	if w.cause == nil {
		return w.msg.Text
	}
	return w.msg.Text + "\n   Cause: " + w.cause.Error()
}
