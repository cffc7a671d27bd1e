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

	"github.com/golang/protobuf/jsonpb"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/google/glremix/core/app"
	"github.com/google/glremix/core/log"
	"github.com/google/glremix/core/net/grpcutil"
	"github.com/google/glremix/replay/inspect"
)

type inspectVerb struct{ InspectFlags }

func init() {
	verb := &inspectVerb{}
	app.AddVerb(&app.Verb{
		Name:      "inspect",
		ShortHelp: "Print the state of a running replayer",
		Action:    verb,
	})
}

func (verb *inspectVerb) Run(ctx context.Context, flags flag.FlagSet) error {
	ctx, cfg, err := verb.load(ctx)
	if err != nil {
		return err
	}
	address := cfg.Replay.Inspector
	if verb.Address != "" {
		address = verb.Address
	}
	return grpcutil.Client(ctx, address, func(ctx context.Context, conn *grpc.ClientConn) error {
		c := inspect.NewClient(conn)
		var out *structpb.Struct
		if verb.Peek {
			out, err = c.Peek(ctx, &emptypb.Empty{})
		} else {
			out, err = c.Stats(ctx, &emptypb.Empty{})
		}
		if err != nil {
			return log.Errf(ctx, err, "Querying %v", address)
		}
		m := jsonpb.Marshaler{Indent: "  "}
		s, err := m.MarshalToString(out)
		if err != nil {
			return log.Err(ctx, err, "Formatting reply")
		}
		fmt.Println(s)
		return nil
	})
}
