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

package inspect

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/google/glremix/core/log"
	"github.com/google/glremix/core/net/grpcutil"
	"github.com/google/glremix/protocol"
	"github.com/google/glremix/replay"
)

// MaxPeekCommands bounds the commands listed by Peek.
const MaxPeekCommands = 64

// Peeker returns a copy of the frame waiting to be replayed.
type Peeker interface {
	Peek() ([]byte, bool)
}

// Server implements Service over a replay engine.
type Server struct {
	stats func() replay.Stats
	peek  Peeker
}

// NewServer returns a server reporting stats and, when peek is not nil, the
// pending frame.
func NewServer(stats func() replay.Stats, peek Peeker) *Server {
	return &Server{stats: stats, peek: peek}
}

// Serve runs the inspector on address until ctx is stopped.
func Serve(ctx context.Context, address string, s *Server) error {
	return grpcutil.Serve(ctx, address, s.prepare)
}

// ServeWithListener runs the inspector on listener until ctx is stopped.
func ServeWithListener(ctx context.Context, listener net.Listener, s *Server) error {
	return grpcutil.ServeWithListener(ctx, listener, s.prepare)
}

func (s *Server) prepare(ctx context.Context, l net.Listener, g *grpc.Server) error {
	Register(g, s)
	log.I(ctx, "Inspector listening on %v", l.Addr())
	return nil
}

// Stats implements Service.
func (s *Server) Stats(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	st := s.stats()
	return structpb.NewStruct(map[string]interface{}{
		"frames":          st.Frames,
		"bad_frames":      st.BadFrames,
		"last_frame":      st.LastFrame,
		"instances":       st.Instances,
		"mesh_uploads":    st.MeshUploads,
		"texture_uploads": st.TextureUploads,
		"upload_failures": st.UploadFailures,
		"released":        st.Released,
		"driver": map[string]interface{}{
			"frames":    st.Driver.Frames,
			"commands":  st.Driver.Commands,
			"unhandled": st.Driver.Unhandled,
			"malformed": st.Driver.Malformed,
			"draws":     st.Driver.Draws,
			"lists":     st.Driver.Lists,
		},
		"cache": map[string]interface{}{
			"meshes": st.Cache.Meshes,
			"hits":   st.Cache.Hits,
			"misses": st.Cache.Misses,
			"pruned": st.Cache.Pruned,
		},
	})
}

// Peek implements Service.
func (s *Server) Peek(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	out := map[string]interface{}{"pending": false}
	if s.peek == nil {
		return structpb.NewStruct(out)
	}
	frame, ok := s.peek.Peek()
	if !ok {
		return structpb.NewStruct(out)
	}
	hdr, body, err := protocol.ParseFrame(frame)
	if err != nil {
		out["error"] = err.Error()
		return structpb.NewStruct(out)
	}
	out["pending"] = true
	out["frame"] = hdr.Index
	out["bytes"] = hdr.Size

	var commands []interface{}
	count := 0
	dec := protocol.NewDecoder(body, len(body))
	for dec.Next() {
		v := dec.View()
		if count < MaxPeekCommands {
			commands = append(commands, map[string]interface{}{
				"type": v.Type.String(),
				"size": len(v.Payload),
			})
		}
		count++
	}
	if err := dec.Err(); err != nil {
		out["error"] = err.Error()
	}
	out["count"] = count
	out["commands"] = commands
	return structpb.NewStruct(out)
}
