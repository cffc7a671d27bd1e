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

// Package inspect serves diagnostics of a running replayer over grpc. The
// messages are well-known protobuf types, so no generated code is needed.
package inspect

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	serviceName = "glremix.Inspector"
	statsMethod = "/" + serviceName + "/Stats"
	peekMethod  = "/" + serviceName + "/Peek"
)

// Service is the server API of the inspector.
type Service interface {
	// Stats returns the replay engine counters.
	Stats(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// Peek describes the frame waiting in the shared channel, if any,
	// without consuming it.
	Peek(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// Register adds s to the grpc server.
func Register(g *grpc.Server, s Service) { g.RegisterService(&serviceDesc, s) }

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*Service)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Stats", Handler: unary(statsMethod, Service.Stats)},
		{MethodName: "Peek", Handler: unary(peekMethod, Service.Peek)},
	},
	Streams: []grpc.StreamDesc{},
}

type method func(Service, context.Context, *emptypb.Empty) (*structpb.Struct, error)

func unary(name string, m method) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := &emptypb.Empty{}
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return m(srv.(Service), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: name}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return m(srv.(Service), ctx, req.(*emptypb.Empty))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client calls a remote inspector.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient returns a client using conn.
func NewClient(conn grpc.ClientConnInterface) *Client { return &Client{conn} }

// Stats implements Service.
func (c *Client) Stats(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error) {
	out := &structpb.Struct{}
	return out, c.conn.Invoke(ctx, statsMethod, in, out)
}

// Peek implements Service.
func (c *Client) Peek(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error) {
	out := &structpb.Struct{}
	return out, c.conn.Invoke(ctx, peekMethod, in, out)
}
