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

package grpcutil

import (
	"context"
	"math"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding/gzip"
)

// ClientTask is invoked with an open grpc connection.
type ClientTask func(context.Context, *grpc.ClientConn) error

// Dial returns a plaintext grpc client connection to target with gzip
// compressed calls.
func Dial(ctx context.Context, target string, options ...grpc.DialOption) (*grpc.ClientConn, error) {
	options = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.UseCompressor(gzip.Name),
			grpc.MaxCallRecvMsgSize(math.MaxInt32),
		),
	}, options...)
	return grpc.NewClient(target, options...)
}

// Client dials target and then calls task with the connection, closing it
// afterwards.
func Client(ctx context.Context, target string, task ClientTask, options ...grpc.DialOption) error {
	conn, err := Dial(ctx, target, options...)
	if err != nil {
		return err
	}
	defer conn.Close()
	return task(ctx, conn)
}
