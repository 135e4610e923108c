// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "context"

// Server defines the lifecycle contract of the status API server.
type Server interface {
	// Run starts serving requests and blocks until ctx is done and the
	// server has shut down.
	Run(ctx context.Context) error

	// Addr returns the address the server listens on once Run has bound it,
	// or the configured address before that.
	Addr() string
}
