// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run starts the application and blocks until ctx is done, a stop
	// signal arrives or a background worker fails.
	Run(ctx context.Context) error
}
