// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that runs
// several workers side by side and stops them together.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks until ctx is done or the worker fails. A worker that stops on
// its own without an error is simply done; the others keep running.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// Func adapts a plain function to the Worker interface.
type Func func(ctx context.Context) error

func (f Func) Run(ctx context.Context) error { return f(ctx) }
