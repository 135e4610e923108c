// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-inventory-sync/internal/logger"
)

type named struct {
	name   string
	worker Worker
}

// Workers runs a set of named workers.
type Workers struct {
	workers []named
	logger  *logger.Logger
}

func NewWorkers(logger *logger.Logger) *Workers {
	return &Workers{logger: logger.WithComponent("workers")}
}

// Add registers w under name. Workers are started in the order they were
// added.
func (w *Workers) Add(name string, worker Worker) *Workers {
	w.workers = append(w.workers, named{name: name, worker: worker})
	return w
}

// Run starts every worker and blocks until all of them returned. The first
// failing worker cancels the context of the others; its error is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, n := range w.workers {
		g.Go(func() error {
			w.logger.Debug().Str("worker", n.name).Msg("worker started")
			if err := n.worker.Run(ctx); err != nil {
				w.logger.Error().Err(err).Str("worker", n.name).Msg("worker failed")
				return fmt.Errorf("worker %s: %w", n.name, err)
			}
			w.logger.Debug().Str("worker", n.name).Msg("worker stopped")
			return nil
		})
	}

	return g.Wait()
}
