// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-inventory-sync/internal/logger"
)

const finalPersistTimeout = 5 * time.Second

// StatusPersister periodically writes status counters to the local database
// so they survive a restart.
type StatusPersister struct {
	statuses StatusReporter
	interval time.Duration
	logger   *logger.Logger
}

func NewStatusPersister(statuses StatusReporter, interval time.Duration, logger *logger.Logger) *StatusPersister {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &StatusPersister{
		statuses: statuses,
		interval: interval,
		logger:   logger.WithComponent("status_persister"),
	}
}

// Run persists on every tick and once more after ctx is done.
func (p *StatusPersister) Run(ctx context.Context) error {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalPersistTimeout)
			p.persist(flushCtx)
			cancel()
			return nil
		case <-t.C:
			p.persist(ctx)
		}
	}
}

func (p *StatusPersister) persist(ctx context.Context) {
	if err := p.statuses.Persist(ctx); err != nil {
		p.logger.Warn().Err(err).Msg("cannot persist statuses")
	}
}
