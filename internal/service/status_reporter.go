// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/internal/store"
	"github.com/MKhiriev/go-inventory-sync/models"
)

type statusReporter struct {
	repo   store.StatusRepository
	queue  chan models.StatusUpdate
	logger *logger.Logger

	mu          sync.RWMutex
	statuses    map[string]models.SyncStatus
	generations map[string]uint64
	lastGen     uint64
	dirty       map[string]struct{}
}

// NewStatusReporter creates the reporter. Updates are queued on a channel of
// queueSize and applied by Run in arrival order.
func NewStatusReporter(repo store.StatusRepository, queueSize int, logger *logger.Logger) StatusReporter {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &statusReporter{
		repo:        repo,
		queue:       make(chan models.StatusUpdate, queueSize),
		logger:      logger.WithComponent("status_reporter"),
		statuses:    make(map[string]models.SyncStatus),
		generations: make(map[string]uint64),
		dirty:       make(map[string]struct{}),
	}
}

func (r *statusReporter) NextGeneration(serverID string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastGen++
	r.generations[serverID] = r.lastGen
	return r.lastGen
}

// Report queues update. It blocks while the queue is full and gives up when
// ctx is done.
func (r *statusReporter) Report(ctx context.Context, update models.StatusUpdate) {
	select {
	case r.queue <- update:
	case <-ctx.Done():
		r.logger.Debug().
			Str("server_id", update.ServerID).
			Uint64("generation", update.Generation).
			Msg("status update dropped, context done")
	}
}

func (r *statusReporter) Run(ctx context.Context) error {
	r.logger.Info().Msg("status reporter started")
	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("status reporter stopped")
			return nil
		case update := <-r.queue:
			r.apply(update)
		}
	}
}

func (r *statusReporter) apply(update models.StatusUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.generations[update.ServerID]
	if !ok || update.Generation != current {
		r.logger.Debug().
			Str("server_id", update.ServerID).
			Uint64("generation", update.Generation).
			Uint64("current_generation", current).
			Msg("stale status update dropped")
		return
	}

	prev := r.statuses[update.ServerID]
	next := update.ApplyTo(prev)
	r.statuses[update.ServerID] = next

	if update.LastSyncedAt != nil || update.LocalSeq != nil || update.RemoteSeq != nil ||
		update.PushLastSeq != nil || update.PullLastSeq != nil {
		r.dirty[update.ServerID] = struct{}{}
	}

	if prev.Status != next.Status {
		r.logger.Info().
			Str("server_id", update.ServerID).
			Str("from", string(prev.Status)).
			Str("to", string(next.Status)).
			Str("message", next.LastErrorMessage).
			Msg("server status changed")
	}
}

func (r *statusReporter) Remove(serverID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.statuses, serverID)
	delete(r.generations, serverID)
	delete(r.dirty, serverID)
}

func (r *statusReporter) Status(serverID string) (models.SyncStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status, ok := r.statuses[serverID]
	return status, ok
}

func (r *statusReporter) Statuses() map[string]models.SyncStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Clone(r.statuses)
}

func (r *statusReporter) Overall(settings models.SyncSettings) models.OverallStatus {
	return OverallStatus(settings, r.Statuses())
}

// Restore loads the persisted counters of every server. The status itself is
// not persisted and starts as not evaluated.
func (r *statusReporter) Restore(ctx context.Context) error {
	saved, err := r.repo.LoadStatuses(ctx)
	if err != nil {
		return fmt.Errorf("error loading statuses: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, status := range saved {
		if _, ok := r.statuses[id]; ok {
			continue
		}
		status.Status = models.StatusNotEvaluated
		status.LastErrorMessage = ""
		r.statuses[id] = status
	}

	r.logger.Debug().Int("servers", len(saved)).Msg("statuses restored")
	return nil
}

// Persist saves the counters changed since the last successful call.
func (r *statusReporter) Persist(ctx context.Context) error {
	r.mu.Lock()
	if len(r.dirty) == 0 {
		r.mu.Unlock()
		return nil
	}
	batch := make(map[string]models.SyncStatus, len(r.dirty))
	for id := range r.dirty {
		batch[id] = r.statuses[id]
	}
	clear(r.dirty)
	r.mu.Unlock()

	if err := r.repo.SaveStatuses(ctx, batch); err != nil {
		r.mu.Lock()
		for id := range batch {
			if _, ok := r.statuses[id]; ok {
				r.dirty[id] = struct{}{}
			}
		}
		r.mu.Unlock()
		return fmt.Errorf("error persisting statuses: %w", err)
	}
	return nil
}
