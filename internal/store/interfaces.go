// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-inventory-sync/internal/replication"
	"github.com/MKhiriev/go-inventory-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// LocalDatabase is the on-device document store. Besides the replication
// contract it serves application reads and writes.
type LocalDatabase interface {
	replication.Database

	// Get returns the current revision of a live document.
	Get(ctx context.Context, id string) (models.Document, error)

	// Put stores an application write and returns the document with its new
	// revision. doc.Rev must name the current revision of an existing
	// document.
	Put(ctx context.Context, doc models.Document) (models.Document, error)
}

// CheckpointRepository persists replication checkpoints.
type CheckpointRepository interface {
	replication.Checkpointer
}

// RegistryRepository persists the configured servers and the master sync
// switch.
type RegistryRepository interface {
	ListServers(ctx context.Context) ([]models.ServerConfig, error)
	GetServer(ctx context.Context, id string) (models.ServerConfig, error)
	CreateServer(ctx context.Context, server models.ServerConfig) error
	UpdateServer(ctx context.Context, server models.ServerConfig) error
	DeleteServer(ctx context.Context, id string) error

	// GetSyncEnabled returns the persisted master switch. found is false
	// until the switch has been written once.
	GetSyncEnabled(ctx context.Context) (enabled bool, found bool, err error)
	SetSyncEnabled(ctx context.Context, enabled bool) error
}

// StatusRepository persists the durable part of server statuses: the last
// sync time and the sequence counters.
type StatusRepository interface {
	SaveStatuses(ctx context.Context, statuses map[string]models.SyncStatus) error
	LoadStatuses(ctx context.Context) (map[string]models.SyncStatus, error)
	DeleteStatus(ctx context.Context, serverID string) error
}
