// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-inventory-sync/internal/adapter"
	"github.com/MKhiriev/go-inventory-sync/internal/replication"
	"github.com/MKhiriev/go-inventory-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// RemoteFactory opens a remote database handle for a server without any
// network round trip.
type RemoteFactory func(server models.ServerConfig) (adapter.RemoteDatabase, error)

// Connector produces an authenticated remote database handle for a server.
// Failures are returned as *SyncError.
type Connector interface {
	Connect(ctx context.Context, server models.ServerConfig) (adapter.RemoteDatabase, error)
}

// Replicator starts bidirectional replications. *replication.Replicator
// implements it.
type Replicator interface {
	Sync(ctx context.Context, local, remote replication.Database, opts replication.Options) replication.Handle
}

// StatusSink accepts partial status updates. It is the only way sessions and
// the orchestrator change a server status.
type StatusSink interface {
	Report(ctx context.Context, update models.StatusUpdate)
}

// StatusReporter owns the published status of every server.
type StatusReporter interface {
	StatusSink

	// NextGeneration starts a new generation for serverID. Updates stamped
	// with an older generation are dropped from now on.
	NextGeneration(serverID string) uint64

	// Remove forgets the status of a deleted server.
	Remove(serverID string)

	Status(serverID string) (models.SyncStatus, bool)
	Statuses() map[string]models.SyncStatus
	Overall(settings models.SyncSettings) models.OverallStatus

	// Restore loads the persisted counters. Call before Run.
	Restore(ctx context.Context) error
	// Persist writes counters changed since the previous call.
	Persist(ctx context.Context) error

	// Run applies queued updates until ctx is done.
	Run(ctx context.Context) error
}

// SettingsSource publishes registry snapshots.
type SettingsSource interface {
	Subscribe() (<-chan models.SyncSettings, func())
}

// Registry manages the configured servers and the master sync switch.
type Registry interface {
	SettingsSource

	// Load seeds an empty registry and publishes the first snapshot.
	Load(ctx context.Context) error

	Settings(ctx context.Context) (models.SyncSettings, error)
	GetServer(ctx context.Context, id string) (models.ServerConfig, error)
	CreateServer(ctx context.Context, server models.ServerConfig) (models.ServerConfig, error)
	UpdateServer(ctx context.Context, id string, update models.ServerUpdate) (models.ServerConfig, error)
	ToggleServer(ctx context.Context, id string) (models.ServerConfig, error)
	DeleteServer(ctx context.Context, id string) error
	SetSyncEnabled(ctx context.Context, enabled bool) error
}

// Orchestrator runs one replication session per enabled server and keeps the
// set of sessions in line with the registry, the network and the app
// lifecycle.
type Orchestrator interface {
	Run(ctx context.Context) error

	// SetForeground reports the host app lifecycle. Going to the background
	// stops every session once the grace period expires.
	SetForeground(foreground bool)
}
