// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package replication

import (
	"context"

	"github.com/MKhiriev/go-inventory-sync/models"
)

// Database is the subset of a document database the replicator needs. Both
// the local store and the remote adapter implement it.
type Database interface {
	// Name identifies the database; used to derive checkpoint ids.
	Name() string

	// Info returns the database summary including its current update seq.
	Info(ctx context.Context) (models.DBInfo, error)

	// Changes returns at most limit changes after since. An empty since
	// starts from the beginning of the feed.
	Changes(ctx context.Context, since models.Seq, limit int) (models.ChangesResponse, error)

	// BulkGet fetches the given revisions. Revisions that cannot be read are
	// returned as failed results instead of documents.
	BulkGet(ctx context.Context, refs []models.RevisionRef) ([]models.Document, []models.DocumentResult, error)

	// BulkDocs stores replicated revisions as-is, without generating new
	// revision ids.
	BulkDocs(ctx context.Context, docs []models.Document) ([]models.DocumentResult, error)
}

// Checkpointer persists how far each direction of a replication got.
type Checkpointer interface {
	GetCheckpoint(ctx context.Context, id string, direction Direction) (models.Seq, error)
	SaveCheckpoint(ctx context.Context, id string, direction Direction, seq models.Seq) error
}

// Handle controls a running replication.
type Handle interface {
	// Events returns the event channel. It is closed once the replication
	// has ended or has been cancelled.
	Events() <-chan Event

	// Cancel stops the replication. Safe to call more than once.
	Cancel()
}
