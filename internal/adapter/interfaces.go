// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport used to talk to remote document
// databases.
//
// The primary abstraction is [RemoteDatabase]: a CouchDB-compatible database
// reachable over HTTP. Besides the replication contract it exposes the calls
// the remote connector needs before a sync starts: session login, a cheap
// access probe and fetch-by-id for the configuration document.
//
// Error values defined in errors.go are mapped from HTTP status codes and
// CouchDB error bodies by mapHTTPError so that callers can use [errors.Is]
// (e.g. [ErrUnauthorized] for 401, [ErrNotFound] for 404). Failures below
// HTTP (DNS, refused connections, timeouts) wrap [ErrTransport].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-inventory-sync/internal/replication"
	"github.com/MKhiriev/go-inventory-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_database_mock.go -package=mock

// RemoteDatabase is a remote CouchDB-compatible database.
type RemoteDatabase interface {
	replication.Database

	// LogIn opens a cookie session with the server credentials. Subsequent
	// requests reuse the session.
	LogIn(ctx context.Context) error

	// AllDocs lists at most limit document ids. With a small limit it is the
	// access probe run right after login.
	AllDocs(ctx context.Context, limit int) ([]models.RevisionRef, error)

	// Get fetches the current revision of a document.
	Get(ctx context.Context, id string) (models.Document, error)
}
