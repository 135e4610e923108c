// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-inventory-sync/internal/config"
	"github.com/MKhiriev/go-inventory-sync/internal/logger"
)

func newTestStorages(t *testing.T) *ClientStorages {
	t.Helper()
	cfg := config.ClientStorage{DB: config.ClientDB{
		DSN:  filepath.Join(t.TempDir(), "nested", "inventory.db"),
		Name: "inventory",
	}}

	s, err := NewClientStorages(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &DB{DB: db, logger: logger.Nop()}, mock, db
}
