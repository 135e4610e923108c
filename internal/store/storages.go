// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-inventory-sync/internal/config"
	"github.com/MKhiriev/go-inventory-sync/internal/logger"
)

// ClientStorages groups every repository backed by the local SQLite
// database.
type ClientStorages struct {
	Documents   LocalDatabase
	Checkpoints CheckpointRepository
	Registry    RegistryRepository
	Statuses    StatusRepository

	db *DB
}

// NewClientStorages opens (creating if needed) the SQLite database at
// cfg.DB.DSN, applies pending migrations and wires the repositories.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return newClientStorages(db, cfg.DB.Name, logger), nil
}

func newClientStorages(db *DB, name string, logger *logger.Logger) *ClientStorages {
	return &ClientStorages{
		Documents:   NewLocalDatabase(db, name, logger),
		Checkpoints: NewCheckpointRepository(db, logger),
		Registry:    NewRegistryRepository(db, logger),
		Statuses:    NewStatusRepository(db, logger),
		db:          db,
	}
}

// Close releases the database connection.
func (s *ClientStorages) Close() error {
	return s.db.Close()
}
