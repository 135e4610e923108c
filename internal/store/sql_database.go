// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/migrations"
)

type DB struct {
	*sql.DB
	logger *logger.Logger
}

// Migrate brings the schema up to date.
func (db *DB) Migrate(ctx context.Context) error {
	applied, err := migrations.Migrate(ctx, db.DB)
	if err != nil {
		return err
	}
	if len(applied) > 0 {
		db.logger.Info().Ints64("versions", applied).Msg("database migrated")
	}
	return nil
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}
