// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package migrations embeds the SQL migrations of the local SQLite database.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// Migrate applies every pending migration and returns the versions applied by
// this call. Running it against an up-to-date database is a no-op.
func Migrate(ctx context.Context, db *sql.DB) ([]int64, error) {
	if db == nil {
		return nil, errors.New("migration error: db is nil")
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, embedMigrations)
	if err != nil {
		return nil, fmt.Errorf("migration error creating provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	applied := make([]int64, 0, len(results))
	for _, res := range results {
		applied = append(applied, res.Source.Version)
	}
	return applied, nil
}
