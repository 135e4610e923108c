// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_DBError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = Migrate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration error")
}

func TestMigrate_NilDB(t *testing.T) {
	var db *sql.DB

	_, err := Migrate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db is nil")
}

func TestMigrate_SQLiteCreatesTables(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	applied, err := Migrate(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, applied)

	applied, err = Migrate(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, applied, "second run is a no-op")

	for _, table := range []string{"documents", "db_meta", "replication_checkpoints", "sync_servers", "sync_settings", "sync_server_statuses"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	var seq int64
	require.NoError(t, db.QueryRow(`SELECT update_seq FROM db_meta WHERE id = 1`).Scan(&seq))
	assert.Zero(t, seq)
}
