// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/models"
)

func TestRegistryRepository_ServerCRUD(t *testing.T) {
	repo := newTestStorages(t).Registry
	ctx := context.Background()

	servers, err := repo.ListServers(ctx)
	require.NoError(t, err)
	assert.Empty(t, servers)

	s := models.ServerConfig{ID: "s1", Name: "Office", URI: "https://couch/inv", Username: "u", Password: "p", Enabled: true}
	require.NoError(t, repo.CreateServer(ctx, s))
	assert.ErrorIs(t, repo.CreateServer(ctx, s), ErrServerAlreadyExists)

	got, err := repo.GetServer(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, s, got)

	s.Enabled = false
	s.Name = "Office 2"
	require.NoError(t, repo.UpdateServer(ctx, s))
	got, err = repo.GetServer(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, s, got)

	require.NoError(t, repo.DeleteServer(ctx, "s1"))
	_, err = repo.GetServer(ctx, "s1")
	assert.ErrorIs(t, err, ErrServerNotFound)
}

func TestRegistryRepository_UnknownServer(t *testing.T) {
	repo := newTestStorages(t).Registry
	ctx := context.Background()

	assert.ErrorIs(t, repo.UpdateServer(ctx, models.ServerConfig{ID: "nope"}), ErrServerNotFound)
	assert.ErrorIs(t, repo.DeleteServer(ctx, "nope"), ErrServerNotFound)
}

func TestRegistryRepository_DeleteRemovesStatus(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()
	require.NoError(t, s.Registry.CreateServer(ctx, models.ServerConfig{ID: "s1", Name: "x", URI: "http://x/db"}))
	seq := int64(3)
	require.NoError(t, s.Statuses.SaveStatuses(ctx, map[string]models.SyncStatus{"s1": {LocalSeq: &seq}}))

	require.NoError(t, s.Registry.DeleteServer(ctx, "s1"))

	statuses, err := s.Statuses.LoadStatuses(ctx)
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestRegistryRepository_SyncEnabled(t *testing.T) {
	repo := newTestStorages(t).Registry
	ctx := context.Background()

	_, found, err := repo.GetSyncEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.SetSyncEnabled(ctx, false))
	enabled, found, err := repo.GetSyncEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, enabled)

	require.NoError(t, repo.SetSyncEnabled(ctx, true))
	enabled, _, err = repo.GetSyncEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestRegistryRepository_ListServersQueryError(t *testing.T) {
	db, mock, _ := newMockDB(t)
	mock.ExpectQuery("SELECT id, name, uri, username, password, enabled FROM sync_servers").
		WillReturnError(errors.New("db down"))

	_, err := NewRegistryRepository(db, logger.Nop()).ListServers(context.Background())
	assert.ErrorIs(t, err, ErrExecutingQuery)
	require.NoError(t, mock.ExpectationsWereMet())
}
