// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	envVars := map[string]string{
		"CONFIG":                       "/path/to/config.json",
		"APP_VERSION":                  "1.2.3",
		"STORAGE_DB_DATABASE_URI":      "/var/lib/inventory.db",
		"STORAGE_DB_NAME":              "inventory",
		"SERVER_ADDRESS":               "localhost:8080",
		"SERVER_REQUEST_TIMEOUT":       "30s",
		"ADAPTER_REQUEST_TIMEOUT":      "15s",
		"SYNC_DISABLED":                "true",
		"SYNC_BATCH_SIZE":              "10",
		"SYNC_BATCHES_LIMIT":           "3",
		"SYNC_GRACE_PERIOD":            "4s",
		"SYNC_RETRY_INITIAL_BACKOFF":   "2s",
		"SYNC_RETRY_MAX_BACKOFF":       "2m",
		"SYNC_LIVE_POLL_INTERVAL":      "1s",
		"SYNC_ALLOW_COSTLY_NETWORK":    "false",
		"SYNC_STATUS_QUEUE_SIZE":       "64",
		"SYNC_STATUS_PERSIST_INTERVAL": "20s",
		"LOG_FILE":                     "/tmp/syncd.log",
	}
	for k, v := range envVars {
		t.Setenv(k, v)
	}

	cfg, err := parseEnv()
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
	assert.Equal(t, "1.2.3", cfg.App.Version)
	assert.Equal(t, "/var/lib/inventory.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "inventory", cfg.Storage.DB.Name)
	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 15*time.Second, cfg.Adapter.RequestTimeout)
	assert.True(t, cfg.Sync.Disabled)
	assert.Equal(t, 10, cfg.Sync.BatchSize)
	assert.Equal(t, 3, cfg.Sync.BatchesLimit)
	assert.Equal(t, 4*time.Second, cfg.Sync.GracePeriod)
	assert.Equal(t, 2*time.Second, cfg.Sync.RetryInitialBackoff)
	assert.Equal(t, 2*time.Minute, cfg.Sync.RetryMaxBackoff)
	assert.Equal(t, time.Second, cfg.Sync.LivePollInterval)
	require.NotNil(t, cfg.Sync.AllowCostlyNetwork)
	assert.False(t, *cfg.Sync.AllowCostlyNetwork)
	assert.Equal(t, 64, cfg.Sync.StatusQueueSize)
	assert.Equal(t, 20*time.Second, cfg.Sync.StatusPersistInterval)
	assert.Equal(t, "/tmp/syncd.log", cfg.Log.FilePath)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("SYNC_GRACE_PERIOD", "soon")

	cfg, err := parseEnv()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error getting env configs")
}
