// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-inventory-sync/models"
)

func TestNewClientConfig_Defaults(t *testing.T) {
	cfg := newClientConfig(&StructuredConfig{})
	require.NoError(t, cfg.validate())

	assert.Equal(t, DefaultDSN, cfg.Storage.DB.DSN)
	assert.Equal(t, "inventory", cfg.Storage.DB.Name)
	assert.Equal(t, DefaultHTTPAddress, cfg.Server.HTTPAddress)
	assert.Equal(t, 4, cfg.Sync.BatchSize)
	assert.Equal(t, 2, cfg.Sync.BatchesLimit)
	assert.Equal(t, 5*time.Second, cfg.Sync.GracePeriod)
	assert.True(t, cfg.Sync.AllowCostlyNetwork)
	assert.True(t, cfg.Sync.EnabledByDefault)
}

func TestNewClientConfig_KeepsExplicitValues(t *testing.T) {
	allow := false
	cfg := newClientConfig(&StructuredConfig{
		Storage: Storage{DB: DB{DSN: "/data/warehouse.sqlite", Name: "wh"}},
		Sync:    Sync{Disabled: true, BatchSize: 20, AllowCostlyNetwork: &allow},
	})

	assert.Equal(t, "wh", cfg.Storage.DB.Name)
	assert.Equal(t, 20, cfg.Sync.BatchSize)
	assert.False(t, cfg.Sync.AllowCostlyNetwork)
	assert.False(t, cfg.Sync.EnabledByDefault)
}

func TestClientConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ClientConfig)
		wantErr error
	}{
		{name: "valid", mutate: func(*ClientConfig) {}},
		{name: "in-memory dsn", mutate: func(c *ClientConfig) { c.Storage.DB.DSN = ":memory:" }, wantErr: ErrInvalidStorageConfigs},
		{name: "negative adapter timeout", mutate: func(c *ClientConfig) { c.Adapter.RequestTimeout = -time.Second }, wantErr: ErrInvalidAdapterConfigs},
		{name: "missing address", mutate: func(c *ClientConfig) { c.Server.HTTPAddress = "" }, wantErr: ErrInvalidServerConfigs},
		{name: "backoff order", mutate: func(c *ClientConfig) { c.Sync.RetryMaxBackoff = time.Millisecond }, wantErr: ErrInvalidSyncConfigs},
		{name: "zero batch", mutate: func(c *ClientConfig) { c.Sync.BatchSize = 0 }, wantErr: ErrInvalidSyncConfigs},
		{
			name:    "server without uri",
			mutate:  func(c *ClientConfig) { c.Servers = []models.ServerConfig{{ID: "a"}} },
			wantErr: ErrInvalidRemoteServers,
		},
		{
			name: "duplicated server id",
			mutate: func(c *ClientConfig) {
				c.Servers = []models.ServerConfig{{ID: "a", URI: "http://x/db"}, {ID: "a", URI: "http://y/db"}}
			},
			wantErr: ErrInvalidRemoteServers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newClientConfig(&StructuredConfig{})
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
