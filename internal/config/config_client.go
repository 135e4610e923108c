// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/MKhiriev/go-inventory-sync/models"
)

const (
	DefaultDSN                   = "inventory.db"
	DefaultHTTPAddress           = "localhost:8080"
	DefaultServerRequestTimeout  = 30 * time.Second
	DefaultAdapterRequestTimeout = 30 * time.Second
	DefaultBatchSize             = 4
	DefaultBatchesLimit          = 2
	DefaultGracePeriod           = 5 * time.Second
	DefaultRetryInitialBackoff   = time.Second
	DefaultRetryMaxBackoff       = time.Minute
	DefaultLivePollInterval      = 5 * time.Second
	DefaultStatusQueueSize       = 256
	DefaultStatusPersistInterval = 10 * time.Second
)

// ClientApp holds application-level settings.
type ClientApp struct {
	Version string
}

// ClientAdapter holds remote transport settings.
type ClientAdapter struct {
	RequestTimeout time.Duration
}

// ClientDB contains local database settings.
type ClientDB struct {
	DSN string
	// Name defaults to the DSN file name without extension.
	Name string
}

// ClientStorage groups local storage settings.
type ClientStorage struct {
	DB ClientDB
}

// ClientServer holds the status API listener settings.
type ClientServer struct {
	HTTPAddress    string
	RequestTimeout time.Duration
}

// ClientSync is the resolved replication and orchestration tuning.
type ClientSync struct {
	EnabledByDefault      bool
	BatchSize             int
	BatchesLimit          int
	GracePeriod           time.Duration
	RetryInitialBackoff   time.Duration
	RetryMaxBackoff       time.Duration
	LivePollInterval      time.Duration
	AllowCostlyNetwork    bool
	StatusQueueSize       int
	StatusPersistInterval time.Duration
}

// ClientConfig is the runtime configuration assembled from
// [StructuredConfig] with defaults applied.
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Server  ClientServer
	Sync    ClientSync
	Servers []models.ServerConfig
	LogFile string
}

// GetClientConfig builds and validates the runtime config view.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	allowCostly := true
	if cfg.Sync.AllowCostlyNetwork != nil {
		allowCostly = *cfg.Sync.AllowCostlyNetwork
	}

	clientCfg := &ClientConfig{
		App: ClientApp{Version: cfg.App.Version},
		Adapter: ClientAdapter{
			RequestTimeout: orDuration(cfg.Adapter.RequestTimeout, DefaultAdapterRequestTimeout),
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN:  orString(cfg.Storage.DB.DSN, DefaultDSN),
				Name: cfg.Storage.DB.Name,
			},
		},
		Server: ClientServer{
			HTTPAddress:    orString(cfg.Server.HTTPAddress, DefaultHTTPAddress),
			RequestTimeout: orDuration(cfg.Server.RequestTimeout, DefaultServerRequestTimeout),
		},
		Sync: ClientSync{
			EnabledByDefault:      !cfg.Sync.Disabled,
			BatchSize:             orInt(cfg.Sync.BatchSize, DefaultBatchSize),
			BatchesLimit:          orInt(cfg.Sync.BatchesLimit, DefaultBatchesLimit),
			GracePeriod:           orDuration(cfg.Sync.GracePeriod, DefaultGracePeriod),
			RetryInitialBackoff:   orDuration(cfg.Sync.RetryInitialBackoff, DefaultRetryInitialBackoff),
			RetryMaxBackoff:       orDuration(cfg.Sync.RetryMaxBackoff, DefaultRetryMaxBackoff),
			LivePollInterval:      orDuration(cfg.Sync.LivePollInterval, DefaultLivePollInterval),
			AllowCostlyNetwork:    allowCostly,
			StatusQueueSize:       orInt(cfg.Sync.StatusQueueSize, DefaultStatusQueueSize),
			StatusPersistInterval: orDuration(cfg.Sync.StatusPersistInterval, DefaultStatusPersistInterval),
		},
		Servers: cfg.Servers,
		LogFile: cfg.Log.FilePath,
	}

	if clientCfg.Storage.DB.Name == "" {
		base := filepath.Base(clientCfg.Storage.DB.DSN)
		clientCfg.Storage.DB.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return clientCfg
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orDuration(v, def time.Duration) time.Duration {
	if v == 0 {
		return def
	}
	return v
}
