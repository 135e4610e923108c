// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/MKhiriev/go-inventory-sync/models"
)

// StructuredJSONConfig is the on-disk layout of the JSON config file.
type StructuredJSONConfig struct {
	App struct {
		Version string `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN  string `json:"dsn"`
			Name string `json:"name"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Sync struct {
		Disabled              bool     `json:"disabled"`
		BatchSize             int      `json:"batch_size"`
		BatchesLimit          int      `json:"batches_limit"`
		GracePeriod           Duration `json:"grace_period"`
		RetryInitialBackoff   Duration `json:"retry_initial_backoff"`
		RetryMaxBackoff       Duration `json:"retry_max_backoff"`
		LivePollInterval      Duration `json:"live_poll_interval"`
		AllowCostlyNetwork    *bool    `json:"allow_costly_network"`
		StatusQueueSize       int      `json:"status_queue_size"`
		StatusPersistInterval Duration `json:"status_persist_interval"`
	} `json:"sync,omitempty"`

	Log struct {
		FilePath string `json:"file"`
	} `json:"log,omitempty"`

	Servers []models.ServerConfig `json:"servers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{Version: jsonCfg.App.Version},
		Storage: Storage{
			DB: DB{
				DSN:  jsonCfg.Storage.DB.DSN,
				Name: jsonCfg.Storage.DB.Name,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Sync: Sync{
			Disabled:              jsonCfg.Sync.Disabled,
			BatchSize:             jsonCfg.Sync.BatchSize,
			BatchesLimit:          jsonCfg.Sync.BatchesLimit,
			GracePeriod:           time.Duration(jsonCfg.Sync.GracePeriod),
			RetryInitialBackoff:   time.Duration(jsonCfg.Sync.RetryInitialBackoff),
			RetryMaxBackoff:       time.Duration(jsonCfg.Sync.RetryMaxBackoff),
			LivePollInterval:      time.Duration(jsonCfg.Sync.LivePollInterval),
			AllowCostlyNetwork:    jsonCfg.Sync.AllowCostlyNetwork,
			StatusQueueSize:       jsonCfg.Sync.StatusQueueSize,
			StatusPersistInterval: time.Duration(jsonCfg.Sync.StatusPersistInterval),
		},
		Log:     Log{FilePath: jsonCfg.Log.FilePath},
		Servers: jsonCfg.Servers,
	}

	return cfg, nil
}

// Duration wraps time.Duration to accept "1h", "30s" or nanoseconds in JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	case nil:
		*d = 0
		return nil
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
