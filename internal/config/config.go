// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"

	"github.com/MKhiriev/go-inventory-sync/models"
)

// StructuredConfig is the top-level configuration container. It is
// populated by merging the JSON file, environment variables and flags.
//
// Struct tags:
//   - envPrefix: prefix applied to nested env lookups (caarlos0/env).
//   - env: environment variable name for scalar fields.
type StructuredConfig struct {
	App     App     `envPrefix:"APP_"`
	Storage Storage `envPrefix:"STORAGE_"`
	Server  Server  `envPrefix:"SERVER_"`
	Adapter Adapter `envPrefix:"ADAPTER_"`
	Sync    Sync    `envPrefix:"SYNC_"`
	Log     Log     `envPrefix:"LOG_"`

	// Servers seeds the server registry when it is empty. JSON only.
	Servers []models.ServerConfig

	// JSONFilePath is the optional path to a JSON configuration file.
	// Env: CONFIG, flags: -c / -config.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level values.
type App struct {
	// Version is exposed via /api/version.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the local persistence settings.
type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// DB holds the local SQLite settings.
type DB struct {
	// DSN is the SQLite database file path.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// Name identifies the local database in replication checkpoints.
	// Env: STORAGE_DB_NAME
	Name string `env:"NAME"`
}

// Server holds the status API listener settings.
type Server struct {
	// HTTPAddress in "host:port" form.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds the remote database transport settings.
type Adapter struct {
	// RequestTimeout bounds a single outbound request to a remote server.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Sync holds replication and orchestration tuning.
type Sync struct {
	// Disabled turns the master sync switch off on first start. Once the
	// switch has been persisted this value is ignored.
	// Env: SYNC_DISABLED
	Disabled bool `env:"DISABLED"`

	// Env: SYNC_BATCH_SIZE
	BatchSize int `env:"BATCH_SIZE"`
	// Env: SYNC_BATCHES_LIMIT
	BatchesLimit int `env:"BATCHES_LIMIT"`

	// GracePeriod is how long sessions survive after the host app goes to
	// the background.
	// Env: SYNC_GRACE_PERIOD
	GracePeriod time.Duration `env:"GRACE_PERIOD"`

	// Env: SYNC_RETRY_INITIAL_BACKOFF
	RetryInitialBackoff time.Duration `env:"RETRY_INITIAL_BACKOFF"`
	// Env: SYNC_RETRY_MAX_BACKOFF
	RetryMaxBackoff time.Duration `env:"RETRY_MAX_BACKOFF"`
	// Env: SYNC_LIVE_POLL_INTERVAL
	LivePollInterval time.Duration `env:"LIVE_POLL_INTERVAL"`

	// AllowCostlyNetwork lets sync run over metered connections. Nil means
	// allowed.
	// Env: SYNC_ALLOW_COSTLY_NETWORK
	AllowCostlyNetwork *bool `env:"ALLOW_COSTLY_NETWORK"`

	// StatusQueueSize bounds the status update queue.
	// Env: SYNC_STATUS_QUEUE_SIZE
	StatusQueueSize int `env:"STATUS_QUEUE_SIZE"`

	// StatusPersistInterval is how often status counters are written to the
	// local database.
	// Env: SYNC_STATUS_PERSIST_INTERVAL
	StatusPersistInterval time.Duration `env:"STATUS_PERSIST_INTERVAL"`
}

// Log holds logging output settings.
type Log struct {
	// FilePath, when set, sends logs to a file instead of stdout.
	// Env: LOG_FILE
	FilePath string `env:"FILE"`
}

// GetStructuredConfig loads and merges the configuration from the JSON file,
// the environment and the process command line.
func GetStructuredConfig() (*StructuredConfig, error) {
	return loadStructuredConfig(os.Args[1:])
}

func loadStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
