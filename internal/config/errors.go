// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [ClientConfig.validate].
var (
	// ErrInvalidAdapterConfigs indicates a negative remote request timeout.
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates an empty or in-memory DSN.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates a missing status API address.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidSyncConfigs indicates inconsistent replication tuning.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidRemoteServers indicates a seeded remote server without an
	// id or uri, or a duplicated id.
	ErrInvalidRemoteServers = errors.New("invalid remote servers configuration")
)
