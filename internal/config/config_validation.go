// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

// validate checks the merged [StructuredConfig]. Only values that cannot be
// fixed by defaults are rejected here.
func (cfg *StructuredConfig) validate() error {
	if cfg.Sync.BatchSize < 0 || cfg.Sync.BatchesLimit < 0 || cfg.Sync.StatusQueueSize < 0 {
		return fmt.Errorf("%w: negative sizes are not allowed", ErrInvalidSyncConfigs)
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, ":memory:") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.RequestTimeout < 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	s := cfg.Sync
	if s.BatchSize <= 0 || s.BatchesLimit <= 0 || s.StatusQueueSize <= 0 {
		return ErrInvalidSyncConfigs
	}
	if s.GracePeriod < 0 || s.LivePollInterval <= 0 || s.StatusPersistInterval <= 0 {
		return ErrInvalidSyncConfigs
	}
	if s.RetryInitialBackoff <= 0 || s.RetryMaxBackoff < s.RetryInitialBackoff {
		return ErrInvalidSyncConfigs
	}

	seen := make(map[string]struct{}, len(cfg.Servers))
	for _, server := range cfg.Servers {
		if server.ID == "" || server.URI == "" {
			return fmt.Errorf("%w: server %q needs an id and a uri", ErrInvalidRemoteServers, server.Name)
		}
		if _, ok := seen[server.ID]; ok {
			return fmt.Errorf("%w: duplicated server id %q", ErrInvalidRemoteServers, server.ID)
		}
		seen[server.ID] = struct{}{}
	}

	return nil
}
