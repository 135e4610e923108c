// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "sort"

const redactedPassword = "********"

// ServerConfig describes one remote document database the device replicates
// with. It is owned by the server registry and handed to the sync
// orchestrator as an immutable snapshot on every evaluation cycle.
type ServerConfig struct {
	// ID is the registry-assigned identifier of the server.
	ID string `json:"id"`

	// Name is a human readable label shown next to the server status.
	Name string `json:"name"`

	// URI is the full database URI, e.g. "https://couch.example.com/inventory".
	URI string `json:"uri"`

	// Username and Password are the credentials used for the remote session.
	Username string `json:"username"`
	Password string `json:"password"`

	// Enabled reports whether this particular server takes part in sync.
	Enabled bool `json:"enabled"`
}

// Redacted returns a copy of the config that is safe to log or publish.
func (s ServerConfig) Redacted() ServerConfig {
	if s.Password != "" {
		s.Password = redactedPassword
	}
	return s
}

// ServerUpdate is a partial edit of a [ServerConfig]. Nil fields are left
// untouched.
type ServerUpdate struct {
	Name     *string `json:"name,omitempty"`
	URI      *string `json:"uri,omitempty"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Enabled  *bool   `json:"enabled,omitempty"`
}

// ApplyTo merges the update into server and returns the result.
func (u ServerUpdate) ApplyTo(server ServerConfig) ServerConfig {
	if u.Name != nil {
		server.Name = *u.Name
	}
	if u.URI != nil {
		server.URI = *u.URI
	}
	if u.Username != nil {
		server.Username = *u.Username
	}
	if u.Password != nil {
		server.Password = *u.Password
	}
	if u.Enabled != nil {
		server.Enabled = *u.Enabled
	}
	return server
}

// SyncSettings is the registry snapshot consumed by the orchestrator: the
// master switch plus every configured server.
type SyncSettings struct {
	Enabled bool           `json:"enabled"`
	Servers []ServerConfig `json:"servers"`
}

// Server looks a server up by id.
func (s SyncSettings) Server(id string) (ServerConfig, bool) {
	for _, server := range s.Servers {
		if server.ID == id {
			return server, true
		}
	}
	return ServerConfig{}, false
}

// Redacted returns a copy of the settings with every password masked.
func (s SyncSettings) Redacted() SyncSettings {
	servers := make([]ServerConfig, 0, len(s.Servers))
	for _, server := range s.Servers {
		servers = append(servers, server.Redacted())
	}
	return SyncSettings{Enabled: s.Enabled, Servers: servers}
}

// SortServers orders servers by id so snapshots are deterministic.
func SortServers(servers []ServerConfig) {
	sort.Slice(servers, func(i, j int) bool {
		return servers[i].ID < servers[j].ID
	})
}
