// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// NetworkState is one observation published by the network monitor.
type NetworkState struct {
	// Connected is authoritative: false suspends every sync session.
	Connected bool `json:"connected"`

	// Type is the connection type reported by the platform (wifi, cellular,
	// vpn, ...). A change of type while connected restarts sync.
	Type string `json:"type"`

	// Costly marks metered connections.
	Costly bool `json:"costly"`
}
