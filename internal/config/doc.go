// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config loads, merges and validates the sync daemon configuration.
//
// Configuration is assembled from three sources. Later sources override
// earlier non-zero fields:
//  1. JSON config file (path from -c/-config or CONFIG)
//  2. Environment variables
//  3. Command-line flags
//
// [GetStructuredConfig] returns the raw merged configuration and
// [GetClientConfig] the defaulted, validated view used at runtime.
package config
