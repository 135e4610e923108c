// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the sync daemon runtime.
//
// It wires the local storages, the sync services and the status API into a
// single process lifecycle: the registry is loaded, persisted statuses are
// restored and the background workers run until the process is signalled.
package client
