// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the local HTTP API of the sync daemon.
//
// The API publishes the per-server and overall sync statuses, edits the
// server registry and the master sync switch, and accepts the connectivity
// and foreground/background reports of the host platform. Request tracing
// and access logging are handled here before requests reach the service
// layer. Passwords never leave the process: every server is returned
// redacted.
package http
