// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the local status API.
//
// The server is a [workers.Worker]: Run serves until its context is done and
// then shuts the listener down gracefully, waiting for in-flight requests up
// to a fixed timeout.
package server
