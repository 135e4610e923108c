// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// sync services and the HTTP API.
//
// All Msg* constants are human-readable message strings that end up in a
// server's last error message, in HTTP response bodies or in log entries.
// Keeping them in one place ensures consistent wording.
package app

// Messages reported as a server's last error message.
const (
	// MsgInvalidRemoteConfig is reported when a remote database has no valid
	// configuration document while the device has none yet either.
	MsgInvalidRemoteConfig = "The database does not have a valid config. Please make sure that this is an Inventory database."

	// MsgNetworkTimeout replaces the raw transport error of a timed out
	// request.
	MsgNetworkTimeout = "Network timeout"

	// MsgServerURIMissing is reported for a server saved without an URI.
	MsgServerURIMissing = "Server URI is not set"

	// MsgSyncError prefixes a replication error.
	MsgSyncError = "Error occurred while syncing"

	// MsgUnexpectedStartError prefixes a failure that happened while a
	// session was being started.
	MsgUnexpectedStartError = "Unexpected error on starting synchronization"

	// MsgStartupIncomplete is reported when the start-up sync could not
	// finish and live sync is not started.
	MsgStartupIncomplete = "Start-up sync is not complete"

	// MsgDeviceOffline and MsgNetworkUnknown explain an Offline status set
	// by the orchestrator.
	MsgDeviceOffline  = "Device is offline."
	MsgNetworkUnknown = "Network not ready (unknown status)."

	// MsgCostlyNetwork is reported when sync over metered connections is
	// turned off and the device is on one.
	MsgCostlyNetwork = "Sync over metered network is disabled."
)

// Messages written into HTTP response bodies.
const (
	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"
)
