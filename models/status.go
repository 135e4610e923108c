// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ServerStatus is the externally visible state of one server's sync.
type ServerStatus string

const (
	// StatusNotEvaluated means the orchestrator has not evaluated the server
	// yet, or sync is switched off as a whole.
	StatusNotEvaluated ServerStatus = "-"
	StatusDisabled     ServerStatus = "Disabled"
	StatusInitializing ServerStatus = "Initializing"
	StatusSyncing      ServerStatus = "Syncing"
	StatusOnline       ServerStatus = "Online"
	StatusOffline      ServerStatus = "Offline"
	StatusError        ServerStatus = "Error"
	StatusAuthError    ServerStatus = "Auth Error"
	StatusConfigError  ServerStatus = "Config Error"
)

// IsError reports whether the status is one of the error flavours.
func (s ServerStatus) IsError() bool {
	return s == StatusError || s == StatusAuthError || s == StatusConfigError
}

// SyncStatus is the published status record of one server.
type SyncStatus struct {
	Status           ServerStatus `json:"status"`
	LastErrorMessage string       `json:"last_error_message,omitempty"`
	LastSyncedAt     *time.Time   `json:"last_synced_at,omitempty"`
	LocalSeq         *int64       `json:"local_seq,omitempty"`
	RemoteSeq        *int64       `json:"remote_seq,omitempty"`
	PushLastSeq      *int64       `json:"push_last_seq,omitempty"`
	PullLastSeq      *int64       `json:"pull_last_seq,omitempty"`
}

// StatusUpdate is a partial status change for one server. Only non-nil
// fields are merged into the stored [SyncStatus].
//
// Generation identifies the session (or orchestrator decision) that produced
// the update; the status reporter drops updates from superseded generations.
type StatusUpdate struct {
	ServerID   string
	Generation uint64

	Status           *ServerStatus
	LastErrorMessage *string
	LastSyncedAt     *time.Time
	LocalSeq         *int64
	RemoteSeq        *int64
	PushLastSeq      *int64
	PullLastSeq      *int64
}

// NewStatusUpdate starts an update for serverID stamped with generation.
func NewStatusUpdate(serverID string, generation uint64) StatusUpdate {
	return StatusUpdate{ServerID: serverID, Generation: generation}
}

func (u StatusUpdate) WithStatus(status ServerStatus) StatusUpdate {
	u.Status = &status
	return u
}

func (u StatusUpdate) WithErrorMessage(message string) StatusUpdate {
	u.LastErrorMessage = &message
	return u
}

func (u StatusUpdate) WithLastSyncedAt(at time.Time) StatusUpdate {
	u.LastSyncedAt = &at
	return u
}

func (u StatusUpdate) WithLocalSeq(seq int64) StatusUpdate {
	u.LocalSeq = &seq
	return u
}

func (u StatusUpdate) WithRemoteSeq(seq int64) StatusUpdate {
	u.RemoteSeq = &seq
	return u
}

func (u StatusUpdate) WithPushLastSeq(seq int64) StatusUpdate {
	u.PushLastSeq = &seq
	return u
}

func (u StatusUpdate) WithPullLastSeq(seq int64) StatusUpdate {
	u.PullLastSeq = &seq
	return u
}

// IsEmpty reports whether the update carries no field at all.
func (u StatusUpdate) IsEmpty() bool {
	return u.Status == nil && u.LastErrorMessage == nil && u.LastSyncedAt == nil &&
		u.LocalSeq == nil && u.RemoteSeq == nil && u.PushLastSeq == nil && u.PullLastSeq == nil
}

// ApplyTo merges the update into status and returns the new record. The
// input record is never modified.
func (u StatusUpdate) ApplyTo(status SyncStatus) SyncStatus {
	if u.Status != nil {
		status.Status = *u.Status
	}
	if u.LastErrorMessage != nil {
		status.LastErrorMessage = *u.LastErrorMessage
	}
	if u.LastSyncedAt != nil {
		at := *u.LastSyncedAt
		status.LastSyncedAt = &at
	}
	status.LocalSeq = mergeSeq(status.LocalSeq, u.LocalSeq)
	status.RemoteSeq = mergeSeq(status.RemoteSeq, u.RemoteSeq)
	status.PushLastSeq = mergeSeq(status.PushLastSeq, u.PushLastSeq)
	status.PullLastSeq = mergeSeq(status.PullLastSeq, u.PullLastSeq)
	return status
}

func mergeSeq(current, update *int64) *int64 {
	if update == nil {
		return current
	}
	v := *update
	return &v
}

// OverallStatus summarizes every server status into one value.
type OverallStatus string

const (
	OverallNotConfigured OverallStatus = "Not Configured"
	OverallDisabled      OverallStatus = "Disabled"
	OverallAllDisabled   OverallStatus = "All Disabled"
	OverallInitializing  OverallStatus = "Initializing"
	OverallSyncing       OverallStatus = "Syncing"
	OverallError         OverallStatus = "Error"
	OverallOnline        OverallStatus = "Online"
	OverallOffline       OverallStatus = "Offline"
	OverallUnknown       OverallStatus = "-"
)
