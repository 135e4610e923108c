// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package replication

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-inventory-sync/models"
)

// Direction of a replication leg.
type Direction string

const (
	Push Direction = "push"
	Pull Direction = "pull"
)

// EventKind enumerates the events a replication emits.
type EventKind int

const (
	// EventChange is emitted after every written batch.
	EventChange EventKind = iota + 1
	// EventComplete is emitted once by one-shot replications after both
	// directions ended.
	EventComplete
	// EventError reports a replication level failure. With auto-retry the
	// replication keeps going after it.
	EventError
	// EventPaused is emitted when a direction has caught up (live) or is
	// waiting to retry.
	EventPaused
	// EventActive is emitted when a paused direction resumes.
	EventActive
	// EventDenied is emitted for every document the target refused to store.
	EventDenied
)

func (k EventKind) String() string {
	switch k {
	case EventChange:
		return "change"
	case EventComplete:
		return "complete"
	case EventError:
		return "error"
	case EventPaused:
		return "paused"
	case EventActive:
		return "active"
	case EventDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Event is one message on a replication's event channel. Which of the
// optional fields is set depends on Kind.
type Event struct {
	Kind      EventKind
	Direction Direction

	Change   *ChangeInfo
	Complete *CompleteInfo
	Denied   *models.DocumentResult
	Err      error
}

// ChangeInfo describes one written batch.
type ChangeInfo struct {
	Direction   Direction
	LastSeq     models.Seq
	DocsRead    int
	DocsWritten int
	Errors      []models.DocumentResult
	Pending     int64
}

// Result is the outcome of one direction.
type Result struct {
	OK          bool
	LastSeq     models.Seq
	DocsRead    int
	DocsWritten int
	Errors      []models.DocumentResult
	Err         error
}

// CompleteInfo carries both direction results of a finished replication.
type CompleteInfo struct {
	Push Result
	Pull Result
}

// Succeeded reports whether both directions finished without replication or
// document errors.
func (c CompleteInfo) Succeeded() bool {
	return c.Push.OK && c.Pull.OK && len(c.Push.Errors) == 0 && len(c.Pull.Errors) == 0
}

// Cause returns the error that ended the replication. A direction that was
// only cancelled because its sibling failed does not hide the sibling error.
func (c CompleteInfo) Cause() error {
	var cancelled error
	for _, r := range []Result{c.Push, c.Pull} {
		switch {
		case r.Err == nil:
		case errors.Is(r.Err, context.Canceled):
			if cancelled == nil {
				cancelled = r.Err
			}
		default:
			return r.Err
		}
	}
	return cancelled
}
