// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-inventory-sync/internal/adapter"
	"github.com/MKhiriev/go-inventory-sync/internal/app"
	"github.com/MKhiriev/go-inventory-sync/internal/utils"
	"github.com/MKhiriev/go-inventory-sync/internal/validators"
	"github.com/MKhiriev/go-inventory-sync/models"
)

// ErrorKind is the class of a sync failure. It decides the reported status
// and whether the failure can heal on its own.
type ErrorKind string

const (
	KindAuth     ErrorKind = "auth"
	KindConfig   ErrorKind = "config"
	KindNetwork  ErrorKind = "network"
	KindDocument ErrorKind = "document"
	KindUnknown  ErrorKind = "unknown"
)

// Kind sentinels. errors.Is(err, ErrAuth) is true for every *SyncError of
// kind auth.
var (
	ErrAuth     = errors.New("authentication error")
	ErrConfig   = errors.New("configuration error")
	ErrNetwork  = errors.New("network error")
	ErrDocument = errors.New("document error")
	ErrUnknown  = errors.New("unknown sync error")
)

// SyncError is a classified sync failure. Message is safe to show to the
// user and is already truncated.
type SyncError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func (e *SyncError) Is(target error) bool {
	return target == kindSentinel(e.Kind)
}

func newSyncError(kind ErrorKind, message string, err error) *SyncError {
	return &SyncError{
		Kind:    kind,
		Message: utils.Truncate(message, utils.DiagnosticPayloadLimit),
		Err:     err,
	}
}

func kindSentinel(kind ErrorKind) error {
	switch kind {
	case KindAuth:
		return ErrAuth
	case KindConfig:
		return ErrConfig
	case KindNetwork:
		return ErrNetwork
	case KindDocument:
		return ErrDocument
	default:
		return ErrUnknown
	}
}

// classifyError translates adapter, validator and store failures into a
// *SyncError. Errors that are already classified are returned as is.
func classifyError(err error) *SyncError {
	if err == nil {
		return nil
	}

	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr
	}

	switch {
	case errors.Is(err, adapter.ErrUnauthorized), errors.Is(err, adapter.ErrForbidden):
		return newSyncError(KindAuth, err.Error(), err)

	case errors.Is(err, adapter.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return newSyncError(KindNetwork, app.MsgNetworkTimeout, err)

	case errors.Is(err, adapter.ErrTransport):
		return newSyncError(KindNetwork, err.Error(), err)

	case errors.Is(err, validators.ErrInvalidConfig),
		errors.Is(err, validators.ErrInvalidSchema),
		errors.Is(err, adapter.ErrInvalidServerURI):
		return newSyncError(KindConfig, err.Error(), err)
	}

	return newSyncError(KindUnknown, err.Error(), err)
}

// statusForKind maps an error kind to the status a server is reported in.
func statusForKind(kind ErrorKind) models.ServerStatus {
	switch kind {
	case KindAuth:
		return models.StatusAuthError
	case KindConfig:
		return models.StatusConfigError
	case KindNetwork:
		return models.StatusOffline
	default:
		return models.StatusError
	}
}

// replicationStatusForKind is statusForKind for failures reported by a
// running replication, which always surface as an error flavour.
func replicationStatusForKind(kind ErrorKind) models.ServerStatus {
	switch kind {
	case KindAuth:
		return models.StatusAuthError
	case KindConfig:
		return models.StatusConfigError
	default:
		return models.StatusError
	}
}

// isRetryable reports whether a replication may retry after err. Auth and
// config failures need the user to act.
func isRetryable(err error) bool {
	switch classifyError(err).Kind {
	case KindAuth, KindConfig:
		return false
	default:
		return true
	}
}
