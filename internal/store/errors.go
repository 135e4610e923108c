// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods. Match with [errors.Is].
var (
	// ErrDocumentNotFound is returned when a document does not exist or is
	// deleted.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDocumentConflict is returned when an application write does not
	// name the current revision of the document.
	ErrDocumentConflict = errors.New("document update conflict")

	// ErrServerNotFound is returned when a registry operation targets an
	// unknown server id.
	ErrServerNotFound = errors.New("sync server not found")

	// ErrServerAlreadyExists is returned when a server id is already taken.
	ErrServerAlreadyExists = errors.New("sync server already exists")
)

// Low-level database operation errors, wrapped by repository methods when a
// SQL operation fails before any domain logic can be applied.
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	ErrScanningRow          = errors.New("failed to scan row")
)
