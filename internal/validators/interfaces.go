// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks externally supplied data before the sync core
// relies on it.
//
// The main consumer is the remote connector: before a server whose database
// is not yet known locally is synced, its configuration document is checked
// against an embedded CUE schema so that the device never replicates with a
// database that is not an inventory database.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
