// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	ErrServerNotFound    = errors.New("sync server not found")
	ErrInvalidServerData = errors.New("invalid sync server data")
)
