// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helpers used across the
// application: context keys, id generation, diagnostic truncation, HTTP
// response writing and HTTP client initialization.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
type contextKey string

// String returns the string representation of the context key.
func (c contextKey) String() string {
	return string(c)
}

// ServerIDCtxKey is the key used to store the id of the sync server a
// request or session operates on.
var ServerIDCtxKey = contextKey("serverID")

// WithServerID returns a copy of ctx carrying serverID.
func WithServerID(ctx context.Context, serverID string) context.Context {
	return context.WithValue(ctx, ServerIDCtxKey, serverID)
}

// GetServerIDFromContext retrieves the server id stored by WithServerID.
func GetServerIDFromContext(ctx context.Context) (string, bool) {
	serverID, ok := ctx.Value(ServerIDCtxKey).(string)
	return serverID, ok && serverID != ""
}
