// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"
)

func TestContextKeyString(t *testing.T) {
	key := contextKey("testKey")
	if key.String() != "testKey" {
		t.Errorf("expected 'testKey', got '%s'", key.String())
	}
}

func TestServerIDCtxKey(t *testing.T) {
	if ServerIDCtxKey.String() != "serverID" {
		t.Errorf("expected 'serverID', got '%s'", ServerIDCtxKey.String())
	}
}

func TestGetServerIDFromContext_Success(t *testing.T) {
	ctx := WithServerID(context.Background(), "srv-1")

	serverID, ok := GetServerIDFromContext(ctx)

	if !ok {
		t.Fatal("expected ok=true, got false")
	}
	if serverID != "srv-1" {
		t.Errorf("expected serverID=srv-1, got %s", serverID)
	}
}

func TestGetServerIDFromContext_Missing(t *testing.T) {
	serverID, ok := GetServerIDFromContext(context.Background())

	if ok {
		t.Fatal("expected ok=false, got true")
	}
	if serverID != "" {
		t.Errorf("expected empty serverID, got %s", serverID)
	}
}

func TestGetServerIDFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), ServerIDCtxKey, 42)

	if _, ok := GetServerIDFromContext(ctx); ok {
		t.Fatal("expected ok=false for non-string value")
	}
}

func TestGetServerIDFromContext_Empty(t *testing.T) {
	ctx := WithServerID(context.Background(), "")

	if _, ok := GetServerIDFromContext(ctx); ok {
		t.Fatal("expected ok=false for empty value")
	}
}

func TestGetServerIDFromContext_DifferentKey(t *testing.T) {
	ctx := context.WithValue(context.Background(), contextKey("other"), "srv-1")

	if _, ok := GetServerIDFromContext(ctx); ok {
		t.Fatal("expected ok=false for a different key")
	}
}
