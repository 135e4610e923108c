// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-inventory-sync/internal/adapter"
	"github.com/MKhiriev/go-inventory-sync/internal/app"
	"github.com/MKhiriev/go-inventory-sync/internal/validators"
	"github.com/MKhiriev/go-inventory-sync/models"
)

// ── classifyError ────────────────────────────────────────────────────────────

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    ErrorKind
		message string
	}{
		{
			name: "unauthorized",
			err:  fmt.Errorf("login: %w: unauthorized: Name or password is incorrect.", adapter.ErrUnauthorized),
			kind: KindAuth,
		},
		{
			name: "forbidden",
			err:  fmt.Errorf("all docs: %w: forbidden", adapter.ErrForbidden),
			kind: KindAuth,
		},
		{
			name:    "timeout",
			err:     fmt.Errorf("info request: %w: %w", adapter.ErrTimeout, errors.New("i/o timeout")),
			kind:    KindNetwork,
			message: app.MsgNetworkTimeout,
		},
		{
			name: "transport",
			err:  fmt.Errorf("info request: %w: %w", adapter.ErrTransport, errors.New("connection refused")),
			kind: KindNetwork,
		},
		{
			name: "invalid config",
			err:  fmt.Errorf("%w: uuid: incomplete value", validators.ErrInvalidConfig),
			kind: KindConfig,
		},
		{
			name: "invalid uri",
			err:  fmt.Errorf("%w: missing host", adapter.ErrInvalidServerURI),
			kind: KindConfig,
		},
		{
			name: "anything else",
			err:  fmt.Errorf("%w: http 418: teapot", adapter.ErrUnexpectedStatus),
			kind: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.kind, got.Kind)
			assert.ErrorIs(t, got, tt.err)
			if tt.message != "" {
				assert.Equal(t, tt.message, got.Message)
			} else {
				assert.Equal(t, tt.err.Error(), got.Message)
			}
		})
	}
}

func TestClassifyError_Nil(t *testing.T) {
	assert.Nil(t, classifyError(nil))
}

func TestClassifyError_KeepsClassifiedError(t *testing.T) {
	original := newSyncError(KindConfig, "bad config", nil)
	wrapped := fmt.Errorf("connect: %w", original)

	assert.Same(t, original, classifyError(wrapped))
}

func TestClassifyError_TruncatesMessage(t *testing.T) {
	long := strings.Repeat("x", 4096)
	got := classifyError(errors.New(long))

	assert.Less(t, len(got.Message), len(long))
	assert.True(t, strings.HasSuffix(got.Message, "...(truncated)"))
}

// ── SyncError ────────────────────────────────────────────────────────────────

func TestSyncError_IsMatchesKindSentinel(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", newSyncError(KindAuth, "denied", adapter.ErrUnauthorized))

	assert.ErrorIs(t, err, ErrAuth)
	assert.ErrorIs(t, err, adapter.ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrNetwork)
	assert.Equal(t, "wrapped: auth: denied", err.Error())
}

// ── status mapping ───────────────────────────────────────────────────────────

func TestStatusForKind(t *testing.T) {
	assert.Equal(t, models.StatusAuthError, statusForKind(KindAuth))
	assert.Equal(t, models.StatusConfigError, statusForKind(KindConfig))
	assert.Equal(t, models.StatusOffline, statusForKind(KindNetwork))
	assert.Equal(t, models.StatusError, statusForKind(KindUnknown))
	assert.Equal(t, models.StatusError, statusForKind(KindDocument))
}

func TestReplicationStatusForKind_NetworkIsError(t *testing.T) {
	assert.Equal(t, models.StatusError, replicationStatusForKind(KindNetwork))
	assert.Equal(t, models.StatusAuthError, replicationStatusForKind(KindAuth))
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, isRetryable(adapter.ErrUnauthorized))
	assert.False(t, isRetryable(validators.ErrInvalidConfig))
	assert.True(t, isRetryable(adapter.ErrTransport))
	assert.True(t, isRetryable(adapter.ErrTimeout))
	assert.True(t, isRetryable(errors.New("boom")))
}
