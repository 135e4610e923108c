// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-inventory-sync/internal/adapter"
	"github.com/MKhiriev/go-inventory-sync/internal/app"
	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/internal/mock"
	"github.com/MKhiriev/go-inventory-sync/internal/store"
	"github.com/MKhiriev/go-inventory-sync/internal/validators"
	"github.com/MKhiriev/go-inventory-sync/models"
)

// stubValidator accepts documents whose "valid" field is true.
type stubValidator struct{}

func (stubValidator) Validate(_ context.Context, v any, _ ...string) error {
	doc, ok := v.(models.Document)
	if !ok {
		return validators.ErrUnsupportedType
	}
	if !bytes.Contains(doc.Body, []byte(`"valid":true`)) {
		return fmt.Errorf("%w: not an inventory config", validators.ErrInvalidConfig)
	}
	return nil
}

var (
	validConfigDoc   = models.Document{ID: models.ConfigDocumentID, Rev: "1-a", Body: json.RawMessage(`{"valid":true}`)}
	invalidConfigDoc = models.Document{ID: models.ConfigDocumentID, Rev: "1-a", Body: json.RawMessage(`{"valid":false}`)}
	testServer       = models.ServerConfig{ID: "s1", Name: "Main", URI: "http://couch:5984/inventory", Username: "u", Password: "p", Enabled: true}
)

func newTestConnector(t *testing.T) (*connector, *mock.MockLocalDatabase, *mock.MockRemoteDatabase) {
	t.Helper()
	ctrl := gomock.NewController(t)

	local := mock.NewMockLocalDatabase(ctrl)
	remote := mock.NewMockRemoteDatabase(ctrl)
	remote.EXPECT().Name().Return("http://couch:5984/inventory").AnyTimes()

	remotes := func(models.ServerConfig) (adapter.RemoteDatabase, error) { return remote, nil }
	c := NewConnector(local, remotes, stubValidator{}, logger.Nop()).(*connector)
	return c, local, remote
}

// ── Connect: success ─────────────────────────────────────────────────────────

func TestConnect_WithLocalConfig_SkipsRemoteConfig(t *testing.T) {
	c, local, remote := newTestConnector(t)
	ctx := context.Background()

	gomock.InOrder(
		remote.EXPECT().LogIn(ctx).Return(nil),
		remote.EXPECT().AllDocs(ctx, 1).Return(nil, nil),
		local.EXPECT().Get(ctx, models.ConfigDocumentID).Return(validConfigDoc, nil),
	)

	got, err := c.Connect(ctx, testServer)
	require.NoError(t, err)
	assert.Equal(t, remote, got)
}

func TestConnect_NoLocalConfig_ValidRemoteConfig(t *testing.T) {
	c, local, remote := newTestConnector(t)
	ctx := context.Background()

	remote.EXPECT().LogIn(ctx).Return(nil)
	remote.EXPECT().AllDocs(ctx, 1).Return([]models.RevisionRef{{ID: "a", Rev: "1-a"}}, nil)
	local.EXPECT().Get(ctx, models.ConfigDocumentID).Return(models.Document{}, store.ErrDocumentNotFound)
	remote.EXPECT().Get(ctx, models.ConfigDocumentID).Return(validConfigDoc, nil)

	got, err := c.Connect(ctx, testServer)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestConnect_InvalidLocalConfig_ChecksRemote(t *testing.T) {
	c, local, remote := newTestConnector(t)
	ctx := context.Background()

	remote.EXPECT().LogIn(ctx).Return(nil)
	remote.EXPECT().AllDocs(ctx, 1).Return(nil, nil)
	local.EXPECT().Get(ctx, models.ConfigDocumentID).Return(invalidConfigDoc, nil)
	remote.EXPECT().Get(ctx, models.ConfigDocumentID).Return(validConfigDoc, nil)

	_, err := c.Connect(ctx, testServer)
	require.NoError(t, err)
}

// ── Connect: failures ────────────────────────────────────────────────────────

func TestConnect_LoginUnauthorized_IsAuthError(t *testing.T) {
	c, _, remote := newTestConnector(t)
	ctx := context.Background()

	remote.EXPECT().LogIn(ctx).Return(fmt.Errorf("login: %w: Name or password is incorrect.", adapter.ErrUnauthorized))

	_, err := c.Connect(ctx, testServer)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, models.StatusAuthError, statusForKind(syncErr.Kind))
	assert.Contains(t, syncErr.Message, "Name or password is incorrect.")
}

func TestConnect_ProbeForbidden_IsAuthError(t *testing.T) {
	c, _, remote := newTestConnector(t)
	ctx := context.Background()

	remote.EXPECT().LogIn(ctx).Return(nil)
	remote.EXPECT().AllDocs(ctx, 1).Return(nil, fmt.Errorf("all docs: %w: You are not allowed to access this db.", adapter.ErrForbidden))

	_, err := c.Connect(ctx, testServer)
	assert.ErrorIs(t, err, ErrAuth)
}

func TestConnect_Timeout_IsNetworkError(t *testing.T) {
	c, _, remote := newTestConnector(t)
	ctx := context.Background()

	remote.EXPECT().LogIn(ctx).Return(fmt.Errorf("login request: %w: %w", adapter.ErrTimeout, context.DeadlineExceeded))

	_, err := c.Connect(ctx, testServer)
	require.ErrorIs(t, err, ErrNetwork)

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, app.MsgNetworkTimeout, syncErr.Message)
	assert.Equal(t, models.StatusOffline, statusForKind(syncErr.Kind))
}

func TestConnect_RemoteConfigMissing_IsConfigError(t *testing.T) {
	c, local, remote := newTestConnector(t)
	ctx := context.Background()

	remote.EXPECT().LogIn(ctx).Return(nil)
	remote.EXPECT().AllDocs(ctx, 1).Return(nil, nil)
	local.EXPECT().Get(ctx, models.ConfigDocumentID).Return(models.Document{}, store.ErrDocumentNotFound)
	remote.EXPECT().Get(ctx, models.ConfigDocumentID).Return(models.Document{}, fmt.Errorf("get: %w: missing", adapter.ErrNotFound))

	_, err := c.Connect(ctx, testServer)
	require.ErrorIs(t, err, ErrConfig)

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, app.MsgInvalidRemoteConfig, syncErr.Message)
}

func TestConnect_RemoteConfigInvalid_IsConfigError(t *testing.T) {
	c, local, remote := newTestConnector(t)
	ctx := context.Background()

	remote.EXPECT().LogIn(ctx).Return(nil)
	remote.EXPECT().AllDocs(ctx, 1).Return(nil, nil)
	local.EXPECT().Get(ctx, models.ConfigDocumentID).Return(models.Document{}, store.ErrDocumentNotFound)
	remote.EXPECT().Get(ctx, models.ConfigDocumentID).Return(invalidConfigDoc, nil)

	_, err := c.Connect(ctx, testServer)
	require.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, validators.ErrInvalidConfig)
}

func TestConnect_RemoteConfigTransportFailure_IsNetworkError(t *testing.T) {
	c, local, remote := newTestConnector(t)
	ctx := context.Background()

	remote.EXPECT().LogIn(ctx).Return(nil)
	remote.EXPECT().AllDocs(ctx, 1).Return(nil, nil)
	local.EXPECT().Get(ctx, models.ConfigDocumentID).Return(models.Document{}, errors.New("disk I/O error"))
	remote.EXPECT().Get(ctx, models.ConfigDocumentID).Return(models.Document{}, fmt.Errorf("get request: %w: connection reset", adapter.ErrTransport))

	_, err := c.Connect(ctx, testServer)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestConnect_EmptyURI(t *testing.T) {
	c, _, _ := newTestConnector(t)

	server := testServer
	server.URI = ""
	_, err := c.Connect(context.Background(), server)

	require.ErrorIs(t, err, ErrConfig)
	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, app.MsgServerURIMissing, syncErr.Message)
}

func TestConnect_FactoryError(t *testing.T) {
	remotes := func(models.ServerConfig) (adapter.RemoteDatabase, error) {
		return nil, fmt.Errorf("%w: unsupported scheme \"ftp\"", adapter.ErrInvalidServerURI)
	}
	c := NewConnector(nil, remotes, stubValidator{}, logger.Nop())

	_, err := c.Connect(context.Background(), testServer)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestConnect_CancelledContext_ReturnsContextError(t *testing.T) {
	c, _, remote := newTestConnector(t)
	ctx, cancel := context.WithCancel(context.Background())

	remote.EXPECT().LogIn(gomock.Any()).DoAndReturn(func(context.Context) error {
		cancel()
		return fmt.Errorf("login request: %w", context.Canceled)
	})

	_, err := c.Connect(ctx, testServer)
	assert.ErrorIs(t, err, context.Canceled)

	var syncErr *SyncError
	assert.False(t, errors.As(err, &syncErr))
}
