// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-inventory-sync/internal/adapter"
	"github.com/MKhiriev/go-inventory-sync/internal/app"
	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/internal/store"
	"github.com/MKhiriev/go-inventory-sync/internal/utils"
	"github.com/MKhiriev/go-inventory-sync/internal/validators"
	"github.com/MKhiriev/go-inventory-sync/models"
)

type connector struct {
	local     store.LocalDatabase
	remotes   RemoteFactory
	validator validators.Validator
	logger    *logger.Logger
}

// NewConnector builds the remote connector. remotes opens a handle without
// any network round trip; validator checks configuration documents.
func NewConnector(local store.LocalDatabase, remotes RemoteFactory, validator validators.Validator, logger *logger.Logger) Connector {
	return &connector{
		local:     local,
		remotes:   remotes,
		validator: validator,
		logger:    logger.WithComponent("connector"),
	}
}

// Connect logs in, probes read access and, while the device holds no valid
// configuration document, checks that the remote is an inventory database.
// Cancellation is returned as the bare context error; every other failure is
// a *SyncError.
func (c *connector) Connect(ctx context.Context, server models.ServerConfig) (adapter.RemoteDatabase, error) {
	log := c.logger.WithServer(server.ID, server.Name)

	if server.URI == "" {
		return nil, newSyncError(KindConfig, app.MsgServerURIMissing, nil)
	}

	remote, err := c.remotes(server)
	if err != nil {
		return nil, c.fail(ctx, log, server, err)
	}

	log.Info().Str("uri", remote.Name()).Msg("logging in")
	if err = remote.LogIn(ctx); err != nil {
		return nil, c.fail(ctx, log, server, err)
	}

	if _, err = remote.AllDocs(ctx, 1); err != nil {
		return nil, c.fail(ctx, log, server, err)
	}
	log.Info().Msgf("Connect to server %q success.", server.Name)

	if c.hasLocalConfig(ctx, log) {
		return remote, nil
	}

	if err = c.checkRemoteConfig(ctx, log, remote); err != nil {
		return nil, c.fail(ctx, log, server, err)
	}
	return remote, nil
}

func (c *connector) hasLocalConfig(ctx context.Context, log *logger.Logger) bool {
	doc, err := c.local.Get(ctx, models.ConfigDocumentID)
	if err != nil {
		if !errors.Is(err, store.ErrDocumentNotFound) {
			log.Warn().Err(err).Msg("cannot read local config")
		}
		return false
	}
	if err = c.validator.Validate(ctx, doc); err != nil {
		log.Warn().Err(err).Msg("local config is invalid")
		return false
	}
	return true
}

// checkRemoteConfig treats a missing or invalid remote configuration
// document as a config error. Transport failures keep their own class.
func (c *connector) checkRemoteConfig(ctx context.Context, log *logger.Logger, remote adapter.RemoteDatabase) error {
	doc, err := remote.Get(ctx, models.ConfigDocumentID)
	if err != nil {
		if errors.Is(err, adapter.ErrNotFound) {
			log.Error().Err(err).Msg("Database config invalid.")
			return newSyncError(KindConfig, app.MsgInvalidRemoteConfig, err)
		}
		return err
	}

	if err = c.validator.Validate(ctx, doc); err != nil {
		log.Error().Err(err).Msg("Database config invalid.")
		return newSyncError(KindConfig, app.MsgInvalidRemoteConfig, err)
	}
	return nil
}

func (c *connector) fail(ctx context.Context, log *logger.Logger, server models.ServerConfig, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	syncErr := classifyError(err)
	log.Error().
		Err(err).
		Str("kind", string(syncErr.Kind)).
		Str("details", utils.Truncate(err.Error(), utils.DiagnosticPayloadLimit)).
		Msgf("Connect to server %q failed.", server.Name)
	return syncErr
}
