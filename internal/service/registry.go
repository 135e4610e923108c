// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/internal/store"
	"github.com/MKhiriev/go-inventory-sync/internal/utils"
	"github.com/MKhiriev/go-inventory-sync/models"
)

type registry struct {
	repo             store.RegistryRepository
	ids              *utils.UUIDGenerator
	seed             []models.ServerConfig
	enabledByDefault bool
	logger           *logger.Logger

	// mu serializes mutations so snapshots are published in order.
	mu       sync.Mutex
	snapshot *models.SyncSettings
	subs     map[chan models.SyncSettings]struct{}
}

// NewRegistry creates the server registry. seed is written once into an
// empty registry; enabledByDefault is the master switch until the user
// changes it.
func NewRegistry(repo store.RegistryRepository, seed []models.ServerConfig, enabledByDefault bool, logger *logger.Logger) Registry {
	return &registry{
		repo:             repo,
		ids:              utils.NewUUIDGenerator(),
		seed:             seed,
		enabledByDefault: enabledByDefault,
		logger:           logger.WithComponent("registry"),
		subs:             make(map[chan models.SyncSettings]struct{}),
	}
}

func (r *registry) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found, err := r.repo.GetSyncEnabled(ctx); err != nil {
		return fmt.Errorf("error reading sync switch: %w", err)
	} else if !found {
		if err = r.repo.SetSyncEnabled(ctx, r.enabledByDefault); err != nil {
			return fmt.Errorf("error writing sync switch: %w", err)
		}
	}

	servers, err := r.repo.ListServers(ctx)
	if err != nil {
		return fmt.Errorf("error listing servers: %w", err)
	}
	if len(servers) == 0 && len(r.seed) > 0 {
		for _, server := range r.seed {
			if server.ID == "" {
				server.ID = r.ids.GenerateShort()
			}
			if err = validateServer(server); err != nil {
				r.logger.Warn().Err(err).Str("server_id", server.ID).Msg("skipping invalid configured server")
				continue
			}
			if err = r.repo.CreateServer(ctx, server); err != nil {
				return fmt.Errorf("error seeding server %s: %w", server.ID, err)
			}
		}
		r.logger.Info().Int("servers", len(r.seed)).Msg("registry seeded from configuration")
	}

	return r.publishLocked(ctx)
}

func (r *registry) Subscribe() (<-chan models.SyncSettings, func()) {
	ch := make(chan models.SyncSettings, 1)

	r.mu.Lock()
	r.subs[ch] = struct{}{}
	if r.snapshot != nil {
		ch <- *r.snapshot
	}
	r.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, ch)
			close(ch)
			r.mu.Unlock()
		})
	}
}

func (r *registry) Settings(ctx context.Context) (models.SyncSettings, error) {
	enabled, found, err := r.repo.GetSyncEnabled(ctx)
	if err != nil {
		return models.SyncSettings{}, fmt.Errorf("error reading sync switch: %w", err)
	}
	if !found {
		enabled = r.enabledByDefault
	}

	servers, err := r.repo.ListServers(ctx)
	if err != nil {
		return models.SyncSettings{}, fmt.Errorf("error listing servers: %w", err)
	}
	return models.SyncSettings{Enabled: enabled, Servers: servers}, nil
}

func (r *registry) GetServer(ctx context.Context, id string) (models.ServerConfig, error) {
	server, err := r.repo.GetServer(ctx, id)
	if err != nil {
		return models.ServerConfig{}, mapStoreError(err)
	}
	return server, nil
}

func (r *registry) CreateServer(ctx context.Context, server models.ServerConfig) (models.ServerConfig, error) {
	server.ID = r.ids.GenerateShort()
	server.Name = strings.TrimSpace(server.Name)
	if err := validateServer(server); err != nil {
		return models.ServerConfig{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.repo.CreateServer(ctx, server); err != nil {
		return models.ServerConfig{}, mapStoreError(err)
	}
	r.logger.Info().Any("server", server.Redacted()).Msg("server created")
	return server, r.publishLocked(ctx)
}

func (r *registry) UpdateServer(ctx context.Context, id string, update models.ServerUpdate) (models.ServerConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.repo.GetServer(ctx, id)
	if err != nil {
		return models.ServerConfig{}, mapStoreError(err)
	}

	server := update.ApplyTo(current)
	server.Name = strings.TrimSpace(server.Name)
	if err = validateServer(server); err != nil {
		return models.ServerConfig{}, err
	}
	if server == current {
		return server, nil
	}

	if err = r.repo.UpdateServer(ctx, server); err != nil {
		return models.ServerConfig{}, mapStoreError(err)
	}
	r.logger.Info().Any("server", server.Redacted()).Msg("server updated")
	return server, r.publishLocked(ctx)
}

func (r *registry) ToggleServer(ctx context.Context, id string) (models.ServerConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	server, err := r.repo.GetServer(ctx, id)
	if err != nil {
		return models.ServerConfig{}, mapStoreError(err)
	}
	server.Enabled = !server.Enabled

	if err = r.repo.UpdateServer(ctx, server); err != nil {
		return models.ServerConfig{}, mapStoreError(err)
	}
	r.logger.Info().Str("server_id", id).Bool("enabled", server.Enabled).Msg("server toggled")
	return server, r.publishLocked(ctx)
}

func (r *registry) DeleteServer(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.repo.DeleteServer(ctx, id); err != nil {
		return mapStoreError(err)
	}
	r.logger.Info().Str("server_id", id).Msg("server deleted")
	return r.publishLocked(ctx)
}

func (r *registry) SetSyncEnabled(ctx context.Context, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.repo.SetSyncEnabled(ctx, enabled); err != nil {
		return fmt.Errorf("error writing sync switch: %w", err)
	}
	r.logger.Info().Bool("enabled", enabled).Msg("sync switch changed")
	return r.publishLocked(ctx)
}

// publishLocked reloads the settings and hands them to every subscriber.
// r.mu must be held.
func (r *registry) publishLocked(ctx context.Context) error {
	settings, err := r.Settings(ctx)
	if err != nil {
		return err
	}
	r.snapshot = &settings

	for ch := range r.subs {
		utils.OfferLatest(ch, settings)
	}
	return nil
}

func validateServer(server models.ServerConfig) error {
	if server.ID == "" || server.URI == "" {
		return fmt.Errorf("%w: id and uri are required", ErrInvalidServerData)
	}

	u, err := url.Parse(server.URI)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidServerData, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidServerData, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidServerData)
	}
	return nil
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrServerNotFound):
		return ErrServerNotFound
	case errors.Is(err, store.ErrServerAlreadyExists):
		return fmt.Errorf("%w: %w", ErrInvalidServerData, err)
	}
	return err
}
