// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-inventory-sync/internal/config"
	myHTTP "github.com/MKhiriev/go-inventory-sync/internal/handler/http"
	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/internal/server"
	"github.com/MKhiriev/go-inventory-sync/internal/service"
	"github.com/MKhiriev/go-inventory-sync/internal/store"
	"github.com/MKhiriev/go-inventory-sync/internal/workers"
	"github.com/MKhiriev/go-inventory-sync/models"
)

type App struct {
	storages *store.ClientStorages
	services *service.ClientServices
	server   server.Server

	logger *logger.Logger
}

// NewApp opens the local database and wires every component. The returned
// App owns the database and closes it when Run returns.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	services := service.NewClientServices(storages, cfg, logger)
	handler := myHTTP.NewHandler(services, buildInfo, logger)

	srv, err := server.NewServer(handler.Init(), cfg.Server, logger)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create server: %w", err)
	}

	return &App{
		storages: storages,
		services: services,
		server:   srv,
		logger:   logger,
	}, nil
}

// Run loads the server registry, restores persisted statuses and runs the
// background workers until ctx is done or a stop signal arrives.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	ctx, stop := signal.NotifyContext(ctx,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	if err := a.services.Registry.Load(ctx); err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	if err := a.services.Statuses.Restore(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("cannot restore statuses, starting fresh")
	}

	err := workers.NewWorkers(a.logger).
		Add("status_reporter", a.services.Statuses).
		Add("orchestrator", a.services.Orchestrator).
		Add("status_persister", a.services.StatusPersister).
		Add("http_server", a.server).
		Run(ctx)
	if err != nil {
		return err
	}

	a.logger.Info().Msg("sync daemon stopped gracefully")
	return nil
}

// Addr returns the address of the status API.
func (a *App) Addr() string {
	return a.server.Addr()
}

func (a *App) close() {
	if err := a.storages.Close(); err != nil {
		a.logger.Err(err).Msg("error closing local database")
	}
}
