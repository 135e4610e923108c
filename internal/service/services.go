// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-inventory-sync/internal/adapter"
	"github.com/MKhiriev/go-inventory-sync/internal/config"
	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/internal/network"
	"github.com/MKhiriev/go-inventory-sync/internal/replication"
	"github.com/MKhiriev/go-inventory-sync/internal/store"
	"github.com/MKhiriev/go-inventory-sync/internal/validators"
	"github.com/MKhiriev/go-inventory-sync/models"
)

type ClientServices struct {
	Registry        Registry
	Statuses        StatusReporter
	Orchestrator    Orchestrator
	StatusPersister *StatusPersister
	Network         *network.Broadcaster
}

func NewClientServices(storages *store.ClientStorages, cfg *config.ClientConfig, logger *logger.Logger) *ClientServices {
	remotes := func(server models.ServerConfig) (adapter.RemoteDatabase, error) {
		return adapter.NewRemoteDatabase(cfg.Adapter, server, logger.WithServer(server.ID, server.Name))
	}

	registry := NewRegistry(storages.Registry, cfg.Servers, cfg.Sync.EnabledByDefault, logger)
	statuses := NewStatusReporter(storages.Statuses, cfg.Sync.StatusQueueSize, logger)
	monitor := network.NewBroadcaster(logger.WithComponent("network"))

	connector := NewConnector(storages.Documents, remotes, validators.NewConfigDocumentValidator(), logger)
	orchestrator := NewOrchestrator(registry, monitor, statuses, SessionDeps{
		Connector:   connector,
		Local:       storages.Documents,
		Replicator:  replication.NewReplicator(logger.WithComponent("replicator")),
		Checkpoints: storages.Checkpoints,
		LocalName:   cfg.Storage.DB.Name,
	}, cfg.Sync, logger)

	return &ClientServices{
		Registry:        registry,
		Statuses:        statuses,
		Orchestrator:    orchestrator,
		StatusPersister: NewStatusPersister(statuses, cfg.Sync.StatusPersistInterval, logger),
		Network:         monitor,
	}
}
