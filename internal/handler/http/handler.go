// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/internal/service"
	"github.com/MKhiriev/go-inventory-sync/internal/utils"
	"github.com/MKhiriev/go-inventory-sync/models"
)

// NetworkPublisher receives connectivity reports of the host platform.
type NetworkPublisher interface {
	Publish(state models.NetworkState)
}

type Handler struct {
	registry     service.Registry
	statuses     service.StatusReporter
	orchestrator service.Orchestrator
	network      NetworkPublisher
	buildInfo    models.AppBuildInfo
	traceIDs     *utils.UUIDGenerator

	logger *logger.Logger
}

func NewHandler(services *service.ClientServices, buildInfo models.AppBuildInfo, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		registry:     services.Registry,
		statuses:     services.Statuses,
		orchestrator: services.Orchestrator,
		network:      services.Network,
		buildInfo:    buildInfo,
		traceIDs:     utils.NewUUIDGenerator(),
		logger:       logger,
	}
}
