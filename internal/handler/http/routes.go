// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, withLogging)

	router.Get("/api/version", h.getVersion)

	// sync switch and statuses
	router.Get("/api/sync", h.getSync)
	router.Put("/api/sync/enabled", h.setSyncEnabled)
	router.Get("/api/sync/statuses", h.listStatuses)
	router.Get("/api/sync/statuses/{serverID}", h.getStatus)

	// server registry
	router.Get("/api/sync/servers", h.listServers)
	router.Post("/api/sync/servers", h.createServer)
	router.Patch("/api/sync/servers/{serverID}", h.updateServer)
	router.Delete("/api/sync/servers/{serverID}", h.deleteServer)
	router.Post("/api/sync/servers/{serverID}/toggle", h.toggleServer)

	// host platform reports
	router.Put("/api/device/network", h.setNetworkState)
	router.Put("/api/device/lifecycle", h.setLifecycle)

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
