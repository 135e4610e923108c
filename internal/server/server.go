// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"net/http"

	"github.com/MKhiriev/go-inventory-sync/internal/config"
	"github.com/MKhiriev/go-inventory-sync/internal/logger"
)

// NewServer creates the status API server for handler. Requests that run
// longer than cfg.RequestTimeout are answered with 503.
func NewServer(handler http.Handler, cfg config.ClientServer, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	if cfg.HTTPAddress == "" {
		return nil, errNoAddress
	}

	if cfg.RequestTimeout > 0 {
		handler = http.TimeoutHandler(handler, cfg.RequestTimeout, "request timed out")
	}

	return &httpServer{
		server: &http.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           handler,
			ReadHeaderTimeout: cfg.RequestTimeout,
		},
		logger: logger.WithComponent("http_server"),
		addr:   cfg.HTTPAddress,
	}, nil
}
