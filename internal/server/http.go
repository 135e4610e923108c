// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/go-inventory-sync/internal/logger"
)

const shutdownTimeout = 10 * time.Second

type httpServer struct {
	server *http.Server
	logger *logger.Logger

	mu   sync.Mutex
	addr string
}

func (h *httpServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.server.Addr)
	if err != nil {
		return fmt.Errorf("error listening on %s: %w", h.server.Addr, err)
	}
	return h.serve(ctx, ln)
}

func (h *httpServer) Addr() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.addr
}

func (h *httpServer) serve(ctx context.Context, ln net.Listener) error {
	h.mu.Lock()
	h.addr = ln.Addr().String()
	h.mu.Unlock()

	serveErr := make(chan error, 1)
	go func() {
		h.logger.Info().Str("address", ln.Addr().String()).Msg("Launching HTTP server")
		serveErr <- h.server.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := h.server.Shutdown(shutdownCtx); err != nil {
		h.logger.Err(err).Msg("HTTP server Shutdown")
		return fmt.Errorf("http server shutdown: %w", err)
	}
	<-serveErr

	h.logger.Info().Msg("HTTP server Shutdown gracefully")
	return nil
}
