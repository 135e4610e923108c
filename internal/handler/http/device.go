// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/models"
)

type networkStateRequest struct {
	Connected *bool  `json:"connected"`
	Type      string `json:"type"`
	Costly    bool   `json:"costly"`
}

type lifecycleRequest struct {
	Foreground *bool `json:"foreground"`
}

// setNetworkState takes a connectivity report of the host platform.
func (h *Handler) setNetworkState(w http.ResponseWriter, r *http.Request) {
	var req networkStateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, "*Handler.setNetworkState", err)
		return
	}
	if req.Connected == nil {
		writeError(w, r, "*Handler.setNetworkState", fmt.Errorf("%w: connected", ErrMissingField))
		return
	}

	state := models.NetworkState{Connected: *req.Connected, Type: req.Type, Costly: req.Costly}
	logger.FromRequest(r).Debug().Any("state", state).Msg("network state reported")
	h.network.Publish(state)
	w.WriteHeader(http.StatusNoContent)
}

// setLifecycle takes a foreground/background report of the host platform.
func (h *Handler) setLifecycle(w http.ResponseWriter, r *http.Request) {
	var req lifecycleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, "*Handler.setLifecycle", err)
		return
	}
	if req.Foreground == nil {
		writeError(w, r, "*Handler.setLifecycle", fmt.Errorf("%w: foreground", ErrMissingField))
		return
	}

	h.orchestrator.SetForeground(*req.Foreground)
	w.WriteHeader(http.StatusNoContent)
}
