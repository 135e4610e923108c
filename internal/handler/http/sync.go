// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/internal/utils"
	"github.com/MKhiriev/go-inventory-sync/models"
)

type syncResponse struct {
	Enabled bool                 `json:"enabled"`
	Overall models.OverallStatus `json:"overall"`
	Servers int                  `json:"servers"`
}

type syncEnabledRequest struct {
	Enabled *bool `json:"enabled"`
}

// serverStatusResponse is the status of one server next to its identity.
type serverStatusResponse struct {
	ServerID string `json:"server_id"`
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
	models.SyncStatus
}

func newServerStatusResponse(server models.ServerConfig, status models.SyncStatus, ok bool) serverStatusResponse {
	if !ok || status.Status == "" {
		status.Status = models.StatusNotEvaluated
	}
	return serverStatusResponse{
		ServerID:   server.ID,
		Name:       server.Name,
		Enabled:    server.Enabled,
		SyncStatus: status,
	}
}

func (h *Handler) getSync(w http.ResponseWriter, r *http.Request) {
	settings, err := h.registry.Settings(r.Context())
	if err != nil {
		writeError(w, r, "*Handler.getSync", err)
		return
	}

	writeResponse(w, r, "*Handler.getSync", syncResponse{
		Enabled: settings.Enabled,
		Overall: h.statuses.Overall(settings),
		Servers: len(settings.Servers),
	}, http.StatusOK)
}

func (h *Handler) setSyncEnabled(w http.ResponseWriter, r *http.Request) {
	var req syncEnabledRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, "*Handler.setSyncEnabled", err)
		return
	}
	if req.Enabled == nil {
		writeError(w, r, "*Handler.setSyncEnabled", fmt.Errorf("%w: enabled", ErrMissingField))
		return
	}

	if err := h.registry.SetSyncEnabled(r.Context(), *req.Enabled); err != nil {
		writeError(w, r, "*Handler.setSyncEnabled", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listStatuses(w http.ResponseWriter, r *http.Request) {
	settings, err := h.registry.Settings(r.Context())
	if err != nil {
		writeError(w, r, "*Handler.listStatuses", err)
		return
	}

	statuses := h.statuses.Statuses()
	resp := make([]serverStatusResponse, 0, len(settings.Servers))
	for _, server := range settings.Servers {
		status, ok := statuses[server.ID]
		resp = append(resp, newServerStatusResponse(server, status, ok))
	}
	writeResponse(w, r, "*Handler.listStatuses", resp, http.StatusOK)
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	server, err := h.registry.GetServer(r.Context(), chi.URLParam(r, "serverID"))
	if err != nil {
		writeError(w, r, "*Handler.getStatus", err)
		return
	}

	status, ok := h.statuses.Status(server.ID)
	writeResponse(w, r, "*Handler.getStatus", newServerStatusResponse(server, status, ok), http.StatusOK)
}

func (h *Handler) listServers(w http.ResponseWriter, r *http.Request) {
	settings, err := h.registry.Settings(r.Context())
	if err != nil {
		writeError(w, r, "*Handler.listServers", err)
		return
	}
	writeResponse(w, r, "*Handler.listServers", settings.Redacted().Servers, http.StatusOK)
}

func (h *Handler) createServer(w http.ResponseWriter, r *http.Request) {
	var server models.ServerConfig
	if err := decodeBody(r, &server); err != nil {
		writeError(w, r, "*Handler.createServer", err)
		return
	}

	created, err := h.registry.CreateServer(r.Context(), server)
	if err != nil {
		writeError(w, r, "*Handler.createServer", err)
		return
	}
	writeResponse(w, r, "*Handler.createServer", created.Redacted(), http.StatusCreated)
}

func (h *Handler) updateServer(w http.ResponseWriter, r *http.Request) {
	var update models.ServerUpdate
	if err := decodeBody(r, &update); err != nil {
		writeError(w, r, "*Handler.updateServer", err)
		return
	}

	updated, err := h.registry.UpdateServer(r.Context(), chi.URLParam(r, "serverID"), update)
	if err != nil {
		writeError(w, r, "*Handler.updateServer", err)
		return
	}
	writeResponse(w, r, "*Handler.updateServer", updated.Redacted(), http.StatusOK)
}

func (h *Handler) deleteServer(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.DeleteServer(r.Context(), chi.URLParam(r, "serverID")); err != nil {
		writeError(w, r, "*Handler.deleteServer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) toggleServer(w http.ResponseWriter, r *http.Request) {
	toggled, err := h.registry.ToggleServer(r.Context(), chi.URLParam(r, "serverID"))
	if err != nil {
		writeError(w, r, "*Handler.toggleServer", err)
		return
	}
	writeResponse(w, r, "*Handler.toggleServer", toggled.Redacted(), http.StatusOK)
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}

func writeResponse(w http.ResponseWriter, r *http.Request, fn string, v any, status int) {
	if _, err := utils.WriteJSON(w, v, status); err != nil {
		logger.FromRequest(r).Err(err).Str("func", fn).Msg("error writing response")
	}
}
