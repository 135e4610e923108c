// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/internal/utils"
)

type versionResponse struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

func (h *Handler) getVersion(w http.ResponseWriter, r *http.Request) {
	resp := versionResponse{
		Version: h.buildInfo.BuildVersion(),
		Date:    h.buildInfo.BuildDate(),
		Commit:  h.buildInfo.BuildCommit(),
	}
	if _, err := utils.WriteJSON(w, resp, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.getVersion").Msg("error writing response")
	}
}
