// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-inventory-sync/internal/app"
	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/internal/service"
	"github.com/MKhiriev/go-inventory-sync/internal/utils"
)

var errorStatusMap = map[error]int{
	ErrInvalidJSON:               http.StatusBadRequest,
	ErrMissingField:              http.StatusBadRequest,
	service.ErrInvalidServerData: http.StatusBadRequest,
	service.ErrServerNotFound:    http.StatusNotFound,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError logs err and answers with its mapped status. Internal errors
// are not exposed to the caller.
func writeError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = app.MsgInternalServerError
	}

	log := logger.FromRequest(r)
	log.Err(err).Str("func", fn).Int("status", status).Msg("request failed")

	if _, werr := utils.WriteJSON(w, errorResponse{Error: message}, status); werr != nil {
		log.Err(werr).Str("func", fn).Msg("error writing error response")
	}
}
