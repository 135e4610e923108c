// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// encodeFailureBody is written when a response value cannot be encoded.
const encodeFailureBody = `{"error":"error writing data to JSON"}`

// WriteJSON encodes data and writes it with statusCode. Status API responses
// describe live sync state, so they are marked as not cacheable.
//
// When data cannot be encoded a JSON error body is written with
// 500 Internal Server Error and the encoding error is returned.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")

	jsonData, err := json.Marshal(data)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(encodeFailureBody))
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.WriteHeader(statusCode)
	return w.Write(jsonData)
}
