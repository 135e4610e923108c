// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/internal/utils"
)

func newBufferedHandler(buf *bytes.Buffer) *Handler {
	return &Handler{
		traceIDs: utils.NewUUIDGenerator(),
		logger:   &logger.Logger{Logger: zerolog.New(buf)},
	}
}

// ── withTraceID ──────────────────────────────────────────────────────────────

func TestWithTraceID_GeneratesID(t *testing.T) {
	h := newBufferedHandler(&bytes.Buffer{})

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(traceIDHeader)
		logger.FromRequest(r).Info().Msg("inside")
	})

	rec := httptest.NewRecorder()
	h.withTraceID(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Empty(t, seen)
	id, err := uuid.Parse(rec.Header().Get(traceIDHeader))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestWithTraceID_AttachesLoggerWithTraceID(t *testing.T) {
	var buf bytes.Buffer
	h := newBufferedHandler(&buf)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromRequest(r).Info().Msg("inside")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(traceIDHeader, "abc-123")
	h.withTraceID(next).ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc-123", entry["trace_id"])
	assert.Equal(t, "inside", entry["message"])
}

// ── withLogging ──────────────────────────────────────────────────────────────

func TestWithLogging_WritesAccessEntry(t *testing.T) {
	var buf bytes.Buffer
	h := newBufferedHandler(&buf)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	})

	rec := httptest.NewRecorder()
	h.withTraceID(withLogging(next)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync/servers", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "/api/sync/servers", entry["uri"])
	assert.Equal(t, http.MethodPost, entry["method"])
	assert.EqualValues(t, http.StatusCreated, entry["status"])
	assert.EqualValues(t, 5, entry["size"])
	assert.Contains(t, entry, "duration")
	assert.Equal(t, rec.Header().Get(traceIDHeader), entry["trace_id"])
}

func TestWithLogging_DefaultsToOK(t *testing.T) {
	var buf bytes.Buffer
	h := newBufferedHandler(&buf)

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	h.withTraceID(withLogging(next)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.EqualValues(t, http.StatusOK, entry["status"])
	assert.EqualValues(t, 0, entry["size"])
}

// ── responseWriter ───────────────────────────────────────────────────────────

func TestResponseWriter_WriteHeaderOnce(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	w.WriteHeader(http.StatusAccepted)
	w.WriteHeader(http.StatusTeapot)

	assert.Equal(t, http.StatusAccepted, w.status)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestResponseWriter_WriteImpliesOK(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	n, err := w.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = w.Write([]byte("de"))
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, http.StatusOK, w.status)
	assert.Equal(t, 5, w.size)
	assert.Equal(t, "abcde", rec.Body.String())
}

func TestResponseWriter_Unwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	assert.Same(t, rec, w.Unwrap())
}

// ── statusFromError ──────────────────────────────────────────────────────────

func TestStatusFromError_Unknown(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFromError(assert.AnError))
}
