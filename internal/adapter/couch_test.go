// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-inventory-sync/internal/config"
	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/models"
)

// newTestRemote creates a couchDatabase pointed at the "inventory" database
// of the test server.
func newTestRemote(t *testing.T, serverURL string) *couchDatabase {
	t.Helper()
	db, err := NewRemoteDatabase(
		config.ClientAdapter{RequestTimeout: 2 * time.Second},
		models.ServerConfig{ID: "s1", Name: "Test", URI: serverURL + "/inventory", Username: "alice", Password: "secret"},
		logger.Nop(),
	)
	require.NoError(t, err)
	return db.(*couchDatabase)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

// ── NewRemoteDatabase ───────────────────────────────────────────────────────

func TestParseServerURI(t *testing.T) {
	tests := []struct {
		name        string
		uri         string
		wantDB      string
		wantSession string
		wantUser    string
		wantErr     bool
	}{
		{name: "plain", uri: "https://couch.example.com/inventory", wantDB: "https://couch.example.com/inventory", wantSession: "https://couch.example.com/_session"},
		{name: "trailing slash", uri: "http://couch:5984/inventory/", wantDB: "http://couch:5984/inventory", wantSession: "http://couch:5984/_session"},
		{name: "behind prefix", uri: "https://host/couchdb/inventory", wantDB: "https://host/couchdb/inventory", wantSession: "https://host/couchdb/_session"},
		{name: "userinfo", uri: "http://bob:pw@couch:5984/inv", wantDB: "http://couch:5984/inv", wantSession: "http://couch:5984/_session", wantUser: "bob"},
		{name: "empty", uri: "", wantErr: true},
		{name: "no database", uri: "http://couch:5984/", wantErr: true},
		{name: "bad scheme", uri: "ftp://couch/inv", wantErr: true},
		{name: "no host", uri: "http:///inv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbURL, sessionURL, user, _, err := parseServerURI(tt.uri)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidServerURI)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDB, dbURL)
			assert.Equal(t, tt.wantSession, sessionURL)
			assert.Equal(t, tt.wantUser, user)
		})
	}
}

func TestNewRemoteDatabase_ServerCredentialsWin(t *testing.T) {
	db, err := NewRemoteDatabase(config.ClientAdapter{},
		models.ServerConfig{URI: "http://bob:pw@couch:5984/inv", Username: "alice", Password: "secret"},
		logger.Nop())
	require.NoError(t, err)

	c := db.(*couchDatabase)
	assert.Equal(t, "alice", c.username)
	assert.Equal(t, "http://couch:5984/inv", c.Name())
}

// ── LogIn ───────────────────────────────────────────────────────────────────

func TestLogIn_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/_session", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "alice", r.PostForm.Get("name"))
		assert.Equal(t, "secret", r.PostForm.Get("password"))

		http.SetCookie(w, &http.Cookie{Name: "AuthSession", Value: "token", Path: "/"})
		writeJSON(t, w, http.StatusOK, map[string]any{"ok": true, "name": "alice"})
	}))
	defer srv.Close()

	require.NoError(t, newTestRemote(t, srv.URL).LogIn(context.Background()))
}

func TestLogIn_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "reason": "Name or password is incorrect."})
	}))
	defer srv.Close()

	err := newTestRemote(t, srv.URL).LogIn(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "Name or password is incorrect.")
}

func TestLogIn_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := newTestRemote(t, url).LogIn(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestLogIn_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	db, err := NewRemoteDatabase(config.ClientAdapter{RequestTimeout: 50 * time.Millisecond},
		models.ServerConfig{URI: srv.URL + "/inventory"}, logger.Nop())
	require.NoError(t, err)

	err = db.LogIn(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestLogIn_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestRemote(t, srv.URL).LogIn(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTransport)
}

// ── AllDocs / Get ───────────────────────────────────────────────────────────

func TestAllDocs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/_all_docs", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "alice", user)
		assert.Equal(t, "secret", pass)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"total_rows": 10,
			"rows":       []map[string]any{{"id": "0000-config", "key": "0000-config", "value": map[string]string{"rev": "3-abc"}}},
		})
	}))
	defer srv.Close()

	refs, err := newTestRemote(t, srv.URL).AllDocs(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []models.RevisionRef{{ID: "0000-config", Rev: "3-abc"}}, refs)
}

func TestAllDocs_Forbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusForbidden, map[string]string{"error": "forbidden", "reason": "You are not allowed to access this db."})
	}))
	defer srv.Close()

	_, err := newTestRemote(t, srv.URL).AllDocs(context.Background(), 1)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGet_ConfigDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/0000-config", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{"_id": "0000-config", "_rev": "1-a", "uuid": "u-1"})
	}))
	defer srv.Close()

	doc, err := newTestRemote(t, srv.URL).Get(context.Background(), models.ConfigDocumentID)
	require.NoError(t, err)
	assert.Equal(t, models.ConfigDocumentID, doc.ID)
	assert.Equal(t, "1-a", doc.Rev)
	assert.JSONEq(t, `{"uuid":"u-1"}`, string(doc.Body))
}

func TestGet_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"error": "not_found", "reason": "missing"})
	}))
	defer srv.Close()

	_, err := newTestRemote(t, srv.URL).Get(context.Background(), models.ConfigDocumentID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "not_found: missing")
}

func TestGet_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>proxy login</html>"))
	}))
	defer srv.Close()

	_, err := newTestRemote(t, srv.URL).Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDecodingResponse)
}

// ── replication contract ────────────────────────────────────────────────────

func TestInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{"db_name": "inventory", "update_seq": "12-g1AAAA", "doc_count": 7})
	}))
	defer srv.Close()

	info, err := newTestRemote(t, srv.URL).Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "inventory", info.DBName)
	assert.EqualValues(t, "12-g1AAAA", info.UpdateSeq)
	assert.EqualValues(t, 7, info.DocCount)
}

func TestChanges(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/_changes", r.URL.Path)
		assert.Equal(t, "0", r.URL.Query().Get("since"))
		assert.Equal(t, "4", r.URL.Query().Get("limit"))
		assert.Equal(t, "main_only", r.URL.Query().Get("style"))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"results": []map[string]any{
				{"seq": "1-x", "id": "a", "changes": []map[string]string{{"rev": "1-a"}}},
				{"seq": "2-y", "id": "b", "changes": []map[string]string{{"rev": "2-b"}}, "deleted": true},
			},
			"last_seq": "2-y",
			"pending":  3,
		})
	}))
	defer srv.Close()

	changes, err := newTestRemote(t, srv.URL).Changes(context.Background(), "", 4)
	require.NoError(t, err)
	require.Len(t, changes.Results, 2)
	assert.True(t, changes.Results[1].Deleted)
	assert.EqualValues(t, "2-y", changes.LastSeq)
	assert.EqualValues(t, 3, changes.Pending)
}

func TestBulkGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/_bulk_get", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"docs":[{"id":"a","rev":"1-a"},{"id":"gone","rev":"1-g"}]}`, string(body))

		writeJSON(t, w, http.StatusOK, map[string]any{"results": []map[string]any{
			{"id": "a", "docs": []map[string]any{{"ok": map[string]any{"_id": "a", "_rev": "1-a", "name": "Drill"}}}},
			{"id": "gone", "docs": []map[string]any{{"error": map[string]any{"id": "gone", "rev": "1-g", "error": "not_found", "reason": "missing"}}}},
		}})
	}))
	defer srv.Close()

	docs, failed, err := newTestRemote(t, srv.URL).BulkGet(context.Background(), []models.RevisionRef{
		{ID: "a", Rev: "1-a"},
		{ID: "gone", Rev: "1-g"},
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].ID)
	require.Len(t, failed, 1)
	assert.Equal(t, "not_found", failed[0].Error)
}

func TestBulkDocs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/_bulk_docs", r.URL.Path)
		var req struct {
			Docs     []json.RawMessage `json:"docs"`
			NewEdits bool              `json:"new_edits"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.NewEdits)
		assert.Len(t, req.Docs, 2)

		writeJSON(t, w, http.StatusCreated, []map[string]string{
			{"id": "b", "error": "forbidden", "reason": "Only admins may edit"},
		})
	}))
	defer srv.Close()

	results, err := newTestRemote(t, srv.URL).BulkDocs(context.Background(), []models.Document{
		{ID: "a", Rev: "1-a", Body: json.RawMessage(`{}`)},
		{ID: "b", Rev: "1-b", Body: json.RawMessage(`{}`)},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Failed())
}

func TestEmptyBatchesSkipNetwork(t *testing.T) {
	db := newTestRemote(t, "http://127.0.0.1:1")

	docs, failed, err := db.BulkGet(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, docs)
	assert.Nil(t, failed)

	results, err := db.BulkDocs(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, results)
}

// ── mapHTTPError ────────────────────────────────────────────────────────────

func TestMapHTTPError_StatusCodes(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusInternalServerError, ErrInternalServerError},
		{http.StatusBadGateway, ErrBadGateway},
		{http.StatusServiceUnavailable, ErrUnexpectedStatus},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := newTestRemote(t, srv.URL).Info(context.Background())
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestDescribeBody(t *testing.T) {
	assert.Equal(t, "conflict: Document update conflict.", describeBody([]byte(`{"error":"conflict","reason":"Document update conflict."}`)))
	assert.Equal(t, "not_found", describeBody([]byte(`{"error":"not_found"}`)))
	assert.Equal(t, "plain text", describeBody([]byte("  plain text \n")))
}
