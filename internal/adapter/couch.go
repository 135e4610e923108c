// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-inventory-sync/internal/config"
	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/internal/utils"
	"github.com/MKhiriev/go-inventory-sync/models"
)

type couchDatabase struct {
	client *utils.HTTPClient

	// dbURL is the database URL without credentials; sessionURL points at
	// the server root _session endpoint.
	dbURL      string
	sessionURL string

	username string
	password string

	logger *logger.Logger
}

// NewRemoteDatabase builds a client for the database at server.URI. Nothing
// is sent over the network until the first call; in particular the remote
// database is never created.
//
// Credentials come from server.Username/Password, or from the URI userinfo
// when those are empty. They are stripped from the URI used for requests
// and logs.
func NewRemoteDatabase(adapterCfg config.ClientAdapter, server models.ServerConfig, logger *logger.Logger) (RemoteDatabase, error) {
	dbURL, sessionURL, username, password, err := parseServerURI(server.URI)
	if err != nil {
		return nil, err
	}
	if server.Username != "" {
		username, password = server.Username, server.Password
	}

	client := utils.NewRemoteHTTPClient(dbURL, adapterCfg.RequestTimeout)
	if username != "" {
		client.SetBasicAuth(username, password)
	}

	c := &couchDatabase{
		client:     client,
		dbURL:      dbURL,
		sessionURL: sessionURL,
		username:   username,
		password:   password,
		logger:     logger,
	}
	client.OnAfterResponse(c.logErrorResponse)

	return c, nil
}

func parseServerURI(raw string) (dbURL, sessionURL, username, password string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", "", "", fmt.Errorf("%w: empty uri", ErrInvalidServerURI)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", "", "", "", fmt.Errorf("%w: %w", ErrInvalidServerURI, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", "", "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidServerURI, u.Scheme)
	}
	if u.Host == "" {
		return "", "", "", "", fmt.Errorf("%w: missing host", ErrInvalidServerURI)
	}

	dbPath := strings.TrimRight(u.Path, "/")
	if dbPath == "" {
		return "", "", "", "", fmt.Errorf("%w: missing database name", ErrInvalidServerURI)
	}

	if u.User != nil {
		username = u.User.Username()
		password, _ = u.User.Password()
	}

	base := url.URL{Scheme: u.Scheme, Host: u.Host}
	base.Path = dbPath
	dbURL = base.String()

	base.Path = strings.TrimRight(path.Dir(dbPath), "/") + "/_session"
	sessionURL = base.String()

	return dbURL, sessionURL, username, password, nil
}

// Name returns the database URL without credentials.
func (c *couchDatabase) Name() string {
	return c.dbURL
}

// LogIn implements [RemoteDatabase]. It POSTs the credentials to the
// server's _session endpoint.
func (c *couchDatabase) LogIn(ctx context.Context) error {
	c.logger.Debug().Str("func", "couchDatabase.LogIn").Str("db", c.dbURL).Msg("logging in")

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{"name": c.username, "password": c.password}).
		Post(c.sessionURL)
	if err != nil {
		return mapTransportError("login request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	var session struct {
		OK bool `json:"ok"`
	}
	if err = json.Unmarshal(resp.Body(), &session); err != nil {
		return fmt.Errorf("%w: login: %w", ErrDecodingResponse, err)
	}
	if !session.OK {
		return fmt.Errorf("login: %w: session not granted", ErrUnauthorized)
	}
	return nil
}

// AllDocs implements [RemoteDatabase].
func (c *couchDatabase) AllDocs(ctx context.Context, limit int) ([]models.RevisionRef, error) {
	var result struct {
		Rows []struct {
			ID    string `json:"id"`
			Value struct {
				Rev string `json:"rev"`
			} `json:"value"`
		} `json:"rows"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get("/_all_docs")
	if err = c.decode("all docs", resp, err, &result); err != nil {
		return nil, err
	}

	refs := make([]models.RevisionRef, 0, len(result.Rows))
	for _, row := range result.Rows {
		refs = append(refs, models.RevisionRef{ID: row.ID, Rev: row.Value.Rev})
	}
	return refs, nil
}

// Get implements [RemoteDatabase].
func (c *couchDatabase) Get(ctx context.Context, id string) (models.Document, error) {
	var doc models.Document

	resp, err := c.client.R().
		SetContext(ctx).
		Get("/" + url.PathEscape(id))
	if err = c.decode("get document", resp, err, &doc); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

func (c *couchDatabase) Info(ctx context.Context) (models.DBInfo, error) {
	var info models.DBInfo

	resp, err := c.client.R().
		SetContext(ctx).
		Get("/")
	if err = c.decode("database info", resp, err, &info); err != nil {
		return models.DBInfo{}, err
	}
	return info, nil
}

func (c *couchDatabase) Changes(ctx context.Context, since models.Seq, limit int) (models.ChangesResponse, error) {
	var changes models.ChangesResponse

	if since == "" {
		since = "0"
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"since": since.String(),
			"limit": strconv.Itoa(limit),
			"style": "main_only",
		}).
		Get("/_changes")
	if err = c.decode("changes", resp, err, &changes); err != nil {
		return models.ChangesResponse{}, err
	}
	return changes, nil
}

// BulkGet fetches the requested revisions with _bulk_get. Revisions the
// server cannot return come back as failed results.
func (c *couchDatabase) BulkGet(ctx context.Context, refs []models.RevisionRef) ([]models.Document, []models.DocumentResult, error) {
	if len(refs) == 0 {
		return nil, nil, nil
	}

	var result struct {
		Results []struct {
			ID   string `json:"id"`
			Docs []struct {
				OK    *models.Document       `json:"ok"`
				Error *models.DocumentResult `json:"error"`
			} `json:"docs"`
		} `json:"results"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("revs", "false").
		SetBody(map[string]any{"docs": refs}).
		Post("/_bulk_get")
	if err = c.decode("bulk get", resp, err, &result); err != nil {
		return nil, nil, err
	}

	var (
		docs   []models.Document
		failed []models.DocumentResult
	)
	for _, r := range result.Results {
		for _, d := range r.Docs {
			switch {
			case d.OK != nil:
				docs = append(docs, *d.OK)
			case d.Error != nil:
				res := *d.Error
				if res.ID == "" {
					res.ID = r.ID
				}
				failed = append(failed, res)
			}
		}
	}
	return docs, failed, nil
}

// BulkDocs stores replicated revisions with new_edits=false, so the
// revisions are kept as they are.
func (c *couchDatabase) BulkDocs(ctx context.Context, docs []models.Document) ([]models.DocumentResult, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	var results []models.DocumentResult

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]any{"docs": docs, "new_edits": false}).
		Post("/_bulk_docs")
	if err = c.decode("bulk docs", resp, err, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *couchDatabase) decode(op string, resp *resty.Response, reqErr error, dst any) error {
	if reqErr != nil {
		return mapTransportError(op+" request", reqErr)
	}
	if err := mapHTTPError(resp); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(resp.Body(), dst); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecodingResponse, op, err)
	}
	return nil
}

func (c *couchDatabase) logErrorResponse(_ *resty.Client, resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	c.logger.Warn().
		Str("func", "couchDatabase.logErrorResponse").
		Str("db", c.dbURL).
		Str("method", resp.Request.Method).
		Str("url", resp.Request.URL).
		Int("status", resp.StatusCode()).
		Str("body", utils.Truncate(string(resp.Body()), utils.DiagnosticPayloadLimit)).
		Msg("remote database returned an error")
	return nil
}
