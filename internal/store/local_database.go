// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/internal/replication"
	"github.com/MKhiriev/go-inventory-sync/models"
)

// localDatabase stores one winning revision per document. Every write bumps
// the database update seq and stamps the document with it, so the changes
// feed is simply the documents ordered by seq.
type localDatabase struct {
	db     *DB
	name   string
	logger *logger.Logger

	// writeMu keeps seq allocation and the revision check of a write atomic.
	writeMu sync.Mutex
}

func NewLocalDatabase(db *DB, name string, logger *logger.Logger) LocalDatabase {
	return &localDatabase{
		db:     db,
		name:   name,
		logger: logger,
	}
}

func (l *localDatabase) Name() string {
	return l.name
}

func (l *localDatabase) Info(ctx context.Context) (models.DBInfo, error) {
	query, args, err := buildSelectUpdateSeqQuery()
	if err != nil {
		return models.DBInfo{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	var seq int64
	if err = l.db.QueryRowContext(ctx, query, args...).Scan(&seq); err != nil {
		l.logger.Err(err).Str("func", "localDatabase.Info").Msg("failed to read update seq")
		return models.DBInfo{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err = buildCountLiveDocumentsQuery()
	if err != nil {
		return models.DBInfo{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	var count int64
	if err = l.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		l.logger.Err(err).Str("func", "localDatabase.Info").Msg("failed to count documents")
		return models.DBInfo{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return models.DBInfo{
		DBName:    l.name,
		UpdateSeq: formatSeq(seq),
		DocCount:  count,
	}, nil
}

func (l *localDatabase) Changes(ctx context.Context, since models.Seq, limit int) (models.ChangesResponse, error) {
	from, ok := replication.ParseSeq(since)
	if !ok {
		from = 0
	}

	query, args, err := buildChangesQuery(from, limit)
	if err != nil {
		return models.ChangesResponse{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.logger.Err(err).Str("func", "localDatabase.Changes").Msg("failed to query changes")
		return models.ChangesResponse{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	resp := models.ChangesResponse{LastSeq: formatSeq(from)}
	for rows.Next() {
		var (
			change models.Change
			rev    string
			seq    int64
		)
		if err = rows.Scan(&change.ID, &rev, &change.Deleted, &seq); err != nil {
			return models.ChangesResponse{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		change.Seq = formatSeq(seq)
		change.Changes = []models.ChangeRev{{Rev: rev}}
		resp.Results = append(resp.Results, change)
		resp.LastSeq = change.Seq
	}
	if err = rows.Err(); err != nil {
		return models.ChangesResponse{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	query, args, err = buildCountChangesQuery(from)
	if err != nil {
		return models.ChangesResponse{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	var total int64
	if err = l.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return models.ChangesResponse{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	resp.Pending = max(total-int64(len(resp.Results)), 0)

	return resp, nil
}

func (l *localDatabase) BulkGet(ctx context.Context, refs []models.RevisionRef) ([]models.Document, []models.DocumentResult, error) {
	if len(refs) == 0 {
		return nil, nil, nil
	}

	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}

	query, args, err := buildSelectDocumentsQuery(ids)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.logger.Err(err).Str("func", "localDatabase.BulkGet").Msg("failed to query documents")
		return nil, nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	stored := make(map[string]models.Document, len(ids))
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, nil, err
		}
		stored[doc.ID] = doc
	}
	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	var (
		docs   []models.Document
		failed []models.DocumentResult
	)
	for _, ref := range refs {
		doc, ok := stored[ref.ID]
		if !ok || (ref.Rev != "" && doc.Rev != ref.Rev) {
			failed = append(failed, models.DocumentResult{ID: ref.ID, Rev: ref.Rev, Error: "not_found", Reason: "missing"})
			continue
		}
		docs = append(docs, doc)
	}
	return docs, failed, nil
}

// BulkDocs stores replicated revisions. A revision that loses against the
// stored one is dropped; storing an already present revision is a no-op and
// does not advance the update seq.
func (l *localDatabase) BulkDocs(ctx context.Context, docs []models.Document) ([]models.DocumentResult, error) {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	var results []models.DocumentResult
	err := l.db.withTx(ctx, func(tx *sql.Tx) error {
		for _, doc := range docs {
			if doc.ID == "" || revGeneration(doc.Rev) == 0 {
				results = append(results, models.DocumentResult{ID: doc.ID, Rev: doc.Rev, Error: "bad_request", Reason: "invalid id or revision"})
				continue
			}

			current, _, found, err := l.currentRev(ctx, tx, doc.ID)
			if err != nil {
				return err
			}
			if found && (current == doc.Rev || !revWins(doc.Rev, current)) {
				continue
			}

			if err = l.write(ctx, tx, doc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		l.logger.Err(err).Str("func", "localDatabase.BulkDocs").Int("docs", len(docs)).Msg("failed to store replicated documents")
		return nil, err
	}
	return results, nil
}

func (l *localDatabase) Get(ctx context.Context, id string) (models.Document, error) {
	query, args, err := buildSelectDocumentsQuery([]string{id})
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return models.Document{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		return models.Document{}, ErrDocumentNotFound
	}
	doc, err := scanDocument(rows)
	if err != nil {
		return models.Document{}, err
	}
	if doc.Deleted {
		return models.Document{}, ErrDocumentNotFound
	}
	return doc, nil
}

func (l *localDatabase) Put(ctx context.Context, doc models.Document) (models.Document, error) {
	if doc.ID == "" {
		return models.Document{}, fmt.Errorf("%w: empty document id", ErrDocumentConflict)
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	err := l.db.withTx(ctx, func(tx *sql.Tx) error {
		current, deleted, found, err := l.currentRev(ctx, tx, doc.ID)
		if err != nil {
			return err
		}

		switch {
		case found && deleted && doc.Rev == "":
		case found && doc.Rev != current:
			return ErrDocumentConflict
		case !found && doc.Rev != "":
			return ErrDocumentConflict
		}

		doc.Rev = nextRev(current, doc)
		return l.write(ctx, tx, doc)
	})
	if err != nil {
		if !errors.Is(err, ErrDocumentConflict) {
			l.logger.Err(err).Str("func", "localDatabase.Put").Str("doc_id", doc.ID).Msg("failed to store document")
		}
		return models.Document{}, err
	}
	return doc, nil
}

func (l *localDatabase) currentRev(ctx context.Context, tx *sql.Tx, id string) (rev string, deleted bool, found bool, err error) {
	query, args, err := buildSelectDocumentRevQuery(id)
	if err != nil {
		return "", false, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = tx.QueryRowContext(ctx, query, args...).Scan(&rev, &deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, false, nil
	}
	if err != nil {
		return "", false, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return rev, deleted, true, nil
}

// write stores doc under the next update seq.
func (l *localDatabase) write(ctx context.Context, tx *sql.Tx, doc models.Document) error {
	query, args, err := buildSelectUpdateSeqQuery()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	var seq int64
	if err = tx.QueryRowContext(ctx, query, args...).Scan(&seq); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	seq++

	body := string(doc.Body)
	if strings.TrimSpace(body) == "" || strings.TrimSpace(body) == "null" {
		body = "{}"
	}

	query, args, err = buildUpsertDocumentQuery(doc.ID, doc.Rev, doc.Deleted, body, seq)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err = buildSetUpdateSeqQuery(seq)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

func scanDocument(rows *sql.Rows) (models.Document, error) {
	var (
		doc  models.Document
		body string
		seq  int64
	)
	if err := rows.Scan(&doc.ID, &doc.Rev, &doc.Deleted, &body, &seq); err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	doc.Body = json.RawMessage(body)
	return doc, nil
}

func formatSeq(seq int64) models.Seq {
	return models.Seq(strconv.FormatInt(seq, 10))
}

// revGeneration returns the numeric prefix of a "<gen>-<hash>" revision, or
// 0 when the revision is malformed.
func revGeneration(rev string) int64 {
	head, _, found := strings.Cut(rev, "-")
	if !found {
		return 0
	}
	gen, err := strconv.ParseInt(head, 10, 64)
	if err != nil || gen < 1 {
		return 0
	}
	return gen
}

// revWins reports whether candidate beats current: higher generation first,
// then the lexically greater revision.
func revWins(candidate, current string) bool {
	cg, pg := revGeneration(candidate), revGeneration(current)
	if cg != pg {
		return cg > pg
	}
	return candidate > current
}

func nextRev(current string, doc models.Document) string {
	h := md5.New()
	h.Write([]byte(current))
	h.Write([]byte{0})
	h.Write(doc.Body)
	if doc.Deleted {
		h.Write([]byte("deleted"))
	}
	return strconv.FormatInt(revGeneration(current)+1, 10) + "-" + hex.EncodeToString(h.Sum(nil))
}
