// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/models"
)

type statusRepository struct {
	db     *DB
	logger *logger.Logger
}

func NewStatusRepository(db *DB, logger *logger.Logger) StatusRepository {
	return &statusRepository{db: db, logger: logger}
}

// SaveStatuses upserts the durable fields of every status in one
// transaction. The status string itself is not persisted.
func (s *statusRepository) SaveStatuses(ctx context.Context, statuses map[string]models.SyncStatus) error {
	if len(statuses) == 0 {
		return nil
	}

	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		for serverID, status := range statuses {
			query, args, err := buildUpsertStatusQuery(serverID,
				nullTime(status),
				nullInt(status.LocalSeq),
				nullInt(status.RemoteSeq),
				nullInt(status.PushLastSeq),
				nullInt(status.PullLastSeq),
			)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Err(err).Str("func", "statusRepository.SaveStatuses").Int("count", len(statuses)).Msg("failed to save statuses")
		return err
	}
	return nil
}

func (s *statusRepository) LoadStatuses(ctx context.Context) (map[string]models.SyncStatus, error) {
	query, args, err := buildSelectStatusesQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Err(err).Str("func", "statusRepository.LoadStatuses").Msg("failed to query statuses")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	statuses := make(map[string]models.SyncStatus)
	for rows.Next() {
		var (
			serverID string
			syncedAt sql.NullTime
			local    sql.NullInt64
			remote   sql.NullInt64
			pushLast sql.NullInt64
			pullLast sql.NullInt64
		)
		if err = rows.Scan(&serverID, &syncedAt, &local, &remote, &pushLast, &pullLast); err != nil {
			s.logger.Err(err).Str("func", "statusRepository.LoadStatuses").Msg("failed to scan status row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}

		status := models.SyncStatus{
			LocalSeq:    int64Ptr(local),
			RemoteSeq:   int64Ptr(remote),
			PushLastSeq: int64Ptr(pushLast),
			PullLastSeq: int64Ptr(pullLast),
		}
		if syncedAt.Valid {
			at := syncedAt.Time
			status.LastSyncedAt = &at
		}
		statuses[serverID] = status
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return statuses, nil
}

func (s *statusRepository) DeleteStatus(ctx context.Context, serverID string) error {
	query, args, err := buildDeleteStatusQuery(serverID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "statusRepository.DeleteStatus").Str("server_id", serverID).Msg("failed to delete status")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

func nullTime(status models.SyncStatus) sql.NullTime {
	if status.LastSyncedAt == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: status.LastSyncedAt.UTC(), Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
