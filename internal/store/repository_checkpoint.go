// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/internal/replication"
	"github.com/MKhiriev/go-inventory-sync/models"
)

type checkpointRepository struct {
	db     *DB
	logger *logger.Logger
}

func NewCheckpointRepository(db *DB, logger *logger.Logger) CheckpointRepository {
	return &checkpointRepository{db: db, logger: logger}
}

// GetCheckpoint returns an empty seq when nothing has been saved yet.
func (c *checkpointRepository) GetCheckpoint(ctx context.Context, id string, direction replication.Direction) (models.Seq, error) {
	query, args, err := buildSelectCheckpointQuery(id, string(direction))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var seq string
	err = c.db.QueryRowContext(ctx, query, args...).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		c.logger.Err(err).
			Str("func", "checkpointRepository.GetCheckpoint").
			Str("checkpoint_id", id).
			Str("direction", string(direction)).
			Msg("failed to read checkpoint")
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return models.Seq(seq), nil
}

func (c *checkpointRepository) SaveCheckpoint(ctx context.Context, id string, direction replication.Direction, seq models.Seq) error {
	query, args, err := buildUpsertCheckpointQuery(id, string(direction), string(seq))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = c.db.ExecContext(ctx, query, args...); err != nil {
		c.logger.Err(err).
			Str("func", "checkpointRepository.SaveCheckpoint").
			Str("checkpoint_id", id).
			Str("direction", string(direction)).
			Msg("failed to save checkpoint")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}
