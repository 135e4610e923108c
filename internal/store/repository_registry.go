// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/models"
)

type registryRepository struct {
	db     *DB
	logger *logger.Logger
}

func NewRegistryRepository(db *DB, logger *logger.Logger) RegistryRepository {
	return &registryRepository{db: db, logger: logger}
}

func (r *registryRepository) ListServers(ctx context.Context) ([]models.ServerConfig, error) {
	query, args, err := buildListServersQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).Str("func", "registryRepository.ListServers").Msg("failed to query servers")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	servers := make([]models.ServerConfig, 0)
	for rows.Next() {
		var s models.ServerConfig
		if err = rows.Scan(&s.ID, &s.Name, &s.URI, &s.Username, &s.Password, &s.Enabled); err != nil {
			r.logger.Err(err).Str("func", "registryRepository.ListServers").Msg("failed to scan server row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		servers = append(servers, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return servers, nil
}

func (r *registryRepository) GetServer(ctx context.Context, id string) (models.ServerConfig, error) {
	query, args, err := buildSelectServerQuery(id)
	if err != nil {
		return models.ServerConfig{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var s models.ServerConfig
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Name, &s.URI, &s.Username, &s.Password, &s.Enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ServerConfig{}, ErrServerNotFound
	}
	if err != nil {
		r.logger.Err(err).Str("func", "registryRepository.GetServer").Str("server_id", id).Msg("failed to read server")
		return models.ServerConfig{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return s, nil
}

func (r *registryRepository) CreateServer(ctx context.Context, s models.ServerConfig) error {
	query, args, err := buildInsertServerQuery(s.ID, s.Name, s.URI, s.Username, s.Password, s.Enabled)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrServerAlreadyExists
		}
		r.logger.Err(err).Str("func", "registryRepository.CreateServer").Str("server_id", s.ID).Msg("failed to insert server")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

func (r *registryRepository) UpdateServer(ctx context.Context, s models.ServerConfig) error {
	query, args, err := buildUpdateServerQuery(s.ID, s.Name, s.URI, s.Username, s.Password, s.Enabled)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).Str("func", "registryRepository.UpdateServer").Str("server_id", s.ID).Msg("failed to update server")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return requireAffected(res, ErrServerNotFound)
}

// DeleteServer removes the server together with its persisted status.
func (r *registryRepository) DeleteServer(ctx context.Context, id string) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		query, args, err := buildDeleteServerQuery(id)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			r.logger.Err(err).Str("func", "registryRepository.DeleteServer").Str("server_id", id).Msg("failed to delete server")
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		if err = requireAffected(res, ErrServerNotFound); err != nil {
			return err
		}

		query, args, err = buildDeleteStatusQuery(id)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		return nil
	})
}

func (r *registryRepository) GetSyncEnabled(ctx context.Context) (bool, bool, error) {
	query, args, err := buildSelectSyncEnabledQuery()
	if err != nil {
		return false, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var enabled bool
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		r.logger.Err(err).Str("func", "registryRepository.GetSyncEnabled").Msg("failed to read sync settings")
		return false, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return enabled, true, nil
}

func (r *registryRepository) SetSyncEnabled(ctx context.Context, enabled bool) error {
	query, args, err := buildUpsertSyncEnabledQuery(enabled)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Err(err).Str("func", "registryRepository.SetSyncEnabled").Msg("failed to save sync settings")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
