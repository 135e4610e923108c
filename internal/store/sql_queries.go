// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	tableDocuments   = "documents"
	tableMeta        = "db_meta"
	tableCheckpoints = "replication_checkpoints"
	tableServers     = "sync_servers"
	tableSettings    = "sync_settings"
	tableStatuses    = "sync_server_statuses"

	singletonRowID = 1
)

// builder renders sqlite "?" placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var documentColumns = []string{"id", "rev", "deleted", "body", "seq"}

var serverColumns = []string{"id", "name", "uri", "username", "password", "enabled"}

var statusColumns = []string{"server_id", "last_synced_at", "local_seq", "remote_seq", "push_last_seq", "pull_last_seq"}

func buildSelectUpdateSeqQuery() (string, []any, error) {
	return builder.Select("update_seq").From(tableMeta).Where(sq.Eq{"id": singletonRowID}).ToSql()
}

func buildSetUpdateSeqQuery(seq int64) (string, []any, error) {
	return builder.Update(tableMeta).Set("update_seq", seq).Where(sq.Eq{"id": singletonRowID}).ToSql()
}

func buildCountLiveDocumentsQuery() (string, []any, error) {
	return builder.Select("COUNT(*)").From(tableDocuments).Where(sq.Eq{"deleted": false}).ToSql()
}

func buildChangesQuery(since int64, limit int) (string, []any, error) {
	return builder.Select("id", "rev", "deleted", "seq").
		From(tableDocuments).
		Where(sq.Gt{"seq": since}).
		OrderBy("seq ASC").
		Limit(uint64(limit)).
		ToSql()
}

func buildCountChangesQuery(since int64) (string, []any, error) {
	return builder.Select("COUNT(*)").From(tableDocuments).Where(sq.Gt{"seq": since}).ToSql()
}

func buildSelectDocumentsQuery(ids []string) (string, []any, error) {
	return builder.Select(documentColumns...).From(tableDocuments).Where(sq.Eq{"id": ids}).ToSql()
}

func buildSelectDocumentRevQuery(id string) (string, []any, error) {
	return builder.Select("rev", "deleted").From(tableDocuments).Where(sq.Eq{"id": id}).ToSql()
}

func buildUpsertDocumentQuery(id, rev string, deleted bool, body string, seq int64) (string, []any, error) {
	return builder.Insert(tableDocuments).
		Columns(documentColumns...).
		Values(id, rev, deleted, body, seq).
		Suffix("ON CONFLICT (id) DO UPDATE SET rev = excluded.rev, deleted = excluded.deleted, body = excluded.body, seq = excluded.seq").
		ToSql()
}

func buildSelectCheckpointQuery(id, direction string) (string, []any, error) {
	return builder.Select("seq").From(tableCheckpoints).Where(sq.Eq{"id": id, "direction": direction}).ToSql()
}

func buildUpsertCheckpointQuery(id, direction, seq string) (string, []any, error) {
	return builder.Insert(tableCheckpoints).
		Columns("id", "direction", "seq").
		Values(id, direction, seq).
		Suffix("ON CONFLICT (id, direction) DO UPDATE SET seq = excluded.seq, updated_at = CURRENT_TIMESTAMP").
		ToSql()
}

func buildListServersQuery() (string, []any, error) {
	return builder.Select(serverColumns...).From(tableServers).OrderBy("created_at ASC", "id ASC").ToSql()
}

func buildSelectServerQuery(id string) (string, []any, error) {
	return builder.Select(serverColumns...).From(tableServers).Where(sq.Eq{"id": id}).ToSql()
}

func buildInsertServerQuery(id, name, uri, username, password string, enabled bool) (string, []any, error) {
	return builder.Insert(tableServers).
		Columns(serverColumns...).
		Values(id, name, uri, username, password, enabled).
		ToSql()
}

func buildUpdateServerQuery(id, name, uri, username, password string, enabled bool) (string, []any, error) {
	return builder.Update(tableServers).
		Set("name", name).
		Set("uri", uri).
		Set("username", username).
		Set("password", password).
		Set("enabled", enabled).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id}).
		ToSql()
}

func buildDeleteServerQuery(id string) (string, []any, error) {
	return builder.Delete(tableServers).Where(sq.Eq{"id": id}).ToSql()
}

func buildSelectSyncEnabledQuery() (string, []any, error) {
	return builder.Select("enabled").From(tableSettings).Where(sq.Eq{"id": singletonRowID}).ToSql()
}

func buildUpsertSyncEnabledQuery(enabled bool) (string, []any, error) {
	return builder.Insert(tableSettings).
		Columns("id", "enabled").
		Values(singletonRowID, enabled).
		Suffix("ON CONFLICT (id) DO UPDATE SET enabled = excluded.enabled").
		ToSql()
}

func buildSelectStatusesQuery() (string, []any, error) {
	return builder.Select(statusColumns...).From(tableStatuses).ToSql()
}

func buildUpsertStatusQuery(serverID string, values ...any) (string, []any, error) {
	return builder.Insert(tableStatuses).
		Columns(statusColumns...).
		Values(append([]any{serverID}, values...)...).
		Suffix("ON CONFLICT (server_id) DO UPDATE SET " +
			"last_synced_at = excluded.last_synced_at, " +
			"local_seq = excluded.local_seq, " +
			"remote_seq = excluded.remote_seq, " +
			"push_last_seq = excluded.push_last_seq, " +
			"pull_last_seq = excluded.pull_last_seq, " +
			"updated_at = CURRENT_TIMESTAMP").
		ToSql()
}

func buildDeleteStatusQuery(serverID string) (string, []any, error) {
	return builder.Delete(tableStatuses).Where(sq.Eq{"server_id": serverID}).ToSql()
}
