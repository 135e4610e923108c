// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChangesQuery(t *testing.T) {
	query, args, err := buildChangesQuery(5, 4)
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, rev, deleted, seq FROM documents WHERE seq > ? ORDER BY seq ASC LIMIT 4", query)
	assert.Equal(t, []any{int64(5)}, args)
}

func TestBuildSelectDocumentsQuery_UsesIn(t *testing.T) {
	query, args, err := buildSelectDocumentsQuery([]string{"a", "b", "c"})
	require.NoError(t, err)

	assert.Contains(t, query, "WHERE id IN (?,?,?)")
	assert.Len(t, args, 3)
	assert.NotContains(t, query, "$1", "sqlite placeholders")
}

func TestBuildUpsertDocumentQuery(t *testing.T) {
	query, args, err := buildUpsertDocumentQuery("a", "1-x", false, "{}", 3)
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.True(t, strings.HasPrefix(q, "insert into documents"))
	assert.Contains(t, q, "on conflict (id) do update")
	assert.Equal(t, []any{"a", "1-x", false, "{}", int64(3)}, args)
}

func TestBuildUpdateServerQuery(t *testing.T) {
	query, args, err := buildUpdateServerQuery("s1", "n", "u", "user", "pw", true)
	require.NoError(t, err)

	assert.Contains(t, query, "updated_at = CURRENT_TIMESTAMP")
	assert.Contains(t, query, "WHERE id = ?")
	assert.Equal(t, "s1", args[len(args)-1])
}

func TestBuildUpsertStatusQuery(t *testing.T) {
	query, args, err := buildUpsertStatusQuery("s1", nil, nil, nil, nil, nil)
	require.NoError(t, err)

	assert.Contains(t, query, "ON CONFLICT (server_id) DO UPDATE")
	assert.Len(t, args, 6)
}
