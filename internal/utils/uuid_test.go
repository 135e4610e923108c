// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator_Generate(t *testing.T) {
	g := NewUUIDGenerator()

	id := g.Generate()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, id, g.Generate())
}

func TestUUIDGenerator_GenerateShort(t *testing.T) {
	g := NewUUIDGenerator()
	seen := make(map[string]struct{})

	for range 100 {
		id := g.GenerateShort()
		assert.Len(t, id, shortIDLength)
		assert.Regexp(t, "^[0-9a-f]{8}$", id)
		seen[id] = struct{}{}
	}
	assert.Greater(t, len(seen), 95)
}
