// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package replication

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-inventory-sync/models"
)

func TestParseSeq(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   int64
		wantOK bool
	}{
		{name: "composite string", in: "42-abc123", want: 42, wantOK: true},
		{name: "plain int", in: 42, want: 42, wantOK: true},
		{name: "int64", in: int64(7), want: 7, wantOK: true},
		{name: "float from json", in: float64(13), want: 13, wantOK: true},
		{name: "json number", in: json.Number("99"), want: 99, wantOK: true},
		{name: "seq type", in: models.Seq("5-g1AAAA"), want: 5, wantOK: true},
		{name: "numeric string", in: "0", want: 0, wantOK: true},
		{name: "nil", in: nil, wantOK: false},
		{name: "not a number", in: "not-a-number", wantOK: false},
		{name: "empty string", in: "", wantOK: false},
		{name: "empty seq", in: models.Seq(""), wantOK: false},
		{name: "unsupported type", in: struct{}{}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSeq(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCheckpointID_StableAndDistinct(t *testing.T) {
	a := CheckpointID("local", "https://a.example.com/db")
	assert.Equal(t, a, CheckpointID("local", "https://a.example.com/db"))
	assert.NotEqual(t, a, CheckpointID("local", "https://b.example.com/db"))
	assert.Len(t, a, 32)
}
