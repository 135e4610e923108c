// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_UnmarshalJSON_SplitsReservedFields(t *testing.T) {
	var doc Document
	err := json.Unmarshal([]byte(`{"_id":"item-1","_rev":"2-abc","_deleted":true,"name":"drill","qty":3}`), &doc)
	require.NoError(t, err)

	assert.Equal(t, "item-1", doc.ID)
	assert.Equal(t, "2-abc", doc.Rev)
	assert.True(t, doc.Deleted)
	assert.JSONEq(t, `{"name":"drill","qty":3}`, string(doc.Body))
}

func TestDocument_MarshalJSON_FlattensBody(t *testing.T) {
	doc := Document{ID: "item-1", Rev: "1-aa", Body: json.RawMessage(`{"name":"drill"}`)}

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"item-1","_rev":"1-aa","name":"drill"}`, string(out))
}

func TestDocument_MarshalJSON_RejectsNonObjectBody(t *testing.T) {
	_, err := json.Marshal(Document{ID: "x", Body: json.RawMessage(`[1,2]`)})
	require.Error(t, err)
}

func TestSeq_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Seq
	}{
		{name: "number", in: `42`, want: "42"},
		{name: "composite string", in: `"42-g1AAAA"`, want: "42-g1AAAA"},
		{name: "null", in: `null`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Seq
			require.NoError(t, json.Unmarshal([]byte(tt.in), &s))
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestSeq_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(Seq("17"))
	require.NoError(t, err)
	assert.Equal(t, `17`, string(out))

	out, err = json.Marshal(Seq("17-abc"))
	require.NoError(t, err)
	assert.Equal(t, `"17-abc"`, string(out))
}

func TestStatusUpdate_ApplyTo_OnlyTouchesSetFields(t *testing.T) {
	base := SyncStatus{Status: StatusSyncing, LastErrorMessage: "old"}
	base = NewStatusUpdate("a", 1).WithLocalSeq(5).WithPushLastSeq(5).ApplyTo(base)

	got := NewStatusUpdate("a", 1).WithRemoteSeq(9).ApplyTo(base)

	assert.Equal(t, StatusSyncing, got.Status)
	assert.Equal(t, "old", got.LastErrorMessage)
	require.NotNil(t, got.LocalSeq)
	assert.EqualValues(t, 5, *got.LocalSeq)
	require.NotNil(t, got.RemoteSeq)
	assert.EqualValues(t, 9, *got.RemoteSeq)
	assert.Nil(t, got.PullLastSeq)
}

func TestServerConfig_Redacted(t *testing.T) {
	s := ServerConfig{ID: "a", Password: "secret"}
	assert.Equal(t, "********", s.Redacted().Password)
	assert.Equal(t, "secret", s.Password)
	assert.Empty(t, ServerConfig{}.Redacted().Password)
}

func TestServerUpdate_ApplyTo(t *testing.T) {
	name := "new"
	enabled := false
	got := ServerUpdate{Name: &name, Enabled: &enabled}.ApplyTo(ServerConfig{ID: "a", Name: "old", URI: "u", Enabled: true})

	assert.Equal(t, ServerConfig{ID: "a", Name: "new", URI: "u", Enabled: false}, got)
}
