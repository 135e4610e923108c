// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ConfigDocumentID is the well-known id of the configuration record every
// compatible database carries.
const ConfigDocumentID = "0000-config"

// Document is a revisioned JSON document as exchanged by the replication
// protocol. Body holds every field except the reserved "_id", "_rev" and
// "_deleted" ones.
type Document struct {
	ID      string
	Rev     string
	Deleted bool
	Body    json.RawMessage
}

// MarshalJSON flattens the document into a single JSON object.
func (d Document) MarshalJSON() ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if len(d.Body) > 0 && !bytes.Equal(bytes.TrimSpace(d.Body), []byte("null")) {
		if err := json.Unmarshal(d.Body, &fields); err != nil {
			return nil, fmt.Errorf("document %q body is not an object: %w", d.ID, err)
		}
	}

	var err error
	if fields["_id"], err = json.Marshal(d.ID); err != nil {
		return nil, err
	}
	if d.Rev != "" {
		if fields["_rev"], err = json.Marshal(d.Rev); err != nil {
			return nil, err
		}
	}
	if d.Deleted {
		fields["_deleted"] = json.RawMessage("true")
	}
	return json.Marshal(fields)
}

// UnmarshalJSON splits the reserved fields from the body.
func (d *Document) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var doc Document
	if raw, ok := fields["_id"]; ok {
		if err := json.Unmarshal(raw, &doc.ID); err != nil {
			return fmt.Errorf("invalid _id: %w", err)
		}
	}
	if raw, ok := fields["_rev"]; ok {
		if err := json.Unmarshal(raw, &doc.Rev); err != nil {
			return fmt.Errorf("invalid _rev: %w", err)
		}
	}
	if raw, ok := fields["_deleted"]; ok {
		if err := json.Unmarshal(raw, &doc.Deleted); err != nil {
			return fmt.Errorf("invalid _deleted: %w", err)
		}
	}
	delete(fields, "_id")
	delete(fields, "_rev")
	delete(fields, "_deleted")
	delete(fields, "_revisions")

	body, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	doc.Body = body
	*d = doc
	return nil
}

// Seq is an opaque sequence cursor. Servers send it either as a number or as
// a composite "<int>-<suffix>" string; both forms are kept verbatim.
type Seq string

// UnmarshalJSON accepts JSON numbers, strings and null.
func (s *Seq) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = Seq(v)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid seq %s: %w", data, err)
		}
		*s = Seq(n.String())
		return nil
	}
}

// MarshalJSON writes purely numeric cursors as numbers and everything else
// as strings.
func (s Seq) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(s), 10, 64); err == nil {
		return []byte(s), nil
	}
	return json.Marshal(string(s))
}

// String implements fmt.Stringer.
func (s Seq) String() string { return string(s) }

// DBInfo is the database summary returned by the info endpoint.
type DBInfo struct {
	DBName    string `json:"db_name"`
	UpdateSeq Seq    `json:"update_seq"`
	DocCount  int64  `json:"doc_count"`
}

// ChangeRev is a single leaf revision listed in a change row.
type ChangeRev struct {
	Rev string `json:"rev"`
}

// Change is one row of a changes feed.
type Change struct {
	Seq     Seq         `json:"seq"`
	ID      string      `json:"id"`
	Changes []ChangeRev `json:"changes"`
	Deleted bool        `json:"deleted,omitempty"`
}

// ChangesResponse is one page of a changes feed.
type ChangesResponse struct {
	Results []Change `json:"results"`
	LastSeq Seq      `json:"last_seq"`
	Pending int64    `json:"pending"`
}

// RevisionRef addresses one revision of one document.
type RevisionRef struct {
	ID  string `json:"id"`
	Rev string `json:"rev,omitempty"`
}

// DocumentResult is the per-document outcome of a bulk read or write.
type DocumentResult struct {
	ID     string `json:"id"`
	Rev    string `json:"rev,omitempty"`
	OK     bool   `json:"ok,omitempty"`
	Error  string `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Failed reports whether the result carries an error.
func (r DocumentResult) Failed() bool {
	return r.Error != ""
}
