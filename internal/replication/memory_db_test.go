// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package replication

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/MKhiriev/go-inventory-sync/models"
)

// memDB is an in-memory Database keeping a single revision per document.
type memDB struct {
	name string

	mu      sync.Mutex
	seq     int64
	docs    map[string]models.Document
	docSeqs map[string]int64

	changesErrs  []error
	bulkDocsFail map[string]string
	changesCalls int
}

func newMemDB(name string) *memDB {
	return &memDB{name: name, docs: map[string]models.Document{}, docSeqs: map[string]int64{}}
}

func (m *memDB) Name() string { return m.name }

func (m *memDB) put(id, rev, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.docs[id] = models.Document{ID: id, Rev: rev, Body: json.RawMessage(body)}
	m.docSeqs[id] = m.seq
}

func (m *memDB) get(id string) (models.Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	return doc, ok
}

func (m *memDB) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

func (m *memDB) Info(context.Context) (models.DBInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.DBInfo{DBName: m.name, UpdateSeq: models.Seq(strconv.FormatInt(m.seq, 10)), DocCount: int64(len(m.docs))}, nil
}

func (m *memDB) Changes(_ context.Context, since models.Seq, limit int) (models.ChangesResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changesCalls++
	if len(m.changesErrs) > 0 {
		err := m.changesErrs[0]
		m.changesErrs = m.changesErrs[1:]
		if err != nil {
			return models.ChangesResponse{}, err
		}
	}

	from, _ := ParseSeq(since)
	var rows []models.Change
	for id, seq := range m.docSeqs {
		if seq > from {
			rows = append(rows, models.Change{
				Seq:     models.Seq(strconv.FormatInt(seq, 10)),
				ID:      id,
				Changes: []models.ChangeRev{{Rev: m.docs[id].Rev}},
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, _ := ParseSeq(rows[i].Seq)
		b, _ := ParseSeq(rows[j].Seq)
		return a < b
	})

	pending := int64(0)
	if len(rows) > limit {
		pending = int64(len(rows) - limit)
		rows = rows[:limit]
	}
	resp := models.ChangesResponse{Results: rows, Pending: pending, LastSeq: since}
	if len(rows) > 0 {
		resp.LastSeq = rows[len(rows)-1].Seq
	}
	return resp, nil
}

func (m *memDB) BulkGet(_ context.Context, refs []models.RevisionRef) ([]models.Document, []models.DocumentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var docs []models.Document
	var failed []models.DocumentResult
	for _, ref := range refs {
		doc, ok := m.docs[ref.ID]
		if !ok || doc.Rev != ref.Rev {
			failed = append(failed, models.DocumentResult{ID: ref.ID, Rev: ref.Rev, Error: "not_found", Reason: "missing"})
			continue
		}
		docs = append(docs, doc)
	}
	return docs, failed, nil
}

func (m *memDB) BulkDocs(_ context.Context, docs []models.Document) ([]models.DocumentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var results []models.DocumentResult
	for _, doc := range docs {
		if reason, ok := m.bulkDocsFail[doc.ID]; ok {
			results = append(results, models.DocumentResult{ID: doc.ID, Rev: doc.Rev, Error: reason, Reason: "rejected"})
			continue
		}
		if current, ok := m.docs[doc.ID]; ok && current.Rev == doc.Rev {
			continue
		}
		m.seq++
		m.docs[doc.ID] = doc
		m.docSeqs[doc.ID] = m.seq
	}
	return results, nil
}

// memCheckpoints is an in-memory Checkpointer.
type memCheckpoints struct {
	mu   sync.Mutex
	seqs map[string]models.Seq
}

func newMemCheckpoints() *memCheckpoints {
	return &memCheckpoints{seqs: map[string]models.Seq{}}
}

func (c *memCheckpoints) key(id string, dir Direction) string {
	return fmt.Sprintf("%s/%s", id, dir)
}

func (c *memCheckpoints) GetCheckpoint(_ context.Context, id string, dir Direction) (models.Seq, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seqs[c.key(id, dir)], nil
}

func (c *memCheckpoints) SaveCheckpoint(_ context.Context, id string, dir Direction, seq models.Seq) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seqs[c.key(id, dir)] = seq
	return nil
}
