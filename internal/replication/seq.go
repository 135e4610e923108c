// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package replication

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-inventory-sync/models"
)

// ParseSeq extracts the numeric part of a sequence cursor.
//
// Cursors arrive as plain integers or as "<int>-<opaque>" strings. The
// second return value is false for nil and for anything without a leading
// integer.
func ParseSeq(v any) (int64, bool) {
	switch seq := v.(type) {
	case nil:
		return 0, false
	case int:
		return int64(seq), true
	case int32:
		return int64(seq), true
	case int64:
		return seq, true
	case uint64:
		if seq > math.MaxInt64 {
			return 0, false
		}
		return int64(seq), true
	case float64:
		if math.IsNaN(seq) || math.IsInf(seq, 0) {
			return 0, false
		}
		return int64(seq), true
	case json.Number:
		return parseSeqString(seq.String())
	case models.Seq:
		return parseSeqString(string(seq))
	case *models.Seq:
		if seq == nil {
			return 0, false
		}
		return parseSeqString(string(*seq))
	case string:
		return parseSeqString(seq)
	default:
		return 0, false
	}
}

func parseSeqString(s string) (int64, bool) {
	head, _, _ := strings.Cut(strings.TrimSpace(s), "-")
	if head == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(head, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CheckpointID derives a stable checkpoint id from the local database name
// and the remote database URI.
func CheckpointID(localName, remoteURI string) string {
	sum := sha256.Sum256([]byte(localName + "\x00" + remoteURI))
	return hex.EncodeToString(sum[:16])
}
