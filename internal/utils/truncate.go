// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import "unicode/utf8"

// DiagnosticPayloadLimit bounds raw payloads (HTTP error bodies, replication
// errors) written to logs and status messages.
const DiagnosticPayloadLimit = 512

const truncatedSuffix = "...(truncated)"

// Truncate shortens s to at most limit bytes without splitting a UTF-8
// sequence and marks the cut. A non-positive limit returns s unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + truncatedSuffix
}
