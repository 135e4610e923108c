// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAppBuildInfo(t *testing.T) {
	info := NewAppBuildInfo("1.4.0", "2026-10-01", "abc123")
	assert.Equal(t, "1.4.0", info.BuildVersion())
	assert.Equal(t, "2026-10-01", info.BuildDate())
	assert.Equal(t, "abc123", info.BuildCommit())
	assert.Equal(t, "1.4.0 (commit abc123, built 2026-10-01)", info.String())

	empty := NewAppBuildInfo("", "", "")
	assert.Equal(t, "N/A", empty.BuildVersion())
	assert.Equal(t, "N/A (commit N/A, built N/A)", empty.String())
}
