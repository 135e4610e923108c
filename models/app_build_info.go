// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// buildInfoUnknown replaces build metadata that was not injected at link time.
const buildInfoUnknown = "N/A"

// AppBuildInfo carries the build metadata reported by the status API.
type AppBuildInfo struct {
	version string
	date    string
	commit  string
}

// NewAppBuildInfo constructs [AppBuildInfo]. Empty values become "N/A".
func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	return AppBuildInfo{
		version: orUnknown(version),
		date:    orUnknown(date),
		commit:  orUnknown(commit),
	}
}

func (a AppBuildInfo) BuildVersion() string { return a.version }

func (a AppBuildInfo) BuildDate() string { return a.date }

func (a AppBuildInfo) BuildCommit() string { return a.commit }

// String renders the metadata as one line, e.g. "1.4.0 (commit abc123, built 2026-10-01)".
func (a AppBuildInfo) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", a.version, a.commit, a.date)
}

func orUnknown(v string) string {
	if v == "" {
		return buildInfoUnknown
	}
	return v
}
