// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "github.com/MKhiriev/go-inventory-sync/models"

// OverallStatus summarizes the statuses of every configured server. The
// first matching rule wins.
func OverallStatus(settings models.SyncSettings, statuses map[string]models.SyncStatus) models.OverallStatus {
	if len(settings.Servers) == 0 {
		return models.OverallNotConfigured
	}
	if !settings.Enabled {
		return models.OverallDisabled
	}

	list := make([]models.ServerStatus, 0, len(settings.Servers))
	for _, server := range settings.Servers {
		list = append(list, statuses[server.ID].Status)
	}

	switch {
	case every(list, func(s models.ServerStatus) bool { return s == models.StatusDisabled }):
		return models.OverallAllDisabled
	case some(list, func(s models.ServerStatus) bool {
		return s == "" || s == models.StatusNotEvaluated || s == models.StatusInitializing
	}):
		return models.OverallInitializing
	case some(list, func(s models.ServerStatus) bool { return s == models.StatusSyncing }):
		return models.OverallSyncing
	case some(list, models.ServerStatus.IsError):
		return models.OverallError
	}

	reachable := make([]models.ServerStatus, 0, len(list))
	for _, s := range list {
		if s != models.StatusDisabled && s != models.StatusOffline {
			reachable = append(reachable, s)
		}
	}
	if len(reachable) > 0 && every(reachable, func(s models.ServerStatus) bool { return s == models.StatusOnline }) {
		return models.OverallOnline
	}
	if some(list, func(s models.ServerStatus) bool { return s == models.StatusOffline }) {
		return models.OverallOffline
	}
	return models.OverallUnknown
}

func every(list []models.ServerStatus, fn func(models.ServerStatus) bool) bool {
	for _, s := range list {
		if !fn(s) {
			return false
		}
	}
	return true
}

func some(list []models.ServerStatus, fn func(models.ServerStatus) bool) bool {
	for _, s := range list {
		if fn(s) {
			return true
		}
	}
	return false
}
