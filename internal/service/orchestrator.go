// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-inventory-sync/internal/app"
	"github.com/MKhiriev/go-inventory-sync/internal/config"
	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/internal/network"
	"github.com/MKhiriev/go-inventory-sync/internal/utils"
	"github.com/MKhiriev/go-inventory-sync/models"
)

// sessionFactory creates a session that has not been started yet.
type sessionFactory func(server models.ServerConfig, generation uint64) *Session

type orchestrator struct {
	settings   SettingsSource
	network    network.Monitor
	statuses   StatusReporter
	newSession sessionFactory
	cfg        config.ClientSync
	logger     *logger.Logger

	lifecycle chan bool

	// Owned by the Run goroutine.
	sessions    map[string]*Session
	current     *models.SyncSettings
	net         *models.NetworkState
	known       map[string]struct{}
	suspended   bool
	graceTimer  *time.Timer
	graceExpiry <-chan time.Time
}

// NewOrchestrator wires the sync orchestrator. Sessions are built from deps
// and report to statuses.
func NewOrchestrator(settings SettingsSource, monitor network.Monitor, statuses StatusReporter, deps SessionDeps, cfg config.ClientSync, logger *logger.Logger) Orchestrator {
	shared := sessionDeps{
		SessionDeps: deps,
		statuses:    statuses,
		cfg:         cfg,
		now:         time.Now,
		logger:      logger.WithComponent("session"),
	}
	return newOrchestrator(settings, monitor, statuses, func(server models.ServerConfig, generation uint64) *Session {
		return newSession(shared, server, generation)
	}, cfg, logger)
}

func newOrchestrator(settings SettingsSource, monitor network.Monitor, statuses StatusReporter, factory sessionFactory, cfg config.ClientSync, logger *logger.Logger) *orchestrator {
	return &orchestrator{
		settings:   settings,
		network:    monitor,
		statuses:   statuses,
		newSession: factory,
		cfg:        cfg,
		logger:     logger.WithComponent("orchestrator"),
		lifecycle:  make(chan bool, 1),
		sessions:   make(map[string]*Session),
		known:      make(map[string]struct{}),
	}
}

func (o *orchestrator) SetForeground(foreground bool) {
	utils.OfferLatest(o.lifecycle, foreground)
}

// Run evaluates the desired set of sessions on every settings, network or
// lifecycle change until ctx is done. Every session is cancelled and awaited
// before Run returns.
func (o *orchestrator) Run(ctx context.Context) error {
	settingsCh, unsubscribeSettings := o.settings.Subscribe()
	defer unsubscribeSettings()
	networkCh, unsubscribeNetwork := o.network.Subscribe()
	defer unsubscribeNetwork()

	defer o.stopGraceTimer()
	defer o.stopAll()

	o.logger.Info().Msg("sync orchestrator started")
	for {
		select {
		case <-ctx.Done():
			o.logger.Info().Msg("sync orchestrator stopped")
			return nil

		case settings, ok := <-settingsCh:
			if !ok {
				settingsCh = nil
				continue
			}
			o.onSettings(ctx, settings)

		case state, ok := <-networkCh:
			if !ok {
				networkCh = nil
				continue
			}
			o.onNetwork(ctx, state)

		case foreground := <-o.lifecycle:
			o.onLifecycle(ctx, foreground)

		case <-o.graceExpiry:
			o.graceTimer, o.graceExpiry = nil, nil
			o.suspended = true
			o.logger.Info().Msg("grace period expired, suspending sync")
			o.reconcile(ctx)
		}
	}
}

func (o *orchestrator) onSettings(ctx context.Context, settings models.SyncSettings) {
	o.logger.Info().Any("settings", settings.Redacted()).Msg("sync settings changed")

	o.forgetDeleted(settings)
	o.current = &settings
	o.reconcile(ctx)
}

func (o *orchestrator) onNetwork(ctx context.Context, state models.NetworkState) {
	o.logger.Info().
		Bool("connected", state.Connected).
		Str("type", state.Type).
		Bool("costly", state.Costly).
		Msgf("Network state changed. Is connected: %t, type: %s, expensive: %t.", state.Connected, state.Type, state.Costly)

	prev := o.net
	o.net = &state

	if prev != nil && prev.Connected && state.Connected && prev.Type != state.Type {
		o.logger.Info().Str("from", prev.Type).Str("to", state.Type).Msg("network connection type changed, restarting sync")
		o.stopAll()
	}
	o.reconcile(ctx)
}

func (o *orchestrator) onLifecycle(ctx context.Context, foreground bool) {
	if !foreground {
		if o.graceTimer != nil || o.suspended {
			return
		}
		o.logger.Debug().Dur("grace_period", o.cfg.GracePeriod).Msg("app went to background")
		o.graceTimer = time.NewTimer(o.cfg.GracePeriod)
		o.graceExpiry = o.graceTimer.C
		return
	}

	o.stopGraceTimer()
	if o.suspended {
		o.suspended = false
		o.logger.Info().Msg("app back in foreground, resuming sync")
		o.reconcile(ctx)
	}
}

// reconcile brings the running sessions in line with the current inputs.
// Sessions whose server config did not change are left running.
func (o *orchestrator) reconcile(ctx context.Context) {
	if o.current == nil {
		return
	}
	settings := *o.current

	switch {
	case !settings.Enabled:
		o.logger.Info().Msg("DB sync is not enabled.")
		o.stopAll()
		o.reportAll(ctx, settings, models.StatusNotEvaluated, "")
		return

	case o.suspended:
		o.stopAll()
		o.reportAll(ctx, settings, models.StatusNotEvaluated, "")
		return

	case o.net == nil:
		o.logger.Info().Msg(app.MsgNetworkUnknown)
		o.stopAll()
		o.reportAll(ctx, settings, models.StatusOffline, app.MsgNetworkUnknown)
		return

	case !o.net.Connected:
		o.logger.Info().Msg(app.MsgDeviceOffline)
		o.stopAll()
		o.reportAll(ctx, settings, models.StatusOffline, app.MsgDeviceOffline)
		return

	case o.net.Costly && !o.cfg.AllowCostlyNetwork:
		o.logger.Info().Msg(app.MsgCostlyNetwork)
		o.stopAll()
		o.reportAll(ctx, settings, models.StatusOffline, app.MsgCostlyNetwork)
		return
	}

	if len(settings.Servers) == 0 {
		o.logger.Info().Msg("No servers configured, skipping.")
		return
	}

	var toStart []models.ServerConfig
	var toStop []string
	disabled := 0
	for _, server := range settings.Servers {
		session, running := o.sessions[server.ID]
		if !server.Enabled {
			disabled++
			if running {
				toStop = append(toStop, server.ID)
			}
			continue
		}
		if running && session.Server() == server {
			continue
		}
		if running {
			toStop = append(toStop, server.ID)
		}
		toStart = append(toStart, server)
	}

	if len(toStop) > 0 {
		o.logger.Info().Strs("server_ids", toStop).Msg("Config updated, cancelling sync...")
		o.stop(toStop...)
	}
	for _, server := range settings.Servers {
		if !server.Enabled {
			o.report(ctx, server.ID, models.StatusDisabled, "")
		}
	}

	if len(toStart) == 0 {
		return
	}
	o.logger.Info().
		Int("starting", len(toStart)).
		Int("disabled", disabled).
		Msgf("Starting sync for %d servers.", len(toStart))

	for _, server := range toStart {
		generation := o.statuses.NextGeneration(server.ID)
		o.statuses.Report(ctx, models.NewStatusUpdate(server.ID, generation).
			WithStatus(models.StatusInitializing).
			WithErrorMessage(""))

		session := o.newSession(server, generation)
		o.sessions[server.ID] = session
		go session.Run(ctx)
	}
}

// forgetDeleted stops the sessions of servers that left the registry and
// drops their statuses.
func (o *orchestrator) forgetDeleted(settings models.SyncSettings) {
	present := make(map[string]struct{}, len(settings.Servers))
	for _, server := range settings.Servers {
		present[server.ID] = struct{}{}
	}

	var deleted []string
	for id := range o.known {
		if _, ok := present[id]; !ok {
			deleted = append(deleted, id)
		}
	}
	o.known = present

	if len(deleted) == 0 {
		return
	}
	o.stop(deleted...)
	for _, id := range deleted {
		o.statuses.Remove(id)
	}
	o.logger.Info().Strs("server_ids", deleted).Msg("servers removed")
}

func (o *orchestrator) stopAll() {
	if len(o.sessions) == 0 {
		return
	}
	ids := make([]string, 0, len(o.sessions))
	for id := range o.sessions {
		ids = append(ids, id)
	}
	o.logger.Info().Int("sessions", len(ids)).Msg("Config updated, cancelling all sync...")
	o.stop(ids...)
}

// stop cancels the sessions of ids and waits until every one of them has
// returned.
func (o *orchestrator) stop(ids ...string) {
	var g errgroup.Group
	for _, id := range ids {
		session, ok := o.sessions[id]
		if !ok {
			continue
		}
		delete(o.sessions, id)

		session.Cancel()
		g.Go(func() error {
			<-session.Done()
			return nil
		})
	}
	_ = g.Wait()
}

func (o *orchestrator) reportAll(ctx context.Context, settings models.SyncSettings, status models.ServerStatus, message string) {
	for _, server := range settings.Servers {
		o.report(ctx, server.ID, status, message)
	}
}

// report publishes an orchestrator decision under a fresh generation so that
// nothing a stopped session still has queued can overwrite it.
func (o *orchestrator) report(ctx context.Context, serverID string, status models.ServerStatus, message string) {
	generation := o.statuses.NextGeneration(serverID)
	o.statuses.Report(ctx, models.NewStatusUpdate(serverID, generation).
		WithStatus(status).
		WithErrorMessage(message))
}

func (o *orchestrator) stopGraceTimer() {
	if o.graceTimer != nil {
		o.graceTimer.Stop()
	}
	o.graceTimer, o.graceExpiry = nil, nil
}
