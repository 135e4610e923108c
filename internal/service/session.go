// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-inventory-sync/internal/adapter"
	"github.com/MKhiriev/go-inventory-sync/internal/app"
	"github.com/MKhiriev/go-inventory-sync/internal/config"
	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/internal/replication"
	"github.com/MKhiriev/go-inventory-sync/internal/store"
	"github.com/MKhiriev/go-inventory-sync/internal/utils"
	"github.com/MKhiriev/go-inventory-sync/models"
)

// SessionPhase is the lifecycle position of a replication session.
type SessionPhase string

const (
	PhaseIdle          SessionPhase = "idle"
	PhaseStartup       SessionPhase = "startup"
	PhaseStartupFailed SessionPhase = "startup_failed"
	PhaseLive          SessionPhase = "live"
	PhaseCancelled     SessionPhase = "cancelled"
)

// SessionDeps are the collaborators shared by every session.
type SessionDeps struct {
	Connector   Connector
	Local       store.LocalDatabase
	Replicator  Replicator
	Checkpoints replication.Checkpointer

	// LocalName identifies the local database in checkpoint ids.
	LocalName string
}

type sessionDeps struct {
	SessionDeps

	statuses StatusSink
	cfg      config.ClientSync
	now      func() time.Time
	logger   *logger.Logger
}

// seqs are the last known counters of a session. Nil means unknown.
type seqs struct {
	local  *int64
	remote *int64
	push   *int64
	pull   *int64
}

// Session replicates the local database with one server: a bounded one-shot
// start-up sync followed by a live sync. Every status change is reported to
// the StatusSink stamped with the session generation.
type Session struct {
	deps       sessionDeps
	server     models.ServerConfig
	generation uint64
	logger     *logger.Logger
	done       chan struct{}

	mu        sync.Mutex
	started   bool
	cancelled bool
	cancelRun context.CancelFunc
	handle    replication.Handle
	phase     SessionPhase

	// Owned by the Run goroutine.
	remote           adapter.RemoteDatabase
	startupSucceeded bool
	initialPushSeq   *int64
	initialPullSeq   *int64
	seqs             seqs
	lastStatus       models.ServerStatus
}

func newSession(deps sessionDeps, server models.ServerConfig, generation uint64) *Session {
	if deps.now == nil {
		deps.now = time.Now
	}
	return &Session{
		deps:       deps,
		server:     server,
		generation: generation,
		logger:     deps.logger.WithServer(server.ID, server.Name),
		done:       make(chan struct{}),
		phase:      PhaseIdle,
	}
}

func (s *Session) Server() models.ServerConfig { return s.server }

func (s *Session) Generation() uint64 { return s.generation }

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) Phase() SessionPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Cancel stops the session. It is safe to call at any time, also before Run
// and more than once. No status is reported after Cancel returns.
func (s *Session) Cancel() {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	s.phase = PhaseCancelled
	handle, cancel := s.handle, s.cancelRun
	s.mu.Unlock()

	if handle != nil {
		handle.Cancel()
	}
	if cancel != nil {
		cancel()
	}
	s.logger.Debug().Uint64("generation", s.generation).Msg("session cancelled")
}

// Run drives the session until it is cancelled, ctx is done, the start-up
// sync failed or the live sync stopped. A second call returns immediately.
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(utils.WithServerID(ctx, s.server.ID))
	defer cancel()

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.cancelRun = cancel
	cancelled := s.cancelled
	s.mu.Unlock()

	defer close(s.done)
	if cancelled {
		return
	}

	remote, err := s.deps.Connector.Connect(ctx, s.server)
	if err != nil {
		if s.isCancelled() || ctx.Err() != nil {
			return
		}
		s.failConnect(ctx, err)
		return
	}
	if s.isCancelled() {
		s.logger.Debug().Msg("cancelled while connecting")
		return
	}

	s.remote = remote
	s.setPhase(PhaseStartup)
	s.report(ctx, s.update().WithStatus(models.StatusSyncing))

	if !s.runStartup(ctx) {
		return
	}
	s.runLive(ctx)
}

func (s *Session) failConnect(ctx context.Context, err error) {
	var syncErr *SyncError
	if !errors.As(err, &syncErr) {
		syncErr = newSyncError(KindUnknown, app.MsgUnexpectedStartError+": "+err.Error(), err)
		s.logger.Error().Err(err).Msg(app.MsgUnexpectedStartError)
	}
	s.setPhase(PhaseStartupFailed)
	s.logger.Info().Str("kind", string(syncErr.Kind)).Msg("Cannot get remote database, skipping.")
	s.report(ctx, s.update().
		WithStatus(statusForKind(syncErr.Kind)).
		WithErrorMessage(syncErr.Message))
}

func (s *Session) runStartup(ctx context.Context) bool {
	handle, ok := s.start(ctx, false)
	if !ok {
		return false
	}
	defer handle.Cancel()
	s.logger.Info().Msg("start-up sync started")

	for ev := range handle.Events() {
		if ev.Kind == replication.EventComplete {
			return s.onStartupComplete(ctx, ev.Complete)
		}
		s.handleEvent(ctx, ev)
	}
	return false
}

func (s *Session) runLive(ctx context.Context) {
	handle, ok := s.start(ctx, true)
	if !ok {
		return
	}
	defer handle.Cancel()
	s.setPhase(PhaseLive)
	s.logger.Info().Msg("live sync started")

	for ev := range handle.Events() {
		if ev.Kind == replication.EventChange {
			s.onLiveChange(ctx, ev.Change)
			continue
		}
		s.handleEvent(ctx, ev)
	}

	if !s.isCancelled() && ctx.Err() == nil {
		s.logger.Warn().Msg("live sync stopped")
	}
}

// start creates a replication and binds it to the session. A session that
// got cancelled meanwhile cancels the new handle instead of using it.
func (s *Session) start(ctx context.Context, live bool) (replication.Handle, bool) {
	cfg := s.deps.cfg
	handle := s.deps.Replicator.Sync(ctx, s.deps.Local, s.remote, replication.Options{
		Live:                live,
		BatchSize:           cfg.BatchSize,
		BatchesLimit:        cfg.BatchesLimit,
		AutoRetry:           true,
		RetryInitialBackoff: cfg.RetryInitialBackoff,
		RetryMaxBackoff:     cfg.RetryMaxBackoff,
		PollInterval:        cfg.LivePollInterval,
		Checkpoints:         s.deps.Checkpoints,
		ID:                  replication.CheckpointID(s.deps.LocalName, s.remote.Name()),
		IsRetryable:         isRetryable,
	})

	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		handle.Cancel()
		return nil, false
	}
	s.handle = handle
	s.mu.Unlock()
	return handle, true
}

func (s *Session) handleEvent(ctx context.Context, ev replication.Event) {
	switch ev.Kind {
	case replication.EventChange:
		s.report(ctx, s.applyChange(ctx, ev.Change))

	case replication.EventError:
		s.onError(ctx, ev)

	case replication.EventActive:
		s.logger.Debug().Str("direction", string(ev.Direction)).Msg("Event: active")
		if s.lastStatus != models.StatusSyncing {
			s.report(ctx, s.update().WithStatus(models.StatusSyncing))
		}

	case replication.EventPaused:
		s.logger.Debug().Err(ev.Err).Str("direction", string(ev.Direction)).Msg("Event: paused")

	case replication.EventDenied:
		if ev.Denied != nil {
			s.logger.Error().
				Str("direction", string(ev.Direction)).
				Str("doc_id", ev.Denied.ID).
				Str("error", ev.Denied.Error).
				Str("reason", ev.Denied.Reason).
				Msg("Event: denied")
		}
	}
}

func (s *Session) onError(ctx context.Context, ev replication.Event) {
	syncErr := classifyError(ev.Err)
	if syncErr == nil {
		return
	}
	message := app.MsgSyncError + ": " + syncErr.Message

	s.logger.Error().
		Err(ev.Err).
		Str("direction", string(ev.Direction)).
		Str("kind", string(syncErr.Kind)).
		Msg(app.MsgSyncError)
	s.report(ctx, s.update().
		WithStatus(replicationStatusForKind(syncErr.Kind)).
		WithErrorMessage(message))
}

func (s *Session) onStartupComplete(ctx context.Context, info *replication.CompleteInfo) bool {
	if s.isCancelled() || info == nil {
		return false
	}

	u := s.update()
	if v, ok := s.dbSeq(ctx, s.deps.Local); ok {
		s.seqs.local = &v
		u = u.WithLocalSeq(v)
	}
	if v, ok := s.dbSeq(ctx, s.remote); ok {
		s.seqs.remote = &v
		u = u.WithRemoteSeq(v)
	}
	if v, ok := resultSeq(info.Push); ok {
		s.seqs.push = &v
		s.initialPushSeq = seqPtr(v)
		u = u.WithPushLastSeq(v)
	}
	if v, ok := resultSeq(info.Pull); ok {
		s.seqs.pull = &v
		s.initialPullSeq = seqPtr(v)
		u = u.WithPullLastSeq(v)
	}

	if !info.Push.OK || !info.Pull.OK {
		err := info.Cause()
		syncErr := classifyError(err)
		if syncErr == nil {
			syncErr = newSyncError(KindUnknown, "replication did not finish", nil)
		}
		s.setPhase(PhaseStartupFailed)
		s.logger.Error().
			Err(err).
			Bool("push_ok", info.Push.OK).
			Bool("pull_ok", info.Pull.OK).
			Msg(app.MsgStartupIncomplete)
		s.report(ctx, u.
			WithStatus(replicationStatusForKind(syncErr.Kind)).
			WithErrorMessage(app.MsgStartupIncomplete+": "+syncErr.Message))
		return false
	}

	if info.Succeeded() {
		s.startupSucceeded = true
		now := s.deps.now()
		u = u.WithStatus(models.StatusOnline).WithLastSyncedAt(now)
		s.logger.Info().
			Int("pushed", info.Push.DocsWritten).
			Int("pulled", info.Pull.DocsWritten).
			Time("last_synced_at", now).
			Msg("Start-up sync completed")
	} else {
		u = u.WithStatus(models.StatusSyncing)
		s.logger.Error().
			Int("push_errors", len(info.Push.Errors)).
			Int("pull_errors", len(info.Pull.Errors)).
			Msg(app.MsgStartupIncomplete)
	}
	s.report(ctx, u)
	return true
}

func (s *Session) onLiveChange(ctx context.Context, info *replication.ChangeInfo) {
	if info == nil {
		return
	}
	u := s.applyChange(ctx, info)

	if s.caughtUp() {
		now := s.deps.now()
		u = u.WithStatus(models.StatusOnline).WithLastSyncedAt(now)
		s.logger.Info().Time("last_synced_at", now).Msg("Sync completed")
	} else {
		u = u.WithStatus(models.StatusSyncing)
	}
	s.report(ctx, u)
}

// applyChange records the counters of the direction the batch belongs to.
// The other direction's counters are left untouched.
func (s *Session) applyChange(ctx context.Context, info *replication.ChangeInfo) models.StatusUpdate {
	u := s.update()
	if info == nil {
		return u
	}

	lastSeq, seqOK := replication.ParseSeq(info.LastSeq)
	switch info.Direction {
	case replication.Push:
		if v, ok := s.dbSeq(ctx, s.deps.Local); ok {
			s.seqs.local = &v
			u = u.WithLocalSeq(v)
		}
		if seqOK {
			s.seqs.push = &lastSeq
			u = u.WithPushLastSeq(lastSeq)
		}
	case replication.Pull:
		if v, ok := s.dbSeq(ctx, s.remote); ok {
			s.seqs.remote = &v
			u = u.WithRemoteSeq(v)
		}
		if seqOK {
			s.seqs.pull = &lastSeq
			u = u.WithPullLastSeq(lastSeq)
		}
	}

	if len(info.Errors) > 0 {
		s.logger.Warn().
			Str("direction", string(info.Direction)).
			Int("doc_errors", len(info.Errors)).
			Str("first_error", info.Errors[0].Error).
			Str("first_reason", info.Errors[0].Reason).
			Msg("documents failed to replicate")
	}
	s.logger.Debug().
		Str("direction", string(info.Direction)).
		Str("last_seq", string(info.LastSeq)).
		Int64("pending", info.Pending).
		Msg("Event: change")
	return u
}

// caughtUp compares both directions' cursors with the update seq of their
// source. A cursor that started at zero after a successful start-up and
// never moved also counts: such a database has never been written.
func (s *Session) caughtUp() bool {
	pushDone := seqEqual(s.seqs.local, s.seqs.push)
	pullDone := seqEqual(s.seqs.remote, s.seqs.pull)

	if s.startupSucceeded {
		if isZeroSeq(s.initialPushSeq) && seqEqual(s.initialPushSeq, s.seqs.push) {
			pushDone = true
		}
		if isZeroSeq(s.initialPullSeq) && seqEqual(s.initialPullSeq, s.seqs.pull) {
			pullDone = true
		}
	}
	return pushDone && pullDone
}

func (s *Session) dbSeq(ctx context.Context, db replication.Database) (int64, bool) {
	info, err := db.Info(ctx)
	if err != nil {
		s.logger.Debug().Err(err).Str("db", db.Name()).Msg("cannot read update seq")
		return 0, false
	}
	return replication.ParseSeq(info.UpdateSeq)
}

func (s *Session) update() models.StatusUpdate {
	return models.NewStatusUpdate(s.server.ID, s.generation)
}

func (s *Session) report(ctx context.Context, u models.StatusUpdate) {
	if s.isCancelled() || u.IsEmpty() {
		return
	}
	if u.Status != nil {
		s.lastStatus = *u.Status
	}
	s.deps.statuses.Report(ctx, u)
}

func (s *Session) isCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

func (s *Session) setPhase(phase SessionPhase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.phase = phase
	s.logger.Debug().Str("phase", string(phase)).Msg("session phase changed")
}

// resultSeq reads the final cursor of a direction. An empty cursor is the
// start of the feed.
func resultSeq(r replication.Result) (int64, bool) {
	if r.LastSeq == "" {
		return 0, true
	}
	return replication.ParseSeq(r.LastSeq)
}

func seqEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func isZeroSeq(v *int64) bool {
	return v != nil && *v == 0
}

func seqPtr(v int64) *int64 {
	return &v
}
