// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package replication

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/internal/utils"
	"github.com/MKhiriev/go-inventory-sync/models"
)

const eventBufferSize = 16

// Replicator starts replications between pairs of databases.
type Replicator struct {
	logger *logger.Logger
}

func NewReplicator(logger *logger.Logger) *Replicator {
	return &Replicator{logger: logger}
}

// Replication is the handle of one running replication.
type Replication struct {
	events chan Event
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
}

func (r *Replication) Events() <-chan Event {
	return r.events
}

func (r *Replication) Cancel() {
	r.once.Do(r.cancel)
}

// Done is closed after the event channel has been closed.
func (r *Replication) Done() <-chan struct{} {
	return r.done
}

func (r *Replication) emit(ctx context.Context, ev Event) bool {
	select {
	case r.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// Sync starts a bidirectional replication between local and remote. The
// replication stops when ctx is done or the returned handle is cancelled.
func (r *Replicator) Sync(ctx context.Context, local, remote Database, opts Options) Handle {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(ctx)

	rep := &Replication{
		events: make(chan Event, eventBufferSize),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go r.run(ctx, rep, local, remote, opts)
	return rep
}

func (r *Replicator) run(ctx context.Context, rep *Replication, local, remote Database, opts Options) {
	defer close(rep.done)
	defer close(rep.events)
	defer rep.Cancel()

	logCtx := r.logger.With().
		Str("local", local.Name()).
		Str("remote", remote.Name()).
		Bool("live", opts.Live)
	if serverID, ok := utils.GetServerIDFromContext(ctx); ok {
		logCtx = logCtx.Str(logger.FieldServerID, serverID)
	}
	log := logCtx.Logger()
	emit := func(ev Event) bool { return rep.emit(ctx, ev) }

	push := &leg{dir: Push, source: local, target: remote, opts: opts, emit: emit, logger: &logger.Logger{Logger: log}}
	pull := &leg{dir: Pull, source: remote, target: local, opts: opts, emit: emit, logger: &logger.Logger{Logger: log}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return push.run(gctx) })
	g.Go(func() error { return pull.run(gctx) })
	err := g.Wait()

	if ctx.Err() != nil {
		log.Debug().Msg("replication cancelled")
		return
	}
	if err != nil {
		log.Warn().Err(err).Msg("replication stopped")
	}
	if opts.Live {
		return
	}

	info := &CompleteInfo{Push: push.result, Pull: pull.result}
	log.Debug().
		Bool("push_ok", info.Push.OK).
		Bool("pull_ok", info.Pull.OK).
		Int("push_errors", len(info.Push.Errors)).
		Int("pull_errors", len(info.Pull.Errors)).
		Msg("replication complete")
	rep.emit(ctx, Event{Kind: EventComplete, Complete: info})
}

type batch struct {
	changes []models.Change
	lastSeq models.Seq
	pending int64
	idle    bool
}

// leg replicates one direction. Its fields are only touched by the writer
// goroutine of the current pass and, between passes, by run.
type leg struct {
	dir    Direction
	source Database
	target Database
	opts   Options
	emit   func(Event) bool
	logger *logger.Logger

	since  models.Seq
	paused bool
	result Result
}

func (l *leg) run(ctx context.Context) error {
	l.loadCheckpoint(ctx)
	l.result.LastSeq = l.since

	var err error
	if l.opts.AutoRetry {
		err = l.runWithRetry(ctx)
	} else {
		err = l.pass(ctx)
		if err != nil && ctx.Err() == nil {
			l.emit(Event{Kind: EventError, Direction: l.dir, Err: err})
		}
	}

	l.result.OK = err == nil
	l.result.Err = err
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (l *leg) runWithRetry(ctx context.Context) error {
	backoff := retry.NewExponential(l.opts.RetryInitialBackoff)
	backoff = retry.WithCappedDuration(l.opts.RetryMaxBackoff, backoff)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := l.pass(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		l.emit(Event{Kind: EventError, Direction: l.dir, Err: err})
		if !l.opts.IsRetryable(err) {
			l.logger.Warn().Err(err).Str("direction", string(l.dir)).Msg("non-retryable replication error")
			return err
		}

		l.logger.Debug().Err(err).Str("direction", string(l.dir)).Msg("replication pass failed, retrying")
		if !l.paused {
			l.paused = true
			l.emit(Event{Kind: EventPaused, Direction: l.dir, Err: err})
		}
		return retry.RetryableError(err)
	})
}

func (l *leg) loadCheckpoint(ctx context.Context) {
	if l.opts.Checkpoints == nil || l.opts.ID == "" {
		return
	}
	seq, err := l.opts.Checkpoints.GetCheckpoint(ctx, l.opts.ID, l.dir)
	if err != nil {
		l.logger.Warn().Err(err).Str("direction", string(l.dir)).Msg("cannot load checkpoint, starting from scratch")
		return
	}
	l.since = seq
}

// pass runs one reader and one writer until the feed is drained (one-shot)
// or an error occurs.
func (l *leg) pass(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	batches := make(chan batch, l.opts.BatchesLimit)

	g.Go(func() error {
		defer close(batches)
		return l.read(gctx, batches)
	})
	g.Go(func() error {
		for b := range batches {
			if err := l.write(gctx, b); err != nil {
				return err
			}
		}
		return nil
	})
	return g.Wait()
}

func (l *leg) read(ctx context.Context, out chan<- batch) error {
	since := l.since
	for {
		resp, err := l.source.Changes(ctx, since, l.opts.BatchSize)
		if err != nil {
			return fmt.Errorf("read %s changes since %q: %w", l.dir, since, err)
		}

		if len(resp.Results) == 0 {
			if !l.opts.Live {
				return nil
			}
			if !send(ctx, out, batch{idle: true}) {
				return ctx.Err()
			}
			if err = sleep(ctx, l.opts.PollInterval); err != nil {
				return err
			}
			continue
		}

		b := batch{changes: resp.Results, lastSeq: resp.LastSeq, pending: resp.Pending}
		if b.lastSeq == "" {
			b.lastSeq = resp.Results[len(resp.Results)-1].Seq
		}
		if !send(ctx, out, b) {
			return ctx.Err()
		}
		since = b.lastSeq

		if !l.opts.Live && len(resp.Results) < l.opts.BatchSize {
			return nil
		}
	}
}

func (l *leg) write(ctx context.Context, b batch) error {
	if b.idle {
		if !l.paused {
			l.paused = true
			l.emit(Event{Kind: EventPaused, Direction: l.dir})
		}
		return nil
	}
	if l.paused {
		l.paused = false
		l.emit(Event{Kind: EventActive, Direction: l.dir})
	}

	info := ChangeInfo{Direction: l.dir, LastSeq: b.lastSeq, Pending: b.pending}

	refs := make([]models.RevisionRef, 0, len(b.changes))
	for _, change := range b.changes {
		for _, rev := range change.Changes {
			refs = append(refs, models.RevisionRef{ID: change.ID, Rev: rev.Rev})
		}
	}

	if len(refs) > 0 {
		docs, failed, err := l.source.BulkGet(ctx, refs)
		if err != nil {
			return fmt.Errorf("fetch %s revisions: %w", l.dir, err)
		}
		info.DocsRead = len(docs)
		info.Errors = append(info.Errors, failed...)

		if len(docs) > 0 {
			results, err := l.target.BulkDocs(ctx, docs)
			if err != nil {
				return fmt.Errorf("store %s revisions: %w", l.dir, err)
			}
			written := len(docs)
			for _, res := range results {
				if !res.Failed() {
					continue
				}
				written--
				info.Errors = append(info.Errors, res)
				if isDenied(res) {
					denied := res
					l.emit(Event{Kind: EventDenied, Direction: l.dir, Denied: &denied})
				}
			}
			info.DocsWritten = written
		}
	}

	l.since = b.lastSeq
	l.result.LastSeq = b.lastSeq
	l.result.DocsRead += info.DocsRead
	l.result.DocsWritten += info.DocsWritten
	l.result.Errors = append(l.result.Errors, info.Errors...)
	l.saveCheckpoint(ctx, b.lastSeq)

	l.logger.Debug().
		Str("direction", string(l.dir)).
		Str("last_seq", string(b.lastSeq)).
		Int("docs_read", info.DocsRead).
		Int("docs_written", info.DocsWritten).
		Int("doc_errors", len(info.Errors)).
		Msg("batch replicated")

	l.emit(Event{Kind: EventChange, Direction: l.dir, Change: &info})
	return nil
}

func (l *leg) saveCheckpoint(ctx context.Context, seq models.Seq) {
	if l.opts.Checkpoints == nil || l.opts.ID == "" {
		return
	}
	if err := l.opts.Checkpoints.SaveCheckpoint(ctx, l.opts.ID, l.dir, seq); err != nil && !errors.Is(err, context.Canceled) {
		l.logger.Warn().Err(err).Str("direction", string(l.dir)).Msg("cannot save checkpoint")
	}
}

func isDenied(res models.DocumentResult) bool {
	return res.Error == "forbidden" || res.Error == "unauthorized"
}

func send(ctx context.Context, out chan<- batch, b batch) bool {
	select {
	case out <- b:
		return true
	case <-ctx.Done():
		return false
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
