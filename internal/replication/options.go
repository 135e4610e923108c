// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package replication

import "time"

const (
	DefaultBatchSize           = 4
	DefaultBatchesLimit        = 2
	DefaultRetryInitialBackoff = time.Second
	DefaultRetryMaxBackoff     = time.Minute
	DefaultPollInterval        = 5 * time.Second
)

// Options configure one replication.
type Options struct {
	// Live keeps the replication running after it caught up, polling the
	// changes feeds every PollInterval.
	Live bool

	BatchSize    int
	BatchesLimit int

	// AutoRetry retries failed passes with exponential backoff between
	// RetryInitialBackoff and RetryMaxBackoff.
	AutoRetry           bool
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration

	PollInterval time.Duration

	// Checkpoints, when set, persists progress under ID so a later
	// replication resumes where this one stopped.
	Checkpoints Checkpointer
	ID          string

	// IsRetryable decides which errors auto-retry may retry. Nil retries
	// everything.
	IsRetryable func(error) bool
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.BatchesLimit <= 0 {
		o.BatchesLimit = DefaultBatchesLimit
	}
	if o.RetryInitialBackoff <= 0 {
		o.RetryInitialBackoff = DefaultRetryInitialBackoff
	}
	if o.RetryMaxBackoff < o.RetryInitialBackoff {
		o.RetryMaxBackoff = o.RetryInitialBackoff
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.IsRetryable == nil {
		o.IsRetryable = func(error) bool { return true }
	}
	return o
}
