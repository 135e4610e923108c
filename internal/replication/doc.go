// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package replication implements changes-feed replication between two
// revisioned document databases.
//
// A [Replicator] runs two directions concurrently: push (local to remote)
// and pull (remote to local). Each direction reads the source changes feed
// in batches of Options.BatchSize, prefetching at most Options.BatchesLimit
// batches ahead of the writer, fetches the listed revisions with BulkGet and
// stores them on the target with BulkDocs. Progress, completion, errors and
// idle transitions are reported on a single typed [Event] channel.
package replication
