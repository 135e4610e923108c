// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package network carries the device connectivity state into the sync core.
//
// The core never probes the network itself. The host platform (the HTTP API
// in this process, or embedding code) reports every change through
// [Broadcaster.Publish] and the orchestrator consumes it through [Monitor].
package network

import (
	"sync"

	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/internal/utils"
	"github.com/MKhiriev/go-inventory-sync/models"
)

//go:generate mockgen -source=monitor.go -destination=../mock/network_monitor_mock.go -package=mock

// Monitor is the read side of the connectivity state.
type Monitor interface {
	// Current returns the latest state; ok is false until the first report.
	Current() (state models.NetworkState, ok bool)

	// Subscribe returns a channel that always holds the latest state not yet
	// received. A known state is delivered immediately. The channel is closed
	// by the returned cancel function.
	Subscribe() (<-chan models.NetworkState, func())
}

// Broadcaster is an in-memory Monitor fed through Publish.
type Broadcaster struct {
	mu     sync.Mutex
	state  *models.NetworkState
	subs   map[chan models.NetworkState]struct{}
	logger *logger.Logger
}

func NewBroadcaster(logger *logger.Logger) *Broadcaster {
	return &Broadcaster{
		subs:   make(map[chan models.NetworkState]struct{}),
		logger: logger,
	}
}

// Publish records state and hands it to every subscriber. A subscriber that
// has not consumed the previous state gets it replaced.
func (b *Broadcaster) Publish(state models.NetworkState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != nil && *b.state == state {
		return
	}
	b.state = &state

	b.logger.Info().
		Str("func", "Broadcaster.Publish").
		Bool("connected", state.Connected).
		Str("type", state.Type).
		Bool("costly", state.Costly).
		Int("subscribers", len(b.subs)).
		Msg("network state changed")

	for ch := range b.subs {
		utils.OfferLatest(ch, state)
	}
}

func (b *Broadcaster) Current() (models.NetworkState, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == nil {
		return models.NetworkState{}, false
	}
	return *b.state, true
}

func (b *Broadcaster) Subscribe() (<-chan models.NetworkState, func()) {
	ch := make(chan models.NetworkState, 1)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	if b.state != nil {
		ch <- *b.state
	}
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			close(ch)
			b.mu.Unlock()
		})
	}
	return ch, unsubscribe
}
