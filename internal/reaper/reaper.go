// Package reaper implements the periodic task that scans the registry and
// evicts games that have exceeded their inactivity threshold. It is
// independent of session traffic: it runs on its own ticker and never
// holds more than one game's mutex at a time.
package reaper

import (
	"context"
	"log/slog"
	"time"

	"github.com/GabinFqt/minesweeper-session-server/internal/registry"
)

// admissionGC is the one method of admission.Controller the Reaper needs.
// Depending on this narrow interface instead of the concrete type keeps the
// reaper package free of an import it would otherwise only use for one call.
type admissionGC interface {
	GC()
}

// Reaper periodically evicts idle games from a Registry, and — on the same
// ticker — garbage-collects the admission controller's per-identity token
// buckets. Both are unbounded maps keyed by attacker-influenceable strings
// (game ids, admission identities), so they share one sweep.
type Reaper struct {
	registry           *registry.Registry
	admission          admissionGC
	interval           time.Duration
	thresholdConnected time.Duration
	thresholdEmpty     time.Duration
	logger             *slog.Logger
}

// New builds a Reaper that, once Run is called, ticks every interval,
// evicts games idle past thresholdConnected (subscribers attached) or
// thresholdEmpty (no subscribers), and garbage-collects adm's fully-refilled
// buckets. adm may be nil if admission GC is not wanted.
func New(reg *registry.Registry, adm admissionGC, interval, thresholdConnected, thresholdEmpty time.Duration, logger *slog.Logger) *Reaper {
	return &Reaper{
		registry:           reg,
		admission:          adm,
		interval:           interval,
		thresholdConnected: thresholdConnected,
		thresholdEmpty:     thresholdEmpty,
		logger:             logger,
	}
}

// Run blocks, ticking until ctx is canceled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *Reaper) tick() {
	now := time.Now()
	for _, id := range r.registry.Ids() {
		game, ok := r.registry.Get(id)
		if !ok {
			continue // removed concurrently between snapshot and lookup
		}
		if game.IsIdle(now, r.thresholdConnected, r.thresholdEmpty) {
			r.registry.Remove(id)
			if r.logger != nil {
				r.logger.Info("reaped idle game", "game_id", id)
			}
		}
	}

	if r.admission != nil {
		r.admission.GC()
	}
}
