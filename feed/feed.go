/*
Package feed is the subscription layer between snapshot producers and
the pure computation engine.

PURPOSE:
  External collaborators push full collection snapshots on every change.
  Each push triggers a complete recomputation of the derived model; the
  engine itself holds no state. This package owns the two concerns the
  engine deliberately does not: debouncing bursts of pushes and
  discarding results computed from stale snapshots.

SEMANTICS:
  - Last snapshot wins: only the most recently pushed snapshot is ever
    computed; intermediate pushes during a debounce window are dropped.
  - A result produced from a snapshot that was superseded mid-computation
    is discarded (generation check), never published.
  - Readers always see either the previous complete Result or the new
    one, never a partial state.

SEE ALSO:
  - engine/pipeline.go: the pure function this layer drives
*/
package feed

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pulsegym/sales-engine/engine"
)

// Recomputer drives engine recomputation from snapshot pushes.
type Recomputer struct {
	mu         sync.Mutex
	latest     engine.Snapshot
	config     engine.Config
	generation uint64
	timer      *time.Timer
	debounce   time.Duration
	log        zerolog.Logger

	resultMu sync.RWMutex
	result   *engine.Result

	// onPublish, when set, is invoked after each published result.
	// Used by the HTTP layer to notify waiters and by tests.
	onPublish func(engine.Result)
}

// Option configures a Recomputer.
type Option func(*Recomputer)

// WithDebounce sets the quiet window applied before recomputing. Zero
// recomputes synchronously on every push.
func WithDebounce(d time.Duration) Option {
	return func(r *Recomputer) { r.debounce = d }
}

// WithLogger attaches a structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Recomputer) { r.log = log }
}

// WithPublishHook registers a callback invoked after each publish.
func WithPublishHook(fn func(engine.Result)) Option {
	return func(r *Recomputer) { r.onPublish = fn }
}

// NewRecomputer creates a recomputer with the given engine config.
func NewRecomputer(cfg engine.Config, opts ...Option) *Recomputer {
	r := &Recomputer{
		config: cfg,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetConfig replaces the engine configuration and recomputes from the
// current snapshot so readers never see results from a stale config.
func (r *Recomputer) SetConfig(cfg engine.Config) {
	r.mu.Lock()
	r.config = cfg
	r.mu.Unlock()
	r.Push(r.Snapshot())
}

// Config returns the current engine configuration.
func (r *Recomputer) Config() engine.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.config
}

// Snapshot returns a copy of the latest pushed snapshot.
func (r *Recomputer) Snapshot() engine.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}

// Push replaces the pending snapshot. The recomputation runs after the
// debounce window; a newer push restarts the window and supersedes this
// one.
func (r *Recomputer) Push(snap engine.Snapshot) {
	r.mu.Lock()
	r.latest = snap
	r.generation++
	gen := r.generation

	if r.debounce <= 0 {
		snapCopy := r.latest
		cfg := r.config
		r.mu.Unlock()
		r.compute(snapCopy, cfg, gen)
		return
	}

	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, func() {
		r.mu.Lock()
		snapCopy := r.latest
		cfg := r.config
		current := r.generation
		r.mu.Unlock()
		r.compute(snapCopy, cfg, current)
	})
	r.mu.Unlock()
}

// compute runs the engine and publishes the result unless a newer
// snapshot arrived while computing.
func (r *Recomputer) compute(snap engine.Snapshot, cfg engine.Config, gen uint64) {
	started := time.Now()
	result := engine.Recompute(snap, cfg)

	r.mu.Lock()
	stale := gen != r.generation
	r.mu.Unlock()
	if stale {
		r.log.Debug().
			Uint64("generation", gen).
			Msg("discarding result computed from superseded snapshot")
		return
	}

	r.resultMu.Lock()
	r.result = &result
	r.resultMu.Unlock()

	r.log.Info().
		Str("period", result.Period.String()).
		Int("sales", len(result.Sales)).
		Int("consultants", len(result.Consultants)).
		Dur("elapsed", time.Since(started)).
		Msg("recomputed derived model")

	if r.onPublish != nil {
		r.onPublish(result)
	}
}

// Result returns the latest published result, or nil before the first
// recomputation completes.
func (r *Recomputer) Result() *engine.Result {
	r.resultMu.RLock()
	defer r.resultMu.RUnlock()
	return r.result
}

// WaitForResult blocks until a result is available or the context ends.
// Intended for tests and startup probes with a non-zero debounce.
func (r *Recomputer) WaitForResult(ctx context.Context) (*engine.Result, error) {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		if res := r.Result(); res != nil {
			return res, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
