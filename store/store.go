/*
Package store defines the persistence interface for raw snapshot
collections.

PURPOSE:
  The engine is pure and holds no state; the dashboard still needs its
  raw inputs (sales, discounts, goals) to survive restarts so the feed
  can replay the latest snapshot on boot. Stores persist full
  collections keyed by period with replace-on-push semantics: a pushed
  collection wholly supersedes the previous one for that period.

REPLACE SEMANTICS:
  There is no partial merge. Replace* deletes the period's previous
  rows and writes the new set atomically, mirroring the engine's
  replace-on-new-snapshot model.

IMPLEMENTATIONS:
  - store/sqlite: production, WAL-mode SQLite
  - store/memory: map-backed, for tests and demo mode

SEE ALSO:
  - feed/: replays the stored snapshot into the engine
*/
package store

import (
	"context"

	"github.com/pulsegym/sales-engine/engine"
)

// SnapshotStore persists raw input collections per period.
type SnapshotStore interface {
	// ReplaceSales atomically swaps the period's sale collection.
	ReplaceSales(ctx context.Context, period engine.Period, sales []engine.Sale) error

	// ReplaceDiscounts atomically swaps the period's discount collection.
	ReplaceDiscounts(ctx context.Context, period engine.Period, discounts []engine.DiscountRecord) error

	// ReplaceGoals atomically swaps the period's goal collection.
	ReplaceGoals(ctx context.Context, period engine.Period, goals []engine.Goal) error

	// LoadSnapshot returns the full snapshot for a period. A period with
	// no data at all returns engine.ErrSnapshotNotFound.
	LoadSnapshot(ctx context.Context, period engine.Period) (engine.Snapshot, error)

	// ListPeriods returns every period with stored data, most recent first.
	ListPeriods(ctx context.Context) ([]engine.Period, error)
}
