// Package memory provides a map-backed snapshot store for tests and
// demo mode. It honors the same replace-on-push and not-found contract
// as the SQLite store, without persistence.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pulsegym/sales-engine/engine"
	"github.com/pulsegym/sales-engine/store"
)

type record struct {
	sales     []engine.Sale
	discounts []engine.DiscountRecord
	goals     []engine.Goal
}

func (r record) empty() bool {
	return len(r.sales) == 0 && len(r.discounts) == 0 && len(r.goals) == 0
}

// Store implements store.SnapshotStore in memory.
type Store struct {
	mu      sync.RWMutex
	periods map[engine.Period]*record
}

var _ store.SnapshotStore = (*Store)(nil)

func New() *Store {
	return &Store{periods: make(map[engine.Period]*record)}
}

func (s *Store) ReplaceSales(_ context.Context, period engine.Period, sales []engine.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordFor(period).sales = append([]engine.Sale(nil), sales...)
	return nil
}

func (s *Store) ReplaceDiscounts(_ context.Context, period engine.Period, discounts []engine.DiscountRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordFor(period).discounts = append([]engine.DiscountRecord(nil), discounts...)
	return nil
}

func (s *Store) ReplaceGoals(_ context.Context, period engine.Period, goals []engine.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordFor(period).goals = append([]engine.Goal(nil), goals...)
	return nil
}

func (s *Store) LoadSnapshot(_ context.Context, period engine.Period) (engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := engine.Snapshot{Period: period}
	rec, ok := s.periods[period]
	if !ok || rec.empty() {
		return snap, fmt.Errorf("period %s: %w", period, engine.ErrSnapshotNotFound)
	}
	snap.Sales = append([]engine.Sale(nil), rec.sales...)
	snap.Discounts = append([]engine.DiscountRecord(nil), rec.discounts...)
	snap.Goals = append([]engine.Goal(nil), rec.goals...)
	return snap, nil
}

func (s *Store) ListPeriods(_ context.Context) ([]engine.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var periods []engine.Period
	for p, rec := range s.periods {
		if !rec.empty() {
			periods = append(periods, p)
		}
	}
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].String() > periods[j].String()
	})
	return periods, nil
}

func (s *Store) recordFor(period engine.Period) *record {
	rec, ok := s.periods[period]
	if !ok {
		rec = &record{}
		s.periods[period] = rec
	}
	return rec
}
