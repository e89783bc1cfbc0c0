/*
Package sqlite provides a SQLite-backed implementation of the snapshot store.

PURPOSE:
  Persists raw sale, discount and goal collections per period so the
  dashboard replays the latest snapshot on restart. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

REPLACE SEMANTICS:
  Each Replace* runs DELETE + INSERT inside one database transaction,
  matching the engine's replace-on-new-snapshot model: pushing a new
  collection for a period fully supersedes the previous one.

AMOUNT STORAGE:
  Money is stored as the decimal's exact string form, never as REAL.
  Parsing back goes through engine.CoerceDecimal so a corrupted cell
  degrades to zero instead of poisoning aggregates.

KEY TABLES:
  sales:     Raw sale rows keyed by period
  discounts: Discount rows keyed by period
  goals:     One target per (period, consultant, unit)

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  st, err := sqlite.New("./data/sales.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - store/store.go: Interface definition
  - store/memory: map-backed implementation for tests and demo mode
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pulsegym/sales-engine/engine"
	"github.com/pulsegym/sales-engine/store"
)

// Store implements store.SnapshotStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ store.SnapshotStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	st := &Store{db: db}
	if err := st.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return st, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sales (
		period TEXT NOT NULL,
		registration_id TEXT NOT NULL,
		customer_name TEXT,
		consultant_id TEXT NOT NULL,
		unit_id TEXT NOT NULL,
		product TEXT,
		plan_label TEXT,
		amount TEXT NOT NULL,
		sale_date TEXT,
		plan_start TEXT,
		plan_end TEXT,
		plan_duration_months INTEGER DEFAULT 0,
		correction TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_sales_period ON sales(period);
	CREATE INDEX IF NOT EXISTS idx_sales_period_unit ON sales(period, unit_id);
	CREATE INDEX IF NOT EXISTS idx_sales_registration ON sales(registration_id);

	CREATE TABLE IF NOT EXISTS discounts (
		period TEXT NOT NULL,
		registration_id TEXT NOT NULL,
		kind TEXT,
		amount TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_discounts_period ON discounts(period);
	CREATE INDEX IF NOT EXISTS idx_discounts_registration ON discounts(registration_id);

	CREATE TABLE IF NOT EXISTS goals (
		period TEXT NOT NULL,
		consultant_id TEXT NOT NULL,
		unit_id TEXT NOT NULL,
		target_amount TEXT NOT NULL,
		UNIQUE(period, consultant_id, unit_id)
	);

	CREATE INDEX IF NOT EXISTS idx_goals_period ON goals(period);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// REPLACE OPERATIONS
// =============================================================================

// ReplaceSales swaps the period's sale collection atomically.
func (s *Store) ReplaceSales(ctx context.Context, period engine.Period, sales []engine.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE period = ?`, period.String()); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO sales (period, registration_id, customer_name, consultant_id, unit_id,
				product, plan_label, amount, sale_date, plan_start, plan_end,
				plan_duration_months, correction)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, sale := range sales {
			_, err := stmt.ExecContext(ctx,
				period.String(),
				sale.RegistrationID,
				sale.CustomerName,
				string(sale.ConsultantID),
				string(sale.UnitID),
				sale.Product,
				sale.PlanLabel,
				sale.Amount.String(),
				formatDate(sale.SaleDate),
				formatDate(sale.PlanStart),
				formatDate(sale.PlanEnd),
				sale.PlanDurationMonths,
				string(sale.Correction),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceDiscounts swaps the period's discount collection atomically.
func (s *Store) ReplaceDiscounts(ctx context.Context, period engine.Period, discounts []engine.DiscountRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM discounts WHERE period = ?`, period.String()); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO discounts (period, registration_id, kind, amount) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, d := range discounts {
			if _, err := stmt.ExecContext(ctx, period.String(), d.RegistrationID, d.Kind, d.Amount.String()); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceGoals swaps the period's goal collection atomically.
func (s *Store) ReplaceGoals(ctx context.Context, period engine.Period, goals []engine.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE period = ?`, period.String()); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO goals (period, consultant_id, unit_id, target_amount) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, g := range goals {
			if _, err := stmt.ExecContext(ctx, period.String(), string(g.ConsultantID), string(g.UnitID), g.TargetAmount.String()); err != nil {
				return err
			}
		}
		return nil
	})
}

// =============================================================================
// LOADING
// =============================================================================

// LoadSnapshot returns the full snapshot for a period.
// Returns engine.ErrSnapshotNotFound when nothing is stored for it.
func (s *Store) LoadSnapshot(ctx context.Context, period engine.Period) (engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := engine.Snapshot{Period: period}

	sales, err := s.loadSales(ctx, period)
	if err != nil {
		return snap, err
	}
	discounts, err := s.loadDiscounts(ctx, period)
	if err != nil {
		return snap, err
	}
	goals, err := s.loadGoals(ctx, period)
	if err != nil {
		return snap, err
	}

	if len(sales) == 0 && len(discounts) == 0 && len(goals) == 0 {
		return snap, fmt.Errorf("period %s: %w", period, engine.ErrSnapshotNotFound)
	}

	snap.Sales = sales
	snap.Discounts = discounts
	snap.Goals = goals
	return snap, nil
}

// ListPeriods returns every period with stored data, most recent first.
func (s *Store) ListPeriods(ctx context.Context) ([]engine.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT period FROM sales
		UNION SELECT period FROM discounts
		UNION SELECT period FROM goals
		ORDER BY period DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []engine.Period
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		p, err := engine.ParsePeriod(raw)
		if err != nil {
			continue // skip unparseable legacy rows
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func (s *Store) loadSales(ctx context.Context, period engine.Period) ([]engine.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT registration_id, customer_name, consultant_id, unit_id, product, plan_label,
			amount, sale_date, plan_start, plan_end, plan_duration_months, correction
		FROM sales WHERE period = ?`, period.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []engine.Sale
	for rows.Next() {
		var sale engine.Sale
		var amount, saleDate, planStart, planEnd, correction string
		if err := rows.Scan(
			&sale.RegistrationID, &sale.CustomerName, &sale.ConsultantID, &sale.UnitID,
			&sale.Product, &sale.PlanLabel, &amount, &saleDate, &planStart, &planEnd,
			&sale.PlanDurationMonths, &correction,
		); err != nil {
			return nil, err
		}
		sale.Amount = engine.CoerceDecimal(amount)
		sale.SaleDate = parseDate(saleDate)
		sale.PlanStart = parseDate(planStart)
		sale.PlanEnd = parseDate(planEnd)
		sale.Correction = engine.CorrectionMarker(correction)
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

func (s *Store) loadDiscounts(ctx context.Context, period engine.Period) ([]engine.DiscountRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT registration_id, kind, amount FROM discounts WHERE period = ?`, period.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var discounts []engine.DiscountRecord
	for rows.Next() {
		var d engine.DiscountRecord
		var amount string
		if err := rows.Scan(&d.RegistrationID, &d.Kind, &amount); err != nil {
			return nil, err
		}
		d.Amount = engine.CoerceDecimal(amount)
		discounts = append(discounts, d)
	}
	return discounts, rows.Err()
}

func (s *Store) loadGoals(ctx context.Context, period engine.Period) ([]engine.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT consultant_id, unit_id, target_amount FROM goals WHERE period = ?`, period.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []engine.Goal
	for rows.Next() {
		var g engine.Goal
		var target string
		if err := rows.Scan(&g.ConsultantID, &g.UnitID, &target); err != nil {
			return nil, err
		}
		g.TargetAmount = engine.CoerceDecimal(target)
		g.Period = period
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

func parseDate(s string) time.Time {
	t, ok := engine.ParseFlexibleDate(s)
	if !ok {
		return time.Time{}
	}
	return t
}
