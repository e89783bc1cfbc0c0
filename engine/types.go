/*
Package engine provides the sales commission and bonus computation core.

PURPOSE:
  This package contains the domain types and algorithms that turn raw
  point-of-sale records, discount records, and per-consultant goals into
  payroll-ready results: per-sale commission detail and per-consultant
  aggregates. It is the single consolidated home for classification and
  commission math; no caller re-implements any of it.

KEY CONCEPTS IN THIS FILE (types.go):
  - Sale / DiscountRecord / Goal: raw input records
  - ReconciledSale: a sale enriched with classification, discount and
    commission detail (derived, immutable per recomputation)
  - ConsultantResult / UnitResult: aggregated read model
  - Category: PLAN, PRODUCT, or NON_COMMISSIONABLE

DESIGN PRINCIPLES:
  1. Purity: derived entities are functions of the input snapshot
  2. Precision: decimal.Decimal for all money, never float64 sums
  3. Graceful degradation: malformed records coerce to safe defaults,
     the batch never aborts
  4. Atomic replacement: the whole derived set is recomputed and swapped
     wholesale on every input change

USAGE:
  result := engine.Recompute(engine.Snapshot{
      Sales:     sales,
      Discounts: discounts,
      Goals:     goals,
      Period:    engine.NewPeriod(2025, time.March),
  }, engine.DefaultConfig())

SEE ALSO:
  - normalize.go: key normalization, date parsing, numeric coercion
  - correct.go:   daily-pass reclassification
  - classify.go:  plan/duration resolution
  - reconcile.go: discount reconciliation by registration key
  - commission.go / bonus.go: tiered commission and bonus tables
  - aggregate.go: consultant and unit rollups
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CATEGORY - Commissionable classification of a sale
// =============================================================================

type Category string

const (
	CategoryPlan             Category = "PLAN"
	CategoryProduct          Category = "PRODUCT"
	CategoryNonCommissonable Category = "NON_COMMISSIONABLE"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ConsultantID string
type UnitID string

// =============================================================================
// RAW INPUT RECORDS
// =============================================================================

// CorrectionMarker records a classification fix applied to a raw sale.
type CorrectionMarker string

const (
	// CorrectionDailyReclassified marks a daily-pass sale that arrived
	// mis-filed under the plan field and was moved to the product field.
	CorrectionDailyReclassified CorrectionMarker = "daily_reclassified"
)

// Sale is a raw point-of-sale record after boundary coercion.
// Amount is always a finite decimal; upstream coercion maps null/NaN/
// non-numeric inputs to zero before a Sale is constructed.
type Sale struct {
	RegistrationID     string
	CustomerName       string
	ConsultantID       ConsultantID
	UnitID             UnitID
	Product            string
	PlanLabel          string
	Amount             decimal.Decimal
	SaleDate           time.Time
	PlanStart          time.Time // zero when absent
	PlanEnd            time.Time // zero when absent
	PlanDurationMonths int       // 0 when absent; authoritative when positive
	Correction         CorrectionMarker
}

// DiscountRecord is a raw discount/waiver line. Multiple records may share
// a registration id; they are always accumulated, never overwritten.
type DiscountRecord struct {
	RegistrationID string
	Kind           string // free text, classified into plan vs registration fee
	Amount         decimal.Decimal
}

// DiscountCategory is the bucket a discount line falls into.
type DiscountCategory string

const (
	DiscountPlan            DiscountCategory = "PLAN"
	DiscountRegistrationFee DiscountCategory = "REGISTRATION_FEE"
)

// Goal is a consultant's sales target for one period at one unit.
// A consultant has at most one goal per period per unit.
type Goal struct {
	ConsultantID ConsultantID
	UnitID       UnitID
	Period       Period
	TargetAmount decimal.Decimal
}

// =============================================================================
// DERIVED RECORDS - Recomputed wholesale on every snapshot change
// =============================================================================

// ReconciledSale is a sale enriched with classification, discount and
// commission detail. Immutable per recomputation.
type ReconciledSale struct {
	Sale

	Category       Category
	IsPlan         bool
	DurationBucket int // one of 1,3,6,8,12,24; 0 when not a plan

	HasDiscount             bool
	HasPlanDiscount         bool
	HasRegistrationDiscount bool
	PlanDiscount            decimal.Decimal
	RegistrationDiscount    decimal.Decimal
	FullAmount              decimal.Decimal // amount + total discount
	DiscountPct             decimal.Decimal // 0..100, 0 when FullAmount is 0

	Commission decimal.Decimal

	// Excluded is true for invariant-violating records (amount <= 0).
	// Excluded sales carry zero commission and are counted separately so
	// dashboards can tell "no commission" from "bad data".
	Excluded bool
}

// RelevantDiscount reports the discount flag that drives commission lookup:
// plan sales consult the plan bucket, product sales the registration bucket.
func (rs ReconciledSale) RelevantDiscount() bool {
	if rs.IsPlan {
		return rs.HasPlanDiscount
	}
	return rs.HasRegistrationDiscount
}

// ConsultantResult aggregates reconciled sales for one (consultant, period).
type ConsultantResult struct {
	ConsultantID ConsultantID
	UnitID       UnitID
	Period       Period

	TotalSales        decimal.Decimal // sum of valid amounts, all categories
	TotalCommission   decimal.Decimal
	Bonus             decimal.Decimal
	PlanCount         int
	PlanAmount        decimal.Decimal
	ProductCount      int
	ProductAmount     decimal.Decimal
	NonCommCount      int
	NonCommAmount     decimal.Decimal
	IgnoredCount      int // amount <= 0, excluded from all sums
	SaleCount         int // valid sales only
	WithDiscountCount int

	// Cross-check oracle: counts of sales whose engine classification
	// agrees/disagrees with the simpler literal-equality rule set.
	ClassifiedAsExpected int
	ClassifiedDiverging  int

	DiscountParticipationPct decimal.Decimal // 0..100
	AverageTicket            decimal.Decimal

	GoalTarget        decimal.Decimal
	GoalAttainmentPct decimal.Decimal // 0..n, 0 when no goal
	IndividualGoalMet bool
}

// UnitResult aggregates all consultants of a unit for one period.
type UnitResult struct {
	UnitID UnitID
	Period Period

	TotalSales      decimal.Decimal
	TotalCommission decimal.Decimal
	TotalBonus      decimal.Decimal
	SaleCount       int
	IgnoredCount    int
	ConsultantCount int

	GoalTarget  decimal.Decimal // sum of individual goals
	UnitGoalMet bool
}

// =============================================================================
// SNAPSHOT AND RESULT - The engine's only interface to collaborators
// =============================================================================

// Snapshot is a full copy of the input collections for one period.
// The engine never mutates a snapshot.
type Snapshot struct {
	Sales     []Sale
	Discounts []DiscountRecord
	Goals     []Goal
	Period    Period
}

// Result is the derived read model. It is replaced atomically per
// recomputation; collaborators must treat it as immutable.
type Result struct {
	Period      Period
	Sales       []ReconciledSale
	Consultants []ConsultantResult
	Units       []UnitResult
	ComputedAt  time.Time
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

var hundred = decimal.NewFromInt(100)

// SafeDiv divides a by b, returning zero when b is zero. Every division in
// the engine goes through this guard; NaN and Infinity must never reach an
// output field.
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

// SafePct returns part/whole*100 with a zero-denominator guard.
func SafePct(part, whole decimal.Decimal) decimal.Decimal {
	return SafeDiv(part, whole).Mul(hundred)
}
