/*
commission.go - Tiered commission selection

PURPOSE:
  Selects the commission for a single sale. Plan sales pay a fixed value
  from one of three tier tables keyed by duration bucket and discount
  presence; product sales pay a percentage of the amount.

TIER PRIORITY (mutually exclusive):
  unit goal met > individual goal met > neither

KNOWN ASYMMETRY:
  The unit-goal tier only upgrades the plan lookup table; the product
  percentage rate depends on the individual goal alone. This mirrors the
  payroll rules in production and is covered by tests.

SEE ALSO:
  - config.go: table overrides and the product blacklist/allow-list
  - bonus.go:  goal-percentage bonus brackets
*/
package engine

import "github.com/shopspring/decimal"

// Tier is the goal-attainment level used for commission lookup.
type Tier int

const (
	TierNone Tier = iota
	TierIndividual
	TierUnit
)

// TierFor resolves the tier from goal attainment, highest first.
func TierFor(individualGoalMet, unitGoalMet bool) Tier {
	switch {
	case unitGoalMet:
		return TierUnit
	case individualGoalMet:
		return TierIndividual
	default:
		return TierNone
	}
}

// PlanTable holds the fixed plan commission values for one tier, indexed
// by duration bucket (1, 3, 6, 8, 12, 24 months).
type PlanTable struct {
	NoDiscount [6]decimal.Decimal
	Discount   [6]decimal.Decimal
}

func planRow(values [6]int64) [6]decimal.Decimal {
	var row [6]decimal.Decimal
	for i, v := range values {
		row[i] = decimal.NewFromInt(v)
	}
	return row
}

// CommissionTables holds the full plan lookup plus product rates.
type CommissionTables struct {
	Neither    PlanTable
	Individual PlanTable
	Unit       PlanTable

	// Product (non-plan) percentage rates. The unit tier intentionally
	// has no product rate of its own.
	ProductRate        decimal.Decimal
	ProductRateGoalMet decimal.Decimal
}

// DefaultCommissionTables returns the production tables, amounts in
// currency units.
func DefaultCommissionTables() CommissionTables {
	return CommissionTables{
		Neither: PlanTable{
			NoDiscount: planRow([6]int64{9, 18, 28, 42, 53, 97}),
			Discount:   planRow([6]int64{3, 11, 21, 25, 38, 61}),
		},
		Individual: PlanTable{
			NoDiscount: planRow([6]int64{12, 24, 37, 47, 60, 103}),
			Discount:   planRow([6]int64{6, 16, 23, 30, 42, 67}),
		},
		Unit: PlanTable{
			NoDiscount: planRow([6]int64{15, 28, 43, 51, 65, 107}),
			Discount:   planRow([6]int64{9, 20, 25, 34, 45, 71}),
		},
		ProductRate:        decimal.NewFromFloat(0.012),
		ProductRateGoalMet: decimal.NewFromFloat(0.015),
	}
}

func (t CommissionTables) tableFor(tier Tier) PlanTable {
	switch tier {
	case TierUnit:
		return t.Unit
	case TierIndividual:
		return t.Individual
	default:
		return t.Neither
	}
}

// PlanCommission looks up the fixed commission for a plan sale.
// Unknown buckets fall back to the first column.
func (t CommissionTables) PlanCommission(tier Tier, hasDiscount bool, durationBucket int) decimal.Decimal {
	idx := BucketIndex(durationBucket)
	if idx < 0 {
		idx = 0
	}
	table := t.tableFor(tier)
	if hasDiscount {
		return table.Discount[idx]
	}
	return table.NoDiscount[idx]
}

// ProductCommission computes the percentage commission for a non-plan
// sale. Only the individual goal changes the rate.
func (t CommissionTables) ProductCommission(amount decimal.Decimal, individualGoalMet bool) decimal.Decimal {
	rate := t.ProductRate
	if individualGoalMet {
		rate = t.ProductRateGoalMet
	}
	return amount.Mul(rate)
}

// CommissionFor computes the commission for one classified, reconciled
// sale. Callers must filter non-positive amounts and non-commissionable
// products upstream; see Config.Commissionable.
func (t CommissionTables) CommissionFor(rs ReconciledSale, individualGoalMet, unitGoalMet bool) decimal.Decimal {
	if rs.IsPlan {
		tier := TierFor(individualGoalMet, unitGoalMet)
		return t.PlanCommission(tier, rs.RelevantDiscount(), rs.DurationBucket)
	}
	return t.ProductCommission(rs.Amount, individualGoalMet)
}
