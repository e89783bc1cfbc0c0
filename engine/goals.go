/*
goals.go - Goal attainment

PURPOSE:
  Determines which consultants met their individual target and which
  units met their aggregate target for the snapshot period. A unit's
  target is the sum of its consultants' individual goals; a unit meets
  it when the unit's total valid sales reach that sum.
*/
package engine

import "github.com/shopspring/decimal"

// Attainment holds per-consultant and per-unit goal state for one
// recomputation.
type Attainment struct {
	ConsultantTotals map[ConsultantID]decimal.Decimal
	UnitTotals       map[UnitID]decimal.Decimal
	ConsultantGoals  map[ConsultantID]Goal
	UnitGoalSums     map[UnitID]decimal.Decimal
	MaxGoal          decimal.Decimal
}

// IndividualGoalMet reports whether the consultant's valid sales reached
// their target. Consultants without a goal never meet it.
func (a Attainment) IndividualGoalMet(id ConsultantID) bool {
	goal, ok := a.ConsultantGoals[id]
	if !ok || !goal.TargetAmount.IsPositive() {
		return false
	}
	return a.ConsultantTotals[id].GreaterThanOrEqual(goal.TargetAmount)
}

// UnitGoalMet reports whether the unit's total sales reached the sum of
// its consultants' goals.
func (a Attainment) UnitGoalMet(id UnitID) bool {
	sum, ok := a.UnitGoalSums[id]
	if !ok || !sum.IsPositive() {
		return false
	}
	return a.UnitTotals[id].GreaterThanOrEqual(sum)
}

// ComputeAttainment folds valid sale amounts and goals into attainment
// state. Excluded sales (amount <= 0) never count toward a target, and
// sales dated outside the snapshot period are ignored when a date is
// present.
func ComputeAttainment(sales []ReconciledSale, goals []Goal, period Period) Attainment {
	a := Attainment{
		ConsultantTotals: make(map[ConsultantID]decimal.Decimal),
		UnitTotals:       make(map[UnitID]decimal.Decimal),
		ConsultantGoals:  make(map[ConsultantID]Goal),
		UnitGoalSums:     make(map[UnitID]decimal.Decimal),
	}

	for _, g := range goals {
		if !g.Period.IsZero() && !period.IsZero() && g.Period != period {
			continue
		}
		a.ConsultantGoals[g.ConsultantID] = g
		a.UnitGoalSums[g.UnitID] = a.UnitGoalSums[g.UnitID].Add(g.TargetAmount)
		if g.TargetAmount.GreaterThan(a.MaxGoal) {
			a.MaxGoal = g.TargetAmount
		}
	}

	for _, rs := range sales {
		if rs.Excluded {
			continue
		}
		if !period.IsZero() && !rs.SaleDate.IsZero() && !period.Contains(rs.SaleDate) {
			continue
		}
		a.ConsultantTotals[rs.ConsultantID] = a.ConsultantTotals[rs.ConsultantID].Add(rs.Amount)
		a.UnitTotals[rs.UnitID] = a.UnitTotals[rs.UnitID].Add(rs.Amount)
	}

	return a
}
