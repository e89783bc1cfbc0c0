/*
aggregate.go - Consultant and unit rollups

PURPOSE:
  Pure folds over the reconciled sales producing the read model the
  dashboard cards, reports and exports consume. Excluded (bad-data)
  sales are surfaced as a distinct ignored count, never folded into the
  zero-commission population.

GUARANTEES:
  - Every division is guarded: zero denominator yields zero
  - Output ordering is deterministic (consultant id, then unit id)
*/
package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// expectedIsPlan is the independent cross-check oracle: literal product
// equality plus a duration check, deliberately simpler than
// ResolveDuration.
func expectedIsPlan(s Sale) bool {
	if s.Product != "Plano" {
		return false
	}
	if s.PlanDurationMonths > 0 {
		return true
	}
	if s.PlanStart.IsZero() || s.PlanEnd.IsZero() {
		return false
	}
	return int(s.PlanEnd.Sub(s.PlanStart).Hours()/24) >= minPlanSpanDays
}

// AggregateConsultants folds reconciled sales into per-consultant
// results for the snapshot period.
func AggregateConsultants(sales []ReconciledSale, att Attainment, cfg Config, period Period) []ConsultantResult {
	byConsultant := make(map[ConsultantID]*ConsultantResult)

	for _, rs := range sales {
		// Same period guard as attainment: dated records from another
		// month never reach the rollups.
		if !period.IsZero() && !rs.SaleDate.IsZero() && !period.Contains(rs.SaleDate) {
			continue
		}
		r, ok := byConsultant[rs.ConsultantID]
		if !ok {
			r = &ConsultantResult{
				ConsultantID: rs.ConsultantID,
				UnitID:       rs.UnitID,
				Period:       period,
			}
			byConsultant[rs.ConsultantID] = r
		}

		if rs.Excluded {
			r.IgnoredCount++
			continue
		}

		r.SaleCount++
		r.TotalSales = r.TotalSales.Add(rs.Amount)
		r.TotalCommission = r.TotalCommission.Add(rs.Commission)
		if rs.HasDiscount {
			r.WithDiscountCount++
		}

		switch rs.Category {
		case CategoryPlan:
			r.PlanCount++
			r.PlanAmount = r.PlanAmount.Add(rs.Amount)
		case CategoryProduct:
			r.ProductCount++
			r.ProductAmount = r.ProductAmount.Add(rs.Amount)
		default:
			r.NonCommCount++
			r.NonCommAmount = r.NonCommAmount.Add(rs.Amount)
		}

		if expectedIsPlan(rs.Sale) == rs.IsPlan {
			r.ClassifiedAsExpected++
		} else {
			r.ClassifiedDiverging++
		}
	}

	results := make([]ConsultantResult, 0, len(byConsultant))
	for id, r := range byConsultant {
		count := decimal.NewFromInt(int64(r.SaleCount))
		r.DiscountParticipationPct = SafePct(decimal.NewFromInt(int64(r.WithDiscountCount)), count)
		r.AverageTicket = SafeDiv(r.TotalSales, count)

		if goal, ok := att.ConsultantGoals[id]; ok {
			r.GoalTarget = goal.TargetAmount
		}
		r.GoalAttainmentPct = SafePct(r.TotalSales, r.GoalTarget)
		r.IndividualGoalMet = att.IndividualGoalMet(id)

		r.Bonus = ComputeBonus(r.TotalSales, r.GoalTarget, cfg.BonusBrackets)
		if cfg.NormalizeBonus {
			r.Bonus = NormalizeBonus(r.Bonus, r.GoalTarget, att.MaxGoal)
		}

		results = append(results, *r)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ConsultantID < results[j].ConsultantID
	})
	return results
}

// AggregateUnits folds consultant results into per-unit results.
func AggregateUnits(consultants []ConsultantResult, att Attainment, period Period) []UnitResult {
	byUnit := make(map[UnitID]*UnitResult)

	for _, c := range consultants {
		u, ok := byUnit[c.UnitID]
		if !ok {
			u = &UnitResult{UnitID: c.UnitID, Period: period}
			byUnit[c.UnitID] = u
		}
		u.TotalSales = u.TotalSales.Add(c.TotalSales)
		u.TotalCommission = u.TotalCommission.Add(c.TotalCommission)
		u.TotalBonus = u.TotalBonus.Add(c.Bonus)
		u.SaleCount += c.SaleCount
		u.IgnoredCount += c.IgnoredCount
		u.ConsultantCount++
	}

	results := make([]UnitResult, 0, len(byUnit))
	for id, u := range byUnit {
		u.GoalTarget = att.UnitGoalSums[id]
		u.UnitGoalMet = att.UnitGoalMet(id)
		results = append(results, *u)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].UnitID < results[j].UnitID
	})
	return results
}
