/*
bonus.go - Cumulative goal-percentage bonus (premiação)

PURPOSE:
  Computes a consultant's bonus from their percentage of individual goal
  achieved. Brackets are CUMULATIVE: every bracket whose threshold is
  reached pays out, not just the highest. 85% of goal against brackets
  at 50% and 80% pays both.

SEE ALSO:
  - config.go: bracket configuration
*/
package engine

import "github.com/shopspring/decimal"

// BonusBracket pays a fixed amount once attainment reaches ThresholdPct.
type BonusBracket struct {
	ThresholdPct decimal.Decimal
	Bonus        decimal.Decimal
}

// ComputeBonus sums every bracket whose threshold percentage is at or
// below totalSales/goal*100. A zero goal yields zero attainment and
// therefore no bonus.
func ComputeBonus(totalSales, individualGoal decimal.Decimal, brackets []BonusBracket) decimal.Decimal {
	pct := SafePct(totalSales, individualGoal)
	total := decimal.Zero
	for _, b := range brackets {
		if b.ThresholdPct.LessThanOrEqual(pct) {
			total = total.Add(b.Bonus)
		}
	}
	return total
}

// NormalizeBonus scales a bonus by individualGoal/maxGoal so consultants
// with different goal sizes compare fairly. Zero maxGoal leaves the
// bonus at zero rather than dividing.
func NormalizeBonus(bonus, individualGoal, maxGoal decimal.Decimal) decimal.Decimal {
	return bonus.Mul(SafeDiv(individualGoal, maxGoal))
}
