/*
reconcile.go - Discount reconciliation by registration key

PURPOSE:
  Joins sale records to discount records on the normalized registration
  number and splits discount totals into plan vs registration-fee
  buckets. A sale with no matching discount group is NOT an error; it is
  the default no-discount state.

INVARIANTS:
  - Discount lines accumulate: a later line never replaces an earlier one
  - planBucket + feeBucket == sum of all lines for that registration id,
    regardless of grouping order
  - All derived numeric fields are finite (zero-denominator guards)

SEE ALSO:
  - normalize.go:  the join key canonicalization
  - commission.go: consumes the category-relevant discount flag
*/
package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountGroup is the accumulated discount total for one registration id.
type DiscountGroup struct {
	RegistrationID string
	PlanBucket     decimal.Decimal
	FeeBucket      decimal.Decimal
}

// Total returns the combined discount across both buckets.
func (g DiscountGroup) Total() decimal.Decimal {
	return g.PlanBucket.Add(g.FeeBucket)
}

// ClassifyDiscountKind buckets a free-text discount kind. Any mention of
// "matrícula" or "taxa" means the registration fee was waived; everything
// else is a plan discount.
func ClassifyDiscountKind(kind string) DiscountCategory {
	folded := FoldText(kind)
	if strings.Contains(folded, "matricula") || strings.Contains(folded, "taxa") {
		return DiscountRegistrationFee
	}
	return DiscountPlan
}

// GroupDiscounts accumulates discount lines by normalized registration id.
// Lines whose id normalizes to the empty string are unmatchable and are
// dropped.
func GroupDiscounts(discounts []DiscountRecord) map[string]DiscountGroup {
	groups := make(map[string]DiscountGroup, len(discounts))
	for _, d := range discounts {
		id := NormalizeRegistrationID(d.RegistrationID)
		if id == "" {
			continue
		}
		g := groups[id]
		g.RegistrationID = id
		switch ClassifyDiscountKind(d.Kind) {
		case DiscountRegistrationFee:
			g.FeeBucket = g.FeeBucket.Add(d.Amount)
		default:
			g.PlanBucket = g.PlanBucket.Add(d.Amount)
		}
		groups[id] = g
	}
	return groups
}

// ApplyDiscounts enriches a classified sale with its discount group.
// Missing group means all discount fields stay zero/false and FullAmount
// equals the sale amount.
func ApplyDiscounts(rs ReconciledSale, groups map[string]DiscountGroup) ReconciledSale {
	rs.FullAmount = rs.Amount
	id := NormalizeRegistrationID(rs.RegistrationID)
	g, ok := groups[id]
	if !ok || id == "" {
		return rs
	}

	rs.PlanDiscount = g.PlanBucket
	rs.RegistrationDiscount = g.FeeBucket
	rs.HasPlanDiscount = g.PlanBucket.IsPositive()
	rs.HasRegistrationDiscount = g.FeeBucket.IsPositive()
	rs.HasDiscount = rs.HasPlanDiscount || rs.HasRegistrationDiscount
	rs.FullAmount = rs.Amount.Add(g.Total())
	rs.DiscountPct = SafePct(g.Total(), rs.FullAmount)
	return rs
}
