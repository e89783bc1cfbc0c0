/*
pipeline.go - The full recomputation pass

PURPOSE:
  One pure function from an input snapshot to the derived read model.
  The stages run in a fixed order; in particular, classification
  correction runs exactly once and before any duration logic.

STAGES:
  normalize -> correct -> classify -> reconcile discounts
  -> goal attainment -> commission -> aggregate

ERROR MODEL:
  Recompute never fails. Malformed records degrade to safe defaults and
  invariant-violating records (amount <= 0) are excluded and counted,
  per the ignored-count contract.

SEE ALSO:
  - feed/: pushes snapshots into this function and publishes Results
*/
package engine

import "time"

// Recompute runs the whole pipeline over one snapshot. The returned
// Result is self-contained; callers replace their previous Result
// atomically.
func Recompute(snap Snapshot, cfg Config) Result {
	reconciled := reconcileAll(snap, cfg)
	att := ComputeAttainment(reconciled, snap.Goals, snap.Period)

	for i := range reconciled {
		rs := &reconciled[i]
		if rs.Excluded || rs.Category == CategoryNonCommissonable {
			continue
		}
		rs.Commission = cfg.Tables.CommissionFor(
			*rs,
			att.IndividualGoalMet(rs.ConsultantID),
			att.UnitGoalMet(rs.UnitID),
		)
	}

	consultants := AggregateConsultants(reconciled, att, cfg, snap.Period)
	units := AggregateUnits(consultants, att, snap.Period)

	return Result{
		Period:      snap.Period,
		Sales:       reconciled,
		Consultants: consultants,
		Units:       units,
		ComputedAt:  time.Now().UTC(),
	}
}

// reconcileAll normalizes, corrects, classifies and discount-enriches
// every sale in the snapshot.
func reconcileAll(snap Snapshot, cfg Config) []ReconciledSale {
	groups := GroupDiscounts(snap.Discounts)

	out := make([]ReconciledSale, 0, len(snap.Sales))
	for _, raw := range snap.Sales {
		sale := CorrectClassification(raw)
		sale.RegistrationID = NormalizeRegistrationID(sale.RegistrationID)

		rs := ReconciledSale{Sale: sale}

		cl := ResolveDuration(sale)
		rs.IsPlan = cl.IsPlan
		rs.DurationBucket = cl.DurationBucket

		switch {
		case !cfg.Commissionable(sale):
			rs.Category = CategoryNonCommissonable
		case cl.IsPlan:
			rs.Category = CategoryPlan
		default:
			rs.Category = CategoryProduct
		}

		rs = ApplyDiscounts(rs, groups)

		if !sale.Amount.IsPositive() {
			rs.Excluded = true
		}

		out = append(out, rs)
	}
	return out
}
