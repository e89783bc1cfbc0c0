/*
classify.go - Plan detection and duration bucket resolution

PURPOSE:
  Decides whether a corrected sale is a membership plan and, if so,
  which duration bucket its commission lookup uses. Only records whose
  corrected product field reads "Plano" are eligible; everything else
  is a product sale or non-commissionable.

DURATION RESOLUTION ORDER:
  1. Explicit PlanDurationMonths (authoritative when positive)
  2. Whole-day span between plan start and end dates
  3. Neither present: NOT a plan. The feeding systems disagreed on this
     fallback; this engine resolves it deterministically to non-plan so
     an unknown duration can never select a plan-table row.

SEE ALSO:
  - correct.go:    must run before classification
  - commission.go: consumes the duration bucket index
*/
package engine

// DurationBuckets are the plan durations, in months, that the commission
// tables are keyed by. Index order matches the table columns.
var DurationBuckets = [6]int{1, 3, 6, 8, 12, 24}

// minPlanSpanDays is the shortest start/end span treated as a plan when
// no explicit duration is present.
const minPlanSpanDays = 25

// Classification is the outcome of plan/duration resolution.
type Classification struct {
	IsPlan         bool
	DurationBucket int // months; 0 when IsPlan is false
}

// ResolveDuration classifies a corrected sale. It must only be called on
// the output of CorrectClassification.
func ResolveDuration(sale Sale) Classification {
	if sale.Correction == CorrectionDailyReclassified {
		return Classification{}
	}
	product := FoldText(sale.Product)
	if IsDailyPassLabel(sale.Product) {
		return Classification{}
	}
	if product != "plano" {
		return Classification{}
	}

	if sale.PlanDurationMonths > 0 {
		return Classification{IsPlan: true, DurationBucket: bucketForMonths(sale.PlanDurationMonths)}
	}

	if !sale.PlanStart.IsZero() && !sale.PlanEnd.IsZero() {
		days := int(sale.PlanEnd.Sub(sale.PlanStart).Hours() / 24)
		if days < minPlanSpanDays {
			return Classification{}
		}
		return Classification{IsPlan: true, DurationBucket: bucketForDays(days)}
	}

	// Bare "Plano" with no duration information at all: not a plan.
	return Classification{}
}

// bucketForMonths maps an explicit month count to a bucket. Exact matches
// are expected; unmapped values fall back to the first bucket.
func bucketForMonths(months int) int {
	for _, b := range DurationBuckets {
		if months == b {
			return b
		}
	}
	return DurationBuckets[0]
}

// bucketForDays maps a whole-day span to a duration bucket.
func bucketForDays(days int) int {
	switch {
	case days <= 31:
		return 1
	case days <= 95:
		return 3
	case days <= 185:
		return 6
	case days <= 250:
		return 8
	case days <= 370:
		return 12
	default:
		return 24
	}
}

// BucketIndex returns the table column for a duration bucket, or -1 for
// an unknown bucket.
func BucketIndex(bucket int) int {
	for i, b := range DurationBuckets {
		if bucket == b {
			return i
		}
	}
	return -1
}
