/*
correct.go - Classification correction for mis-filed daily passes

PURPOSE:
  Point-of-sale operators file daily passes ("diárias") under the plan
  field. Running classification on uncorrected records was the root
  cause of daily passes being paid plan-table commission, so correction
  runs exactly once, before any classification or duration logic.

CONTRACT:
  CorrectClassification(sale) -> sale'
  - Idempotent: correcting an already-corrected sale is a no-op
  - Touches only Product, PlanLabel, and the Correction marker

SEE ALSO:
  - classify.go: consumes the correction marker
*/
package engine

import "regexp"

// dailyPassPattern matches "diária"/"diárias" after folding, including
// labels with an embedded count such as "5 diárias".
var dailyPassPattern = regexp.MustCompile(`(^|[^a-z])diarias?($|[^a-z])`)

// IsDailyPassLabel reports whether a free-text label denotes a daily
// pass, case- and accent-insensitively.
func IsDailyPassLabel(label string) bool {
	return dailyPassPattern.MatchString(FoldText(label))
}

// CorrectClassification detects a daily-pass sale mis-filed under the
// plan field and moves the label to the product field, recording the
// correction. Sales without a daily-pass plan label pass through
// unchanged.
func CorrectClassification(sale Sale) Sale {
	if sale.PlanLabel == "" {
		return sale
	}
	if !IsDailyPassLabel(sale.PlanLabel) {
		return sale
	}
	sale.Product = sale.PlanLabel
	sale.PlanLabel = ""
	sale.Correction = CorrectionDailyReclassified
	return sale
}
