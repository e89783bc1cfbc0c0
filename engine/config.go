/*
config.go - Engine configuration

PURPOSE:
  Carries everything that varies by deployment: the non-commissionable
  product blacklist, the optional product allow-list, the commission
  tables, and the bonus brackets. The allow-list used to live as a
  global mutable "selected products" list in the feeding dashboards; it
  is an explicit value here and nothing in the engine reads ambient
  state.

SEE ALSO:
  - factory/: parses operator JSON into this type
*/
package engine

import "github.com/shopspring/decimal"

// Config is passed into every recomputation. The zero value is not
// usable; construct via DefaultConfig and adjust.
type Config struct {
	Tables CommissionTables

	// Blacklist: products that never pay commission. Matched after
	// text folding.
	Blacklist []string

	// AllowList: when non-empty, only listed products (and reclassified
	// daily passes, which are always commissionable) pay commission.
	AllowList []string

	// BonusBrackets: cumulative percentage-of-goal brackets.
	BonusBrackets []BonusBracket

	// NormalizeBonus scales each consultant's bonus by
	// goal/maxGoalAcrossConsultants. Used only by cross-consultant
	// comparison views.
	NormalizeBonus bool
}

// DefaultBlacklist lists products excluded from commission in every
// deployment.
func DefaultBlacklist() []string {
	return []string{
		"Taxa de Matrícula",
		"Estorno",
		"Ajuste Contábil",
		"Cancelamento",
		"Estorno de Cancelamento",
	}
}

// DefaultBonusBrackets returns the standard premiação ladder.
func DefaultBonusBrackets() []BonusBracket {
	return []BonusBracket{
		{ThresholdPct: decimal.NewFromInt(50), Bonus: decimal.NewFromInt(100)},
		{ThresholdPct: decimal.NewFromInt(80), Bonus: decimal.NewFromInt(200)},
		{ThresholdPct: decimal.NewFromInt(100), Bonus: decimal.NewFromInt(300)},
		{ThresholdPct: decimal.NewFromInt(120), Bonus: decimal.NewFromInt(500)},
	}
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		Tables:        DefaultCommissionTables(),
		Blacklist:     DefaultBlacklist(),
		BonusBrackets: DefaultBonusBrackets(),
	}
}

// Commissionable decides whether a corrected sale may earn commission at
// all. Blacklisted products never do. When an allow-list is configured,
// only listed products qualify, except reclassified daily passes which
// are always commissionable.
func (c Config) Commissionable(sale Sale) bool {
	folded := FoldText(sale.Product)
	for _, b := range c.Blacklist {
		if folded == FoldText(b) {
			return false
		}
	}
	if len(c.AllowList) == 0 {
		return true
	}
	if sale.Correction == CorrectionDailyReclassified || IsDailyPassLabel(sale.Product) {
		return true
	}
	for _, a := range c.AllowList {
		if folded == FoldText(a) {
			return true
		}
	}
	return false
}
