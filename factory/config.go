/*
Package factory provides JSON to engine configuration conversion.

PURPOSE:
  Converts JSON commission configuration into engine.Config. This
  enables rule changes without code changes - payroll can adjust
  commission tables, bonus brackets and product lists in JSON, and the
  factory creates the proper Go structs with validation.

JSON SCHEMA:
  {
    "blacklist": ["Taxa de Matrícula", "Estorno"],
    "allow_list": ["Plano", "Personal Trainer"],
    "normalize_bonus": false,
    "tables": {
      "neither":    {"no_discount": [9,18,28,42,53,97],  "discount": [3,11,21,25,38,61]},
      "individual": {"no_discount": [12,24,37,47,60,103],"discount": [6,16,23,30,42,67]},
      "unit":       {"no_discount": [15,28,43,51,65,107],"discount": [9,20,25,34,45,71]},
      "product_rate": 0.012,
      "product_rate_goal_met": 0.015
    },
    "bonus_brackets": [
      {"threshold_pct": 50, "bonus": 100},
      {"threshold_pct": 80, "bonus": 200}
    ]
  }

  Every section is optional; omitted sections keep the engine defaults.

USAGE:
  cfg, err := factory.ParseConfig(jsonBytes)

SEE ALSO:
  - engine/config.go: the target type and its defaults
  - api/handlers.go: the PUT /api/config endpoint
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pulsegym/sales-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ConfigJSON is the JSON representation of an engine configuration.
type ConfigJSON struct {
	Blacklist      []string          `json:"blacklist,omitempty"`
	AllowList      []string          `json:"allow_list,omitempty"`
	NormalizeBonus bool              `json:"normalize_bonus,omitempty"`
	Tables         *TablesJSON       `json:"tables,omitempty"`
	BonusBrackets  []BonusBracketJSON `json:"bonus_brackets,omitempty"`
}

// TablesJSON represents the commission tables.
type TablesJSON struct {
	Neither            *PlanTableJSON `json:"neither,omitempty"`
	Individual         *PlanTableJSON `json:"individual,omitempty"`
	Unit               *PlanTableJSON `json:"unit,omitempty"`
	ProductRate        *float64       `json:"product_rate,omitempty"`
	ProductRateGoalMet *float64       `json:"product_rate_goal_met,omitempty"`
}

// PlanTableJSON represents one tier's plan table, six columns each.
type PlanTableJSON struct {
	NoDiscount []float64 `json:"no_discount"`
	Discount   []float64 `json:"discount"`
}

// BonusBracketJSON represents one cumulative bonus bracket.
type BonusBracketJSON struct {
	ThresholdPct float64 `json:"threshold_pct"`
	Bonus        float64 `json:"bonus"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseConfig parses JSON into an engine.Config, starting from the
// engine defaults so omitted sections stay intact.
func ParseConfig(data []byte) (engine.Config, error) {
	var cj ConfigJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return engine.Config{}, fmt.Errorf("%w: %v", engine.ErrInvalidConfig, err)
	}
	return FromJSON(cj)
}

// FromJSON converts ConfigJSON to engine.Config with validation.
func FromJSON(cj ConfigJSON) (engine.Config, error) {
	cfg := engine.DefaultConfig()

	if cj.Blacklist != nil {
		cfg.Blacklist = cj.Blacklist
	}
	if cj.AllowList != nil {
		cfg.AllowList = cj.AllowList
	}
	cfg.NormalizeBonus = cj.NormalizeBonus

	if cj.Tables != nil {
		if err := applyTables(&cfg.Tables, *cj.Tables); err != nil {
			return engine.Config{}, err
		}
	}

	if cj.BonusBrackets != nil {
		brackets, err := parseBrackets(cj.BonusBrackets)
		if err != nil {
			return engine.Config{}, err
		}
		cfg.BonusBrackets = brackets
	}

	return cfg, nil
}

// ToJSON converts an engine.Config back to its JSON representation.
func ToJSON(cfg engine.Config) ConfigJSON {
	tables := TablesJSON{
		Neither:    planTableJSON(cfg.Tables.Neither),
		Individual: planTableJSON(cfg.Tables.Individual),
		Unit:       planTableJSON(cfg.Tables.Unit),
	}
	productRate, _ := cfg.Tables.ProductRate.Float64()
	productRateGoalMet, _ := cfg.Tables.ProductRateGoalMet.Float64()
	tables.ProductRate = &productRate
	tables.ProductRateGoalMet = &productRateGoalMet

	brackets := make([]BonusBracketJSON, len(cfg.BonusBrackets))
	for i, b := range cfg.BonusBrackets {
		pct, _ := b.ThresholdPct.Float64()
		bonus, _ := b.Bonus.Float64()
		brackets[i] = BonusBracketJSON{ThresholdPct: pct, Bonus: bonus}
	}

	return ConfigJSON{
		Blacklist:      cfg.Blacklist,
		AllowList:      cfg.AllowList,
		NormalizeBonus: cfg.NormalizeBonus,
		Tables:         &tables,
		BonusBrackets:  brackets,
	}
}

func planTableJSON(t engine.PlanTable) *PlanTableJSON {
	out := PlanTableJSON{
		NoDiscount: make([]float64, len(t.NoDiscount)),
		Discount:   make([]float64, len(t.Discount)),
	}
	for i, v := range t.NoDiscount {
		out.NoDiscount[i], _ = v.Float64()
	}
	for i, v := range t.Discount {
		out.Discount[i], _ = v.Float64()
	}
	return &out
}

func applyTables(tables *engine.CommissionTables, tj TablesJSON) error {
	if tj.Neither != nil {
		t, err := parsePlanTable(*tj.Neither, "neither")
		if err != nil {
			return err
		}
		tables.Neither = t
	}
	if tj.Individual != nil {
		t, err := parsePlanTable(*tj.Individual, "individual")
		if err != nil {
			return err
		}
		tables.Individual = t
	}
	if tj.Unit != nil {
		t, err := parsePlanTable(*tj.Unit, "unit")
		if err != nil {
			return err
		}
		tables.Unit = t
	}
	if tj.ProductRate != nil {
		if *tj.ProductRate < 0 || *tj.ProductRate > 1 {
			return fmt.Errorf("%w: product_rate must be within [0,1]", engine.ErrInvalidConfig)
		}
		tables.ProductRate = decimal.NewFromFloat(*tj.ProductRate)
	}
	if tj.ProductRateGoalMet != nil {
		if *tj.ProductRateGoalMet < 0 || *tj.ProductRateGoalMet > 1 {
			return fmt.Errorf("%w: product_rate_goal_met must be within [0,1]", engine.ErrInvalidConfig)
		}
		tables.ProductRateGoalMet = decimal.NewFromFloat(*tj.ProductRateGoalMet)
	}
	return nil
}

func parsePlanTable(tj PlanTableJSON, tier string) (engine.PlanTable, error) {
	var table engine.PlanTable
	noDiscount, err := parseRow(tj.NoDiscount, tier+".no_discount")
	if err != nil {
		return table, err
	}
	discount, err := parseRow(tj.Discount, tier+".discount")
	if err != nil {
		return table, err
	}
	table.NoDiscount = noDiscount
	table.Discount = discount
	return table, nil
}

func parseRow(values []float64, field string) ([6]decimal.Decimal, error) {
	var row [6]decimal.Decimal
	if len(values) != len(row) {
		return row, fmt.Errorf("%w: %s needs exactly %d values, got %d",
			engine.ErrInvalidConfig, field, len(row), len(values))
	}
	for i, v := range values {
		if v < 0 {
			return row, fmt.Errorf("%w: %s[%d] is negative", engine.ErrInvalidConfig, field, i)
		}
		row[i] = decimal.NewFromFloat(v)
	}
	return row, nil
}

func parseBrackets(bjs []BonusBracketJSON) ([]engine.BonusBracket, error) {
	brackets := make([]engine.BonusBracket, len(bjs))
	for i, bj := range bjs {
		if bj.ThresholdPct < 0 {
			return nil, fmt.Errorf("%w: bonus_brackets[%d].threshold_pct is negative", engine.ErrInvalidConfig, i)
		}
		if bj.Bonus < 0 {
			return nil, fmt.Errorf("%w: bonus_brackets[%d].bonus is negative", engine.ErrInvalidConfig, i)
		}
		brackets[i] = engine.BonusBracket{
			ThresholdPct: decimal.NewFromFloat(bj.ThresholdPct),
			Bonus:        decimal.NewFromFloat(bj.Bonus),
		}
	}
	return brackets, nil
}
