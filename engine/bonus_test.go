package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/pulsegym/sales-engine/engine"
)

func brackets(pairs ...int64) []engine.BonusBracket {
	out := make([]engine.BonusBracket, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, engine.BonusBracket{
			ThresholdPct: decimal.NewFromInt(pairs[i]),
			Bonus:        decimal.NewFromInt(pairs[i+1]),
		})
	}
	return out
}

// =============================================================================
// CUMULATIVE BRACKETS
// =============================================================================

func TestComputeBonus_BracketsAreCumulative(t *testing.T) {
	// Scenario D: goal 10000, sales 8500 -> 85% -> brackets at 50% and
	// 80% both pay -> 300.
	bs := brackets(50, 100, 80, 200)

	got := engine.ComputeBonus(decimal.NewFromInt(8500), decimal.NewFromInt(10000), bs)

	assert.True(t, decimal.NewFromInt(300).Equal(got), "got %v", got)
}

func TestComputeBonus_ThresholdBoundary(t *testing.T) {
	bs := brackets(50, 100, 80, 200)

	// Exactly 50%: the 50% bracket pays.
	got := engine.ComputeBonus(decimal.NewFromInt(5000), decimal.NewFromInt(10000), bs)
	assert.True(t, decimal.NewFromInt(100).Equal(got), "got %v", got)

	// Just under 50%: nothing pays.
	got = engine.ComputeBonus(decimal.NewFromInt(4999), decimal.NewFromInt(10000), bs)
	assert.True(t, got.IsZero(), "got %v", got)
}

func TestComputeBonus_ZeroGoal(t *testing.T) {
	// Zero goal yields zero attainment and no bonus, never a division blowup.
	bs := brackets(50, 100)
	got := engine.ComputeBonus(decimal.NewFromInt(8500), decimal.Zero, bs)
	assert.True(t, got.IsZero())
}

func TestComputeBonus_MonotonicInTotalSales(t *testing.T) {
	// For fixed brackets, bonus is non-decreasing in totalSales.
	bs := brackets(50, 100, 80, 200, 100, 300, 120, 500)
	goal := decimal.NewFromInt(10000)

	previous := decimal.NewFromInt(-1)
	for sales := int64(0); sales <= 15000; sales += 250 {
		got := engine.ComputeBonus(decimal.NewFromInt(sales), goal, bs)
		assert.True(t, got.GreaterThanOrEqual(previous),
			"bonus decreased at sales=%d: %v < %v", sales, got, previous)
		previous = got
	}
}

// =============================================================================
// CROSS-CONSULTANT NORMALIZATION
// =============================================================================

func TestNormalizeBonus_ScalesByGoalRatio(t *testing.T) {
	got := engine.NormalizeBonus(decimal.NewFromInt(300), decimal.NewFromInt(5000), decimal.NewFromInt(10000))
	assert.True(t, decimal.NewFromInt(150).Equal(got), "got %v", got)
}

func TestNormalizeBonus_ZeroMaxGoal(t *testing.T) {
	got := engine.NormalizeBonus(decimal.NewFromInt(300), decimal.NewFromInt(5000), decimal.Zero)
	assert.True(t, got.IsZero())
}
