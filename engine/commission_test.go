package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/pulsegym/sales-engine/engine"
)

// =============================================================================
// TIER SELECTION
// =============================================================================

func TestTierFor_Priority(t *testing.T) {
	assert.Equal(t, engine.TierUnit, engine.TierFor(true, true))
	assert.Equal(t, engine.TierUnit, engine.TierFor(false, true))
	assert.Equal(t, engine.TierIndividual, engine.TierFor(true, false))
	assert.Equal(t, engine.TierNone, engine.TierFor(false, false))
}

// =============================================================================
// PLAN TABLES
// =============================================================================

func TestPlanCommission_FixedTables(t *testing.T) {
	tables := engine.DefaultCommissionTables()

	cases := []struct {
		tier     engine.Tier
		discount bool
		bucket   int
		want     int64
	}{
		{engine.TierNone, false, 1, 9},
		{engine.TierNone, false, 24, 97},
		{engine.TierNone, true, 1, 3},
		{engine.TierNone, true, 24, 61},
		{engine.TierIndividual, false, 6, 37},
		{engine.TierIndividual, true, 3, 16},
		{engine.TierUnit, false, 12, 65},
		{engine.TierUnit, true, 8, 34},
	}

	for _, c := range cases {
		got := tables.PlanCommission(c.tier, c.discount, c.bucket)
		assert.True(t, decimal.NewFromInt(c.want).Equal(got),
			"tier=%d discount=%v bucket=%d: got %v", c.tier, c.discount, c.bucket, got)
	}
}

func TestPlanCommission_UnknownBucketUsesFirstColumn(t *testing.T) {
	tables := engine.DefaultCommissionTables()
	got := tables.PlanCommission(engine.TierNone, false, 99)
	assert.True(t, decimal.NewFromInt(9).Equal(got))
}

// =============================================================================
// PRODUCT RATE
// =============================================================================

func TestProductCommission_Rates(t *testing.T) {
	// Scenario C: product sale of 1000 without individual goal -> 12.00
	tables := engine.DefaultCommissionTables()

	got := tables.ProductCommission(decimal.NewFromInt(1000), false)
	assert.True(t, decimal.NewFromInt(12).Equal(got), "got %v", got)

	got = tables.ProductCommission(decimal.NewFromInt(1000), true)
	assert.True(t, decimal.NewFromInt(15).Equal(got), "got %v", got)
}

func TestCommissionFor_UnitTierDoesNotRaiseProductRate(t *testing.T) {
	// The unit-goal tier upgrades only the plan table. A product sale
	// with unit goal met but individual goal missed stays at 1.2%.
	tables := engine.DefaultCommissionTables()
	rs := engine.ReconciledSale{
		Sale:   engine.Sale{Amount: decimal.NewFromInt(1000)},
		IsPlan: false,
	}

	got := tables.CommissionFor(rs, false, true)
	assert.True(t, decimal.NewFromInt(12).Equal(got), "got %v", got)
}

// =============================================================================
// SCENARIO B - plan with discount on the individual tier
// =============================================================================

func TestCommissionFor_PlanIndividualTierWithDiscount(t *testing.T) {
	// 3-month plan, plan discount present, individual goal met,
	// unit goal not met -> table[individual][discount][index 1] = 16
	tables := engine.DefaultCommissionTables()
	rs := engine.ReconciledSale{
		Sale:            engine.Sale{Amount: decimal.NewFromInt(2000)},
		IsPlan:          true,
		DurationBucket:  3,
		HasPlanDiscount: true,
	}

	got := tables.CommissionFor(rs, true, false)
	assert.True(t, decimal.NewFromInt(16).Equal(got), "got %v", got)
}

func TestCommissionFor_PlanIgnoresRegistrationDiscount(t *testing.T) {
	// A plan sale whose only discount is a registration-fee waiver uses
	// the no-discount column.
	tables := engine.DefaultCommissionTables()
	rs := engine.ReconciledSale{
		IsPlan:                  true,
		DurationBucket:          3,
		HasRegistrationDiscount: true,
	}

	got := tables.CommissionFor(rs, true, false)
	assert.True(t, decimal.NewFromInt(24).Equal(got), "got %v", got)
}

// =============================================================================
// COMMISSIONABILITY
// =============================================================================

func TestCommissionable_Blacklist(t *testing.T) {
	cfg := engine.DefaultConfig()

	assert.False(t, cfg.Commissionable(engine.Sale{Product: "Taxa de Matrícula"}))
	assert.False(t, cfg.Commissionable(engine.Sale{Product: "ESTORNO"}))
	assert.False(t, cfg.Commissionable(engine.Sale{Product: "Ajuste Contabil"}))
	assert.True(t, cfg.Commissionable(engine.Sale{Product: "Plano"}))
}

func TestCommissionable_AllowList(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.AllowList = []string{"Plano", "Personal Trainer"}

	assert.True(t, cfg.Commissionable(engine.Sale{Product: "Plano"}))
	assert.True(t, cfg.Commissionable(engine.Sale{Product: "personal trainer"}))
	assert.False(t, cfg.Commissionable(engine.Sale{Product: "Camiseta"}))

	// Reclassified daily passes are always commissionable.
	daily := engine.CorrectClassification(engine.Sale{Product: "Plano", PlanLabel: "5 DIÁRIAS"})
	assert.True(t, cfg.Commissionable(daily))
}
