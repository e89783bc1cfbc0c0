package engine_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsegym/sales-engine/engine"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// =============================================================================
// DISCOUNT KIND CLASSIFICATION
// =============================================================================

func TestClassifyDiscountKind(t *testing.T) {
	fee := []string{"Taxa de Matrícula", "ISENÇÃO MATRICULA", "taxa adesão"}
	for _, kind := range fee {
		assert.Equal(t, engine.DiscountRegistrationFee, engine.ClassifyDiscountKind(kind), "kind=%q", kind)
	}

	plan := []string{"PLANO 5%", "Desconto convênio", "black friday", ""}
	for _, kind := range plan {
		assert.Equal(t, engine.DiscountPlan, engine.ClassifyDiscountKind(kind), "kind=%q", kind)
	}
}

// =============================================================================
// GROUPING AND ACCUMULATION
// =============================================================================

func TestGroupDiscounts_Accumulates(t *testing.T) {
	// GIVEN: three discount lines for one membership, mixed kinds
	// THEN: buckets accumulate, nothing is overwritten

	discounts := []engine.DiscountRecord{
		{RegistrationID: "123", Kind: "PLANO 5%", Amount: dec(50)},
		{RegistrationID: "000123", Kind: "Taxa de Matrícula", Amount: dec(99)},
		{RegistrationID: "123", Kind: "Convênio empresa", Amount: dec(30)},
	}

	groups := engine.GroupDiscounts(discounts)
	require.Len(t, groups, 1)

	g := groups["000123"]
	assert.True(t, dec(80).Equal(g.PlanBucket), "plan bucket: %v", g.PlanBucket)
	assert.True(t, dec(99).Equal(g.FeeBucket), "fee bucket: %v", g.FeeBucket)
}

func TestGroupDiscounts_ConservationUnderShuffle(t *testing.T) {
	// Discount conservation: planBucket+feeBucket equals the sum of all
	// lines for that id, regardless of grouping order.

	discounts := []engine.DiscountRecord{
		{RegistrationID: "42", Kind: "PLANO", Amount: dec(10)},
		{RegistrationID: "42", Kind: "taxa", Amount: dec(20)},
		{RegistrationID: "42", Kind: "matrícula isenta", Amount: dec(5)},
		{RegistrationID: "42", Kind: "outro", Amount: dec(7.5)},
	}
	want := dec(42.5)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(discounts), func(a, b int) {
			discounts[a], discounts[b] = discounts[b], discounts[a]
		})
		groups := engine.GroupDiscounts(discounts)
		g := groups["000042"]
		assert.True(t, want.Equal(g.Total()), "iteration %d: %v", i, g.Total())
	}
}

func TestGroupDiscounts_DropsUnmatchableIDs(t *testing.T) {
	groups := engine.GroupDiscounts([]engine.DiscountRecord{
		{RegistrationID: "n/a", Kind: "PLANO", Amount: dec(10)},
	})
	assert.Empty(t, groups)
}

// =============================================================================
// APPLYING DISCOUNTS TO SALES
// =============================================================================

func TestApplyDiscounts_Enrichment(t *testing.T) {
	groups := engine.GroupDiscounts([]engine.DiscountRecord{
		{RegistrationID: "123", Kind: "PLANO 5%", Amount: dec(100)},
	})

	rs := engine.ReconciledSale{
		Sale: engine.Sale{RegistrationID: "000123", Amount: dec(1900)},
	}
	rs = engine.ApplyDiscounts(rs, groups)

	assert.True(t, rs.HasDiscount)
	assert.True(t, rs.HasPlanDiscount)
	assert.False(t, rs.HasRegistrationDiscount)
	assert.True(t, dec(2000).Equal(rs.FullAmount), "full amount: %v", rs.FullAmount)
	assert.True(t, dec(5).Equal(rs.DiscountPct), "discount pct: %v", rs.DiscountPct)
}

func TestApplyDiscounts_MissIsDefaultState(t *testing.T) {
	// A sale with no matching discount group is not an error: all
	// discount fields zero/false and fullAmount == amount.
	rs := engine.ReconciledSale{
		Sale: engine.Sale{RegistrationID: "999", Amount: dec(150)},
	}
	rs = engine.ApplyDiscounts(rs, map[string]engine.DiscountGroup{})

	assert.False(t, rs.HasDiscount)
	assert.True(t, dec(150).Equal(rs.FullAmount))
	assert.True(t, rs.DiscountPct.IsZero())
}

func TestApplyDiscounts_ZeroFullAmount(t *testing.T) {
	// 0-amount sale with 0-amount discount lines: pct stays 0, never NaN.
	groups := engine.GroupDiscounts([]engine.DiscountRecord{
		{RegistrationID: "7", Kind: "PLANO", Amount: decimal.Zero},
	})
	rs := engine.ReconciledSale{Sale: engine.Sale{RegistrationID: "7"}}
	rs = engine.ApplyDiscounts(rs, groups)

	assert.True(t, rs.DiscountPct.IsZero())
	assert.False(t, rs.HasDiscount)
}

// =============================================================================
// CATEGORY-RELEVANT DISCOUNT FLAG
// =============================================================================

func TestRelevantDiscount_DependsOnCategory(t *testing.T) {
	rs := engine.ReconciledSale{
		HasPlanDiscount:         true,
		HasRegistrationDiscount: false,
	}

	rs.IsPlan = true
	assert.True(t, rs.RelevantDiscount(), "plan sale consults the plan bucket")

	rs.IsPlan = false
	assert.False(t, rs.RelevantDiscount(), "product sale consults the fee bucket")
}
