package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/pulsegym/sales-engine/engine"
)

// =============================================================================
// DAILY-PASS RECLASSIFICATION
// =============================================================================

func TestCorrectClassification_DailyPassReclassified(t *testing.T) {
	// GIVEN: a daily-pass sale mis-filed under the plan field
	// WHEN: correcting
	// THEN: label moves to the product field and the marker is set

	sale := engine.Sale{
		Product:   "Plano",
		PlanLabel: "2025_1 PLANO 5 DIÁRIAS",
		Amount:    decimal.NewFromInt(300),
	}

	got := engine.CorrectClassification(sale)

	assert.Equal(t, "2025_1 PLANO 5 DIÁRIAS", got.Product)
	assert.Equal(t, "", got.PlanLabel)
	assert.Equal(t, engine.CorrectionDailyReclassified, got.Correction)
}

func TestCorrectClassification_Idempotent(t *testing.T) {
	// correct(correct(sale)) == correct(sale) for all sales.
	sales := []engine.Sale{
		{Product: "Plano", PlanLabel: "5 DIÁRIAS"},
		{Product: "Plano", PlanLabel: "PLANO ANUAL"},
		{Product: "Outros", PlanLabel: ""},
		{Product: "", PlanLabel: "diária"},
	}

	for _, sale := range sales {
		once := engine.CorrectClassification(sale)
		twice := engine.CorrectClassification(once)
		assert.Equal(t, once, twice, "sale=%+v", sale)
	}
}

func TestCorrectClassification_NonDailyPlanUntouched(t *testing.T) {
	// A genuine plan label must never be reclassified.
	sale := engine.Sale{Product: "Plano", PlanLabel: "PLANO SEMESTRAL 2025"}

	got := engine.CorrectClassification(sale)

	assert.Equal(t, sale, got)
	assert.Empty(t, got.Correction)
}

func TestIsDailyPassLabel_Variants(t *testing.T) {
	matching := []string{"diária", "Diárias", "5 DIÁRIAS", "10 diarias", "1 diaria avulsa"}
	for _, label := range matching {
		assert.True(t, engine.IsDailyPassLabel(label), "label=%q", label)
	}

	nonMatching := []string{"", "PLANO ANUAL", "diarista", "radiarias"}
	for _, label := range nonMatching {
		assert.False(t, engine.IsDailyPassLabel(label), "label=%q", label)
	}
}
