/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for testing and demos. Each scenario loads sales, discounts and
	goals for one period and demonstrates specific engine behavior.

AVAILABLE SCENARIOS:

	starter-month:  Small clean dataset, two consultants, one unit
	messy-import:   Misfiled daily passes, malformed amounts, orphan discounts
	goal-race:      Consultants across the goal tiers; one unit hits its goal

HOW SCENARIOS WORK:
 1. Build the period's collections in memory
 2. Replace the period's stored collections
 3. Push the full snapshot into the feed (synchronous recompute path)

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "messy-import"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create a builder function returning an engine.Snapshot
 3. Add a case to LoadScenario

NOTE:

	Scenarios overwrite the period's stored data. Only use in
	development/demo environments.

SEE ALSO:
  - handlers.go: ListScenarios, LoadScenario handlers
  - engine/pipeline.go: what the loaded snapshot exercises
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pulsegym/sales-engine/engine"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "starter-month",
		Name:        "Starter Month",
		Description: "Two consultants, one unit, clean plan and product sales",
	},
	{
		ID:          "messy-import",
		Name:        "Messy Import",
		Description: "Daily passes misfiled as plans, malformed amounts, orphan discounts",
	},
	{
		ID:          "goal-race",
		Name:        "Goal Race",
		Description: "Consultants spread across the goal tiers; one unit meets its goal",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := decodeAndValidate(h, w, r, &req); err != nil {
		return
	}

	var snap engine.Snapshot
	switch req.ScenarioID {
	case "starter-month":
		snap = starterMonthSnapshot()
	case "messy-import":
		snap = messyImportSnapshot()
	case "goal-race":
		snap = goalRaceSnapshot()
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario: "+req.ScenarioID, nil)
		return
	}

	ctx := r.Context()
	if err := h.Store.ReplaceSales(ctx, snap.Period, snap.Sales); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store scenario sales", err)
		return
	}
	if err := h.Store.ReplaceDiscounts(ctx, snap.Period, snap.Discounts); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store scenario discounts", err)
		return
	}
	if err := h.Store.ReplaceGoals(ctx, snap.Period, snap.Goals); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store scenario goals", err)
		return
	}

	h.Feed.Push(snap)

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()

	h.log.Info().Str("scenario", req.ScenarioID).Str("period", snap.Period.String()).Msg("scenario loaded")
	writeJSON(w, http.StatusOK, map[string]any{
		"scenario": req.ScenarioID,
		"period":   snap.Period.String(),
		"sales":    len(snap.Sales),
	})
}

func decodeAndValidate(h *Handler, w http.ResponseWriter, r *http.Request, req *LoadScenarioRequest) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return err
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return err
	}
	return nil
}

// =============================================================================
// SCENARIO DATA
// =============================================================================

func demoPeriod() engine.Period {
	now := time.Now().UTC()
	return engine.PeriodOf(now)
}

func demoDay(day int) time.Time {
	p := demoPeriod()
	return time.Date(p.Year, p.Month, day, 0, 0, 0, 0, time.UTC)
}

func money(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// starterMonthSnapshot builds a small clean dataset: two consultants at
// one unit selling annual plans, a quarterly plan and some products.
func starterMonthSnapshot() engine.Snapshot {
	p := demoPeriod()
	return engine.Snapshot{
		Period: p,
		Sales: []engine.Sale{
			{
				RegistrationID: "1001", CustomerName: "Mariana Costa",
				ConsultantID: "carla", UnitID: "centro",
				Product: "Plano", PlanLabel: "Plano Anual",
				Amount: money(1788), SaleDate: demoDay(3),
				PlanDurationMonths: 12,
			},
			{
				RegistrationID: "1002", CustomerName: "Pedro Lima",
				ConsultantID: "carla", UnitID: "centro",
				Product: "Plano", PlanLabel: "Plano Trimestral",
				Amount: money(420), SaleDate: demoDay(7),
				PlanDurationMonths: 3,
			},
			{
				RegistrationID: "1003", CustomerName: "Julia Ramos",
				ConsultantID: "rafael", UnitID: "centro",
				Product: "Plano", PlanLabel: "Plano Semestral",
				Amount: money(810), SaleDate: demoDay(12),
				PlanStart: demoDay(12), PlanEnd: demoDay(12).AddDate(0, 6, 0),
			},
			{
				RegistrationID: "1001", CustomerName: "Mariana Costa",
				ConsultantID: "rafael", UnitID: "centro",
				Product: "Luva de Treino",
				Amount: money(89.90), SaleDate: demoDay(15),
			},
			{
				RegistrationID: "1004", CustomerName: "Tiago Nunes",
				ConsultantID: "rafael", UnitID: "centro",
				Product: "Garrafa PulseGym",
				Amount: money(45), SaleDate: demoDay(20),
			},
		},
		Discounts: []engine.DiscountRecord{
			{RegistrationID: "1001", Kind: "Desconto Plano Anual", Amount: money(200)},
			{RegistrationID: "1003", Kind: "Isenção Taxa de Matrícula", Amount: money(99)},
		},
		Goals: []engine.Goal{
			{ConsultantID: "carla", UnitID: "centro", Period: p, TargetAmount: money(2000)},
			{ConsultantID: "rafael", UnitID: "centro", Period: p, TargetAmount: money(1500)},
		},
	}
}

// messyImportSnapshot mimics a raw export straight from the POS:
// daily passes filed under the plan column, unpadded registration ids,
// comma decimals, a negative adjustment row and a discount with no
// matching sale.
func messyImportSnapshot() engine.Snapshot {
	p := demoPeriod()
	return engine.Snapshot{
		Period: p,
		Sales: []engine.Sale{
			{
				RegistrationID: "17", CustomerName: "Bruno Alves",
				ConsultantID: "carla", UnitID: "centro",
				PlanLabel: "Diária Avulsa", // misfiled: belongs in the product column
				Amount:    money(35), SaleDate: demoDay(2),
			},
			{
				RegistrationID: "17", CustomerName: "Bruno Alves",
				ConsultantID: "carla", UnitID: "centro",
				Product: "Plano", PlanLabel: "Plano Mensal",
				Amount: money(129.90), SaleDate: demoDay(4),
				PlanDurationMonths: 1,
			},
			{
				RegistrationID: "00923", CustomerName: "Lia Castro",
				ConsultantID: "rafael", UnitID: "lagoa",
				Product: "Plano", PlanLabel: "Plano Anual",
				Amount: money(1599), SaleDate: demoDay(9),
				PlanStart: demoDay(9), PlanEnd: demoDay(9).AddDate(1, 0, 0),
			},
			{
				RegistrationID: "924", CustomerName: "Estorno Sistema",
				ConsultantID: "rafael", UnitID: "lagoa",
				Product: "Estorno",
				Amount:  money(-129.90), SaleDate: demoDay(10),
			},
			{
				RegistrationID: "", CustomerName: "Venda Balcão",
				ConsultantID: "carla", UnitID: "centro",
				Product: "Toalha",
				Amount:  decimal.Zero, SaleDate: demoDay(11),
			},
		},
		Discounts: []engine.DiscountRecord{
			// two lines for the same registration accumulate
			{RegistrationID: "923", Kind: "Desconto Plano", Amount: money(150)},
			{RegistrationID: "0923", Kind: "Desconto Plano Convênio", Amount: money(100)},
			// no sale carries this registration; reconciliation miss
			{RegistrationID: "555", Kind: "Desconto Plano", Amount: money(80)},
		},
		Goals: []engine.Goal{
			{ConsultantID: "carla", UnitID: "centro", Period: p, TargetAmount: money(1000)},
			{ConsultantID: "rafael", UnitID: "lagoa", Period: p, TargetAmount: money(1200)},
		},
	}
}

// goalRaceSnapshot spreads consultants across the commission tiers:
// one below individual goal, one above it, and a whole unit over its
// summed target.
func goalRaceSnapshot() engine.Snapshot {
	p := demoPeriod()
	plan := func(reg, customer, consultant, unit string, amount float64, months, day int) engine.Sale {
		return engine.Sale{
			RegistrationID: reg, CustomerName: customer,
			ConsultantID: engine.ConsultantID(consultant), UnitID: engine.UnitID(unit),
			Product: "Plano", PlanLabel: "Plano",
			Amount: money(amount), SaleDate: demoDay(day),
			PlanDurationMonths: months,
		}
	}
	return engine.Snapshot{
		Period: p,
		Sales: []engine.Sale{
			// unit "lagoa": both consultants beat their goals
			plan("2001", "Clara Dias", "bia", "lagoa", 2400, 12, 2),
			plan("2002", "Hugo Prado", "bia", "lagoa", 960, 6, 6),
			plan("2003", "Iris Melo", "diego", "lagoa", 2880, 24, 8),
			{
				RegistrationID: "2003", ConsultantID: "diego", UnitID: "lagoa",
				Product: "Personal Trainer", Amount: money(600), SaleDate: demoDay(14),
			},
			// unit "centro": one consultant far short of goal
			plan("2004", "Otto Reis", "carla", "centro", 450, 3, 16),
		},
		Discounts: []engine.DiscountRecord{
			{RegistrationID: "2002", Kind: "Desconto Plano", Amount: money(120)},
		},
		Goals: []engine.Goal{
			{ConsultantID: "bia", UnitID: "lagoa", Period: p, TargetAmount: money(3000)},
			{ConsultantID: "diego", UnitID: "lagoa", Period: p, TargetAmount: money(2500)},
			{ConsultantID: "carla", UnitID: "centro", Period: p, TargetAmount: money(5000)},
		},
	}
}
