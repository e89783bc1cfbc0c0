/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

BOUNDARY COERCION:
  Amounts arrive as arbitrary JSON (numbers, numeric strings with comma
  decimals, null). They cross into the domain through
  engine.CoerceDecimal, so a malformed cell degrades to zero and a push
  never aborts on one bad row. Dates go through engine.ParseFlexibleDate
  for the same reason.

VALIDATION:
  Structural validation (required identifiers, period format) uses
  go-playground/validator struct tags; per-cell numeric validation is
  deliberately absent - coercion handles it.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/config.go: ConfigJSON for the config endpoints
*/
package api

import (
	"time"

	"github.com/pulsegym/sales-engine/engine"
)

// =============================================================================
// INGESTION TYPES
// =============================================================================

// SaleDTO is one raw sale row as pushed by the point-of-sale exporter.
type SaleDTO struct {
	RegistrationID     string `json:"registration_id"`
	CustomerName       string `json:"customer_name,omitempty"`
	ConsultantID       string `json:"consultant_id" validate:"required"`
	UnitID             string `json:"unit_id" validate:"required"`
	Product            string `json:"product"`
	PlanLabel          string `json:"plan_label,omitempty"`
	Amount             any    `json:"amount"`
	SaleDate           string `json:"sale_date,omitempty"`
	PlanStart          string `json:"plan_start,omitempty"`
	PlanEnd            string `json:"plan_end,omitempty"`
	PlanDurationMonths int    `json:"plan_duration_months,omitempty"`
}

// PushSalesRequest replaces a period's full sale collection.
type PushSalesRequest struct {
	Period string    `json:"period" validate:"required"`
	Sales  []SaleDTO `json:"sales"`
}

// DiscountDTO is one raw discount/waiver row.
type DiscountDTO struct {
	RegistrationID string `json:"registration_id" validate:"required"`
	Kind           string `json:"kind,omitempty"`
	Amount         any    `json:"amount"`
}

// PushDiscountsRequest replaces a period's full discount collection.
type PushDiscountsRequest struct {
	Period    string        `json:"period" validate:"required"`
	Discounts []DiscountDTO `json:"discounts"`
}

// GoalDTO is one consultant target row.
type GoalDTO struct {
	ConsultantID string `json:"consultant_id" validate:"required"`
	UnitID       string `json:"unit_id" validate:"required"`
	TargetAmount any    `json:"target_amount"`
}

// PushGoalsRequest replaces a period's full goal collection.
type PushGoalsRequest struct {
	Period string    `json:"period" validate:"required"`
	Goals  []GoalDTO `json:"goals"`
}

// PushResponse acknowledges a snapshot push.
type PushResponse struct {
	Period   string `json:"period"`
	Accepted int    `json:"accepted"`
}

// =============================================================================
// READ MODEL TYPES
// =============================================================================

// ReconciledSaleDTO is one enriched sale in the derived read model.
type ReconciledSaleDTO struct {
	RegistrationID string  `json:"registration_id"`
	CustomerName   string  `json:"customer_name,omitempty"`
	ConsultantID   string  `json:"consultant_id"`
	UnitID         string  `json:"unit_id"`
	Product        string  `json:"product"`
	PlanLabel      string  `json:"plan_label,omitempty"`
	Category       string  `json:"category"`
	DurationBucket int     `json:"duration_bucket,omitempty"`
	Amount         float64 `json:"amount"`
	FullAmount     float64 `json:"full_amount"`
	HasDiscount    bool    `json:"has_discount"`
	DiscountPct    float64 `json:"discount_pct"`
	Commission     float64 `json:"commission"`
	Excluded       bool    `json:"excluded,omitempty"`
	Correction     string  `json:"correction,omitempty"`
	SaleDate       string  `json:"sale_date,omitempty"`
}

// ConsultantResultDTO is one consultant's aggregate for the period.
type ConsultantResultDTO struct {
	ConsultantID string `json:"consultant_id"`
	UnitID       string `json:"unit_id"`
	Period       string `json:"period"`

	TotalSales        float64 `json:"total_sales"`
	TotalCommission   float64 `json:"total_commission"`
	Bonus             float64 `json:"bonus"`
	PlanCount         int     `json:"plan_count"`
	PlanAmount        float64 `json:"plan_amount"`
	ProductCount      int     `json:"product_count"`
	ProductAmount     float64 `json:"product_amount"`
	NonCommCount      int     `json:"non_commissionable_count"`
	NonCommAmount     float64 `json:"non_commissionable_amount"`
	IgnoredCount      int     `json:"ignored_count"`
	SaleCount         int     `json:"sale_count"`
	WithDiscountCount int     `json:"with_discount_count"`

	DiscountParticipationPct float64 `json:"discount_participation_pct"`
	AverageTicket            float64 `json:"average_ticket"`

	GoalTarget        float64 `json:"goal_target"`
	GoalAttainmentPct float64 `json:"goal_attainment_pct"`
	IndividualGoalMet bool    `json:"individual_goal_met"`
}

// UnitResultDTO is one unit's aggregate for the period.
type UnitResultDTO struct {
	UnitID string `json:"unit_id"`
	Period string `json:"period"`

	TotalSales      float64 `json:"total_sales"`
	TotalCommission float64 `json:"total_commission"`
	TotalBonus      float64 `json:"total_bonus"`
	SaleCount       int     `json:"sale_count"`
	IgnoredCount    int     `json:"ignored_count"`
	ConsultantCount int     `json:"consultant_count"`
	GoalTarget      float64 `json:"goal_target"`
	UnitGoalMet     bool    `json:"unit_goal_met"`
}

// ResultMetaDTO describes the published result.
type ResultMetaDTO struct {
	Period      string `json:"period"`
	ComputedAt  string `json:"computed_at"`
	Sales       int    `json:"sales"`
	Consultants int    `json:"consultants"`
	Units       int    `json:"units"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a demo scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toSale(dto SaleDTO) engine.Sale {
	return engine.Sale{
		RegistrationID:     dto.RegistrationID,
		CustomerName:       dto.CustomerName,
		ConsultantID:       engine.ConsultantID(dto.ConsultantID),
		UnitID:             engine.UnitID(dto.UnitID),
		Product:            dto.Product,
		PlanLabel:          dto.PlanLabel,
		Amount:             engine.CoerceDecimal(dto.Amount),
		SaleDate:           parseDTODate(dto.SaleDate),
		PlanStart:          parseDTODate(dto.PlanStart),
		PlanEnd:            parseDTODate(dto.PlanEnd),
		PlanDurationMonths: dto.PlanDurationMonths,
	}
}

func toDiscount(dto DiscountDTO) engine.DiscountRecord {
	return engine.DiscountRecord{
		RegistrationID: dto.RegistrationID,
		Kind:           dto.Kind,
		Amount:         engine.CoerceDecimal(dto.Amount),
	}
}

func toGoal(dto GoalDTO, period engine.Period) engine.Goal {
	return engine.Goal{
		ConsultantID: engine.ConsultantID(dto.ConsultantID),
		UnitID:       engine.UnitID(dto.UnitID),
		Period:       period,
		TargetAmount: engine.CoerceDecimal(dto.TargetAmount),
	}
}

func toReconciledSaleDTO(rs engine.ReconciledSale) ReconciledSaleDTO {
	amount, _ := rs.Amount.Float64()
	full, _ := rs.FullAmount.Float64()
	pct, _ := rs.DiscountPct.Float64()
	commission, _ := rs.Commission.Float64()

	dto := ReconciledSaleDTO{
		RegistrationID: rs.RegistrationID,
		CustomerName:   rs.CustomerName,
		ConsultantID:   string(rs.ConsultantID),
		UnitID:         string(rs.UnitID),
		Product:        rs.Product,
		PlanLabel:      rs.PlanLabel,
		Category:       string(rs.Category),
		DurationBucket: rs.DurationBucket,
		Amount:         amount,
		FullAmount:     full,
		HasDiscount:    rs.HasDiscount,
		DiscountPct:    pct,
		Commission:     commission,
		Excluded:       rs.Excluded,
		Correction:     string(rs.Correction),
	}
	if !rs.SaleDate.IsZero() {
		dto.SaleDate = rs.SaleDate.Format("2006-01-02")
	}
	return dto
}

func toConsultantResultDTO(cr engine.ConsultantResult) ConsultantResultDTO {
	totalSales, _ := cr.TotalSales.Float64()
	totalCommission, _ := cr.TotalCommission.Float64()
	bonus, _ := cr.Bonus.Float64()
	planAmount, _ := cr.PlanAmount.Float64()
	productAmount, _ := cr.ProductAmount.Float64()
	nonCommAmount, _ := cr.NonCommAmount.Float64()
	discountPct, _ := cr.DiscountParticipationPct.Float64()
	avgTicket, _ := cr.AverageTicket.Float64()
	goalTarget, _ := cr.GoalTarget.Float64()
	attainment, _ := cr.GoalAttainmentPct.Float64()

	return ConsultantResultDTO{
		ConsultantID:             string(cr.ConsultantID),
		UnitID:                   string(cr.UnitID),
		Period:                   cr.Period.String(),
		TotalSales:               totalSales,
		TotalCommission:          totalCommission,
		Bonus:                    bonus,
		PlanCount:                cr.PlanCount,
		PlanAmount:               planAmount,
		ProductCount:             cr.ProductCount,
		ProductAmount:            productAmount,
		NonCommCount:             cr.NonCommCount,
		NonCommAmount:            nonCommAmount,
		IgnoredCount:             cr.IgnoredCount,
		SaleCount:                cr.SaleCount,
		WithDiscountCount:        cr.WithDiscountCount,
		DiscountParticipationPct: discountPct,
		AverageTicket:            avgTicket,
		GoalTarget:               goalTarget,
		GoalAttainmentPct:        attainment,
		IndividualGoalMet:        cr.IndividualGoalMet,
	}
}

func toUnitResultDTO(ur engine.UnitResult) UnitResultDTO {
	totalSales, _ := ur.TotalSales.Float64()
	totalCommission, _ := ur.TotalCommission.Float64()
	totalBonus, _ := ur.TotalBonus.Float64()
	goalTarget, _ := ur.GoalTarget.Float64()

	return UnitResultDTO{
		UnitID:          string(ur.UnitID),
		Period:          ur.Period.String(),
		TotalSales:      totalSales,
		TotalCommission: totalCommission,
		TotalBonus:      totalBonus,
		SaleCount:       ur.SaleCount,
		IgnoredCount:    ur.IgnoredCount,
		ConsultantCount: ur.ConsultantCount,
		GoalTarget:      goalTarget,
		UnitGoalMet:     ur.UnitGoalMet,
	}
}

func parseDTODate(s string) time.Time {
	t, ok := engine.ParseFlexibleDate(s)
	if !ok {
		return time.Time{}
	}
	return t
}
