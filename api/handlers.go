/*
handlers.go - HTTP API handlers for the commission dashboard

PURPOSE:
  Exposes the commission engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Ingestion:
    POST   /api/snapshots/sales      Replace a period's sale collection
    POST   /api/snapshots/discounts  Replace a period's discount collection
    POST   /api/snapshots/goals      Replace a period's goal collection

  Read model:
    GET    /api/results              Result metadata
    GET    /api/results/sales        Reconciled per-sale detail
    GET    /api/results/consultants  Consultant aggregates
    GET    /api/results/units        Unit aggregates
    GET    /api/export/consultants.csv  CSV export for payroll

  Configuration:
    GET    /api/config               Current commission configuration
    PUT    /api/config               Replace configuration (triggers recompute)

  Misc:
    GET    /api/periods              Stored periods, newest first
    GET    /api/scenarios            List demo scenarios
    POST   /api/scenarios/load       Load a demo scenario

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (go-playground/validator struct tags)
  3. Persist the collection, then replay the period's full snapshot
     into the feed so the derived model is recomputed
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found, no result published yet
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public;
  put this behind the gym chain's reverse proxy.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/pulsegym/sales-engine/engine"
	"github.com/pulsegym/sales-engine/factory"
	"github.com/pulsegym/sales-engine/feed"
	"github.com/pulsegym/sales-engine/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store store.SnapshotStore
	Feed  *feed.Recomputer

	validate *validator.Validate
	log      zerolog.Logger

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler over the given store and feed.
func NewHandler(st store.SnapshotStore, fd *feed.Recomputer, log zerolog.Logger) *Handler {
	return &Handler{
		Store:    st,
		Feed:     fd,
		validate: validator.New(),
		log:      log,
	}
}

// Replay loads the most recent stored snapshot and pushes it into the
// feed. Called on startup so the read model survives restarts.
func (h *Handler) Replay(ctx context.Context) error {
	periods, err := h.Store.ListPeriods(ctx)
	if err != nil {
		return err
	}
	if len(periods) == 0 {
		return nil
	}
	snap, err := h.Store.LoadSnapshot(ctx, periods[0])
	if err != nil {
		return err
	}
	h.Feed.Push(snap)
	h.log.Info().Str("period", periods[0].String()).Msg("replayed stored snapshot")
	return nil
}

// =============================================================================
// INGESTION HANDLERS
// =============================================================================

// PushSales replaces a period's sale collection.
// POST /api/snapshots/sales
func (h *Handler) PushSales(w http.ResponseWriter, r *http.Request) {
	var req PushSalesRequest
	period, ok := h.decodePush(w, r, &req, func() string { return req.Period })
	if !ok {
		return
	}

	sales := make([]engine.Sale, len(req.Sales))
	for i, dto := range req.Sales {
		if err := h.validate.Struct(dto); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("sales[%d] is invalid", i), err)
			return
		}
		sales[i] = toSale(dto)
	}

	if err := h.Store.ReplaceSales(r.Context(), period, sales); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store sales", err)
		return
	}
	h.replayPeriod(r.Context(), period)
	writeJSON(w, http.StatusAccepted, PushResponse{Period: period.String(), Accepted: len(sales)})
}

// PushDiscounts replaces a period's discount collection.
// POST /api/snapshots/discounts
func (h *Handler) PushDiscounts(w http.ResponseWriter, r *http.Request) {
	var req PushDiscountsRequest
	period, ok := h.decodePush(w, r, &req, func() string { return req.Period })
	if !ok {
		return
	}

	discounts := make([]engine.DiscountRecord, len(req.Discounts))
	for i, dto := range req.Discounts {
		if err := h.validate.Struct(dto); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("discounts[%d] is invalid", i), err)
			return
		}
		discounts[i] = toDiscount(dto)
	}

	if err := h.Store.ReplaceDiscounts(r.Context(), period, discounts); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store discounts", err)
		return
	}
	h.replayPeriod(r.Context(), period)
	writeJSON(w, http.StatusAccepted, PushResponse{Period: period.String(), Accepted: len(discounts)})
}

// PushGoals replaces a period's goal collection.
// POST /api/snapshots/goals
func (h *Handler) PushGoals(w http.ResponseWriter, r *http.Request) {
	var req PushGoalsRequest
	period, ok := h.decodePush(w, r, &req, func() string { return req.Period })
	if !ok {
		return
	}

	goals := make([]engine.Goal, len(req.Goals))
	for i, dto := range req.Goals {
		if err := h.validate.Struct(dto); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("goals[%d] is invalid", i), err)
			return
		}
		goals[i] = toGoal(dto, period)
	}

	if err := h.Store.ReplaceGoals(r.Context(), period, goals); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store goals", err)
		return
	}
	h.replayPeriod(r.Context(), period)
	writeJSON(w, http.StatusAccepted, PushResponse{Period: period.String(), Accepted: len(goals)})
}

// decodePush decodes and validates the envelope shared by all three
// push endpoints and parses its period key.
func (h *Handler) decodePush(w http.ResponseWriter, r *http.Request, req any, periodOf func() string) (engine.Period, bool) {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return engine.Period{}, false
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return engine.Period{}, false
	}
	period, err := engine.ParsePeriod(periodOf())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period (use YYYY-MM)", err)
		return engine.Period{}, false
	}
	return period, true
}

// replayPeriod pushes the period's full stored snapshot into the feed.
// The three collections live in one snapshot, so a sales push must not
// drop previously stored discounts or goals.
func (h *Handler) replayPeriod(ctx context.Context, period engine.Period) {
	snap, err := h.Store.LoadSnapshot(ctx, period)
	if err != nil {
		if engine.IsNotFound(err) {
			snap = engine.Snapshot{Period: period}
		} else {
			h.log.Error().Err(err).Str("period", period.String()).Msg("failed to reload snapshot after push")
			return
		}
	}
	h.Feed.Push(snap)
}

// =============================================================================
// READ MODEL HANDLERS
// =============================================================================

// GetResultMeta returns metadata about the published result.
// GET /api/results
func (h *Handler) GetResultMeta(w http.ResponseWriter, r *http.Request) {
	result, ok := h.publishedResult(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ResultMetaDTO{
		Period:      result.Period.String(),
		ComputedAt:  result.ComputedAt.Format(time.RFC3339),
		Sales:       len(result.Sales),
		Consultants: len(result.Consultants),
		Units:       len(result.Units),
	})
}

// GetResultSales returns the reconciled per-sale detail.
// GET /api/results/sales?unit_id=&consultant_id=
func (h *Handler) GetResultSales(w http.ResponseWriter, r *http.Request) {
	result, ok := h.publishedResult(w)
	if !ok {
		return
	}

	unitID := r.URL.Query().Get("unit_id")
	consultantID := r.URL.Query().Get("consultant_id")

	dtos := make([]ReconciledSaleDTO, 0, len(result.Sales))
	for _, rs := range result.Sales {
		if unitID != "" && string(rs.UnitID) != unitID {
			continue
		}
		if consultantID != "" && string(rs.ConsultantID) != consultantID {
			continue
		}
		dtos = append(dtos, toReconciledSaleDTO(rs))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetResultConsultants returns consultant aggregates.
// GET /api/results/consultants?unit_id=
func (h *Handler) GetResultConsultants(w http.ResponseWriter, r *http.Request) {
	result, ok := h.publishedResult(w)
	if !ok {
		return
	}

	unitID := r.URL.Query().Get("unit_id")
	dtos := make([]ConsultantResultDTO, 0, len(result.Consultants))
	for _, cr := range result.Consultants {
		if unitID != "" && string(cr.UnitID) != unitID {
			continue
		}
		dtos = append(dtos, toConsultantResultDTO(cr))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetResultUnits returns unit aggregates.
// GET /api/results/units
func (h *Handler) GetResultUnits(w http.ResponseWriter, r *http.Request) {
	result, ok := h.publishedResult(w)
	if !ok {
		return
	}

	dtos := make([]UnitResultDTO, 0, len(result.Units))
	for _, ur := range result.Units {
		dtos = append(dtos, toUnitResultDTO(ur))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ExportConsultantsCSV streams the consultant aggregates as CSV for
// payroll import.
// GET /api/export/consultants.csv
func (h *Handler) ExportConsultantsCSV(w http.ResponseWriter, r *http.Request) {
	result, ok := h.publishedResult(w)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="consultants-%s.csv"`, result.Period))

	if err := WriteConsultantsCSV(w, result.Consultants); err != nil {
		h.log.Error().Err(err).Msg("csv export failed mid-stream")
	}
}

// WriteConsultantsCSV writes consultant aggregates in the payroll
// import layout. Exported for tests and offline tooling.
func WriteConsultantsCSV(w io.Writer, consultants []engine.ConsultantResult) error {
	cw := csv.NewWriter(w)
	header := []string{
		"consultant_id", "unit_id", "period",
		"total_sales", "total_commission", "bonus",
		"plan_count", "product_count", "ignored_count",
		"goal_target", "goal_attainment_pct", "individual_goal_met",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, cr := range consultants {
		row := []string{
			string(cr.ConsultantID),
			string(cr.UnitID),
			cr.Period.String(),
			cr.TotalSales.StringFixed(2),
			cr.TotalCommission.StringFixed(2),
			cr.Bonus.StringFixed(2),
			strconv.Itoa(cr.PlanCount),
			strconv.Itoa(cr.ProductCount),
			strconv.Itoa(cr.IgnoredCount),
			cr.GoalTarget.StringFixed(2),
			cr.GoalAttainmentPct.StringFixed(2),
			strconv.FormatBool(cr.IndividualGoalMet),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// publishedResult fetches the latest result or writes a 404.
func (h *Handler) publishedResult(w http.ResponseWriter) (*engine.Result, bool) {
	result := h.Feed.Result()
	if result == nil {
		writeError(w, http.StatusNotFound, "No result published yet; push a snapshot first", nil)
		return nil, false
	}
	return result, true
}

// =============================================================================
// CONFIG HANDLERS
// =============================================================================

// GetConfig returns the current commission configuration.
// GET /api/config
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, factory.ToJSON(h.Feed.Config()))
}

// PutConfig replaces the commission configuration and recomputes.
// PUT /api/config
func (h *Handler) PutConfig(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	cfg, err := factory.ParseConfig(body)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidConfig) {
			writeError(w, http.StatusBadRequest, "Invalid configuration", err)
		} else {
			writeError(w, http.StatusInternalServerError, "Failed to parse configuration", err)
		}
		return
	}

	h.Feed.SetConfig(cfg)
	h.log.Info().Msg("commission configuration replaced")
	writeJSON(w, http.StatusOK, factory.ToJSON(cfg))
}

// =============================================================================
// MISC HANDLERS
// =============================================================================

// ListStoredPeriods returns every period with stored data, newest first.
// GET /api/periods
func (h *Handler) ListStoredPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.Store.ListPeriods(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list periods", err)
		return
	}
	out := make([]string, len(periods))
	for i, p := range periods {
		out[i] = p.String()
	}
	writeJSON(w, http.StatusOK, out)
}

// Health is a liveness probe.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
