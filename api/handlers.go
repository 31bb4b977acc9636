/*
handlers.go - HTTP API handlers for the case reporting system

PURPOSE:
  Exposes the reporting engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Cases:
    GET    /api/cases                      Filtered case listing
                                           (?view=id projects through a preset)
    GET    /api/filters/options            Filter/report vocabularies

  Reports:
    GET    /api/reports/billing            Time-bucketed billing grid
    GET    /api/reports/billing/export     Grid as CSV download
    GET    /api/reports/matrix             Region/office billing matrix
    GET    /api/reports/classification     Case-mix classification

  Adjustments:
    GET    /api/adjustments                List adjustments
    POST   /api/adjustments                Create adjustment
    GET    /api/adjustments/{id}           Get adjustment
    PUT    /api/adjustments/{id}           Update adjustment
    DELETE /api/adjustments/{id}           Delete adjustment
    POST   /api/adjustments/move           Move amount between buckets

  Views:
    GET    /api/views                      List saved views
    POST   /api/views                      Create view
    DELETE /api/views/{id}                 Delete view

  Scenarios:
    GET    /api/scenarios                  List demo scenarios
    POST   /api/scenarios/load             Load a demo scenario
    POST   /api/scenarios/reset            Wipe the database

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access (writes)
  - Cache: TTL snapshot of cases + adjustments (reads)
  - Views: JSON view factory

  Report reads go through the snapshot cache, never the store
  directly. Every write path invalidates the cache so the next read
  refetches.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/caseflow/cases"
	"github.com/warp/caseflow/factory"
	"github.com/warp/caseflow/report"
	"github.com/warp/caseflow/snapshot"
	"github.com/warp/caseflow/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store
	Cache *snapshot.Cache
	Views *factory.ViewFactory

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store and cache.
func NewHandler(store *sqlite.Store, cache *snapshot.Cache) *Handler {
	return &Handler{
		Store: store,
		Cache: cache,
		Views: factory.NewViewFactory(),
	}
}

// =============================================================================
// CASE HANDLERS
// =============================================================================

// ListCases returns case records matching the filter spec built from
// query parameters. With ?view={id}, the result is projected through
// the saved view preset instead.
func (h *Handler) ListCases(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Cache.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load case snapshot", err)
		return
	}

	spec := specFromQuery(r)
	matched := report.Filter(snap.Cases, spec)

	if viewID := r.URL.Query().Get("view"); viewID != "" {
		rec, err := h.Store.GetView(r.Context(), viewID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load view", err)
			return
		}
		if rec == nil {
			writeError(w, http.StatusNotFound, "View not found", nil)
			return
		}
		keys, err := factory.ColumnsFromJSON(rec.ColumnsJSON)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Stored view is corrupt", err)
			return
		}
		view, err := report.NewView(rec.Name, keys)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Stored view is invalid", err)
			return
		}
		rows := make([][]string, len(matched))
		for i, rec := range matched {
			rows[i] = view.Row(rec)
		}
		writeJSON(w, http.StatusOK, TableDTO{
			View:   view.Name,
			Header: view.Header(),
			Rows:   rows,
		})
		return
	}

	dtos := make([]CaseDTO, len(matched))
	for i, rec := range matched {
		dtos[i] = caseDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// specFromQuery builds a filter spec from query parameters. List
// parameters are comma-separated.
func specFromQuery(r *http.Request) report.Spec {
	q := r.URL.Query()
	return report.Spec{
		Statuses:     listParam(q.Get("statuses")),
		Priorities:   listParam(q.Get("priorities")),
		Teams:        listParam(q.Get("teams")),
		Regions:      listParam(q.Get("regions")),
		Offices:      listParam(q.Get("offices")),
		Industries:   listParam(q.Get("industries")),
		BillingTypes: listParam(q.Get("billing_types")),
		ReceivedFrom: q.Get("received_from"),
		ReceivedTo:   q.Get("received_to"),
		PromisedFrom: q.Get("promised_from"),
		PromisedTo:   q.Get("promised_to"),
		Due:          report.DueBucket(q.Get("due")),
		Query:        q.Get("q"),
	}
}

func caseDTO(r cases.Record) CaseDTO {
	amount := r.AmountValue()
	addOn := r.AddOnValue()
	return CaseDTO{
		ID:              r.ID,
		Code:            r.Code,
		Client:          r.Client,
		Requestor:       r.Requestor,
		Scope:           r.Scope,
		DateReceived:    r.DateReceived,
		PromisedDate:    r.PromisedDate,
		DeliveredDate:   r.DeliveredDate,
		Status:          cases.NormalizeStatus(r.Status).Display(),
		Priority:        cases.NormalizePriority(r.Priority).Display(),
		Team:            r.Team,
		Region:          r.Region,
		Office:          r.Office,
		Industry:        r.Industry,
		BillingType:     r.BillingType,
		Amount:          amount.InexactFloat64(),
		AddOnAmount:     addOn.InexactFloat64(),
		TotalBilled:     amount.Add(addOn).InexactFloat64(),
		AddOnOnly:       r.IsAddOnOnly(),
		AddOnComponents: cases.SplitComponents(r.AddOnComponents),
		Category:        string(report.Categorize(r)),
	}
}

// FilterOptions returns the closed vocabularies for filter and report
// parameters. Status and priority lists end with the Others selector,
// which matches records whose value is unrecognized.
func (h *Handler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, FilterOptionsDTO{
		Statuses:     append(append([]string{}, cases.CanonicalStatuses...), cases.CategoryOthers),
		Priorities:   append(append([]string{}, cases.CanonicalPriorities...), cases.CategoryOthers),
		BillingTypes: append(append([]string{}, cases.BillingTypes...), cases.CategoryOthers),
		Dimensions: []string{
			string(report.DimensionBillingType),
			string(report.DimensionRegion),
			string(report.DimensionTeam),
		},
		Granularities: []string{
			string(report.Monthly),
			string(report.Quarterly),
			string(report.Yearly),
		},
		DueBuckets: []string{
			string(report.DueOverdue),
			string(report.DueSoon),
			string(report.DueThisWeek),
			string(report.DueNextWeek),
			string(report.DueNone),
		},
		Columns: report.ColumnKeys(),
	})
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// BillingReport returns the billing aggregation grid with adjustments
// applied.
func (h *Handler) BillingReport(w http.ResponseWriter, r *http.Request) {
	grid, applied, err := h.buildGrid(r)
	if err != nil {
		status := http.StatusInternalServerError
		if report.IsClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Failed to build billing report", err)
		return
	}
	writeJSON(w, http.StatusOK, gridDTO(grid, applied))
}

// ExportBillingReport streams the billing grid as a CSV download.
func (h *Handler) ExportBillingReport(w http.ResponseWriter, r *http.Request) {
	grid, _, err := h.buildGrid(r)
	if err != nil {
		status := http.StatusInternalServerError
		if report.IsClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Failed to build billing report", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="billing-report.csv"`)

	cw := csv.NewWriter(w)
	header := append([]string{"Category"}, grid.PeriodLabels()...)
	header = append(header, "Total")
	cw.Write(header)

	for i, category := range grid.Categories {
		row := make([]string, 0, len(grid.Periods)+2)
		row = append(row, category)
		for _, cell := range grid.Cells[i] {
			row = append(row, cell.String())
		}
		row = append(row, grid.RowTotals[i].String())
		cw.Write(row)
	}

	totals := make([]string, 0, len(grid.Periods)+2)
	totals = append(totals, "Total")
	for _, t := range grid.PeriodTotals {
		totals = append(totals, t.String())
	}
	totals = append(totals, grid.GrandTotal.String())
	cw.Write(totals)
	cw.Flush()
}

// buildGrid assembles the adjusted billing grid from query parameters.
func (h *Handler) buildGrid(r *http.Request) (*report.Grid, int, error) {
	snap, err := h.Cache.Get(r.Context())
	if err != nil {
		return nil, 0, err
	}

	q := r.URL.Query()
	granularity, err := report.ParseGranularity(q.Get("granularity"))
	if err != nil {
		return nil, 0, err
	}
	dimension, err := report.ParseDimension(q.Get("dimension"))
	if err != nil {
		return nil, 0, err
	}
	years, err := yearsParam(q.Get("years"))
	if err != nil {
		return nil, 0, err
	}
	if len(years) == 0 {
		years = observedYears(snap.Cases)
	}

	grid, err := report.Aggregate(snap.Cases, report.AggregateParams{
		Years:       years,
		Granularity: granularity,
		Dimension:   dimension,
	})
	if err != nil {
		return nil, 0, err
	}

	applied := report.ApplyAdjustments(grid, snap.Adjustments)
	return grid, applied, nil
}

// MatrixReport returns the region/office billing matrix.
func (h *Handler) MatrixReport(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Cache.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load case snapshot", err)
		return
	}

	q := r.URL.Query()
	granularity, err := report.ParseGranularity(q.Get("granularity"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid granularity", err)
		return
	}
	years, err := yearsParam(q.Get("years"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid years", err)
		return
	}

	m := report.BuildMatrix(snap.Cases, report.MatrixParams{
		Granularity: granularity,
		Years:       years,
	})
	writeJSON(w, http.StatusOK, matrixDTO(m))
}

// ClassificationReport returns the case-mix classification, optionally
// restricted to cases received in one year.
func (h *Handler) ClassificationReport(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Cache.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load case snapshot", err)
		return
	}

	records := snap.Cases
	if rawYear := r.URL.Query().Get("year"); rawYear != "" {
		year, err := strconv.Atoi(rawYear)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		var filtered []cases.Record
		for _, rec := range records {
			if at := rec.ReceivedAt(); at != nil && at.Year() == year {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	c := report.Classify(records)
	writeJSON(w, http.StatusOK, classificationDTO(c))
}

// =============================================================================
// ADJUSTMENT HANDLERS
// =============================================================================

// ListAdjustments returns all adjustments.
func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	adjs, err := h.Store.FetchAdjustments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list adjustments", err)
		return
	}

	dtos := make([]AdjustmentDTO, len(adjs))
	for i, a := range adjs {
		dtos[i] = adjustmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetAdjustment returns a single adjustment.
func (h *Handler) GetAdjustment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	adj, err := h.Store.GetAdjustment(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get adjustment", err)
		return
	}
	if adj == nil {
		writeError(w, http.StatusNotFound, "Adjustment not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, adjustmentDTO(*adj))
}

// CreateAdjustment creates a new adjustment.
func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req SaveAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	adj, err := adjustmentFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid adjustment", err)
		return
	}
	adj.ID = fmt.Sprintf("adj-%d", time.Now().UnixNano())

	if err := h.Store.SaveAdjustment(r.Context(), adj); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save adjustment", err)
		return
	}
	h.Cache.Invalidate()

	writeJSON(w, http.StatusCreated, adjustmentDTO(adj))
}

// UpdateAdjustment replaces an existing adjustment.
func (h *Handler) UpdateAdjustment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.Store.GetAdjustment(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get adjustment", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Adjustment not found", nil)
		return
	}

	var req SaveAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	adj, err := adjustmentFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid adjustment", err)
		return
	}
	adj.ID = id
	adj.CreatedAt = existing.CreatedAt

	if err := h.Store.SaveAdjustment(r.Context(), adj); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save adjustment", err)
		return
	}
	h.Cache.Invalidate()

	writeJSON(w, http.StatusOK, adjustmentDTO(adj))
}

// DeleteAdjustment removes an adjustment.
func (h *Handler) DeleteAdjustment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existed, err := h.Store.DeleteAdjustment(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete adjustment", err)
		return
	}
	if !existed {
		writeError(w, http.StatusNotFound, "Adjustment not found", nil)
		return
	}
	h.Cache.Invalidate()

	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// MoveAdjustment moves an amount between two monthly buckets of the
// same billing type by writing a compensating pair: a deduction at the
// source and a matching addition at the destination. Grid totals shift
// but the grand total is unchanged.
func (h *Handler) MoveAdjustment(w http.ResponseWriter, r *http.Request) {
	var req MoveAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount := decimal.NewFromFloat(req.Amount)
	if err := validateMove(req, amount); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid move", err)
		return
	}

	billingType := cases.CanonicalBillingType(req.BillingType)
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = fmt.Sprintf("Moved from %d-%02d to %d-%02d", req.FromYear, req.FromMonth, req.ToYear, req.ToMonth)
	}

	stamp := time.Now().UnixNano()
	pair := []cases.Adjustment{
		{
			ID:          fmt.Sprintf("adj-%d-from", stamp),
			Month:       req.FromMonth,
			Year:        req.FromYear,
			BillingType: billingType,
			Amount:      amount.Neg(),
			Reason:      reason,
		},
		{
			ID:          fmt.Sprintf("adj-%d-to", stamp),
			Month:       req.ToMonth,
			Year:        req.ToYear,
			BillingType: billingType,
			Amount:      amount,
			Reason:      reason,
		},
	}

	for _, adj := range pair {
		if err := h.Store.SaveAdjustment(r.Context(), adj); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save adjustment", err)
			return
		}
	}
	h.Cache.Invalidate()

	dtos := []AdjustmentDTO{adjustmentDTO(pair[0]), adjustmentDTO(pair[1])}
	writeJSON(w, http.StatusCreated, dtos)
}

func adjustmentFromRequest(req SaveAdjustmentRequest) (cases.Adjustment, error) {
	adj := cases.Adjustment{
		Month:       req.Month,
		Year:        req.Year,
		BillingType: cases.CanonicalBillingType(req.BillingType),
		Amount:      decimal.NewFromFloat(req.Amount),
		Reason:      strings.TrimSpace(req.Reason),
	}
	if !adj.Valid() {
		return cases.Adjustment{}, &report.AdjustmentValidationError{
			Field:  "month/year",
			Reason: fmt.Sprintf("%d-%02d is not a calendar bucket", req.Year, req.Month),
		}
	}
	if !cases.IsKnownBillingType(req.BillingType) {
		return cases.Adjustment{}, &report.AdjustmentValidationError{
			Field:  "billing_type",
			Reason: fmt.Sprintf("%q is not an adjustable billing type", req.BillingType),
		}
	}
	return adj, nil
}

func validateMove(req MoveAdjustmentRequest, amount decimal.Decimal) error {
	from := cases.Adjustment{Month: req.FromMonth, Year: req.FromYear}
	if !from.Valid() {
		return &report.AdjustmentValidationError{
			Field:  "from_month/from_year",
			Reason: fmt.Sprintf("%d-%02d is not a calendar bucket", req.FromYear, req.FromMonth),
		}
	}
	to := cases.Adjustment{Month: req.ToMonth, Year: req.ToYear}
	if !to.Valid() {
		return &report.AdjustmentValidationError{
			Field:  "to_month/to_year",
			Reason: fmt.Sprintf("%d-%02d is not a calendar bucket", req.ToYear, req.ToMonth),
		}
	}
	if req.FromYear == req.ToYear && req.FromMonth == req.ToMonth {
		return &report.AdjustmentValidationError{Field: "to_month/to_year", Reason: "source and destination are the same bucket"}
	}
	if !cases.IsKnownBillingType(req.BillingType) {
		return &report.AdjustmentValidationError{
			Field:  "billing_type",
			Reason: fmt.Sprintf("%q is not an adjustable billing type", req.BillingType),
		}
	}
	if amount.IsZero() {
		return &report.AdjustmentValidationError{Field: "amount", Reason: "amount must be non-zero"}
	}
	return nil
}

// =============================================================================
// VIEW HANDLERS
// =============================================================================

// ListViews returns all saved view presets.
func (h *Handler) ListViews(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListViews(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list views", err)
		return
	}

	dtos := make([]ViewDTO, 0, len(records))
	for _, rec := range records {
		keys, err := factory.ColumnsFromJSON(rec.ColumnsJSON)
		if err != nil {
			// A corrupt preset should not hide the rest
			continue
		}
		dtos = append(dtos, ViewDTO{
			ID:        rec.ID,
			Name:      rec.Name,
			Columns:   keys,
			CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateView saves a new view preset after validating its columns
// against the registry.
func (h *Handler) CreateView(w http.ResponseWriter, r *http.Request) {
	var req SaveViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	view, err := h.Views.FromJSON(factory.ViewJSON{Name: req.Name, Columns: req.Columns})
	if err != nil {
		status := http.StatusInternalServerError
		if report.IsClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Invalid view definition", err)
		return
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = fmt.Sprintf("view-%d", time.Now().UnixNano())
	}
	columnsJSON, err := factory.ColumnsJSON(req.Columns)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to serialize view", err)
		return
	}

	if err := h.Store.SaveView(r.Context(), sqlite.ViewRecord{
		ID:          id,
		Name:        view.Name,
		ColumnsJSON: columnsJSON,
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save view", err)
		return
	}

	writeJSON(w, http.StatusCreated, ViewDTO{ID: id, Name: view.Name, Columns: req.Columns})
}

// DeleteView removes a view preset.
func (h *Handler) DeleteView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existed, err := h.Store.DeleteView(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete view", err)
		return
	}
	if !existed {
		writeError(w, http.StatusNotFound, "View not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// =============================================================================
// DTO CONVERSION
// =============================================================================

func periodDTOs(periods []report.Period) []PeriodDTO {
	out := make([]PeriodDTO, len(periods))
	for i, p := range periods {
		out[i] = PeriodDTO{Year: p.Key.Year, Index: p.Key.Index, Label: p.Label}
	}
	return out
}

func floats(cells []decimal.Decimal) []float64 {
	out := make([]float64, len(cells))
	for i, c := range cells {
		out[i] = c.InexactFloat64()
	}
	return out
}

func gridDTO(g *report.Grid, applied int) GridDTO {
	rows := make([]GridRowDTO, len(g.Categories))
	for i, category := range g.Categories {
		rows[i] = GridRowDTO{
			Category: category,
			Cells:    floats(g.Cells[i]),
			Total:    g.RowTotals[i].InexactFloat64(),
		}
	}
	return GridDTO{
		Granularity:        string(g.Granularity),
		Dimension:          string(g.Dimension),
		Periods:            periodDTOs(g.Periods),
		Rows:               rows,
		PeriodTotals:       floats(g.PeriodTotals),
		GrandTotal:         g.GrandTotal.InexactFloat64(),
		AdjustmentsApplied: applied,
	}
}

func matrixDTO(m *report.Matrix) MatrixDTO {
	rows := make([]MatrixRowDTO, len(m.Rows))
	for i, row := range m.Rows {
		rows[i] = MatrixRowDTO{
			Region:   row.Region,
			Office:   row.Office,
			Subtotal: row.Subtotal,
			Cells:    floats(row.Cells),
			Total:    row.Total.InexactFloat64(),
		}
	}
	return MatrixDTO{
		Granularity:  string(m.Granularity),
		Periods:      periodDTOs(m.Periods),
		Rows:         rows,
		ColumnTotals: floats(m.ColumnTotals),
		GrandTotal:   m.GrandTotal.InexactFloat64(),
	}
}

func classificationDTO(c *report.Classification) ClassificationDTO {
	toDTOs := func(records []cases.Record) []CaseDTO {
		out := make([]CaseDTO, len(records))
		for i, r := range records {
			out[i] = caseDTO(r)
		}
		return out
	}
	components := make([]ComponentDTO, len(c.Components))
	for i, comp := range c.Components {
		components[i] = ComponentDTO{
			Name:    comp.Name,
			Revenue: comp.Revenue.InexactFloat64(),
			Cases:   comp.Cases,
		}
	}
	return ClassificationDTO{
		TypeOnly:          toDTOs(c.TypeOnly),
		Bundled:           toDTOs(c.Bundled),
		AddOnsOnly:        toDTOs(c.AddOnsOnly),
		Unclassified:      c.Unclassified,
		TypeOnlyRevenue:   c.TypeOnlyRevenue.InexactFloat64(),
		BundledRevenue:    c.BundledRevenue.InexactFloat64(),
		AddOnsOnlyRevenue: c.AddOnsOnlyRevenue.InexactFloat64(),
		AddOnRevenue:      c.AddOnRevenue.InexactFloat64(),
		AttachRate:        c.AttachRate.InexactFloat64(),
		AverageAddOnValue: c.AverageAddOnValue.InexactFloat64(),
		Components:        components,
	}
}

func adjustmentDTO(a cases.Adjustment) AdjustmentDTO {
	dto := AdjustmentDTO{
		ID:          a.ID,
		Month:       a.Month,
		Year:        a.Year,
		BillingType: a.BillingType,
		Amount:      a.Amount.InexactFloat64(),
		Reason:      a.Reason,
	}
	if !a.CreatedAt.IsZero() {
		dto.CreatedAt = a.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// QUERY PARAMETER HELPERS
// =============================================================================

// listParam splits a comma-separated parameter into trimmed values.
func listParam(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// yearsParam parses a comma-separated list of 4-digit years.
func yearsParam(raw string) ([]int, error) {
	var out []int
	for _, part := range listParam(raw) {
		year, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q: %w", part, err)
		}
		out = append(out, year)
	}
	return out, nil
}

// observedYears derives the year window from the data when the caller
// does not ask for one. Falls back to the current year on an empty
// snapshot so the grid is never degenerate.
func observedYears(records []cases.Record) []int {
	seen := map[int]bool{}
	for _, r := range records {
		if at := r.ReceivedAt(); at != nil {
			seen[at.Year()] = true
		}
	}
	if len(seen) == 0 {
		return []int{time.Now().Year()}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// =============================================================================
// RESPONSE HELPERS
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
