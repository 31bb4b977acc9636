/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates case records (and
	sometimes adjustments) that demonstrate specific reporting features.

AVAILABLE SCENARIOS:

	quarter-mix:      Billing types spread over the quarters of one year,
	                  with a manual adjustment
	regional-spread:  Offices across regions, including unassigned rows,
	                  for the matrix report
	addon-attach:     Type-only / bundled / add-ons-only mix for the
	                  classification report

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Save case records (raw, spreadsheet-shaped values on purpose)
 3. Optionally save adjustments
 4. Invalidate the snapshot cache

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "quarter-mix"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx, h)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Report handlers the scenario data feeds
  - store/sqlite: SaveCases / SaveAdjustment / Reset
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/warp/caseflow/cases"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "quarter-mix",
		Name:        "Quarterly Billing Mix",
		Description: "All billing types across the quarters of 2024, plus a manual adjustment",
	},
	{
		ID:          "regional-spread",
		Name:        "Regional Spread",
		Description: "Offices across Americas/EMEA/APAC, with unassigned rows for the matrix report",
	},
	{
		ID:          "addon-attach",
		Name:        "Add-On Attach",
		Description: "Type-only, bundled and add-ons-only cases for the classification report",
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the most recently loaded scenario.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": h.currentScenario})
}

// LoadScenario resets the database and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "quarter-mix":
		err = loadQuarterMixScenario(ctx, h)
	case "regional-spread":
		err = loadRegionalSpreadScenario(ctx, h)
	case "addon-attach":
		err = loadAddOnAttachScenario(ctx, h)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	h.Cache.Invalidate()

	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// ResetDatabase wipes all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	h.Cache.Invalidate()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// loadQuarterMixScenario spreads every billing type over 2024. The raw
// values deliberately carry spreadsheet noise (currency symbols, mixed
// date formats) to exercise the tolerant parsers.
func loadQuarterMixScenario(ctx context.Context, h *Handler) error {
	records := []cases.Record{
		{ID: "qm-1", Code: "CF-1001", Client: "Harbor Logistics", DateReceived: "2024-01-15", Status: "Delivered", Team: "Diligence", Region: "Americas", Office: "New York", BillingType: "Full", Amount: "$25,000"},
		{ID: "qm-2", Code: "CF-1002", Client: "Meridian Health", DateReceived: "02/20/2024", Status: "Delivered", Team: "Diligence", Region: "Americas", Office: "Chicago", BillingType: "Partial", Amount: "12,500"},
		{ID: "qm-3", Code: "CF-1003", Client: "Northwind Energy", DateReceived: "2024-04-02", Status: "In Progress", Team: "Advisory", Region: "EMEA", Office: "London", BillingType: "Retainer", Amount: "€18,000"},
		{ID: "qm-4", Code: "CF-1004", Client: "Atlas Materials", DateReceived: "2024-05-19", Status: "wip", Team: "Advisory", Region: "EMEA", Office: "Frankfurt", BillingType: "Advisory", Amount: "9000"},
		{ID: "qm-5", Code: "CF-1005", Client: "Pacific Retail", DateReceived: "2024-07-08", Status: "Delivered", Team: "Diligence", Region: "APAC", Office: "Singapore", BillingType: "Full", Amount: "$31,000", AddOnAmount: "4,500", AddOnComponents: "Market Model + Expert Calls"},
		{ID: "qm-6", Code: "CF-1006", Client: "Juniper Capital", DateReceived: "2024-10-23", Status: "New", Team: "Research", Region: "Americas", Office: "New York", BillingType: "Partial", Amount: "7,250"},
		{ID: "qm-7", Code: "CF-1007", Client: "Crestline Partners", DateReceived: "2024-11-30", Status: "On Hold", Team: "Research", Region: "EMEA", Office: "London", BillingType: "Success Fee", Amount: "5,000"},
	}
	if err := h.Store.SaveCases(ctx, records); err != nil {
		return err
	}

	return h.Store.SaveAdjustment(ctx, cases.Adjustment{
		ID:          "qm-adj-1",
		Month:       2,
		Year:        2024,
		BillingType: "Partial",
		Amount:      decimal.NewFromInt(-2500),
		Reason:      "Client credit after scope reduction",
	})
}

// loadRegionalSpreadScenario exercises the region/office matrix,
// including rows with no region or office assigned.
func loadRegionalSpreadScenario(ctx context.Context, h *Handler) error {
	records := []cases.Record{
		{ID: "rs-1", Code: "CF-2001", Client: "Harbor Logistics", DateReceived: "2023-03-10", Status: "Delivered", Region: "Americas", Office: "New York", BillingType: "Full", Amount: "20,000"},
		{ID: "rs-2", Code: "CF-2002", Client: "Summit Foods", DateReceived: "2023-06-21", Status: "Delivered", Region: "Americas", Office: "Chicago", BillingType: "Full", Amount: "14,000"},
		{ID: "rs-3", Code: "CF-2003", Client: "Northwind Energy", DateReceived: "2024-01-17", Status: "Delivered", Region: "EMEA", Office: "London", BillingType: "Retainer", Amount: "16,500", AddOnAmount: "2,000"},
		{ID: "rs-4", Code: "CF-2004", Client: "Atlas Materials", DateReceived: "2024-02-09", Status: "Delivered", Region: "EMEA", Office: "Frankfurt", BillingType: "Partial", Amount: "8,750"},
		{ID: "rs-5", Code: "CF-2005", Client: "Pacific Retail", DateReceived: "2024-03-28", Status: "Delivered", Region: "APAC", Office: "Singapore", BillingType: "Full", Amount: "27,000"},
		{ID: "rs-6", Code: "CF-2006", Client: "Kite Analytics", DateReceived: "2024-04-15", Status: "Delivered", Region: "", Office: "Remote", BillingType: "Advisory", Amount: "6,000"},
		{ID: "rs-7", Code: "CF-2007", Client: "Bluewater Shipping", DateReceived: "2024-05-02", Status: "Delivered", Region: "Americas", Office: "", BillingType: "Partial", Amount: "4,200"},
	}
	return h.Store.SaveCases(ctx, records)
}

// loadAddOnAttachScenario builds a case mix with every classification
// outcome represented.
func loadAddOnAttachScenario(ctx context.Context, h *Handler) error {
	records := []cases.Record{
		// Type-only: billing type, no add-ons
		{ID: "aa-1", Code: "CF-3001", Client: "Harbor Logistics", DateReceived: "2024-02-12", Status: "Delivered", BillingType: "Full", Amount: "22,000"},
		{ID: "aa-2", Code: "CF-3002", Client: "Meridian Health", DateReceived: "2024-03-05", Status: "Delivered", BillingType: "Partial", Amount: "11,000"},
		// Bundled: billing type plus add-on revenue
		{ID: "aa-3", Code: "CF-3003", Client: "Northwind Energy", DateReceived: "2024-04-19", Status: "Delivered", BillingType: "Full", Amount: "28,000", AddOnAmount: "6,000", AddOnComponents: "Expert Calls, Market Model"},
		{ID: "aa-4", Code: "CF-3004", Client: "Pacific Retail", DateReceived: "2024-06-07", Status: "Delivered", BillingType: "Retainer", Amount: "15,000", AddOnAmount: "3,500", AddOnComponents: "Site Visits"},
		// Add-ons-only: flagged, no primary engagement
		{ID: "aa-5", Code: "CF-3005", Client: "Juniper Capital", DateReceived: "2024-07-22", Status: "Delivered", AddOnOnly: "Yes", AddOnAmount: "4,000", AddOnComponents: "Expert Calls"},
		// Unclassified: nothing billable on record
		{ID: "aa-6", Code: "CF-3006", Client: "Kite Analytics", DateReceived: "2024-08-14", Status: "In Progress"},
	}
	return h.Store.SaveCases(ctx, records)
}
