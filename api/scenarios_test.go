/*
scenarios_test.go - Demo scenario loading tests

Each scenario is loaded through the API and verified against the
report it is meant to demonstrate.
*/
package api

import (
	"net/http"
	"testing"
)

func loadScenario(t *testing.T, h *Handler, id string) {
	t.Helper()
	rec := serve(h, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: id})
	if rec.Code != http.StatusOK {
		t.Fatalf("Failed to load scenario %s: %d %s", id, rec.Code, rec.Body.String())
	}
}

func TestListScenarios(t *testing.T) {
	h := newTestHandler(t)
	rec := serve(h, http.MethodGet, "/api/scenarios", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	dtos := decode[[]ScenarioDTO](t, rec)
	if len(dtos) != 3 {
		t.Errorf("Expected 3 scenarios, got %d", len(dtos))
	}
}

func TestLoadScenario_Unknown(t *testing.T) {
	h := newTestHandler(t)
	rec := serve(h, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestQuarterMixScenario_BillingGrid(t *testing.T) {
	// GIVEN: The quarterly billing mix scenario
	h := newTestHandler(t)
	loadScenario(t, h, "quarter-mix")

	current := serve(h, http.MethodGet, "/api/scenarios/current", nil)
	if got := decode[map[string]string](t, current); got["scenario_id"] != "quarter-mix" {
		t.Errorf("Expected current scenario quarter-mix, got %q", got["scenario_id"])
	}

	// WHEN: Building the quarterly billing-type grid
	rec := serve(h, http.MethodGet, "/api/reports/billing?years=2024&granularity=quarterly&dimension=billing-type", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	grid := decode[GridDTO](t, rec)

	// THEN: Totals reflect every case, the add-on, the unknown type
	// under Others, and the February adjustment
	if grid.GrandTotal != 109750 {
		t.Errorf("Expected grand total 109750, got %v", grid.GrandTotal)
	}
	if len(grid.Periods) != 4 {
		t.Errorf("Expected 4 quarters, got %d", len(grid.Periods))
	}
	rows := map[string]GridRowDTO{}
	for _, row := range grid.Rows {
		rows[row.Category] = row
	}
	if rows["Others"].Total != 5000 {
		t.Errorf("Expected Success Fee under Others = 5000, got %v", rows["Others"].Total)
	}
	if rows["Add-ons"].Total != 4500 {
		t.Errorf("Expected Add-ons row 4500, got %v", rows["Add-ons"].Total)
	}
	if grid.AdjustmentsApplied != 1 {
		t.Errorf("Expected 1 adjustment applied, got %d", grid.AdjustmentsApplied)
	}
}

func TestRegionalSpreadScenario_Matrix(t *testing.T) {
	// GIVEN: The regional spread scenario
	h := newTestHandler(t)
	loadScenario(t, h, "regional-spread")

	// WHEN: Building the yearly matrix
	rec := serve(h, http.MethodGet, "/api/reports/matrix?granularity=yearly", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	m := decode[MatrixDTO](t, rec)

	// THEN: Columns are newest-first, preferred regions lead, and
	// unassigned rows trail under sentinel labels
	if len(m.Periods) != 2 || m.Periods[0].Year != 2024 || m.Periods[1].Year != 2023 {
		t.Fatalf("Expected [2024 2023] columns, got %+v", m.Periods)
	}
	if m.GrandTotal != 98450 {
		t.Errorf("Expected grand total 98450, got %v", m.GrandTotal)
	}
	if m.Rows[0].Region != "Americas" {
		t.Errorf("Expected Americas first, got %q", m.Rows[0].Region)
	}
	last := m.Rows[len(m.Rows)-1]
	if last.Region != "(Unassigned Region)" || !last.Subtotal {
		t.Errorf("Expected trailing unassigned subtotal, got %+v", last)
	}
	foundBlankOffice := false
	for _, row := range m.Rows {
		if row.Office == "(Blank Office)" {
			foundBlankOffice = true
			if row.Total != 4200 {
				t.Errorf("Expected blank office total 4200, got %v", row.Total)
			}
		}
	}
	if !foundBlankOffice {
		t.Error("Expected a (Blank Office) row")
	}
}

func TestAddOnAttachScenario_Classification(t *testing.T) {
	// GIVEN: The add-on attach scenario
	h := newTestHandler(t)
	loadScenario(t, h, "addon-attach")

	// WHEN: Classifying the case mix
	rec := serve(h, http.MethodGet, "/api/reports/classification", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	c := decode[ClassificationDTO](t, rec)

	// THEN: Every classification outcome is represented
	if len(c.TypeOnly) != 2 || len(c.Bundled) != 2 || len(c.AddOnsOnly) != 1 {
		t.Errorf("Expected 2/2/1 split, got %d/%d/%d", len(c.TypeOnly), len(c.Bundled), len(c.AddOnsOnly))
	}
	if c.Unclassified != 1 {
		t.Errorf("Expected 1 unclassified, got %d", c.Unclassified)
	}
	if c.AttachRate != 50 {
		t.Errorf("Expected attach rate 50, got %v", c.AttachRate)
	}
	if c.AddOnRevenue != 13500 {
		t.Errorf("Expected add-on revenue 13500, got %v", c.AddOnRevenue)
	}
}

func TestResetDatabase(t *testing.T) {
	h := newTestHandler(t)
	loadScenario(t, h, "quarter-mix")

	rec := serve(h, http.MethodPost, "/api/scenarios/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	list := serve(h, http.MethodGet, "/api/cases", nil)
	if got := decode[[]CaseDTO](t, list); len(got) != 0 {
		t.Errorf("Expected empty case list after reset, got %d", len(got))
	}
}
