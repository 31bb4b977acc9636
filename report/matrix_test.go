package report_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/caseflow/cases"
	"github.com/warp/caseflow/report"
)

func regionCase(id, date, region, office, amount string) cases.Record {
	r := billedCase(id, date, "Full", amount)
	r.Region = region
	r.Office = office
	return r
}

// =============================================================================
// ROW GROUPING AND TOTALS
// =============================================================================

func TestBuildMatrix_RegionOfficeGrouping(t *testing.T) {
	// GIVEN: Offices across two regions over two years
	// WHEN: Building a yearly matrix
	// THEN: Office rows group under regions with subtotal rows, row
	//       totals, column totals, and a grand total

	records := []cases.Record{
		regionCase("1", "2024-02-01", "Americas", "NYC", "100"),
		regionCase("2", "2024-06-01", "Americas", "Austin", "50"),
		regionCase("3", "2023-03-01", "Americas", "NYC", "25"),
		regionCase("4", "2024-04-01", "EMEA", "London", "200"),
	}
	m := report.BuildMatrix(records, report.MatrixParams{Granularity: report.Yearly})

	// Newest year first.
	if len(m.Periods) != 2 || m.Periods[0].Label != "2024" || m.Periods[1].Label != "2023" {
		t.Fatalf("periods = %v, want [2024 2023]", m.Periods)
	}

	// Americas: Austin, NYC (lexical), subtotal; then EMEA: London, subtotal.
	wantRows := []struct {
		region, office string
		subtotal       bool
		total          int64
	}{
		{"Americas", "Austin", false, 50},
		{"Americas", "NYC", false, 125},
		{"Americas", "", true, 175},
		{"EMEA", "London", false, 200},
		{"EMEA", "", true, 200},
	}
	if len(m.Rows) != len(wantRows) {
		t.Fatalf("got %d rows, want %d: %+v", len(m.Rows), len(wantRows), m.Rows)
	}
	for i, want := range wantRows {
		row := m.Rows[i]
		if row.Region != want.region || row.Office != want.office || row.Subtotal != want.subtotal {
			t.Errorf("row %d = %s/%s subtotal=%v, want %s/%s subtotal=%v",
				i, row.Region, row.Office, row.Subtotal, want.region, want.office, want.subtotal)
		}
		if !row.Total.Equal(decimal.NewFromInt(want.total)) {
			t.Errorf("row %d total = %s, want %d", i, row.Total, want.total)
		}
	}

	if !m.ColumnTotals[0].Equal(d(350)) || !m.ColumnTotals[1].Equal(d(25)) {
		t.Errorf("column totals = %v, want [350 25]", m.ColumnTotals)
	}
	if !m.GrandTotal.Equal(d(375)) {
		t.Errorf("grand total = %s, want 375", m.GrandTotal)
	}
}

func TestBuildMatrix_SentinelsForBlankRegionOffice(t *testing.T) {
	// Every record appears somewhere: blanks bucket into sentinels.
	records := []cases.Record{
		regionCase("1", "2024-02-01", "", "", "10"),
		regionCase("2", "2024-02-01", "Americas", "", "20"),
	}
	m := report.BuildMatrix(records, report.MatrixParams{Granularity: report.Yearly})

	var sawUnassigned, sawBlankOffice bool
	for _, row := range m.Rows {
		if row.Region == report.UnassignedRegion && !row.Subtotal {
			sawUnassigned = true
			if row.Office != report.BlankOffice {
				t.Errorf("unassigned-region office = %q, want %q", row.Office, report.BlankOffice)
			}
		}
		if row.Region == "Americas" && row.Office == report.BlankOffice {
			sawBlankOffice = true
		}
	}
	if !sawUnassigned || !sawBlankOffice {
		t.Errorf("sentinel rows missing: %+v", m.Rows)
	}
	if !m.GrandTotal.Equal(d(30)) {
		t.Errorf("grand total = %s, want 30 (no record dropped)", m.GrandTotal)
	}
}

func TestBuildMatrix_UnassignedRegionOrderedLast(t *testing.T) {
	records := []cases.Record{
		regionCase("1", "2024-01-01", "", "X", "1"),
		regionCase("2", "2024-01-01", "Zeta", "X", "1"),
		regionCase("3", "2024-01-01", "APAC", "X", "1"),
	}
	m := report.BuildMatrix(records, report.MatrixParams{Granularity: report.Yearly})

	var regionOrder []string
	for _, row := range m.Rows {
		if row.Subtotal {
			regionOrder = append(regionOrder, row.Region)
		}
	}
	want := []string{"APAC", "Zeta", report.UnassignedRegion}
	for i := range want {
		if regionOrder[i] != want[i] {
			t.Fatalf("region order = %v, want %v", regionOrder, want)
		}
	}
}

// =============================================================================
// YEAR WINDOW CAP
// =============================================================================

func TestBuildMatrix_YearlyCapsToFourMostRecentYears(t *testing.T) {
	// GIVEN: Records spanning six years
	// WHEN: Building a yearly matrix without an explicit year list
	// THEN: Only the four most recent years appear, newest first

	var records []cases.Record
	for _, year := range []string{"2019", "2020", "2021", "2022", "2023", "2024"} {
		records = append(records, regionCase(year, year+"-06-01", "EMEA", "London", "10"))
	}
	m := report.BuildMatrix(records, report.MatrixParams{Granularity: report.Yearly})

	if len(m.Periods) != 4 {
		t.Fatalf("got %d year columns, want 4", len(m.Periods))
	}
	want := []string{"2024", "2023", "2022", "2021"}
	for i := range want {
		if m.Periods[i].Label != want[i] {
			t.Errorf("period %d = %s, want %s", i, m.Periods[i].Label, want[i])
		}
	}
	// The out-of-window records are excluded from totals too.
	if !m.GrandTotal.Equal(d(40)) {
		t.Errorf("grand total = %s, want 40", m.GrandTotal)
	}
}

func TestBuildMatrix_MonthlyExplicitYear(t *testing.T) {
	records := []cases.Record{
		regionCase("1", "2024-03-15", "EMEA", "London", "100"),
	}
	r := regionCase("2", "2024-03-20", "EMEA", "London", "40")
	r.AddOnAmount = "10"
	records = append(records, r)

	m := report.BuildMatrix(records, report.MatrixParams{
		Granularity: report.Monthly,
		Years:       []int{2024},
	})
	if len(m.Periods) != 12 {
		t.Fatalf("got %d columns, want dense 12", len(m.Periods))
	}
	// Cells hold total billed: primary plus add-on.
	march := m.Rows[0].Cells[2]
	if !march.Equal(d(150)) {
		t.Errorf("March = %s, want 150", march)
	}
}

func TestBuildMatrix_ZeroCellsAreZeroNotOmitted(t *testing.T) {
	records := []cases.Record{regionCase("1", "2024-03-15", "EMEA", "London", "100")}
	m := report.BuildMatrix(records, report.MatrixParams{Granularity: report.Monthly, Years: []int{2024}})
	for i, cell := range m.Rows[0].Cells {
		if i == 2 {
			continue
		}
		if !cell.Equal(decimal.Zero) {
			t.Errorf("cell %d = %s, want explicit zero", i, cell)
		}
	}
}
