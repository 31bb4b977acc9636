/*
matrix.go - Region/office x time-period pivot

PURPOSE:
  Builds the two-level revenue matrix: offices grouped under regions as
  rows, time periods as columns, with a subtotal row per region, a
  row-total column per row, and a grand-total row across all regions.

ORDERING:
  Known regions appear in their fixed preferred order, unrecognized
  regions after them lexically, and the unassigned sentinel last.
  Offices sort lexically within their region. Every record appears
  somewhere: blank regions and offices bucket into sentinel labels
  instead of being dropped.

YEAR WINDOW:
  At yearly granularity the column count is capped to the four most
  recent years present, newest first, to bound output width. Monthly
  and quarterly matrices take an explicit year list instead.

CELLS:
  Cells hold total billed per case (primary plus add-on amount) and are
  zero decimals, never null. Rendering blank for zero is the consuming
  view's decision.
*/
package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/caseflow/cases"
)

// Sentinel row labels for records with missing grouping fields.
const (
	UnassignedRegion = "(Unassigned Region)"
	BlankOffice      = "(Blank Office)"
)

// maxYearColumns bounds the yearly matrix width.
const maxYearColumns = 4

// =============================================================================
// MATRIX TYPES
// =============================================================================

// MatrixRow is one rendered row: an office row or a region subtotal.
type MatrixRow struct {
	Region   string
	Office   string // empty on subtotal rows
	Subtotal bool
	Cells    []decimal.Decimal
	Total    decimal.Decimal
}

// Matrix is the assembled pivot.
type Matrix struct {
	Granularity  Granularity
	Periods      []Period
	Rows         []MatrixRow
	ColumnTotals []decimal.Decimal
	GrandTotal   decimal.Decimal
}

// MatrixParams selects the matrix shape.
type MatrixParams struct {
	Granularity Granularity

	// Years limits the time axis. Empty means "derive from the data":
	// all years observed, capped at yearly granularity to the most
	// recent maxYearColumns.
	Years []int
}

// =============================================================================
// BUILDER
// =============================================================================

// BuildMatrix pivots records into region -> office rows by time-period
// columns. Records with a missing or unparseable received date are
// skipped; records with blank region or office are kept under sentinel
// labels.
func BuildMatrix(records []cases.Record, p MatrixParams) *Matrix {
	periods := matrixPeriods(records, p)

	m := &Matrix{
		Granularity:  p.Granularity,
		Periods:      periods,
		ColumnTotals: zeroRow(len(periods)),
		GrandTotal:   decimal.Zero,
	}
	colIndex := make(map[PeriodKey]int, len(periods))
	for i, per := range periods {
		colIndex[per.Key] = i
	}

	// region -> office -> cells
	byRegion := make(map[string]map[string][]decimal.Decimal)

	for _, r := range records {
		date := r.ReceivedAt()
		if date == nil {
			continue
		}
		col, ok := colIndex[KeyFor(*date, p.Granularity)]
		if !ok {
			continue
		}

		region := matrixRegion(r.Region)
		office := strings.TrimSpace(r.Office)
		if office == "" {
			office = BlankOffice
		}

		offices, ok := byRegion[region]
		if !ok {
			offices = make(map[string][]decimal.Decimal)
			byRegion[region] = offices
		}
		cells, ok := offices[office]
		if !ok {
			cells = zeroRow(len(periods))
			offices[office] = cells
		}

		amount := r.AmountValue().Add(r.AddOnValue())
		cells[col] = cells[col].Add(amount)
		m.ColumnTotals[col] = m.ColumnTotals[col].Add(amount)
		m.GrandTotal = m.GrandTotal.Add(amount)
	}

	for _, region := range orderedRegions(byRegion) {
		offices := byRegion[region]
		subtotal := zeroRow(len(periods))

		for _, office := range orderedOffices(offices) {
			cells := offices[office]
			row := MatrixRow{Region: region, Office: office, Cells: cells, Total: sum(cells)}
			m.Rows = append(m.Rows, row)
			for i := range cells {
				subtotal[i] = subtotal[i].Add(cells[i])
			}
		}

		m.Rows = append(m.Rows, MatrixRow{
			Region:   region,
			Subtotal: true,
			Cells:    subtotal,
			Total:    sum(subtotal),
		})
	}

	return m
}

// =============================================================================
// AXIS CONSTRUCTION
// =============================================================================

// matrixPeriods builds the column axis. Explicit years win; otherwise
// the axis is derived from observed received dates, with the yearly
// cap applied newest-first.
func matrixPeriods(records []cases.Record, p MatrixParams) []Period {
	years := p.Years
	if len(years) == 0 {
		seen := make(map[int]bool)
		for _, r := range records {
			if d := r.ReceivedAt(); d != nil && !seen[d.Year()] {
				seen[d.Year()] = true
				years = append(years, d.Year())
			}
		}
	}
	years = dedupYears(years)

	if p.Granularity == Yearly {
		if len(years) > maxYearColumns {
			years = years[len(years)-maxYearColumns:]
		}
		// Newest first to keep the current year in view.
		periods := PeriodsFor(years, Yearly)
		for i, j := 0, len(periods)-1; i < j; i, j = i+1, j-1 {
			periods[i], periods[j] = periods[j], periods[i]
		}
		return periods
	}
	return PeriodsFor(years, p.Granularity)
}

func matrixRegion(raw string) string {
	t := strings.TrimSpace(raw)
	if t == "" {
		return UnassignedRegion
	}
	for _, pref := range PreferredRegions {
		if strings.EqualFold(t, pref) {
			return pref
		}
	}
	return t
}

// orderedRegions sorts regions preferred-first, then unrecognized
// lexically, with the unassigned sentinel last.
func orderedRegions(byRegion map[string]map[string][]decimal.Decimal) []string {
	var out []string
	for _, pref := range PreferredRegions {
		if _, ok := byRegion[pref]; ok {
			out = append(out, pref)
		}
	}
	var rest []string
	for region := range byRegion {
		if region == UnassignedRegion || isPreferredRegion(region) {
			continue
		}
		rest = append(rest, region)
	}
	sort.Strings(rest)
	out = append(out, rest...)
	if _, ok := byRegion[UnassignedRegion]; ok {
		out = append(out, UnassignedRegion)
	}
	return out
}

func orderedOffices(offices map[string][]decimal.Decimal) []string {
	out := make([]string, 0, len(offices))
	for office := range offices {
		out = append(out, office)
	}
	sort.Strings(out)
	return out
}

func zeroRow(n int) []decimal.Decimal {
	row := make([]decimal.Decimal, n)
	for i := range row {
		row[i] = decimal.Zero
	}
	return row
}

func sum(cells []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, c := range cells {
		total = total.Add(c)
	}
	return total
}
