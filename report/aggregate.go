/*
Package report implements the case aggregation and reporting engine.

PURPOSE:
  Transforms a flat, already-fetched collection of case records (plus a
  secondary collection of manual billing adjustments) into display-ready
  derived views:

  - Filter:           declarative record filtering (filter.go)
  - Aggregate:        dense time-bucketed sums, optionally cross-tabbed
                      by billing type, region, or team (this file)
  - ApplyAdjustments: manual corrections layered onto the grid (overlay.go)
  - BuildMatrix:      region -> office x time-period pivot (matrix.go)
  - Classify:         billing-category classification and metrics (classify.go)
  - View/Columns:     closed registry of field projectors (columns.go)

DESIGN PRINCIPLES:
  1. Pure functions: every operation is a synchronous pass over an
     immutable in-memory snapshot. No internal state, no locking.
  2. Dense output: every requested bucket is present even when zero.
     Rendering "-" for empty cells is the consumer's decision.
  3. Silent data-quality recovery: bad dates and amounts resolve to
     safe defaults in the cases package, never to errors here.

SEE ALSO:
  - cases/: Record types and the tolerant parsers
  - snapshot/: The cache/refresh collaborator feeding this engine
*/
package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/caseflow/cases"
)

// =============================================================================
// DIMENSION - Optional cross-tab axis
// =============================================================================

// Dimension selects the categorical row axis of an aggregation grid.
type Dimension string

const (
	DimensionNone        Dimension = ""
	DimensionBillingType Dimension = "billing-type"
	DimensionRegion      Dimension = "region"
	DimensionTeam        Dimension = "team"
)

// totalCategory is the single row label of a dimensionless grid.
const totalCategory = "Total"

// ParseDimension validates a raw dimension string from a caller.
func ParseDimension(raw string) (Dimension, error) {
	switch Dimension(raw) {
	case DimensionNone, DimensionBillingType, DimensionRegion, DimensionTeam:
		return Dimension(raw), nil
	}
	return "", ErrUnknownDimension
}

// PreferredRegions is the fixed display order for known regions.
// Unrecognized regions are appended after these, lexically.
var PreferredRegions = []string{"Americas", "EMEA", "APAC"}

// =============================================================================
// GRID - Dense (time period x category) sum table
// =============================================================================

// Grid is a dense aggregation result. Cells is indexed
// [category][period]; every requested period and category is present
// even when its sum is zero.
type Grid struct {
	Granularity Granularity
	Dimension   Dimension

	Periods    []Period
	Categories []string

	Cells        [][]decimal.Decimal
	RowTotals    []decimal.Decimal // per category, across periods
	PeriodTotals []decimal.Decimal // per period, across categories
	GrandTotal   decimal.Decimal

	periodIndex   map[PeriodKey]int
	categoryIndex map[string]int
}

func newGrid(granularity Granularity, dimension Dimension, years []int, categories []string) *Grid {
	periods := PeriodsFor(years, granularity)
	g := &Grid{
		Granularity:   granularity,
		Dimension:     dimension,
		Periods:       periods,
		Categories:    categories,
		Cells:         make([][]decimal.Decimal, len(categories)),
		RowTotals:     make([]decimal.Decimal, len(categories)),
		PeriodTotals:  make([]decimal.Decimal, len(periods)),
		GrandTotal:    decimal.Zero,
		periodIndex:   make(map[PeriodKey]int, len(periods)),
		categoryIndex: make(map[string]int, len(categories)),
	}
	for i := range categories {
		g.Cells[i] = make([]decimal.Decimal, len(periods))
		for j := range g.Cells[i] {
			g.Cells[i][j] = decimal.Zero
		}
		g.RowTotals[i] = decimal.Zero
		g.categoryIndex[categories[i]] = i
	}
	for j, p := range periods {
		g.periodIndex[p.Key] = j
		g.PeriodTotals[j] = decimal.Zero
	}
	return g
}

// add accumulates amt into the (category, period) cell and the
// affected totals. Returns false when no such cell exists.
func (g *Grid) add(category string, key PeriodKey, amt decimal.Decimal) bool {
	row, ok := g.categoryIndex[category]
	if !ok {
		return false
	}
	col, ok := g.periodIndex[key]
	if !ok {
		return false
	}
	g.Cells[row][col] = g.Cells[row][col].Add(amt)
	g.RowTotals[row] = g.RowTotals[row].Add(amt)
	g.PeriodTotals[col] = g.PeriodTotals[col].Add(amt)
	g.GrandTotal = g.GrandTotal.Add(amt)
	return true
}

// Cell returns the sum for a (category, period) pair, or zero when the
// pair is outside the grid.
func (g *Grid) Cell(category string, key PeriodKey) decimal.Decimal {
	row, ok := g.categoryIndex[category]
	if !ok {
		return decimal.Zero
	}
	col, ok := g.periodIndex[key]
	if !ok {
		return decimal.Zero
	}
	return g.Cells[row][col]
}

// HasPeriod reports whether a period key is part of the grid.
func (g *Grid) HasPeriod(key PeriodKey) bool {
	_, ok := g.periodIndex[key]
	return ok
}

// PeriodLabels returns the column labels in period order.
func (g *Grid) PeriodLabels() []string {
	labels := make([]string, len(g.Periods))
	for i, p := range g.Periods {
		labels[i] = p.Label
	}
	return labels
}

// =============================================================================
// AGGREGATION
// =============================================================================

// AggregateParams selects the shape of a billing aggregation.
type AggregateParams struct {
	Years       []int
	Granularity Granularity
	Dimension   Dimension
}

// Aggregate buckets records into a dense grid and sums billing amounts
// per (period, category) cell.
//
// Bucketing is by date received. Records with a missing or unparseable
// date, or a date outside the requested years, are skipped. A record
// whose amount parses to zero still lands in its bucket: presence, not
// magnitude, drives categorization.
//
// Add-on billing amounts are additive to the primary amount. In a
// billing-type cross-tab they accumulate under the synthetic "Add-ons"
// row; in every other dimension they fold into the record's own
// category, so each cell reads as total billed.
func Aggregate(records []cases.Record, p AggregateParams) (*Grid, error) {
	if len(p.Years) == 0 {
		return nil, ErrNoYears
	}
	years := dedupYears(p.Years)
	requested := make(map[int]bool, len(years))
	for _, y := range years {
		requested[y] = true
	}

	g := newGrid(p.Granularity, p.Dimension, years, categoriesFor(p.Dimension, records))

	for _, r := range records {
		date := r.ReceivedAt()
		if date == nil || !requested[date.Year()] {
			continue
		}
		key := KeyFor(*date, p.Granularity)
		category := categoryOf(p.Dimension, r)
		g.add(category, key, r.AmountValue())

		if r.HasAddOn() {
			if p.Dimension == DimensionBillingType {
				g.add(cases.CategoryAddOns, key, r.AddOnValue())
			} else {
				g.add(category, key, r.AddOnValue())
			}
		}
	}
	return g, nil
}

// categoryOf maps one record onto its row for the given dimension.
func categoryOf(d Dimension, r cases.Record) string {
	switch d {
	case DimensionBillingType:
		if c := cases.CanonicalBillingType(r.BillingType); c != "" {
			return c
		}
		return cases.CategoryOthers
	case DimensionRegion:
		return regionLabel(r.Region)
	case DimensionTeam:
		if t := strings.TrimSpace(r.Team); t != "" {
			return t
		}
		return cases.CategoryOthers
	default:
		return totalCategory
	}
}

// regionLabel folds case-variant spellings of the preferred regions
// onto their canonical form and blanks onto "Others".
func regionLabel(raw string) string {
	t := strings.TrimSpace(raw)
	if t == "" {
		return cases.CategoryOthers
	}
	for _, pref := range PreferredRegions {
		if strings.EqualFold(t, pref) {
			return pref
		}
	}
	return t
}

// categoriesFor builds the dense row axis for a dimension.
//
// The billing-type axis is fully fixed: every known type plus the
// synthetic Add-ons row and Others, whether or not any record uses
// them. Region and team axes list observed values (preferred regions
// always present and first), so empty data still yields a stable shape.
func categoriesFor(d Dimension, records []cases.Record) []string {
	switch d {
	case DimensionBillingType:
		out := append([]string{}, cases.BillingTypes...)
		return append(out, cases.CategoryAddOns, cases.CategoryOthers)

	case DimensionRegion:
		seen := make(map[string]bool)
		var extra []string
		hasOthers := false
		for _, r := range records {
			label := regionLabel(r.Region)
			if label == cases.CategoryOthers {
				hasOthers = true
				continue
			}
			if !seen[label] && !isPreferredRegion(label) {
				seen[label] = true
				extra = append(extra, label)
			}
		}
		sort.Strings(extra)
		out := append([]string{}, PreferredRegions...)
		out = append(out, extra...)
		if hasOthers {
			out = append(out, cases.CategoryOthers)
		}
		return out

	case DimensionTeam:
		seen := make(map[string]bool)
		var teams []string
		hasOthers := false
		for _, r := range records {
			t := strings.TrimSpace(r.Team)
			if t == "" {
				hasOthers = true
				continue
			}
			if !seen[t] {
				seen[t] = true
				teams = append(teams, t)
			}
		}
		sort.Strings(teams)
		if hasOthers {
			teams = append(teams, cases.CategoryOthers)
		}
		return teams

	default:
		return []string{totalCategory}
	}
}

func isPreferredRegion(label string) bool {
	for _, pref := range PreferredRegions {
		if label == pref {
			return true
		}
	}
	return false
}
