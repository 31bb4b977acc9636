package report_test

import (
	"testing"

	"github.com/warp/caseflow/cases"
	"github.com/warp/caseflow/report"
)

// =============================================================================
// DENSE GRID INVARIANT
// =============================================================================

func TestAggregate_DenseGrid_EmptyInput(t *testing.T) {
	// GIVEN: No records at all
	// WHEN: Aggregating monthly for 2024
	// THEN: All 12 buckets exist with zero sums

	g, err := report.Aggregate(nil, report.AggregateParams{
		Years:       []int{2024},
		Granularity: report.Monthly,
		Dimension:   report.DimensionBillingType,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Periods) != 12 {
		t.Fatalf("got %d periods, want 12", len(g.Periods))
	}
	for i, total := range g.PeriodTotals {
		if !total.IsZero() {
			t.Errorf("period %d total = %s, want 0", i, total)
		}
	}
	if !g.GrandTotal.IsZero() {
		t.Errorf("grand total = %s, want 0", g.GrandTotal)
	}
}

func TestAggregate_DenseGrid_RequestedYearWithoutData(t *testing.T) {
	// Years not present in the source data produce all-zero buckets,
	// not omitted ones.
	records := []cases.Record{billedCase("1", "2024-03-15", "Full", "100")}
	g, err := report.Aggregate(records, report.AggregateParams{
		Years:       []int{2023, 2024},
		Granularity: report.Quarterly,
		Dimension:   report.DimensionBillingType,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Periods) != 8 {
		t.Fatalf("got %d periods, want 8 (two years of quarters)", len(g.Periods))
	}
	for q := 1; q <= 4; q++ {
		cell := g.Cell("Full", report.PeriodKey{Year: 2023, Index: q})
		if !cell.IsZero() {
			t.Errorf("2023 Q%d = %s, want 0", q, cell)
		}
	}
	if !g.Cell("Full", report.PeriodKey{Year: 2024, Index: 1}).Equal(d(100)) {
		t.Error("2024 Q1 should hold the record's amount")
	}
}

func TestAggregate_NoYears_IsAnError(t *testing.T) {
	_, err := report.Aggregate(nil, report.AggregateParams{Granularity: report.Monthly})
	if err == nil {
		t.Fatal("expected error for empty year list")
	}
	if !report.IsClientError(err) {
		t.Errorf("expected a client error, got %v", err)
	}
}

// =============================================================================
// BUCKETING
// =============================================================================

func TestAggregate_SingleRecord_MonthlyScenario(t *testing.T) {
	// GIVEN: One record, 2024-03-15, type Full, amount 50000
	// WHEN: Monthly aggregation for 2024
	// THEN: March=50000, the other 11 months zero, grand total 50000

	records := []cases.Record{billedCase("1", "2024-03-15", "Full", "50000")}
	g, err := report.Aggregate(records, report.AggregateParams{
		Years:       []int{2024},
		Granularity: report.Monthly,
		Dimension:   report.DimensionBillingType,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for m := 1; m <= 12; m++ {
		cell := g.Cell("Full", report.PeriodKey{Year: 2024, Index: m})
		want := d(0)
		if m == 3 {
			want = d(50000)
		}
		if !cell.Equal(want) {
			t.Errorf("month %d = %s, want %s", m, cell, want)
		}
	}
	if !g.GrandTotal.Equal(d(50000)) {
		t.Errorf("grand total = %s, want 50000", g.GrandTotal)
	}
}

func TestAggregate_SkipsUndatedAndOutOfRangeRecords(t *testing.T) {
	records := []cases.Record{
		billedCase("in", "2024-05-01", "Full", "10"),
		billedCase("no-date", "", "Full", "999"),
		billedCase("bad-date", "whenever", "Full", "999"),
		billedCase("other-year", "2019-05-01", "Full", "999"),
	}
	g, err := report.Aggregate(records, report.AggregateParams{
		Years:       []int{2024},
		Granularity: report.Monthly,
		Dimension:   report.DimensionBillingType,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !g.GrandTotal.Equal(d(10)) {
		t.Errorf("grand total = %s, want 10", g.GrandTotal)
	}
}

func TestAggregate_ZeroAmount_StillLandsInBucket(t *testing.T) {
	// Presence, not magnitude: a typed record with an unparseable
	// amount contributes zero to its bucket rather than vanishing.
	records := []cases.Record{billedCase("1", "2024-03-15", "Full", "TBD")}
	g, err := report.Aggregate(records, report.AggregateParams{
		Years:       []int{2024},
		Granularity: report.Monthly,
		Dimension:   report.DimensionBillingType,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !g.Cell("Full", report.PeriodKey{Year: 2024, Index: 3}).IsZero() {
		t.Error("zero-parsed amount should contribute zero")
	}
	if !g.GrandTotal.IsZero() {
		t.Error("grand total should be zero")
	}
}

func TestAggregate_AddOnAmount_SyntheticRow(t *testing.T) {
	// GIVEN: A bundled case: Full 100 plus add-ons 200
	// WHEN: Cross-tabbing by billing type
	// THEN: Add-on revenue lands under "Add-ons", additive to the
	//       primary amount, and both count toward the grand total

	r := billedCase("1", "2024-03-15", "Full", "100")
	r.AddOnAmount = "200"
	g, err := report.Aggregate([]cases.Record{r}, report.AggregateParams{
		Years:       []int{2024},
		Granularity: report.Monthly,
		Dimension:   report.DimensionBillingType,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	march := report.PeriodKey{Year: 2024, Index: 3}
	if !g.Cell("Full", march).Equal(d(100)) {
		t.Errorf("Full = %s, want 100", g.Cell("Full", march))
	}
	if !g.Cell(cases.CategoryAddOns, march).Equal(d(200)) {
		t.Errorf("Add-ons = %s, want 200", g.Cell(cases.CategoryAddOns, march))
	}
	if !g.GrandTotal.Equal(d(300)) {
		t.Errorf("grand total = %s, want 300", g.GrandTotal)
	}
}

func TestAggregate_RegionDimension_FoldsAddOnIntoCategory(t *testing.T) {
	r := billedCase("1", "2024-03-15", "Full", "100")
	r.Region = "EMEA"
	r.AddOnAmount = "200"
	g, err := report.Aggregate([]cases.Record{r}, report.AggregateParams{
		Years:       []int{2024},
		Granularity: report.Yearly,
		Dimension:   report.DimensionRegion,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !g.Cell("EMEA", report.PeriodKey{Year: 2024}).Equal(d(300)) {
		t.Errorf("EMEA = %s, want 300 (total billed)", g.Cell("EMEA", report.PeriodKey{Year: 2024}))
	}
}

func TestAggregate_RegionDimension_PreferredOrderAndOthers(t *testing.T) {
	records := []cases.Record{
		func() cases.Record { r := billedCase("1", "2024-01-01", "Full", "1"); r.Region = "apac"; return r }(),
		func() cases.Record { r := billedCase("2", "2024-01-01", "Full", "1"); r.Region = "Nordics"; return r }(),
		func() cases.Record { r := billedCase("3", "2024-01-01", "Full", "1"); r.Region = ""; return r }(),
	}
	g, err := report.Aggregate(records, report.AggregateParams{
		Years:       []int{2024},
		Granularity: report.Yearly,
		Dimension:   report.DimensionRegion,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Americas", "EMEA", "APAC", "Nordics", cases.CategoryOthers}
	if len(g.Categories) != len(want) {
		t.Fatalf("categories = %v, want %v", g.Categories, want)
	}
	for i := range want {
		if g.Categories[i] != want[i] {
			t.Errorf("categories[%d] = %q, want %q", i, g.Categories[i], want[i])
		}
	}
}

// =============================================================================
// ADJUSTMENT OVERLAY
// =============================================================================

func TestApplyAdjustments_ReducesBucketAndTotals(t *testing.T) {
	// GIVEN: March Full = 50000
	// WHEN: Applying a -500 Full adjustment for 2024-03
	// THEN: The bucket, its period total, and the grand total all drop by 500

	records := []cases.Record{billedCase("1", "2024-03-15", "Full", "50000")}
	g, err := report.Aggregate(records, report.AggregateParams{
		Years:       []int{2024},
		Granularity: report.Monthly,
		Dimension:   report.DimensionBillingType,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	applied := report.ApplyAdjustments(g, []cases.Adjustment{adj("a1", 2024, 3, "Full", -500, "correction")})
	if applied != 1 {
		t.Fatalf("applied = %d, want 1", applied)
	}
	march := report.PeriodKey{Year: 2024, Index: 3}
	if !g.Cell("Full", march).Equal(d(49500)) {
		t.Errorf("March Full = %s, want 49500", g.Cell("Full", march))
	}
	if !g.PeriodTotals[2].Equal(d(49500)) {
		t.Errorf("March total = %s, want 49500", g.PeriodTotals[2])
	}
	if !g.GrandTotal.Equal(d(49500)) {
		t.Errorf("grand total = %s, want 49500", g.GrandTotal)
	}
}

func TestApplyAdjustments_OutOfWindow_IsSilentNoOp(t *testing.T) {
	g, err := report.Aggregate(nil, report.AggregateParams{
		Years:       []int{2024},
		Granularity: report.Monthly,
		Dimension:   report.DimensionBillingType,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	skipped := []cases.Adjustment{
		adj("wrong-year", 2020, 3, "Full", -500, ""),
		adj("bad-month", 2024, 13, "Full", -500, ""),
		adj("no-type", 2024, 3, "", -500, ""),
	}
	if applied := report.ApplyAdjustments(g, skipped); applied != 0 {
		t.Errorf("applied = %d, want 0", applied)
	}
	if !g.GrandTotal.IsZero() {
		t.Errorf("grand total = %s, want untouched 0", g.GrandTotal)
	}
}

func TestApplyAdjustments_NonMonthlyGranularity_Skipped(t *testing.T) {
	g, err := report.Aggregate(nil, report.AggregateParams{
		Years:       []int{2024},
		Granularity: report.Quarterly,
		Dimension:   report.DimensionBillingType,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied := report.ApplyAdjustments(g, []cases.Adjustment{adj("a1", 2024, 3, "Full", 100, "")}); applied != 0 {
		t.Error("adjustments only apply at monthly granularity")
	}
}

func TestApplyAdjustments_OrderIndependent(t *testing.T) {
	// GIVEN: Two adjustment lists in opposite order
	// THEN: Bucket totals are identical either way

	build := func() *report.Grid {
		records := []cases.Record{billedCase("1", "2024-03-15", "Full", "1000")}
		g, err := report.Aggregate(records, report.AggregateParams{
			Years:       []int{2024},
			Granularity: report.Monthly,
			Dimension:   report.DimensionBillingType,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return g
	}
	a := adj("a", 2024, 3, "Full", -300, "")
	b := adj("b", 2024, 3, "Full", 120, "")

	g1 := build()
	report.ApplyAdjustments(g1, []cases.Adjustment{a, b})
	g2 := build()
	report.ApplyAdjustments(g2, []cases.Adjustment{b, a})

	march := report.PeriodKey{Year: 2024, Index: 3}
	if !g1.Cell("Full", march).Equal(g2.Cell("Full", march)) {
		t.Errorf("A-then-B = %s, B-then-A = %s", g1.Cell("Full", march), g2.Cell("Full", march))
	}
	if !g1.GrandTotal.Equal(g2.GrandTotal) {
		t.Errorf("grand totals differ: %s vs %s", g1.GrandTotal, g2.GrandTotal)
	}
}

// =============================================================================
// MOVE AS COMPENSATING PAIR
// =============================================================================

func TestApplyAdjustments_CompensatingMovePair(t *testing.T) {
	// Moving 500 from March to May is two adjustments of the same type.
	records := []cases.Record{billedCase("1", "2024-03-15", "Full", "1000")}
	g, err := report.Aggregate(records, report.AggregateParams{
		Years:       []int{2024},
		Granularity: report.Monthly,
		Dimension:   report.DimensionBillingType,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	report.ApplyAdjustments(g, []cases.Adjustment{
		adj("out", 2024, 3, "Full", -500, "move to May"),
		adj("in", 2024, 5, "Full", 500, "move from March"),
	})
	if !g.Cell("Full", report.PeriodKey{Year: 2024, Index: 3}).Equal(d(500)) {
		t.Error("source bucket should drop by the moved amount")
	}
	if !g.Cell("Full", report.PeriodKey{Year: 2024, Index: 5}).Equal(d(500)) {
		t.Error("destination bucket should gain the moved amount")
	}
	if !g.GrandTotal.Equal(d(1000)) {
		t.Errorf("grand total = %s, want unchanged 1000", g.GrandTotal)
	}
}
