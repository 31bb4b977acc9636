/*
classify.go - Billing-category classification and attach metrics

PURPOSE:
  Assigns every case to exactly one billing category per reporting run,
  instead of re-deriving "has a type, has add-ons" checks ad hoc in
  each view:

    add-ons-only: add-on-only flag set AND an add-on amount present
    bundled:      billing type AND add-on amount present, flag not set
    type-only:    billing type present, no add-on amount, flag not set
    unclassified: neither a type nor an add-on amount

  Categories are mutually exclusive; unclassified cases are excluded
  from every revenue and attach-rate metric.

METRICS:
  attach rate        = bundled / (type-only + bundled) * 100
  avg add-on value   = add-on revenue / (add-ons-only + bundled)
  Both are zero when their denominator is zero.

COMPONENT SPLIT:
  When a case lists several delivered add-on components, its add-on
  revenue is split EVENLY across them for the per-component rollup.
  This is an approximation, not a ledger-accurate attribution; treat
  per-component figures as indicative.
*/
package report

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/caseflow/cases"
)

// =============================================================================
// CATEGORY
// =============================================================================

// Category is a case's billing classification.
type Category string

const (
	CategoryTypeOnly     Category = "type-only"
	CategoryBundled      Category = "bundled"
	CategoryAddOnsOnly   Category = "add-ons-only"
	CategoryUnclassified Category = "unclassified"
)

// Categorize assigns one record to its billing category. The decision
// is by field presence, not parsed magnitude: a type with a
// zero-parsed amount is still a type.
func Categorize(r cases.Record) Category {
	switch {
	case r.IsAddOnOnly() && r.HasAddOn():
		return CategoryAddOnsOnly
	case r.HasBillingType() && r.HasAddOn():
		return CategoryBundled
	case r.HasBillingType():
		return CategoryTypeOnly
	default:
		return CategoryUnclassified
	}
}

// =============================================================================
// CLASSIFICATION RUN
// =============================================================================

// ComponentRevenue is one row of the per-component rollup.
type ComponentRevenue struct {
	Name    string
	Revenue decimal.Decimal
	Cases   int
}

// componentUnspecified collects add-on revenue from cases that carry
// an add-on amount but list no components, so the rollup still sums to
// total add-on revenue.
const componentUnspecified = "(Unspecified)"

// Classification is the result of one classification run.
type Classification struct {
	TypeOnly   []cases.Record
	Bundled    []cases.Record
	AddOnsOnly []cases.Record

	Unclassified int

	// Revenue per category. Type-only revenue is primary amounts;
	// bundled revenue includes both primary and add-on amounts;
	// add-ons-only revenue is add-on amounts.
	TypeOnlyRevenue   decimal.Decimal
	BundledRevenue    decimal.Decimal
	AddOnsOnlyRevenue decimal.Decimal

	// AddOnRevenue is total add-on revenue across bundled and
	// add-ons-only cases.
	AddOnRevenue decimal.Decimal

	// AttachRate is a percentage; AverageAddOnValue a money amount.
	// Both are zero when their denominator is zero.
	AttachRate        decimal.Decimal
	AverageAddOnValue decimal.Decimal

	// Components is the even-split per-component rollup, by revenue
	// descending then name.
	Components []ComponentRevenue
}

var hundred = decimal.NewFromInt(100)

// Classify runs the classifier over a (typically pre-filtered) record
// set and computes the derived metrics.
func Classify(records []cases.Record) *Classification {
	c := &Classification{
		TypeOnlyRevenue:   decimal.Zero,
		BundledRevenue:    decimal.Zero,
		AddOnsOnlyRevenue: decimal.Zero,
		AddOnRevenue:      decimal.Zero,
		AttachRate:        decimal.Zero,
		AverageAddOnValue: decimal.Zero,
	}

	componentTotals := make(map[string]decimal.Decimal)
	componentCases := make(map[string]int)

	addComponentRevenue := func(r cases.Record) {
		revenue := r.AddOnValue()
		c.AddOnRevenue = c.AddOnRevenue.Add(revenue)

		components := cases.SplitComponents(r.AddOnComponents)
		if len(components) == 0 {
			components = []string{componentUnspecified}
		}
		// Even split across listed components. Approximate by design.
		share := revenue.Div(decimal.NewFromInt(int64(len(components))))
		for _, name := range components {
			componentTotals[name] = componentTotals[name].Add(share)
			componentCases[name]++
		}
	}

	for _, r := range records {
		switch Categorize(r) {
		case CategoryAddOnsOnly:
			c.AddOnsOnly = append(c.AddOnsOnly, r)
			c.AddOnsOnlyRevenue = c.AddOnsOnlyRevenue.Add(r.AddOnValue())
			addComponentRevenue(r)
		case CategoryBundled:
			c.Bundled = append(c.Bundled, r)
			c.BundledRevenue = c.BundledRevenue.Add(r.AmountValue().Add(r.AddOnValue()))
			addComponentRevenue(r)
		case CategoryTypeOnly:
			c.TypeOnly = append(c.TypeOnly, r)
			c.TypeOnlyRevenue = c.TypeOnlyRevenue.Add(r.AmountValue())
		default:
			c.Unclassified++
		}
	}

	if attachDenom := len(c.TypeOnly) + len(c.Bundled); attachDenom > 0 {
		c.AttachRate = decimal.NewFromInt(int64(len(c.Bundled))).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(attachDenom)))
	}
	if valueDenom := len(c.AddOnsOnly) + len(c.Bundled); valueDenom > 0 {
		c.AverageAddOnValue = c.AddOnRevenue.Div(decimal.NewFromInt(int64(valueDenom)))
	}

	for name, revenue := range componentTotals {
		c.Components = append(c.Components, ComponentRevenue{
			Name:    name,
			Revenue: revenue,
			Cases:   componentCases[name],
		})
	}
	sort.Slice(c.Components, func(i, j int) bool {
		if !c.Components[i].Revenue.Equal(c.Components[j].Revenue) {
			return c.Components[i].Revenue.GreaterThan(c.Components[j].Revenue)
		}
		return c.Components[i].Name < c.Components[j].Name
	})

	return c
}
