/*
Package cases defines the domain model for the case reporting engine.

PURPOSE:
  This package contains the record types and the data-quality helpers
  that every reporting consumer depends on: case records, manual billing
  adjustments, amount parsing, date parsing, and vocabulary
  normalization.

KEY CONCEPTS IN THIS FILE (types.go):
  - Record: One unit of tracked client work with billing metadata
  - Adjustment: A manual signed correction to a (year, month, type) total
  - BillingType: The closed vocabulary adjustments are keyed by

DESIGN PRINCIPLES:
  1. Distrust at rest: amount fields are stored as text and re-parsed by
     every consumer. The source data is spreadsheet-derived and a single
     bad cell must never fail a whole report.
  2. Precision: decimal.Decimal for every money value; floats appear
     only at API boundaries.
  3. Preservation: unknown statuses, priorities, and billing types are
     kept and bucketed as "Others", never dropped.

SEE ALSO:
  - parse.go: Amount/date parsing and add-on component splitting
  - normalize.go: Status and priority canonicalization
  - report/: The aggregation engine consuming these types
*/
package cases

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CASE RECORD - Unit of tracked work
// =============================================================================

// Record is one case as fetched from the persistence collaborator.
// Date and amount fields are raw text and must go through the parsers
// in parse.go; nothing in this struct is trusted to be well-formed.
type Record struct {
	ID        string
	Code      string
	Client    string
	Requestor string
	Scope     string

	// Temporal fields, raw. Empty or unparseable means "absent".
	DateReceived  string
	PromisedDate  string
	DeliveredDate string

	// Categorical fields, raw free-form strings.
	Status      string
	Priority    string
	Team        string
	Region      string
	Office      string
	Industry    string
	BillingType string

	// Numeric-as-text fields. See ParseAmount.
	Amount      string
	AddOnAmount string

	// AddOnOnly is a "yes"/"no" flag, case-insensitive.
	AddOnOnly string

	// AddOnComponents lists delivered add-on component names, delimited
	// by comma, plus sign, or the word "and". See SplitComponents.
	AddOnComponents string
}

// AmountValue returns the parsed primary billing amount.
func (r Record) AmountValue() decimal.Decimal { return ParseAmount(r.Amount) }

// AddOnValue returns the parsed add-on billing amount.
func (r Record) AddOnValue() decimal.Decimal { return ParseAmount(r.AddOnAmount) }

// HasAddOn reports whether an add-on billing amount is present at all.
// Presence is textual: classification cares that the field was filled
// in, not that it parses to a non-zero number.
func (r Record) HasAddOn() bool { return trimmed(r.AddOnAmount) != "" }

// HasBillingType reports whether a billing type was entered.
func (r Record) HasBillingType() bool { return trimmed(r.BillingType) != "" }

// IsAddOnOnly reports whether the add-on-only flag is truthy.
func (r Record) IsAddOnOnly() bool { return parseYesNo(r.AddOnOnly) }

// ReceivedAt returns the parsed date-received, or nil if absent.
func (r Record) ReceivedAt() *time.Time { return ParseDate(r.DateReceived) }

// PromisedAt returns the parsed promised delivery date, or nil if absent.
func (r Record) PromisedAt() *time.Time { return ParseDate(r.PromisedDate) }

// DeliveredAt returns the parsed actual delivery date, or nil if absent.
func (r Record) DeliveredAt() *time.Time { return ParseDate(r.DeliveredDate) }

// =============================================================================
// BILLING ADJUSTMENT - Manual signed correction
// =============================================================================

// Adjustment is a manual correction applied to a (year, month, billing
// type) aggregate. Adjustments live independently of case records and
// are never derived from them.
type Adjustment struct {
	ID          string
	Month       int // 1-12
	Year        int // 4-digit
	BillingType string
	Amount      decimal.Decimal // signed; negative = deduction
	Reason      string
	CreatedAt   time.Time
}

// Valid reports whether the adjustment names a real calendar bucket.
func (a Adjustment) Valid() bool {
	return a.Month >= 1 && a.Month <= 12 && a.Year >= 1000 && a.Year <= 9999
}

// =============================================================================
// BILLING TYPE VOCABULARY
// =============================================================================

// Known billing types, in display order. Adjustments are restricted to
// this set plus CategoryAddOns; case records may carry anything, and
// unknown values roll up under CategoryOthers.
var BillingTypes = []string{"Full", "Partial", "Retainer", "Advisory"}

const (
	// CategoryAddOns is the synthetic category that collects add-on
	// billing amounts in billing-type cross-tabs.
	CategoryAddOns = "Add-ons"

	// CategoryOthers collects billing types outside the known set.
	CategoryOthers = "Others"
)

// CanonicalBillingType maps a raw billing-type string onto the known
// vocabulary, or CategoryOthers when it is not recognized. Empty input
// returns "".
func CanonicalBillingType(raw string) string {
	t := trimmed(raw)
	if t == "" {
		return ""
	}
	for _, known := range BillingTypes {
		if equalFold(t, known) {
			return known
		}
	}
	if equalFold(t, CategoryAddOns) {
		return CategoryAddOns
	}
	return CategoryOthers
}

// IsKnownBillingType reports whether raw names a member of the closed
// adjustment vocabulary (known types plus the synthetic Add-ons row).
func IsKnownBillingType(raw string) bool {
	c := CanonicalBillingType(raw)
	return c != "" && c != CategoryOthers
}
