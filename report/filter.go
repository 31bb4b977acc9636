/*
filter.go - Declarative record filtering

PURPOSE:
  Evaluates a filter specification against case records. Every
  predicate is optional; active predicates combine with logical AND.
  A spec with no active predicates is the identity filter.

FAILURE POLICY:
  Filtering never errors. A malformed filter value (an unparseable
  date bound, say) makes its predicate match nothing; a record with a
  missing or unparseable date fails any date-range predicate and is
  simply excluded.

NORMALIZATION:
  Status and priority selectors match against normalized values, so
  "cancelled " on a record matches a "Cancelled" selector. The special
  selector "Others" matches any value outside the canonical vocabulary.

SEE ALSO:
  - cases/normalize.go: The canonical vocabularies
  - api/handlers.go: Builds Spec from query parameters
*/
package report

import (
	"strings"
	"time"

	"github.com/warp/caseflow/cases"
)

// =============================================================================
// FILTER SPECIFICATION
// =============================================================================

// DueBucket is a promised-date predicate computed relative to today.
type DueBucket string

const (
	DueAny      DueBucket = ""
	DueOverdue  DueBucket = "overdue"
	DueSoon     DueBucket = "due-soon"
	DueThisWeek DueBucket = "this-week"
	DueNextWeek DueBucket = "next-week"
	DueNone     DueBucket = "no-due-date"
)

// dueSoonDays is the look-ahead window for the due-soon bucket.
const dueSoonDays = 3

// Spec is a declarative filter. Zero value matches every record.
type Spec struct {
	// Membership predicates. Status/priority entries are canonical
	// labels or "Others"; the rest match trimmed, case-insensitive.
	Statuses     []string
	Priorities   []string
	Teams        []string
	Regions      []string
	Offices      []string
	Industries   []string
	BillingTypes []string

	// Inclusive date-range bounds, raw strings parsed tolerantly.
	ReceivedFrom string
	ReceivedTo   string
	PromisedFrom string
	PromisedTo   string

	// Due selects a promised-date bucket relative to Now.
	Due DueBucket

	// Query is a free-text search over code, client, requestor, team,
	// and scope. Empty matches everything.
	Query string

	// Now anchors the due-bucket computation. Zero means time.Now().
	// Injectable so due-bucket behavior is testable.
	Now time.Time
}

// Filter returns the records matching the spec, preserving input order.
func Filter(records []cases.Record, spec Spec) []cases.Record {
	out := make([]cases.Record, 0, len(records))
	for _, r := range records {
		if spec.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Matches evaluates every active predicate against one record.
func (s Spec) Matches(r cases.Record) bool {
	if !matchStatus(s.Statuses, cases.NormalizeStatus(r.Status)) {
		return false
	}
	if !matchPriority(s.Priorities, cases.NormalizePriority(r.Priority)) {
		return false
	}
	if !matchMember(s.Teams, r.Team) {
		return false
	}
	if !matchMember(s.Regions, r.Region) {
		return false
	}
	if !matchMember(s.Offices, r.Office) {
		return false
	}
	if !matchMember(s.Industries, r.Industry) {
		return false
	}
	if !matchBillingType(s.BillingTypes, r.BillingType) {
		return false
	}
	if !matchRange(r.ReceivedAt(), s.ReceivedFrom, s.ReceivedTo) {
		return false
	}
	if !matchRange(r.PromisedAt(), s.PromisedFrom, s.PromisedTo) {
		return false
	}
	if !s.matchDue(r) {
		return false
	}
	return matchQuery(s.Query, r)
}

// =============================================================================
// PREDICATES
// =============================================================================

func matchStatus(selected []string, st cases.Status) bool {
	if len(selected) == 0 {
		return true
	}
	for _, sel := range selected {
		if strings.EqualFold(sel, cases.CategoryOthers) {
			if !st.Recognized() {
				return true
			}
			continue
		}
		if strings.EqualFold(sel, st.Canonical()) {
			return true
		}
	}
	return false
}

func matchPriority(selected []string, p cases.Priority) bool {
	if len(selected) == 0 {
		return true
	}
	for _, sel := range selected {
		if strings.EqualFold(sel, cases.CategoryOthers) {
			if !p.Recognized() {
				return true
			}
			continue
		}
		if strings.EqualFold(sel, p.Canonical()) {
			return true
		}
	}
	return false
}

func matchMember(selected []string, value string) bool {
	if len(selected) == 0 {
		return true
	}
	v := strings.TrimSpace(value)
	for _, sel := range selected {
		if strings.EqualFold(strings.TrimSpace(sel), v) {
			return true
		}
	}
	return false
}

func matchBillingType(selected []string, raw string) bool {
	if len(selected) == 0 {
		return true
	}
	canonical := cases.CanonicalBillingType(raw)
	if canonical == "" {
		// A blank billing type rolls up under Others in the billing
		// grid; the selector matches the same set of records.
		canonical = cases.CategoryOthers
	}
	for _, sel := range selected {
		if strings.EqualFold(sel, cases.CategoryOthers) {
			if canonical == cases.CategoryOthers {
				return true
			}
			continue
		}
		if cases.CanonicalBillingType(sel) == canonical {
			return true
		}
	}
	return false
}

// matchRange applies an inclusive date-range predicate. A record
// without a parseable date fails any active bound; an unparseable
// bound fails the predicate outright rather than erroring.
func matchRange(date *time.Time, fromRaw, toRaw string) bool {
	fromSet := strings.TrimSpace(fromRaw) != ""
	toSet := strings.TrimSpace(toRaw) != ""
	if !fromSet && !toSet {
		return true
	}
	if date == nil {
		return false
	}
	if fromSet {
		from := cases.ParseDate(fromRaw)
		if from == nil || date.Before(*from) {
			return false
		}
	}
	if toSet {
		to := cases.ParseDate(toRaw)
		if to == nil || date.After(*to) {
			return false
		}
	}
	return true
}

func (s Spec) matchDue(r cases.Record) bool {
	if s.Due == DueAny {
		return true
	}
	promised := r.PromisedAt()
	if s.Due == DueNone {
		return promised == nil
	}

	// Every bucket except no-due-date only applies to cases still in
	// flight: a delivered case with a past promised date is not overdue.
	if !cases.NormalizeStatus(r.Status).Active() {
		return false
	}
	if promised == nil {
		return false
	}

	today := s.today()
	due := *promised
	switch s.Due {
	case DueOverdue:
		return due.Before(today)
	case DueSoon:
		return !due.Before(today) && !due.After(today.AddDate(0, 0, dueSoonDays))
	case DueThisWeek:
		start := startOfWeek(today)
		return !due.Before(start) && due.Before(start.AddDate(0, 0, 7))
	case DueNextWeek:
		start := startOfWeek(today).AddDate(0, 0, 7)
		return !due.Before(start) && due.Before(start.AddDate(0, 0, 7))
	}
	return false
}

func (s Spec) today() time.Time {
	now := s.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return cases.Midnight(now)
}

// startOfWeek returns the Monday of the week containing day.
func startOfWeek(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// queryFields is the fixed projection free-text search runs over.
func queryFields(r cases.Record) []string {
	return []string{r.Code, r.Client, r.Requestor, r.Team, r.Scope}
}

func matchQuery(query string, r cases.Record) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range queryFields(r) {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
