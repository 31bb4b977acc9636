/*
normalize.go - Canonical vocabularies for free-form status and priority

PURPOSE:
  Status and priority arrive as free-form strings ("wip", "Done ",
  "CANCELLED"). Consuming logic needs a closed set it can switch over
  exhaustively, without losing the original entry. Normalization maps
  known synonyms onto canonical values; everything else becomes an
  Unrecognized value that keeps the original string.

ACTIVE VS TERMINAL:
  Delivered, Closed, and Cancelled are terminal. Everything else,
  including unrecognized statuses, is active: a case we cannot
  categorize is still assumed to be in flight for due-date purposes.

SEE ALSO:
  - report/filter.go: Matches against normalized values; the "Others"
    selector matches any Unrecognized status/priority
*/
package cases

import "strings"

// =============================================================================
// STATUS
// =============================================================================

// Status is a normalized case status. Canonical returns the canonical
// label; unrecognized statuses keep the original (trimmed) raw value.
type Status struct {
	canonical string
	raw       string
}

// Canonical status labels.
const (
	StatusNew        = "New"
	StatusInProgress = "In Progress"
	StatusOnHold     = "On Hold"
	StatusDelivered  = "Delivered"
	StatusClosed     = "Closed"
	StatusCancelled  = "Cancelled"
)

// CanonicalStatuses lists the closed vocabulary in display order.
var CanonicalStatuses = []string{
	StatusNew, StatusInProgress, StatusOnHold,
	StatusDelivered, StatusClosed, StatusCancelled,
}

// statusSynonyms maps lowercased raw values onto canonical labels.
var statusSynonyms = map[string]string{
	"new":         StatusNew,
	"open":        StatusNew,
	"received":    StatusNew,
	"in progress": StatusInProgress,
	"in-progress": StatusInProgress,
	"inprogress":  StatusInProgress,
	"wip":         StatusInProgress,
	"ongoing":     StatusInProgress,
	"active":      StatusInProgress,
	"on hold":     StatusOnHold,
	"on-hold":     StatusOnHold,
	"hold":        StatusOnHold,
	"paused":      StatusOnHold,
	"delivered":   StatusDelivered,
	"done":        StatusDelivered,
	"completed":   StatusDelivered,
	"complete":    StatusDelivered,
	"closed":      StatusClosed,
	"close":       StatusClosed,
	"archived":    StatusClosed,
	"cancelled":   StatusCancelled,
	"canceled":    StatusCancelled,
	"cancel":      StatusCancelled,
	"withdrawn":   StatusCancelled,
}

// NormalizeStatus maps a raw status onto the canonical vocabulary.
// Matching trims whitespace and ignores case. Unknown values are
// preserved, not coerced.
func NormalizeStatus(raw string) Status {
	t := strings.TrimSpace(raw)
	if canonical, ok := statusSynonyms[strings.ToLower(t)]; ok {
		return Status{canonical: canonical, raw: t}
	}
	return Status{raw: t}
}

// Canonical returns the canonical label, or "" for unrecognized values.
func (s Status) Canonical() string { return s.canonical }

// Raw returns the original (trimmed) value.
func (s Status) Raw() string { return s.raw }

// Recognized reports whether the value mapped onto the vocabulary.
func (s Status) Recognized() bool { return s.canonical != "" }

// Terminal reports whether the status ends a case's lifecycle.
func (s Status) Terminal() bool {
	switch s.canonical {
	case StatusDelivered, StatusClosed, StatusCancelled:
		return true
	}
	return false
}

// Active reports whether the case is still in flight. Unrecognized
// statuses are treated as active.
func (s Status) Active() bool { return !s.Terminal() }

// Display returns the canonical label, or the raw value for
// unrecognized statuses (empty raw displays as "Others").
func (s Status) Display() string {
	if s.canonical != "" {
		return s.canonical
	}
	if s.raw == "" {
		return CategoryOthers
	}
	return s.raw
}

// =============================================================================
// PRIORITY
// =============================================================================

// Priority is a normalized case priority, same shape as Status.
type Priority struct {
	canonical string
	raw       string
}

// Canonical priority labels.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
	PriorityUrgent = "Urgent"
)

// CanonicalPriorities lists the closed vocabulary in escalation order.
var CanonicalPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

var prioritySynonyms = map[string]string{
	"low":      PriorityLow,
	"l":        PriorityLow,
	"minor":    PriorityLow,
	"medium":   PriorityMedium,
	"med":      PriorityMedium,
	"m":        PriorityMedium,
	"normal":   PriorityMedium,
	"standard": PriorityMedium,
	"high":     PriorityHigh,
	"h":        PriorityHigh,
	"major":    PriorityHigh,
	"urgent":   PriorityUrgent,
	"critical": PriorityUrgent,
	"rush":     PriorityUrgent,
	"asap":     PriorityUrgent,
}

// NormalizePriority maps a raw priority onto the canonical vocabulary.
func NormalizePriority(raw string) Priority {
	t := strings.TrimSpace(raw)
	if canonical, ok := prioritySynonyms[strings.ToLower(t)]; ok {
		return Priority{canonical: canonical, raw: t}
	}
	return Priority{raw: t}
}

func (p Priority) Canonical() string { return p.canonical }
func (p Priority) Raw() string       { return p.raw }
func (p Priority) Recognized() bool  { return p.canonical != "" }

func (p Priority) Display() string {
	if p.canonical != "" {
		return p.canonical
	}
	if p.raw == "" {
		return CategoryOthers
	}
	return p.raw
}
