/*
parse.go - Tolerant parsers for spreadsheet-derived fields

PURPOSE:
  The source data is historical spreadsheet content with inconsistent
  formatting: "$1,200", " 1200 ", "TBD", empty cells. These parsers
  resolve every malformed value to a safe default instead of erroring,
  so one bad cell can never fail a report.

RULES:
  - Amounts: currency symbols, commas, and whitespace are stripped;
    anything that still fails to parse is zero. Parsing is idempotent.
  - Dates: a fixed list of accepted layouts; anything else is nil.
  - Yes/no flags: case-insensitive "yes"/"y"/"true"/"1" are truthy.
  - Component lists: split on comma, plus sign, or the word "and".

SEE ALSO:
  - types.go: Record accessors built on these parsers
*/
package cases

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT PARSING
// =============================================================================

// currencyStripper removes the characters that show up around amounts
// in the source spreadsheets. Parentheses are kept so "(500)" fails to
// parse and resolves to zero rather than silently flipping sign.
var currencyStripper = strings.NewReplacer(
	"$", "",
	"€", "",
	"£", "",
	",", "",
	" ", "",
	"\t", "",
)

// ParseAmount converts a numeric-as-text field into a decimal.
// Empty or unparseable input parses to zero, never to an error.
func ParseAmount(raw string) decimal.Decimal {
	cleaned := currencyStripper.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// DATE PARSING
// =============================================================================

// dateLayouts are tried in order. ISO first (the export format), then
// the formats found in older hand-maintained sheets.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// ParseDate parses a raw date field. Returns nil for empty or
// unparseable input; callers treat nil as "no date" and exclude the
// record from date-based predicates and bucketing.
func ParseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &day
		}
	}
	return nil
}

// Midnight truncates a time to the start of its UTC day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// FLAGS AND LISTS
// =============================================================================

func parseYesNo(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}

// componentSplitter normalizes the three delimiters seen in the add-on
// component field down to commas before splitting. The word "and" is
// only a delimiter when it stands alone between spaces, so component
// names like "Brandbook" survive.
var componentSplitter = strings.NewReplacer(
	"+", ",",
	" and ", ",",
	" And ", ",",
	" AND ", ",",
)

// SplitComponents splits an add-on component list into trimmed,
// non-empty component names. Order is preserved; duplicates are kept
// (revenue splitting counts entries, not distinct names).
func SplitComponents(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(componentSplitter.Replace(s), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// =============================================================================
// SMALL STRING HELPERS
// =============================================================================

func trimmed(s string) string { return strings.TrimSpace(s) }

func equalFold(a, b string) bool { return strings.EqualFold(a, b) }
