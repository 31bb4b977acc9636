package report

import (
	"fmt"
	"sort"
	"time"
)

// =============================================================================
// GRANULARITY - How the time axis is bucketed
// =============================================================================

// Granularity selects the reporting period size.
type Granularity string

const (
	Monthly   Granularity = "monthly"
	Quarterly Granularity = "quarterly"
	Yearly    Granularity = "yearly"
)

// BucketsPerYear returns how many periods one year contributes.
func (g Granularity) BucketsPerYear() int {
	switch g {
	case Monthly:
		return 12
	case Quarterly:
		return 4
	default:
		return 1
	}
}

// ParseGranularity validates a raw granularity string from a caller.
// Empty input defaults to monthly.
func ParseGranularity(raw string) (Granularity, error) {
	switch Granularity(raw) {
	case "":
		return Monthly, nil
	case Monthly, Quarterly, Yearly:
		return Granularity(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, raw)
}

// =============================================================================
// PERIOD - One column of a report grid
// =============================================================================

// PeriodKey identifies a time bucket. Index is the 1-based month or
// quarter within the year; it is 0 for yearly buckets.
type PeriodKey struct {
	Year  int
	Index int
}

// Period is a labeled time bucket.
type Period struct {
	Key   PeriodKey
	Label string
}

var monthLabels = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

func labelFor(key PeriodKey, g Granularity) string {
	switch g {
	case Monthly:
		return fmt.Sprintf("%s %d", monthLabels[key.Index-1], key.Year)
	case Quarterly:
		return fmt.Sprintf("Q%d %d", key.Index, key.Year)
	default:
		return fmt.Sprintf("%d", key.Year)
	}
}

// KeyFor returns the bucket a date falls into at the given granularity.
func KeyFor(t time.Time, g Granularity) PeriodKey {
	switch g {
	case Monthly:
		return PeriodKey{Year: t.Year(), Index: int(t.Month())}
	case Quarterly:
		return PeriodKey{Year: t.Year(), Index: (int(t.Month())-1)/3 + 1}
	default:
		return PeriodKey{Year: t.Year()}
	}
}

// PeriodsFor pre-allocates the full dense period axis for the requested
// years: 12 buckets per year monthly, 4 quarterly, 1 yearly. Years are
// de-duplicated and sorted ascending; every bucket is present whether
// or not any record lands in it.
func PeriodsFor(years []int, g Granularity) []Period {
	ys := dedupYears(years)
	periods := make([]Period, 0, len(ys)*g.BucketsPerYear())
	for _, y := range ys {
		switch g {
		case Monthly:
			for m := 1; m <= 12; m++ {
				key := PeriodKey{Year: y, Index: m}
				periods = append(periods, Period{Key: key, Label: labelFor(key, g)})
			}
		case Quarterly:
			for q := 1; q <= 4; q++ {
				key := PeriodKey{Year: y, Index: q}
				periods = append(periods, Period{Key: key, Label: labelFor(key, g)})
			}
		default:
			key := PeriodKey{Year: y}
			periods = append(periods, Period{Key: key, Label: labelFor(key, g)})
		}
	}
	return periods
}

func dedupYears(years []int) []int {
	seen := make(map[int]bool, len(years))
	var out []int
	for _, y := range years {
		if !seen[y] {
			seen[y] = true
			out = append(out, y)
		}
	}
	sort.Ints(out)
	return out
}
