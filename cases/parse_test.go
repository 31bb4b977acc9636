package cases_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/caseflow/cases"
)

// =============================================================================
// AMOUNT PARSING
// =============================================================================

func TestParseAmount_CurrencyFormatting(t *testing.T) {
	// GIVEN: Spreadsheet-derived amount strings
	// WHEN: Parsing
	// THEN: Symbols and separators are stripped; garbage parses to zero

	tests := []struct {
		raw  string
		want string
	}{
		{"$1,200", "1200"},
		{"1200", "1200"},
		{" 50000 ", "50000"},
		{"$ 12,345.67", "12345.67"},
		{"€900", "900"},
		{"-500", "-500"},
		{"", "0"},
		{"abc", "0"},
		{"TBD", "0"},
		{"(500)", "0"},
	}
	for _, tt := range tests {
		got := cases.ParseAmount(tt.raw)
		if got.String() != tt.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestParseAmount_Idempotent(t *testing.T) {
	// GIVEN: Any input, well-formed or not
	// WHEN: Parsing twice
	// THEN: Both parses yield the same value

	for _, raw := range []string{"$1,200", "", "abc", "7.5", "  $9 "} {
		first := cases.ParseAmount(raw)
		second := cases.ParseAmount(raw)
		if !first.Equal(second) {
			t.Errorf("ParseAmount(%q) not idempotent: %s vs %s", raw, first, second)
		}
	}
}

// =============================================================================
// DATE PARSING
// =============================================================================

func TestParseDate_Layouts(t *testing.T) {
	for _, raw := range []string{"2024-03-15", "03/15/2024", "3/15/2024", "15-Mar-2024", "Mar 15, 2024"} {
		d := cases.ParseDate(raw)
		if d == nil {
			t.Fatalf("ParseDate(%q) = nil, want a date", raw)
		}
		if d.Year() != 2024 || int(d.Month()) != 3 || d.Day() != 15 {
			t.Errorf("ParseDate(%q) = %v, want 2024-03-15", raw, d)
		}
	}
}

func TestParseDate_BadInput_ReturnsNil(t *testing.T) {
	for _, raw := range []string{"", "   ", "not a date", "2024-13-40", "soon"} {
		if d := cases.ParseDate(raw); d != nil {
			t.Errorf("ParseDate(%q) = %v, want nil", raw, d)
		}
	}
}

// =============================================================================
// COMPONENT SPLITTING
// =============================================================================

func TestSplitComponents_Delimiters(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"Logo, Website", []string{"Logo", "Website"}},
		{"Logo + Website", []string{"Logo", "Website"}},
		{"Logo and Website", []string{"Logo", "Website"}},
		{"Logo, Website and Brandbook", []string{"Logo", "Website", "Brandbook"}},
		{"Brandbook", []string{"Brandbook"}},
		{"", nil},
		{"  ,  ", nil},
	}
	for _, tt := range tests {
		got := cases.SplitComponents(tt.raw)
		if len(got) != len(tt.want) {
			t.Errorf("SplitComponents(%q) = %v, want %v", tt.raw, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitComponents(%q)[%d] = %q, want %q", tt.raw, i, got[i], tt.want[i])
			}
		}
	}
}

func TestSplitComponents_AndInsideName(t *testing.T) {
	// "and" only delimits when it stands alone between spaces.
	got := cases.SplitComponents("Brand identity")
	if len(got) != 1 || got[0] != "Brand identity" {
		t.Errorf("got %v, want [Brand identity]", got)
	}
}

// =============================================================================
// RECORD ACCESSORS
// =============================================================================

func TestRecord_AddOnPresence_IsTextual(t *testing.T) {
	// GIVEN: A record with a non-empty but zero-parsing add-on field
	// THEN: The add-on is present; presence drives classification

	r := cases.Record{AddOnAmount: "0"}
	if !r.HasAddOn() {
		t.Error("expected HasAddOn for non-empty field")
	}
	if !r.AddOnValue().Equal(decimal.Zero) {
		t.Errorf("expected zero value, got %s", r.AddOnValue())
	}

	empty := cases.Record{AddOnAmount: "  "}
	if empty.HasAddOn() {
		t.Error("expected no add-on for blank field")
	}
}

func TestRecord_AddOnOnlyFlag(t *testing.T) {
	for raw, want := range map[string]bool{
		"yes": true, "YES": true, " Yes ": true, "y": true, "true": true,
		"no": false, "": false, "maybe": false,
	} {
		r := cases.Record{AddOnOnly: raw}
		if r.IsAddOnOnly() != want {
			t.Errorf("IsAddOnOnly(%q) = %v, want %v", raw, r.IsAddOnOnly(), want)
		}
	}
}

func TestCanonicalBillingType(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Full", "Full"},
		{"full", "Full"},
		{" RETAINER ", "Retainer"},
		{"Add-ons", cases.CategoryAddOns},
		{"Something Else", cases.CategoryOthers},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cases.CanonicalBillingType(tt.raw); got != tt.want {
			t.Errorf("CanonicalBillingType(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
