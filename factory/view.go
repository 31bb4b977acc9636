/*
Package factory provides JSON to Go view conversion.

PURPOSE:
  Converts JSON view definitions into report.View objects. This enables
  view configuration without code changes - analysts can define custom
  case-table projections in JSON, and the factory creates the proper Go
  structs against the closed column registry.

WHY JSON?
  - Non-developers can define views
  - Easy integration with admin UI
  - Database storage of view presets

JSON SCHEMA:
  {
    "id": "view-billing",
    "name": "Billing focus",
    "columns": ["code", "client", "billing_type", "amount", "total_billed"]
  }

KEY FEATURES:
  - Validates column keys against the registry
  - Defaults name and columns when omitted
  - Round-trips back to JSON for storage

USAGE:
  f := factory.NewViewFactory()

  view, err := f.ParseView(jsonStr)
  if err != nil { ... }

  table := view.Table(records)

SEE ALSO:
  - report/columns.go: Column registry and View type
  - store/sqlite: ViewRecord persistence of the raw JSON
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/warp/caseflow/report"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ViewJSON is the JSON representation of a custom view.
type ViewJSON struct {
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name,omitempty"`
	Columns []string `json:"columns,omitempty"`
}

// =============================================================================
// VIEW FACTORY
// =============================================================================

// ViewFactory converts JSON view definitions to report.View values.
type ViewFactory struct{}

// NewViewFactory creates a new view factory.
func NewViewFactory() *ViewFactory {
	return &ViewFactory{}
}

// ParseView parses a JSON string into a View.
func (f *ViewFactory) ParseView(jsonStr string) (*report.View, error) {
	var vj ViewJSON
	if err := json.Unmarshal([]byte(jsonStr), &vj); err != nil {
		return nil, fmt.Errorf("failed to parse view JSON: %w", err)
	}
	return f.FromJSON(vj)
}

// FromJSON converts ViewJSON to a report.View. Column keys are
// validated against the registry; an unknown key fails the whole view.
func (f *ViewFactory) FromJSON(vj ViewJSON) (*report.View, error) {
	name := strings.TrimSpace(vj.Name)
	if name == "" {
		name = "Custom view"
	}

	view, err := report.NewView(name, vj.Columns)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ColumnsJSON serializes a column key list for storage.
func ColumnsJSON(keys []string) (string, error) {
	if keys == nil {
		keys = []string{}
	}
	b, err := json.Marshal(keys)
	if err != nil {
		return "", fmt.Errorf("failed to serialize columns: %w", err)
	}
	return string(b), nil
}

// ColumnsFromJSON deserializes a stored column key list.
func ColumnsFromJSON(raw string) ([]string, error) {
	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, fmt.Errorf("failed to parse stored columns: %w", err)
	}
	return keys, nil
}
