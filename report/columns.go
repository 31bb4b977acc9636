/*
columns.go - Closed registry of field projectors for custom views

PURPOSE:
  The UI's "add an arbitrary column" feature is backed by a fixed,
  typed registry instead of stringly-typed field access. Each column
  key maps to a display label and a value accessor; a view is an
  ordered list of keys resolved against the registry. Unknown keys are
  rejected when the view is built, not at render time.

SEE ALSO:
  - factory/view.go: Parses JSON view definitions into Views
  - api/handlers.go: Renders filtered case lists through Views
*/
package report

import (
	"fmt"
	"time"

	"github.com/warp/caseflow/cases"
)

// =============================================================================
// COLUMN REGISTRY
// =============================================================================

// Column projects one display value out of a case record.
type Column struct {
	Key   string
	Label string
	Value func(cases.Record) string
}

// columnOrder fixes the registry iteration order for listings.
var columnOrder = []string{
	"code", "client", "requestor", "scope",
	"team", "region", "office", "industry",
	"status", "priority", "billing_type",
	"date_received", "promised_date", "delivered_date",
	"amount", "addon_amount", "total_billed",
	"addon_components", "category",
}

var columnRegistry = map[string]Column{
	"code":      {Key: "code", Label: "Code", Value: func(r cases.Record) string { return r.Code }},
	"client":    {Key: "client", Label: "Client", Value: func(r cases.Record) string { return r.Client }},
	"requestor": {Key: "requestor", Label: "Requestor", Value: func(r cases.Record) string { return r.Requestor }},
	"scope":     {Key: "scope", Label: "Scope", Value: func(r cases.Record) string { return r.Scope }},
	"team":      {Key: "team", Label: "Team", Value: func(r cases.Record) string { return r.Team }},
	"region":    {Key: "region", Label: "Region", Value: func(r cases.Record) string { return r.Region }},
	"office":    {Key: "office", Label: "Office", Value: func(r cases.Record) string { return r.Office }},
	"industry":  {Key: "industry", Label: "Industry", Value: func(r cases.Record) string { return r.Industry }},
	"status": {Key: "status", Label: "Status", Value: func(r cases.Record) string {
		return cases.NormalizeStatus(r.Status).Display()
	}},
	"priority": {Key: "priority", Label: "Priority", Value: func(r cases.Record) string {
		return cases.NormalizePriority(r.Priority).Display()
	}},
	"billing_type": {Key: "billing_type", Label: "Billing Type", Value: func(r cases.Record) string {
		return cases.CanonicalBillingType(r.BillingType)
	}},
	"date_received":  {Key: "date_received", Label: "Date Received", Value: dateColumn(cases.Record.ReceivedAt)},
	"promised_date":  {Key: "promised_date", Label: "Promised Date", Value: dateColumn(cases.Record.PromisedAt)},
	"delivered_date": {Key: "delivered_date", Label: "Delivered Date", Value: dateColumn(cases.Record.DeliveredAt)},
	"amount": {Key: "amount", Label: "Amount", Value: func(r cases.Record) string {
		return r.AmountValue().String()
	}},
	"addon_amount": {Key: "addon_amount", Label: "Add-on Amount", Value: func(r cases.Record) string {
		return r.AddOnValue().String()
	}},
	"total_billed": {Key: "total_billed", Label: "Total Billed", Value: func(r cases.Record) string {
		return r.AmountValue().Add(r.AddOnValue()).String()
	}},
	"addon_components": {Key: "addon_components", Label: "Add-on Components", Value: func(r cases.Record) string {
		return r.AddOnComponents
	}},
	"category": {Key: "category", Label: "Category", Value: func(r cases.Record) string {
		return string(Categorize(r))
	}},
}

func dateColumn(get func(cases.Record) *time.Time) func(cases.Record) string {
	return func(r cases.Record) string {
		if d := get(r); d != nil {
			return d.Format("2006-01-02")
		}
		return ""
	}
}

// ColumnKeys returns every registered key in display order.
func ColumnKeys() []string {
	return append([]string{}, columnOrder...)
}

// ColumnByKey resolves a key against the registry.
func ColumnByKey(key string) (Column, bool) {
	c, ok := columnRegistry[key]
	return c, ok
}

// =============================================================================
// VIEW - Ordered column selection
// =============================================================================

// View is a resolved custom view: a name plus an ordered column set.
type View struct {
	Name    string
	Columns []Column
}

// NewView resolves column keys against the registry. An unknown key
// fails the whole view.
func NewView(name string, keys []string) (*View, error) {
	if len(keys) == 0 {
		keys = []string{"code", "client", "status", "team", "region", "amount"}
	}
	columns := make([]Column, 0, len(keys))
	for _, key := range keys {
		c, ok := ColumnByKey(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, key)
		}
		columns = append(columns, c)
	}
	return &View{Name: name, Columns: columns}, nil
}

// Header returns the display labels for the view's columns.
func (v *View) Header() []string {
	out := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		out[i] = c.Label
	}
	return out
}

// Row projects one record through the view.
func (v *View) Row(r cases.Record) []string {
	out := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		out[i] = c.Value(r)
	}
	return out
}

// Table projects a record set: header first, then one row per record.
func (v *View) Table(records []cases.Record) [][]string {
	out := make([][]string, 0, len(records)+1)
	out = append(out, v.Header())
	for _, r := range records {
		out = append(out, v.Row(r))
	}
	return out
}
