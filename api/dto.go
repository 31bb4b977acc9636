/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Cases:
    CaseDTO, TableDTO

  Reports:
    PeriodDTO, GridDTO, GridRowDTO, MatrixDTO, MatrixRowDTO,
    ClassificationDTO, ComponentDTO

  Adjustments:
    AdjustmentDTO, SaveAdjustmentRequest, MoveAdjustmentRequest

  Views:
    ViewDTO, SaveViewRequest

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

MONEY:
  Engine math runs on shopspring/decimal. DTOs carry float64 for JSON
  ergonomics; the conversion happens only at this boundary.

SEE ALSO:
  - handlers.go: Uses these types
  - report/: The grid, matrix and classification shapes these mirror
*/
package api

// =============================================================================
// CASE TYPES
// =============================================================================

// CaseDTO represents a case record in API responses. Textual fields
// carry the raw sourced values; status and priority are normalized
// display labels; amounts are parsed.
type CaseDTO struct {
	ID              string   `json:"id"`
	Code            string   `json:"code"`
	Client          string   `json:"client"`
	Requestor       string   `json:"requestor,omitempty"`
	Scope           string   `json:"scope,omitempty"`
	DateReceived    string   `json:"date_received,omitempty"`
	PromisedDate    string   `json:"promised_date,omitempty"`
	DeliveredDate   string   `json:"delivered_date,omitempty"`
	Status          string   `json:"status"`
	Priority        string   `json:"priority,omitempty"`
	Team            string   `json:"team,omitempty"`
	Region          string   `json:"region,omitempty"`
	Office          string   `json:"office,omitempty"`
	Industry        string   `json:"industry,omitempty"`
	BillingType     string   `json:"billing_type,omitempty"`
	Amount          float64  `json:"amount"`
	AddOnAmount     float64  `json:"addon_amount"`
	TotalBilled     float64  `json:"total_billed"`
	AddOnOnly       bool     `json:"addon_only"`
	AddOnComponents []string `json:"addon_components,omitempty"`
	Category        string   `json:"category"`
}

// TableDTO is a case listing projected through a custom view.
type TableDTO struct {
	View   string     `json:"view"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// FilterOptionsDTO lists the closed vocabularies behind the filter and
// report parameters, so clients populate selectors without hardcoding.
type FilterOptionsDTO struct {
	Statuses      []string `json:"statuses"`
	Priorities    []string `json:"priorities"`
	BillingTypes  []string `json:"billing_types"`
	Dimensions    []string `json:"dimensions"`
	Granularities []string `json:"granularities"`
	DueBuckets    []string `json:"due_buckets"`
	Columns       []string `json:"columns"`
}

// =============================================================================
// REPORT TYPES
// =============================================================================

// PeriodDTO is one time bucket on a report axis.
type PeriodDTO struct {
	Year  int    `json:"year"`
	Index int    `json:"index,omitempty"` // month or quarter, 0 for yearly
	Label string `json:"label"`
}

// GridRowDTO is one category row of a billing grid.
type GridRowDTO struct {
	Category string    `json:"category"`
	Cells    []float64 `json:"cells"`
	Total    float64   `json:"total"`
}

// GridDTO represents a billing aggregation grid.
type GridDTO struct {
	Granularity        string       `json:"granularity"`
	Dimension          string       `json:"dimension,omitempty"`
	Periods            []PeriodDTO  `json:"periods"`
	Rows               []GridRowDTO `json:"rows"`
	PeriodTotals       []float64    `json:"period_totals"`
	GrandTotal         float64      `json:"grand_total"`
	AdjustmentsApplied int          `json:"adjustments_applied"`
}

// MatrixRowDTO is one row of the region/office matrix. Subtotal rows
// carry the region with an empty office.
type MatrixRowDTO struct {
	Region   string    `json:"region"`
	Office   string    `json:"office,omitempty"`
	Subtotal bool      `json:"subtotal,omitempty"`
	Cells    []float64 `json:"cells"`
	Total    float64   `json:"total"`
}

// MatrixDTO represents the region/office billing matrix.
type MatrixDTO struct {
	Granularity  string         `json:"granularity"`
	Periods      []PeriodDTO    `json:"periods"`
	Rows         []MatrixRowDTO `json:"rows"`
	ColumnTotals []float64      `json:"column_totals"`
	GrandTotal   float64        `json:"grand_total"`
}

// ComponentDTO is per-component add-on revenue.
type ComponentDTO struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Cases   int     `json:"cases"`
}

// ClassificationDTO represents a classification run: the three
// subsets plus derived metrics.
type ClassificationDTO struct {
	TypeOnly   []CaseDTO `json:"type_only"`
	Bundled    []CaseDTO `json:"bundled"`
	AddOnsOnly []CaseDTO `json:"addons_only"`

	Unclassified int `json:"unclassified"`

	TypeOnlyRevenue   float64 `json:"type_only_revenue"`
	BundledRevenue    float64 `json:"bundled_revenue"`
	AddOnsOnlyRevenue float64 `json:"addons_only_revenue"`
	AddOnRevenue      float64 `json:"addon_revenue"`

	AttachRate        float64 `json:"attach_rate"`
	AverageAddOnValue float64 `json:"average_addon_value"`

	Components []ComponentDTO `json:"components"`
}

// =============================================================================
// ADJUSTMENT TYPES
// =============================================================================

// AdjustmentDTO represents a billing adjustment in API responses.
type AdjustmentDTO struct {
	ID          string  `json:"id"`
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	BillingType string  `json:"billing_type"`
	Amount      float64 `json:"amount"`
	Reason      string  `json:"reason,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

// SaveAdjustmentRequest creates or updates an adjustment.
type SaveAdjustmentRequest struct {
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	BillingType string  `json:"billing_type"`
	Amount      float64 `json:"amount"`
	Reason      string  `json:"reason,omitempty"`
}

// MoveAdjustmentRequest moves an amount between two monthly buckets of
// the same billing type, as a pair of compensating adjustments.
type MoveAdjustmentRequest struct {
	FromMonth   int     `json:"from_month"`
	FromYear    int     `json:"from_year"`
	ToMonth     int     `json:"to_month"`
	ToYear      int     `json:"to_year"`
	BillingType string  `json:"billing_type"`
	Amount      float64 `json:"amount"`
	Reason      string  `json:"reason,omitempty"`
}

// =============================================================================
// VIEW TYPES
// =============================================================================

// ViewDTO represents a saved custom view preset.
type ViewDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Columns   []string `json:"columns"`
	CreatedAt string   `json:"created_at,omitempty"`
}

// SaveViewRequest creates a view preset.
type SaveViewRequest struct {
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// =============================================================================
// SCENARIO TYPES
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
