package report_test

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/caseflow/cases"
)

// =============================================================================
// SHARED TEST FIXTURES
// =============================================================================

// billedCase builds a minimal record with a received date, billing
// type, and amount.
func billedCase(id, date, billingType, amount string) cases.Record {
	return cases.Record{
		ID:           id,
		Code:         "C-" + id,
		DateReceived: date,
		BillingType:  billingType,
		Amount:       amount,
	}
}

func adj(id string, year, month int, billingType string, amount int64, reason string) cases.Adjustment {
	return cases.Adjustment{
		ID:          id,
		Year:        year,
		Month:       month,
		BillingType: billingType,
		Amount:      decimal.NewFromInt(amount),
		Reason:      reason,
	}
}

func d(value int64) decimal.Decimal { return decimal.NewFromInt(value) }

// fixedNow anchors due-bucket tests: Wednesday, 2024-06-12.
var fixedNow = time.Date(2024, time.June, 12, 10, 30, 0, 0, time.UTC)
