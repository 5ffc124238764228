// backend/src/models/canonical.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceKind tags which collection a canonical record came from. Business
// rules (relevant date field, sign convention, status vocabulary) differ per
// kind, but the normalizer resolves all of that before the aggregation engine
// sees a record.
type SourceKind string

const (
	SourceAccountsPayable SourceKind = "accounts_payable"
	SourceRevenue         SourceKind = "revenue"
	SourceTransaction     SourceKind = "transaction"
	SourceForecastEntry   SourceKind = "forecasted_entry"
	SourceBalanceSnapshot SourceKind = "initial_balance"
)

// RecordStatus is the normalized forecast/actual track of a record.
type RecordStatus string

const (
	StatusForecast RecordStatus = "forecast"
	StatusActual   RecordStatus = "actual"
)

// FinancialRecord is the unified, intermediate representation every raw row
// is coerced into. The normalizer populates all fields; downstream processors
// never branch on source-specific field names.
type FinancialRecord struct {
	SourceKind   SourceKind      `json:"source_kind"`
	Status       RecordStatus    `json:"status"`
	BusinessUnit string          `json:"business_unit"` // normalized code
	Date         time.Time       `json:"date"`          // the single relevant date for this record
	Amount       decimal.Decimal `json:"amount"`        // sign as imported; transactions are the only signed kind
	Category     string          `json:"category"`
	Creditor     string          `json:"creditor,omitempty"` // payables only
	Bank         string          `json:"bank,omitempty"`     // balances and transactions
	Seq          int             `json:"-"`                  // insertion order, tie-break for equal dates
}
