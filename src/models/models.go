package models

import "time"

// ImportBatch is one uploaded collection of rows of a single source kind.
// Batches are soft-deleted: rows of a deleted batch stay in the database but
// are excluded from every query.
type ImportBatch struct {
	ID         string     `json:"id"`
	SourceKind string     `json:"source_kind"`
	Label      string     `json:"label"`
	RowCount   int        `json:"row_count"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// Company is one directory entry. Code may carry leading zeros as imported;
// comparisons always go through utils.NormalizeUnitCode.
type Company struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

// PayableRow is a raw accounts-payable row as stored. Amount is an unsigned
// magnitude representing an outflow.
type PayableRow struct {
	Status       string `json:"status"`
	BusinessUnit string `json:"business_unit"`
	Creditor     string `json:"creditor"`
	Category     string `json:"category"`
	PaymentDate  string `json:"payment_date"`
	Amount       string `json:"amount"`
}

// RevenueRow is a raw revenue row. Amount is an unsigned magnitude
// representing an inflow.
type RevenueRow struct {
	Status       string `json:"status"`
	BusinessUnit string `json:"business_unit"`
	Category     string `json:"category"`
	IssueDate    string `json:"issue_date"`
	Amount       string `json:"amount"`
}

// BankTransactionRow is a raw financial-transaction row. Amount carries an
// explicit sign: positive = inflow, negative = outflow. Statement lines are
// settled facts, so they have no status vocabulary of their own.
type BankTransactionRow struct {
	BusinessUnit    string `json:"business_unit"`
	Bank            string `json:"bank"`
	Category        string `json:"category"`
	TransactionDate string `json:"transaction_date"`
	Amount          string `json:"amount"`
}

// ForecastEntryRow is a raw forecasted-entry row. Amount is an unsigned
// magnitude; the category decides whether it counts as an expense or is
// redirected into revenue ("movimento em dinheiro").
type ForecastEntryRow struct {
	Status       string `json:"status"`
	BusinessUnit string `json:"business_unit"`
	Category     string `json:"category"`
	DueDate      string `json:"due_date"`
	Amount       string `json:"amount"`
}

// BalanceSnapshotRow is a raw bank-balance row: the balance a bank reported
// for one business unit on one date.
type BalanceSnapshotRow struct {
	BusinessUnit string `json:"business_unit"`
	Bank         string `json:"bank"`
	BalanceDate  string `json:"balance_date"`
	Balance      string `json:"balance"`
}

// RawSnapshot is everything the record store hands the engine for one query:
// all active rows with a relevant date at or before the query end date, plus
// the company directory. Treated as immutable once fetched.
type RawSnapshot struct {
	Payables        []PayableRow
	Revenues        []RevenueRow
	Transactions    []BankTransactionRow
	ForecastEntries []ForecastEntryRow
	Balances        []BalanceSnapshotRow
	Companies       []Company
}

// ImportPayload is the body of an import request: exactly one of the row
// slices must be populated, matching SourceKind.
type ImportPayload struct {
	SourceKind string `json:"source_kind"`
	Label      string `json:"label"`

	Payables        []PayableRow         `json:"payables,omitempty"`
	Revenues        []RevenueRow         `json:"revenues,omitempty"`
	Transactions    []BankTransactionRow `json:"transactions,omitempty"`
	ForecastEntries []ForecastEntryRow   `json:"forecast_entries,omitempty"`
	Balances        []BalanceSnapshotRow `json:"balances,omitempty"`
}
