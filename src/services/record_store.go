package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/username/fluxocaixa/backend/src/database"
	"github.com/username/fluxocaixa/backend/src/models"
	"github.com/username/fluxocaixa/backend/src/utils"
)

// sqlRecordStore reads raw rows straight from the sqlite tables, joining
// against active imports. Ordering by rowid keeps insertion order, which the
// engine relies on for its deterministic tie-breaks.
type sqlRecordStore struct{}

func NewSQLRecordStore() RecordStore {
	return &sqlRecordStore{}
}

const activeImportJoin = "JOIN imports i ON r.import_id = i.id AND i.deleted_at IS NULL"

func (s *sqlRecordStore) FetchSnapshot(end time.Time) (*models.RawSnapshot, error) {
	snap := &models.RawSnapshot{}
	endStr := utils.FormatDate(end)

	if err := s.fetchPayables(snap, endStr); err != nil {
		return nil, err
	}
	if err := s.fetchRevenues(snap, endStr); err != nil {
		return nil, err
	}
	if err := s.fetchTransactions(snap, endStr); err != nil {
		return nil, err
	}
	if err := s.fetchForecastEntries(snap, endStr); err != nil {
		return nil, err
	}
	if err := s.fetchBalances(snap, endStr); err != nil {
		return nil, err
	}
	if err := s.fetchCompanies(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *sqlRecordStore) fetchPayables(snap *models.RawSnapshot, end string) error {
	rows, err := database.DB.Query(`
		SELECT r.status, r.business_unit, r.creditor, r.category, r.payment_date, r.amount
		FROM payables r `+activeImportJoin+`
		WHERE r.payment_date <= ?
		ORDER BY r.id`, end)
	if err != nil {
		return fmt.Errorf("error querying payables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row models.PayableRow
		var status, unit, creditor, category, amount sql.NullString
		if err := rows.Scan(&status, &unit, &creditor, &category, &row.PaymentDate, &amount); err != nil {
			return fmt.Errorf("error scanning payable row: %w", err)
		}
		row.Status = status.String
		row.BusinessUnit = unit.String
		row.Creditor = creditor.String
		row.Category = category.String
		row.Amount = amount.String
		snap.Payables = append(snap.Payables, row)
	}
	return rows.Err()
}

func (s *sqlRecordStore) fetchRevenues(snap *models.RawSnapshot, end string) error {
	rows, err := database.DB.Query(`
		SELECT r.status, r.business_unit, r.category, r.issue_date, r.amount
		FROM revenues r `+activeImportJoin+`
		WHERE r.issue_date <= ?
		ORDER BY r.id`, end)
	if err != nil {
		return fmt.Errorf("error querying revenues: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row models.RevenueRow
		var status, unit, category, amount sql.NullString
		if err := rows.Scan(&status, &unit, &category, &row.IssueDate, &amount); err != nil {
			return fmt.Errorf("error scanning revenue row: %w", err)
		}
		row.Status = status.String
		row.BusinessUnit = unit.String
		row.Category = category.String
		row.Amount = amount.String
		snap.Revenues = append(snap.Revenues, row)
	}
	return rows.Err()
}

func (s *sqlRecordStore) fetchTransactions(snap *models.RawSnapshot, end string) error {
	rows, err := database.DB.Query(`
		SELECT r.business_unit, r.bank, r.category, r.transaction_date, r.amount
		FROM bank_transactions r `+activeImportJoin+`
		WHERE r.transaction_date <= ?
		ORDER BY r.id`, end)
	if err != nil {
		return fmt.Errorf("error querying bank transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row models.BankTransactionRow
		var unit, bank, category, amount sql.NullString
		if err := rows.Scan(&unit, &bank, &category, &row.TransactionDate, &amount); err != nil {
			return fmt.Errorf("error scanning bank transaction row: %w", err)
		}
		row.BusinessUnit = unit.String
		row.Bank = bank.String
		row.Category = category.String
		row.Amount = amount.String
		snap.Transactions = append(snap.Transactions, row)
	}
	return rows.Err()
}

func (s *sqlRecordStore) fetchForecastEntries(snap *models.RawSnapshot, end string) error {
	rows, err := database.DB.Query(`
		SELECT r.status, r.business_unit, r.category, r.due_date, r.amount
		FROM forecast_entries r `+activeImportJoin+`
		WHERE r.due_date <= ?
		ORDER BY r.id`, end)
	if err != nil {
		return fmt.Errorf("error querying forecast entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row models.ForecastEntryRow
		var status, unit, category, amount sql.NullString
		if err := rows.Scan(&status, &unit, &category, &row.DueDate, &amount); err != nil {
			return fmt.Errorf("error scanning forecast entry row: %w", err)
		}
		row.Status = status.String
		row.BusinessUnit = unit.String
		row.Category = category.String
		row.Amount = amount.String
		snap.ForecastEntries = append(snap.ForecastEntries, row)
	}
	return rows.Err()
}

func (s *sqlRecordStore) fetchBalances(snap *models.RawSnapshot, end string) error {
	rows, err := database.DB.Query(`
		SELECT r.business_unit, r.bank, r.balance_date, r.balance
		FROM balance_snapshots r `+activeImportJoin+`
		WHERE r.balance_date <= ?
		ORDER BY r.id`, end)
	if err != nil {
		return fmt.Errorf("error querying balance snapshots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row models.BalanceSnapshotRow
		var unit, bank, balance sql.NullString
		if err := rows.Scan(&unit, &bank, &row.BalanceDate, &balance); err != nil {
			return fmt.Errorf("error scanning balance snapshot row: %w", err)
		}
		row.BusinessUnit = unit.String
		row.Bank = bank.String
		row.Balance = balance.String
		snap.Balances = append(snap.Balances, row)
	}
	return rows.Err()
}

func (s *sqlRecordStore) fetchCompanies(snap *models.RawSnapshot) error {
	rows, err := database.DB.Query(`SELECT code, name, company_group FROM companies ORDER BY id`)
	if err != nil {
		return fmt.Errorf("error querying companies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var company models.Company
		if err := rows.Scan(&company.Code, &company.Name, &company.Group); err != nil {
			return fmt.Errorf("error scanning company row: %w", err)
		}
		snap.Companies = append(snap.Companies, company)
	}
	return rows.Err()
}
