package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/username/fluxocaixa/backend/src/config"
	"github.com/username/fluxocaixa/backend/src/database"
	"github.com/username/fluxocaixa/backend/src/logger"
	"github.com/username/fluxocaixa/backend/src/models"
)

type importServiceImpl struct {
	dashboard DashboardService
}

func NewImportService(dashboard DashboardService) ImportService {
	return &importServiceImpl{dashboard: dashboard}
}

// CreateImport persists one batch of already-typed rows in a single database
// transaction. Spreadsheet parsing happens upstream; this service only ever
// sees typed rows.
func (s *importServiceImpl) CreateImport(payload *models.ImportPayload) (*models.ImportBatch, error) {
	startTime := time.Now()

	rowCount, err := validatePayload(payload)
	if err != nil {
		return nil, err
	}

	batch := &models.ImportBatch{
		ID:         uuid.NewString(),
		SourceKind: payload.SourceKind,
		Label:      payload.Label,
		RowCount:   rowCount,
		CreatedAt:  time.Now().UTC(),
	}
	logger.L.Info("CreateImport START", "importID", batch.ID, "sourceKind", batch.SourceKind, "rows", rowCount)

	dbTx, err := database.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.Exec(`INSERT INTO imports (id, source_kind, label, row_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		batch.ID, batch.SourceKind, batch.Label, batch.RowCount, batch.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error inserting import batch: %w", err)
	}

	switch models.SourceKind(payload.SourceKind) {
	case models.SourceAccountsPayable:
		err = insertPayables(dbTx, batch.ID, payload.Payables)
	case models.SourceRevenue:
		err = insertRevenues(dbTx, batch.ID, payload.Revenues)
	case models.SourceTransaction:
		err = insertTransactions(dbTx, batch.ID, payload.Transactions)
	case models.SourceForecastEntry:
		err = insertForecastEntries(dbTx, batch.ID, payload.ForecastEntries)
	case models.SourceBalanceSnapshot:
		err = insertBalances(dbTx, batch.ID, payload.Balances)
	}
	if err != nil {
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing import: %w", err)
	}

	s.dashboard.InvalidateCache()
	if config.Cfg != nil && config.Cfg.DashboardWarmOnImport {
		s.dashboard.WarmDefaultDashboard()
	}

	logger.L.Info("CreateImport END", "importID", batch.ID, "duration", time.Since(startTime))
	return batch, nil
}

func (s *importServiceImpl) ListImports() ([]models.ImportBatch, error) {
	rows, err := database.DB.Query(`
		SELECT id, source_kind, label, row_count, created_at, deleted_at
		FROM imports ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("error querying imports: %w", err)
	}
	defer rows.Close()

	var batches []models.ImportBatch
	for rows.Next() {
		var batch models.ImportBatch
		if err := rows.Scan(&batch.ID, &batch.SourceKind, &batch.Label, &batch.RowCount, &batch.CreatedAt, &batch.DeletedAt); err != nil {
			return nil, fmt.Errorf("error scanning import batch: %w", err)
		}
		batches = append(batches, batch)
	}
	if batches == nil {
		batches = []models.ImportBatch{}
	}
	return batches, rows.Err()
}

// DeleteImport soft-deletes a batch. Its rows stay in the database but every
// query excludes them from that point on.
func (s *importServiceImpl) DeleteImport(id string) error {
	res, err := database.DB.Exec(`UPDATE imports SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("error soft-deleting import %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking soft-delete result for import %s: %w", id, err)
	}
	if affected == 0 {
		return ErrImportNotFound
	}

	s.dashboard.InvalidateCache()
	logger.L.Info("Import soft-deleted", "importID", id)
	return nil
}

// ReplaceCompanies swaps the whole company directory atomically.
func (s *importServiceImpl) ReplaceCompanies(companies []models.Company) error {
	dbTx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.Exec(`DELETE FROM companies`); err != nil {
		return fmt.Errorf("error clearing companies: %w", err)
	}

	stmt, err := dbTx.Prepare(`INSERT INTO companies (code, name, company_group) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing company insert: %w", err)
	}
	defer stmt.Close()

	for _, company := range companies {
		if _, err := stmt.Exec(company.Code, company.Name, company.Group); err != nil {
			return fmt.Errorf("error inserting company %s: %w", company.Code, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("error committing companies: %w", err)
	}

	s.dashboard.InvalidateCache()
	logger.L.Info("Company directory replaced", "count", len(companies))
	return nil
}

func validatePayload(payload *models.ImportPayload) (int, error) {
	counts := map[models.SourceKind]int{
		models.SourceAccountsPayable: len(payload.Payables),
		models.SourceRevenue:         len(payload.Revenues),
		models.SourceTransaction:     len(payload.Transactions),
		models.SourceForecastEntry:   len(payload.ForecastEntries),
		models.SourceBalanceSnapshot: len(payload.Balances),
	}

	kind := models.SourceKind(payload.SourceKind)
	declared, ok := counts[kind]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSourceKind, payload.SourceKind)
	}
	if declared == 0 {
		return 0, ErrImportEmpty
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	if total != declared {
		return 0, ErrKindMismatch
	}

	if config.Cfg != nil && declared > config.Cfg.MaxImportRows {
		return 0, fmt.Errorf("%w: %d rows (limit %d)", ErrImportTooLarge, declared, config.Cfg.MaxImportRows)
	}
	return declared, nil
}

func insertPayables(dbTx *sql.Tx, importID string, rows []models.PayableRow) error {
	stmt, err := dbTx.Prepare(`INSERT INTO payables (import_id, status, business_unit, creditor, category, payment_date, amount) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing payable insert: %w", err)
	}
	defer stmt.Close()
	for _, row := range rows {
		if _, err := stmt.Exec(importID, row.Status, row.BusinessUnit, row.Creditor, row.Category, row.PaymentDate, row.Amount); err != nil {
			return fmt.Errorf("error inserting payable row: %w", err)
		}
	}
	return nil
}

func insertRevenues(dbTx *sql.Tx, importID string, rows []models.RevenueRow) error {
	stmt, err := dbTx.Prepare(`INSERT INTO revenues (import_id, status, business_unit, category, issue_date, amount) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing revenue insert: %w", err)
	}
	defer stmt.Close()
	for _, row := range rows {
		if _, err := stmt.Exec(importID, row.Status, row.BusinessUnit, row.Category, row.IssueDate, row.Amount); err != nil {
			return fmt.Errorf("error inserting revenue row: %w", err)
		}
	}
	return nil
}

func insertTransactions(dbTx *sql.Tx, importID string, rows []models.BankTransactionRow) error {
	stmt, err := dbTx.Prepare(`INSERT INTO bank_transactions (import_id, business_unit, bank, category, transaction_date, amount) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing bank transaction insert: %w", err)
	}
	defer stmt.Close()
	for _, row := range rows {
		if _, err := stmt.Exec(importID, row.BusinessUnit, row.Bank, row.Category, row.TransactionDate, row.Amount); err != nil {
			return fmt.Errorf("error inserting bank transaction row: %w", err)
		}
	}
	return nil
}

func insertForecastEntries(dbTx *sql.Tx, importID string, rows []models.ForecastEntryRow) error {
	stmt, err := dbTx.Prepare(`INSERT INTO forecast_entries (import_id, status, business_unit, category, due_date, amount) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing forecast entry insert: %w", err)
	}
	defer stmt.Close()
	for _, row := range rows {
		if _, err := stmt.Exec(importID, row.Status, row.BusinessUnit, row.Category, row.DueDate, row.Amount); err != nil {
			return fmt.Errorf("error inserting forecast entry row: %w", err)
		}
	}
	return nil
}

func insertBalances(dbTx *sql.Tx, importID string, rows []models.BalanceSnapshotRow) error {
	stmt, err := dbTx.Prepare(`INSERT INTO balance_snapshots (import_id, business_unit, bank, balance_date, balance) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing balance snapshot insert: %w", err)
	}
	defer stmt.Close()
	for _, row := range rows {
		if _, err := stmt.Exec(importID, row.BusinessUnit, row.Bank, row.BalanceDate, row.Balance); err != nil {
			return fmt.Errorf("error inserting balance snapshot row: %w", err)
		}
	}
	return nil
}
