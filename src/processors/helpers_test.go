package processors

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/fluxocaixa/backend/src/models"
)

var testSeq int

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func nextSeq() int {
	testSeq++
	return testSeq
}

func payableRec(status models.RecordStatus, unit, category, amount string, date time.Time) models.FinancialRecord {
	return models.FinancialRecord{
		SourceKind:   models.SourceAccountsPayable,
		Status:       status,
		BusinessUnit: unit,
		Date:         date,
		Amount:       dec(amount),
		Category:     category,
		Seq:          nextSeq(),
	}
}

func revenueRec(status models.RecordStatus, unit, amount string, date time.Time) models.FinancialRecord {
	return models.FinancialRecord{
		SourceKind:   models.SourceRevenue,
		Status:       status,
		BusinessUnit: unit,
		Date:         date,
		Amount:       dec(amount),
		Seq:          nextSeq(),
	}
}

func txnRec(unit, category, amount string, date time.Time) models.FinancialRecord {
	return models.FinancialRecord{
		SourceKind:   models.SourceTransaction,
		Status:       models.StatusActual,
		BusinessUnit: unit,
		Date:         date,
		Amount:       dec(amount),
		Category:     category,
		Seq:          nextSeq(),
	}
}

func forecastRec(status models.RecordStatus, unit, category, amount string, date time.Time) models.FinancialRecord {
	return models.FinancialRecord{
		SourceKind:   models.SourceForecastEntry,
		Status:       status,
		BusinessUnit: unit,
		Date:         date,
		Amount:       dec(amount),
		Category:     category,
		Seq:          nextSeq(),
	}
}

func balanceRec(bank, unit, balance string, date time.Time) models.FinancialRecord {
	return models.FinancialRecord{
		SourceKind:   models.SourceBalanceSnapshot,
		Status:       models.StatusActual,
		BusinessUnit: unit,
		Date:         date,
		Amount:       dec(balance),
		Bank:         bank,
		Seq:          nextSeq(),
	}
}
