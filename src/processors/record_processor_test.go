package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/fluxocaixa/backend/src/models"
)

func TestProcess_StatusVocabulary(t *testing.T) {
	processor := NewRecordProcessor()

	snap := &models.RawSnapshot{
		Payables: []models.PayableRow{
			{Status: "Previsto", PaymentDate: "2025-01-10", Amount: "100"},
			{Status: "pendente", PaymentDate: "2025-01-10", Amount: "100"},
			{Status: "Realizado", PaymentDate: "2025-01-10", Amount: "100"},
			{Status: "paga", PaymentDate: "2025-01-10", Amount: "100"},
			{Status: "PAGO", PaymentDate: "2025-01-10", Amount: "100"},
			{Status: "???", PaymentDate: "2025-01-10", Amount: "100"},
		},
	}
	records := processor.Process(snap)
	require.Len(t, records, 6)

	assert.Equal(t, models.StatusForecast, records[0].Status)
	assert.Equal(t, models.StatusForecast, records[1].Status)
	assert.Equal(t, models.StatusActual, records[2].Status)
	assert.Equal(t, models.StatusActual, records[3].Status)
	assert.Equal(t, models.StatusActual, records[4].Status)
	assert.Equal(t, models.StatusForecast, records[5].Status, "unknown vocabulary falls back to forecast")
}

func TestProcess_SignConventions(t *testing.T) {
	processor := NewRecordProcessor()

	snap := &models.RawSnapshot{
		Payables: []models.PayableRow{{Status: "paga", PaymentDate: "2025-01-10", Amount: "-250.00"}},
		Revenues: []models.RevenueRow{{Status: "realizado", IssueDate: "2025-01-10", Amount: "-90.00"}},
		Transactions: []models.BankTransactionRow{
			{TransactionDate: "2025-01-10", Amount: "-40.00"},
			{TransactionDate: "2025-01-10", Amount: "55.00"},
		},
	}
	records := processor.Process(snap)
	require.Len(t, records, 4)

	assert.True(t, records[0].Amount.Equal(dec("250.00")), "payable amounts are magnitudes")
	assert.True(t, records[1].Amount.Equal(dec("90.00")), "revenue amounts are magnitudes")
	assert.True(t, records[2].Amount.Equal(dec("-40.00")), "transactions keep their explicit sign")
	assert.True(t, records[3].Amount.Equal(dec("55.00")))
	assert.Equal(t, models.StatusActual, records[2].Status, "statement lines are always actual")
}

func TestProcess_DropsMalformedRows(t *testing.T) {
	processor := NewRecordProcessor()

	snap := &models.RawSnapshot{
		Revenues: []models.RevenueRow{
			{Status: "realizado", IssueDate: "10/01/2025", Amount: "100"}, // bad date format
			{Status: "realizado", IssueDate: "2025-01-10", Amount: "abc"}, // non-numeric amount
			{Status: "realizado", IssueDate: "2025-01-10", Amount: "100"},
		},
	}
	records := processor.Process(snap)
	require.Len(t, records, 1)
	assert.True(t, records[0].Amount.Equal(dec("100")))
}

func TestProcess_MissingFieldsStayResilient(t *testing.T) {
	processor := NewRecordProcessor()

	snap := &models.RawSnapshot{
		Revenues: []models.RevenueRow{{Status: "realizado", IssueDate: "2025-01-10", Amount: ""}},
	}
	records := processor.Process(snap)
	require.Len(t, records, 1)
	assert.True(t, records[0].Amount.IsZero(), "missing amount counts as zero")
	assert.Equal(t, "", records[0].BusinessUnit, "missing business unit is the empty string")
}

func TestProcess_NormalizesUnitCodesAndAssignsSeq(t *testing.T) {
	processor := NewRecordProcessor()

	snap := &models.RawSnapshot{
		Balances: []models.BalanceSnapshotRow{
			{BusinessUnit: "007", Bank: "X", BalanceDate: "2025-01-10", Balance: "1000"},
			{BusinessUnit: "7", Bank: "X", BalanceDate: "2025-01-10", Balance: "1200"},
		},
	}
	records := processor.Process(snap)
	require.Len(t, records, 2)
	assert.Equal(t, "7", records[0].BusinessUnit)
	assert.Equal(t, "7", records[1].BusinessUnit)
	assert.Less(t, records[0].Seq, records[1].Seq, "seq preserves insertion order")
}
