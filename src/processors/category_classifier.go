package processors

import (
	"strings"

	"github.com/username/fluxocaixa/backend/src/models"
	"github.com/username/fluxocaixa/backend/src/utils"
)

// nonOperationalCategories is the exclusion list applied to Total Outflows
// and the daily cash-flow series: pass-through and financing movements that
// must not count as operational cash flow. Matching is exact (case-insensitive),
// never substring.
var nonOperationalCategories = []string{
	"Receita Reembolsável Quintal",
	"Despesa Reembolsável Quintal",
	"Receita Reembolsável Armazém",
	"Despesa Reembolsável Armazém",
	"Recebimento de Empréstimo",
	"Pagamento de Empréstimo e Financiamento",
	"Pagamento de Cartão",
	"Aplicação Financeira",
	"Investimento em Equipamentos",
	"Cartão de Crédito",
	"Reforma do Imóvel",
	"Recebimento de Dividendos",
	"Rendimento Financeiro",
	"Distribuição de Lucros",
	"Aporte de Capital",
}

// expenseExclusionCategories is the exclusion list applied to Total Expenses.
// It is deliberately kept as a separate constant from nonOperationalCategories:
// the loan/financing entries appear here as two separate categories instead of
// one combined phrase, and unifying the lists would silently change reported
// totals.
var expenseExclusionCategories = []string{
	"Receita Reembolsável Quintal",
	"Despesa Reembolsável Quintal",
	"Receita Reembolsável Armazém",
	"Despesa Reembolsável Armazém",
	"Recebimento de Empréstimo",
	"Pagamento de Empréstimo",
	"Financiamento",
	"Pagamento de Cartão",
	"Aplicação Financeira",
	"Investimento em Equipamentos",
	"Cartão de Crédito",
	"Reforma do Imóvel",
	"Recebimento de Dividendos",
	"Rendimento Financeiro",
	"Distribuição de Lucros",
	"Aporte de Capital",
}

// loanCategoryHints are matched as accent-folded substrings against a payable's
// category field.
var loanCategoryHints = []string{
	"empréstimo",
	"pagamento de empréstimo",
	"financiamento",
}

// CategoryClassifier holds the fixed chart-of-accounts matching rules.
type CategoryClassifier struct {
	nonOperational  map[string]struct{}
	expenseExcluded map[string]struct{}
}

func NewCategoryClassifier() *CategoryClassifier {
	return &CategoryClassifier{
		nonOperational:  lowerSet(nonOperationalCategories),
		expenseExcluded: lowerSet(expenseExclusionCategories),
	}
}

// IsNonOperational reports whether the category is on the Total-Outflows
// exclusion list.
func (c *CategoryClassifier) IsNonOperational(category string) bool {
	_, ok := c.nonOperational[strings.ToLower(strings.TrimSpace(category))]
	return ok
}

// IsExpenseExcluded reports whether the category is on the Total-Expenses
// exclusion list.
func (c *CategoryClassifier) IsExpenseExcluded(category string) bool {
	_, ok := c.expenseExcluded[strings.ToLower(strings.TrimSpace(category))]
	return ok
}

// IsCMV reports whether an accounts-payable record is a cost-of-goods purchase.
// The match is a deliberately loose dual-substring test so that spacing and
// pluralization variants ("Despesas com Mercadoria(s)") all qualify, but a
// category missing the "04.0" account token never does.
func (c *CategoryClassifier) IsCMV(rec models.FinancialRecord) bool {
	if rec.SourceKind != models.SourceAccountsPayable {
		return false
	}
	up := strings.ToUpper(rec.Category)
	return strings.Contains(up, "04.0") && strings.Contains(up, "DESPESAS COM MERCADORIA")
}

// IsLoan reports whether a settled accounts-payable record is a loan or
// financing payment, from accent-folded substring hints on the creditor and
// category fields.
func (c *CategoryClassifier) IsLoan(rec models.FinancialRecord) bool {
	if rec.SourceKind != models.SourceAccountsPayable || rec.Status != models.StatusActual {
		return false
	}
	if utils.ContainsFolded(rec.Creditor, "emprest") {
		return true
	}
	for _, hint := range loanCategoryHints {
		if utils.ContainsFolded(rec.Category, hint) {
			return true
		}
	}
	return false
}

// IsRevenueMovement reports whether a forecasted entry should be redirected
// into the revenue aggregate instead of the expense aggregate.
func (c *CategoryClassifier) IsRevenueMovement(category string) bool {
	return strings.Contains(strings.ToLower(category), "movimento em dinheiro")
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}
