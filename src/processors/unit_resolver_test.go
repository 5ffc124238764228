package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/fluxocaixa/backend/src/models"
)

var testCompanies = []models.Company{
	{Code: "001", Name: "Loja Centro", Group: "Varejo"},
	{Code: "2", Name: "Loja Norte", Group: "Varejo"},
	{Code: "0030", Name: "Cozinha Central", Group: "Produção"},
}

func TestResolveAllowList_NoFiltersMeansNoRestriction(t *testing.T) {
	allow := ResolveAllowList(testCompanies, nil, nil)
	assert.Nil(t, allow)
	assert.True(t, allow.Allows("999"), "nil allow list must pass every code")
}

func TestResolveAllowList_EmptyDirectoryMeansNoRestriction(t *testing.T) {
	allow := ResolveAllowList(nil, []string{"Varejo"}, nil)
	assert.Nil(t, allow)
}

func TestResolveAllowList_NoMatchIsEmptyNotNil(t *testing.T) {
	allow := ResolveAllowList(testCompanies, []string{"GroupX"}, nil)
	require.NotNil(t, allow, "a filter that matched nothing must not collapse into no restriction")
	assert.Equal(t, 0, allow.Size())
	assert.False(t, allow.Allows("1"))
}

func TestResolveAllowList_AndAcrossDimensionsOrWithin(t *testing.T) {
	// Group OR-list alone.
	allow := ResolveAllowList(testCompanies, []string{"Varejo"}, nil)
	require.NotNil(t, allow)
	assert.Equal(t, 2, allow.Size())
	assert.True(t, allow.Allows("1"))
	assert.True(t, allow.Allows("2"))
	assert.False(t, allow.Allows("30"))

	// AND between group and name dimensions.
	allow = ResolveAllowList(testCompanies, []string{"Varejo"}, []string{"Loja Norte"})
	require.NotNil(t, allow)
	assert.Equal(t, 1, allow.Size())
	assert.False(t, allow.Allows("1"))
	assert.True(t, allow.Allows("2"))

	// Name in filter but group mismatched: AND semantics exclude it.
	allow = ResolveAllowList(testCompanies, []string{"Produção"}, []string{"Loja Norte"})
	require.NotNil(t, allow)
	assert.Equal(t, 0, allow.Size())
}

func TestResolveAllowList_CodesAreNormalized(t *testing.T) {
	allow := ResolveAllowList(testCompanies, []string{"Produção"}, nil)
	require.NotNil(t, allow)
	// "0030" was imported with leading zeros; any variant must match.
	assert.True(t, allow.Allows("30"))
	assert.True(t, allow.Allows("0030"))
	assert.True(t, allow.Allows(" 030 "))
}

func TestFilterRecords_NilVersusEmpty(t *testing.T) {
	records := []models.FinancialRecord{
		revenueRec(models.StatusActual, "1", "100", day(2025, 1, 10)),
		revenueRec(models.StatusActual, "2", "200", day(2025, 1, 10)),
	}

	assert.Len(t, FilterRecords(records, nil), 2, "nil allow list keeps everything")
	assert.Len(t, FilterRecords(records, NewAllowList()), 0, "empty allow list keeps nothing")
	assert.Len(t, FilterRecords(records, NewAllowList("002")), 1)
}
