package processors

import (
	"github.com/username/fluxocaixa/backend/src/models"
	"github.com/username/fluxocaixa/backend/src/utils"
)

// AllowList is the resolved set of business-unit codes a query is restricted
// to. A nil *AllowList means "no restriction"; a non-nil empty one means "the
// filter matched nothing" and must aggregate to zero. The two must never be
// conflated.
type AllowList struct {
	codes map[string]struct{}
}

// NewAllowList builds an allow list from raw codes, normalizing each.
func NewAllowList(codes ...string) *AllowList {
	a := &AllowList{codes: make(map[string]struct{}, len(codes))}
	for _, code := range codes {
		a.codes[utils.NormalizeUnitCode(code)] = struct{}{}
	}
	return a
}

// Allows reports whether the given business-unit code passes the filter.
// Codes are normalized before comparison, never compared raw.
func (a *AllowList) Allows(code string) bool {
	if a == nil {
		return true
	}
	_, ok := a.codes[utils.NormalizeUnitCode(code)]
	return ok
}

// Size returns the number of allowed codes. Zero on a non-nil list means the
// filter matched no company.
func (a *AllowList) Size() int {
	if a == nil {
		return 0
	}
	return len(a.codes)
}

// ResolveAllowList computes the effective business-unit restriction for a
// group/company filter selection. AND semantics between the two filter
// dimensions, OR within each list.
func ResolveAllowList(companies []models.Company, groupFilter, companyFilter []string) *AllowList {
	if len(companies) == 0 {
		return nil
	}
	if len(groupFilter) == 0 && len(companyFilter) == 0 {
		return nil
	}

	groups := stringSet(groupFilter)
	names := stringSet(companyFilter)

	a := &AllowList{codes: make(map[string]struct{})}
	for _, company := range companies {
		if len(groups) > 0 {
			if _, ok := groups[company.Group]; !ok {
				continue
			}
		}
		if len(names) > 0 {
			if _, ok := names[company.Name]; !ok {
				continue
			}
		}
		a.codes[utils.NormalizeUnitCode(company.Code)] = struct{}{}
	}
	return a
}

// FilterRecords returns the records whose business unit passes the allow
// list. The input slice is never mutated.
func FilterRecords(records []models.FinancialRecord, allow *AllowList) []models.FinancialRecord {
	if allow == nil {
		return records
	}
	filtered := make([]models.FinancialRecord, 0, len(records))
	for _, rec := range records {
		if allow.Allows(rec.BusinessUnit) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func stringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
