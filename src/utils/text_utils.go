package utils

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeUnitCode canonicalizes a business-unit/company code so that
// leading-zero variants compare equal ("007" == "7"). Non-numeric codes are
// only trimmed. Empty input normalizes to the empty string.
func NormalizeUnitCode(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return ""
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return strconv.Itoa(n)
	}
	return trimmed
}

// FoldAccents lowercases the input and strips diacritical marks, so
// "Empréstimo" and "emprestimo" fold to the same string.
func FoldAccents(s string) string {
	folded, _, err := transform.String(accentStripper, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}

// ContainsFolded reports whether s contains substr after accent folding both.
func ContainsFolded(s, substr string) bool {
	return strings.Contains(FoldAccents(s), FoldAccents(substr))
}
