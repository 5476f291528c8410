package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// NormalizeBusinessNumber strips everything but digits from a business
// registration number so "123-45-67890" and "1234567890" key the same
// ledger row.
func NormalizeBusinessNumber(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("business number %q contains no digits", raw)
	}
	return b.String(), nil
}

// YearMonth renders t as the "YYYY-MM" ledger key. The monthly cap resets
// implicitly because a new month keys a new row.
func YearMonth(t time.Time) string {
	return t.Format("2006-01")
}
