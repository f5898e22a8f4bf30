// Package utils holds small shared helpers.
package utils

import "strings"

// Asset-class suffixes recognized by the Yahoo-style quote APIs. Data sources
// perform no normalization themselves; callers run tickers through
// NormalizeTicker before handing them to a provider.
var classSuffixes = []string{".NS", ".BO", ".L", ".T", ".AX", "-USD", "=F", "=X"}

// NormalizeTicker upper-cases a user-supplied ticker and trims stray
// whitespace, preserving any recognized asset-class suffix.
func NormalizeTicker(raw string) string {
	t := strings.ToUpper(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, " ", "")
	return t
}

// CryptoTicker suffixes a bare crypto symbol for quote lookups
// (e.g., "BTC" → "BTC-USD"). Already-suffixed symbols pass through.
func CryptoTicker(symbol string) string {
	s := NormalizeTicker(symbol)
	if HasClassSuffix(s) {
		return s
	}
	return s + "-USD"
}

// HasClassSuffix reports whether the ticker already carries an exchange or
// asset-class suffix.
func HasClassSuffix(ticker string) bool {
	for _, suf := range classSuffixes {
		if strings.HasSuffix(ticker, suf) {
			return true
		}
	}
	return false
}
