package utils

import "testing"

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"aapl", "AAPL"},
		{"  tsla ", "TSLA"},
		{"reliance.ns", "RELIANCE.NS"},
		{"btc - usd", "BTC-USD"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTicker(tt.in); got != tt.want {
			t.Errorf("NormalizeTicker(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCryptoTicker(t *testing.T) {
	if got := CryptoTicker("btc"); got != "BTC-USD" {
		t.Errorf("CryptoTicker(btc) = %q", got)
	}
	if got := CryptoTicker("ETH-USD"); got != "ETH-USD" {
		t.Errorf("already-suffixed symbol changed: %q", got)
	}
}

func TestHasClassSuffix(t *testing.T) {
	yes := []string{"RELIANCE.NS", "BP.L", "BTC-USD", "GC=F", "EURUSD=X"}
	for _, s := range yes {
		if !HasClassSuffix(s) {
			t.Errorf("HasClassSuffix(%q) = false", s)
		}
	}
	no := []string{"AAPL", "TSLA", ""}
	for _, s := range no {
		if HasClassSuffix(s) {
			t.Errorf("HasClassSuffix(%q) = true", s)
		}
	}
}
