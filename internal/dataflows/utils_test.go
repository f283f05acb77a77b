package dataflows

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	finance "github.com/piquette/finance-go"

	"github.com/dyike/CreditIntel/config"
)

func TestFormatMarketCap(t *testing.T) {
	if got := FormatMarketCap(nil); got != "N/A" {
		t.Errorf("FormatMarketCap(nil) = %q, want N/A", got)
	}

	tests := []struct {
		in   float64
		want string
	}{
		{3.2e12, "$3.20T"},
		{2_845_123_000_000, "$2.85T"},
		{8e11, "$800.00B"},
		{5e6, "$5.00M"},
		{999, "$999"},
		{12.5, "$12.5"},
		{0, "$0"},
	}
	for _, tt := range tests {
		if got := FormatMarketCap(&tt.in); got != tt.want {
			t.Errorf("FormatMarketCap(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatFixed(t *testing.T) {
	if got := FormatFixed(77.5, 0); got != "78" {
		t.Fatalf("expected 78, got %s", got)
	}
	if got := FormatFixed(71.04, 1); got != "71.0" {
		t.Fatalf("expected 71.0, got %s", got)
	}
}

func TestCacheManagerTTL(t *testing.T) {
	cm := NewCacheManager(filepath.Join(t.TempDir(), "cache"), time.Hour, true)
	if err := cm.Set("src", "m", "key", map[string]int{"a": 1}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var fresh map[string]int
	if !cm.Get("src", "m", "key", &fresh) || fresh["a"] != 1 {
		t.Fatalf("expected fresh hit, got %v", fresh)
	}

	short := NewCacheManager(cm.cacheDir, time.Nanosecond, true)
	time.Sleep(time.Millisecond)
	var expired map[string]int
	if short.Get("src", "m", "key", &expired) {
		t.Fatalf("expected expired entry to miss")
	}

	if err := cm.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if cm.Get("src", "m", "key", &fresh) {
		t.Fatalf("expected miss after Clear")
	}
}

func TestCacheManagerDisabled(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), time.Hour, false)
	_ = cm.Set("src", "m", "key", 1)
	var v int
	if cm.Get("src", "m", "key", &v) {
		t.Fatalf("disabled cache must never hit")
	}
}

func TestQuoteClient(t *testing.T) {
	cfg := config.DefaultConfigWithRoot(t.TempDir())
	cfg.OnlineTools = true
	qc := NewQuoteClient(cfg)

	calls := 0
	qc.fetch = func(symbol string) (*finance.Quote, error) {
		calls++
		if symbol == "FAIL" {
			return nil, errors.New("boom")
		}
		q := &finance.Quote{}
		q.Symbol = symbol
		q.ShortName = "Apple"
		q.RegularMarketPrice = 189.25
		q.RegularMarketChangePercent = 1.5
		q.CurrencyID = "USD"
		return q, nil
	}

	got, err := qc.GetQuote(" aapl ")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if got.Symbol != "AAPL" || got.Price.String() != "189.25" || got.Currency != "USD" {
		t.Fatalf("unexpected quote %+v", got)
	}
	if _, err := qc.GetQuote("AAPL"); err != nil {
		t.Fatalf("cached GetQuote: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected second lookup served from cache, got %d calls", calls)
	}

	if _, err := qc.GetQuote("FAIL"); err == nil {
		t.Fatalf("expected fetch error")
	}
}

func TestQuoteClientDisabled(t *testing.T) {
	qc := NewQuoteClient(config.DefaultConfigWithRoot(t.TempDir()))
	if qc.Enabled() {
		t.Fatalf("online tools default to off")
	}
	if _, err := qc.GetQuote("AAPL"); err == nil {
		t.Fatalf("expected error when disabled")
	}
}
