package dataflows

import (
	"fmt"
	"path/filepath"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

// QuoteClient handles Yahoo Finance quote lookups
type QuoteClient struct {
	cache  *CacheManager
	online bool
	fetch  func(symbol string) (*finance.Quote, error)
}

// NewQuoteClient creates a new Yahoo Finance quote client
func NewQuoteClient(config *Config) *QuoteClient {
	cacheDir := filepath.Join(config.DataCacheDir, "yahoo_finance")
	cache := NewCacheManager(cacheDir, 5*time.Minute, config.CacheEnabled)

	return &QuoteClient{
		cache:  cache,
		online: config.OnlineTools,
		fetch:  quote.Get,
	}
}

// Enabled reports whether live quotes may be fetched at all.
func (qc *QuoteClient) Enabled() bool {
	return qc != nil && qc.online
}

// GetQuote gets current quote data for a symbol
func (qc *QuoteClient) GetQuote(symbol string) (*Quote, error) {
	if !qc.Enabled() {
		return nil, fmt.Errorf("online tools are disabled")
	}
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	symbol = NormalizeSymbol(symbol)

	var cached Quote
	if qc.cache.Get("yahoo", "quote", symbol, &cached) {
		return &cached, nil
	}

	q, err := qc.fetch(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}
	if q == nil {
		return nil, fmt.Errorf("no quote found for %s", symbol)
	}

	result := &Quote{
		Symbol:        symbol,
		ShortName:     q.ShortName,
		Price:         decimal.NewFromFloat(q.RegularMarketPrice),
		ChangePercent: q.RegularMarketChangePercent,
		Currency:      q.CurrencyID,
		MarketState:   string(q.MarketState),
		FetchedAt:     time.Now(),
	}

	qc.cache.Set("yahoo", "quote", symbol, result)

	return result, nil
}
