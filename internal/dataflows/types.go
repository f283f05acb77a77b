package dataflows

import (
	"errors"
	"fmt"
	"time"

	"github.com/dyike/CreditIntel/config"
	"github.com/shopspring/decimal"
)

// Config is an alias for the main application config
type Config = config.Config

// ErrHTTPStatus matches any *StatusError via errors.Is.
var ErrHTTPStatus = errors.New("unexpected http status")

// StatusError is a non-2xx reply from the credit API. Its message is the one
// the dashboard shows to the user.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}

// Quote is a live market price attached to the company panel.
type Quote struct {
	Symbol        string          `json:"symbol"`
	ShortName     string          `json:"short_name"`
	Price         decimal.Decimal `json:"price"`
	ChangePercent float64         `json:"change_percent"`
	Currency      string          `json:"currency"`
	MarketState   string          `json:"market_state"`
	FetchedAt     time.Time       `json:"fetched_at"`
}
