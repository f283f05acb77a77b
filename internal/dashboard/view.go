// Package dashboard holds the view state of the credit intelligence
// dashboard: which companies exist, which one is selected, and whether the
// last fetch failed.
package dashboard

import (
	"context"
	"fmt"
	"log"

	"github.com/dyike/CreditIntel/internal/dataflows"
	"github.com/dyike/CreditIntel/internal/models"
)

// Source is the HTTP boundary the view reads from.
type Source interface {
	ListCompanies(ctx context.Context) ([]models.CompanySummary, error)
	GetCompany(ctx context.Context, name string) (*models.CompanyDetail, error)
}

// QuoteSource optionally decorates the selected company with a live price.
type QuoteSource interface {
	GetQuote(symbol string) (*dataflows.Quote, error)
}

type Screen int

const (
	ScreenLoading Screen = iota
	ScreenError
	ScreenEmpty
	ScreenDashboard
)

func (s Screen) String() string {
	switch s {
	case ScreenLoading:
		return "loading"
	case ScreenError:
		return "error"
	case ScreenEmpty:
		return "empty"
	case ScreenDashboard:
		return "dashboard"
	}
	return fmt.Sprintf("screen(%d)", int(s))
}

type View struct {
	source Source
	quotes QuoteSource
	debug  bool

	Companies []models.CompanySummary
	Selected  *models.CompanyDetail
	Quote     *dataflows.Quote
	Loading   bool
	Err       error
}

type Option func(*View)

func WithQuotes(q QuoteSource) Option {
	return func(v *View) { v.quotes = q }
}

func WithDebug(debug bool) Option {
	return func(v *View) { v.debug = debug }
}

// NewView returns a view in the loading state, as it is before the first Load.
func NewView(source Source, opts ...Option) *View {
	v := &View{source: source, Loading: true}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Load fetches the company list and auto-selects the first entry. It starts
// from a clean slate, like a freshly mounted page.
func (v *View) Load(ctx context.Context) error {
	v.Loading = true
	v.Err = nil
	v.Companies = nil
	v.Selected = nil
	v.Quote = nil
	defer func() { v.Loading = false }()

	companies, err := v.source.ListCompanies(ctx)
	if err != nil {
		log.Printf("Failed to fetch companies: %v", err)
		v.Err = err
		return err
	}
	v.Companies = companies
	if len(companies) == 0 {
		return nil
	}
	return v.Select(ctx, companies[0].Name)
}

// Select fetches name's detail. A failure records the error and keeps the
// previous selection. The error stays until the next Load.
func (v *View) Select(ctx context.Context, name string) error {
	detail, err := v.source.GetCompany(ctx, name)
	if err != nil {
		log.Printf("Failed to fetch company details for %s: %v", name, err)
		v.Err = err
		return err
	}
	v.Selected = detail
	v.attachQuote()
	return nil
}

// Refresh re-fetches the selected company. After an error, or before
// anything was selected, it reloads from scratch and then returns to the
// previously selected company if it still exists.
func (v *View) Refresh(ctx context.Context) error {
	if v.Selected != nil && v.Err == nil {
		return v.Select(ctx, v.Selected.Name)
	}

	previous := ""
	if v.Selected != nil {
		previous = v.Selected.Name
	}
	if err := v.Load(ctx); err != nil {
		return err
	}
	if previous == "" || v.Selected == nil || v.Selected.Name == previous {
		return nil
	}
	for _, c := range v.Companies {
		if c.Name == previous {
			return v.Select(ctx, previous)
		}
	}
	return nil
}

func (v *View) Screen() Screen {
	switch {
	case v.Loading:
		return ScreenLoading
	case v.Err != nil:
		return ScreenError
	case v.Selected == nil:
		return ScreenEmpty
	}
	return ScreenDashboard
}

// CompanyNames lists the selector options in API order.
func (v *View) CompanyNames() []string {
	names := make([]string, 0, len(v.Companies))
	for _, c := range v.Companies {
		names = append(names, c.Name)
	}
	return names
}

func (v *View) attachQuote() {
	v.Quote = nil
	if v.quotes == nil || v.Selected == nil || v.Selected.Ticker == "" {
		return
	}
	q, err := v.quotes.GetQuote(v.Selected.Ticker)
	if err != nil {
		log.Printf("quote for %s unavailable: %v", v.Selected.Ticker, err)
		return
	}
	if v.debug && q != nil {
		log.Printf("quote %s: %s %s", q.Symbol, q.Price.StringFixed(2), q.Currency)
	}
	v.Quote = q
}
