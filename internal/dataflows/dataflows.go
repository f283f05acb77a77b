package dataflows

import (
	"context"

	"github.com/dyike/CreditIntel/internal/models"
)

// DataFlowInterface provides high-level access to all data sources
type DataFlowInterface struct {
	credit *CreditAPI
	quotes *QuoteClient
	config *Config
}

// NewDataFlowInterface creates a new data flow interface
func NewDataFlowInterface(config *Config) *DataFlowInterface {
	return &DataFlowInterface{
		credit: NewCreditAPI(config),
		quotes: NewQuoteClient(config),
		config: config,
	}
}

func (dfi *DataFlowInterface) ListCompanies(ctx context.Context) ([]models.CompanySummary, error) {
	return dfi.credit.ListCompanies(ctx)
}

func (dfi *DataFlowInterface) GetCompany(ctx context.Context, name string) (*models.CompanyDetail, error) {
	return dfi.credit.GetCompany(ctx, name)
}

// GetQuote returns nil without error when online tools are off, so callers
// can treat the quote as optional decoration.
func (dfi *DataFlowInterface) GetQuote(symbol string) (*Quote, error) {
	if !dfi.quotes.Enabled() || symbol == "" {
		return nil, nil
	}
	return dfi.quotes.GetQuote(symbol)
}

func (dfi *DataFlowInterface) BaseURL() string {
	return dfi.credit.BaseURL()
}

func (dfi *DataFlowInterface) ClearCache() error {
	return dfi.credit.Cache().Clear()
}
