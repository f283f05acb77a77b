package models

// CompanySummary is the identity record listed by GET /api/companies.
type CompanySummary struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker,omitempty"`
}

// Metrics carries display-ready strings; the API formats them.
type Metrics struct {
	Revenue        string `json:"revenue"`
	DebtToEquity   string `json:"debt_to_equity"`
	ProfitMargin   string `json:"profit_margin"`
	ReturnOnEquity string `json:"return_on_equity"`
}

type ScoreFactor struct {
	Text     string `json:"text"`
	Positive bool   `json:"positive"`
}

type SentimentBreakdown struct {
	Category string  `json:"category"`
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
}

type TrendPoint struct {
	Month string  `json:"month"`
	Score float64 `json:"score"`
}

// CompanyDetail is the payload of GET /api/companies/{name}.
type CompanyDetail struct {
	Name         string               `json:"name"`
	Ticker       string               `json:"ticker,omitempty"`
	Sector       string               `json:"sector"`
	MarketCap    *float64             `json:"marketCap,omitempty"`
	LastUpdated  string               `json:"lastUpdated"`
	Score        float64              `json:"score"`
	Metrics      *Metrics             `json:"metrics,omitempty"`
	ScoreFactors []ScoreFactor        `json:"scoreFactors"`
	Sentiment    []SentimentBreakdown `json:"sentiment"`
	CreditTrend  []TrendPoint         `json:"creditTrend"`
}

// MetricTile is one of the four headline numbers shown under the score.
type MetricTile struct {
	Title string
	Key   string
	Color string
}

var MetricTiles = []MetricTile{
	{Title: "Revenue", Key: "revenue", Color: "emerald"},
	{Title: "Debt to Equity", Key: "debt_to_equity", Color: "blue"},
	{Title: "Profit Margin", Key: "profit_margin", Color: "green"},
	{Title: "Return on Equity", Key: "return_on_equity", Color: "purple"},
}

// Value looks a metric up by its wire key. A nil receiver, an unknown key or
// an empty value all read as "N/A".
func (m *Metrics) Value(key string) string {
	if m == nil {
		return "N/A"
	}
	var v string
	switch key {
	case "revenue":
		v = m.Revenue
	case "debt_to_equity":
		v = m.DebtToEquity
	case "profit_margin":
		v = m.ProfitMargin
	case "return_on_equity":
		v = m.ReturnOnEquity
	}
	if v == "" {
		return "N/A"
	}
	return v
}
