package display

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dyike/CreditIntel/internal/dashboard"
	"github.com/dyike/CreditIntel/internal/dataflows"
	"github.com/dyike/CreditIntel/internal/models"
)

type stubSource struct {
	companies []models.CompanySummary
	detail    *models.CompanyDetail
	err       error
}

func (s stubSource) ListCompanies(ctx context.Context) ([]models.CompanySummary, error) {
	return s.companies, s.err
}

func (s stubSource) GetCompany(ctx context.Context, name string) (*models.CompanyDetail, error) {
	return s.detail, s.err
}

func ptr(v float64) *float64 { return &v }

func apple() *models.CompanyDetail {
	return &models.CompanyDetail{
		Name:        "Apple Inc.",
		Ticker:      "AAPL",
		Sector:      "Technology",
		MarketCap:   ptr(3.2e12),
		LastUpdated: "October 01, 2026",
		Score:       82.4,
		Metrics: &models.Metrics{
			Revenue:        "$383.3B",
			DebtToEquity:   "1.87",
			ProfitMargin:   "25.3%",
			ReturnOnEquity: "147.3%",
		},
		ScoreFactors: []models.ScoreFactor{
			{Text: "Strong cash position", Positive: true},
			{Text: "Elevated leverage", Positive: false},
		},
		Sentiment: []models.SentimentBreakdown{
			{Category: "News", Positive: 72.5, Negative: 27.5},
		},
		CreditTrend: []models.TrendPoint{
			{Month: "Jan", Score: 78.2},
			{Month: "Feb", Score: 80.1},
			{Month: "Mar", Score: 82.4},
		},
	}
}

func loadedView(t *testing.T, src stubSource) *dashboard.View {
	t.Helper()
	v := dashboard.NewView(src)
	_ = v.Load(context.Background())
	return v
}

func TestRenderScreens(t *testing.T) {
	loading := dashboard.NewView(stubSource{})
	if got := Render(loading, Options{}); !strings.Contains(got, "Loading data...") {
		t.Fatalf("loading screen missing text:\n%s", got)
	}

	failed := loadedView(t, stubSource{err: &dataflows.StatusError{Code: 500}})
	got := Render(failed, Options{Width: 200, BaseURL: "http://localhost:5000"})
	want := "Error: HTTP error! status: 500. Please ensure your backend is running at http://localhost:5000 and has data populated."
	if !strings.Contains(got, want) {
		t.Fatalf("error screen missing %q:\n%s", want, got)
	}

	empty := loadedView(t, stubSource{})
	if got := Render(empty, Options{Width: 120}); !strings.Contains(got, "No company data available. Please check the backend and refresh.") {
		t.Fatalf("empty screen missing text:\n%s", got)
	}
}

func TestRenderDashboard(t *testing.T) {
	v := loadedView(t, stubSource{
		companies: []models.CompanySummary{{Name: "Apple Inc.", Ticker: "AAPL"}},
		detail:    apple(),
	})
	out := Render(v, Options{Width: 140})

	for _, want := range []string{
		Title,
		"Apple Inc.",
		"Technology",
		"$3.20T",
		"October 01, 2026",
		"82",
		"Excellent",
		"Revenue", "Debt to Equity", "Profit Margin", "Return on Equity",
		"$383.3B", "147.3%",
		"Why this score?",
		"✔", "Strong cash position", "Elevated leverage",
		"Sentiment Analysis", "News", "73%",
		"Credit Score Trend", "Jan", "78.2", "82.4",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestRenderMissingMetrics(t *testing.T) {
	d := apple()
	d.Metrics = nil
	d.ScoreFactors = nil
	d.MarketCap = nil
	v := loadedView(t, stubSource{companies: []models.CompanySummary{{Name: d.Name}}, detail: d})

	out := Render(v, Options{Width: 140})
	if strings.Count(out, "N/A") < 5 {
		t.Fatalf("expected N/A for market cap and every metric:\n%s", out)
	}
	if !strings.Contains(out, "No score factors available.") {
		t.Fatalf("expected factor placeholder")
	}
}

func TestTrendChartStaysOnAxis(t *testing.T) {
	points := []models.TrendPoint{{Month: "Jan", Score: -20}, {Month: "Feb", Score: 50}, {Month: "Mar", Score: 140}}
	lines := TrendChart(points, 6)

	if len(lines) != trendRows+3 {
		t.Fatalf("expected %d lines, got %d", trendRows+3, len(lines))
	}
	if !strings.Contains(lines[0], "100") || !strings.Contains(lines[trendRows-1], "0 ┤") {
		t.Fatalf("axis labels wrong: %q / %q", lines[0], lines[trendRows-1])
	}
	if !strings.Contains(lines[0], "●") || !strings.Contains(lines[trendRows-1], "●") {
		t.Fatalf("out-of-range scores should be clamped to the axis ends")
	}
	if got := TrendChart(nil, 6); len(got) != 1 || !strings.Contains(got[0], "No trend data") {
		t.Fatalf("unexpected empty chart %v", got)
	}
}

func TestSentimentBars(t *testing.T) {
	lines := SentimentBars([]models.SentimentBreakdown{{Category: "Social", Positive: 100, Negative: 0}}, 10)
	if len(lines) != 3 {
		t.Fatalf("expected two bars and a legend, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], strings.Repeat(barFilledRune, 10)) || !strings.HasSuffix(lines[0], "100%") {
		t.Fatalf("positive bar wrong: %q", lines[0])
	}
	if !strings.Contains(lines[1], strings.Repeat(barEmptyRune, 10)) {
		t.Fatalf("negative bar wrong: %q", lines[1])
	}
}

func TestSaveSnapshot(t *testing.T) {
	v := loadedView(t, stubSource{
		companies: []models.CompanySummary{{Name: "Apple Inc."}},
		detail:    apple(),
	})
	dir := t.TempDir()

	path, err := SaveSnapshot(v, dir, time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if !strings.HasSuffix(path, "Apple_Inc_20261019_093000.md") {
		t.Fatalf("unexpected path %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	md := string(data)
	for _, want := range []string{"# Apple Inc.", "| Credit Intelligence Score | 82 (Excellent) |", "- ✔ Strong cash position", "| Mar | 82.4 |"} {
		if !strings.Contains(md, want) {
			t.Errorf("snapshot missing %q", want)
		}
	}

	if _, err := SaveSnapshot(loadedView(t, stubSource{}), dir, time.Now()); err == nil {
		t.Fatalf("expected error without a selection")
	}
}
