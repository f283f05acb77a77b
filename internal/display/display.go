// Package display renders the credit intelligence dashboard for a terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dyike/CreditIntel/internal/dashboard"
	"github.com/dyike/CreditIntel/internal/dataflows"
	"github.com/dyike/CreditIntel/internal/models"
)

const (
	DefaultWidth = 100
	minWidth     = 60
	Title        = "📊 Credit Intelligence Platform"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0F172A"))

	headerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#E2E8F0")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#CBD5E1")).
			Padding(0, 2)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0F172A")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#475569"))

	valueStyle = lipgloss.NewStyle().
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))

	positiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	negativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	trendStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B91C1C")).
			Bold(true)

	metricColors = map[string]lipgloss.Color{
		"emerald": lipgloss.Color("#059669"),
		"blue":    lipgloss.Color("#2563EB"),
		"green":   lipgloss.Color("#16A34A"),
		"purple":  lipgloss.Color("#9333EA"),
	}
)

// Options tune a render. BaseURL is quoted in the error screen.
type Options struct {
	Width   int
	BaseURL string
}

// Render returns the frame for the view's current screen.
func Render(v *dashboard.View, opts Options) string {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	width = max(width, minWidth)

	switch v.Screen() {
	case dashboard.ScreenLoading:
		return fullPage(width, mutedStyle.Render("Loading data..."))
	case dashboard.ScreenError:
		return fullPage(width, errorStyle.Render(ErrorMessage(v.Err, opts.BaseURL)))
	case dashboard.ScreenEmpty:
		return fullPage(width, "No company data available. Please check the backend and refresh.")
	}
	return renderDashboard(v, width)
}

// ErrorMessage is the full-page text shown when a fetch failed.
func ErrorMessage(err error, baseURL string) string {
	return fmt.Sprintf("Error: %v. Please ensure your backend is running at %s and has data populated.", err, baseURL)
}

func fullPage(width int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Padding(2, 0).
		Align(lipgloss.Center).
		Render(content)
}

func renderDashboard(v *dashboard.View, width int) string {
	c := v.Selected
	half := (width - 2) / 2

	sections := []string{
		renderHeader(c, v.Companies, width),
		lipgloss.JoinHorizontal(lipgloss.Top,
			renderCompanyInfo(c, v.Quote, half),
			renderScore(c.Score, width-half),
		),
		renderMetrics(c.Metrics, width),
		lipgloss.JoinHorizontal(lipgloss.Top,
			renderFactors(c.ScoreFactors, half),
			renderSentiment(c.Sentiment, width-half),
		),
		renderTrend(c.CreditTrend, width),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderHeader(c *models.CompanyDetail, companies []models.CompanySummary, width int) string {
	selector := fmt.Sprintf("▾ %s", c.Name)
	if len(companies) > 1 {
		selector += mutedStyle.Render(fmt.Sprintf("  (%d companies)", len(companies)))
	}
	gap := width - lipgloss.Width(Title) - lipgloss.Width(selector) - 2
	line := titleStyle.Render(Title) + strings.Repeat(" ", max(gap, 1)) + selector
	return headerStyle.Width(width).Render(line)
}

func panel(title string, body string, width int) string {
	// border (2) + padding (4)
	inner := max(width-6, 10)
	content := panelTitleStyle.Render(title) + "\n" + lipgloss.NewStyle().Width(inner).Render(body)
	return panelStyle.Width(width - 2).Render(content)
}

func row(label, value string, width int) string {
	gap := width - lipgloss.Width(label) - lipgloss.Width(value)
	return labelStyle.Render(label) + strings.Repeat(" ", max(gap, 1)) + valueStyle.Render(value)
}

func renderCompanyInfo(c *models.CompanyDetail, quote *dataflows.Quote, width int) string {
	inner := max(width-6, 10)
	sector := c.Sector
	if sector == "" {
		sector = "N/A"
	}
	lastUpdated := c.LastUpdated
	if lastUpdated == "" {
		lastUpdated = "N/A"
	}

	lines := []string{
		"🏢 " + valueStyle.Render(c.Name),
		mutedStyle.Render(sector),
		"",
		row("Market Cap:", dataflows.FormatMarketCap(c.MarketCap), inner),
		row("Last Updated:", lastUpdated, inner),
	}
	if quote != nil {
		change := positiveStyle
		if quote.ChangePercent < 0 {
			change = negativeStyle
		}
		price := fmt.Sprintf("%s %s %s", quote.Price.StringFixed(2), quote.Currency,
			change.Render(fmt.Sprintf("(%+.2f%%)", quote.ChangePercent)))
		lines = append(lines, row(fmt.Sprintf("Price (%s):", quote.Symbol), price, inner))
	}
	return panel("Company", strings.Join(lines, "\n"), width)
}

func renderScore(score float64, width int) string {
	band := dashboard.BandFor(score)
	inner := max(width-6, 10)

	badge := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(band.Badge)).
		Padding(1, 4).
		Render(dataflows.FormatFixed(score, 0))
	label := lipgloss.NewStyle().
		Foreground(lipgloss.Color(band.Color)).
		Bold(true).
		Render(band.Label)

	body := lipgloss.JoinVertical(lipgloss.Center, badge, "", label)
	return panel("Credit Intelligence Score", lipgloss.PlaceHorizontal(inner, lipgloss.Center, body), width)
}

func renderMetrics(m *models.Metrics, width int) string {
	tileWidth := width / len(models.MetricTiles)
	tiles := make([]string, 0, len(models.MetricTiles))
	for _, t := range models.MetricTiles {
		value := lipgloss.NewStyle().
			Bold(true).
			Foreground(metricColors[t.Color]).
			Render(m.Value(t.Key))
		body := lipgloss.JoinVertical(lipgloss.Center, labelStyle.Render(t.Title), value)
		tiles = append(tiles, panelStyle.Width(tileWidth-2).Align(lipgloss.Center).Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

func renderFactors(factors []models.ScoreFactor, width int) string {
	if len(factors) == 0 {
		return panel("Why this score?", mutedStyle.Render("No score factors available."), width)
	}
	inner := max(width-6, 10)
	textWidth := max(inner-3, 5)

	lines := make([]string, 0, len(factors))
	for _, f := range factors {
		icon := negativeStyle.Render("!")
		if f.Positive {
			icon = positiveStyle.Render("✔")
		}
		text := lipgloss.NewStyle().Width(textWidth).Render(f.Text)
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, icon+"  ", text))
	}
	return panel("Why this score?", strings.Join(lines, "\n"), width)
}

func renderSentiment(items []models.SentimentBreakdown, width int) string {
	inner := max(width-6, 10)
	labelWidth := 0
	for _, it := range items {
		labelWidth = max(labelWidth, lipgloss.Width(it.Category))
	}
	// label, " + ", bar, " 100%"
	barWidth := max(inner-labelWidth-8, 5)
	return panel("Sentiment Analysis", strings.Join(SentimentBars(items, barWidth), "\n"), width)
}

func renderTrend(points []models.TrendPoint, width int) string {
	inner := max(width-6, 10)
	colWidth := 8
	if len(points) > 0 {
		colWidth = max((inner-len(trendAxisPad)-1)/len(points), 5)
	}
	return panel("📈 Credit Score Trend", strings.Join(TrendChart(points, colWidth), "\n"), width)
}
