package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/dyike/CreditIntel/internal/dashboard"
	"github.com/dyike/CreditIntel/internal/dataflows"
	"github.com/dyike/CreditIntel/internal/models"
	"github.com/dyike/CreditIntel/pkg/utils"
)

// Markdown renders a company detail as a plain Markdown report.
func Markdown(c *models.CompanyDetail, quote *dataflows.Quote) string {
	var b strings.Builder
	band := dashboard.BandFor(c.Score)

	fmt.Fprintf(&b, "# %s\n\n", c.Name)
	if c.Sector != "" {
		fmt.Fprintf(&b, "_%s_\n\n", c.Sector)
	}

	b.WriteString("| Field | Value |\n|---|---|\n")
	if c.Ticker != "" {
		fmt.Fprintf(&b, "| Ticker | %s |\n", c.Ticker)
	}
	fmt.Fprintf(&b, "| Market Cap | %s |\n", dataflows.FormatMarketCap(c.MarketCap))
	fmt.Fprintf(&b, "| Last Updated | %s |\n", orNA(c.LastUpdated))
	fmt.Fprintf(&b, "| Credit Intelligence Score | %s (%s) |\n", dataflows.FormatFixed(c.Score, 0), band.Label)
	if quote != nil {
		fmt.Fprintf(&b, "| Price | %s %s (%+.2f%%) |\n", quote.Price.StringFixed(2), quote.Currency, quote.ChangePercent)
	}

	b.WriteString("\n## Key Metrics\n\n")
	for _, t := range models.MetricTiles {
		fmt.Fprintf(&b, "- **%s**: %s\n", t.Title, c.Metrics.Value(t.Key))
	}

	b.WriteString("\n## Why this score?\n\n")
	if len(c.ScoreFactors) == 0 {
		b.WriteString("No score factors available.\n")
	}
	for _, f := range c.ScoreFactors {
		mark := "!"
		if f.Positive {
			mark = "✔"
		}
		fmt.Fprintf(&b, "- %s %s\n", mark, f.Text)
	}

	b.WriteString("\n## Sentiment Analysis\n\n")
	if len(c.Sentiment) == 0 {
		b.WriteString("No sentiment data available.\n")
	} else {
		b.WriteString("| Category | Positive | Negative |\n|---|---|---|\n")
		for _, s := range c.Sentiment {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", s.Category, formatPercent(s.Positive), formatPercent(s.Negative))
		}
	}

	b.WriteString("\n## Credit Score Trend\n\n")
	if len(c.CreditTrend) == 0 {
		b.WriteString("No trend data available.\n")
	} else {
		b.WriteString("| Month | Score |\n|---|---|\n")
		for _, p := range c.CreditTrend {
			fmt.Fprintf(&b, "| %s | %s |\n", p.Month, dataflows.FormatFixed(p.Score, 1))
		}
	}
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// SaveSnapshot writes the selected company of v to dir as
// <name>_<timestamp>.md and returns the path.
func SaveSnapshot(v *dashboard.View, dir string, now time.Time) (string, error) {
	if v.Selected == nil {
		return "", fmt.Errorf("no company selected")
	}
	name := fmt.Sprintf("%s_%s.md", utils.SafeFileName(v.Selected.Name), now.Format("20060102_150405"))
	return utils.WriteMarkdown(dir, name, Markdown(v.Selected, v.Quote))
}
