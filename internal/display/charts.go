package display

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dyike/CreditIntel/internal/dataflows"
	"github.com/dyike/CreditIntel/internal/models"
)

const (
	trendRows     = 11 // one row per 10 points on the fixed 0-100 axis
	trendAxisPad  = "    "
	barFilledRune = "█"
	barEmptyRune  = "░"
)

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// bar renders value (0-100) as width cells, filled cells styled with fill.
func bar(value float64, width int, fill lipgloss.Style) string {
	filled := int(math.Round(clampPercent(value) / 100 * float64(width)))
	return fill.Render(strings.Repeat(barFilledRune, filled)) +
		mutedStyle.Render(strings.Repeat(barEmptyRune, width-filled))
}

// SentimentBars draws a positive and a negative bar per category.
func SentimentBars(items []models.SentimentBreakdown, barWidth int) []string {
	if len(items) == 0 {
		return []string{mutedStyle.Render("No sentiment data available.")}
	}

	labelWidth := 0
	for _, it := range items {
		labelWidth = max(labelWidth, lipgloss.Width(it.Category))
	}

	lines := make([]string, 0, len(items)*2+1)
	for _, it := range items {
		label := lipgloss.NewStyle().Width(labelWidth).Render(it.Category)
		blank := strings.Repeat(" ", labelWidth)
		lines = append(lines,
			fmt.Sprintf("%s + %s %s", label, bar(it.Positive, barWidth, positiveStyle), formatPercent(it.Positive)),
			fmt.Sprintf("%s - %s %s", blank, bar(it.Negative, barWidth, negativeStyle), formatPercent(it.Negative)),
		)
	}
	lines = append(lines, positiveStyle.Render(barFilledRune)+" Positive  "+negativeStyle.Render(barFilledRune)+" Negative")
	return lines
}

func formatPercent(v float64) string {
	return dataflows.FormatFixed(v, 0) + "%"
}

// trendRow maps a score onto the chart grid; row 0 is 100, the last row is 0.
func trendRow(score float64) int {
	return int(math.Round((100 - clampPercent(score)) / 100 * float64(trendRows-1)))
}

// TrendChart plots scores as a line on a fixed 0-100 axis, one column block
// per month, with the month and its one-decimal value underneath.
func TrendChart(points []models.TrendPoint, colWidth int) []string {
	if len(points) == 0 {
		return []string{mutedStyle.Render("No trend data available.")}
	}
	if colWidth < 5 {
		colWidth = 5
	}

	width := len(points) * colWidth
	grid := make([][]rune, trendRows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}

	col := func(i int) int { return i*colWidth + colWidth/2 }

	for i := 0; i+1 < len(points); i++ {
		c0, c1 := col(i), col(i+1)
		r0, r1 := trendRow(points[i].Score), trendRow(points[i+1].Score)
		for c := c0 + 1; c < c1; c++ {
			frac := float64(c-c0) / float64(c1-c0)
			r := int(math.Round(float64(r0) + float64(r1-r0)*frac))
			grid[r][c] = '·'
		}
	}
	for i, p := range points {
		grid[trendRow(p.Score)][col(i)] = '●'
	}

	lines := make([]string, 0, trendRows+3)
	for r, row := range grid {
		axis := trendAxisPad + "│"
		if r%2 == 0 {
			axis = fmt.Sprintf("%3d ┤", 100-r*10)
		}
		lines = append(lines, mutedStyle.Render(axis)+trendStyle.Render(string(row)))
	}
	lines = append(lines, mutedStyle.Render(trendAxisPad+"└"+strings.Repeat("─", width)))

	var months, values strings.Builder
	for _, p := range points {
		months.WriteString(lipgloss.PlaceHorizontal(colWidth, lipgloss.Center, p.Month))
		values.WriteString(lipgloss.PlaceHorizontal(colWidth, lipgloss.Center, dataflows.FormatFixed(p.Score, 1)))
	}
	lines = append(lines, trendAxisPad+" "+months.String(), trendAxisPad+" "+mutedStyle.Render(values.String()))
	return lines
}
