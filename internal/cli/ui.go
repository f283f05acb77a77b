package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/dyike/CreditIntel/internal/display"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#059669")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#059669")).
			Padding(0, 2).
			MarginBottom(1)

	taglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Width(22)

	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
)

// displayTable prints rows under headers with a plain border.
func displayTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.String())
}

func DisplayWelcomeBanner(w io.Writer, baseURL string) {
	fmt.Fprintln(w, bannerStyle.Render(display.Title))
	fmt.Fprintln(w, taglineStyle.Render("Reading scores from "+baseURL))
	fmt.Fprintln(w)
}

func DisplaySuccess(w io.Writer, msg string) { fmt.Fprintln(w, successStyle.Render("✅ "+msg)) }
func DisplayInfo(w io.Writer, msg string)    { fmt.Fprintln(w, infoStyle.Render("ℹ️  "+msg)) }
func DisplayWarning(w io.Writer, msg string) { fmt.Fprintln(w, warningStyle.Render("⚠️  "+msg)) }
func DisplayError(w io.Writer, msg string)   { fmt.Fprintln(w, errorStyle.Render("❌ "+msg)) }

// displayKeyValue prints an aligned "key value" line.
func displayKeyValue(w io.Writer, key string, value any) {
	fmt.Fprintf(w, "%s %v\n", keyStyle.Render(key), value)
}

// ClearScreen clears the terminal screen
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[2J\033[H")
}

// terminalWidth returns the stdout width, or fallback when stdout is not a terminal.
func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fallback
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
