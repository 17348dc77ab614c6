package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	ColorBorder = lipgloss.Color("#575653")
	ColorText   = lipgloss.Color("#FFFCF0")
	ColorAccent = lipgloss.Color("#3AA99F")
	ColorIncome = lipgloss.Color("#879A39")
	ColorSpend  = lipgloss.Color("#D14D41")
	ColorMuted  = lipgloss.Color("#6F6E69")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorText)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	valueStyle  = lipgloss.NewStyle().Foreground(ColorText)
	borderStyle = lipgloss.NewStyle().Foreground(ColorBorder)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	incomeStyle = lipgloss.NewStyle().Foreground(ColorIncome)
	spendStyle  = lipgloss.NewStyle().Foreground(ColorSpend)
)

// Separator is a row value that draws a horizontal rule.
const Separator = "---"

// Table is a bordered text table. The first column is left aligned, the rest right aligned.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTitle renders title centered in a rounded box.
func RenderTitle(title string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(48).
		Align(lipgloss.Center).
		Padding(0, 1)
	return box.Render(titleStyle.Render(title))
}

// Muted renders s in the dim text color.
func Muted(s string) string { return mutedStyle.Render(s) }

// Income and Spend color an amount by direction.
func Income(s string) string { return incomeStyle.Render(s) }
func Spend(s string) string  { return spendStyle.Render(s) }

// RenderTable draws t. Column widths follow the widest cell, measured in
// terminal cells so Chinese labels line up.
func RenderTable(t Table) string {
	cols := len(t.Headers)
	for _, r := range t.Rows {
		if len(r) > cols && !(len(r) == 1 && r[0] == Separator) {
			cols = len(r)
		}
	}
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.Headers)
	for _, r := range t.Rows {
		if len(r) == 1 && r[0] == Separator {
			continue
		}
		measure(r)
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}

	b.WriteString(rule("╭", "┬", "╮", widths))
	if len(t.Headers) > 0 {
		b.WriteString(line(t.Headers, widths, headerStyle))
		b.WriteString(rule("├", "┼", "┤", widths))
	}
	for _, r := range t.Rows {
		if len(r) == 1 && r[0] == Separator {
			b.WriteString(rule("├", "┼", "┤", widths))
			continue
		}
		b.WriteString(line(r, widths, valueStyle))
	}
	b.WriteString(rule("╰", "┴", "╯", widths))
	return b.String()
}

func rule(left, mid, right string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	return borderStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
}

func line(row []string, widths []int, style lipgloss.Style) string {
	var b strings.Builder
	b.WriteString(borderStyle.Render("│"))
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		pad := strings.Repeat(" ", w-lipgloss.Width(cell))
		if i == 0 {
			cell = cell + pad
		} else {
			cell = pad + cell
		}
		b.WriteString(style.Render(" " + cell + " "))
		b.WriteString(borderStyle.Render("│"))
	}
	b.WriteString("\n")
	return b.String()
}

// RenderShareBar draws a percentage as a bar of width cells followed by the number.
func RenderShareBar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %6.2f%%", spendStyle.Render(bar), percent)
}
