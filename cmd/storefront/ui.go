package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/storefront/internal/catalog"
	"github.com/iliyamo/storefront/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	priceStyle   = lipgloss.NewStyle().Bold(true)
)

// ui writes styled output. Results go to out, notices and errors to errOut.
type ui struct {
	out    io.Writer
	errOut io.Writer
}

func (u ui) title(s string) { fmt.Fprintln(u.out, titleStyle.Render(s)) }

func (u ui) line(format string, args ...any) { fmt.Fprintf(u.out, format+"\n", args...) }

func (u ui) success(format string, args ...any) {
	fmt.Fprintln(u.out, successStyle.Render(fmt.Sprintf(format, args...)))
}

func (u ui) muted(format string, args ...any) {
	fmt.Fprintln(u.out, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

func (u ui) warn(format string, args ...any) {
	fmt.Fprintln(u.errOut, warnStyle.Render(fmt.Sprintf(format, args...)))
}

func (u ui) fail(format string, args ...any) {
	fmt.Fprintln(u.errOut, errorStyle.Render(fmt.Sprintf(format, args...)))
}

func (u ui) table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(u.out, t.Render())
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// stockBadge is the storefront's stock label for p.
func stockBadge(p model.Product) string {
	switch catalog.Level(p) {
	case catalog.OutOfStock:
		return "Out of Stock"
	case catalog.LowStock:
		return fmt.Sprintf("Only %d left", p.Stock)
	default:
		return fmt.Sprintf("In Stock (%d)", p.Stock)
	}
}

func productRows(products []model.Product) [][]string {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{p.ID, p.Name, p.Category, money(p.Price), stockBadge(p)})
	}
	return rows
}
