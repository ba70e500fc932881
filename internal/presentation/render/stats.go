package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/clauderank/claude-rank/internal/core/model"
)

// StatsTable renders the daily activity table: one row per stored day, with
// aggregate counters and the ledger's XP results.
type StatsTable struct {
	headers []string
}

func NewStatsTable() *StatsTable {
	return &StatsTable{
		headers: []string{
			"Date", "Sessions", "Messages", "Tools", "Commits", "Raw XP", "Mult", "Final XP",
		},
	}
}

// Format prints aggregates joined with their ledger entries. Both slices are
// date-ascending; dates without a ledger row render with zero XP.
func (f *StatsTable) Format(w io.Writer, aggs []*model.DailyAggregate, ledger []*model.XPLedgerEntry) {
	entries := make(map[string]*model.XPLedgerEntry, len(ledger))
	for _, entry := range ledger {
		entries[entry.Date] = entry
	}

	rows := make([][]string, 0, len(aggs))
	var totalSessions, totalMessages, totalTools, totalCommits, totalXP int
	for _, agg := range aggs {
		raw, final := 0, 0
		mult := "-"
		if entry, ok := entries[agg.Date]; ok {
			raw = entry.RawXP
			final = entry.FinalXP
			mult = fmt.Sprintf("%.2fx", entry.Multiplier)
		}
		rows = append(rows, []string{
			agg.Date,
			formatNumber(agg.SessionCount),
			formatNumber(agg.MessageCount),
			formatNumber(agg.ToolCallCount),
			formatNumber(agg.CommitCount),
			formatNumber(raw),
			mult,
			formatNumber(final),
		})
		totalSessions += agg.SessionCount
		totalMessages += agg.MessageCount
		totalTools += agg.ToolCallCount
		totalCommits += agg.CommitCount
		totalXP += final
	}
	totalRow := []string{
		"Total",
		formatNumber(totalSessions),
		formatNumber(totalMessages),
		formatNumber(totalTools),
		formatNumber(totalCommits),
		"",
		"",
		formatNumber(totalXP),
	}

	widths := f.columnWidths(rows, totalRow)
	f.printBorder(w, widths, "top")
	f.printRow(w, f.headers, widths)
	f.printBorder(w, widths, "middle")
	for _, row := range rows {
		f.printRow(w, row, widths)
	}
	f.printBorder(w, widths, "middle")
	f.printRow(w, totalRow, widths)
	f.printBorder(w, widths, "bottom")
}

// columnWidths determines optimal width for each column based on content
func (f *StatsTable) columnWidths(rows [][]string, totalRow []string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = len(header)
	}
	check := func(row []string) {
		for i, value := range row {
			if len(value) > widths[i] {
				widths[i] = len(value)
			}
		}
	}
	for _, row := range rows {
		check(row)
	}
	check(totalRow)
	return widths
}

func (f *StatsTable) printBorder(w io.Writer, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	fmt.Fprint(w, left)
	for i, width := range widths {
		fmt.Fprint(w, strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			fmt.Fprint(w, middle)
		}
	}
	fmt.Fprintln(w, right)
}

func (f *StatsTable) printRow(w io.Writer, values []string, widths []int) {
	fmt.Fprint(w, "│")
	for i, value := range values {
		if i == 0 {
			// Date column is left-aligned, numeric columns right-aligned
			fmt.Fprintf(w, " %-*s │", widths[i], value)
		} else {
			fmt.Fprintf(w, " %*s │", widths[i], value)
		}
	}
	fmt.Fprintln(w)
}
