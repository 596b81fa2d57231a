// Package export flattens one framework's content tree and response state
// into row-sets and writes them out as CSV, JSON or a DuckDB report file.
package export

import (
	"fmt"

	"github.com/n0roo/audit-kit/internal/content"
	"github.com/n0roo/audit-kit/internal/progress"
	"github.com/n0roo/audit-kit/internal/response"
)

// Row is one question with its current response, denormalized for reports.
type Row struct {
	Section    string
	SubSection string
	Control    string
	Priority   string
	Status     string
	Result     string
	Notes      string
	Evidence   string
}

// SummaryRow is one result-status bucket of a framework summary.
type SummaryRow struct {
	Status     string
	Count      int
	Total      int
	Percentage float64
}

// Rows flattens a framework into per-question rows in display order.
// Questions without a stored response get the default response.
func Rows(fw content.Framework, state response.State) []Row {
	var rows []Row
	for _, sec := range fw.Sections {
		for _, sub := range sec.SubSections {
			for _, q := range sub.Questions {
				r := response.Default()
				if stored, ok := state[sub.ID][q.ID]; ok && stored.ResultStatus.Valid() {
					r = stored
				}
				rows = append(rows, Row{
					Section:    sec.Title,
					SubSection: sub.Title,
					Control:    q.Text,
					Priority:   string(q.Priority),
					Status:     string(r.WorkflowStatus),
					Result:     string(r.ResultStatus),
					Notes:      r.Notes,
					Evidence:   r.Evidence,
				})
			}
		}
	}
	return rows
}

// SummaryRows buckets a framework's questions by result status, one row per
// status in display order.
func SummaryRows(fw content.Framework, state response.State) []SummaryRow {
	buckets := progress.Summary(fw, state)
	total := 0
	for _, n := range buckets {
		total += n
	}

	rows := make([]SummaryRow, 0, len(response.ResultStatuses()))
	for _, status := range response.ResultStatuses() {
		row := SummaryRow{Status: string(status), Count: buckets[status], Total: total}
		if total > 0 {
			row.Percentage = float64(row.Count) / float64(total) * 100
		}
		rows = append(rows, row)
	}
	return rows
}

// Format selects an export writer.
type Format string

const (
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
	FormatDuckDB Format = "duckdb"
)

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV, FormatDuckDB:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown export format %q (json, csv, duckdb)", s)
}
