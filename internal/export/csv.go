package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{"Section", "Subsection", "Control", "Priority", "Status", "Result", "Notes", "Evidence"}

// WriteCSV writes the per-question rows followed by a blank line and the
// summary block, matching the original spreadsheet hand-off format.
func WriteCSV(w io.Writer, rows []Row, summary []SummaryRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{r.Section, r.SubSection, r.Control, r.Priority, r.Status, r.Result, r.Notes, r.Evidence}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	if err := cw.Write([]string{}); err != nil {
		return fmt.Errorf("write csv separator: %w", err)
	}
	if err := cw.Write([]string{"Status", "Count", "Total", "Percentage"}); err != nil {
		return fmt.Errorf("write csv summary header: %w", err)
	}
	for _, s := range summary {
		record := []string{
			s.Status,
			strconv.Itoa(s.Count),
			strconv.Itoa(s.Total),
			strconv.FormatFloat(s.Percentage, 'f', 1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv summary row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
