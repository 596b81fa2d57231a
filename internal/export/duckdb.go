package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb/v2"
)

const duckDBSchema = `
CREATE TABLE IF NOT EXISTS audit_rows (
    section VARCHAR,
    subsection VARCHAR,
    control VARCHAR,
    priority VARCHAR,
    status VARCHAR,
    result VARCHAR,
    notes VARCHAR,
    evidence VARCHAR
);

CREATE TABLE IF NOT EXISTS audit_summary (
    status VARCHAR PRIMARY KEY,
    count INTEGER,
    total INTEGER,
    percentage DOUBLE
);
`

// WriteDuckDB writes the row-sets into a DuckDB report file at path,
// replacing any previous report content.
func WriteDuckDB(path string, rows []Row, summary []SummaryRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("open duckdb report: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("connect duckdb report: %w", err)
	}
	if _, err := db.Exec(duckDBSchema); err != nil {
		return fmt.Errorf("apply report schema: %w", err)
	}
	if _, err := db.Exec(`DELETE FROM audit_rows; DELETE FROM audit_summary;`); err != nil {
		return fmt.Errorf("clear previous report: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin report transaction: %w", err)
	}
	defer tx.Rollback()

	insertRow, err := tx.Prepare(`INSERT INTO audit_rows VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare row insert: %w", err)
	}
	defer insertRow.Close()
	for _, r := range rows {
		if _, err := insertRow.Exec(r.Section, r.SubSection, r.Control, r.Priority, r.Status, r.Result, r.Notes, r.Evidence); err != nil {
			return fmt.Errorf("insert report row: %w", err)
		}
	}

	insertSummary, err := tx.Prepare(`INSERT INTO audit_summary VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare summary insert: %w", err)
	}
	defer insertSummary.Close()
	for _, s := range summary {
		if _, err := insertSummary.Exec(s.Status, s.Count, s.Total, s.Percentage); err != nil {
			return fmt.Errorf("insert summary row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit report: %w", err)
	}
	return nil
}
