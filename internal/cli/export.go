package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n0roo/audit-kit/internal/export"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <framework>",
	Short: "Export a framework's responses to a file",
	Long: `Exports one framework as a report file.

Formats:
  json    framework content plus its responses (the original hand-off format)
  csv     flat per-question rows followed by a result summary block
  duckdb  the same row-sets as tables in a DuckDB database file`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "export format (json, csv, duckdb)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: <framework>-audit.<ext>)")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	s, cleanup, err := openStores()
	if err != nil {
		return err
	}
	defer cleanup()

	fw, err := s.content.Framework(args[0])
	if err != nil {
		return err
	}
	state := s.responses.State()

	path := exportOutput
	if path == "" {
		ext := string(format)
		path = fmt.Sprintf("%s-audit.%s", fw.ID, ext)
	}

	switch format {
	case export.FormatDuckDB:
		err = export.WriteDuckDB(path, export.Rows(fw, state), export.SummaryRows(fw, state))
	default:
		var f *os.File
		f, err = os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if format == export.FormatJSON {
			err = export.WriteJSON(f, fw, state)
		} else {
			err = export.WriteCSV(f, export.Rows(fw, state), export.SummaryRows(fw, state))
		}
	}
	if err != nil {
		return err
	}

	fmt.Printf("✓ Exported %s to %s\n", fw.ID, path)
	return nil
}
