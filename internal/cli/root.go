// Package cli wires the auditkit command surface.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/n0roo/audit-kit/internal/config"
	"github.com/n0roo/audit-kit/internal/content"
	"github.com/n0roo/audit-kit/internal/db"
	"github.com/n0roo/audit-kit/internal/response"
)

var (
	dbPath  string
	verbose bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "auditkit",
	Short: "Audit checklist tracker",
	Long: `AuditKit - audit checklist tracker

Track compliance audit checklists from the terminal.

Main features:
  - Framework catalog: ISO 27001 and friends, sections down to questions
  - Responses: workflow status, compliance result, notes and evidence
  - Progress: per-subsection, per-section and per-framework completion
  - Sync: push/pull the full data set against a GitHub repository
  - Admin: content editing behind a shared secret`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.auditkit/audit.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "JSON output")
}

// GetDBPath returns the database path
func GetDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return config.DBPath()
}

// stores bundles everything a command needs against one open database.
type stores struct {
	db        *db.DB
	content   *content.Store
	responses *response.Store
}

func openStores() (*stores, func(), error) {
	database, err := db.Open(GetDBPath())
	if err != nil {
		return nil, nil, err
	}
	contentStore, err := content.NewStore(database)
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	responseStore, err := response.NewStore(database)
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	s := &stores{db: database, content: contentStore, responses: responseStore}
	return s, func() { database.Close() }, nil
}

func confirm(message string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", message)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}

func prompt(message string) string {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print(message)
	answer, _ := reader.ReadString('\n')
	return strings.TrimSpace(answer)
}
