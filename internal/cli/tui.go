package cli

import (
	"github.com/spf13/cobra"

	"github.com/n0roo/audit-kit/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the interactive dashboard",
	Long:  `Runs a terminal dashboard for browsing frameworks and answering questions.`,
	RunE:  runTui,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTui(cmd *cobra.Command, args []string) error {
	return tui.Run(GetDBPath())
}
