package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset <framework>",
	Short: "Delete all responses for a framework",
	Long:  `Deletes every stored response for the framework's subsections. Content is untouched.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "skip confirmation")
}

func runReset(cmd *cobra.Command, args []string) error {
	s, cleanup, err := openStores()
	if err != nil {
		return err
	}
	defer cleanup()

	fw, err := s.content.Framework(args[0])
	if err != nil {
		return err
	}

	if !resetForce && !confirm(fmt.Sprintf("Delete ALL responses for %s?", fw.Title)) {
		fmt.Println("Cancelled")
		return nil
	}

	s.responses.DeleteSubSections(fw.SubSectionIDs())
	fmt.Printf("✓ Responses reset: %s\n", fw.ID)
	return nil
}
