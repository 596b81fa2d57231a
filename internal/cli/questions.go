package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n0roo/audit-kit/internal/content"
	"github.com/n0roo/audit-kit/internal/response"
)

var questionsCmd = &cobra.Command{
	Use:   "questions <framework> <subsection>",
	Short: "List a subsection's questions with their responses",
	Args:  cobra.ExactArgs(2),
	RunE:  runQuestions,
}

func init() {
	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(cmd *cobra.Command, args []string) error {
	s, cleanup, err := openStores()
	if err != nil {
		return err
	}
	defer cleanup()

	fw, err := s.content.Framework(args[0])
	if err != nil {
		return err
	}
	_, sub, ok := fw.FindSubSection(args[1])
	if !ok {
		return fmt.Errorf("%w: subsection %q in framework %q", content.ErrNotFound, args[1], args[0])
	}

	if jsonOut {
		type item struct {
			Index    int                       `json:"index"`
			Question content.Question          `json:"question"`
			Response response.QuestionResponse `json:"response"`
		}
		items := make([]item, 0, len(sub.Questions))
		for i, q := range sub.Questions {
			items = append(items, item{i + 1, q, s.responses.Get(sub.ID, q.ID)})
		}
		return json.NewEncoder(os.Stdout).Encode(items)
	}

	fmt.Printf("%s (%d questions)\n", sub.Title, len(sub.Questions))
	for i, q := range sub.Questions {
		r := s.responses.Get(sub.ID, q.ID)
		fmt.Printf("\n%2d. [%s] %s\n", i+1, q.Priority, q.Text)
		fmt.Printf("    %s / %s\n", r.WorkflowStatus, r.ResultStatus)
		if verbose {
			if q.Description != "" {
				fmt.Printf("    Meaning: %s\n", q.Description)
			}
			if q.EvidenceGuidance != "" {
				fmt.Printf("    Evidence: %s\n", q.EvidenceGuidance)
			}
		}
		if r.Notes != "" {
			fmt.Printf("    Notes: %s\n", r.Notes)
		}
		if r.Evidence != "" {
			fmt.Printf("    Evidence file: %s\n", r.Evidence)
		}
	}
	return nil
}
