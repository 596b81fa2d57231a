package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/n0roo/audit-kit/internal/content"
	"github.com/n0roo/audit-kit/internal/response"
)

var (
	answerWorkflow string
	answerResult   string
	answerNotes    string
	answerEvidence string
)

var answerCmd = &cobra.Command{
	Use:   "answer <framework> <subsection> <question>",
	Short: "Record a response to a question",
	Long: `Records workflow status, compliance result, notes and evidence for one
question. The question is addressed by its 1-based position within the
subsection or by its id. Flags that are not given leave the stored value
unchanged.`,
	Args: cobra.ExactArgs(3),
	RunE: runAnswer,
}

func init() {
	rootCmd.AddCommand(answerCmd)
	answerCmd.Flags().StringVar(&answerWorkflow, "workflow", "", "workflow status (To do, In Progress, Done)")
	answerCmd.Flags().StringVar(&answerResult, "result", "", "compliance result (Not assessed, Compliant, Partially Compliant, Non-Compliant, Not Applicable)")
	answerCmd.Flags().StringVar(&answerNotes, "notes", "", "free-form notes")
	answerCmd.Flags().StringVar(&answerEvidence, "evidence", "", "evidence file reference")
}

// resolveQuestion accepts a 1-based position or a question id.
func resolveQuestion(sub content.SubSection, ref string) (content.Question, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(sub.Questions) {
			return content.Question{}, fmt.Errorf("question %d out of range (1-%d)", n, len(sub.Questions))
		}
		return sub.Questions[n-1], nil
	}
	for _, q := range sub.Questions {
		if q.ID == ref {
			return q, nil
		}
	}
	return content.Question{}, fmt.Errorf("%w: question %q", content.ErrNotFound, ref)
}

func runAnswer(cmd *cobra.Command, args []string) error {
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
	q, err := resolveQuestion(sub, args[2])
	if err != nil {
		return err
	}

	r := s.responses.Get(sub.ID, q.ID)
	if answerWorkflow != "" {
		status, err := response.ParseWorkflowStatus(answerWorkflow)
		if err != nil {
			return err
		}
		r.WorkflowStatus = status
	}
	if answerResult != "" {
		status, err := response.ParseResultStatus(answerResult)
		if err != nil {
			return err
		}
		r.ResultStatus = status
	}
	if cmd.Flags().Changed("notes") {
		r.Notes = answerNotes
	}
	if cmd.Flags().Changed("evidence") {
		r.Evidence = answerEvidence
	}

	s.responses.Set(sub.ID, q.ID, r)
	fmt.Printf("✓ %s: %s / %s\n", q.Text, r.WorkflowStatus, r.ResultStatus)
	return nil
}
