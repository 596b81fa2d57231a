package response

import "fmt"

// WorkflowStatus tracks where a question sits in the audit workflow
type WorkflowStatus string

const (
	WorkflowTodo       WorkflowStatus = "To do"
	WorkflowInProgress WorkflowStatus = "In Progress"
	WorkflowDone       WorkflowStatus = "Done"
)

// WorkflowStatuses returns all workflow statuses in display order
func WorkflowStatuses() []WorkflowStatus {
	return []WorkflowStatus{WorkflowTodo, WorkflowInProgress, WorkflowDone}
}

// ParseWorkflowStatus validates a workflow status string
func ParseWorkflowStatus(s string) (WorkflowStatus, error) {
	switch WorkflowStatus(s) {
	case WorkflowTodo, WorkflowInProgress, WorkflowDone:
		return WorkflowStatus(s), nil
	}
	return "", fmt.Errorf("unknown workflow status %q", s)
}

// ResultStatus is one of the five fixed compliance buckets
type ResultStatus string

const (
	ResultNotAssessed        ResultStatus = "Not assessed"
	ResultCompliant          ResultStatus = "Compliant"
	ResultPartiallyCompliant ResultStatus = "Partially Compliant"
	ResultNonCompliant       ResultStatus = "Non-Compliant"
	ResultNotApplicable      ResultStatus = "Not Applicable"
)

// ResultStatuses returns the five compliance buckets in display order
func ResultStatuses() []ResultStatus {
	return []ResultStatus{
		ResultCompliant,
		ResultPartiallyCompliant,
		ResultNonCompliant,
		ResultNotApplicable,
		ResultNotAssessed,
	}
}

// ParseResultStatus validates a result status string
func ParseResultStatus(s string) (ResultStatus, error) {
	switch ResultStatus(s) {
	case ResultNotAssessed, ResultCompliant, ResultPartiallyCompliant,
		ResultNonCompliant, ResultNotApplicable:
		return ResultStatus(s), nil
	}
	return "", fmt.Errorf("unknown result status %q", s)
}

// Valid reports whether s is one of the five buckets.
func (s ResultStatus) Valid() bool {
	_, err := ParseResultStatus(string(s))
	return err == nil
}

// Answered reports whether this status counts toward progress.
func (s ResultStatus) Answered() bool {
	return s.Valid() && s != ResultNotAssessed
}

// QuestionResponse is the recorded answer for one question
type QuestionResponse struct {
	WorkflowStatus WorkflowStatus `json:"workflowStatus"`
	ResultStatus   ResultStatus   `json:"resultStatus"`
	Notes          string         `json:"notes"`
	Evidence       string         `json:"evidence"`
}

// Default is the response assumed for any question with no recorded entry.
func Default() QuestionResponse {
	return QuestionResponse{
		WorkflowStatus: WorkflowTodo,
		ResultStatus:   ResultNotAssessed,
	}
}

// SubSectionResponse maps stable question id to its response
type SubSectionResponse map[string]QuestionResponse

// State maps subsection id to its responses. Entries may outlive their
// subsection (a framework deleted with --keep-responses); consumers filter
// by the current content tree.
type State map[string]SubSectionResponse

// Clone deep-copies the state.
func (s State) Clone() State {
	out := make(State, len(s))
	for subID, responses := range s {
		cloned := make(SubSectionResponse, len(responses))
		for qID, r := range responses {
			cloned[qID] = r
		}
		out[subID] = cloned
	}
	return out
}
