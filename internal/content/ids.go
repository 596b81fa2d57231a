package content

import "github.com/google/uuid"

// NewQuestionID returns a fresh stable question identifier.
func NewQuestionID() string {
	return uuid.New().String()
}

// EnsureQuestionIDs assigns ids to any questions that lack one, in place.
// Reports whether anything was assigned. Seed files and payloads from older
// versions carry questions without ids; everything downstream assumes ids
// are present.
func EnsureQuestionIDs(frameworks []Framework) bool {
	changed := false
	for fi := range frameworks {
		for si := range frameworks[fi].Sections {
			for bi := range frameworks[fi].Sections[si].SubSections {
				questions := frameworks[fi].Sections[si].SubSections[bi].Questions
				for qi := range questions {
					if questions[qi].ID == "" {
						questions[qi].ID = NewQuestionID()
						changed = true
					}
				}
			}
		}
	}
	return changed
}
