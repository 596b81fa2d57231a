// Package progress computes answered/total counts and the compliance
// histogram over a content tree and a response state. Everything here is a
// pure function: inputs are never mutated, results are recomputed from
// scratch on every call, and a full framework pass is O(questions).
package progress

import (
	"github.com/n0roo/audit-kit/internal/content"
	"github.com/n0roo/audit-kit/internal/response"
)

// Count is an answered/total pair for one node of the content tree.
type Count struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

// Add sums two counts.
func (c Count) Add(other Count) Count {
	return Count{Answered: c.Answered + other.Answered, Total: c.Total + other.Total}
}

// Percent returns completion as 0-100. A node with no questions is 0%.
func (c Count) Percent() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Answered) / float64(c.Total) * 100
}

// SubSection counts a subsection's questions. A question is answered when
// its recorded result status is anything other than "Not assessed"; a
// missing entry defaults to unanswered. Iteration goes over the question
// list, so response entries for questions (or subsections) that no longer
// exist are never counted.
func SubSection(sub content.SubSection, state response.State) Count {
	count := Count{Total: len(sub.Questions)}
	responses := state[sub.ID]
	for _, q := range sub.Questions {
		if r, ok := responses[q.ID]; ok && r.ResultStatus.Answered() {
			count.Answered++
		}
	}
	return count
}

// Section sums its subsections.
func Section(sec content.Section, state response.State) Count {
	var count Count
	for _, sub := range sec.SubSections {
		count = count.Add(SubSection(sub, state))
	}
	return count
}

// Framework sums its sections.
func Framework(fw content.Framework, state response.State) Count {
	var count Count
	for _, sec := range fw.Sections {
		count = count.Add(Section(sec, state))
	}
	return count
}

// AllFrameworks computes every framework's count independently, for the
// selection screen where all progress bars render at once.
func AllFrameworks(frameworks []content.Framework, state response.State) map[string]Count {
	counts := make(map[string]Count, len(frameworks))
	for _, fw := range frameworks {
		counts[fw.ID] = Framework(fw, state)
	}
	return counts
}

// Summary buckets every question in the framework into the five fixed
// result statuses. Buckets always sum to Framework(fw, state).Total:
// missing or unrecognized statuses land in "Not assessed".
func Summary(fw content.Framework, state response.State) map[response.ResultStatus]int {
	summary := make(map[response.ResultStatus]int, 5)
	for _, status := range response.ResultStatuses() {
		summary[status] = 0
	}
	for _, sec := range fw.Sections {
		for _, sub := range sec.SubSections {
			responses := state[sub.ID]
			for _, q := range sub.Questions {
				status := response.ResultNotAssessed
				if r, ok := responses[q.ID]; ok && r.ResultStatus.Valid() {
					status = r.ResultStatus
				}
				summary[status]++
			}
		}
	}
	return summary
}
