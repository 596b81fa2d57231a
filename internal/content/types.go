package content

import (
	"errors"
	"fmt"
)

// Errors returned by content lookups and mutations.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// Priority is a question's audit priority
type Priority string

const (
	PriorityEssential Priority = "Essential"
	PriorityAdvanced  Priority = "Advanced"
	PriorityOptional  Priority = "Optional"
)

// Priorities returns all priorities in display order
func Priorities() []Priority {
	return []Priority{PriorityEssential, PriorityAdvanced, PriorityOptional}
}

// ParsePriority validates a priority string
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityEssential, PriorityAdvanced, PriorityOptional:
		return Priority(s), nil
	}
	return "", fmt.Errorf("%w: unknown priority %q", ErrValidation, s)
}

// Question is a single auditable control. ID is assigned at creation and
// immutable thereafter; responses are keyed by it.
type Question struct {
	ID               string   `json:"id" yaml:"id,omitempty"`
	Text             string   `json:"text" yaml:"text"`
	Priority         Priority `json:"priority" yaml:"priority,omitempty"`
	Description      string   `json:"description" yaml:"description,omitempty"`
	EvidenceGuidance string   `json:"evidenceGuidance" yaml:"evidence_guidance,omitempty"`
}

// SubSection groups related questions. Question order is display order only;
// nothing semantic hangs off it.
type SubSection struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Questions   []Question `json:"questions" yaml:"questions"`
}

// Section groups related subsections within a framework. Icon holds a
// registry name, never a display handle.
type Section struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description" yaml:"description,omitempty"`
	Color       string       `json:"color" yaml:"color,omitempty"`
	Icon        string       `json:"iconName" yaml:"icon,omitempty"`
	SubSections []SubSection `json:"subSections" yaml:"sub_sections"`
}

// Framework is the root of one audit standard's content tree.
type Framework struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description,omitempty"`
	Icon        string    `json:"iconName" yaml:"icon,omitempty"`
	Sections    []Section `json:"sections" yaml:"sections"`
}

// Clone returns a deep copy of the framework.
func (f Framework) Clone() Framework {
	out := f
	out.Sections = make([]Section, len(f.Sections))
	for i, sec := range f.Sections {
		out.Sections[i] = sec.Clone()
	}
	return out
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	out := s
	out.SubSections = make([]SubSection, len(s.SubSections))
	for i, sub := range s.SubSections {
		out.SubSections[i] = sub.Clone()
	}
	return out
}

// Clone returns a deep copy of the subsection.
func (s SubSection) Clone() SubSection {
	out := s
	out.Questions = make([]Question, len(s.Questions))
	copy(out.Questions, s.Questions)
	return out
}

// CloneAll deep-copies a framework list.
func CloneAll(frameworks []Framework) []Framework {
	out := make([]Framework, len(frameworks))
	for i, fw := range frameworks {
		out[i] = fw.Clone()
	}
	return out
}

// SubSectionIDs returns the ids of every subsection in the framework.
func (f Framework) SubSectionIDs() []string {
	var ids []string
	for _, sec := range f.Sections {
		for _, sub := range sec.SubSections {
			ids = append(ids, sub.ID)
		}
	}
	return ids
}

// FindSection returns the section with the given id.
func (f Framework) FindSection(id string) (Section, bool) {
	for _, sec := range f.Sections {
		if sec.ID == id {
			return sec, true
		}
	}
	return Section{}, false
}

// FindSubSection returns the subsection with the given id in any section.
func (f Framework) FindSubSection(id string) (Section, SubSection, bool) {
	for _, sec := range f.Sections {
		for _, sub := range sec.SubSections {
			if sub.ID == id {
				return sec, sub, true
			}
		}
	}
	return Section{}, SubSection{}, false
}
