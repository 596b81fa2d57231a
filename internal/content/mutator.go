package content

import (
	"fmt"
	"strings"
)

// Mutator applies admin edits to the content tree. Every operation works on
// a structural copy and commits through Store.Replace, so readers holding
// the previous tree never observe in-place changes. Delete operations
// return the response-store keys they orphan so the caller can cascade.
type Mutator struct {
	store *Store
}

// NewMutator creates a mutator over the given store.
func NewMutator(store *Store) *Mutator {
	return &Mutator{store: store}
}

// FrameworkInput carries framework create/edit fields. On edit, empty
// fields keep their current value.
type FrameworkInput struct {
	Title       string
	Description string
	Icon        string
}

// SectionInput carries section create/edit fields.
type SectionInput struct {
	Title       string
	Description string
	Color       string
	Icon        string
}

// SubSectionInput carries subsection create/edit fields.
type SubSectionInput struct {
	Title       string
	Description string
}

func requireTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title must not be blank", ErrValidation)
	}
	return nil
}

// AddFramework creates a framework with a slug id derived from the title,
// suffixed on collision.
func (m *Mutator) AddFramework(input FrameworkInput) (Framework, error) {
	if err := requireTitle(input.Title); err != nil {
		return Framework{}, err
	}

	frameworks := CloneAll(m.store.Frameworks())
	id := uniqueID(Slugify(input.Title), func(candidate string) bool {
		for _, fw := range frameworks {
			if fw.ID == candidate {
				return true
			}
		}
		return false
	})

	fw := Framework{
		ID:          id,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Icon:        input.Icon,
		Sections:    []Section{},
	}
	frameworks = append(frameworks, fw)
	m.store.Replace(frameworks)
	return fw, nil
}

// EditFramework merges input into the framework. The id and section list
// are immutable here.
func (m *Mutator) EditFramework(id string, input FrameworkInput) (Framework, error) {
	frameworks := CloneAll(m.store.Frameworks())
	for i := range frameworks {
		if frameworks[i].ID != id {
			continue
		}
		if strings.TrimSpace(input.Title) != "" {
			frameworks[i].Title = strings.TrimSpace(input.Title)
		}
		if input.Description != "" {
			frameworks[i].Description = input.Description
		}
		if input.Icon != "" {
			frameworks[i].Icon = input.Icon
		}
		m.store.Replace(frameworks)
		return frameworks[i], nil
	}
	return Framework{}, fmt.Errorf("framework %q: %w", id, ErrNotFound)
}

// DeleteFramework removes the framework and returns the subsection ids it
// owned, for response cascade.
func (m *Mutator) DeleteFramework(id string) ([]string, error) {
	frameworks := CloneAll(m.store.Frameworks())
	for i := range frameworks {
		if frameworks[i].ID != id {
			continue
		}
		orphaned := frameworks[i].SubSectionIDs()
		frameworks = append(frameworks[:i], frameworks[i+1:]...)
		m.store.Replace(frameworks)
		return orphaned, nil
	}
	return nil, fmt.Errorf("framework %q: %w", id, ErrNotFound)
}

// AddSection appends a section to the framework. The id combines the title
// slug with a timestamp to keep re-created titles from colliding.
func (m *Mutator) AddSection(frameworkID string, input SectionInput) (Section, error) {
	if err := requireTitle(input.Title); err != nil {
		return Section{}, err
	}

	frameworks := CloneAll(m.store.Frameworks())
	fw := findFramework(frameworks, frameworkID)
	if fw == nil {
		return Section{}, fmt.Errorf("framework %q: %w", frameworkID, ErrNotFound)
	}

	id := childID(input.Title, func(candidate string) bool {
		_, ok := fw.FindSection(candidate)
		return ok
	})
	sec := Section{
		ID:          id,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Color:       input.Color,
		Icon:        input.Icon,
		SubSections: []SubSection{},
	}
	fw.Sections = append(fw.Sections, sec)
	m.store.Replace(frameworks)
	return sec, nil
}

// EditSection merges input into the section.
func (m *Mutator) EditSection(frameworkID, sectionID string, input SectionInput) (Section, error) {
	frameworks := CloneAll(m.store.Frameworks())
	sec, err := findSection(frameworks, frameworkID, sectionID)
	if err != nil {
		return Section{}, err
	}
	if strings.TrimSpace(input.Title) != "" {
		sec.Title = strings.TrimSpace(input.Title)
	}
	if input.Description != "" {
		sec.Description = input.Description
	}
	if input.Color != "" {
		sec.Color = input.Color
	}
	if input.Icon != "" {
		sec.Icon = input.Icon
	}
	m.store.Replace(frameworks)
	return *sec, nil
}

// DeleteSection removes the section and returns its subsection ids.
func (m *Mutator) DeleteSection(frameworkID, sectionID string) ([]string, error) {
	frameworks := CloneAll(m.store.Frameworks())
	fw := findFramework(frameworks, frameworkID)
	if fw == nil {
		return nil, fmt.Errorf("framework %q: %w", frameworkID, ErrNotFound)
	}
	for i := range fw.Sections {
		if fw.Sections[i].ID != sectionID {
			continue
		}
		var orphaned []string
		for _, sub := range fw.Sections[i].SubSections {
			orphaned = append(orphaned, sub.ID)
		}
		fw.Sections = append(fw.Sections[:i], fw.Sections[i+1:]...)
		m.store.Replace(frameworks)
		return orphaned, nil
	}
	return nil, fmt.Errorf("section %q: %w", sectionID, ErrNotFound)
}

// AddSubSection appends a subsection to the section.
func (m *Mutator) AddSubSection(frameworkID, sectionID string, input SubSectionInput) (SubSection, error) {
	if err := requireTitle(input.Title); err != nil {
		return SubSection{}, err
	}

	frameworks := CloneAll(m.store.Frameworks())
	sec, err := findSection(frameworks, frameworkID, sectionID)
	if err != nil {
		return SubSection{}, err
	}

	id := childID(input.Title, func(candidate string) bool {
		for _, sub := range sec.SubSections {
			if sub.ID == candidate {
				return true
			}
		}
		return false
	})
	sub := SubSection{
		ID:          id,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Questions:   []Question{},
	}
	sec.SubSections = append(sec.SubSections, sub)
	m.store.Replace(frameworks)
	return sub, nil
}

// EditSubSection merges input into the subsection.
func (m *Mutator) EditSubSection(frameworkID, sectionID, subSectionID string, input SubSectionInput) (SubSection, error) {
	frameworks := CloneAll(m.store.Frameworks())
	sub, err := findSubSection(frameworks, frameworkID, sectionID, subSectionID)
	if err != nil {
		return SubSection{}, err
	}
	if strings.TrimSpace(input.Title) != "" {
		sub.Title = strings.TrimSpace(input.Title)
	}
	if input.Description != "" {
		sub.Description = input.Description
	}
	m.store.Replace(frameworks)
	return *sub, nil
}

// DeleteSubSection removes the subsection and returns its id for response
// cascade.
func (m *Mutator) DeleteSubSection(frameworkID, sectionID, subSectionID string) (string, error) {
	frameworks := CloneAll(m.store.Frameworks())
	sec, err := findSection(frameworks, frameworkID, sectionID)
	if err != nil {
		return "", err
	}
	for i := range sec.SubSections {
		if sec.SubSections[i].ID != subSectionID {
			continue
		}
		sec.SubSections = append(sec.SubSections[:i], sec.SubSections[i+1:]...)
		m.store.Replace(frameworks)
		return subSectionID, nil
	}
	return "", fmt.Errorf("subsection %q: %w", subSectionID, ErrNotFound)
}

// AddQuestion appends a default question with a fresh stable id.
func (m *Mutator) AddQuestion(frameworkID, sectionID, subSectionID string) (Question, error) {
	frameworks := CloneAll(m.store.Frameworks())
	sub, err := findSubSection(frameworks, frameworkID, sectionID, subSectionID)
	if err != nil {
		return Question{}, err
	}
	q := Question{
		ID:               NewQuestionID(),
		Text:             "New Question",
		Priority:         PriorityOptional,
		Description:      "Meaning:\nDescribe what the assessor is verifying with this control.",
		EvidenceGuidance: "What to Show / Evidence:\nList the documents or records that demonstrate this control.",
	}
	sub.Questions = append(sub.Questions, q)
	m.store.Replace(frameworks)
	return q, nil
}

// EditQuestion replaces the question at index, keeping its id. Response
// history for the question is untouched: text and priority edits are
// independent of recorded answers.
func (m *Mutator) EditQuestion(frameworkID, sectionID, subSectionID string, index int, updated Question) (Question, error) {
	if err := requireTitle(updated.Text); err != nil {
		return Question{}, err
	}
	frameworks := CloneAll(m.store.Frameworks())
	sub, err := findSubSection(frameworks, frameworkID, sectionID, subSectionID)
	if err != nil {
		return Question{}, err
	}
	if index < 0 || index >= len(sub.Questions) {
		return Question{}, fmt.Errorf("question index %d: %w", index, ErrNotFound)
	}
	updated.ID = sub.Questions[index].ID
	sub.Questions[index] = updated
	m.store.Replace(frameworks)
	return updated, nil
}

// DeleteQuestion removes the question at index and returns its id. Stable
// ids mean the remaining questions keep their recorded responses.
func (m *Mutator) DeleteQuestion(frameworkID, sectionID, subSectionID string, index int) (string, error) {
	frameworks := CloneAll(m.store.Frameworks())
	sub, err := findSubSection(frameworks, frameworkID, sectionID, subSectionID)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(sub.Questions) {
		return "", fmt.Errorf("question index %d: %w", index, ErrNotFound)
	}
	removed := sub.Questions[index].ID
	sub.Questions = append(sub.Questions[:index], sub.Questions[index+1:]...)
	m.store.Replace(frameworks)
	return removed, nil
}

func findFramework(frameworks []Framework, id string) *Framework {
	for i := range frameworks {
		if frameworks[i].ID == id {
			return &frameworks[i]
		}
	}
	return nil
}

func findSection(frameworks []Framework, frameworkID, sectionID string) (*Section, error) {
	fw := findFramework(frameworks, frameworkID)
	if fw == nil {
		return nil, fmt.Errorf("framework %q: %w", frameworkID, ErrNotFound)
	}
	for i := range fw.Sections {
		if fw.Sections[i].ID == sectionID {
			return &fw.Sections[i], nil
		}
	}
	return nil, fmt.Errorf("section %q: %w", sectionID, ErrNotFound)
}

func findSubSection(frameworks []Framework, frameworkID, sectionID, subSectionID string) (*SubSection, error) {
	sec, err := findSection(frameworks, frameworkID, sectionID)
	if err != nil {
		return nil, err
	}
	for i := range sec.SubSections {
		if sec.SubSections[i].ID == subSectionID {
			return &sec.SubSections[i], nil
		}
	}
	return nil, fmt.Errorf("subsection %q: %w", subSectionID, ErrNotFound)
}
