package content

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed/*.yaml
var seedFS embed.FS

// Seed files in display order.
var seedFiles = []string{
	"seed/iso-27001.yaml",
	"seed/soc-2.yaml",
	"seed/pci-dss.yaml",
}

const (
	genericDescription = "Meaning:\nThe assessor is asking whether the organization has a formal, documented process or control for this item. This involves verifying that a standardized approach exists and is followed consistently."
	genericEvidence    = "What to Show / Evidence:\nProvide relevant policy documents, procedure manuals, system configuration screenshots, or audit logs that demonstrate the implementation and operation of this control."
)

// SeedFrameworks parses the embedded question bank. Seed questions may omit
// priority and guidance text; priorities are assigned cyclically and blank
// guidance gets generic text, the same enrichment rules the bank was
// authored against.
func SeedFrameworks() ([]Framework, error) {
	var frameworks []Framework
	for _, name := range seedFiles {
		data, err := seedFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read seed %s: %w", name, err)
		}
		var fw Framework
		if err := yaml.Unmarshal(data, &fw); err != nil {
			return nil, fmt.Errorf("parse seed %s: %w", name, err)
		}
		enrichFramework(&fw)
		frameworks = append(frameworks, fw)
	}
	EnsureQuestionIDs(frameworks)
	return frameworks, nil
}

func enrichFramework(fw *Framework) {
	priorities := Priorities()
	for si := range fw.Sections {
		for bi := range fw.Sections[si].SubSections {
			questions := fw.Sections[si].SubSections[bi].Questions
			for qi := range questions {
				if questions[qi].Priority == "" {
					questions[qi].Priority = priorities[qi%len(priorities)]
				}
				if questions[qi].Description == "" {
					questions[qi].Description = genericDescription
				}
				if questions[qi].EvidenceGuidance == "" {
					questions[qi].EvidenceGuidance = genericEvidence
				}
			}
		}
	}
}
