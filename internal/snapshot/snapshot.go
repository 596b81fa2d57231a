// Package snapshot defines the plain-data form of the combined
// content+responses state, used both for the remote sync payload and for
// import/export files. Decoding normalizes payloads from older versions:
// unknown icon names fall back, questions without ids get them, and
// responses keyed positionally (q0, q1, ...) are re-keyed to stable ids.
package snapshot

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/n0roo/audit-kit/internal/content"
	"github.com/n0roo/audit-kit/internal/icon"
	"github.com/n0roo/audit-kit/internal/response"
)

// Payload is the complete serializable snapshot.
type Payload struct {
	Frameworks []content.Framework `json:"frameworks"`
	Responses  response.State      `json:"responses"`
}

// Encode marshals a normalized payload. The caller's trees are copied
// before normalization, never touched.
func Encode(p Payload) ([]byte, error) {
	p.Frameworks = content.CloneAll(p.Frameworks)
	p.Responses = p.Responses.Clone()
	Normalize(&p)
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses and normalizes a payload. Both top-level keys must be
// present; anything else aborts with no partial result.
func Decode(data []byte) (Payload, error) {
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(data, &shape); err != nil {
		return Payload{}, fmt.Errorf("parse snapshot: %w", err)
	}
	for _, key := range []string{"frameworks", "responses"} {
		if _, ok := shape[key]; !ok {
			return Payload{}, fmt.Errorf("parse snapshot: missing %q key", key)
		}
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("parse snapshot: %w", err)
	}
	Normalize(&p)
	return p, nil
}

var positionalKey = regexp.MustCompile(`^q(\d+)$`)

// Normalize repairs a payload in place: icon names are validated against
// the registry (unknown resolves to the fallback), missing question ids are
// assigned, and legacy positional response keys are migrated to the id of
// the question at that position. Keys that already match a question id in
// their subsection are never touched. Positional keys that point past the
// end of a question list are dropped; they were already misaligned data.
func Normalize(p *Payload) {
	for fi := range p.Frameworks {
		p.Frameworks[fi].Icon = icon.Normalize(p.Frameworks[fi].Icon)
		for si := range p.Frameworks[fi].Sections {
			p.Frameworks[fi].Sections[si].Icon = icon.Normalize(p.Frameworks[fi].Sections[si].Icon)
		}
	}
	content.EnsureQuestionIDs(p.Frameworks)

	if p.Responses == nil {
		p.Responses = response.State{}
		return
	}
	for _, fw := range p.Frameworks {
		for _, sec := range fw.Sections {
			for _, sub := range sec.SubSections {
				migrateSubSection(p.Responses, sub)
			}
		}
	}
}

func migrateSubSection(state response.State, sub content.SubSection) {
	responses, ok := state[sub.ID]
	if !ok {
		return
	}
	ids := make(map[string]bool, len(sub.Questions))
	for _, q := range sub.Questions {
		ids[q.ID] = true
	}
	for key, r := range responses {
		// A key that is a real question id is already migrated, even
		// when it happens to look positional (imported content may
		// carry hand-authored ids like "q0").
		if ids[key] {
			continue
		}
		match := positionalKey.FindStringSubmatch(key)
		if match == nil {
			continue
		}
		index, err := strconv.Atoi(match[1])
		delete(responses, key)
		if err != nil || index >= len(sub.Questions) {
			continue
		}
		id := sub.Questions[index].ID
		if _, taken := responses[id]; !taken {
			responses[id] = r
		}
	}
	if len(responses) == 0 {
		delete(state, sub.ID)
	}
}
