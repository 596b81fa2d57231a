package response

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/n0roo/audit-kit/internal/db"
)

// Store owns the recorded responses, persisted as one JSON blob under the
// responses storage key. Like the content store, persistence is
// best-effort: failures are logged and in-memory state stays live.
//
// Mutations are copy-on-write: a published State map is never written
// again, so a snapshot taken by a background sync stays valid while edits
// continue. The mutex guards the state field itself.
type Store struct {
	db    *db.DB
	mu    sync.Mutex
	state State
}

// NewStore loads responses from storage.
func NewStore(database *db.DB) (*Store, error) {
	s := &Store{db: database, state: State{}}

	raw, ok, err := database.Get(db.KeyResponses)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.state); err != nil {
			return nil, fmt.Errorf("parse stored responses: %w", err)
		}
	}
	return s, nil
}

// State returns the current response state. Treat as read-only.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Get returns the recorded response for a question, or the default.
func (s *Store) Get(subSectionID, questionID string) QuestionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	if responses, ok := s.state[subSectionID]; ok {
		if r, ok := responses[questionID]; ok {
			return r
		}
	}
	return Default()
}

// Set records a response, creating the subsection entry lazily.
func (s *Store) Set(subSectionID, questionID string, r QuestionResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.Clone()
	if next[subSectionID] == nil {
		next[subSectionID] = SubSectionResponse{}
	}
	next[subSectionID][questionID] = r
	s.state = next
	s.persist()
}

// DeleteSubSections drops all responses for the given subsection ids,
// the cascade half of a structural delete or a framework reset.
func (s *Store) DeleteSubSections(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.Clone()
	for _, id := range ids {
		delete(next, id)
	}
	s.state = next
	s.persist()
}

// DeleteQuestion drops the response for one question.
func (s *Store) DeleteQuestion(subSectionID, questionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.Clone()
	if responses, ok := next[subSectionID]; ok {
		delete(responses, questionID)
		if len(responses) == 0 {
			delete(next, subSectionID)
		}
	}
	s.state = next
	s.persist()
}

// Replace swaps in a whole new state (sync pull) and persists it.
func (s *Store) Replace(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == nil {
		state = State{}
	}
	s.state = state
	s.persist()
}

// persist is called with mu held.
func (s *Store) persist() {
	data, err := json.Marshal(s.state)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: responses not saved: %v\n", err)
		return
	}
	if err := s.db.Set(db.KeyResponses, string(data)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: responses not saved: %v\n", err)
	}
}
