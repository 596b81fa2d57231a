package content

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/n0roo/audit-kit/internal/db"
)

// Store owns the framework content tree. It is initialized from local
// storage (falling back to the embedded seed bank on first run) and written
// back after every mutation. Persistence is best-effort: a write failure is
// logged and the in-memory tree stays authoritative for the session.
//
// A published tree is never written in place (the Mutator clones before
// editing and swaps via Replace), so readers on other goroutines keep a
// valid snapshot. The mutex guards the frameworks field itself.
type Store struct {
	db         *db.DB
	mu         sync.Mutex
	frameworks []Framework
}

// NewStore loads content from storage, seeding it on first run.
func NewStore(database *db.DB) (*Store, error) {
	s := &Store{db: database}

	raw, ok, err := database.Get(db.KeyContent)
	if err != nil {
		return nil, err
	}
	if !ok {
		seeded, err := SeedFrameworks()
		if err != nil {
			return nil, err
		}
		s.frameworks = seeded
		s.persist()
		return s, nil
	}

	var frameworks []Framework
	if err := json.Unmarshal([]byte(raw), &frameworks); err != nil {
		return nil, fmt.Errorf("parse stored content: %w", err)
	}
	changed := EnsureQuestionIDs(frameworks)
	s.frameworks = frameworks
	if changed {
		s.persist()
	}
	return s, nil
}

// Frameworks returns the current tree. Callers must treat it as read-only;
// all mutation goes through the Mutator, which replaces the tree wholesale.
func (s *Store) Frameworks() []Framework {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameworks
}

// Framework returns the framework with the given id.
func (s *Store) Framework(id string) (Framework, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fw := range s.frameworks {
		if fw.ID == id {
			return fw, nil
		}
	}
	return Framework{}, fmt.Errorf("framework %q: %w", id, ErrNotFound)
}

// Replace swaps in a new tree (used by the mutator and by sync pull) and
// persists it.
func (s *Store) Replace(frameworks []Framework) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frameworks = frameworks
	s.persist()
}

// persist is called with mu held (or before the store is shared).
func (s *Store) persist() {
	data, err := json.Marshal(s.frameworks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: content not saved: %v\n", err)
		return
	}
	if err := s.db.Set(db.KeyContent, string(data)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: content not saved: %v\n", err)
	}
}
