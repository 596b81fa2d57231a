// Package sync pushes and pulls the combined content+responses snapshot
// against a file in a GitHub repository. The protocol is last-writer-wins:
// push is guarded by the remote version sha, pull overwrites local state
// after an explicit confirmation.
package sync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/n0roo/audit-kit/internal/content"
	"github.com/n0roo/audit-kit/internal/db"
	"github.com/n0roo/audit-kit/internal/github"
	"github.com/n0roo/audit-kit/internal/response"
	"github.com/n0roo/audit-kit/internal/snapshot"
)

// RemotePath is the fixed file the snapshot syncs against.
const RemotePath = "audit-data.json"

const defaultTimeout = 30 * time.Second

var (
	// ErrBusy rejects a sync while another is in flight.
	ErrBusy = errors.New("sync already in progress")
	// ErrCancelled reports a pull declined at the confirmation gate.
	ErrCancelled = errors.New("pull cancelled")
)

// Client is the slice of the GitHub client the protocol needs.
type Client interface {
	GetFile(ctx context.Context, path string) (*github.File, error)
	PutFile(ctx context.Context, path string, content []byte, message, sha string) error
}

// State is the protocol's externally visible condition.
type State string

const (
	StateIdle    State = "idle"
	StateSyncing State = "syncing"
)

// Service orchestrates push and pull. Single-flight: the busy flag makes a
// second invocation fail fast with ErrBusy instead of racing the first.
type Service struct {
	db        *db.DB
	content   *content.Store
	responses *response.Store
	dial      func(Settings) Client
	timeout   time.Duration
	busy      atomic.Bool
}

// NewService creates a sync service over the given stores.
func NewService(database *db.DB, contentStore *content.Store, responseStore *response.Store) *Service {
	return &Service{
		db:        database,
		content:   contentStore,
		responses: responseStore,
		dial: func(s Settings) Client {
			return github.NewClient(s.Token, s.Owner, s.Repo)
		},
		timeout: defaultTimeout,
	}
}

// State reports whether a sync is in flight.
func (s *Service) State() State {
	if s.busy.Load() {
		return StateSyncing
	}
	return StateIdle
}

func (s *Service) acquire() error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (s *Service) client() (Client, error) {
	settings, err := LoadSettings(s.db)
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return s.dial(settings), nil
}

// Push uploads the local snapshot. An existing remote file is overwritten
// at its current sha; a missing file is created. A sha mismatch surfaces
// as github.ErrConflict and is not retried.
func (s *Service) Push(ctx context.Context) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.busy.Store(false)

	client, err := s.client()
	if err != nil {
		return err
	}

	data, err := snapshot.Encode(snapshot.Payload{
		Frameworks: s.content.Frameworks(),
		Responses:  s.responses.State(),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sha := ""
	switch file, err := client.GetFile(ctx, RemotePath); {
	case err == nil:
		sha = file.SHA
	case errors.Is(err, github.ErrNotFound):
		// No remote file yet; the PUT below creates it
	default:
		return fmt.Errorf("check remote file: %w", err)
	}

	message := fmt.Sprintf("Sync audit data %s", time.Now().UTC().Format(time.RFC3339))
	if err := client.PutFile(ctx, RemotePath, data, message, sha); err != nil {
		return fmt.Errorf("push: %w", err)
	}
	return nil
}

// Pull downloads the remote snapshot and, once confirmed, replaces local
// content and responses together. Decode failures and a declined
// confirmation leave local state untouched; so does cancellation, since
// nothing is applied until the payload is fully validated.
func (s *Service) Pull(ctx context.Context, confirm func(prompt string) bool) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.busy.Store(false)

	client, err := s.client()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	file, err := client.GetFile(ctx, RemotePath)
	if err != nil {
		if errors.Is(err, github.ErrNotFound) {
			return fmt.Errorf("nothing to pull: %w", err)
		}
		return fmt.Errorf("pull: %w", err)
	}

	payload, err := snapshot.Decode(file.Content)
	if err != nil {
		return fmt.Errorf("pull: %w", err)
	}

	if confirm != nil && !confirm("Pulling will overwrite ALL local frameworks and responses. Continue?") {
		return ErrCancelled
	}

	s.content.Replace(payload.Frameworks)
	s.responses.Replace(payload.Responses)
	return nil
}
