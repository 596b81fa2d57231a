package sync

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/n0roo/audit-kit/internal/db"
)

// ErrNotConfigured blocks any sync attempt before a network call is made.
var ErrNotConfigured = errors.New("sync settings incomplete")

// Settings identifies the remote repository. The token is stored in
// plaintext; the CLI warns about that whenever settings are saved.
type Settings struct {
	Token string `json:"token"`
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// Validate checks that all fields are set.
func (s Settings) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Token) == "" {
		missing = append(missing, "token")
	}
	if strings.TrimSpace(s.Owner) == "" {
		missing = append(missing, "owner")
	}
	if strings.TrimSpace(s.Repo) == "" {
		missing = append(missing, "repo")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(missing, ", "))
	}
	return nil
}

// LoadSettings reads stored settings; absent settings are empty, which
// Validate then rejects.
func LoadSettings(database *db.DB) (Settings, error) {
	raw, ok, err := database.Get(db.KeySyncSettings)
	if err != nil {
		return Settings{}, err
	}
	if !ok {
		return Settings{}, nil
	}
	var s Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Settings{}, fmt.Errorf("parse sync settings: %w", err)
	}
	return s, nil
}

// SaveSettings persists settings.
func SaveSettings(database *db.DB, s Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode sync settings: %w", err)
	}
	return database.Set(db.KeySyncSettings, string(data))
}
