package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/n0roo/audit-kit/internal/content"
	"github.com/n0roo/audit-kit/internal/db"
	"github.com/n0roo/audit-kit/internal/response"
)

func setupModel(t *testing.T) Model {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "auditkit-test-*")
	if err != nil {
		t.Fatalf("temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	database, err := db.Open(filepath.Join(tmpDir, "audit.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	contentStore, err := content.NewStore(database)
	if err != nil {
		t.Fatalf("content store: %v", err)
	}
	responseStore, err := response.NewStore(database)
	if err != nil {
		t.Fatalf("response store: %v", err)
	}

	return NewModel(&Stores{DB: database, Content: contentStore, Responses: responseStore})
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestPullRequiresConfirmation(t *testing.T) {
	m := setupModel(t)

	next, cmd := m.Update(key('p'))
	m = next.(Model)
	if !m.confirmingPull {
		t.Fatal("p should ask for confirmation, not pull immediately")
	}
	if cmd != nil {
		t.Error("no command should run before confirmation")
	}

	// Any key but y cancels
	next, cmd = m.Update(key('n'))
	m = next.(Model)
	if m.confirmingPull || m.syncing {
		t.Error("declined pull should return to browsing")
	}
	if cmd != nil {
		t.Error("declined pull should not start a sync")
	}
	if !strings.Contains(m.status, "cancelled") {
		t.Errorf("status = %q", m.status)
	}
}

func TestPullConfirmedStartsSync(t *testing.T) {
	m := setupModel(t)

	next, _ := m.Update(key('p'))
	m = next.(Model)
	next, cmd := m.Update(key('y'))
	m = next.(Model)

	if !m.syncing {
		t.Error("confirmed pull should mark the sync in flight")
	}
	if cmd == nil {
		t.Error("confirmed pull should return the sync command")
	}
}

func TestSyncKeysIgnoredWhileSyncing(t *testing.T) {
	m := setupModel(t)
	m.syncing = true

	next, cmd := m.Update(key('p'))
	m = next.(Model)
	if m.confirmingPull || cmd != nil {
		t.Error("pull must be disabled during an in-flight sync")
	}

	_, cmd = m.Update(key('s'))
	if cmd != nil {
		t.Error("push must be disabled during an in-flight sync")
	}
}

func TestPullResultResetsNavigation(t *testing.T) {
	m := setupModel(t)
	m.level = LevelQuestions
	m.cursor = [4]int{0, 1, 2, 3}
	m.syncing = true

	next, _ := m.Update(syncDoneMsg{pull: true})
	m = next.(Model)

	if m.syncing {
		t.Error("sync flag not cleared")
	}
	if m.level != LevelFrameworks || m.cursor != [4]int{} {
		t.Errorf("navigation not reset: level=%d cursor=%v", m.level, m.cursor)
	}
}
