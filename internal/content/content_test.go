package content

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/n0roo/audit-kit/internal/db"
)

func setupTestDB(t *testing.T) *db.DB {
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

	return database
}

func setupStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(setupTestDB(t))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestSeedFrameworks(t *testing.T) {
	frameworks, err := SeedFrameworks()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(frameworks) != 3 {
		t.Fatalf("frameworks = %d, want 3", len(frameworks))
	}
	if frameworks[0].ID != "iso-27001" {
		t.Errorf("first framework = %s, want iso-27001", frameworks[0].ID)
	}
	if len(frameworks[0].Sections) != 5 {
		t.Errorf("iso sections = %d, want 5", len(frameworks[0].Sections))
	}
	// "Coming soon" frameworks have zero sections
	for _, id := range []string{"soc-2", "pci-dss"} {
		found := false
		for _, fw := range frameworks {
			if fw.ID == id {
				found = true
				if len(fw.Sections) != 0 {
					t.Errorf("%s sections = %d, want 0", id, len(fw.Sections))
				}
			}
		}
		if !found {
			t.Errorf("framework %s missing from seed", id)
		}
	}
	// Enrichment fills ids, priorities and guidance everywhere
	for _, fw := range frameworks {
		for _, sec := range fw.Sections {
			for _, sub := range sec.SubSections {
				for _, q := range sub.Questions {
					if q.ID == "" {
						t.Fatalf("question %q has no id", q.Text)
					}
					if q.Priority == "" || q.Description == "" || q.EvidenceGuidance == "" {
						t.Fatalf("question %q not enriched", q.Text)
					}
				}
			}
		}
	}
}

func TestStoreSeedsOnFirstRun(t *testing.T) {
	database := setupTestDB(t)

	store, err := NewStore(database)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if len(store.Frameworks()) != 3 {
		t.Fatalf("frameworks = %d, want 3", len(store.Frameworks()))
	}

	// Seeded content is persisted; a second store reads it back
	raw, ok, err := database.Get(db.KeyContent)
	if err != nil || !ok {
		t.Fatalf("content blob missing after seed: ok=%v err=%v", ok, err)
	}
	var stored []Framework
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("stored content unparsable: %v", err)
	}

	again, err := NewStore(database)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	if len(again.Frameworks()) != 3 {
		t.Errorf("reopened frameworks = %d, want 3", len(again.Frameworks()))
	}
}

func TestStoredContentSurvivesEdits(t *testing.T) {
	database := setupTestDB(t)
	store, _ := NewStore(database)
	mutator := NewMutator(store)

	if _, err := mutator.AddFramework(FrameworkInput{Title: "NIST CSF"}); err != nil {
		t.Fatalf("add framework: %v", err)
	}

	again, err := NewStore(database)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := again.Framework("nist-csf"); err != nil {
		t.Errorf("edit did not survive reopen: %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"NIST CSF", "nist-csf"},
		{"  Trimmed  Title ", "trimmed-title"},
		{"ISO/IEC 27001:2022 Audit", "isoiec-270012022-audit"},
		{"Already-Slugged", "already-slugged"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAddFrameworkSlugCollision(t *testing.T) {
	store := setupStore(t)
	mutator := NewMutator(store)

	first, err := mutator.AddFramework(FrameworkInput{Title: "Custom Audit"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second, err := mutator.AddFramework(FrameworkInput{Title: "Custom Audit"})
	if err != nil {
		t.Fatalf("add duplicate title: %v", err)
	}
	if first.ID != "custom-audit" {
		t.Errorf("first id = %s", first.ID)
	}
	if second.ID != "custom-audit-2" {
		t.Errorf("second id = %s, want custom-audit-2", second.ID)
	}
}

func TestAddFrameworkBlankTitle(t *testing.T) {
	store := setupStore(t)
	mutator := NewMutator(store)

	before := len(store.Frameworks())
	if _, err := mutator.AddFramework(FrameworkInput{Title: "   "}); err == nil {
		t.Fatal("blank title accepted")
	}
	if len(store.Frameworks()) != before {
		t.Error("partial framework committed on validation failure")
	}
}

func TestEditFrameworkMergesFields(t *testing.T) {
	store := setupStore(t)
	mutator := NewMutator(store)

	updated, err := mutator.EditFramework("soc-2", FrameworkInput{Description: "New description"})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if updated.Title != "SOC 2" {
		t.Errorf("empty title overwrote existing: %q", updated.Title)
	}
	if updated.Description != "New description" {
		t.Errorf("description = %q", updated.Description)
	}
	if updated.ID != "soc-2" {
		t.Errorf("id changed to %s", updated.ID)
	}
}

func TestDeleteFrameworkReturnsOrphans(t *testing.T) {
	store := setupStore(t)
	mutator := NewMutator(store)

	fw, _ := store.Framework("iso-27001")
	wantOrphans := len(fw.SubSectionIDs())

	orphans, err := mutator.DeleteFramework("iso-27001")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(orphans) != wantOrphans {
		t.Errorf("orphans = %d, want %d", len(orphans), wantOrphans)
	}
	if _, err := store.Framework("iso-27001"); err == nil {
		t.Error("framework still present after delete")
	}
}

func TestDeleteSectionScope(t *testing.T) {
	store := setupStore(t)
	mutator := NewMutator(store)

	before, _ := store.Framework("iso-27001")
	otherBefore := make(map[string]string)
	for _, sec := range before.Sections {
		if sec.ID == "a.6" {
			continue
		}
		data, _ := json.Marshal(sec)
		otherBefore[sec.ID] = string(data)
	}

	orphans, err := mutator.DeleteSection("iso-27001", "a.6")
	if err != nil {
		t.Fatalf("delete section: %v", err)
	}
	if len(orphans) != 3 {
		t.Errorf("orphans = %d, want 3", len(orphans))
	}

	after, _ := store.Framework("iso-27001")
	if len(after.Sections) != len(before.Sections)-1 {
		t.Fatalf("sections = %d, want %d", len(after.Sections), len(before.Sections)-1)
	}
	// Exactly the deleted section is gone; the rest are byte-for-byte intact
	for _, sec := range after.Sections {
		if sec.ID == "a.6" {
			t.Fatal("deleted section still present")
		}
		data, _ := json.Marshal(sec)
		if string(data) != otherBefore[sec.ID] {
			t.Errorf("section %s changed by unrelated delete", sec.ID)
		}
	}
}

func TestAddSectionAndSubSection(t *testing.T) {
	store := setupStore(t)
	mutator := NewMutator(store)

	sec, err := mutator.AddSection("soc-2", SectionInput{Title: "Trust Criteria", Color: "blue", Icon: "folder"})
	if err != nil {
		t.Fatalf("add section: %v", err)
	}
	if sec.ID == "" || sec.ID == "trust-criteria" {
		t.Errorf("section id %q should carry a timestamp suffix", sec.ID)
	}

	sub, err := mutator.AddSubSection("soc-2", sec.ID, SubSectionInput{Title: "CC1 Control Environment"})
	if err != nil {
		t.Fatalf("add subsection: %v", err)
	}

	fw, _ := store.Framework("soc-2")
	_, got, ok := fw.FindSubSection(sub.ID)
	if !ok || got.Title != "CC1 Control Environment" {
		t.Errorf("subsection not reachable after add")
	}
}

func TestAddQuestionDefaults(t *testing.T) {
	store := setupStore(t)
	mutator := NewMutator(store)

	q, err := mutator.AddQuestion("iso-27001", "iso-clauses", "4.1")
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	if q.Text != "New Question" || q.Priority != PriorityOptional {
		t.Errorf("defaults = %q/%s", q.Text, q.Priority)
	}
	if q.ID == "" {
		t.Error("question created without id")
	}
}

func TestEditQuestionKeepsID(t *testing.T) {
	store := setupStore(t)
	mutator := NewMutator(store)

	fw, _ := store.Framework("iso-27001")
	_, sub, _ := fw.FindSubSection("4.1")
	original := sub.Questions[0]

	updated, err := mutator.EditQuestion("iso-27001", "iso-clauses", "4.1", 0, Question{
		ID:       "attempted-override",
		Text:     "Rewritten control text",
		Priority: PriorityAdvanced,
	})
	if err != nil {
		t.Fatalf("edit question: %v", err)
	}
	if updated.ID != original.ID {
		t.Errorf("id changed on edit: %s -> %s", original.ID, updated.ID)
	}
	if updated.Text != "Rewritten control text" {
		t.Errorf("text = %q", updated.Text)
	}
}

func TestDeleteQuestionKeepsNeighbourIDs(t *testing.T) {
	store := setupStore(t)
	mutator := NewMutator(store)

	fw, _ := store.Framework("iso-27001")
	_, sub, _ := fw.FindSubSection("4.1")
	if len(sub.Questions) < 3 {
		t.Fatal("seed subsection too small for this test")
	}
	beforeIDs := []string{sub.Questions[0].ID, sub.Questions[1].ID, sub.Questions[2].ID}

	removed, err := mutator.DeleteQuestion("iso-27001", "iso-clauses", "4.1", 1)
	if err != nil {
		t.Fatalf("delete question: %v", err)
	}
	if removed != beforeIDs[1] {
		t.Errorf("removed id = %s, want %s", removed, beforeIDs[1])
	}

	fw, _ = store.Framework("iso-27001")
	_, sub, _ = fw.FindSubSection("4.1")
	if sub.Questions[0].ID != beforeIDs[0] || sub.Questions[1].ID != beforeIDs[2] {
		t.Error("neighbour question ids shifted after delete")
	}
}

// Run with -race: a background sync reads Frameworks() while admin edits
// replace the tree.
func TestConcurrentReplaceAndRead(t *testing.T) {
	store := setupStore(t)
	seed := store.Frameworks()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			store.Replace(CloneAll(seed))
		}
	}()

	for i := 0; i < 100; i++ {
		for _, fw := range store.Frameworks() {
			_ = fw.SubSectionIDs()
		}
	}
	<-done

	if len(store.Frameworks()) != len(seed) {
		t.Errorf("frameworks = %d, want %d", len(store.Frameworks()), len(seed))
	}
}

func TestMutatorStructuralCopy(t *testing.T) {
	store := setupStore(t)
	mutator := NewMutator(store)

	before, _ := store.Framework("iso-27001")
	beforeQuestions := len(before.Sections[0].SubSections[0].Questions)

	if _, err := mutator.AddQuestion("iso-27001", "iso-clauses", "4.1"); err != nil {
		t.Fatalf("add question: %v", err)
	}

	// The snapshot taken before the edit is untouched
	if len(before.Sections[0].SubSections[0].Questions) != beforeQuestions {
		t.Error("mutation reached a previously returned tree")
	}
}
