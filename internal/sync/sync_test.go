package sync

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/n0roo/audit-kit/internal/content"
	"github.com/n0roo/audit-kit/internal/db"
	"github.com/n0roo/audit-kit/internal/github"
	"github.com/n0roo/audit-kit/internal/response"
	"github.com/n0roo/audit-kit/internal/snapshot"
)

type fakeClient struct {
	file    *github.File
	getErr  error
	putErr  error
	getCall int

	putContent []byte
	putSHA     string
	putCall    int
}

func (f *fakeClient) GetFile(ctx context.Context, path string) (*github.File, error) {
	f.getCall++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.file, nil
}

func (f *fakeClient) PutFile(ctx context.Context, path string, content []byte, message, sha string) error {
	f.putCall++
	f.putContent = content
	f.putSHA = sha
	return f.putErr
}

func setupService(t *testing.T, client Client) (*Service, *content.Store, *response.Store) {
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

	if err := SaveSettings(database, Settings{Token: "tok", Owner: "acme", Repo: "audits"}); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	svc := NewService(database, contentStore, responseStore)
	svc.dial = func(Settings) Client { return client }
	return svc, contentStore, responseStore
}

func TestPushExistingFile(t *testing.T) {
	fake := &fakeClient{file: &github.File{Content: []byte("{}"), SHA: "abc123"}}
	svc, _, _ := setupService(t, fake)

	if err := svc.Push(context.Background()); err != nil {
		t.Fatalf("push: %v", err)
	}
	if fake.putCall != 1 {
		t.Fatalf("putCall = %d", fake.putCall)
	}
	if fake.putSHA != "abc123" {
		t.Errorf("put sha = %q, want abc123", fake.putSHA)
	}

	var payload struct {
		Frameworks []json.RawMessage `json:"frameworks"`
		Responses  json.RawMessage   `json:"responses"`
	}
	if err := json.Unmarshal(fake.putContent, &payload); err != nil {
		t.Fatalf("pushed payload not valid JSON: %v", err)
	}
	if len(payload.Frameworks) == 0 {
		t.Error("pushed payload has no frameworks")
	}
	if payload.Responses == nil {
		t.Error("pushed payload missing responses key")
	}
}

func TestPushCreatesMissingFile(t *testing.T) {
	fake := &fakeClient{getErr: github.ErrNotFound}
	svc, _, _ := setupService(t, fake)

	if err := svc.Push(context.Background()); err != nil {
		t.Fatalf("push: %v", err)
	}
	if fake.putSHA != "" {
		t.Errorf("create should omit sha, got %q", fake.putSHA)
	}
}

func TestPushConflictSurfaces(t *testing.T) {
	fake := &fakeClient{
		file:   &github.File{SHA: "abc123"},
		putErr: github.ErrConflict,
	}
	svc, _, _ := setupService(t, fake)

	err := svc.Push(context.Background())
	if !errors.Is(err, github.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestPushUnconfigured(t *testing.T) {
	fake := &fakeClient{}
	svc, _, _ := setupService(t, fake)
	if err := SaveSettings(svc.db, Settings{}); err != nil {
		t.Fatalf("clear settings: %v", err)
	}

	err := svc.Push(context.Background())
	if err == nil {
		t.Fatal("expected validation error")
	}
	if fake.getCall != 0 || fake.putCall != 0 {
		t.Error("no API call should be made without settings")
	}
}

func TestPullReplacesBothStores(t *testing.T) {
	remote := snapshot.Payload{
		Frameworks: []content.Framework{{
			ID:          "remote-fw",
			Title:       "Remote",
			Description: "pulled from remote",
			Sections: []content.Section{{
				ID: "s1", Title: "S1", Color: "blue", Icon: "shield",
				SubSections: []content.SubSection{{
					ID: "ss1", Title: "SS1",
					Questions: []content.Question{{ID: "q-1", Text: "Q?", Priority: content.PriorityEssential}},
				}},
			}},
		}},
		Responses: response.State{
			"ss1": {"q-1": {WorkflowStatus: response.WorkflowDone, ResultStatus: response.ResultCompliant}},
		},
	}
	data, err := snapshot.Encode(remote)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	fake := &fakeClient{file: &github.File{Content: data, SHA: "abc123"}}
	svc, contentStore, responseStore := setupService(t, fake)

	confirmed := false
	err = svc.Pull(context.Background(), func(string) bool {
		confirmed = true
		return true
	})
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if !confirmed {
		t.Error("confirmation gate not invoked")
	}

	frameworks := contentStore.Frameworks()
	if len(frameworks) != 1 || frameworks[0].ID != "remote-fw" {
		t.Fatalf("frameworks = %+v", frameworks)
	}
	r := responseStore.Get("ss1", "q-1")
	if r.ResultStatus != response.ResultCompliant {
		t.Errorf("response not replaced: %+v", r)
	}
}

func TestPullDeclinedLeavesStores(t *testing.T) {
	data, err := snapshot.Encode(snapshot.Payload{
		Frameworks: []content.Framework{{ID: "remote-fw", Title: "Remote"}},
		Responses:  response.State{},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	fake := &fakeClient{file: &github.File{Content: data, SHA: "abc123"}}
	svc, contentStore, _ := setupService(t, fake)
	before := len(contentStore.Frameworks())

	err = svc.Pull(context.Background(), func(string) bool { return false })
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
	if len(contentStore.Frameworks()) != before {
		t.Error("declined pull changed local content")
	}
}

func TestPullMalformedLeavesStores(t *testing.T) {
	fake := &fakeClient{file: &github.File{Content: []byte(`{"foo": 1}`), SHA: "abc123"}}
	svc, contentStore, _ := setupService(t, fake)
	before := len(contentStore.Frameworks())

	err := svc.Pull(context.Background(), func(string) bool {
		t.Error("confirmation must not run for a malformed payload")
		return true
	})
	if err == nil {
		t.Fatal("expected decode error")
	}
	if len(contentStore.Frameworks()) != before {
		t.Error("malformed pull changed local content")
	}
}

func TestPullNothingRemote(t *testing.T) {
	fake := &fakeClient{getErr: github.ErrNotFound}
	svc, _, _ := setupService(t, fake)

	err := svc.Pull(context.Background(), nil)
	if !errors.Is(err, github.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSingleFlight(t *testing.T) {
	fake := &fakeClient{file: &github.File{SHA: "abc123"}}
	svc, _, _ := setupService(t, fake)

	svc.busy.Store(true)
	if err := svc.Push(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("push while busy = %v, want ErrBusy", err)
	}
	if err := svc.Pull(context.Background(), nil); !errors.Is(err, ErrBusy) {
		t.Errorf("pull while busy = %v, want ErrBusy", err)
	}
	svc.busy.Store(false)

	if svc.State() != StateIdle {
		t.Errorf("state = %v, want idle", svc.State())
	}
	if err := svc.Push(context.Background()); err != nil {
		t.Fatalf("push after release: %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	err := Settings{Owner: "acme"}.Validate()
	if err == nil {
		t.Fatal("expected error for missing token and repo")
	}
	if err := (Settings{Token: "t", Owner: "o", Repo: "r"}).Validate(); err != nil {
		t.Errorf("complete settings rejected: %v", err)
	}
}
