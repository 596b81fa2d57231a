package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/repos/alice/audit-data/contents/audit-data.json" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "token tok123" {
			t.Errorf("authorization = %q", got)
		}
		// Content wrapped across lines, as the API returns it
		json.NewEncoder(w).Encode(map[string]string{
			"content": "aGVsbG8g\nd29ybGQ=\n",
			"sha":     "abc123",
		})
	}))
	defer server.Close()

	client := NewClient("tok123", "alice", "audit-data").WithBaseURL(server.URL)
	file, err := client.GetFile(context.Background(), "audit-data.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(file.Content) != "hello world" {
		t.Errorf("content = %q", file.Content)
	}
	if file.SHA != "abc123" {
		t.Errorf("sha = %s", file.SHA)
	}
}

func TestGetFileNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
	}))
	defer server.Close()

	client := NewClient("tok", "o", "r").WithBaseURL(server.URL)
	_, err := client.GetFile(context.Background(), "audit-data.json")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetFileUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Bad credentials"})
	}))
	defer server.Close()

	client := NewClient("bad", "o", "r").WithBaseURL(server.URL)
	_, err := client.GetFile(context.Background(), "audit-data.json")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestPutFile(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient("tok", "o", "r").WithBaseURL(server.URL)
	err := client.PutFile(context.Background(), "audit-data.json", []byte("payload"), "sync", "sha9")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if got["message"] != "sync" {
		t.Errorf("message = %q", got["message"])
	}
	if got["sha"] != "sha9" {
		t.Errorf("sha = %q", got["sha"])
	}
	decoded, _ := base64.StdEncoding.DecodeString(got["content"])
	if string(decoded) != "payload" {
		t.Errorf("content = %q", decoded)
	}
}

func TestPutFileWithoutSHA(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["sha"]; ok {
			t.Error("sha sent on create")
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient("tok", "o", "r").WithBaseURL(server.URL)
	if err := client.PutFile(context.Background(), "audit-data.json", []byte("x"), "create", ""); err != nil {
		t.Fatalf("put: %v", err)
	}
}

func TestPutFileConflict(t *testing.T) {
	statuses := []struct {
		code    int
		message string
	}{
		{http.StatusConflict, "audit-data.json does not match"},
		{http.StatusUnprocessableEntity, "sha does not match the file"},
	}
	for _, tc := range statuses {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.code)
			json.NewEncoder(w).Encode(map[string]string{"message": tc.message})
		}))

		client := NewClient("tok", "o", "r").WithBaseURL(server.URL)
		err := client.PutFile(context.Background(), "audit-data.json", []byte("x"), "m", "stale")
		if !errors.Is(err, ErrConflict) {
			t.Errorf("status %d: err = %v, want ErrConflict", tc.code, err)
		}
		server.Close()
	}
}

func TestGenericAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "boom"})
	}))
	defer server.Close()

	client := NewClient("tok", "o", "r").WithBaseURL(server.URL)
	_, err := client.GetFile(context.Background(), "audit-data.json")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Message != "boom" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}
