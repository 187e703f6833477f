package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vibedrift/vibedrift/internal/payload"
)

func TestPostCommit(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret-key")
	p := &payload.CommitPayload{CommitHash: "abc123", Message: "fix bug", UserPrompts: 3}
	if err := c.PostCommit(context.Background(), p); err != nil {
		t.Fatal(err)
	}

	if gotPath != "/api/commits" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	var decoded payload.CommitPayload
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("body not valid JSON: %v", err)
	}
	if decoded.CommitHash != "abc123" || decoded.UserPrompts != 3 {
		t.Errorf("decoded payload = %+v", decoded)
	}
}

func TestPostCommitNoKeyOmitsAuth(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
	}))
	defer srv.Close()

	if err := New(srv.URL, "").PostCommit(context.Background(), &payload.CommitPayload{}); err != nil {
		t.Fatal(err)
	}
	if sawAuth {
		t.Error("Authorization header sent without an API key")
	}
}

func TestPostCommitServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	err := New(srv.URL, "k").PostCommit(context.Background(), &payload.CommitPayload{})
	if err == nil {
		t.Fatal("expected an error for a non-2xx response")
	}
	if !strings.Contains(err.Error(), "402") || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error %q should carry the status and body snippet", err)
	}
}

func TestPostCommitConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	if err := New(srv.URL, "k").PostCommit(context.Background(), &payload.CommitPayload{}); err == nil {
		t.Fatal("expected an error when the server is unreachable")
	}
}
