package registry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Iron-Ham/ownersync/internal/errors"
	"github.com/Iron-Ham/ownersync/internal/owners"
	"github.com/Iron-Ham/ownersync/internal/payload"
	"github.com/Iron-Ham/ownersync/internal/source"
)

func testPayload() *payload.SyncPayload {
	files := []owners.FileOwnership{
		{Path: "a/OWNERS", Entries: []owners.Entry{
			{Kind: owners.KindProject, Value: "FOO"},
			{Kind: owners.KindComponent, Value: "bar-svc"},
		}},
	}
	return payload.Assemble(
		source.Coordinates{Org: "acme", Repo: "widgets"},
		payload.Target{Namespace: "acme-ns", ProjectUUID: "6a1f9c2e"},
		files,
	)
}

func TestClientSync(t *testing.T) {
	var (
		gotPath    string
		gotAuth    string
		gotTimeout string
		gotBody    []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotTimeout = r.Header.Get("Request-Timeout")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret-token")
	target := payload.Target{Namespace: "acme-ns", ProjectUUID: "6a1f9c2e"}

	if err := c.Sync(context.Background(), target, testPayload()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if gotPath != "/v1/namespaces/acme-ns/codeowners" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotTimeout != "60" {
		t.Errorf("Request-Timeout = %q", gotTimeout)
	}

	var sent map[string]json.RawMessage
	if err := json.Unmarshal(gotBody, &sent); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	for _, key := range []string{"meta", "spec", "tenant_meta"} {
		if _, ok := sent[key]; !ok {
			t.Errorf("request body missing %q block", key)
		}
	}
}

func TestClientSyncNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"namespace not found"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret-token")
	target := payload.Target{Namespace: "missing", ProjectUUID: "6a1f9c2e"}

	err := c.Sync(context.Background(), target, testPayload())
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !errors.Is(err, errors.ErrUnexpectedStatus) {
		t.Errorf("error should wrap ErrUnexpectedStatus, got %v", err)
	}

	var terr *errors.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %T", err)
	}
	if terr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", terr.StatusCode)
	}
	if !strings.Contains(terr.ResponseBody, "namespace not found") {
		t.Errorf("ResponseBody = %q, want server message surfaced", terr.ResponseBody)
	}
}

func TestClientSyncAcceptsOnlyExact200(t *testing.T) {
	// 2xx statuses other than 200 still count as failures.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret-token")
	target := payload.Target{Namespace: "acme-ns", ProjectUUID: "6a1f9c2e"}

	err := c.Sync(context.Background(), target, testPayload())
	if !errors.Is(err, errors.ErrUnexpectedStatus) {
		t.Errorf("202 should be rejected, got %v", err)
	}
}

func TestClientSyncConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	c := NewClient(server.URL, "secret-token")
	target := payload.Target{Namespace: "acme-ns", ProjectUUID: "6a1f9c2e"}

	err := c.Sync(context.Background(), target, testPayload())
	if err == nil {
		t.Fatal("expected error when server is unreachable")
	}
	var terr *errors.TransportError
	if !errors.As(err, &terr) {
		t.Errorf("expected TransportError, got %T", err)
	}
}

func TestSyncURL(t *testing.T) {
	c := NewClient("https://registry.example.com", "tok")
	got := c.SyncURL(payload.Target{Namespace: "team-x", ProjectUUID: "u"})
	want := "https://registry.example.com/v1/namespaces/team-x/codeowners"
	if got != want {
		t.Errorf("SyncURL = %q, want %q", got, want)
	}
}
