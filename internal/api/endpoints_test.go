package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/statesync/client-go/internal/envelope"
)

func testEnvelope(t *testing.T) *envelope.Envelope {
	t.Helper()
	env, err := envelope.Encrypt(map[string]any{"a": 1}, "correct-horse")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	return env
}

func TestPutVersion_PathAndBody(t *testing.T) {
	env := testEnvelope(t)

	var gotPath string
	var gotBody envelope.Envelope
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != "PUT" {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := client.PutVersion(context.Background(), "bucket-id", env); err != nil {
		t.Fatalf("PutVersion() error = %v", err)
	}

	wantPath := "/bucket-id/v1/" + strconv.FormatInt(env.TS, 10)
	if gotPath != wantPath {
		t.Errorf("path = %q, want %q", gotPath, wantPath)
	}
	if gotBody.TS != env.TS || gotBody.V != env.V {
		t.Errorf("body = %+v, want %+v", gotBody, env)
	}
}

func TestPutLatest_PathAndBody(t *testing.T) {
	var gotPath string
	var gotBody Pointer
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := client.PutLatest(context.Background(), "bucket-id", 1700000000123); err != nil {
		t.Fatalf("PutLatest() error = %v", err)
	}

	if gotPath != "/bucket-id/v1/latest" {
		t.Errorf("path = %q, want /bucket-id/v1/latest", gotPath)
	}
	if gotBody.TS != 1700000000123 {
		t.Errorf("body ts = %d, want 1700000000123", gotBody.TS)
	}
}

func TestGetLatest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bucket-id/v1/latest" {
			t.Errorf("path = %q, want /bucket-id/v1/latest", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Pointer{TS: 42})
	}))
	defer server.Close()

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ptr, err := client.GetLatest(context.Background(), "bucket-id")
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if ptr.TS != 42 {
		t.Errorf("ts = %d, want 42", ptr.TS)
	}
}

func TestGetVersion_RoundTrip(t *testing.T) {
	env := testEnvelope(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(env)
	}))
	defer server.Close()

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := client.GetVersion(context.Background(), "bucket-id", env.TS)
	if err != nil {
		t.Fatalf("GetVersion() error = %v", err)
	}

	raw, err := envelope.Decrypt(got, "correct-horse")
	if err != nil {
		t.Fatalf("Decrypt() after transport round trip error = %v", err)
	}
	if string(raw) != `{"a":1}` {
		t.Errorf("plaintext = %s, want {\"a\":1}", raw)
	}
}

func TestListVersions(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if r.URL.Path != "/bucket-id/v1" {
			t.Errorf("path = %q, want /bucket-id/v1", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]VersionRef{{TS: 3}, {TS: 1}, {TS: 2}})
	}))
	defer server.Close()

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	refs, err := client.ListVersions(context.Background(), "bucket-id", 0)
	if err != nil {
		t.Fatalf("ListVersions() error = %v", err)
	}
	if gotQuery != "limit=20" {
		t.Errorf("query = %q, want limit=20 (default)", gotQuery)
	}
	if len(refs) != 3 {
		t.Errorf("len(refs) = %d, want 3", len(refs))
	}
}

func TestListVersions_CustomLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "limit=5" {
			t.Errorf("query = %q, want limit=5", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode([]VersionRef{})
	}))
	defer server.Close()

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	refs, err := client.ListVersions(context.Background(), "bucket-id", 5)
	if err != nil {
		t.Fatalf("ListVersions() error = %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("len(refs) = %d, want 0", len(refs))
	}
}
