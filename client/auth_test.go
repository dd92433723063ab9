package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/drawmyfeelings/journey/devmode"
)

func TestAPIKeyHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"status":"healthy","checks":{}}`))
	}))
	defer srv.Close()

	c, err := NewWithDevMode(srv.URL)
	if err != nil {
		t.Fatalf("NewWithDevMode failed: %v", err)
	}
	if !c.CheckAvailability(context.Background()) {
		t.Fatal("expected service to be available")
	}
	if got != "Bearer "+devmode.APIKey {
		t.Fatalf("unexpected Authorization header %q", got)
	}
}

func TestNoAPIKeyNoHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"status":"healthy","checks":{}}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = c.CheckAvailability(context.Background())
	if got != "" {
		t.Fatalf("unexpected Authorization header %q", got)
	}
}

func TestUserAgentHeader(t *testing.T) {
	var agent, auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"status":"healthy","checks":{}}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithUserAgent("drawmyfeelings/test"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = c.CheckAvailability(context.Background())
	if agent != "drawmyfeelings/test" {
		t.Fatalf("unexpected User-Agent %q", agent)
	}
	if auth != "" {
		t.Fatalf("unexpected Authorization header %q", auth)
	}
}

func TestWithHTTPClientDoesNotMutateCallerClient(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"status":"healthy","checks":{}}`))
	}))
	defer srv.Close()

	shared := &http.Client{Transport: http.DefaultTransport}
	c, err := New(srv.URL, WithHTTPClient(shared), WithAPIKey("secret"), WithDebugLogging(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !c.CheckAvailability(context.Background()) {
		t.Fatal("expected service to be available")
	}
	if got != "Bearer secret" {
		t.Fatalf("unexpected Authorization header %q", got)
	}
	if shared.Transport != http.DefaultTransport {
		t.Fatalf("caller's client transport was replaced: %T", shared.Transport)
	}

	got = ""
	resp, err := shared.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	_ = resp.Body.Close()
	if got != "" {
		t.Fatalf("caller's client sends Authorization %q", got)
	}
}
