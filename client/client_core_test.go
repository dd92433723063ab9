package client

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	c, err := New("http://example.com/api/v1/")
	if err != nil || c == nil {
		t.Fatalf("expected client, got %v", err)
	}
	if c.baseURL != "http://example.com/api/v1" {
		t.Fatalf("trailing slash not trimmed: %q", c.baseURL)
	}
	if c.feelingTimeout != DefaultFeelingTimeout || c.storyTimeout != DefaultStoryTimeout {
		t.Fatalf("unexpected default budgets: %v %v", c.feelingTimeout, c.storyTimeout)
	}
}

func TestNew_EmptyBaseURL(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty baseURL")
	}
}

func TestNew_OptionErrors(t *testing.T) {
	for name, opt := range map[string]Option{
		"http timeout":    WithHTTPTimeout(0),
		"feeling timeout": WithFeelingTimeout(-time.Second),
		"story timeout":   WithStoryTimeout(0),
		"health timeout":  WithHealthTimeout(0),
		"nil http client": WithHTTPClient(nil),
	} {
		if _, err := New("http://example.com", opt); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestIsBadRequest(t *testing.T) {
	if IsBadRequest(nil) {
		t.Fatal("nil is not a bad request")
	}
	if err := checkSelection("good", nil); !IsBadRequest(err) || IsRetryable(err) {
		t.Fatalf("empty selection should be a non-retryable bad request: %v", err)
	}
	if err := checkSelection("meh", nil); !IsBadRequest(err) {
		t.Fatalf("unknown category should be a bad request: %v", err)
	}
}
