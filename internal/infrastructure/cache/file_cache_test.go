package cache

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/okzu/shellm/internal/domain"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c := NewFileCache(t.TempDir(), time.Hour)

	entry := domain.CacheEntry{
		Key:       "abc123",
		Model:     "llama3.2",
		Text:      `{"command":"ls -la","explanation":"list files","needs_more_context":false}`,
		CreatedAt: time.Now(),
	}
	if err := c.Put(entry); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := c.Get("abc123")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if diff := cmp.Diff(entry.Text, got.Text); diff != "" {
		t.Errorf("cached text mismatch (-want +got):\n%s", diff)
	}
	if got.Model != entry.Model {
		t.Errorf("model = %q, want %q", got.Model, entry.Model)
	}
}

func TestFileCacheMiss(t *testing.T) {
	c := NewFileCache(t.TempDir(), time.Hour)
	if _, ok := c.Get("nope"); ok {
		t.Error("expected miss for unknown key")
	}
	if _, ok := c.Get(""); ok {
		t.Error("expected miss for empty key")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c := NewFileCache(t.TempDir(), time.Millisecond)

	entry := domain.CacheEntry{Key: "stale", Text: "old", CreatedAt: time.Now().Add(-time.Second)}
	if err := c.Put(entry); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := c.Get("stale"); ok {
		t.Error("expected expired entry to miss")
	}
	if got := c.Len(); got != 0 {
		t.Errorf("Len after expiry = %d, want 0", got)
	}
}

func TestFileCacheClear(t *testing.T) {
	c := NewFileCache(t.TempDir(), time.Hour)

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Put(domain.CacheEntry{Key: key, Text: key, CreatedAt: time.Now()}); err != nil {
			t.Fatalf("Put(%q): %v", key, err)
		}
	}
	if got := c.Len(); got != 3 {
		t.Fatalf("Len = %d, want 3", got)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := c.Len(); got != 0 {
		t.Errorf("Len after Clear = %d, want 0", got)
	}
	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after Clear")
	}
}
