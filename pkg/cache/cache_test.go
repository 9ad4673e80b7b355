package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	gk1 := k.GraphKey("abc", "csv")
	gk2 := k.GraphKey("abc", "tsv")
	if gk1 == gk2 {
		t.Error("Different formats should produce different graph keys")
	}
	if !strings.HasPrefix(gk1, "graph:") {
		t.Errorf("GraphKey unexpected: %s", gk1)
	}
	if gk1 != k.GraphKey("abc", "csv") {
		t.Error("GraphKey should be deterministic")
	}

	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{Width: 800, Align: "justify"})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{Width: 800, Align: "left"})
	if lk1 == lk2 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}
	lk3 := k.LayoutKey("hash123", LayoutKeyOpts{Width: 800, Align: "justify", Margins: [4]float64{1, 2, 3, 4}})
	if lk1 == lk3 {
		t.Error("Margins should be part of the layout key")
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Style: "s1"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", Style: "s1"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if len(ak1) != len("artifact:")+64 {
		t.Errorf("ArtifactKey length = %d", len(ak1))
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "api:")

	if got, want := scoped.GraphKey("abc", "json"), "api:"+inner.GraphKey("abc", "json"); got != want {
		t.Errorf("ScopedKeyer GraphKey = %s, want %s", got, want)
	}
	layoutKey := scoped.LayoutKey("h", LayoutKeyOpts{})
	if !strings.HasPrefix(layoutKey, "api:layout:") {
		t.Errorf("ScopedKeyer LayoutKey should be prefixed: %s", layoutKey)
	}
	artifactKey := scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})
	if !strings.HasPrefix(artifactKey, "api:artifact:") {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", artifactKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.GraphKey("abc", "csv"); key != "prefix:"+NewDefaultKeyer().GraphKey("abc", "csv") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get(k) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry still present after Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key should succeed: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry should be a miss")
	}
	if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
		t.Error("expired entry file should be removed")
	}

	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl should never expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries", len(entries))
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "sankeyflow") {
		t.Errorf("DefaultDir() = %q", dir)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err = DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	if dir != filepath.Join(home, ".cache", "sankeyflow") {
		t.Errorf("DefaultDir() = %q", dir)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(2)
	if err != nil {
		t.Fatalf("NewMemoryCache: %v", err)
	}

	_ = c.Set(ctx, "a", []byte("1"), time.Hour)
	_ = c.Set(ctx, "b", []byte("2"), time.Hour)
	if _, hit, _ := c.Get(ctx, "a"); !hit {
		t.Fatal("a should be present")
	}
	// a was used most recently, so adding c evicts b.
	_ = c.Set(ctx, "c", []byte("3"), time.Hour)
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("b should have been evicted")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}

	data, _, _ := c.Get(ctx, "a")
	data[0] = 'x'
	again, _, _ := c.Get(ctx, "a")
	if string(again) != "1" {
		t.Error("Get should return a copy")
	}

	_ = c.Delete(ctx, "a")
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("a should be deleted")
	}
	_ = c.Close()
	if c.Len() != 0 {
		t.Error("Close should purge entries")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(0)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	_ = c.Set(ctx, "p", []byte("v"), 0)
	now = now.Add(2 * time.Minute)

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should be a miss")
	}
	if _, hit, _ := c.Get(ctx, "p"); !hit {
		t.Error("entry without ttl should not expire")
	}
}

func TestRemoteConstructorErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := NewRedisCache(ctx, ""); err == nil {
		t.Error("NewRedisCache(\"\") should fail")
	}
	if _, err := NewRedisCache(ctx, "http://localhost:6379"); err == nil || !strings.Contains(err.Error(), "parse url") {
		t.Errorf("NewRedisCache(bad scheme) = %v", err)
	}
	if _, err := NewMongoCache(ctx, "", ""); err == nil {
		t.Error("NewMongoCache(\"\") should fail")
	}
	if _, err := NewMongoCache(ctx, "http://localhost", ""); err == nil || !strings.Contains(err.Error(), "mongo: connect") {
		t.Errorf("NewMongoCache(bad scheme) = %v", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		backend string
		want    string
	}{
		{"", "*cache.FileCache"},
		{"file", "*cache.FileCache"},
		{"Memory", "*cache.MemoryCache"},
		{"none", "*cache.NullCache"},
		{"off", "*cache.NullCache"},
	}
	for _, tt := range tests {
		c, err := Open(ctx, Options{Backend: tt.backend, Dir: t.TempDir()})
		if err != nil {
			t.Fatalf("Open(%q): %v", tt.backend, err)
		}
		if got := fmt.Sprintf("%T", c); got != tt.want {
			t.Errorf("Open(%q) = %s, want %s", tt.backend, got, tt.want)
		}
		c.Close()
	}

	_, err := Open(ctx, Options{Backend: "memcached"})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(memcached) = %v, want ErrUnknownBackend", err)
	}
	if c, err := Open(ctx, Options{Backend: "redis"}); err == nil || c != nil {
		t.Errorf("Open(redis without url) = %v, %v", c, err)
	}
	if ValidBackend("memcached") || !ValidBackend("mongo") {
		t.Error("ValidBackend mismatch")
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
