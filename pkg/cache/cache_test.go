package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("hit on empty cache")
	}

	if err := c.Set(ctx, "k", []byte(`{"components":[]}`), 0); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != `{"components":[]}` {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("hit after Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}
	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Fatalf("Clear() = %d, %v", n, err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("hit after Clear")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := GenerationKeyOpts{Provider: "gemini", Model: "gemini-2.5-flash", Mode: "structured", Prompt: "add a cache"}
	g1 := k.GenerationKey(base)
	if !strings.HasPrefix(g1, "gen:") {
		t.Errorf("GenerationKey = %s", g1)
	}
	if g1 != k.GenerationKey(base) {
		t.Error("GenerationKey not deterministic")
	}

	withContext := base
	withContext.Context = "Current system has 1 components: Database"
	if g1 == k.GenerationKey(withContext) {
		t.Error("context should change the key")
	}

	r1 := k.RenderKey("abc", RenderKeyOpts{Format: "svg"})
	r2 := k.RenderKey("abc", RenderKeyOpts{Format: "png"})
	if r1 == r2 || !strings.HasPrefix(r1, "render:") {
		t.Errorf("RenderKey = %s, %s", r1, r2)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "session:123:")
	key := scoped.GenerationKey(GenerationKeyOpts{Prompt: "x"})
	if !strings.HasPrefix(key, "session:123:gen:") {
		t.Errorf("ScopedKeyer key = %s", key)
	}
	if key[len("session:123:"):] != NewDefaultKeyer().GenerationKey(GenerationKeyOpts{Prompt: "x"}) {
		t.Error("scoped key should wrap the inner key")
	}
}
