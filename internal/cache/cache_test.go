package cache

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
)

func testKey(text string) Key {
	return Key{
		Text:           text,
		TargetLanguage: "Hindi",
		Instructions:   "Translate.",
		Model:          "models/gemini-2.5-flash",
	}
}

func TestKey_Hash_DistinguishesFields(t *testing.T) {
	base := testKey("hello")
	variants := []Key{
		{Text: "hello!", TargetLanguage: base.TargetLanguage, Instructions: base.Instructions, Model: base.Model},
		{Text: base.Text, TargetLanguage: "Tamil", Instructions: base.Instructions, Model: base.Model},
		{Text: base.Text, TargetLanguage: base.TargetLanguage, Instructions: "Be formal.", Model: base.Model},
		{Text: base.Text, TargetLanguage: base.TargetLanguage, Instructions: base.Instructions, Model: "models/gemini-2.5-pro"},
		// Field boundaries must not be ambiguous.
		{Text: "helloHindi", TargetLanguage: "", Instructions: base.Instructions, Model: base.Model},
	}

	for i, v := range variants {
		if v.Hash() == base.Hash() {
			t.Errorf("variant %d collides with base key", i)
		}
	}
	if base.Hash() != testKey("hello").Hash() {
		t.Error("expected identical keys to hash identically")
	}
}

func TestMemory_Unbounded(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	if _, ok, _ := m.Get(ctx, testKey("a")); ok {
		t.Fatal("expected miss on empty cache")
	}

	for _, s := range []string{"a", "b", "c"} {
		if err := m.Put(ctx, testKey(s), "t-"+s); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	got, ok, err := m.Get(ctx, testKey("a"))
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got != "t-a" {
		t.Errorf("expected %q, got %q", "t-a", got)
	}
	if m.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", m.Len())
	}
}

func TestMemory_BoundedEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)

	_ = m.Put(ctx, testKey("a"), "A")
	_ = m.Put(ctx, testKey("b"), "B")
	// Touch "a" so "b" becomes the eviction candidate.
	_, _, _ = m.Get(ctx, testKey("a"))
	_ = m.Put(ctx, testKey("c"), "C")

	if m.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", m.Len())
	}
	if _, ok, _ := m.Get(ctx, testKey("b")); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok, _ := m.Get(ctx, testKey("a")); !ok {
		t.Error("expected a to survive")
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k := testKey(string(rune('a' + i%26)))
			_ = m.Put(ctx, k, "x")
			_, _, _ = m.Get(ctx, k)
		}(i)
	}
	wg.Wait()

	if m.Len() != 26 {
		t.Errorf("expected 26 entries, got %d", m.Len())
	}
}

func TestBolt_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	b, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt failed: %v", err)
	}

	if _, ok, err := b.Get(ctx, testKey("hello")); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	if err := b.Put(ctx, testKey("hello"), "नमस्ते"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Entries survive reopening.
	b, err = OpenBolt(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer b.Close()

	got, ok, err := b.Get(ctx, testKey("hello"))
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got != "नमस्ते" {
		t.Errorf("expected %q, got %q", "नमस्ते", got)
	}

	other := testKey("hello")
	other.Model = "models/gemini-2.5-pro"
	if _, ok, _ := b.Get(ctx, other); ok {
		t.Error("expected miss for a different model")
	}
}

func TestBolt_EntriesStatsClear(t *testing.T) {
	ctx := context.Background()
	b, err := OpenBolt(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenBolt failed: %v", err)
	}
	defer b.Close()

	_ = b.Put(ctx, testKey("one"), "1")
	_ = b.Put(ctx, testKey("two"), "2")
	_, _, _ = b.Get(ctx, testKey("one"))

	entries, err := b.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	stats, err := b.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Entries != 2 || stats.TotalUsage != 3 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	if err := b.Delete(ctx, entries[0].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	n, err := b.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 cleared, got %d", n)
	}
	if _, ok, _ := b.Get(ctx, testKey("one")); ok {
		t.Error("expected miss after Clear")
	}
}
