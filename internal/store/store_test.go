package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/valpere/doctran/internal"
	"github.com/valpere/doctran/internal/cache"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testKey(text string) cache.Key {
	return cache.Key{
		Text:           text,
		TargetLanguage: "Ukrainian",
		Instructions:   "Translate faithfully.",
		Model:          "models/gemini-2.5-flash",
	}
}

func TestStore_New(t *testing.T) {
	s := newTestStore(t)
	if s == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestStore_New_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/test.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestStore_ImplementsCache(t *testing.T) {
	var _ cache.Cache = (*Store)(nil)
}

func TestStore_Get_Miss(t *testing.T) {
	s := newTestStore(t)

	_, found, err := s.Get(context.Background(), testKey("Hello world"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("expected cache miss")
	}
}

func TestStore_PutAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, testKey("Hello world"), "Привіт світ"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, found, err := s.Get(ctx, testKey("Hello world"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("expected cache hit")
	}
	if got != "Привіт світ" {
		t.Errorf("expected %q, got %q", "Привіт світ", got)
	}
}

func TestStore_Get_KeyFieldsMatter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.Put(ctx, testKey("Hello"), "Привіт")

	k := testKey("Hello")
	k.Instructions = "Use a formal register."
	if _, found, _ := s.Get(ctx, k); found {
		t.Error("expected miss when instructions differ")
	}

	k = testKey("Hello")
	k.Model = "models/gemini-2.5-pro"
	if _, found, _ := s.Get(ctx, k); found {
		t.Error("expected miss when model differs")
	}
}

func TestStore_Get_ComparesTextExactly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// "é" precomposed vs. "e" + combining acute accent.
	_ = s.Put(ctx, testKey("caf\u00e9"), "кафе")

	if _, found, err := s.Get(ctx, testKey("cafe\u0301")); err != nil || found {
		t.Errorf("expected a miss for byte-distinct text, got found=%v err=%v", found, err)
	}
	if got, found, _ := s.Get(ctx, testKey("caf\u00e9")); !found || got != "кафе" {
		t.Errorf("expected exact hit, got found=%v %q", found, got)
	}
}

func TestStore_EntriesStatsDeleteClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.Put(ctx, testKey("one"), "1")
	_ = s.Put(ctx, testKey("two"), "2")
	_, _, _ = s.Get(ctx, testKey("one"))

	entries, err := s.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Entries != 2 || stats.TotalUsage != 3 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	if err := s.Delete(ctx, entries[0].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	n, err := s.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 entry cleared, got %d", n)
	}
}

func TestStore_SaveAndListJobs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := internal.JobRecord{
		ID:             "job-1",
		Kind:           "text",
		TargetLanguage: "Hindi",
		Model:          "models/gemini-2.5-flash",
		Status:         "done",
		TotalChunks:    1,
		ResultText:     "नमस्ते",
		Timestamp:      time.Now().Add(-time.Hour),
	}
	newer := internal.JobRecord{
		ID:              "job-2",
		Kind:            "document",
		Filename:        "report.pdf",
		Format:          "pdf",
		TargetLanguage:  "Hindi",
		Model:           "models/gemini-2.5-flash",
		Status:          "done",
		TotalChunks:     4,
		FailedChunks:    []int{2, 4},
		DroppedSegments: 1,
		Timestamp:       time.Now(),
	}

	for _, j := range []internal.JobRecord{older, newer} {
		if err := s.SaveJob(ctx, j); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}
	}

	jobs, err := s.ListJobs(ctx, 0)
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != "job-2" {
		t.Errorf("expected newest job first, got %s", jobs[0].ID)
	}
	if !reflect.DeepEqual(jobs[0].FailedChunks, []int{2, 4}) {
		t.Errorf("expected failed chunks [2 4], got %v", jobs[0].FailedChunks)
	}
	if jobs[1].FailedChunks != nil {
		t.Errorf("expected no failed chunks, got %v", jobs[1].FailedChunks)
	}

	limited, err := s.ListJobs(ctx, 1)
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 job with limit, got %d", len(limited))
	}
}
