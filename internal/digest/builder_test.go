package digest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ainewsletter/internal/store"
)

func testDay(t *testing.T) time.Time {
	t.Helper()
	day, err := time.Parse(DateLayout, "2025-03-14")
	if err != nil {
		t.Fatalf("failed to parse test day: %v", err)
	}
	return day
}

func sampleArticles(n int) []SummarizedArticle {
	articles := make([]SummarizedArticle, 0, n)
	for i := 0; i < n; i++ {
		articles = append(articles, SummarizedArticle{
			Header:  fmt.Sprintf("Headline %d", i),
			Summary: fmt.Sprintf("Summary of article %d. More detail follows.", i),
			URL:     fmt.Sprintf("https://example.com/article-%d", i),
		})
	}
	return articles
}

func TestBuild_StoresDigestUnderTopicDateKey(t *testing.T) {
	st := store.NewMemoryStore()
	b := NewBuilder(st)
	day := testDay(t)

	d, err := b.Build(context.Background(), "tech", day, sampleArticles(3))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if d.Count != 3 || len(d.Articles) != 3 {
		t.Errorf("digest count = %d with %d articles, want 3 and 3", d.Count, len(d.Articles))
	}
	if d.Date != "2025-03-14" {
		t.Errorf("digest date = %q, want %q", d.Date, "2025-03-14")
	}

	var stored TopicDigest
	if err := st.Get(context.Background(), CollectionSummaries, "tech_2025-03-14", &stored); err != nil {
		t.Fatalf("stored digest not found under expected key: %v", err)
	}
	if stored.Topic != "tech" || stored.Count != 3 {
		t.Errorf("stored digest = %+v, want topic tech with 3 articles", stored)
	}
}

func TestBuild_EmptyListWritesNothing(t *testing.T) {
	st := store.NewMemoryStore()
	b := NewBuilder(st)

	d, err := b.Build(context.Background(), "tech", testDay(t), nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if d != nil {
		t.Errorf("Build returned a digest for empty input: %+v", d)
	}
	if n := st.Len(CollectionSummaries); n != 0 {
		t.Errorf("store holds %d documents, want 0: no news must mean no document", n)
	}
}

func TestBuild_RerunReplacesDigest(t *testing.T) {
	st := store.NewMemoryStore()
	b := NewBuilder(st)
	day := testDay(t)
	ctx := context.Background()

	if _, err := b.Build(ctx, "tech", day, sampleArticles(3)); err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	if _, err := b.Build(ctx, "tech", day, sampleArticles(1)); err != nil {
		t.Fatalf("second Build failed: %v", err)
	}

	if n := st.Len(CollectionSummaries); n != 1 {
		t.Fatalf("store holds %d documents, want 1: reruns must replace, not append", n)
	}
	var stored TopicDigest
	if err := st.Get(ctx, CollectionSummaries, "tech_2025-03-14", &stored); err != nil {
		t.Fatalf("stored digest not found: %v", err)
	}
	if stored.Count != 1 {
		t.Errorf("stored count = %d, want 1 after rerun", stored.Count)
	}
}

func TestBuild_StoreFailurePropagates(t *testing.T) {
	st := store.NewMemoryStore()
	st.FailUpsert[CollectionSummaries] = fmt.Errorf("connection refused")
	b := NewBuilder(st)

	if _, err := b.Build(context.Background(), "tech", testDay(t), sampleArticles(1)); err == nil {
		t.Error("expected error when the store rejects the write")
	}
}
