package store

import (
	"context"
	"errors"
	"testing"
)

type testDoc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileStore_UpsertGetRoundTrip(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	ctx := context.Background()

	if err := st.Upsert(ctx, "summaries", "tech_2025-03-14", testDoc{Name: "tech", Count: 3}); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	var got testDoc
	if err := st.Get(ctx, "summaries", "tech_2025-03-14", &got); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Name != "tech" || got.Count != 3 {
		t.Errorf("got %+v, want {tech 3}", got)
	}
}

func TestFileStore_MissingDocumentReturnsNotFound(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	var got testDoc
	err = st.Get(context.Background(), "summaries", "absent", &got)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestFileStore_UpsertReplacesDocument(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	ctx := context.Background()

	if err := st.Upsert(ctx, "summaries", "k", testDoc{Count: 1}); err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}
	if err := st.Upsert(ctx, "summaries", "k", testDoc{Count: 2}); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	var got testDoc
	if err := st.Get(ctx, "summaries", "k", &got); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Count != 2 {
		t.Errorf("Count = %d, want 2 after replacement", got.Count)
	}

	docs, err := st.List(ctx, "summaries")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("List returned %d documents, want 1", len(docs))
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if err := first.Upsert(ctx, "newsletters", "alice_2025-03-14", testDoc{Name: "alice"}); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	second, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopening store failed: %v", err)
	}
	var got testDoc
	if err := second.Get(ctx, "newsletters", "alice_2025-03-14", &got); err != nil {
		t.Fatalf("Get after reopen returned error: %v", err)
	}
	if got.Name != "alice" {
		t.Errorf("got %+v, want alice's document", got)
	}
}
