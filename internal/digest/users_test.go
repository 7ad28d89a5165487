package digest

import (
	"context"
	"testing"

	"ainewsletter/internal/store"
)

func TestResolveAll_SkipsSubscribersWithoutTopics(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	seed := map[string]User{
		"alice": {Email: "alice@example.com", Topics: []string{"tech", "science"}},
		"bob":   {Email: "bob@example.com", Topics: nil},
		"carol": {Email: "carol@example.com", Topics: []string{"sports"}},
	}
	for id, u := range seed {
		if err := st.Upsert(ctx, CollectionUsers, id, u); err != nil {
			t.Fatalf("failed to seed user %s: %v", id, err)
		}
	}

	r := NewPreferenceResolver(st)
	prefs, err := r.ResolveAll(ctx)
	if err != nil {
		t.Fatalf("ResolveAll returned error: %v", err)
	}

	if len(prefs) != 2 {
		t.Fatalf("resolved %d subscribers, want 2", len(prefs))
	}
	if _, ok := prefs["bob"]; ok {
		t.Error("subscriber with no topics was included")
	}
	if got := prefs["alice"]; len(got) != 2 || got[0] != "tech" {
		t.Errorf("alice's topics = %v, want [tech science]", got)
	}
}

func TestGetUser_MissingUserReturnsNotFound(t *testing.T) {
	r := NewPreferenceResolver(store.NewMemoryStore())
	if _, err := r.GetUser(context.Background(), "nobody"); err == nil {
		t.Error("expected error for unknown subscriber")
	}
}
