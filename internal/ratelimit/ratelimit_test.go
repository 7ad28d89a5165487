package ratelimit

import "testing"

func TestBudget_SummaryLimitEnforced(t *testing.T) {
	b := NewBudget(2, 0, 0)

	if err := b.UseSummary(); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if err := b.UseSummary(); err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if err := b.UseSummary(); err == nil {
		t.Error("third call should exceed the summary budget")
	}
}

func TestBudget_TotalLimitCoversBothKinds(t *testing.T) {
	b := NewBudget(0, 0, 2)

	if err := b.UseSummary(); err != nil {
		t.Fatalf("summary call failed: %v", err)
	}
	if err := b.UseEmbed(); err != nil {
		t.Fatalf("embed call failed: %v", err)
	}
	if err := b.UseEmbed(); err == nil {
		t.Error("third call should exceed the total budget")
	}
}

func TestBudget_ZeroMeansUnlimited(t *testing.T) {
	b := NewBudget(0, 0, 0)
	for i := 0; i < 100; i++ {
		if err := b.UseSummary(); err != nil {
			t.Fatalf("call %d failed under unlimited budget: %v", i, err)
		}
		if err := b.UseEmbed(); err != nil {
			t.Fatalf("call %d failed under unlimited budget: %v", i, err)
		}
	}
}

func TestBudget_StatsReportUsage(t *testing.T) {
	b := NewBudget(5, 5, 0)
	_ = b.UseSummary()
	_ = b.UseEmbed()
	_ = b.UseEmbed()

	stats := b.Stats()
	if stats["summaries_used"] != 1 {
		t.Errorf("summaries_used = %v, want 1", stats["summaries_used"])
	}
	if stats["embeddings_used"] != 2 {
		t.Errorf("embeddings_used = %v, want 2", stats["embeddings_used"])
	}
	if stats["total_used"] != 3 {
		t.Errorf("total_used = %v, want 3", stats["total_used"])
	}
}
