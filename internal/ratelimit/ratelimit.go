package ratelimit

import (
	"fmt"
	"sync"

	"ainewsletter/internal/logger"
)

// Budget caps the number of model calls one pipeline run may make.
// A limit of 0 means unlimited for that call kind.
type Budget struct {
	mu           sync.Mutex
	summaryCount int
	embedCount   int
	totalCount   int
	maxSummary   int
	maxEmbed     int
	maxTotal     int
}

func NewBudget(maxSummary, maxEmbed, maxTotal int) *Budget {
	return &Budget{
		maxSummary: maxSummary,
		maxEmbed:   maxEmbed,
		maxTotal:   maxTotal,
	}
}

// UseSummary reserves one summarization call, or reports the exhausted budget.
func (b *Budget) UseSummary() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.maxSummary > 0 && b.summaryCount >= b.maxSummary {
		return fmt.Errorf("summary budget exceeded (%d/%d)", b.summaryCount, b.maxSummary)
	}
	if b.maxTotal > 0 && b.totalCount >= b.maxTotal {
		return fmt.Errorf("total model budget exceeded (%d/%d)", b.totalCount, b.maxTotal)
	}

	b.summaryCount++
	b.totalCount++
	logger.Debug("model usage", "summaries", b.summaryCount, "embeddings", b.embedCount, "total", b.totalCount)
	return nil
}

// UseEmbed reserves one embedding call, or reports the exhausted budget.
func (b *Budget) UseEmbed() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.maxEmbed > 0 && b.embedCount >= b.maxEmbed {
		return fmt.Errorf("embedding budget exceeded (%d/%d)", b.embedCount, b.maxEmbed)
	}
	if b.maxTotal > 0 && b.totalCount >= b.maxTotal {
		return fmt.Errorf("total model budget exceeded (%d/%d)", b.totalCount, b.maxTotal)
	}

	b.embedCount++
	b.totalCount++
	logger.Debug("model usage", "summaries", b.summaryCount, "embeddings", b.embedCount, "total", b.totalCount)
	return nil
}

func (b *Budget) Stats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	return map[string]interface{}{
		"summaries_used":   b.summaryCount,
		"summaries_limit":  b.maxSummary,
		"embeddings_used":  b.embedCount,
		"embeddings_limit": b.maxEmbed,
		"total_used":       b.totalCount,
		"total_limit":      b.maxTotal,
	}
}
