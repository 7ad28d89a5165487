// Package dedup suppresses near-duplicate coverage of the same story
// within one pipeline run, using pairwise cosine similarity over article
// embeddings.
package dedup

import (
	"context"
	"math"
	"strings"
	"sync"

	"ainewsletter/internal/logger"
)

// DefaultThreshold is the cosine similarity above which two articles are
// treated as the same story.
const DefaultThreshold = 0.95

// Embedder turns article text into a vector. Satisfied by the Gemini
// client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Cache holds the embeddings admitted so far, per topic. It lives for one
// run; a shared backing store can be substituted without touching the
// filter algorithm.
type Cache interface {
	Lookup(topic string) [][]float32
	Append(topic string, vec []float32)
}

// MemoryCache is the default single-run Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	vectors map[string][][]float32
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{vectors: make(map[string][][]float32)}
}

func (c *MemoryCache) Lookup(topic string) [][]float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vectors[topic]
}

func (c *MemoryCache) Append(topic string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors[topic] = append(c.vectors[topic], vec)
}

// Filter decides, in arrival order, whether each candidate article is new
// coverage or a near-duplicate of something already admitted for its topic.
type Filter struct {
	embedder  Embedder
	cache     Cache
	threshold float64
}

func NewFilter(embedder Embedder, cache Cache, threshold float64) *Filter {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Filter{embedder: embedder, cache: cache, threshold: threshold}
}

// Admit reports whether the article should be kept. Rejection is silent:
// the first-seen article wins and the duplicate's embedding is discarded.
// Empty text is never admitted. An embedder error is returned so the
// caller can skip the article as a collaborator failure.
func (f *Filter) Admit(ctx context.Context, topic, text string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, nil
	}

	vec, err := f.embedder.Embed(ctx, text)
	if err != nil {
		return false, err
	}

	for _, prior := range f.cache.Lookup(topic) {
		if sim := CosineSimilarity(vec, prior); sim > f.threshold {
			logger.Debug("rejecting near-duplicate article", "topic", topic, "similarity", sim)
			return false, nil
		}
	}

	f.cache.Append(topic, vec)
	return true, nil
}

// CosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either has no magnitude or the lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
