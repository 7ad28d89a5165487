package digest

import (
	"context"
	"time"

	"ainewsletter/internal/logger"
	"ainewsletter/internal/metrics"
	"ainewsletter/internal/store"
)

// Builder wraps accepted, summarized articles into a TopicDigest and
// persists it. Pure aggregation; dedup and summarization happen upstream.
type Builder struct {
	store store.Store
}

func NewBuilder(s store.Store) *Builder {
	return &Builder{store: s}
}

// Build stores the digest for (topic, day) and returns it. An empty
// article list writes nothing: the absent document is the "no news today"
// state, distinct from an empty digest.
func (b *Builder) Build(ctx context.Context, topic string, day time.Time, articles []SummarizedArticle) (*TopicDigest, error) {
	if len(articles) == 0 {
		logger.Info("no summaries to store", "topic", topic)
		return nil, nil
	}

	d := &TopicDigest{
		Topic:     topic,
		Date:      day.Format(DateLayout),
		Articles:  articles,
		Count:     len(articles),
		CreatedAt: time.Now().UTC(),
	}

	if err := b.store.Upsert(ctx, CollectionSummaries, DocKey(topic, day), d); err != nil {
		return nil, err
	}

	metrics.Global.IncrementTopicDigestsStored()
	logger.Info("stored topic digest", "topic", topic, "articles", d.Count)
	return d, nil
}
