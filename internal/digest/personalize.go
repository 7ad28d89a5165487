package digest

import (
	"context"
	"errors"
	"time"

	"ainewsletter/internal/logger"
	"ainewsletter/internal/metrics"
	"ainewsletter/internal/store"
)

// Personalizer joins a subscriber's topic set against the stored per-topic
// digests for one day.
type Personalizer struct {
	store store.Store
}

func NewPersonalizer(s store.Store) *Personalizer {
	return &Personalizer{store: s}
}

// Personalize assembles a subscriber's digest. Topics without a stored
// digest are silently omitted; a store error on one topic is treated as
// that topic being absent and does not abort the remaining topics.
func (p *Personalizer) Personalize(ctx context.Context, userID string, topics []string, day time.Time) *PersonalDigest {
	pd := &PersonalDigest{
		UserID:   userID,
		Date:     day.Format(DateLayout),
		Sections: []Section{},
	}

	for _, topic := range topics {
		var td TopicDigest
		err := p.store.Get(ctx, CollectionSummaries, DocKey(topic, day), &td)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				logger.Warn("topic digest lookup failed, treating as absent", "user", userID, "topic", topic, "error", err)
			}
			continue
		}
		if len(td.Articles) == 0 {
			continue
		}

		pd.Sections = append(pd.Sections, Section{Topic: topic, Articles: td.Articles})
		pd.TotalArticles += len(td.Articles)
	}

	return pd
}

// StoreNewsletter persists the personalized digest for delivery. If a
// newsletter for this (subscriber, day) was already delivered, the stored
// document is returned untouched so a rerun cannot reset the delivered
// flag and trigger a second send.
func (p *Personalizer) StoreNewsletter(ctx context.Context, pd *PersonalDigest) (*NewsletterDoc, error) {
	key := pd.UserID + "_" + pd.Date

	var existing NewsletterDoc
	err := p.store.Get(ctx, CollectionNewsletters, key, &existing)
	if err == nil && existing.Delivered {
		logger.Info("newsletter already delivered today, keeping stored document", "user", pd.UserID, "date", pd.Date)
		return &existing, nil
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	doc := &NewsletterDoc{
		UserID:    pd.UserID,
		Date:      pd.Date,
		Content:   *pd,
		CreatedAt: time.Now().UTC(),
		Delivered: false,
	}
	if err := p.store.Upsert(ctx, CollectionNewsletters, key, doc); err != nil {
		return nil, err
	}

	metrics.Global.IncrementNewslettersBuilt()
	logger.Info("stored newsletter", "user", pd.UserID, "articles", pd.TotalArticles)
	return doc, nil
}
