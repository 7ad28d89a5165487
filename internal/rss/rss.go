// Package rss supplements the news API with per-topic RSS feeds.
package rss

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"

	"ainewsletter/internal/digest"
	"ainewsletter/internal/logger"
)

// FetchTopicFeeds downloads and parses the topic's feeds, keeping only
// items published on the given calendar day (UTC). Feed errors are logged
// and skipped; one broken feed never fails the topic.
func FetchTopicFeeds(ctx context.Context, topic string, urls []string, day time.Time) []digest.RawArticle {
	parser := gofeed.NewParser()
	today := day.UTC().Format(digest.DateLayout)

	var articles []digest.RawArticle
	for _, feedURL := range urls {
		feed, err := parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			logger.Warn("failed to parse RSS feed", "topic", topic, "feed", feedURL, "error", err)
			continue
		}

		kept := 0
		for _, item := range feed.Items {
			if item.Link == "" || item.PublishedParsed == nil {
				continue
			}
			if item.PublishedParsed.UTC().Format(digest.DateLayout) != today {
				continue
			}

			var image string
			if item.Image != nil {
				image = item.Image.URL
			}

			articles = append(articles, digest.RawArticle{
				URL:         item.Link,
				Title:       item.Title,
				Description: item.Description,
				PublishedAt: item.PublishedParsed.UTC(),
				ImageURL:    image,
				Source:      feed.Title,
			})
			kept++
		}
		logger.Debug("parsed RSS feed", "topic", topic, "feed", feedURL, "items", len(feed.Items), "kept", kept)
	}

	return articles
}
