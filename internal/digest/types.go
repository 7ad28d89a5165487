// Package digest holds the pipeline's record types and the aggregation
// stages that turn summarized articles into stored digests.
package digest

import "time"

// DateLayout is the calendar-day key format used in every document id.
const DateLayout = "2006-01-02"

// Document store collections.
const (
	CollectionRawArticles = "raw_articles"
	CollectionSummaries   = "summaries"
	CollectionNewsletters = "newsletters"
	CollectionUsers       = "users"
)

// RawArticle is one article as returned by the news source, scoped to a
// single topic and calendar day. Immutable once fetched.
type RawArticle struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	ImageURL    string    `json:"image_url,omitempty"`
	Source      string    `json:"source,omitempty"`
}

// RawBatch is the persisted raw_articles document for one (topic, date).
type RawBatch struct {
	Topic     string       `json:"topic"`
	Date      string       `json:"date"`
	Articles  []RawArticle `json:"articles"`
	Count     int          `json:"count"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// SummarizedArticle joins extraction and summarization output for one
// article that passed the duplicate filter.
type SummarizedArticle struct {
	Header   string     `json:"header"`
	Summary  string     `json:"summary"`
	URL      string     `json:"url"`
	Image    string     `json:"image,omitempty"`
	Original RawArticle `json:"original_article"`
}

// TopicDigest is the stored per-topic result for one day, keyed
// {topic}_{date}. Reruns replace it wholesale.
type TopicDigest struct {
	Topic     string              `json:"topic"`
	Date      string              `json:"date"`
	Articles  []SummarizedArticle `json:"summaries"`
	Count     int                 `json:"count"`
	CreatedAt time.Time           `json:"created_at"`
}

// Section is one topic's slice of a personalized digest.
type Section struct {
	Topic    string              `json:"topic"`
	Articles []SummarizedArticle `json:"articles"`
}

// PersonalDigest is the assembled content for one subscriber and day.
type PersonalDigest struct {
	UserID        string    `json:"user_id"`
	Date          string    `json:"date"`
	Sections      []Section `json:"sections"`
	TotalArticles int       `json:"total_articles"`
}

// NewsletterDoc is the stored newsletters document, keyed
// {subscriber}_{date}. Delivered transitions false to true exactly once,
// after a confirmed send.
type NewsletterDoc struct {
	UserID    string         `json:"user_id"`
	Date      string         `json:"date"`
	Content   PersonalDigest `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	Delivered bool           `json:"delivered"`
}

// User is a subscriber profile document, keyed by subscriber id.
// Owned by an external profile service; read-only here.
type User struct {
	Email  string   `json:"email"`
	Topics []string `json:"topics"`
}

// DocKey builds the {name}_{date} document id shared by the per-day
// collections.
func DocKey(name string, day time.Time) string {
	return name + "_" + day.Format(DateLayout)
}
