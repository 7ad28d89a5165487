package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	ArticlesFetched    int64
	ExtractionFailures int64
	DuplicatesFiltered int64
	SummariesCreated   int64
	SummaryFailures    int64
	TopicDigestsStored int64
	NewslettersBuilt   int64
	EmailsSent         int64
	EmailsSkipped      int64
	EmailsFailed       int64

	// Timings
	LastRunDuration  time.Duration
	TotalRunDuration time.Duration
	RunCount         int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddArticlesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFetched += int64(n)
}

func (m *Metrics) IncrementExtractionFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExtractionFailures++
}

func (m *Metrics) IncrementDuplicatesFiltered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered++
}

func (m *Metrics) IncrementSummariesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummariesCreated++
}

func (m *Metrics) IncrementSummaryFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummaryFailures++
}

func (m *Metrics) IncrementTopicDigestsStored() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TopicDigestsStored++
}

func (m *Metrics) IncrementNewslettersBuilt() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NewslettersBuilt++
}

func (m *Metrics) IncrementEmailsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmailsSent++
}

func (m *Metrics) IncrementEmailsSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmailsSkipped++
}

func (m *Metrics) IncrementEmailsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmailsFailed++
}

func (m *Metrics) RecordRun(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastRunDuration = duration
	m.TotalRunDuration += duration
	m.RunCount++
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"articles_fetched":     m.ArticlesFetched,
		"extraction_failures":  m.ExtractionFailures,
		"duplicates_filtered":  m.DuplicatesFiltered,
		"summaries_created":    m.SummariesCreated,
		"summary_failures":     m.SummaryFailures,
		"topic_digests_stored": m.TopicDigestsStored,
		"newsletters_built":    m.NewslettersBuilt,
		"emails_sent":          m.EmailsSent,
		"emails_skipped":       m.EmailsSkipped,
		"emails_failed":        m.EmailsFailed,
		"last_run_duration_ms": m.LastRunDuration.Milliseconds(),
		"last_run_time":        m.LastRunTime.Format(time.RFC3339),
		"last_error_time":      m.LastErrorTime.Format(time.RFC3339),
		"last_error":           m.LastError,
		"is_healthy":           m.IsHealthy,
	}
}
