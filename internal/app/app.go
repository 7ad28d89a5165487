// Package app wires the collaborators together and runs the daily pipeline:
// fetch, extract, dedup, summarize, store, personalize, deliver.
package app

import (
	"context"
	"fmt"
	"time"

	"ainewsletter/internal/config"
	"ainewsletter/internal/dedup"
	"ainewsletter/internal/delivery"
	"ainewsletter/internal/digest"
	"ainewsletter/internal/gemini"
	"ainewsletter/internal/logger"
	"ainewsletter/internal/mailer"
	"ainewsletter/internal/metrics"
	"ainewsletter/internal/newsapi"
	"ainewsletter/internal/ratelimit"
	"ainewsletter/internal/render"
	"ainewsletter/internal/rss"
	"ainewsletter/internal/scraper"
	"ainewsletter/internal/store"
	"ainewsletter/internal/summarizer"
)

type App struct {
	cfg          *config.Config
	topics       []config.Topic
	store        store.Store
	gemini       *gemini.Client
	budget       *ratelimit.Budget
	filter       *dedup.Filter
	summarizer   summarizer.Summarizer
	news         *newsapi.Client
	extractor    *scraper.Extractor
	builder      *digest.Builder
	resolver     *digest.PreferenceResolver
	personalizer *digest.Personalizer
	orchestrator *delivery.Orchestrator
}

// budgetedEmbedder enforces the per-run embedding budget in front of the
// Gemini embedder.
type budgetedEmbedder struct {
	client *gemini.Client
	budget *ratelimit.Budget
}

func (e *budgetedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.budget.UseEmbed(); err != nil {
		return nil, err
	}
	return e.client.Embed(ctx, text)
}

// New constructs the full pipeline. Any failure here is fatal; a run with
// a missing collaborator would silently drop work.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	topics, err := config.LoadTopics(cfg.TopicsConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load topics: %w", err)
	}

	var st store.Store
	if cfg.DatabaseURL != "" {
		st, err = store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		logger.Info("using Postgres document store")
	} else {
		st, err = store.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open data directory: %w", err)
		}
		logger.Info("using file document store", "dir", cfg.DataDir)
	}

	gem, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close store", "error", cerr)
		}
		return nil, err
	}

	budget := ratelimit.NewBudget(cfg.MaxSummaryRequests, cfg.MaxEmbedRequests, 0)
	embedder := &budgetedEmbedder{client: gem, budget: budget}
	filter := dedup.NewFilter(embedder, dedup.NewMemoryCache(), cfg.SimilarityThreshold)

	resolver := digest.NewPreferenceResolver(st)
	sender := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.FromAddress)
	mode := render.ModeByName(cfg.RenderMode)

	return &App{
		cfg:          cfg,
		topics:       topics,
		store:        st,
		gemini:       gem,
		budget:       budget,
		filter:       filter,
		summarizer:   summarizer.NewChain(gem, cfg.OpenAIAPIKey, budget),
		news:         newsapi.NewClient(cfg.NewsAPIToken, cfg.RequestTimeout),
		extractor:    scraper.NewExtractor(cfg.RequestTimeout),
		builder:      digest.NewBuilder(st),
		resolver:     resolver,
		personalizer: digest.NewPersonalizer(st),
		orchestrator: delivery.NewOrchestrator(st, resolver, sender, mode),
	}, nil
}

func (a *App) Close() {
	a.gemini.Close()
	if err := a.store.Close(); err != nil {
		logger.Warn("failed to close store", "error", err)
	}
}

// Run executes one daily batch for today (UTC). A failed topic or
// subscriber never aborts the rest of the run.
func (a *App) Run(ctx context.Context) error {
	start := time.Now()
	day := time.Now().UTC()
	logger.Info("starting daily run", "date", day.Format(digest.DateLayout), "topics", len(a.topics))

	for _, topic := range a.topics {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.processTopic(ctx, topic, day)
	}

	a.deliverAll(ctx, day)

	metrics.Global.RecordRun(time.Since(start))
	logger.Info("daily run finished", "duration", time.Since(start).Round(time.Millisecond), "budget", a.budget.Stats())
	return nil
}

// processTopic runs fetch, extract, dedup, and summarize for one topic and
// stores the resulting digest.
func (a *App) processTopic(ctx context.Context, topic config.Topic, day time.Time) {
	raw, err := a.news.FetchTopic(ctx, topic.Name, day, 0)
	if err != nil {
		logger.Error("failed to fetch topic", "topic", topic.Name, "error", err)
		metrics.Global.SetError(fmt.Sprintf("fetch %s: %v", topic.Name, err))
		raw = nil
	}

	if len(topic.Feeds) > 0 {
		raw = append(raw, rss.FetchTopicFeeds(ctx, topic.Name, topic.Feeds, day)...)
	}

	raw = dedupeByURL(raw)
	if a.cfg.MaxArticlesPerTopic > 0 && len(raw) > a.cfg.MaxArticlesPerTopic {
		raw = raw[:a.cfg.MaxArticlesPerTopic]
	}

	metrics.Global.AddArticlesFetched(len(raw))
	if len(raw) == 0 {
		logger.Info("no articles today", "topic", topic.Name)
		return
	}

	batch := digest.RawBatch{
		Topic:     topic.Name,
		Date:      day.Format(digest.DateLayout),
		Articles:  raw,
		Count:     len(raw),
		FetchedAt: time.Now().UTC(),
	}
	key := digest.DocKey(topic.Name, day)
	if err := a.store.Upsert(ctx, digest.CollectionRawArticles, key, batch); err != nil {
		logger.Warn("failed to store raw articles", "topic", topic.Name, "error", err)
	}

	var summarized []digest.SummarizedArticle
	for _, article := range raw {
		if s := a.processArticle(ctx, topic.Name, article); s != nil {
			summarized = append(summarized, *s)
		}
	}

	if _, err := a.builder.Build(ctx, topic.Name, day, summarized); err != nil {
		logger.Error("failed to store topic digest", "topic", topic.Name, "error", err)
		metrics.Global.SetError(fmt.Sprintf("store digest %s: %v", topic.Name, err))
	}
}

// processArticle takes one raw article through extraction, the duplicate
// filter, and summarization. Returns nil when the article is skipped.
func (a *App) processArticle(ctx context.Context, topic string, article digest.RawArticle) *digest.SummarizedArticle {
	content, err := a.extractor.Extract(ctx, article.URL)
	if err != nil {
		logger.Warn("extraction failed, skipping article", "topic", topic, "url", article.URL, "error", err)
		metrics.Global.IncrementExtractionFailures()
		return nil
	}
	if scraper.WordCount(content.Content) < a.cfg.MinArticleWords {
		logger.Debug("article too short, skipping", "topic", topic, "url", article.URL)
		metrics.Global.IncrementExtractionFailures()
		return nil
	}

	admitted, err := a.filter.Admit(ctx, topic, content.Content)
	if err != nil {
		logger.Warn("duplicate check failed, skipping article", "topic", topic, "url", article.URL, "error", err)
		return nil
	}
	if !admitted {
		metrics.Global.IncrementDuplicatesFiltered()
		return nil
	}

	title := content.Title
	if title == "" {
		title = article.Title
	}

	summary, err := a.summarizer.Summarize(ctx, title, content.Content)
	if err != nil || summary == "" {
		logger.Warn("summarization failed, skipping article", "topic", topic, "url", article.URL, "error", err)
		metrics.Global.IncrementSummaryFailures()
		return nil
	}
	metrics.Global.IncrementSummariesCreated()

	image := content.ImageURL
	if image == "" {
		image = article.ImageURL
	}

	return &digest.SummarizedArticle{
		Header:   title,
		Summary:  summary,
		URL:      article.URL,
		Image:    image,
		Original: article,
	}
}

// deliverAll assembles and sends every subscriber's newsletter for the day.
func (a *App) deliverAll(ctx context.Context, day time.Time) {
	prefs, err := a.resolver.ResolveAll(ctx)
	if err != nil {
		logger.Error("failed to resolve subscribers, skipping delivery", "error", err)
		metrics.Global.SetError(fmt.Sprintf("resolve subscribers: %v", err))
		return
	}

	for userID, topics := range prefs {
		if err := ctx.Err(); err != nil {
			return
		}

		pd := a.personalizer.Personalize(ctx, userID, topics, day)
		if pd.TotalArticles == 0 {
			logger.Info("no content for subscriber today, skipping", "user", userID)
			metrics.Global.IncrementEmailsSkipped()
			continue
		}

		doc, err := a.personalizer.StoreNewsletter(ctx, pd)
		if err != nil {
			logger.Error("failed to store newsletter", "user", userID, "error", err)
			metrics.Global.IncrementEmailsFailed()
			continue
		}

		result := a.orchestrator.Deliver(ctx, doc)
		logger.Info("delivery result", "user", result.UserID, "status", result.Status, "reason", result.Reason)
	}
}

// dedupeByURL drops exact URL repeats that occur when the API and an RSS
// feed return the same article. First occurrence wins.
func dedupeByURL(articles []digest.RawArticle) []digest.RawArticle {
	seen := make(map[string]bool, len(articles))
	var out []digest.RawArticle
	for _, a := range articles {
		if a.URL == "" || seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		out = append(out, a)
	}
	return out
}
