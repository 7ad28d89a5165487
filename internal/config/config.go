package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Collaborator credentials
	NewsAPIToken string
	GeminiAPIKey string
	OpenAIAPIKey string // optional summarizer fallback

	// Document store: Postgres when DatabaseURL is set, JSON files otherwise
	DatabaseURL string
	DataDir     string

	// Email transport
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromAddress  string

	// Pipeline settings
	TopicsConfigPath    string
	MaxArticlesPerTopic int
	MinArticleWords     int
	SimilarityThreshold float64
	RenderMode          string // "classic" or "minimal"

	// Model budget per run (0 = unlimited)
	MaxSummaryRequests int
	MaxEmbedRequests   int

	// App settings
	Debug          bool
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		// Default values
		DataDir:             "data",
		TopicsConfigPath:    "configs/topics.yaml",
		MaxArticlesPerTopic: 3,
		MinArticleWords:     50,
		SimilarityThreshold: 0.95,
		RenderMode:          "classic",
		MaxSummaryRequests:  0,
		MaxEmbedRequests:    0,
		RequestTimeout:      30 * time.Second,
		RetryAttempts:       3,
		RetryDelay:          2 * time.Second,
		SMTPPort:            587,
	}

	cfg.NewsAPIToken = os.Getenv("THENEWS_API_TOKEN")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.FromAddress = os.Getenv("SMTP_FROM")

	cfg.DataDir = getEnvOrDefault("DATA_DIR", cfg.DataDir)
	cfg.TopicsConfigPath = getEnvOrDefault("TOPICS_CONFIG_PATH", cfg.TopicsConfigPath)
	cfg.RenderMode = getEnvOrDefault("RENDER_MODE", cfg.RenderMode)

	cfg.SMTPPort = getEnvIntOrDefault("SMTP_PORT", cfg.SMTPPort)
	cfg.MaxArticlesPerTopic = getEnvIntOrDefault("MAX_ARTICLES_PER_TOPIC", cfg.MaxArticlesPerTopic)
	cfg.MinArticleWords = getEnvIntOrDefault("MIN_ARTICLE_WORDS", cfg.MinArticleWords)
	cfg.MaxSummaryRequests = getEnvIntOrDefault("MAX_SUMMARY_REQUESTS", cfg.MaxSummaryRequests)
	cfg.MaxEmbedRequests = getEnvIntOrDefault("MAX_EMBED_REQUESTS", cfg.MaxEmbedRequests)
	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)

	if v := os.Getenv("SIMILARITY_THRESHOLD"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil && val > 0 && val <= 1 {
			cfg.SimilarityThreshold = val
		}
	}

	if v := os.Getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RequestTimeout = time.Duration(val) * time.Second
		}
	}

	if v := os.Getenv("RETRY_DELAY_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RetryDelay = time.Duration(val) * time.Second
		}
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.NewsAPIToken == "" {
		return fmt.Errorf("THENEWS_API_TOKEN is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST is required")
	}
	if c.FromAddress == "" {
		return fmt.Errorf("SMTP_FROM is required")
	}
	if c.RenderMode != "classic" && c.RenderMode != "minimal" {
		return fmt.Errorf("RENDER_MODE must be 'classic' or 'minimal'")
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("SIMILARITY_THRESHOLD must be in (0, 1]")
	}
	return nil
}

// Topic is one subject line of the daily run. Feeds are optional RSS
// supplements merged with the news API results for that topic.
type Topic struct {
	Name  string   `yaml:"name"`
	Feeds []string `yaml:"feeds"`
}

type topicsFile struct {
	Topics []Topic `yaml:"topics"`
}

// LoadTopics reads the topic list from a YAML file.
func LoadTopics(path string) ([]Topic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tf topicsFile
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&tf); err != nil {
		return nil, err
	}
	if len(tf.Topics) == 0 {
		return nil, fmt.Errorf("no topics configured in %s", path)
	}
	return tf.Topics, nil
}
