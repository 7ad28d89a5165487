// Package newsapi fetches same-day articles per topic from thenewsapi.com.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ainewsletter/internal/digest"
	"ainewsletter/internal/logger"
)

const defaultBaseURL = "https://api.thenewsapi.com"

type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(token string, timeout time.Duration) *Client {
	return &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithBaseURL is used by tests to point at a stub server.
func NewClientWithBaseURL(token, baseURL string, timeout time.Duration) *Client {
	c := NewClient(token, timeout)
	c.baseURL = baseURL
	return c
}

type apiResponse struct {
	Data []apiArticle `json:"data"`
}

type apiArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"image_url"`
	PublishedAt string `json:"published_at"`
	Source      string `json:"source"`
}

// FetchTopic returns up to limit articles in the given topic category that
// were published on the given calendar day (UTC).
func (c *Client) FetchTopic(ctx context.Context, topic string, day time.Time, limit int) ([]digest.RawArticle, error) {
	params := url.Values{}
	params.Set("api_token", c.token)
	params.Set("categories", topic)
	params.Set("language", "en")
	params.Set("limit", "50")

	reqURL := c.baseURL + "/v1/news/all?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news API request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news API error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	today := day.UTC().Format(digest.DateLayout)
	var articles []digest.RawArticle
	for _, a := range parsed.Data {
		if a.URL == "" || a.PublishedAt == "" {
			continue
		}
		published, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err != nil {
			continue
		}
		if published.UTC().Format(digest.DateLayout) != today {
			continue
		}

		articles = append(articles, digest.RawArticle{
			URL:         a.URL,
			Title:       a.Title,
			Description: a.Description,
			PublishedAt: published.UTC(),
			ImageURL:    a.ImageURL,
			Source:      a.Source,
		})
		if limit > 0 && len(articles) >= limit {
			break
		}
	}

	logger.Info("fetched articles", "topic", topic, "kept", len(articles), "returned", len(parsed.Data))
	return articles, nil
}
