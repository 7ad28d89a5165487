package gemini

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	summaryModel   = "gemini-1.5-flash"
	embeddingModel = "text-embedding-004"

	// maxPromptChars bounds article text sent for summarization.
	maxPromptChars = 6000
)

type Client struct {
	client *genai.Client
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: client}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Summarize produces a short abstractive summary of one article.
func (c *Client) Summarize(ctx context.Context, title, content string) (string, error) {
	model := c.client.GenerativeModel(summaryModel)

	content = truncateForPrompt(content)

	prompt := fmt.Sprintf(`Summarize this news article in 3 to 5 plain sentences for a daily email digest.
State the concrete facts of the story. Do not restate the headline, do not add opinions, and do not open with phrases like "This article is about".

HEADLINE: %s

ARTICLE:
%s`, title, content)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	summary := SanitizeSummary(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	if summary == "" {
		return "", fmt.Errorf("empty summary from Gemini")
	}
	return summary, nil
}

// Embed returns the embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	em := c.client.EmbeddingModel(embeddingModel)

	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if res == nil || res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding values returned")
	}

	return res.Embedding.Values, nil
}

// truncateForPrompt collapses whitespace and cuts over-long article text on
// a rune boundary, preferring a sentence end.
func truncateForPrompt(content string) string {
	content = strings.ReplaceAll(content, "\r", "")
	content = strings.TrimSpace(content)
	content = strings.Join(strings.Fields(content), " ")

	if utf8.RuneCountInString(content) <= maxPromptChars {
		return content
	}

	runes := []rune(content)
	trimmed := string(runes[:maxPromptChars])
	if idx := strings.LastIndex(trimmed, ". "); idx > 1200 {
		trimmed = trimmed[:idx+1]
	}
	return trimmed + "\n[TRUNCATED]"
}

var (
	labelPrefix    = regexp.MustCompile(`(?i)^(summary|tl;dr|digest)\s*:\s*`)
	noteLine       = regexp.MustCompile(`(?i)^\[?\(?\s*note\s*:.*$`)
	inlineNote     = regexp.MustCompile(`(?i)[\[(]\s*note\s*:[^)\]]*[)\]]`)
	bulletMarker   = regexp.MustCompile(`^\s*[-*•]\s+`)
	codeFenceLines = regexp.MustCompile("(?m)^```[a-z]*\\s*$")
)

// SanitizeSummary strips model boilerplate: markdown fences, "Summary:"
// labels, bullet markers, and disclaimer notes.
func SanitizeSummary(s string) string {
	s = codeFenceLines.ReplaceAllString(s, "")
	s = inlineNote.ReplaceAllString(s, "")

	var kept []string
	for _, raw := range strings.Split(s, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if noteLine.MatchString(line) {
			continue
		}
		line = labelPrefix.ReplaceAllString(line, "")
		line = bulletMarker.ReplaceAllString(line, "")
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}

	return strings.TrimSpace(strings.Join(kept, " "))
}
