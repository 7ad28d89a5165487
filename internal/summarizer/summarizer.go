// Package summarizer provides the summarization chain: Gemini first, an
// OpenAI fallback when configured, and a plain extractive fallback so an
// article never fails the run just because every model call failed.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"ainewsletter/internal/gemini"
	"ainewsletter/internal/logger"
	"ainewsletter/internal/ratelimit"
)

type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (string, error)
}

type Chain struct {
	gemini    *gemini.Client
	openaiKey string
	budget    *ratelimit.Budget
}

func NewChain(g *gemini.Client, openaiKey string, budget *ratelimit.Budget) *Chain {
	return &Chain{gemini: g, openaiKey: openaiKey, budget: budget}
}

// Summarize runs the fallback chain. It only returns an error when the
// article text itself is unusable.
func (c *Chain) Summarize(ctx context.Context, title, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("no content to summarize")
	}

	if err := c.budget.UseSummary(); err != nil {
		logger.Warn("skipping Gemini summary", "error", err)
	} else {
		summary, err := c.gemini.Summarize(ctx, title, content)
		if err == nil && summary != "" {
			return summary, nil
		}
		logger.Warn("Gemini summarization failed", "title", title, "error", err)
	}

	if c.openaiKey != "" {
		summary, err := c.summarizeWithOpenAI(ctx, title, content)
		if err == nil && summary != "" {
			logger.Info("used OpenAI fallback summary", "title", title)
			return summary, nil
		}
		logger.Warn("OpenAI summarization failed", "title", title, "error", err)
	}

	return Extractive(content), nil
}

func (c *Chain) summarizeWithOpenAI(ctx context.Context, title, content string) (string, error) {
	client := openai.NewClient(c.openaiKey)

	if len(content) > 8000 {
		content = content[:8000]
	}

	prompt := fmt.Sprintf(`Summarize the following news article in 3 to 5 plain sentences for a daily email digest.
State the concrete facts only. No headline restatement, no opinions.

Headline: %s

Article:
%s`, title, content)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxCompletionTokens: 500,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return gemini.SanitizeSummary(resp.Choices[0].Message.Content), nil
}

// Extractive picks the first substantial sentences of the article. Last
// resort when no model is available.
func Extractive(content string) string {
	c := strings.TrimSpace(content)
	if c == "" {
		return ""
	}

	sentences := strings.Split(c, ".")
	var picked []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if len(s) < 25 {
			continue
		}
		picked = append(picked, s)
		if len(picked) >= 3 {
			break
		}
	}

	if len(picked) == 0 {
		if len(c) > 200 {
			return c[:200] + "..."
		}
		return c
	}
	return strings.Join(picked, ". ") + "."
}
