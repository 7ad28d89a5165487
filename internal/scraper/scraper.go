package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ArticleContent is the plain-text extraction of one article page.
type ArticleContent struct {
	Title    string
	Content  string
	ImageURL string
	URL      string
}

type Extractor struct {
	httpClient *http.Client
}

func NewExtractor(timeout time.Duration) *Extractor {
	return &Extractor{httpClient: &http.Client{Timeout: timeout}}
}

// Extract downloads and parses the article page into plain text.
func (e *Extractor) Extract(ctx context.Context, url string) (*ArticleContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; newsletter-bot)")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}

	return ExtractFromDocument(doc, url)
}

// ExtractFromDocument pulls content out of an already-parsed page. Split
// out so tests can feed static HTML.
func ExtractFromDocument(doc *goquery.Document, url string) (*ArticleContent, error) {
	content := cleanContent(extractBody(doc))
	if content == "" {
		return nil, fmt.Errorf("no article content found")
	}

	return &ArticleContent{
		Title:    extractTitle(doc),
		Content:  content,
		ImageURL: extractLeadImage(doc),
		URL:      url,
	}, nil
}

// extractBody walks a cascade of common article containers and takes the
// first selector that yields paragraphs.
func extractBody(doc *goquery.Document) string {
	selectors := []string{
		"article p",
		".article-body p",
		".article-content p",
		".post-content p",
		".entry-content p",
		".content p",
		"main p",
		"p",
	}

	var paragraphs []string
	for _, selector := range selectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text != "" && len(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= 3 {
			break
		}
		paragraphs = paragraphs[:0]
	}

	// Fall back to whatever a sparse page offers.
	if len(paragraphs) == 0 {
		doc.Find("p").Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text != "" && len(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
		})
	}

	return strings.Join(paragraphs, "\n\n")
}

func extractTitle(doc *goquery.Document) string {
	selectors := []string{
		"h1",
		".article-title",
		".headline",
		".entry-title",
		"title",
	}

	for _, selector := range selectors {
		title := strings.TrimSpace(doc.Find(selector).First().Text())
		if title != "" {
			return title
		}
	}
	return ""
}

func extractLeadImage(doc *goquery.Document) string {
	if img, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok {
		return strings.TrimSpace(img)
	}
	if img, ok := doc.Find("article img").First().Attr("src"); ok {
		return strings.TrimSpace(img)
	}
	return ""
}

var junkIndicators = []string{
	"cookie", "gdpr", "advertisement", "subscribe to", "sign up for",
	"read more", "click here", "follow us", "share this", "related articles",
	"newsletter", "privacy policy", "terms of service", "log in",
}

// cleanContent drops boilerplate lines and reassembles paragraphs,
// capping total length while keeping whole paragraphs.
func cleanContent(content string) string {
	if content == "" {
		return ""
	}

	var cleanLines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 8 {
			continue
		}

		lower := strings.ToLower(line)
		isJunk := false
		for _, indicator := range junkIndicators {
			if strings.Contains(lower, indicator) {
				isJunk = true
				break
			}
		}
		if isJunk {
			continue
		}

		cleanLines = append(cleanLines, line)
	}

	result := strings.Join(cleanLines, "\n\n")
	for strings.Contains(result, "  ") {
		result = strings.ReplaceAll(result, "  ", " ")
	}
	result = strings.TrimSpace(result)

	if len(result) > 8000 {
		paragraphs := strings.Split(result, "\n\n")
		var selected []string
		total := 0
		for _, p := range paragraphs {
			if total+len(p) > 7500 {
				break
			}
			selected = append(selected, p)
			total += len(p) + 2
		}
		if len(selected) > 0 {
			result = strings.Join(selected, "\n\n")
		}
	}

	return result
}

// WordCount reports how many whitespace-separated words the text has.
// Articles below the configured minimum are skipped before summarization.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
