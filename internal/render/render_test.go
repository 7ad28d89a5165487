package render

import (
	"strings"
	"testing"

	"ainewsletter/internal/digest"
)

func testDigest() digest.PersonalDigest {
	return digest.PersonalDigest{
		UserID: "alice",
		Date:   "2025-03-14",
		Sections: []digest.Section{
			{Topic: "tech", Articles: []digest.SummarizedArticle{
				{Header: "Chip breakthrough", Summary: "A new chip was announced. It is fast.", URL: "https://example.com/chip", Original: digest.RawArticle{Source: "example.com"}},
				{Header: "Framework release", Summary: "A framework shipped version two.", URL: "https://example.com/fw"},
			}},
			{Topic: "science", Articles: []digest.SummarizedArticle{
				{Header: "Mars findings", Summary: "Researchers published new data.", URL: "https://example.com/mars", Image: "https://example.com/mars.jpg"},
			}},
		},
		TotalArticles: 3,
	}
}

func TestHTML_TOCLinksMatchSectionAnchors(t *testing.T) {
	html, err := HTML(testDigest(), ClassicMode())
	if err != nil {
		t.Fatalf("HTML returned error: %v", err)
	}

	for _, anchor := range []string{"article-1", "article-2", "article-3"} {
		if !strings.Contains(html, `href="#`+anchor+`"`) {
			t.Errorf("table of contents is missing link to %s", anchor)
		}
		if !strings.Contains(html, `id="`+anchor+`"`) {
			t.Errorf("no section carries anchor %s", anchor)
		}
	}
	if strings.Contains(html, `href="#article-4"`) {
		t.Error("table of contents links to a fourth article that does not exist")
	}
}

func TestHTML_ContainsAllContentAndFooter(t *testing.T) {
	d := testDigest()
	html, err := HTML(d, ClassicMode())
	if err != nil {
		t.Fatalf("HTML returned error: %v", err)
	}

	for _, want := range []string{
		"2025-03-14",
		"Chip breakthrough",
		"Framework release",
		"Mars findings",
		"https://example.com/chip",
		"https://example.com/mars.jpg",
		"tech", "science",
		"subscribed to these topics",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered email is missing %q", want)
		}
	}
}

func TestHTML_ModesDifferOnlyInPresentation(t *testing.T) {
	d := testDigest()

	classic, err := HTML(d, ClassicMode())
	if err != nil {
		t.Fatalf("classic render failed: %v", err)
	}
	minimal, err := HTML(d, MinimalMode())
	if err != nil {
		t.Fatalf("minimal render failed: %v", err)
	}

	if classic == minimal {
		t.Error("modes produced identical output")
	}
	for _, want := range []string{"Chip breakthrough", "Mars findings", "href=\"#article-3\""} {
		if !strings.Contains(minimal, want) {
			t.Errorf("minimal mode dropped content %q", want)
		}
	}
}

func TestHTML_EscapesArticleText(t *testing.T) {
	d := digest.PersonalDigest{
		Date: "2025-03-14",
		Sections: []digest.Section{
			{Topic: "tech", Articles: []digest.SummarizedArticle{
				{Header: "<script>alert(1)</script>", Summary: "Plain text.", URL: "https://example.com/x"},
			}},
		},
		TotalArticles: 1,
	}

	html, err := HTML(d, ClassicMode())
	if err != nil {
		t.Fatalf("HTML returned error: %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("article title was not escaped")
	}
}

func TestSubject(t *testing.T) {
	if got := Subject("2025-03-14"); got != "Your AI Newsletter for 2025-03-14" {
		t.Errorf("Subject = %q", got)
	}
}

func TestModeByName(t *testing.T) {
	if ModeByName("minimal").Name != "minimal" {
		t.Error("minimal mode not selected by name")
	}
	if ModeByName("classic").Name != "classic" {
		t.Error("classic mode not selected by name")
	}
	if ModeByName("").Name != "classic" {
		t.Error("unknown mode should fall back to classic")
	}
}

func TestSummaryBullets_SplitsSentences(t *testing.T) {
	bullets := summaryBullets("First fact. Second fact! Third fact?")
	if len(bullets) != 3 {
		t.Fatalf("got %d bullets, want 3: %v", len(bullets), bullets)
	}
	if bullets[0] != "First fact." {
		t.Errorf("first bullet = %q", bullets[0])
	}
}

func TestSummaryBullets_KeepsUnterminatedTail(t *testing.T) {
	bullets := summaryBullets("A complete sentence. And a trailing fragment")
	if len(bullets) != 2 {
		t.Fatalf("got %d bullets, want 2: %v", len(bullets), bullets)
	}
	if bullets[1] != "And a trailing fragment" {
		t.Errorf("tail bullet = %q", bullets[1])
	}
}
