// Package render turns a personalized digest into a self-contained HTML
// email: date header, anchored table of contents, per-article sections,
// and a footer. Two visual modes exist; they differ only in presentation,
// never in data.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"ainewsletter/internal/digest"
)

// Mode is a visual style for the newsletter. Data semantics are identical
// across modes.
type Mode struct {
	Name            string
	HeaderColor     string
	BackgroundColor string
	TextColor       string
	LinkColor       string
	BorderColor     string
	MaxWidth        string
	FontFamily      string
}

func ClassicMode() *Mode {
	return &Mode{
		Name:            "classic",
		HeaderColor:     "#2563eb",
		BackgroundColor: "#f8fafc",
		TextColor:       "#1e293b",
		LinkColor:       "#3b82f6",
		BorderColor:     "#e2e8f0",
		MaxWidth:        "640px",
		FontFamily:      "system-ui, -apple-system, 'Segoe UI', Roboto, sans-serif",
	}
}

func MinimalMode() *Mode {
	return &Mode{
		Name:            "minimal",
		HeaderColor:     "#374151",
		BackgroundColor: "#ffffff",
		TextColor:       "#111827",
		LinkColor:       "#6366f1",
		BorderColor:     "#e5e7eb",
		MaxWidth:        "560px",
		FontFamily:      "Georgia, 'Times New Roman', serif",
	}
}

// ModeByName maps a config value to a Mode, defaulting to classic.
func ModeByName(name string) *Mode {
	if name == "minimal" {
		return MinimalMode()
	}
	return ClassicMode()
}

// Subject builds the outbound email subject for a digest date.
func Subject(date string) string {
	return fmt.Sprintf("Your AI Newsletter for %s", date)
}

type tocEntry struct {
	Anchor string
	Topic  string
	Title  string
}

type articleView struct {
	Anchor  string
	Title   string
	URL     string
	Source  string
	Image   string
	Bullets []string
}

type sectionView struct {
	Topic    string
	Articles []articleView
}

type emailView struct {
	Date     string
	Total    int
	TOC      []tocEntry
	Sections []sectionView
	Mode     *Mode
	CSS      template.HTML
}

const emailTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Your AI Newsletter</title>
{{.CSS}}
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Your AI Newsletter</h1>
    <p class="date">{{.Date}}</p>
  </div>
  <div class="content">
    <h2>In this issue ({{.Total}} articles)</h2>
    <ul class="toc">
      {{range .TOC}}
      <li><span class="toc-topic">{{.Topic}}</span> <a href="#{{.Anchor}}">{{.Title}}</a></li>
      {{end}}
    </ul>

    {{range .Sections}}
    <h2 class="topic-title">{{.Topic}}</h2>
    {{range .Articles}}
    <div class="article-card" id="{{.Anchor}}">
      <h3 class="article-title">{{.Title}}</h3>
      {{if .Image}}<img class="article-image" src="{{.Image}}" alt="">{{end}}
      <ul class="article-summary">
        {{range .Bullets}}
        <li>{{.}}</li>
        {{end}}
      </ul>
      <p class="article-meta"><a href="{{.URL}}">Read the full story{{if .Source}} at {{.Source}}{{end}}</a></p>
    </div>
    {{end}}
    {{end}}
  </div>
  <div class="footer">
    <p>You are receiving this because you subscribed to these topics.</p>
    <p>Generated on {{.Date}} by your AI newsletter.</p>
  </div>
</div>
</body>
</html>`

func modeCSS(m *Mode) string {
	return fmt.Sprintf(`<style type="text/css">
  body {
    margin: 0;
    padding: 0;
    background-color: %s;
    font-family: %s;
    color: %s;
    line-height: 1.6;
  }
  .container {
    max-width: %s;
    margin: 0 auto;
    background-color: #ffffff;
    border: 1px solid %s;
    border-radius: 8px;
    overflow: hidden;
  }
  .header {
    background-color: %s;
    color: #ffffff;
    padding: 24px;
    text-align: center;
  }
  .header h1 { margin: 0; font-size: 24px; }
  .header .date { margin: 8px 0 0 0; font-size: 14px; opacity: 0.9; }
  .content { padding: 24px; }
  h2 {
    font-size: 20px;
    border-bottom: 2px solid %s;
    padding-bottom: 8px;
  }
  .topic-title { text-transform: uppercase; letter-spacing: 0.5px; }
  .toc { padding-left: 20px; }
  .toc-topic {
    font-size: 12px;
    text-transform: uppercase;
    color: #64748b;
    margin-right: 6px;
  }
  a { color: %s; text-decoration: none; }
  a:hover { text-decoration: underline; }
  .article-card {
    border: 1px solid %s;
    border-radius: 6px;
    padding: 20px;
    margin: 16px 0;
  }
  .article-title { margin: 0 0 12px 0; font-size: 18px; }
  .article-image { max-width: 100%%; border-radius: 4px; }
  .article-summary { margin: 0 0 12px 0; padding-left: 20px; }
  .article-meta { font-size: 13px; margin: 0; }
  .footer {
    background-color: #f1f5f9;
    padding: 20px 24px;
    text-align: center;
    font-size: 13px;
    color: #64748b;
    border-top: 1px solid %s;
  }
</style>`,
		m.BackgroundColor, m.FontFamily, m.TextColor, m.MaxWidth, m.BorderColor,
		m.HeaderColor, m.BorderColor, m.LinkColor, m.BorderColor, m.BorderColor)
}

// HTML renders the digest in the given mode.
func HTML(pd digest.PersonalDigest, mode *Mode) (string, error) {
	if mode == nil {
		mode = ClassicMode()
	}

	view := emailView{
		Date:  pd.Date,
		Total: pd.TotalArticles,
		Mode:  mode,
		CSS:   template.HTML(modeCSS(mode)),
	}

	n := 0
	for _, section := range pd.Sections {
		sv := sectionView{Topic: section.Topic}
		for _, article := range section.Articles {
			n++
			anchor := fmt.Sprintf("article-%d", n)
			av := articleView{
				Anchor:  anchor,
				Title:   article.Header,
				URL:     article.URL,
				Source:  article.Original.Source,
				Image:   article.Image,
				Bullets: summaryBullets(article.Summary),
			}
			sv.Articles = append(sv.Articles, av)
			view.TOC = append(view.TOC, tocEntry{Anchor: anchor, Topic: section.Topic, Title: article.Header})
		}
		view.Sections = append(view.Sections, sv)
	}

	tmpl, err := template.New("email").Parse(emailTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return buf.String(), nil
}

// summaryBullets splits a summary into one bullet per sentence. A summary
// always yields at least one bullet.
func summaryBullets(summary string) []string {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil
	}

	var bullets []string
	var current strings.Builder
	for _, r := range summary {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(current.String())
			if len(s) > 2 {
				bullets = append(bullets, s)
			}
			current.Reset()
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		bullets = append(bullets, rest)
	}

	if len(bullets) == 0 {
		bullets = []string{summary}
	}
	return bullets
}
