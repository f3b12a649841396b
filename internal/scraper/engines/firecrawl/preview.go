package firecrawl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mendableai/firecrawl-go"

	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/logging"
	"job-hunt-agent/internal/logging/types"
	"job-hunt-agent/pkg/models"
	"job-hunt-agent/pkg/utils"
)

const markdownExcerptRunes = 1500

// FirecrawlPreviewer scrapes single pages through the Firecrawl SDK
type FirecrawlPreviewer struct {
	app    *firecrawl.FirecrawlApp
	logger types.Logger
}

// NewFirecrawlPreviewer creates a previewer authenticated with apiKey
func NewFirecrawlPreviewer(cfg *config.Config, apiKey string, logger types.Logger) (*FirecrawlPreviewer, error) {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	app, err := firecrawl.NewFirecrawlApp(apiKey, cfg.Firecrawl.APIURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firecrawl: %w", err)
	}

	return &FirecrawlPreviewer{
		app:    app,
		logger: logger.WithField("component", "firecrawl_preview"),
	}, nil
}

// Preview scrapes url and summarises what the page exposes
func (p *FirecrawlPreviewer) Preview(ctx context.Context, url string) (*models.PreviewResponse, error) {
	if err := validateURLs([]string{url}); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	p.logger.Info("Scraping page preview", map[string]interface{}{"url": url})

	// The SDK call does not take a context
	doc, err := p.app.ScrapeURL(url, &firecrawl.ScrapeParams{
		Formats: []string{"markdown", "html"},
	})
	if err != nil {
		return nil, fmt.Errorf("firecrawl scrape failed: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("no result returned from Firecrawl")
	}

	title, links := SummarizeHTML(doc.HTML)
	if title == "" {
		title = firstMarkdownHeading(doc.Markdown)
	}

	preview := &models.PreviewResponse{
		URL:             url,
		Title:           title,
		LinkCount:       links,
		MarkdownExcerpt: utils.TruncateForLog(strings.TrimSpace(doc.Markdown), markdownExcerptRunes),
		ProcessingTime:  time.Since(startTime),
	}

	p.logger.Info("Page preview scraped", map[string]interface{}{
		"url":            url,
		"title":          title,
		"link_count":     links,
		"content_length": len(doc.Markdown),
	})
	return preview, nil
}

// SummarizeHTML returns the page title and the number of outgoing links
func SummarizeHTML(html string) (string, int) {
	if strings.TrimSpace(html) == "" {
		return "", 0
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", 0
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	links := 0
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href != "" && !strings.HasPrefix(href, "#") && !strings.HasPrefix(strings.ToLower(href), "javascript:") {
			links++
		}
	})

	return title, links
}

func firstMarkdownHeading(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return ""
}
