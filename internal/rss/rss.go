package rss

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/deusflow/ainews/internal/news"
	"github.com/deusflow/ainews/internal/scraper"
)

// Adapter reads articles from an RSS or Atom feed.
type Adapter struct {
	log    *slog.Logger
	rule   scraper.Rule
	parser *gofeed.Parser
}

// NewAdapter makes an adapter for a rule of kind feed.
func NewAdapter(lg *slog.Logger, cl *http.Client, rule scraper.Rule) *Adapter {
	parser := gofeed.NewParser()
	parser.Client = cl

	return &Adapter{log: lg, rule: rule, parser: parser}
}

// Name returns the source name.
func (a *Adapter) Name() string { return a.rule.Name }

// Fetch downloads and parses the feed, returns up to max items.
func (a *Adapter) Fetch(ctx context.Context, max int) ([]news.Article, error) {
	feed, err := a.parser.ParseURLWithContext(a.rule.ListingURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var out []news.Article
	for i, item := range feed.Items {
		if len(out) >= max {
			break
		}

		article := news.Article{
			Title:   strings.Join(strings.Fields(item.Title), " "),
			URL:     absoluteLink(item.Link),
			Summary: plainText(item.Description),
			Date:    item.Published,
			Source:  a.rule.Label,
		}
		if !article.Valid() {
			a.log.DebugContext(ctx, "skip feed item without title or link", slog.Int("index", i))
			continue
		}

		out = append(out, article)
	}

	a.log.DebugContext(ctx, "loaded feed", slog.String("url", a.rule.ListingURL), slog.Int("items", len(feed.Items)))
	return out, nil
}

func absoluteLink(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return u.String()
}

// plainText strips markup from a feed description.
func plainText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
