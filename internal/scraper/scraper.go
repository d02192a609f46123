// Package scraper turns html listings into articles following per-source rules.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/deusflow/ainews/internal/news"
)

// ArticleAdapter reads a news listing and pulls the full body of every item from its page.
type ArticleAdapter struct {
	log  *slog.Logger
	cl   *http.Client
	rule Rule
}

// NewArticleAdapter makes an adapter for a rule of kind article.
func NewArticleAdapter(lg *slog.Logger, cl *http.Client, rule Rule) *ArticleAdapter {
	return &ArticleAdapter{log: lg, cl: cl, rule: rule}
}

// Name returns the source name.
func (a *ArticleAdapter) Name() string { return a.rule.Name }

// Fetch returns up to max articles from the listing. Detail pages are fetched one by one.
func (a *ArticleAdapter) Fetch(ctx context.Context, max int) ([]news.Article, error) {
	base, err := url.Parse(a.rule.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("parse listing url: %w", err)
	}

	doc, err := document(ctx, a.cl, a.rule.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("load listing: %w", err)
	}

	var out []news.Article
	doc.Find(a.rule.Item).EachWithBreak(func(i int, item *goquery.Selection) bool {
		if len(out) >= max || ctx.Err() != nil {
			return false
		}

		article, excerpt := a.parseItem(item, base)
		if !article.Valid() {
			a.log.DebugContext(ctx, "skip item without title or link", slog.Int("index", i))
			return true
		}

		article.Summary = a.body(ctx, article.URL, excerpt)
		out = append(out, article)
		return true
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (a *ArticleAdapter) parseItem(item *goquery.Selection, base *url.URL) (article news.Article, excerpt string) {
	titleEl := item.Find(a.rule.Title).First()
	article.Title = cleanText(titleEl.Text())

	linkEl := titleEl
	if a.rule.Link != "" {
		linkEl = item.Find(a.rule.Link).First()
	}
	href, _ := linkEl.Attr("href")
	article.URL = resolveURL(base, href)

	if a.rule.Date != "" {
		article.Date = fieldValue(item.Find(a.rule.Date).First(), a.rule.DateAttr)
	}

	article.Source = a.rule.Label
	if a.rule.Category != "" {
		if cat := cleanText(item.Find(a.rule.Category).First().Text()); cat != "" {
			article.Source = cat
		}
	}

	if a.rule.ExcerptAfter != "" {
		if text := textAfter(item.Find(a.rule.ExcerptAfter).First()); text != "" {
			excerpt = text + "..."
		}
	}

	return article, excerpt
}

// body loads the article page and extracts its text. It never fails: when the page can't
// be read the result explains why, and when it has no content region the excerpt is used.
func (a *ArticleAdapter) body(ctx context.Context, link, excerpt string) string {
	doc, err := document(ctx, a.cl, link)
	if err != nil {
		a.log.DebugContext(ctx, "failed to load article page", slog.String("url", link), slog.Any("err", err))

		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return fmt.Sprintf("Failed to fetch article (HTTP %d)", statusErr.Code)
		}
		return fmt.Sprintf("Error fetching content: %v", err)
	}

	if a.rule.Content == "" {
		return excerpt
	}

	region := doc.Find(a.rule.Content).First()
	if region.Length() == 0 {
		return excerpt
	}

	if len(a.rule.Noise) > 0 {
		region.Find(strings.Join(a.rule.Noise, ", ")).Remove()
	}

	var parts []string
	region.Find(strings.Join(a.rule.ContentTags, ", ")).Each(func(_ int, s *goquery.Selection) {
		if text := cleanText(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	if len(parts) == 0 {
		return excerpt
	}
	return strings.Join(parts, "\n")
}

// fieldValue returns the attribute when attr is set, otherwise the element text.
func fieldValue(s *goquery.Selection, attr string) string {
	if s.Length() == 0 {
		return ""
	}
	if attr == "" {
		return cleanText(s.Text())
	}
	v, _ := s.Attr(attr)
	return strings.TrimSpace(v)
}

// textAfter returns the first non-blank text node following the selected element.
func textAfter(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	for n := s.Nodes[0].NextSibling; n != nil; n = n.NextSibling {
		if n.Type != html.TextNode {
			continue
		}
		if text := cleanText(n.Data); text != "" {
			return text
		}
	}
	return ""
}
