package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/deusflow/ainews/internal/news"
)

const (
	untitled          = "Untitled"
	unknownAuthors    = "Unknown authors"
	dateNotAvailable  = "Date not available"
	previewHeader     = "**HTML Preview:** "
	authorsHeader     = "**Authors:** "
	nonContentElement = "script, style, noscript"
)

// PaperAdapter reads a paper listing made of item/body sibling pairs and keeps the
// full-text rendering of each paper when the listing links one.
type PaperAdapter struct {
	log  *slog.Logger
	cl   *http.Client
	rule Rule
}

// NewPaperAdapter makes an adapter for a rule of kind paper.
func NewPaperAdapter(lg *slog.Logger, cl *http.Client, rule Rule) *PaperAdapter {
	return &PaperAdapter{log: lg, cl: cl, rule: rule}
}

// Name returns the source name.
func (p *PaperAdapter) Name() string { return p.rule.Name }

// Fetch returns up to max papers from the listing.
func (p *PaperAdapter) Fetch(ctx context.Context, max int) ([]news.Article, error) {
	base, err := url.Parse(p.rule.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("parse listing url: %w", err)
	}

	doc, err := document(ctx, p.cl, p.rule.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("load listing: %w", err)
	}

	var out []news.Article
	doc.Find(p.rule.Item).EachWithBreak(func(i int, item *goquery.Selection) bool {
		if len(out) >= max || ctx.Err() != nil {
			return false
		}

		article, ok := p.parseItem(ctx, item, base)
		if !ok {
			p.log.DebugContext(ctx, "skip malformed paper entry", slog.Int("index", i))
			return true
		}

		out = append(out, article)
		return true
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (p *PaperAdapter) parseItem(ctx context.Context, item *goquery.Selection, base *url.URL) (news.Article, bool) {
	body := item.NextAllFiltered(p.rule.Body).First()
	if body.Length() == 0 {
		return news.Article{}, false
	}

	href, _ := item.Find(p.rule.Link).First().Attr("href")
	link := p.paperURL(base, href)
	if link == "" {
		return news.Article{}, false
	}

	article := news.Article{
		Title:  p.field(body, p.rule.Title, untitled),
		URL:    link,
		Date:   p.field(body, p.rule.Date, dateNotAvailable),
		Source: p.rule.Label,
	}

	authors := p.field(body, p.rule.Authors, unknownAuthors)
	summary := authorsHeader + authors

	if p.rule.FullText != "" {
		if fullHref, ok := item.Find(p.rule.FullText).First().Attr("href"); ok {
			if text := p.fullText(ctx, resolveURL(base, fullHref)); text != "" {
				article.ExtendedText = text
				preview := strings.ReplaceAll(truncateRunes(text, p.rule.PreviewChars), "\n", " ")
				summary += "\n\n" + previewHeader + preview + "..."
			}
		}
	}

	article.Summary = summary
	return article, true
}

// paperURL rebuilds the canonical link from the last path segment of href when
// link_base is set, otherwise resolves href as is.
func (p *PaperAdapter) paperURL(base *url.URL, href string) string {
	abs := resolveURL(base, href)
	if abs == "" || p.rule.LinkBase == "" {
		return abs
	}

	u, err := url.Parse(abs)
	if err != nil {
		return ""
	}
	id := path.Base(strings.TrimSuffix(u.Path, "/"))
	if id == "" || id == "." || id == "/" {
		return ""
	}
	return p.rule.LinkBase + id
}

func (p *PaperAdapter) field(body *goquery.Selection, selector, fallback string) string {
	if selector == "" {
		return fallback
	}

	sel := body.Find(selector).First()
	if sel.Length() == 0 {
		return fallback
	}

	text := cleanText(sel.Text())
	for _, prefix := range p.rule.StripPrefixes {
		text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
	}
	if text == "" {
		return fallback
	}
	return text
}

// fullText loads the full-text rendering and returns its plain text, empty on any failure.
func (p *PaperAdapter) fullText(ctx context.Context, link string) string {
	if link == "" {
		return ""
	}

	doc, err := document(ctx, p.cl, link)
	if err != nil {
		p.log.DebugContext(ctx, "skip full text", slog.String("url", link), slog.Any("err", err))
		return ""
	}

	doc.Find(nonContentElement).Remove()
	return strings.TrimSpace(doc.Find("body").Text())
}
