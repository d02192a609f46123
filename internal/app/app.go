// Package app fetches articles into a session, prints them and writes posts about the chosen ones.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/requester"
	"github.com/samber/lo"

	"github.com/deusflow/ainews/internal/chatgpt"
	"github.com/deusflow/ainews/internal/config"
	"github.com/deusflow/ainews/internal/export"
	"github.com/deusflow/ainews/internal/gemini"
	"github.com/deusflow/ainews/internal/logger"
	"github.com/deusflow/ainews/internal/metrics"
	"github.com/deusflow/ainews/internal/news"
	"github.com/deusflow/ainews/internal/ratelimit"
	"github.com/deusflow/ainews/internal/rss"
	"github.com/deusflow/ainews/internal/scraper"
	"github.com/deusflow/ainews/internal/synth"
)

// App runs user operations against a session.
type App struct {
	log     *slog.Logger
	in      *bufio.Reader
	out     io.Writer
	metrics *metrics.Metrics
	now     func() time.Time
	dialers map[synth.Provider]synth.Dialer
}

// Option customizes the App.
type Option func(*App)

// WithMetrics sets the counters to report to.
func WithMetrics(m *metrics.Metrics) Option { return func(a *App) { a.metrics = m } }

// WithClock sets the time source used for export names and timings.
func WithClock(now func() time.Time) Option { return func(a *App) { a.now = now } }

// WithDialers replaces provider dialers built from the generation options.
func WithDialers(d map[synth.Provider]synth.Dialer) Option { return func(a *App) { a.dialers = d } }

// New makes an App reading answers from in and printing to out.
func New(lg *slog.Logger, in io.Reader, out io.Writer, opts ...Option) *App {
	a := &App{
		log:     lg,
		in:      bufio.NewReader(in),
		out:     out,
		metrics: metrics.Global,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Fetch replaces the session articles with fresh ones from the enabled sources and prints them.
// Failed sources are reported, the articles of the others are kept.
func (a *App) Fetch(ctx context.Context, sess *Session, cfg config.Fetch, full bool) error {
	ctx = logger.ContextWithSessionID(ctx, sess.ID)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid fetch options: %w", err)
	}

	rules, err := loadRules(cfg.SourcesFile)
	if err != nil {
		return err
	}

	cl := scraper.NewClient(a.log.With(slog.String("component", "http")), cfg.Timeout, cfg.UserAgent)
	adapters, err := buildAdapters(a.log, cl, rules)
	if err != nil {
		return err
	}

	agg := news.NewAggregator(a.log.With(slog.String("component", "aggregator")), adapters...)

	a.log.InfoContext(ctx, "fetching articles",
		slog.Any("sources", cfg.Sources),
		slog.Int("count", cfg.Count),
	)

	start := a.now()
	articles, err := agg.FetchArticles(ctx, cfg.Sources, cfg.Count)
	a.metrics.RecordProcessingTime(a.now().Sub(start))
	a.metrics.AddArticlesFetched(len(articles))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		for range failures(err) {
			a.metrics.IncrementSourceFailures()
		}
		a.metrics.SetError(err.Error())
		a.log.WarnContext(ctx, "some sources failed", slog.Any("err", err))
		fmt.Fprintf(a.out, "Warning: some sources failed:\n%v\n\n", err)
		if errors.Is(err, news.ErrUnknownSource) {
			fmt.Fprintf(a.out, "Available sources: %s\n\n", strings.Join(agg.Sources(), ", "))
		}
	} else {
		a.metrics.SetLastRun()
	}

	sess.SetArticles(articles)
	a.log.InfoContext(ctx, "articles fetched", slog.Int("count", len(articles)))

	return a.printArticles(sess.Articles, full)
}

func (a *App) printArticles(articles []news.Article, full bool) error {
	if len(articles) == 0 {
		_, err := fmt.Fprintln(a.out, "No articles found. Try different sources or check your internet connection.")
		return err
	}

	fmt.Fprintf(a.out, "Found %d articles\n\n", len(articles))
	if err := renderTable(a.out, articles); err != nil {
		return fmt.Errorf("render articles: %w", err)
	}

	if !full {
		return nil
	}

	fmt.Fprintln(a.out)
	for i, art := range articles {
		if err := renderArticle(a.out, art, i+1); err != nil {
			return fmt.Errorf("render article: %w", err)
		}
	}
	return nil
}

// Generate writes a post about every picked article of the session, prints it and exports it.
// Generation failures are reported per article and do not stop the others.
func (a *App) Generate(ctx context.Context, sess *Session, cfg config.Generate) error {
	ctx = logger.ContextWithSessionID(ctx, sess.ID)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid generation options: %w", err)
	}

	style, err := cfg.Style()
	if err != nil {
		return err
	}

	if len(sess.Articles) == 0 {
		_, err := fmt.Fprintln(a.out, "No articles to write about.")
		return err
	}

	picks, err := a.picks(cfg.Pick, len(sess.Articles))
	if err != nil {
		return err
	}

	budget := ratelimit.NewBudget(a.log.With(slog.String("component", "ratelimit")), cfg.MaxRequests)
	syn := synth.New(a.log.With(slog.String("component", "synth")), a.dialersFor(cfg))
	defer func() { a.metrics.SetGenerationBudget(budget.Stats()) }()

	for _, n := range picks {
		if err := sess.Select(n); err != nil {
			return err
		}

		if err := budget.Use(); err != nil {
			a.log.WarnContext(ctx, "generation skipped", slog.Int("article", n), slog.Any("err", err))
			fmt.Fprintf(a.out, "Skipping article %d: %v\n", n, err)
			break
		}

		fmt.Fprintf(a.out, "Analyzing article %d: %s\n\n", n, sess.Selected.Title)

		start := a.now()
		post, err := a.synthesize(ctx, syn, *sess.Selected, style, cfg)
		a.metrics.RecordProcessingTime(a.now().Sub(start))

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			a.metrics.IncrementFailedGenerations()
			a.metrics.SetError(err.Error())
			a.log.ErrorContext(ctx, "failed to generate post", slog.Int("article", n), slog.Any("err", err))

			if errors.Is(err, synth.ErrMissingCredential) {
				fmt.Fprintln(a.out, missingKeyMessage(style.Model))
				return nil
			}

			fmt.Fprintf(a.out, "Error generating post with %s: %v\n\n", style.Model, err)
			continue
		}

		sess.Post = post
		a.metrics.IncrementPostsGenerated()
		a.metrics.SetLastRun()

		if err := renderPost(a.out, *sess.Selected, post); err != nil {
			return fmt.Errorf("render post: %w", err)
		}

		name := export.FileName(a.now())
		if len(picks) > 1 {
			name = export.NumberedFileName(a.now(), n)
		}

		path, err := export.Save(cfg.OutDir, name, post)
		if err != nil {
			a.metrics.SetError(err.Error())
			a.log.ErrorContext(ctx, "failed to export post", slog.Any("err", err))
			fmt.Fprintf(a.out, "Failed to save post: %v\n\n", err)
			continue
		}

		a.metrics.IncrementPostsExported()
		a.log.InfoContext(ctx, "post exported", slog.String("path", path))
		fmt.Fprintf(a.out, "Post saved to %s\n\n", path)
	}

	return nil
}

func (a *App) synthesize(
	ctx context.Context,
	syn *synth.Synthesizer,
	article news.Article,
	style synth.Style,
	cfg config.Generate,
) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	return syn.Synthesize(ctx, article, style, cfg.APIKey(style.Model))
}

// picks returns chosen article numbers, asking the user when none are given.
func (a *App) picks(given string, total int) ([]int, error) {
	if strings.TrimSpace(given) == "" {
		fmt.Fprintf(a.out, "Select article(s) for detailed analysis, 1-%d, comma separated: ", total)

		line, err := a.in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return nil, fmt.Errorf("read selection: %w", err)
		}
		fmt.Fprintln(a.out)
		given = line
	}

	return parsePicks(given, total)
}

// parsePicks parses comma separated 1-based article numbers.
func parsePicks(s string, total int) ([]int, error) {
	var res []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid article number %q", part)
		}
		if n < 1 || n > total {
			return nil, fmt.Errorf("article %d is out of range 1..%d", n, total)
		}
		res = append(res, n)
	}

	if len(res) == 0 {
		return nil, errors.New("no articles selected")
	}

	return lo.Uniq(res), nil
}

func (a *App) dialersFor(cfg config.Generate) map[synth.Provider]synth.Dialer {
	if a.dialers != nil {
		return a.dialers
	}

	lg := a.log.With(slog.String("component", "chatgpt"))
	cl := requester.New(
		http.Client{},
		logger.LoggingRoundTripper(lg, logger.RoundTripperOpts{
			Level:         slog.LevelDebug,
			SecretHeaders: []string{"Authorization"},
		}),
	).Client()

	return map[synth.Provider]synth.Dialer{
		synth.ProviderGemini: gemini.Dial,
		synth.ProviderOpenAI: chatgpt.Dialer(lg, cl, cfg.OpenAI.BaseURL, cfg.OpenAI.MaxTokens),
	}
}

func missingKeyMessage(model string) string {
	p, _ := synth.ProviderOf(model)
	if p == synth.ProviderOpenAI {
		return "OpenAI API key is not set, pass --openai.token or set OPENAI_API_KEY."
	}
	return "Google Gemini API key is not set, pass --gemini-key or set GEMINI_API_KEY."
}

func loadRules(path string) ([]scraper.Rule, error) {
	if path == "" {
		return scraper.DefaultRules()
	}
	return scraper.LoadRules(path)
}

// buildAdapters makes an adapter per rule according to its kind.
func buildAdapters(lg *slog.Logger, cl *http.Client, rules []scraper.Rule) ([]news.Adapter, error) {
	res := make([]news.Adapter, 0, len(rules))
	for _, r := range rules {
		alg := lg.With(slog.String("component", "source"), slog.String("source", r.Name))

		switch r.Kind {
		case scraper.KindArticle:
			res = append(res, scraper.NewArticleAdapter(alg, cl, r))
		case scraper.KindPaper:
			res = append(res, scraper.NewPaperAdapter(alg, cl, r))
		case scraper.KindFeed:
			res = append(res, rss.NewAdapter(alg, cl, r))
		default:
			return nil, fmt.Errorf("source %q: unsupported kind %q", r.Name, r.Kind)
		}
	}
	return res, nil
}

// failures unpacks errors joined by the aggregator.
func failures(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
