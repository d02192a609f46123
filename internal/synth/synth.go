// Package synth composes a blog post prompt from an article and runs it through
// a text generation model.
package synth

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/deusflow/ainews/internal/news"
)

//go:embed data/prompt.tmpl
var prompt string

var promptTmpl = template.Must(template.New("prompt").Parse(prompt))

// ContentLimit caps the article content placed into the prompt, in characters.
const ContentLimit = 10000

var (
	// ErrMissingCredential is returned when no api key is given.
	ErrMissingCredential = errors.New("missing api credential")
	// ErrInvalidStyle is returned for options outside of the supported sets.
	ErrInvalidStyle = errors.New("invalid style")
	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("empty response")
)

//go:generate moq -out mock_generator.go . Generator

// Generator produces text with a model of one provider.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
	Close() error
}

// Dialer makes a generator authenticated with apiKey.
type Dialer func(ctx context.Context, apiKey string) (Generator, error)

// Synthesizer writes posts about articles.
type Synthesizer struct {
	log     *slog.Logger
	dialers map[Provider]Dialer
}

// New makes a synthesizer with a dialer per provider.
func New(lg *slog.Logger, dialers map[Provider]Dialer) *Synthesizer {
	return &Synthesizer{log: lg, dialers: dialers}
}

// Synthesize writes a post about the article in the given style. The generated text
// is returned as the model produced it. Nothing is sent when apiKey is empty.
func (s *Synthesizer) Synthesize(ctx context.Context, article news.Article, style Style, apiKey string) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", ErrMissingCredential
	}

	if err := style.Validate(); err != nil {
		return "", err
	}

	provider, err := ProviderOf(style.Model)
	if err != nil {
		return "", err
	}

	dial, ok := s.dialers[provider]
	if !ok {
		return "", fmt.Errorf("%w: provider %q is not configured", ErrInvalidStyle, provider)
	}

	req, err := BuildPrompt(article, style)
	if err != nil {
		return "", err
	}

	gen, err := dial(ctx, apiKey)
	if err != nil {
		return "", fmt.Errorf("make %s client: %w", provider, err)
	}
	defer func() {
		if err := gen.Close(); err != nil {
			s.log.WarnContext(ctx, "failed to close generator", slog.Any("err", err))
		}
	}()

	s.log.DebugContext(ctx, "generating post",
		slog.String("model", style.Model),
		slog.String("url", article.URL),
		slog.Int("prompt_len", len(req)),
	)

	text, err := gen.Generate(ctx, style.Model, req)
	if err != nil {
		return "", fmt.Errorf("generate with %s: %w", style.Model, err)
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}

// BuildPrompt composes the instruction sent to the model.
func BuildPrompt(article news.Article, style Style) (string, error) {
	data := struct {
		Tone    string
		Words   int
		Title   string
		Source  string
		Content string
		URL     string
	}{
		Tone:    strings.ToLower(string(style.Tone)),
		Words:   int(style.Length),
		Title:   article.Title,
		Source:  article.Source,
		Content: excerpt(article.Content(), ContentLimit),
		URL:     article.URL,
	}

	buf := &strings.Builder{}
	if err := promptTmpl.Execute(buf, data); err != nil {
		return "", fmt.Errorf("build prompt: %w", err)
	}

	return buf.String(), nil
}

// excerpt cuts s to at most n characters without splitting runes.
func excerpt(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
