// Package config holds command line and environment options shared by commands.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/deusflow/ainews/internal/synth"
)

// Article count bounds.
const (
	MinArticles = 3
	MaxArticles = 15
)

// Fetch configures article fetching.
type Fetch struct {
	Sources     []string      `long:"source" env:"SOURCES" env-delim:"," default:"TechCrunch AI" default:"ArXiv Recent AI Papers" description:"enabled source, repeatable"`
	SourcesFile string        `long:"sources-file" env:"SOURCES_FILE" description:"yaml file with source rules, replaces built-in ones"`
	Count       int           `long:"count" env:"NUM_ARTICLES" default:"5" description:"number of articles to fetch (3-15)"`
	Timeout     time.Duration `long:"timeout" env:"REQUEST_TIMEOUT" default:"15s" description:"timeout for every http request"`
	UserAgent   string        `long:"user-agent" env:"USER_AGENT" description:"user agent for scraping requests"`
}

// Validate checks fetch options.
func (f Fetch) Validate() error {
	if f.Count < MinArticles || f.Count > MaxArticles {
		return fmt.Errorf("count must be between %d and %d, got %d", MinArticles, MaxArticles, f.Count)
	}
	if f.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", f.Timeout)
	}
	if f.SourcesFile != "" {
		if _, err := os.Stat(f.SourcesFile); err != nil {
			return fmt.Errorf("sources file: %w", err)
		}
	}
	for _, s := range f.Sources {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("empty source name")
		}
	}
	return nil
}

// Generate configures post synthesis.
type Generate struct {
	Tone   string `long:"tone" env:"TONE" default:"Professional" choice:"Professional" choice:"Casual" choice:"Technical" choice:"Conversational" description:"writing tone"`
	Length string `long:"length" env:"POST_LENGTH" default:"medium" description:"post length: short, medium, long or 300, 500, 800 words"`
	Model  string `long:"model" env:"MODEL" default:"gemini-2.5-pro-exp-03-25" choice:"gemini-2.5-pro-exp-03-25" choice:"gemini-2.0-flash" choice:"gpt-4o-mini" description:"text generation model"`

	GeminiKey string `long:"gemini-key" env:"GEMINI_API_KEY" description:"Google Gemini api key"`
	OpenAI    struct {
		Token     string `long:"token" env:"API_KEY" description:"OpenAI api key"`
		BaseURL   string `long:"base-url" env:"BASE_URL" description:"OpenAI compatible api url, public api when empty"`
		MaxTokens int    `long:"max-tokens" env:"MAX_TOKENS" default:"2000" description:"max tokens of the response"`
	} `group:"openai" namespace:"openai" env-namespace:"OPENAI"`

	Timeout     time.Duration `long:"gen-timeout" env:"GENERATION_TIMEOUT" default:"5m" description:"timeout for a single post generation"`
	MaxRequests int           `long:"max-requests" env:"MAX_GEMINI_REQUESTS" default:"3" description:"generation requests per run, 0 is unlimited"`
	OutDir      string        `long:"out-dir" env:"OUT_DIR" default:"." description:"directory for exported posts"`
	Pick        string        `long:"pick" description:"1-based article numbers to write about, comma separated"`
}

// Style converts options to a synthesis style.
func (g Generate) Style() (synth.Style, error) {
	tone, err := synth.ParseTone(g.Tone)
	if err != nil {
		return synth.Style{}, err
	}

	length, err := synth.ParseLength(g.Length)
	if err != nil {
		return synth.Style{}, err
	}

	style := synth.Style{Tone: tone, Length: length, Model: g.Model}
	return style, style.Validate()
}

// APIKey returns the credential of the provider serving the model.
func (g Generate) APIKey(model string) string {
	p, err := synth.ProviderOf(model)
	if err != nil {
		return ""
	}

	switch p {
	case synth.ProviderOpenAI:
		return g.OpenAI.Token
	default:
		return g.GeminiKey
	}
}

// Validate checks generation options. Missing keys are not an error here,
// they are reported when a post is requested.
func (g Generate) Validate() error {
	if _, err := g.Style(); err != nil {
		return err
	}
	if g.MaxRequests < 0 {
		return fmt.Errorf("max-requests must not be negative, got %d", g.MaxRequests)
	}
	if g.Timeout <= 0 {
		return fmt.Errorf("generation timeout must be positive, got %s", g.Timeout)
	}
	if g.OpenAI.MaxTokens < 0 {
		return fmt.Errorf("openai max-tokens must not be negative, got %d", g.OpenAI.MaxTokens)
	}
	return nil
}
