package scraper

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/sources.yaml
var defaultSources []byte

// Source kinds.
const (
	KindArticle = "article" // news listing with a detail page per item
	KindPaper   = "paper"   // paper listing with an optional full-text rendering
	KindFeed    = "feed"    // RSS or Atom feed
)

// DefaultPreviewChars caps the full-text preview embedded into a paper summary.
const DefaultPreviewChars = 10000

// Rule describes where a source lists its items and how to read their fields.
// Selectors are CSS selectors evaluated with goquery.
type Rule struct {
	Name       string `yaml:"name"`
	Label      string `yaml:"label"`
	Kind       string `yaml:"kind"`
	ListingURL string `yaml:"listing_url"`

	Item     string `yaml:"item"`
	Body     string `yaml:"body"` // sibling element holding item metadata
	Title    string `yaml:"title"`
	Link     string `yaml:"link"` // defaults to the title element
	LinkBase string `yaml:"link_base"`
	Date     string `yaml:"date"`
	DateAttr string `yaml:"date_attr"` // empty means element text
	Category string `yaml:"category"`
	Authors  string `yaml:"authors"`

	// ExcerptAfter matches the element followed by the excerpt text node.
	ExcerptAfter string `yaml:"excerpt_after"`

	Content     string   `yaml:"content"`
	ContentTags []string `yaml:"content_tags"`
	Noise       []string `yaml:"noise"`

	FullText     string `yaml:"full_text"`
	PreviewChars int    `yaml:"preview_chars"`

	StripPrefixes []string `yaml:"strip_prefixes"`
}

type rulesFile struct {
	Sources []Rule `yaml:"sources"`
}

// DefaultRules returns the built-in sources.
func DefaultRules() ([]Rule, error) {
	return decodeRules(bytes.NewReader(defaultSources))
}

// LoadRules reads source rules from a yaml file.
func LoadRules(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules: %w", err)
	}
	defer f.Close()

	return decodeRules(f)
}

func decodeRules(rd io.Reader) ([]Rule, error) {
	var cfg rulesFile
	if err := yaml.NewDecoder(rd).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	if len(cfg.Sources) == 0 {
		return nil, errors.New("no sources defined")
	}

	seen := map[string]bool{}
	for i := range cfg.Sources {
		r := &cfg.Sources[i]
		r.setDefaults()
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("source #%d: %w", i+1, err)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("source %q defined twice", r.Name)
		}
		seen[r.Name] = true
	}

	return cfg.Sources, nil
}

func (r *Rule) setDefaults() {
	if r.Label == "" {
		r.Label = r.Name
	}
	if r.Kind == KindArticle && len(r.ContentTags) == 0 {
		r.ContentTags = []string{"p", "h2", "h3"}
	}
	if r.Kind == KindPaper && r.PreviewChars <= 0 {
		r.PreviewChars = DefaultPreviewChars
	}
}

// Validate checks that the rule has what its kind needs.
func (r Rule) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}

	u, err := url.Parse(r.ListingURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("source %q: listing_url must be an absolute url", r.Name)
	}

	switch r.Kind {
	case KindArticle:
		if r.Item == "" || r.Title == "" {
			return fmt.Errorf("source %q: item and title selectors are required", r.Name)
		}
	case KindPaper:
		if r.Item == "" || r.Body == "" || r.Link == "" {
			return fmt.Errorf("source %q: item, body and link selectors are required", r.Name)
		}
	case KindFeed:
	default:
		return fmt.Errorf("source %q: unknown kind %q", r.Name, r.Kind)
	}

	return nil
}
