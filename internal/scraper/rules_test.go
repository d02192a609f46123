package scraper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)
	require.Len(t, rules, 3)

	tc := rules[0]
	assert.Equal(t, "TechCrunch AI", tc.Name)
	assert.Equal(t, KindArticle, tc.Kind)
	assert.Equal(t, []string{"p", "h2", "h3"}, tc.ContentTags)
	assert.Len(t, tc.Noise, 3)

	arxiv := rules[1]
	assert.Equal(t, "ArXiv Recent AI Papers", arxiv.Name)
	assert.Equal(t, "ArXiv AI Papers", arxiv.Label)
	assert.Equal(t, KindPaper, arxiv.Kind)
	assert.Equal(t, DefaultPreviewChars, arxiv.PreviewChars)

	assert.Equal(t, KindFeed, rules[2].Kind)
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sources.yaml")
	err := os.WriteFile(path, []byte(`
sources:
  - name: Example
    kind: article
    listing_url: https://example.com/news
    item: article
    title: h2 a
  - name: Papers
    kind: paper
    listing_url: https://example.com/papers
    item: dt
    body: dd
    link: a.abs
`), 0o600)
	require.NoError(t, err)

	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "Example", rules[0].Label, "label defaults to name")
	assert.Equal(t, []string{"p", "h2", "h3"}, rules[0].ContentTags)
	assert.Equal(t, DefaultPreviewChars, rules[1].PreviewChars)

	_, err = LoadRules(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestLoadRules_Invalid(t *testing.T) {
	tbl := []struct {
		name string
		yaml string
		err  string
	}{
		{name: "empty", yaml: "sources: []", err: "no sources defined"},
		{name: "no name", yaml: "sources:\n  - kind: feed\n    listing_url: https://a.b/c", err: "name is required"},
		{name: "relative url", yaml: "sources:\n  - name: x\n    kind: feed\n    listing_url: /feed", err: "absolute url"},
		{name: "unknown kind", yaml: "sources:\n  - name: x\n    kind: video\n    listing_url: https://a.b/c", err: "unknown kind"},
		{name: "article without item", yaml: "sources:\n  - name: x\n    kind: article\n    listing_url: https://a.b/c", err: "item and title"},
		{name: "paper without body", yaml: "sources:\n  - name: x\n    kind: paper\n    listing_url: https://a.b/c\n    item: dt", err: "item, body and link"},
		{
			name: "duplicate",
			yaml: "sources:\n  - name: x\n    kind: feed\n    listing_url: https://a.b/c\n  - name: x\n    kind: feed\n    listing_url: https://a.b/d",
			err:  "defined twice",
		},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sources.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))

			_, err := LoadRules(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}
