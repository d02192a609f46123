// Package news holds the article entity and the aggregation of enabled sources.
package news

import "context"

// Article is a normalized item produced by a source adapter.
type Article struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
	// Date is kept exactly as the source printed it and is only compared lexically.
	Date   string `json:"date"`
	Source string `json:"source"`

	// ExtendedText is the full text of the paper rendering, used as synthesis context only.
	ExtendedText string `json:"extended_text,omitempty"`
}

// Valid reports whether the article carries the mandatory fields.
func (a Article) Valid() bool {
	return a.Title != "" && a.URL != ""
}

// Content returns the summary followed by the extended text.
func (a Article) Content() string {
	return a.Summary + a.ExtendedText
}

// Adapter translates one external source into articles.
type Adapter interface {
	// Name is the label users enable the source by.
	Name() string
	// Fetch returns at most max articles. On failure it returns no articles and the error.
	Fetch(ctx context.Context, max int) ([]Article, error)
}
