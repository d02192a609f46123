package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arxivListing = `<!DOCTYPE html>
<html><body><dl id="articles">
<dt>
  <a name="item1">[1]</a>
  <a href="/abs/2401.00001" title="Abstract" id="2401.00001">arXiv:2401.00001</a>
  [<a href="/pdf/2401.00001" title="Download PDF">pdf</a>, <a href="%[1]s/html/2401.00001v1" title="View HTML">html</a>]
</dt>
<dd>
  <div class="meta">
    <div class="list-title mathjax"><span class="descriptor">Title:</span>
      Paper One
    </div>
    <div class="list-authors"><span class="descriptor">Authors:</span><a href="#">Alice</a>, <a href="#">Bob</a></div>
  </div>
</dd>
<dt><a name="item2">[2]</a></dt>
<dd><div class="list-title">Title: Orphan</div></dd>
<dt>
  <a href="/abs/2401.00002" title="Abstract">arXiv:2401.00002</a>
  [<a href="%[1]s/html/missing" title="View HTML">html</a>]
</dt>
<dd>
  <div class="list-title">Title: Paper Two</div>
  <div class="list-date">Mon, 1 Jan 2024</div>
</dd>
<dt><a href="/abs/2401.00003" title="Abstract">arXiv:2401.00003</a></dt>
<dd><div class="list-authors">Authors: Carol</div></dd>
</dl></body></html>`

const arxivPaper = `<html><head><title>Paper One</title><style>.ltx{color:red}</style></head>
<body><h1>Paper One</h1>
<script>var x = 1;</script><p>Body text</p></body></html>`

func newArxivServer(t *testing.T, fullText string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var ts *httptest.Server
	mux.HandleFunc("/list", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, arxivListing, ts.URL)
	})
	mux.HandleFunc("/html/2401.00001v1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fullText))
	})
	ts = httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestPaperAdapter_Fetch(t *testing.T) {
	ts := newArxivServer(t, arxivPaper)

	p := NewPaperAdapter(testLogger, NewClient(testLogger, 5*time.Second, ""), ruleByName(t, "ArXiv Recent AI Papers", ts.URL+"/list"))
	assert.Equal(t, "ArXiv Recent AI Papers", p.Name())

	res, err := p.Fetch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, res, 3)

	first := res[0]
	assert.Equal(t, "Paper One", first.Title)
	assert.Equal(t, "https://arxiv.org/abs/2401.00001", first.URL)
	assert.Equal(t, "Date not available", first.Date)
	assert.Equal(t, "ArXiv AI Papers", first.Source)
	assert.Equal(t, "Paper One\nBody text", first.ExtendedText)
	assert.Equal(t, "**Authors:** Alice, Bob\n\n**HTML Preview:** Paper One Body text...", first.Summary)

	second := res[1]
	assert.Equal(t, "Paper Two", second.Title)
	assert.Equal(t, "https://arxiv.org/abs/2401.00002", second.URL)
	assert.Equal(t, "Mon, 1 Jan 2024", second.Date)
	assert.Equal(t, "**Authors:** Unknown authors", second.Summary, "missing full text is skipped silently")
	assert.Empty(t, second.ExtendedText)

	third := res[2]
	assert.Equal(t, "Untitled", third.Title)
	assert.Equal(t, "**Authors:** Carol", third.Summary)
}

func TestPaperAdapter_Fetch_Bound(t *testing.T) {
	ts := newArxivServer(t, arxivPaper)
	p := NewPaperAdapter(testLogger, NewClient(testLogger, 5*time.Second, ""), ruleByName(t, "ArXiv Recent AI Papers", ts.URL+"/list"))

	res, err := p.Fetch(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "Paper One", res[0].Title)
	assert.Equal(t, "Paper Two", res[1].Title)
}

func TestPaperAdapter_Fetch_PreviewIsCapped(t *testing.T) {
	body := strings.Repeat("a", DefaultPreviewChars+50)
	ts := newArxivServer(t, "<html><body>"+body+"</body></html>")
	p := NewPaperAdapter(testLogger, NewClient(testLogger, 5*time.Second, ""), ruleByName(t, "ArXiv Recent AI Papers", ts.URL+"/list"))

	res, err := p.Fetch(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, res, 1)

	assert.Equal(t, body, res[0].ExtendedText, "full text is kept unbounded")
	assert.Equal(t, "**Authors:** Alice, Bob\n\n**HTML Preview:** "+strings.Repeat("a", DefaultPreviewChars)+"...", res[0].Summary)
}

func TestPaperAdapter_Fetch_ListingFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	p := NewPaperAdapter(testLogger, NewClient(testLogger, 5*time.Second, ""), ruleByName(t, "ArXiv Recent AI Papers", ts.URL))
	res, err := p.Fetch(context.Background(), 5)
	require.Error(t, err)
	assert.Empty(t, res)
}

func TestPaperAdapter_Fetch_Cancelled(t *testing.T) {
	ts := newArxivServer(t, arxivPaper)
	p := NewPaperAdapter(testLogger, NewClient(testLogger, 5*time.Second, ""), ruleByName(t, "ArXiv Recent AI Papers", ts.URL+"/list"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := p.Fetch(ctx, 5)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res)
}
