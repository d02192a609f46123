package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/deusflow/ainews/internal/news"
)

const (
	maxTitleWidth  = 60
	maxSourceWidth = 22
	maxDateWidth   = 25
)

// renderTable prints articles as a numbered table aligned by display width.
func renderTable(w io.Writer, articles []news.Article) error {
	rows := [][]string{{"#", "Source", "Date", "Title", "URL"}}
	for i, a := range articles {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			runewidth.Truncate(a.Source, maxSourceWidth, "…"),
			runewidth.Truncate(a.Date, maxDateWidth, "…"),
			runewidth.Truncate(a.Title, maxTitleWidth, "…"),
			a.URL,
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			if i == len(row)-1 {
				b.WriteString(cell)
				continue
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// renderArticle prints one article with its summary.
func renderArticle(w io.Writer, a news.Article, number int) error {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%d. %s\n", number, a.Title))
	b.WriteString(fmt.Sprintf("Source: %s\n", a.Source))
	b.WriteString(fmt.Sprintf("Date: %s\n", a.Date))

	if summary := strings.TrimSpace(a.Summary); summary != "" {
		summary = strings.ReplaceAll(summary, "\n\n\n", "\n\n")
		b.WriteString(fmt.Sprintf("Summary: %s\n", summary))
	}

	b.WriteString(fmt.Sprintf("Read original article: %s\n", a.URL))
	b.WriteString(strings.Repeat("-", 40) + "\n\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// renderPost prints the generated post under a heading.
func renderPost(w io.Writer, a news.Article, post string) error {
	var b strings.Builder
	b.WriteString("Detailed Analysis: " + a.Title + "\n")
	b.WriteString(strings.Repeat("=", 40) + "\n\n")
	b.WriteString(strings.TrimRight(post, "\n") + "\n\n")

	_, err := io.WriteString(w, b.String())
	return err
}
