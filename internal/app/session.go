package app

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/deusflow/ainews/internal/news"
)

// Session is the state of one user session.
type Session struct {
	ID       string
	Articles []news.Article
	Selected *news.Article
	Post     string
}

// NewSession makes an empty session with a fresh id.
func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// SetArticles replaces fetched articles and drops the selection.
func (s *Session) SetArticles(articles []news.Article) {
	s.Articles = articles
	s.Selected = nil
	s.Post = ""
}

// Select picks the n-th article, counting from 1, and drops the generated post.
func (s *Session) Select(n int) error {
	if n < 1 || n > len(s.Articles) {
		return fmt.Errorf("article %d is out of range 1..%d", n, len(s.Articles))
	}

	article := s.Articles[n-1]
	s.Selected = &article
	s.Post = ""
	return nil
}
