package ratelimit

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrExhausted is returned once all requests of the budget are used.
var ErrExhausted = errors.New("generation request budget exhausted")

// Budget limits text generation requests made during one run.
type Budget struct {
	mu   sync.Mutex
	log  *slog.Logger
	used int
	max  int
}

// NewBudget makes a budget of max requests, zero means unlimited.
func NewBudget(lg *slog.Logger, max int) *Budget {
	return &Budget{log: lg, max: max}
}

// Use takes one request from the budget.
func (b *Budget) Use() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max > 0 && b.used >= b.max {
		return fmt.Errorf("%w (%d/%d)", ErrExhausted, b.used, b.max)
	}

	b.used++
	b.log.Debug("generation request taken", slog.Int("used", b.used), slog.Int("limit", b.max))
	return nil
}

// Stats returns taken requests and the limit.
func (b *Budget) Stats() (used, limit int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used, b.max
}
