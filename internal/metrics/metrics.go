package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	ArticlesFetched   int64
	SourceFailures    int64
	PostsGenerated    int64
	FailedGenerations int64
	PostsExported     int64

	// Generation budget of the last run
	GenerationUsed  int
	GenerationLimit int

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

func (m *Metrics) AddArticlesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFetched += int64(n)
}

func (m *Metrics) IncrementSourceFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceFailures++
}

func (m *Metrics) IncrementPostsGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PostsGenerated++
}

func (m *Metrics) IncrementFailedGenerations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailedGenerations++
}

func (m *Metrics) IncrementPostsExported() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PostsExported++
}

func (m *Metrics) SetGenerationBudget(used, limit int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerationUsed = used
	m.GenerationLimit = limit
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]any{
		"articles_fetched":           m.ArticlesFetched,
		"source_failures":            m.SourceFailures,
		"posts_generated":            m.PostsGenerated,
		"failed_generations":         m.FailedGenerations,
		"posts_exported":             m.PostsExported,
		"generation_used":            m.GenerationUsed,
		"generation_limit":           m.GenerationLimit,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
