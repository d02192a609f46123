package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// ErrUnknownSource is returned for an enabled source no adapter is registered for.
var ErrUnknownSource = errors.New("unknown source")

// Aggregator runs enabled adapters and merges their output.
type Aggregator struct {
	log      *slog.Logger
	adapters map[string]Adapter
}

// NewAggregator makes an aggregator over the given adapters, keyed by their names.
func NewAggregator(lg *slog.Logger, adapters ...Adapter) *Aggregator {
	agg := &Aggregator{
		log:      lg,
		adapters: make(map[string]Adapter, len(adapters)),
	}
	for _, a := range adapters {
		agg.adapters[a.Name()] = a
	}
	return agg
}

// Sources lists registered source names in sorted order.
func (g *Aggregator) Sources() []string {
	names := make([]string, 0, len(g.adapters))
	for name := range g.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FetchArticles calls every enabled source in order, sorts the merged articles by date
// descending and keeps the first max of them.
//
// Dates are compared as plain strings. Sources print dates in different formats,
// so "newest first" is only exact within one source.
//
// A failing source does not stop the others: the returned articles are whatever was
// collected, and the error joins every source failure.
func (g *Aggregator) FetchArticles(ctx context.Context, enabled []string, max int) ([]Article, error) {
	if len(enabled) == 0 || max <= 0 {
		return nil, nil
	}

	var (
		all  []Article
		errs []error
	)

	for _, name := range enabled {
		adapter, ok := g.adapters[name]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownSource, name))
			continue
		}

		articles, err := adapter.Fetch(ctx, max)
		if err != nil {
			g.log.WarnContext(ctx, "source failed", slog.String("source", name), slog.Any("err", err))
			errs = append(errs, fmt.Errorf("source %q: %w", name, err))
			continue
		}

		g.log.DebugContext(ctx, "source fetched", slog.String("source", name), slog.Int("articles", len(articles)))
		all = append(all, articles...)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Date > all[j].Date })

	if len(all) > max {
		all = all[:max]
	}

	return all, errors.Join(errs...)
}
