package tally

import (
	"context"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/tubetally/pkg/domain"
)

// DurationResolver resolves a single video url, implemented by Resolver
type DurationResolver interface {
	Resolve(ctx context.Context, url string) domain.DurationResult
}

// Stats is the outcome of an aggregation run
type Stats struct {
	Totals   domain.ChannelTotals
	Items    int // items submitted
	Resolved int // items counted toward totals
	Skipped  int // live streams and failures
}

// Aggregator resolves durations with a fixed number of workers and sums them per channel
type Aggregator struct {
	resolver DurationResolver
	workers  int
}

// NewAggregator makes an aggregator running at most workers resolutions at once
func NewAggregator(resolver DurationResolver, workers int) *Aggregator {
	if workers < 1 {
		workers = 1
	}
	return &Aggregator{resolver: resolver, workers: workers}
}

type outcome struct {
	item domain.VideoItem
	res  domain.DurationResult
}

// Run resolves every item and returns totals once all of them are done.
// Workers only send results, totals are updated on the calling goroutine in completion order.
func (a *Aggregator) Run(ctx context.Context, items []domain.VideoItem) Stats {
	stats := Stats{Totals: domain.ChannelTotals{}, Items: len(items)}
	if len(items) == 0 {
		return stats
	}

	results := make(chan outcome, a.workers)
	go func() {
		var g errgroup.Group
		g.SetLimit(a.workers)
		for _, item := range items {
			g.Go(func() error {
				results <- outcome{item: item, res: a.resolver.Resolve(ctx, item.URL)}
				return nil
			})
		}
		_ = g.Wait() // workers never return errors
		close(results)
	}()

	done := 0
	for r := range results {
		done++
		stats.Totals.Add(r.item.Channel, r.res)
		if r.res.Skip {
			stats.Skipped++
		} else {
			stats.Resolved++
		}
		lgr.Printf("[DEBUG] resolved %d/%d, %s: %+v", done, len(items), r.item.Title, r.res)
	}
	return stats
}
