package feed

import (
	"context"
	"html"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/tubetally/pkg/domain"
)

//go:generate moq -out mocks/parser.go -pkg mocks -skip-ensure -fmt goimports . FeedParser

// FeedParser retrieves and parses a single feed
type FeedParser interface {
	Parse(ctx context.Context, url string) (*domain.ParsedFeed, error)
}

// SkipReason tells why a feed entry was left out
type SkipReason string

// enum of entry skip reasons
const (
	SkipNone          SkipReason = ""
	SkipNoPublishDate SkipReason = "no-publish-date"
	SkipNoLink        SkipReason = "no-link"
	SkipOutOfWindow   SkipReason = "out-of-window"
)

// Entry is the classification outcome of a single feed entry
type Entry struct {
	Item domain.VideoItem
	Skip SkipReason
}

// Extractor pulls recent items from subscription feeds
type Extractor struct {
	Now func() time.Time // clock, time.Now if nil

	parser  FeedParser
	window  time.Duration
	workers int
	policy  *bluemonday.Policy
}

// NewExtractor makes an extractor keeping items published within the last days.
// Workers limits concurrent feed fetches in ExtractAll.
func NewExtractor(parser FeedParser, days, workers int) *Extractor {
	if workers < 1 {
		workers = 1
	}
	return &Extractor{
		parser:  parser,
		window:  time.Duration(days) * 24 * time.Hour,
		workers: workers,
		policy:  bluemonday.StrictPolicy(),
	}
}

// Cutoff returns the earliest publish time still inside the window
func (e *Extractor) Cutoff() time.Time {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return now().UTC().Add(-e.window)
}

// Extract fetches the subscription feed and returns items published at or after the cutoff
func (e *Extractor) Extract(ctx context.Context, sub domain.Subscription) ([]domain.VideoItem, error) {
	feed, err := e.parser.Parse(ctx, sub.FeedURL)
	if err != nil {
		return nil, err
	}

	channel := e.channelName(feed.Title)
	if channel == "" {
		channel = sub.Label
	}

	cutoff := e.Cutoff()
	res := []domain.VideoItem{}
	for _, item := range feed.Items {
		entry := Classify(item, channel, cutoff)
		switch entry.Skip {
		case SkipNone:
			res = append(res, entry.Item)
		case SkipNoPublishDate, SkipNoLink:
			lgr.Printf("[DEBUG] skip entry %q in %s: %s", item.Title, channel, entry.Skip)
		}
	}
	return res, nil
}

// ExtractAll runs Extract for every subscription with bounded concurrency.
// Failed feeds are logged and skipped, the result keeps subscription order.
func (e *Extractor) ExtractAll(ctx context.Context, subs []domain.Subscription) []domain.VideoItem {
	perFeed := make([][]domain.VideoItem, len(subs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, sub := range subs {
		g.Go(func() error {
			items, err := e.Extract(ctx, sub)
			if err != nil {
				lgr.Printf("[WARN] failed to fetch feed %s (%s): %v", sub.Label, sub.FeedURL, err)
				return nil
			}
			lgr.Printf("[DEBUG] %d recent items in %s", len(items), sub.Label)
			perFeed[i] = items
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	res := []domain.VideoItem{}
	for _, items := range perFeed {
		res = append(res, items...)
	}
	return res
}

// Classify decides whether a parsed entry belongs to the window. The cutoff is inclusive.
func Classify(item domain.ParsedItem, channel string, cutoff time.Time) Entry {
	if item.Published == nil || item.Published.IsZero() {
		return Entry{Skip: SkipNoPublishDate}
	}
	if strings.TrimSpace(item.Link) == "" {
		return Entry{Skip: SkipNoLink}
	}
	published := item.Published.UTC()
	if published.Before(cutoff) {
		return Entry{Skip: SkipOutOfWindow}
	}
	return Entry{Item: domain.VideoItem{
		Title:     item.Title,
		URL:       strings.TrimSpace(item.Link),
		Published: published,
		Channel:   channel,
	}}
}

// channelName strips markup from the feed title, bluemonday escapes entities so they are decoded back
func (e *Extractor) channelName(title string) string {
	return strings.TrimSpace(html.UnescapeString(e.policy.Sanitize(title)))
}
