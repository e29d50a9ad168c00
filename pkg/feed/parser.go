package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/mmcdole/gofeed"

	"github.com/umputun/tubetally/pkg/domain"
)

// errClientStatus marks 4xx responses, retrying them won't help
var errClientStatus = errors.New("client error status")

// Parser fetches and parses RSS/Atom feeds
type Parser struct {
	client     *http.Client
	userAgent  string
	attempts   int
	retryDelay time.Duration
}

// ParserOpts defines options for the feed parser
type ParserOpts struct {
	Timeout    time.Duration // per request
	UserAgent  string
	Attempts   int           // total fetch attempts, 1 means no retry
	RetryDelay time.Duration // initial backoff delay between attempts
}

// NewParser creates a new feed parser
func NewParser(opts ParserOpts) *Parser {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	return &Parser{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent:  opts.UserAgent,
		attempts:   opts.Attempts,
		retryDelay: opts.RetryDelay,
	}
}

// Parse fetches and parses a feed from the given URL
func (p *Parser) Parse(ctx context.Context, url string) (*domain.ParsedFeed, error) {
	var feed *gofeed.Feed
	retrier := repeater.NewBackoff(p.attempts, p.retryDelay, repeater.WithMaxDelay(10*time.Second))
	err := retrier.Do(ctx, func() error {
		body, err := p.fetch(ctx, url)
		if err != nil {
			return fmt.Errorf("fetch feed: %w", err)
		}
		defer body.Close()

		if feed, err = gofeed.NewParser().Parse(body); err != nil {
			return fmt.Errorf("parse feed: %w", err)
		}
		return nil
	}, errClientStatus)
	if err != nil {
		return nil, err
	}

	result := &domain.ParsedFeed{
		Title: feed.Title,
		Link:  feed.Link,
		Items: make([]domain.ParsedItem, 0, len(feed.Items)),
	}

	for _, item := range feed.Items {
		parsedItem := domain.ParsedItem{Title: item.Title, Link: item.Link}
		if parsedItem.Link == "" && len(item.Links) > 0 {
			parsedItem.Link = item.Links[0]
		}

		// entries without a parsable publish date stay nil and are dropped by the window filter
		if item.PublishedParsed != nil {
			published := item.PublishedParsed.UTC()
			parsedItem.Published = &published
		}

		result.Items = append(result.Items, parsedItem)
	}

	return result, nil
}

// fetch retrieves content from a URL
func (p *Parser) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	addBrowserHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: unexpected status code: %d", errClientStatus, resp.StatusCode)
		}
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}
