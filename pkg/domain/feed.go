package domain

import "time"

// Subscription is a single feed entry from the subscription list
type Subscription struct {
	Label   string
	FeedURL string
}

// ParsedFeed represents a fetched and parsed channel feed
type ParsedFeed struct {
	Title string
	Link  string
	Items []ParsedItem
}

// ParsedItem represents a raw feed entry before the window filter is applied.
// Published is nil when the entry carries no parsable publish date.
type ParsedItem struct {
	Title     string
	Link      string
	Published *time.Time
}
