package domain

import "time"

// VideoItem is a feed entry published inside the lookback window
type VideoItem struct {
	Title     string
	URL       string
	Published time.Time // always UTC
	Channel   string
}

// SkipReason explains why a duration result does not count toward totals
type SkipReason string

// enum of skip reasons
const (
	SkipNone   SkipReason = ""
	SkipLive   SkipReason = "live"
	SkipFailed SkipReason = "failed"
)

// DurationResult is the outcome of resolving a single item, either seconds or a skip
type DurationResult struct {
	Seconds int64
	Skip    bool
	Reason  SkipReason
}

// Duration makes a counted result, negative values are clamped to zero
func Duration(secs int64) DurationResult {
	if secs < 0 {
		secs = 0
	}
	return DurationResult{Seconds: secs}
}

// Skipped makes a result which contributes nothing to totals
func Skipped(reason SkipReason) DurationResult {
	return DurationResult{Skip: true, Reason: reason}
}

// ChannelTotals maps channel name to accumulated seconds.
// Not safe for concurrent use, a single goroutine owns it.
type ChannelTotals map[string]int64

// Add folds a result into the channel total. Skipped results don't create an entry.
func (c ChannelTotals) Add(channel string, res DurationResult) {
	if res.Skip {
		return
	}
	c[channel] += res.Seconds
}
