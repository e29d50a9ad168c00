// Package tally resolves video durations and folds them into per-channel totals
package tally

import (
	"context"
	"math"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/tubetally/pkg/domain"
	"github.com/umputun/tubetally/pkg/ytdlp"
)

//go:generate moq -out mocks/metadata.go -pkg mocks -skip-ensure -fmt goimports . MetadataSource
//go:generate moq -out mocks/resolver.go -pkg mocks -skip-ensure -fmt goimports . DurationResolver

// MetadataSource returns metadata for a single video url, implemented by ytdlp.Client
type MetadataSource interface {
	Metadata(ctx context.Context, url string) (*ytdlp.Metadata, error)
}

// liveStatuses are yt-dlp live_status values excluded from totals.
// is_upcoming is not here, an upcoming premiere counts with its duration or zero.
var liveStatuses = map[string]bool{
	"is_live":   true,
	"live":      true,
	"was_live":  true,
	"post_live": true,
}

// Resolver turns a video url into a DurationResult. It never fails, errors become skips.
type Resolver struct {
	source  MetadataSource
	timeout time.Duration
}

// NewResolver makes a resolver with a per-call timeout, zero timeout means no limit
func NewResolver(source MetadataSource, timeout time.Duration) *Resolver {
	return &Resolver{source: source, timeout: timeout}
}

// Resolve fetches metadata for url and applies Policy
func (r *Resolver) Resolve(ctx context.Context, url string) domain.DurationResult {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	meta, err := r.source.Metadata(ctx, url)
	if err != nil {
		lgr.Printf("[WARN] failed to get info for %s: %v", url, err)
		return domain.Skipped(domain.SkipFailed)
	}
	if meta == nil {
		lgr.Printf("[WARN] no info returned for %s", url)
		return domain.Skipped(domain.SkipFailed)
	}

	res := Policy(meta)
	if res.Skip {
		lgr.Printf("[INFO] skipping livestream: %s", meta.Title)
	}
	return res
}

// Policy applies the duration rules to metadata. Live and past live streams are skipped,
// a missing duration counts as zero seconds.
func Policy(meta *ytdlp.Metadata) domain.DurationResult {
	if meta.IsLive != nil && *meta.IsLive {
		return domain.Skipped(domain.SkipLive)
	}
	if liveStatuses[meta.LiveStatus] {
		return domain.Skipped(domain.SkipLive)
	}
	if meta.Duration == nil || math.IsNaN(*meta.Duration) || *meta.Duration <= 0 {
		return domain.Duration(0)
	}
	return domain.Duration(int64(math.Floor(*meta.Duration)))
}
