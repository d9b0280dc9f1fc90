// Package bookworm acquires one reader's review history from Goodreads and
// turns it into genre-affinity book recommendations.
//
// Basic usage:
//
//	reviews, err := bookworm.Reviews(ctx, "155041466-jamie-ren")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	profile, _ := bookworm.Profile(reviews, tables.Labels, 0)
//	recs, neighbors, err := bookworm.Recommend(profile.Pct, tables, bookworm.Params{
//	    NoveltyFactor:  1.0,
//	    RatingEmphasis: 8,
//	})
//
// Reference tables (catalog, user directory, genre labels, cohort matrix) are
// supplied fully-formed by the host's data-loading layer; see dataset.Tables.
package bookworm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/bookworm/cache"
	"github.com/codeGROOVE-dev/bookworm/dataset"
	"github.com/codeGROOVE-dev/bookworm/fetch"
	"github.com/codeGROOVE-dev/bookworm/genre"
	"github.com/codeGROOVE-dev/bookworm/recommend"
	"github.com/codeGROOVE-dev/bookworm/review"
	"github.com/codeGROOVE-dev/bookworm/scrape"
)

type (
	// Record re-exports review.Record for convenience.
	Record = review.Record
	// UserProfile re-exports review.UserProfile for convenience.
	UserProfile = review.UserProfile
	// GenreProfile re-exports recommend.GenreProfile for convenience.
	GenreProfile = recommend.GenreProfile
	// Neighbor re-exports recommend.Neighbor for convenience.
	Neighbor = recommend.Neighbor
	// Recommendation re-exports recommend.Recommendation for convenience.
	Recommendation = recommend.Recommendation
	// Params re-exports recommend.Params for convenience.
	Params = recommend.Params
	// Tables re-exports dataset.Tables for convenience.
	Tables = dataset.Tables
	// ReviewCache re-exports cache.ReviewCache for convenience.
	ReviewCache = cache.ReviewCache
)

// NewReviewCache creates a bounded recency cache for review lists.
func NewReviewCache(maxSize int) *ReviewCache { return cache.NewReviewCache(maxSize) }

// Option configures an acquisition call.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	httpCache   fetch.Cacher
	reviewCache *cache.ReviewCache
	identities  []string
	timeout     time.Duration
	attempts    int
	minSize     int
	pageCap     int
	baseURL     string
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithHTTPCache sets the page cache used by the fetch client.
func WithHTTPCache(httpCache fetch.Cacher) Option {
	return func(c *config) { c.httpCache = httpCache }
}

// WithReviewCache sets the bounded recency cache for assembled review lists.
func WithReviewCache(reviewCache *cache.ReviewCache) Option {
	return func(c *config) { c.reviewCache = reviewCache }
}

// WithIdentities sets the outbound identity rotation.
func WithIdentities(identities []string) Option {
	return func(c *config) { c.identities = identities }
}

// WithTimeout sets the per-attempt fetch deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) { c.timeout = timeout }
}

// WithAttempts sets the configured fetch attempt count.
func WithAttempts(attempts int) Option {
	return func(c *config) { c.attempts = attempts }
}

// WithMinContentSize sets the soft-failure threshold for page bodies.
func WithMinContentSize(size int) Option {
	return func(c *config) { c.minSize = size }
}

// WithPageCap bounds how many review pages one acquisition may fetch.
func WithPageCap(pages int) Option {
	return func(c *config) { c.pageCap = pages }
}

// WithBaseURL overrides the site base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *config) { c.baseURL = baseURL }
}

func newConfig(opts []Option) *config {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *config) scrapeClient() *scrape.Client {
	var fetchOpts []fetch.Option
	fetchOpts = append(fetchOpts, fetch.WithLogger(c.logger))
	if c.httpCache != nil {
		fetchOpts = append(fetchOpts, fetch.WithCache(c.httpCache))
	}
	if len(c.identities) > 0 {
		fetchOpts = append(fetchOpts, fetch.WithIdentities(c.identities))
	}
	if c.timeout > 0 {
		fetchOpts = append(fetchOpts, fetch.WithTimeout(c.timeout))
	}
	if c.attempts > 0 {
		fetchOpts = append(fetchOpts, fetch.WithAttempts(c.attempts))
	}
	if c.minSize > 0 {
		fetchOpts = append(fetchOpts, fetch.WithMinContentSize(c.minSize))
	}

	scrapeOpts := []scrape.Option{
		scrape.WithFetcher(fetch.New(fetchOpts...)),
		scrape.WithLogger(c.logger),
	}
	if c.pageCap > 0 {
		scrapeOpts = append(scrapeOpts, scrape.WithPageCap(c.pageCap))
	}
	if c.baseURL != "" {
		scrapeOpts = append(scrapeOpts, scrape.WithBaseURL(c.baseURL))
	}
	return scrape.New(scrapeOpts...)
}

// FetchUser runs the acquisition pipeline for one user and returns the
// profile and review list. A profile fetch failure aborts the acquisition;
// failed review pages degrade to partial results.
func FetchUser(ctx context.Context, userID string, opts ...Option) (*UserProfile, []Record, error) {
	cfg := newConfig(opts)
	reviews, prof, err := cfg.scrapeClient().GetReviews(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("could not load user %s: %w", userID, err)
	}
	return prof, reviews, nil
}

// Reviews returns one user's review list, consulting the review cache first
// when one is configured. A user whose profile cannot be fetched yields an
// empty list and an explicit error, never a crash.
func Reviews(ctx context.Context, userID string, opts ...Option) ([]Record, error) {
	cfg := newConfig(opts)

	if cfg.reviewCache != nil {
		if cached, ok := cfg.reviewCache.Get(userID); ok {
			cfg.logger.DebugContext(ctx, "review cache hit", "user", userID)
			return cached, nil
		}
	}

	reviews, _, err := cfg.scrapeClient().GetReviews(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not load user %s: %w", userID, err)
	}

	if cfg.reviewCache != nil {
		cfg.reviewCache.Set(userID, reviews)
	}
	return reviews, nil
}

// Profile converts a review list into a genre-affinity profile using the
// supplied genre-label table.
func Profile(reviews []Record, labels map[string]genre.Vector, clampPct float64) (GenreProfile, error) {
	return recommend.Profile(reviews, labels, clampPct)
}

// Recommend produces the ranked book list and neighbor display list for a
// target genre-percentage vector.
func Recommend(target genre.Vector, tables *Tables, params Params) ([]Recommendation, []Neighbor, error) {
	return recommend.Recommend(target, tables, params)
}
