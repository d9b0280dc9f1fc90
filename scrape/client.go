package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/codeGROOVE-dev/bookworm/fetch"
	"github.com/codeGROOVE-dev/bookworm/review"
)

// ratingsPerPage is how many review rows the site lays out per page.
const ratingsPerPage = 20

// Client drives the acquisition pipeline for one site.
type Client struct {
	fetcher     *fetch.Client
	logger      *slog.Logger
	baseURL     string
	pageCap     int
	concurrency int64
}

// Option configures a Client.
type Option func(*config)

type config struct {
	fetcher     *fetch.Client
	logger      *slog.Logger
	baseURL     string
	pageCap     int
	concurrency int64
}

// WithFetcher sets the underlying fetch client.
func WithFetcher(fetcher *fetch.Client) Option {
	return func(c *config) { c.fetcher = fetcher }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithBaseURL overrides the site base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *config) { c.baseURL = baseURL }
}

// WithPageCap bounds how many review pages one assembly may fetch.
func WithPageCap(pages int) Option {
	return func(c *config) { c.pageCap = pages }
}

// WithConcurrency bounds how many pages are fetched at once.
func WithConcurrency(n int64) Option {
	return func(c *config) { c.concurrency = n }
}

// New creates a scrape client.
func New(opts ...Option) *Client {
	cfg := &config{
		logger:      slog.Default(),
		baseURL:     defaultBaseURL,
		pageCap:     4,
		concurrency: 5,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.fetcher == nil {
		cfg.fetcher = fetch.New(fetch.WithLogger(cfg.logger))
	}

	return &Client{
		fetcher:     cfg.fetcher,
		logger:      cfg.logger,
		baseURL:     cfg.baseURL,
		pageCap:     cfg.pageCap,
		concurrency: cfg.concurrency,
	}
}

// PageCount returns how many review pages to fetch for a profile: the
// configured cap bounded by the profile's stated rating count, plus one extra
// page as a buffer against rounding.
func PageCount(prof *review.UserProfile, pageCap int) int {
	n := prof.NumRatings / ratingsPerPage
	if pageCap < n {
		n = pageCap
	}
	return n + 1
}

// Profile fetches and parses a user's profile page. A fetch failure here
// aborts the acquisition for the user; individual missing fields do not.
func (c *Client) Profile(ctx context.Context, userID string) (*review.UserProfile, error) {
	url := ProfileURL(c.baseURL, userID)
	c.logger.InfoContext(ctx, "fetching profile", "user", userID, "url", url)

	body, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("profile for %s: %w", userID, err)
	}

	prof, fieldErrs, err := ParseProfile(body, userID)
	if err != nil {
		return nil, fmt.Errorf("profile for %s: %w", userID, err)
	}
	for _, fieldErr := range fieldErrs {
		c.logger.WarnContext(ctx, "profile field skipped", "user", userID, "error", fieldErr)
	}

	return prof, nil
}

// Reviews fetches all review pages for a user concurrently and flattens the
// results into one list. A page that fails contributes zero records; output
// order does not follow site pagination.
func (c *Client) Reviews(ctx context.Context, userID string, prof *review.UserProfile) []review.Record {
	pages := PageCount(prof, c.pageCap)

	sem := semaphore.NewWeighted(c.concurrency)
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	all := make([]review.Record, 0, pages*ratingsPerPage)

	for page := 1; page <= pages; page++ {
		url := ReviewPageURL(c.baseURL, userID, page)
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return nil //nolint:nilerr // sibling pages are independent failure domains
			}
			defer sem.Release(1)

			records := c.fetchPage(gctx, userID, url)
			if len(records) == 0 {
				return nil
			}

			mu.Lock()
			all = append(all, records...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return errors

	return all
}

// fetchPage retrieves and parses one review page, absorbing failures.
func (c *Client) fetchPage(ctx context.Context, userID, url string) []review.Record {
	body, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		c.logger.WarnContext(ctx, "review page skipped", "user", userID, "url", url, "error", err)
		return nil
	}

	records, fieldErrs, err := ParseReviewPage(body, userID)
	if err != nil {
		c.logger.WarnContext(ctx, "review page unparseable", "user", userID, "url", url, "error", err)
		return nil
	}
	for _, fieldErr := range fieldErrs {
		c.logger.DebugContext(ctx, "review field skipped", "user", userID, "url", url, "error", fieldErr)
	}

	return records
}

// GetReviews runs the full acquisition for one user: profile first, then the
// concurrent page fan-out. Only a profile failure is fatal.
func (c *Client) GetReviews(ctx context.Context, userID string) ([]review.Record, *review.UserProfile, error) {
	prof, err := c.Profile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return c.Reviews(ctx, userID, prof), prof, nil
}
