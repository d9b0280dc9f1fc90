// Package fetch retrieves pages from an unreliable HTML source with identity
// rotation and per-attempt deadlines.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

// NoDeadline marks an attempt that runs unbounded by the short per-attempt
// timeout. The final attempt of every fetch uses it (last-chance leniency).
const NoDeadline time.Duration = 0

// ErrShortContent marks a response body below the minimum size threshold.
// Undersized bodies are interstitial or error pages and count as soft
// failures: the fetch moves on to the next identity.
var ErrShortContent = errors.New("content below minimum size")

// DefaultIdentities is the stock outbound identity rotation. The exact set is
// configuration, not protocol: any non-empty list works.
var DefaultIdentities = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_3) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/113.0.5672.126 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:115.0) Gecko/20100101 Firefox/115.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 12_6_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.3 Safari/605.1.15",
}

// Error reports that every attempt to retrieve a URL was exhausted. A single
// timeout or transport error is never fatal; only total exhaustion is.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Error struct {
	URL      string
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Cacher caches raw page bodies keyed by URL. Implementations are expected to
// provide singleflight semantics so concurrent fetches of the same URL issue
// one request.
type Cacher interface {
	GetSet(ctx context.Context, key string, fetch func(context.Context) ([]byte, error), ttl ...time.Duration) ([]byte, error)
	TTL() time.Duration
}

// Client fetches pages with sequential identity rotation.
type Client struct {
	httpClient *http.Client
	cache      Cacher
	logger     *slog.Logger
	identities []string
	timeout    time.Duration
	attempts   int
	minSize    int
}

// Option configures a Client.
type Option func(*config)

type config struct {
	cache      Cacher
	logger     *slog.Logger
	identities []string
	timeout    time.Duration
	attempts   int
	minSize    int
}

// WithIdentities sets the outbound identity list, one per retry attempt.
func WithIdentities(identities []string) Option {
	return func(c *config) { c.identities = identities }
}

// WithTimeout sets the per-attempt deadline applied to every attempt except
// the last.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) { c.timeout = timeout }
}

// WithAttempts sets the configured attempt count. The effective count is
// max(attempts, len(identities)) so every identity gets a turn.
func WithAttempts(attempts int) Option {
	return func(c *config) { c.attempts = attempts }
}

// WithMinContentSize sets the soft-failure threshold for response bodies.
func WithMinContentSize(size int) Option {
	return func(c *config) { c.minSize = size }
}

// WithCache sets the page cache.
func WithCache(cache Cacher) Option {
	return func(c *config) { c.cache = cache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// New creates a fetch client.
func New(opts ...Option) *Client {
	cfg := &config{
		logger:     slog.Default(),
		identities: DefaultIdentities,
		timeout:    3500 * time.Millisecond,
		attempts:   3,
		minSize:    10000,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		// No client-level timeout: deadlines are threaded per attempt so
		// the final attempt can run unbounded.
		httpClient: &http.Client{},
		cache:      cfg.cache,
		logger:     cfg.logger,
		identities: cfg.identities,
		timeout:    cfg.timeout,
		attempts:   cfg.attempts,
		minSize:    cfg.minSize,
	}
}

// MaxAttempts returns the effective attempt budget for one fetch.
func (c *Client) MaxAttempts() int {
	if c.attempts > len(c.identities) {
		return c.attempts
	}
	return len(c.identities)
}

// attemptDeadline returns the deadline policy for attempt i (zero-based).
func (c *Client) attemptDeadline(i, maxAttempts int) time.Duration {
	if i >= maxAttempts-1 {
		return NoDeadline
	}
	return c.timeout
}

// Fetch retrieves the raw markup at url. Attempts are sequential, cycling
// through the identity list; exhaustion yields *Error.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if c.cache != nil {
		return c.cache.GetSet(ctx, url, func(ctx context.Context) ([]byte, error) {
			return c.doFetch(ctx, url)
		}, c.cache.TTL())
	}
	return c.doFetch(ctx, url)
}

func (c *Client) doFetch(ctx context.Context, url string) ([]byte, error) {
	maxAttempts := c.MaxAttempts()
	attempt := 0

	body, err := retry.DoWithData(
		func() ([]byte, error) {
			i := attempt
			attempt++
			return c.attemptFetch(ctx, url, i, maxAttempts)
		},
		retry.Context(ctx),
		retry.Attempts(uint(maxAttempts)), //nolint:gosec // maxAttempts is small and positive
		retry.Delay(50*time.Millisecond),
		retry.MaxJitter(25*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(error) bool { return ctx.Err() == nil }),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying fetch", "attempt", n+1, "url", url, "error", err)
		}),
	)
	if err != nil {
		return nil, &Error{URL: url, Attempts: maxAttempts, Err: err}
	}
	return body, nil
}

func (c *Client) attemptFetch(ctx context.Context, url string, i, maxAttempts int) ([]byte, error) {
	identity := c.identities[i%len(c.identities)]

	attemptCtx := ctx
	if deadline := c.attemptDeadline(i, maxAttempts); deadline != NoDeadline {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, deadline)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", identity)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // error ignored intentionally

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20)) // 5MB limit
	if err != nil {
		return nil, err
	}

	if len(body) < c.minSize {
		c.logger.Debug("undersized response", "url", url, "attempt", i+1, "bytes", len(body))
		return nil, fmt.Errorf("%w: %d bytes", ErrShortContent, len(body))
	}

	return body, nil
}
