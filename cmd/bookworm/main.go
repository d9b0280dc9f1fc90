// Command bookworm fetches a Goodreads user's profile and review history.
//
// Usage:
//
//	bookworm 155041466-jamie-ren
//	bookworm -pages 10 -cache-ttl 24h 155041466-jamie-ren
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/codeGROOVE-dev/bookworm"
	"github.com/codeGROOVE-dev/bookworm/httpcache"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	verbose := flag.Bool("v", false, "verbose logging (same as -debug)")
	noCache := flag.Bool("no-cache", false, "disable HTTP caching (enabled by default with 30-day TTL)")
	cacheTTL := flag.Duration("cache-ttl", 30*24*time.Hour, "cache time-to-live (use 24h for testing)")
	pages := flag.Int("pages", 0, "cap on review pages to fetch (0 uses the default)")
	timeout := flag.Duration("timeout", 0, "per-attempt fetch deadline (0 uses the default)")
	attempts := flag.Int("attempts", 0, "fetch attempts per page (0 uses the default)")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: bookworm [options] <user-id>")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		fmt.Fprintln(os.Stderr, "\nThe user ID is the numeric-slug segment of a profile URL,")
		fmt.Fprintln(os.Stderr, "e.g. 155041466-jamie-ren from goodreads.com/user/show/155041466-jamie-ren")
		os.Exit(1)
	}

	userID := flag.Arg(0)

	// Setup logger
	logLevel := slog.LevelInfo
	if *debug || *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	// Setup cache
	var httpCache *httpcache.Cache
	if !*noCache {
		var err error
		httpCache, err = httpcache.New(*cacheTTL)
		if err != nil {
			logger.Warn("failed to initialize cache, continuing without cache", "error", err)
		} else {
			defer func() {
				if err := httpCache.Close(); err != nil {
					logger.Warn("failed to close cache", "error", err)
				}
			}()
			logger.Debug("HTTP cache initialized", "ttl", cacheTTL.String())
		}
	}

	// Build options
	var opts []bookworm.Option
	opts = append(opts, bookworm.WithLogger(logger))
	if httpCache != nil {
		opts = append(opts, bookworm.WithHTTPCache(httpCache))
	}
	if *pages > 0 {
		opts = append(opts, bookworm.WithPageCap(*pages))
	}
	if *timeout > 0 {
		opts = append(opts, bookworm.WithTimeout(*timeout))
	}
	if *attempts > 0 {
		opts = append(opts, bookworm.WithAttempts(*attempts))
	}

	ctx := context.Background()

	prof, reviews, err := bookworm.FetchUser(ctx, userID, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1) //nolint:gocritic // exitAfterDefer is acceptable in main
	}

	out := struct {
		Profile *bookworm.UserProfile `json:"profile"`
		Reviews []bookworm.Record     `json:"reviews"`
	}{Profile: prof, Reviews: reviews}

	if err := outputJSON(out); err != nil {
		fmt.Fprintf(os.Stderr, "Output error: %v\n", err)
		os.Exit(1)
	}
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
