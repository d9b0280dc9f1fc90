package scrape

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/codeGROOVE-dev/bookworm/review"
)

// ParseProfile extracts aggregate profile statistics and rank badges from a
// profile page.
//
// Extraction steps are independent: a step that fails appends its outcome to
// fieldErrs and leaves its fields at their zero values without invalidating
// the steps that already ran. Only unreadable markup is a hard error.
func ParseProfile(data []byte, userID string) (prof *review.UserProfile, fieldErrs []error, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}

	prof = &review.UserProfile{UserID: userID}

	name := cleanTitle(doc.Find(profileNameSel).First().Text())
	if name == "" {
		fieldErrs = append(fieldErrs, fmt.Errorf("name: %w", &ParseError{Anchor: "profile name heading"}))
	} else {
		prof.Name = name
	}

	stats := doc.Find(statsBlockSel).First()
	if stats.Length() == 0 {
		// Without the stats container none of the remaining steps can run.
		fieldErrs = append(fieldErrs, fmt.Errorf("stats: %w", &ParseError{Anchor: "profile stats container"}))
		return prof, fieldErrs, nil
	}

	if statErrs := parseStats(stats, prof); len(statErrs) > 0 {
		fieldErrs = append(fieldErrs, statErrs...)
	}
	parseBadges(stats, prof)

	return prof, fieldErrs, nil
}

// parseStats reads the first three stat links in fixed order: ratings count,
// average rating, review count.
func parseStats(stats *goquery.Selection, prof *review.UserProfile) []error {
	links := stats.Find("a")
	if links.Length() < 3 {
		return []error{fmt.Errorf("stats: %w", &ParseError{Anchor: "profile stat links"})}
	}

	var errs []error

	if n, err := firstInt(links.Eq(0).Text()); err != nil {
		errs = append(errs, fmt.Errorf("num_ratings: %w", err))
	} else {
		prof.NumRatings = n
	}

	if avg, err := firstFloat(links.Eq(1).Text()); err != nil {
		errs = append(errs, fmt.Errorf("avg_rating: %w", err))
	} else {
		prof.AvgRating = avg
	}

	if n, err := firstInt(links.Eq(2).Text()); err != nil {
		errs = append(errs, fmt.Errorf("num_reviews: %w", err))
	} else {
		prof.NumReviews = n
	}

	return errs
}

// parseBadges reads the optional rank-badge links. A missing badge is the
// common case, not a failure.
func parseBadges(stats *goquery.Selection, prof *review.UserProfile) {
	if badge := stats.Find(bestReviewerSel).First(); badge.Length() > 0 {
		prof.IsBestReviewer = true
		if rank, err := firstInt(badge.Text()); err == nil {
			prof.ReviewerRank = rank
		}
	}

	if badge := stats.Find(mostFollowedSel).First(); badge.Length() > 0 {
		prof.IsMostFollowed = true
		if rank, err := firstInt(badge.Text()); err == nil {
			prof.FollowRank = rank
		}
	}
}
