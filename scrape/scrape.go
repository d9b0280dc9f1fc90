// Package scrape extracts review listings and profile statistics from
// Goodreads HTML pages.
//
// Parsing is structural: each extractor depends on a fixed containment anchor
// (a table, a stats container) and fails with *ParseError naming the anchor
// when it is absent. Individual field failures inside an otherwise-sound page
// are collected and absorbed by the caller rather than aborting the page.
package scrape

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Selectors for the structural contract the parsers depend on.
const (
	reviewTableSel  = "table#books"
	reviewRowSel    = "tr.bookalike.review"
	titleCellSel    = "td.field.title"
	ratingCellSel   = "td.field.rating"
	votesCellSel    = "td.field.votes"
	filledStarSel   = "span.staticStar.p10"
	profileNameSel  = "h1.userProfileName"
	statsBlockSel   = "div.profilePageUserStatsInfo"
	bestReviewerSel = "a#tl_best_reviewers"
	mostFollowedSel = "a#tl_most_followed"
)

const defaultBaseURL = "https://www.goodreads.com"

// ParseError reports that an expected structural anchor is absent from
// otherwise-successfully-fetched markup.
type ParseError struct {
	Anchor string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s not found in markup", e.Anchor)
}

// ProfileURL returns the profile page URL for a user.
func ProfileURL(baseURL, userID string) string {
	return fmt.Sprintf("%s/user/show/%s", baseURL, userID)
}

// ReviewPageURL returns the URL of one page of a user's review list.
func ReviewPageURL(baseURL, userID string, page int) string {
	return fmt.Sprintf("%s/review/list/%s?page=%d&sort=votes&view=reviews", baseURL, userID, page)
}

var (
	intPattern    = regexp.MustCompile(`([\d,]+)`)
	floatPattern  = regexp.MustCompile(`([\d.]+)`)
	titleMarker   = regexp.MustCompile(`title|\n`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	trailingParen = regexp.MustCompile(`\s*\([^)]*\)`)
)

// firstInt extracts the first comma-grouped integer from free text.
func firstInt(text string) (int, error) {
	m := intPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, &ParseError{Anchor: "number group"}
	}
	return strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
}

// firstFloat extracts the first decimal number from free text.
func firstFloat(text string) (float64, error) {
	m := floatPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, &ParseError{Anchor: "number group"}
	}
	return strconv.ParseFloat(m[1], 64)
}

// cleanTitle normalizes a raw title cell: strips the literal "title" marker
// token, collapses whitespace, and drops trailing parenthetical annotations
// (series and edition notes).
func cleanTitle(raw string) string {
	s := titleMarker.ReplaceAllString(raw, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = trailingParen.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
