// Package review defines the common types produced by the acquisition pipeline.
package review

// Record represents one review row extracted from a review-list page.
// Records are immutable once built and belong to exactly one user's list.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Record struct {
	UserID  string // Owner of the review list this row came from
	TitleID string // Site identifier for the book (last URL path segment)
	Title   string // Cleaned display title
	Rating  int    // Star rating in [0,5], counted from filled-star elements
	Votes   int    // Helpfulness votes, >= 0
}

// UserProfile represents aggregate statistics extracted from a profile page.
// Fields are populated incrementally by independent extraction steps; a step
// that fails leaves its fields at their zero values without invalidating the
// others. The struct is frozen once assembled for a request.
//
//nolint:govet // fieldalignment: intentional layout for readability
type UserProfile struct {
	UserID     string
	Name       string
	NumRatings int
	AvgRating  float64
	NumReviews int

	IsBestReviewer bool
	ReviewerRank   int

	IsMostFollowed bool
	FollowRank     int
}
