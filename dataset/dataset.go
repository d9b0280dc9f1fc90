// Package dataset defines the reference tables the recommendation pipeline
// consumes.
//
// Tables are supplied fully-formed by the host's data-loading layer,
// constructed once, and passed by reference into every core call. The core
// never reads ambient global state.
package dataset

import (
	"errors"

	"github.com/codeGROOVE-dev/bookworm/genre"
)

// ErrIncompleteTables reports a Tables value missing a required table.
var ErrIncompleteTables = errors.New("incomplete reference tables")

// BookMeta holds catalog metadata for one book.
//
//nolint:govet // fieldalignment: intentional layout for readability
type BookMeta struct {
	Title      string
	Author     string
	Published  string
	Rating     float64 // overall historical rating across all site users
	NumRatings int     // total rating count across all site users
}

// UserMeta holds directory data for one cohort member.
type UserMeta struct {
	ID   string
	Name string
	URL  string
}

// CohortMember is one reference user's precomputed genre reading pattern.
// Cohort order is significant: it breaks score ties downstream.
type CohortMember struct {
	UserID    string
	Pct       genre.Vector // genre read-percentages, vocabulary-indexed
	ReadCount int          // total labeled reviews by this user
}

// Tables is the immutable reference-table context for one deployment.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Tables struct {
	Books   map[string]BookMeta           // title -> catalog metadata
	Users   map[string]UserMeta           // user ID -> directory entry
	Labels  map[string]genre.Vector       // title -> genre label vector
	Cohort  []CohortMember                // ordered reference cohort
	Ratings map[string]map[string]float64 // user ID -> title -> rating (0 = unrated)
}

// Validate reports whether every table required by the recommendation
// pipeline is present.
func (t *Tables) Validate() error {
	switch {
	case t.Books == nil:
		return errors.Join(ErrIncompleteTables, errors.New("catalog missing"))
	case t.Labels == nil:
		return errors.Join(ErrIncompleteTables, errors.New("genre labels missing"))
	case len(t.Cohort) == 0:
		return errors.Join(ErrIncompleteTables, errors.New("cohort missing"))
	case t.Ratings == nil:
		return errors.Join(ErrIncompleteTables, errors.New("rating matrix missing"))
	}
	return nil
}
